package handler

import (
	"context"

	"github.com/mymmrac/telego"

	"tg-warn/internal/logger"
	"tg-warn/internal/service"
)

// HandleMyChatMember tracks the bot joining or leaving groups
func (h *Handler) HandleMyChatMember(ctx context.Context, update telego.ChatMemberUpdated) error {
	chat := update.Chat
	if chat.Type != telego.ChatTypeGroup && chat.Type != telego.ChatTypeSupergroup {
		return nil
	}

	status := update.NewChatMember.MemberStatus()
	logger.Infof("Bot status in %d changed to %s by %d", chat.ID, status, update.From.ID)

	switch status {
	case telego.MemberStatusLeft, telego.MemberStatusBanned:
		service.ForgetGroup(h.state, h.persister, chat.ID)
	case telego.MemberStatusAdministrator:
		if _, err := h.admins.Refresh(ctx, chat.ID); err != nil {
			logger.Warningf("Error loading admins of %d: %v", chat.ID, err)
		}
	}
	return nil
}
