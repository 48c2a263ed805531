package service

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"

	"tg-warn/internal/crash"
	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
)

// MessageSender sends plain bot messages
type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// DebugSender posts a line for every admin action to the debug channel
type DebugSender struct {
	sender      MessageSender
	channelID   int64
	projectName string
	projectLink string
	groups      *models.GroupInfoManager
	lang        string
}

func NewDebugSender(sender MessageSender, channelID int64, projectName, projectLink string, groups *models.GroupInfoManager, lang string) *DebugSender {
	return &DebugSender{
		sender:      sender,
		channelID:   channelID,
		projectName: projectName,
		projectLink: projectLink,
		groups:      groups,
		lang:        lang,
	}
}

// Header is the project and group part shared by every debug message
func (d *DebugSender) Header(gid int64) string {
	var b strings.Builder
	b.WriteString(Line(d.lang, "project", format.GeneralLink(d.projectName, d.projectLink)))
	if gid != 0 {
		name := format.Code(gid)
		if info := d.groups.GetGroupInfo(gid); info != nil {
			name = info.GetLinkedGroupName()
		}
		b.WriteString(Line(d.lang, "group_name", name))
		b.WriteString(Line(d.lang, "group_id", format.Code(gid)))
	}
	return b.String()
}

// ActionText renders the debug message of one moderation action
func (d *DebugSender) ActionText(gid, uid, aid int64, actionKey string) string {
	text := d.Header(gid) +
		Line(d.lang, "user_id", format.Code(uid)) +
		Line(d.lang, "action", format.Code(models.GetTranslation(d.lang, actionKey)))
	if aid != 0 {
		text += Line(d.lang, "admin_group", format.Code(aid))
	}
	return text
}

// Action implements Notifier
func (d *DebugSender) Action(ctx context.Context, gid, uid, aid int64, actionKey string) {
	d.Send(ctx, d.ActionText(gid, uid, aid, actionKey))
}

// Send posts text to the debug channel without blocking the caller
func (d *DebugSender) Send(ctx context.Context, text string) {
	if d.channelID == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	crash.SafeGoroutine("debug-message", func() {
		_, err := d.sender.SendMessage(ctx, &telego.SendMessageParams{
			ChatID:    telego.ChatID{ID: d.channelID},
			Text:      text,
			ParseMode: telego.ModeHTML,
			LinkPreviewOptions: &telego.LinkPreviewOptions{
				IsDisabled: true,
			},
		})
		if err != nil {
			metrics.TelegramErrors.WithLabelValues("sendMessage").Inc()
			logger.Warningf("Error sending debug message: %v", err)
		}
	})
}
