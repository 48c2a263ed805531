package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/models"
)

// ChatReader reads chat details from Telegram
type ChatReader interface {
	GetChat(ctx context.Context, params *telego.GetChatParams) (*telego.ChatFullInfo, error)
}

// GetGroupInfo returns the cached title and link of a group, asking
// Telegram on a cache miss
func GetGroupInfo(ctx context.Context, reader ChatReader, groups *models.GroupInfoManager, groupID int64) *models.GroupInfo {
	if groupInfo := groups.GetGroupInfo(groupID); groupInfo != nil {
		return groupInfo
	}

	name, link := GetGroupName(ctx, reader, groupID)
	if name == "" {
		return &models.GroupInfo{GroupID: groupID, GroupName: fmt.Sprint(groupID), GroupLink: link}
	}

	groupInfo := &models.GroupInfo{GroupID: groupID, GroupName: name, GroupLink: link}
	groups.AddGroupInfo(groupInfo)
	return groupInfo
}

// GetGroupName returns the title and a link of a group. The title is empty
// when Telegram could not be reached.
func GetGroupName(ctx context.Context, reader ChatReader, chatID int64) (string, string) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	fallback := fmt.Sprintf("https://t.me/c/%s", format.ChannelLinkID(chatID))

	chatInfo, err := reader.GetChat(ctx, &telego.GetChatParams{
		ChatID: telego.ChatID{ID: chatID},
	})
	if err != nil {
		logger.Warningf("Error getting chat info for %d: %v", chatID, err)
		return "", fallback
	}

	switch {
	case chatInfo.Username != "":
		return chatInfo.Title, fmt.Sprintf("https://t.me/%s", chatInfo.Username)
	case chatInfo.InviteLink != "":
		return chatInfo.Title, chatInfo.InviteLink
	default:
		return chatInfo.Title, fallback
	}
}
