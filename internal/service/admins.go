package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"

	"tg-warn/internal/logger"
	"tg-warn/internal/models"
)

// Leave reasons shared with MANAGE
const (
	LeaveReasonPermissions = "permissions"
	LeaveReasonUser        = "user"
)

// AdminReader lists the admins of a chat
type AdminReader interface {
	GetChatAdministrators(ctx context.Context, params *telego.GetChatAdministratorsParams) ([]telego.ChatMember, error)
}

// AdminCheck is what a fresh admin list says about the bot's position
type AdminCheck struct {
	GroupID      int64
	Present      bool
	CanModerate  bool
	OwnerPresent bool
}

// LeaveReason returns the reason to ask MANAGE for a leave, "" when the bot
// can keep working in the group
func (c AdminCheck) LeaveReason() string {
	switch {
	case !c.OwnerPresent:
		return LeaveReasonUser
	case !c.CanModerate:
		return LeaveReasonPermissions
	default:
		return ""
	}
}

// FilterAdmins keeps human admins plus the sibling bots and inspects the
// bot's own rights. ownerID 0 means no owner account is required.
func FilterAdmins(members []telego.ChatMember, selfID, ownerID int64, botIDs models.IDSet) (models.IDSet, AdminCheck) {
	admins := models.NewIDSet()
	check := AdminCheck{OwnerPresent: ownerID == 0}

	for _, member := range members {
		user := member.MemberUser()
		if user.ID == selfID {
			check.Present = true
			switch m := member.(type) {
			case *telego.ChatMemberAdministrator:
				check.CanModerate = m.CanDeleteMessages && m.CanRestrictMembers
			case *telego.ChatMemberOwner:
				check.CanModerate = true
			}
		}
		if user.IsBot && !botIDs.Has(user.ID) {
			continue
		}
		admins.Add(user.ID)
		if user.ID == ownerID {
			check.OwnerPresent = true
		}
	}
	return admins, check
}

// IsGone reports whether err means the bot can no longer see the chat
func IsGone(err error) bool {
	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 400 || apiErr.ErrorCode == 403
	}
	return false
}

// AdminService keeps the admin table in sync with Telegram
type AdminService struct {
	reader  AdminReader
	admins  *models.AdminManager
	selfID  int64
	ownerID int64
	botIDs  models.IDSet
}

func NewAdminService(reader AdminReader, admins *models.AdminManager, selfID, ownerID int64, botIDs []int64) *AdminService {
	return &AdminService{
		reader:  reader,
		admins:  admins,
		selfID:  selfID,
		ownerID: ownerID,
		botIDs:  models.NewIDSet(botIDs...),
	}
}

// Refresh fetches the admin list of a group and stores it. Groups where the
// bot is not an admin are stored too, so the daily refresh can leave them.
func (s *AdminService) Refresh(ctx context.Context, gid int64) (AdminCheck, error) {
	members, err := s.reader.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{
		ChatID: telego.ChatID{ID: gid},
	})
	if err != nil {
		return AdminCheck{GroupID: gid}, fmt.Errorf("failed to get admins of %d: %w", gid, err)
	}

	admins, check := FilterAdmins(members, s.selfID, s.ownerID, s.botIDs)
	check.GroupID = gid
	s.admins.Set(gid, admins)
	return check, nil
}

// Ensure loads the admin list of a group seen for the first time
func (s *AdminService) Ensure(ctx context.Context, gid int64) {
	if s.admins.Known(gid) {
		return
	}
	if _, err := s.Refresh(ctx, gid); err != nil {
		logger.Warningf("Error loading admins: %v", err)
	}
}

// IsAdmin checks a sender against the admin table. Anonymous admins post as
// the group itself.
func (s *AdminService) IsAdmin(gid int64, message telego.Message) bool {
	if message.SenderChat != nil && message.SenderChat.ID == gid {
		return true
	}
	if message.From == nil {
		return false
	}
	return s.admins.IsAdmin(gid, message.From.ID)
}
