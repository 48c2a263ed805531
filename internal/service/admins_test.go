package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-warn/internal/models"
)

const (
	selfID     int64 = 900
	ownerID    int64 = 901
	siblingBot int64 = 902
)

func adminMember(id int64, isBot, canDelete, canRestrict bool) telego.ChatMember {
	return &telego.ChatMemberAdministrator{
		Status:             telego.MemberStatusAdministrator,
		User:               telego.User{ID: id, IsBot: isBot},
		CanDeleteMessages:  canDelete,
		CanRestrictMembers: canRestrict,
	}
}

type fakeAdminReader struct {
	members []telego.ChatMember
	err     error
}

func (f *fakeAdminReader) GetChatAdministrators(context.Context, *telego.GetChatAdministratorsParams) ([]telego.ChatMember, error) {
	return f.members, f.err
}

func TestFilterAdmins(t *testing.T) {
	members := []telego.ChatMember{
		&telego.ChatMemberOwner{Status: telego.MemberStatusCreator, User: telego.User{ID: 1}},
		adminMember(ownerID, false, true, true),
		adminMember(selfID, true, true, true),
		adminMember(siblingBot, true, false, false),
		adminMember(777, true, true, true),
	}

	admins, check := FilterAdmins(members, selfID, ownerID, models.NewIDSet(siblingBot))
	assert.Equal(t, []int64{1, ownerID, siblingBot}, admins.Slice())
	assert.False(t, admins.Has(777))
	assert.False(t, admins.Has(selfID), "the bot itself is not in the sibling list")
	assert.True(t, check.Present)
	assert.True(t, check.CanModerate)
	assert.True(t, check.OwnerPresent)
	assert.Equal(t, "", check.LeaveReason())
}

func TestFilterAdminsLeaveReasons(t *testing.T) {
	_, check := FilterAdmins([]telego.ChatMember{
		adminMember(selfID, true, true, false),
		adminMember(ownerID, false, true, true),
	}, selfID, ownerID, nil)
	assert.Equal(t, LeaveReasonPermissions, check.LeaveReason())

	_, check = FilterAdmins([]telego.ChatMember{
		adminMember(selfID, true, true, true),
	}, selfID, ownerID, nil)
	assert.Equal(t, LeaveReasonUser, check.LeaveReason())

	_, check = FilterAdmins([]telego.ChatMember{
		adminMember(selfID, true, true, true),
	}, selfID, 0, nil)
	assert.Equal(t, "", check.LeaveReason(), "no owner configured")

	_, check = FilterAdmins([]telego.ChatMember{
		adminMember(ownerID, false, true, true),
	}, selfID, ownerID, nil)
	assert.False(t, check.Present)
}

func TestAdminServiceRefresh(t *testing.T) {
	state := models.NewState(models.GroupConfig{Limit: 3})
	reader := &fakeAdminReader{members: []telego.ChatMember{
		adminMember(selfID, true, true, true),
		adminMember(testAdmin, false, false, false),
	}}
	svc := NewAdminService(reader, state.Admins, selfID, 0, nil)

	check, err := svc.Refresh(context.Background(), testGroup)
	require.NoError(t, err)
	assert.Equal(t, testGroup, check.GroupID)
	assert.True(t, state.Admins.IsAdmin(testGroup, testAdmin))

	assert.True(t, svc.IsAdmin(testGroup, telego.Message{From: &telego.User{ID: testAdmin}}))
	assert.False(t, svc.IsAdmin(testGroup, telego.Message{From: &telego.User{ID: testUser}}))
	assert.True(t, svc.IsAdmin(testGroup, telego.Message{
		From:       &telego.User{ID: 1087968824},
		SenderChat: &telego.Chat{ID: testGroup},
	}))
}

func TestAdminServiceRefreshNotPresent(t *testing.T) {
	state := models.NewState(models.GroupConfig{Limit: 3})
	reader := &fakeAdminReader{members: []telego.ChatMember{adminMember(testAdmin, false, true, true)}}
	svc := NewAdminService(reader, state.Admins, selfID, 0, nil)

	check, err := svc.Refresh(context.Background(), testGroup)
	require.NoError(t, err)
	assert.False(t, check.Present)
	assert.True(t, state.Admins.Known(testGroup))
	assert.Equal(t, []int64{testAdmin}, state.Admins.Admins(testGroup))
}

func TestAdminServiceEnsure(t *testing.T) {
	state := models.NewState(models.GroupConfig{Limit: 3})
	reader := &fakeAdminReader{err: errors.New("network down")}
	svc := NewAdminService(reader, state.Admins, selfID, 0, nil)

	svc.Ensure(context.Background(), testGroup)
	assert.False(t, state.Admins.Known(testGroup))

	reader.err = nil
	reader.members = []telego.ChatMember{adminMember(selfID, true, true, true)}
	svc.Ensure(context.Background(), testGroup)
	assert.True(t, state.Admins.Known(testGroup))
}

func TestIsGone(t *testing.T) {
	assert.True(t, IsGone(&telegoapi.Error{ErrorCode: 403, Description: "Forbidden: bot was kicked"}))
	assert.True(t, IsGone(errors.Join(errors.New("api"), &telegoapi.Error{ErrorCode: 400})))
	assert.False(t, IsGone(&telegoapi.Error{ErrorCode: 429}))
	assert.False(t, IsGone(errors.New("timeout")))
}
