package handler

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-warn/internal/exchange"
	"tg-warn/internal/models"
	"tg-warn/internal/storage"
)

func channelPost(t *testing.T, from, action, actionType string, data interface{}) telego.Message {
	t.Helper()
	text, err := exchange.Format(from, []string{"WARN"}, action, actionType, data)
	require.NoError(t, err)
	return telego.Message{
		MessageID: 1,
		Chat:      telego.Chat{ID: testChannel, Type: telego.ChatTypeChannel},
		Text:      text,
	}
}

func TestConfigCommitRoute(t *testing.T) {
	env := newTestEnv(t)
	committed := models.GroupConfig{Limit: 5, Mention: true, Report: models.ReportConfig{Auto: true}}

	post := channelPost(t, exchange.BotConfig, exchange.ActionConfig, exchange.TypeCommit, exchange.ConfigCommit{
		GroupID: testGroup,
		Config:  committed,
	})
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))

	assert.Equal(t, committed, env.state.Configs.Get(testGroup))

	var configs map[int64]models.GroupConfig
	ok, err := env.store.Load(storage.CategoryConfigs, &configs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, configs[testGroup].Limit)
}

func TestConfigCommitRouteKeepsLimitInRange(t *testing.T) {
	env := newTestEnv(t)

	for _, limit := range []int{0, 1, 9} {
		post := channelPost(t, exchange.BotConfig, exchange.ActionConfig, exchange.TypeCommit, exchange.ConfigCommit{
			GroupID: testGroup,
			Config:  models.GroupConfig{Limit: limit, Mention: true},
		})
		require.NoError(t, env.h.HandleChannelPost(context.Background(), post))

		stored := env.state.Configs.Get(testGroup)
		assert.Equal(t, 3, stored.Limit, "limit %d", limit)
		assert.True(t, stored.Mention)
	}

	result := env.h.moderator.WarnUser(context.Background(), testGroup, testUser, testAdmin)
	assert.Contains(t, result.Text, "1/3")
	assert.False(t, env.state.Users.Get(testUser).Ban.Has(testGroup))
}

func TestConfigReplyRoute(t *testing.T) {
	env := newTestEnv(t)

	post := channelPost(t, exchange.BotConfig, exchange.ActionConfig, exchange.TypeReply, exchange.ConfigReply{
		GroupID:    testGroup,
		UserID:     testAdmin,
		ConfigLink: "https://t.me/config_bot?start=abc",
	})
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))

	sent := env.bot.SentTo(testGroup)
	require.Len(t, sent, 1)
	markup, ok := sent[0].ReplyMarkup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "https://t.me/config_bot?start=abc", markup.InlineKeyboard[0][0].URL)
}

func TestBadIDRoutes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	add := channelPost(t, exchange.BotNoSpam, exchange.ActionAdd, exchange.TypeBad, exchange.IDEntry{ID: testUser, Type: "user"})
	require.NoError(t, env.h.HandleChannelPost(ctx, add))
	assert.True(t, env.state.Bad.IsBadUser(testUser))

	channel := channelPost(t, exchange.BotNoSpam, exchange.ActionAdd, exchange.TypeBad, exchange.IDEntry{ID: -100777, Type: "channel"})
	require.NoError(t, env.h.HandleChannelPost(ctx, channel))
	assert.False(t, env.state.Bad.IsBadUser(-100777))

	remove := channelPost(t, exchange.BotNoSpam, exchange.ActionRemove, exchange.TypeBad, exchange.IDEntry{ID: testUser, Type: "user"})
	require.NoError(t, env.h.HandleChannelPost(ctx, remove))
	assert.False(t, env.state.Bad.IsBadUser(testUser))
}

func TestHelpReportRoute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	help := exchange.HelpReport{GroupID: testGroup, UserID: testUser, MessageID: 42}

	// auto reports disabled
	require.NoError(t, env.h.HandleChannelPost(ctx, channelPost(t, exchange.BotNoSpam, exchange.ActionHelp, exchange.TypeReport, help)))
	assert.Empty(t, env.bot.Sent())

	env.state.Configs.Set(testGroup, models.GroupConfig{Limit: 3, Report: models.ReportConfig{Auto: true}})
	require.NoError(t, env.h.HandleChannelPost(ctx, channelPost(t, exchange.BotNoSpam, exchange.ActionHelp, exchange.TypeReport, help)))

	sent := env.bot.SentTo(testGroup)
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].ReplyParameters)
	assert.Equal(t, 42, sent[0].ReplyParameters.MessageID)
	assert.Contains(t, sent[0].Text, models.GetTranslation(models.LangEnglish, "auto_report"))

	record, ok := env.state.Reports.TakeByMessage(testGroup, 501)
	require.True(t, ok)
	assert.True(t, record.Auto())
	assert.True(t, env.state.Users.Get(testUser).Waiting.Has(testGroup))

	// the user is already waiting for a decision
	require.NoError(t, env.h.HandleChannelPost(ctx, channelPost(t, exchange.BotNoSpam, exchange.ActionHelp, exchange.TypeReport, help)))
	assert.Len(t, env.bot.SentTo(testGroup), 1)
}

func TestLeaveApproveRoute(t *testing.T) {
	env := newTestEnv(t)
	env.state.Configs.Set(testGroup, models.GroupConfig{Limit: 4})
	env.state.Users.Update(testUser, func(u *models.UserRecord) { u.Warn[testGroup] = 1 })

	post := channelPost(t, exchange.BotManage, exchange.ActionLeave, exchange.TypeApprove, exchange.LeaveApprove{
		GroupID: testGroup,
		Reason:  "permissions",
	})
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))

	assert.Equal(t, []int64{testGroup}, env.bot.left)
	assert.False(t, env.state.Admins.Known(testGroup))
	assert.NotContains(t, env.state.Configs.Snapshot(), testGroup)
	assert.Empty(t, env.state.Users.Get(testUser).Warn)
}

func TestBackupNowRoute(t *testing.T) {
	env := newTestEnv(t)

	post := channelPost(t, exchange.BotBackup, exchange.ActionBackup, exchange.TypeNow, struct{}{})
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))

	require.Len(t, env.bot.docs, len(storage.Categories))
	assert.Equal(t, testChannel, env.bot.docs[0].ChatID.ID)
	envelope, err := exchange.Parse(env.bot.docs[0].Caption)
	require.NoError(t, err)
	assert.Equal(t, exchange.TypeData, envelope.Type)
	assert.True(t, envelope.AddressedTo(exchange.BotBackup))
}

func TestChannelPostsFromOtherChats(t *testing.T) {
	env := newTestEnv(t)

	post := channelPost(t, exchange.BotNoSpam, exchange.ActionAdd, exchange.TypeBad, exchange.IDEntry{ID: testUser, Type: "user"})
	post.Chat.ID = -100123
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))
	assert.False(t, env.state.Bad.IsBadUser(testUser))
}

func TestEnvelopeForOtherBots(t *testing.T) {
	env := newTestEnv(t)

	text, err := exchange.Format(exchange.BotNoSpam, []string{exchange.BotManage}, exchange.ActionAdd, exchange.TypeBad,
		exchange.IDEntry{ID: testUser, Type: "user"})
	require.NoError(t, err)
	post := telego.Message{Chat: telego.Chat{ID: testChannel}, Text: text}
	require.NoError(t, env.h.HandleChannelPost(context.Background(), post))
	assert.False(t, env.state.Bad.IsBadUser(testUser))
}

func TestMyChatMemberLeft(t *testing.T) {
	env := newTestEnv(t)
	env.state.Configs.Set(testGroup, models.GroupConfig{Limit: 4})

	update := telego.ChatMemberUpdated{
		Chat:          telego.Chat{ID: testGroup, Type: telego.ChatTypeSupergroup},
		From:          telego.User{ID: testAdmin},
		NewChatMember: &telego.ChatMemberLeft{Status: telego.MemberStatusLeft, User: telego.User{ID: testSelf}},
	}
	require.NoError(t, env.h.HandleMyChatMember(context.Background(), update))

	assert.False(t, env.state.Admins.Known(testGroup))
	assert.NotContains(t, env.state.Configs.Snapshot(), testGroup)
}

func TestMyChatMemberPromoted(t *testing.T) {
	env := newTestEnv(t)
	env.bot.admins = []telego.ChatMember{
		&telego.ChatMemberOwner{Status: telego.MemberStatusCreator, User: telego.User{ID: testAdmin}},
		&telego.ChatMemberAdministrator{
			Status:             telego.MemberStatusAdministrator,
			User:               telego.User{ID: testSelf, IsBot: true},
			CanDeleteMessages:  true,
			CanRestrictMembers: true,
		},
		&telego.ChatMemberAdministrator{Status: telego.MemberStatusAdministrator, User: telego.User{ID: 4004}},
	}

	update := telego.ChatMemberUpdated{
		Chat: telego.Chat{ID: testGroup, Type: telego.ChatTypeSupergroup},
		From: telego.User{ID: testAdmin},
		NewChatMember: &telego.ChatMemberAdministrator{
			Status: telego.MemberStatusAdministrator,
			User:   telego.User{ID: testSelf, IsBot: true},
		},
	}
	require.NoError(t, env.h.HandleMyChatMember(context.Background(), update))

	assert.True(t, env.state.Admins.IsAdmin(testGroup, 4004))
	assert.False(t, env.state.Admins.IsAdmin(testGroup, testSelf))
}
