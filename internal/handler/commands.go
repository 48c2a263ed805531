package handler

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"

	"tg-warn/internal/exchange"
	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
)

// Auto-delete delays of command results, in seconds
const (
	actionDoneSecs  = 180
	actionFailSecs  = 15
	configShowSecs  = 30
	configDoneSecs  = 10
	configFailSecs  = 5
	configReplySecs = 180
	reportDoneSecs  = 60
	reportFailSecs  = 10
)

// command outcomes, used as metric labels
const (
	commandOK      = "ok"
	commandRefused = "refused"
	commandIgnored = "ignored"
	commandFailed  = "failed"
)

// GroupAnonymousBot posts for anonymous admins
const anonymousAdminID = 1087968824

// HandleCommand runs one group command. Every command except version is
// ignored in the test group, version only works there.
func (h *Handler) HandleCommand(ctx context.Context, command, text string, message telego.Message) {
	gid := message.Chat.ID
	inTestGroup := h.cfg.Warn.TestGroupID != 0 && gid == h.cfg.Warn.TestGroupID

	if command == "version" {
		if inTestGroup {
			metrics.CommandsTotal.WithLabelValues(command, h.handleVersion(ctx, message)).Inc()
		}
		return
	}
	if inTestGroup || message.From == nil {
		return
	}

	var outcome string
	switch command {
	case "admin", "admins":
		outcome = h.handleAdmin(ctx, text, message)
	case "ban":
		outcome = h.handleBan(ctx, text, message)
	case "config":
		outcome = h.handleConfig(ctx, text, message)
	case "forgive":
		outcome = h.handleForgive(ctx, text, message)
	case "report":
		outcome = h.handleReport(ctx, text, message)
	case "warn":
		outcome = h.handleWarn(ctx, text, message)
	case "warn_config":
		outcome = h.handleWarnConfig(ctx, text, message)
	default:
		return
	}

	logger.Debugf("Command %s in %d by %d: %s", command, gid, message.From.ID, outcome)
	metrics.CommandsTotal.WithLabelValues(command, outcome).Inc()
	h.deleter.Delete(ctx, gid, message.MessageID)
}

// withReason appends the reason given after the command
func (h *Handler) withReason(text, command string) string {
	if reason := GetReason(command); reason != "" {
		text += service.Line(h.lang, "reason", format.Code(reason))
	}
	return text
}

func (h *Handler) isAdmin(gid int64, message telego.Message) bool {
	return h.admins.IsAdmin(gid, message)
}

// classD resolves the target of an admin command, refusing admins
func (h *Handler) classD(gid int64, message telego.Message) (int64, int) {
	uid, reMid := GetClassDID(message, h.self.ID, func(uid int64) bool {
		return h.state.Admins.IsAdmin(gid, uid)
	})
	if uid == 0 || uid == anonymousAdminID || h.state.Admins.IsAdmin(gid, uid) {
		return 0, reMid
	}
	return uid, reMid
}

func (h *Handler) handleAdmin(ctx context.Context, text string, message telego.Message) string {
	gid := message.Chat.ID
	if !h.state.Configs.Get(gid).Mention || h.isAdmin(gid, message) {
		return commandIgnored
	}

	uid := message.From.ID
	if !h.moderator.CanCallAdmins(gid, uid) {
		return commandRefused
	}

	sent := h.send(ctx, gid, h.withReason(h.moderator.CallAdmins(gid, uid), text), 0, nil)
	if sent == nil {
		return commandFailed
	}

	if old := h.state.Calls.Replace(gid, sent.MessageID, h.clock.Now().Unix()); old != 0 {
		h.deleter.Delete(ctx, gid, old)
	}
	h.persister.Save(storage.CategoryMessages)
	return commandOK
}

// moderate runs a warn or ban command against the replied user
func (h *Handler) moderate(ctx context.Context, text string, message telego.Message,
	action func(ctx context.Context, gid, uid, aid int64) service.Result) string {
	gid := message.Chat.ID
	if !h.isAdmin(gid, message) {
		return commandIgnored
	}

	uid, reMid := h.classD(gid, message)
	if uid == 0 {
		return commandIgnored
	}

	if !h.state.Users.TryLock(uid, gid) {
		h.sendReport(ctx, actionFailSecs, gid, h.t("handled_by_other"), 0, nil)
		return commandRefused
	}
	res := action(ctx, gid, uid, message.From.ID)
	h.state.Users.Unlock(uid, gid)
	h.persister.Save(storage.CategoryUsers)

	secs := actionFailSecs
	body := res.Text
	if res.Markup != nil {
		secs = actionDoneSecs
		body = h.withReason(body, text)
	}
	h.sendReport(ctx, secs, gid, body, 0, res.Markup)

	if reMid != 0 {
		h.deleter.Delete(ctx, gid, reMid)
	}
	if !res.Changed {
		return commandRefused
	}
	return commandOK
}

func (h *Handler) handleBan(ctx context.Context, text string, message telego.Message) string {
	return h.moderate(ctx, text, message, h.moderator.BanUser)
}

func (h *Handler) handleWarn(ctx context.Context, text string, message telego.Message) string {
	return h.moderate(ctx, text, message, h.moderator.WarnUser)
}

func (h *Handler) handleForgive(ctx context.Context, text string, message telego.Message) string {
	gid := message.Chat.ID
	if !h.isAdmin(gid, message) {
		return commandIgnored
	}

	uid, _ := h.classD(gid, message)
	if uid == 0 {
		return commandIgnored
	}

	res := h.moderator.ForgiveUser(ctx, gid, uid, message.From.ID)
	h.state.Users.Update(uid, func(u *models.UserRecord) {
		u.Locked.Remove(gid)
		u.Waiting.Remove(gid)
	})
	h.persister.Save(storage.CategoryUsers)

	if !res.Changed {
		h.sendReport(ctx, actionFailSecs, gid, res.Text, 0, nil)
		return commandRefused
	}
	h.sendReport(ctx, actionDoneSecs, gid, h.withReason(res.Text, text), 0, nil)
	return commandOK
}

func (h *Handler) handleReport(ctx context.Context, text string, message telego.Message) string {
	gid := message.Chat.ID
	if !h.state.Configs.Get(gid).Report.Manual || h.isAdmin(gid, message) {
		return commandIgnored
	}

	rid := message.From.ID
	uid, reMid := h.classD(gid, message)
	if reMid == 0 && message.ReplyToMessage != nil {
		reMid = message.ReplyToMessage.MessageID
	}
	if !h.moderator.CanBeReported(gid, uid, rid) {
		return commandRefused
	}

	res := h.moderator.ReportUser(ctx, gid, uid, rid, reMid)
	sent := h.send(ctx, gid, h.withReason(res.Text, text), reMid, res.Markup)
	if sent != nil {
		h.state.Reports.SetReportID(res.ReportKey, sent.MessageID)
	}
	h.persister.Save(storage.CategoryUsers)
	h.persister.Save(storage.CategoryReports)
	if sent == nil {
		return commandFailed
	}
	return commandOK
}

func (h *Handler) handleConfig(ctx context.Context, text string, message telego.Message) string {
	gid := message.Chat.ID
	if !h.isAdmin(gid, message) {
		return commandIgnored
	}

	args := CommandArgs(text)
	if len(args) != 1 || !strings.EqualFold(args[0], "warn") {
		return commandIgnored
	}

	c, ok := h.state.Configs.TryLock(gid, h.clock.Now().Unix())
	if !ok {
		return commandRefused
	}
	h.persister.Save(storage.CategoryConfigs)

	aid := message.From.ID
	info := service.GetGroupInfo(ctx, h.bot, h.state.Groups, gid)
	err := h.exchange.Share(ctx, []string{exchange.BotConfig}, exchange.ActionConfig, exchange.TypeAsk, exchange.ConfigAsk{
		ProjectName: h.cfg.Warn.ProjectName,
		ProjectLink: h.cfg.Warn.ProjectLink,
		GroupID:     gid,
		GroupName:   info.GroupName,
		GroupLink:   info.GroupLink,
		UserID:      aid,
		Config:      c,
		Default:     h.state.Configs.Defaults(),
	})
	if err != nil {
		logger.Warningf("Error asking for a config session in %d: %v", gid, err)
		return commandFailed
	}

	h.debug.Send(ctx, h.debug.Header(gid)+
		service.Line(h.lang, "admin_group", format.UserMention(aid))+
		service.Line(h.lang, "action", format.Code(h.t("action_config_create"))))
	return commandOK
}

func (h *Handler) handleWarnConfig(ctx context.Context, text string, message telego.Message) string {
	gid := message.Chat.ID
	if !h.isAdmin(gid, message) {
		return commandIgnored
	}

	aid := message.From.ID
	current := h.state.Configs.Get(gid)
	change := service.ApplyWarnConfig(current, h.state.Configs.Defaults(), CommandArgs(text), h.clock.Now().Unix())

	if change.Show {
		h.sendReport(ctx, configShowSecs, gid, service.ConfigText(h.lang, aid, change.Config), 0, nil)
		return commandOK
	}

	if change.Success && change.Config != current {
		h.state.Configs.Set(gid, change.Config)
		h.persister.Save(storage.CategoryConfigs)
	}

	secs := configFailSecs
	if change.Success {
		secs = configDoneSecs
	}
	h.sendReport(ctx, secs, gid, service.ConfigChangeText(h.lang, aid, change), 0, nil)

	if !change.Success {
		return commandRefused
	}
	return commandOK
}

func (h *Handler) handleVersion(ctx context.Context, message telego.Message) string {
	if message.From == nil {
		return commandIgnored
	}
	text := service.Line(h.lang, "version", format.Bold(h.cfg.Warn.Version)) +
		service.Line(h.lang, "admin_group", format.UserMention(message.From.ID))
	if h.send(ctx, message.Chat.ID, text, message.MessageID, nil) == nil {
		return commandFailed
	}
	return commandOK
}
