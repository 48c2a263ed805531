package handler

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg-warn/internal/exchange"
	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
)

func (h *Handler) registerRoutes() {
	h.router.Handle(exchange.ActionConfig, exchange.TypeCommit, h.receiveConfigCommit)
	h.router.Handle(exchange.ActionConfig, exchange.TypeReply, h.receiveConfigReply)
	h.router.Handle(exchange.ActionHelp, exchange.TypeReport, h.receiveHelpReport)
	h.router.Handle(exchange.ActionLeave, exchange.TypeApprove, h.receiveLeaveApprove)
	h.router.Handle(exchange.ActionAdd, exchange.TypeBad, h.receiveBadID)
	h.router.Handle(exchange.ActionRemove, exchange.TypeBad, h.receiveBadID)
	h.router.Handle(exchange.ActionBackup, exchange.TypeNow, h.receiveBackupNow)
}

func (h *Handler) receiveConfigCommit(_ context.Context, env *exchange.Envelope) error {
	var commit exchange.ConfigCommit
	if err := env.Decode(&commit); err != nil {
		return err
	}
	if commit.GroupID == 0 {
		return fmt.Errorf("config commit without group id")
	}

	config := commit.Config
	if !models.ValidLimit(config.Limit) {
		logger.Warningf("Config commit for %d has limit %d, using %d", commit.GroupID, config.Limit, h.state.Configs.Defaults().Limit)
		config.Limit = h.state.Configs.Defaults().Limit
	}
	h.state.Configs.Set(commit.GroupID, config)
	h.persister.Save(storage.CategoryConfigs)
	return nil
}

func (h *Handler) receiveConfigReply(ctx context.Context, env *exchange.Envelope) error {
	var reply exchange.ConfigReply
	if err := env.Decode(&reply); err != nil {
		return err
	}
	if reply.GroupID == 0 || reply.ConfigLink == "" {
		return fmt.Errorf("incomplete config reply for group %d", reply.GroupID)
	}

	text := service.Line(h.lang, "admin_group", format.UserMention(reply.UserID)) +
		service.Line(h.lang, "action", format.Code(h.t("action_config_create"))) +
		service.Line(h.lang, "description", format.Code(h.t("config_link_text")))
	markup := tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(h.t("button_config")).WithURL(reply.ConfigLink),
	))
	h.sendReport(ctx, configReplySecs, reply.GroupID, text, 0, markup)
	return nil
}

func (h *Handler) receiveHelpReport(ctx context.Context, env *exchange.Envelope) error {
	var help exchange.HelpReport
	if err := env.Decode(&help); err != nil {
		return err
	}

	gid, uid := help.GroupID, help.UserID
	if !h.state.Configs.Get(gid).Report.Auto || !h.moderator.CanBeReported(gid, uid, 0) {
		logger.Debugf("Skipping auto report of %d in %d", uid, gid)
		return nil
	}

	res := h.moderator.ReportUser(ctx, gid, uid, 0, help.MessageID)
	sent := h.send(ctx, gid, res.Text, help.MessageID, res.Markup)
	if sent != nil {
		h.state.Reports.SetReportID(res.ReportKey, sent.MessageID)
	}
	h.persister.Save(storage.CategoryUsers)
	h.persister.Save(storage.CategoryReports)
	return nil
}

func (h *Handler) receiveLeaveApprove(ctx context.Context, env *exchange.Envelope) error {
	var approve exchange.LeaveApprove
	if err := env.Decode(&approve); err != nil {
		return err
	}
	gid := approve.GroupID
	if gid == 0 {
		return fmt.Errorf("leave approve without group id")
	}

	header := h.debug.Header(gid)
	if err := h.bot.LeaveChat(ctx, &telego.LeaveChatParams{ChatID: telego.ChatID{ID: gid}}); err != nil {
		metrics.TelegramErrors.WithLabelValues("leaveChat").Inc()
		logger.Warningf("Error leaving %d: %v", gid, err)
	}
	service.ForgetGroup(h.state, h.persister, gid)

	text := header + service.Line(h.lang, "status", format.Code(h.t("leave_approve")))
	if approve.Reason != "" {
		text += service.Line(h.lang, "reason", format.Code(h.t("reason_"+approve.Reason)))
	}
	h.debug.Send(ctx, text)
	return nil
}

func (h *Handler) receiveBadID(_ context.Context, env *exchange.Envelope) error {
	var entry exchange.IDEntry
	if err := env.Decode(&entry); err != nil {
		return err
	}
	if entry.Type != "user" || entry.ID == 0 {
		return nil
	}

	if env.Action == exchange.ActionAdd {
		h.state.Bad.AddUser(entry.ID)
	} else {
		h.state.Bad.RemoveUser(entry.ID)
	}
	h.persister.Save(storage.CategoryBad)
	return nil
}

func (h *Handler) receiveBackupNow(ctx context.Context, _ *exchange.Envelope) error {
	if err := h.persister.SaveAll(); err != nil {
		return err
	}
	return service.BackupFiles(ctx, h.exchange, h.persister.Store())
}
