package handler

import (
	"context"
	"time"

	"github.com/mymmrac/telego"

	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
)

// HandleCallbackQuery handles the undo and report buttons. Only admins of the
// group may press them.
func (h *Handler) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) error {
	if query.Message == nil {
		return nil
	}

	gid := query.Message.GetChat().ID
	mid := query.Message.GetMessageID()
	aid := query.From.ID

	payload, err := format.ParseButtonData(query.Data)
	if err != nil {
		logger.Debugf("Ignoring callback data %q: %v", query.Data, err)
		h.answer(ctx, query.ID, "", false)
		return nil
	}

	if !h.state.Admins.IsAdmin(gid, aid) {
		metrics.CallbacksTotal.WithLabelValues(payload.Action, "denied").Inc()
		h.answer(ctx, query.ID, h.t("not_admin"), true)
		return nil
	}

	uid, err := payload.Int64()
	if err != nil || uid == 0 {
		logger.Warningf("Invalid user id in callback data %q: %v", query.Data, err)
		h.answer(ctx, query.ID, "", false)
		return nil
	}

	var outcome string
	switch payload.Action {
	case service.ButtonUndo:
		outcome = h.handleUndo(ctx, query, payload.Type, gid, mid, uid, aid)
	case service.ButtonReport:
		outcome = h.handleReportButton(ctx, query, payload.Type, gid, mid, uid, aid)
	default:
		outcome = commandIgnored
		h.answer(ctx, query.ID, "", false)
	}

	metrics.CallbacksTotal.WithLabelValues(payload.Action, outcome).Inc()
	return nil
}

func (h *Handler) handleUndo(ctx context.Context, query telego.CallbackQuery, actionType string, gid int64, mid int, uid, aid int64) string {
	if !h.state.Users.TryLock(uid, gid) {
		h.answer(ctx, query.ID, h.t("handled_by_other"), true)
		return commandRefused
	}

	var res service.Result
	if actionType == service.TypeBan {
		res = h.moderator.UnbanUser(ctx, gid, uid, aid)
	} else {
		res = h.moderator.UnwarnUser(ctx, gid, uid, aid)
	}
	h.state.Users.Unlock(uid, gid)
	h.persister.Save(storage.CategoryUsers)

	h.edit(ctx, gid, mid, res.Text, nil)
	h.answer(ctx, query.ID, "", false)

	if !res.Changed {
		return commandRefused
	}
	return commandOK
}

func (h *Handler) handleReportButton(ctx context.Context, query telego.CallbackQuery, actionType string, gid int64, mid int, uid, aid int64) string {
	if actionType == service.TypeCancel {
		h.closeReport(gid, mid, uid)
		h.deleter.Delete(ctx, gid, mid)
		h.answer(ctx, query.ID, h.t("report_cancelled"), false)
		return commandOK
	}

	if !h.state.Users.TryLock(uid, gid) {
		h.answer(ctx, query.ID, h.t("handled_by_other"), true)
		return commandRefused
	}

	var res service.Result
	if actionType == service.TypeBan {
		res = h.moderator.BanUser(ctx, gid, uid, aid)
	} else {
		res = h.moderator.WarnUser(ctx, gid, uid, aid)
	}
	h.state.Users.Unlock(uid, gid)
	h.closeReport(gid, mid, uid)

	h.edit(ctx, gid, mid, res.Text, res.Markup)
	secs := reportFailSecs
	if res.Markup != nil {
		secs = reportDoneSecs
	}
	h.deleter.DeleteLater(gid, mid, time.Duration(secs)*time.Second)
	h.answer(ctx, query.ID, "", false)

	if !res.Changed {
		return commandRefused
	}
	return commandOK
}

// closeReport drops the report shown by message mid and the waiting flags of
// both parties
func (h *Handler) closeReport(gid int64, mid int, uid int64) {
	if record, ok := h.state.Reports.TakeByMessage(gid, mid); ok {
		h.moderator.ClearReport(record)
	} else {
		h.state.Users.Update(uid, func(u *models.UserRecord) {
			u.Waiting.Remove(gid)
		})
	}
	h.persister.Save(storage.CategoryUsers)
	h.persister.Save(storage.CategoryReports)
}
