package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
)

// Callback actions and types carried by inline buttons
const (
	ButtonUndo   = "undo"
	ButtonReport = "report"

	TypeWarn   = "warn"
	TypeBan    = "ban"
	TypeCancel = "cancel"
)

// ChatModerator is the part of the bot API that removes or readmits members
type ChatModerator interface {
	BanChatMember(ctx context.Context, params *telego.BanChatMemberParams) error
	UnbanChatMember(ctx context.Context, params *telego.UnbanChatMemberParams) error
}

// Notifier receives a line for every successful moderation action
type Notifier interface {
	Action(ctx context.Context, gid, uid, aid int64, actionKey string)
}

// RecordWriter stores moderation audit rows
type RecordWriter interface {
	Create(record *models.ModerationRecord) error
}

// Result is the message produced by a moderation action
type Result struct {
	Text      string
	Markup    *telego.InlineKeyboardMarkup
	Changed   bool
	ReportKey string
}

// Moderator applies warn and ban actions to the user table
type Moderator struct {
	state    *models.State
	chat     ChatModerator
	notifier Notifier
	records  RecordWriter
	clock    clockwork.Clock
	lang     string
}

// NewModerator builds a moderator. notifier and records may be nil.
func NewModerator(state *models.State, chat ChatModerator, notifier Notifier, records RecordWriter, clock clockwork.Clock, lang string) *Moderator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Moderator{
		state:    state,
		chat:     chat,
		notifier: notifier,
		records:  records,
		clock:    clock,
		lang:     lang,
	}
}

// Line renders one "label: value" line of a bot message
func Line(lang, key, value string) string {
	return models.GetTranslation(lang, key) + models.GetTranslation(lang, "colon") + value + "\n"
}

func (m *Moderator) line(key, value string) string {
	return Line(m.lang, key, value)
}

func (m *Moderator) t(key string) string {
	return models.GetTranslation(m.lang, key)
}

func (m *Moderator) header(uid, aid int64, actionKey string) string {
	var b strings.Builder
	if aid != 0 {
		b.WriteString(m.line("admin_group", format.UserMention(aid)))
	}
	b.WriteString(m.line("user_id", format.UserMention(uid)))
	b.WriteString(m.line("action", format.Code(m.t(actionKey))))
	return b.String()
}

func (m *Moderator) refused(uid, aid int64, actionKey, resultKey string) Result {
	return Result{Text: m.header(uid, aid, actionKey) + m.line("result", format.Code(m.t(resultKey)))}
}

func (m *Moderator) undoMarkup(actionType string, uid int64) *telego.InlineKeyboardMarkup {
	label := m.t("button_undo")
	if actionType == TypeBan {
		label = m.t("button_unban")
	}
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(label).WithCallbackData(format.ButtonData(ButtonUndo, actionType, uid)),
	))
}

func (m *Moderator) reportMarkup(uid int64) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(m.t("button_warn")).WithCallbackData(format.ButtonData(ButtonReport, TypeWarn, uid)),
			tu.InlineKeyboardButton(m.t("button_ban")).WithCallbackData(format.ButtonData(ButtonReport, TypeBan, uid)),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(m.t("button_cancel")).WithCallbackData(format.ButtonData(ButtonReport, TypeCancel, uid)),
		),
	)
}

// AdminText mentions every known admin of the group without visible text
func (m *Moderator) AdminText(gid int64) string {
	var b strings.Builder
	for _, aid := range m.state.Admins.Admins(gid) {
		b.WriteString(format.HiddenMention(aid))
	}
	return b.String()
}

func (m *Moderator) kick(ctx context.Context, gid, uid int64) error {
	err := m.chat.BanChatMember(ctx, &telego.BanChatMemberParams{
		ChatID: telego.ChatID{ID: gid},
		UserID: uid,
	})
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("banChatMember").Inc()
		return fmt.Errorf("failed to ban %d in %d: %w", uid, gid, err)
	}
	return nil
}

func (m *Moderator) readmit(ctx context.Context, gid, uid int64) error {
	err := m.chat.UnbanChatMember(ctx, &telego.UnbanChatMemberParams{
		ChatID:       telego.ChatID{ID: gid},
		UserID:       uid,
		OnlyIfBanned: true,
	})
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("unbanChatMember").Inc()
		return fmt.Errorf("failed to unban %d in %d: %w", uid, gid, err)
	}
	return nil
}

// done records a successful action in every sink
func (m *Moderator) done(ctx context.Context, gid, uid, aid int64, action, actionKey string, warns int) {
	metrics.ActionsTotal.WithLabelValues(action).Inc()

	if m.records != nil {
		record := &models.ModerationRecord{
			GroupID: gid,
			UserID:  uid,
			AdminID: aid,
			Action:  action,
			Warns:   warns,
		}
		if err := m.records.Create(record); err != nil {
			logger.Warningf("Error creating moderation record: %v", err)
		}
	}

	if m.notifier != nil {
		m.notifier.Action(ctx, gid, uid, aid, actionKey)
	}
}

// WarnUser adds a warning, banning the user once the group limit is reached
func (m *Moderator) WarnUser(ctx context.Context, gid, uid, aid int64) Result {
	limit := m.state.Configs.Get(gid).Limit

	var banned bool
	var count int
	m.state.Users.Update(uid, func(u *models.UserRecord) {
		if u.Ban.Has(gid) {
			banned = true
			return
		}
		u.Warn[gid]++
		count = u.Warn[gid]
	})
	if banned {
		return m.refused(uid, aid, "action_warn", "already_banned")
	}

	if count < limit {
		m.done(ctx, gid, uid, aid, models.ActionWarn, "action_warn", count)
		return Result{
			Text:    m.header(uid, aid, "action_warn") + m.line("warns", format.Code(fmt.Sprintf("%d/%d", count, limit))),
			Markup:  m.undoMarkup(TypeWarn, uid),
			Changed: true,
		}
	}

	if err := m.kick(ctx, gid, uid); err != nil {
		logger.Warningf("Warn limit ban failed: %v", err)
		m.state.Users.Update(uid, func(u *models.UserRecord) {
			if u.Warn[gid] > 0 {
				u.Warn[gid]--
			}
			if u.Warn[gid] == 0 {
				delete(u.Warn, gid)
			}
		})
		return m.refused(uid, aid, "action_ban", "ban_failed")
	}

	m.state.Users.Update(uid, func(u *models.UserRecord) {
		delete(u.Warn, gid)
		u.Ban.Add(gid)
	})
	m.done(ctx, gid, uid, aid, models.ActionBan, "action_ban", limit)
	return Result{
		Text: m.header(uid, aid, "action_ban") +
			m.line("warns", format.Code(fmt.Sprintf("%d/%d", limit, limit))) +
			m.line("result", format.Code(m.t("limit_reached"))),
		Markup:  m.undoMarkup(TypeBan, uid),
		Changed: true,
	}
}

// BanUser removes the user from the group and clears the warnings
func (m *Moderator) BanUser(ctx context.Context, gid, uid, aid int64) Result {
	if m.state.Users.Get(uid).Ban.Has(gid) {
		return m.refused(uid, aid, "action_ban", "already_banned")
	}

	if err := m.kick(ctx, gid, uid); err != nil {
		logger.Warningf("Ban failed: %v", err)
		return m.refused(uid, aid, "action_ban", "ban_failed")
	}

	m.state.Users.Update(uid, func(u *models.UserRecord) {
		delete(u.Warn, gid)
		u.Ban.Add(gid)
	})
	m.done(ctx, gid, uid, aid, models.ActionBan, "action_ban", 0)
	return Result{
		Text:    m.header(uid, aid, "action_ban"),
		Markup:  m.undoMarkup(TypeBan, uid),
		Changed: true,
	}
}

// UnwarnUser takes back one warning
func (m *Moderator) UnwarnUser(ctx context.Context, gid, uid, aid int64) Result {
	limit := m.state.Configs.Get(gid).Limit

	var banned, none bool
	var count int
	m.state.Users.Update(uid, func(u *models.UserRecord) {
		switch {
		case u.Ban.Has(gid):
			banned = true
		case u.Warn[gid] <= 0:
			none = true
			delete(u.Warn, gid)
		default:
			u.Warn[gid]--
			count = u.Warn[gid]
			if count == 0 {
				delete(u.Warn, gid)
			}
		}
	})
	if banned {
		return m.refused(uid, aid, "action_unwarn", "already_banned")
	}
	if none {
		return m.refused(uid, aid, "action_unwarn", "no_warns")
	}

	m.done(ctx, gid, uid, aid, models.ActionUnwarn, "action_unwarn", count)
	return Result{
		Text:    m.header(uid, aid, "action_unwarn") + m.line("warns", format.Code(fmt.Sprintf("%d/%d", count, limit))),
		Changed: true,
	}
}

// UnbanUser lifts a ban placed by this bot
func (m *Moderator) UnbanUser(ctx context.Context, gid, uid, aid int64) Result {
	if !m.state.Users.Get(uid).Ban.Has(gid) {
		return m.refused(uid, aid, "action_unban", "not_banned")
	}

	if err := m.readmit(ctx, gid, uid); err != nil {
		logger.Warningf("Unban failed: %v", err)
		return m.refused(uid, aid, "action_unban", "unban_failed")
	}

	m.state.Users.Update(uid, func(u *models.UserRecord) {
		u.Ban.Remove(gid)
	})
	m.done(ctx, gid, uid, aid, models.ActionUnban, "action_unban", 0)
	return Result{
		Text:    m.header(uid, aid, "action_unban") + m.line("result", format.Code(m.t("unbanned"))),
		Changed: true,
	}
}

// ForgiveUser lifts the ban, or else clears the warnings
func (m *Moderator) ForgiveUser(ctx context.Context, gid, uid, aid int64) Result {
	u := m.state.Users.Get(uid)

	switch {
	case u.Ban.Has(gid):
		if err := m.readmit(ctx, gid, uid); err != nil {
			logger.Warningf("Forgive unban failed: %v", err)
			return m.refused(uid, aid, "action_forgive", "unban_failed")
		}
		m.state.Users.Update(uid, func(u *models.UserRecord) {
			u.Ban.Remove(gid)
			delete(u.Warn, gid)
		})
		m.done(ctx, gid, uid, aid, models.ActionForgive, "action_forgive", 0)
		return Result{
			Text:    m.header(uid, aid, "action_forgive") + m.line("result", format.Code(m.t("unbanned"))),
			Changed: true,
		}
	case u.Warned(gid):
		m.state.Users.Update(uid, func(u *models.UserRecord) {
			delete(u.Warn, gid)
		})
		m.done(ctx, gid, uid, aid, models.ActionForgive, "action_forgive", 0)
		return Result{
			Text:    m.header(uid, aid, "action_forgive") + m.line("result", format.Code(m.t("warns_cleared"))),
			Changed: true,
		}
	default:
		return m.refused(uid, aid, "action_forgive", "not_recorded")
	}
}

// ReportUser flags both parties as waiting and stores the report. rid is 0
// for reports relayed by sibling bots. mid is the reported message.
func (m *Moderator) ReportUser(ctx context.Context, gid, uid, rid int64, mid int) Result {
	record := models.ReportRecord{
		GroupID:    gid,
		UserID:     uid,
		ReporterID: rid,
		MessageID:  mid,
		Time:       m.clock.Now().Unix(),
	}
	if !record.Auto() {
		m.state.Users.Update(rid, func(u *models.UserRecord) {
			u.Waiting.Add(gid)
		})
	}
	m.state.Users.Update(uid, func(u *models.UserRecord) {
		u.Waiting.Add(gid)
	})

	key := m.state.Reports.Add(record)
	metrics.PendingReports.Set(float64(m.state.Reports.Len()))

	// the reported user goes first, replies to this message target it
	var b strings.Builder
	b.WriteString(m.line("user_id", format.UserMention(uid)))
	if record.Auto() {
		b.WriteString(m.line("reporter", format.Code(m.t("auto_report"))))
	} else {
		b.WriteString(m.line("reporter", format.UserMention(rid)))
	}
	if mid != 0 {
		b.WriteString(m.line("message_link", format.MessageLink(gid, mid)))
	}
	b.WriteString(m.line("call_admins", m.AdminText(gid)))

	m.done(ctx, gid, uid, rid, models.ActionReport, "action_report", 0)
	return Result{
		Text:      b.String(),
		Markup:    m.reportMarkup(uid),
		Changed:   true,
		ReportKey: key,
	}
}

// CallAdmins builds the message a member posts with /admin
func (m *Moderator) CallAdmins(gid, uid int64) string {
	return m.line("from_user", format.UserMention(uid)) + m.line("call_admins", m.AdminText(gid))
}

// CanCallAdmins reports whether a member may ping the admins of the group
func (m *Moderator) CanCallAdmins(gid, uid int64) bool {
	if m.state.Bad.IsBadUser(uid) {
		return false
	}
	u := m.state.Users.Get(uid)
	return !u.Waiting.Has(gid) && !u.Ban.Has(gid) && !u.Warned(gid)
}

// CanBeReported checks the report preconditions of reporter rid against uid
func (m *Moderator) CanBeReported(gid, uid, rid int64) bool {
	if uid == 0 || uid == rid || m.state.Admins.IsAdmin(gid, uid) {
		return false
	}
	target := m.state.Users.Get(uid)
	if target.Waiting.Has(gid) || target.Ban.Has(gid) {
		return false
	}
	if rid != 0 && m.state.Users.Get(rid).Waiting.Has(gid) {
		return false
	}
	return true
}

// ClearReport drops the waiting flags of both parties of a report
func (m *Moderator) ClearReport(r models.ReportRecord) {
	if r.ReporterID != 0 {
		m.state.Users.Update(r.ReporterID, func(u *models.UserRecord) {
			u.Waiting.Remove(r.GroupID)
		})
	}
	m.state.Users.Update(r.UserID, func(u *models.UserRecord) {
		u.Waiting.Remove(r.GroupID)
	})
	metrics.PendingReports.Set(float64(m.state.Reports.Len()))
}
