package timers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"

	"tg-warn/internal/exchange"
	"tg-warn/internal/format"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
)

// staleSeconds is the age after which admin calls and reports are dropped
const staleSeconds = 24 * 60 * 60

// Job names, also used as metric labels
const (
	JobCleanup      = "cleanup"
	JobAdmins       = "admins"
	JobReportGroups = "report_groups"
	JobBackup       = "backup"
	JobStatus       = "status"
	JobReset        = "reset"
)

// ChatLeaver leaves a chat
type ChatLeaver interface {
	LeaveChat(ctx context.Context, params *telego.LeaveChatParams) error
}

// TelegramAPI is the part of the bot API used by the jobs
type TelegramAPI interface {
	service.ChatReader
	ChatLeaver
}

// MessageDeleter removes a bot message, failures are only logged
type MessageDeleter interface {
	Delete(ctx context.Context, chatID int64, messageID int)
}

// Jobs holds what the periodic jobs work on
type Jobs struct {
	Bot       TelegramAPI
	State     *models.State
	Admins    *service.AdminService
	Persister *service.Persister
	Exchange  *exchange.Exchange
	Debug     *service.DebugSender
	Deleter   MessageDeleter
	Clock     clockwork.Clock
	Lang      string
	// Standby marks this instance as the backup copy in status pings
	Standby bool
}

// Register adds every job to the scheduler
func (j *Jobs) Register(s *Scheduler) {
	s.Add(JobCleanup, Every(time.Hour), j.Cleanup)
	s.Add(JobStatus, Every(30*time.Minute), j.Status)
	s.Add(JobAdmins, Daily{Hour: 2}, j.RefreshAdmins)
	s.Add(JobReportGroups, Daily{Hour: 3}, j.ShareReportGroups)
	s.Add(JobBackup, Daily{Hour: 4}, j.Backup)
	s.Add(JobReset, Monthly{Day: 1}, j.Reset)
}

func (j *Jobs) t(key string) string {
	return models.GetTranslation(j.Lang, key)
}

// Cleanup deletes admin calls and reports older than a day and clears the
// waiting flags of every user
func (j *Jobs) Cleanup(ctx context.Context) error {
	now := j.Clock.Now().Unix()

	for _, stale := range j.State.Calls.TakeExpired(now, staleSeconds) {
		j.Deleter.Delete(ctx, stale.ChatID, stale.MessageID)
	}
	j.Persister.Save(storage.CategoryMessages)

	expired := j.State.Reports.TakeExpired(now, staleSeconds)
	for _, r := range expired {
		j.Deleter.Delete(ctx, r.GroupID, r.ReportID)
	}
	j.Persister.Save(storage.CategoryReports)

	j.State.Users.ClearWaiting()
	j.Persister.Save(storage.CategoryUsers)

	logger.Infof("Cleanup removed %d expired reports", len(expired))
	return nil
}

// RefreshAdmins reloads the admin list of every known group and asks MANAGE
// to release the bot from groups it cannot work in
func (j *Jobs) RefreshAdmins(ctx context.Context) error {
	for _, gid := range j.State.Admins.Groups() {
		check, err := j.Admins.Refresh(ctx, gid)
		switch {
		case err != nil && service.IsGone(err):
			j.leaveGone(ctx, gid)
		case err != nil:
			logger.Warningf("Skipping admin refresh: %v", err)
		case !check.Present:
			j.leaveGone(ctx, gid)
		case check.LeaveReason() != "":
			j.requestLeave(ctx, gid, check.LeaveReason())
		}
	}
	j.Persister.Save(storage.CategoryAdmins)
	return nil
}

// leaveGone leaves a group where the bot lost its admin rights without asking
func (j *Jobs) leaveGone(ctx context.Context, gid int64) {
	info := service.GetGroupInfo(ctx, j.Bot, j.State.Groups, gid)
	header := j.Debug.Header(gid)

	if err := j.Bot.LeaveChat(ctx, &telego.LeaveChatParams{ChatID: telego.ChatID{ID: gid}}); err != nil {
		metrics.TelegramErrors.WithLabelValues("leaveChat").Inc()
		logger.Warningf("Error leaving %d: %v", gid, err)
	}
	service.ForgetGroup(j.State, j.Persister, gid)

	err := j.Exchange.Share(ctx, []string{exchange.BotManage}, exchange.ActionLeave, exchange.TypeInfo, exchange.LeaveInfo{
		GroupID:   gid,
		GroupName: info.GroupName,
		GroupLink: info.GroupLink,
	})
	if err != nil {
		logger.Warningf("Error sharing leave info of %d: %v", gid, err)
	}

	j.Debug.Send(ctx, header+
		service.Line(j.Lang, "status", format.Code(j.t("leave_auto")))+
		service.Line(j.Lang, "reason", format.Code(j.t("reason_leave"))))
}

func (j *Jobs) requestLeave(ctx context.Context, gid int64, reason string) {
	info := service.GetGroupInfo(ctx, j.Bot, j.State.Groups, gid)

	err := j.Exchange.Share(ctx, []string{exchange.BotManage}, exchange.ActionLeave, exchange.TypeRequest, exchange.LeaveRequest{
		GroupID:   gid,
		GroupName: info.GroupName,
		GroupLink: info.GroupLink,
		Reason:    reason,
	})
	if err != nil {
		logger.Warningf("Error requesting leave of %d: %v", gid, err)
		return
	}

	j.Debug.Send(ctx, j.Debug.Header(gid)+
		service.Line(j.Lang, "status", format.Code(j.t("reason_"+reason))))
}

// ShareReportGroups sends NOSPAM the groups that accept auto reports
func (j *Jobs) ShareReportGroups(ctx context.Context) error {
	groups := j.State.Configs.AutoReportGroups(j.State.Admins.Groups())
	content, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to encode report groups: %w", err)
	}
	return j.Exchange.ShareFile(ctx, []string{exchange.BotNoSpam}, exchange.ActionHelp, exchange.TypeList,
		"report", "report.json", content)
}

// Backup writes every data file and ships it to BACKUP
func (j *Jobs) Backup(ctx context.Context) error {
	if err := j.Persister.SaveAll(); err != nil {
		return err
	}
	return service.BackupFiles(ctx, j.Exchange, j.Persister.Store())
}

// Status tells BACKUP that this instance is alive
func (j *Jobs) Status(ctx context.Context) error {
	return j.Exchange.Share(ctx, []string{exchange.BotBackup}, exchange.ActionBackup, exchange.TypeStatus, exchange.BackupStatus{
		Type:   "awake",
		Backup: j.Standby,
	})
}

// Reset forgets bad users, user records and reports
func (j *Jobs) Reset(ctx context.Context) error {
	j.State.Bad.Reset()
	j.State.Users.Reset()
	j.State.Reports.Reset()

	j.Persister.Save(storage.CategoryBad)
	j.Persister.Save(storage.CategoryUsers)
	j.Persister.Save(storage.CategoryReports)

	j.Debug.Send(ctx, j.Debug.Header(0)+
		service.Line(j.Lang, "action", format.Code(j.t("action_reset"))))
	return nil
}
