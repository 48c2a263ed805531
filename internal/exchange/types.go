package exchange

import "tg-warn/internal/models"

// Actions and types of the exchange messages handled or sent by this bot
const (
	ActionAdd    = "add"
	ActionBackup = "backup"
	ActionConfig = "config"
	ActionHelp   = "help"
	ActionLeave  = "leave"
	ActionRemove = "remove"

	TypeAsk     = "ask"
	TypeApprove = "approve"
	TypeBad     = "bad"
	TypeCommit  = "commit"
	TypeData    = "data"
	TypeInfo    = "info"
	TypeList    = "list"
	TypeNow     = "now"
	TypeReply   = "reply"
	TypeReport  = "report"
	TypeRequest = "request"
	TypeStatus  = "status"
)

// ConfigAsk asks CONFIG to open a config session for a group
type ConfigAsk struct {
	ProjectName string             `json:"project_name"`
	ProjectLink string             `json:"project_link"`
	GroupID     int64              `json:"group_id"`
	GroupName   string             `json:"group_name"`
	GroupLink   string             `json:"group_link"`
	UserID      int64              `json:"user_id"`
	Config      models.GroupConfig `json:"config"`
	Default     models.GroupConfig `json:"default"`
}

// ConfigCommit carries the settings saved in a config session
type ConfigCommit struct {
	GroupID int64              `json:"group_id"`
	Config  models.GroupConfig `json:"config"`
}

// ConfigReply carries the link of a config session
type ConfigReply struct {
	GroupID    int64  `json:"group_id"`
	UserID     int64  `json:"user_id"`
	ConfigLink string `json:"config_link"`
}

// HelpReport asks this bot to alert the admins about a message
type HelpReport struct {
	GroupID   int64 `json:"group_id"`
	UserID    int64 `json:"user_id"`
	MessageID int   `json:"message_id"`
}

type LeaveApprove struct {
	GroupID int64  `json:"group_id"`
	Reason  string `json:"reason"`
}

type LeaveRequest struct {
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
	GroupLink string `json:"group_link"`
	Reason    string `json:"reason"`
}

type LeaveInfo struct {
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
	GroupLink string `json:"group_link"`
}

// IDEntry adds or removes an id of a shared list
type IDEntry struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type BackupStatus struct {
	Type   string `json:"type"`
	Backup bool   `json:"backup"`
}
