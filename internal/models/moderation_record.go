package models

import "time"

// Moderation actions stored in ModerationRecord.Action
const (
	ActionWarn    = "warn"
	ActionBan     = "ban"
	ActionUnwarn  = "unwarn"
	ActionUnban   = "unban"
	ActionForgive = "forgive"
	ActionReport  = "report"
)

// ModerationRecord is the audit row of one admin action on a user.
// Rows are only written when the database is enabled.
type ModerationRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   int64  `gorm:"index:idx_group_user;not null"`
	UserID    int64  `gorm:"index:idx_group_user;not null"`
	AdminID   int64  `gorm:"index"`
	Action    string `gorm:"type:varchar(16);not null"`
	Warns     int    `gorm:"default:0"`
	Reason    string `gorm:"type:text"`
	CreatedAt time.Time
}
