package models

import "time"

// PendingMessage is a bot message scheduled for deletion, kept in the
// database so the deletion survives a restart.
type PendingMessage struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChatID    int64     `gorm:"index:idx_chat_message,unique"`
	MessageID int       `gorm:"index:idx_chat_message,unique"`
	DeleteAt  time.Time `gorm:"index"`
}

func (p PendingMessage) Due(now time.Time) bool {
	return !now.Before(p.DeleteAt)
}
