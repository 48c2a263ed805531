package storage

import (
	"tg-warn/internal/models"

	"gorm.io/gorm"
)

// PendingMsgRepository handles database operations for PendingMessage
type PendingMsgRepository struct {
	db *gorm.DB
}

func NewPendingMsgRepository(db *gorm.DB) *PendingMsgRepository {
	return &PendingMsgRepository{db: db}
}

// MigrateTable ensures the PendingMessage table exists
func (r *PendingMsgRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.PendingMessage{})
}

func (r *PendingMsgRepository) AddPendingMsg(pm *models.PendingMessage) error {
	return r.db.Create(pm).Error
}

// RemovePendingMsg removes a pending message record by ChatID and MessageID
func (r *PendingMsgRepository) RemovePendingMsg(chatID int64, messageID int) error {
	return r.db.Where("chat_id = ? AND message_id = ?", chatID, messageID).Delete(&models.PendingMessage{}).Error
}

func (r *PendingMsgRepository) GetAllPendingMsgs() ([]models.PendingMessage, error) {
	var msgs []models.PendingMessage
	result := r.db.Order("delete_at asc").Find(&msgs)
	return msgs, result.Error
}

// RemoveChat drops every pending message of a chat the bot left
func (r *PendingMsgRepository) RemoveChat(chatID int64) error {
	return r.db.Where("chat_id = ?", chatID).Delete(&models.PendingMessage{}).Error
}
