package storage

import (
	"tg-warn/internal/models"

	"gorm.io/gorm"
)

// RecordRepository handles database operations for ModerationRecord
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// MigrateTable ensures the ModerationRecord table exists
func (r *RecordRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ModerationRecord{})
}

func (r *RecordRepository) Create(record *models.ModerationRecord) error {
	return r.db.Create(record).Error
}

// DeleteGroup drops every record of a group the bot left
func (r *RecordRepository) DeleteGroup(groupID int64) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.ModerationRecord{}).Error
}
