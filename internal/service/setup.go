package service

import (
	"tg-warn/internal/logger"
	"tg-warn/internal/storage"
)

var (
	recordRepository     *storage.RecordRepository
	pendingMsgRepository *storage.PendingMsgRepository
)

// InitRepositories initializes the repositories if database is enabled
func InitRepositories() {
	if storage.DB == nil {
		return
	}

	recordRepository = storage.NewRecordRepository(storage.DB)
	if err := recordRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating ModerationRecord table: %v", err)
	}

	pendingMsgRepository = storage.NewPendingMsgRepository(storage.DB)
	if err := pendingMsgRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating PendingMessage table: %v", err)
	}
}

// Records returns the audit writer, nil when the database is disabled
func Records() RecordWriter {
	if recordRepository == nil {
		return nil
	}
	return recordRepository
}
