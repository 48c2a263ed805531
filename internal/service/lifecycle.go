package service

import (
	"context"
	"fmt"

	"tg-warn/internal/exchange"
	"tg-warn/internal/logger"
	"tg-warn/internal/models"
	"tg-warn/internal/storage"
)

// ForgetGroup drops everything known about a group the bot left
func ForgetGroup(state *models.State, persister *Persister, gid int64) {
	state.Admins.Remove(gid)
	state.Configs.Remove(gid)
	state.Calls.Remove(gid)
	state.Reports.RemoveGroup(gid)
	state.Groups.RemoveGroupInfo(gid)
	state.Users.ForgetGroup(gid)

	if err := ForgetChat(gid); err != nil {
		logger.Warningf("Error removing database rows of %d: %v", gid, err)
	}
	if err := persister.SaveAll(); err != nil {
		logger.Warningf("Error saving data after leaving %d: %v", gid, err)
	}
}

// BackupFiles ships every non-empty data file to BACKUP
func BackupFiles(ctx context.Context, ex *exchange.Exchange, store *storage.FileStore) error {
	var sent int
	for _, category := range storage.Categories {
		content, err := store.ReadRaw(category)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", category, err)
		}
		if len(content) == 0 {
			continue
		}

		err = ex.ShareFile(ctx, []string{exchange.BotBackup}, exchange.ActionBackup, exchange.TypeData,
			category, category+".json", content)
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", category, err)
		}
		sent++
	}
	logger.Infof("Backed up %d data files", sent)
	return nil
}
