package service

import (
	"tg-warn/internal/models"
)

// PendingEnabled reports whether scheduled deletions survive a restart
func PendingEnabled() bool {
	return pendingMsgRepository != nil
}

func GetAllPendingMsgs() ([]models.PendingMessage, error) {
	if pendingMsgRepository == nil {
		return []models.PendingMessage{}, nil
	}
	return pendingMsgRepository.GetAllPendingMsgs()
}

func AddPendingMsg(pendingMsg *models.PendingMessage) error {
	if pendingMsgRepository == nil {
		return nil
	}
	return pendingMsgRepository.AddPendingMsg(pendingMsg)
}

func RemovePendingMsg(chatID int64, messageID int) error {
	if pendingMsgRepository == nil {
		return nil
	}
	return pendingMsgRepository.RemovePendingMsg(chatID, messageID)
}

// ForgetChat drops the scheduled deletions and audit rows of a chat the bot left
func ForgetChat(chatID int64) error {
	if pendingMsgRepository != nil {
		if err := pendingMsgRepository.RemoveChat(chatID); err != nil {
			return err
		}
	}
	if recordRepository != nil {
		return recordRepository.DeleteGroup(chatID)
	}
	return nil
}
