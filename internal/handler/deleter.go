package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"

	"tg-warn/internal/crash"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
)

// MessageDeleter deletes chat messages
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, params *telego.DeleteMessageParams) error
}

// Deleter removes bot messages after a delay. Scheduled deletions are kept in
// the database when it is enabled, in memory otherwise.
type Deleter struct {
	bot   MessageDeleter
	clock clockwork.Clock

	mu       sync.Mutex
	inMemory map[models.StaleMessage]struct{}
}

func NewDeleter(bot MessageDeleter, clock clockwork.Clock) *Deleter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Deleter{
		bot:      bot,
		clock:    clock,
		inMemory: make(map[models.StaleMessage]struct{}),
	}
}

// Delete removes a message now, failures are logged
func (d *Deleter) Delete(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	err := d.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	})
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("deleteMessage").Inc()
		logger.Debugf("Error deleting message %d in chat %d: %v", messageID, chatID, err)
	}
}

// DeleteLater removes a message after delay
func (d *Deleter) DeleteLater(chatID int64, messageID int, delay time.Duration) {
	if messageID == 0 {
		return
	}

	if service.PendingEnabled() {
		pending := &models.PendingMessage{
			ChatID:    chatID,
			MessageID: messageID,
			DeleteAt:  d.clock.Now().Add(delay),
		}
		if err := service.AddPendingMsg(pending); err != nil {
			logger.Warningf("Error storing pending deletion of %d in %d: %v", messageID, chatID, err)
		}
	} else {
		d.mu.Lock()
		d.inMemory[models.StaleMessage{ChatID: chatID, MessageID: messageID}] = struct{}{}
		d.mu.Unlock()
	}

	d.schedule(chatID, messageID, delay)
}

func (d *Deleter) schedule(chatID int64, messageID int, delay time.Duration) {
	name := fmt.Sprintf("delete-%d-%d", chatID, messageID)
	d.clock.AfterFunc(delay, func() {
		defer crash.RecoverWithStack(name)
		d.Delete(context.Background(), chatID, messageID)
		d.forget(chatID, messageID)
	})
}

func (d *Deleter) forget(chatID int64, messageID int) {
	if service.PendingEnabled() {
		if err := service.RemovePendingMsg(chatID, messageID); err != nil {
			logger.Warningf("Error removing pending deletion of %d in %d: %v", messageID, chatID, err)
		}
		return
	}

	d.mu.Lock()
	delete(d.inMemory, models.StaleMessage{ChatID: chatID, MessageID: messageID})
	d.mu.Unlock()
}

// Pending returns the number of deletions tracked in memory
func (d *Deleter) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inMemory)
}

// Resume reschedules the deletions stored in the database before a restart
func (d *Deleter) Resume() {
	if !service.PendingEnabled() {
		return
	}

	pendingMsgs, err := service.GetAllPendingMsgs()
	if err != nil {
		logger.Errorf("Error loading pending deletions: %v", err)
		return
	}

	logger.Infof("Found %d pending message deletions to process.", len(pendingMsgs))
	now := d.clock.Now()
	for _, msg := range pendingMsgs {
		delay := msg.DeleteAt.Sub(now)
		if msg.Due(now) {
			delay = 0
		}
		logger.Debugf("Rescheduling deletion for message %d in chat %d in %v", msg.MessageID, msg.ChatID, delay)
		d.schedule(msg.ChatID, msg.MessageID, delay)
	}
}

// Flush deletes every in-memory pending message, called on shutdown when the
// database is not enabled
func (d *Deleter) Flush(ctx context.Context) {
	d.mu.Lock()
	toDelete := make([]models.StaleMessage, 0, len(d.inMemory))
	for msg := range d.inMemory {
		toDelete = append(toDelete, msg)
	}
	d.inMemory = make(map[models.StaleMessage]struct{})
	d.mu.Unlock()

	for _, msg := range toDelete {
		logger.Infof("Shutdown: Deleting message %d in chat %d", msg.MessageID, msg.ChatID)
		d.Delete(ctx, msg.ChatID, msg.MessageID)
	}
	if len(toDelete) > 0 {
		logger.Infof("Finished deleting in-memory pending messages during shutdown: %d", len(toDelete))
	}
}
