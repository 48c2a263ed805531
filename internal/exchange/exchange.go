package exchange

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"

	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
)

// captionLimit is the Telegram caption size limit
const captionLimit = 1024

// Poster is the part of the bot API used to publish exchange messages
type Poster interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error)
}

// Exchange publishes envelopes in the exchange channel
type Exchange struct {
	poster    Poster
	channelID int64
	sender    string
	limiter   *rate.Limiter
}

// New creates an exchange publisher. interval is the minimum time between
// two messages once the burst is spent, 0 disables throttling.
func New(poster Poster, channelID int64, sender string, interval time.Duration) *Exchange {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Exchange{
		poster:    poster,
		channelID: channelID,
		sender:    sender,
		limiter:   rate.NewLimiter(limit, 3),
	}
}

// Share posts an envelope as a text message
func (e *Exchange) Share(ctx context.Context, receivers []string, action, actionType string, data interface{}) error {
	text, err := Format(e.sender, receivers, action, actionType, data)
	if err != nil {
		return err
	}
	if e.channelID == 0 {
		logger.Debugf("Exchange channel not set, dropping %s/%s", action, actionType)
		return nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("exchange throttle: %w", err)
	}

	_, err = e.poster.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: e.channelID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	if err != nil {
		metrics.ExchangeErrors.Inc()
		return fmt.Errorf("failed to share %s/%s: %w", action, actionType, err)
	}

	metrics.ExchangeSent.WithLabelValues(action, actionType).Inc()
	logger.Debugf("Shared %s/%s with %v", action, actionType, receivers)
	return nil
}

// ShareFile posts content as a document with the envelope as caption
func (e *Exchange) ShareFile(ctx context.Context, receivers []string, action, actionType string, data interface{}, name string, content []byte) error {
	caption, err := Format(e.sender, receivers, action, actionType, data)
	if err != nil {
		return err
	}
	if len([]rune(caption)) > captionLimit {
		return fmt.Errorf("caption of %s/%s exceeds %d characters", action, actionType, captionLimit)
	}
	if e.channelID == 0 {
		logger.Debugf("Exchange channel not set, dropping file %s", name)
		return nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("exchange throttle: %w", err)
	}

	_, err = e.poster.SendDocument(ctx, &telego.SendDocumentParams{
		ChatID:    telego.ChatID{ID: e.channelID},
		Document:  tu.File(tu.NameReader(bytes.NewReader(content), name)),
		Caption:   caption,
		ParseMode: telego.ModeHTML,
	})
	if err != nil {
		metrics.ExchangeErrors.Inc()
		return fmt.Errorf("failed to share file %s: %w", name, err)
	}

	metrics.ExchangeSent.WithLabelValues(action, actionType).Inc()
	logger.Debugf("Shared file %s as %s/%s with %v", name, action, actionType, receivers)
	return nil
}
