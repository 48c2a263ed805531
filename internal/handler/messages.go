package handler

import (
	"context"
	"time"

	"github.com/mymmrac/telego"

	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
)

// send posts an HTML message, replying to replyTo when it is not 0
func (h *Handler) send(ctx context.Context, chatID int64, text string, replyTo int, markup *telego.InlineKeyboardMarkup) *telego.Message {
	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
		LinkPreviewOptions: &telego.LinkPreviewOptions{
			IsDisabled: true,
		},
	}
	if replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{
			MessageID:                replyTo,
			AllowSendingWithoutReply: true,
		}
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	sent, err := h.bot.SendMessage(ctx, params)
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("sendMessage").Inc()
		logger.Warningf("Error sending message to %d: %v", chatID, err)
		return nil
	}
	return sent
}

// sendReport posts a message that removes itself after secs seconds
func (h *Handler) sendReport(ctx context.Context, secs int, chatID int64, text string, replyTo int, markup *telego.InlineKeyboardMarkup) *telego.Message {
	sent := h.send(ctx, chatID, text, replyTo, markup)
	if sent != nil {
		h.deleter.DeleteLater(chatID, sent.MessageID, time.Duration(secs)*time.Second)
	}
	return sent
}

func (h *Handler) edit(ctx context.Context, chatID int64, messageID int, text string, markup *telego.InlineKeyboardMarkup) {
	_, err := h.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      telego.ChatID{ID: chatID},
		MessageID:   messageID,
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: markup,
		LinkPreviewOptions: &telego.LinkPreviewOptions{
			IsDisabled: true,
		},
	})
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("editMessageText").Inc()
		logger.Warningf("Error editing message %d in %d: %v", messageID, chatID, err)
	}
}

func (h *Handler) answer(ctx context.Context, queryID, text string, alert bool) {
	err := h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		metrics.TelegramErrors.WithLabelValues("answerCallbackQuery").Inc()
		logger.Debugf("Error answering callback %s: %v", queryID, err)
	}
}

func (h *Handler) t(key string) string {
	return models.GetTranslation(h.lang, key)
}
