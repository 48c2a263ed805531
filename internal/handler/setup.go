package handler

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-warn/internal/config"
	"tg-warn/internal/exchange"
	"tg-warn/internal/logger"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
)

// BotAPI is the part of *telego.Bot used by the handlers
type BotAPI interface {
	service.ChatModerator
	service.ChatReader
	service.AdminReader
	exchange.Poster
	EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error)
	DeleteMessage(ctx context.Context, params *telego.DeleteMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	LeaveChat(ctx context.Context, params *telego.LeaveChatParams) error
}

// Deps are the shared components the handlers work with
type Deps struct {
	State     *models.State
	Moderator *service.Moderator
	Admins    *service.AdminService
	Debug     *service.DebugSender
	Persister *service.Persister
	Exchange  *exchange.Exchange
	Deleter   *Deleter
	Clock     clockwork.Clock
}

// Handler handles the updates of one bot account
type Handler struct {
	cfg      *config.Config
	bot      BotAPI
	self     telego.User
	lang     string
	prefixes []string

	state     *models.State
	moderator *service.Moderator
	admins    *service.AdminService
	debug     *service.DebugSender
	persister *service.Persister
	exchange  *exchange.Exchange
	deleter   *Deleter
	clock     clockwork.Clock
	router    *exchange.Router
}

func New(cfg *config.Config, bot BotAPI, self telego.User, deps Deps) *Handler {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	h := &Handler{
		cfg:       cfg,
		bot:       bot,
		self:      self,
		lang:      cfg.Bot.Language,
		prefixes:  cfg.Warn.Prefixes,
		state:     deps.State,
		moderator: deps.Moderator,
		admins:    deps.Admins,
		debug:     deps.Debug,
		persister: deps.Persister,
		exchange:  deps.Exchange,
		deleter:   deps.Deleter,
		clock:     clock,
		router:    exchange.NewRouter(cfg.Warn.SenderName),
	}
	h.registerRoutes()
	return h
}

// SetupMessageHandlers configures all bot message and update handlers
func (h *Handler) SetupMessageHandlers(bh *th.BotHandler) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		defer track(&totalMessagesProcessed)()
		return h.HandleMessage(ctx, message)
	})

	bh.HandleChannelPost(func(ctx *th.Context, message telego.Message) error {
		defer track(&totalChannelPosts)()
		return h.HandleChannelPost(ctx, message)
	})

	bh.Handle(func(ctx *th.Context, update telego.Update) error {
		defer track(&totalChatMemberUpdates)()
		return h.HandleMyChatMember(ctx, *update.MyChatMember)
	}, th.AnyMyChatMember())

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		defer track(&totalCallbackQueries)()
		return h.HandleCallbackQuery(ctx, query)
	})
}

// HandleMessage routes group messages to the command handlers
func (h *Handler) HandleMessage(ctx context.Context, message telego.Message) error {
	if message.Chat.Type != telego.ChatTypeGroup && message.Chat.Type != telego.ChatTypeSupergroup {
		return nil
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}
	command := ParseCommand(text, h.prefixes, h.self.Username)
	if command == "" {
		return nil
	}

	h.admins.Ensure(ctx, message.Chat.ID)
	h.HandleCommand(ctx, command, text, message)
	return nil
}

// HandleChannelPost feeds posts of the exchange channel to the router
func (h *Handler) HandleChannelPost(ctx context.Context, message telego.Message) error {
	if message.Chat.ID != h.cfg.Warn.ExchangeChannel || h.cfg.Warn.ExchangeChannel == 0 {
		return nil
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if _, err := h.router.Dispatch(ctx, text); err != nil {
		addError()
		logger.Warningf("Error handling exchange message %d: %v", message.MessageID, err)
	}
	return nil
}
