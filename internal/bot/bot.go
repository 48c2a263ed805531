package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg-warn/internal/config"
	"tg-warn/internal/logger"
	"tg-warn/internal/models"
)

// allowedUpdates are the update kinds the handlers consume
var allowedUpdates = []string{"message", "channel_post", "my_chat_member", "callback_query"}

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Self    *telego.User
	Handler *th.BotHandler
	// Webhook is nil in long polling mode
	Webhook *WebhookServer
}

// Start starts the bot handler, it blocks until Stop
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize creates the bot and its update source. A webhook is used when
// bot.webhook.endpoint is set, long polling otherwise.
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	var options []telego.BotOption
	if logger.Enabled(logger.LevelDebug) {
		options = append(options, telego.WithDefaultDebugLogger())
	}
	bot, err := telego.NewBot(cfg.Bot.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)

	setLocalizedCommands(ctx, bot, cfg.Bot.Language)

	err = bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	service := &BotService{Bot: bot, Self: botUser}

	var updates <-chan telego.Update
	if cfg.Bot.Webhook.Endpoint != "" {
		secretToken := "secure_webhook_token_" + cfg.Bot.Token[len(cfg.Bot.Token)-6:]
		updates, service.Webhook, err = SetupWebhook(ctx, bot, cfg.Bot.Webhook, secretToken)
		if err != nil {
			return nil, fmt.Errorf("failed to setup webhook: %w", err)
		}
	} else {
		logger.Info("No webhook endpoint configured, using long polling")
		updates, err = bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
			AllowedUpdates: allowedUpdates,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start long polling: %w", err)
		}
	}

	service.Handler, err = th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}
	return service, nil
}

// commandKeys are the group commands shown in the Telegram menu
var commandKeys = []struct {
	Command string
	DescKey string
}{
	{Command: "admin", DescKey: "cmd_desc_admin"},
	{Command: "ban", DescKey: "cmd_desc_ban"},
	{Command: "config", DescKey: "cmd_desc_config"},
	{Command: "forgive", DescKey: "cmd_desc_forgive"},
	{Command: "report", DescKey: "cmd_desc_report"},
	{Command: "warn", DescKey: "cmd_desc_warn"},
	{Command: "warn_config", DescKey: "cmd_desc_warn_config"},
}

// Commands builds the command menu in one language
func Commands(lang string) []telego.BotCommand {
	commands := make([]telego.BotCommand, 0, len(commandKeys))
	for _, cmd := range commandKeys {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: models.GetTranslation(lang, cmd.DescKey),
		})
	}
	return commands
}

// commandLanguages maps translations to ISO 639-1 codes. Telegram has a
// single "zh" code, so Traditional Chinese only shows as the default menu.
var commandLanguages = map[string]string{
	models.LangEnglish:           "en",
	models.LangSimplifiedChinese: "zh",
}

// setLocalizedCommands sets the group command menu in every language, the
// configured language is the default
func setLocalizedCommands(ctx context.Context, bot *telego.Bot, defaultLang string) {
	scope := tu.ScopeAllGroupChats()
	for lang, telegramLang := range commandLanguages {
		err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
			Commands:     Commands(lang),
			Scope:        scope,
			LanguageCode: telegramLang,
		})
		if err != nil {
			logger.Warningf("Failed to set bot commands for %s: %v", lang, err)
		}
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: Commands(defaultLang),
		Scope:    scope,
	})
	if err != nil {
		logger.Warningf("Failed to set default bot commands: %v", err)
	}
}
