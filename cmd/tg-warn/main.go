package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"tg-warn/internal/bot"
	"tg-warn/internal/config"
	"tg-warn/internal/crash"
	"tg-warn/internal/exchange"
	"tg-warn/internal/handler"
	"tg-warn/internal/logger"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
	"tg-warn/internal/timers"
)

func main() {
	// log the stack of any panic in the main goroutine
	defer crash.RecoverWithStackAndExit("main")
	crash.SetupCrashHandler()

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if cfg.Database.Enabled {
		if err := storage.Initialize(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		service.InitRepositories()
		logger.Info("Database connection established and repositories initialized")
	} else {
		logger.Info("Database support is disabled. Pending deletions are kept in memory.")
	}

	store, err := storage.NewFileStore(cfg.Data.Directory)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}
	state := models.NewState(defaultGroupConfig(cfg.Warn.DefaultConfig))
	persister := service.NewPersister(store, state)
	if err := persister.LoadAll(); err != nil {
		log.Fatalf("Failed to load data files: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	clock := clockwork.NewRealClock()
	lang := cfg.Bot.Language
	tg := botService.Bot

	ex := exchange.New(tg, cfg.Warn.ExchangeChannel, cfg.Warn.SenderName,
		time.Duration(cfg.Warn.ExchangeInterval)*time.Second)
	debug := service.NewDebugSender(tg, cfg.Warn.DebugChannelID, cfg.Warn.ProjectName, cfg.Warn.ProjectLink, state.Groups, lang)
	admins := service.NewAdminService(tg, state.Admins, botService.Self.ID, cfg.Warn.OwnerID, cfg.Warn.BotIDs)
	deleter := handler.NewDeleter(tg, clock)

	h := handler.New(cfg, tg, *botService.Self, handler.Deps{
		State:     state,
		Moderator: service.NewModerator(state, tg, debug, service.Records(), clock, lang),
		Admins:    admins,
		Debug:     debug,
		Persister: persister,
		Exchange:  ex,
		Deleter:   deleter,
		Clock:     clock,
	})
	h.SetupMessageHandlers(botService.Handler)
	deleter.Resume()

	jobs := &timers.Jobs{
		Bot:       tg,
		State:     state,
		Admins:    admins,
		Persister: persister,
		Exchange:  ex,
		Debug:     debug,
		Deleter:   deleter,
		Clock:     clock,
		Lang:      lang,
		Standby:   cfg.Warn.Backup,
	}
	scheduler := timers.NewScheduler(clock, time.Minute)
	jobs.Register(scheduler)
	crash.SafeGoroutine("timers", func() {
		scheduler.Start(ctx)
	})

	if botService.Webhook != nil {
		crash.SafeGoroutine("http-server", func() {
			if err := botService.Webhook.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("HTTP server error: %v", err)
			}
		})
		// give the webhook server time to start
		time.Sleep(500 * time.Millisecond)
	}

	// the webhook server carries the debug page itself
	debugPath := cfg.Bot.Webhook.DebugPath
	if botService.Webhook != nil {
		debugPath = ""
	}
	statusServer := bot.NewStatusServer(cfg.Metrics, debugPath)
	if statusServer != nil {
		crash.SafeGoroutine("status-server", func() {
			if err := statusServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Status server error: %v", err)
			}
		})
	}

	if err := jobs.Status(ctx); err != nil {
		logger.Warningf("Error sending startup status: %v", err)
	}

	logger.Info("Starting bot handler...")
	crash.SafeGoroutine("bot-handler", botService.Start)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGQUIT)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	botService.Stop()
	scheduler.Stop()

	logger.Info("Waiting for message handlers to complete...")
	done := make(chan struct{})
	go func() {
		handler.WaitForHandlers()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("All message handlers completed")
	case <-time.After(30 * time.Second):
		logger.Warning("Timeout waiting for message handlers, proceeding with shutdown")
	}
	handler.LogProcessingStats()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	deleter.Flush(shutdownCtx)
	if err := persister.SaveAll(); err != nil {
		logger.Errorf("Error saving data on shutdown: %v", err)
	}

	if botService.Webhook != nil {
		if err := botService.Webhook.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("HTTP server shutdown error: %v", err)
		}
	}
	if statusServer != nil {
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("Status server shutdown error: %v", err)
		}
	}

	logger.Info("Bot gracefully stopped")
}

// defaultGroupConfig is the config new groups start with
func defaultGroupConfig(d config.DefaultConfig) models.GroupConfig {
	return models.GroupConfig{
		Default: true,
		Limit:   d.Limit,
		Mention: d.Mention,
		Report: models.ReportConfig{
			Auto:   d.ReportAuto,
			Manual: d.ReportManual,
		},
	}
}
