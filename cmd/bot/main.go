package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yenege/ticketbot/internal/bot"
	"github.com/yenege/ticketbot/internal/config"
	"github.com/yenege/ticketbot/internal/messaging/telegram"
	"github.com/yenege/ticketbot/internal/scheduler"
	"github.com/yenege/ticketbot/internal/store"
	"github.com/yenege/ticketbot/internal/webhook"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Logging.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("starting ticket bot")
	log.Printf("%s", cfg)

	db, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer db.Close()
	slog.Info("database initialized")

	platform, err := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}

	if cfg.Telegram.WebhookURL != "" {
		if err := platform.SetWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		slog.Info("webhook registered", "url", cfg.Telegram.WebhookURL)
	}

	auth := bot.NewAuthorizer(cfg.Telegram.AdminIDList(), db, platform)
	broadcaster := bot.NewBroadcaster(platform, db)
	notifier := bot.NewNotifier(platform, db)
	dispatcher := bot.NewDispatcher(platform, auth, db, db, broadcaster, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Reminders.Enabled {
		job, err := scheduler.NewReminderJob(cfg.Reminders.Schedule, db, broadcaster, nil)
		if err != nil {
			log.Fatalf("Failed to create reminder job: %v", err)
		}
		go job.Start(ctx)
	}

	server := webhook.NewServer(
		cfg.Server.ListenAddr,
		cfg.Server.WebhookPath,
		cfg.Telegram.WebhookSecret,
		cfg.Logging.Verbose,
		dispatcher,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("shutting down", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("bot is ready to receive updates")
	err = server.Run()

	// Run unblocks once Shutdown finishes; drain in-flight notification
	// sends before the process exits.
	notifier.Wait()

	if err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}
