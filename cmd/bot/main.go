// Package main contains the entrypoint for the reminder bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/duebot/internal/bot"
	"github.com/edgard/duebot/internal/bot/handlers"
	"github.com/edgard/duebot/internal/bot/tasks"
	"github.com/edgard/duebot/internal/config"
	"github.com/edgard/duebot/internal/database"
	"github.com/edgard/duebot/internal/logger"
	"github.com/edgard/duebot/internal/reminder"
	"github.com/edgard/duebot/internal/taskboard"
	"github.com/edgard/duebot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, database, task board, reminder service, Telegram
// bot and scheduler, blocks until shutdown, and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc, err := cfg.Reminder.Location()
	if err != nil {
		log.Error("Invalid reminder timezone", "error", err)
		return 1
	}
	clock := clockwork.NewRealClock()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	board := taskboard.NewBoard(store, log)
	if err := board.Load(ctx); err != nil {
		log.Error("Failed to load tasks", "error", err)
		return 1
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	// A missing target is not fatal: commands keep working and reminder
	// operations report ErrConfigMissing.
	target, err := reminder.NewTarget(cfg.Reminder.ChannelID, cfg.Reminder.Role)
	if err != nil {
		log.Warn("Reminder target not configured", "error", err)
	}

	messenger := telegram.NewMessenger(tg, store, cfg.Telegram.BotInfo.ID, cfg.Reminder.RecentLimit, log)
	service := reminder.NewService(log, board, messenger, target, cfg.Telegram.BotInfo.ID, loc, clock)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Board:    board,
		Reminder: service,
		Location: loc,
		Clock:    clock,
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Reminder: service,
		Config:   cfg,
		Clock:    clock,
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(ctx, tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), loc, clock)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, store, tg, sched)

	log.Info("Starting bot...", "timezone", loc.String())
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
