package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/app"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/infra/db"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {

	// context + signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logg := logger.New(&cfg.Logger)

	pool, err := db.NewPool(&cfg.Postgres)
	if err != nil {
		logg.Error("postgres init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// build application
	application, err := app.NewApp(*cfg, logg, pool)
	if err != nil {
		logg.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// run application
	if err := application.Run(ctx); err != nil {
		logg.Error("application stopped with error", slog.String("error", err.Error()))
	}

	logg.Info("shabbat-guard-bot stopped")
}
