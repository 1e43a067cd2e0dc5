package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/infra/geonames"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/infra/hebcal"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/metrics"
	repopg "github.com/NastyaGoryachaya/shabbat-guard-bot/internal/repository/postgres"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/timers"
	botpkg "github.com/NastyaGoryachaya/shabbat-guard-bot/internal/transport/bot"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/transport/httptransport"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/transport/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db   *pgxpool.Pool
	e    *echo.Echo
	serv *http.Server

	tenantRepo *repopg.TenantRepo
	timerStore *timers.Store
	engine     *schedule.Engine

	bot *botpkg.Bot
}

func NewApp(cfg config.Config, log *slog.Logger, db *pgxpool.Pool) (*App, error) {
	app := &App{cfg: cfg, log: log, db: db}

	metrics.Register()

	app.tenantRepo = repopg.NewTenantRepo(db)
	app.timerStore = timers.NewStore(log)

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	session, err := telegram.NewSession(cfg.Telegram)
	if err != nil {
		log.Error("telegram init failed", slog.String("error", err.Error()))
		return nil, err
	}
	gateway := telegram.NewGateway(session, log)

	provider := hebcal.NewClient(cfg.Hebcal)
	resolver := schedule.NewResolver(provider)

	app.engine = schedule.NewEngine(app.tenantRepo, resolver, gateway, app.timerStore, schedule.Config{
		Static:     staticTenants(cfg.Schedule.Tenants),
		Location:   loc,
		RetryDelay: cfg.Schedule.RetryDelay,
	}, log)

	locations := geonames.NewClient(cfg.Geonames)
	app.bot = botpkg.New(session, app.engine, app.tenantRepo, locations, log)

	e := echo.New()
	e.HideBanner = true
	app.e = e
	ah := httptransport.NewAdminHandler(log, app.engine, cfg.Server.ReadTimeout)
	ah.RegisterRoutes(e)

	app.serv = &http.Server{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      e,
	}

	log.Info("app initialized",
		slog.Int("static_tenants", len(cfg.Schedule.Tenants)),
		slog.String("timezone", cfg.Schedule.Timezone),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

// staticTenants converts the config baseline into domain records.
func staticTenants(list []config.StaticTenant) []domain.TenantConfig {
	out := make([]domain.TenantConfig, 0, len(list))
	for _, t := range list {
		out = append(out, domain.TenantConfig{
			TenantID:              t.ChatID,
			LocationID:            t.GeonameID,
			DisplayLocation:       t.DisplayLocation,
			CandleOffsetMinutes:   t.CandleOffsetMinutes,
			HavdalahOffsetMinutes: t.HavdalahOffsetMinutes,
			LockMessage:           t.LockMessage,
			UnlockMessage:         t.UnlockMessage,
		})
	}
	return out
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting bot")
	go a.bot.Start(ctx)

	// first resolution right away, the refresh timers take over from there
	go a.engine.RunCycle(ctx)

	a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
	go func() {
		if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", slog.String("error", err.Error()))
		}
	}()
	<-ctx.Done()
	return a.Shutdown(context.Background())
}

func (a *App) Shutdown(ctx context.Context) error {
	shCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.e != nil {
		if err := a.e.Shutdown(shCtx); err != nil {
			a.log.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	if a.timerStore != nil {
		a.timerStore.Stop()
	}

	if a.db != nil {
		a.db.Close()
	}

	a.log.Info("application stopped")
	return nil
}
