package bot

import (
	"context"
	"log/slog"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/infra/geonames"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule"
	"gopkg.in/telebot.v4"
)

// Engine is the schedule engine surface the operator commands drive.
type Engine interface {
	RunCycle(ctx context.Context)
	Status(ctx context.Context, tenantID string) (schedule.TenantStatus, error)
}

// LocationSearcher resolves a city name into geoname candidates.
type LocationSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]geonames.Place, error)
}

// Bot is the operator command front-end: it lets group admins inspect and
// change their tenant's configuration and force a re-resolution.
type Bot struct {
	bot       *telebot.Bot
	engine    Engine
	store     schedule.TenantStore
	locations LocationSearcher
	logger    *slog.Logger
}

// New registers the command routes on an existing telebot session. The
// session is shared with the messaging gateway, one bot token drives both.
func New(b *telebot.Bot, engine Engine, store schedule.TenantStore, locations LocationSearcher, logger *slog.Logger) *Bot {
	bot := &Bot{
		bot:       b,
		engine:    engine,
		store:     store,
		locations: locations,
		logger:    logger,
	}

	b.Handle("/start", bot.handleStart)
	b.Handle("/status", bot.handleStatus)
	b.Handle("/setlocation", bot.handleSetLocation)
	b.Handle("/findcity", bot.handleFindCity)
	b.Handle("/sethavdalah", bot.handleSetHavdalah)
	b.Handle("/setlock", bot.handleSetLock)
	b.Handle("/setunlock", bot.handleSetUnlock)
	b.Handle("/reschedule", bot.handleReschedule)
	return bot
}

// Start begins long polling.
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
}

// Stop stops the poller.
func (b *Bot) Stop() {
	b.bot.Stop()
}
