package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/ports/errcode"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule"
	"gopkg.in/telebot.v4"
)

const handlerTimeout = 3 * time.Second

// handleStart - sends the command reference
func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send("ברוכים הבאים לבוט שומר שבת! פקודות זמינות:\n" +
		"/status - הגדרות ותזמונים נוכחיים\n" +
		"/setlocation {geonameid} [שם] - קביעת מיקום\n" +
		"/findcity {שם עיר} - חיפוש מזהה מיקום\n" +
		"/sethavdalah {דקות} - הבדלה קבועה, 0 = חישוב אוטומטי\n" +
		"/setlock {טקסט} - הודעת נעילה\n" +
		"/setunlock {טקסט} - הודעת פתיחה\n" +
		"/reschedule - חישוב מחדש של התזמונים")
}

// handleStatus - shows the tenant's merged config and pending fire times
func (b *Bot) handleStatus(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	st, err := b.engine.Status(ctx, tenantID(c))
	if err != nil {
		return c.Send(translateBotError(FromServiceError(err)))
	}

	var bld strings.Builder
	fmt.Fprintf(&bld, "📍 מיקום: %s (%s)\n", st.Config.DisplayLocation, st.Config.LocationID)
	if st.Config.HavdalahOffsetMinutes > 0 {
		fmt.Fprintf(&bld, "✨ הבדלה: %d דקות אחרי שקיעה\n", st.Config.HavdalahOffsetMinutes)
	} else {
		bld.WriteString("✨ הבדלה: חישוב אוטומטי (3 כוכבים)\n")
	}
	writeFireTime(&bld, "🔒 נעילה", st.LockAt)
	writeFireTime(&bld, "🔓 פתיחה", st.UnlockAt)
	writeFireTime(&bld, "🔄 רענון", st.RefreshAt)
	writeFireTime(&bld, "⏳ ניסיון חוזר", st.RetryAt)
	return c.Send(bld.String())
}

func writeFireTime(bld *strings.Builder, label string, at *time.Time) {
	if at == nil {
		return
	}
	fmt.Fprintf(bld, "%s: %s\n", label, at.Format("2006-01-02 15:04 MST"))
}

// handleSetLocation - sets the tenant's geoname id and display label
func (b *Bot) handleSetLocation(c telebot.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Send("שימוש: /setlocation {geonameid} [שם מקום]")
	}
	locationID := args[0]
	if _, err := strconv.ParseUint(locationID, 10, 64); err != nil {
		return c.Send(translateBotError(errcode.InvalidLocation))
	}

	return b.mutate(c, func(cfg *domain.TenantConfig) {
		cfg.LocationID = locationID
		if len(args) > 1 {
			cfg.DisplayLocation = strings.Join(args[1:], " ")
		}
	}, "המיקום עודכן! התזמונים יחושבו מחדש.")
}

// handleFindCity - searches GeoNames for a city's geoname id
func (b *Bot) handleFindCity(c telebot.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return c.Send("שימוש: /findcity {שם עיר}")
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	places, err := b.locations.Search(ctx, strings.Join(args, " "), 5)
	if err != nil {
		b.logger.Error("bot: city search failed",
			slog.Int64("chat_id", c.Chat().ID),
			slog.String("error", err.Error()))
		return c.Send(translateBotError(errcode.Internal))
	}
	if len(places) == 0 {
		return c.Send("לא נמצאו תוצאות. ודא ששם העיר נכון ושהוגדר GEONAMES_USERNAME.")
	}

	var bld strings.Builder
	bld.WriteString("תוצאות חיפוש:\n")
	for _, p := range places {
		fmt.Fprintf(&bld, "%s, %s, %s - %s\n", p.Name, p.Region, p.Country, p.GeonameID)
	}
	bld.WriteString("\nלהגדרה: /setlocation {geonameid}")
	return c.Send(bld.String())
}

// handleSetHavdalah - sets the havdalah offset policy, 0 = automatic
func (b *Bot) handleSetHavdalah(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("שימוש: /sethavdalah {דקות}, 0 = חישוב אוטומטי")
	}
	mins, err := strconv.Atoi(args[0])
	if err != nil || mins < 0 {
		return c.Send(translateBotError(errcode.BadRequest))
	}

	return b.mutate(c, func(cfg *domain.TenantConfig) {
		cfg.HavdalahOffsetMinutes = mins
	}, "הגדרת ההבדלה עודכנה! התזמונים יחושבו מחדש.")
}

// handleSetLock - sets the lock notification text
func (b *Bot) handleSetLock(c telebot.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Send("שימוש: /setlock {טקסט ההודעה}")
	}
	return b.mutate(c, func(cfg *domain.TenantConfig) {
		cfg.LockMessage = text
	}, "הודעת הנעילה עודכנה!")
}

// handleSetUnlock - sets the unlock notification text
func (b *Bot) handleSetUnlock(c telebot.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Send("שימוש: /setunlock {טקסט ההודעה}")
	}
	return b.mutate(c, func(cfg *domain.TenantConfig) {
		cfg.UnlockMessage = text
	}, "הודעת הפתיחה עודכנה!")
}

// handleReschedule - forces a re-resolution of the whole tenant set
func (b *Bot) handleReschedule(c telebot.Context) error {
	go b.engine.RunCycle(context.Background())
	return c.Send("מחשב מחדש את התזמונים...")
}

// mutate applies a read-merge-write of the tenant's config through the
// store, then re-runs the schedule cycle so the change takes effect.
func (b *Bot) mutate(c telebot.Context, apply func(*domain.TenantConfig), confirmation string) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	id := tenantID(c)
	cfg := b.currentConfig(ctx, id)
	apply(&cfg)

	if err := b.store.Upsert(ctx, cfg); err != nil {
		b.logger.Error("bot: config upsert failed",
			slog.String("tenant_id", id),
			slog.String("error", err.Error()))
		return c.Send(translateBotError(errcode.Internal))
	}

	go b.engine.RunCycle(context.Background())
	return c.Send(confirmation)
}

// currentConfig returns the tenant's merged config, or a fresh Jerusalem
// default record for a chat seen for the first time.
func (b *Bot) currentConfig(ctx context.Context, id string) domain.TenantConfig {
	st, err := b.engine.Status(ctx, id)
	if err == nil {
		return st.Config
	}
	if !errors.Is(err, schedule.ErrTenantNotFound) {
		b.logger.Warn("bot: status lookup failed, starting from defaults",
			slog.String("tenant_id", id),
			slog.String("error", err.Error()))
	}
	return domain.TenantConfig{
		TenantID:              id,
		LocationID:            "281184",
		DisplayLocation:       "Jerusalem",
		CandleOffsetMinutes:   18,
		HavdalahOffsetMinutes: 0,
		LockMessage:           "🕯️ שבת שלום! הקבוצה ננעלת עד צאת השבת.",
		UnlockMessage:         "✨ שבוע טוב! הקבוצה נפתחה.",
	}
}

func tenantID(c telebot.Context) string {
	return strconv.FormatInt(c.Chat().ID, 10)
}
