package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/metrics"
)

// Job id roles. At most one job per (role, tenant) is ever pending.
const (
	roleLock    = "lock"
	roleUnlock  = "unlock"
	roleRefresh = "refresh"
	roleRetry   = "retry"
)

func jobID(role, tenantID string) string {
	return role + "_" + tenantID
}

// Gateway is the messaging collaborator that flips posting permissions and
// delivers the notification text for a chat group.
type Gateway interface {
	SetPostingRestricted(ctx context.Context, tenantID string, restricted bool) error
	SendText(ctx context.Context, tenantID string, text string) error
}

// TenantStore holds the dynamic per-tenant overrides. LoadAll must return an
// atomic snapshot; Upsert writes are serialized by the store.
type TenantStore interface {
	LoadAll(ctx context.Context) (map[string]domain.TenantConfig, error)
	Upsert(ctx context.Context, cfg domain.TenantConfig) error
}

// TimerStore is the named one-shot timer facility the engine schedules
// through. Schedule must atomically replace a pending job with the same id.
type TimerStore interface {
	Schedule(jobID string, fireAt time.Time, fn func())
	Cancel(jobID string)
	Exists(jobID string) bool
	NextFireTime(jobID string) (time.Time, bool)
	Len() int
}

// Config carries the engine's policy knobs.
type Config struct {
	// Static is the baseline tenant list merged under dynamic overrides.
	Static []domain.TenantConfig
	// Location is the wall clock used for the 23:00 refresh checkpoint.
	Location *time.Location
	// RetryDelay is how long after a failed resolution the retry fires.
	RetryDelay time.Duration
	// ActionTimeout bounds one gateway call when a lock/unlock job fires.
	ActionTimeout time.Duration
	Clock         Clock
}

// Engine drives the lock/unlock/refresh lifecycle for every tenant: it
// resolves the next cycle per tenant, installs the one-shot lock and unlock
// timers and a refresh timer that re-runs the whole set, and arms a retry
// timer when resolution fails.
type Engine struct {
	store    TenantStore
	resolver *Resolver
	gateway  Gateway
	timers   TimerStore
	cfg      Config
	logger   *slog.Logger
}

func NewEngine(store TenantStore, resolver *Resolver, gateway Gateway, timers TimerStore, cfg Config, logger *slog.Logger) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Hour
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = NewRealClock()
	}
	return &Engine{
		store:    store,
		resolver: resolver,
		gateway:  gateway,
		timers:   timers,
		cfg:      cfg,
		logger:   logger,
	}
}

// RunCycle re-reads the tenant store, merges it over the static baseline and
// (re)installs the timers for every tenant. Tenants are processed
// concurrently and independently: one tenant's provider failure never blocks
// another's jobs. Running it twice with unchanged provider responses leaves
// exactly one pending job per role per tenant.
func (e *Engine) RunCycle(ctx context.Context) {
	tenants := e.snapshotTenants(ctx)

	ids := make([]string, 0, len(tenants))
	for id := range tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	e.logger.Info("running schedule cycle", slog.Int("tenants", len(ids)))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(t domain.TenantConfig) {
			defer wg.Done()
			e.scheduleTenant(ctx, t)
		}(tenants[id])
	}
	wg.Wait()

	metrics.PendingJobs.Set(float64(e.timers.Len()))
}

// snapshotTenants merges the store overrides over the static baseline,
// logging and dropping malformed records.
func (e *Engine) snapshotTenants(ctx context.Context) map[string]domain.TenantConfig {
	overrides, err := e.store.LoadAll(ctx)
	if err != nil {
		// the static baseline still holds a usable tenant set
		e.logger.Error("tenant store read failed, using static baseline only",
			slog.String("error", err.Error()))
		overrides = nil
	}

	tenants, errs := Merge(e.cfg.Static, overrides)
	for _, mergeErr := range errs {
		e.logger.Warn("tenant excluded from cycle", slog.String("error", mergeErr.Error()))
	}
	return tenants
}

func (e *Engine) scheduleTenant(ctx context.Context, t domain.TenantConfig) {
	cycle, err := e.resolver.Resolve(ctx, t)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, ErrInvalidLocation) {
			// retrying will not self-heal a bad location id, but the retry
			// timer is armed all the same so a fixed config takes effect
			e.logger.Error("tenant has invalid location id",
				slog.String("tenant_id", t.TenantID),
				slog.String("location_id", t.LocationID),
				slog.String("error", err.Error()))
		} else {
			e.logger.Warn("cycle resolution failed, retry armed",
				slog.String("tenant_id", t.TenantID),
				slog.Duration("retry_in", e.cfg.RetryDelay),
				slog.String("error", err.Error()))
		}

		tenantID := t.TenantID
		e.timers.Schedule(jobID(roleRetry, tenantID), e.cfg.Clock.Now().Add(e.cfg.RetryDelay), func() {
			e.rerun("retry", tenantID)
		})
		metrics.RetriesTotal.Inc()
		return
	}
	metrics.ResolutionsTotal.WithLabelValues("ok").Inc()

	if cycle.LockAt.Before(e.cfg.Clock.Now()) {
		// scheduled anyway: the timer store fires past instants immediately
		e.logger.Warn("lock instant already in the past",
			slog.String("tenant_id", t.TenantID),
			slog.Time("lock_at", cycle.LockAt))
	}

	// bind arguments now; the callbacks must not see later config changes
	tenantID, lockMsg, unlockMsg := t.TenantID, t.LockMessage, t.UnlockMessage

	e.timers.Cancel(jobID(roleRetry, tenantID))
	e.timers.Schedule(jobID(roleLock, tenantID), cycle.LockAt, func() {
		e.fireAction(tenantID, true, lockMsg)
	})
	e.timers.Schedule(jobID(roleUnlock, tenantID), cycle.UnlockAt, func() {
		e.fireAction(tenantID, false, unlockMsg)
	})

	refreshAt := refreshCheckpoint(cycle.UnlockAt, e.cfg.Location)
	e.timers.Schedule(jobID(roleRefresh, tenantID), refreshAt, func() {
		e.rerun("refresh", tenantID)
	})

	e.logger.Info("tenant cycle scheduled",
		slog.String("tenant_id", tenantID),
		slog.String("title", cycle.Title),
		slog.Time("lock_at", cycle.LockAt),
		slog.Time("unlock_at", cycle.UnlockAt),
		slog.Time("refresh_at", refreshAt))
}

// rerun re-enters RunCycle from a fired refresh or retry timer. It runs on
// the timer callback's own goroutine, so self-rescheduling never grows the
// stack, and re-reads the tenant store so config changes take effect.
func (e *Engine) rerun(reason, tenantID string) {
	e.logger.Info("re-running schedule cycle",
		slog.String("reason", reason),
		slog.String("tenant_id", tenantID))
	e.RunCycle(context.Background())
}

// fireAction is the body of a lock or unlock job: flip posting permissions,
// then send the bound notification text. Gateway errors are logged and
// swallowed; the next refresh is the implicit retry.
func (e *Engine) fireAction(tenantID string, restricted bool, text string) {
	action := roleUnlock
	if restricted {
		action = roleLock
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ActionTimeout)
	defer cancel()

	e.logger.Info("firing scheduled action",
		slog.String("action", action),
		slog.String("tenant_id", tenantID))

	if err := e.gateway.SetPostingRestricted(ctx, tenantID, restricted); err != nil {
		metrics.GatewayActionsTotal.WithLabelValues(action, "error").Inc()
		e.logger.Error("gateway permission change failed",
			slog.String("action", action),
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return
	}
	if err := e.gateway.SendText(ctx, tenantID, text); err != nil {
		metrics.GatewayActionsTotal.WithLabelValues(action, "error").Inc()
		e.logger.Error("gateway notification failed",
			slog.String("action", action),
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return
	}
	metrics.GatewayActionsTotal.WithLabelValues(action, "ok").Inc()
}

// refreshCheckpoint shifts the unlock instant to the 23:00 wall-clock
// checkpoint on the same calendar day in loc.
func refreshCheckpoint(unlockAt time.Time, loc *time.Location) time.Time {
	u := unlockAt.In(loc)
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 0, 0, 0, loc)
}

// TenantStatus is one tenant's merged config plus its pending fire times.
type TenantStatus struct {
	Config    domain.TenantConfig
	LockAt    *time.Time
	UnlockAt  *time.Time
	RefreshAt *time.Time
	RetryAt   *time.Time
}

// Snapshot returns the merged tenant set with the pending job instants, for
// the status surfaces. Tenants are ordered by id.
func (e *Engine) Snapshot(ctx context.Context) []TenantStatus {
	tenants := e.snapshotTenants(ctx)

	ids := make([]string, 0, len(tenants))
	for id := range tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]TenantStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.status(tenants[id]))
	}
	return out
}

// Status returns one tenant's merged config and pending fire times.
func (e *Engine) Status(ctx context.Context, tenantID string) (TenantStatus, error) {
	tenants := e.snapshotTenants(ctx)
	t, ok := tenants[tenantID]
	if !ok {
		return TenantStatus{}, ErrTenantNotFound
	}
	return e.status(t), nil
}

func (e *Engine) status(t domain.TenantConfig) TenantStatus {
	st := TenantStatus{Config: t}
	if at, ok := e.timers.NextFireTime(jobID(roleLock, t.TenantID)); ok {
		st.LockAt = &at
	}
	if at, ok := e.timers.NextFireTime(jobID(roleUnlock, t.TenantID)); ok {
		st.UnlockAt = &at
	}
	if at, ok := e.timers.NextFireTime(jobID(roleRefresh, t.TenantID)); ok {
		st.RefreshAt = &at
	}
	if at, ok := e.timers.NextFireTime(jobID(roleRetry, t.TenantID)); ok {
		st.RetryAt = &at
	}
	return st
}
