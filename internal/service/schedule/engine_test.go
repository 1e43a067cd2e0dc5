package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
	schedmocks "github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule/mocks"
	"github.com/golang/mock/gomock"
)

// fakeTimers records scheduled jobs so tests can inspect and fire them
// synchronously.
type fakeTimers struct {
	mu   sync.Mutex
	jobs map[string]fakeJob
}

type fakeJob struct {
	fireAt time.Time
	fn     func()
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{jobs: make(map[string]fakeJob)}
}

func (f *fakeTimers) Schedule(jobID string, fireAt time.Time, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[jobID] = fakeJob{fireAt: fireAt, fn: fn}
}

func (f *fakeTimers) Cancel(jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, jobID)
}

func (f *fakeTimers) Exists(jobID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[jobID]
	return ok
}

func (f *fakeTimers) NextFireTime(jobID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	return j.fireAt, ok
}

func (f *fakeTimers) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fire runs a pending job's callback on the test goroutine, consuming it.
func (f *fakeTimers) fire(t *testing.T, jobID string) {
	t.Helper()
	f.mu.Lock()
	j, ok := f.jobs[jobID]
	delete(f.jobs, jobID)
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no pending job %q", jobID)
	}
	j.fn()
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setupEngine(t *testing.T, static ...domain.TenantConfig) (*gomock.Controller, *schedmocks.MockTenantStore, *schedmocks.MockCycleProvider, *schedmocks.MockGateway, *fakeTimers, *Engine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := schedmocks.NewMockTenantStore(ctrl)
	provider := schedmocks.NewMockCycleProvider(ctrl)
	gateway := schedmocks.NewMockGateway(ctrl)
	ft := newFakeTimers()

	eng := NewEngine(store, NewResolver(provider), gateway, ft, Config{
		Static:     static,
		Location:   time.UTC,
		RetryDelay: time.Hour,
		Clock:      fixedClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}, slog.Default())
	return ctrl, store, provider, gateway, ft, eng
}

var (
	g1LockAt   = time.Date(2024, 1, 5, 15, 40, 0, 0, time.UTC)
	g1UnlockAt = time.Date(2024, 1, 6, 17, 2, 0, 0, time.UTC)
)

func g1Cycle() domain.ResolvedCycle {
	return domain.ResolvedCycle{LockAt: g1LockAt, UnlockAt: g1UnlockAt, Title: "Shabbat"}
}

func TestRunCycle_EndToEnd(t *testing.T) {
	tenant := validTenant("G1")
	ctrl, store, provider, gateway, ft, eng := setupEngine(t, tenant)
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil)

	eng.RunCycle(context.Background())

	if at, ok := ft.NextFireTime("lock_G1"); !ok || !at.Equal(g1LockAt) {
		t.Fatalf("lock_G1 not scheduled at %v: %v %v", g1LockAt, at, ok)
	}
	if at, ok := ft.NextFireTime("unlock_G1"); !ok || !at.Equal(g1UnlockAt) {
		t.Fatalf("unlock_G1 not scheduled at %v: %v %v", g1UnlockAt, at, ok)
	}
	wantRefresh := time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC)
	if at, ok := ft.NextFireTime("refresh_G1"); !ok || !at.Equal(wantRefresh) {
		t.Fatalf("refresh_G1 not scheduled at %v: %v %v", wantRefresh, at, ok)
	}
	if ft.Exists("retry_G1") {
		t.Fatal("no retry job expected after a successful resolution")
	}

	// lock fires: restrict posting, then notify
	gomock.InOrder(
		gateway.EXPECT().SetPostingRestricted(gomock.Any(), "G1", true).Return(nil),
		gateway.EXPECT().SendText(gomock.Any(), "G1", tenant.LockMessage).Return(nil),
	)
	ft.fire(t, "lock_G1")

	// unlock fires: open posting, then notify
	gomock.InOrder(
		gateway.EXPECT().SetPostingRestricted(gomock.Any(), "G1", false).Return(nil),
		gateway.EXPECT().SendText(gomock.Any(), "G1", tenant.UnlockMessage).Return(nil),
	)
	ft.fire(t, "unlock_G1")
}

func TestRunCycle_Idempotent(t *testing.T) {
	ctrl, store, provider, _, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil).Times(2)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil).Times(2)

	eng.RunCycle(context.Background())
	eng.RunCycle(context.Background())

	if ft.Len() != 3 {
		t.Fatalf("expected exactly 3 pending jobs after repeated cycles, got %d", ft.Len())
	}
	for _, id := range []string{"lock_G1", "unlock_G1", "refresh_G1"} {
		if !ft.Exists(id) {
			t.Fatalf("missing job %q", id)
		}
	}
}

func TestRunCycle_RetryOnProviderFailure(t *testing.T) {
	ctrl, store, provider, _, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).
		Return(domain.ResolvedCycle{}, errors.New("timeout"))

	eng.RunCycle(context.Background())

	for _, id := range []string{"lock_G1", "unlock_G1", "refresh_G1"} {
		if ft.Exists(id) {
			t.Fatalf("job %q must not exist after a failed resolution", id)
		}
	}
	at, ok := ft.NextFireTime("retry_G1")
	if !ok {
		t.Fatal("retry_G1 not scheduled")
	}
	want := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Fatalf("retry expected at %v, got %v", want, at)
	}
}

func TestRunCycle_InvalidLocationStillArmsRetry(t *testing.T) {
	tenant := validTenant("G1")
	tenant.LocationID = "abc"
	ctrl, store, _, _, ft, eng := setupEngine(t, tenant)
	defer ctrl.Finish()

	// provider has no EXPECT: the invalid id never reaches it
	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil)

	eng.RunCycle(context.Background())

	if !ft.Exists("retry_G1") {
		t.Fatal("retry job expected even for a permanent misconfiguration")
	}
}

func TestRunCycle_TwoTenantIsolation(t *testing.T) {
	ctrl, store, provider, _, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	g2 := validTenant("G2")
	g2.LocationID = "295277"
	store.EXPECT().LoadAll(gomock.Any()).Return(map[string]domain.TenantConfig{"G2": g2}, nil)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil)
	provider.EXPECT().GetCycle(gomock.Any(), "295277", 0).
		Return(domain.ResolvedCycle{}, errors.New("unreachable"))

	eng.RunCycle(context.Background())

	for _, id := range []string{"lock_G1", "unlock_G1", "refresh_G1"} {
		if !ft.Exists(id) {
			t.Fatalf("G1 job %q lost to G2's failure", id)
		}
	}
	if !ft.Exists("retry_G2") {
		t.Fatal("retry_G2 not scheduled")
	}
	if ft.Exists("lock_G2") {
		t.Fatal("lock_G2 must not exist after a failed resolution")
	}
}

func TestRunCycle_SuccessCancelsPendingRetry(t *testing.T) {
	ctrl, store, provider, _, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	gomock.InOrder(
		provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).
			Return(domain.ResolvedCycle{}, errors.New("timeout")),
		provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil),
	)
	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil).Times(2)

	eng.RunCycle(context.Background())
	if !ft.Exists("retry_G1") {
		t.Fatal("retry_G1 not scheduled after failure")
	}

	eng.RunCycle(context.Background())
	if ft.Exists("retry_G1") {
		t.Fatal("stale retry_G1 must be cancelled by a successful resolution")
	}
	if ft.Len() != 3 {
		t.Fatalf("expected 3 pending jobs, got %d", ft.Len())
	}
}

func TestRunCycle_RefreshRereadsStore(t *testing.T) {
	tenant := validTenant("G1")
	ctrl, store, provider, gateway, ft, eng := setupEngine(t, tenant)
	defer ctrl.Finish()

	updated := tenant
	updated.LockMessage = "updated lock message"

	gomock.InOrder(
		store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil),
		store.EXPECT().LoadAll(gomock.Any()).
			Return(map[string]domain.TenantConfig{"G1": updated}, nil),
	)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil).Times(2)

	eng.RunCycle(context.Background())
	// the refresh job re-runs the cycle and must pick up the store change
	ft.fire(t, "refresh_G1")

	gomock.InOrder(
		gateway.EXPECT().SetPostingRestricted(gomock.Any(), "G1", true).Return(nil),
		gateway.EXPECT().SendText(gomock.Any(), "G1", "updated lock message").Return(nil),
	)
	ft.fire(t, "lock_G1")
}

func TestFireAction_GatewayErrorSkipsNotification(t *testing.T) {
	ctrl, store, provider, gateway, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil)
	eng.RunCycle(context.Background())

	// restriction fails; no SendText EXPECT, the notification is skipped
	gateway.EXPECT().SetPostingRestricted(gomock.Any(), "G1", true).
		Return(errors.New("forbidden"))
	ft.fire(t, "lock_G1")
}

func TestRunCycle_StoreErrorFallsBackToStatic(t *testing.T) {
	ctrl, store, provider, _, ft, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, errors.New("db down"))
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil)

	eng.RunCycle(context.Background())

	if !ft.Exists("lock_G1") {
		t.Fatal("static baseline tenant must still be scheduled when the store is down")
	}
}

func TestStatus(t *testing.T) {
	ctrl, store, provider, _, _, eng := setupEngine(t, validTenant("G1"))
	defer ctrl.Finish()

	store.EXPECT().LoadAll(gomock.Any()).Return(nil, nil).Times(3)
	provider.EXPECT().GetCycle(gomock.Any(), "281184", 0).Return(g1Cycle(), nil)

	eng.RunCycle(context.Background())

	st, err := eng.Status(context.Background(), "G1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.LockAt == nil || !st.LockAt.Equal(g1LockAt) {
		t.Fatalf("unexpected lock time in status: %v", st.LockAt)
	}
	if st.RetryAt != nil {
		t.Fatal("no retry expected in status")
	}

	if _, err := eng.Status(context.Background(), "G9"); !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}
