package hebcal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
)

const shabbatPayload = `{
	"title": "Hebcal Jerusalem January 2024",
	"items": [
		{"title": "Candle lighting: 16:06", "category": "candles", "date": "2024-01-05T16:06:00+02:00"},
		{"title": "Parashat Vayigash", "category": "parashat", "date": "2024-01-06"},
		{"title": "Havdalah: 17:22", "category": "havdalah", "date": "2024-01-06T17:22:00+02:00"}
	]
}`

func newTestClient(baseURL string) *Client {
	return NewClient(config.HebcalConfig{
		BaseURL:             baseURL,
		CandleOffsetMinutes: 18,
		Timeout:             2 * time.Second,
	})
}

func TestGetCycle_AutomaticHavdalah(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(shabbatPayload))
	}))
	defer srv.Close()

	cycle, err := newTestClient(srv.URL).GetCycle(context.Background(), "281184", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery["geonameid"]; len(got) != 1 || got[0] != "281184" {
		t.Fatalf("unexpected geonameid param: %v", got)
	}
	if got := gotQuery["M"]; len(got) != 1 || got[0] != "on" {
		t.Fatalf("expected automatic havdalah (M=on), got %v", gotQuery)
	}
	if _, ok := gotQuery["m"]; ok {
		t.Fatal("fixed-minutes param must not be sent in automatic mode")
	}
	if got := gotQuery["b"]; len(got) != 1 || got[0] != "18" {
		t.Fatalf("unexpected candle offset param: %v", got)
	}

	wantLock := time.Date(2024, 1, 5, 14, 6, 0, 0, time.UTC)
	wantUnlock := time.Date(2024, 1, 6, 15, 22, 0, 0, time.UTC)
	if !cycle.LockAt.Equal(wantLock) || !cycle.UnlockAt.Equal(wantUnlock) {
		t.Fatalf("unexpected cycle instants: %+v", cycle)
	}
	if cycle.Title != "Hebcal Jerusalem January 2024" {
		t.Fatalf("unexpected title: %q", cycle.Title)
	}
}

func TestGetCycle_FixedHavdalahOffset(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(shabbatPayload))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetCycle(context.Background(), "281184", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gotQuery["m"]; len(got) != 1 || got[0] != "50" {
		t.Fatalf("expected m=50, got %v", gotQuery)
	}
	if _, ok := gotQuery["M"]; ok {
		t.Fatal("automatic param must not be sent in fixed-minutes mode")
	}
}

func TestGetCycle_MissingHavdalahItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"t","items":[{"category":"candles","date":"2024-01-05T16:06:00+02:00"}]}`))
	}))
	defer srv.Close()

	cycle, err := newTestClient(srv.URL).GetCycle(context.Background(), "281184", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cycle.UnlockAt.IsZero() {
		t.Fatalf("expected zero unlock instant, got %v", cycle.UnlockAt)
	}
}

func TestGetCycle_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetCycle(context.Background(), "281184", 0); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGetCycle_MalformedDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"t","items":[{"category":"candles","date":"not-a-date"}]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetCycle(context.Background(), "281184", 0); err == nil {
		t.Fatal("expected error on malformed date")
	}
}
