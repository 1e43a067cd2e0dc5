package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfiguration - malformed tenant record (missing required fields)
var ErrConfiguration = errors.New("invalid tenant configuration")

// TenantConfig - policy for one managed chat group
type TenantConfig struct {
	TenantID              string `json:"tenant_id"`        // external chat id, kept as string
	LocationID            string `json:"location_id"`      // geoname id understood by the time provider
	DisplayLocation       string `json:"display_location"` // human-readable label, cosmetic
	CandleOffsetMinutes   int    `json:"candle_offset_minutes"`
	HavdalahOffsetMinutes int    `json:"havdalah_offset_minutes"` // 0 = provider's automatic rule
	LockMessage           string `json:"lock_message"`
	UnlockMessage         string `json:"unlock_message"`
}

// Validate reports the first missing required field, wrapped in ErrConfiguration.
func (t TenantConfig) Validate() error {
	switch {
	case t.TenantID == "":
		return fmt.Errorf("%w: missing tenant id", ErrConfiguration)
	case t.LocationID == "":
		return fmt.Errorf("%w: tenant %s: missing location id", ErrConfiguration, t.TenantID)
	case t.LockMessage == "":
		return fmt.Errorf("%w: tenant %s: missing lock message", ErrConfiguration, t.TenantID)
	case t.UnlockMessage == "":
		return fmt.Errorf("%w: tenant %s: missing unlock message", ErrConfiguration, t.TenantID)
	}
	return nil
}

// ResolvedCycle - one lock/unlock period for a tenant, recomputed every
// resolution and never persisted.
type ResolvedCycle struct {
	LockAt   time.Time `json:"lock_at"`
	UnlockAt time.Time `json:"unlock_at"`
	Title    string    `json:"title"` // advisory label from the provider
}
