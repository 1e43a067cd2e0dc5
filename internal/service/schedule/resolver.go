package schedule

import (
	"context"
	"fmt"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
)

// CycleProvider is the astronomical time provider collaborator. A zero
// havdalahOffsetMinutes requests the provider's automatic (three stars)
// rule, a positive value requests a fixed minutes-after-sunset offset.
type CycleProvider interface {
	GetCycle(ctx context.Context, locationID string, havdalahOffsetMinutes int) (domain.ResolvedCycle, error)
}

// Resolver turns one tenant's location and offset policy into the next
// lock/unlock pair. Every call re-queries the provider, nothing is cached.
type Resolver struct {
	provider CycleProvider
}

func NewResolver(provider CycleProvider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve validates the tenant's location id, queries the provider and
// normalizes the response. A non-numeric location id fails with
// ErrInvalidLocation before any provider call; transport failures and
// incomplete or unordered responses fail with ErrResolution.
//
// A cycle whose lock instant is already in the past is returned as-is;
// whether to act on it is the caller's policy.
func (r *Resolver) Resolve(ctx context.Context, tenant domain.TenantConfig) (domain.ResolvedCycle, error) {
	if !isNumericID(tenant.LocationID) {
		return domain.ResolvedCycle{}, fmt.Errorf("%w: %q", ErrInvalidLocation, tenant.LocationID)
	}

	cycle, err := r.provider.GetCycle(ctx, tenant.LocationID, tenant.HavdalahOffsetMinutes)
	if err != nil {
		return domain.ResolvedCycle{}, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	if cycle.LockAt.IsZero() || cycle.UnlockAt.IsZero() {
		return domain.ResolvedCycle{}, fmt.Errorf("%w: provider response missing lock or unlock instant", ErrResolution)
	}
	if !cycle.LockAt.Before(cycle.UnlockAt) {
		return domain.ResolvedCycle{}, fmt.Errorf("%w: lock instant %s not before unlock instant %s",
			ErrResolution, cycle.LockAt, cycle.UnlockAt)
	}

	cycle.LockAt = cycle.LockAt.UTC()
	cycle.UnlockAt = cycle.UnlockAt.UTC()
	return cycle, nil
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
