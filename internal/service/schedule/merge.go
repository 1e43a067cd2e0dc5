package schedule

import (
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
)

// Merge combines the static baseline tenant list with dynamic overrides into
// one snapshot keyed by tenant id. An override replaces the static record
// wholesale: no field-level merging, last writer wins at record granularity.
// Malformed records are excluded and reported, they never make it into the
// cycle. Pure function, inputs are not mutated.
func Merge(static []domain.TenantConfig, overrides map[string]domain.TenantConfig) (map[string]domain.TenantConfig, []error) {
	merged := make(map[string]domain.TenantConfig, len(static)+len(overrides))
	var errs []error

	for _, t := range static {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		merged[t.TenantID] = t
	}

	for id, t := range overrides {
		if t.TenantID == "" {
			t.TenantID = id
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			// an invalid override must not leave a stale static record behind
			delete(merged, id)
			continue
		}
		merged[id] = t
	}

	return merged, errs
}
