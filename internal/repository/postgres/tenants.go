package postgres

import (
	"context"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantRepo persists the dynamic per-tenant overrides. Each row replaces
// the static baseline record for the same chat wholesale at merge time.
type TenantRepo struct {
	db *pgxpool.Pool
}

func NewTenantRepo(db *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{db: db}
}

// LoadAll returns a snapshot of every stored tenant keyed by chat id.
func (r *TenantRepo) LoadAll(ctx context.Context) (map[string]domain.TenantConfig, error) {
	query := `
	SELECT chat_id, geoname_id, display_location,
	       candle_offset_minutes, havdalah_offset_minutes,
	       lock_message, unlock_message
	FROM tenants`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]domain.TenantConfig)
	for rows.Next() {
		var t domain.TenantConfig
		if err := rows.Scan(
			&t.TenantID,
			&t.LocationID,
			&t.DisplayLocation,
			&t.CandleOffsetMinutes,
			&t.HavdalahOffsetMinutes,
			&t.LockMessage,
			&t.UnlockMessage,
		); err != nil {
			return nil, err
		}
		result[t.TenantID] = t
	}
	return result, rows.Err()
}

// Upsert inserts or replaces the override record for cfg's chat id. The
// single upsert statement keeps racing configuration commands from losing
// each other's writes.
func (r *TenantRepo) Upsert(ctx context.Context, cfg domain.TenantConfig) error {
	query := `
	INSERT INTO tenants (chat_id, geoname_id, display_location,
	                     candle_offset_minutes, havdalah_offset_minutes,
	                     lock_message, unlock_message)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (chat_id)
	DO UPDATE SET geoname_id = EXCLUDED.geoname_id,
	              display_location = EXCLUDED.display_location,
	              candle_offset_minutes = EXCLUDED.candle_offset_minutes,
	              havdalah_offset_minutes = EXCLUDED.havdalah_offset_minutes,
	              lock_message = EXCLUDED.lock_message,
	              unlock_message = EXCLUDED.unlock_message`
	_, err := r.db.Exec(ctx, query,
		cfg.TenantID,
		cfg.LocationID,
		cfg.DisplayLocation,
		cfg.CandleOffsetMinutes,
		cfg.HavdalahOffsetMinutes,
		cfg.LockMessage,
		cfg.UnlockMessage,
	)
	return err
}
