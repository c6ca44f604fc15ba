// Package sqlite provides SQLite-backed implementations of the domain
// repositories.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/logging"
)

const settingsKey = "global_settings"

type settingsRepo struct {
	db *sql.DB

	// Serializes read-modify-write cycles. The underlying storage gives no
	// transactional isolation across handler suspension points, so Update
	// holds this for the whole cycle.
	mu sync.Mutex
}

// NewSettingsRepository creates a new SQLite-backed settings repository.
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (entity.GlobalSettings, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.GlobalSettings{}, false, nil
	}
	if err != nil {
		return entity.GlobalSettings{}, false, fmt.Errorf("read settings: %w", err)
	}

	var settings entity.GlobalSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return entity.GlobalSettings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	return settings, true, nil
}

func (r *settingsRepo) Save(ctx context.Context, settings entity.GlobalSettings) error {
	log := logging.FromContext(ctx)
	log.Debug().
		Int("default_zoom", settings.DefaultZoomPercent).
		Int("toggle_zoom", settings.ToggleZoomPercent).
		Bool("toggle_mode", settings.ToggleModeEnabled).
		Bool("toggled_active", settings.IsToggledActive).
		Msg("saving global settings")

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		settingsKey, string(raw))
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (r *settingsRepo) Update(ctx context.Context, fn func(*entity.GlobalSettings)) (entity.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, ok, err := r.Get(ctx)
	if err != nil {
		return entity.GlobalSettings{}, err
	}
	if !ok {
		settings = entity.DefaultSettings()
	}

	fn(&settings)

	if err := r.Save(ctx, settings); err != nil {
		return entity.GlobalSettings{}, err
	}
	return settings, nil
}
