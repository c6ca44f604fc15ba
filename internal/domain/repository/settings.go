// Package repository defines persistence interfaces for the zoom engine.
package repository

import (
	"context"

	"github.com/tabzoom/zoomd/internal/domain/entity"
)

// SettingsRepository persists the singleton global settings record.
type SettingsRepository interface {
	// Get retrieves the current global settings.
	// Returns ok=false when no settings have been seeded yet.
	Get(ctx context.Context) (entity.GlobalSettings, bool, error)

	// Save writes the global settings record.
	Save(ctx context.Context, settings entity.GlobalSettings) error

	// Update applies fn to the current settings under the store's write
	// lock and persists the result. fn receives seeded defaults when no
	// record exists yet.
	Update(ctx context.Context, fn func(*entity.GlobalSettings)) (entity.GlobalSettings, error)
}
