package repository

import (
	"context"

	"github.com/tabzoom/zoomd/internal/domain/entity"
)

// SiteRepository persists per-hostname zoom overrides.
type SiteRepository interface {
	// Get retrieves the override for a hostname.
	// Returns nil if no override is stored.
	Get(ctx context.Context, hostname string) (*entity.SiteOverride, error)

	// Upsert saves or replaces the override for its hostname. Empty
	// overrides must be deleted by the caller, never stored.
	Upsert(ctx context.Context, override *entity.SiteOverride) error

	// Delete removes the override for a hostname. No-op when absent.
	Delete(ctx context.Context, hostname string) error

	// DeleteAll removes every stored override.
	DeleteAll(ctx context.Context) error

	// GetAll retrieves all stored overrides.
	GetAll(ctx context.Context) ([]*entity.SiteOverride, error)

	// Count returns the number of stored overrides.
	Count(ctx context.Context) (int, error)
}
