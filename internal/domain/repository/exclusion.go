package repository

import (
	"context"

	"github.com/tabzoom/zoomd/internal/domain/entity"
)

// ExclusionRepository persists the exclusion rule set.
type ExclusionRepository interface {
	// Get retrieves the full exclusion set. Returns an empty set when
	// nothing is stored.
	Get(ctx context.Context) (entity.ExclusionSet, error)

	// Add stores an exact hostname or wildcard pattern. Idempotent.
	Add(ctx context.Context, value string, isPattern bool) (entity.ExclusionSet, error)

	// Remove deletes an exact hostname or wildcard pattern. Idempotent
	// no-op when absent.
	Remove(ctx context.Context, value string, isPattern bool) (entity.ExclusionSet, error)

	// Replace overwrites the stored set wholesale.
	Replace(ctx context.Context, set entity.ExclusionSet) error
}
