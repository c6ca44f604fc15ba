package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/logging"
)

type exclusionRepo struct {
	db *sql.DB
}

// NewExclusionRepository creates a new SQLite-backed exclusion repository.
func NewExclusionRepository(db *sql.DB) repository.ExclusionRepository {
	return &exclusionRepo{db: db}
}

func (r *exclusionRepo) Get(ctx context.Context) (entity.ExclusionSet, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT value, is_pattern FROM exclusions ORDER BY value")
	if err != nil {
		return entity.ExclusionSet{}, fmt.Errorf("list exclusions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var set entity.ExclusionSet
	for rows.Next() {
		var value string
		var isPattern bool
		if err := rows.Scan(&value, &isPattern); err != nil {
			return entity.ExclusionSet{}, fmt.Errorf("scan exclusion: %w", err)
		}
		if isPattern {
			set.Patterns = append(set.Patterns, value)
		} else {
			set.Exact = append(set.Exact, value)
		}
	}
	return set, rows.Err()
}

func (r *exclusionRepo) Add(ctx context.Context, value string, isPattern bool) (entity.ExclusionSet, error) {
	log := logging.FromContext(ctx)
	if value == "" {
		return entity.ExclusionSet{}, errors.New("exclusion value cannot be empty")
	}

	log.Debug().Str("value", value).Bool("pattern", isPattern).Msg("adding exclusion")

	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO exclusions (value, is_pattern) VALUES (?, ?)",
		value, isPattern)
	if err != nil {
		return entity.ExclusionSet{}, fmt.Errorf("add exclusion: %w", err)
	}
	return r.Get(ctx)
}

func (r *exclusionRepo) Remove(ctx context.Context, value string, isPattern bool) (entity.ExclusionSet, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("value", value).Bool("pattern", isPattern).Msg("removing exclusion")

	_, err := r.db.ExecContext(ctx,
		"DELETE FROM exclusions WHERE value = ? AND is_pattern = ?",
		value, isPattern)
	if err != nil {
		return entity.ExclusionSet{}, fmt.Errorf("remove exclusion: %w", err)
	}
	return r.Get(ctx)
}

func (r *exclusionRepo) Replace(ctx context.Context, set entity.ExclusionSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin exclusion replace: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logging.FromContext(ctx).Debug().Err(rollbackErr).Msg("exclusion replace rollback reported non-terminal error")
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM exclusions"); err != nil {
		return fmt.Errorf("clear exclusions: %w", err)
	}
	for _, v := range set.Exact {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO exclusions (value, is_pattern) VALUES (?, 0)", v); err != nil {
			return fmt.Errorf("insert exclusion %s: %w", v, err)
		}
	}
	for _, v := range set.Patterns {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO exclusions (value, is_pattern) VALUES (?, 1)", v); err != nil {
			return fmt.Errorf("insert exclusion pattern %s: %w", v, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exclusion replace: %w", err)
	}
	return nil
}
