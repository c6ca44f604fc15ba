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

type siteRepo struct {
	db *sql.DB
}

// NewSiteRepository creates a new SQLite-backed site override repository.
func NewSiteRepository(db *sql.DB) repository.SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) Get(ctx context.Context, hostname string) (*entity.SiteOverride, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT hostname, base_zoom, toggle_zoom, updated_at FROM site_overrides WHERE hostname = ?",
		hostname)

	override, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read site override: %w", err)
	}
	return override, nil
}

func (r *siteRepo) Upsert(ctx context.Context, override *entity.SiteOverride) error {
	log := logging.FromContext(ctx)
	if override == nil || override.Hostname == "" {
		return errors.New("site override must carry a hostname")
	}
	if override.IsEmpty() {
		return errors.New("empty site override must be deleted, not stored")
	}

	log.Debug().
		Str("host", override.Hostname).
		Msg("saving site override")

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_overrides (hostname, base_zoom, toggle_zoom, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(hostname) DO UPDATE SET
		   base_zoom = excluded.base_zoom,
		   toggle_zoom = excluded.toggle_zoom,
		   updated_at = CURRENT_TIMESTAMP`,
		override.Hostname, nullableInt(override.BaseZoomPercent), nullableInt(override.ToggleZoomPercent))
	if err != nil {
		return fmt.Errorf("write site override: %w", err)
	}
	return nil
}

func (r *siteRepo) Delete(ctx context.Context, hostname string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM site_overrides WHERE hostname = ?", hostname)
	if err != nil {
		return fmt.Errorf("delete site override: %w", err)
	}
	return nil
}

func (r *siteRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM site_overrides")
	if err != nil {
		return fmt.Errorf("clear site overrides: %w", err)
	}
	return nil
}

func (r *siteRepo) GetAll(ctx context.Context) ([]*entity.SiteOverride, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT hostname, base_zoom, toggle_zoom, updated_at FROM site_overrides ORDER BY hostname")
	if err != nil {
		return nil, fmt.Errorf("list site overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var overrides []*entity.SiteOverride
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site override: %w", err)
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

func (r *siteRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_overrides").Scan(&count); err != nil {
		return 0, fmt.Errorf("count site overrides: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*entity.SiteOverride, error) {
	var override entity.SiteOverride
	var base, toggle sql.NullInt64
	if err := row.Scan(&override.Hostname, &base, &toggle, &override.UpdatedAt); err != nil {
		return nil, err
	}
	if base.Valid {
		v := int(base.Int64)
		override.BaseZoomPercent = &v
	}
	if toggle.Valid {
		v := int(toggle.Int64)
		override.ToggleZoomPercent = &v
	}
	return &override, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
