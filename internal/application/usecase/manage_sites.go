package usecase

import (
	"context"
	"fmt"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/logging"
)

// SiteField names one of the two override fields of a site entry.
type SiteField string

const (
	FieldBase   SiteField = "baseZoom"
	FieldToggle SiteField = "toggleZoom"
)

// ErrInvalidZoom is returned for zoom percentages outside the allowed range.
var ErrInvalidZoom = fmt.Errorf("zoom must be between %d and %d percent",
	entity.ZoomMinPercent, entity.ZoomMaxPercent)

// ManageSitesUseCase maintains per-site zoom overrides, including the
// persist step of the manual-zoom debounce pipeline.
type ManageSitesUseCase struct {
	settingsRepo repository.SettingsRepository
	siteRepo     repository.SiteRepository
	resolver     *ResolveZoomUseCase
}

// NewManageSitesUseCase creates a new site management use case.
func NewManageSitesUseCase(
	settingsRepo repository.SettingsRepository,
	siteRepo repository.SiteRepository,
	resolver *ResolveZoomUseCase,
) *ManageSitesUseCase {
	return &ManageSitesUseCase{
		settingsRepo: settingsRepo,
		siteRepo:     siteRepo,
		resolver:     resolver,
	}
}

// SaveManualZoom persists a user-driven zoom change for a hostname. The
// factor is rounded to whole percent and compared against the applicable
// default: equal values collapse the override field instead of storing a
// duplicate. Returns whether stored state actually changed.
//
// State is re-read here rather than captured when the debounce timer was
// scheduled, so a concurrent edit cannot be clobbered with a stale snapshot.
func (uc *ManageSitesUseCase) SaveManualZoom(ctx context.Context, hostname string, factor float64) (bool, error) {
	log := logging.FromContext(ctx)

	percent := entity.PercentFromFactor(factor)
	if !entity.ValidPercent(percent) {
		percent = entity.ClampPercent(percent)
	}

	settings, _, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("read settings: %w", err)
	}

	field := FieldBase
	if settings.ToggleModeEnabled && settings.IsToggledActive {
		field = FieldToggle
	}

	override, err := uc.siteRepo.Get(ctx, hostname)
	if err != nil {
		return false, fmt.Errorf("read site override: %w", err)
	}

	if override == nil {
		count, err := uc.siteRepo.Count(ctx)
		if err != nil {
			return false, fmt.Errorf("count sites: %w", err)
		}
		if count >= entity.MaxTrackedSites {
			// Soft cap: existing sites still update, new ones are dropped.
			log.Warn().Str("host", hostname).Int("limit", entity.MaxTrackedSites).
				Msg("site limit reached, manual zoom not saved")
			return false, nil
		}
		override = &entity.SiteOverride{Hostname: hostname}
	}

	if percent == uc.resolver.BaselinePercent(settings) {
		return uc.clearField(ctx, override, field)
	}
	return uc.setField(ctx, override, field, percent)
}

// SetSiteField sets one override field to an explicit percent, validating
// the range. A value equal to the applicable default clears the field.
func (uc *ManageSitesUseCase) SetSiteField(ctx context.Context, hostname string, field SiteField, percent int) error {
	if !entity.ValidPercent(percent) {
		return ErrInvalidZoom
	}

	settings, _, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	override, err := uc.siteRepo.Get(ctx, hostname)
	if err != nil {
		return fmt.Errorf("read site override: %w", err)
	}
	if override == nil {
		override = &entity.SiteOverride{Hostname: hostname}
	}

	defaultPercent := settings.DefaultZoomPercent
	if field == FieldToggle {
		defaultPercent = settings.ToggleZoomPercent
	}
	if percent == defaultPercent {
		_, err := uc.clearField(ctx, override, field)
		return err
	}
	_, err = uc.setField(ctx, override, field, percent)
	return err
}

// ClearSiteField removes one override field, deleting the entry when no
// fields remain.
func (uc *ManageSitesUseCase) ClearSiteField(ctx context.Context, hostname string, field SiteField) error {
	override, err := uc.siteRepo.Get(ctx, hostname)
	if err != nil {
		return fmt.Errorf("read site override: %w", err)
	}
	if override == nil {
		return nil
	}
	_, err = uc.clearField(ctx, override, field)
	return err
}

// DeleteSite removes a site's entry entirely.
func (uc *ManageSitesUseCase) DeleteSite(ctx context.Context, hostname string) error {
	return uc.siteRepo.Delete(ctx, hostname)
}

// ClearAll removes every stored override.
func (uc *ManageSitesUseCase) ClearAll(ctx context.Context) error {
	return uc.siteRepo.DeleteAll(ctx)
}

// List returns all stored overrides.
func (uc *ManageSitesUseCase) List(ctx context.Context) ([]*entity.SiteOverride, error) {
	return uc.siteRepo.GetAll(ctx)
}

func (uc *ManageSitesUseCase) setField(ctx context.Context, override *entity.SiteOverride, field SiteField, percent int) (bool, error) {
	target := &override.BaseZoomPercent
	if field == FieldToggle {
		target = &override.ToggleZoomPercent
	}
	if *target != nil && **target == percent {
		return false, nil
	}
	value := percent
	*target = &value

	if err := uc.siteRepo.Upsert(ctx, override); err != nil {
		return false, fmt.Errorf("save site override: %w", err)
	}
	return true, nil
}

func (uc *ManageSitesUseCase) clearField(ctx context.Context, override *entity.SiteOverride, field SiteField) (bool, error) {
	target := &override.BaseZoomPercent
	if field == FieldToggle {
		target = &override.ToggleZoomPercent
	}
	if *target == nil {
		return false, nil
	}
	*target = nil

	if override.IsEmpty() {
		if err := uc.siteRepo.Delete(ctx, override.Hostname); err != nil {
			return false, fmt.Errorf("delete empty site entry: %w", err)
		}
		return true, nil
	}
	if err := uc.siteRepo.Upsert(ctx, override); err != nil {
		return false, fmt.Errorf("save site override: %w", err)
	}
	return true, nil
}
