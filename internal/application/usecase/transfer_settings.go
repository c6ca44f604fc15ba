package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/logging"
)

// ExportVersion identifies the snapshot format produced by Export.
const ExportVersion = 1

// SiteSnapshot is the wire form of one site's overrides. GlobalZoom is a
// legacy alias for BaseZoom accepted on import from older exports.
type SiteSnapshot struct {
	BaseZoom   *int `json:"baseZoom,omitempty"`
	ToggleZoom *int `json:"toggleZoom,omitempty"`
	GlobalZoom *int `json:"globalZoom,omitempty"`
}

// SettingsSnapshot is the complete persisted state in wire form.
type SettingsSnapshot struct {
	DefaultZoomPercent int                     `json:"defaultZoomPercent"`
	ToggleZoomPercent  int                     `json:"toggleZoomPercent"`
	ToggleModeEnabled  bool                    `json:"toggleModeEnabled"`
	IsToggledActive    bool                    `json:"isToggledActive"`
	SiteSettings       map[string]SiteSnapshot `json:"siteSettings"`
	ExcludedSites      entity.ExclusionSet     `json:"excludedSites"`
}

// ExportEnvelope wraps a snapshot with version and identity metadata.
type ExportEnvelope struct {
	Version    int              `json:"version"`
	ExportID   string           `json:"exportId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Settings   SettingsSnapshot `json:"settings"`
}

// MergeMode selects how an import combines with existing state.
type MergeMode string

const (
	// MergeReplace discards all prior state.
	MergeReplace MergeMode = "replace"
	// MergeOverlay unions exclusion sets and overlays imported site
	// settings onto existing ones; imported values win per key.
	MergeOverlay MergeMode = "merge"
)

// StateSummary answers CHECK_HAS_CUSTOM_SETTINGS.
type StateSummary struct {
	HasCustomSettings bool `json:"hasCustomSettings"`
	SiteCount         int  `json:"siteCount"`
	ExclusionCount    int  `json:"exclusionCount"`
}

// TransferSettingsUseCase exports and imports the full persisted state.
type TransferSettingsUseCase struct {
	settingsRepo repository.SettingsRepository
	siteRepo     repository.SiteRepository
	exclRepo     repository.ExclusionRepository
}

// NewTransferSettingsUseCase creates a new import/export use case.
func NewTransferSettingsUseCase(
	settingsRepo repository.SettingsRepository,
	siteRepo repository.SiteRepository,
	exclRepo repository.ExclusionRepository,
) *TransferSettingsUseCase {
	return &TransferSettingsUseCase{
		settingsRepo: settingsRepo,
		siteRepo:     siteRepo,
		exclRepo:     exclRepo,
	}
}

// Export produces a versioned snapshot of all persisted state.
func (uc *TransferSettingsUseCase) Export(ctx context.Context) (ExportEnvelope, error) {
	settings, ok, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return ExportEnvelope{}, fmt.Errorf("read settings: %w", err)
	}
	if !ok {
		settings = entity.DefaultSettings()
	}

	overrides, err := uc.siteRepo.GetAll(ctx)
	if err != nil {
		return ExportEnvelope{}, fmt.Errorf("read site overrides: %w", err)
	}
	exclusions, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return ExportEnvelope{}, fmt.Errorf("read exclusions: %w", err)
	}

	sites := make(map[string]SiteSnapshot, len(overrides))
	for _, o := range overrides {
		sites[o.Hostname] = SiteSnapshot{
			BaseZoom:   o.BaseZoomPercent,
			ToggleZoom: o.ToggleZoomPercent,
		}
	}

	return ExportEnvelope{
		Version:    ExportVersion,
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		Settings: SettingsSnapshot{
			DefaultZoomPercent: settings.DefaultZoomPercent,
			ToggleZoomPercent:  settings.ToggleZoomPercent,
			ToggleModeEnabled:  settings.ToggleModeEnabled,
			IsToggledActive:    settings.IsToggledActive,
			SiteSettings:       sites,
			ExcludedSites:      exclusions,
		},
	}, nil
}

// Import validates and applies a snapshot. Nothing is mutated when
// validation fails.
func (uc *TransferSettingsUseCase) Import(ctx context.Context, snapshot *SettingsSnapshot, mode MergeMode) error {
	log := logging.FromContext(ctx)

	if snapshot == nil {
		return fmt.Errorf("import payload is missing a settings object")
	}
	if !entity.ValidPercent(snapshot.DefaultZoomPercent) {
		return fmt.Errorf("defaultZoomPercent %d: %w", snapshot.DefaultZoomPercent, ErrInvalidZoom)
	}
	if !entity.ValidPercent(snapshot.ToggleZoomPercent) {
		return fmt.Errorf("toggleZoomPercent %d: %w", snapshot.ToggleZoomPercent, ErrInvalidZoom)
	}
	imported, err := overridesFromSnapshot(snapshot.SiteSettings)
	if err != nil {
		return err
	}

	switch mode {
	case MergeReplace:
		if err := uc.siteRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear site overrides: %w", err)
		}
		if err := uc.exclRepo.Replace(ctx, snapshot.ExcludedSites); err != nil {
			return fmt.Errorf("replace exclusions: %w", err)
		}
	case MergeOverlay:
		existing, err := uc.exclRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("read exclusions: %w", err)
		}
		if err := uc.exclRepo.Replace(ctx, existing.Merge(snapshot.ExcludedSites)); err != nil {
			return fmt.Errorf("merge exclusions: %w", err)
		}
	default:
		return fmt.Errorf("unknown merge mode %q", mode)
	}

	for _, override := range imported {
		if err := uc.siteRepo.Upsert(ctx, override); err != nil {
			return fmt.Errorf("import site %s: %w", override.Hostname, err)
		}
	}

	if _, err := uc.settingsRepo.Update(ctx, func(s *entity.GlobalSettings) {
		s.DefaultZoomPercent = snapshot.DefaultZoomPercent
		s.ToggleZoomPercent = snapshot.ToggleZoomPercent
		s.ToggleModeEnabled = snapshot.ToggleModeEnabled
		s.IsToggledActive = snapshot.IsToggledActive
	}); err != nil {
		return fmt.Errorf("import settings: %w", err)
	}

	log.Info().Str("mode", string(mode)).Int("sites", len(imported)).Msg("settings imported")
	return nil
}

// Summary reports whether any custom state exists, and how much.
func (uc *TransferSettingsUseCase) Summary(ctx context.Context) (StateSummary, error) {
	siteCount, err := uc.siteRepo.Count(ctx)
	if err != nil {
		return StateSummary{}, fmt.Errorf("count sites: %w", err)
	}
	exclusions, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return StateSummary{}, fmt.Errorf("read exclusions: %w", err)
	}

	exclusionCount := len(exclusions.Exact) + len(exclusions.Patterns)
	return StateSummary{
		HasCustomSettings: siteCount > 0 || exclusionCount > 0,
		SiteCount:         siteCount,
		ExclusionCount:    exclusionCount,
	}, nil
}

func overridesFromSnapshot(sites map[string]SiteSnapshot) ([]*entity.SiteOverride, error) {
	overrides := make([]*entity.SiteOverride, 0, len(sites))
	for hostname, snap := range sites {
		base := snap.BaseZoom
		if base == nil {
			base = snap.GlobalZoom
		}
		for _, pct := range []*int{base, snap.ToggleZoom} {
			if pct != nil && !entity.ValidPercent(*pct) {
				return nil, fmt.Errorf("site %s zoom %d: %w", hostname, *pct, ErrInvalidZoom)
			}
		}
		override := &entity.SiteOverride{
			Hostname:          hostname,
			BaseZoomPercent:   base,
			ToggleZoomPercent: snap.ToggleZoom,
		}
		if override.IsEmpty() {
			continue
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}
