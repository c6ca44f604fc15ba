package usecase

import (
	"context"
	"fmt"

	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/logging"
)

// ToggleZoomUseCase flips the global toggle state and re-zooms every open
// tab accordingly.
type ToggleZoomUseCase struct {
	settingsRepo repository.SettingsRepository
	apply        *ApplyZoomUseCase
}

// NewToggleZoomUseCase creates a new toggle use case.
func NewToggleZoomUseCase(settingsRepo repository.SettingsRepository, apply *ApplyZoomUseCase) *ToggleZoomUseCase {
	return &ToggleZoomUseCase{settingsRepo: settingsRepo, apply: apply}
}

// Execute flips IsToggledActive, persists it, then applies the resolved zoom
// to all tabs. Returns the new settings snapshot.
func (uc *ToggleZoomUseCase) Execute(ctx context.Context) (entity.GlobalSettings, error) {
	log := logging.FromContext(ctx)

	settings, err := uc.settingsRepo.Update(ctx, func(s *entity.GlobalSettings) {
		s.IsToggledActive = !s.IsToggledActive
	})
	if err != nil {
		return entity.GlobalSettings{}, fmt.Errorf("persist toggle state: %w", err)
	}

	log.Info().Bool("toggled_active", settings.IsToggledActive).Msg("toggle state flipped")

	if err := uc.apply.ApplyResolvedToAll(ctx); err != nil {
		return settings, fmt.Errorf("apply toggled zoom: %w", err)
	}
	return settings, nil
}

// SetMode enables or disables 1-click toggle mode. The toggle state is
// deliberately preserved across a mode change so the user's zoom survives
// switching modes.
func (uc *ToggleZoomUseCase) SetMode(ctx context.Context, enabled bool) (entity.GlobalSettings, error) {
	settings, err := uc.settingsRepo.Update(ctx, func(s *entity.GlobalSettings) {
		s.ToggleModeEnabled = enabled
	})
	if err != nil {
		return entity.GlobalSettings{}, fmt.Errorf("persist mode: %w", err)
	}
	return settings, nil
}
