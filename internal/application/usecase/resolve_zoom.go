// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"github.com/tabzoom/zoomd/internal/domain/entity"
)

// ResolveZoomUseCase computes the target zoom factor for a hostname given
// the current settings and its override. It is a pure function of its
// inputs; exclusion checks happen in the callers, which skip resolution
// entirely for excluded hosts.
type ResolveZoomUseCase struct {
	offState entity.OffStateFallback
}

// NewResolveZoomUseCase creates a resolver with the given off-state policy.
func NewResolveZoomUseCase(offState entity.OffStateFallback) *ResolveZoomUseCase {
	if !offState.Valid() {
		offState = entity.FallbackHundred
	}
	return &ResolveZoomUseCase{offState: offState}
}

// Resolve returns the zoom factor that should apply for a site. override may
// be nil when the site has no stored exception.
func (uc *ResolveZoomUseCase) Resolve(settings entity.GlobalSettings, override *entity.SiteOverride) float64 {
	return entity.FactorFromPercent(uc.resolvePercent(settings, override))
}

func (uc *ResolveZoomUseCase) resolvePercent(settings entity.GlobalSettings, override *entity.SiteOverride) int {
	if settings.ToggleModeEnabled {
		if settings.IsToggledActive {
			if override != nil && override.ToggleZoomPercent != nil {
				return *override.ToggleZoomPercent
			}
			return settings.ToggleZoomPercent
		}
		if override != nil && override.BaseZoomPercent != nil {
			return *override.BaseZoomPercent
		}
		return uc.offStatePercent(settings)
	}

	if override != nil && override.BaseZoomPercent != nil {
		return *override.BaseZoomPercent
	}
	return settings.DefaultZoomPercent
}

// BaselinePercent returns the percent that would apply for a site with no
// override under the current settings. Manual saves compare against this to
// decide between storing an override and collapsing to the default.
func (uc *ResolveZoomUseCase) BaselinePercent(settings entity.GlobalSettings) int {
	if settings.ToggleModeEnabled {
		if settings.IsToggledActive {
			return settings.ToggleZoomPercent
		}
		return uc.offStatePercent(settings)
	}
	return settings.DefaultZoomPercent
}

func (uc *ResolveZoomUseCase) offStatePercent(settings entity.GlobalSettings) int {
	if uc.offState == entity.FallbackGlobal {
		return settings.DefaultZoomPercent
	}
	return entity.DefaultZoomPercent
}
