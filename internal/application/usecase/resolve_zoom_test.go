package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/domain/entity"
)

func TestResolveToggleModeDisabled(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	settings := entity.DefaultSettings()

	assert.Equal(t, 1.0, resolver.Resolve(settings, nil))

	override := &entity.SiteOverride{Hostname: "example.com", BaseZoomPercent: intPtr(130)}
	assert.Equal(t, 1.3, resolver.Resolve(settings, override))

	// A toggle-only override is ignored outside toggle mode.
	toggleOnly := &entity.SiteOverride{Hostname: "example.com", ToggleZoomPercent: intPtr(200)}
	assert.Equal(t, 1.0, resolver.Resolve(settings, toggleOnly))
}

func TestResolveToggleActive(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.IsToggledActive = true

	assert.Equal(t, 1.5, resolver.Resolve(settings, nil))

	// Per-site toggle override wins over the global toggle level.
	override := &entity.SiteOverride{Hostname: "example.com", ToggleZoomPercent: intPtr(200)}
	assert.Equal(t, 2.0, resolver.Resolve(settings, override))

	// Base override is irrelevant while toggled on.
	baseOnly := &entity.SiteOverride{Hostname: "example.com", BaseZoomPercent: intPtr(75)}
	assert.Equal(t, 1.5, resolver.Resolve(settings, baseOnly))
}

func TestResolveToggleInactive(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.DefaultZoomPercent = 120

	// Off state resets to 100 under the hundred policy, not the default.
	assert.Equal(t, 1.0, resolver.Resolve(settings, nil))

	override := &entity.SiteOverride{Hostname: "example.com", BaseZoomPercent: intPtr(80)}
	assert.Equal(t, 0.8, resolver.Resolve(settings, override))
}

func TestResolveOffStateGlobalPolicy(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackGlobal)
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.DefaultZoomPercent = 120

	assert.Equal(t, 1.2, resolver.Resolve(settings, nil))
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.IsToggledActive = true
	override := &entity.SiteOverride{Hostname: "example.com", ToggleZoomPercent: intPtr(175)}

	first := resolver.Resolve(settings, override)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, resolver.Resolve(settings, override))
	}
}

func TestBaselinePercent(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)

	settings := entity.DefaultSettings()
	settings.DefaultZoomPercent = 110
	assert.Equal(t, 110, resolver.BaselinePercent(settings))

	settings.ToggleModeEnabled = true
	assert.Equal(t, 100, resolver.BaselinePercent(settings))

	settings.IsToggledActive = true
	assert.Equal(t, 150, resolver.BaselinePercent(settings))
}

func TestResolverRejectsUnknownPolicy(t *testing.T) {
	resolver := usecase.NewResolveZoomUseCase(entity.OffStateFallback("bogus"))
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.DefaultZoomPercent = 120

	// Invalid policy falls back to the hundred behavior.
	assert.Equal(t, 1.0, resolver.Resolve(settings, nil))
}
