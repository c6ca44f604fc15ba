package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/domain/entity"
)

func newApplyFixture(settings entity.GlobalSettings, host *fakeHost) (*usecase.ApplyZoomUseCase, *fakeSiteRepo, *fakeExclusionRepo, *fakeMarker) {
	settingsRepo := newFakeSettingsRepo(settings)
	siteRepo := newFakeSiteRepo()
	exclRepo := newFakeExclusionRepo()
	marker := &fakeMarker{}
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	apply := usecase.NewApplyZoomUseCase(settingsRepo, siteRepo, exclRepo, resolver, host, marker)
	return apply, siteRepo, exclRepo, marker
}

func TestApplyToTabUsesSiteOverride(t *testing.T) {
	ctx := testContext()
	tab := port.Tab{ID: 1, URL: "https://example.com/page"}
	host := newFakeHost(tab)
	apply, siteRepo, _, marker := newApplyFixture(entity.DefaultSettings(), host)

	require.NoError(t, siteRepo.Upsert(ctx, &entity.SiteOverride{
		Hostname:        "example.com",
		BaseZoomPercent: intPtr(130),
	}))

	require.NoError(t, apply.ApplyToTab(ctx, tab))

	assert.Equal(t, 1.3, host.zoomOf(1))
	assert.True(t, marker.marked(1), "self-write must be marked before setting zoom")
}

func TestApplyToTabSkipsWithinTolerance(t *testing.T) {
	ctx := testContext()
	tab := port.Tab{ID: 1, URL: "https://example.com/"}
	host := newFakeHost(tab)
	host.zoom[1] = 1.005
	apply, _, _, marker := newApplyFixture(entity.DefaultSettings(), host)

	require.NoError(t, apply.ApplyToTab(ctx, tab))

	assert.Equal(t, 0, host.writes(1), "write inside tolerance must be skipped")
	assert.False(t, marker.marked(1))
}

func TestApplyToTabSkipsNonZoomable(t *testing.T) {
	ctx := testContext()
	tab := port.Tab{ID: 1, URL: "chrome://settings"}
	host := newFakeHost(tab)
	apply, _, _, _ := newApplyFixture(entity.DefaultSettings(), host)

	require.NoError(t, apply.ApplyToTab(ctx, tab))
	assert.Equal(t, 0, host.writes(1))
}

func TestApplyToTabSkipsExcluded(t *testing.T) {
	ctx := testContext()
	tab := port.Tab{ID: 1, URL: "https://sub.excluded.net/"}
	host := newFakeHost(tab)
	settings := entity.DefaultSettings()
	settings.DefaultZoomPercent = 150
	apply, _, exclRepo, _ := newApplyFixture(settings, host)

	_, err := exclRepo.Add(ctx, "*.excluded.net", true)
	require.NoError(t, err)

	require.NoError(t, apply.ApplyToTab(ctx, tab))
	assert.Equal(t, 0, host.writes(1))
	assert.Equal(t, 1.0, host.zoomOf(1))
}

func TestApplyToTabSwallowsRestrictedPage(t *testing.T) {
	ctx := testContext()
	tab := port.Tab{ID: 1, URL: "https://example.com/"}
	host := newFakeHost(tab)
	host.restricted[1] = true
	settings := entity.DefaultSettings()
	settings.DefaultZoomPercent = 150
	apply, _, _, _ := newApplyFixture(settings, host)

	assert.NoError(t, apply.ApplyToTab(ctx, tab))
}

func TestApplyResolvedToAllToggleScenario(t *testing.T) {
	ctx := testContext()
	host := newFakeHost(
		port.Tab{ID: 1, URL: "https://a.com/"},
		port.Tab{ID: 2, URL: "https://b.com/"},
		port.Tab{ID: 3, URL: "https://c.com/"},
		port.Tab{ID: 4, URL: "chrome://extensions"},
	)
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.IsToggledActive = true
	apply, siteRepo, _, _ := newApplyFixture(settings, host)

	// b.com carries its own toggle level.
	require.NoError(t, siteRepo.Upsert(ctx, &entity.SiteOverride{
		Hostname:          "b.com",
		ToggleZoomPercent: intPtr(200),
	}))

	require.NoError(t, apply.ApplyResolvedToAll(ctx))

	assert.Equal(t, 1.5, host.zoomOf(1))
	assert.Equal(t, 2.0, host.zoomOf(2))
	assert.Equal(t, 1.5, host.zoomOf(3))
	assert.Equal(t, 1.0, host.zoomOf(4), "non-zoomable tab untouched")
}

func TestApplyFactorToAllIgnoresOverrides(t *testing.T) {
	ctx := testContext()
	host := newFakeHost(
		port.Tab{ID: 1, URL: "https://a.com/"},
		port.Tab{ID: 2, URL: "https://b.com/"},
	)
	apply, siteRepo, exclRepo, _ := newApplyFixture(entity.DefaultSettings(), host)

	require.NoError(t, siteRepo.Upsert(ctx, &entity.SiteOverride{
		Hostname:        "a.com",
		BaseZoomPercent: intPtr(75),
	}))
	_, err := exclRepo.Add(ctx, "b.com", false)
	require.NoError(t, err)

	require.NoError(t, apply.ApplyFactorToAll(ctx, 1.25))

	assert.Equal(t, 1.25, host.zoomOf(1), "fixed factor overrides the site entry")
	assert.Equal(t, 1.0, host.zoomOf(2), "excluded tab untouched")
}

func TestToggleZoomFlipsAndApplies(t *testing.T) {
	ctx := testContext()
	host := newFakeHost(port.Tab{ID: 1, URL: "https://a.com/"})

	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settingsRepo := newFakeSettingsRepo(settings)
	resolver := usecase.NewResolveZoomUseCase(entity.FallbackHundred)
	apply := usecase.NewApplyZoomUseCase(settingsRepo, newFakeSiteRepo(), newFakeExclusionRepo(), resolver, host, &fakeMarker{})
	toggle := usecase.NewToggleZoomUseCase(settingsRepo, apply)

	after, err := toggle.Execute(ctx)
	require.NoError(t, err)
	assert.True(t, after.IsToggledActive)
	assert.Equal(t, 1.5, host.zoomOf(1))

	after, err = toggle.Execute(ctx)
	require.NoError(t, err)
	assert.False(t, after.IsToggledActive)
	assert.Equal(t, 1.0, host.zoomOf(1))
}

func TestSetModePreservesToggleState(t *testing.T) {
	ctx := testContext()
	settings := entity.DefaultSettings()
	settings.ToggleModeEnabled = true
	settings.IsToggledActive = true
	settingsRepo := newFakeSettingsRepo(settings)
	toggle := usecase.NewToggleZoomUseCase(settingsRepo, nil)

	after, err := toggle.SetMode(ctx, false)
	require.NoError(t, err)
	assert.False(t, after.ToggleModeEnabled)
	assert.True(t, after.IsToggledActive, "toggle state survives a mode switch")
}
