package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	urlutil "github.com/tabzoom/zoomd/internal/domain/url"
	"github.com/tabzoom/zoomd/internal/logging"
)

// bulkZoomConcurrency bounds the parallel per-tab writes during bulk
// operations.
const bulkZoomConcurrency = 8

// SelfZoomMarker records that the next zoom-change event for a tab was
// initiated by the daemon itself, so the echoed event can be suppressed.
type SelfZoomMarker interface {
	MarkSelf(tabID int)
}

// ApplyZoomUseCase resolves and applies zoom factors to tabs through the
// browser host. Every write goes through the self-zoom marker first.
type ApplyZoomUseCase struct {
	settingsRepo repository.SettingsRepository
	siteRepo     repository.SiteRepository
	exclRepo     repository.ExclusionRepository
	resolver     *ResolveZoomUseCase
	host         port.BrowserHost
	marker       SelfZoomMarker
}

// NewApplyZoomUseCase creates a new zoom application use case.
func NewApplyZoomUseCase(
	settingsRepo repository.SettingsRepository,
	siteRepo repository.SiteRepository,
	exclRepo repository.ExclusionRepository,
	resolver *ResolveZoomUseCase,
	host port.BrowserHost,
	marker SelfZoomMarker,
) *ApplyZoomUseCase {
	return &ApplyZoomUseCase{
		settingsRepo: settingsRepo,
		siteRepo:     siteRepo,
		exclRepo:     exclRepo,
		resolver:     resolver,
		host:         host,
		marker:       marker,
	}
}

// ApplyToTab resolves the target zoom for a tab's current page and applies
// it. Non-zoomable URLs, excluded hosts, and targets already within
// tolerance are all skipped.
func (uc *ApplyZoomUseCase) ApplyToTab(ctx context.Context, tab port.Tab) error {
	log := logging.FromContext(ctx)

	if !urlutil.Zoomable(tab.URL) {
		return nil
	}
	hostname, ok := urlutil.Hostname(tab.URL)
	if !ok {
		return nil
	}

	exclusions, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read exclusions: %w", err)
	}
	if exclusions.Matches(hostname) {
		log.Debug().Int("tab_id", tab.ID).Str("host", hostname).Msg("host excluded, skipping zoom")
		return nil
	}

	settings, _, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	override, err := uc.siteRepo.Get(ctx, hostname)
	if err != nil {
		return fmt.Errorf("read site override: %w", err)
	}

	target := uc.resolver.Resolve(settings, override)
	return uc.writeIfChanged(ctx, tab.ID, target)
}

// ApplyResolvedToAll re-resolves and applies zoom for every zoomable,
// non-excluded tab. Used after toggling and after settings changes.
func (uc *ApplyZoomUseCase) ApplyResolvedToAll(ctx context.Context) error {
	settings, _, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	exclusions, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read exclusions: %w", err)
	}

	return uc.forEachTab(ctx, exclusions, func(ctx context.Context, tab port.Tab, hostname string) error {
		override, err := uc.siteRepo.Get(ctx, hostname)
		if err != nil {
			return fmt.Errorf("read site override: %w", err)
		}
		return uc.writeIfChanged(ctx, tab.ID, uc.resolver.Resolve(settings, override))
	})
}

// ApplyFactorToAll applies one fixed factor to every zoomable, non-excluded
// tab, ignoring per-site overrides. Used for the popup's apply-to-all-tabs
// action.
func (uc *ApplyZoomUseCase) ApplyFactorToAll(ctx context.Context, factor float64) error {
	exclusions, err := uc.exclRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("read exclusions: %w", err)
	}

	return uc.forEachTab(ctx, exclusions, func(ctx context.Context, tab port.Tab, _ string) error {
		return uc.writeIfChanged(ctx, tab.ID, factor)
	})
}

func (uc *ApplyZoomUseCase) forEachTab(
	ctx context.Context,
	exclusions entity.ExclusionSet,
	apply func(ctx context.Context, tab port.Tab, hostname string) error,
) error {
	tabs, err := uc.host.ListTabs(ctx)
	if err != nil {
		return fmt.Errorf("list tabs: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkZoomConcurrency)
	for _, tab := range tabs {
		if !urlutil.Zoomable(tab.URL) {
			continue
		}
		hostname, ok := urlutil.Hostname(tab.URL)
		if !ok || exclusions.Matches(hostname) {
			continue
		}
		g.Go(func() error {
			return apply(gctx, tab, hostname)
		})
	}
	return g.Wait()
}

// writeIfChanged sets the tab's zoom unless the live factor is already
// within tolerance of the target. Restricted-page errors are expected and
// swallowed.
func (uc *ApplyZoomUseCase) writeIfChanged(ctx context.Context, tabID int, target float64) error {
	log := logging.FromContext(ctx)

	current, err := uc.host.GetZoom(ctx, tabID)
	if err != nil {
		if port.IsRestrictedPage(err) {
			return nil
		}
		log.Warn().Err(err).Int("tab_id", tabID).Msg("failed to read tab zoom")
		return nil
	}
	if entity.WithinTolerance(current, target) {
		return nil
	}

	uc.marker.MarkSelf(tabID)
	if err := uc.host.SetZoom(ctx, tabID, target); err != nil {
		if port.IsRestrictedPage(err) {
			return nil
		}
		log.Warn().Err(err).Int("tab_id", tabID).Float64("factor", target).Msg("failed to set tab zoom")
		return nil
	}

	log.Debug().Int("tab_id", tabID).Float64("factor", target).Msg("zoom applied")
	return nil
}
