package control

import (
	"context"
	"sync"
	"time"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	urlutil "github.com/tabzoom/zoomd/internal/domain/url"
	"github.com/tabzoom/zoomd/internal/logging"
)

// Orchestrator reacts to browser events and UI actions and drives the zoom
// use cases. It owns all ephemeral per-tab state (suppression records,
// debounce timers, the config window slot); none of it survives a restart.
type Orchestrator struct {
	settingsRepo settingsReader
	exclRepo     exclusionReader
	apply        *usecase.ApplyZoomUseCase
	toggle       *usecase.ToggleZoomUseCase
	tracker      *SelfZoomTracker
	pipeline     *ManualSavePipeline
	surface      port.ActionSurface
	windows      port.WindowOpener
	host         port.BrowserHost

	ctx context.Context

	mu sync.Mutex
	// Session-scoped slot for the configuration window; cleared when that
	// window closes.
	configWindow *port.WindowRef
}

type settingsReader interface {
	Get(ctx context.Context) (entity.GlobalSettings, bool, error)
	Update(ctx context.Context, fn func(*entity.GlobalSettings)) (entity.GlobalSettings, error)
}

type exclusionReader interface {
	Get(ctx context.Context) (entity.ExclusionSet, error)
}

// NewOrchestrator wires the engine together. ctx is the engine lifetime
// context and carries the logger used by event handlers.
func NewOrchestrator(
	ctx context.Context,
	settingsRepo settingsReader,
	exclRepo exclusionReader,
	apply *usecase.ApplyZoomUseCase,
	toggle *usecase.ToggleZoomUseCase,
	tracker *SelfZoomTracker,
	pipeline *ManualSavePipeline,
	surface port.ActionSurface,
	windows port.WindowOpener,
	host port.BrowserHost,
) *Orchestrator {
	return &Orchestrator{
		settingsRepo: settingsRepo,
		exclRepo:     exclRepo,
		apply:        apply,
		toggle:       toggle,
		tracker:      tracker,
		pipeline:     pipeline,
		surface:      surface,
		windows:      windows,
		host:         host,
		ctx:          ctx,
	}
}

// Start seeds defaults on first run, configures the action surface for the
// stored mode, and registers the browser event handlers.
func (o *Orchestrator) Start(ctx context.Context) error {
	log := logging.FromContext(ctx)

	// Seed defaults only when absent; an upgrade never overwrites user
	// settings.
	settings, err := o.settingsRepo.Update(ctx, func(*entity.GlobalSettings) {})
	if err != nil {
		return err
	}

	if err := o.refreshActionSurface(ctx, settings); err != nil {
		log.Warn().Err(err).Msg("failed to configure action surface")
	}

	o.host.OnTabLoaded(o.handleTabLoaded)
	o.host.OnZoomChanged(o.handleZoomChanged)
	if o.windows != nil {
		o.windows.OnWindowClosed(o.handleWindowClosed)
	}

	log.Info().
		Bool("toggle_mode", settings.ToggleModeEnabled).
		Bool("toggled_active", settings.IsToggledActive).
		Msg("zoom engine started")
	return nil
}

// Shutdown cancels all pending ephemeral state.
func (o *Orchestrator) Shutdown() {
	o.pipeline.CancelAll()
	o.tracker.Reset()
}

// ToggleZoom flips the global toggle state and re-zooms all tabs. Pending
// manual saves are cancelled first so a stale edit cannot overwrite the
// bulk result.
func (o *Orchestrator) ToggleZoom(ctx context.Context) (entity.GlobalSettings, error) {
	o.pipeline.CancelAll()
	return o.toggle.Execute(ctx)
}

// ApplyZoomToAllTabs applies one zoom level (whole percent) to every
// zoomable, non-excluded tab.
func (o *Orchestrator) ApplyZoomToAllTabs(ctx context.Context, percent int) error {
	if !entity.ValidPercent(percent) {
		return usecase.ErrInvalidZoom
	}
	o.pipeline.CancelAll()
	return o.apply.ApplyFactorToAll(ctx, entity.FactorFromPercent(percent))
}

// SettingsChanged re-reads the stored mode and reconfigures the action
// surface. Sent by UI surfaces after they mutate settings.
func (o *Orchestrator) SettingsChanged(ctx context.Context) error {
	settings, _, err := o.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	return o.refreshActionSurface(ctx, settings)
}

// SetToggleMode enables or disables 1-click toggle mode and reconfigures
// the surface. The toggle state is preserved across the mode change.
func (o *Orchestrator) SetToggleMode(ctx context.Context, enabled bool) error {
	settings, err := o.toggle.SetMode(ctx, enabled)
	if err != nil {
		return err
	}
	return o.refreshActionSurface(ctx, settings)
}

// OpenConfigWindow opens the configuration window, reusing the session's
// existing one when it is still alive.
func (o *Orchestrator) OpenConfigWindow(ctx context.Context) error {
	log := logging.FromContext(ctx)

	o.mu.Lock()
	existing := o.configWindow
	o.mu.Unlock()

	if existing != nil {
		ok, err := o.windows.Focus(ctx, *existing)
		if err == nil && ok {
			return nil
		}
		// Stale reference: treated as not-found, fall through to create.
		log.Debug().Int("window", int(*existing)).Msg("config window gone, opening a new one")
		o.mu.Lock()
		o.configWindow = nil
		o.mu.Unlock()
	}

	ref, err := o.windows.OpenConfigWindow(ctx)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.configWindow = &ref
	o.mu.Unlock()
	return nil
}

// OpenSiteManager opens the site-management surface.
func (o *Orchestrator) OpenSiteManager(ctx context.Context) error {
	_, err := o.windows.OpenSiteManager(ctx)
	return err
}

func (o *Orchestrator) refreshActionSurface(ctx context.Context, settings entity.GlobalSettings) error {
	if o.surface == nil {
		return nil
	}
	action := port.ActionOpenPopup
	if settings.ToggleModeEnabled {
		action = port.ActionToggle
	}
	if err := o.surface.SetPrimaryAction(ctx, action); err != nil {
		return err
	}
	return o.surface.RebuildMenus(ctx, settings.ToggleModeEnabled)
}

func (o *Orchestrator) handleTabLoaded(tab port.Tab) {
	ctx := logging.WithTabID(o.ctx, tab.ID)
	log := logging.FromContext(ctx)

	if err := o.apply.ApplyToTab(ctx, tab); err != nil {
		log.Warn().Err(err).Str("url", tab.URL).Msg("failed to apply zoom to loaded tab")
	}
}

// handleZoomChanged is the single entry point for every zoom change the
// browser reports, whether we caused it or the user did. Suppression decides
// which; unsuppressed qualifying events feed the debounce pipeline.
func (o *Orchestrator) handleZoomChanged(ev port.ZoomEvent) {
	ctx := logging.WithTabID(o.ctx, ev.TabID)
	log := logging.FromContext(ctx)

	when := ev.When
	if when.IsZero() {
		when = time.Now()
	}
	if o.tracker.ShouldSuppress(ev.TabID, when) {
		log.Debug().Float64("factor", ev.NewFactor).Msg("suppressed self-initiated zoom event")
		return
	}
	if entity.WithinTolerance(ev.NewFactor, ev.OldFactor) {
		return
	}

	url, ok := o.host.TabURL(ctx, ev.TabID)
	if !ok || !urlutil.Zoomable(url) {
		return
	}
	hostname, ok := urlutil.Hostname(url)
	if !ok {
		return
	}

	exclusions, err := o.exclRepo.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read exclusions for zoom event")
		return
	}
	if exclusions.Matches(hostname) {
		return
	}

	log.Debug().Str("host", hostname).Float64("factor", ev.NewFactor).
		Msg("manual zoom change, save scheduled")
	o.pipeline.Schedule(ev.TabID, hostname, ev.NewFactor)
}

func (o *Orchestrator) handleWindowClosed(ref port.WindowRef) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.configWindow != nil && *o.configWindow == ref {
		o.configWindow = nil
	}
}
