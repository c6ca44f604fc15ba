package control_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), zerolog.Nop())
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings entity.GlobalSettings
	seeded   bool
}

func newFakeSettingsRepo(settings entity.GlobalSettings) *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: settings, seeded: true}
}

func (r *fakeSettingsRepo) Get(_ context.Context) (entity.GlobalSettings, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, r.seeded, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, settings entity.GlobalSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	r.seeded = true
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, fn func(*entity.GlobalSettings)) (entity.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.seeded {
		r.settings = entity.DefaultSettings()
		r.seeded = true
	}
	fn(&r.settings)
	return r.settings, nil
}

type fakeSiteRepo struct {
	mu    sync.Mutex
	sites map[string]entity.SiteOverride
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{sites: make(map[string]entity.SiteOverride)}
}

func (r *fakeSiteRepo) Get(_ context.Context, hostname string) (*entity.SiteOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.sites[hostname]
	if !ok {
		return nil, nil
	}
	copied := o
	return &copied, nil
}

func (r *fakeSiteRepo) Upsert(_ context.Context, override *entity.SiteOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites[override.Hostname] = *override
	return nil
}

func (r *fakeSiteRepo) Delete(_ context.Context, hostname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sites, hostname)
	return nil
}

func (r *fakeSiteRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites = make(map[string]entity.SiteOverride)
	return nil
}

func (r *fakeSiteRepo) GetAll(_ context.Context) ([]*entity.SiteOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.SiteOverride, 0, len(r.sites))
	for _, o := range r.sites {
		copied := o
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeSiteRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sites), nil
}

func (r *fakeSiteRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sites)
}

func (r *fakeSiteRepo) basePercent(hostname string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.sites[hostname]
	if !ok || o.BaseZoomPercent == nil {
		return 0, false
	}
	return *o.BaseZoomPercent, true
}

type fakeExclusionRepo struct {
	mu  sync.Mutex
	set entity.ExclusionSet
}

func (r *fakeExclusionRepo) Get(_ context.Context) (entity.ExclusionSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set, nil
}

func (r *fakeExclusionRepo) Add(_ context.Context, value string, isPattern bool) (entity.ExclusionSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isPattern {
		r.set.Patterns = append(r.set.Patterns, value)
	} else {
		r.set.Exact = append(r.set.Exact, value)
	}
	return r.set, nil
}

func (r *fakeExclusionRepo) Remove(_ context.Context, _ string, _ bool) (entity.ExclusionSet, error) {
	return r.set, nil
}

func (r *fakeExclusionRepo) Replace(_ context.Context, set entity.ExclusionSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = set
	return nil
}

type fakeHost struct {
	mu          sync.Mutex
	tabs        []port.Tab
	zoom        map[int]float64
	onZoom      func(port.ZoomEvent)
	onTabLoaded func(port.Tab)
}

func newFakeHost(tabs ...port.Tab) *fakeHost {
	h := &fakeHost{tabs: tabs, zoom: make(map[int]float64)}
	for _, tab := range tabs {
		h.zoom[tab.ID] = 1.0
	}
	return h
}

func (h *fakeHost) ListTabs(_ context.Context) ([]port.Tab, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]port.Tab(nil), h.tabs...), nil
}

func (h *fakeHost) GetZoom(_ context.Context, tabID int) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom[tabID], nil
}

func (h *fakeHost) SetZoom(_ context.Context, tabID int, factor float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.zoom[tabID] = factor
	return nil
}

func (h *fakeHost) TabURL(_ context.Context, tabID int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, tab := range h.tabs {
		if tab.ID == tabID {
			return tab.URL, true
		}
	}
	return "", false
}

func (h *fakeHost) OnZoomChanged(handler func(port.ZoomEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onZoom = handler
}

func (h *fakeHost) OnTabLoaded(handler func(port.Tab)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTabLoaded = handler
}

func (h *fakeHost) emitZoomChanged(ev port.ZoomEvent) {
	h.mu.Lock()
	handler := h.onZoom
	h.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func (h *fakeHost) emitTabLoaded(tab port.Tab) {
	h.mu.Lock()
	handler := h.onTabLoaded
	h.mu.Unlock()
	if handler != nil {
		handler(tab)
	}
}

func (h *fakeHost) zoomOf(tabID int) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom[tabID]
}

type fakeSurface struct {
	mu      sync.Mutex
	action  port.PrimaryAction
	badges  []string
	rebuilt int
}

func (s *fakeSurface) SetPrimaryAction(_ context.Context, action port.PrimaryAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.action = action
	return nil
}

func (s *fakeSurface) ShowBadge(_ context.Context, text string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges = append(s.badges, text)
	return nil
}

func (s *fakeSurface) RebuildMenus(_ context.Context, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuilt++
	return nil
}

func (s *fakeSurface) badgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.badges)
}

func (s *fakeSurface) primaryAction() port.PrimaryAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.action
}

type fakeWindows struct {
	mu       sync.Mutex
	nextRef  port.WindowRef
	alive    map[port.WindowRef]bool
	opened   int
	onClosed func(port.WindowRef)
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{alive: make(map[port.WindowRef]bool)}
}

func (w *fakeWindows) OpenConfigWindow(_ context.Context) (port.WindowRef, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextRef++
	w.alive[w.nextRef] = true
	w.opened++
	return w.nextRef, nil
}

func (w *fakeWindows) OpenSiteManager(ctx context.Context) (port.WindowRef, error) {
	return w.OpenConfigWindow(ctx)
}

func (w *fakeWindows) Focus(_ context.Context, ref port.WindowRef) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.alive[ref] {
		return false, nil
	}
	return true, nil
}

func (w *fakeWindows) OnWindowClosed(handler func(port.WindowRef)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = handler
}

func (w *fakeWindows) close(ref port.WindowRef) {
	w.mu.Lock()
	delete(w.alive, ref)
	handler := w.onClosed
	w.mu.Unlock()
	if handler != nil {
		handler(ref)
	}
}

func (w *fakeWindows) openCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opened
}

func intPtr(v int) *int { return &v }
