package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), zerolog.Nop())
}

// fakeSettingsRepo is an in-memory SettingsRepository.
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

// fakeSiteRepo is an in-memory SiteRepository.
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
	if override.IsEmpty() {
		return errors.New("empty site override must be deleted, not stored")
	}
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

// fakeExclusionRepo is an in-memory ExclusionRepository.
type fakeExclusionRepo struct {
	mu  sync.Mutex
	set entity.ExclusionSet
}

func newFakeExclusionRepo() *fakeExclusionRepo {
	return &fakeExclusionRepo{}
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
		if !contains(r.set.Patterns, value) {
			r.set.Patterns = append(r.set.Patterns, value)
		}
	} else {
		if !contains(r.set.Exact, value) {
			r.set.Exact = append(r.set.Exact, value)
		}
	}
	return r.set, nil
}

func (r *fakeExclusionRepo) Remove(_ context.Context, value string, isPattern bool) (entity.ExclusionSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isPattern {
		r.set.Patterns = without(r.set.Patterns, value)
	} else {
		r.set.Exact = without(r.set.Exact, value)
	}
	return r.set, nil
}

func (r *fakeExclusionRepo) Replace(_ context.Context, set entity.ExclusionSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = set
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func without(values []string, v string) []string {
	out := values[:0:0]
	for _, s := range values {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// fakeHost is an in-memory BrowserHost that records zoom writes.
type fakeHost struct {
	mu         sync.Mutex
	tabs       []port.Tab
	zoom       map[int]float64
	restricted map[int]bool
	setCalls   map[int]int
}

func newFakeHost(tabs ...port.Tab) *fakeHost {
	h := &fakeHost{
		tabs:       tabs,
		zoom:       make(map[int]float64),
		restricted: make(map[int]bool),
		setCalls:   make(map[int]int),
	}
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
	if h.restricted[tabID] {
		return 0, errors.New("cannot access a restricted page")
	}
	return h.zoom[tabID], nil
}

func (h *fakeHost) SetZoom(_ context.Context, tabID int, factor float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.restricted[tabID] {
		return errors.New("cannot access a restricted page")
	}
	h.zoom[tabID] = factor
	h.setCalls[tabID]++
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

func (h *fakeHost) OnZoomChanged(func(port.ZoomEvent)) {}
func (h *fakeHost) OnTabLoaded(func(port.Tab))         {}

func (h *fakeHost) zoomOf(tabID int) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom[tabID]
}

func (h *fakeHost) writes(tabID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setCalls[tabID]
}

// fakeMarker records self-zoom marks.
type fakeMarker struct {
	mu    sync.Mutex
	marks []int
}

func (m *fakeMarker) MarkSelf(tabID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks = append(m.marks, tabID)
}

func (m *fakeMarker) marked(tabID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.marks {
		if id == tabID {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }
