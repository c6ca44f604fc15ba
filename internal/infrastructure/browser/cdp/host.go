// Package cdp drives a Chromium browser over the DevTools protocol and
// adapts it to the engine's BrowserHost port.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/logging"
)

// zoomBinding is the page-world binding through which the injected listener
// reports zoom changes back to the daemon.
const zoomBinding = "__zoomdZoomChanged"

// zoomScript installs the page-world zoom plumbing: a factor slot consulted
// by GetZoom and a reporter invoked whenever the page's effective zoom
// changes, regardless of who changed it.
const zoomScript = `(function() {
	if (window.__zoomdInstalled) { return; }
	window.__zoomdInstalled = true;
	window.__zoomdFactor = 1.0;
	window.__zoomdApply = function(factor) {
		var old = window.__zoomdFactor;
		window.__zoomdFactor = factor;
		document.documentElement.style.zoom = factor;
		if (typeof window.` + zoomBinding + ` === 'function') {
			window.` + zoomBinding + `(JSON.stringify({oldFactor: old, newFactor: factor}));
		}
	};
})();`

type zoomChangePayload struct {
	OldFactor float64 `json:"oldFactor"`
	NewFactor float64 `json:"newFactor"`
}

type tabEntry struct {
	id     int
	target target.ID
	ctx    context.Context
	cancel context.CancelFunc
	url    string
}

// Host implements port.BrowserHost against a running Chromium instance.
type Host struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	tabs   map[target.ID]*tabEntry
	nextID int

	onZoomChanged func(port.ZoomEvent)
	onTabLoaded   func(port.Tab)
}

// Connect attaches to a browser exposed at cdpURL (e.g.
// "ws://127.0.0.1:9222").
func Connect(ctx context.Context, cdpURL string) (*Host, error) {
	if cdpURL == "" {
		return nil, fmt.Errorf("cdp url cannot be empty")
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, cdpURL)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	h := &Host{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		cancel:      cancel,
		tabs:        make(map[target.ID]*tabEntry),
		nextID:      1,
	}

	// Materialize the connection and discover existing targets.
	if err := chromedp.Run(browserCtx); err != nil {
		allocCancel()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	if err := h.adoptExistingTargets(ctx); err != nil {
		h.Close()
		return nil, err
	}
	h.watchNewTargets(ctx)

	return h, nil
}

// Close detaches from the browser and releases all tab sessions.
func (h *Host) Close() {
	h.mu.Lock()
	for _, tab := range h.tabs {
		tab.cancel()
	}
	h.tabs = make(map[target.ID]*tabEntry)
	h.mu.Unlock()

	h.cancel()
	h.allocCancel()
}

// OnZoomChanged registers the zoom-change handler. Must be called before
// events are expected; not safe to swap while running.
func (h *Host) OnZoomChanged(handler func(port.ZoomEvent)) {
	h.onZoomChanged = handler
}

// OnTabLoaded registers the tab-load handler.
func (h *Host) OnTabLoaded(handler func(port.Tab)) {
	h.onTabLoaded = handler
}

// ListTabs returns every attached page target.
func (h *Host) ListTabs(_ context.Context) ([]port.Tab, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tabs := make([]port.Tab, 0, len(h.tabs))
	for _, entry := range h.tabs {
		tabs = append(tabs, port.Tab{ID: entry.id, URL: entry.url})
	}
	return tabs, nil
}

// TabURL returns the last observed URL for a tab.
func (h *Host) TabURL(_ context.Context, tabID int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry := h.entryByID(tabID); entry != nil {
		return entry.url, true
	}
	return "", false
}

// GetZoom reads the page-world zoom factor.
func (h *Host) GetZoom(ctx context.Context, tabID int) (float64, error) {
	entry, err := h.lookup(tabID)
	if err != nil {
		return 0, err
	}

	var factor float64
	err = chromedp.Run(entry.ctx, chromedp.Evaluate("window.__zoomdFactor || 1.0", &factor))
	if err != nil {
		return 0, fmt.Errorf("read zoom for tab %d: %w", tabID, err)
	}
	return factor, nil
}

// SetZoom applies a zoom factor through the injected page-world plumbing,
// which also echoes a change event the way a real browser zoom API would.
func (h *Host) SetZoom(ctx context.Context, tabID int, factor float64) error {
	entry, err := h.lookup(tabID)
	if err != nil {
		return err
	}

	script := fmt.Sprintf("window.__zoomdApply && window.__zoomdApply(%f)", factor)
	if err := chromedp.Run(entry.ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("set zoom for tab %d: %w", tabID, err)
	}
	return nil
}

func (h *Host) adoptExistingTargets(ctx context.Context) error {
	infos, err := chromedp.Targets(h.browserCtx)
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}
	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		h.adoptTarget(ctx, info.TargetID, info.URL)
	}
	return nil
}

func (h *Host) watchNewTargets(ctx context.Context) {
	chromedp.ListenBrowser(h.browserCtx, func(ev any) {
		created, ok := ev.(*target.EventTargetCreated)
		if !ok || created.TargetInfo.Type != "page" {
			return
		}
		h.adoptTarget(ctx, created.TargetInfo.TargetID, created.TargetInfo.URL)
	})
}

// adoptTarget attaches to one page target: registers it, installs the zoom
// plumbing, and wires load and zoom-change notifications.
func (h *Host) adoptTarget(ctx context.Context, id target.ID, url string) {
	log := logging.FromContext(ctx)

	h.mu.Lock()
	if _, exists := h.tabs[id]; exists {
		h.mu.Unlock()
		return
	}
	tabCtx, tabCancel := chromedp.NewContext(h.browserCtx, chromedp.WithTargetID(id))
	entry := &tabEntry{
		id:     h.nextID,
		target: id,
		ctx:    tabCtx,
		cancel: tabCancel,
		url:    url,
	}
	h.nextID++
	h.tabs[id] = entry
	h.mu.Unlock()

	go func() {
		if err := chromedp.Run(tabCtx,
			runtime.AddBinding(zoomBinding),
			chromedp.ActionFunc(func(ctx context.Context) error {
				_, err := page.AddScriptToEvaluateOnNewDocument(zoomScript).Do(ctx)
				return err
			}),
			chromedp.Evaluate(zoomScript, nil),
		); err != nil {
			log.Debug().Err(err).Str("target", string(id)).Msg("failed to install zoom plumbing")
		}
	}()

	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *page.EventLoadEventFired:
			h.handleLoad(entry)
		case *page.EventFrameNavigated:
			if e.Frame != nil && e.Frame.ParentID == "" {
				h.setURL(entry, e.Frame.URL)
			}
		case *runtime.EventBindingCalled:
			if e.Name == zoomBinding {
				h.handleZoomBinding(ctx, entry, e.Payload)
			}
		case *target.EventTargetDestroyed:
			h.dropTarget(e.TargetID)
		}
	})
}

func (h *Host) handleLoad(entry *tabEntry) {
	h.mu.Lock()
	tab := port.Tab{ID: entry.id, URL: entry.url}
	handler := h.onTabLoaded
	h.mu.Unlock()

	if handler != nil {
		handler(tab)
	}
}

func (h *Host) handleZoomBinding(ctx context.Context, entry *tabEntry, payload string) {
	log := logging.FromContext(ctx)

	var change zoomChangePayload
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		log.Debug().Err(err).Msg("malformed zoom binding payload")
		return
	}

	handler := h.onZoomChanged
	if handler == nil {
		return
	}
	handler(port.ZoomEvent{
		TabID:     entry.id,
		OldFactor: change.OldFactor,
		NewFactor: change.NewFactor,
		When:      time.Now(),
	})
}

func (h *Host) setURL(entry *tabEntry, url string) {
	h.mu.Lock()
	entry.url = url
	h.mu.Unlock()
}

func (h *Host) dropTarget(id target.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry, ok := h.tabs[id]; ok {
		entry.cancel()
		delete(h.tabs, id)
	}
}

func (h *Host) lookup(tabID int) (*tabEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry := h.entryByID(tabID); entry != nil {
		return entry, nil
	}
	return nil, fmt.Errorf("tab %d not found", tabID)
}

func (h *Host) entryByID(tabID int) *tabEntry {
	for _, entry := range h.tabs {
		if entry.id == tabID {
			return entry
		}
	}
	return nil
}
