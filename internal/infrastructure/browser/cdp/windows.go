package cdp

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/tabzoom/zoomd/internal/application/port"
)

// WindowOpener opens the daemon's configuration pages as browser windows.
type WindowOpener struct {
	host       *Host
	configURL  string
	managerURL string

	mu      sync.Mutex
	nextRef port.WindowRef
	windows map[port.WindowRef]target.ID

	onClosed func(port.WindowRef)
}

// NewWindowOpener creates a window opener serving the given page URLs.
func NewWindowOpener(host *Host, configURL, managerURL string) *WindowOpener {
	w := &WindowOpener{
		host:       host,
		configURL:  configURL,
		managerURL: managerURL,
		nextRef:    1,
		windows:    make(map[port.WindowRef]target.ID),
	}
	chromedp.ListenBrowser(host.browserCtx, func(ev any) {
		destroyed, ok := ev.(*target.EventTargetDestroyed)
		if !ok {
			return
		}
		w.handleDestroyed(destroyed.TargetID)
	})
	return w
}

// OpenConfigWindow opens the configuration page in a new popup window.
func (w *WindowOpener) OpenConfigWindow(ctx context.Context) (port.WindowRef, error) {
	return w.open(ctx, w.configURL)
}

// OpenSiteManager opens the site-management page.
func (w *WindowOpener) OpenSiteManager(ctx context.Context) (port.WindowRef, error) {
	return w.open(ctx, w.managerURL)
}

// Focus raises an existing window. ok=false means the window is gone and
// the caller should open a new one.
func (w *WindowOpener) Focus(ctx context.Context, ref port.WindowRef) (bool, error) {
	w.mu.Lock()
	id, ok := w.windows[ref]
	w.mu.Unlock()
	if !ok {
		return false, nil
	}

	err := chromedp.Run(w.host.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return target.ActivateTarget(id).Do(ctx)
	}))
	if err != nil {
		// The target may have died between lookup and activation.
		w.handleDestroyed(id)
		return false, nil
	}
	return true, nil
}

// OnWindowClosed registers the close handler.
func (w *WindowOpener) OnWindowClosed(handler func(port.WindowRef)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = handler
}

func (w *WindowOpener) open(_ context.Context, url string) (port.WindowRef, error) {
	var id target.ID
	err := chromedp.Run(w.host.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		created, err := target.CreateTarget(url).WithNewWindow(true).Do(ctx)
		if err != nil {
			return err
		}
		id = created
		return nil
	}))
	if err != nil {
		return 0, fmt.Errorf("open window %s: %w", url, err)
	}

	w.mu.Lock()
	ref := w.nextRef
	w.nextRef++
	w.windows[ref] = id
	w.mu.Unlock()
	return ref, nil
}

func (w *WindowOpener) handleDestroyed(id target.ID) {
	w.mu.Lock()
	var closed []port.WindowRef
	for ref, targetID := range w.windows {
		if targetID == id {
			delete(w.windows, ref)
			closed = append(closed, ref)
		}
	}
	handler := w.onClosed
	w.mu.Unlock()

	if handler != nil {
		for _, ref := range closed {
			handler(ref)
		}
	}
}
