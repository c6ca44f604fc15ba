// Package port defines the interfaces the zoom engine needs from its host
// environment. Concrete adapters live under internal/infrastructure.
package port

import (
	"context"
	"strings"
	"time"
)

// Tab describes one browser tab as seen by the host.
type Tab struct {
	ID  int
	URL string
}

// ZoomEvent is emitted by the host for every zoom change, whether initiated
// by this daemon or by the user. The host cannot tell the two apart; the
// suppression tracker does.
type ZoomEvent struct {
	TabID     int
	OldFactor float64
	NewFactor float64
	When      time.Time
}

// BrowserHost is the surface through which the engine observes and drives
// the browser.
type BrowserHost interface {
	// ListTabs returns every open tab across normal windows.
	ListTabs(ctx context.Context) ([]Tab, error)

	// GetZoom returns the live zoom factor for a tab.
	GetZoom(ctx context.Context, tabID int) (float64, error)

	// SetZoom applies a zoom factor to a tab.
	SetZoom(ctx context.Context, tabID int, factor float64) error

	// TabURL returns the current URL of a tab, or ok=false if the tab is
	// gone.
	TabURL(ctx context.Context, tabID int) (string, bool)

	// OnZoomChanged registers the handler invoked for every zoom change.
	OnZoomChanged(handler func(ZoomEvent))

	// OnTabLoaded registers the handler invoked when a tab finishes
	// loading a page.
	OnTabLoaded(handler func(Tab))
}

// IsRestrictedPage reports whether a zoom-set error means the page is a
// privileged one the host refuses to touch. These are expected and
// swallowed; anything else is logged as an unexpected warning.
func IsRestrictedPage(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cannot access")
}
