package port

import (
	"context"
	"time"
)

// PrimaryAction names what a left-click on the daemon's icon does.
type PrimaryAction string

const (
	// ActionOpenPopup opens the configuration popup.
	ActionOpenPopup PrimaryAction = "popup"
	// ActionToggle flips the global toggle state directly.
	ActionToggle PrimaryAction = "toggle"
)

// ActionSurface is the icon/badge/menu surface of the host UI. Rendering is
// out of scope here; the engine only drives it through this interface.
type ActionSurface interface {
	// SetPrimaryAction switches the icon's left-click behavior.
	SetPrimaryAction(ctx context.Context, action PrimaryAction) error

	// ShowBadge surfaces a transient acknowledgment (e.g., "saved") that
	// the surface clears after the duration elapses.
	ShowBadge(ctx context.Context, text string, duration time.Duration) error

	// RebuildMenus recreates the context menus for the current mode.
	RebuildMenus(ctx context.Context, toggleMode bool) error
}

// WindowRef identifies a host window.
type WindowRef int

// WindowOpener opens and reuses host windows for the configuration surfaces.
type WindowOpener interface {
	// OpenConfigWindow opens the configuration page in a new window.
	OpenConfigWindow(ctx context.Context) (WindowRef, error)

	// OpenSiteManager opens the site-management page.
	OpenSiteManager(ctx context.Context) (WindowRef, error)

	// Focus raises an existing window. Returns ok=false when the window
	// is gone; callers fall back to opening a new one.
	Focus(ctx context.Context, ref WindowRef) (bool, error)

	// OnWindowClosed registers a handler invoked when a window closes.
	OnWindowClosed(handler func(WindowRef))
}
