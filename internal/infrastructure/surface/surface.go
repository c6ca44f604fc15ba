// Package surface provides the default action-surface implementation. The
// daemon has no native icon of its own; state changes are logged and kept
// readable for the HTTP surface, and badge acknowledgments expire on a
// timer.
package surface

import (
	"context"
	"sync"
	"time"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/logging"
)

// Surface implements port.ActionSurface.
type Surface struct {
	mu     sync.Mutex
	action port.PrimaryAction
	badge  string
	timer  *time.Timer
	menus  bool
}

// New creates a surface defaulting to popup mode.
func New() *Surface {
	return &Surface{action: port.ActionOpenPopup}
}

// SetPrimaryAction switches the icon's left-click behavior.
func (s *Surface) SetPrimaryAction(ctx context.Context, action port.PrimaryAction) error {
	s.mu.Lock()
	s.action = action
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("action", string(action)).Msg("primary action updated")
	return nil
}

// ShowBadge surfaces a transient acknowledgment, cleared after duration.
func (s *Surface) ShowBadge(ctx context.Context, text string, duration time.Duration) error {
	s.mu.Lock()
	s.badge = text
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(duration, func() {
		s.mu.Lock()
		s.badge = ""
		s.mu.Unlock()
	})
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("badge", text).Dur("for", duration).Msg("badge shown")
	return nil
}

// RebuildMenus recreates the context menus for the current mode.
func (s *Surface) RebuildMenus(ctx context.Context, toggleMode bool) error {
	s.mu.Lock()
	s.menus = toggleMode
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().Bool("toggle_mode", toggleMode).Msg("context menus rebuilt")
	return nil
}

// PrimaryAction returns the current left-click behavior.
func (s *Surface) PrimaryAction() port.PrimaryAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.action
}

// Badge returns the currently displayed badge text, or "".
func (s *Surface) Badge() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

// ToggleMenus reports whether the menus were last built for toggle mode.
func (s *Surface) ToggleMenus() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menus
}
