package control

import (
	"context"
	"sync"
	"time"

	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/logging"
)

const (
	// DefaultDebounceInterval is the quiet period after the last manual
	// zoom change before the new level is persisted.
	DefaultDebounceInterval = 1500 * time.Millisecond

	// badgeDuration is how long the save acknowledgment stays visible.
	badgeDuration = 2 * time.Second
)

type pendingSave struct {
	timer    *time.Timer
	hostname string
}

// ManualSavePipeline debounces user-driven zoom changes into per-site
// overrides. Each tab runs an Idle -> Pending(timer) -> Idle cycle; a newer
// qualifying event or a bulk operation supersedes a pending save.
type ManualSavePipeline struct {
	sites    *usecase.ManageSitesUseCase
	surface  port.ActionSurface
	interval time.Duration

	mu      sync.Mutex
	pending map[int]*pendingSave

	// base context for timer-fired saves; carries the logger.
	ctx context.Context
}

// NewManualSavePipeline creates a pipeline with the given quiet interval.
func NewManualSavePipeline(
	ctx context.Context,
	sites *usecase.ManageSitesUseCase,
	surface port.ActionSurface,
	interval time.Duration,
) *ManualSavePipeline {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &ManualSavePipeline{
		sites:    sites,
		surface:  surface,
		interval: interval,
		pending:  make(map[int]*pendingSave),
		ctx:      ctx,
	}
}

// Schedule arms (or re-arms) the save timer for a tab. The hostname is the
// one captured when the event arrived: the save is attributed to the site
// where the zoom change happened, even if the tab navigates away during the
// quiet period.
func (p *ManualSavePipeline) Schedule(tabID int, hostname string, factor float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.pending[tabID]; ok {
		existing.timer.Stop()
	}

	save := &pendingSave{hostname: hostname}
	save.timer = time.AfterFunc(p.interval, func() {
		p.fire(tabID, save, factor)
	})
	p.pending[tabID] = save
}

// CancelAll stops every pending timer. Bulk operations call this first so a
// stale manual edit cannot overwrite a just-applied bulk zoom.
func (p *ManualSavePipeline) CancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for tabID, save := range p.pending {
		save.timer.Stop()
		delete(p.pending, tabID)
	}
}

// Cancel stops the pending timer for one tab, if any.
func (p *ManualSavePipeline) Cancel(tabID int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if save, ok := p.pending[tabID]; ok {
		save.timer.Stop()
		delete(p.pending, tabID)
	}
}

// PendingCount returns the number of armed timers.
func (p *ManualSavePipeline) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *ManualSavePipeline) fire(tabID int, save *pendingSave, factor float64) {
	p.mu.Lock()
	// The timer may have been superseded between firing and acquiring the
	// lock; only the still-registered save proceeds.
	if p.pending[tabID] != save {
		p.mu.Unlock()
		return
	}
	delete(p.pending, tabID)
	hostname := save.hostname
	ctx := p.ctx
	p.mu.Unlock()

	log := logging.FromContext(ctx)

	changed, err := p.sites.SaveManualZoom(ctx, hostname, factor)
	if err != nil {
		log.Warn().Err(err).Str("host", hostname).Int("tab_id", tabID).
			Msg("failed to persist manual zoom")
		return
	}
	if !changed {
		return
	}

	log.Info().Str("host", hostname).Int("tab_id", tabID).Float64("factor", factor).
		Msg("manual zoom persisted")

	if p.surface != nil {
		if err := p.surface.ShowBadge(ctx, "saved", badgeDuration); err != nil {
			log.Debug().Err(err).Msg("failed to show save badge")
		}
	}
}
