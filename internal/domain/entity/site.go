package entity

import "time"

// SiteOverride is a per-hostname exception to the global zoom defaults.
// An override with neither field set must not be stored; it is deleted
// instead, so presence always implies at least one deviation.
type SiteOverride struct {
	Hostname string `json:"hostname"`

	// BaseZoomPercent overrides the default zoom for this site when set.
	BaseZoomPercent *int `json:"baseZoom,omitempty"`

	// ToggleZoomPercent overrides the toggled zoom for this site when set.
	ToggleZoomPercent *int `json:"toggleZoom,omitempty"`

	UpdatedAt time.Time `json:"-"`
}

// IsEmpty reports whether the override carries no fields and should be
// deleted rather than stored.
func (o SiteOverride) IsEmpty() bool {
	return o.BaseZoomPercent == nil && o.ToggleZoomPercent == nil
}

// MaxTrackedSites is the soft cap on stored site overrides. Saves for new
// sites beyond the cap are dropped with a warning; existing sites may still
// be updated.
const MaxTrackedSites = 100
