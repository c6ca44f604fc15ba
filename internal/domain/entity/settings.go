// Package entity defines the persisted and in-memory types the zoom engine
// operates on.
package entity

// GlobalSettings is the singleton record of global zoom behavior. It is owned
// by the settings store and mutated only through read-modify-write cycles.
type GlobalSettings struct {
	// DefaultZoomPercent is the base zoom applied when toggle mode is not
	// driving the decision.
	DefaultZoomPercent int `json:"defaultZoomPercent"`

	// ToggleZoomPercent is the boosted zoom applied while the toggle is
	// active.
	ToggleZoomPercent int `json:"toggleZoomPercent"`

	// ToggleModeEnabled selects 1-click toggle mode over popup mode.
	ToggleModeEnabled bool `json:"toggleModeEnabled"`

	// IsToggledActive is the current on/off state of toggle mode. Persisted
	// so it survives restarts.
	IsToggledActive bool `json:"isToggledActive"`
}

// DefaultSettings returns the values seeded on first run.
func DefaultSettings() GlobalSettings {
	return GlobalSettings{
		DefaultZoomPercent: DefaultZoomPercent,
		ToggleZoomPercent:  ToggleZoomPercent,
		ToggleModeEnabled:  false,
		IsToggledActive:    false,
	}
}

// Validate reports whether the zoom percentages are inside the allowed range.
func (s GlobalSettings) Validate() bool {
	return ValidPercent(s.DefaultZoomPercent) && ValidPercent(s.ToggleZoomPercent)
}

// OffStateFallback names the zoom target used when toggle mode is enabled but
// currently off. Observed extension variants disagree on this behavior, so it
// is an explicit policy rather than a hard-coded rule.
type OffStateFallback string

const (
	// FallbackHundred resets to 100% when the toggle is off.
	FallbackHundred OffStateFallback = "hundred"
	// FallbackGlobal falls through to the global default percent.
	FallbackGlobal OffStateFallback = "global"
)

// Valid reports whether the policy value is one of the known variants.
func (f OffStateFallback) Valid() bool {
	return f == FallbackHundred || f == FallbackGlobal
}
