package entity

// Zoom bounds and defaults, expressed in whole percent.
const (
	ZoomMinPercent     = 25
	ZoomMaxPercent     = 500
	DefaultZoomPercent = 100
	ToggleZoomPercent  = 150

	// ZoomTolerance is the factor delta below which two zoom levels are
	// considered equal. Writes inside the tolerance are skipped.
	ZoomTolerance = 0.01
)

// FactorFromPercent converts a whole percent to a zoom factor (150 -> 1.5).
func FactorFromPercent(percent int) float64 {
	return float64(percent) / 100
}

// PercentFromFactor rounds a zoom factor to the nearest whole percent.
func PercentFromFactor(factor float64) int {
	return int(factor*100 + 0.5)
}

// ValidPercent reports whether a percent value is inside the allowed range.
func ValidPercent(percent int) bool {
	return percent >= ZoomMinPercent && percent <= ZoomMaxPercent
}

// ClampPercent constrains a percent value to the allowed range.
func ClampPercent(percent int) int {
	if percent < ZoomMinPercent {
		return ZoomMinPercent
	}
	if percent > ZoomMaxPercent {
		return ZoomMaxPercent
	}
	return percent
}

// WithinTolerance reports whether two zoom factors differ by less than the
// tolerance threshold.
func WithinTolerance(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < ZoomTolerance
}
