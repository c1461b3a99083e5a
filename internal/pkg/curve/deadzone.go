package curve

// Deadzone rescales a normalized axis value so that a configurable band
// around the center and the extremes maps to exactly 0 and ±1. It is
// applied before the response curve in the axis pipeline.
type Deadzone struct {
	Low        float64
	CenterLow  float64
	CenterHigh float64
	High       float64
}

// DefaultDeadzone passes values through unchanged.
func DefaultDeadzone() Deadzone {
	return Deadzone{Low: -1, CenterLow: 0, CenterHigh: 0, High: 1}
}

// Apply rescales v. Values between CenterLow and CenterHigh collapse to
// 0, values beyond Low/High saturate at ±1, the remaining ranges stretch
// linearly to cover [-1, 0] and [0, 1].
func (d Deadzone) Apply(v float64) float64 {
	if v >= 0 {
		span := d.High - d.CenterHigh
		if span < 0 {
			span = -span
		}
		if span < epsilon {
			span = epsilon
		}
		return clamp((v-d.CenterHigh)/span, 0.0, 1.0)
	}

	span := d.CenterLow - d.Low
	if span < 0 {
		span = -span
	}
	if span < epsilon {
		span = epsilon
	}
	return clamp((v-d.CenterLow)/span, -1.0, 0.0)
}
