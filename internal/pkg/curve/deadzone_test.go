package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDeadzonePassesThrough(t *testing.T) {
	d := DefaultDeadzone()

	for _, v := range []float64{-1, -0.5, -0.1, 0, 0.1, 0.5, 1} {
		assert.InDelta(t, v, d.Apply(v), 1e-6)
	}
}

func TestDefaultDeadzoneIsExact(t *testing.T) {
	d := DefaultDeadzone()

	// full-range spans divide exactly, no epsilon drift
	assert.Equal(t, 1.0, d.Apply(1))
	assert.Equal(t, -1.0, d.Apply(-1))
	assert.Equal(t, 0.5, d.Apply(0.5))
	assert.Equal(t, -0.5, d.Apply(-0.5))
}

func TestDeadzoneCenterBandCollapsesToZero(t *testing.T) {
	d := Deadzone{Low: -1, CenterLow: -0.2, CenterHigh: 0.2, High: 1}

	assert.Equal(t, 0.0, d.Apply(0))
	assert.Equal(t, 0.0, d.Apply(0.2))
	assert.Equal(t, 0.0, d.Apply(0.1))
	assert.Equal(t, 0.0, d.Apply(-0.2))
	assert.Equal(t, 0.0, d.Apply(-0.1))
}

func TestDeadzoneExtremesSaturate(t *testing.T) {
	d := Deadzone{Low: -0.8, CenterLow: 0, CenterHigh: 0, High: 0.8}

	assert.InDelta(t, 1.0, d.Apply(0.8), 1e-6)
	assert.Equal(t, 1.0, d.Apply(0.9))
	assert.Equal(t, 1.0, d.Apply(1))
	assert.InDelta(t, -1.0, d.Apply(-0.8), 1e-6)
	assert.Equal(t, -1.0, d.Apply(-0.9))
	assert.Equal(t, -1.0, d.Apply(-1))
}

func TestDeadzoneLiveRangeStretches(t *testing.T) {
	d := Deadzone{Low: -1, CenterLow: -0.2, CenterHigh: 0.2, High: 1}

	// midpoint of the positive live range [0.2, 1] maps to 0.5
	assert.InDelta(t, 0.5, d.Apply(0.6), 1e-6)
	assert.InDelta(t, -0.5, d.Apply(-0.6), 1e-6)
	assert.InDelta(t, 1.0, d.Apply(1), 1e-6)
	assert.InDelta(t, -1.0, d.Apply(-1), 1e-6)
}

func TestDeadzoneDegenerateSpans(t *testing.T) {
	// zero-width live range must not divide by zero
	d := Deadzone{Low: 0, CenterLow: 0, CenterHigh: 0, High: 0}

	assert.Equal(t, 1.0, d.Apply(0.5))
	assert.Equal(t, 0.0, d.Apply(0))
	assert.Equal(t, -1.0, d.Apply(-0.5))
}
