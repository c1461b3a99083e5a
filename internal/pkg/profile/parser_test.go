package profile

import (
	"testing"

	"github.com/code-monet/JoystickGremlin/internal/pkg/curve"
	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

var fullProfile = `
identifier:
  bus: 0x3
  vendor: 0x45e
  product: 0x28e
  version: 0x110
  uniq: "a1:b2:c3"
default_mode: precision
modes:
  - name: standard
    axes:
      ABS_X:
        curve:
          type: piecewise-linear
          points: [[-1.0, -1.0], [1.0, 1.0]]
      ABS_Y:
        curve:
          type: cubic-spline
          points: [[-1.0, -1.0], [0.0, 0.25], [1.0, 1.0]]
        deadzone: [-1.0, -0.05, 0.05, 1.0]
        flip: true
        output: ABS_RY
  - name: precision
    axes:
      ABS_X:
        curve:
          type: cubic-bezier-spline
          symmetric: true
buttons:
  BTN_THUMB: mode_up
  BTN_THUMB2: mode_down
`

func TestParseFullProfile(t *testing.T) {
	c, err := ParseData([]byte(fullProfile))
	assert.Equal(t, nil, err)

	assert.Equal(t, input.InputID{Bus: 0x3, Vendor: 0x45e, Product: 0x28e, Version: 0x110}, c.ID)
	assert.Equal(t, "a1:b2:c3", c.Uniq)
	assert.Equal(t, 2, len(c.Modes))
	assert.Equal(t, 1, c.DefaultMode)
	assert.Equal(t, "precision", c.Modes[c.DefaultMode].Name)

	standard := c.Modes[0]
	assert.Equal(t, 2, len(standard.Axes))

	x := standard.Axes[evdev.ABS_X]
	assert.Equal(t, curve.PiecewiseLinearType, x.Curve.Type())
	assert.Equal(t, curve.DefaultDeadzone(), x.Deadzone)
	assert.False(t, x.Flip)
	assert.Equal(t, evdev.EvCode(evdev.ABS_X), x.Output)

	y := standard.Axes[evdev.ABS_Y]
	assert.Equal(t, curve.CubicSplineType, y.Curve.Type())
	assert.Equal(t, curve.Deadzone{Low: -1, CenterLow: -0.05, CenterHigh: 0.05, High: 1}, y.Deadzone)
	assert.True(t, y.Flip)
	assert.Equal(t, evdev.EvCode(evdev.ABS_RY), y.Output)
	assert.InDelta(t, 0.25, y.Curve.Eval(0), 1e-6)

	precision := c.Modes[1]
	bez := precision.Axes[evdev.ABS_X]
	assert.Equal(t, curve.CubicBezierSplineType, bez.Curve.Type())
	assert.True(t, bez.Curve.Symmetric())

	assert.Equal(t, map[evdev.EvCode]Action{
		evdev.BTN_THUMB:  ModeUp,
		evdev.BTN_THUMB2: ModeDown,
	}, c.ActionMapping)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{
			name: "unknown top-level field",
			data: "default_mode: a\nunknown_field: 1\nmodes:\n  - name: a\n",
		},
		{
			name: "unknown curve type",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: parabolic
`,
		},
		{
			name: "malformed point pair",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: piecewise-linear
          points: [[-1.0, -1.0, 0.0], [1.0, 1.0]]
`,
		},
		{
			name: "bezier flat list length",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: cubic-bezier-spline
          points: [[-1.0, -1.0], [-0.5, -0.5], [0.5, 0.5], [0.9, 0.9], [1.0, 1.0]]
`,
		},
		{
			name: "deadzone value count",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: piecewise-linear
        deadzone: [-1.0, 0.0, 1.0]
`,
		},
		{
			name: "deadzone ordering",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: piecewise-linear
        deadzone: [-1.0, 0.2, -0.2, 1.0]
`,
		},
		{
			name: "unknown axis name",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_NOPE:
        curve:
          type: piecewise-linear
`,
		},
		{
			name: "unknown output name",
			data: `
default_mode: a
modes:
  - name: a
    axes:
      ABS_X:
        curve:
          type: piecewise-linear
        output: ABS_NOPE
`,
		},
		{
			name: "duplicated mode name",
			data: "default_mode: a\nmodes:\n  - name: a\n  - name: a\n",
		},
		{
			name: "missing default mode",
			data: "default_mode: b\nmodes:\n  - name: a\n",
		},
		{
			name: "no modes",
			data: "default_mode: a\n",
		},
		{
			name: "unknown button",
			data: "default_mode: a\nmodes:\n  - name: a\nbuttons:\n  BTN_NOPE: mode_up\n",
		},
		{
			name: "unknown action",
			data: "default_mode: a\nmodes:\n  - name: a\nbuttons:\n  BTN_THUMB: mode_sideways\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseData([]byte(c.data))
			assert.Error(t, err)
		})
	}
}

func TestParseHexAxisCode(t *testing.T) {
	data := `
default_mode: a
modes:
  - name: a
    axes:
      x00:
        curve:
          type: piecewise-linear
`
	c, err := ParseData([]byte(data))
	assert.Equal(t, nil, err)

	_, ok := c.Modes[0].Axes[evdev.ABS_X]
	assert.True(t, ok)
}

func TestSaveRoundTrip(t *testing.T) {
	original, err := ParseData([]byte(fullProfile))
	assert.Equal(t, nil, err)

	data, err := Save(original)
	assert.Equal(t, nil, err)

	restored, err := ParseData(data)
	assert.Equal(t, nil, err)

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Uniq, restored.Uniq)
	assert.Equal(t, original.DefaultMode, restored.DefaultMode)
	assert.Equal(t, original.ActionMapping, restored.ActionMapping)
	assert.Equal(t, len(original.Modes), len(restored.Modes))

	for i, mode := range original.Modes {
		restoredMode := restored.Modes[i]
		assert.Equal(t, mode.Name, restoredMode.Name)
		assert.Equal(t, len(mode.Axes), len(restoredMode.Axes))

		for code, axis := range mode.Axes {
			restoredAxis, ok := restoredMode.Axes[code]
			assert.True(t, ok)
			assert.Equal(t, axis.Deadzone, restoredAxis.Deadzone)
			assert.Equal(t, axis.Flip, restoredAxis.Flip)
			assert.Equal(t, axis.Output, restoredAxis.Output)
			assert.Equal(t, axis.Curve.Type(), restoredAxis.Curve.Type())
			assert.Equal(t, axis.Curve.Symmetric(), restoredAxis.Curve.Symmetric())

			for step := -10; step <= 10; step++ {
				x := float64(step) / 10.0
				assert.InDelta(t, axis.Curve.Eval(x), restoredAxis.Curve.Eval(x), 1e-9)
			}
		}
	}
}
