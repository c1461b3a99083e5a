// Package profile loads and persists per-device YAML profiles: response
// curves, deadzones and button actions grouped into switchable modes.
package profile

import (
	"github.com/code-monet/JoystickGremlin/internal/pkg/curve"
	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
)

var log = logger.GetLogger()

type Action string

const (
	ModeUp    Action = "mode_up"
	ModeDown  Action = "mode_down"
	ModeReset Action = "mode_reset"
)

var SupportedActions = map[Action]bool{
	ModeUp:    true,
	ModeDown:  true,
	ModeReset: true,
}

// Axis is the shaping setup of a single absolute axis. Curve is a
// prototype, the runtime clones it per device instance.
type Axis struct {
	Curve    curve.Curve
	Deadzone curve.Deadzone
	Flip     bool
	Output   evdev.EvCode
}

// Mode is a named set of axis setups. Buttons bound to mode actions
// switch between them at runtime.
type Mode struct {
	Name string
	Axes map[evdev.EvCode]Axis
}

type Config struct {
	// ID identifies the hardware this profile applies to, the zero value
	// marks a default profile applying to any device.
	ID   input.InputID
	Uniq string

	DefaultMode   int
	Modes         []Mode
	ActionMapping map[evdev.EvCode]Action
}

// Mode returns the mode at index i, clamped into the valid range.
func (c *Config) Mode(i int) Mode {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Modes) {
		i = len(c.Modes) - 1
	}
	return c.Modes[i]
}
