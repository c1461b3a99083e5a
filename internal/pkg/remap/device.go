package remap

import (
	"fmt"
	"sync"

	"github.com/code-monet/JoystickGremlin/internal/pkg/curve"
	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/code-monet/JoystickGremlin/internal/pkg/profile"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	EV_KEY_RELEASE = 0
	EV_KEY_PRESS   = 1
	EV_KEY_REPEAT  = 2
)

// Device shapes events of one physical joystick. Each mode gets its own
// clones of the profile curves, the prototypes held by the profile stay
// untouched.
type Device struct {
	noLogs      bool
	config      profile.Config
	InputDevice input.Device

	outputEvents chan<- Event

	mode          int
	curves        []map[evdev.EvCode]curve.Curve
	lastValue     map[evdev.EvCode]float64
	actionTracker map[profile.Action]bool
	shapedCounter uint

	eventProcessMutex *sync.Mutex

	actionsPress map[profile.Action]func(*Device)
}

func NewDevice(inputDevice input.Device, prof profile.DeviceProfile, outputEvents chan<- Event, noLogs bool) Device {
	curves := make([]map[evdev.EvCode]curve.Curve, len(prof.Config.Modes))
	for i, mode := range prof.Config.Modes {
		curves[i] = make(map[evdev.EvCode]curve.Curve)
		for code, axis := range mode.Axes {
			c := axis.Curve.Clone()
			c.Fit()
			curves[i][code] = c
		}
	}

	return Device{
		noLogs:       noLogs,
		config:       prof.Config,
		InputDevice:  inputDevice,
		outputEvents: outputEvents,

		mode:          prof.Config.DefaultMode,
		curves:        curves,
		lastValue:     make(map[evdev.EvCode]float64),
		actionTracker: make(map[profile.Action]bool),

		eventProcessMutex: &sync.Mutex{},

		actionsPress: map[profile.Action]func(*Device){
			profile.ModeUp:    (*Device).ModeUp,
			profile.ModeDown:  (*Device).ModeDown,
			profile.ModeReset: (*Device).ModeReset,
		},
	}
}

// Profile returns the parsed profile this device was created from.
func (d *Device) Profile() profile.Config {
	return d.config
}

func (d *Device) logFields(fields ...zap.Field) []zap.Field {
	fields = append(fields, zap.String("device_name", d.InputDevice.Name))
	return fields
}

// ModeUp switches to the next profile mode, holding at the last one.
func (d *Device) ModeUp() {
	if d.mode < len(d.config.Modes)-1 {
		d.mode++
		d.armMode()
	}
	mode := d.config.Mode(d.mode)
	log.Info(fmt.Sprintf("mode up: %s", mode.Name), d.logFields(logger.Action)...)
}

// ModeDown switches to the previous profile mode, holding at the first one.
func (d *Device) ModeDown() {
	if d.mode > 0 {
		d.mode--
		d.armMode()
	}
	mode := d.config.Mode(d.mode)
	log.Info(fmt.Sprintf("mode down: %s", mode.Name), d.logFields(logger.Action)...)
}

// ModeReset returns to the profile's default mode.
func (d *Device) ModeReset() {
	if d.mode != d.config.DefaultMode {
		d.mode = d.config.DefaultMode
		d.armMode()
	}
	mode := d.config.Mode(d.mode)
	log.Info(fmt.Sprintf("mode reset: %s", mode.Name), d.logFields(logger.Action)...)
}

// armMode forgets remembered axis positions so the new mode's curves
// re-emit on the next event even when the shaped value did not change.
func (d *Device) armMode() {
	d.lastValue = make(map[evdev.EvCode]float64)
}

// checkDoubleActions fires combined actions when two mode actions are
// held at once. Returns true when a combined action was invoked.
func (d *Device) checkDoubleActions() bool {
	if len(d.actionTracker) > 1 {
		switch {
		case d.actionTracker[profile.ModeUp] && d.actionTracker[profile.ModeDown]:
			d.ModeReset()
		default:
			return false
		}
		return true
	}
	return false
}

// State is a point-in-time snapshot for display purposes.
type State struct {
	Mode   string
	Modes  int
	Axes   int
	Shaped uint
}

func (d *Device) State() State {
	d.eventProcessMutex.Lock()
	defer d.eventProcessMutex.Unlock()

	mode := d.config.Mode(d.mode)
	return State{
		Mode:   mode.Name,
		Modes:  len(d.config.Modes),
		Axes:   len(mode.Axes),
		Shaped: d.shapedCounter,
	}
}
