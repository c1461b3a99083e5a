// Package remap shapes raw joystick events through per-mode response
// curves into events for a virtual output device.
package remap

import (
	"fmt"
	"math"

	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/holoplot/go-evdev"
)

// Event is a single remapped event bound for the virtual output device.
type Event struct {
	Type  evdev.EvType
	Code  evdev.EvCode
	Value int32

	// Shaped is the normalized curve output the Value was derived from,
	// zero for passthrough events.
	Shaped float64
	// Raw is the source event value before any processing.
	Raw int32

	Source input.DeviceInfo
	// Passthrough marks events forwarded without shaping: unconfigured
	// axes and buttons not bound to an action.
	Passthrough bool
}

// InputEvent converts the event to its wire form.
func (e Event) InputEvent() evdev.InputEvent {
	return evdev.InputEvent{
		Type:  e.Type,
		Code:  e.Code,
		Value: e.Value,
	}
}

func (e Event) String() string {
	ev := e.InputEvent()
	if e.Passthrough {
		return fmt.Sprintf("%s (raw: %d, passthrough)", ev.String(), e.Raw)
	}
	return fmt.Sprintf("%s (raw: %d, shaped: %.3f)", ev.String(), e.Raw, e.Shaped)
}

// Normalize maps a raw axis value into [-1, 1]. Axes with a negative
// minimum keep their hardware center at 0, unipolar axes (triggers,
// throttles) stretch linearly over the whole range.
func Normalize(value int32, info evdev.AbsInfo) float64 {
	if info.Minimum < 0 {
		if value < 0 {
			return float64(value) / math.Abs(float64(info.Minimum))
		}
		return float64(value) / math.Abs(float64(info.Maximum))
	}

	span := float64(info.Maximum - info.Minimum)
	if span == 0 {
		return 0
	}
	return (float64(value-info.Minimum)/span)*2 - 1
}

// Denormalize maps a shaped value from [-1, 1] back onto the axis range,
// the inverse of Normalize.
func Denormalize(v float64, info evdev.AbsInfo) int32 {
	if info.Minimum < 0 {
		if v < 0 {
			return int32(math.Round(v * math.Abs(float64(info.Minimum))))
		}
		return int32(math.Round(v * math.Abs(float64(info.Maximum))))
	}

	span := float64(info.Maximum - info.Minimum)
	return int32(math.Round((v+1)/2*span)) + info.Minimum
}
