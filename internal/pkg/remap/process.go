package remap

import (
	"fmt"
	"sync"

	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// ProcessEvents shapes incoming events until the input channel closes.
func (d *Device) ProcessEvents(wg *sync.WaitGroup, inputEvents <-chan *input.InputEvent) {
	defer wg.Done()
	log.Info("start processing events", d.logFields(logger.Debug)...)

	for ie := range inputEvents {
		d.processEvent(ie)
	}

	log.Info("processing events stopped", d.logFields(logger.Debug)...)
}

func (d *Device) processEvent(ie *input.InputEvent) {
	if ie.Event.Type == evdev.EV_KEY && ie.Event.Value == EV_KEY_REPEAT {
		return
	}

	d.eventProcessMutex.Lock()
	defer d.eventProcessMutex.Unlock()

	switch ie.Event.Type {
	case evdev.EV_KEY:
		d.handleKEYEvent(ie)
	case evdev.EV_ABS:
		d.handleABSEvent(ie)
	}
}

func (d *Device) handleKEYEvent(ie *input.InputEvent) {
	action, ok := d.config.ActionMapping[ie.Event.Code]
	if !ok {
		if !d.noLogs {
			log.Info(fmt.Sprintf("button passthrough: %s", ie.Event.String()),
				d.logFields(logger.Button)...)
		}
		d.outputEvents <- Event{
			Type:        ie.Event.Type,
			Code:        ie.Event.Code,
			Value:       ie.Event.Value,
			Raw:         ie.Event.Value,
			Source:      ie.Source,
			Passthrough: true,
		}
		return
	}

	switch ie.Event.Value {
	case EV_KEY_PRESS:
		d.actionTracker[action] = true
		if !d.checkDoubleActions() {
			d.actionsPress[action](d)
		}
	case EV_KEY_RELEASE:
		delete(d.actionTracker, action)
	}
}

func (d *Device) handleABSEvent(ie *input.InputEvent) {
	absInfo, ok := d.InputDevice.AbsInfos[ie.Source.Event()][ie.Event.Code]
	if !ok {
		log.Info(fmt.Sprintf("abs info not found for code: %d", ie.Event.Code),
			d.logFields(logger.Warning, zap.String("handler_event", ie.Source.Event()))...)
		return
	}

	mode := d.config.Mode(d.mode)
	axis, ok := mode.Axes[ie.Event.Code]
	if !ok {
		if !d.noLogs {
			log.Info(fmt.Sprintf("axis passthrough: %s", ie.Event.String()),
				d.logFields(logger.Axis)...)
		}
		d.outputEvents <- Event{
			Type:        ie.Event.Type,
			Code:        ie.Event.Code,
			Value:       ie.Event.Value,
			Raw:         ie.Event.Value,
			Source:      ie.Source,
			Passthrough: true,
		}
		return
	}

	value := Normalize(ie.Event.Value, absInfo)
	value = axis.Deadzone.Apply(value)

	shaped := d.curves[d.mode][ie.Event.Code].Eval(value)
	if axis.Flip {
		shaped = -shaped
	}
	if shaped > 1.0 {
		shaped = 1.0
	} else if shaped < -1.0 {
		shaped = -1.0
	}

	if last, ok := d.lastValue[ie.Event.Code]; ok && last == shaped {
		return
	}
	d.lastValue[ie.Event.Code] = shaped

	outInfo := absInfo
	if info, ok := d.InputDevice.AbsInfos[ie.Source.Event()][axis.Output]; ok {
		outInfo = info
	}

	ev := Event{
		Type:   ie.Event.Type,
		Code:   axis.Output,
		Value:  Denormalize(shaped, outInfo),
		Shaped: shaped,
		Raw:    ie.Event.Value,
		Source: ie.Source,
	}
	d.shapedCounter++

	if !d.noLogs {
		log.Info(ev.String(), d.logFields(logger.Axis)...)
	}
	d.outputEvents <- ev
}
