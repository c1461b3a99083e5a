package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type DeviceType int
type DeviceID string

// Generic device types
const (
	UnknownDevice  DeviceType = iota
	KeyboardDevice            // keyboard, including keyboard with integrated mouse
	MouseDevice               // mouse device only
	JoystickDevice            // joystick device, may contain keyboard, mouse, sensors events
)

func (e DeviceType) String() string {
	switch e {
	case KeyboardDevice:
		return "Keyboard"
	case MouseDevice:
		return "Mouse"
	case JoystickDevice:
		return "Joystick"
	default:
		return "Unknown"
	}
}

// InputEvent is a single evdev event together with the handler it came from.
type InputEvent struct {
	Source DeviceInfo
	Event  evdev.InputEvent
}

func containsOnly(in map[HandlerType]DeviceInfo, handlerTypes ...HandlerType) bool {
	if len(in) != len(handlerTypes) {
		return false
	}

	for _, ht := range handlerTypes {
		_, ok := in[ht]
		if !ok {
			return false
		}
	}

	return true
}

func contains(in map[HandlerType]DeviceInfo, handlerTypes ...HandlerType) bool {
	for _, ht := range handlerTypes {
		_, ok := in[ht]
		if !ok {
			return false
		}
	}
	return true
}

func DetermineDeviceType(handlers map[HandlerType]DeviceInfo) DeviceType {
	switch {
	case contains(handlers, HandlerJoystick):
		return JoystickDevice
	case contains(handlers, HandlerKeyboard):
		return KeyboardDevice
	case containsOnly(handlers, HandlerMouse):
		return MouseDevice
	default:
		return UnknownDevice
	}
}

// Normalize groups handler infos by their physical connection and returns
// one logical Device per group.
func Normalize(deviceInfos []DeviceInfo) []Device {
	var collection = make(map[PhysicalID][]DeviceInfo, 0)

	for _, di := range deviceInfos {
		key := di.PhysicalUUID()
		collection[key] = append(collection[key], di)
	}

	var devices = make([]Device, 0)

	for devPhys, dis := range collection {
		var dev = Device{
			ID:       dis[0].ID,
			Handlers: make(map[HandlerType]DeviceInfo),
			Evdevs:   make(map[HandlerType]*evdev.InputDevice),
			AbsInfos: make(map[string]map[evdev.EvCode]evdev.AbsInfo),
		}

		var name = ""
		var uniq = ""

		for _, di := range dis {
			// the shortest name usually describes the whole device, longer
			// variants name individual handlers
			switch {
			case name == "":
				name = di.Name
			case len(di.Name) < len(name):
				name = di.Name
			}

			if di.Uniq != "" && uniq == "" {
				uniq = di.Uniq
			}

			dev.Handlers[di.HandlerType()] = di
		}

		dev.DeviceType = DetermineDeviceType(dev.Handlers)
		dev.Name = name
		dev.Uniq = uniq
		dev.Phys = string(devPhys)
		devices = append(devices, dev)
	}

	return devices
}

// Device is a representation of singular hardware device, it keeps all
// underlying DeviceInfo handlers.
type Device struct {
	ID   InputID
	Name string
	Uniq string
	// Phys is a common part of Handlers Phys
	// for example "usb-20980000.usb-1.4/input0" will be used as "usb-20980000.usb-1.4"
	Phys string

	DeviceType DeviceType
	Handlers   map[HandlerType]DeviceInfo

	Evdevs map[HandlerType]*evdev.InputDevice
	// AbsInfos keeps per-handler axis ranges captured at open time, keyed
	// by handler event name. Needed for value normalization.
	AbsInfos map[string]map[evdev.EvCode]evdev.AbsInfo
}

func (d *Device) String() string {
	return fmt.Sprintf(
		"[%s], \"%s\", %d handlers (0x%04x, 0x%04x, 0x%04x, 0x%04x, \"%s\")",
		d.DeviceType, d.Name, len(d.Handlers), d.ID.Bus, d.ID.Vendor, d.ID.Product, d.ID.Version, d.Uniq,
	)
}

// DeviceID returns an identifier that is as unique as the hardware allows.
// Many devices don't provide unique codes, so two devices of the very same
// model may be indistinguishable. Some (eg. dualshock 4) do provide one,
// which makes separate profiles for separate units possible.
func (d *Device) DeviceID() DeviceID {
	s := fmt.Sprintf("%04x%04x%04x%04x%s", d.ID.Bus, d.ID.Vendor, d.ID.Product, d.ID.Version, d.Uniq)
	return DeviceID(s)
}

func (d *Device) PhysicalUUID() PhysicalID {
	return PhysicalID(d.Phys)
}

// ProcessEvents opens all handlers of the device and emits their events
// into the returned channel until ctx is cancelled. EV_ABS events are
// throttled per event code, key repeats are dropped.
func (d *Device) ProcessEvents(ctx context.Context, grab bool, absThrottle time.Duration) (<-chan *InputEvent, error) {
	var events = make(chan *InputEvent)

	wg := sync.WaitGroup{}
	for ht, h := range d.Handlers {
		dev, err := evdev.Open(h.EventPath())
		if err != nil {
			return nil, fmt.Errorf("opening handler failed: %v", err)
		}

		d.Evdevs[ht] = dev

		absInfos, err := dev.AbsInfos()
		if err == nil {
			d.AbsInfos[h.Event()] = absInfos
		}

		go func(dev *evdev.InputDevice) {
			<-ctx.Done()
			err := dev.Close()
			if err != nil {
				log.Info(fmt.Sprintf("device close failed: %v", err),
					zap.String("handler_event", dev.Path()), logger.Debug)
			}
		}(dev)

		absEvents := make(chan *InputEvent, 64)
		go throttleABSEvents(absEvents, events, absThrottle)

		wg.Add(1)
		go func(dev *evdev.InputDevice, info DeviceInfo, absEvents chan *InputEvent) {
			event := info.Event()
			defer wg.Done()
			defer close(absEvents)

			if grab {
				_ = dev.Grab()
				log.Info("Grabbing device for exclusive usage",
					zap.String("handler_event", event), zap.String("handler_name", info.Name), logger.Debug)
			}
			log.Info("Reading input events",
				zap.String("handler_event", event), zap.String("handler_name", info.Name), logger.Debug)

			err := dev.NonBlock()
			if err != nil {
				log.Info(fmt.Sprintf("enabling non-blocking event reading mode failed: %v", err),
					zap.String("handler_event", event), zap.String("handler_name", info.Name),
					logger.Warning,
				)
			}
			for {
				event, err := dev.ReadOne()
				if err != nil {
					break
				}

				if event.Type == evdev.EV_KEY && event.Value == 2 { // repeat
					continue
				}

				outputEvent := &InputEvent{
					Source: info,
					Event:  *event,
				}

				if event.Type == evdev.EV_ABS {
					absEvents <- outputEvent
					continue
				}
				events <- outputEvent
			}
			if grab {
				log.Info("Ungrabbing device",
					zap.String("handler_event", event), zap.String("handler_name", info.Name), logger.Debug)
				_ = dev.Ungrab()
			}
			log.Info("Reading input events finished",
				zap.String("handler_event", event), zap.String("handler_name", info.Name), logger.Debug)
		}(dev, h, absEvents)
	}

	go func() {
		wg.Wait()
		log.Info("All handlers done, closing events channel", logger.Debug)
		close(events)
	}()

	return events, nil
}

// throttleABSEvents limits the per-code event rate to one event per
// absThrottle window. The most recent suppressed value is flushed on the
// next tick so the axis always settles at its true position.
func throttleABSEvents(absEvents <-chan *InputEvent, events chan<- *InputEvent, absThrottle time.Duration) {
	if absThrottle <= 0 {
		for ev := range absEvents {
			events <- ev
		}
		return
	}

	var lastSent = make(map[evdev.EvCode]time.Time)
	var pending = make(map[evdev.EvCode]*InputEvent)

	flush := time.NewTicker(absThrottle)
	defer flush.Stop()

	for {
		select {
		case ev, ok := <-absEvents:
			if !ok {
				for _, p := range pending {
					events <- p
				}
				return
			}
			now := time.Now()
			if now.Sub(lastSent[ev.Event.Code]) >= absThrottle {
				events <- ev
				lastSent[ev.Event.Code] = now
				delete(pending, ev.Event.Code)
			} else {
				pending[ev.Event.Code] = ev
			}
		case <-flush.C:
			now := time.Now()
			for code, ev := range pending {
				if now.Sub(lastSent[code]) >= absThrottle {
					events <- ev
					lastSent[code] = now
					delete(pending, code)
				}
			}
		}
	}
}
