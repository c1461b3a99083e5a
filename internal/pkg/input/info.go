package input

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/holoplot/go-evdev"
)

type PhysicalID string
type HandlerType int

const (
	HandlerUnknown    = HandlerType(iota)
	HandlerKeyboard   // standard keyboard, including N-Key rollover variants
	HandlerMultimedia // multimedia events, e.g. next track, volume up
	HandlerSystem     // system events, e.g. sleep, power
	HandlerMouse
	HandlerJoystick
)

func (ht HandlerType) String() string {
	switch ht {
	case HandlerKeyboard:
		return "KEYBOARD"
	case HandlerMultimedia:
		return "MULTIMEDIA"
	case HandlerSystem:
		return "SYSTEM"
	case HandlerMouse:
		return "MOUSE"
	case HandlerJoystick:
		return "JOYSTICK"
	default:
		return "UNKNOWN"
	}
}

// DeviceInfo describes one event handler, a /dev/input/eventX node.
// A physical device usually exposes several of them.
type DeviceInfo struct {
	ID   InputID // ID of the device
	Name string  // name of the device
	Phys string  // physical path to the device in the system hierarchy
	Uniq string  // unique identification code for the device (if device has it)

	eventName    string
	CapableTypes []evdev.EvType
	Properties   []evdev.EvProp
}

type InputID struct {
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

func (i *InputID) String() string {
	return fmt.Sprintf("0x%04x 0x%04x 0x%04x 0x%04x", i.Bus, i.Vendor, i.Product, i.Version)
}

// Event returns event name, like "event0" for /dev/input/event0
func (d *DeviceInfo) Event() string {
	return d.eventName
}

// EventPath returns a /dev/input/event filepath of the handler
func (d *DeviceInfo) EventPath() string {
	event := d.Event()
	if event == "" {
		return ""
	}
	return fmt.Sprintf("/dev/input/%s", event)
}

func has(list []evdev.EvType, elem ...evdev.EvType) bool {
	toHave := map[evdev.EvType]bool{}
	for _, e := range elem {
		toHave[e] = false
	}

	for _, e := range list {
		if _, ok := toHave[e]; ok {
			toHave[e] = true
		}
	}

	for _, v := range toHave {
		if !v {
			return false
		}
	}
	return true
}

func hasExactly(list []evdev.EvType, elem ...evdev.EvType) bool {
	toHave := map[evdev.EvType]bool{}
	for _, e := range elem {
		toHave[e] = false
	}

	for _, e := range list {
		if _, ok := toHave[e]; !ok {
			return false
		}
		toHave[e] = true
	}

	for _, v := range toHave {
		if !v {
			return false
		}
	}
	return true
}

func (d *DeviceInfo) HandlerType() HandlerType {
	switch {
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_LED, evdev.EV_REP):
		return HandlerKeyboard
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_REP):
		return HandlerKeyboard
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_REL, evdev.EV_MSC):
		return HandlerMouse
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_REL, evdev.EV_ABS, evdev.EV_MSC, evdev.EV_LED, evdev.EV_REP):
		return HandlerMouse
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC):
		return HandlerSystem
	case hasExactly(d.CapableTypes, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_REL, evdev.EV_ABS, evdev.EV_MSC):
		return HandlerMultimedia
	case has(d.CapableTypes, evdev.EV_FF):
		return HandlerJoystick
	// gamepads without force-feedback: absolute axes but no mouse-like
	// relative ones
	case has(d.CapableTypes, evdev.EV_ABS) && !has(d.CapableTypes, evdev.EV_REL):
		return HandlerJoystick
	}
	return HandlerUnknown
}

// PhysicalUUID returns an identifier based on the connection of given USB port.
// The main usage is to identify groups of handlers that represent one physical device.
func (d *DeviceInfo) PhysicalUUID() PhysicalID {
	phys := strings.Split(d.Phys, "/")
	return PhysicalID(phys[0])
}

// GetDeviceInfos queries every available event handler in the system.
// Handlers that cannot be opened (permissions, races with hotplug) are
// silently skipped, an incomplete list is normal during device arrival.
func GetDeviceInfos() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("listing device paths failed: %w", err)
	}

	var infos = make([]DeviceInfo, 0, len(paths))

	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}

		info := DeviceInfo{
			eventName: filepath.Base(p.Path),
		}

		name, err := dev.Name()
		if err == nil {
			info.Name = strings.Trim(name, "\x00")
		}
		phys, err := dev.PhysicalLocation()
		if err == nil {
			info.Phys = phys
		}
		uniq, err := dev.UniqueID()
		if err == nil {
			info.Uniq = strings.Trim(uniq, "\x00")
		}
		id, err := dev.InputID()
		if err == nil {
			info.ID = InputID{
				Bus:     id.BusType,
				Vendor:  id.Vendor,
				Product: id.Product,
				Version: id.Version,
			}
		}
		info.CapableTypes = dev.CapableTypes()
		info.Properties = dev.Properties()

		_ = dev.Close()
		infos = append(infos, info)
	}

	return infos, nil
}
