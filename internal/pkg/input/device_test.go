package input

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestHandlerTypeClassification(t *testing.T) {
	cases := []struct {
		name     string
		types    []evdev.EvType
		expected HandlerType
	}{
		{
			name:     "standard keyboard",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_LED, evdev.EV_REP},
			expected: HandlerKeyboard,
		},
		{
			name:     "nkro keyboard",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_REP},
			expected: HandlerKeyboard,
		},
		{
			name:     "mouse",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_REL, evdev.EV_MSC},
			expected: HandlerMouse,
		},
		{
			name:     "system keys",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC},
			expected: HandlerSystem,
		},
		{
			name:     "gamepad with force feedback",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS, evdev.EV_FF},
			expected: HandlerJoystick,
		},
		{
			name:     "plain joystick without force feedback",
			types:    []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS},
			expected: HandlerJoystick,
		},
		{
			name:     "nothing useful",
			types:    []evdev.EvType{evdev.EV_SYN},
			expected: HandlerUnknown,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := DeviceInfo{CapableTypes: c.types}
			assert.Equal(t, c.expected, info.HandlerType())
		})
	}
}

func TestHas(t *testing.T) {
	list := []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS}

	assert.True(t, has(list, evdev.EV_ABS))
	assert.True(t, has(list, evdev.EV_SYN, evdev.EV_KEY))
	assert.False(t, has(list, evdev.EV_REL))
	assert.False(t, has(list, evdev.EV_KEY, evdev.EV_REL))
}

func TestHasExactly(t *testing.T) {
	list := []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS}

	assert.True(t, hasExactly(list, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS))
	assert.False(t, hasExactly(list, evdev.EV_SYN, evdev.EV_KEY))
	assert.False(t, hasExactly(list, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS, evdev.EV_REL))
}

func TestPhysicalUUID(t *testing.T) {
	info := DeviceInfo{Phys: "usb-20980000.usb-1.4/input0"}
	assert.Equal(t, PhysicalID("usb-20980000.usb-1.4"), info.PhysicalUUID())

	empty := DeviceInfo{}
	assert.Equal(t, PhysicalID(""), empty.PhysicalUUID())
}

func TestDetermineDeviceType(t *testing.T) {
	joystick := map[HandlerType]DeviceInfo{
		HandlerJoystick: {},
		HandlerKeyboard: {},
	}
	assert.Equal(t, JoystickDevice, DetermineDeviceType(joystick))

	keyboard := map[HandlerType]DeviceInfo{
		HandlerKeyboard:   {},
		HandlerMultimedia: {},
		HandlerSystem:     {},
	}
	assert.Equal(t, KeyboardDevice, DetermineDeviceType(keyboard))

	mouse := map[HandlerType]DeviceInfo{
		HandlerMouse: {},
	}
	assert.Equal(t, MouseDevice, DetermineDeviceType(mouse))

	assert.Equal(t, UnknownDevice, DetermineDeviceType(map[HandlerType]DeviceInfo{}))
}

func TestNormalize(t *testing.T) {
	infos := []DeviceInfo{
		{
			ID:           InputID{Bus: 0x3, Vendor: 0x45e, Product: 0x28e, Version: 0x110},
			Name:         "Gamepad",
			Phys:         "usb-0000:00:14.0-1/input0",
			CapableTypes: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_ABS, evdev.EV_FF},
		},
		{
			ID:           InputID{Bus: 0x3, Vendor: 0x45e, Product: 0x28e, Version: 0x110},
			Name:         "Gamepad Consumer Control",
			Phys:         "usb-0000:00:14.0-1/input1",
			Uniq:         "a1:b2:c3",
			CapableTypes: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC},
		},
		{
			ID:           InputID{Bus: 0x3, Vendor: 0x1b1c, Product: 0x1b3d, Version: 0x111},
			Name:         "Keyboard",
			Phys:         "usb-0000:00:14.0-2/input0",
			CapableTypes: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_LED, evdev.EV_REP},
		},
	}

	devices := Normalize(infos)
	assert.Equal(t, 2, len(devices))

	byPhys := make(map[PhysicalID]Device)
	for _, d := range devices {
		byPhys[d.PhysicalUUID()] = d
	}

	gamepad, ok := byPhys["usb-0000:00:14.0-1"]
	assert.True(t, ok)
	assert.Equal(t, JoystickDevice, gamepad.DeviceType)
	assert.Equal(t, "Gamepad", gamepad.Name)
	assert.Equal(t, "a1:b2:c3", gamepad.Uniq)
	assert.Equal(t, 2, len(gamepad.Handlers))

	keyboard, ok := byPhys["usb-0000:00:14.0-2"]
	assert.True(t, ok)
	assert.Equal(t, KeyboardDevice, keyboard.DeviceType)
}
