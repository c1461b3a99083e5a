// Package output drives virtual uinput devices, clones of physical
// joysticks fed with shaped events.
package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// VirtualDevice is a uinput device mirroring the capabilities of one
// physical joystick handler.
type VirtualDevice struct {
	name string
	dev  *evdev.InputDevice

	written atomic.Uint64
}

// CreateVirtualDevice clones capabilities of an already opened joystick
// handler into a new uinput device. The source usually stays grabbed, so
// applications see only the virtual device.
func CreateVirtualDevice(source *evdev.InputDevice, name string) (*VirtualDevice, error) {
	clone, err := evdev.CloneDevice(name, source)
	if err != nil {
		return nil, fmt.Errorf("creating uinput device failed: %w", err)
	}

	log.Info(fmt.Sprintf("Created virtual device \"%s\"", name), logger.Info)
	return &VirtualDevice{name: name, dev: clone}, nil
}

func (v *VirtualDevice) Name() string {
	return v.name
}

// Written returns the number of events emitted so far.
func (v *VirtualDevice) Written() uint64 {
	return v.written.Load()
}

// ProcessEvents writes events until the channel closes. Each event is
// followed by a SYN_REPORT so consumers pick it up immediately.
func (v *VirtualDevice) ProcessEvents(wg *sync.WaitGroup, events <-chan remap.Event) {
	defer wg.Done()

	syn := evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}

	for ev := range events {
		ie := ev.InputEvent()
		if err := v.dev.WriteOne(&ie); err != nil {
			log.Info(fmt.Sprintf("event write failed: %v", err),
				zap.String("virtual_device", v.name), logger.Warning)
			continue
		}
		if err := v.dev.WriteOne(&syn); err != nil {
			log.Info(fmt.Sprintf("sync report write failed: %v", err),
				zap.String("virtual_device", v.name), logger.Warning)
			continue
		}
		v.written.Add(1)
	}

	log.Info("virtual device event processing stopped",
		zap.String("virtual_device", v.name), logger.Debug)
}

func (v *VirtualDevice) Close() error {
	err := v.dev.Close()
	if err != nil {
		return fmt.Errorf("closing uinput device failed: %w", err)
	}
	return nil
}
