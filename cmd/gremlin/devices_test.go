package main

import (
	"sync"
	"testing"

	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
	"github.com/stretchr/testify/assert"
)

func TestDeviceRegistrySorted(t *testing.T) {
	reg := newDeviceRegistry()

	b := remap.Device{InputDevice: input.Device{Uniq: "bbbb"}}
	a := remap.Device{InputDevice: input.Device{Uniq: "aaaa"}}
	reg.Add(&b)
	reg.Add(&a)

	ptrs := reg.Sorted()
	assert.Equal(t, DevicePtrs{&a, &b}, ptrs)

	reg.Remove(&a)
	assert.Equal(t, DevicePtrs{&b}, reg.Sorted())
}

func TestDeviceRegistryConcurrentAccess(t *testing.T) {
	reg := newDeviceRegistry()

	// views iterate while manager goroutines add and remove, the race
	// detector flags any unguarded map access here
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d := remap.Device{InputDevice: input.Device{Uniq: "x"}}
				reg.Add(&d)
				reg.Sorted()
				reg.Remove(&d)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, len(reg.Sorted()))
}
