package main

import (
	"sort"
	"sync"

	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
)

type DevicePtrs []*remap.Device

func (d DevicePtrs) Len() int {
	return len(d)
}

func (d DevicePtrs) Less(i, j int) bool {
	return d[i].InputDevice.DeviceID() < d[j].InputDevice.DeviceID()
}

func (d DevicePtrs) Swap(i, j int) {
	d[i], d[j] = d[j], d[i]
}

// deviceRegistry tracks connected devices, written by per-device manager
// goroutines and read by the TUI views.
type deviceRegistry struct {
	mutex   sync.Mutex
	devices map[*remap.Device]*remap.Device
}

func newDeviceRegistry() *deviceRegistry {
	return &deviceRegistry{
		devices: make(map[*remap.Device]*remap.Device, 16),
	}
}

func (r *deviceRegistry) Add(d *remap.Device) {
	r.mutex.Lock()
	r.devices[d] = d
	r.mutex.Unlock()
}

func (r *deviceRegistry) Remove(d *remap.Device) {
	r.mutex.Lock()
	delete(r.devices, d)
	r.mutex.Unlock()
}

func (r *deviceRegistry) Sorted() DevicePtrs {
	r.mutex.Lock()
	ptrs := make(DevicePtrs, 0, len(r.devices))
	for _, d := range r.devices {
		ptrs = append(ptrs, d)
	}
	r.mutex.Unlock()

	sort.Sort(ptrs)
	return ptrs
}
