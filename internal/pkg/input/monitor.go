package input

import (
	"context"
	"fmt"
	"time"

	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"go.uber.org/zap"
)

func fetchDevices() []Device {
	infos, err := GetDeviceInfos()
	if err != nil {
		log.Info(fmt.Sprintf("fetching device handlers failed: %v", err), logger.Warning)
		return nil
	}

	return Normalize(infos)
}

// MonitorNewDevices polls for device arrival every discoveryRate and emits
// joystick devices on the returned channel. A freshly connected device is
// held back for stabilizationPeriod first, the kernel registers its
// handlers one by one and an early open would see an incomplete group.
func MonitorNewDevices(ctx context.Context, stabilizationPeriod, discoveryRate time.Duration) <-chan Device {
	var devChan = make(chan Device)

	go func() {
		defer close(devChan)

		var trackedDevs = make(map[PhysicalID]Device)
		var firstSeen = make(map[PhysicalID]time.Time)

		log.Info("Monitor new devices engaged", logger.Debug)
	root:
		for {
			select {
			case <-ctx.Done():
				break root
			default:
				break
			}

			current := fetchDevices()
			now := time.Now()

			var present = make(map[PhysicalID]bool, len(current))
			for _, d := range current {
				phys := d.PhysicalUUID()
				present[phys] = true

				if _, ok := trackedDevs[phys]; ok {
					continue
				}

				seen, ok := firstSeen[phys]
				if !ok {
					firstSeen[phys] = now
					continue
				}
				if now.Sub(seen) < stabilizationPeriod {
					continue
				}

				trackedDevs[phys] = d
				delete(firstSeen, phys)
				log.Info(fmt.Sprintf("New device: %s", d.String()), logger.Debug)

				if d.DeviceType != JoystickDevice {
					log.Info("Ignoring device",
						zap.String("device_name", d.Name),
						zap.String("device_type", d.DeviceType.String()),
						logger.Debug,
					)
					continue
				}

				select {
				case devChan <- d:
				case <-ctx.Done():
					break root
				}
			}

			for phys, d := range trackedDevs {
				if !present[phys] {
					log.Info(fmt.Sprintf("Device removed: %s", d.String()), logger.Debug)
					delete(trackedDevs, phys)
				}
			}
			for phys := range firstSeen {
				if !present[phys] {
					delete(firstSeen, phys)
				}
			}

			select {
			case <-ctx.Done():
				break root
			case <-time.After(discoveryRate):
			}
		}
		log.Info("Monitor new devices disengaged", logger.Debug)
	}()

	return devChan
}
