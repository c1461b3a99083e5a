package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/code-monet/JoystickGremlin/internal/pkg/output"
	"github.com/code-monet/JoystickGremlin/internal/pkg/profile"
	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
	"go.uber.org/zap"
)

// runManager is the main program process, before exiting from that function
// it needs to ensure that all goroutine execution has completed
func runManager(
	ctx context.Context, cfg GremlinConfig,
	grab, noLogs bool, devices *deviceRegistry,
	monitorEvents chan<- remap.Event,
) {
	profileChange := profile.DetectProfileChanges(ctx)

	wg := sync.WaitGroup{}

	log.Info("Run manager", logger.Debug)
root:
	for {
		select {
		case <-ctx.Done():
			break root
		default:
			break
		}

		profiles, err := profile.LoadProfiles()
		if err != nil {
			log.Info(fmt.Sprintf("Profiles load failed: %s", err), logger.Error)
			os.Exit(1)
		}

		ctxDevice, cancel := context.WithCancel(context.Background())

		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-profileChange:
				log.Info("handling profile change", logger.Debug)
				cancel()
			case <-ctx.Done():
				cancel()
			}
		}()

	device:
		for d := range input.MonitorNewDevices(ctxDevice, cfg.Gremlin.StabilizationPeriod, cfg.Gremlin.DiscoveryRate) {
			log.Info("Loading profile for device...", zap.String("device_name", d.Name), logger.Debug)
			prof, err := profiles.FindProfile(d.ID, d.DeviceType)
			if err != nil {
				if errors.Is(err, profile.UnsupportedDeviceType) {
					log.Info(fmt.Sprintf("failed to load profile for device: %v", err), zap.String("device_name", d.Name), logger.Warning)
					continue
				}
				log.Info(fmt.Sprintf("failed to load profile for device: %v", err), zap.String("device_name", d.Name), logger.Error)
				continue
			}
			log.Info(fmt.Sprintf("profile loaded: %s", prof.ProfileFile), logger.Debug)

			var inputEvents <-chan *input.InputEvent

			appearedAt := time.Now()

			log.Info("Opening device...", zap.String("device_name", d.Name), logger.Debug)
			for {
				inputEvents, err = d.ProcessEvents(ctxDevice, grab, cfg.Gremlin.EVThrottling)
				if err != nil {
					if time.Now().Sub(appearedAt) > time.Second*5 {
						log.Info("failed to open device on time, giving up", zap.String("device_name", d.Name), logger.Warning)
						continue device
					}
					time.Sleep(time.Millisecond * 100)
					continue
				}
				break
			}

			wg.Add(1)
			go func(dev input.Device, prof profile.DeviceProfile) {
				defer wg.Done()

				joystick, ok := dev.Evdevs[input.HandlerJoystick]
				if !ok {
					log.Info("no joystick handler available", zap.String("device_name", dev.Name), logger.Error)
					for range inputEvents {
					}
					return
				}

				virt, err := output.CreateVirtualDevice(joystick, fmt.Sprintf("%s (Gremlin)", dev.Name))
				if err != nil {
					log.Info(fmt.Sprintf("failed to create virtual device: %v", err), zap.String("device_name", dev.Name), logger.Error)
					for range inputEvents {
					}
					return
				}

				events := make(chan remap.Event, 64)
				toVirtual, toMonitor := FanOut(events)

				outWg := sync.WaitGroup{}
				outWg.Add(1)
				go virt.ProcessEvents(&outWg, toVirtual)
				outWg.Add(1)
				go func() {
					defer outWg.Done()
					for ev := range toMonitor {
						monitorEvents <- ev
					}
				}()

				remapDev := remap.NewDevice(dev, prof, events, noLogs)
				devices.Add(&remapDev)
				log.Info("Device connected", zap.String("device_name", dev.Name),
					zap.String("profile", fmt.Sprintf("%s (%s)", prof.ProfileFile, prof.ProfileType)),
					zap.String("device_type", dev.DeviceType.String()),
					logger.Info,
				)

				wg.Add(1)
				remapDev.ProcessEvents(&wg, inputEvents)

				close(events)
				outWg.Wait()
				if err := virt.Close(); err != nil {
					log.Info(fmt.Sprintf("failed to close virtual device: %v", err), zap.String("device_name", dev.Name), logger.Warning)
				}

				log.Info("Device disconnected", zap.String("device_name", dev.Name), logger.Info)
				devices.Remove(&remapDev)
			}(d, prof)
		}
	}
	wg.Wait()
	log.Info("Exit manager", logger.Debug)
}
