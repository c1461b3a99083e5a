package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// DetectProfileChanges emits a value whenever a profile file is written
// in either profile directory. The channel closes when ctx is cancelled.
func DetectProfileChanges(ctx context.Context) <-chan bool {
	var change = make(chan bool)

	go func() {
		defer close(change)
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return
		}

		go func() {
			<-ctx.Done()
			err := watcher.Close()
			if err != nil {
				log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
			}
		}()

		for _, path := range []string{
			factoryProfiles,
			userProfiles,
		} {
			err = watcher.Add(path)
			if err != nil {
				log.Info(fmt.Sprintf("watching \"%s\" failed: %v", path, err), logger.Warning)
			}
		}

		for event := range watcher.Events {
			if event.Op != fsnotify.Write {
				continue
			}

			name := strings.ToLower(event.Name)
			if strings.HasSuffix(name, ".yaml") {
				log.Info(fmt.Sprintf("profile change detected: %s", event.Name), logger.Info)
				change <- true
			}
		}
	}()

	return change
}
