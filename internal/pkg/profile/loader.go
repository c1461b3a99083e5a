package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/code-monet/JoystickGremlin/internal/pkg/fs"
	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
)

const (
	factoryProfiles = "gremlin-config/factory/profiles"
	userProfiles    = "gremlin-config/user/profiles"
)

var (
	UnsupportedDeviceType = errors.New("unsupported device type")
)

type ProfileMap map[input.InputID]DeviceProfile

type DeviceProfiles struct {
	Factory ProfileMap
	User    ProfileMap
}

// FindProfile resolves the profile for a device, user profiles shadow
// factory ones and an exact identifier match shadows the default (zero
// identifier) profile.
func (p *DeviceProfiles) FindProfile(id input.InputID, devType input.DeviceType) (DeviceProfile, error) {
	if devType != input.JoystickDevice {
		return DeviceProfile{}, fmt.Errorf("%w: %s", UnsupportedDeviceType, devType)
	}

	prof, ok := p.User[id]
	if ok {
		return prof, nil
	}
	prof, ok = p.User[input.InputID{}] // user default if exists
	if ok {
		return prof, nil
	}
	prof, ok = p.Factory[id]
	if ok {
		return prof, nil
	}
	prof, ok = p.Factory[input.InputID{}] // factory default
	if ok {
		return prof, nil
	}
	return DeviceProfile{}, errors.New("default profile not found")
}

type dirInfo struct {
	root       string
	profileMap ProfileMap
	identifier string
}

func LoadProfiles() (DeviceProfiles, error) {
	profiles := DeviceProfiles{
		Factory: make(ProfileMap),
		User:    make(ProfileMap),
	}

	for _, pair := range []dirInfo{
		{factoryProfiles, profiles.Factory, "factory"},
		{userProfiles, profiles.User, "user"},
	} {
		err := loadDirectory(pair.root, pair.identifier, pair.profileMap)
		if err != nil {
			return profiles, fmt.Errorf("loading \"%s\" directory failed: %w", pair.root, err)
		}
	}
	return profiles, nil
}

func loadDirectory(root, profileType string, profileMap ProfileMap) error {
	entry := fs.NewEntry(root)

	names, err := entry.FileNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		if !strings.HasSuffix(strings.ToLower(name), ".yaml") {
			continue
		}

		files, err := entry.Files()
		if err != nil {
			return err
		}
		file := files[name]

		prof, err := readProfile(file.Path(), profileType)
		if err != nil {
			log.Info(fmt.Sprintf("device profile %s (%s) load failed: %s", name, profileType, err), logger.Warning)
			continue
		}
		profileMap[prof.Config.ID] = prof
	}
	return nil
}
