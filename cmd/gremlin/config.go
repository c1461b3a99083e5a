package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/go-ini/ini"
)

type Gremlin struct {
	EVThrottling        time.Duration
	LogViewRate         time.Duration
	LogBufferSize       int
	DiscoveryRate       time.Duration
	StabilizationPeriod time.Duration
}

type UI struct {
	Colors bool
}

type GremlinConfig struct {
	Gremlin Gremlin
	UI      UI
}

func LoadGremlinConfig(path string) GremlinConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		panic(err)
	}

	var c GremlinConfig

	// [gremlin]
	gremlin, _ := cfg.GetSection("gremlin")
	evThrottling, _ := gremlin.GetKey("pool_rate")
	i, err := evThrottling.Int()
	if err != nil {
		panic(err)
	}
	c.Gremlin.EVThrottling = time.Second / time.Duration(i)

	discoveryRate, _ := gremlin.GetKey("discovery_rate")
	i, err = discoveryRate.Int()
	if err != nil {
		panic(err)
	}
	c.Gremlin.DiscoveryRate = time.Second / time.Duration(i)

	stabilizationPeriod, _ := gremlin.GetKey("stabilization_period")
	i, err = stabilizationPeriod.Int()
	if err != nil {
		panic(err)
	}
	c.Gremlin.StabilizationPeriod = time.Millisecond * time.Duration(i)

	logViewRate, _ := gremlin.GetKey("log_view_rate")
	i, err = logViewRate.Int()
	if err != nil {
		panic(err)
	}
	c.Gremlin.LogViewRate = time.Second / time.Duration(i)

	logBufferSize, _ := gremlin.GetKey("log_buffer_size")
	i, err = logBufferSize.Int()
	if err != nil {
		panic(err)
	}
	c.Gremlin.LogBufferSize = i

	// [ui]
	ui, _ := cfg.GetSection("ui")
	colors, _ := ui.GetKey("colors")
	b, err := colors.Bool()
	if err != nil {
		panic(err)
	}
	c.UI.Colors = b

	return c
}

//go:embed gremlin-config/gremlin.config
//go:embed gremlin-config/*/*/*
var templateConfig embed.FS

const configDir = "gremlin-config"

// createConfigDirectoryIfNeeded creates the config directory if necessary.
// It also updates factory profiles, gremlin.config and user profiles stay
// intact.
func createConfigDirectoryIfNeeded() error {
	cdir, err := os.OpenFile(configDir, os.O_RDONLY, 0)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot open config directory: %v", err)
		}
		log.Info("config not exist, generating tree...", logger.Info)

		// create config subdirectories and files
		err = fs.WalkDir(templateConfig, configDir, func(path string, d fs.DirEntry, err error) error {
			if d.IsDir() {
				err := os.Mkdir(path, 0o777)
				if err != nil {
					return fmt.Errorf("cannot create \"%s\" directory: %w", path, err)
				}
				return nil
			}

			dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o666)
			if err != nil {
				return fmt.Errorf("cannot open \"%s\" file: %w", path, err)
			}
			defer dst.Close()

			data, err := fs.ReadFile(templateConfig, path)
			if err != nil {
				return fmt.Errorf("cannot read \"%s\" template file: %w", path, err)
			}

			_, err = dst.Write(data)
			if err != nil {
				return fmt.Errorf("cannot write data into \"%s\" file: %w", path, err)
			}

			log.Info(fmt.Sprintf("Created \"%s\" file", path), logger.Debug)
			return nil
		})

		if err != nil {
			panic(err)
		}
		log.Info("config generation done", logger.Info)

		return nil
	}
	cdir.Close()

	// update factory profiles
	err = fs.WalkDir(templateConfig, configDir+"/factory", func(path string, entry fs.DirEntry, err error) error {
		if entry.IsDir() {
			_, err := os.Stat(path)
			if err == nil {
				return nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("unexpected error when reading \"%s\" directory: %w", path, err)
			}
			// ensure directories exists
			err = os.Mkdir(path, 0o777)
			if err != nil {
				return fmt.Errorf("cannot create \"%s\" directory: %w", path, err)
			}
			return nil
		}
		src, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("cannot open \"%s\" file: %v", path, err)
			}
			// factory file does not exist
			log.Info(fmt.Sprintf("Creating new factory profile: \"%s\"", path), logger.Debug)
			fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o666)
			if err != nil {
				return fmt.Errorf("cannot open \"%s\" file for writing: %w", path, err)
			}
			defer fd.Close()

			data, err := fs.ReadFile(templateConfig, path)
			if err != nil {
				return fmt.Errorf("cannot read \"%s\" file template: %w", path, err)
			}

			_, err = fd.Write(data)
			if err != nil {
				return fmt.Errorf("cannot write data into \"%s\" file: %w", path, err)
			}
			return nil
		}
		defer src.Close()

		// factory file exist, overwriting
		data, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("cannot read \"%s\" file template: %w", path, err)
		}

		newData, err := fs.ReadFile(templateConfig, path)
		if err != nil {
			return fmt.Errorf("cannot open \"%s\" file template: %w", path, err)
		}

		if bytes.Equal(data, newData) {
			log.Info(fmt.Sprintf("File \"%s\" not changed", path), logger.Debug)
			return nil
		}
		log.Info(fmt.Sprintf("File \"%s\" changed, replacing data...", path), logger.Debug)
		dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
		if err != nil {
			return fmt.Errorf("cannot open \"%s\" file: %w", path, err)
		}
		defer dst.Close()

		_, err = dst.Write(newData)
		if err != nil {
			return fmt.Errorf("cannot overwrite \"%s\" file: %w", path, err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("update factory profiles failed: %w", err)
	}
	return nil
}
