package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	path2 "path"
	"strconv"
	"strings"

	"github.com/code-monet/JoystickGremlin/internal/pkg/curve"
	"github.com/code-monet/JoystickGremlin/internal/pkg/input"
	"github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

type yamlCurve struct {
	Type      string      `yaml:"type"`
	Points    [][]float64 `yaml:"points,omitempty"`
	Symmetric bool        `yaml:"symmetric,omitempty"`
}

type yamlAxis struct {
	Curve yamlCurve `yaml:"curve"`
	// Deadzone is a [low, center_low, center_high, high] quadruple,
	// omitted means passthrough
	Deadzone []float64 `yaml:"deadzone,omitempty"`
	Flip     bool      `yaml:"flip,omitempty"`
	Output   string    `yaml:"output,omitempty"`
}

type yamlMode struct {
	Name string              `yaml:"name"`
	Axes map[string]yamlAxis `yaml:"axes"`
}

type yamlProfile struct {
	Identifier struct {
		Bus     uint16 `yaml:"bus"`
		Vendor  uint16 `yaml:"vendor"`
		Product uint16 `yaml:"product"`
		Version uint16 `yaml:"version"`
		Uniq    string `yaml:"uniq,omitempty"`
	} `yaml:"identifier"`

	DefaultMode string            `yaml:"default_mode"`
	Modes       []yamlMode        `yaml:"modes"`
	Buttons     map[string]string `yaml:"buttons,omitempty"`
}

// DeviceProfile is a parsed profile together with its file origin.
type DeviceProfile struct {
	ProfileFile string
	ProfileType string // factory or user
	Config      Config
}

func keyToEvCode(key string, lookupTable map[string]evdev.EvCode) (evdev.EvCode, error) {
	if strings.HasPrefix(key, "x") {
		keyTrimmed := strings.TrimPrefix(key, "x")
		evcode, err := strconv.ParseUint(keyTrimmed, 16, 16)
		if err != nil {
			return evdev.EvCode(0), fmt.Errorf("conversion of hex value \"%s\" failed: %w", keyTrimmed, err)
		}
		return evdev.EvCode(evcode), nil
	}

	evcode, ok := lookupTable[key]
	if !ok {
		return evdev.EvCode(0), fmt.Errorf("EvCode name \"%s\" not found / not supported", key)
	}
	return evcode, nil
}

// evCodeName reverses the evdev name lookup. With aliased codes the
// lexicographically smallest name wins, keeping saved output stable.
func evCodeName(code evdev.EvCode, lookupTable map[string]evdev.EvCode) string {
	best := ""
	for name, c := range lookupTable {
		if c != code {
			continue
		}
		if best == "" || name < best {
			best = name
		}
	}
	if best == "" {
		return fmt.Sprintf("x%x", uint16(code))
	}
	return best
}

// AxisName returns the canonical name of an absolute axis code, like
// "ABS_X", falling back to a hex literal for unnamed codes.
func AxisName(code evdev.EvCode) string {
	return evCodeName(code, evdev.ABSFromString)
}

func parseAxis(modeName, axisRaw string, raw yamlAxis) (evdev.EvCode, Axis, error) {
	code, err := keyToEvCode(axisRaw, evdev.ABSFromString)
	if err != nil {
		return 0, Axis{}, fmt.Errorf("[%s] %s: failed to parse axis code: %w", modeName, axisRaw, err)
	}

	curveType, ok := curve.TypeFromString[raw.Curve.Type]
	if !ok {
		return 0, Axis{}, fmt.Errorf("[%s] %s: curve type not supported: %s", modeName, axisRaw, raw.Curve.Type)
	}

	var points = make([]curve.Point, 0, len(raw.Curve.Points))
	for i, pair := range raw.Curve.Points {
		if len(pair) != 2 {
			return 0, Axis{}, fmt.Errorf(
				"[%s] %s: point %d must be an [x, y] pair, got %d values",
				modeName, axisRaw, i, len(pair),
			)
		}
		points = append(points, curve.Point{X: pair[0], Y: pair[1]})
	}

	c, err := curve.New(curveType, raw.Curve.Symmetric, points...)
	if err != nil {
		return 0, Axis{}, fmt.Errorf("[%s] %s: %w", modeName, axisRaw, err)
	}

	deadzone := curve.DefaultDeadzone()
	if len(raw.Deadzone) > 0 {
		if len(raw.Deadzone) != 4 {
			return 0, Axis{}, fmt.Errorf(
				"[%s] %s: deadzone must hold 4 values [low, center_low, center_high, high], got %d",
				modeName, axisRaw, len(raw.Deadzone),
			)
		}
		deadzone = curve.Deadzone{
			Low:        raw.Deadzone[0],
			CenterLow:  raw.Deadzone[1],
			CenterHigh: raw.Deadzone[2],
			High:       raw.Deadzone[3],
		}
		if deadzone.Low > deadzone.CenterLow || deadzone.CenterLow > deadzone.CenterHigh || deadzone.CenterHigh > deadzone.High {
			return 0, Axis{}, fmt.Errorf("[%s] %s: deadzone values must be ordered", modeName, axisRaw)
		}
	}

	output := code
	if raw.Output != "" {
		output, err = keyToEvCode(raw.Output, evdev.ABSFromString)
		if err != nil {
			return 0, Axis{}, fmt.Errorf("[%s] %s: failed to parse output code: %w", modeName, axisRaw, err)
		}
	}

	return code, Axis{
		Curve:    c,
		Deadzone: deadzone,
		Flip:     raw.Flip,
		Output:   output,
	}, nil
}

func ParseData(data []byte) (Config, error) {
	var raw yamlProfile

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err := d.Decode(&raw)
	if err != nil {
		return Config{}, fmt.Errorf("parsing yaml failed: %w", err)
	}

	var modes = make([]Mode, 0, len(raw.Modes))
	var seen = make(map[string]bool)

	for _, m := range raw.Modes {
		if m.Name == "" {
			return Config{}, fmt.Errorf("[modes] mode without a name")
		}
		if seen[m.Name] {
			return Config{}, fmt.Errorf("[modes] duplicated mode name: %s", m.Name)
		}
		seen[m.Name] = true

		var axes = make(map[evdev.EvCode]Axis, len(m.Axes))
		for axisRaw, axisCfg := range m.Axes {
			code, axis, err := parseAxis(m.Name, axisRaw, axisCfg)
			if err != nil {
				return Config{}, err
			}
			axes[code] = axis
		}

		modes = append(modes, Mode{Name: m.Name, Axes: axes})
	}

	if len(modes) == 0 {
		return Config{}, fmt.Errorf("[modes] no modes defined")
	}

	var defaultMode = -1
	for i, mode := range modes {
		if mode.Name == raw.DefaultMode {
			defaultMode = i
		}
	}
	if defaultMode == -1 {
		return Config{}, fmt.Errorf("default mode \"%s\" not found", raw.DefaultMode)
	}

	var actionMapping = make(map[evdev.EvCode]Action)
	for buttonRaw, actionRaw := range raw.Buttons {
		evcode, err := keyToEvCode(buttonRaw, evdev.KEYFromString)
		if err != nil {
			return Config{}, fmt.Errorf("[buttons] %w", err)
		}
		action := Action(actionRaw)
		if !SupportedActions[action] {
			return Config{}, fmt.Errorf("[buttons] unsupported action: %s", action)
		}
		actionMapping[evcode] = action
	}

	return Config{
		ID: input.InputID{
			Bus:     raw.Identifier.Bus,
			Vendor:  raw.Identifier.Vendor,
			Product: raw.Identifier.Product,
			Version: raw.Identifier.Version,
		},
		Uniq:          raw.Identifier.Uniq,
		DefaultMode:   defaultMode,
		Modes:         modes,
		ActionMapping: actionMapping,
	}, nil
}

// flattenCurve serializes control points back into the profile's flat
// point list, Bézier handles interleaved between knots.
func flattenCurve(c curve.Curve) [][]float64 {
	cps := c.ControlPoints()
	var out = make([][]float64, 0, len(cps)*3)

	for i, cp := range cps {
		if c.Type() == curve.CubicBezierSplineType && i > 0 && cp.HandleLeft != nil {
			out = append(out, []float64{cp.HandleLeft.X, cp.HandleLeft.Y})
		}
		out = append(out, []float64{cp.Center.X, cp.Center.Y})
		if c.Type() == curve.CubicBezierSplineType && i < len(cps)-1 && cp.HandleRight != nil {
			out = append(out, []float64{cp.HandleRight.X, cp.HandleRight.Y})
		}
	}
	return out
}

// Save serializes a Config back into the YAML profile schema.
func Save(cfg Config) ([]byte, error) {
	var raw yamlProfile

	raw.Identifier.Bus = cfg.ID.Bus
	raw.Identifier.Vendor = cfg.ID.Vendor
	raw.Identifier.Product = cfg.ID.Product
	raw.Identifier.Version = cfg.ID.Version
	raw.Identifier.Uniq = cfg.Uniq

	if cfg.DefaultMode < 0 || cfg.DefaultMode >= len(cfg.Modes) {
		return nil, fmt.Errorf("default mode index out of range: %d", cfg.DefaultMode)
	}
	raw.DefaultMode = cfg.Modes[cfg.DefaultMode].Name

	for _, mode := range cfg.Modes {
		var axes = make(map[string]yamlAxis, len(mode.Axes))
		for code, axis := range mode.Axes {
			var deadzone []float64
			if axis.Deadzone != curve.DefaultDeadzone() {
				deadzone = []float64{
					axis.Deadzone.Low, axis.Deadzone.CenterLow,
					axis.Deadzone.CenterHigh, axis.Deadzone.High,
				}
			}

			var output string
			if axis.Output != code {
				output = evCodeName(axis.Output, evdev.ABSFromString)
			}

			axes[evCodeName(code, evdev.ABSFromString)] = yamlAxis{
				Curve: yamlCurve{
					Type:      axis.Curve.Type().String(),
					Points:    flattenCurve(axis.Curve),
					Symmetric: axis.Curve.Symmetric(),
				},
				Deadzone: deadzone,
				Flip:     axis.Flip,
				Output:   output,
			}
		}
		raw.Modes = append(raw.Modes, yamlMode{Name: mode.Name, Axes: axes})
	}

	if len(cfg.ActionMapping) > 0 {
		raw.Buttons = make(map[string]string, len(cfg.ActionMapping))
		for code, action := range cfg.ActionMapping {
			raw.Buttons[evCodeName(code, evdev.KEYFromString)] = string(action)
		}
	}

	return yaml.Marshal(&raw)
}

// SaveProfile writes a Config to path in the YAML profile schema.
func SaveProfile(path string, cfg Config) error {
	data, err := Save(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readProfile(path, profileType string) (DeviceProfile, error) {
	fd, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("opening profile file failed: %w", err)
	}
	defer fd.Close()

	data, err := io.ReadAll(fd)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("reading file data failed: %w", err)
	}

	conf, err := ParseData(data)
	if err != nil {
		return DeviceProfile{}, err
	}

	return DeviceProfile{
		ProfileFile: path2.Base(path),
		ProfileType: profileType,
		Config:      conf,
	}, nil
}
