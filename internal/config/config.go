package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes caps the size of a config file read by Load.
const MaxConfigFileBytes = 64 * 1024

// Rotation sources
const (
	RotationSourceFixed = "fixed"
	RotationSourceGPIO  = "gpio"
)

// Engine types
const (
	EngineStub   = "stub"
	EngineNative = "native"
)

// DisplayConfig describes the host display.
type DisplayConfig struct {
	PhysicalWidth  int    `yaml:"physical_width"`  // display mode width in pixels
	PhysicalHeight int    `yaml:"physical_height"` // display mode height in pixels
	RotationSource string `yaml:"rotation_source"` // "fixed" or "gpio"
	RotationDeg    int    `yaml:"rotation_deg"`    // 0, 90, 180, 270 (fixed source)
	RotationPin0   int    `yaml:"rotation_pin0"`   // BCM pin for bit 0 (gpio source)
	RotationPin1   int    `yaml:"rotation_pin1"`   // BCM pin for bit 1 (gpio source)
}

// StubConfig holds the values reported by the stub engine.
type StubConfig struct {
	PreviewWidth      int `yaml:"preview_width"`
	PreviewHeight     int `yaml:"preview_height"`
	SensorOrientation int `yaml:"sensor_orientation"` // degrees (0-359)
}

// EngineConfig selects the camera engine implementation.
type EngineConfig struct {
	Type        string     `yaml:"type"`         // "stub" or "native"
	LibraryPath string     `yaml:"library_path"` // native only; empty = search
	Stub        StubConfig `yaml:"stub"`
}

// SurfaceConfig is the surface size offered by the host when running
// without the web simulator.
type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Engine   EngineConfig   `yaml:"engine"`
	Surface  SurfaceConfig  `yaml:"surface"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file directly inside
// a "configs" directory, with no ".." component.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	// Display
	if c.Display.PhysicalWidth <= 0 || c.Display.PhysicalHeight <= 0 {
		return fmt.Errorf("display.physical_width and display.physical_height must be > 0")
	}
	if c.Display.RotationSource == "" {
		c.Display.RotationSource = RotationSourceFixed
	}
	switch c.Display.RotationSource {
	case RotationSourceFixed:
		if c.Display.RotationDeg%90 != 0 || c.Display.RotationDeg < 0 || c.Display.RotationDeg > 270 {
			return fmt.Errorf("display.rotation_deg must be 0, 90, 180 or 270, got %d", c.Display.RotationDeg)
		}
	case RotationSourceGPIO:
		if c.Display.RotationPin0 <= 0 || c.Display.RotationPin1 <= 0 {
			return fmt.Errorf("display.rotation_pin0 and display.rotation_pin1 are required for gpio rotation")
		}
		if c.Display.RotationPin0 == c.Display.RotationPin1 {
			return fmt.Errorf("display.rotation_pin0 and display.rotation_pin1 must differ")
		}
	default:
		return fmt.Errorf("unsupported display.rotation_source: %s", c.Display.RotationSource)
	}

	// Engine
	if c.Engine.Type == "" {
		c.Engine.Type = EngineStub
	}
	switch c.Engine.Type {
	case EngineStub:
		if c.Engine.Stub.PreviewWidth <= 0 {
			c.Engine.Stub.PreviewWidth = 640 // VGA
		}
		if c.Engine.Stub.PreviewHeight <= 0 {
			c.Engine.Stub.PreviewHeight = 480
		}
		if c.Engine.Stub.SensorOrientation < 0 || c.Engine.Stub.SensorOrientation >= 360 {
			return fmt.Errorf("engine.stub.sensor_orientation must be in [0, 360), got %d", c.Engine.Stub.SensorOrientation)
		}
	case EngineNative:
	default:
		return fmt.Errorf("unsupported engine.type: %s", c.Engine.Type)
	}

	// Surface offered by the host defaults to the full display
	if c.Surface.Width <= 0 {
		c.Surface.Width = c.Display.PhysicalWidth
	}
	if c.Surface.Height <= 0 {
		c.Surface.Height = c.Display.PhysicalHeight
	}

	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}
