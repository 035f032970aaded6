package main

import (
	"path/filepath"
	"testing"

	"github.com/cjeanneret/PreviewGo/internal/config"
	"github.com/cjeanneret/PreviewGo/internal/hw/bridge"
	"github.com/cjeanneret/PreviewGo/internal/hw/display"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
	"github.com/cjeanneret/PreviewGo/internal/logic/preview"
)

// ---------- parseSurfaceFlag ----------

func TestParseSurfaceFlag_Valid(t *testing.T) {
	cases := []struct {
		input string
		want  geometry.Size
	}{
		{"", geometry.Size{}},
		{"1080x1920", geometry.Size{Width: 1080, Height: 1920}},
		{"640X480", geometry.Size{Width: 640, Height: 480}},
		{"1x1", geometry.Size{Width: 1, Height: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseSurfaceFlag(tc.input)
			if err != nil {
				t.Fatalf("parseSurfaceFlag(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("parseSurfaceFlag(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSurfaceFlag_Invalid(t *testing.T) {
	cases := []string{"1080", "x1920", "1080x", "0x480", "640x-1", "abcxdef", "1080*1920"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			if _, err := parseSurfaceFlag(input); err == nil {
				t.Errorf("parseSurfaceFlag(%q) should fail, got nil", input)
			}
		})
	}
}

// ---------- validateCLIOverrides ----------

func TestValidateCLIOverrides_NoneGiven(t *testing.T) {
	if err := validateCLIOverrides(overrides{RotationDeg: noRotationOverride}); err != nil {
		t.Errorf("no overrides should be valid (use config defaults), got: %v", err)
	}
}

func TestValidateCLIOverrides_Rotations(t *testing.T) {
	for _, deg := range []int{0, 90, 180, 270} {
		if err := validateCLIOverrides(overrides{RotationDeg: deg}); err != nil {
			t.Errorf("rotation %d should be valid, got: %v", deg, err)
		}
	}
	for _, deg := range []int{45, 360, -90, 1} {
		if err := validateCLIOverrides(overrides{RotationDeg: deg}); err == nil {
			t.Errorf("rotation %d should be rejected", deg)
		}
	}
}

func TestValidateCLIOverrides_Surface(t *testing.T) {
	ok := overrides{RotationDeg: noRotationOverride, Surface: geometry.Size{Width: 720, Height: 1280}}
	if err := validateCLIOverrides(ok); err != nil {
		t.Errorf("expected valid, got: %v", err)
	}
	bad := overrides{RotationDeg: noRotationOverride, Surface: geometry.Size{Width: 720, Height: 0}}
	if err := validateCLIOverrides(bad); err == nil {
		t.Error("expected error for zero height, got nil")
	}
}

// ---------- webPortFlag ----------

func TestWebPortFlag_EmptyString(t *testing.T) {
	w := &webPortFlag{defaultPort: 8080}
	if err := w.Set(""); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
	if w.port() != 8080 {
		t.Errorf("expected default port 8080, got %d", w.port())
	}
}

func TestWebPortFlag_ValidPorts(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(tc.input); err != nil {
				t.Fatalf("Set(%q) error: %v", tc.input, err)
			}
			if w.port() != tc.want {
				t.Errorf("port() = %d, want %d", w.port(), tc.want)
			}
		})
	}
}

func TestWebPortFlag_InvalidPorts(t *testing.T) {
	cases := []string{"0", "65536", "-1", "abc", "8080.5"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(input); err == nil {
				t.Errorf("Set(%q) should fail, got nil", input)
			}
		})
	}
}

func TestWebPortFlag_String(t *testing.T) {
	w := &webPortFlag{val: 0}
	if s := w.String(); s != "0" {
		t.Errorf("String() = %q, want \"0\"", s)
	}
	w.val = 9090
	if s := w.String(); s != "9090" {
		t.Errorf("String() = %q, want \"9090\"", s)
	}
}

// ---------- applyOverrides ----------

func newTestConfig() *config.Config {
	return &config.Config{
		Display: config.DisplayConfig{
			PhysicalWidth:  1080,
			PhysicalHeight: 1920,
			RotationSource: config.RotationSourceGPIO,
			RotationPin0:   17,
			RotationPin1:   27,
		},
		Engine: config.EngineConfig{
			Type: config.EngineStub,
			Stub: config.StubConfig{PreviewWidth: 640, PreviewHeight: 480, SensorOrientation: 90},
		},
		Surface:  config.SurfaceConfig{Width: 1080, Height: 1920},
		Defaults: config.DefaultsConfig{MockGPIO: true},
	}
}

func TestApplyOverrides_Rotation(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, overrides{RotationDeg: 90})
	if cfg.Display.RotationSource != config.RotationSourceFixed {
		t.Errorf("RotationSource = %q, want fixed", cfg.Display.RotationSource)
	}
	if cfg.Display.RotationDeg != 90 {
		t.Errorf("RotationDeg = %d, want 90", cfg.Display.RotationDeg)
	}
}

func TestApplyOverrides_ZeroRotationIsAnOverride(t *testing.T) {
	cfg := newTestConfig()
	cfg.Display.RotationSource = config.RotationSourceFixed
	cfg.Display.RotationDeg = 180
	applyOverrides(cfg, overrides{RotationDeg: 0})
	if cfg.Display.RotationDeg != 0 {
		t.Errorf("RotationDeg = %d, want 0", cfg.Display.RotationDeg)
	}
}

func TestApplyOverrides_NoneLeavesUnchanged(t *testing.T) {
	cfg := newTestConfig()
	orig := *cfg
	applyOverrides(cfg, overrides{RotationDeg: noRotationOverride})
	if *cfg != orig {
		t.Errorf("config changed: %+v != %+v", *cfg, orig)
	}
}

func TestApplyOverrides_Surface(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, overrides{RotationDeg: noRotationOverride, Surface: geometry.Size{Width: 720, Height: 1280}})
	if cfg.Surface.Width != 720 || cfg.Surface.Height != 1280 {
		t.Errorf("Surface = %+v, want 720x1280", cfg.Surface)
	}
	if cfg.Display.RotationSource != config.RotationSourceGPIO {
		t.Errorf("RotationSource changed to %q", cfg.Display.RotationSource)
	}
}

// ---------- wiring ----------

func TestDefaultConfigLoads(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "configs", "default.yaml"))
	if err != nil {
		t.Fatalf("Load default config: %v", err)
	}
	if cfg.Engine.Type != config.EngineStub {
		t.Errorf("engine type = %q, want stub", cfg.Engine.Type)
	}
}

func TestNewDisplayFromConfig_Fixed(t *testing.T) {
	cfg := newTestConfig()
	cfg.Display.RotationSource = config.RotationSourceFixed
	cfg.Display.RotationDeg = 270

	d, setter, closeFn, err := newDisplayFromConfig(cfg)
	if err != nil {
		t.Fatalf("newDisplayFromConfig: %v", err)
	}
	defer closeFn()
	if setter == nil {
		t.Error("fixed display should be settable")
	}
	if r, _ := d.Rotation(); r != geometry.Rotation270 {
		t.Errorf("rotation = %v, want 270", r)
	}
}

func TestNewDisplayFromConfig_MockGPIO(t *testing.T) {
	cfg := newTestConfig()
	d, setter, closeFn, err := newDisplayFromConfig(cfg)
	if err != nil {
		t.Fatalf("newDisplayFromConfig: %v", err)
	}
	defer closeFn()
	if setter != nil {
		t.Error("gpio display should not be settable")
	}
	// Pulled-up mock inputs read as an open switch.
	if r, err := d.Rotation(); err != nil || r != geometry.Rotation0 {
		t.Errorf("Rotation() = %v, %v; want 0°", r, err)
	}
	if d.PhysicalSize() != (geometry.Size{Width: 1080, Height: 1920}) {
		t.Errorf("PhysicalSize = %v", d.PhysicalSize())
	}
}

func TestNewEngineFromConfig(t *testing.T) {
	cfg := newTestConfig()
	e, err := newEngineFromConfig(cfg)
	if err != nil {
		t.Fatalf("newEngineFromConfig: %v", err)
	}
	if _, ok := e.(*bridge.StubEngine); !ok {
		t.Errorf("engine = %T, want *bridge.StubEngine", e)
	}

	cfg.Engine.Type = "bogus"
	if _, err := newEngineFromConfig(cfg); err == nil {
		t.Error("expected error for unknown engine type")
	}
}

func TestRunCycle(t *testing.T) {
	d, err := display.NewFixed(geometry.Size{Width: 1080, Height: 1920}, geometry.Rotation0)
	if err != nil {
		t.Fatalf("NewFixed: %v", err)
	}
	engine := bridge.NewStubEngine(640, 480, 90)
	ctrl := preview.NewController(engine, d)

	var states []preview.State
	ctrl.Observe(func(tr preview.Transition) { states = append(states, tr.To) })

	if err := runCycle(ctrl, geometry.Size{Width: 1080, Height: 1920}); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	want := []preview.State{preview.SurfaceAvailable, preview.CameraEngineActive, preview.SurfaceTornDown}
	if len(states) != len(want) {
		t.Fatalf("transitions = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, states[i], want[i])
		}
	}
	if engine.Current() != nil {
		t.Error("engine still holds a surface after the cycle")
	}
}
