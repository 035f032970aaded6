package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cjeanneret/PreviewGo/internal/config"
	"github.com/cjeanneret/PreviewGo/internal/debug"
	"github.com/cjeanneret/PreviewGo/internal/hw/bridge"
	"github.com/cjeanneret/PreviewGo/internal/hw/display"
	"github.com/cjeanneret/PreviewGo/internal/hw/gpio"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
	"github.com/cjeanneret/PreviewGo/internal/logic/preview"
	"github.com/cjeanneret/PreviewGo/internal/web"
)

// noRotationOverride means -rotation_deg was not given.
const noRotationOverride = -1

// overrides holds CLI values applied on top of the config file.
type overrides struct {
	RotationDeg int           // noRotationOverride = use config
	Surface     geometry.Size // zero = use config
}

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web host simulator on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	rotationDeg := flag.Int("rotation_deg", noRotationOverride, "override display rotation (0, 90, 180, 270); forces the fixed rotation source")
	surfaceFlag := flag.String("surface", "", "override the host surface size, as WxH (e.g. 1080x1920)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	surface, err := parseSurfaceFlag(*surfaceFlag)
	if err != nil {
		log.Fatalf("invalid -surface: %v", err)
	}
	ov := overrides{RotationDeg: *rotationDeg, Surface: surface}
	if err := validateCLIOverrides(ov); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	applyOverrides(cfg, ov)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	defer debug.Sync()
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	// Display
	debug.Step(1, "Initializing display")
	disp, rotationSetter, closeDisplay, err := newDisplayFromConfig(cfg)
	if err != nil {
		log.Fatalf("init display failed: %v", err)
	}
	defer closeDisplay()
	debug.PrintStruct("Display config", cfg.Display)

	// Camera engine
	debug.Step(2, "Initializing camera engine")
	engine, err := newEngineFromConfig(cfg)
	if err != nil {
		log.Fatalf("init camera engine failed: %v", err)
	}
	debug.Value("Engine type", cfg.Engine.Type)

	ctrl := preview.NewController(engine, disp)

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		ctrl.Observe(broadcaster.BroadcastTransition)
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		formDefaults := web.FormConfig{
			SurfaceWidth:  cfg.Surface.Width,
			SurfaceHeight: cfg.Surface.Height,
			RotationDeg:   cfg.Display.RotationDeg,
		}
		srv := web.NewServer(webAddr, broadcaster, ctrl, rotationSetter, formDefaults)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	if err := runCycle(ctrl, geometry.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}); err != nil {
		log.Fatalf("preview cycle failed: %v", err)
	}
}

// runCycle offers one host surface, reports the resulting state, then
// destroys the surface.
func runCycle(ctrl *preview.Controller, size geometry.Size) error {
	debug.Step(3, "Running one surface cycle")
	host := web.NewVirtualSurface()
	if err := ctrl.OnSurfaceAvailable(host, size.Width, size.Height); err != nil {
		return fmt.Errorf("surface available: %w", err)
	}

	snap := ctrl.Snapshot()
	debug.Summary("Preview Summary")
	debug.Info("State %v, surface %v, preview %v, texture rotation %d°",
		snap.State, snap.Surface, snap.Preview, snap.TextureRotation)
	debug.PrintStruct("Host surface", host.View())

	if err := ctrl.OnSurfaceDestroyed(); err != nil {
		return fmt.Errorf("surface destroyed: %w", err)
	}
	debug.Section("Cycle Complete")
	return nil
}

// newDisplayFromConfig returns the display, its software rotation setter
// (nil for hardware-driven rotation) and a cleanup func.
func newDisplayFromConfig(cfg *config.Config) (display.Display, display.RotationSetter, func(), error) {
	size := geometry.Size{Width: cfg.Display.PhysicalWidth, Height: cfg.Display.PhysicalHeight}
	noop := func() {}

	switch cfg.Display.RotationSource {
	case config.RotationSourceFixed:
		r, err := geometry.RotationFromDegrees(cfg.Display.RotationDeg)
		if err != nil {
			return nil, nil, noop, err
		}
		d, err := display.NewFixed(size, r)
		if err != nil {
			return nil, nil, noop, err
		}
		return d, d, noop, nil

	case config.RotationSourceGPIO:
		debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
		driver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("init GPIO: %w", err)
		}
		closeDriver := func() {
			if err := driver.Close(); err != nil {
				debug.Error(fmt.Errorf("closing GPIO driver failed: %w", err))
			}
		}
		d, err := display.NewGPIO(driver, cfg.Display.RotationPin0, cfg.Display.RotationPin1, size)
		if err != nil {
			closeDriver()
			return nil, nil, noop, err
		}
		return d, nil, closeDriver, nil

	default:
		return nil, nil, noop, fmt.Errorf("unsupported rotation source: %s", cfg.Display.RotationSource)
	}
}

// newEngineFromConfig selects a camera engine implementation based on configuration.
func newEngineFromConfig(cfg *config.Config) (bridge.Engine, error) {
	switch cfg.Engine.Type {
	case config.EngineStub:
		s := cfg.Engine.Stub
		return bridge.NewStubEngine(s.PreviewWidth, s.PreviewHeight, s.SensorOrientation), nil
	case config.EngineNative:
		if err := bridge.Load(cfg.Engine.LibraryPath); err != nil {
			return nil, err
		}
		engine, err := bridge.NewNativeEngine()
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", cfg.Engine.Type)
	}
}

// validateCLIOverrides checks the CLI overrides that were given.
func validateCLIOverrides(ov overrides) error {
	if ov.RotationDeg != noRotationOverride {
		if _, err := geometry.RotationFromDegrees(ov.RotationDeg); err != nil {
			return fmt.Errorf("rotation_deg: %w", err)
		}
	}
	if ov.Surface != (geometry.Size{}) && !ov.Surface.Valid() {
		return fmt.Errorf("surface must be positive, got %v", ov.Surface)
	}
	return nil
}

// applyOverrides mutates cfg with the overrides that were given.
func applyOverrides(cfg *config.Config, ov overrides) {
	if ov.RotationDeg != noRotationOverride {
		cfg.Display.RotationSource = config.RotationSourceFixed
		cfg.Display.RotationDeg = ov.RotationDeg
	}
	if ov.Surface.Valid() {
		cfg.Surface.Width = ov.Surface.Width
		cfg.Surface.Height = ov.Surface.Height
	}
}

// parseSurfaceFlag parses "WxH". The empty string yields a zero size.
func parseSurfaceFlag(s string) (geometry.Size, error) {
	if s == "" {
		return geometry.Size{}, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("width: %w", err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("height: %w", err)
	}
	size := geometry.Size{Width: width, Height: height}
	if !size.Valid() {
		return geometry.Size{}, fmt.Errorf("%w: %v", geometry.ErrInvalidDimensions, size)
	}
	return size, nil
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
