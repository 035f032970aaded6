package preview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cjeanneret/PreviewGo/internal/debug"
	"github.com/cjeanneret/PreviewGo/internal/hw/bridge"
	"github.com/cjeanneret/PreviewGo/internal/hw/display"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
)

var (
	// ErrSurfaceBusy is returned when a surface is offered while another
	// one is still held.
	ErrSurfaceBusy = errors.New("surface already held")
	// ErrNoSurface is returned when a callback needs a surface and none is held.
	ErrNoSurface = errors.New("no surface held")
)

// HostSurface is the drawable surface offered by the host window system.
type HostSurface interface {
	// SetLayout sizes the on-screen surface, centred in its container.
	SetLayout(width, height int) error
	// SetDefaultBufferSize sets the size of the buffers the engine draws into.
	SetDefaultBufferSize(width, height int) error
	// SetTransform sets the affine transform applied when compositing.
	SetTransform(m geometry.Matrix) error
	// NativeWindow returns the native window pointer handed to the engine.
	NativeWindow() uintptr
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State             State           `json:"state"`
	Rotation          int             `json:"rotation_deg"`
	Texture           geometry.Size   `json:"texture"`
	Preview           geometry.Size   `json:"preview"`
	Surface           geometry.Size   `json:"surface"`
	SensorOrientation int             `json:"sensor_orientation"`
	TextureRotation   int             `json:"texture_rotation_deg"`
	Transform         geometry.Matrix `json:"transform"`
	SurfaceID         uint64          `json:"surface_id,omitempty"`
	EngineHandle      int64           `json:"engine_handle,omitempty"`
}

// Controller sequences the camera engine with the host surface lifecycle.
// Host callbacks are serialised: each one runs to completion before the
// next is accepted.
type Controller struct {
	mu      sync.Mutex
	engine  bridge.Engine
	display display.Display

	state   State
	host    HostSurface
	texture geometry.Size

	// Valid once the engine has been active.
	rotation     geometry.Rotation
	preview      geometry.Size
	sensor       int
	sensorKnown  bool
	surface      geometry.Size
	transform    geometry.Matrix
	engineHandle int64

	handle *bridge.Surface
	nextID uint64

	observers   []func(Transition)
	pending     []Transition
	dispatching bool
}

// NewController returns a controller in the Uninitialized state.
func NewController(engine bridge.Engine, d display.Display) *Controller {
	return &Controller{
		engine:    engine,
		display:   d,
		state:     Uninitialized,
		transform: geometry.Identity(),
	}
}

// Observe registers fn to be called after every state change. fn runs
// outside the controller lock and may query or drive it. Transitions reach
// observers one at a time, in the order they happened.
func (c *Controller) Observe(fn func(Transition)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnSurfaceAvailable handles the host reporting a new drawable surface of
// width x height. It binds the camera engine to it; on failure the
// controller stays in SurfaceAvailable and the error is returned.
func (c *Controller) OnSurfaceAvailable(host HostSurface, width, height int) error {
	c.mu.Lock()
	defer c.dispatch()
	defer c.mu.Unlock()

	debug.Live("Host: surface available (%dx%d)", width, height)

	if c.state == SurfaceAvailable || c.state == CameraEngineActive {
		return fmt.Errorf("%w: state %v", ErrSurfaceBusy, c.state)
	}
	if host == nil {
		return errors.New("nil host surface")
	}
	texture := geometry.Size{Width: width, Height: height}
	if !texture.Valid() {
		return fmt.Errorf("%w: texture %v", geometry.ErrInvalidDimensions, texture)
	}

	c.host = host
	c.texture = texture
	c.setState(SurfaceAvailable)
	return c.activate()
}

// Activate retries binding the engine after a failed OnSurfaceAvailable.
func (c *Controller) Activate() error {
	c.mu.Lock()
	defer c.dispatch()
	defer c.mu.Unlock()

	if c.state != SurfaceAvailable {
		return fmt.Errorf("%w: cannot activate from %v", ErrNoSurface, c.state)
	}
	return c.activate()
}

// activate runs SurfaceAvailable -> CameraEngineActive. Nothing is
// committed to the controller until every step succeeded.
func (c *Controller) activate() error {
	debug.Section("Activating camera engine")

	rotation, err := c.display.Rotation()
	if err != nil {
		return fmt.Errorf("query display rotation: %w", err)
	}
	phys := c.display.PhysicalSize()

	debug.Step(1, "Creating camera engine")
	engineHandle, err := c.engine.CreateCamera(phys.Width, phys.Height, rotation.Degrees())
	if err != nil {
		if !errors.Is(err, bridge.ErrEngineCreationFailed) {
			err = fmt.Errorf("%w: %v", bridge.ErrEngineCreationFailed, err)
		}
		debug.Error(err)
		return err
	}
	if engineHandle == 0 {
		err := fmt.Errorf("%w: null engine handle", bridge.ErrEngineCreationFailed)
		debug.Error(err)
		return err
	}

	debug.Step(2, "Querying preview size and sensor orientation")
	preview := geometry.Size{
		Width:  c.engine.CompatiblePreviewWidth(),
		Height: c.engine.CompatiblePreviewHeight(),
	}
	sensor := c.engine.SensorOrientation()
	debug.Value("Preview", preview)
	debug.Value("Sensor orientation", sensor)

	debug.Step(3, "Sizing surface")
	surface, err := geometry.PreviewSize(c.texture, preview, rotation)
	if err != nil {
		return fmt.Errorf("size surface: %w", err)
	}
	transform, err := geometry.OrientationTransform(rotation, surface.Width, surface.Height)
	if err != nil {
		return fmt.Errorf("compute transform: %w", err)
	}
	debug.Value("Surface", surface)
	debug.Matrix("Transform", transform)

	debug.Step(4, "Applying layout, buffer size and transform")
	if err := c.host.SetLayout(surface.Width, surface.Height); err != nil {
		return fmt.Errorf("set surface layout: %w", err)
	}
	if err := c.host.SetTransform(transform); err != nil {
		return fmt.Errorf("set surface transform: %w", err)
	}
	if err := c.host.SetDefaultBufferSize(preview.Width, preview.Height); err != nil {
		return fmt.Errorf("set buffer size: %w", err)
	}

	debug.Step(5, "Handing surface to camera engine")
	handle := &bridge.Surface{
		ID:     c.nextID + 1,
		Window: c.host.NativeWindow(),
		Width:  preview.Width,
		Height: preview.Height,
	}
	if err := c.engine.NotifySurfaceCreated(handle); err != nil {
		return fmt.Errorf("notify surface created: %w", err)
	}

	c.nextID = handle.ID
	c.handle = handle
	c.engineHandle = engineHandle
	c.rotation = rotation
	c.preview = preview
	c.sensor = sensor
	c.sensorKnown = true
	c.surface = surface
	c.transform = transform
	c.setState(CameraEngineActive)

	debug.Info("Camera engine active: %v, surface %v, texture rotation %d°",
		handle, surface, geometry.TextureRotationAngle(rotation, sensor))
	return nil
}

// OnSurfaceSizeChanged handles the host resizing the surface. The size is
// accepted but no re-sizing is done mid-session.
func (c *Controller) OnSurfaceSizeChanged(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != SurfaceAvailable && c.state != CameraEngineActive {
		return fmt.Errorf("%w: size change in %v", ErrNoSurface, c.state)
	}
	debug.Live("Host: surface size changed to %dx%d (ignored)", width, height)
	return nil
}

// OnSurfaceDestroyed handles the host destroying the surface. When the
// engine holds the surface it is notified first; the handle is released
// before returning even if that notification fails.
func (c *Controller) OnSurfaceDestroyed() error {
	c.mu.Lock()
	defer c.dispatch()
	defer c.mu.Unlock()

	debug.Live("Host: surface destroyed")

	switch c.state {
	case CameraEngineActive:
		err := c.engine.NotifySurfaceDestroyed(c.handle)
		c.setState(SurfaceTornDown)
		c.handle = nil
		c.host = nil
		if err != nil {
			debug.Error(err)
			return fmt.Errorf("notify surface destroyed: %w", err)
		}
		return nil
	case SurfaceAvailable:
		// The engine never saw this surface.
		c.host = nil
		c.setState(Uninitialized)
		return nil
	default:
		return fmt.Errorf("%w: destroy in %v", ErrNoSurface, c.state)
	}
}

// TextureRotationAngle returns the rotation aligning the sensor output
// with the current display rotation. It needs the sensor orientation, so
// the engine must have been active at least once.
func (c *Controller) TextureRotationAngle() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sensorKnown {
		return 0, fmt.Errorf("%w: sensor orientation not queried yet", ErrNoSurface)
	}
	r, err := c.display.Rotation()
	if err != nil {
		return 0, fmt.Errorf("query display rotation: %w", err)
	}
	return geometry.TextureRotationAngle(r, c.sensor), nil
}

// Snapshot returns the controller's current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:             c.state,
		Rotation:          c.rotation.Degrees(),
		Texture:           c.texture,
		Preview:           c.preview,
		Surface:           c.surface,
		SensorOrientation: c.sensor,
		Transform:         c.transform,
	}
	if c.sensorKnown {
		s.TextureRotation = geometry.TextureRotationAngle(c.rotation, c.sensor)
	}
	if c.state == CameraEngineActive {
		s.SurfaceID = c.handle.ID
		s.EngineHandle = c.engineHandle
	}
	return s
}

// setState must be called with mu held.
func (c *Controller) setState(to State) {
	t := Transition{From: c.state, To: to}
	if c.handle != nil {
		t.SurfaceID = c.handle.ID
	}
	c.state = to
	debug.Transition(t.From.String(), t.To.String())
	c.pending = append(c.pending, t)
}

// dispatch delivers pending transitions to observers, outside the lock.
// Only one goroutine delivers at a time and it drains the queue in order;
// a concurrent or re-entrant caller leaves its transitions to it.
func (c *Controller) dispatch() {
	c.mu.Lock()
	if c.dispatching {
		c.mu.Unlock()
		return
	}
	c.dispatching = true
	for len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil
		observers := c.observers
		c.mu.Unlock()

		for _, t := range pending {
			for _, fn := range observers {
				fn(t)
			}
		}
		c.mu.Lock()
	}
	c.dispatching = false
	c.mu.Unlock()
}
