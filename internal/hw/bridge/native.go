package bridge

import (
	"fmt"

	"github.com/cjeanneret/PreviewGo/internal/debug"
)

// NativeEngine forwards Engine calls to the library bound by Load.
type NativeEngine struct {
	syms   *symbols
	handle int64
}

// NewNativeEngine returns an engine backed by the loaded native library.
// Load must have succeeded first.
func NewNativeEngine() (*NativeEngine, error) {
	loadMu.Lock()
	syms := native
	loadMu.Unlock()
	if syms == nil {
		return nil, ErrNotLoaded
	}
	return &NativeEngine{syms: syms}, nil
}

func (n *NativeEngine) CreateCamera(width, height, rotationDegrees int) (int64, error) {
	debug.Trace("bridge: camera_engine_create(%d, %d, %d)", width, height, rotationDegrees)
	h := n.syms.create(int32(width), int32(height), int32(rotationDegrees))
	if h == 0 {
		return 0, fmt.Errorf("%w: native returned null handle", ErrEngineCreationFailed)
	}
	n.handle = h
	return h, nil
}

func (n *NativeEngine) CompatiblePreviewWidth() int {
	return int(n.syms.compatibleWidth())
}

func (n *NativeEngine) CompatiblePreviewHeight() int {
	return int(n.syms.compatibleHeight())
}

func (n *NativeEngine) SensorOrientation() int {
	return int(n.syms.sensorOrientation())
}

func (n *NativeEngine) NotifySurfaceCreated(s *Surface) error {
	if n.handle == 0 {
		return ErrNoEngine
	}
	debug.Trace("bridge: camera_engine_surface_created(%v)", s)
	n.syms.surfaceCreated(s.Window)
	return nil
}

func (n *NativeEngine) NotifySurfaceDestroyed(s *Surface) error {
	if n.handle == 0 {
		return ErrNoEngine
	}
	debug.Trace("bridge: camera_engine_surface_destroyed(%v)", s)
	n.syms.surfaceDestroyed(s.Window)
	return nil
}
