package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineCreationFailed is returned when the native engine cannot be
	// created or hands back a zero handle.
	ErrEngineCreationFailed = errors.New("camera engine creation failed")
	// ErrNotLoaded is returned when a native call is attempted before Load.
	ErrNotLoaded = errors.New("native camera library not loaded")
	// ErrAlreadyLoaded is returned when Load is called again with a
	// different library path.
	ErrAlreadyLoaded = errors.New("native camera library already loaded")
	// ErrNoEngine is returned when a query or notify is made before a
	// camera engine was created.
	ErrNoEngine = errors.New("camera engine not created")
)

// Engine is the native camera engine as seen from the preview controller.
// It owns the camera device, reports its compatible preview size and
// sensor orientation, and consumes the drawing surface while it is lent.
//
// All calls are synchronous.
type Engine interface {
	// CreateCamera creates the camera engine. width and height are the
	// physical display mode dimensions; rotationDegrees is the current
	// display rotation (0, 90, 180 or 270).
	CreateCamera(width, height, rotationDegrees int) (int64, error)

	CompatiblePreviewWidth() int
	CompatiblePreviewHeight() int
	SensorOrientation() int

	// NotifySurfaceCreated lends s to the engine.
	NotifySurfaceCreated(s *Surface) error
	// NotifySurfaceDestroyed revokes s; the engine must stop drawing into
	// it before returning.
	NotifySurfaceDestroyed(s *Surface) error
}

// Surface is the handle lent to the engine between the "surface created"
// and "surface destroyed" notifications.
type Surface struct {
	ID     uint64 // unique per hand-off
	Window uintptr
	Width  int // default buffer width (compatible preview width)
	Height int // default buffer height (compatible preview height)
}

func (s *Surface) String() string {
	if s == nil {
		return "surface(nil)"
	}
	return fmt.Sprintf("surface#%d(%dx%d window=%#x)", s.ID, s.Width, s.Height, s.Window)
}
