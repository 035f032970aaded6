package display

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/PreviewGo/internal/debug"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
)

// Display is the host display the preview is shown on. Its rotation can be
// queried at any time; it changes only when the device is physically turned.
type Display interface {
	Rotation() (geometry.Rotation, error)
	// PhysicalSize returns the display mode's physical width and height.
	PhysicalSize() geometry.Size
}

// RotationSetter is implemented by displays whose rotation can be changed
// from software (development, web simulator).
type RotationSetter interface {
	SetRotation(r geometry.Rotation) error
}

// Fixed is a display with a software-set rotation.
type Fixed struct {
	mu       sync.RWMutex
	size     geometry.Size
	rotation geometry.Rotation
}

// NewFixed returns a display of the given physical size and rotation.
func NewFixed(size geometry.Size, r geometry.Rotation) (*Fixed, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: display %v", geometry.ErrInvalidDimensions, size)
	}
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", geometry.ErrInvalidRotation, int(r))
	}
	return &Fixed{size: size, rotation: r}, nil
}

func (f *Fixed) Rotation() (geometry.Rotation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rotation, nil
}

func (f *Fixed) PhysicalSize() geometry.Size {
	return f.size
}

// SetRotation changes the reported rotation.
func (f *Fixed) SetRotation(r geometry.Rotation) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", geometry.ErrInvalidRotation, int(r))
	}
	f.mu.Lock()
	f.rotation = r
	f.mu.Unlock()
	debug.Live("Display rotation set to %v", r)
	return nil
}
