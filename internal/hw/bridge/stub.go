package bridge

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/PreviewGo/internal/debug"
)

// StubEngine is an in-process engine reporting a fixed preview size and
// sensor orientation. Used for development without the native library,
// and by the web host simulator.
type StubEngine struct {
	PreviewWidth  int
	PreviewHeight int
	Orientation   int
	FailCreate    bool // CreateCamera returns ErrEngineCreationFailed

	mu      sync.Mutex
	next    int64
	handle  int64
	current *Surface
}

// NewStubEngine returns a stub reporting the given preview size and
// sensor orientation.
func NewStubEngine(previewWidth, previewHeight, sensorOrientation int) *StubEngine {
	return &StubEngine{
		PreviewWidth:  previewWidth,
		PreviewHeight: previewHeight,
		Orientation:   sensorOrientation,
	}
}

func (s *StubEngine) CreateCamera(width, height, rotationDegrees int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	debug.Trace("stub: CreateCamera(%d, %d, %d)", width, height, rotationDegrees)
	if s.FailCreate {
		return 0, fmt.Errorf("%w: stub configured to fail", ErrEngineCreationFailed)
	}
	s.next++
	s.handle = s.next
	return s.handle, nil
}

func (s *StubEngine) CompatiblePreviewWidth() int  { return s.PreviewWidth }
func (s *StubEngine) CompatiblePreviewHeight() int { return s.PreviewHeight }
func (s *StubEngine) SensorOrientation() int       { return s.Orientation }

func (s *StubEngine) NotifySurfaceCreated(surf *Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == 0 {
		return ErrNoEngine
	}
	if s.current != nil {
		return fmt.Errorf("stub: %v already lent, got %v", s.current, surf)
	}
	debug.Trace("stub: surface created %v", surf)
	s.current = surf
	return nil
}

func (s *StubEngine) NotifySurfaceDestroyed(surf *Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != surf.ID {
		return fmt.Errorf("stub: %v was not lent", surf)
	}
	debug.Trace("stub: surface destroyed %v", surf)
	s.current = nil
	return nil
}

// Current returns the surface currently lent to the stub, if any.
func (s *StubEngine) Current() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
