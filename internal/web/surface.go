package web

import (
	"sync"
	"sync/atomic"

	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
)

var nextWindow atomic.Uintptr

// VirtualSurface is the host surface simulated by the web server. It
// records what the controller applied so clients can inspect it.
type VirtualSurface struct {
	mu        sync.Mutex
	window    uintptr
	layout    geometry.Size
	buffer    geometry.Size
	transform geometry.Matrix
}

// SurfaceView is the JSON form of a VirtualSurface.
type SurfaceView struct {
	Window    uintptr         `json:"window"`
	Layout    geometry.Size   `json:"layout"`
	Buffer    geometry.Size   `json:"buffer"`
	Transform geometry.Matrix `json:"transform"`
}

// NewVirtualSurface returns a surface with a fresh fake window pointer.
func NewVirtualSurface() *VirtualSurface {
	return &VirtualSurface{
		window:    nextWindow.Add(1),
		transform: geometry.Identity(),
	}
}

func (s *VirtualSurface) SetLayout(width, height int) error {
	s.mu.Lock()
	s.layout = geometry.Size{Width: width, Height: height}
	s.mu.Unlock()
	return nil
}

func (s *VirtualSurface) SetDefaultBufferSize(width, height int) error {
	s.mu.Lock()
	s.buffer = geometry.Size{Width: width, Height: height}
	s.mu.Unlock()
	return nil
}

func (s *VirtualSurface) SetTransform(m geometry.Matrix) error {
	s.mu.Lock()
	s.transform = m
	s.mu.Unlock()
	return nil
}

func (s *VirtualSurface) NativeWindow() uintptr {
	return s.window
}

// View returns a copy of the surface state.
func (s *VirtualSurface) View() SurfaceView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SurfaceView{Window: s.window, Layout: s.layout, Buffer: s.buffer, Transform: s.transform}
}
