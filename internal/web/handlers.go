package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cjeanneret/PreviewGo/internal/debug"
	"github.com/cjeanneret/PreviewGo/internal/hw/bridge"
	"github.com/cjeanneret/PreviewGo/internal/hw/display"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
	"github.com/cjeanneret/PreviewGo/internal/logic/preview"
)

// Lifecycle is the part of the preview controller driven by the simulated host.
type Lifecycle interface {
	OnSurfaceAvailable(host preview.HostSurface, width, height int) error
	OnSurfaceSizeChanged(width, height int) error
	OnSurfaceDestroyed() error
	Snapshot() preview.Snapshot
}

// SurfaceRequest is the body of POST /surface and PUT /surface.
type SurfaceRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RotationRequest is the body of PUT /rotation.
type RotationRequest struct {
	Degrees int `json:"degrees"`
}

// FormConfig holds default values for the simulator form (from config).
type FormConfig struct {
	SurfaceWidth  int `json:"surface_width"`
	SurfaceHeight int `json:"surface_height"`
	RotationDeg   int `json:"rotation_deg"`
}

// StateResponse combines the controller snapshot with the simulated surface.
type StateResponse struct {
	preview.Snapshot
	Host *SurfaceView `json:"host,omitempty"`
}

// maxSurfaceSide bounds simulated surfaces (8K).
const maxSurfaceSide = 8192

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local simulator, any origin
	},
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *StatusBroadcaster
	Lifecycle    Lifecycle
	Rotation     display.RotationSetter // nil when rotation comes from hardware
	FormDefaults FormConfig
	staticFS     fs.FS

	surfaceMu sync.Mutex
	surface   *VirtualSurface
}

// NewHandlers creates handlers with the given dependencies.
// If rotation is nil, PUT /rotation returns 501 Not Implemented.
func NewHandlers(broadcaster *StatusBroadcaster, lifecycle Lifecycle, rotation display.RotationSetter, formDefaults FormConfig, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster:  broadcaster,
		Lifecycle:    lifecycle,
		Rotation:     rotation,
		FormDefaults: formDefaults,
		staticFS:     staticFS,
	}
}

// ValidateSurfaceRequest checks that both sides are in [1, 8192].
func ValidateSurfaceRequest(req SurfaceRequest) error {
	if req.Width <= 0 || req.Width > maxSurfaceSide {
		return fmt.Errorf("width must be between 1 and %d", maxSurfaceSide)
	}
	if req.Height <= 0 || req.Height > maxSurfaceSide {
		return fmt.Errorf("height must be between 1 and %d", maxSurfaceSide)
	}
	return nil
}

// statusFor maps controller and bridge errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, preview.ErrSurfaceBusy), errors.Is(err, preview.ErrNoSurface):
		return http.StatusConflict
	case errors.Is(err, geometry.ErrInvalidDimensions), errors.Is(err, geometry.ErrInvalidRotation):
		return http.StatusBadRequest
	case errors.Is(err, bridge.ErrEngineCreationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) state() StateResponse {
	resp := StateResponse{Snapshot: h.Lifecycle.Snapshot()}
	h.surfaceMu.Lock()
	if h.surface != nil {
		v := h.surface.View()
		resp.Host = &v
	}
	h.surfaceMu.Unlock()
	return resp
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.FormDefaults)
}

// HandleState returns the controller snapshot and the simulated surface.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleSurfaceAvailable handles POST /surface: the host offers a new surface.
func (h *Handlers) HandleSurfaceAvailable(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateSurfaceRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.surfaceMu.Lock()
	surface := NewVirtualSurface()
	err := h.Lifecycle.OnSurfaceAvailable(surface, req.Width, req.Height)
	if err == nil || (!errors.Is(err, preview.ErrSurfaceBusy) && h.Lifecycle.Snapshot().State == preview.SurfaceAvailable) {
		// Held by the controller even when activation failed. A refused
		// offer leaves the earlier surface in place.
		h.surface = surface
	}
	h.surfaceMu.Unlock()

	if err != nil {
		h.Broadcaster.Broadcast("error", "Surface activation failed: "+err.Error())
		debug.Error(fmt.Errorf("surface activation failed: %w", err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, h.state())
}

// HandleSurfaceResize handles PUT /surface: the host resized the surface.
func (h *Handlers) HandleSurfaceResize(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateSurfaceRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Lifecycle.OnSurfaceSizeChanged(req.Width, req.Height); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusAccepted, h.state())
}

// HandleSurfaceDestroy handles DELETE /surface: the host destroys the surface.
func (h *Handlers) HandleSurfaceDestroy(w http.ResponseWriter, r *http.Request) {
	h.surfaceMu.Lock()
	err := h.Lifecycle.OnSurfaceDestroyed()
	if err == nil || !errors.Is(err, preview.ErrNoSurface) {
		h.surface = nil
	}
	h.surfaceMu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, h.state())
}

// HandleRotation handles PUT /rotation to turn the simulated display.
func (h *Handlers) HandleRotation(w http.ResponseWriter, r *http.Request) {
	if h.Rotation == nil {
		http.Error(w, "display rotation is read from hardware", http.StatusNotImplemented)
		return
	}
	var req RotationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	rot, err := geometry.RotationFromDegrees(req.Degrees)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Rotation.SetRotation(rot); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	h.Broadcaster.BroadcastMsg(fmt.Sprintf("Display rotated to %v", rot))
	writeJSON(w, http.StatusOK, map[string]int{"rotation_deg": rot.Degrees()})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// HandleWebSocket handles GET /ws: the same events as the SSE stream,
// one JSON text message each.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Error(fmt.Errorf("websocket upgrade failed: %w", err))
		return
	}
	defer conn.Close()

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Reader: handles control frames and detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
