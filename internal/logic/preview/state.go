package preview

import "fmt"

// State is the lifecycle state of a Controller.
type State int

const (
	// Uninitialized: no host surface.
	Uninitialized State = iota
	// SurfaceAvailable: the host offered a surface, no camera engine bound.
	SurfaceAvailable
	// CameraEngineActive: engine created, surface sized, handle lent to the bridge.
	CameraEngineActive
	// SurfaceTornDown: handle revoked and released; a new surface may follow.
	SurfaceTornDown
)

var stateNames = [...]string{
	Uninitialized:      "Uninitialized",
	SurfaceAvailable:   "SurfaceAvailable",
	CameraEngineActive: "CameraEngineActive",
	SurfaceTornDown:    "SurfaceTornDown",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Transition describes one state change.
type Transition struct {
	From      State  `json:"from"`
	To        State  `json:"to"`
	SurfaceID uint64 `json:"surface_id,omitempty"`
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}
