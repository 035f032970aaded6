package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidRotation is returned when a rotation is not one of the four
// display rotations.
var ErrInvalidRotation = errors.New("invalid display rotation")

// Rotation is the display rotation relative to its natural orientation.
// Values follow the host window system encoding (0..3 quarter turns).
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// RotationFromDegrees converts 0, 90, 180 or 270 to a Rotation.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotation0, nil
	case 90:
		return Rotation90, nil
	case 180:
		return Rotation180, nil
	case 270:
		return Rotation270, nil
	default:
		return Rotation0, fmt.Errorf("%w: %d degrees", ErrInvalidRotation, deg)
	}
}

// Valid reports whether r is one of the four display rotations.
func (r Rotation) Valid() bool {
	return r >= Rotation0 && r <= Rotation270
}

// Degrees returns the rotation in degrees (0, 90, 180 or 270).
func (r Rotation) Degrees() int {
	switch r {
	case Rotation90:
		return 90
	case Rotation180:
		return 180
	case Rotation270:
		return 270
	default:
		return 0
	}
}

// Landscape reports whether the display is turned a quarter from its
// natural orientation (90 or 270).
func (r Rotation) Landscape() bool {
	return r.Degrees()%180 == 90
}

func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
	return fmt.Sprintf("%d°", r.Degrees())
}

// TextureRotationAngle returns the rotation, in degrees, that aligns the
// sensor output with the display:
// (360 - ((sensorOrientation + rotation) mod 360)) mod 360
//
// The result is always in [0, 360), including for sensor orientations
// outside that range.
func TextureRotationAngle(r Rotation, sensorOrientation int) int {
	result := mod360(sensorOrientation + r.Degrees())
	return mod360(360 - result)
}

func mod360(v int) int {
	v %= 360
	if v < 0 {
		v += 360
	}
	return v
}
