package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when a width or height is zero or negative.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Size is a width x height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// OrientationTransform computes the affine transform applied to a
// width x height surface so the preview appears upright for the given
// display rotation.
//
//   - 90:  corners TL, TR, BL, BR map clockwise onto (0,h) (0,0) (w,h) (w,0)
//   - 270: corners map counter-clockwise onto (w,0) (w,h) (0,0) (0,h)
//   - 180: rotation about the surface centre
//   - 0:   identity
//
// The sensor orientation does not take part in the matrix; it only feeds
// TextureRotationAngle.
func OrientationTransform(r Rotation, width, height int) (Matrix, error) {
	if width <= 0 || height <= 0 {
		return Matrix{}, fmt.Errorf("%w: surface %dx%d", ErrInvalidDimensions, width, height)
	}
	if !r.Valid() {
		return Matrix{}, fmt.Errorf("%w: %d", ErrInvalidRotation, int(r))
	}

	w, h := float64(width), float64(height)
	switch r {
	case Rotation90, Rotation270:
		src := [4]Point{
			{0, 0}, // top left
			{w, 0}, // top right
			{0, h}, // bottom left
			{w, h}, // bottom right
		}
		var dst [4]Point
		if r == Rotation90 {
			// Clockwise
			dst = [4]Point{{0, h}, {0, 0}, {w, h}, {w, 0}}
		} else {
			// Counter-clockwise
			dst = [4]Point{{w, 0}, {w, h}, {0, 0}, {0, h}}
		}
		m, err := PolyToPoly(src, dst)
		if err != nil {
			return Matrix{}, fmt.Errorf("solve %v transform: %w", r, err)
		}
		return m, nil
	case Rotation180:
		return RotateAbout(180, w/2, h/2), nil
	default:
		return Identity(), nil
	}
}
