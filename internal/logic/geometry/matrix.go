package geometry

import (
	"errors"
	"math"
)

// ErrNotAffine is returned when a four-point mapping cannot be expressed
// as a 2D affine transform.
var ErrNotAffine = errors.New("point mapping is not affine")

// Point is a 2D point in surface drawing coordinates.
type Point struct {
	X, Y float64
}

// Matrix is a 2x3 affine transform [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// x' = a*x + c*y + e, y' = b*x + d*y + f
type Matrix [6]float64

// affineTolerance bounds the error accepted when checking the fourth
// point of a PolyToPoly solve.
const affineTolerance = 1e-6

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Rotate returns a rotation matrix about the origin (angle in degrees).
// Quarter turns are built from exact values so that 90/180/270 rotations
// carry no sin/cos rounding noise.
func Rotate(degrees float64) Matrix {
	var sin, cos float64
	switch math.Mod(math.Mod(degrees, 360)+360, 360) {
	case 0:
		sin, cos = 0, 1
	case 90:
		sin, cos = 1, 0
	case 180:
		sin, cos = 0, -1
	case 270:
		sin, cos = -1, 0
	default:
		rad := degrees * math.Pi / 180.0
		sin, cos = math.Sin(rad), math.Cos(rad)
	}
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout returns a rotation of degrees about the pivot (px, py).
func RotateAbout(degrees, px, py float64) Matrix {
	return Translate(px, py).Multiply(Rotate(degrees)).Multiply(Translate(-px, -py))
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to p.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Invert returns the inverse of m. ok is false when m is singular.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// PolyToPoly computes the affine matrix mapping each src point onto the
// matching dst point. Points are ordered top-left, top-right, bottom-left,
// bottom-right. The matrix is solved from the first three pairs; the fourth
// pair must agree or ErrNotAffine is returned.
func PolyToPoly(src, dst [4]Point) (Matrix, error) {
	// Edge vectors from the first corner.
	ux, uy := src[1].X-src[0].X, src[1].Y-src[0].Y
	vx, vy := src[2].X-src[0].X, src[2].Y-src[0].Y
	det := ux*vy - vx*uy
	if det == 0 {
		return Matrix{}, ErrNotAffine
	}

	dux, duy := dst[1].X-dst[0].X, dst[1].Y-dst[0].Y
	dvx, dvy := dst[2].X-dst[0].X, dst[2].Y-dst[0].Y

	// L = [du dv] * inverse([u v])
	a := (dux*vy - dvx*uy) / det
	c := (dvx*ux - dux*vx) / det
	b := (duy*vy - dvy*uy) / det
	d := (dvy*ux - duy*vx) / det

	m := Matrix{
		a, b, c, d,
		dst[0].X - (a*src[0].X + c*src[0].Y),
		dst[0].Y - (b*src[0].X + d*src[0].Y),
	}

	got := m.TransformPoint(src[3])
	if math.Abs(got.X-dst[3].X) > affineTolerance || math.Abs(got.Y-dst[3].Y) > affineTolerance {
		return Matrix{}, ErrNotAffine
	}
	return m, nil
}
