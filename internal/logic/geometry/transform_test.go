package geometry

import (
	"errors"
	"testing"
)

func corners(w, h float64) [4]Point {
	return [4]Point{{0, 0}, {w, 0}, {0, h}, {w, h}}
}

func TestOrientationTransform_Rotation0IsIdentity(t *testing.T) {
	m, err := OrientationTransform(Rotation0, 1080, 1440)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsIdentity() {
		t.Errorf("matrix = %v, want identity", m)
	}
	p := Point{123, 456}
	if got := m.TransformPoint(p); got != p {
		t.Errorf("TransformPoint(%v) = %v", p, got)
	}
}

func TestOrientationTransform_Rotation180(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"portrait", 1080, 1440},
		{"landscape", 1920, 1080},
		{"odd", 641, 479},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := OrientationTransform(Rotation180, tc.w, tc.h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			w, h := float64(tc.w), float64(tc.h)
			center := Point{w / 2, h / 2}
			if got := m.TransformPoint(center); !pointsEqual(got, center) {
				t.Errorf("center maps to %v, want %v", got, center)
			}
			c := corners(w, h)
			// TL<->BR, TR<->BL
			opposite := [4]int{3, 2, 1, 0}
			for i, p := range c {
				if got := m.TransformPoint(p); !pointsEqual(got, c[opposite[i]]) {
					t.Errorf("corner %v maps to %v, want %v", p, got, c[opposite[i]])
				}
			}
		})
	}
}

func TestOrientationTransform_QuarterTurns(t *testing.T) {
	cases := []struct {
		name string
		r    Rotation
		w, h int
		want func(w, h float64) [4]Point
	}{
		{"rot90", Rotation90, 1080, 810, func(w, h float64) [4]Point {
			return [4]Point{{0, h}, {0, 0}, {w, h}, {w, 0}}
		}},
		{"rot270", Rotation270, 1080, 810, func(w, h float64) [4]Point {
			return [4]Point{{w, 0}, {w, h}, {0, 0}, {0, h}}
		}},
		{"rot90_square", Rotation90, 500, 500, func(w, h float64) [4]Point {
			return [4]Point{{0, h}, {0, 0}, {w, h}, {w, 0}}
		}},
		{"rot270_tall", Rotation270, 480, 1920, func(w, h float64) [4]Point {
			return [4]Point{{w, 0}, {w, h}, {0, 0}, {0, h}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := OrientationTransform(tc.r, tc.w, tc.h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			w, h := float64(tc.w), float64(tc.h)
			src := corners(w, h)
			dst := tc.want(w, h)
			for i := range src {
				if got := m.TransformPoint(src[i]); !pointsEqual(got, dst[i]) {
					t.Errorf("corner %d: %v maps to %v, want %v", i, src[i], got, dst[i])
				}
			}
		})
	}
}

func TestOrientationTransform_Rotation90Matrix(t *testing.T) {
	// 1080x810: h/w = 0.75 and w/h = 4/3, translation (0, h).
	m, err := OrientationTransform(Rotation90, 1080, 810)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m[0] != 0 || m[3] != 0 {
		t.Errorf("expected no scale on the diagonal, got %v", m)
	}
	if m[1] != -0.75 {
		t.Errorf("b = %v, want -0.75", m[1])
	}
	if m[4] != 0 || m[5] != 810 {
		t.Errorf("translation = (%v,%v), want (0,810)", m[4], m[5])
	}
}

func TestOrientationTransform_Idempotent(t *testing.T) {
	for _, r := range []Rotation{Rotation0, Rotation90, Rotation180, Rotation270} {
		a, err := OrientationTransform(r, 1337, 911)
		if err != nil {
			t.Fatalf("%v: %v", r, err)
		}
		b, _ := OrientationTransform(r, 1337, 911)
		if a != b {
			t.Errorf("%v: matrices differ: %v vs %v", r, a, b)
		}
	}
}

func TestOrientationTransform_InvalidDimensions(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"zero_width", 0, 100},
		{"zero_height", 100, 0},
		{"negative_width", -1, 100},
		{"negative_height", 100, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, r := range []Rotation{Rotation0, Rotation90, Rotation180, Rotation270} {
				if _, err := OrientationTransform(r, tc.w, tc.h); !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("%v: error = %v, want ErrInvalidDimensions", r, err)
				}
			}
		})
	}
}

func TestOrientationTransform_InvalidRotation(t *testing.T) {
	if _, err := OrientationTransform(Rotation(7), 100, 100); !errors.Is(err, ErrInvalidRotation) {
		t.Errorf("error = %v, want ErrInvalidRotation", err)
	}
}
