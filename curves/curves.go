// Package curves builds tone-curve lookup tables from user control points
// using a monotone cubic Hermite spline.
package curves

import (
	"fmt"
	"math"
	"slices"
)

var _ = fmt.Print

// Point is a curve control point in 8-bit coordinate space ([0,255] on both
// axes). Points are kept ordered by X; the first and last point are endpoints
// and are never removed.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity returns the two fixed endpoints of an untouched curve.
func Identity() []Point {
	return []Point{{X: 0, Y: 0}, {X: 255, Y: 255}}
}

// Spline is a monotone cubic Hermite interpolant. Tangents are zeroed at
// control points where the adjacent secant slopes have opposite sign, so the
// interpolant never overshoots monotonic data.
type Spline struct {
	xs, ys, ms []float64
}

// NewSpline builds a spline through the given knots. xs must be strictly
// increasing and len(xs) == len(ys) >= 2.
func NewSpline(xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("mismatched knot slices: %d x values for %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("need at least 2 knots, got %d", len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("knot x values not strictly increasing at index %d", i)
		}
	}
	n := len(xs)
	d := make([]float64, n-1)
	for i := range d {
		d[i] = (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	}
	m := make([]float64, n)
	m[0] = d[0]
	m[n-1] = d[n-2]
	for i := 1; i < n-1; i++ {
		if d[i-1]*d[i] <= 0 {
			m[i] = 0
		} else {
			m[i] = (d[i-1] + d[i]) / 2
		}
	}
	// Fritsch-Carlson limiting keeps the interpolant monotone on each
	// interval even for very uneven knot spacing.
	for i := 0; i < n-1; i++ {
		if d[i] == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a := m[i] / d[i]
		b := m[i+1] / d[i]
		if s := a*a + b*b; s > 9 {
			t := 3 / math.Sqrt(s)
			m[i] = t * a * d[i]
			m[i+1] = t * b * d[i]
		}
	}
	return &Spline{xs: slices.Clone(xs), ys: slices.Clone(ys), ms: m}, nil
}

// At evaluates the spline. Values outside [xs[0], xs[n-1]] clamp to the
// nearest endpoint ordinate.
func (s *Spline) At(x float64) float64 {
	n := len(s.xs)
	if x <= s.xs[0] {
		return s.ys[0]
	}
	if x >= s.xs[n-1] {
		return s.ys[n-1]
	}
	// Intervals are few (user control points), a linear scan is fine.
	i := 0
	for i < n-2 && x > s.xs[i+1] {
		i++
	}
	h := s.xs[i+1] - s.xs[i]
	t := (x - s.xs[i]) / h
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	y := h00*s.ys[i] + h10*h*s.ms[i] + h01*s.ys[i+1] + h11*h*s.ms[i+1]
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return s.ys[i]
	}
	return y
}

// LUT samples the curve through points at the 256 integer abscissas, rounding
// into [0,255]. Degenerate input (fewer than 2 points, or unbuildable knots)
// yields the identity table.
func LUT(points []Point) (lut [256]uint8) {
	for i := range lut {
		lut[i] = uint8(i)
	}
	if len(points) < 2 {
		return
	}
	pts := slices.Clone(points)
	slices.SortStableFunc(pts, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	s, err := NewSpline(xs, ys)
	if err != nil {
		return
	}
	for i := range lut {
		y := math.Round(s.At(float64(i)))
		lut[i] = uint8(max(0, min(y, 255)))
	}
	return
}

// IsIdentity reports whether points describe the untouched curve.
func IsIdentity(points []Point) bool {
	return len(points) == 2 &&
		points[0].X == 0 && points[0].Y == 0 &&
		points[1].X == 255 && points[1].Y == 255
}

// InsertPoint returns a new slice with p added, kept ordered by X. A point
// whose X coincides with an existing interior point replaces that point's Y;
// attempts to shadow an endpoint X or to insert outside the endpoint span are
// ignored.
func InsertPoint(points []Point, p Point) []Point {
	if len(points) < 2 {
		return slices.Clone(points)
	}
	first, last := points[0], points[len(points)-1]
	if p.X <= first.X || p.X >= last.X {
		return slices.Clone(points)
	}
	ans := slices.Clone(points)
	for i := 1; i < len(ans)-1; i++ {
		if ans[i].X == p.X {
			ans[i].Y = p.Y
			return ans
		}
	}
	idx, _ := slices.BinarySearchFunc(ans, p, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})
	return slices.Insert(ans, idx, p)
}

// RemovePoint returns a new slice with the point at index i removed.
// Endpoints are immutable: requests to remove the first or last point (or an
// out-of-range index) return the input unchanged.
func RemovePoint(points []Point, i int) []Point {
	if i <= 0 || i >= len(points)-1 {
		return slices.Clone(points)
	}
	ans := slices.Clone(points)
	return slices.Delete(ans, i, i+1)
}
