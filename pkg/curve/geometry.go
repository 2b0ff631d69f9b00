// Geometric primitives shared by the curve model and its renderers.

// Package curve implements the correction-curve model for a circular mirror:
// anchors with tangent handles, the mapping between physical and device
// space, the interactive editing state machine and the curve renderers.
package curve

import "math"

// Point represents a 2D coordinate, in either physical or device space
// depending on context.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Trunc returns p with both coordinates truncated toward zero, the way an
// integer device coordinate is taken from a float.
func (p Point) Trunc() Point {
	return Point{math.Trunc(p.X), math.Trunc(p.Y)}
}

// Near reports whether q lies inside the open box of half-size tol around p.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) < tol && math.Abs(p.Y-q.Y) < tol
}

// Rect is an axis-aligned rectangle given by its top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Full width and height
}

// Center returns the centre of r.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}
