// Package layout sizes the video widget inside the host layout and places the
// scaled image inside the bounds it is painted into.
package layout

import "fmt"

// Size is a width/height pair in logical pixels.
type Size struct {
	Width, Height float64
}

// Empty reports whether either side is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Point is a position in logical pixels.
type Point struct {
	X, Y float64
}

// Vector is a per-axis factor.
type Vector struct {
	X, Y float64
}

// Rect is an axis aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect builds a rectangle from a position and a size.
func NewRect(at Point, size Size) Rect {
	return Rect{X: at.X, Y: at.Y, Width: size.Width, Height: size.Height}
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
