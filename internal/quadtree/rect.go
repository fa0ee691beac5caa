package quadtree

import "math"

// Rect is a region of the unit square. All coordinates are normalized to [0,1].
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UnitSquare is the boundary of every root node.
var UnitSquare = Rect{X: 0, Y: 0, Width: 1, Height: 1}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Quadrants splits r into four equal quadrants in TopLeft, TopRight,
// BottomLeft, BottomRight order.
func (r Rect) Quadrants() [4]Rect {
	hw := r.Width / 2
	hh := r.Height / 2
	return [4]Rect{
		TopLeft:     {X: r.X, Y: r.Y, Width: hw, Height: hh},
		TopRight:    {X: r.X + hw, Y: r.Y, Width: hw, Height: hh},
		BottomLeft:  {X: r.X, Y: r.Y + hh, Width: hw, Height: hh},
		BottomRight: {X: r.X + hw, Y: r.Y + hh, Width: hw, Height: hh},
	}
}

// Intersect returns the overlap of r and s. The result is the zero Rect
// when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	x0 := math.Max(r.X, s.X)
	y0 := math.Max(r.Y, s.Y)
	x1 := math.Min(r.X+r.Width, s.X+s.Width)
	y1 := math.Min(r.Y+r.Height, s.Y+s.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// approxEqual compares rectangles with an absolute tolerance.
func (r Rect) approxEqual(s Rect, eps float64) bool {
	return math.Abs(r.X-s.X) <= eps &&
		math.Abs(r.Y-s.Y) <= eps &&
		math.Abs(r.Width-s.Width) <= eps &&
		math.Abs(r.Height-s.Height) <= eps
}
