// Package clip provides convex polygon clipping for area computations.
package clip

import "math"

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Lerp performs linear interpolation between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects returns true if two rectangles overlap or touch.
func (r Rect) Intersects(other Rect) bool {
	return !(other.MinX > r.MaxX || other.MaxX < r.MinX ||
		other.MinY > r.MaxY || other.MaxY < r.MinY)
}

// Polygon is a simple polygon given by its vertices in boundary order.
type Polygon []Point

// SignedArea returns the shoelace area of p, positive for counter-clockwise
// winding.
func (p Polygon) SignedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		sum += p[i].Cross(p[(i+1)%n])
	}
	return sum / 2
}

// Area returns the unsigned area of p.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Bounds returns the bounding box of p. An empty polygon has a zero box.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, q := range p[1:] {
		r.MinX = math.Min(r.MinX, q.X)
		r.MinY = math.Min(r.MinY, q.Y)
		r.MaxX = math.Max(r.MaxX, q.X)
		r.MaxY = math.Max(r.MaxY, q.Y)
	}
	return r
}
