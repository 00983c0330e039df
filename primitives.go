package modeled

import "math"

// Segment is the closed line segment between two points.
type Segment struct {
	From, To Point
}

// Vector returns To - From.
func (s Segment) Vector() Point {
	return s.To.Sub(s.From)
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.From.Distance(s.To)
}

// Lerp returns the point at parameter t along the segment.
func (s Segment) Lerp(t float64) Point {
	return s.From.Lerp(s.To, t)
}

// Triangle is the closed region bounded by three points. Its vertices may be
// in either winding order and may be collinear.
type Triangle struct {
	P0, P1, P2 Point
}

// SignedArea returns the area of the triangle, positive when its vertices
// wind counter-clockwise and negative when they wind clockwise.
func (t Triangle) SignedArea() float64 {
	return 0.5 * t.P1.Sub(t.P0).Cross(t.P2.Sub(t.P0))
}

// Area returns the unsigned area of the triangle.
func (t Triangle) Area() float64 {
	return math.Abs(t.SignedArea())
}

// Contains reports whether p lies inside or on the boundary of t.
func (t Triangle) Contains(p Point) bool {
	return Intersects(p, t)
}

// Edge returns edge i (0, 1 or 2), starting at the i-th vertex.
func (t Triangle) Edge(i int) Segment {
	switch i {
	case 0:
		return Segment{From: t.P0, To: t.P1}
	case 1:
		return Segment{From: t.P1, To: t.P2}
	case 2:
		return Segment{From: t.P2, To: t.P0}
	}
	panic("modeled: triangle edge index out of range")
}

// Bounds returns the smallest rect containing the triangle.
func (t Triangle) Bounds() Rect {
	var e Envelope
	e.Add(t.P0)
	e.Add(t.P1)
	e.Add(t.P2)
	return e.AsRect()
}

// Rect is a closed axis-aligned rectangle. Min is never greater than Max in
// either dimension when built through the constructors.
type Rect struct {
	Min, Max Point
}

// RectFromTwoPoints returns the smallest rect containing both points.
func RectFromTwoPoints(a, b Point) Rect {
	return Rect{
		Min: Pt(math.Min(a.X, b.X), math.Min(a.Y, b.Y)),
		Max: Pt(math.Max(a.X, b.X), math.Max(a.Y, b.Y)),
	}
}

// RectFromCenterAndDimensions returns the rect centered on center with the
// given width and height. Negative dimensions are treated as their absolute
// values.
func RectFromCenterAndDimensions(center Point, width, height float64) Rect {
	hw, hh := math.Abs(width)/2, math.Abs(height)/2
	return Rect{
		Min: Pt(center.X-hw, center.Y-hh),
		Max: Pt(center.X+hw, center.Y+hh),
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Area returns the area of r.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return r.Min.Lerp(r.Max, 0.5) }

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners returns the corners of r in counter-clockwise order, starting at
// Min.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		r.Min,
		Pt(r.Max.X, r.Min.Y),
		r.Max,
		Pt(r.Min.X, r.Max.Y),
	}
}

// Quad is a parallelogram described as a rect of the given width and height
// that has been sheared horizontally by ShearFactor and then rotated by
// Rotation radians counter-clockwise about its center.
type Quad struct {
	Center      Point
	Width       float64
	Height      float64
	Rotation    float64
	ShearFactor float64
}

// QuadFromCenterAndDimensions returns an axis-aligned quad.
func QuadFromCenterAndDimensions(center Point, width, height float64) Quad {
	return Quad{Center: center, Width: width, Height: height}
}

// QuadFromCenterDimensionsAndRotation returns a rotated rectangular quad.
func QuadFromCenterDimensionsAndRotation(center Point, width, height, rotation float64) Quad {
	return Quad{Center: center, Width: width, Height: height, Rotation: rotation}
}

// QuadFromCenterDimensionsRotationAndShear returns a fully specified quad.
func QuadFromCenterDimensionsRotationAndShear(center Point, width, height, rotation, shear float64) Quad {
	return Quad{Center: center, Width: width, Height: height, Rotation: rotation, ShearFactor: shear}
}

// QuadFromRect returns the quad covering exactly r.
func QuadFromRect(r Rect) Quad {
	return Quad{Center: r.Center(), Width: r.Width(), Height: r.Height()}
}

// SemiAxes returns the vectors from the center to the midpoints of the
// quad's right and top edges.
func (q Quad) SemiAxes() (u, v Point) {
	rot := Rotate(q.Rotation)
	u = rot.TransformVector(Pt(q.Width/2, 0))
	v = rot.TransformVector(Pt(q.ShearFactor*q.Height/2, q.Height/2))
	return u, v
}

// Corners returns the four corners of q. For non-negative width and height
// they wind counter-clockwise.
func (q Quad) Corners() [4]Point {
	u, v := q.SemiAxes()
	c := q.Center
	return [4]Point{
		c.Sub(u).Sub(v),
		c.Add(u).Sub(v),
		c.Add(u).Add(v),
		c.Sub(u).Add(v),
	}
}

// SignedArea returns the area of q, negative when exactly one of width and
// height is negative.
func (q Quad) SignedArea() float64 {
	return q.Width * q.Height
}

// Envelope is an axis-aligned bounding box that may be empty.
// The zero value is empty.
type Envelope struct {
	rect     Rect
	nonEmpty bool
}

// Add grows the envelope to contain p.
func (e *Envelope) Add(p Point) {
	if !e.nonEmpty {
		e.rect = Rect{Min: p, Max: p}
		e.nonEmpty = true
		return
	}
	e.rect.Min.X = math.Min(e.rect.Min.X, p.X)
	e.rect.Min.Y = math.Min(e.rect.Min.Y, p.Y)
	e.rect.Max.X = math.Max(e.rect.Max.X, p.X)
	e.rect.Max.Y = math.Max(e.rect.Max.Y, p.Y)
}

// AddEnvelope grows the envelope to contain other.
func (e *Envelope) AddEnvelope(other Envelope) {
	if !other.nonEmpty {
		return
	}
	e.Add(other.rect.Min)
	e.Add(other.rect.Max)
}

// IsEmpty reports whether nothing has been added to the envelope.
func (e Envelope) IsEmpty() bool {
	return !e.nonEmpty
}

// AsRect returns the bounding rect. The result is the zero Rect when the
// envelope is empty; check IsEmpty first.
func (e Envelope) AsRect() Rect {
	return e.rect
}
