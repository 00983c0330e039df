package modeled

// Primitive is a closed convex region that can be tested for intersection:
// one of Point, Segment, Triangle, Rect or Quad.
type Primitive interface {
	convexHull() convex
}

// convex is a closed convex polygon with at most four vertices, listed in
// boundary order. Fewer than three distinct vertices, or collinear vertices,
// describe a point or a segment, which is how the image of a region under a
// singular transform is represented exactly.
type convex struct {
	pts [4]Point
	n   int
}

func (p Point) convexHull() convex { return convex{pts: [4]Point{p}, n: 1} }

func (s Segment) convexHull() convex { return convex{pts: [4]Point{s.From, s.To}, n: 2} }

func (t Triangle) convexHull() convex { return convex{pts: [4]Point{t.P0, t.P1, t.P2}, n: 3} }

func (r Rect) convexHull() convex { return convex{pts: r.Corners(), n: 4} }

func (q Quad) convexHull() convex { return convex{pts: q.Corners(), n: 4} }

// transformed returns the image of c under m.
func (c convex) transformed(m Matrix) convex {
	if m.IsIdentity() {
		return c
	}
	out := convex{n: c.n}
	for i := 0; i < c.n; i++ {
		out.pts[i] = m.TransformPoint(c.pts[i])
	}
	return out
}

// bounds returns the axis-aligned bounding rect of c.
func (c convex) bounds() Rect {
	var e Envelope
	for i := 0; i < c.n; i++ {
		e.Add(c.pts[i])
	}
	return e.AsRect()
}

// project returns the extent of c along axis.
func (c convex) project(axis Point) (lo, hi float64) {
	lo = c.pts[0].Dot(axis)
	hi = lo
	for i := 1; i < c.n; i++ {
		d := c.pts[i].Dot(axis)
		if d < lo {
			lo = d
		} else if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// separatedBy reports whether a and b project to disjoint intervals on axis.
func separatedBy(a, b convex, axis Point) bool {
	alo, ahi := a.project(axis)
	blo, bhi := b.project(axis)
	return ahi < blo || bhi < alo
}

// separatedByEdgesOf tests every edge direction of c and its normal. Testing
// the direction as well as the normal is what makes the test exact when
// both operands are degenerate and collinear.
func separatedByEdgesOf(c, a, b convex) bool {
	if c.n < 2 {
		return false
	}
	for i := 0; i < c.n; i++ {
		// Two-point hulls would test the same edge twice.
		if c.n == 2 && i == 1 {
			break
		}
		e := c.pts[(i+1)%c.n].Sub(c.pts[i])
		if e.X == 0 && e.Y == 0 {
			continue
		}
		if separatedBy(a, b, e.Perp()) || separatedBy(a, b, e) {
			return true
		}
	}
	return false
}

// intersectConvex is a separating axis test over closed sets, so touching
// boundaries count as intersecting.
func intersectConvex(a, b convex) bool {
	if separatedByEdgesOf(a, a, b) || separatedByEdgesOf(b, a, b) {
		return false
	}
	// Needed when both sets are single points.
	if d := b.pts[0].Sub(a.pts[0]); d.X != 0 || d.Y != 0 {
		if separatedBy(a, b, d) {
			return false
		}
	}
	return true
}

// Intersects reports whether two primitives share at least one point.
// Boundaries are closed, and degenerate triangles, rects and quads are
// treated as the segments or points they collapse to.
func Intersects(a, b Primitive) bool {
	return intersectConvex(a.convexHull(), b.convexHull())
}
