package modeled

import (
	"fmt"
	"math"
)

// FlowControl is returned by a visitor to continue or stop a traversal.
type FlowControl int

const (
	// Continue asks for the next triangle.
	Continue FlowControl = iota
	// Break stops the traversal after the current triangle.
	Break
)

// Query is a region that a Shape can be tested against: a Point, Segment,
// Triangle, Rect, Quad or another Shape.
type Query interface {
	isQuery()
}

func (Point) isQuery()    {}
func (Segment) isQuery()  {}
func (Triangle) isQuery() {}
func (Rect) isQuery()     {}
func (Quad) isQuery()     {}
func (Shape) isQuery()    {}

// queryTransform returns the single optional transform passed to a query
// method, or the identity.
func queryTransform(queryToShape []Matrix) Matrix {
	switch len(queryToShape) {
	case 0:
		return Identity()
	case 1:
		return queryToShape[0]
	default:
		panic(fmt.Sprintf("modeled: at most one query transform allowed, got %d", len(queryToShape)))
	}
}

// primitiveHull returns the convex hull of a primitive query.
func primitiveHull(q Query) (convex, bool) {
	switch q := q.(type) {
	case Point:
		return q.convexHull(), true
	case Segment:
		return q.convexHull(), true
	case Triangle:
		return q.convexHull(), true
	case Rect:
		return q.convexHull(), true
	case Quad:
		return q.convexHull(), true
	}
	return convex{}, false
}

// VisitIntersectedTriangles calls visit with every triangle of s that
// intersects q, until visit returns Break. The order of visits is
// unspecified.
//
// The optional queryToShape maps q into the coordinate space of s; it
// defaults to the identity. A singular transform collapses q to its image,
// a segment or a point, which is then tested exactly. Boundaries are
// closed: touching counts as intersecting.
//
// visit may issue further queries against s or any other shape.
func (s Shape) VisitIntersectedTriangles(q Query, visit func(TriangleIndexPair) FlowControl, queryToShape ...Matrix) {
	d := s.data
	s.visit(q, queryTransform(queryToShape), func(id int) bool {
		return visit(d.pair(id)) == Continue
	})
}

// IntersectedTriangles returns every triangle of s that intersects q, in
// unspecified order.
func (s Shape) IntersectedTriangles(q Query, queryToShape ...Matrix) []TriangleIndexPair {
	var out []TriangleIndexPair
	s.VisitIntersectedTriangles(q, func(p TriangleIndexPair) FlowControl {
		out = append(out, p)
		return Continue
	}, queryToShape...)
	return out
}

// Intersects reports whether any triangle of s intersects q.
func (s Shape) Intersects(q Query, queryToShape ...Matrix) bool {
	found := false
	s.VisitIntersectedTriangles(q, func(TriangleIndexPair) FlowControl {
		found = true
		return Break
	}, queryToShape...)
	return found
}

// visit calls fn with the flat id of every triangle of s whose triangle
// intersects the image of q under m, until fn returns false. Each triangle
// is reported at most once.
func (s Shape) visit(q Query, m Matrix, fn func(id int) bool) {
	if other, ok := q.(Shape); ok {
		s.data.visitShape(other.data, m, fn)
		return
	}
	hull, ok := primitiveHull(q)
	if !ok {
		panic(fmt.Sprintf("modeled: unsupported query type %T", q))
	}
	s.data.visitConvex(hull.transformed(m), fn)
}

// visitConvex reports the triangles of d that intersect c.
func (d *shapeData) visitConvex(c convex, fn func(id int) bool) {
	idx := d.spatialIndex()
	if idx == nil {
		return
	}
	idx.Search(boxOf(c.bounds()), func(id int) bool {
		if !intersectConvex(d.triangle(id).convexHull(), c) {
			return true
		}
		return fn(id)
	})
}

// visitShape reports the triangles of d that intersect the image of some
// triangle of q under m. Triangles of q drive the outer loop, and a bitset
// keeps each triangle of d from being reported twice.
func (d *shapeData) visitShape(q *shapeData, m Matrix, fn func(id int) bool) {
	idx := d.spatialIndex()
	qidx := q.spatialIndex()
	if idx == nil || qidx == nil {
		return
	}

	seen := make([]uint64, (d.triangleCount()+63)/64)
	stopped := false
	visitQueryTriangle := func(qid int) bool {
		qt := q.triangle(qid).convexHull().transformed(m)
		idx.Search(boxOf(qt.bounds()), func(id int) bool {
			word, bit := id/64, uint64(1)<<(id%64)
			if seen[word]&bit != 0 {
				return true
			}
			if !intersectConvex(d.triangle(id).convexHull(), qt) {
				return true
			}
			seen[word] |= bit
			if !fn(id) {
				stopped = true
				return false
			}
			return true
		})
		return !stopped
	}

	d.forEachQueryTriangle(q, m, visitQueryTriangle)
}

// forEachQueryTriangle calls fn with the id of every triangle of q whose
// image under m may reach the bounds of d, until fn returns false. When m is
// singular every triangle of q is a candidate.
func (d *shapeData) forEachQueryTriangle(q *shapeData, m Matrix, fn func(qid int) bool) {
	inv, ok := m.Inverse()
	if !ok {
		for qid := range q.triangleCount() {
			if !fn(qid) {
				return
			}
		}
		return
	}
	pre := d.bounds.AsRect().convexHull().transformed(inv)
	q.spatialIndex().Search(boxOf(padRect(pre.bounds())), fn)
}

// padRect grows r by a small relative margin so that rounding in an
// inverse transform cannot drop a touching candidate.
func padRect(r Rect) Rect {
	scale := math.Max(math.Max(math.Abs(r.Min.X), math.Abs(r.Max.X)), math.Max(math.Abs(r.Min.Y), math.Abs(r.Max.Y)))
	pad := 1e-9 * (scale + 1)
	return Rect{
		Min: Pt(r.Min.X-pad, r.Min.Y-pad),
		Max: Pt(r.Max.X+pad, r.Max.Y+pad),
	}
}
