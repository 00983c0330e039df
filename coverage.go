package modeled

import (
	"math"

	"github.com/gogpu/modeled/internal/clip"
)

// Coverage returns the fraction of the area of s taken up by triangles that
// intersect q: the summed area of every intersected triangle divided by
// Area. Each triangle counts in full no matter how much of it q overlaps,
// and overlapping triangles each count, so the result measures the shape,
// not the union of its triangles. The result is in [0, 1], and it is 0
// exactly when VisitIntersectedTriangles reports nothing (for shapes
// without zero-area triangles).
//
// queryToShape is interpreted as in VisitIntersectedTriangles.
func (s Shape) Coverage(q Query, queryToShape ...Matrix) float64 {
	total := s.Area()
	var sum float64
	d := s.data
	s.visit(q, queryTransform(queryToShape), func(id int) bool {
		sum += d.triangle(id).Area()
		return true
	})
	return coverageRatio(sum, total)
}

// CoverageIsGreaterThan reports whether Coverage(q, queryToShape...) is
// greater than threshold. It stops visiting triangles as soon as the
// answer is known.
func (s Shape) CoverageIsGreaterThan(q Query, threshold float64, queryToShape ...Matrix) bool {
	total := s.Area()
	var sum float64
	d := s.data
	exceeded := false
	s.visit(q, queryTransform(queryToShape), func(id int) bool {
		sum += d.triangle(id).Area()
		exceeded = coverageRatio(sum, total) > threshold
		return !exceeded
	})
	return exceeded || coverageRatio(sum, total) > threshold
}

// coverageRatio divides sum by total, mapping an empty total to 0 and
// absorbing rounding above 1.
func coverageRatio(sum, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(sum/total, 1)
}

// ClippedCoverage returns the area of q covered by s as a fraction of the
// area of q: the sum, over every triangle of s, of the area of its
// intersection with the image of q, divided by the area of that image.
// Overlapping triangles each contribute, so the result can exceed 1 where
// s overlaps itself. A query whose image has no area, such as a point, a
// segment or a query collapsed by a singular transform, gives 0.
//
// For a Shape query the intersection is taken per pair of triangles and the
// denominator is the area of the transformed query shape.
func (s Shape) ClippedCoverage(q Query, queryToShape ...Matrix) float64 {
	sum, area := s.clippedArea(q, queryTransform(queryToShape), nil)
	if area <= 0 {
		return 0
	}
	return sum / area
}

// ClippedCoverageIsGreaterThan reports whether ClippedCoverage(q,
// queryToShape...) is greater than threshold, stopping as soon as the
// answer is known.
func (s Shape) ClippedCoverageIsGreaterThan(q Query, threshold float64, queryToShape ...Matrix) bool {
	exceeded := false
	sum, area := s.clippedArea(q, queryTransform(queryToShape), func(sum, area float64) bool {
		exceeded = sum/area > threshold
		return exceeded
	})
	if exceeded {
		return true
	}
	if area <= 0 {
		return 0 > threshold
	}
	return sum/area > threshold
}

// clippedArea returns the summed intersection area of s and the image of q
// under m, and the area of that image. If stop is non-nil it is called
// after every contribution and ends the accumulation when it returns true.
func (s Shape) clippedArea(q Query, m Matrix, stop func(sum, area float64) bool) (sum, area float64) {
	d := s.data
	if other, ok := q.(Shape); ok {
		return d.clippedShapeArea(other.data, m, stop)
	}
	hull, ok := primitiveHull(q)
	if !ok {
		panic("modeled: unsupported query type")
	}
	hull = hull.transformed(m)
	area = hull.area()
	if area <= 0 {
		d.spatialIndex()
		return 0, 0
	}

	var buf [4]clip.Point
	c := clip.NewConvexClipper(hull.polygon(buf[:0]))
	d.visitConvex(hull, func(id int) bool {
		var tri [4]clip.Point
		sum += c.IntersectionArea(d.triangle(id).convexHull().polygon(tri[:0]))
		return stop == nil || !stop(sum, area)
	})
	return sum, area
}

// clippedShapeArea sums the intersection areas of every pair of a triangle
// of d and the image of a triangle of q under m.
func (d *shapeData) clippedShapeArea(q *shapeData, m Matrix, stop func(sum, area float64) bool) (sum, area float64) {
	idx := d.spatialIndex()
	if idx == nil || q.spatialIndex() == nil {
		return 0, 0
	}
	area = q.area * math.Abs(m.Determinant())
	if area <= 0 {
		return 0, 0
	}

	c := clip.NewConvexClipper(nil)
	var window, tri [4]clip.Point
	stopped := false
	d.forEachQueryTriangle(q, m, func(qid int) bool {
		qt := q.triangle(qid).convexHull().transformed(m)
		if qt.area() <= 0 {
			return true
		}
		c.Reset(qt.polygon(window[:0]))
		idx.Search(boxOf(qt.bounds()), func(id int) bool {
			a := c.IntersectionArea(d.triangle(id).convexHull().polygon(tri[:0]))
			if a <= 0 {
				return true
			}
			sum += a
			if stop != nil && stop(sum, area) {
				stopped = true
				return false
			}
			return true
		})
		return !stopped
	})
	return sum, area
}

// area returns the unsigned area enclosed by c.
func (c convex) area() float64 {
	var sum float64
	for i := range c.n {
		sum += c.pts[i].Cross(c.pts[(i+1)%c.n])
	}
	return math.Abs(sum) / 2
}

// polygon appends the vertices of c to dst.
func (c convex) polygon(dst clip.Polygon) clip.Polygon {
	for i := range c.n {
		dst = append(dst, clip.Point(c.pts[i]))
	}
	return dst
}
