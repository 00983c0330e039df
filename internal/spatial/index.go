// Package spatial provides the broad-phase index used to find candidate
// triangles for intersection queries.
package spatial

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// R-tree fan-out.
const (
	minChildren = 25
	maxChildren = 50
)

// Box is a closed axis-aligned box. Boxes may have zero width or height.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Overlaps reports whether b and o share at least one point.
func (b Box) Overlaps(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// rect converts b to an rtreego rect widened by one ulp on every side.
// rtreego treats touching rects as disjoint and rejects empty ones, so the
// widening keeps closed-box semantics without false negatives.
func (b Box) rect() rtreego.Rect {
	lo := rtreego.Point{math.Nextafter(b.MinX, math.Inf(-1)), math.Nextafter(b.MinY, math.Inf(-1))}
	hi := rtreego.Point{math.Nextafter(b.MaxX, math.Inf(1)), math.Nextafter(b.MaxY, math.Inf(1))}
	r, _ := rtreego.NewRectFromPoints(lo, hi)
	return r
}

// item is one indexed box.
type item struct {
	id int
	bb rtreego.Rect
}

func (it item) Bounds() rtreego.Rect { return it.bb }

// Index is an immutable R-tree over boxes identified by their position in
// the slice passed to New. Searches never modify the index, so an Index is
// safe for concurrent and nested use.
type Index struct {
	tree  *rtreego.Rtree
	boxes []Box
}

// New bulk-loads an index over boxes.
func New(boxes []Box) *Index {
	items := make([]rtreego.Spatial, len(boxes))
	for i, b := range boxes {
		items[i] = item{id: i, bb: b.rect()}
	}
	return &Index{
		tree:  rtreego.NewTree(2, minChildren, maxChildren, items...),
		boxes: append([]Box(nil), boxes...),
	}
}

// Len returns the number of indexed boxes.
func (x *Index) Len() int { return len(x.boxes) }

// Box returns indexed box id.
func (x *Index) Box(id int) Box { return x.boxes[id] }

// Search calls visit with the id of every indexed box that overlaps q,
// in no particular order, until visit returns false. Candidates are
// exact: boxes that only overlap q through the internal widening are not
// reported.
func (x *Index) Search(q Box, visit func(id int) bool) {
	if len(x.boxes) == 0 {
		return
	}
	stopped := false
	x.tree.SearchIntersect(q.rect(), func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		// rtreego only stops scanning the current leaf on abort, so
		// later leaves are skipped here.
		if stopped {
			return true, true
		}
		id := obj.(item).id
		if !x.boxes[id].Overlaps(q) {
			return true, false
		}
		if !visit(id) {
			stopped = true
			return true, true
		}
		return true, false
	})
}
