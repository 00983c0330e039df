package clip

// ConvexClipper clips polygons against a convex window using the
// Sutherland-Hodgman algorithm. A clipper holds scratch buffers, so it is
// not safe for concurrent use.
type ConvexClipper struct {
	window  Polygon
	bounds  Rect
	scratch [2]Polygon
}

// NewConvexClipper creates a clipper for the given convex window. The window
// may wind in either direction. Consecutive duplicate vertices are dropped.
func NewConvexClipper(window Polygon) *ConvexClipper {
	c := &ConvexClipper{}
	c.Reset(window)
	return c
}

// Reset replaces the clip window, keeping the clipper's buffers.
func (c *ConvexClipper) Reset(window Polygon) {
	w := c.window[:0]
	for i, p := range window {
		if i > 0 && p == w[len(w)-1] {
			continue
		}
		w = append(w, p)
	}
	for len(w) > 1 && w[0] == w[len(w)-1] {
		w = w[:len(w)-1]
	}
	if w.SignedArea() < 0 {
		for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
			w[i], w[j] = w[j], w[i]
		}
	}
	c.window = w
	c.bounds = w.Bounds()
}

// Window returns the counter-clockwise clip window.
func (c *ConvexClipper) Window() Polygon {
	return c.window
}

// IsDegenerate reports whether the window encloses no area. A degenerate
// window clips every subject to nothing.
func (c *ConvexClipper) IsDegenerate() bool {
	return c.window.SignedArea() <= 0
}

// Clip returns the part of subject inside the window. The result aliases
// the clipper's scratch storage and is valid until the next call.
func (c *ConvexClipper) Clip(subject Polygon) Polygon {
	if c.IsDegenerate() || len(subject) < 3 || !c.bounds.Intersects(subject.Bounds()) {
		return nil
	}

	in := append(c.scratch[0][:0], subject...)
	out := c.scratch[1][:0]
	n := len(c.window)
	for i := 0; i < n && len(in) > 0; i++ {
		a, b := c.window[i], c.window[(i+1)%n]
		out = clipAgainstEdge(out[:0], in, a, b)
		in, out = out, in
	}
	c.scratch[0], c.scratch[1] = in, out
	return in
}

// IntersectionArea returns the area of the part of subject inside the
// window.
func (c *ConvexClipper) IntersectionArea(subject Polygon) float64 {
	return c.Clip(subject).Area()
}

// clipAgainstEdge keeps the part of in on the left of the directed edge a->b.
func clipAgainstEdge(dst, in Polygon, a, b Point) Polygon {
	edge := b.Sub(a)
	side := func(p Point) float64 { return edge.Cross(p.Sub(a)) }

	prev := in[len(in)-1]
	prevSide := side(prev)
	for _, cur := range in {
		curSide := side(cur)
		switch {
		case curSide >= 0:
			if prevSide < 0 {
				dst = append(dst, prev.Lerp(cur, prevSide/(prevSide-curSide)))
			}
			dst = append(dst, cur)
		case prevSide >= 0:
			if prevSide > 0 {
				dst = append(dst, prev.Lerp(cur, prevSide/(prevSide-curSide)))
			}
		}
		prev, prevSide = cur, curSide
	}
	return dst
}
