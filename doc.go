// Package modeled turns triangle meshes into immutable shapes that can be
// hit-tested and measured.
//
// # Overview
//
// A Shape holds one or more meshes from the mesh package, organized into
// render groups. Each group shares one mesh format and owns the outlines
// that trace its visible boundaries. Shapes are built once and never
// modified; copies are cheap and share everything, including the spatial
// index that the first query builds.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/modeled"
//	    "github.com/gogpu/modeled/mesh"
//	)
//
//	m := mesh.NewMutableMesh(mesh.DefaultFormat())
//	// ... append vertices and triangles ...
//	s, err := modeled.FromMutableMesh(m, nil)
//	if err != nil {
//	    return err
//	}
//
//	// Which triangles does a point hit?
//	s.VisitIntersectedTriangles(modeled.Pt(1, 2), func(p modeled.TriangleIndexPair) modeled.FlowControl {
//	    fmt.Println(p.MeshIndex, p.TriangleIndex)
//	    return modeled.Continue
//	})
//
//	// How much of the shape does a rotated rect touch?
//	c := s.Coverage(modeled.Rect{Max: modeled.Pt(1, 1)}, modeled.Rotate(0.3))
//
// # Queries
//
// Every query method accepts a Point, Segment, Triangle, Rect, Quad or
// another Shape, plus an optional Matrix that maps the query into the
// shape's coordinates. Regions are closed, so touching counts as
// intersecting. A singular matrix collapses the query to the segment or
// point it maps onto, and that image is tested exactly.
//
// Coverage and ClippedCoverage measure overlap in two ways. Coverage is the
// share of the shape's area held by triangles the query touches.
// ClippedCoverage is the share of the query's area that the shape's
// triangles cover, summing overlapping triangles separately.
//
// # Construction Errors
//
// The factories return *Error values with a Code of CodeInvalidArgument or
// CodeFailedPrecondition. Use errors.Is with ErrInvalidArgument or
// ErrFailedPrecondition to check the kind. Accessors panic on out-of-range
// indices, because the valid range is always available from a count
// accessor.
//
// # Concurrency
//
// A Shape is safe for concurrent use. Visitors may issue further queries
// against the same or other shapes.
package modeled
