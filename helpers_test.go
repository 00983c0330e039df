package modeled

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/modeled/mesh"
	"golang.org/x/image/math/f32"
)

// makeStraightLine returns a strip of n triangles of area 1 along the x
// axis: vertex i sits at (i, 0) for even i and (i, -1) for odd i, and
// triangle i is (i, i+1, i+2).
func makeStraightLine(n int) *mesh.MutableMesh {
	m := mesh.NewMutableMesh(mesh.DefaultFormat())
	for i := range n + 2 {
		y := float32(0)
		if i%2 == 1 {
			y = -1
		}
		m.AppendVertex(f32.Vec2{float32(i), y})
	}
	for i := range n {
		m.AppendTriangleIndices([3]uint32{uint32(i), uint32(i + 1), uint32(i + 2)})
	}
	return m
}

// makeCoiledRing returns a strip of n triangles wound around the origin.
// Even vertices sit on a circle of radius 0.75 and odd ones on the unit
// circle; vertices 2k and 2k+1 share the angle 2πk/pointsPerRing, so the
// strip overlaps itself once it has gone round.
func makeCoiledRing(n, pointsPerRing int) *mesh.MutableMesh {
	m := mesh.NewMutableMesh(mesh.DefaultFormat())
	for i := range n + 2 {
		r := 0.75
		if i%2 == 1 {
			r = 1
		}
		sin, cos := math.Sincos(float64(i/2) * 2 * math.Pi / float64(pointsPerRing))
		m.AppendVertex(f32.Vec2{float32(r * cos), float32(r * sin)})
	}
	for i := range n {
		m.AppendTriangleIndices([3]uint32{uint32(i), uint32(i + 1), uint32(i + 2)})
	}
	return m
}

// makeRisingSawtooth returns four right triangles standing on the x axis
// with areas 0.5, 1, 1.5 and 2, so they hold 10%, 20%, 30% and 40% of the
// total area. Triangle i spans x in [i, i+1].
func makeRisingSawtooth() *mesh.MutableMesh {
	m := mesh.NewMutableMesh(mesh.DefaultFormat())
	for _, p := range []f32.Vec2{
		{0, 0}, {1, 0}, {1, 1}, {2, 0}, {2, 2}, {3, 0}, {3, 3}, {4, 0}, {4, 4},
	} {
		m.AppendVertex(p)
	}
	for _, t := range [][3]uint32{{0, 1, 2}, {1, 3, 4}, {3, 5, 6}, {5, 7, 8}} {
		m.AppendTriangleIndices(t)
	}
	return m
}

func mustShape(t *testing.T, m *mesh.MutableMesh, outlines [][]uint32, opts ...mesh.PartitionOption) Shape {
	t.Helper()
	s, err := FromMutableMesh(m, outlines, opts...)
	if err != nil {
		t.Fatalf("FromMutableMesh() error = %v", err)
	}
	return s
}

func mustMeshes(t *testing.T, m *mesh.MutableMesh) []*mesh.Mesh {
	t.Helper()
	meshes, err := m.AsMeshes()
	if err != nil {
		t.Fatalf("AsMeshes() error = %v", err)
	}
	return meshes
}

// tris returns the pairs for the given triangles of mesh 0.
func tris(ids ...uint32) []TriangleIndexPair {
	out := make([]TriangleIndexPair, 0, len(ids))
	for _, id := range ids {
		out = append(out, TriangleIndexPair{TriangleIndex: id})
	}
	return out
}

// intersected returns the triangles of s that intersect q, sorted.
func intersected(s Shape, q Query, queryToShape ...Matrix) []TriangleIndexPair {
	out := s.IntersectedTriangles(q, queryToShape...)
	slices.SortFunc(out, func(a, b TriangleIndexPair) int {
		if a.MeshIndex != b.MeshIndex {
			return int(a.MeshIndex) - int(b.MeshIndex)
		}
		return int(a.TriangleIndex) - int(b.TriangleIndex)
	})
	if out == nil {
		out = []TriangleIndexPair{}
	}
	return out
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}
