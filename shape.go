package modeled

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gogpu/modeled/internal/spatial"
	"github.com/gogpu/modeled/mesh"
)

// VertexIndexPair identifies a vertex of a render group by the index of its
// mesh within the group and the index of the vertex within that mesh.
type VertexIndexPair = mesh.VertexIndexPair

// TriangleIndexPair identifies a triangle of a Shape by the index of its
// mesh in Meshes and the index of the triangle within that mesh. The pair
// is valid for the lifetime of the Shape.
type TriangleIndexPair struct {
	MeshIndex     uint16
	TriangleIndex uint32
}

// Shape is an immutable set of triangle meshes, organized into render
// groups, that can be tested for intersection with points, segments,
// triangles, rects, quads and other shapes.
//
// Shape is a small value. Copies share the underlying meshes and the
// spatial index, so building the index through one copy benefits every
// other copy. The zero value is an empty shape with no render groups.
//
// A Shape is safe for concurrent use by multiple goroutines.
type Shape struct {
	data *shapeData
}

// renderGroup is a run of meshes sharing one format, with the outlines
// that trace its boundaries.
type renderGroup struct {
	format   mesh.Format
	first    int
	count    int
	outlines [][]VertexIndexPair
}

// shapeData is the state shared by copies of a Shape. Everything except
// index is fixed at construction.
type shapeData struct {
	meshes []*mesh.Mesh
	groups []renderGroup

	// triStart[i] is the flat id of the first triangle of meshes[i];
	// triStart[len(meshes)] is the total triangle count.
	triStart []int
	bounds   Envelope
	area     float64

	index spatial.Lazy
}

// newShapeData computes the derived fields of a shape from its meshes.
func newShapeData(meshes []*mesh.Mesh, groups []renderGroup) *shapeData {
	d := &shapeData{
		meshes:   meshes,
		groups:   groups,
		triStart: make([]int, len(meshes)+1),
	}
	for i, m := range meshes {
		n := m.TriangleCount()
		d.triStart[i+1] = d.triStart[i] + n
		if lo, hi, ok := m.Bounds(); ok {
			d.bounds.Add(Pt(float64(lo[0]), float64(lo[1])))
			d.bounds.Add(Pt(float64(hi[0]), float64(hi[1])))
		}
		for t := range n {
			d.area += meshTriangle(m, t).Area()
		}
	}
	return d
}

// meshTriangle decodes triangle t of m.
func meshTriangle(m *mesh.Mesh, t int) Triangle {
	p := m.TrianglePositions(t)
	return Triangle{
		P0: Pt(float64(p[0][0]), float64(p[0][1])),
		P1: Pt(float64(p[1][0]), float64(p[1][1])),
		P2: Pt(float64(p[2][0]), float64(p[2][1])),
	}
}

// triangleCount returns the number of triangles in all meshes.
func (d *shapeData) triangleCount() int {
	return d.triStart[len(d.meshes)]
}

// pair maps a flat triangle id to its mesh and triangle index.
func (d *shapeData) pair(id int) TriangleIndexPair {
	m := sort.Search(len(d.meshes), func(i int) bool { return d.triStart[i+1] > id })
	return TriangleIndexPair{MeshIndex: uint16(m), TriangleIndex: uint32(id - d.triStart[m])}
}

// triangle returns the decoded triangle with flat id.
func (d *shapeData) triangle(id int) Triangle {
	p := d.pair(id)
	return meshTriangle(d.meshes[p.MeshIndex], int(p.TriangleIndex))
}

// spatialIndex returns the index over every triangle, building it on first
// use. It returns nil for a shape without meshes.
func (d *shapeData) spatialIndex() *spatial.Index {
	if d == nil || len(d.meshes) == 0 {
		return nil
	}
	return d.index.Get(d.buildIndex)
}

func (d *shapeData) buildIndex() *spatial.Index {
	boxes := make([]spatial.Box, 0, d.triangleCount())
	for _, m := range d.meshes {
		for t := range m.TriangleCount() {
			boxes = append(boxes, boxOf(meshTriangle(m, t).Bounds()))
		}
	}
	idx := spatial.New(boxes)
	Logger().Debug("modeled: spatial index built",
		"meshes", len(d.meshes),
		"triangles", len(boxes))
	return idx
}

// boxOf converts r to an index box.
func boxOf(r Rect) spatial.Box {
	return spatial.Box{MinX: r.Min.X, MinY: r.Min.Y, MaxX: r.Max.X, MaxY: r.Max.Y}
}

// Meshes returns every mesh of the shape, with the meshes of each render
// group stored contiguously in group order. The slice must not be modified.
func (s Shape) Meshes() []*mesh.Mesh {
	if s.data == nil {
		return nil
	}
	return s.data.meshes[:len(s.data.meshes):len(s.data.meshes)]
}

// MeshCount returns the number of meshes.
func (s Shape) MeshCount() int {
	if s.data == nil {
		return 0
	}
	return len(s.data.meshes)
}

// TriangleCount returns the number of triangles in all meshes.
func (s Shape) TriangleCount() int {
	if s.data == nil {
		return 0
	}
	return s.data.triangleCount()
}

// Triangle returns the triangle identified by p, with decoded positions.
// It panics if p does not identify a triangle of s.
func (s Shape) Triangle(p TriangleIndexPair) Triangle {
	n := s.MeshCount()
	if int(p.MeshIndex) >= n {
		panic(fmt.Sprintf("modeled: mesh index %d out of range [0, %d)", p.MeshIndex, n))
	}
	m := s.data.meshes[p.MeshIndex]
	if int(p.TriangleIndex) >= m.TriangleCount() {
		panic(fmt.Sprintf("modeled: triangle index %d out of range [0, %d)", p.TriangleIndex, m.TriangleCount()))
	}
	return meshTriangle(m, int(p.TriangleIndex))
}

// Area returns the sum of the areas of all triangles. Overlapping triangles
// are counted once each.
func (s Shape) Area() float64 {
	if s.data == nil {
		return 0
	}
	return s.data.area
}

// Bounds returns the smallest envelope containing every vertex position.
// The envelope is empty iff the shape has no meshes.
func (s Shape) Bounds() Envelope {
	if s.data == nil {
		return Envelope{}
	}
	return s.data.bounds
}

// RenderGroupCount returns the number of render groups.
func (s Shape) RenderGroupCount() int {
	if s.data == nil {
		return 0
	}
	return len(s.data.groups)
}

func (s Shape) group(i int) *renderGroup {
	if n := s.RenderGroupCount(); i < 0 || i >= n {
		panic(fmt.Sprintf("modeled: render group index %d out of range [0, %d)", i, n))
	}
	return &s.data.groups[i]
}

// RenderGroupFormat returns the format shared by the meshes of group i.
// Groups without meshes report the default format.
func (s Shape) RenderGroupFormat(i int) mesh.Format {
	return s.group(i).format
}

// RenderGroupMeshes returns the meshes of group i. The slice must not be
// modified.
func (s Shape) RenderGroupMeshes(i int) []*mesh.Mesh {
	g := s.group(i)
	return s.data.meshes[g.first : g.first+g.count : g.first+g.count]
}

// OutlineCount returns the number of outlines of group.
func (s Shape) OutlineCount(group int) int {
	return len(s.group(group).outlines)
}

func (s Shape) outline(group, i int) []VertexIndexPair {
	g := s.group(group)
	if i < 0 || i >= len(g.outlines) {
		panic(fmt.Sprintf("modeled: outline index %d out of range [0, %d)", i, len(g.outlines)))
	}
	return g.outlines[i]
}

// Outline returns outline i of group. Mesh indices in the returned pairs
// are relative to the group's meshes.
func (s Shape) Outline(group, i int) []VertexIndexPair {
	return slices.Clone(s.outline(group, i))
}

// OutlineVertexCount returns the number of points in outline i of group.
func (s Shape) OutlineVertexCount(group, i int) int {
	return len(s.outline(group, i))
}

// OutlinePosition returns the decoded position of point vertex of outline
// i of group.
func (s Shape) OutlinePosition(group, i, vertex int) Point {
	o := s.outline(group, i)
	if vertex < 0 || vertex >= len(o) {
		panic(fmt.Sprintf("modeled: outline vertex index %d out of range [0, %d)", vertex, len(o)))
	}
	p := o[vertex]
	m := s.RenderGroupMeshes(group)[p.MeshIndex]
	v := m.VertexPosition(int(p.VertexIndex))
	return Pt(float64(v[0]), float64(v[1]))
}

// IsSpatialIndexInitialized reports whether the spatial index has been
// built, by this copy of the shape or any other.
func (s Shape) IsSpatialIndexInitialized() bool {
	return s.data != nil && s.data.index.Initialized()
}

// InitializeSpatialIndex builds the spatial index if it has not been built
// yet. Queries build it on demand, so calling this is only needed to move
// the cost out of the first query. It does nothing for a shape without
// meshes.
func (s Shape) InitializeSpatialIndex() {
	s.data.spatialIndex()
}
