package mesh

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// MutableMesh is a growable triangle mesh. It has no limit on the number of
// vertices or triangles and stores every attribute unpacked; Partition
// converts it to one or more immutable Meshes in its format.
//
// The zero value is not usable; create one with NewMutableMesh.
type MutableMesh struct {
	format    Format
	positions []f32.Vec2
	// attrs holds the values of every non-position attribute, with
	// ComponentCount values per vertex. The position slot is nil.
	attrs   [][]float32
	indices []uint32
}

// NewMutableMesh returns an empty mesh with the given format.
func NewMutableMesh(format Format) *MutableMesh {
	return &MutableMesh{
		format: format,
		attrs:  make([][]float32, format.AttributeCount()),
	}
}

// Format returns the mesh format.
func (m *MutableMesh) Format() Format { return m.format }

// VertexCount returns the number of vertices.
func (m *MutableMesh) VertexCount() int { return len(m.positions) }

// TriangleCount returns the number of triangles.
func (m *MutableMesh) TriangleCount() int { return len(m.indices) / 3 }

// AppendVertex adds a vertex at p. All other attributes are zero.
func (m *MutableMesh) AppendVertex(p f32.Vec2) {
	m.positions = append(m.positions, p)
	pos := m.format.PositionAttributeIndex()
	for i := range m.attrs {
		if i == pos {
			continue
		}
		n := m.format.attrs[i].Type.ComponentCount()
		for range n {
			m.attrs[i] = append(m.attrs[i], 0)
		}
	}
}

// SetVertexPosition moves vertex v to p.
func (m *MutableMesh) SetVertexPosition(v int, p f32.Vec2) {
	m.positions[v] = p
}

// VertexPosition returns the position of vertex v.
func (m *MutableMesh) VertexPosition(v int) f32.Vec2 {
	return m.positions[v]
}

// SetFloatVertexAttribute sets attribute attr of vertex v. The length of
// value must match the attribute's component count.
func (m *MutableMesh) SetFloatVertexAttribute(v, attr int, value []float32) {
	a := m.format.Attribute(attr)
	n := a.Type.ComponentCount()
	if len(value) != n {
		panic(fmt.Sprintf("mesh: attribute %v has %d components, got %d values", a.ID, n, len(value)))
	}
	if a.ID == Position {
		m.positions[v] = f32.Vec2{value[0], value[1]}
		return
	}
	if v < 0 || v >= len(m.positions) {
		panic(fmt.Sprintf("mesh: vertex index %d out of range [0, %d)", v, len(m.positions)))
	}
	copy(m.attrs[attr][v*n:], value)
}

// FloatVertexAttribute returns a copy of attribute attr of vertex v.
func (m *MutableMesh) FloatVertexAttribute(v, attr int) []float32 {
	a := m.format.Attribute(attr)
	if a.ID == Position {
		p := m.positions[v]
		return []float32{p[0], p[1]}
	}
	if v < 0 || v >= len(m.positions) {
		panic(fmt.Sprintf("mesh: vertex index %d out of range [0, %d)", v, len(m.positions)))
	}
	n := a.Type.ComponentCount()
	return append([]float32(nil), m.attrs[attr][v*n:(v+1)*n]...)
}

// AppendTriangleIndices adds a triangle. Indices are not checked until the
// mesh is partitioned; see ValidateTriangles.
func (m *MutableMesh) AppendTriangleIndices(idx [3]uint32) {
	m.indices = append(m.indices, idx[0], idx[1], idx[2])
}

// SetTriangleIndices replaces the vertices of triangle t.
func (m *MutableMesh) SetTriangleIndices(t int, idx [3]uint32) {
	copy(m.indices[3*t:3*t+3], idx[:])
}

// TriangleIndices returns the vertices of triangle t.
func (m *MutableMesh) TriangleIndices(t int) [3]uint32 {
	return [3]uint32{m.indices[3*t], m.indices[3*t+1], m.indices[3*t+2]}
}

// ValidateTriangles reports the first triangle that refers to a vertex
// that does not exist.
func (m *MutableMesh) ValidateTriangles() error {
	n := uint64(len(m.positions))
	for i, v := range m.indices {
		if uint64(v) >= n {
			return errorf(CodeInvalidArgument, "triangle %d refers to non-existent vertex %d", i/3, v)
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh.
func (m *MutableMesh) Clone() *MutableMesh {
	c := &MutableMesh{
		format:    m.format,
		positions: append([]f32.Vec2(nil), m.positions...),
		attrs:     make([][]float32, len(m.attrs)),
		indices:   append([]uint32(nil), m.indices...),
	}
	for i, a := range m.attrs {
		if a != nil {
			c.attrs[i] = append([]float32(nil), a...)
		}
	}
	return c
}

// AsMeshes partitions the mesh without outlines.
func (m *MutableMesh) AsMeshes(opts ...PartitionOption) ([]*Mesh, error) {
	p, err := Partition(m, nil, opts...)
	if err != nil {
		return nil, err
	}
	return p.Meshes, nil
}

// value returns component c of attribute attr of vertex v.
func (m *MutableMesh) value(v uint32, attr, c int) float32 {
	if m.format.attrs[attr].ID == Position {
		return m.positions[v][c]
	}
	n := m.format.attrs[attr].Type.ComponentCount()
	return m.attrs[attr][int(v)*n+c]
}
