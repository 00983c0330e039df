package mesh

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Mesh is an immutable triangle mesh whose vertex count fits its format's
// index width. Meshes are created by Partition and shared by pointer.
type Mesh struct {
	format Format
	// positions holds decoded positions; packed meshes also keep codes.
	positions []f32.Vec2
	// values holds unpacked attribute data and codes holds packed codes,
	// each with ComponentCount entries per vertex. Exactly one of the two
	// is non-nil for every attribute.
	values [][]float32
	codes  [][]uint32
	coding []CodingParams

	indices16 []uint16
	indices32 []uint32

	boundsMin, boundsMax f32.Vec2
}

// Format returns the mesh format.
func (m *Mesh) Format() Format { return m.format }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.format.index == gputypes.IndexFormatUint16 {
		return len(m.indices16) / 3
	}
	return len(m.indices32) / 3
}

// VertexPosition returns the decoded position of vertex v.
func (m *Mesh) VertexPosition(v int) f32.Vec2 {
	return m.positions[v]
}

// FloatVertexAttribute returns the decoded value of attribute attr of
// vertex v.
func (m *Mesh) FloatVertexAttribute(v, attr int) []float32 {
	a := m.format.Attribute(attr)
	if v < 0 || v >= len(m.positions) {
		panic(fmt.Sprintf("mesh: vertex index %d out of range [0, %d)", v, len(m.positions)))
	}
	n := a.Type.ComponentCount()
	out := make([]float32, n)
	if m.codes[attr] != nil {
		for i := range n {
			out[i] = m.coding[attr].Decode(i, m.codes[attr][v*n+i])
		}
		return out
	}
	copy(out, m.values[attr][v*n:(v+1)*n])
	return out
}

// PackedVertexAttribute returns the integer codes of packed attribute attr
// of vertex v. It returns nil for unpacked attributes.
func (m *Mesh) PackedVertexAttribute(v, attr int) []uint32 {
	a := m.format.Attribute(attr)
	if m.codes[attr] == nil {
		return nil
	}
	n := a.Type.ComponentCount()
	return append([]uint32(nil), m.codes[attr][v*n:(v+1)*n]...)
}

// VertexAttributeUnpackingParams returns the coding params of attribute
// attr. Unpacked attributes have empty params.
func (m *Mesh) VertexAttributeUnpackingParams(attr int) CodingParams {
	m.format.Attribute(attr)
	p := m.coding[attr]
	return CodingParams{Components: append([]ComponentCoding(nil), p.Components...)}
}

// TriangleIndices returns the vertices of triangle t.
func (m *Mesh) TriangleIndices(t int) [3]uint32 {
	if m.format.index == gputypes.IndexFormatUint16 {
		i := m.indices16[3*t : 3*t+3]
		return [3]uint32{uint32(i[0]), uint32(i[1]), uint32(i[2])}
	}
	i := m.indices32[3*t : 3*t+3]
	return [3]uint32{i[0], i[1], i[2]}
}

// TrianglePositions returns the decoded corners of triangle t.
func (m *Mesh) TrianglePositions(t int) [3]f32.Vec2 {
	idx := m.TriangleIndices(t)
	return [3]f32.Vec2{m.positions[idx[0]], m.positions[idx[1]], m.positions[idx[2]]}
}

// Bounds returns the smallest box containing every decoded vertex position.
// ok is false for a mesh without vertices.
func (m *Mesh) Bounds() (lo, hi f32.Vec2, ok bool) {
	if len(m.positions) == 0 {
		return f32.Vec2{}, f32.Vec2{}, false
	}
	return m.boundsMin, m.boundsMax, true
}

func (m *Mesh) computeBounds() {
	if len(m.positions) == 0 {
		return
	}
	lo, hi := m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		for c := range 2 {
			if p[c] < lo[c] {
				lo[c] = p[c]
			}
			if p[c] > hi[c] {
				hi[c] = p[c]
			}
		}
	}
	m.boundsMin, m.boundsMax = lo, hi
}
