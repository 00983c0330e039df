package mesh

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// MaxMeshes is the largest number of meshes a partitioned result, or a
// shape built from meshes, may contain.
const MaxMeshes = 65535

// VertexIndexPair identifies vertex VertexIndex of mesh MeshIndex in an
// ordered sequence of meshes.
type VertexIndexPair struct {
	MeshIndex   uint16
	VertexIndex uint32
}

// Partitioned is the result of Partition.
type Partitioned struct {
	// Meshes holds the partitions in order. Each fits the index width of
	// the output format.
	Meshes []*Mesh

	// Outlines holds the input outlines re-expressed against Meshes.
	Outlines [][]VertexIndexPair
}

// partition collects the vertices and triangles of one output mesh.
type partition struct {
	local map[uint32]uint32
	verts []uint32 // source index of each local vertex
	tris  []uint32
}

func newPartition() *partition {
	return &partition{local: make(map[uint32]uint32)}
}

// add returns the local index of source vertex v, adding it if needed.
func (p *partition) add(v uint32) (uint32, bool) {
	if l, ok := p.local[v]; ok {
		return l, false
	}
	l := uint32(len(p.verts))
	p.local[v] = l
	p.verts = append(p.verts, v)
	return l, true
}

// missing counts the distinct vertices of idx that p does not hold yet.
func (p *partition) missing(idx [3]uint32) int {
	n := 0
	for i, v := range idx {
		if _, ok := p.local[v]; ok {
			continue
		}
		if (i > 0 && idx[0] == v) || (i > 1 && idx[1] == v) {
			continue
		}
		n++
	}
	return n
}

// Partition converts src into immutable meshes that fit the index width of
// its format, and re-expresses outlines, given as source vertex indices,
// against those meshes. src is not modified.
//
// Triangles are taken in order. A new mesh is started when the next
// triangle's vertices would not fit in the current one; vertices shared
// with earlier meshes are copied, so no triangle spans two meshes and an
// outline crossing the boundary stays connected. Each outline vertex maps
// to the first mesh holding a copy of it. Vertices used only by outlines
// are appended to the last mesh. Vertices used by neither are dropped.
//
// Packed attributes get coding params fitted to the values present in each
// mesh unless fixed by WithCodingParams.
//
// Partition fails with an ErrInvalidArgument error if src has no
// triangles, an outline is empty or refers to a missing vertex, a triangle
// refers to a missing vertex, the options are invalid, or more than
// MaxMeshes meshes would be needed. It fails with an ErrFailedPrecondition
// error if a position or packed attribute value is not finite.
func Partition(src *MutableMesh, outlines [][]uint32, opts ...PartitionOption) (Partitioned, error) {
	var o partitionOptions
	for _, opt := range opts {
		opt(&o)
	}

	if src.TriangleCount() == 0 {
		return Partitioned{}, errorf(CodeInvalidArgument, "mesh contains no triangles")
	}
	vertexCount := uint64(src.VertexCount())
	for i, outline := range outlines {
		if len(outline) == 0 {
			return Partitioned{}, errorf(CodeInvalidArgument, "outline %d contains no points", i)
		}
		for _, v := range outline {
			if uint64(v) >= vertexCount {
				return Partitioned{}, errorf(CodeInvalidArgument, "outline %d refers to non-existent vertex %d", i, v)
			}
		}
	}
	if err := src.ValidateTriangles(); err != nil {
		return Partitioned{}, err
	}

	format, kept, err := src.format.without(o.omitted)
	if err != nil {
		return Partitioned{}, err
	}
	for id, params := range o.coding {
		i, ok := format.AttributeIndex(id)
		if !ok {
			return Partitioned{}, errorf(CodeInvalidArgument, "coding params given for attribute %v, which is not in the format", id)
		}
		t := format.attrs[i].Type
		if !t.IsPacked() {
			return Partitioned{}, errorf(CodeInvalidArgument, "coding params given for unpacked attribute %v", id)
		}
		if err := params.validate(t); err != nil {
			return Partitioned{}, err
		}
	}
	if err := checkFinite(src, format, kept); err != nil {
		return Partitioned{}, err
	}

	parts, home := split(src, format.MaxVertices(), outlines)
	if len(parts) > MaxMeshes {
		return Partitioned{}, errorf(CodeInvalidArgument, "mesh needs %d partitions, maximum is %d", len(parts), MaxMeshes)
	}

	out := Partitioned{Meshes: make([]*Mesh, len(parts))}
	for i, p := range parts {
		m, err := buildMesh(src, format, kept, p, o.coding)
		if err != nil {
			return Partitioned{}, err
		}
		out.Meshes[i] = m
	}
	if len(outlines) > 0 {
		out.Outlines = make([][]VertexIndexPair, len(outlines))
		for i, outline := range outlines {
			pairs := make([]VertexIndexPair, len(outline))
			for j, v := range outline {
				pairs[j] = home[v]
			}
			out.Outlines[i] = pairs
		}
	}

	slogger().Debug("mesh: partitioned",
		"vertices", vertexCount,
		"triangles", src.TriangleCount(),
		"meshes", len(out.Meshes),
		"format", format.String())
	return out, nil
}

// checkFinite rejects non-finite positions and packed attribute values,
// which cannot be given coding params.
func checkFinite(src *MutableMesh, format Format, kept []int) error {
	for i := 0; i < int(format.n); i++ {
		a := format.attrs[i]
		if a.ID != Position && !a.Type.IsPacked() {
			continue
		}
		n := a.Type.ComponentCount()
		for v := range src.VertexCount() {
			for c := range n {
				if !isFinite32(src.value(uint32(v), kept[i], c)) {
					return errorf(CodeFailedPrecondition, "vertex %d has a non-finite value for attribute %v", v, a.ID)
				}
			}
		}
	}
	return nil
}

// split assigns triangles and outline-only vertices to partitions of at
// most capacity vertices. home maps every source vertex that was placed to
// its first copy.
func split(src *MutableMesh, capacity uint64, outlines [][]uint32) ([]*partition, []VertexIndexPair) {
	home := make([]VertexIndexPair, src.VertexCount())
	placed := make([]bool, src.VertexCount())
	parts := []*partition{newPartition()}

	place := func(v uint32) uint32 {
		p := parts[len(parts)-1]
		l, added := p.add(v)
		if added && !placed[v] {
			placed[v] = true
			home[v] = VertexIndexPair{MeshIndex: uint16(len(parts) - 1), VertexIndex: l}
		}
		return l
	}

	for t := range src.TriangleCount() {
		idx := src.TriangleIndices(t)
		cur := parts[len(parts)-1]
		if uint64(len(cur.verts)+cur.missing(idx)) > capacity {
			cur = newPartition()
			parts = append(parts, cur)
		}
		for _, v := range idx {
			cur.tris = append(cur.tris, place(v))
		}
	}

	orphans := 0
	for _, outline := range outlines {
		for _, v := range outline {
			if placed[v] {
				continue
			}
			if uint64(len(parts[len(parts)-1].verts)) >= capacity {
				parts = append(parts, newPartition())
			}
			place(v)
			orphans++
		}
	}
	if orphans > 0 {
		slogger().Warn("mesh: outline vertices not used by any triangle", "count", orphans)
	}
	return parts, home
}

// buildMesh encodes one partition in the output format.
func buildMesh(src *MutableMesh, format Format, kept []int, p *partition, custom map[AttributeID]CodingParams) (*Mesh, error) {
	n := len(p.verts)
	m := &Mesh{
		format:    format,
		positions: make([]f32.Vec2, n),
		values:    make([][]float32, format.n),
		codes:     make([][]uint32, format.n),
		coding:    make([]CodingParams, format.n),
	}

	for i := 0; i < int(format.n); i++ {
		a := format.attrs[i]
		comps := a.Type.ComponentCount()
		if !a.Type.IsPacked() {
			vals := make([]float32, n*comps)
			for l, v := range p.verts {
				for c := range comps {
					vals[l*comps+c] = src.value(v, kept[i], c)
				}
			}
			m.values[i] = vals
			continue
		}

		params, fixed := custom[a.ID]
		if !fixed {
			var err error
			params, err = fitPartition(src, kept[i], a.Type, p.verts)
			if err != nil {
				return nil, err
			}
		}
		maxCode := a.Type.MaxCode()
		codes := make([]uint32, n*comps)
		for l, v := range p.verts {
			for c := range comps {
				code, ok := params.encode(c, src.value(v, kept[i], c), maxCode, !fixed)
				if !ok {
					return nil, errorf(CodeInvalidArgument,
						"coding params for attribute %v cannot represent the value of vertex %d", a.ID, v)
				}
				codes[l*comps+c] = code
			}
		}
		m.codes[i] = codes
		m.coding[i] = params
	}

	pos := format.PositionAttributeIndex()
	for l := range n {
		if m.codes[pos] != nil {
			m.positions[l] = f32.Vec2{
				m.coding[pos].Decode(0, m.codes[pos][2*l]),
				m.coding[pos].Decode(1, m.codes[pos][2*l+1]),
			}
		} else {
			m.positions[l] = f32.Vec2{m.values[pos][2*l], m.values[pos][2*l+1]}
		}
	}

	if format.index == gputypes.IndexFormatUint16 {
		m.indices16 = make([]uint16, len(p.tris))
		for i, l := range p.tris {
			m.indices16[i] = uint16(l)
		}
	} else {
		m.indices32 = append([]uint32(nil), p.tris...)
	}
	m.computeBounds()
	return m, nil
}

// fitPartition fits coding params to the values of one attribute over the
// given source vertices.
func fitPartition(src *MutableMesh, attr int, t AttributeType, verts []uint32) (CodingParams, error) {
	comps := t.ComponentCount()
	mins := make([]float32, comps)
	maxs := make([]float32, comps)
	for c := range comps {
		mins[c] = src.value(verts[0], attr, c)
		maxs[c] = mins[c]
	}
	for _, v := range verts[1:] {
		for c := range comps {
			x := src.value(v, attr, c)
			if x < mins[c] {
				mins[c] = x
			}
			if x > maxs[c] {
				maxs[c] = x
			}
		}
	}
	return fitCodingParams(t, mins, maxs)
}
