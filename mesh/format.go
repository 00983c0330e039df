package mesh

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// MaxAttributes is the largest number of attributes a Format can hold.
const MaxAttributes = 16

// Format describes the per-vertex attributes of a mesh and the width of its
// triangle indices. Formats are comparable with ==.
//
// The index format bounds how many vertices a single Mesh can address:
// gputypes.IndexFormatUint16 allows 65536 vertices, and MutableMesh content
// larger than that is split across several meshes by Partition.
type Format struct {
	attrs [MaxAttributes]Attribute
	n     uint8
	index gputypes.IndexFormat
}

// NewFormat validates and returns a format. It fails with an
// ErrInvalidArgument error if there are too many attributes, an attribute
// is repeated or unknown, the position attribute is missing or does not
// have exactly two components, or index is not Uint16 or Uint32.
func NewFormat(attrs []Attribute, index gputypes.IndexFormat) (Format, error) {
	var f Format
	if len(attrs) > MaxAttributes {
		return f, errorf(CodeInvalidArgument, "format has %d attributes, maximum is %d", len(attrs), MaxAttributes)
	}
	if index != gputypes.IndexFormatUint16 && index != gputypes.IndexFormatUint32 {
		return f, errorf(CodeInvalidArgument, "unsupported index format %v", index)
	}
	var seen [Custom1 + 1]bool
	hasPosition := false
	for i, a := range attrs {
		if !a.Type.valid() || !a.ID.valid() {
			return f, errorf(CodeInvalidArgument, "attribute %d has unknown type or id", i)
		}
		if seen[a.ID] {
			return f, errorf(CodeInvalidArgument, "attribute %v appears more than once", a.ID)
		}
		seen[a.ID] = true
		if a.ID == Position {
			if a.Type.ComponentCount() != 2 {
				return f, errorf(CodeInvalidArgument, "position attribute must have 2 components, got %v", a.Type)
			}
			hasPosition = true
		}
		f.attrs[i] = a
	}
	if !hasPosition {
		return f, errorf(CodeInvalidArgument, "format has no position attribute")
	}
	f.n = uint8(len(attrs))
	f.index = index
	return f, nil
}

// DefaultFormat returns the format with a single unpacked position and
// 16-bit indices.
func DefaultFormat() Format {
	f := Format{n: 1, index: gputypes.IndexFormatUint16}
	f.attrs[0] = Attribute{Type: Float2Unpacked, ID: Position}
	return f
}

// AttributeCount returns the number of attributes.
func (f Format) AttributeCount() int { return int(f.n) }

// Attribute returns attribute i.
func (f Format) Attribute(i int) Attribute {
	if i < 0 || i >= int(f.n) {
		panic(fmt.Sprintf("mesh: attribute index %d out of range [0, %d)", i, f.n))
	}
	return f.attrs[i]
}

// Attributes returns a copy of the attribute list.
func (f Format) Attributes() []Attribute {
	return append([]Attribute(nil), f.attrs[:f.n]...)
}

// IndexFormat returns the width of triangle indices in a Mesh.
func (f Format) IndexFormat() gputypes.IndexFormat { return f.index }

// MaxVertices returns how many vertices one Mesh of this format can address.
func (f Format) MaxVertices() uint64 {
	if f.index == gputypes.IndexFormatUint16 {
		return 1 << 16
	}
	return 1 << 32
}

// AttributeIndex returns the position of id in the format.
func (f Format) AttributeIndex(id AttributeID) (int, bool) {
	for i := 0; i < int(f.n); i++ {
		if f.attrs[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// PositionAttributeIndex returns the index of the position attribute.
func (f Format) PositionAttributeIndex() int {
	i, _ := f.AttributeIndex(Position)
	return i
}

// without returns the format with the given attributes removed, plus the
// index in f of every remaining attribute. Removing the position fails.
func (f Format) without(ids []AttributeID) (Format, []int, error) {
	omit := make(map[AttributeID]bool, len(ids))
	for _, id := range ids {
		if id == Position {
			return Format{}, nil, errorf(CodeInvalidArgument, "the position attribute cannot be omitted")
		}
		omit[id] = true
	}
	out := Format{index: f.index}
	kept := make([]int, 0, f.n)
	for i := 0; i < int(f.n); i++ {
		if omit[f.attrs[i].ID] {
			continue
		}
		out.attrs[out.n] = f.attrs[i]
		out.n++
		kept = append(kept, i)
	}
	return out, kept, nil
}

// VertexBufferLayout describes an interleaved GPU vertex buffer for the
// format, with one shader location per attribute in format order.
func (f Format) VertexBufferLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, f.n)
	var offset uint64
	for i := 0; i < int(f.n); i++ {
		vf := f.attrs[i].Type.VertexFormat()
		attrs[i] = gputypes.VertexAttribute{
			Format:         vf,
			Offset:         offset,
			ShaderLocation: uint32(i),
		}
		offset += vf.Size()
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// String returns a compact description such as
// "[Position:Float2Unpacked] Uint16".
func (f Format) String() string {
	s := "["
	for i := 0; i < int(f.n); i++ {
		if i > 0 {
			s += " "
		}
		s += f.attrs[i].ID.String() + ":" + f.attrs[i].Type.String()
	}
	return s + "] " + f.index.String()
}
