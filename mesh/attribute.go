package mesh

import "github.com/gogpu/gputypes"

// AttributeType describes how one vertex attribute is stored. Unpacked types
// hold float32 components as-is. Packed types quantise each component to an
// unsigned integer code, decoded as Offset + Scale*code with per-mesh
// CodingParams.
type AttributeType uint8

const (
	Float1Unpacked AttributeType = iota
	Float2Unpacked
	Float3Unpacked
	Float4Unpacked

	// Float2PackedInOneFloat packs two 12-bit codes into one float32.
	Float2PackedInOneFloat

	// Float3PackedInTwoFloats packs three 16-bit codes into two float32s.
	Float3PackedInTwoFloats

	// Float3PackedInFourUnsignedBytesXYZ10 packs three 10-bit codes into
	// four bytes, leaving two bits unused.
	Float3PackedInFourUnsignedBytesXYZ10
)

// ComponentCount returns the number of float components of the attribute.
func (t AttributeType) ComponentCount() int {
	switch t {
	case Float1Unpacked:
		return 1
	case Float2Unpacked, Float2PackedInOneFloat:
		return 2
	case Float3Unpacked, Float3PackedInTwoFloats, Float3PackedInFourUnsignedBytesXYZ10:
		return 3
	case Float4Unpacked:
		return 4
	default:
		return 0
	}
}

// IsPacked reports whether components are stored as quantised codes.
func (t AttributeType) IsPacked() bool {
	return t.BitsPerComponent() > 0
}

// BitsPerComponent returns the width of each packed code, or 0 for
// unpacked types.
func (t AttributeType) BitsPerComponent() int {
	switch t {
	case Float2PackedInOneFloat:
		return 12
	case Float3PackedInTwoFloats:
		return 16
	case Float3PackedInFourUnsignedBytesXYZ10:
		return 10
	default:
		return 0
	}
}

// MaxCode returns the largest packed code, or 0 for unpacked types.
func (t AttributeType) MaxCode() uint32 {
	bits := t.BitsPerComponent()
	if bits == 0 {
		return 0
	}
	return 1<<bits - 1
}

// VertexFormat returns the GPU vertex format that carries the attribute.
func (t AttributeType) VertexFormat() gputypes.VertexFormat {
	switch t {
	case Float1Unpacked, Float2PackedInOneFloat:
		return gputypes.VertexFormatFloat32
	case Float2Unpacked, Float3PackedInTwoFloats:
		return gputypes.VertexFormatFloat32x2
	case Float3Unpacked:
		return gputypes.VertexFormatFloat32x3
	case Float4Unpacked:
		return gputypes.VertexFormatFloat32x4
	case Float3PackedInFourUnsignedBytesXYZ10:
		return gputypes.VertexFormatUint8x4
	default:
		return gputypes.VertexFormatUndefined
	}
}

func (t AttributeType) valid() bool {
	return t <= Float3PackedInFourUnsignedBytesXYZ10
}

// String returns the type name.
func (t AttributeType) String() string {
	switch t {
	case Float1Unpacked:
		return "Float1Unpacked"
	case Float2Unpacked:
		return "Float2Unpacked"
	case Float3Unpacked:
		return "Float3Unpacked"
	case Float4Unpacked:
		return "Float4Unpacked"
	case Float2PackedInOneFloat:
		return "Float2PackedInOneFloat"
	case Float3PackedInTwoFloats:
		return "Float3PackedInTwoFloats"
	case Float3PackedInFourUnsignedBytesXYZ10:
		return "Float3PackedInFourUnsignedBytesXYZ10"
	default:
		return "Unknown"
	}
}

// AttributeID names the meaning of a vertex attribute.
type AttributeID uint8

const (
	Position AttributeID = iota
	ColorShiftHSL
	OpacityShift
	Texture
	SideDerivative
	SideLabel
	ForwardDerivative
	ForwardLabel
	Custom0
	Custom1
)

// String returns the attribute name.
func (id AttributeID) String() string {
	switch id {
	case Position:
		return "Position"
	case ColorShiftHSL:
		return "ColorShiftHSL"
	case OpacityShift:
		return "OpacityShift"
	case Texture:
		return "Texture"
	case SideDerivative:
		return "SideDerivative"
	case SideLabel:
		return "SideLabel"
	case ForwardDerivative:
		return "ForwardDerivative"
	case ForwardLabel:
		return "ForwardLabel"
	case Custom0:
		return "Custom0"
	case Custom1:
		return "Custom1"
	default:
		return "Unknown"
	}
}

func (id AttributeID) valid() bool {
	return id <= Custom1
}

// Attribute is one entry of a Format.
type Attribute struct {
	Type AttributeType
	ID   AttributeID
}
