package mesh

import (
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// makeStraightLine returns a strip of n triangles along the x axis:
// vertex i sits at (i, 0) for even i and (i, -1) for odd i, and triangle i
// is (i, i+1, i+2).
func makeStraightLine(n int, format Format) *MutableMesh {
	m := NewMutableMesh(format)
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

func packedPositionFormat(t *testing.T) Format {
	t.Helper()
	f, err := NewFormat([]Attribute{{Type: Float2PackedInOneFloat, ID: Position}}, gputypes.IndexFormatUint16)
	if err != nil {
		t.Fatalf("NewFormat() error = %v", err)
	}
	return f
}

func mustFormat(t *testing.T, index gputypes.IndexFormat, attrs ...Attribute) Format {
	t.Helper()
	f, err := NewFormat(attrs, index)
	if err != nil {
		t.Fatalf("NewFormat(%v) error = %v", attrs, err)
	}
	return f
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
