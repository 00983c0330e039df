// Command modeledinfo builds a sample shape and prints what the modeled
// library reports about it: partitioning, bounds, hit tests and coverage.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/modeled"
	"github.com/gogpu/modeled/mesh"
	"golang.org/x/image/math/f32"
)

func main() {
	var (
		triangles = flag.Int("triangles", 100, "number of triangles in the sample ring")
		ringSize  = flag.Int("ring", 24, "points per turn of the ring")
		packed    = flag.Bool("packed", false, "store positions packed in 12 bits per component")
		x         = flag.Float64("x", 0.8, "x coordinate of the hit-test point")
		y         = flag.Float64("y", 0.1, "y coordinate of the hit-test point")
		shift     = flag.Float64("shift", 0.25, "x offset of the overlapping copy used for coverage")
		verbose   = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Parse()

	if *verbose {
		modeled.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	format := mesh.DefaultFormat()
	if *packed {
		var err error
		format, err = mesh.NewFormat([]mesh.Attribute{
			{Type: mesh.Float2PackedInOneFloat, ID: mesh.Position},
		}, gputypes.IndexFormatUint16)
		if err != nil {
			log.Fatalf("Failed to create format: %v", err)
		}
	}

	m := buildRing(format, *triangles, *ringSize)
	s, err := modeled.FromMutableMesh(m, [][]uint32{outerEdge(m.VertexCount())})
	if err != nil {
		log.Fatalf("Failed to build shape: %v", err)
	}

	printSummary(s)
	printHits(s, modeled.Pt(*x, *y))
	printCoverage(s, *shift)
}

// buildRing returns a triangle strip wound around the origin between radii
// 0.75 and 1.
func buildRing(format mesh.Format, triangles, ringSize int) *mesh.MutableMesh {
	m := mesh.NewMutableMesh(format)
	for i := range triangles + 2 {
		r := 0.75
		if i%2 == 1 {
			r = 1
		}
		sin, cos := math.Sincos(float64(i/2) * 2 * math.Pi / float64(ringSize))
		m.AppendVertex(f32.Vec2{float32(r * cos), float32(r * sin)})
	}
	for i := range triangles {
		m.AppendTriangleIndices([3]uint32{uint32(i), uint32(i + 1), uint32(i + 2)})
	}
	return m
}

// outerEdge returns the odd vertices, which trace the outer rim.
func outerEdge(vertexCount int) []uint32 {
	var out []uint32
	for v := 1; v < vertexCount; v += 2 {
		out = append(out, uint32(v))
	}
	return out
}

func printSummary(s modeled.Shape) {
	b := s.Bounds().AsRect()
	fmt.Printf("meshes:    %d\n", s.MeshCount())
	fmt.Printf("triangles: %d\n", s.TriangleCount())
	fmt.Printf("format:    %v\n", s.RenderGroupFormat(0))
	fmt.Printf("bounds:    (%.3f, %.3f) - (%.3f, %.3f)\n", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	fmt.Printf("area:      %.4f\n", s.Area())
	fmt.Printf("outline:   %d points, first at %v\n", s.OutlineVertexCount(0, 0), s.OutlinePosition(0, 0, 0))
}

func printHits(s modeled.Shape, p modeled.Point) {
	hits := s.IntersectedTriangles(p)
	fmt.Printf("hits at (%.3f, %.3f): %d\n", p.X, p.Y, len(hits))
	for _, h := range hits {
		fmt.Printf("  mesh %d triangle %d\n", h.MeshIndex, h.TriangleIndex)
	}
}

func printCoverage(s modeled.Shape, shift float64) {
	xf := modeled.Translate(shift, 0)
	fmt.Printf("coverage by shifted copy:         %.4f\n", s.Coverage(s, xf))
	fmt.Printf("clipped coverage by shifted copy: %.4f\n", s.ClippedCoverage(s, xf))
	r := modeled.RectFromCenterAndDimensions(modeled.Pt(0.875, 0), 0.25, 0.25)
	fmt.Printf("clipped coverage of rim rect:     %.4f\n", s.ClippedCoverage(r))
}
