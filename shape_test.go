package modeled

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/modeled/mesh"
	"golang.org/x/image/math/f32"
)

func TestZeroValueShape(t *testing.T) {
	var s Shape
	if got := s.RenderGroupCount(); got != 0 {
		t.Errorf("RenderGroupCount() = %d, want 0", got)
	}
	if got := s.MeshCount(); got != 0 {
		t.Errorf("MeshCount() = %d, want 0", got)
	}
	if got := len(s.Meshes()); got != 0 {
		t.Errorf("len(Meshes()) = %d, want 0", got)
	}
	if !s.Bounds().IsEmpty() {
		t.Error("Bounds() is not empty")
	}
	if s.Area() != 0 {
		t.Errorf("Area() = %v, want 0", s.Area())
	}
	s.InitializeSpatialIndex()
	if s.IsSpatialIndexInitialized() {
		t.Error("IsSpatialIndexInitialized() = true for the zero shape")
	}
	if got := intersected(s, Pt(0, 0)); len(got) != 0 {
		t.Errorf("zero shape visited %v", got)
	}
}

func TestWithEmptyGroups(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s := WithEmptyGroups(n)
		if got := s.RenderGroupCount(); got != n {
			t.Errorf("WithEmptyGroups(%d).RenderGroupCount() = %d", n, got)
		}
		for g := range n {
			if got := len(s.RenderGroupMeshes(g)); got != 0 {
				t.Errorf("group %d has %d meshes, want 0", g, got)
			}
			if got := s.OutlineCount(g); got != 0 {
				t.Errorf("group %d has %d outlines, want 0", g, got)
			}
			if got := s.RenderGroupFormat(g); got != mesh.DefaultFormat() {
				t.Errorf("group %d format = %v, want default", g, got)
			}
		}
		if !s.Bounds().IsEmpty() {
			t.Errorf("WithEmptyGroups(%d).Bounds() is not empty", n)
		}
		s.InitializeSpatialIndex()
		if s.IsSpatialIndexInitialized() {
			t.Errorf("WithEmptyGroups(%d) built a spatial index", n)
		}
	}
}

func TestFromMutableMesh(t *testing.T) {
	s := mustShape(t, makeStraightLine(3), [][]uint32{{0, 2, 4, 3, 1}})

	if got := s.RenderGroupCount(); got != 1 {
		t.Fatalf("RenderGroupCount() = %d, want 1", got)
	}
	if got := s.MeshCount(); got != 1 {
		t.Fatalf("MeshCount() = %d, want 1", got)
	}
	if got := s.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount() = %d, want 3", got)
	}
	if got := s.Area(); !near(got, 3, eps) {
		t.Errorf("Area() = %v, want 3", got)
	}
	if got := s.RenderGroupFormat(0); got != mesh.DefaultFormat() {
		t.Errorf("RenderGroupFormat(0) = %v, want default", got)
	}

	b := s.Bounds().AsRect()
	if b != (Rect{Min: Pt(0, -1), Max: Pt(4, 0)}) {
		t.Errorf("Bounds() = %+v, want (0,-1)-(4,0)", b)
	}

	if got := s.OutlineCount(0); got != 1 {
		t.Fatalf("OutlineCount(0) = %d, want 1", got)
	}
	if got := s.OutlineVertexCount(0, 0); got != 5 {
		t.Fatalf("OutlineVertexCount(0, 0) = %d, want 5", got)
	}
	want := []Point{Pt(0, 0), Pt(2, 0), Pt(4, 0), Pt(3, -1), Pt(1, -1)}
	for i, w := range want {
		if got := s.OutlinePosition(0, 0, i); got != w {
			t.Errorf("OutlinePosition(0, 0, %d) = %v, want %v", i, got, w)
		}
	}
	for i, p := range s.Outline(0, 0) {
		if p.MeshIndex != 0 {
			t.Errorf("Outline(0, 0)[%d].MeshIndex = %d, want 0", i, p.MeshIndex)
		}
	}
	if s.IsSpatialIndexInitialized() {
		t.Error("spatial index built during construction")
	}
}

func TestFromMutableMeshErrors(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *mesh.MutableMesh
		outlines [][]uint32
		want     error
		msg      string
	}{
		{"nil mesh", nil, nil, ErrInvalidArgument, "no triangles"},
		{"no triangles", mesh.NewMutableMesh(mesh.DefaultFormat()), nil, ErrInvalidArgument, "no triangles"},
		{"empty outline", makeStraightLine(2), [][]uint32{{}}, ErrInvalidArgument, "no points"},
		{"missing vertex", makeStraightLine(2), [][]uint32{{0, 7}}, ErrInvalidArgument, "non-existent vertex"},
		{
			name: "non-finite position",
			mesh: func() *mesh.MutableMesh {
				m := makeStraightLine(2)
				m.SetVertexPosition(1, f32.Vec2{float32(math.Inf(1)), 0})
				return m
			}(),
			want: ErrFailedPrecondition,
			msg:  "non-finite",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMutableMesh(tt.mesh, tt.outlines)
			if !errors.Is(err, tt.want) {
				t.Fatalf("FromMutableMesh() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestFromMutableMeshPartitionsLargeMesh(t *testing.T) {
	// 70000 triangles need 70002 vertices, more than one 16-bit mesh holds.
	const n = 70000
	s := mustShape(t, makeStraightLine(n), [][]uint32{{0, 65535, 65536, n + 1}})

	if got := s.MeshCount(); got != 2 {
		t.Fatalf("MeshCount() = %d, want 2", got)
	}
	if got := s.TriangleCount(); got != n {
		t.Errorf("TriangleCount() = %d, want %d", got, n)
	}
	for i, m := range s.Meshes() {
		if m.VertexCount() > 1<<16 {
			t.Errorf("mesh %d has %d vertices", i, m.VertexCount())
		}
	}
	want := []Point{Pt(0, 0), Pt(65535, -1), Pt(65536, 0), Pt(n+1, -1)}
	for i, w := range want {
		if got := s.OutlinePosition(0, 0, i); got != w {
			t.Errorf("OutlinePosition(0, 0, %d) = %v, want %v", i, got, w)
		}
	}

	// Triangles on both sides of the split are found by their position.
	for _, x := range []float64{100.5, 65534.5, 65535.5, n - 0.5} {
		got := intersected(s, Pt(x, -0.5))
		if len(got) == 0 {
			t.Errorf("no triangle found at x = %v", x)
			continue
		}
		for _, p := range got {
			tri := s.Triangle(p)
			if !tri.Contains(Pt(x, -0.5)) {
				t.Errorf("reported triangle %+v = %v does not contain x = %v", p, tri, x)
			}
		}
	}
}

func TestFromMutableMeshGroups(t *testing.T) {
	packed, err := mesh.NewFormat([]mesh.Attribute{{Type: mesh.Float2PackedInOneFloat, ID: mesh.Position}}, gputypes.IndexFormatUint16)
	if err != nil {
		t.Fatal(err)
	}
	second := mesh.NewMutableMesh(packed)
	for _, p := range []f32.Vec2{{10, 10}, {11, 10}, {10, 11}} {
		second.AppendVertex(p)
	}
	second.AppendTriangleIndices([3]uint32{0, 1, 2})

	s, err := FromMutableMeshGroups([]MutableMeshGroup{
		{Mesh: makeStraightLine(2), Outlines: [][]uint32{{0, 1}}},
		{Mesh: second, Outlines: [][]uint32{{2, 1, 0}}},
	})
	if err != nil {
		t.Fatalf("FromMutableMeshGroups() error = %v", err)
	}
	if got := s.RenderGroupCount(); got != 2 {
		t.Fatalf("RenderGroupCount() = %d, want 2", got)
	}
	if got := s.RenderGroupFormat(1); got != packed {
		t.Errorf("RenderGroupFormat(1) = %v, want %v", got, packed)
	}
	if got := len(s.RenderGroupMeshes(1)); got != 1 {
		t.Fatalf("len(RenderGroupMeshes(1)) = %d, want 1", got)
	}
	if s.RenderGroupMeshes(1)[0] != s.Meshes()[1] {
		t.Error("group 1 does not hold the second mesh")
	}
	// Outline mesh indices are relative to their group.
	if got := s.Outline(1, 0)[0]; got.MeshIndex != 0 {
		t.Errorf("Outline(1, 0)[0].MeshIndex = %d, want 0", got.MeshIndex)
	}
	if got := s.OutlinePosition(1, 0, 0); !pointsNear(got, Pt(10, 11), 1e-3) {
		t.Errorf("OutlinePosition(1, 0, 0) = %v, want (10, 11)", got)
	}
	if got := intersected(s, Pt(10.2, 10.2)); len(got) != 1 || got[0].MeshIndex != 1 {
		t.Errorf("query in second group = %v, want mesh 1", got)
	}

	_, err = FromMutableMeshGroups([]MutableMeshGroup{
		{Mesh: makeStraightLine(2)},
		{Mesh: makeStraightLine(2), Outlines: [][]uint32{{}}},
	})
	if !errors.Is(err, ErrInvalidArgument) || !strings.Contains(err.Error(), "render group 1") {
		t.Errorf("FromMutableMeshGroups() error = %v, want invalid argument in group 1", err)
	}
}

func TestFromMeshes(t *testing.T) {
	a := mustMeshes(t, makeStraightLine(3))
	b := mustMeshes(t, makeStraightLine(5))
	meshes := []*mesh.Mesh{a[0], b[0]}

	s, err := FromMeshes(meshes, [][]VertexIndexPair{
		{{MeshIndex: 0, VertexIndex: 0}, {MeshIndex: 1, VertexIndex: 6}},
	})
	if err != nil {
		t.Fatalf("FromMeshes() error = %v", err)
	}
	got := s.Meshes()
	if len(got) != 2 || got[0] != a[0] || got[1] != b[0] {
		t.Errorf("Meshes() = %v, want the input meshes", got)
	}
	if got := s.TriangleCount(); got != 8 {
		t.Errorf("TriangleCount() = %d, want 8", got)
	}
	if got := s.OutlinePosition(0, 0, 1); got != Pt(6, 0) {
		t.Errorf("OutlinePosition(0, 0, 1) = %v, want (6, 0)", got)
	}
	// Both meshes cover (2.5, -0.5); each reports its own triangles.
	want := []TriangleIndexPair{
		{MeshIndex: 0, TriangleIndex: 1}, {MeshIndex: 0, TriangleIndex: 2},
		{MeshIndex: 1, TriangleIndex: 1}, {MeshIndex: 1, TriangleIndex: 2},
	}
	if got := intersected(s, Pt(2.5, -0.5)); !equalPairs(got, want) {
		t.Errorf("intersected = %v, want %v", got, want)
	}
}

func TestFromMeshesEmpty(t *testing.T) {
	s, err := FromMeshes(nil, nil)
	if err != nil {
		t.Fatalf("FromMeshes(nil) error = %v", err)
	}
	if got := s.RenderGroupCount(); got != 1 {
		t.Errorf("RenderGroupCount() = %d, want 1", got)
	}
	if got := len(s.RenderGroupMeshes(0)); got != 0 {
		t.Errorf("len(RenderGroupMeshes(0)) = %d, want 0", got)
	}
	if !s.Bounds().IsEmpty() {
		t.Error("Bounds() is not empty")
	}
}

func TestFromMeshesErrors(t *testing.T) {
	line := mustMeshes(t, makeStraightLine(3))[0]
	packed, err := mesh.NewFormat([]mesh.Attribute{{Type: mesh.Float2PackedInOneFloat, ID: mesh.Position}}, gputypes.IndexFormatUint16)
	if err != nil {
		t.Fatal(err)
	}
	other := mustMeshes(t, func() *mesh.MutableMesh {
		m := mesh.NewMutableMesh(packed)
		for _, p := range []f32.Vec2{{0, 0}, {1, 0}, {0, 1}} {
			m.AppendVertex(p)
		}
		m.AppendTriangleIndices([3]uint32{0, 1, 2})
		return m
	}())[0]

	tests := []struct {
		name     string
		meshes   []*mesh.Mesh
		outlines [][]VertexIndexPair
		msg      string
	}{
		{"too many meshes", make([]*mesh.Mesh, mesh.MaxMeshes+1), nil, "too many meshes"},
		{"nil mesh", []*mesh.Mesh{line, nil}, nil, "no triangles"},
		{"mixed formats", []*mesh.Mesh{line, other}, nil, "same format"},
		{"empty outline", []*mesh.Mesh{line}, [][]VertexIndexPair{{}}, "no points"},
		{"missing mesh", []*mesh.Mesh{line}, [][]VertexIndexPair{{{MeshIndex: 1}}}, "non-existent mesh"},
		{"missing vertex", []*mesh.Mesh{line}, [][]VertexIndexPair{{{VertexIndex: 5}}}, "non-existent vertex"},
		{"outline without meshes", nil, [][]VertexIndexPair{{{}}}, "non-existent mesh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMeshes(tt.meshes, tt.outlines)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("FromMeshes() error = %v, want invalid argument", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestFromMeshGroups(t *testing.T) {
	a := mustMeshes(t, makeStraightLine(2))[0]
	b := mustMeshes(t, makeRisingSawtooth())[0]

	s, err := FromMeshGroups([]MeshGroup{
		{Meshes: []*mesh.Mesh{a}},
		{},
		{Meshes: []*mesh.Mesh{b}, Outlines: [][]VertexIndexPair{{{VertexIndex: 8}}}},
	})
	if err != nil {
		t.Fatalf("FromMeshGroups() error = %v", err)
	}
	if got := s.RenderGroupCount(); got != 3 {
		t.Fatalf("RenderGroupCount() = %d, want 3", got)
	}
	if got := len(s.RenderGroupMeshes(1)); got != 0 {
		t.Errorf("len(RenderGroupMeshes(1)) = %d, want 0", got)
	}
	if got := s.RenderGroupMeshes(2); len(got) != 1 || got[0] != b {
		t.Errorf("RenderGroupMeshes(2) = %v, want the sawtooth mesh", got)
	}
	if got := s.OutlinePosition(2, 0, 0); got != Pt(4, 4) {
		t.Errorf("OutlinePosition(2, 0, 0) = %v, want (4, 4)", got)
	}
	if got := s.Bounds().AsRect(); got != (Rect{Min: Pt(0, -1), Max: Pt(4, 4)}) {
		t.Errorf("Bounds() = %+v", got)
	}

	// The mesh limit applies to the sum over all groups.
	_, err = FromMeshGroups([]MeshGroup{
		{Meshes: make([]*mesh.Mesh, mesh.MaxMeshes)},
		{Meshes: []*mesh.Mesh{a}},
	})
	if !errors.Is(err, ErrInvalidArgument) || !strings.Contains(err.Error(), "too many meshes") {
		t.Errorf("FromMeshGroups() error = %v, want too many meshes", err)
	}
}

func TestFromMeshesCopiesOutlines(t *testing.T) {
	line := mustMeshes(t, makeStraightLine(3))[0]
	outline := []VertexIndexPair{{VertexIndex: 0}, {VertexIndex: 1}}
	s, err := FromMeshes([]*mesh.Mesh{line}, [][]VertexIndexPair{outline})
	if err != nil {
		t.Fatal(err)
	}
	outline[0].VertexIndex = 4
	if got := s.OutlinePosition(0, 0, 0); got != Pt(0, 0) {
		t.Errorf("OutlinePosition after caller edit = %v, want (0, 0)", got)
	}
	s.Outline(0, 0)[1].VertexIndex = 4
	if got := s.OutlinePosition(0, 0, 1); got != Pt(1, -1) {
		t.Errorf("OutlinePosition after editing Outline() result = %v, want (1, -1)", got)
	}
}

func TestShapeAccessorPanics(t *testing.T) {
	s := mustShape(t, makeStraightLine(3), [][]uint32{{0, 1, 2}})
	expectPanic(t, "RenderGroupMeshes(1)", func() { s.RenderGroupMeshes(1) })
	expectPanic(t, "RenderGroupFormat(-1)", func() { s.RenderGroupFormat(-1) })
	expectPanic(t, "OutlineCount(1)", func() { s.OutlineCount(1) })
	expectPanic(t, "Outline(0, 1)", func() { s.Outline(0, 1) })
	expectPanic(t, "OutlineVertexCount(0, 1)", func() { s.OutlineVertexCount(0, 1) })
	expectPanic(t, "OutlinePosition(0, 0, 3)", func() { s.OutlinePosition(0, 0, 3) })
	expectPanic(t, "Triangle(mesh 1)", func() { s.Triangle(TriangleIndexPair{MeshIndex: 1}) })
	expectPanic(t, "Triangle(triangle 3)", func() { s.Triangle(TriangleIndexPair{TriangleIndex: 3}) })
	expectPanic(t, "two transforms", func() {
		s.IntersectedTriangles(Pt(0, 0), Identity(), Identity())
	})
	expectPanic(t, "WithEmptyGroups(-1)", func() { WithEmptyGroups(-1) })
}

func TestShapeTriangle(t *testing.T) {
	s := mustShape(t, makeRisingSawtooth(), nil)
	got := s.Triangle(TriangleIndexPair{TriangleIndex: 2})
	want := Triangle{P0: Pt(2, 0), P1: Pt(3, 0), P2: Pt(3, 3)}
	if got != want {
		t.Errorf("Triangle(2) = %v, want %v", got, want)
	}
}

func TestSpatialIndexSharedAcrossCopies(t *testing.T) {
	s := mustShape(t, makeStraightLine(4), nil)
	before := s
	if s.IsSpatialIndexInitialized() || before.IsSpatialIndexInitialized() {
		t.Fatal("index built during construction")
	}

	s.InitializeSpatialIndex()
	after := s
	for name, c := range map[string]Shape{"original": s, "copy before": before, "copy after": after} {
		if !c.IsSpatialIndexInitialized() {
			t.Errorf("%s: IsSpatialIndexInitialized() = false", name)
		}
	}
	// A second call is a no-op.
	s.InitializeSpatialIndex()
}

func TestQueriesBuildSpatialIndex(t *testing.T) {
	tests := []struct {
		name string
		run  func(s Shape)
	}{
		{"visit", func(s Shape) { s.VisitIntersectedTriangles(Pt(100, 100), func(TriangleIndexPair) FlowControl { return Continue }) }},
		{"coverage", func(s Shape) { s.Coverage(Pt(100, 100)) }},
		{"coverage threshold", func(s Shape) { s.CoverageIsGreaterThan(Pt(100, 100), 0.5) }},
		{"clipped coverage", func(s Shape) { s.ClippedCoverage(Segment{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustShape(t, makeStraightLine(2), nil)
			copied := s
			tt.run(s)
			if !copied.IsSpatialIndexInitialized() {
				t.Error("query did not build the spatial index")
			}
		})
	}
}

func TestShapeQueryBuildsBothIndexes(t *testing.T) {
	target := mustShape(t, makeStraightLine(2), nil)
	query := mustShape(t, makeStraightLine(2), nil)
	target.Coverage(query)
	if !target.IsSpatialIndexInitialized() || !query.IsSpatialIndexInitialized() {
		t.Errorf("initialized: target %v, query %v; want both",
			target.IsSpatialIndexInitialized(), query.IsSpatialIndexInitialized())
	}
}

func TestConcurrentSpatialIndexBuild(t *testing.T) {
	s := mustShape(t, makeCoiledRing(200, 12), nil)
	const goroutines = 16
	results := make([][]TriangleIndexPair, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = intersected(s, Pt(0.8, 0.1))
		}()
	}
	wg.Wait()
	for i := 1; i < goroutines; i++ {
		if !equalPairs(results[i], results[0]) {
			t.Errorf("goroutine %d got %v, goroutine 0 got %v", i, results[i], results[0])
		}
	}
	if len(results[0]) == 0 {
		t.Error("no triangles found")
	}
}

func equalPairs(a, b []TriangleIndexPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
