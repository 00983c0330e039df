package modeled

import (
	"fmt"
	"slices"

	"github.com/gogpu/modeled/mesh"
)

// MutableMeshGroup describes one render group built by partitioning a
// mutable mesh. Outlines index vertices of Mesh.
type MutableMeshGroup struct {
	Mesh     *mesh.MutableMesh
	Outlines [][]uint32
	Options  []mesh.PartitionOption
}

// MeshGroup describes one render group built from finished meshes. The
// MeshIndex of each outline pair is relative to Meshes.
type MeshGroup struct {
	Meshes   []*mesh.Mesh
	Outlines [][]VertexIndexPair
}

// WithEmptyGroups returns a shape with n render groups and no meshes.
// It panics if n is negative.
func WithEmptyGroups(n int) Shape {
	if n < 0 {
		panic(fmt.Sprintf("modeled: negative render group count %d", n))
	}
	groups := make([]renderGroup, n)
	for i := range groups {
		groups[i].format = mesh.DefaultFormat()
	}
	return Shape{data: newShapeData(nil, groups)}
}

// FromMutableMesh partitions m into meshes that fit the index width of its
// format and returns a shape with a single render group holding them.
// Outlines index vertices of m and are remapped onto the partitions.
//
// It fails with ErrInvalidArgument if m has no triangles, if an outline is
// empty or refers to a vertex m does not have, and with
// ErrFailedPrecondition if a position is not finite.
func FromMutableMesh(m *mesh.MutableMesh, outlines [][]uint32, opts ...mesh.PartitionOption) (Shape, error) {
	return FromMutableMeshGroups([]MutableMeshGroup{{Mesh: m, Outlines: outlines, Options: opts}})
}

// FromMutableMeshGroups partitions each group's mesh and returns a shape
// with one render group per element of groups.
func FromMutableMeshGroups(groups []MutableMeshGroup) (Shape, error) {
	var meshes []*mesh.Mesh
	rgs := make([]renderGroup, len(groups))
	for i, g := range groups {
		if g.Mesh == nil {
			return Shape{}, fmt.Errorf("modeled: render group %d: %w",
				i, errorf(CodeInvalidArgument, "mesh contains no triangles"))
		}
		p, err := mesh.Partition(g.Mesh, g.Outlines, g.Options...)
		if err != nil {
			return Shape{}, fmt.Errorf("modeled: render group %d: %w", i, err)
		}
		if len(meshes)+len(p.Meshes) > mesh.MaxMeshes {
			return Shape{}, errorf(CodeInvalidArgument,
				"too many meshes: %d exceeds the maximum of %d", len(meshes)+len(p.Meshes), mesh.MaxMeshes)
		}
		rgs[i] = renderGroup{
			format:   p.Meshes[0].Format(),
			first:    len(meshes),
			count:    len(p.Meshes),
			outlines: p.Outlines,
		}
		meshes = append(meshes, p.Meshes...)
	}
	return Shape{data: newShapeData(meshes, rgs)}, nil
}

// FromMeshes returns a shape with a single render group holding meshes.
// An empty meshes slice gives a shape with one empty group.
//
// It fails with ErrInvalidArgument if there are more than 65535 meshes, if
// a mesh has no triangles, if the meshes do not share one format, or if an
// outline is empty or refers to a mesh or vertex that does not exist.
func FromMeshes(meshes []*mesh.Mesh, outlines [][]VertexIndexPair) (Shape, error) {
	return FromMeshGroups([]MeshGroup{{Meshes: meshes, Outlines: outlines}})
}

// FromMeshGroups returns a shape with one render group per element of
// groups. Meshes are used as given; nothing is partitioned.
func FromMeshGroups(groups []MeshGroup) (Shape, error) {
	total := 0
	for _, g := range groups {
		total += len(g.Meshes)
	}
	if total > mesh.MaxMeshes {
		return Shape{}, errorf(CodeInvalidArgument,
			"too many meshes: %d exceeds the maximum of %d", total, mesh.MaxMeshes)
	}

	meshes := make([]*mesh.Mesh, 0, total)
	rgs := make([]renderGroup, len(groups))
	for i, g := range groups {
		if err := validateMeshGroup(g); err != nil {
			return Shape{}, fmt.Errorf("modeled: render group %d: %w", i, err)
		}
		format := mesh.DefaultFormat()
		if len(g.Meshes) > 0 {
			format = g.Meshes[0].Format()
		}
		outlines := make([][]VertexIndexPair, len(g.Outlines))
		for j, o := range g.Outlines {
			outlines[j] = slices.Clone(o)
		}
		rgs[i] = renderGroup{
			format:   format,
			first:    len(meshes),
			count:    len(g.Meshes),
			outlines: outlines,
		}
		meshes = append(meshes, g.Meshes...)
	}
	return Shape{data: newShapeData(meshes, rgs)}, nil
}

func validateMeshGroup(g MeshGroup) error {
	for i, m := range g.Meshes {
		if m == nil || m.TriangleCount() == 0 {
			return errorf(CodeInvalidArgument, "mesh at index %d contains no triangles", i)
		}
		if m.Format() != g.Meshes[0].Format() {
			return errorf(CodeInvalidArgument,
				"meshes must have the same format: mesh at index %d has format %v, mesh at index 0 has format %v",
				i, m.Format(), g.Meshes[0].Format())
		}
	}
	for i, o := range g.Outlines {
		if len(o) == 0 {
			return errorf(CodeInvalidArgument, "outline at index %d contains no points", i)
		}
		for j, p := range o {
			if int(p.MeshIndex) >= len(g.Meshes) {
				return errorf(CodeInvalidArgument,
					"vertex %d of outline %d refers to non-existent mesh %d", j, i, p.MeshIndex)
			}
			if n := g.Meshes[p.MeshIndex].VertexCount(); int(p.VertexIndex) >= n {
				return errorf(CodeInvalidArgument,
					"vertex %d of outline %d refers to non-existent vertex %d of mesh %d (vertex count %d)",
					j, i, p.VertexIndex, p.MeshIndex, n)
			}
		}
	}
	return nil
}
