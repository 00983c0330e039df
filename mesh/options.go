package mesh

// PartitionOption configures Partition and MutableMesh.AsMeshes.
//
// Example:
//
//	// Drop texture coordinates and fix the position coding.
//	p, err := mesh.Partition(m, outlines,
//	    mesh.WithOmittedAttributes(mesh.Texture),
//	    mesh.WithCodingParams(mesh.Position, params))
type PartitionOption func(*partitionOptions)

// partitionOptions holds optional configuration for partitioning.
type partitionOptions struct {
	omitted []AttributeID
	coding  map[AttributeID]CodingParams
}

// WithOmittedAttributes removes the given attributes from the output
// format. The position attribute cannot be omitted.
func WithOmittedAttributes(ids ...AttributeID) PartitionOption {
	return func(o *partitionOptions) {
		o.omitted = append(o.omitted, ids...)
	}
}

// WithCodingParams replaces the per-partition coding params of a packed
// attribute with fixed ones. Every value of the attribute must then be
// representable, or partitioning fails with an ErrInvalidArgument error.
func WithCodingParams(id AttributeID, params CodingParams) PartitionOption {
	return func(o *partitionOptions) {
		if o.coding == nil {
			o.coding = make(map[AttributeID]CodingParams)
		}
		o.coding[id] = params
	}
}
