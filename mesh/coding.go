package mesh

import "github.com/chewxy/math32"

// ComponentCoding maps a packed integer code to a float value:
// value = Offset + Scale*code.
type ComponentCoding struct {
	Offset float32
	Scale  float32
}

// CodingParams holds one ComponentCoding per attribute component. Unpacked
// attributes have no coding params.
type CodingParams struct {
	Components []ComponentCoding
}

// Decode returns the value of component i for the given code.
func (p CodingParams) Decode(i int, code uint32) float32 {
	c := p.Components[i]
	return c.Offset + c.Scale*float32(code)
}

// encode quantises v for component i. The second result is false when v
// falls outside the codes representable with maxCode. With clamp set,
// rounding error at the ends of the range is absorbed instead.
func (p CodingParams) encode(i int, v float32, maxCode uint32, clamp bool) (uint32, bool) {
	c := p.Components[i]
	q := math32.Round((v - c.Offset) / c.Scale)
	if clamp {
		q = math32.Min(math32.Max(q, 0), float32(maxCode))
	}
	if math32.IsNaN(q) || q < 0 || q > float32(maxCode) {
		return 0, false
	}
	return uint32(q), true
}

// validate checks that p can be used for an attribute of type t.
func (p CodingParams) validate(t AttributeType) error {
	if len(p.Components) != t.ComponentCount() {
		return errorf(CodeInvalidArgument, "coding params have %d components, attribute type %v has %d",
			len(p.Components), t, t.ComponentCount())
	}
	for i, c := range p.Components {
		if !isFinite32(c.Offset) || !isFinite32(c.Scale) || c.Scale <= 0 {
			return errorf(CodeInvalidArgument, "coding params component %d must have a finite offset and a positive finite scale", i)
		}
	}
	return nil
}

// fitCodingParams returns params that spread the codes of t over the range
// [mins[i], maxs[i]] of each component. A component with a single value
// gets scale 1.
func fitCodingParams(t AttributeType, mins, maxs []float32) (CodingParams, error) {
	maxCode := float32(t.MaxCode())
	p := CodingParams{Components: make([]ComponentCoding, len(mins))}
	for i := range mins {
		span := maxs[i] - mins[i]
		if math32.IsInf(span, 0) {
			return CodingParams{}, errorf(CodeFailedPrecondition, "attribute value range overflows float32")
		}
		scale := span / maxCode
		if scale == 0 {
			scale = 1
		}
		p.Components[i] = ComponentCoding{Offset: mins[i], Scale: scale}
	}
	return p, nil
}

func isFinite32(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
