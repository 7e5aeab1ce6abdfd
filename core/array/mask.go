package array

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// Mask is a boolean array used to select elements. Comparisons on an Array
// return a Mask with the same shape.
type Mask struct {
	values []bool
	shape  Shape
}

// NewMask returns a 1-D mask.
func NewMask(values ...bool) Mask {
	buf := make([]bool, len(values))
	copy(buf, values)
	return Mask{values: buf, shape: Shape{len(buf)}}
}

// MaskFromSlice shapes values into a mask. With no shape the result is 1-D.
func MaskFromSlice(values []bool, shape ...int) (Mask, error) {
	s := Shape(shape).Clone()
	if len(shape) == 0 {
		s = Shape{len(values)}
	}
	if err := s.Validate(); err != nil {
		return Mask{}, err
	}
	if s.NumElements() != len(values) {
		return Mask{}, errors.NewValueError("array.MaskFromSlice",
			fmt.Sprintf("cannot shape %d values into %s", len(values), s))
	}
	buf := make([]bool, len(values))
	copy(buf, values)
	return Mask{values: buf, shape: s}, nil
}

func (Mask) Kind() IndexKind { return KindMask }
func (Mask) isExpr()         {}

// Len returns the number of entries.
func (m Mask) Len() int { return len(m.values) }

// Shape returns a copy of the mask's extents. The zero Mask is 1-D and empty.
func (m Mask) Shape() Shape {
	if m.shape == nil {
		return Shape{len(m.values)}
	}
	return m.shape.Clone()
}

// NDim returns the number of axes.
func (m Mask) NDim() int {
	if m.shape == nil {
		return 1
	}
	return len(m.shape)
}

// Values returns a copy of the entries in row-major order.
func (m Mask) Values() []bool {
	out := make([]bool, len(m.values))
	copy(out, m.values)
	return out
}

// Count returns the number of true entries.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.values {
		if v {
			n++
		}
	}
	return n
}

// Nonzero returns the flat positions of the true entries.
func (m Mask) Nonzero() Indices {
	out := make(Indices, 0, m.Count())
	for i, v := range m.values {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// Not returns the element-wise negation.
func (m Mask) Not() Mask {
	out := make([]bool, len(m.values))
	for i, v := range m.values {
		out[i] = !v
	}
	return Mask{values: out, shape: m.shape.Clone()}
}

// And returns the element-wise conjunction. Shapes must match.
func (m Mask) And(other Mask) (Mask, error) {
	return m.combine("Mask.And", other, func(x, y bool) bool { return x && y })
}

// Or returns the element-wise disjunction. Shapes must match.
func (m Mask) Or(other Mask) (Mask, error) {
	return m.combine("Mask.Or", other, func(x, y bool) bool { return x || y })
}

func (m Mask) combine(op string, other Mask, fn func(x, y bool) bool) (Mask, error) {
	ms, os := m.Shape(), other.Shape()
	if !ms.Equal(os) {
		if len(ms) != len(os) {
			return Mask{}, errors.NewDimensionError(op, len(ms), len(os), 0)
		}
		for d := range ms {
			if ms[d] != os[d] {
				return Mask{}, errors.NewDimensionError(op, ms[d], os[d], d)
			}
		}
	}
	out := make([]bool, len(m.values))
	for i := range out {
		out[i] = fn(m.values[i], other.values[i])
	}
	return Mask{values: out, shape: ms}, nil
}

func (m Mask) String() string {
	parts := make([]string, len(m.values))
	for i, v := range m.values {
		if v {
			parts[i] = "True"
		} else {
			parts[i] = "False"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
