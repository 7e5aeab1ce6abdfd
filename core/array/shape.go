package array

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// Shape is the extent of an Array along each axis. A zero-length Shape
// describes a 0-d (scalar) array holding one element.
type Shape []int

// NumElements returns the product of the extents.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// NDim returns the number of axes.
func (s Shape) NDim() int {
	return len(s)
}

// Validate rejects negative extents.
func (s Shape) Validate() error {
	for i, d := range s {
		if d < 0 {
			return errors.NewValueError("Shape.Validate",
				fmt.Sprintf("negative dimension %d at axis %d", d, i))
		}
	}
	return nil
}

// Equal reports whether both shapes have the same rank and extents.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// ComputeStrides returns row-major strides, in elements, for a contiguous
// array of this shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// resolveReshape fills in a single -1 extent so that the result holds n elements.
func resolveReshape(n int, dims []int) (Shape, error) {
	out := make(Shape, len(dims))
	infer := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if infer >= 0 {
				return nil, errors.NewValueError("Array.Reshape", "can only specify one unknown dimension")
			}
			infer = i
		case d < 0:
			return nil, errors.NewValueError("Array.Reshape",
				fmt.Sprintf("negative dimension %d", d))
		default:
			known *= d
		}
		out[i] = d
	}
	if infer >= 0 {
		if known == 0 || n%known != 0 {
			return nil, errors.NewValueError("Array.Reshape",
				fmt.Sprintf("cannot reshape array of size %d into shape %v", n, dims))
		}
		out[infer] = n / known
	}
	if out.NumElements() != n {
		return nil, errors.NewValueError("Array.Reshape",
			fmt.Sprintf("cannot reshape array of size %d into shape %s", n, out))
	}
	return out, nil
}
