package array

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/arraylab/core/parallel"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// parallelThreshold is the element count above which element-wise passes
// are split across cores.
const parallelThreshold = 1 << 15

// Apply replaces every element x with fn(x) in place. fn may be called
// concurrently for large arrays.
func (a *Array) Apply(fn func(x float64) float64) {
	data := a.store.data
	n := a.Size()
	if n == 0 {
		return
	}
	if a.IsContiguous() {
		run := data[a.offset : a.offset+n]
		parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				run[i] = fn(run[i])
			}
		})
		return
	}
	offs := a.offsets()
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for _, off := range offs[start:end] {
			data[off] = fn(data[off])
		}
	})
}

// Map returns a new Array holding fn applied to every element.
func (a *Array) Map(fn func(x float64) float64) *Array {
	c := a.Copy()
	c.Apply(fn)
	return c
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	a.Apply(func(float64) float64 { return v })
}

// AddScalar adds v to every element in place.
func (a *Array) AddScalar(v float64) {
	a.Apply(func(x float64) float64 { return x + v })
}

// MulScalar multiplies every element by v in place.
func (a *Array) MulScalar(v float64) {
	a.Apply(func(x float64) float64 { return x * v })
}

func (a *Array) compare(pred func(x float64) bool) Mask {
	values := a.ToSlice()
	out := make([]bool, len(values))
	parallel.ParallelizeWithThreshold(len(values), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = pred(values[i])
		}
	})
	return Mask{values: out, shape: a.shape.Clone()}
}

// Less returns the mask a < v.
func (a *Array) Less(v float64) Mask {
	return a.compare(func(x float64) bool { return x < v })
}

// LessEqual returns the mask a <= v.
func (a *Array) LessEqual(v float64) Mask {
	return a.compare(func(x float64) bool { return x <= v })
}

// Greater returns the mask a > v.
func (a *Array) Greater(v float64) Mask {
	return a.compare(func(x float64) bool { return x > v })
}

// GreaterEqual returns the mask a >= v.
func (a *Array) GreaterEqual(v float64) Mask {
	return a.compare(func(x float64) bool { return x >= v })
}

// EqualTo returns the mask a == v.
func (a *Array) EqualTo(v float64) Mask {
	return a.compare(func(x float64) bool { return x == v })
}

// NotEqual returns the mask a != v.
func (a *Array) NotEqual(v float64) Mask {
	return a.compare(func(x float64) bool { return x != v })
}

// Sum returns the sum of all elements, 0 for an empty array.
func (a *Array) Sum() float64 {
	return floats.Sum(a.ToSlice())
}

// Mean returns the arithmetic mean, NaN for an empty array.
func (a *Array) Mean() float64 {
	n := a.Size()
	if n == 0 {
		return math.NaN()
	}
	return a.Sum() / float64(n)
}

// Min returns the smallest element.
func (a *Array) Min() (float64, error) {
	if a.Size() == 0 {
		return 0, errors.NewValueError("Array.Min", "zero-size array has no minimum")
	}
	return floats.Min(a.ToSlice()), nil
}

// Max returns the largest element.
func (a *Array) Max() (float64, error) {
	if a.Size() == 0 {
		return 0, errors.NewValueError("Array.Max", "zero-size array has no maximum")
	}
	return floats.Max(a.ToSlice()), nil
}
