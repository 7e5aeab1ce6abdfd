package array

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

var _ mat.Matrix = (*Array)(nil)

// Dims returns the matrix dimensions of a 2-D array. A 1-D array of length n
// is treated as an n×1 column. Dims panics for any other rank, as gonum does
// for invalid matrices.
func (a *Array) Dims() (r, c int) {
	switch len(a.shape) {
	case 1:
		return a.shape[0], 1
	case 2:
		return a.shape[0], a.shape[1]
	default:
		panic(errors.NewValueError("Array.Dims",
			fmt.Sprintf("array of dimension %d is not a matrix", len(a.shape))))
	}
}

func (a *Array) matrixStrides() (int, int) {
	if len(a.shape) == 1 {
		return a.strides[0], 0
	}
	return a.strides[0], a.strides[1]
}

// At returns the element at row i, column j. It panics on out-of-range
// access, following mat.Matrix.
func (a *Array) At(i, j int) float64 {
	r, c := a.Dims()
	if uint(i) >= uint(r) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(c) {
		panic(mat.ErrColAccess)
	}
	rs, cs := a.matrixStrides()
	return a.store.data[a.offset+i*rs+j*cs]
}

// T returns the transpose. For a 2-D array this is a view.
func (a *Array) T() mat.Matrix {
	if len(a.shape) == 2 {
		return a.Transpose()
	}
	return mat.Transpose{Matrix: a}
}

// Dense returns a as a *mat.Dense. When each row is a unit-stride run the
// Dense aliases a's storage; otherwise the elements are copied.
func (a *Array) Dense() (*mat.Dense, error) {
	if len(a.shape) != 1 && len(a.shape) != 2 {
		return nil, errors.NewValueError("Array.Dense",
			fmt.Sprintf("array of dimension %d is not a matrix", len(a.shape)))
	}
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("Array.Dense", "zero-size array cannot be a matrix")
	}

	rs, cs := a.matrixStrides()
	if r == 1 {
		rs = c
	}
	if (cs == 1 || c == 1) && rs >= c {
		end := a.offset + (r-1)*rs + c
		var d mat.Dense
		d.SetRawMatrix(blas64.General{
			Rows:   r,
			Cols:   c,
			Stride: rs,
			Data:   a.store.data[a.offset:end],
		})
		return &d, nil
	}
	return mat.NewDense(r, c, a.ToSlice()), nil
}

// FromMatrix copies m into a new r×c Array.
func FromMatrix(m mat.Matrix) *Array {
	r, c := m.Dims()
	buf := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			buf[i*c+j] = m.At(i, j)
		}
	}
	return newOwner(buf, Shape{r, c})
}

// Column returns a as an n×1 Array. The result is a view when a is 1-D or
// already a column.
func Column(a *Array) (*Array, error) {
	switch {
	case len(a.shape) == 1:
		return a.view(Shape{a.shape[0], 1}, []int{a.strides[0], 1}, a.offset), nil
	case len(a.shape) == 2 && a.shape[1] == 1:
		return a, nil
	case len(a.shape) == 0:
		return nil, errors.NewValueError("array.Column", "0-d array has no column form")
	default:
		return nil, errors.NewDimensionError("array.Column", 1, a.shape[len(a.shape)-1], len(a.shape)-1)
	}
}
