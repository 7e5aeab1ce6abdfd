package array

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// storage is the backing store shared by an owner and all of its views.
type storage struct {
	data []float64
}

// Array is a strided view over a shared float64 store.
type Array struct {
	store   *storage
	shape   Shape
	strides []int // in elements, may be negative
	offset  int   // position of the first logical element in store.data
	base    *Array
}

func newOwner(data []float64, shape Shape) *Array {
	return &Array{
		store:   &storage{data: data},
		shape:   shape,
		strides: shape.ComputeStrides(),
	}
}

// FromSlice copies data into a new Array. With no shape the result is 1-D.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	s := Shape(shape)
	if len(shape) == 0 {
		s = Shape{len(data)}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(data) {
		return nil, errors.NewValueError("array.FromSlice",
			fmt.Sprintf("cannot shape %d values into %s", len(data), s))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return newOwner(buf, s.Clone()), nil
}

// Vector returns a new 1-D Array holding values.
func Vector(values ...float64) *Array {
	buf := make([]float64, len(values))
	copy(buf, values)
	return newOwner(buf, Shape{len(buf)})
}

// Arange returns the 1-D Array [0, 1, ..., n-1].
func Arange(n int) *Array {
	if n < 0 {
		n = 0
	}
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = float64(i)
	}
	return newOwner(buf, Shape{n})
}

// Zeros returns a new zero-filled Array.
func Zeros(shape ...int) (*Array, error) {
	return Full(0, shape...)
}

// Full returns a new Array with every element set to value.
func Full(value float64, shape ...int) (*Array, error) {
	s := Shape(shape).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	buf := make([]float64, s.NumElements())
	if value != 0 {
		for i := range buf {
			buf[i] = value
		}
	}
	return newOwner(buf, s), nil
}

// Shape returns a copy of the extents.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// NDim returns the number of axes.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the number of elements.
func (a *Array) Size() int { return a.shape.NumElements() }

// Strides returns a copy of the per-axis strides, in elements.
func (a *Array) Strides() []int {
	out := make([]int, len(a.strides))
	copy(out, a.strides)
	return out
}

// Base returns the Array that owns the storage a views, or nil when a owns
// its storage.
func (a *Array) Base() *Array { return a.base }

// OwnsData reports whether a allocated its own storage.
func (a *Array) OwnsData() bool { return a.base == nil }

func (a *Array) root() *Array {
	if a.base != nil {
		return a.base
	}
	return a
}

func (a *Array) view(shape Shape, strides []int, offset int) *Array {
	return &Array{
		store:   a.store,
		shape:   shape,
		strides: strides,
		offset:  offset,
		base:    a.root(),
	}
}

// SharesMemory reports whether a and b reference at least one common element.
func SharesMemory(a, b *Array) bool {
	if a == nil || b == nil || a.store != b.store {
		return false
	}
	if a.Size() == 0 || b.Size() == 0 {
		return false
	}
	small, large := a, b
	if small.Size() > large.Size() {
		small, large = large, small
	}
	seen := make(map[int]struct{}, small.Size())
	for _, off := range small.offsets() {
		seen[off] = struct{}{}
	}
	for _, off := range large.offsets() {
		if _, ok := seen[off]; ok {
			return true
		}
	}
	return false
}

// offsets returns the store position of every element in row-major order.
func (a *Array) offsets() []int {
	n := a.Size()
	out := make([]int, n)
	if n == 0 {
		return out
	}
	if a.IsContiguous() {
		for k := range out {
			out[k] = a.offset + k
		}
		return out
	}

	nd := len(a.shape)
	idx := make([]int, nd)
	off := a.offset
	for k := 0; k < n; k++ {
		out[k] = off
		for ax := nd - 1; ax >= 0; ax-- {
			idx[ax]++
			off += a.strides[ax]
			if idx[ax] < a.shape[ax] {
				break
			}
			off -= a.strides[ax] * a.shape[ax]
			idx[ax] = 0
		}
	}
	return out
}

// normalizeIndex maps i in [-n, n) to [0, n).
func normalizeIndex(op string, i, axis, n int) (int, error) {
	if i < -n || i >= n {
		return 0, errors.NewIndexError(op, i, axis, n)
	}
	if i < 0 {
		i += n
	}
	return i, nil
}

func (a *Array) normalizeAxis(op string, axis int) (int, error) {
	nd := len(a.shape)
	if axis < -nd || axis >= nd {
		return 0, errors.NewValueError(op,
			fmt.Sprintf("axis %d is out of bounds for array of dimension %d", axis, nd))
	}
	if axis < 0 {
		axis += nd
	}
	return axis, nil
}

func (a *Array) elementOffset(op string, idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, errors.NewValueError(op,
			fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(idx)))
	}
	off := a.offset
	for ax, i := range idx {
		n, err := normalizeIndex(op, i, ax, a.shape[ax])
		if err != nil {
			return 0, err
		}
		off += n * a.strides[ax]
	}
	return off, nil
}

// Get returns the element at idx. Negative indices count from the end.
func (a *Array) Get(idx ...int) (float64, error) {
	off, err := a.elementOffset("Array.Get", idx)
	if err != nil {
		return 0, err
	}
	return a.store.data[off], nil
}

// Set writes v at idx. The write is visible through every view sharing a's storage.
func (a *Array) Set(v float64, idx ...int) error {
	off, err := a.elementOffset("Array.Set", idx)
	if err != nil {
		return err
	}
	a.store.data[off] = v
	return nil
}

// Item returns the only element of a size-1 Array.
func (a *Array) Item() (float64, error) {
	if a.Size() != 1 {
		return 0, errors.NewValueError("Array.Item",
			fmt.Sprintf("can only convert an array of size 1, got size %d", a.Size()))
	}
	return a.store.data[a.offset], nil
}

// ToSlice copies the elements out in row-major order.
func (a *Array) ToSlice() []float64 {
	out := make([]float64, a.Size())
	if len(out) == 0 {
		return out
	}
	if a.IsContiguous() {
		copy(out, a.store.data[a.offset:a.offset+len(out)])
		return out
	}
	for k, off := range a.offsets() {
		out[k] = a.store.data[off]
	}
	return out
}

// Copy returns a contiguous Array with its own storage.
func (a *Array) Copy() *Array {
	return newOwner(a.ToSlice(), a.shape.Clone())
}

// Equal reports whether a and b have the same shape and elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.shape.Equal(b.shape) {
		return false
	}
	av, bv := a.ToSlice(), b.ToSlice()
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

// String renders a the way NumPy prints arrays, e.g. [[0 1] [2 3]].
func (a *Array) String() string {
	values := a.ToSlice()
	if len(a.shape) == 0 {
		return formatValue(values[0])
	}
	var sb strings.Builder
	pos := 0
	var write func(axis int)
	write = func(axis int) {
		sb.WriteByte('[')
		for i := 0; i < a.shape[axis]; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if axis == len(a.shape)-1 {
				sb.WriteString(formatValue(values[pos]))
				pos++
			} else {
				write(axis + 1)
			}
		}
		sb.WriteByte(']')
	}
	write(0)
	return sb.String()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
