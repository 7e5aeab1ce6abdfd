package array

import (
	"fmt"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// IndexKind names the variant of an index expression.
type IndexKind int

const (
	KindSlice IndexKind = iota
	KindInt
	KindMask
	KindIndices
)

func (k IndexKind) String() string {
	switch k {
	case KindSlice:
		return "slice"
	case KindInt:
		return "int"
	case KindMask:
		return "mask"
	case KindIndices:
		return "indices"
	default:
		return "unknown"
	}
}

// IsView reports whether indexing with this kind shares storage with the source.
func (k IndexKind) IsView() bool {
	return k == KindSlice || k == KindInt
}

// Expr is an index expression: a Slice, an Int, a Mask or Indices. The set
// is closed; other packages cannot add variants.
type Expr interface {
	Kind() IndexKind
	isExpr()
}

// Slice selects start:stop:step along an axis with Python semantics. The
// zero value selects the whole axis.
type Slice struct {
	start, stop       int
	hasStart, hasStop bool
	step              int
	hasStep           bool
}

// All returns the slice [:].
func All() Slice { return Slice{} }

// Span returns the slice [start:stop].
func Span(start, stop int) Slice {
	return Slice{start: start, stop: stop, hasStart: true, hasStop: true}
}

// From returns the slice [start:].
func From(start int) Slice { return Slice{start: start, hasStart: true} }

// To returns the slice [:stop].
func To(stop int) Slice { return Slice{stop: stop, hasStop: true} }

// By returns s with the given step. A zero step is rejected at indexing time.
func (s Slice) By(step int) Slice {
	s.step = step
	s.hasStep = true
	return s
}

func (Slice) Kind() IndexKind { return KindSlice }
func (Slice) isExpr()         {}

func (s Slice) String() string {
	out := ""
	if s.hasStart {
		out += fmt.Sprint(s.start)
	}
	out += ":"
	if s.hasStop {
		out += fmt.Sprint(s.stop)
	}
	if s.hasStep {
		out += ":" + fmt.Sprint(s.step)
	}
	return out
}

// bounds resolves s against an axis of length n. It returns the first
// position, the step and the number of selected positions.
func (s Slice) bounds(n int) (start, step, count int, err error) {
	step = 1
	if s.hasStep {
		step = s.step
	}
	if step == 0 {
		return 0, 0, 0, errors.NewValueError("Slice", "slice step cannot be zero")
	}

	var stop int
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if s.hasStart {
		start = clampBound(s.start, n, step)
	}
	if s.hasStop {
		stop = clampBound(s.stop, n, step)
	}

	switch {
	case step > 0 && start < stop:
		count = (stop-start-1)/step + 1
	case step < 0 && stop < start:
		count = (start-stop-1)/(-step) + 1
	}
	return start, step, count, nil
}

func clampBound(i, n, step int) int {
	if i < 0 {
		i += n
		if i < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return i
	}
	if i >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return i
}

// Int selects a single position along an axis and drops that axis.
type Int int

func (Int) Kind() IndexKind { return KindInt }
func (Int) isExpr()         {}

// Indices selects positions along an axis, in order, repeats allowed.
// Negative values count from the end.
type Indices []int

func (Indices) Kind() IndexKind { return KindIndices }
func (Indices) isExpr()         {}

// Index applies expr to the first axis of a.
func Index(a *Array, expr Expr) (*Array, error) {
	return a.IndexAxis(0, expr)
}

// Index applies expr to the first axis. Slice and Int return views; Mask and
// Indices return copies.
func (a *Array) Index(expr Expr) (*Array, error) {
	return a.IndexAxis(0, expr)
}

// IndexAxis applies expr along axis.
func (a *Array) IndexAxis(axis int, expr Expr) (*Array, error) {
	const op = "Array.Index"
	if expr == nil {
		return nil, errors.NewValueError(op, "nil index expression")
	}
	ax, err := a.normalizeAxis(op, axis)
	if err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case Slice:
		return a.sliceAxis(ax, e)
	case Int:
		return a.intAxis(ax, int(e))
	case Indices, Mask:
		offs, shape, err := a.gather(ax, expr)
		if err != nil {
			return nil, err
		}
		buf := make([]float64, len(offs))
		for k, off := range offs {
			buf[k] = a.store.data[off]
		}
		return newOwner(buf, shape), nil
	default:
		return nil, errors.NewValueError(op, fmt.Sprintf("unsupported index expression %T", expr))
	}
}

func (a *Array) sliceAxis(ax int, s Slice) (*Array, error) {
	start, step, count, err := s.bounds(a.shape[ax])
	if err != nil {
		return nil, err
	}
	shape := a.shape.Clone()
	strides := a.Strides()
	offset := a.offset
	if count > 0 {
		offset += start * a.strides[ax]
	}
	shape[ax] = count
	strides[ax] *= step
	return a.view(shape, strides, offset), nil
}

func (a *Array) intAxis(ax, i int) (*Array, error) {
	n, err := normalizeIndex("Array.Index", i, ax, a.shape[ax])
	if err != nil {
		return nil, err
	}
	shape := make(Shape, 0, len(a.shape)-1)
	strides := make([]int, 0, len(a.shape)-1)
	for d := range a.shape {
		if d == ax {
			continue
		}
		shape = append(shape, a.shape[d])
		strides = append(strides, a.strides[d])
	}
	return a.view(shape, strides, a.offset+n*a.strides[ax]), nil
}

// axisSteps returns, per axis, the store offset contributed by each position.
func (a *Array) axisSteps() [][]int {
	steps := make([][]int, len(a.shape))
	for ax, n := range a.shape {
		steps[ax] = make([]int, n)
		for i := range steps[ax] {
			steps[ax][i] = i * a.strides[ax]
		}
	}
	return steps
}

// gather resolves a copying expression into the store offsets it selects,
// in row-major order, plus the shape of the result.
func (a *Array) gather(ax int, expr Expr) ([]int, Shape, error) {
	const op = "Array.Index"
	steps := a.axisSteps()

	switch e := expr.(type) {
	case Indices:
		picked := make([]int, len(e))
		for k, i := range e {
			n, err := normalizeIndex(op, i, ax, a.shape[ax])
			if err != nil {
				return nil, nil, err
			}
			picked[k] = n * a.strides[ax]
		}
		steps[ax] = picked
		shape := a.shape.Clone()
		shape[ax] = len(e)
		return cartesian(a.offset, steps), shape, nil

	case Mask:
		if e.NDim() == 1 {
			if e.Len() != a.shape[ax] {
				return nil, nil, errors.NewDimensionError(op, a.shape[ax], e.Len(), ax)
			}
			picked := make([]int, 0, e.Count())
			for i, keep := range e.values {
				if keep {
					picked = append(picked, i*a.strides[ax])
				}
			}
			steps[ax] = picked
			shape := a.shape.Clone()
			shape[ax] = len(picked)
			return cartesian(a.offset, steps), shape, nil
		}

		// A k-d mask covers the leading k axes and collapses them into one.
		if ax != 0 || e.NDim() > len(a.shape) {
			return nil, nil, errors.NewDimensionError(op, len(a.shape)-ax, e.NDim(), ax)
		}
		for d, n := range e.shape {
			if a.shape[d] != n {
				return nil, nil, errors.NewDimensionError(op, a.shape[d], n, d)
			}
		}
		k := e.NDim()
		lead := cartesian(0, steps[:k])
		picked := make([]int, 0, e.Count())
		for i, keep := range e.values {
			if keep {
				picked = append(picked, lead[i])
			}
		}
		rest := append([][]int{picked}, steps[k:]...)
		shape := append(Shape{len(picked)}, a.shape[k:]...)
		return cartesian(a.offset, rest), shape, nil
	}
	return nil, nil, errors.NewValueError(op, fmt.Sprintf("%T does not copy", expr))
}

// cartesian sums one contribution per axis for every combination, with the
// last axis varying fastest.
func cartesian(base int, axes [][]int) []int {
	n := 1
	for _, steps := range axes {
		n *= len(steps)
	}
	out := make([]int, 0, n)
	if n == 0 {
		return out
	}
	var walk func(d, off int)
	walk = func(d, off int) {
		if d == len(axes) {
			out = append(out, off)
			return
		}
		for _, s := range axes[d] {
			walk(d+1, off+s)
		}
	}
	walk(0, base)
	return out
}

// selection returns the store offsets expr selects along axis, whatever its kind.
func (a *Array) selection(op string, axis int, expr Expr) ([]int, error) {
	if expr == nil {
		return nil, errors.NewValueError(op, "nil index expression")
	}
	ax, err := a.normalizeAxis(op, axis)
	if err != nil {
		return nil, err
	}
	if expr.Kind().IsView() {
		v, err := a.IndexAxis(ax, expr)
		if err != nil {
			return nil, err
		}
		return v.offsets(), nil
	}
	offs, _, err := a.gather(ax, expr)
	return offs, err
}

// Assign writes value into every position expr selects on the first axis.
// Like NumPy's a[expr] = value it always mutates a, whatever the kind of expr.
func (a *Array) Assign(expr Expr, value float64) error {
	return a.AssignAxis(0, expr, value)
}

// AssignAxis is Assign along axis.
func (a *Array) AssignAxis(axis int, expr Expr, value float64) error {
	offs, err := a.selection("Array.Assign", axis, expr)
	if err != nil {
		return err
	}
	for _, off := range offs {
		a.store.data[off] = value
	}
	return nil
}

// AssignFrom writes the elements of src, in row-major order, into the
// positions expr selects on the first axis. src must hold exactly as many
// elements as are selected, or a single element that is broadcast.
func (a *Array) AssignFrom(expr Expr, src *Array) error {
	const op = "Array.AssignFrom"
	offs, err := a.selection(op, 0, expr)
	if err != nil {
		return err
	}
	// src may overlap a
	values := src.ToSlice()
	switch len(values) {
	case len(offs):
		for k, off := range offs {
			a.store.data[off] = values[k]
		}
	case 1:
		for _, off := range offs {
			a.store.data[off] = values[0]
		}
	default:
		return errors.NewDimensionError(op, len(offs), len(values), 0)
	}
	return nil
}
