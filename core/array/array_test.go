package array

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

func TestConstructors(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	a, err := FromSlice(src, 2, 3)
	require.NoError(t, err)
	src[0] = 100
	first, err := a.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first, "FromSlice must copy its input")
	assert.Equal(t, Shape{2, 3}, a.Shape())
	assert.Equal(t, []int{3, 1}, a.Strides())

	_, err = FromSlice(src, 4, 2)
	assert.Error(t, err)

	z, err := Zeros(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z.Sum())

	f, err := Full(1.5, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.5, 1.5}, f.ToSlice())

	_, err = Zeros(2, -1)
	assert.Error(t, err)

	assert.Equal(t, 0, Arange(-3).Size())
}

func TestGetSetBounds(t *testing.T) {
	a := mustReshape(t, Arange(6), 2, 3)

	v, err := a.Get(-1, -1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = a.Get(0, 3)
	assert.True(t, errors.Is(err, errors.ErrIndexOutOfBounds))

	err = a.Set(1, 2, 0)
	assert.True(t, errors.Is(err, errors.ErrIndexOutOfBounds))

	_, err = a.Get(0)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestReshapeViewOrCopy(t *testing.T) {
	a := Arange(6)

	m, err := a.Reshape(2, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, m.Shape())
	assert.True(t, SharesMemory(a, m))

	tr := m.Transpose()
	assert.Equal(t, Shape{3, 2}, tr.Shape())
	assert.False(t, tr.IsContiguous())
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, tr.ToSlice())

	flat, err := tr.Reshape(-1)
	require.NoError(t, err)
	assert.True(t, flat.OwnsData(), "reshaping a non-contiguous view copies")
	assert.False(t, SharesMemory(flat, a))

	r := m.Ravel()
	assert.False(t, r.OwnsData())
	assert.True(t, SharesMemory(r, a))

	tail, err := a.Index(From(2))
	require.NoError(t, err)
	rt := tail.Ravel()
	require.NoError(t, rt.Set(-1, 0))
	assert.Equal(t, -1.0, a.ToSlice()[2], "ravel of an offset view writes through")
	require.NoError(t, rt.Set(2, 0))

	rc := tr.Ravel()
	assert.True(t, rc.OwnsData())
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, rc.ToSlice())

	fl := m.Flatten()
	assert.True(t, fl.OwnsData())
	assert.False(t, SharesMemory(fl, a))

	_, err = a.Reshape(4, -1)
	assert.Error(t, err)
	_, err = a.Reshape(-1, -1)
	assert.Error(t, err)
}

func TestProvenance(t *testing.T) {
	a := Arange(6)
	even, _ := a.Index(All().By(2))
	odd, _ := a.Index(From(1).By(2))
	c := a.Copy()

	assert.Nil(t, a.Base())
	assert.True(t, a.OwnsData())
	assert.Same(t, a, even.Base())
	assert.True(t, SharesMemory(a, even))
	assert.False(t, SharesMemory(even, odd), "disjoint views share no element")
	assert.False(t, SharesMemory(a, c))
	assert.Nil(t, c.Base())
}

func TestElementwiseAndReductions(t *testing.T) {
	a := Arange(5)

	sq := a.Map(func(x float64) float64 { return x * x })
	assert.Equal(t, []float64{0, 1, 4, 9, 16}, sq.ToSlice())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, a.ToSlice())

	a.AddScalar(1)
	a.MulScalar(2)
	assert.Equal(t, []float64{2, 4, 6, 8, 10}, a.ToSlice())

	assert.Equal(t, 30.0, a.Sum())
	assert.Equal(t, 6.0, a.Mean())
	lo, err := a.Min()
	require.NoError(t, err)
	hi, err := a.Max()
	require.NoError(t, err)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 10.0, hi)

	empty := Arange(0)
	assert.True(t, math.IsNaN(empty.Mean()))
	_, err = empty.Min()
	assert.Error(t, err)
	_, err = empty.Max()
	assert.Error(t, err)
}

func TestLargeStridedPassRunsInParallel(t *testing.T) {
	a := Arange(1 << 17)
	a.Fill(0)
	even, err := a.Index(All().By(2))
	require.NoError(t, err)
	even.Fill(1)
	assert.Equal(t, float64(1<<16), a.Sum())
	assert.Equal(t, 1<<16, a.Greater(0).Count())
}

func TestComparisonsAndMaskAlgebra(t *testing.T) {
	a := Arange(6)

	low := a.Less(2)
	high := a.GreaterEqual(4)
	either, err := low.Or(high)
	require.NoError(t, err)
	assert.Equal(t, Indices{0, 1, 4, 5}, either.Nonzero())

	both, err := low.And(high)
	require.NoError(t, err)
	assert.Equal(t, 0, both.Count())

	assert.Equal(t, 5, a.NotEqual(2).Count())
	assert.Equal(t, 1, a.NotEqual(2).Not().Count())
	assert.Equal(t, []bool{false, false, true, false, false, false}, a.EqualTo(2).Values())
	assert.Equal(t, 3, a.LessEqual(2).Count())

	_, err = low.And(NewMask(true))
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	assert.Equal(t, "[True True False False False False]", low.String())
}

func TestString(t *testing.T) {
	m := mustReshape(t, Arange(6), 2, 3)
	assert.Equal(t, "[[0 1 2] [3 4 5]]", m.String())
	assert.Equal(t, "[0.5 nan]", Vector(0.5, math.NaN()).String())
	assert.Equal(t, "(2, 3)", m.Shape().String())
	assert.Equal(t, "(3,)", Shape{3}.String())
}

func TestMatrixInterop(t *testing.T) {
	x := mustReshape(t, Arange(6), 2, 3)

	r, c := x.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 5.0, x.At(1, 2))
	assert.Panics(t, func() { x.At(2, 0) })

	var gram mat.Dense
	gram.Mul(x, x.T())
	want := mat.NewDense(2, 2, []float64{5, 14, 14, 50})
	assert.True(t, mat.Equal(want, &gram), "got %v", mat.Formatted(&gram))

	d, err := x.Dense()
	require.NoError(t, err)
	d.Set(0, 0, 42)
	v, _ := x.Get(0, 0)
	assert.Equal(t, 42.0, v, "unit-stride rows alias the store")

	dt, err := x.Transpose().Dense()
	require.NoError(t, err)
	dt.Set(0, 1, -1)
	v, _ = x.Get(1, 0)
	assert.Equal(t, 3.0, v, "transposed views are copied")

	rows, err := x.Index(Indices{1})
	require.NoError(t, err)
	rd, err := rows.Dense()
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5}, rd.RawRowView(0))

	col, err := Column(Arange(3))
	require.NoError(t, err)
	cr, cc := col.Dims()
	assert.Equal(t, [2]int{3, 1}, [2]int{cr, cc})
	assert.True(t, SharesMemory(col, col.Base()))

	back := FromMatrix(&gram)
	if diff := cmp.Diff([]float64{5, 14, 14, 50}, back.ToSlice()); diff != "" {
		t.Errorf("FromMatrix mismatch (-want +got):\n%s", diff)
	}

	vec := Vector(1, 2, 3)
	vr, vc := vec.Dims()
	assert.Equal(t, [2]int{3, 1}, [2]int{vr, vc})
	tr, tc := vec.T().Dims()
	assert.Equal(t, [2]int{1, 3}, [2]int{tr, tc})

	_, err = Arange(0).Dense()
	assert.Error(t, err)
	cube := mustReshape(t, Arange(8), 2, 2, 2)
	assert.Panics(t, func() { cube.Dims() })
	_, err = cube.Dense()
	assert.Error(t, err)
}
