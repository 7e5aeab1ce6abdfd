package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	s := NewStandardScaler(true, true)
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, array.Shape{4, 2}, out.Shape())

	col, err := out.IndexAxis(1, array.Int(0))
	require.NoError(t, err)
	mean, std := stat.PopMeanStdDev(col.ToSlice(), nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, std, 1e-12)

	// constant column: centred, not scaled
	constant, err := out.IndexAxis(1, array.Int(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, constant.ToSlice())
	assert.Equal(t, []float64{2.5, 10}, s.Mean())
	assert.InDelta(t, math.Sqrt(1.25), s.Scale()[0], 1e-12)

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, mat.DenseCopyOf(X).RawMatrix().Data, back.ToSlice(), 1e-12)
}

func TestStandardScalerOptions(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	s := NewStandardScaler(false, false)
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, out.ToSlice())
	assert.Equal(t, "StandardScaler(with_mean=false, with_std=false)", s.String())
	assert.Equal(t, false, s.GetParams()["with_mean"])
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScaler(true, true)

	_, err := s.Transform(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(2, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	err = s.Fit(mat.NewDense(1, 1, []float64{math.NaN()}))
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestMinMaxScaler(t *testing.T) {
	X := array.Vector(0, 5, 10, 7, 7, 7)
	X2, err := X.Reshape(3, 2)
	require.NoError(t, err)

	m := NewMinMaxScaler([2]float64{-1, 1})
	out, err := m.FitTransform(X2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -1, 1, 1, 0.4, 1}, out.ToSlice(), 1e-12)

	back, err := m.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, X2.ToSlice(), back.ToSlice(), 1e-12)

	bad := NewMinMaxScaler([2]float64{1, 1})
	var ve *errors.ValidationError
	assert.True(t, errors.As(bad.Fit(X2), &ve))
}
