package linear

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// y = 1 + 2·x1 - 3·x2
func exactLinearData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 1,
	})
	y := mat.NewDense(5, 1, []float64{1, 3, -2, 0, 2})
	return X, y
}

func TestRidgeRecoversExactCoefficients(t *testing.T) {
	X, y := exactLinearData()

	r := NewRidge(WithAlpha(0))
	require.NoError(t, r.Fit(X, y))

	assert.InDeltaSlice(t, []float64{2, -3}, r.Coef(), 1e-9)
	assert.InDelta(t, 1.0, r.Intercept(), 1e-9)

	score, err := r.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestRidgeShrinksWithAlpha(t *testing.T) {
	X, y := exactLinearData()

	ols := NewRidge(WithAlpha(0))
	require.NoError(t, ols.Fit(X, y))
	strong := NewRidge(WithAlpha(100))
	require.NoError(t, strong.Fit(X, y))

	assert.Less(t, floats.Norm(strong.Coef(), 2), floats.Norm(ols.Coef(), 2))
}

func TestRidgeWithoutIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	r := NewRidge(WithAlpha(0), WithFitIntercept(false))
	require.NoError(t, r.Fit(X, y))
	assert.InDelta(t, 2.0, r.Coef()[0], 1e-9)
	assert.Equal(t, 0.0, r.Intercept())
}

func TestRidgeAcceptsArrayViews(t *testing.T) {
	data := []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		9, 9,
	}
	Xall, err := array.FromSlice(data, 6, 2)
	require.NoError(t, err)
	yall := array.Vector(1, 3, -2, 0, 2, 1000)

	// rows 0..4 through a slice view, y through a column view
	X, err := Xall.Index(array.Span(0, 5))
	require.NoError(t, err)
	require.False(t, X.OwnsData())
	yv, err := yall.Index(array.To(5))
	require.NoError(t, err)
	y, err := array.Column(yv)
	require.NoError(t, err)

	r := NewRidge(WithAlpha(0))
	require.NoError(t, r.Fit(X, y))
	assert.InDeltaSlice(t, []float64{2, -3}, r.Coef(), 1e-9)

	pred, err := r.Predict(X)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pred.At(4, 0), 1e-9)
}

func TestRidgeErrors(t *testing.T) {
	X, y := exactLinearData()

	r := NewRidge()
	_, err := r.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
	_, err = r.Score(X, y)
	assert.True(t, errors.As(err, &nf))

	err = r.Fit(X, mat.NewDense(4, 1, nil))
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	require.NoError(t, r.Fit(X, y))
	_, err = r.Predict(mat.NewDense(2, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	bad := NewRidge(WithAlpha(-1))
	var vErr *errors.ValidationError
	assert.True(t, errors.As(bad.Fit(X, y), &vErr))
}

func TestRidgeParams(t *testing.T) {
	r := NewRidge()
	assert.Equal(t, model.Params{"alpha": 1.0, "fit_intercept": true}, r.GetParams())

	require.NoError(t, r.SetParams(model.Params{"alpha": 3}))
	assert.Equal(t, 3.0, r.GetParams()["alpha"])

	err := r.SetParams(model.Params{"alpha": -2.0})
	require.Error(t, err)
	assert.Equal(t, 3.0, r.GetParams()["alpha"], "failed SetParams leaves the model unchanged")

	assert.Error(t, r.SetParams(model.Params{"solver": "svd"}))
	assert.Error(t, r.SetParams(model.Params{"fit_intercept": "yes"}))

	X, y := exactLinearData()
	require.NoError(t, r.Fit(X, y))
	c := r.Clone().(*Ridge)
	assert.False(t, c.IsFitted())
	assert.Equal(t, r.GetParams(), c.GetParams())
}

func TestRidgeSingularWithoutRegularisation(t *testing.T) {
	// duplicated column
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	err := NewRidge(WithAlpha(0)).Fit(X, y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	require.NoError(t, NewRidge(WithAlpha(1)).Fit(X, y))
}

func TestRidgeWeightsRoundTrip(t *testing.T) {
	X, y := exactLinearData()
	r := NewRidge(WithAlpha(0.5))

	_, err := r.ExportWeights()
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, r.Fit(X, y))
	path := filepath.Join(t.TempDir(), "ridge.json")
	require.NoError(t, model.SaveWeights(r, path))

	restored := NewRidge()
	require.NoError(t, model.LoadWeights(restored, path))
	assert.True(t, restored.IsFitted())
	assert.Equal(t, 0.5, restored.GetParams()["alpha"])
	assert.InDeltaSlice(t, r.Coef(), restored.Coef(), 1e-12)

	want, err := r.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestRidgeImportWeightsRejectsInvalid(t *testing.T) {
	r := NewRidge()
	var ve *errors.ValidationError

	err := r.ImportWeights(&model.ModelWeights{ModelType: "Lasso", Version: model.WeightsVersion, Coefficients: []float64{1}, IsFitted: true})
	assert.True(t, errors.As(err, &ve))

	err = r.ImportWeights(&model.ModelWeights{ModelType: "Ridge", Version: "0", Coefficients: []float64{1}, IsFitted: true})
	assert.True(t, errors.As(err, &ve))
	assert.False(t, r.IsFitted())
}
