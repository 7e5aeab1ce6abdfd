package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

func binaryData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 2, []float64{
		-2.0, -1.0,
		-1.5, -2.0,
		-1.0, -1.5,
		1.0, 1.5,
		1.5, 1.0,
		2.0, 2.0,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionBinary(t *testing.T) {
	X, y := binaryData()

	lr := NewLogisticRegression(WithMaxIter(1000))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, []float64{0, 1}, lr.Classes())

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	proba, err := lr.PredictProba(mat.NewDense(2, 2, []float64{-1.5, -1.5, 1.5, 1.5}))
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, [2]int{2, 2}, [2]int{r, c})
	assert.Greater(t, proba.At(0, 0), 0.5)
	assert.Greater(t, proba.At(1, 1), 0.5)
	assert.InDelta(t, 1.0, proba.At(0, 0)+proba.At(0, 1), 1e-12)

	coef := lr.Coef()
	require.Len(t, coef, 1)
	assert.Greater(t, coef[0][0], 0.0)
	assert.Greater(t, coef[0][1], 0.0)
}

func TestLogisticRegressionOneVsRest(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		-2.2, -1.0,
		-1.8, -1.2,
		-2.0, -0.8,
		2.2, -1.0,
		1.8, -0.8,
		2.0, -1.2,
		0.2, 2.0,
		-0.2, 1.8,
		0.0, 2.2,
	})
	y := mat.NewDense(9, 1, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	lr := NewLogisticRegression(WithMaxIter(2000))
	require.NoError(t, lr.Fit(X, y))
	assert.Len(t, lr.Coef(), 3)
	assert.Len(t, lr.NIter(), 3)

	pred, err := lr.Predict(mat.NewDense(3, 2, []float64{-2, -1, 2, -1, 0, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, mat.Col(nil, 0, pred))

	proba, err := lr.PredictProba(X)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		row := mat.Row(nil, i, proba)
		assert.InDelta(t, 1.0, row[0]+row[1]+row[2], 1e-12)
	}
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	X, y := binaryData()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	lr := NewLogisticRegression(WithMaxIter(1), WithLogger(logger))
	require.NoError(t, lr.Fit(X, y))

	require.Len(t, warnings, 1)
	var cw *errors.ConvergenceWarning
	require.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, 1, cw.Iterations)
	assert.True(t, logger.ContainsMessage("binary problem fitted"))
}

func TestLogisticRegressionErrors(t *testing.T) {
	X, y := binaryData()
	lr := NewLogisticRegression()

	_, err := lr.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = lr.Fit(X, mat.NewDense(6, 1, []float64{1, 1, 1, 1, 1, 1}))
	var vErr *errors.ValueError
	assert.True(t, errors.As(err, &vErr), "a single class cannot be fitted")

	require.NoError(t, lr.Fit(X, y))
	_, err = lr.Predict(mat.NewDense(1, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	assert.Error(t, NewLogisticRegression(WithC(0)).Fit(X, y))
	assert.Error(t, NewLogisticRegression(WithMaxIter(0)).Fit(X, y))
}

func TestLogisticRegressionParams(t *testing.T) {
	lr := NewLogisticRegression()
	assert.Equal(t, model.Params{
		"C":             1.0,
		"max_iter":      100,
		"tol":           1e-4,
		"learning_rate": 1.0,
		"fit_intercept": true,
	}, lr.GetParams())

	require.NoError(t, lr.SetParams(model.Params{"C": 10, "max_iter": 50.0}))
	assert.Equal(t, 10.0, lr.GetParams()["C"])
	assert.Equal(t, 50, lr.GetParams()["max_iter"])

	var vErr *errors.ValidationError
	assert.True(t, errors.As(lr.SetParams(model.Params{"C": -1.0}), &vErr))
	assert.Equal(t, 10.0, lr.GetParams()["C"])
	assert.Error(t, lr.SetParams(model.Params{"penalty": "l1"}))

	X, y := binaryData()
	require.NoError(t, lr.Fit(X, y))
	clone := lr.Clone()
	assert.Equal(t, lr.GetParams(), clone.GetParams())
	_, err := clone.Predict(X)
	assert.Error(t, err, "clones start unfitted")
}

func TestSigmoidSaturates(t *testing.T) {
	assert.Equal(t, 0.5, sigmoid(0))
	assert.InDelta(t, 1.0, sigmoid(1e4), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-1e4), 1e-12)
	for _, z := range []float64{-1e4, -750, -10, 10, 750, 1e4} {
		p := sigmoid(z)
		assert.True(t, p >= 0 && p <= 1, "sigmoid(%g) = %g", z, p)
	}
	assert.InDelta(t, 1-sigmoid(3), sigmoid(-3), 1e-12)
}
