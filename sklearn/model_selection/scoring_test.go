package model_selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/linear"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

func TestGetScorer(t *testing.T) {
	for _, name := range Scorers() {
		fn, err := GetScorer(name)
		require.NoError(t, err, name)
		assert.NotNil(t, fn, name)
	}

	_, err := GetScorer("")
	require.NoError(t, err)

	_, err = GetScorer("precision")
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRegressionScorersAreNegatedLosses(t *testing.T) {
	X, y := linearData(t, 20)
	r := linear.NewRidge(linear.WithAlpha(0))
	require.NoError(t, r.Fit(X, y))

	for _, name := range []string{"neg_mean_squared_error", "neg_mean_absolute_error"} {
		fn, err := GetScorer(name)
		require.NoError(t, err)
		v, err := fn(r, X, y)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, 0.0, name)
		assert.InDelta(t, 0.0, v, 1e-9, name)
	}

	shifted := y.Map(func(v float64) float64 { return v + 2 })
	fn, _ := GetScorer("neg_mean_absolute_error")
	v, err := fn(r, X, shifted)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, v, 1e-9)
}

func TestClassificationScorers(t *testing.T) {
	X, y := blobs(t, 40)
	lr := linear.NewLogisticRegression()
	require.NoError(t, lr.Fit(X, y))

	acc, _ := GetScorer("accuracy")
	v, err := acc(lr, X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	nll, _ := GetScorer("neg_log_loss")
	v, err = nll(lr, X, y)
	require.NoError(t, err)
	assert.Less(t, v, 0.0)
	assert.Greater(t, v, -math.Log(2), "better than a coin flip")

	auc, _ := GetScorer("roc_auc")
	v, err = auc(lr, X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestProbabilityScorersNeedProbabilities(t *testing.T) {
	X, y := linearData(t, 10)
	r := linear.NewRidge()
	require.NoError(t, r.Fit(X, y))

	for _, name := range []string{"neg_log_loss", "roc_auc"} {
		fn, _ := GetScorer(name)
		_, err := fn(r, X, y)
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve), name)
	}
}

func TestROCAUCRejectsMulticlass(t *testing.T) {
	X, err := array.FromSlice([]float64{-3, 0, 3, -3.2, 0.1, 3.1}, 6, 1)
	require.NoError(t, err)
	y := array.Vector(0, 1, 2, 0, 1, 2)

	lr := linear.NewLogisticRegression()
	require.NoError(t, lr.Fit(X, y))

	auc, _ := GetScorer("roc_auc")
	_, err = auc(lr, X, y)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestExtraRegressionScorers(t *testing.T) {
	X, y := linearData(t, 20)
	r := linear.NewRidge(linear.WithAlpha(0))
	require.NoError(t, r.Fit(X, y))

	ev, err := GetScorer("explained_variance")
	require.NoError(t, err)
	v, err := ev(r, X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)

	// a constant offset is fully explained but costs percentage error
	shifted := y.Map(func(v float64) float64 { return v + 2 })
	v, err = ev(r, X, shifted)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)

	mape, err := GetScorer("neg_mean_absolute_percentage_error")
	require.NoError(t, err)
	v, err = mape(r, X, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)
	v, err = mape(r, X, shifted)
	require.NoError(t, err)
	assert.Less(t, v, 0.0)
}
