package model_selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/linear"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/sklearn/datasets"
)

func TestCrossValScore(t *testing.T) {
	X, y := linearData(t, 30)

	scores, err := CrossValScore(context.Background(), linear.NewRidge(linear.WithAlpha(0)), X, y,
		NewKFold(5, true, 1), "r2", WithNJobs(3))
	require.NoError(t, err)
	require.Len(t, scores, 5)
	for i, s := range scores {
		assert.InDelta(t, 1.0, s, 1e-9, "fold %d", i)
	}

	mse, err := CrossValScore(context.Background(), linear.NewRidge(linear.WithAlpha(0)), X, y,
		NewKFold(5, false, 0), "neg_mean_squared_error")
	require.NoError(t, err)
	for _, s := range mse {
		assert.InDelta(t, 0.0, s, 1e-9)
	}
}

func TestCrossValScoreDoesNotFitTheArgument(t *testing.T) {
	X, y := linearData(t, 12)
	r := linear.NewRidge()

	_, err := CrossValScore(context.Background(), r, X, y, NewKFold(3, false, 0), "")
	require.NoError(t, err)
	assert.False(t, r.IsFitted(), "folds fit clones")
}

func TestCrossValScoreErrors(t *testing.T) {
	X, y := linearData(t, 12)

	_, err := CrossValScore(context.Background(), linear.NewRidge(), X, y, NewKFold(20, false, 0), "r2")
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = CrossValScore(context.Background(), linear.NewRidge(), X, y, nil, "r2")
	assert.True(t, errors.As(err, &ve))

	_, err = CrossValScore(context.Background(), nil, X, y, NewKFold(3, false, 0), "r2")
	assert.Error(t, err)
}

func TestCrossValPredict(t *testing.T) {
	X, y := linearData(t, 24)

	pred, err := CrossValPredict(context.Background(), linear.NewRidge(linear.WithAlpha(0)), X, y,
		NewKFold(4, true, 2), WithNJobs(2))
	require.NoError(t, err)
	require.Equal(t, y.Shape(), pred.Shape())
	assert.InDeltaSlice(t, y.ToSlice(), pred.ToSlice(), 1e-9)
}

func TestCrossValPredictRejectsOverlappingSplits(t *testing.T) {
	X, y := linearData(t, 6)
	_, err := CrossValPredict(context.Background(), linear.NewRidge(), X, y, overlapping{})
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve), "got %v", err)
}

// overlapping puts sample 0 in both test folds.
type overlapping struct{}

func (overlapping) GetNSplits() int { return 2 }

func (overlapping) Split(_, _ mat.Matrix) ([]Fold, error) {
	return []Fold{
		{Train: []int{3, 4, 5}, Test: []int{0, 1, 2}},
		{Train: []int{1, 2}, Test: []int{0, 3, 4, 5}},
	}, nil
}

func TestNestedCrossValScore(t *testing.T) {
	X, y, _, err := datasets.MakeRegression(60, 2, 0.1, 3)
	require.NoError(t, err)

	inner := NewGridSearchCV(linear.NewRidge(), ParamGrid{"alpha": {0.01, 1.0, 100.0}},
		WithCV(NewKFold(3, true, 4)),
		WithScoring("r2"),
	)
	scores, err := NestedCrossValScore(context.Background(), inner, X, y, NewKFold(4, true, 5))
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for i, s := range scores {
		assert.Greater(t, s, 0.99, "outer fold %d", i)
	}
	assert.False(t, inner.IsFitted(), "each outer fold searches a clone")
}

func TestNestedCrossValScoreNeedsRefit(t *testing.T) {
	X, y := linearData(t, 12)
	inner := NewGridSearchCV(newStub(), threeByThree(), WithCV(NewKFold(2, false, 0)), WithRefit(false))

	_, err := NestedCrossValScore(context.Background(), inner, X, y, NewKFold(3, false, 0))
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve), "got %v", err)
}
