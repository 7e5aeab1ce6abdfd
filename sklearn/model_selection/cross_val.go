package model_selection

import (
	"context"
	"time"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/core/parallel"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

// CrossValScore fits a clone of est on every training split of cv and
// returns the test score of each fold. WithNJobs, WithErrorScore and
// WithLogger apply; WithCV and WithScoring are overridden by the
// arguments.
func CrossValScore(ctx context.Context, est model.Estimator, X, y *array.Array, cv Splitter, scoring string, opts ...SearchOption) ([]float64, error) {
	const op = "CrossValScore"
	if err := checkXY(op, X, y); err != nil {
		return nil, err
	}
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.cv = cv
	cfg.scoring = scoring
	cfg.returnTrainScore = false

	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName(op)
	}
	r, err := newRunner(est, cfg, logger)
	if err != nil {
		return nil, err
	}
	data, err := r.folds(X, y)
	if err != nil {
		return nil, err
	}
	results, err := r.run(ctx, []model.Params{nil}, data)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(data))
	for f, res := range results[0] {
		scores[f] = res.testScore
	}
	return scores, nil
}

// CrossValPredict returns, for every sample, the prediction of the clone
// fitted on the split where that sample was held out. cv must assign each
// sample to exactly one test fold.
func CrossValPredict(ctx context.Context, est model.Estimator, X, y *array.Array, cv Splitter, opts ...SearchOption) (*array.Array, error) {
	const op = "CrossValPredict"
	if err := checkXY(op, X, y); err != nil {
		return nil, err
	}
	if est == nil {
		return nil, errors.NewValueError(op, "estimator must not be nil")
	}
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cv == nil {
		return nil, errors.NewValidationError("cv", "splitter must not be nil", nil)
	}

	folds, err := cv.Split(X, y)
	if err != nil {
		return nil, err
	}
	n := X.Shape()[0]
	seen := make([]bool, n)
	for _, fold := range folds {
		for _, i := range fold.Test {
			if seen[i] {
				return nil, errors.NewValueError(op, "cross-validation splits must be a partition")
			}
			seen[i] = true
		}
	}
	for _, ok := range seen {
		if !ok {
			return nil, errors.NewValueError(op, "cross-validation splits must be a partition")
		}
	}

	tr := &tracer{}
	data, err := splitData(X, y, folds, tr)
	if err != nil {
		return nil, err
	}

	out, err := array.Zeros(n)
	if err != nil {
		return nil, err
	}
	err = parallel.ForEach(ctx, len(folds), cfg.nJobs, func(_ context.Context, f int) error {
		clone := est.Clone()
		start := time.Now()
		if err := errors.SafeExecute(op+".Fit", func() error {
			return clone.Fit(data[f].xTrain, data[f].yTrain)
		}); err != nil {
			return errors.Wrapf(err, "fold %d", f)
		}
		searchFitDuration.Observe(time.Since(start).Seconds())
		tr.record(Evaluation{Fold: f, Kind: model.OpFit})

		pred, err := clone.Predict(data[f].xTest)
		if err != nil {
			return errors.Wrapf(err, "fold %d", f)
		}
		tr.record(Evaluation{Fold: f, Kind: model.OpPredict})

		// Each fold writes only its own test rows.
		for k, i := range folds[f].Test {
			if err := out.Set(pred.At(k, 0), i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NestedCrossValScore estimates the generalisation score of a whole search
// procedure. For every outer split a fresh clone of s searches the outer
// training rows, and its refitted best estimator is scored on the outer
// test rows.
func NestedCrossValScore(ctx context.Context, s Searcher, X, y *array.Array, outer Splitter) ([]float64, error) {
	const op = "NestedCrossValScore"
	if err := checkXY(op, X, y); err != nil {
		return nil, err
	}
	if s == nil || outer == nil {
		return nil, errors.NewValueError(op, "search and outer splitter must not be nil")
	}
	folds, err := outer.Split(X, y)
	if err != nil {
		return nil, err
	}
	data, err := splitData(X, y, folds, &tracer{})
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName(op)
	scores := make([]float64, len(folds))
	for f, d := range data {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inner := s.Clone()
		if err := inner.Fit(ctx, d.xTrain, d.yTrain); err != nil {
			return nil, errors.Wrapf(err, "outer fold %d", f)
		}
		score, err := inner.Score(d.xTest, d.yTest)
		if err != nil {
			return nil, errors.Wrapf(err, "outer fold %d", f)
		}
		scores[f] = score

		if best, err := inner.BestParams(); err == nil {
			logger.Debug("outer fold scored", log.FoldKey, f, log.ScoreKey, score, log.ParamsKey, best.String())
		}
	}
	return scores, nil
}
