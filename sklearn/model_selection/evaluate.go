package model_selection

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/core/parallel"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

// Evaluation is one traced operation. Candidate is -1 for fold subsetting,
// which no candidate owns; Fold is -1 for the final refit.
type Evaluation struct {
	Candidate int
	Fold      int
	Kind      model.OpKind
	OnTrain   bool
}

func (e Evaluation) String() string {
	s := fmt.Sprintf("candidate=%d fold=%d %s", e.Candidate, e.Fold, e.Kind)
	if e.OnTrain {
		s += " (train)"
	}
	return s
}

// tracer collects evaluations from concurrent workers.
type tracer struct {
	mu      sync.Mutex
	entries []Evaluation
}

func (t *tracer) record(e Evaluation) {
	countEvaluation(e.Kind)
	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()
}

// sorted returns the entries ordered by candidate, fold and kind.
func (t *tracer) sorted() []Evaluation {
	t.mu.Lock()
	out := make([]Evaluation, len(t.entries))
	copy(out, t.entries)
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Candidate != b.Candidate {
			return a.Candidate < b.Candidate
		}
		if a.Fold != b.Fold {
			return a.Fold < b.Fold
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return !a.OnTrain && b.OnTrain
	})
	return out
}

// foldData holds the row copies for one split. Rows are taken with integer
// indexing, so nothing here aliases the caller's arrays.
type foldData struct {
	xTrain, yTrain *array.Array
	xTest, yTest   *array.Array
}

func checkXY(op string, X, y *array.Array) error {
	if X == nil || y == nil {
		return errors.NewValueError(op, "X and y must not be nil")
	}
	if X.NDim() != 2 {
		return errors.NewValueError(op, fmt.Sprintf("X must be 2-D, got shape %v", X.Shape()))
	}
	if y.NDim() != 1 && !(y.NDim() == 2 && y.Shape()[1] == 1) {
		return errors.NewValueError(op, fmt.Sprintf("y must be 1-D or a column, got shape %v", y.Shape()))
	}
	if X.Shape()[0] != y.Shape()[0] {
		return errors.NewDimensionError(op, X.Shape()[0], y.Shape()[0], 0)
	}
	if X.Size() == 0 {
		return errors.NewValueError(op, "X is empty")
	}
	return nil
}

// subset takes rows idx of a, recording the index operation.
func subset(a *array.Array, idx []int, fold int, tr *tracer) (*array.Array, error) {
	expr := array.Indices(idx)
	out, err := a.Index(expr)
	if err != nil {
		return nil, err
	}
	tr.record(Evaluation{Candidate: -1, Fold: fold, Kind: model.IndexOp(expr.Kind())})
	return out, nil
}

func splitData(X, y *array.Array, folds []Fold, tr *tracer) ([]foldData, error) {
	out := make([]foldData, len(folds))
	for f, fold := range folds {
		var err error
		d := &out[f]
		if d.xTrain, err = subset(X, fold.Train, f, tr); err != nil {
			return nil, err
		}
		if d.yTrain, err = subset(y, fold.Train, f, tr); err != nil {
			return nil, err
		}
		if d.xTest, err = subset(X, fold.Test, f, tr); err != nil {
			return nil, err
		}
		if d.yTest, err = subset(y, fold.Test, f, tr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// foldResult is the outcome of one (candidate, fold) evaluation.
type foldResult struct {
	testScore  float64
	trainScore float64
	fitTime    time.Duration
	scoreTime  time.Duration
	failed     bool
}

// runner evaluates candidates over folds with a fixed configuration.
type runner struct {
	base   model.Estimator
	name   string
	score  ScoreFunc
	cfg    searchConfig
	trace  *tracer
	logger log.Logger
}

func newRunner(base model.Estimator, cfg searchConfig, logger log.Logger) (*runner, error) {
	if base == nil {
		return nil, errors.NewValueError("model_selection", "estimator must not be nil")
	}
	score, err := GetScorer(cfg.scoring)
	if err != nil {
		return nil, err
	}
	if cfg.cv == nil {
		return nil, errors.NewValidationError("cv", "splitter must not be nil", nil)
	}
	return &runner{
		base:   base,
		name:   fmt.Sprintf("%T", base),
		score:  score,
		cfg:    cfg,
		trace:  &tracer{},
		logger: logger,
	}, nil
}

// folds splits X and y and copies out every fold.
func (r *runner) folds(X, y *array.Array) ([]foldData, error) {
	splits, err := r.cfg.cv.Split(X, y)
	if err != nil {
		return nil, err
	}
	return splitData(X, y, splits, r.trace)
}

// run evaluates every candidate on every fold exactly once. results is
// indexed [candidate][fold]; each worker writes only its own slot.
func (r *runner) run(ctx context.Context, candidates []model.Params, data []foldData) ([][]foldResult, error) {
	nFolds := len(data)
	results := make([][]foldResult, len(candidates))
	for c := range results {
		results[c] = make([]foldResult, nFolds)
	}

	err := parallel.ForEach(ctx, len(candidates)*nFolds, r.cfg.nJobs, func(ctx context.Context, i int) error {
		c, f := i/nFolds, i%nFolds
		res, err := r.evaluate(c, candidates[c], f, data[f])
		if err != nil {
			return err
		}
		results[c][f] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// evaluate fits a fresh clone with params on one fold and scores it.
func (r *runner) evaluate(c int, params model.Params, f int, d foldData) (foldResult, error) {
	est := r.base.Clone()
	var res foldResult

	start := time.Now()
	err := errors.SafeExecute(r.name+".Fit", func() error {
		if len(params) > 0 {
			if err := est.SetParams(params); err != nil {
				return err
			}
		}
		return est.Fit(d.xTrain, d.yTrain)
	})
	res.fitTime = time.Since(start)
	searchFitDuration.Observe(res.fitTime.Seconds())
	r.trace.record(Evaluation{Candidate: c, Fold: f, Kind: model.OpFit})
	if err != nil {
		return r.fail(res, c, f, params, err)
	}

	start = time.Now()
	err = errors.SafeExecute(r.name+".Score", func() error {
		var err error
		res.testScore, err = r.score(est, d.xTest, d.yTest)
		return err
	})
	res.scoreTime = time.Since(start)
	r.trace.record(Evaluation{Candidate: c, Fold: f, Kind: model.OpScore})
	if err != nil {
		return r.fail(res, c, f, params, err)
	}

	if r.cfg.returnTrainScore {
		err = errors.SafeExecute(r.name+".Score", func() error {
			var err error
			res.trainScore, err = r.score(est, d.xTrain, d.yTrain)
			return err
		})
		r.trace.record(Evaluation{Candidate: c, Fold: f, Kind: model.OpScore, OnTrain: true})
		if err != nil {
			return r.fail(res, c, f, params, err)
		}
	}

	r.logger.Debug("fold scored",
		log.CandidateKey, c,
		log.FoldKey, f,
		log.ScoreKey, res.testScore,
		log.DurationMsKey, res.fitTime.Milliseconds(),
	)
	return res, nil
}

// fail applies the error-score policy to a failed evaluation.
func (r *runner) fail(res foldResult, c, f int, params model.Params, err error) (foldResult, error) {
	if r.cfg.errorScore == nil {
		return res, errors.Wrapf(err, "candidate %d %s fold %d", c, params, f)
	}
	r.logger.Warn("evaluation failed, using error score",
		log.CandidateKey, c,
		log.FoldKey, f,
		log.ParamsKey, params.String(),
		"error", err.Error(),
	)
	res.failed = true
	res.testScore = *r.cfg.errorScore
	res.trainScore = *r.cfg.errorScore
	return res, nil
}

// refit fits a clone with params on all of X and y.
func (r *runner) refit(c int, params model.Params, X, y mat.Matrix) (model.Estimator, error) {
	est := r.base.Clone()
	err := errors.SafeExecute(r.name+".Fit", func() error {
		if len(params) > 0 {
			if err := est.SetParams(params); err != nil {
				return err
			}
		}
		return est.Fit(X, y)
	})
	r.trace.record(Evaluation{Candidate: c, Fold: -1, Kind: model.OpFit})
	if err != nil {
		return nil, errors.Wrapf(err, "refit candidate %d %s", c, params)
	}
	return est, nil
}
