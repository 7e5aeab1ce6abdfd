package model_selection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

// Searcher is a hyper-parameter search driver. NestedCrossValScore runs a
// fresh Clone inside every outer split.
type Searcher interface {
	Fit(ctx context.Context, X, y *array.Array) error
	BestEstimator() (model.Estimator, error)
	BestParams() (model.Params, error)
	BestScore() (float64, error)
	Score(X, y mat.Matrix) (float64, error)
	Clone() Searcher
}

// search is the state shared by GridSearchCV and RandomizedSearchCV.
type search struct {
	name      string
	estimator model.Estimator
	cfg       searchConfig
	state     *model.StateManager

	runID         string
	results       *CVResults
	bestIndex     int
	bestEstimator model.Estimator
	scorer        ScoreFunc
	trace         []Evaluation
}

func newSearch(name string, est model.Estimator, opts []SearchOption) search {
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return search{
		name:      name,
		estimator: est,
		cfg:       cfg,
		state:     model.NewStateManager(),
	}
}

// clone returns an unfitted search with the same settings.
func (s *search) clone() search {
	var est model.Estimator
	if s.estimator != nil {
		est = s.estimator.Clone()
	}
	return search{
		name:      s.name,
		estimator: est,
		cfg:       s.cfg,
		state:     model.NewStateManager(),
	}
}

func (s *search) fit(ctx context.Context, candidates []model.Params, X, y *array.Array) error {
	op := s.name + ".Fit"
	if err := checkXY(op, X, y); err != nil {
		return err
	}
	s.state.Reset()

	runID := uuid.NewString()
	logger := s.cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName(s.name)
	}
	logger = logger.With(log.ModelNameKey, s.name, log.RunIDKey, runID)

	r, err := newRunner(s.estimator, s.cfg, logger)
	if err != nil {
		return err
	}
	data, err := r.folds(X, y)
	if err != nil {
		return err
	}

	logger.Info("search started",
		log.CandidatesKey, len(candidates),
		log.FoldsKey, len(data),
		log.ScoringKey, s.cfg.scoring,
		log.SamplesKey, X.Shape()[0],
		log.FeaturesKey, X.Shape()[1],
	)
	start := time.Now()

	results, err := r.run(ctx, candidates, data)
	if err != nil {
		logger.Error("search failed", err)
		return err
	}

	cv := newCVResults(candidates, results, s.cfg.returnTrainScore)
	best := cv.bestIndex()

	var bestEst model.Estimator
	if s.cfg.refit {
		if bestEst, err = r.refit(best, candidates[best], X, y); err != nil {
			logger.Error("refit failed", err, log.CandidateKey, best)
			return err
		}
	}

	s.runID = runID
	s.results = cv
	s.bestIndex = best
	s.bestEstimator = bestEst
	s.scorer = r.score
	s.trace = r.trace.sorted()
	s.state.SetDimensions(X.Shape()[1], X.Shape()[0])
	s.state.SetFitted()

	logger.Info("search finished",
		log.CandidateKey, best,
		log.ScoreKey, cv.MeanTestScore[best],
		log.ParamsKey, candidates[best].String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// IsFitted reports whether Fit has completed.
func (s *search) IsFitted() bool {
	return s.state.IsFitted()
}

// RunID returns the identifier of the last completed search run.
func (s *search) RunID() (string, error) {
	if err := s.state.RequireFitted(s.name, "RunID"); err != nil {
		return "", err
	}
	return s.runID, nil
}

// CVResults returns the per-candidate cross-validation summary.
func (s *search) CVResults() (*CVResults, error) {
	if err := s.state.RequireFitted(s.name, "CVResults"); err != nil {
		return nil, err
	}
	return s.results, nil
}

// BestIndex returns the index of the best candidate. Ties resolve to the
// lowest index.
func (s *search) BestIndex() (int, error) {
	if err := s.state.RequireFitted(s.name, "BestIndex"); err != nil {
		return -1, err
	}
	return s.bestIndex, nil
}

// BestParams returns a copy of the best candidate's parameters.
func (s *search) BestParams() (model.Params, error) {
	if err := s.state.RequireFitted(s.name, "BestParams"); err != nil {
		return nil, err
	}
	return s.results.Params[s.bestIndex].Copy(), nil
}

// BestScore returns the mean cross-validated score of the best candidate.
func (s *search) BestScore() (float64, error) {
	if err := s.state.RequireFitted(s.name, "BestScore"); err != nil {
		return 0, err
	}
	return s.results.MeanTestScore[s.bestIndex], nil
}

// BestEstimator returns the best candidate refitted on the whole dataset.
func (s *search) BestEstimator() (model.Estimator, error) {
	if err := s.state.RequireFitted(s.name, "BestEstimator"); err != nil {
		return nil, err
	}
	if s.bestEstimator == nil {
		return nil, errors.NewValueError(s.name+".BestEstimator", "refit is disabled")
	}
	return s.bestEstimator, nil
}

// Predict delegates to the refitted best estimator.
func (s *search) Predict(X mat.Matrix) (mat.Matrix, error) {
	est, err := s.BestEstimator()
	if err != nil {
		return nil, err
	}
	return est.Predict(X)
}

// Score evaluates the refitted best estimator with the search's scorer.
func (s *search) Score(X, y mat.Matrix) (float64, error) {
	est, err := s.BestEstimator()
	if err != nil {
		return 0, err
	}
	return s.scorer(est, X, y)
}

// Trace returns every traced operation of the last run, ordered by
// candidate, fold and kind.
func (s *search) Trace() ([]Evaluation, error) {
	if err := s.state.RequireFitted(s.name, "Trace"); err != nil {
		return nil, err
	}
	out := make([]Evaluation, len(s.trace))
	copy(out, s.trace)
	return out, nil
}

// GridSearchCV exhaustively evaluates every point of a parameter grid.
type GridSearchCV struct {
	search
	grid ParamGrid
}

// NewGridSearchCV creates a grid search over est. est is never fitted
// itself; every evaluation fits a Clone.
func NewGridSearchCV(est model.Estimator, grid ParamGrid, opts ...SearchOption) *GridSearchCV {
	return &GridSearchCV{
		search: newSearch("GridSearchCV", est, opts),
		grid:   grid,
	}
}

// Fit runs one fit and one score per (candidate, fold) pair.
func (g *GridSearchCV) Fit(ctx context.Context, X, y *array.Array) error {
	candidates, err := g.grid.Candidates()
	if err != nil {
		return err
	}
	return g.fit(ctx, candidates, X, y)
}

// Clone returns an unfitted grid search with the same settings.
func (g *GridSearchCV) Clone() Searcher {
	return &GridSearchCV{search: g.search.clone(), grid: g.grid}
}

// RandomizedSearchCV evaluates a fixed number of sampled candidates.
type RandomizedSearchCV struct {
	search
	sampler ParameterSampler
}

// NewRandomizedSearchCV creates a randomized search drawing nIter
// candidates from distributions with the given seed.
func NewRandomizedSearchCV(est model.Estimator, distributions map[string]any, nIter int, seed uint64, opts ...SearchOption) *RandomizedSearchCV {
	return &RandomizedSearchCV{
		search: newSearch("RandomizedSearchCV", est, opts),
		sampler: ParameterSampler{
			Distributions: distributions,
			NIter:         nIter,
			Seed:          seed,
		},
	}
}

// Fit samples the candidates and evaluates each on every fold.
func (rs *RandomizedSearchCV) Fit(ctx context.Context, X, y *array.Array) error {
	candidates, err := rs.sampler.Candidates()
	if err != nil {
		return err
	}
	return rs.fit(ctx, candidates, X, y)
}

// Clone returns an unfitted randomized search with the same settings.
func (rs *RandomizedSearchCV) Clone() Searcher {
	return &RandomizedSearchCV{search: rs.search.clone(), sampler: rs.sampler}
}
