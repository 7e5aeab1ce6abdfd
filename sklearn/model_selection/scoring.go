package model_selection

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/metrics"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// ScoreFunc evaluates a fitted estimator on held-out data. Greater is
// always better, so loss metrics are negated.
type ScoreFunc func(est model.Estimator, X, y mat.Matrix) (float64, error)

var scorers = map[string]ScoreFunc{
	"r2":                                 predictScorer(metrics.R2ScoreMatrix, 1),
	"explained_variance":                 predictScorer(metrics.ExplainedVarianceScoreMatrix, 1),
	"neg_mean_squared_error":             predictScorer(metrics.MSEMatrix, -1),
	"neg_mean_absolute_error":            predictScorer(metrics.MAEMatrix, -1),
	"neg_mean_absolute_percentage_error": predictScorer(metrics.MAPEMatrix, -1),
	"accuracy":                           predictScorer(metrics.AccuracyMatrix, 1),
	"neg_log_loss":                       negLogLoss,
	"roc_auc":                            rocAUC,
}

// Scorers returns the registered scorer names in sorted order.
func Scorers() []string {
	names := make([]string, 0, len(scorers))
	for name := range scorers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetScorer resolves a scorer by name. The empty name selects the
// estimator's own Score method.
func GetScorer(name string) (ScoreFunc, error) {
	if name == "" {
		return defaultScore, nil
	}
	fn, ok := scorers[name]
	if !ok {
		return nil, errors.NewValidationError("scoring", fmt.Sprintf("unknown scorer, expected one of %v", Scorers()), name)
	}
	return fn, nil
}

func defaultScore(est model.Estimator, X, y mat.Matrix) (float64, error) {
	return est.Score(X, y)
}

func predictScorer(metric func(yTrue, yPred mat.Matrix) (float64, error), sign float64) ScoreFunc {
	return func(est model.Estimator, X, y mat.Matrix) (float64, error) {
		pred, err := est.Predict(X)
		if err != nil {
			return 0, err
		}
		v, err := metric(y, pred)
		if err != nil {
			return 0, err
		}
		return sign * v, nil
	}
}

func negLogLoss(est model.Estimator, X, y mat.Matrix) (float64, error) {
	clf, ok := est.(model.ProbabilisticClassifier)
	if !ok {
		return 0, errors.NewValueError("neg_log_loss", fmt.Sprintf("%T does not provide PredictProba", est))
	}
	proba, err := clf.PredictProba(X)
	if err != nil {
		return 0, err
	}
	v, err := metrics.LogLoss(y, proba, clf.Classes())
	if err != nil {
		return 0, err
	}
	return -v, nil
}

// rocAUC scores the probability of the second class, which is the positive
// class for a binary classifier.
func rocAUC(est model.Estimator, X, y mat.Matrix) (float64, error) {
	clf, ok := est.(model.ProbabilisticClassifier)
	if !ok {
		return 0, errors.NewValueError("roc_auc", fmt.Sprintf("%T does not provide PredictProba", est))
	}
	classes := clf.Classes()
	if len(classes) != 2 {
		return 0, errors.NewValueError("roc_auc", "only binary classification is supported")
	}
	proba, err := clf.PredictProba(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if pr, _ := proba.Dims(); pr != n {
		return 0, errors.NewDimensionError("roc_auc", n, pr, 0)
	}
	labels := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if y.At(i, 0) == classes[1] {
			labels.SetVec(i, 1)
		}
	}
	scores := mat.NewVecDense(n, mat.Col(nil, 1, proba))
	return metrics.AUC(labels, scores)
}
