package linear

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/metrics"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

// LogisticRegression implements L2-regularised logistic regression trained
// by batch gradient descent. Binary problems fit one weight vector; more
// classes are handled one-vs-rest.
type LogisticRegression struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	c            float64 // Inverse regularization strength
	maxIter      int
	tol          float64 // Max absolute gradient at which descent stops
	learningRate float64
	fitIntercept bool

	// Model parameters
	coef      [][]float64 // one row per binary sub-problem
	intercept []float64
	classes   []float64
	nIter     []int
}

var _ model.ProbabilisticClassifier = (*LogisticRegression)(nil)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		maxIter:      100,
		tol:          1e-4,
		learningRate: 1.0,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName("LogisticRegression")
	}
	return lr
}

func (lr *LogisticRegression) validate() error {
	switch {
	case !(lr.c > 0) || math.IsInf(lr.c, 0):
		return errors.NewValidationError("C", "must be a finite positive number", lr.c)
	case lr.maxIter <= 0:
		return errors.NewValidationError("max_iter", "must be positive", lr.maxIter)
	case lr.tol < 0 || math.IsNaN(lr.tol):
		return errors.NewValidationError("tol", "must be non-negative", lr.tol)
	case !(lr.learningRate > 0):
		return errors.NewValidationError("learning_rate", "must be positive", lr.learningRate)
	}
	return nil
}

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if err := lr.validate(); err != nil {
		return err
	}
	nSamples, nFeatures, err := checkXY("LogisticRegression.Fit", X, y)
	if err != nil {
		return err
	}

	classes := uniqueLabels(y)
	if len(classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			"needs samples of at least 2 classes in the data")
	}

	Xd := mat.DenseCopyOf(X)
	problems := len(classes)
	if problems == 2 {
		problems = 1
	}
	coef := make([][]float64, problems)
	intercept := make([]float64, problems)
	nIter := make([]int, problems)

	for k := 0; k < problems; k++ {
		positive := classes[k]
		if problems == 1 {
			positive = classes[1]
		}
		target := make([]float64, nSamples)
		for i := range target {
			if y.At(i, 0) == positive {
				target[i] = 1
			}
		}

		w, b, iters, converged := lr.descend(Xd, target)
		if err := errors.CheckNumericalStability("LogisticRegression.Fit", w, iters); err != nil {
			return err
		}
		if !converged {
			errors.Warn(errors.NewConvergenceWarning("LogisticRegression", iters,
				"increase max_iter or scale the data"))
		}
		coef[k], intercept[k], nIter[k] = w, b, iters
		lr.logger.Debug("binary problem fitted",
			log.IterationKey, iters,
			"class", positive,
			"converged", converged,
		)
	}

	lr.coef, lr.intercept, lr.classes, lr.nIter = coef, intercept, classes, nIter
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// descend minimises the mean log-loss plus ||w||²/(2·C·n) from a zero start.
func (lr *LogisticRegression) descend(X *mat.Dense, target []float64) (w []float64, b float64, iters int, converged bool) {
	n, p := X.Dims()
	weights := mat.NewVecDense(p, nil)
	lambda := 1.0 / (lr.c * float64(n))

	var z, grad mat.VecDense
	residual := mat.NewVecDense(n, nil)
	for iter := 0; iter < lr.maxIter; iter++ {
		z.MulVec(X, weights)

		var gradIntercept float64
		for i := 0; i < n; i++ {
			r := sigmoid(z.AtVec(i)+b) - target[i]
			residual.SetVec(i, r)
			gradIntercept += r
		}
		gradIntercept /= float64(n)

		grad.MulVec(X.T(), residual)
		grad.ScaleVec(1/float64(n), &grad)
		grad.AddScaledVec(&grad, lambda, weights)

		step := lr.learningRate / (1.0 + 0.1*float64(iter))
		weights.AddScaledVec(weights, -step, &grad)
		if lr.fitIntercept {
			b -= step * gradIntercept
		} else {
			gradIntercept = 0
		}
		iters = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for j := 0; j < p; j++ {
			maxGrad = math.Max(maxGrad, math.Abs(grad.AtVec(j)))
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}
	return weights.RawVector().Data, b, iters, converged
}

func (lr *LogisticRegression) decision(X mat.Matrix, op string) (*mat.Dense, error) {
	if err := lr.state.RequireFitted("LogisticRegression", op); err != nil {
		return nil, err
	}
	n, c := X.Dims()
	if err := lr.state.CheckFeatures("LogisticRegression."+op, c); err != nil {
		return nil, err
	}
	scores := mat.NewDense(n, len(lr.coef), nil)
	var col mat.VecDense
	for k, w := range lr.coef {
		col.MulVec(X, mat.NewVecDense(len(w), w))
		for i := 0; i < n; i++ {
			scores.Set(i, k, col.AtVec(i)+lr.intercept[k])
		}
	}
	return scores, nil
}

// PredictProba returns one column per class, in Classes() order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.decision(X, "PredictProba")
	if err != nil {
		return nil, err
	}
	n, _ := scores.Dims()
	probas := mat.NewDense(n, len(lr.classes), nil)
	for i := 0; i < n; i++ {
		if len(lr.coef) == 1 {
			p := sigmoid(scores.At(i, 0))
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
			continue
		}
		// one-vs-rest probabilities normalised per row
		var sum float64
		for k := range lr.classes {
			p := sigmoid(scores.At(i, k))
			probas.Set(i, k, p)
			sum += p
		}
		for k := range lr.classes {
			probas.Set(i, k, probas.At(i, k)/sum)
		}
	}
	return probas, nil
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, c := probas.Dims()
	predictions := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best := 0
		for k := 1; k < c; k++ {
			if probas.At(i, k) > probas.At(i, best) {
				best = k
			}
		}
		predictions.Set(i, 0, lr.classes[best])
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, predictions)
}

// Classes returns the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []float64 {
	out := make([]float64, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// Coef returns a copy of the fitted weights, one row per binary sub-problem.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef))
	for k, w := range lr.coef {
		out[k] = append([]float64(nil), w...)
	}
	return out
}

// NIter returns the gradient steps taken per sub-problem.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter...)
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() model.Params {
	return model.Params{
		"C":             lr.c,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
		"fit_intercept": lr.fitIntercept,
	}
}

// SetParams sets the model hyperparameters. On error the receiver is unchanged.
func (lr *LogisticRegression) SetParams(params model.Params) error {
	if err := params.CheckKnown("C", "max_iter", "tol", "learning_rate", "fit_intercept"); err != nil {
		return err
	}
	next := *lr
	for _, key := range []string{"C", "tol", "learning_rate"} {
		v, ok, err := params.Float(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		switch key {
		case "C":
			next.c = v
		case "tol":
			next.tol = v
		case "learning_rate":
			next.learningRate = v
		}
	}
	if v, ok, err := params.Int("max_iter"); err != nil {
		return err
	} else if ok {
		next.maxIter = v
	}
	if v, ok, err := params.Bool("fit_intercept"); err != nil {
		return err
	} else if ok {
		next.fitIntercept = v
	}
	if err := next.validate(); err != nil {
		return err
	}
	lr.c, lr.maxIter, lr.tol = next.c, next.maxIter, next.tol
	lr.learningRate, lr.fitIntercept = next.learningRate, next.fitIntercept
	return nil
}

// Clone returns an unfitted LogisticRegression with the same hyper-parameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithC(lr.c),
		WithMaxIter(lr.maxIter),
		WithTol(lr.tol),
		WithLearningRate(lr.learningRate),
		WithLogisticFitIntercept(lr.fitIntercept),
		WithLogger(lr.logger),
	)
}

func uniqueLabels(y mat.Matrix) []float64 {
	rows, _ := y.Dims()
	seen := make(map[float64]struct{})
	for i := 0; i < rows; i++ {
		seen[y.At(i, 0)] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + errors.StabilizeExp(-z))
	}
	e := errors.StabilizeExp(z)
	return e / (1.0 + e)
}
