package linear

import "github.com/YuminosukeSato/arraylab/pkg/log"

// RidgeOption configures a Ridge regressor.
type RidgeOption func(*Ridge)

// WithAlpha sets the L2 regularisation strength. Zero gives ordinary least squares.
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) RidgeOption {
	return func(r *Ridge) {
		r.fitIntercept = fit
	}
}

// LogisticOption configures a LogisticRegression classifier.
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularisation strength.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithMaxIter sets the maximum number of gradient steps per class.
func WithMaxIter(maxIter int) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the tolerance for the optimization
func WithTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLearningRate sets the initial step size. It decays as rate/(1+0.1·iter).
func WithLearningRate(rate float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(logger log.Logger) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}
