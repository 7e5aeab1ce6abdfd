// Package model defines the estimator contracts shared by the linear models
// and the model-selection drivers.
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer computes the estimator's default score; greater is better.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// ParamGetter exposes hyper-parameters under their scikit-learn names.
type ParamGetter interface {
	GetParams() Params
}

// ParamSetter updates hyper-parameters. Unknown names and invalid values
// are rejected with a ValidationError and leave the receiver unchanged.
type ParamSetter interface {
	SetParams(params Params) error
}

// Cloner returns an unfitted estimator with identical hyper-parameters.
type Cloner interface {
	Clone() Estimator
}

// Estimator is everything a search driver needs from a model.
type Estimator interface {
	Fitter
	Predictor
	Scorer
	ParamGetter
	ParamSetter
	Cloner
}

// ProbabilisticClassifier is an Estimator that also reports class
// probabilities, one column per entry of Classes().
type ProbabilisticClassifier interface {
	Estimator
	PredictProba(X mat.Matrix) (mat.Matrix, error)
	Classes() []float64
}
