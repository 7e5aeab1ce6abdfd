// Package linear provides regularised linear models with a scikit-learn
// style fit/predict/score/get_params contract.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/core/parallel"
	"github.com/YuminosukeSato/arraylab/metrics"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// Ridge は L2 正則化付き線形回帰モデル
type Ridge struct {
	state *model.StateManager

	alpha        float64
	fitIntercept bool

	coef      *mat.VecDense // 重み（係数）
	intercept float64       // 切片
}

var (
	_ model.Estimator       = (*Ridge)(nil)
	_ model.WeightsExporter = (*Ridge)(nil)
)

// NewRidge creates a Ridge regressor with alpha=1 and an intercept.
func NewRidge(opts ...RidgeOption) *Ridge {
	r := &Ridge{
		state:        model.NewStateManager(),
		alpha:        1.0,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Ridge) validate() error {
	if r.alpha < 0 || math.IsNaN(r.alpha) || math.IsInf(r.alpha, 0) {
		return errors.NewValidationError("alpha", "must be a finite non-negative number", r.alpha)
	}
	return nil
}

// Fit はモデルを訓練データで学習させる
// 中心化したデータで (X^T X + αI) w = X^T y を解く
func (r *Ridge) Fit(X, y mat.Matrix) error {
	if err := r.validate(); err != nil {
		return err
	}
	nSamples, nFeatures, err := checkXY("Ridge.Fit", X, y)
	if err != nil {
		return err
	}

	Xc := mat.DenseCopyOf(X)
	yc := make([]float64, nSamples)
	for i := range yc {
		yc[i] = y.At(i, 0)
	}

	xMean := make([]float64, nFeatures)
	var yMean float64
	if r.fitIntercept {
		for j := 0; j < nFeatures; j++ {
			col := mat.Col(nil, j, Xc)
			for _, v := range col {
				xMean[j] += v
			}
			xMean[j] /= float64(nSamples)
		}
		for _, v := range yc {
			yMean += v
		}
		yMean /= float64(nSamples)

		parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				row := Xc.RawRowView(i)
				for j := range row {
					row[j] -= xMean[j]
				}
				yc[i] -= yMean
			}
		})
	}

	var gram mat.SymDense
	gram.SymOuterK(1, Xc.T())
	for j := 0; j < nFeatures; j++ {
		gram.SetSym(j, j, gram.At(j, j)+r.alpha)
	}
	var xty mat.VecDense
	xty.MulVec(Xc.T(), mat.NewVecDense(nSamples, yc))

	coef := mat.NewVecDense(nFeatures, nil)
	var chol mat.Cholesky
	if chol.Factorize(&gram) {
		if err := chol.SolveVecTo(coef, &xty); err != nil {
			return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
	} else if err := coef.SolveVec(&gram, &xty); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("Ridge.Fit", coef.RawVector().Data, 0); err != nil {
		return err
	}

	r.coef = coef
	r.intercept = 0
	if r.fitIntercept {
		r.intercept = yMean - mat.Dot(mat.NewVecDense(nFeatures, xMean), coef)
	}
	r.state.SetDimensions(nFeatures, nSamples)
	r.state.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.state.RequireFitted("Ridge", "Predict"); err != nil {
		return nil, err
	}
	rows, c := X.Dims()
	if err := r.state.CheckFeatures("Ridge.Predict", c); err != nil {
		return nil, err
	}

	// 予測: y = X * coef + intercept
	var out mat.VecDense
	out.MulVec(X, r.coef)
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		predictions.Set(i, 0, out.AtVec(i)+r.intercept)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	if err := r.state.RequireFitted("Ridge", "Score"); err != nil {
		return 0, err
	}
	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, yPred)
}

// Coef は学習された重み（係数）を返す
func (r *Ridge) Coef() []float64 {
	if r.coef == nil {
		return nil
	}
	out := make([]float64, r.coef.Len())
	copy(out, r.coef.RawVector().Data)
	return out
}

// Intercept は学習された切片を返す
func (r *Ridge) Intercept() float64 {
	return r.intercept
}

// IsFitted reports whether Fit has completed.
func (r *Ridge) IsFitted() bool {
	return r.state.IsFitted()
}

// GetParams returns the hyper-parameters.
func (r *Ridge) GetParams() model.Params {
	return model.Params{
		"alpha":         r.alpha,
		"fit_intercept": r.fitIntercept,
	}
}

// SetParams sets the hyper-parameters. On error the receiver is unchanged.
func (r *Ridge) SetParams(params model.Params) error {
	if err := params.CheckKnown("alpha", "fit_intercept"); err != nil {
		return err
	}
	next := *r
	if v, ok, err := params.Float("alpha"); err != nil {
		return err
	} else if ok {
		next.alpha = v
	}
	if v, ok, err := params.Bool("fit_intercept"); err != nil {
		return err
	} else if ok {
		next.fitIntercept = v
	}
	if err := next.validate(); err != nil {
		return err
	}
	r.alpha, r.fitIntercept = next.alpha, next.fitIntercept
	return nil
}

// Clone returns an unfitted Ridge with the same hyper-parameters.
func (r *Ridge) Clone() model.Estimator {
	return NewRidge(WithAlpha(r.alpha), WithFitIntercept(r.fitIntercept))
}

// ExportWeights は学習済みの係数とハイパーパラメータを ModelWeights として返す
func (r *Ridge) ExportWeights() (*model.ModelWeights, error) {
	if err := r.state.RequireFitted("Ridge", "ExportWeights"); err != nil {
		return nil, err
	}
	return &model.ModelWeights{
		ModelType:       "Ridge",
		Version:         model.WeightsVersion,
		Coefficients:    r.Coef(),
		Intercept:       r.intercept,
		Hyperparameters: r.GetParams(),
		IsFitted:        true,
	}, nil
}

// ImportWeights restores a fitted Ridge from w. On error the receiver is unchanged.
func (r *Ridge) ImportWeights(w *model.ModelWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != "Ridge" {
		return errors.NewValidationError("model_type", "expected Ridge", w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewValidationError("is_fitted", "weights are not fitted", w.IsFitted)
	}
	if err := errors.CheckNumericalStability("Ridge.ImportWeights", w.Coefficients, 0); err != nil {
		return err
	}
	if err := r.SetParams(w.Hyperparameters); err != nil {
		return err
	}
	r.coef = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	r.intercept = w.Intercept
	r.state.SetDimensions(len(w.Coefficients), 0)
	r.state.SetFitted()
	return nil
}

func checkXY(op string, X, y mat.Matrix) (nSamples, nFeatures int, err error) {
	if X == nil || y == nil {
		return 0, 0, errors.NewValueError(op, "nil input")
	}
	nSamples, nFeatures = X.Dims()
	ry, cy := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != nSamples {
		return 0, 0, errors.NewDimensionError(op, nSamples, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	return nSamples, nFeatures, nil
}
