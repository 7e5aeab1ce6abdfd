package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// MSEMatrix は行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// MAEMatrix is MAE over n×1 matrices.
func MAEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("MAEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MAE(t, p)
}

// R2ScoreMatrix is R2Score over n×1 matrices.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}

// columnPair copies two n×1 matrices into vectors, checking that they agree.
func columnPair(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}

	t := mat.NewVecDense(rTrue, nil)
	p := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		t.SetVec(i, yTrue.At(i, 0))
		p.SetVec(i, yPred.At(i, 0))
	}
	return t, p, nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += math.Abs(diff)
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("r2", "no variance in yTrue", 0))
		if rss == 0 {
			return 1, nil
		}
		return 0, nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を比率（0.1 = 10%）で返す
// |yTrue| が eps 未満の要素は eps で割る
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAPE", "empty vector")
	}
	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("MAPE", n, vecLen(yPred), 0)
	}

	eps := math.Nextafter(1, 2) - 1
	var sum float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		sum += math.Abs(yt-yPred.AtVec(i)) / math.Max(math.Abs(yt), eps)
	}
	return sum / float64(n), nil
}

// MAPEMatrix is MAPE over n×1 matrices.
func MAPEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("MAPEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MAPE(t, p)
}

// ExplainedVarianceScore は説明分散スコア 1 - Var(yTrue - yPred) / Var(yTrue) を計算する
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "empty vector")
	}
	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("ExplainedVarianceScore", n, vecLen(yPred), 0)
	}

	truth := mat.Col(nil, 0, yTrue)
	resid := make([]float64, n)
	floats.SubTo(resid, truth, mat.Col(nil, 0, yPred))

	_, varTrue := stat.PopMeanVariance(truth, nil)
	_, varResid := stat.PopMeanVariance(resid, nil)

	// R2Score と同じく、yTrue が定数なら完全一致で 1、それ以外は 0
	if varTrue == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("explained_variance", "no variance in yTrue", 0))
		if varResid == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - varResid/varTrue, nil
}

// ExplainedVarianceScoreMatrix is ExplainedVarianceScore over n×1 matrices.
func ExplainedVarianceScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("ExplainedVarianceScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ExplainedVarianceScore(t, p)
}

func vecLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
