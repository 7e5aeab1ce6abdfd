package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// Accuracy は正解率（一致したラベルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix is Accuracy over n×1 matrices.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(t, p)
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する。
// yPred は陽性クラスの確率で、log(0) を避けるためにクリップされる。
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := errors.ClipProbability(yPred.AtVec(i))
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// LogLoss is the multi-class cross-entropy. proba holds one column per entry
// of classes, in the same order; rows are renormalised after clipping.
func LogLoss(yTrue mat.Matrix, proba mat.Matrix, classes []float64) (float64, error) {
	const op = "LogLoss"
	if yTrue == nil || proba == nil {
		return 0, errors.NewValueError(op, "nil matrix")
	}
	n, c := yTrue.Dims()
	if n == 0 || c == 0 {
		return 0, errors.NewValueError(op, "empty matrix")
	}
	pr, pc := proba.Dims()
	if pr != n {
		return 0, errors.NewDimensionError(op, n, pr, 0)
	}
	if pc != len(classes) {
		return 0, errors.NewDimensionError(op, len(classes), pc, 1)
	}

	column := make(map[float64]int, len(classes))
	for j, cls := range classes {
		column[cls] = j
	}

	var sum float64
	for i := 0; i < n; i++ {
		j, ok := column[yTrue.At(i, 0)]
		if !ok {
			return 0, errors.NewValueError(op, "y_true contains a label not present in classes")
		}
		var total float64
		for k := 0; k < pc; k++ {
			total += errors.ClipProbability(proba.At(i, k))
		}
		sum -= math.Log(errors.ClipProbability(proba.At(i, j)) / total)
	}
	return sum / float64(n), nil
}

// AUC はROC曲線下面積を計算する。陽性と陰性の全ペアのうち、陽性のスコアが
// 高いペアの割合（同点は 0.5）に等しい。
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("AUC", yTrue); err != nil {
		return 0, err
	}

	type scored struct {
		score float64
		label float64
	}
	items := make([]scored, n)
	for i := range items {
		items[i] = scored{score: yPred.AtVec(i), label: yTrue.AtVec(i)}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].score < items[j].score })

	// Mann-Whitney U with average ranks for ties.
	var nPos, rankSum float64
	for i := 0; i < n; {
		j := i
		for j < n && items[j].score == items[i].score {
			j++
		}
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if items[k].label == 1 {
				nPos++
				rankSum += avgRank
			}
		}
		i = j
	}
	nNeg := float64(n) - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("roc_auc", "only one class present in y_true", 0.5))
		return 0.5, nil
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// AUCMatrix computes AUC from the first column of each matrix.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUCMatrix", "nil matrix")
	}
	r, c := yTrue.Dims()
	pr, pc := yPred.Dims()
	if r == 0 || c == 0 || pc == 0 {
		return 0, errors.NewValueError("AUCMatrix", "empty matrix")
	}
	if pr != r {
		return 0, errors.NewDimensionError("AUCMatrix", r, pr, 0)
	}
	t := mat.NewVecDense(r, nil)
	p := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		t.SetVec(i, yTrue.At(i, 0))
		p.SetVec(i, yPred.At(i, 0))
	}
	return AUC(t, p)
}

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError(op, n, vecLen(yPred), 0)
	}
	return n, nil
}

func checkBinary(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}
