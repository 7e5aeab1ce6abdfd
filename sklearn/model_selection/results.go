package model_selection

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arraylab/core/model"
)

// CVResults is the per-candidate summary of a search, in candidate order.
type CVResults struct {
	Params []model.Params

	// SplitTestScores[c][f] is the test score of candidate c on fold f.
	SplitTestScores  [][]float64
	MeanTestScore    []float64
	StdTestScore     []float64
	RankTestScore    []int
	SplitTrainScores [][]float64
	MeanTrainScore   []float64
	StdTrainScore    []float64

	MeanFitTime   []time.Duration
	MeanScoreTime []time.Duration
}

func newCVResults(candidates []model.Params, results [][]foldResult, withTrain bool) *CVResults {
	n := len(candidates)
	cv := &CVResults{
		Params:          candidates,
		SplitTestScores: make([][]float64, n),
		MeanTestScore:   make([]float64, n),
		StdTestScore:    make([]float64, n),
		MeanFitTime:     make([]time.Duration, n),
		MeanScoreTime:   make([]time.Duration, n),
	}
	if withTrain {
		cv.SplitTrainScores = make([][]float64, n)
		cv.MeanTrainScore = make([]float64, n)
		cv.StdTrainScore = make([]float64, n)
	}

	for c, folds := range results {
		test := make([]float64, len(folds))
		train := make([]float64, len(folds))
		var fit, score time.Duration
		for f, r := range folds {
			test[f] = r.testScore
			train[f] = r.trainScore
			fit += r.fitTime
			score += r.scoreTime
		}
		cv.SplitTestScores[c] = test
		cv.MeanTestScore[c], cv.StdTestScore[c] = stat.PopMeanStdDev(test, nil)
		if withTrain {
			cv.SplitTrainScores[c] = train
			cv.MeanTrainScore[c], cv.StdTrainScore[c] = stat.PopMeanStdDev(train, nil)
		}
		if k := time.Duration(len(folds)); k > 0 {
			cv.MeanFitTime[c] = fit / k
			cv.MeanScoreTime[c] = score / k
		}
	}
	cv.RankTestScore = rankScores(cv.MeanTestScore)
	return cv
}

// rankScores ranks scores in descending order starting at 1. Ties share
// the lowest rank of their group and NaN ranks last.
func rankScores(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	key := func(i int) float64 {
		if math.IsNaN(scores[i]) {
			return math.Inf(-1)
		}
		return scores[i]
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := key(order[a]), key(order[b])
		if ka != kb {
			return ka > kb
		}
		return !math.IsNaN(scores[order[a]]) && math.IsNaN(scores[order[b]])
	})

	ranks := make([]int, len(scores))
	for pos, idx := range order {
		if pos > 0 {
			prev := order[pos-1]
			if scores[prev] == scores[idx] || (math.IsNaN(scores[prev]) && math.IsNaN(scores[idx])) {
				ranks[idx] = ranks[prev]
				continue
			}
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

// bestIndex is the candidate ranked first; ties go to the lowest index.
func (r *CVResults) bestIndex() int {
	best := -1
	for c, rank := range r.RankTestScore {
		if rank == 1 && (best < 0 || c < best) {
			best = c
		}
	}
	return best
}
