package model_selection

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// Splitter generates train/test row indices for cross-validation.
type Splitter interface {
	Split(X, y mat.Matrix) ([]Fold, error)
	GetNSplits() int
}

// Fold is one train/test partition of the sample rows.
type Fold struct {
	Train []int
	Test  []int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. The first
// nSamples%NSplits folds get one extra test sample.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if err := checkSplits(kf.NSplits, nSamples); err != nil {
		return nil, err
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	current := 0
	for i := range folds {
		testSize := foldSize
		if i < remainder {
			testSize++
		}
		test := slices.Clone(indices[current : current+testSize])
		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)
		sort.Ints(test)
		sort.Ints(train)
		folds[i] = Fold{Train: train, Test: test}
		current += testSize
	}
	return folds, nil
}

// StratifiedKFold implements stratified k-fold cross-validation. Each class
// is dealt across the folds separately so every fold keeps roughly the
// class proportions of y.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a new stratified k-fold splitter
func NewStratifiedKFold(nSplits int, shuffle bool, seed uint64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// GetNSplits returns the number of splits
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if err := checkSplits(skf.NSplits, nSamples); err != nil {
		return nil, err
	}
	if y == nil {
		return nil, errors.NewValueError("StratifiedKFold.Split", "y is required for stratification")
	}
	if yr, _ := y.Dims(); yr != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, yr, 0)
	}

	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if math.IsNaN(label) {
			return nil, errors.NewValueError("StratifiedKFold.Split", fmt.Sprintf("NaN label at row %d", i))
		}
		classIndices[label] = append(classIndices[label], i)
	}
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
		for _, label := range labels {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NSplits)
	// Remainders rotate across classes so small classes do not all land
	// in the first fold.
	next := 0
	for _, label := range labels {
		for _, idx := range classIndices[label] {
			folds[next].Test = append(folds[next].Test, idx)
			next = (next + 1) % skf.NSplits
		}
	}

	for i := range folds {
		sort.Ints(folds[i].Test)
		inTest := make(map[int]bool, len(folds[i].Test))
		for _, idx := range folds[i].Test {
			inTest[idx] = true
		}
		folds[i].Train = make([]int, 0, nSamples-len(folds[i].Test))
		for j := 0; j < nSamples; j++ {
			if !inTest[j] {
				folds[i].Train = append(folds[i].Train, j)
			}
		}
	}
	return folds, nil
}

func checkSplits(nSplits, nSamples int) error {
	if nSplits < 2 {
		return errors.NewValidationError("n_splits", "must be at least 2", nSplits)
	}
	if nSplits > nSamples {
		return errors.NewValidationError("n_splits", "cannot be greater than the number of samples", nSplits)
	}
	return nil
}
