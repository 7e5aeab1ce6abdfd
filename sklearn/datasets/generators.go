// Package datasets generates synthetic regression and classification
// problems. Every generator takes its random seed explicitly, so the same
// arguments always produce the same data.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// MakeRegression returns X (nSamples×nFeatures, standard normal) and a 1-D
// target y = X·coef + 0.5 + N(0, noise²) with coefficients drawn from U(0, 100).
// The coefficients are returned as well.
func MakeRegression(nSamples, nFeatures int, noise float64, seed uint64) (X, y *array.Array, coef []float64, err error) {
	if err := checkSizes(nSamples, nFeatures); err != nil {
		return nil, nil, nil, err
	}
	if noise < 0 {
		return nil, nil, nil, errors.NewValidationError("noise", "must be non-negative", noise)
	}

	src := rand.NewPCG(seed, seed)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: 100, Src: src}

	coef = make([]float64, nFeatures)
	for j := range coef {
		coef[j] = uniform.Rand()
	}

	data := make([]float64, nSamples*nFeatures)
	for i := range data {
		data[i] = normal.Rand()
	}
	target := make([]float64, nSamples)
	for i := range target {
		v := 0.5
		for j := 0; j < nFeatures; j++ {
			v += data[i*nFeatures+j] * coef[j]
		}
		if noise > 0 {
			v += noise * normal.Rand()
		}
		target[i] = v
	}

	X, err = array.FromSlice(data, nSamples, nFeatures)
	if err != nil {
		return nil, nil, nil, err
	}
	return X, array.Vector(target...), coef, nil
}

// MakeClassification returns nSamples points split as evenly as possible
// across nClasses labelled 0..nClasses-1. Each class is a unit-variance
// Gaussian blob around a centre drawn from U(-sep, sep) per feature. Rows
// are shuffled.
func MakeClassification(nSamples, nFeatures, nClasses int, sep float64, seed uint64) (X, y *array.Array, err error) {
	if err := checkSizes(nSamples, nFeatures); err != nil {
		return nil, nil, err
	}
	if nClasses < 2 || nClasses > nSamples {
		return nil, nil, errors.NewValidationError("n_classes", "must be between 2 and n_samples", nClasses)
	}
	if sep <= 0 {
		return nil, nil, errors.NewValidationError("sep", "must be positive", sep)
	}

	src := rand.NewPCG(seed, seed)
	rng := rand.New(src)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	uniform := distuv.Uniform{Min: -sep, Max: sep, Src: src}

	centres := make([][]float64, nClasses)
	for k := range centres {
		centres[k] = make([]float64, nFeatures)
		for j := range centres[k] {
			centres[k][j] = uniform.Rand()
		}
	}

	order := rng.Perm(nSamples)
	data := make([]float64, nSamples*nFeatures)
	labels := make([]float64, nSamples)
	for n := 0; n < nSamples; n++ {
		k := n % nClasses
		row := order[n]
		labels[row] = float64(k)
		for j := 0; j < nFeatures; j++ {
			data[row*nFeatures+j] = centres[k][j] + normal.Rand()
		}
	}

	X, err = array.FromSlice(data, nSamples, nFeatures)
	if err != nil {
		return nil, nil, err
	}
	return X, array.Vector(labels...), nil
}

func checkSizes(nSamples, nFeatures int) error {
	if nSamples <= 0 {
		return errors.NewValidationError("n_samples", "must be positive", nSamples)
	}
	if nFeatures <= 0 {
		return errors.NewValidationError("n_features", "must be positive", nFeatures)
	}
	return nil
}
