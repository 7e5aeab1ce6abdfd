package model_selection

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
	"github.com/YuminosukeSato/arraylab/pkg/log"
)

// Distribution draws one hyper-parameter value.
type Distribution interface {
	Sample(r *rand.Rand) any
	validate(name string) error
}

// Choice picks uniformly among a fixed set of values.
type Choice []any

func (c Choice) Sample(r *rand.Rand) any { return c[r.IntN(len(c))] }

func (c Choice) validate(name string) error {
	if len(c) == 0 {
		return errors.NewValidationError(name, "choice must contain at least one value", c)
	}
	return nil
}

// Uniform draws a float64 from [Low, High).
type Uniform struct {
	Low, High float64
}

func (u Uniform) Sample(r *rand.Rand) any {
	return distuv.Uniform{Min: u.Low, Max: u.High, Src: r}.Rand()
}

func (u Uniform) validate(name string) error {
	if !(u.Low < u.High) {
		return errors.NewValidationError(name, "uniform bounds must satisfy low < high", u)
	}
	return nil
}

// LogUniform draws a float64 whose logarithm is uniform on
// [log Low, log High). Used for scale parameters such as alpha or C.
type LogUniform struct {
	Low, High float64
}

func (u LogUniform) Sample(r *rand.Rand) any {
	x := distuv.Uniform{Min: math.Log(u.Low), Max: math.Log(u.High), Src: r}.Rand()
	return math.Exp(x)
}

func (u LogUniform) validate(name string) error {
	if !(u.Low > 0 && u.Low < u.High) {
		return errors.NewValidationError(name, "log-uniform bounds must satisfy 0 < low < high", u)
	}
	return nil
}

// IntRange draws an int from [Low, High).
type IntRange struct {
	Low, High int
}

func (d IntRange) Sample(r *rand.Rand) any { return d.Low + r.IntN(d.High-d.Low) }

func (d IntRange) validate(name string) error {
	if d.Low >= d.High {
		return errors.NewValidationError(name, "int range must satisfy low < high", d)
	}
	return nil
}

// ParameterSampler draws NIter candidates from Distributions. Each entry
// is either a Distribution or a plain []any list sampled uniformly.
//
// When every entry is a list the candidates are drawn without replacement
// from the full grid, and NIter is capped at the grid size.
type ParameterSampler struct {
	Distributions map[string]any
	NIter         int
	Seed          uint64
}

// Candidates returns the sampled parameter sets. The same Seed always
// yields the same candidates.
func (s ParameterSampler) Candidates() ([]model.Params, error) {
	if s.NIter < 1 {
		return nil, errors.NewValidationError("n_iter", "must be at least 1", s.NIter)
	}
	if len(s.Distributions) == 0 {
		return nil, errors.NewValidationError("param_distributions", "must contain at least one parameter", s.Distributions)
	}

	keys := make([]string, 0, len(s.Distributions))
	dists := make(map[string]Distribution, len(s.Distributions))
	allLists := true
	for k, v := range s.Distributions {
		keys = append(keys, k)
		switch d := v.(type) {
		case []any:
			dists[k] = Choice(d)
		case Choice:
			dists[k] = d
		case Distribution:
			dists[k] = d
			allLists = false
		default:
			return nil, errors.NewValidationError(k, fmt.Sprintf("unsupported distribution type %T", v), v)
		}
		if err := dists[k].validate(k); err != nil {
			return nil, err
		}
	}
	sort.Strings(keys)

	r := rand.New(rand.NewPCG(s.Seed, s.Seed))

	if allLists {
		grid := make(ParamGrid, len(keys))
		for _, k := range keys {
			grid[k] = dists[k].(Choice)
		}
		all, err := grid.Candidates()
		if err != nil {
			return nil, err
		}
		n := s.NIter
		if n > len(all) {
			log.GetLoggerWithName("model_selection").Warn("n_iter exceeds the grid size, sampling the full grid",
				"n_iter", s.NIter, log.CandidatesKey, len(all))
			n = len(all)
		}
		perm := r.Perm(len(all))
		out := make([]model.Params, n)
		for i := range out {
			out[i] = all[perm[i]]
		}
		return out, nil
	}

	out := make([]model.Params, s.NIter)
	for i := range out {
		p := make(model.Params, len(keys))
		for _, k := range keys {
			p[k] = dists[k].Sample(r)
		}
		out[i] = p
	}
	return out, nil
}
