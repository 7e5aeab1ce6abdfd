package model_selection

import (
	"sort"

	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// ParamGrid maps a hyper-parameter name to the values to try.
type ParamGrid map[string][]any

// Size returns the number of candidates the grid expands to.
func (g ParamGrid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, values := range g {
		n *= len(values)
	}
	return n
}

// Candidates expands the grid into its Cartesian product. Keys are visited
// in sorted order and the last key varies fastest, so the order is stable
// across runs.
func (g ParamGrid) Candidates() ([]model.Params, error) {
	if len(g) == 0 {
		return nil, errors.NewValidationError("param_grid", "must contain at least one parameter", g)
	}
	keys := make([]string, 0, len(g))
	for k, values := range g {
		if len(values) == 0 {
			return nil, errors.NewValidationError(k, "parameter grid values must be non-empty", values)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.Params, 0, g.Size())
	pos := make([]int, len(keys))
	for {
		p := make(model.Params, len(keys))
		for i, k := range keys {
			p[k] = g[k][pos[i]]
		}
		out = append(out, p)

		i := len(keys) - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(g[keys[i]]) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}
