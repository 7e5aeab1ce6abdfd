package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// Params maps hyper-parameter names to values.
type Params map[string]any

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copy returns a shallow copy.
func (p Params) Copy() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p overlaid with other.
func (p Params) Merge(other Params) Params {
	out := p.Copy()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// String renders the parameters in key order, e.g. {alpha: 0.1, fit_intercept: true}.
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Float reads key as a float64. Integer values are converted.
func (p Params) Float(key string) (float64, bool, error) {
	v, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	switch x := v.(type) {
	case float64:
		return x, true, nil
	case float32:
		return float64(x), true, nil
	case int:
		return float64(x), true, nil
	case int64:
		return float64(x), true, nil
	default:
		return 0, true, errors.NewValidationError(key, "must be a number", v)
	}
}

// Int reads key as an int. Floats with an integral value are accepted, as
// YAML and sampled distributions produce them.
func (p Params) Int(key string) (int, bool, error) {
	v, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int64:
		return int(x), true, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, true, errors.NewValidationError(key, "must be an integer", v)
		}
		return int(x), true, nil
	default:
		return 0, true, errors.NewValidationError(key, "must be an integer", v)
	}
}

// Bool reads key as a bool.
func (p Params) Bool(key string) (bool, bool, error) {
	v, ok := p[key]
	if !ok {
		return false, false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, true, errors.NewValidationError(key, "must be a boolean", v)
	}
	return b, true, nil
}

// CheckKnown rejects any key not in allowed.
func (p Params) CheckKnown(allowed ...string) error {
	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}
	for _, k := range p.Keys() {
		if _, ok := known[k]; !ok {
			return errors.NewValidationError(k, "unknown parameter", p[k])
		}
	}
	return nil
}
