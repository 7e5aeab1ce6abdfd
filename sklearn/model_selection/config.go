package model_selection

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// configValidate checks SearchConfig values after decoding.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("scorer", validateScorer)
}

// validateScorer accepts the empty name and every registered scorer.
func validateScorer(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	_, ok := scorers[name]
	return ok
}

// SearchConfig describes a search in YAML:
//
//	cv_folds: 5
//	shuffle: true
//	seed: 42
//	scoring: neg_mean_squared_error
//	n_jobs: -1
//	param_grid:
//	  alpha: [0.01, 0.1, 1.0]
//	  fit_intercept: [true, false]
type SearchConfig struct {
	CVFolds            int                         `yaml:"cv_folds" validate:"min=2"`
	Stratified         bool                        `yaml:"stratified"`
	Shuffle            bool                        `yaml:"shuffle"`
	Seed               uint64                      `yaml:"seed"`
	NIter              int                         `yaml:"n_iter" validate:"min=0"`
	NJobs              int                         `yaml:"n_jobs" validate:"min=-1"`
	Scoring            string                      `yaml:"scoring" validate:"scorer"`
	Refit              *bool                       `yaml:"refit"`
	ReturnTrainScore   bool                        `yaml:"return_train_score"`
	ErrorScore         *float64                    `yaml:"error_score"`
	ParamGrid          map[string][]any            `yaml:"param_grid" validate:"required_without=ParamDistributions,dive,min=1"`
	ParamDistributions map[string]DistributionSpec `yaml:"param_distributions" validate:"omitempty,dive"`
}

// DistributionSpec is the YAML form of a Distribution.
type DistributionSpec struct {
	Kind   string  `yaml:"kind" validate:"oneof=choice uniform loguniform int"`
	Low    float64 `yaml:"low"`
	High   float64 `yaml:"high"`
	Values []any   `yaml:"values" validate:"required_if=Kind choice"`
}

// Distribution converts d into a sampler distribution for parameter name.
func (d DistributionSpec) Distribution(name string) (Distribution, error) {
	var dist Distribution
	switch d.Kind {
	case "choice":
		dist = Choice(d.Values)
	case "uniform":
		dist = Uniform{Low: d.Low, High: d.High}
	case "loguniform":
		dist = LogUniform{Low: d.Low, High: d.High}
	case "int":
		dist = IntRange{Low: int(d.Low), High: int(d.High)}
	default:
		return nil, errors.NewValidationError(name, "unknown distribution kind", d.Kind)
	}
	if err := dist.validate(name); err != nil {
		return nil, err
	}
	return dist, nil
}

// LoadConfig reads and validates a YAML search configuration.
func LoadConfig(path string) (*SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read search config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML search configuration. Missing
// cv_folds defaults to 5 and missing refit to true.
func ParseConfig(data []byte) (*SearchConfig, error) {
	cfg := &SearchConfig{CVFolds: 5, NJobs: 1}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse search config")
	}
	if err := configValidate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid search config")
	}
	return cfg, nil
}

// Splitter returns the cross-validation splitter the config describes.
func (c *SearchConfig) Splitter() Splitter {
	if c.Stratified {
		return NewStratifiedKFold(c.CVFolds, c.Shuffle, c.Seed)
	}
	return c.KFold()
}

// KFold returns a plain k-fold splitter with the configured folds and seed.
func (c *SearchConfig) KFold() *KFold {
	return NewKFold(c.CVFolds, c.Shuffle, c.Seed)
}

// Grid returns the configured parameter grid.
func (c *SearchConfig) Grid() ParamGrid {
	return ParamGrid(c.ParamGrid)
}

// Distributions returns the sampler entries: every param_distributions
// entry plus every param_grid list.
func (c *SearchConfig) Distributions() (map[string]any, error) {
	out := make(map[string]any, len(c.ParamGrid)+len(c.ParamDistributions))
	for k, values := range c.ParamGrid {
		out[k] = values
	}
	for k, spec := range c.ParamDistributions {
		d, err := spec.Distribution(k)
		if err != nil {
			return nil, err
		}
		out[k] = d
	}
	return out, nil
}

// Options converts the config into search options.
func (c *SearchConfig) Options() []SearchOption {
	opts := []SearchOption{
		WithCV(c.Splitter()),
		WithScoring(c.Scoring),
		WithNJobs(c.NJobs),
		WithReturnTrainScore(c.ReturnTrainScore),
	}
	if c.Refit != nil {
		opts = append(opts, WithRefit(*c.Refit))
	}
	if c.ErrorScore != nil {
		opts = append(opts, WithErrorScore(*c.ErrorScore))
	}
	return opts
}
