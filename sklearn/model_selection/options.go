package model_selection

import "github.com/YuminosukeSato/arraylab/pkg/log"

// searchConfig holds the settings shared by the search drivers and the
// cross-validation helpers.
type searchConfig struct {
	cv               Splitter
	scoring          string
	nJobs            int
	refit            bool
	returnTrainScore bool
	errorScore       *float64
	logger           log.Logger
}

func defaultSearchConfig() searchConfig {
	return searchConfig{
		cv:    NewKFold(5, false, 0),
		nJobs: 1,
		refit: true,
	}
}

// SearchOption configures a search driver or a cross-validation helper.
type SearchOption func(*searchConfig)

// WithCV sets the cross-validation splitter. Defaults to unshuffled 5-fold.
func WithCV(cv Splitter) SearchOption {
	return func(c *searchConfig) {
		c.cv = cv
	}
}

// WithScoring selects a scorer by name (see Scorers). The empty name uses
// the estimator's Score method.
func WithScoring(scoring string) SearchOption {
	return func(c *searchConfig) {
		c.scoring = scoring
	}
}

// WithNJobs bounds the number of (candidate, fold) evaluations in flight.
// -1 uses every CPU core.
func WithNJobs(nJobs int) SearchOption {
	return func(c *searchConfig) {
		c.nJobs = nJobs
	}
}

// WithRefit controls whether the best candidate is refitted on the whole
// dataset after the search.
func WithRefit(refit bool) SearchOption {
	return func(c *searchConfig) {
		c.refit = refit
	}
}

// WithReturnTrainScore also scores every fold on its training rows.
func WithReturnTrainScore(enabled bool) SearchOption {
	return func(c *searchConfig) {
		c.returnTrainScore = enabled
	}
}

// WithErrorScore records score for a fold whose fit or score fails instead
// of aborting the search.
func WithErrorScore(score float64) SearchOption {
	return func(c *searchConfig) {
		c.errorScore = &score
	}
}

// WithLogger sets the logger for search progress.
func WithLogger(logger log.Logger) SearchOption {
	return func(c *searchConfig) {
		c.logger = logger
	}
}
