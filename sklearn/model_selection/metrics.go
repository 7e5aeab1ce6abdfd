package model_selection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/YuminosukeSato/arraylab/core/model"
)

var (
	// searchEvaluationsTotal counts fold-level operations by kind.
	searchEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arraylab_search_evaluations_total",
		Help: "Total number of fit, predict, score and index operations issued by model-selection drivers",
	}, []string{"kind"})

	// searchFitDuration tracks the wall time of a single candidate fit.
	searchFitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arraylab_search_fit_duration_seconds",
		Help:    "Duration of a single estimator fit inside a search",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})
)

func countEvaluation(kind model.OpKind) {
	searchEvaluationsTotal.WithLabelValues(kind.String()).Inc()
}
