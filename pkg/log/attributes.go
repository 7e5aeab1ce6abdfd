// Standard attribute keys. Keys follow a hierarchical naming convention
// ("model.name", "data.samples") so records can be filtered consistently.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator or driver type.
	// Examples: "Ridge", "LogisticRegression", "GridSearchCV"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "index"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns).
	FeaturesKey = "data.features"

	// ShapeKey is the full shape of an array, e.g. [3 4].
	ShapeKey = "data.shape"
)

// Array indexing.
const (
	// IndexKindKey is the kind of index expression: "slice", "mask", "indices", "at".
	IndexKindKey = "index.kind"

	// AxisKey is the axis an index expression applies to.
	AxisKey = "index.axis"

	// ViewKey reports whether an indexing result shares storage with its source.
	ViewKey = "index.view"
)

// Model selection.
const (
	// RunIDKey uniquely identifies one search run.
	RunIDKey = "search.run_id"

	// CandidateKey is the index of a parameter candidate.
	CandidateKey = "search.candidate"

	// CandidatesKey is the number of parameter candidates.
	CandidatesKey = "search.candidates"

	// FoldKey is the index of a cross-validation fold.
	FoldKey = "cv.fold"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "cv.folds"

	// ScoringKey is the scorer name.
	ScoringKey = "cv.scoring"

	// ScoreKey is a single score value.
	ScoreKey = "cv.score"

	// ParamsKey holds a parameter set.
	ParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Performance and errors.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the iteration number of an iterative solver.
	IterationKey = "training.iteration"

	// ErrorCodeKey provides a structured error code.
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationIndex   = "index"

	PhaseTraining   = "training"
	PhaseValidation = "validation"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorIndexOutOfBounds  = "INDEX_OUT_OF_BOUNDS"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
