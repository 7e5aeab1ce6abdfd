// Package arraylab is a small array and model-selection toolkit for Go.
//
// It has two halves. core/array is an n-dimensional float64 array whose
// indexing follows NumPy's view/copy rules: slicing returns a view that
// shares storage with its source, while boolean masks and integer index
// sequences return independent copies. The sklearn packages build a
// scikit-learn-like model-selection layer on top: estimators with
// Fit/Predict/Score/GetParams, k-fold splitters, and grid and randomized
// hyper-parameter search with nested cross-validation.
//
// # Quick Start
//
// The view/copy quiz:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/arraylab/core/array"
//	)
//
//	func main() {
//	    a := array.Arange(5)
//
//	    // boolean mask → copy
//	    b, err := a.Index(a.Less(3))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // b[::2] = 0
//	    if err := b.Assign(array.All().By(2), 0); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println(a, b) // [0 1 2 3 4] [0 1 0]
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - core/array: Arrays, index expressions (Slice, Mask, Indices, Int) and gonum interop
//   - core/model: Estimator interfaces, Params and fitted-state management
//   - core/parallel: Parallel processing utilities
//   - linear: Linear models (Ridge, LogisticRegression)
//   - metrics: Evaluation metrics (MSE, MAE, R², accuracy, log loss, AUC)
//   - sklearn/datasets: Seeded synthetic datasets
//   - sklearn/model_selection: KFold, GridSearchCV, RandomizedSearchCV, nested CV
//   - pkg/errors: Structured errors and warnings
//   - pkg/log: Structured logging
//
// # Hyper-parameter Search
//
//	grid := model_selection.ParamGrid{"alpha": {0.01, 0.1, 1.0}}
//	gs := model_selection.NewGridSearchCV(linear.NewRidge(), grid,
//	    model_selection.WithCV(model_selection.NewKFold(5, true, 42)),
//	    model_selection.WithNJobs(-1),  // Use all CPU cores
//	)
//	err := gs.Fit(ctx, X, y)
//
// Every random process takes an explicit seed; there is no global RNG state.
//
// # License
//
// arraylab is released under the MIT License.
package arraylab
