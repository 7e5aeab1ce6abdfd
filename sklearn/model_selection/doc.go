// Package model_selection provides cross-validation splitters and the
// hyper-parameter search drivers GridSearchCV and RandomizedSearchCV.
//
// Every (candidate, fold) pair is evaluated exactly once: a fresh Clone of
// the estimator receives the candidate's parameters, is fitted on the
// fold's training rows and scored on its test rows. Fold rows are taken
// with integer indexing, so they are copies and never alias the caller's
// arrays. Trace exposes the evaluation log.
//
//	grid := model_selection.ParamGrid{
//		"alpha":         {0.01, 0.1, 1.0},
//		"fit_intercept": {true, false},
//	}
//	gs := model_selection.NewGridSearchCV(linear.NewRidge(), grid,
//		model_selection.WithCV(model_selection.NewKFold(5, true, 42)),
//		model_selection.WithScoring("neg_mean_squared_error"),
//		model_selection.WithNJobs(-1),
//	)
//	if err := gs.Fit(ctx, X, y); err != nil {
//		return err
//	}
//	best, _ := gs.BestParams()
package model_selection
