// Package setargo provides Self-Exciting Threshold Autoregressive (SETAR)
// modeling for univariate time series.
//
// A SETAR model is a piecewise-linear autoregression: the series switches
// between a small number of linear regimes, and the active regime at each
// time step is chosen by comparing a delayed value of the series itself
// against one or more threshold values. The delay and the thresholds can be
// estimated by grid search following Hansen (1999), "Testing for Linearity".
//
// # Quick Start
//
// Fit a two-regime SETAR model with estimated hyperparameters:
//
//	data := dataframe.NewSeriesFloat64("y", nil)
//	data.Values = values
//
//	model, err := setar.New(data, setar.Config{Order: 2, AROrder: 2})
//	if err != nil { ... }
//
//	res, err := model.Fit(ctx)
//	if err != nil { ... }
//
//	forecast, err := model.Predict(ctx, 10)
//
// # Packages
//
//   - setar: the SETAR model, hyperparameter search and regime partitioning
//   - regression: ordinary least squares and lagged design-matrix utilities
package setargo
