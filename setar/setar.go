// Package setar implements Self-Exciting Threshold Autoregressive (SETAR)
// models: piecewise-linear autoregressions whose active regime at each time
// step is selected by comparing a delayed value of the series itself against
// one or more threshold values.
//
// The delay and the thresholds can either be supplied up front or estimated
// by a grid search over the observed values of the threshold variable,
// following Hansen (1999), "Testing for Linearity", extended to any number of
// thresholds by sequential seeding and coordinate-wise refinement. The final
// regime-partitioned regression is estimated with ordinary least squares.
package setar

import (
	"context"
	"errors"
	"math"
	"sort"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"

	"github.com/rocketlaunchr/setar-go/regression"
)

// DataType is an Enum used to specify data
// type selection from a fitted Model
type DataType int

const (
	// MainData type specifies selection of the original series from the Model
	MainData DataType = 0
	// FittedData type specifies selection of the in-sample fitted values
	FittedData DataType = 1
	// ResidualData type specifies selection of the in-sample residuals
	ResidualData DataType = 2
)

// Config contains the model configuration. Order and AROrder are required;
// the remaining fields have defaults applied by New.
type Config struct {
	// Order is the number of regimes. Must be at least 2.
	Order int

	// AROrder is the order of the autoregressive parameters in each regime.
	AROrder int

	// Delay is the lag applied to the series to form the threshold variable.
	// Zero means the delay is estimated by grid search.
	Delay int

	// Thresholds are the Order-1 boundary values separating the regimes.
	// Nil means the thresholds are estimated by grid search.
	Thresholds []float64

	// MinRegimeFrac is the minimum fraction of observations required in each
	// regime. Defaults to 0.1.
	MinRegimeFrac float64

	// MaxDelay is the largest delay considered by the grid search. Defaults
	// to AROrder, and must not exceed it: keeping the delay within the
	// autoregressive order holds the number of usable observations fixed
	// across candidate delays.
	MaxDelay int

	// ThresholdGridSize is the approximate number of candidate thresholds
	// evaluated per delay. Approximate because candidates are drawn from the
	// observed values themselves. Defaults to 100.
	ThresholdGridSize int

	// Range limits fitting to a window of the series.
	Range *dataframe.Range
}

// Model holds the configuration, the cached lagged design and, after
// estimation, the selected hyperparameters and regression results.
type Model struct {
	data *dataframe.SeriesFloat64
	cfg  Config

	values       []float64 // train window of the series
	nobsInitial  int       // observations consumed as lag history
	nobs         int
	minRegimeNum int

	endog []float64  // response aligned to the design rows
	exog  *mat.Dense // lagged design with constant, shape nobs x (AROrder+1)

	delay      int
	thresholds []float64
	resolved   bool

	res *regression.OLSResults
}

// New validates the configuration and prepares the lagged design. The series
// is copied, so the model is unaffected by later mutation of s.
func New(s *dataframe.SeriesFloat64, cfg Config) (*Model, error) {
	if s == nil {
		return nil, errors.New("setar: nil series")
	}

	if cfg.Order < 2 {
		return nil, xerrors.Errorf("setar: order must be at least 2, got %d", cfg.Order)
	}
	if cfg.AROrder < 1 {
		return nil, xerrors.Errorf("setar: ar order must be at least 1, got %d", cfg.AROrder)
	}

	if cfg.MinRegimeFrac == 0 {
		cfg.MinRegimeFrac = 0.1
	}
	if cfg.MinRegimeFrac < 0 || cfg.MinRegimeFrac > 1 {
		return nil, xerrors.Errorf("setar: minimum regime fraction must be in (0,1], got %g", cfg.MinRegimeFrac)
	}
	if cfg.ThresholdGridSize == 0 {
		cfg.ThresholdGridSize = 100
	}
	if cfg.ThresholdGridSize < 1 {
		return nil, xerrors.Errorf("setar: threshold grid size must be positive, got %d", cfg.ThresholdGridSize)
	}

	if cfg.Delay != 0 && (cfg.Delay < 1 || cfg.Delay > cfg.AROrder) {
		return nil, xerrors.Errorf("setar: delay must be between 1 and the ar order, got %d", cfg.Delay)
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = cfg.AROrder
	}
	if (cfg.Delay == 0 || cfg.Thresholds == nil) && cfg.MaxDelay > cfg.AROrder {
		return nil, xerrors.Errorf("setar: maximum delay for grid search must not exceed the ar order, got %d", cfg.MaxDelay)
	}

	if cfg.Thresholds != nil && len(cfg.Thresholds)+1 != cfg.Order {
		return nil, xerrors.Errorf("setar: number of thresholds must be one less than the order: got %d thresholds for order %d",
			len(cfg.Thresholds), cfg.Order)
	}

	start, end := 0, len(s.Values)-1
	if cfg.Range != nil {
		var err error
		start, end, err = cfg.Range.Limits(len(s.Values))
		if err != nil {
			return nil, err
		}
	}
	values := append([]float64(nil), s.Values[start:end+1]...)

	nobs := len(values) - cfg.AROrder
	if nobs < cfg.Order*(cfg.AROrder+1) {
		return nil, errors.New("setar: insufficient data points for the specified order")
	}

	m := &Model{
		data:         s,
		cfg:          cfg,
		values:       values,
		nobsInitial:  cfg.AROrder,
		nobs:         nobs,
		minRegimeNum: int(math.Ceil(cfg.MinRegimeFrac * float64(nobs))),
		endog:        values[cfg.AROrder:],
		exog:         regression.AddConstant(regression.Lagmat(values, cfg.AROrder)),
	}

	if cfg.Delay != 0 && cfg.Thresholds != nil {
		m.delay = cfg.Delay
		m.thresholds = append([]float64(nil), cfg.Thresholds...)
		sort.Float64s(m.thresholds)
		m.resolved = true
	}

	return m, nil
}

// Fit estimates the SETAR model. If the delay or the thresholds were not
// supplied at construction they are selected first by grid search; the
// selection runs at most once per model, so repeated calls reuse the
// discovered hyperparameters. The final regime-partitioned regression is
// delegated to regression.OLS and its results are returned unmodified.
func (m *Model) Fit(ctx context.Context) (*regression.OLSResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !m.resolved {
		if _, _, err := m.SelectHyperparameters(ctx); err != nil {
			return nil, err
		}
	}

	endog, exog, err := m.buildDatasets(m.delay, m.thresholds, m.cfg.Order)
	if err != nil {
		return nil, err
	}

	res, err := regression.OLS(endog, exog)
	if err != nil {
		return nil, &NumericError{Op: "terminal fit", Err: err}
	}
	m.res = res

	return res, nil
}

// Delay returns the delay in use, or 0 if it has not been resolved yet.
func (m *Model) Delay() int {
	if !m.resolved {
		return 0
	}
	return m.delay
}

// Thresholds returns a copy of the thresholds in use, or nil if they have not
// been resolved yet.
func (m *Model) Thresholds() []float64 {
	if !m.resolved {
		return nil
	}
	return append([]float64(nil), m.thresholds...)
}

// Regimes returns the regime index of every in-sample observation, aligned to
// the fitted values and residuals.
func (m *Model) Regimes() (*dataframe.SeriesFloat64, error) {
	if m.res == nil {
		return nil, errors.New("setar: model must be fitted before regime classification")
	}

	indicators := m.regimeIndicators(m.delay, m.thresholds)
	vals := make([]float64, len(indicators))
	for i, r := range indicators {
		vals[i] = float64(r)
	}

	s := dataframe.NewSeriesFloat64("Regime", nil)
	s.Values = vals
	return s, nil
}
