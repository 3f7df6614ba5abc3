package setar

import (
	"context"
	"errors"
	"sort"

	"github.com/bradfitz/iter"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Predict method runs future predictions for a fitted SETAR Model by
// iterating the regime-switching autoregression: each step classifies the
// value delay steps back against the fitted thresholds and applies that
// regime's coefficients, feeding the prediction back into the lag window.
// It returns result in dataframe.SeriesFloat64 format.
func (m *Model) Predict(ctx context.Context, h int) (*dataframe.SeriesFloat64, error) {

	// Validation
	if h <= 0 {
		return nil, errors.New("setar: value of h must be greater than 0")
	}
	if m.res == nil {
		return nil, errors.New("setar: model must be fitted before prediction")
	}

	k := m.cfg.AROrder + 1

	ext := append([]float64(nil), m.values...)
	forecast := make([]float64, 0, h)

	for range iter.N(h) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := len(ext)
		regime := sort.SearchFloat64s(m.thresholds, ext[t-m.delay])
		coef := m.res.Coefficients[regime*k : (regime+1)*k]

		pred := coef[0]
		for j := 1; j <= m.cfg.AROrder; j++ {
			pred += coef[j] * ext[t-j]
		}

		ext = append(ext, pred)
		forecast = append(forecast, pred)
	}

	fdf := dataframe.NewSeriesFloat64("Prediction", nil)
	fdf.Values = forecast

	return fdf, nil
}
