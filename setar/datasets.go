package setar

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// regimeIndicators classifies each design row into a regime by locating the
// delayed series value within the sorted thresholds. Left-insertion search:
// regime 0 holds values at or below the first threshold, regime k the values
// in (thresholds[k-1], thresholds[k]], the last regime everything above.
func (m *Model) regimeIndicators(delay int, thresholds []float64) []int {
	thresholdVar := m.values[m.nobsInitial-delay : len(m.values)-delay]

	indicators := make([]int, m.nobs)
	for i, v := range thresholdVar {
		indicators[i] = sort.SearchFloat64s(thresholds, v)
	}
	return indicators
}

// buildDatasets produces the response vector and the regime-partitioned
// design for a candidate (delay, thresholds) pair: the lagged regressors of
// each regime are masked to zero outside that regime's rows and the blocks
// concatenated, giving a design of width order*(AROrder+1). A regime holding
// fewer than the minimum observation count fails with InvalidRegimeError.
//
// The search evaluates partial candidates, so order may be smaller than the
// configured one while thresholds are still being accumulated.
func (m *Model) buildDatasets(delay int, thresholds []float64, order int) ([]float64, *mat.Dense, error) {
	indicators := m.regimeIndicators(delay, thresholds)

	counts := make([]int, order)
	for _, r := range indicators {
		counts[r]++
	}
	for i := 0; i < order; i++ {
		if counts[i] < m.minRegimeNum {
			return nil, nil, &InvalidRegimeError{Regime: i, Count: counts[i], Min: m.minRegimeNum}
		}
	}

	k := m.cfg.AROrder + 1
	exog := mat.NewDense(m.nobs, order*k, nil)
	for t := 0; t < m.nobs; t++ {
		offset := indicators[t] * k
		for j := 0; j < k; j++ {
			exog.Set(t, offset+j, m.exog.At(t, j))
		}
	}

	return m.endog, exog, nil
}
