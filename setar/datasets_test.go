package setar

import (
	"context"
	"testing"

	"golang.org/x/xerrors"
)

func TestBuildDatasetsPartition(t *testing.T) {
	vals := []float64{10, 11, 9, 12, 8, 13, 7, 14, 6, 15, 5, 16, 10, 11, 9, 12, 8, 13, 7, 14}
	data := newSeries(vals)

	m, err := New(data, Config{Order: 2, AROrder: 2, Delay: 1, Thresholds: []float64{10.5}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	endog, exog, err := m.buildDatasets(1, []float64{10.5}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(endog) != m.nobs {
		t.Fatalf("expected %d responses, got %d", m.nobs, len(endog))
	}
	rows, cols := exog.Dims()
	if rows != m.nobs || cols != 2*3 {
		t.Fatalf("expected %dx%d design, got %dx%d", m.nobs, 6, rows, cols)
	}

	// Every row must carry the lagged regressors in exactly one regime block
	// and zeros in the other: the masks are mutually exclusive and
	// collectively exhaustive.
	indicators := m.regimeIndicators(1, []float64{10.5})
	k := m.cfg.AROrder + 1
	for i := 0; i < rows; i++ {
		active := indicators[i]
		for regime := 0; regime < 2; regime++ {
			for j := 0; j < k; j++ {
				got := exog.At(i, regime*k+j)
				if regime == active {
					if got != m.exog.At(i, j) {
						t.Errorf("row %d: active block mismatch at col %d: %f != %f", i, j, got, m.exog.At(i, j))
					}
				} else if got != 0 {
					t.Errorf("row %d: inactive regime %d has nonzero entry %f", i, regime, got)
				}
			}
		}
	}
}

func TestBuildDatasetsRegimeIndicatorsOrdered(t *testing.T) {
	vals := twoRegimeSeries(100, 19)
	m, err := New(newSeries(vals), Config{Order: 2, AROrder: 2, Delay: 2, Thresholds: []float64{0}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	indicators := m.regimeIndicators(2, []float64{0})
	thresholdVar := vals[m.nobsInitial-2 : len(vals)-2]
	for i, v := range thresholdVar {
		want := 0
		if v > 0 {
			want = 1
		}
		if indicators[i] != want {
			t.Errorf("row %d: threshold value %f classified into regime %d, want %d", i, v, indicators[i], want)
		}
	}
}

func TestBuildDatasetsInvalidRegime(t *testing.T) {
	vals := twoRegimeSeries(100, 29)
	m, err := New(newSeries(vals), Config{Order: 2, AROrder: 2, Delay: 1, Thresholds: []float64{0}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// A threshold above every observed value leaves the upper regime empty.
	_, _, err = m.buildDatasets(1, []float64{1e6}, 2)
	if err == nil {
		t.Fatal("expected InvalidRegimeError, got nil")
	}

	var ire *InvalidRegimeError
	if !xerrors.As(err, &ire) {
		t.Fatalf("expected InvalidRegimeError, got %T: %s", err, err)
	}
	if ire.Regime != 1 {
		t.Errorf("expected regime 1 to be reported, got %d", ire.Regime)
	}
	if ire.Count != 0 {
		t.Errorf("expected a count of 0, got %d", ire.Count)
	}
}

func TestFitInvalidSuppliedThresholds(t *testing.T) {
	vals := twoRegimeSeries(100, 29)
	m, err := New(newSeries(vals), Config{Order: 2, AROrder: 2, Delay: 1, Thresholds: []float64{1e6}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	_, err = m.Fit(context.Background())
	if err == nil {
		t.Fatal("expected InvalidRegimeError from fit, got nil")
	}
	var ire *InvalidRegimeError
	if !xerrors.As(err, &ire) {
		t.Fatalf("expected InvalidRegimeError, got %T: %s", err, err)
	}
}
