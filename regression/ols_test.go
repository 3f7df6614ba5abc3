package regression

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestOLSExactFit(t *testing.T) {
	n := 10
	x := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i + 1)
		x.Set(i, 0, v)
		y[i] = 2 + 3*v
	}

	res, err := OLS(y, AddConstant(x))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(res.Coefficients) != 2 {
		t.Fatalf("expected 2 coefficients, got %d", len(res.Coefficients))
	}
	if math.Abs(res.Coefficients[0]-2) > 1e-8 {
		t.Errorf("intercept: got %f, want 2", res.Coefficients[0])
	}
	if math.Abs(res.Coefficients[1]-3) > 1e-8 {
		t.Errorf("slope: got %f, want 3", res.Coefficients[1])
	}
	for i, e := range res.Residuals {
		if math.Abs(e) > 1e-8 {
			t.Errorf("residual %d: got %g, want 0", i, e)
		}
	}
	if math.Abs(res.RSquared-1) > 1e-8 {
		t.Errorf("r-squared: got %f, want 1", res.RSquared)
	}
	if res.NObs != n || res.NVars != 2 {
		t.Errorf("dimensions: got (%d,%d), want (%d,2)", res.NObs, res.NVars, n)
	}
}

func TestOLSZeroBlocks(t *testing.T) {
	// A block-masked design of the kind produced by regime partitioning:
	// rows belong to one of two blocks, the other block zeroed.
	n := 12
	x := mat.NewDense(n, 4, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i + 1)
		if i%2 == 0 {
			x.Set(i, 0, 1)
			x.Set(i, 1, v)
			y[i] = 1 + 2*v
		} else {
			x.Set(i, 2, 1)
			x.Set(i, 3, v)
			y[i] = -1 + 0.5*v
		}
	}

	res, err := OLS(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := []float64{1, 2, -1, 0.5}
	for i, w := range want {
		if math.Abs(res.Coefficients[i]-w) > 1e-8 {
			t.Errorf("coefficient %d: got %f, want %f", i, res.Coefficients[i], w)
		}
	}
}

func TestOLSSingular(t *testing.T) {
	// Two identical columns make the design rank deficient.
	n := 8
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i + 1)
		x.Set(i, 0, v)
		x.Set(i, 1, v)
		y[i] = v
	}

	if _, err := OLS(y, x); err == nil {
		t.Error("expected error for rank-deficient design, got nil")
	}
}

func TestOLSValidation(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	if _, err := OLS([]float64{1, 2}, x); err == nil {
		t.Error("expected error for mismatched response length, got nil")
	}
	if _, err := OLS(nil, nil); err == nil {
		t.Error("expected error for nil design, got nil")
	}
	if _, err := OLS([]float64{1}, mat.NewDense(1, 2, []float64{1, 2})); err == nil {
		t.Error("expected error for underdetermined system, got nil")
	}
}
