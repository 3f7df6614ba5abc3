// Package regression provides ordinary least squares estimation and the
// design-matrix utilities (lag matrices, intercept columns) used to build
// autoregressions on top of it.
package regression

import (
	"errors"
	"math"

	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"
)

// OLSResults holds the output of an ordinary least squares fit.
type OLSResults struct {
	Coefficients []float64
	Residuals    []float64
	Fitted       []float64
	NObs         int
	NVars        int
	RSS          float64
	TSS          float64
	RSquared     float64
	Sigma2       float64 // residual variance, degrees-of-freedom adjusted
}

// OLS fits a linear regression of y on the columns of x using a QR
// decomposition. The design may contain structural zero blocks, as produced
// by regime-masked autoregressions; only rank matters. A singular or
// near-singular design returns an error wrapping the underlying gonum
// failure.
func OLS(y []float64, x *mat.Dense) (*OLSResults, error) {
	if x == nil {
		return nil, errors.New("regression: nil design matrix")
	}

	r, c := x.Dims()
	if len(y) != r {
		return nil, xerrors.Errorf("regression: response length %d does not match design rows %d", len(y), r)
	}
	if r < c {
		return nil, xerrors.Errorf("regression: underdetermined system: %d observations for %d regressors", r, c)
	}

	yVec := mat.NewVecDense(r, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(x, yVec); err != nil {
		return nil, xerrors.Errorf("regression: design matrix is singular or near-singular: %w", err)
	}

	fitted := mat.NewVecDense(r, nil)
	fitted.MulVec(x, &beta)

	res := &OLSResults{
		Coefficients: make([]float64, c),
		Residuals:    make([]float64, r),
		Fitted:       make([]float64, r),
		NObs:         r,
		NVars:        c,
	}
	for j := 0; j < c; j++ {
		res.Coefficients[j] = beta.AtVec(j)
	}

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(r)

	for i := 0; i < r; i++ {
		f := fitted.AtVec(i)
		e := y[i] - f
		res.Fitted[i] = f
		res.Residuals[i] = e
		res.RSS += e * e
		res.TSS += (y[i] - mean) * (y[i] - mean)
	}

	if res.TSS > 0 {
		res.RSquared = 1 - res.RSS/res.TSS
	}
	if r > c {
		res.Sigma2 = res.RSS / float64(r-c)
	} else {
		res.Sigma2 = math.NaN()
	}

	return res, nil
}
