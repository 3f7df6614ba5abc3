package regression

import "gonum.org/v1/gonum/mat"

// Lagmat builds the lagged-regressor matrix of a series. Row i corresponds to
// observation lags+i of the input and column j holds the value lagged by j+1
// steps, so the result has shape (len(values)-lags, lags). The first lags
// observations are consumed as lag history only. Returns nil if the series is
// too short to produce at least one row.
func Lagmat(values []float64, lags int) *mat.Dense {
	if lags < 1 || len(values) <= lags {
		return nil
	}

	n := len(values) - lags
	out := mat.NewDense(n, lags, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < lags; j++ {
			out.Set(i, j, values[lags+i-1-j])
		}
	}
	return out
}

// AddConstant prepends a column of ones to x for an intercept term.
func AddConstant(x *mat.Dense) *mat.Dense {
	if x == nil {
		return nil
	}

	r, c := x.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}
