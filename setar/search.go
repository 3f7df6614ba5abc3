package setar

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// maxRefineSweeps caps the coordinate refinement of the thresholds.
const maxRefineSweeps = 100

// searchContext caches the single-regime baseline quantities shared by every
// candidate evaluation: the baseline design X, its inverse Gram matrix
// (X'X)^-1 and the baseline residuals. It is built once per selection and
// read-only afterwards, so concurrent evaluations can share it freely.
type searchContext struct {
	exog   *mat.Dense
	gram   *mat.Dense
	resids *mat.VecDense
}

func (m *Model) newSearchContext() (*searchContext, error) {
	x := m.exog
	k := m.cfg.AROrder + 1

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sym.SetSym(i, j, xtx.At(i, j))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, &NumericError{Op: "baseline gram factorization", Err: errors.New("matrix is not positive definite")}
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, &NumericError{Op: "baseline gram inversion", Err: err}
	}

	y := mat.NewVecDense(m.nobs, m.endog)

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, &NumericError{Op: "baseline regression", Err: err}
	}

	fitted := mat.NewVecDense(m.nobs, nil)
	fitted.MulVec(x, &beta)
	resids := mat.NewVecDense(m.nobs, nil)
	resids.SubVec(y, fitted)

	return &searchContext{
		exog:   x,
		gram:   mat.DenseCopyOf(&inv),
		resids: resids,
	}, nil
}

// gridObjective scores a candidate (delay, thresholds) pair against the
// single-regime baseline. It is the pointwise F-type statistic of Hansen
// (1999) extended to thresholds added incrementally to an existing partition:
// with X1 the partitioned design minus its last regime block and r the
// baseline residuals,
//
//	objective = r'X1 [X1'X1 - (X'X1)'(X'X)^-1(X'X1)]^-1 X1'r
//
// computed through a linear solve rather than an explicit inverse. Larger is
// better. Partition failures propagate as InvalidRegimeError; a degenerate
// solve surfaces as NumericError.
func (m *Model) gridObjective(delay int, thresholds []float64, sc *searchContext) (float64, error) {
	_, exog, err := m.buildDatasets(delay, thresholds, len(thresholds)+1)
	if err != nil {
		return 0, err
	}

	k := m.cfg.AROrder + 1
	rows, cols := exog.Dims()
	x1 := exog.Slice(0, rows, 0, cols-k)

	var x1x1 mat.Dense
	x1x1.Mul(x1.T(), x1)

	var xx1 mat.Dense
	xx1.Mul(sc.exog.T(), x1)

	var gx mat.Dense
	gx.Mul(sc.gram, &xx1)
	var proj mat.Dense
	proj.Mul(xx1.T(), &gx)

	var a mat.Dense
	a.Sub(&x1x1, &proj)

	var v mat.VecDense
	v.MulVec(x1.T(), sc.resids)

	var w mat.VecDense
	if err := w.SolveVec(&a, &v); err != nil {
		return 0, &NumericError{Op: "objective solve", Err: err}
	}

	return mat.Dot(&v, &w), nil
}

// thresholdGrid builds the candidate thresholds for a delay: the unique
// sorted values of the series short of its last delay observations,
// subsampled to approximately ThresholdGridSize points. The first and last
// minRegimeNum values are trimmed since they cannot bound a valid regime.
func (m *Model) thresholdGrid(delay int) []float64 {
	sorted := append([]float64(nil), m.values[:len(m.values)-delay]...)
	sort.Float64s(sorted)

	uniq := make([]float64, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}

	n := len(uniq)
	step := n / m.cfg.ThresholdGridSize
	if step < 1 {
		step = 1
	}

	var grid []float64
	for i := m.minRegimeNum; i < n-m.minRegimeNum; i += step {
		grid = append(grid, uniq[i])
	}
	return grid
}

// recoverable reports whether a candidate failure should merely exclude the
// candidate from consideration.
func recoverable(err error) bool {
	var ire *InvalidRegimeError
	var ne *NumericError
	return xerrors.As(err, &ire) || xerrors.As(err, &ne)
}

// selectGrid runs one grid search: for every delay in delayGrid and every
// candidate threshold in that delay's grid, it scores the candidate threshold
// merged with the fixed thresholds and returns the maximizer. Candidates in a
// delay's grid are evaluated concurrently; the reduction walks the grids in
// delay-ascending, threshold-ascending order under strict >, so ties resolve
// to the first-found candidate exactly as a sequential scan would.
func (m *Model) selectGrid(ctx context.Context, sc *searchContext, fixed []float64, delayGrid []int) (int, float64, error) {
	bestObj := 0.0
	bestDelay := 0
	bestThreshold := 0.0
	found := false

	for _, delay := range delayGrid {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		grid := m.thresholdGrid(delay)
		if len(grid) == 0 {
			continue
		}

		objs := make([]float64, len(grid))

		g, gctx := errgroup.WithContext(ctx)
		for i := range grid {
			i := i
			delay := delay
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				candidate := append([]float64{grid[i]}, fixed...)
				sort.Float64s(candidate)

				obj, err := m.gridObjective(delay, candidate, sc)
				if err != nil {
					if recoverable(err) {
						objs[i] = math.NaN()
						return nil
					}
					return err
				}
				objs[i] = obj
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, 0, err
		}

		for i, obj := range objs {
			if math.IsNaN(obj) {
				continue
			}
			if obj > bestObj {
				bestObj = obj
				bestDelay = delay
				bestThreshold = grid[i]
				found = true
			}
		}
	}

	if !found {
		return 0, 0, xerrors.New("setar: grid search found no admissible threshold candidate")
	}
	return bestDelay, bestThreshold, nil
}

// SelectHyperparameters estimates the delay and the thresholds by grid
// search. The first threshold and the delay are seeded jointly over delays 2
// through MaxDelay; each further threshold is seeded at the fixed delay
// holding the earlier thresholds constant, then all current thresholds are
// refined coordinate-wise until a full sweep leaves the vector unchanged or
// the sweep cap is reached. The result is cached on the model, so a second
// call returns it without searching again.
//
// The selection is deterministic for a given series and configuration.
func (m *Model) SelectHyperparameters(ctx context.Context) (int, []float64, error) {
	if m.resolved {
		return m.delay, append([]float64(nil), m.thresholds...), nil
	}

	sc, err := m.newSearchContext()
	if err != nil {
		return 0, nil, err
	}

	var delayGrid []int
	for d := 2; d <= m.cfg.MaxDelay; d++ {
		delayGrid = append(delayGrid, d)
	}

	delay, threshold, err := m.selectGrid(ctx, sc, nil, delayGrid)
	if err != nil {
		return 0, nil, err
	}
	thresholds := []float64{threshold}

	for i := 2; i < m.cfg.Order; i++ {
		_, next, err := m.selectGrid(ctx, sc, thresholds, []int{delay})
		if err != nil {
			return 0, nil, err
		}
		thresholds = append(thresholds, next)

		proposed := append([]float64(nil), thresholds...)
		for sweep := 1; ; sweep++ {
			// Recalculate each threshold individually, holding the
			// others constant.
			for j := 0; j < i; j++ {
				fixed := make([]float64, 0, len(thresholds)-1)
				fixed = append(fixed, thresholds[:j]...)
				fixed = append(fixed, thresholds[j+1:]...)

				_, t, err := m.selectGrid(ctx, sc, fixed, []int{delay})
				if err != nil {
					return 0, nil, err
				}
				proposed[j] = t
			}

			// Thresholds are drawn from a fixed per-delay grid, so an
			// unchanged sweep reproduces the exact same values and the
			// equality check is reliable.
			if floats.Equal(proposed, thresholds) {
				break
			}
			if sweep > maxRefineSweeps {
				fmt.Println("Warning: maximum number of threshold refinement sweeps exceeded")
				break
			}

			thresholds = append(thresholds[:0:0], proposed...)
		}
	}

	sort.Float64s(thresholds)

	m.delay = delay
	m.thresholds = thresholds
	m.resolved = true

	return delay, append([]float64(nil), thresholds...), nil
}
