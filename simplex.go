package ilp

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultSimplexTolerance is used by SimplexRelaxer when no tolerance is set.
const DefaultSimplexTolerance = 1e-9

var (
	// ErrIterationLimit is returned when the simplex method fails to reach an
	// optimal basis within its pivot budget.
	ErrIterationLimit = errors.New("ilp: simplex iteration limit reached")

	errInfeasibleLP = errors.New("ilp: linear relaxation is infeasible")
	errUnboundedLP  = errors.New("ilp: linear relaxation is unbounded")
)

// tableau is a dense simplex tableau for
//
//	minimize	c^T y
//	s.t.		A y = b
//				y >= 0
//
// Columns [0, nOrig) belong to y, the next nArt columns are phase one
// artificials and the last column holds the current basic values.
type tableau struct {
	t     *mat.Dense
	basis []int
	nOrig int
	nArt  int
	tol   float64
}

// newTableau starts from the slack basis. Rows with a negative right-hand
// side are negated and get an artificial column instead.
func newTableau(sf standardForm, tol float64) *tableau {
	rows, cols := sf.A.Dims()

	nArt := 0
	for _, v := range sf.b {
		if v < 0 {
			nArt++
		}
	}

	width := cols + nArt + 1
	tb := &tableau{
		t:     mat.NewDense(rows, width, nil),
		basis: make([]int, rows),
		nOrig: cols,
		nArt:  nArt,
		tol:   tol,
	}

	art := cols
	for i := 0; i < rows; i++ {
		row := tb.t.RawRowView(i)
		mat.Row(row[:cols], i, sf.A)
		row[width-1] = sf.b[i]
		if sf.b[i] >= 0 {
			tb.basis[i] = sf.slack[i]
			continue
		}
		floats.Scale(-1, row)
		row[art] = 1
		tb.basis[i] = art
		art++
	}
	return tb
}

func (tb *tableau) rhs(i int) float64 {
	_, width := tb.t.Dims()
	return tb.t.At(i, width-1)
}

// pivotLimit bounds the number of pivots of a single phase.
func (tb *tableau) pivotLimit() int {
	rows, width := tb.t.Dims()
	return 100*(rows+width) + 10000
}

// optimize minimizes cost over the current basis with Bland's rule. Only
// columns of y may enter the basis.
func (tb *tableau) optimize(ctx context.Context, cost []float64) error {
	rows, _ := tb.t.Dims()
	reduced := make([]float64, tb.nOrig)

	for iter := 0; ; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if iter >= tb.pivotLimit() {
			return ErrIterationLimit
		}

		// reduced costs c_j - c_B^T B^-1 A_j
		copy(reduced, cost[:tb.nOrig])
		for i := 0; i < rows; i++ {
			if cb := cost[tb.basis[i]]; cb != 0 {
				floats.AddScaled(reduced, -cb, tb.t.RawRowView(i)[:tb.nOrig])
			}
		}

		// lowest index with a negative reduced cost
		enter := -1
		for j, r := range reduced {
			if r < -tb.tol {
				enter = j
				break
			}
		}
		if enter < 0 {
			return nil
		}

		// ratio test, ties go to the lowest basic index
		leave := -1
		best := math.Inf(1)
		for i := 0; i < rows; i++ {
			a := tb.t.At(i, enter)
			if a <= tb.tol {
				continue
			}
			ratio := tb.rhs(i) / a
			switch {
			case leave < 0, ratio < best-tb.tol:
				best, leave = ratio, i
			case ratio <= best+tb.tol && tb.basis[i] < tb.basis[leave]:
				best, leave = math.Min(best, ratio), i
			}
		}
		if leave < 0 {
			return errUnboundedLP
		}
		tb.pivot(leave, enter)
	}
}

func (tb *tableau) pivot(r, c int) {
	rows, width := tb.t.Dims()

	prow := tb.t.RawRowView(r)
	floats.Scale(1/prow[c], prow)
	prow[c] = 1
	if v := prow[width-1]; v < 0 && v > -tb.tol {
		prow[width-1] = 0
	}

	for i := 0; i < rows; i++ {
		if i == r {
			continue
		}
		row := tb.t.RawRowView(i)
		if f := row[c]; f != 0 {
			floats.AddScaled(row, -f, prow)
			row[c] = 0
		}
		// roundoff must not make a basic value negative
		if v := row[width-1]; v < 0 && v > -tb.tol {
			row[width-1] = 0
		}
	}
	tb.basis[r] = c
}

// phaseOne drives the artificials to zero. It returns errInfeasibleLP when
// that is impossible.
func (tb *tableau) phaseOne(ctx context.Context, b []float64) error {
	if tb.nArt == 0 {
		return nil
	}
	rows, _ := tb.t.Dims()

	cost := make([]float64, tb.nOrig+tb.nArt)
	for j := tb.nOrig; j < len(cost); j++ {
		cost[j] = 1
	}
	if err := tb.optimize(ctx, cost); err != nil {
		return err
	}

	var infeasibility float64
	for i := 0; i < rows; i++ {
		if tb.basis[i] >= tb.nOrig {
			infeasibility += tb.rhs(i)
		}
	}
	if infeasibility > tb.tol*(1+floats.Norm(b, math.Inf(1))) {
		return errInfeasibleLP
	}

	// pivot the remaining zero-level artificials out where a column allows it.
	// A row without such a column is redundant and its artificial stays basic at zero.
	for i := 0; i < rows; i++ {
		if tb.basis[i] < tb.nOrig {
			continue
		}
		row := tb.t.RawRowView(i)
		j := floats.MaxIdx(absolute(row[:tb.nOrig]))
		if math.Abs(row[j]) > tb.tol {
			tb.pivot(i, j)
		}
	}
	return nil
}

func absolute(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}

// solveStandardForm returns an optimal y of sf.
func solveStandardForm(ctx context.Context, sf standardForm, tol float64) ([]float64, error) {
	tb := newTableau(sf, tol)
	if err := tb.phaseOne(ctx, sf.b); err != nil {
		return nil, err
	}

	cost := make([]float64, tb.nOrig+tb.nArt)
	copy(cost, sf.c)
	if err := tb.optimize(ctx, cost); err != nil {
		return nil, err
	}

	y := make([]float64, tb.nOrig)
	for i, j := range tb.basis {
		if j < tb.nOrig {
			y[j] = tb.rhs(i)
		}
	}
	return y, nil
}
