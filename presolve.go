package ilp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// standardForm is the node relaxation rewritten as
//
//	minimize	c^T y
//	s.t.		A y = b
//				y >= 0
//
// over y = [x_free, s, u], where s are the slacks of the instance rows and
// u the slacks of the x_free <= 1 bounds. The slack columns form an identity
// block, so A has full row rank and every row has a ready basis column.
type standardForm struct {
	c []float64
	A *mat.Dense
	b []float64

	// slack[r] is the column holding the single +1 of row r
	slack []int

	// free[k] is the instance index of the k-th free variable
	free []int

	// objective contribution of the fixed variables
	offset float64
}

// residual holds the node problem after the fixed variables have been substituted out.
type residual struct {
	free   []int
	rhs    []float64
	offset float64
}

// substituteFixed moves the contribution of every fixed variable into the
// right-hand side and the objective offset.
func substituteFixed(in *Instance, fixed FixedAssignment) residual {
	n, m := in.NumVariables(), in.NumConstraints()

	res := residual{
		free: make([]int, 0, n-len(fixed)),
		rhs:  make([]float64, m),
	}
	copy(res.rhs, in.b)

	for j := 0; j < n; j++ {
		v, ok := fixed[j]
		if !ok {
			res.free = append(res.free, j)
			continue
		}
		if v == 0 {
			continue
		}
		res.offset += in.c[j]
		for r := 0; r < m; r++ {
			res.rhs[r] -= in.A.At(r, j)
		}
	}

	return res
}

// toStandardForm builds the equality-form relaxation of the free variables.
// It must not be called when no variable is free.
func (res residual) toStandardForm(in *Instance) standardForm {
	nFree := len(res.free)
	if nFree == 0 {
		panic("ilp: standard form requested for a node without free variables")
	}
	m := len(res.rhs)

	nRows := m + nFree
	nCols := nFree + m + nFree

	// the simplex minimizes, so the objective is negated
	c := make([]float64, nCols)
	for k, j := range res.free {
		c[k] = -in.c[j]
	}

	b := make([]float64, nRows)
	copy(b, res.rhs)
	for k := 0; k < nFree; k++ {
		b[m+k] = 1
	}

	slack := make([]int, nRows)
	A := mat.NewDense(nRows, nCols, nil)
	for r := 0; r < m; r++ {
		for k, j := range res.free {
			A.Set(r, k, in.A.At(r, j))
		}
		// slack of constraint r
		A.Set(r, nFree+r, 1)
		slack[r] = nFree + r
	}
	for k := 0; k < nFree; k++ {
		// x_k + u_k = 1
		A.Set(m+k, k, 1)
		A.Set(m+k, nFree+m+k, 1)
		slack[m+k] = nFree + m + k
	}

	return standardForm{
		c:      c,
		A:      A,
		b:      b,
		slack:  slack,
		free:   res.free,
		offset: res.offset,
	}
}

// Sanity check for the standard form dimensions
func (sf standardForm) sanityCheck() error {
	rA, cA := sf.A.Dims()
	if rA != len(sf.b) {
		return errors.New("number of rows in A matrix is not equal to length of b")
	}
	if cA != len(sf.c) {
		return errors.New("number of columns in A matrix is not equal to number of variables")
	}
	if rA > cA {
		return errors.New("more equality constraints than variables")
	}
	if len(sf.slack) != rA {
		return errors.New("every row needs a slack column")
	}
	for r, j := range sf.slack {
		if j < 0 || j >= cA || sf.A.At(r, j) != 1 {
			return errors.New("slack column does not hold a unit entry in its row")
		}
		for i := 0; i < rA; i++ {
			if i != r && sf.A.At(i, j) != 0 {
				return errors.New("slack column is not a unit column")
			}
		}
	}
	return nil
}
