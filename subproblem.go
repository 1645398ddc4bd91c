package ilp

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/floats/scalar"
)

// Relaxation is the outcome of solving the linear relaxation of a node.
// When Feasible is false the other fields are meaningless.
type Relaxation struct {
	Feasible bool

	// objective function value c^T x
	Objective float64

	// value of every variable, indexed by variable, each in [0,1]
	X []float64
}

// A Relaxer solves
//
//	maximize	c^T x
//	s.t.		A x <= b
//				0 <= x <= 1
//				x_i = fixed[i] for every fixed i
//
// An infeasible relaxation is reported as Relaxation{Feasible: false} with a nil error.
// A non-nil error means the relaxation could not be solved at all and aborts the search.
type Relaxer interface {
	Relax(ctx context.Context, in *Instance, fixed FixedAssignment) (Relaxation, error)
}

// RelaxerFunc adapts a function to the Relaxer interface.
type RelaxerFunc func(ctx context.Context, in *Instance, fixed FixedAssignment) (Relaxation, error)

func (f RelaxerFunc) Relax(ctx context.Context, in *Instance, fixed FixedAssignment) (Relaxation, error) {
	return f(ctx, in, fixed)
}

// SimplexRelaxer solves node relaxations with a dense two-phase simplex
// using Bland's rule, started from the slack basis of the standard form.
// The context is checked before every pivot.
type SimplexRelaxer struct {
	// Tolerance is the pivoting and feasibility tolerance. Zero selects
	// DefaultSimplexTolerance.
	Tolerance float64
}

func (s SimplexRelaxer) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultSimplexTolerance
}

func (s SimplexRelaxer) Relax(ctx context.Context, in *Instance, fixed FixedAssignment) (Relaxation, error) {
	if err := ctx.Err(); err != nil {
		return Relaxation{}, err
	}

	x := make([]float64, in.NumVariables())
	for j, v := range fixed {
		x[j] = float64(v)
	}

	res := substituteFixed(in, fixed)

	// every variable is fixed, so there is nothing left to relax
	if len(res.free) == 0 {
		if !in.Satisfies(x) {
			return Relaxation{}, nil
		}
		return Relaxation{Feasible: true, Objective: in.Value(x), X: x}, nil
	}

	sf := res.toStandardForm(in)
	if err := sf.sanityCheck(); err != nil {
		return Relaxation{}, err
	}

	tol := s.tolerance()
	y, err := solveStandardForm(ctx, sf, tol)
	if errors.Is(err, errInfeasibleLP) {
		return Relaxation{}, nil
	}
	if err != nil {
		return Relaxation{}, err
	}

	// take only the free variables from the result, dropping the slacks
	for k, j := range sf.free {
		x[j] = snap01(y[k], tol)
	}

	return Relaxation{
		Feasible:  true,
		Objective: in.Value(x),
		X:         x,
	}, nil
}

// snap01 removes simplex roundoff around the bounds.
func snap01(v, tol float64) float64 {
	switch {
	case scalar.EqualWithinAbs(v, 0, tol):
		return 0
	case scalar.EqualWithinAbs(v, 1, tol):
		return 1
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
