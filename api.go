package ilp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoVariables       = errors.New("ilp: instance must have at least one variable")
	ErrDimensionMismatch = errors.New("ilp: dimension mismatch")
	ErrNaN               = errors.New("ilp: NaN coefficient")
	ErrUndeclaredVar     = errors.New("ilp: expression contains a variable that has not been declared to this problem")
	ErrEmptyExpression   = errors.New("ilp: must add expressions")
)

// Instance describes a binary integer program:
//
//	maximize	c^T x
//	s.t.		A x <= b
//				x in {0,1}^n
//
// An Instance is immutable once constructed and is shared by pointer
// across the whole search.
type Instance struct {
	c []float64
	A *mat.Dense
	b []float64
}

// NewInstance copies the provided objective coefficients, constraint rows and
// right-hand sides into a new Instance. Every row must hold exactly len(c)
// coefficients and len(b) must equal the number of rows.
func NewInstance(c []float64, rows [][]float64, b []float64) (*Instance, error) {
	n := len(c)
	if n == 0 {
		return nil, ErrNoVariables
	}
	if len(rows) != len(b) {
		return nil, fmt.Errorf("%w: %d constraint rows but %d right-hand sides", ErrDimensionMismatch, len(rows), len(b))
	}
	if anyNaN(c) || anyNaN(b) {
		return nil, ErrNaN
	}

	inst := &Instance{
		c: append([]float64(nil), c...),
		b: append([]float64(nil), b...),
	}

	// gonum refuses zero-sized matrices, so an unconstrained instance keeps a nil A.
	if len(rows) == 0 {
		return inst, nil
	}

	data := make([]float64, 0, len(rows)*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: constraint %d has %d coefficients, expected %d", ErrDimensionMismatch, i, len(row), n)
		}
		if anyNaN(row) {
			return nil, ErrNaN
		}
		data = append(data, row...)
	}
	inst.A = mat.NewDense(len(rows), n, data)

	return inst, nil
}

// NumVariables returns n.
func (in *Instance) NumVariables() int { return len(in.c) }

// NumConstraints returns m.
func (in *Instance) NumConstraints() int { return len(in.b) }

// Objective returns the objective coefficient of variable i.
func (in *Instance) Objective(i int) float64 { return in.c[i] }

// Coefficient returns the coefficient of variable i in constraint r.
func (in *Instance) Coefficient(r, i int) float64 { return in.A.At(r, i) }

// RHS returns the right-hand side of constraint r.
func (in *Instance) RHS(r int) float64 { return in.b[r] }

// Value computes c^T x.
func (in *Instance) Value(x []float64) float64 {
	return floats.Dot(in.c, x)
}

// Satisfies reports whether x satisfies every constraint row using exact comparisons.
func (in *Instance) Satisfies(x []float64) bool {
	for r := 0; r < in.NumConstraints(); r++ {
		var lhs float64
		for i, v := range x {
			lhs += in.A.At(r, i) * v
		}
		if lhs > in.b[r] {
			return false
		}
	}
	return true
}

func anyNaN(in []float64) bool {
	for _, v := range in {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Problem is a mutable builder for an Instance.
// Variables are declared first and then combined into inequality constraints.
type Problem struct {
	Variables    []*Variable
	Inequalities []Inequality
}

type Variable struct {
	// coefficient of the variable in the objective function
	Coefficient float64

	// position of the variable in the instance
	index int
}

// Index returns the position of the variable in the built Instance.
func (v *Variable) Index() int { return v.index }

// a term of a variable and an arbitrary float for use in defining constraints
// e.g. "-1 * x1"
type Term struct {
	Coef     float64
	Variable *Variable
}

type Inequality struct {
	// terms will be summed together to form the LHS of ...
	terms []Term

	// ... a constraint with a certain RHS
	smallerThan float64
}

func NewProblem() *Problem {
	return &Problem{}
}

// add a binary variable and return a reference to that variable
func (p *Problem) AddVariable(coef float64) *Variable {
	v := &Variable{
		Coefficient: coef,
		index:       len(p.Variables),
	}
	p.Variables = append(p.Variables, v)
	return v
}

// AddInequality adds the constraint sum(terms) <= smallerThan.
func (p *Problem) AddInequality(terms []Term, smallerThan float64) error {
	if len(terms) == 0 {
		return ErrEmptyExpression
	}

	for _, t := range terms {
		if !p.checkTerm(t) {
			return ErrUndeclaredVar
		}
	}

	p.Inequalities = append(p.Inequalities, Inequality{
		terms:       terms,
		smallerThan: smallerThan,
	})
	return nil
}

// Check whether the term is legal considering the variables currently present in the problem
func (p *Problem) checkTerm(t Term) bool {
	for _, v := range p.Variables {
		if v == t.Variable {
			return true
		}
	}
	return false
}

// Instance converts the builder into an immutable Instance.
// Repeated terms on the same variable are summed.
func (p *Problem) Instance() (*Instance, error) {
	c := make([]float64, len(p.Variables))
	for i, v := range p.Variables {
		c[i] = v.Coefficient
	}

	rows := make([][]float64, len(p.Inequalities))
	b := make([]float64, len(p.Inequalities))
	for r, ineq := range p.Inequalities {
		rows[r] = make([]float64, len(p.Variables))
		for _, t := range ineq.terms {
			rows[r][t.Variable.index] += t.Coef
		}
		b[r] = ineq.smallerThan
	}

	return NewInstance(c, rows, b)
}
