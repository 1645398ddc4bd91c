// Package ilp solves binary integer linear programs
//
//	maximize	c^T x
//	s.t.		A x <= b
//				x in {0,1}^n
//
// by depth-first branch-and-bound. Every node of the enumeration tree is
// relaxed to 0 <= x <= 1 and handed to a Relaxer (by default a dense simplex
// solver). A node is discarded when its relaxation is infeasible, becomes an
// incumbent candidate when its relaxation is integral, and is otherwise split
// on the fractional variable closest to 1/2.
//
// Nodes are never pruned on their relaxation bound alone, so the search
// explores more nodes than a textbook branch-and-bound would. Integrality is
// tested with exact comparisons against 0 and 1: a relaxation value such as
// 0.9999999999 is treated as fractional and branched on. Relaxations accept
// points within the simplex tolerance, whereas an integral point only becomes
// the incumbent when it satisfies A x <= b in exact floating point
// arithmetic, the same test Enumerate applies. An integral relaxation that
// fails the exact test is split on its lowest free variable.
package ilp

import "context"

// Solve runs a default Engine on in.
func Solve(ctx context.Context, in *Instance) (Solution, error) {
	e, err := NewEngine()
	if err != nil {
		return Solution{}, err
	}
	return e.Solve(ctx, in)
}
