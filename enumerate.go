package ilp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// MaxEnumerationVariables bounds the instances accepted by Enumerate.
const MaxEnumerationVariables = 20

var ErrTooManyVariables = errors.New("ilp: too many variables to enumerate")

// Enumerate evaluates every point of {0,1}^n and returns the best feasible one.
// Points are visited in lexicographic order and ties keep the first point found.
// It is meant for cross-checking the branch-and-bound result on small instances.
func Enumerate(in *Instance) (Solution, error) {
	n := in.NumVariables()
	if n > MaxEnumerationVariables {
		return Solution{}, ErrTooManyVariables
	}

	lens := make([]int, n)
	for i := range lens {
		lens[i] = 2
	}

	best := incumbent{z: math.Inf(-1)}
	var stats Stats
	x := make([]float64, n)

	gen := combin.NewCartesianGenerator(lens)
	point := make([]int, n)
	for gen.Next() {
		gen.Product(point)
		for i, v := range point {
			x[i] = float64(v)
		}
		stats.NodesEvaluated++

		if !in.Satisfies(x) {
			stats.PrunedInfeasible++
			continue
		}
		stats.PrunedIntegral++
		if z := in.Value(x); z > best.z {
			best = incumbent{z: z, x: append([]int(nil), point...)}
			stats.IncumbentUpdates++
		}
	}

	if best.x == nil {
		return Solution{Status: StatusInfeasible, Stats: stats}, nil
	}
	return Solution{
		Status:     StatusOptimal,
		Objective:  best.z,
		Assignment: best.x,
		Stats:      stats,
	}, nil
}
