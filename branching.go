package ilp

import "math"

// isFractional is the single integrality predicate shared by the branching
// rule and the integrality check. Values are compared exactly against 0 and 1,
// so a relaxation value of 0.999999999 counts as fractional.
func isFractional(v float64) bool {
	return v != 0 && v != 1
}

// IsIntegral reports whether every value of x is exactly 0 or exactly 1.
func IsIntegral(x []float64) bool {
	for _, v := range x {
		if isFractional(v) {
			return false
		}
	}
	return true
}

// SelectBranchVariable picks the fractional variable whose value is closest to 1/2.
// Variables are scanned in ascending index order and the first one wins ties.
// It returns false when x is fully integral.
func SelectBranchVariable(x []float64) (int, bool) {
	branchOn := -1
	candidateDistance := math.Inf(1)

	for i, v := range x {
		if !isFractional(v) {
			continue
		}
		// strictly smaller, so that earlier variables win ties
		if d := math.Abs(v - 0.5); d < candidateDistance {
			candidateDistance = d
			branchOn = i
		}
	}

	return branchOn, branchOn >= 0
}
