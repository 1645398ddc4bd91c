package ilp

import (
	"sort"
	"strconv"
	"strings"
)

// FixedAssignment maps variable indices to the 0 or 1 value they were fixed to
// by the branching decisions on the path from the root to a node.
// A FixedAssignment is never modified once it has been handed to a node.
type FixedAssignment map[int]int

// With returns a copy of f extended with j fixed to v.
func (f FixedAssignment) With(j, v int) FixedAssignment {
	child := make(FixedAssignment, len(f)+1)
	for k, val := range f {
		child[k] = val
	}
	child[j] = v
	return child
}

// sortedKeys returns the fixed indices in ascending order.
func (f FixedAssignment) sortedKeys() []int {
	keys := make([]int, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// String renders the fixings as "{x0=1 x3=0}" in index order.
func (f FixedAssignment) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range f.sortedKeys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("x")
		sb.WriteString(strconv.Itoa(k))
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(f[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}
