package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate(t *testing.T) {
	tests := []struct {
		name       string
		c          []float64
		rows       [][]float64
		b          []float64
		wantStatus Status
		wantZ      float64
		wantX      []int
	}{
		{
			name:       "two variables, one constraint",
			c:          []float64{3, 2},
			rows:       [][]float64{{2, 1}},
			b:          []float64{2},
			wantStatus: StatusOptimal,
			wantZ:      3,
			wantX:      []int{1, 0},
		},
		{
			name:       "infeasible",
			c:          []float64{1},
			rows:       [][]float64{{-1}},
			b:          []float64{-2},
			wantStatus: StatusInfeasible,
		},
		{
			name:       "ties keep the lexicographically first point",
			c:          []float64{1, 1},
			rows:       [][]float64{{1, 1}},
			b:          []float64{1},
			wantStatus: StatusOptimal,
			wantZ:      1,
			wantX:      []int{0, 1},
		},
		{
			name:       "negative objective prefers zero",
			c:          []float64{-1, -2, -3},
			wantStatus: StatusOptimal,
			wantZ:      0,
			wantX:      []int{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := NewInstance(tt.c, tt.rows, tt.b)
			require.NoError(t, err)

			sol, err := Enumerate(in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, sol.Status)
			assert.Equal(t, tt.wantZ, sol.Objective)
			assert.Equal(t, tt.wantX, sol.Assignment)
			assert.Equal(t, 1<<len(tt.c), sol.Stats.NodesEvaluated)
		})
	}
}

func TestEnumerate_tooManyVariables(t *testing.T) {
	in, err := NewInstance(make([]float64, MaxEnumerationVariables+1), nil, nil)
	require.NoError(t, err)

	_, err = Enumerate(in)
	assert.ErrorIs(t, err, ErrTooManyVariables)
}
