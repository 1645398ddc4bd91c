package ilp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSolveStandardForm(t *testing.T) {
	tests := []struct {
		name    string
		sf      standardForm
		wantObj float64
		wantY   []float64
		wantErr error
	}{
		{
			// Beale's example cycles under the largest coefficient rule
			name: "degenerate cycling example",
			sf: standardForm{
				c: []float64{0, 0, 0, -0.75, 20, -0.5, 6},
				A: mat.NewDense(3, 7, []float64{
					1, 0, 0, 0.25, -8, -1, 9,
					0, 1, 0, 0.5, -12, -0.5, 3,
					0, 0, 1, 0, 0, 1, 0,
				}),
				b:     []float64{0, 0, 1},
				slack: []int{0, 1, 2},
			},
			wantObj: -1.25,
		},
		{
			// minimize x0 s.t. x0 >= 0.5, x0 <= 1
			name: "negative right-hand side needs phase one",
			sf: standardForm{
				c: []float64{1, 0, 0},
				A: mat.NewDense(2, 3, []float64{
					-1, 1, 0,
					1, 0, 1,
				}),
				b:     []float64{-0.5, 1},
				slack: []int{1, 2},
			},
			wantObj: 0.5,
			wantY:   []float64{0.5, 0, 0.5},
		},
		{
			// x0 + s = -1 has no non-negative solution
			name: "infeasible",
			sf: standardForm{
				c:     []float64{0, 0},
				A:     mat.NewDense(1, 2, []float64{1, 1}),
				b:     []float64{-1},
				slack: []int{1},
			},
			wantErr: errInfeasibleLP,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.sf.sanityCheck())

			y, err := solveStandardForm(context.Background(), tt.sf, DefaultSimplexTolerance)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantObj, floats.Dot(tt.sf.c, y), 1e-9)
			if tt.wantY != nil {
				assert.InDeltaSlice(t, tt.wantY, y, 1e-9)
			}
			for _, v := range y {
				assert.GreaterOrEqual(t, v, float64(0))
			}
		})
	}
}

func TestSolveStandardForm_cancelled(t *testing.T) {
	in, err := NewInstance([]float64{1, 1}, [][]float64{{1, 1}}, []float64{1})
	require.NoError(t, err)
	sf := substituteFixed(in, FixedAssignment{}).toStandardForm(in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = solveStandardForm(ctx, sf, DefaultSimplexTolerance)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnap01(t *testing.T) {
	assert.Equal(t, float64(0), snap01(1e-12, 1e-9))
	assert.Equal(t, float64(1), snap01(1-1e-12, 1e-9))
	assert.Equal(t, float64(1), snap01(1.5, 1e-9))
	assert.Equal(t, 0.25, snap01(0.25, 1e-9))
}
