package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBranchVariable(t *testing.T) {
	tests := []struct {
		name   string
		x      []float64
		want   int
		wantOk bool
	}{
		{
			name:   "closest to one half wins, integral values are skipped",
			x:      []float64{0.5, 0.3, 1.0, 0.0},
			want:   0,
			wantOk: true,
		},
		{
			name:   "fractional variable after integral ones",
			x:      []float64{1, 0, 0.9, 0.2},
			want:   3,
			wantOk: true,
		},
		{
			name:   "ties go to the lowest index",
			x:      []float64{1, 0.25, 0.75, 0.25},
			want:   1,
			wantOk: true,
		},
		{
			name:   "single fractional variable close to an integer",
			x:      []float64{0, 0.999999, 1},
			want:   1,
			wantOk: true,
		},
		{
			name:   "all integral",
			x:      []float64{1, 0, 1, 0},
			want:   -1,
			wantOk: false,
		},
		{
			name:   "empty",
			x:      nil,
			want:   -1,
			wantOk: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBranchVariable(tt.x)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsIntegral(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want bool
	}{
		{name: "zeros and ones", x: []float64{1.0, 0.0}, want: true},
		{name: "almost one is not integral", x: []float64{1.0, 0.999999}, want: false},
		{name: "one half", x: []float64{0.5}, want: false},
		{name: "tiny positive value", x: []float64{1e-12, 1}, want: false},
		{name: "empty", x: []float64{}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIntegral(tt.x))
		})
	}
}

// the selector and the integrality check must agree on every vector
func TestSelectorAgreesWithIntegrality(t *testing.T) {
	vectors := [][]float64{
		{0, 1, 0.5},
		{0, 1, 1},
		{0.999999999999, 0},
		{0.000000000001},
		{1, 1, 1, 1},
	}
	for _, x := range vectors {
		_, ok := SelectBranchVariable(x)
		assert.Equal(t, !IsIntegral(x), ok, "vector %v", x)
	}
}
