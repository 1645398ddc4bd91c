package instance

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	in, err := Read(strings.NewReader("2 1\n3 2\n2 1 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, in.NumVariables())
	assert.Equal(t, 1, in.NumConstraints())
	assert.Equal(t, 3.0, in.Objective(0))
	assert.Equal(t, 2.0, in.Objective(1))
	assert.Equal(t, 2.0, in.Coefficient(0, 0))
	assert.Equal(t, 1.0, in.Coefficient(0, 1))
	assert.Equal(t, 2.0, in.RHS(0))
}

func TestRead_layoutIsFree(t *testing.T) {
	// tokens may be spread over lines in any way
	in, err := Read(strings.NewReader("2\n1 3 2 2\n1\n\n2"))
	require.NoError(t, err)
	assert.Equal(t, 1, in.NumConstraints())
	assert.Equal(t, 2.0, in.RHS(0))
}

func TestRead_noConstraints(t *testing.T) {
	in, err := Read(strings.NewReader("3 0\n1 -1 0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, in.NumVariables())
	assert.Equal(t, 0, in.NumConstraints())
}

func TestRead_formatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "empty input",
			input:    "",
			wantLine: 0,
			wantMsg:  "unexpected end of input",
		},
		{
			name:     "non numeric header",
			input:    "two 1\n",
			wantLine: 1,
			wantMsg:  "number of variables",
		},
		{
			name:     "negative constraint count",
			input:    "2 -1\n",
			wantLine: 1,
			wantMsg:  "number of constraints",
		},
		{
			name:     "no variables",
			input:    "0 0\n",
			wantLine: 1,
			wantMsg:  "must be positive",
		},
		{
			name:     "truncated objective",
			input:    "2 1\n3\n",
			wantLine: 2,
			wantMsg:  "objective coefficient 1",
		},
		{
			name:     "bad coefficient",
			input:    "2 1\n3 2\n2 x 2\n",
			wantLine: 3,
			wantMsg:  "coefficient 1 of constraint 0",
		},
		{
			name:     "NaN right-hand side",
			input:    "2 1\n3 2\n2 1 NaN\n",
			wantLine: 3,
			wantMsg:  "right-hand side of constraint 0",
		},
		{
			name:     "missing right-hand side",
			input:    "2 1\n3 2\n2 1\n",
			wantLine: 3,
			wantMsg:  "right-hand side of constraint 0",
		},
		{
			name:     "trailing token",
			input:    "1 0\n1\n7\n",
			wantLine: 3,
			wantMsg:  "trailing token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "expected a FormatError, got %v", err)
			assert.Equal(t, tt.wantLine, fe.Line)
			assert.Contains(t, fe.Msg, tt.wantMsg)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knapsack.txt")
	require.NoError(t, os.WriteFile(path, []byte("2 1\n3 2\n2 1 2\n"), 0644))

	in, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, in.NumVariables())

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.txt")

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1 0\n"), 0644))
	_, err = ReadFile(bad)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "bad.txt")
}
