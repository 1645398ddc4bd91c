package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedAssignment_With(t *testing.T) {
	parent := FixedAssignment{2: 1}

	zero := parent.With(0, 0)
	one := parent.With(0, 1)

	// the parent is never modified
	assert.Equal(t, FixedAssignment{2: 1}, parent)
	assert.Equal(t, FixedAssignment{0: 0, 2: 1}, zero)
	assert.Equal(t, FixedAssignment{0: 1, 2: 1}, one)

	// siblings do not share storage
	zero[5] = 1
	assert.NotContains(t, one, 5)
}

func TestFixedAssignment_String(t *testing.T) {
	assert.Equal(t, "{}", FixedAssignment{}.String())
	assert.Equal(t, "{x0=1 x3=0 x10=1}", FixedAssignment{10: 1, 0: 1, 3: 0}.String())
}

func TestNode_child(t *testing.T) {
	root := rootNode()
	assert.Equal(t, int64(0), root.ID)
	assert.Equal(t, rootParent, root.Parent)
	assert.Empty(t, root.Fixed)

	c := root.child(7, 3, 1)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, root.ID, c.Parent)
	assert.Equal(t, 1, c.Depth)
	assert.Equal(t, FixedAssignment{3: 1}, c.Fixed)
	assert.Empty(t, root.Fixed)
}
