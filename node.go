package ilp

// rootParent is the parent id of the root node.
const rootParent int64 = -1

// Node is a point in the enumeration tree. It only carries the variables fixed
// on its path; its relaxation lives as long as the evaluation of the node.
type Node struct {
	ID     int64
	Parent int64
	Depth  int
	Fixed  FixedAssignment
}

func rootNode() Node {
	return Node{
		ID:     0,
		Parent: rootParent,
		Fixed:  FixedAssignment{},
	}
}

// child derives the node that additionally fixes variable j to v.
func (n Node) child(id int64, j, v int) Node {
	return Node{
		ID:     id,
		Parent: n.ID,
		Depth:  n.Depth + 1,
		Fixed:  n.Fixed.With(j, v),
	}
}
