package ilp

import (
	"io"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Decision is what the engine did with an evaluated node.
type Decision string

const (
	DecisionInfeasible           Decision = "infeasible"
	DecisionIntegralImproving    Decision = "integral-improving"
	DecisionIntegralNotImproving Decision = "integral-not-improving"
	DecisionBranched             Decision = "branched"
)

// Description returns a human readable explanation of the decision.
func (d Decision) Description() string {
	switch d {
	case DecisionInfeasible:
		return "subproblem has no feasible solution"
	case DecisionIntegralImproving:
		return "integer feasible and better than incumbent, so replacing incumbent"
	case DecisionIntegralNotImproving:
		return "integer feasible but not better than incumbent"
	case DecisionBranched:
		return "not integer feasible, so branching"
	}
	return string(d)
}

// Middleware receives every evaluated node together with its relaxation and
// the decision that was taken. It is called synchronously from the search loop.
type Middleware interface {
	ProcessDecision(Node, Relaxation, Decision)
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(Node, Relaxation, Decision)

func (f MiddlewareFunc) ProcessDecision(n Node, rx Relaxation, d Decision) { f(n, rx, d) }

type dummyMiddleware struct{}

func (d dummyMiddleware) ProcessDecision(Node, Relaxation, Decision) {}

// represents an evaluated node of the enumeration tree.
// Note that we keep the objective value only and never a reference to the relaxation vector.
type loggedNode struct {
	id       int64
	parent   int64
	depth    int
	fixed    FixedAssignment
	z        float64
	decision Decision
}

// TreeLogger records the decision taken at every node so that the enumeration
// tree can be inspected after the search.
type TreeLogger struct {
	nodes []loggedNode
}

func (tl *TreeLogger) ProcessDecision(n Node, rx Relaxation, d Decision) {
	tl.nodes = append(tl.nodes, loggedNode{
		id:       n.ID,
		parent:   n.Parent,
		depth:    n.Depth,
		fixed:    n.Fixed,
		z:        rx.Objective,
		decision: d,
	})
}

// Decisions returns the decisions in evaluation order.
func (tl *TreeLogger) Decisions() []Decision {
	out := make([]Decision, len(tl.nodes))
	for i, n := range tl.nodes {
		out[i] = n.decision
	}
	return out
}

// Len returns the number of recorded nodes.
func (tl *TreeLogger) Len() int { return len(tl.nodes) }

// dotNode is a graph.Node carrying DOT attributes.
type dotNode struct {
	loggedNode
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute {
	label := "#" + strconv.FormatInt(n.id, 10) + " " + string(n.decision)
	if n.decision != DecisionInfeasible {
		label += " z=" + strconv.FormatFloat(n.z, 'g', 6, 64)
	}
	attrs := []encoding.Attribute{{Key: "label", Value: label}}
	if n.decision == DecisionIntegralImproving {
		attrs = append(attrs, encoding.Attribute{Key: "style", Value: "bold"})
	}
	return attrs
}

// dotEdge is a branching edge labelled with the fixing it introduced.
type dotEdge struct {
	from, to graph.Node
	label    string
}

func (e dotEdge) From() graph.Node         { return e.from }
func (e dotEdge) To() graph.Node           { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, label: e.label} }

func (e dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: e.label}}
}

// WriteDOT writes the recorded enumeration tree in Graphviz DOT format.
func (tl *TreeLogger) WriteDOT(w io.Writer) error {
	g := simple.NewDirectedGraph()

	byID := make(map[int64]dotNode, len(tl.nodes))
	for _, n := range tl.nodes {
		dn := dotNode{n}
		byID[n.id] = dn
		g.AddNode(dn)
	}

	for _, n := range tl.nodes {
		parent, ok := byID[n.parent]
		if !ok {
			continue
		}
		g.SetEdge(dotEdge{from: parent, to: byID[n.id], label: branchLabel(parent.fixed, n.fixed)})
	}

	b, err := dot.Marshal(g, "enumeration", "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// branchLabel names the single fixing a child adds to its parent.
func branchLabel(parent, child FixedAssignment) string {
	for k, v := range child {
		if _, ok := parent[k]; !ok {
			return "x" + strconv.Itoa(k) + "=" + strconv.Itoa(v)
		}
	}
	return ""
}
