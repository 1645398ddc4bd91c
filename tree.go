package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNodeLimit is returned together with the best incumbent when a search was
// stopped by WithNodeLimit before the enumeration tree was exhausted.
var ErrNodeLimit = errors.New("ilp: node limit reached")

// OracleError reports a relaxation that could not be solved. It aborts the search.
type OracleError struct {
	Node  int64
	Fixed FixedAssignment
	Err   error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("ilp: relaxation of node %d with fixed variables %s failed: %v", e.Node, e.Fixed, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

type Status int

const (
	// StatusUnknown is returned alongside an OracleError.
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	// StatusInterrupted means the search was cancelled or hit its node limit.
	// The solution then holds the best incumbent found so far, if any.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Stats summarises a single search.
type Stats struct {
	NodesEvaluated   int
	PrunedInfeasible int
	PrunedIntegral   int
	Branched         int
	IncumbentUpdates int
	MaxDepth         int
}

// Solution is the result of a search.
type Solution struct {
	Status Status

	// Objective and Assignment hold the incumbent. Assignment is nil when no
	// integer feasible point was found.
	Objective  float64
	Assignment []int

	Stats Stats
}

// Feasible reports whether an integer feasible point was found.
func (s Solution) Feasible() bool { return s.Assignment != nil }

// Engine runs depth-first branch-and-bound over the binary hypercube.
// An Engine keeps no state between calls to Solve.
type Engine struct {
	relaxer     Relaxer
	log         logrus.FieldLogger
	metrics     *Metrics
	tracer      trace.Tracer
	middleware  []Middleware
	branchFirst int
	nodeLimit   int
}

func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{branchFirst: 1}
	for _, option := range append(options, defaults...) {
		if err := option(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Solve searches the binary hypercube of in for the point maximizing c^T x.
// Nodes are pruned only when their relaxation is infeasible or integral; a
// fractional node is always branched, whatever its relaxation bound.
//
// ctx is checked once per node. On cancellation the best incumbent found so far
// is returned with StatusInterrupted and ctx.Err().
func (e *Engine) Solve(ctx context.Context, in *Instance) (Solution, error) {
	runID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "bnb.solve",
		trace.WithAttributes(
			attribute.String("bnb.run_id", runID),
			attribute.Int("bnb.variables", in.NumVariables()),
			attribute.Int("bnb.constraints", in.NumConstraints()),
		),
	)
	defer span.End()

	log := e.log.WithFields(logrus.Fields{
		"run":         runID,
		"variables":   in.NumVariables(),
		"constraints": in.NumConstraints(),
	})

	s := &search{
		Engine:    e,
		instance:  in,
		log:       log,
		incumbent: incumbent{z: math.Inf(-1)},
	}
	sol, err := s.run(ctx)

	span.SetAttributes(
		attribute.String("bnb.status", sol.Status.String()),
		attribute.Int("bnb.nodes", sol.Stats.NodesEvaluated),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	e.metrics.observeSolve(sol.Status)

	log.WithFields(logrus.Fields{
		"status":    sol.Status,
		"objective": sol.Objective,
		"nodes":     sol.Stats.NodesEvaluated,
	}).Debug("search finished")

	return sol, err
}

type incumbent struct {
	z float64
	x []int
}

// search holds the state of a single Solve call. It is only touched by the
// goroutine running the search.
type search struct {
	*Engine
	instance *Instance
	log      logrus.FieldLogger

	// pending nodes, popped last-in-first-out
	stack  []Node
	nextID int64

	incumbent incumbent
	stats     Stats
}

func (s *search) push(n Node) {
	s.stack = append(s.stack, n)
}

func (s *search) pop() Node {
	last := len(s.stack) - 1
	n := s.stack[last]
	s.stack[last] = Node{}
	s.stack = s.stack[:last]
	return n
}

func (s *search) run(ctx context.Context) (Solution, error) {
	s.push(rootNode())
	s.nextID = 1

	for len(s.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return s.solution(StatusInterrupted), err
		}
		if s.nodeLimit > 0 && s.stats.NodesEvaluated >= s.nodeLimit {
			return s.solution(StatusInterrupted), ErrNodeLimit
		}

		if err := s.evaluate(ctx, s.pop()); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.solution(StatusInterrupted), ctxErr
			}
			return Solution{Status: StatusUnknown, Stats: s.stats}, err
		}
	}

	if s.incumbent.x == nil {
		return s.solution(StatusInfeasible), nil
	}
	return s.solution(StatusOptimal), nil
}

// evaluate relaxes a single node and either prunes it or replaces it by its two children.
func (s *search) evaluate(ctx context.Context, node Node) error {
	start := time.Now()
	rx, err := s.relaxer.Relax(ctx, s.instance, node.Fixed)
	s.metrics.observeRelaxation(time.Since(start).Seconds())
	if err != nil {
		return &OracleError{Node: node.ID, Fixed: node.Fixed, Err: err}
	}

	s.stats.NodesEvaluated++
	if node.Depth > s.stats.MaxDepth {
		s.stats.MaxDepth = node.Depth
	}

	if !rx.Feasible {
		s.stats.PrunedInfeasible++
		s.decide(node, rx, DecisionInfeasible)
		return nil
	}

	if err := s.normalize(node, rx.X); err != nil {
		return &OracleError{Node: node.ID, Fixed: node.Fixed, Err: err}
	}

	if IsIntegral(rx.X) && !s.instance.Satisfies(rx.X) {
		// the point passed the relaxation within its tolerance but fails the
		// exact check, so the subtree is split further instead of pruned
		j, ok := firstFree(node.Fixed, len(rx.X))
		if !ok {
			s.stats.PrunedInfeasible++
			s.decide(node, rx, DecisionInfeasible)
			return nil
		}
		s.branch(node, j)
		s.stats.Branched++
		s.decide(node, rx, DecisionBranched)
		return nil
	}

	if IsIntegral(rx.X) {
		s.stats.PrunedIntegral++
		// ties keep the incumbent that was found first
		if rx.Objective > s.incumbent.z {
			s.incumbent = incumbent{z: rx.Objective, x: toBinary(rx.X)}
			s.stats.IncumbentUpdates++
			s.decide(node, rx, DecisionIntegralImproving)
			return nil
		}
		s.decide(node, rx, DecisionIntegralNotImproving)
		return nil
	}

	j, _ := SelectBranchVariable(rx.X)
	s.branch(node, j)
	s.stats.Branched++
	s.decide(node, rx, DecisionBranched)
	return nil
}

// branch pushes the two children of node that fix variable j. The child
// matching branchFirst is pushed last so that it is explored first.
func (s *search) branch(node Node, j int) {
	for _, v := range [2]int{1 - s.branchFirst, s.branchFirst} {
		s.push(node.child(s.nextID, j, v))
		s.nextID++
	}
}

// normalize forces x into [0,1] and the fixed variables onto their fixed value,
// so that the branching variable is always a free one and every edge of the
// tree fixes one more variable.
func (s *search) normalize(node Node, x []float64) error {
	if len(x) != s.instance.NumVariables() {
		return fmt.Errorf("relaxation returned %d values for %d variables", len(x), s.instance.NumVariables())
	}
	for i, v := range x {
		x[i] = clamp01(v)
	}
	for j, v := range node.Fixed {
		x[j] = float64(v)
	}
	return nil
}

func (s *search) decide(node Node, rx Relaxation, d Decision) {
	s.log.WithFields(logrus.Fields{
		"node":      node.ID,
		"parent":    node.Parent,
		"depth":     node.Depth,
		"fixed":     node.Fixed.String(),
		"objective": rx.Objective,
		"decision":  d,
	}).Debug("evaluated node")

	s.metrics.observeDecision(d)
	for _, mw := range s.middleware {
		mw.ProcessDecision(node, rx, d)
	}
}

func (s *search) solution(status Status) Solution {
	sol := Solution{Status: status, Stats: s.stats}
	if s.incumbent.x != nil {
		sol.Objective = s.incumbent.z
		sol.Assignment = append([]int(nil), s.incumbent.x...)
	}
	return sol
}

// firstFree returns the lowest variable index that is not fixed.
func firstFree(fixed FixedAssignment, n int) (int, bool) {
	for j := 0; j < n; j++ {
		if _, ok := fixed[j]; !ok {
			return j, true
		}
	}
	return -1, false
}

func toBinary(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		if v == 1 {
			out[i] = 1
		}
	}
	return out
}
