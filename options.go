package ilp

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/LucasGabrielFontes/BranchAndBound"

type Option func(e *Engine) error

// WithRelaxer sets the relaxation oracle. The default is SimplexRelaxer{}.
func WithRelaxer(r Relaxer) Option {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("ilp: nil relaxer")
		}
		e.relaxer = r
		return nil
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) error {
		e.log = l
		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) error {
		e.metrics = m
		return nil
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

// WithMiddleware appends decision middlewares, called in the given order.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Engine) error {
		e.middleware = append(e.middleware, mw...)
		return nil
	}
}

// WithBranchFirst selects which child of a fractional node is explored first.
// The default is 1: the x_j = 0 child is pushed first, so x_j = 1 is popped first.
// The choice changes the traversal order, never the optimal objective value.
func WithBranchFirst(v int) Option {
	return func(e *Engine) error {
		if v != 0 && v != 1 {
			return fmt.Errorf("ilp: branch direction must be 0 or 1, got %d", v)
		}
		e.branchFirst = v
		return nil
	}
}

// WithNodeLimit stops the search after limit evaluated nodes. The best
// incumbent found so far is returned together with ErrNodeLimit.
// Zero means no limit.
func WithNodeLimit(limit int) Option {
	return func(e *Engine) error {
		if limit < 0 {
			return fmt.Errorf("ilp: negative node limit %d", limit)
		}
		e.nodeLimit = limit
		return nil
	}
}

var defaults = []Option{
	func(e *Engine) error {
		if e.relaxer == nil {
			e.relaxer = SimplexRelaxer{}
		}
		return nil
	},
	func(e *Engine) error {
		if e.log == nil {
			e.log = logrus.StandardLogger()
		}
		return nil
	},
	func(e *Engine) error {
		if len(e.middleware) == 0 {
			e.middleware = []Middleware{dummyMiddleware{}}
		}
		return nil
	},
	func(e *Engine) error {
		if e.tracer == nil {
			e.tracer = otel.Tracer(tracerName)
		}
		return nil
	},
}
