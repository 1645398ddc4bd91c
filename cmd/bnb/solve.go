package main

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	ilp "github.com/LucasGabrielFontes/BranchAndBound"
	"github.com/LucasGabrielFontes/BranchAndBound/internal/config"
	"github.com/LucasGabrielFontes/BranchAndBound/internal/instance"
)

// verifyTolerance is the largest objective difference accepted by --verify.
const verifyTolerance = 1e-9

type solveFlags struct {
	configPath  string
	verify      bool
	dotDir      string
	metrics     bool
	trace       bool
	jobs        int
	output      string
	logLevel    string
	nodeLimit   int
	timeLimit   string
	branchFirst int
}

func newSolveCmd() *cobra.Command {
	f := &solveFlags{}

	solveCmd := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Solve one or more instance files",
		Long: `Solve reads every instance file before searching, so a malformed file
aborts the run before any search starts. Instances are then solved
concurrently, each by its own single-threaded search, and reported in
the order they were given.

        $ bnb solve --jobs 4 --output json instances/*.txt
        `,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runSolve(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		},
	}

	flags := solveCmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVar(&f.verify, "verify", false, "cross-check every result by exhaustive enumeration")
	flags.StringVar(&f.dotDir, "dot", "", "write the enumeration tree of every instance to this directory")
	flags.BoolVar(&f.metrics, "metrics", false, "print solver metrics in the Prometheus text format")
	flags.BoolVar(&f.trace, "trace", false, "export solve spans to stderr")
	flags.IntVarP(&f.jobs, "jobs", "j", 1, "number of instances solved concurrently")
	flags.StringVarP(&f.output, "output", "o", "text", "output format: text or json")
	flags.StringVar(&f.logLevel, "log-level", "warn", "log level")
	flags.IntVar(&f.nodeLimit, "node-limit", 0, "stop each search after this many nodes (0 disables)")
	flags.StringVar(&f.timeLimit, "time-limit", "", "stop each search after this duration, e.g. 30s")
	flags.IntVar(&f.branchFirst, "branch-first", 1, "value of the branching variable explored first (0 or 1)")

	return solveCmd
}

// resolve layers the flags that were explicitly set over the loaded configuration.
func (f *solveFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("verify") {
		cfg.Solver.Verify = f.verify
	}
	if flags.Changed("dot") {
		cfg.Output.DotDir = f.dotDir
	}
	if flags.Changed("metrics") {
		cfg.Output.Metrics = f.metrics
	}
	if flags.Changed("trace") {
		cfg.Output.Trace = f.trace
	}
	if flags.Changed("jobs") {
		cfg.Solver.Jobs = f.jobs
	}
	if flags.Changed("output") {
		cfg.Output.Format = f.output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("node-limit") {
		cfg.Solver.NodeLimit = f.nodeLimit
	}
	if flags.Changed("branch-first") {
		cfg.Solver.BranchFirst = f.branchFirst
	}
	if flags.Changed("time-limit") {
		d, err := time.ParseDuration(f.timeLimit)
		if err != nil {
			return cfg, errors.Wrap(err, "parsing --time-limit")
		}
		cfg.Solver.TimeLimit = d
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.LogConfig, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	return logger, nil
}

// runSolve reads every file, solves them concurrently and writes the results to out.
func runSolve(ctx context.Context, out, errOut io.Writer, cfg config.Config, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cfg.Log, errOut)
	if err != nil {
		return err
	}

	instances := make([]*ilp.Instance, len(files))
	for i, path := range files {
		if instances[i], err = instance.ReadFile(path); err != nil {
			return err
		}
	}

	if cfg.Output.DotDir != "" {
		if err := os.MkdirAll(cfg.Output.DotDir, 0755); err != nil {
			return errors.Wrap(err, "creating dot directory")
		}
	}

	reg := prometheus.NewRegistry()
	s := &solver{
		cfg:     cfg,
		log:     logger,
		metrics: ilp.NewMetrics(reg),
	}

	if cfg.Output.Trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(errOut))
		if err != nil {
			return errors.Wrap(err, "creating trace exporter")
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.WithError(err).Warn("shutting down tracer provider")
			}
		}()
		s.tracer = tp.Tracer("bnb")
	}

	results := make([]result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Solver.Jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			r, err := s.solve(gctx, path, instances[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeResults(out, cfg.Output.Format, results); err != nil {
		return err
	}
	if cfg.Output.Metrics {
		families, err := reg.Gather()
		if err != nil {
			return errors.Wrap(err, "gathering metrics")
		}
		return writeMetrics(out, families)
	}
	return nil
}

// solver carries what the searches of a single run share.
type solver struct {
	cfg     config.Config
	log     log.FieldLogger
	metrics *ilp.Metrics
	tracer  trace.Tracer
}

func (s *solver) solve(ctx context.Context, path string, in *ilp.Instance) (result, error) {
	logger := s.log.WithField("instance", path)

	options := []ilp.Option{
		ilp.WithLogger(logger),
		ilp.WithMetrics(s.metrics),
		ilp.WithRelaxer(ilp.SimplexRelaxer{Tolerance: s.cfg.Solver.Tolerance}),
		ilp.WithBranchFirst(s.cfg.Solver.BranchFirst),
		ilp.WithNodeLimit(s.cfg.Solver.NodeLimit),
	}
	if s.tracer != nil {
		options = append(options, ilp.WithTracer(s.tracer))
	}
	var tl *ilp.TreeLogger
	if s.cfg.Output.DotDir != "" {
		tl = &ilp.TreeLogger{}
		options = append(options, ilp.WithMiddleware(tl))
	}

	e, err := ilp.NewEngine(options...)
	if err != nil {
		return result{}, err
	}

	if s.cfg.Solver.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Solver.TimeLimit)
		defer cancel()
	}

	sol, err := e.Solve(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, ilp.ErrNodeLimit), errors.Is(err, context.DeadlineExceeded):
		logger.WithError(err).Warn("search interrupted, reporting best solution found so far")
	default:
		return result{}, errors.Wrapf(err, "solving %s", path)
	}

	if tl != nil {
		if err := writeDOT(filepath.Join(s.cfg.Output.DotDir, dotName(path)), tl); err != nil {
			return result{}, err
		}
	}

	r := newResult(path, sol)
	if s.cfg.Solver.Verify {
		if r.Verified, err = verify(logger, in, sol); err != nil {
			return result{}, errors.Wrapf(err, "verifying %s", path)
		}
	}
	return r, nil
}

// verify compares a finished search against exhaustive enumeration. Interrupted
// searches and instances too large to enumerate are skipped.
func verify(logger log.FieldLogger, in *ilp.Instance, sol ilp.Solution) (bool, error) {
	if sol.Status != ilp.StatusOptimal && sol.Status != ilp.StatusInfeasible {
		return false, nil
	}
	ref, err := ilp.Enumerate(in)
	if errors.Is(err, ilp.ErrTooManyVariables) {
		logger.Warn("instance too large to verify")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if ref.Status != sol.Status {
		return false, errors.Errorf("enumeration status is %s, search status is %s", ref.Status, sol.Status)
	}
	if sol.Status == ilp.StatusOptimal && math.Abs(ref.Objective-sol.Objective) > verifyTolerance {
		return false, errors.Errorf("enumeration optimum is %v, search optimum is %v", ref.Objective, sol.Objective)
	}
	if sol.Status == ilp.StatusOptimal && !in.Satisfies(toFloats(sol.Assignment)) {
		return false, errors.Errorf("search assignment %v violates a constraint", sol.Assignment)
	}
	return true, nil
}

func writeDOT(path string, tl *ilp.TreeLogger) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating dot file")
	}
	if err := tl.WriteDOT(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}

// dotName maps an instance path to the name of its tree file.
func dotName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".dot"
}

func toFloats(x []int) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
