// Package config holds the settings of the bnb command.
//
// Settings are resolved in order: built-in defaults, then the optional YAML
// file, then BNB_* environment variables. Command line flags are applied on
// top by the caller before Validate is called.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of a solver run.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

type SolverConfig struct {
	// BranchFirst is the value of the branching variable explored first.
	BranchFirst int `yaml:"branch_first" validate:"oneof=0 1"`

	// NodeLimit stops the search after that many evaluated nodes. Zero means no limit.
	NodeLimit int `yaml:"node_limit" validate:"gte=0"`

	// TimeLimit bounds each instance's search, including a running relaxation.
	// Zero means no limit.
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"`

	// Tolerance is handed to the simplex method.
	Tolerance float64 `yaml:"tolerance" validate:"gte=0"`

	// Jobs is the number of instances solved concurrently.
	Jobs int `yaml:"jobs" validate:"gte=1,lte=256"`

	// Verify cross-checks every result by exhaustive enumeration.
	Verify bool `yaml:"verify"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=panic fatal error warn warning info debug trace"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`

	// DotDir receives one Graphviz file per instance when set.
	DotDir string `yaml:"dot_dir"`

	// Metrics prints the Prometheus exposition after all instances are solved.
	Metrics bool `yaml:"metrics"`

	// Trace exports the solve spans to stdout.
	Trace bool `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			BranchFirst: 1,
			Jobs:        1,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load resolves the configuration from the defaults, the file at path (if
// path is not empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	var err error
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			var i int
			if i, err = strconv.Atoi(v); err != nil {
				err = errors.Wrapf(err, "parsing %s", key)
				return
			}
			*dst = i
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			var b bool
			if b, err = strconv.ParseBool(v); err != nil {
				err = errors.Wrapf(err, "parsing %s", key)
				return
			}
			*dst = b
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setInt("BNB_BRANCH_FIRST", &cfg.Solver.BranchFirst)
	setInt("BNB_NODE_LIMIT", &cfg.Solver.NodeLimit)
	setInt("BNB_JOBS", &cfg.Solver.Jobs)
	setBool("BNB_VERIFY", &cfg.Solver.Verify)
	if v, ok := os.LookupEnv("BNB_TIME_LIMIT"); ok && err == nil {
		var d time.Duration
		if d, err = time.ParseDuration(v); err != nil {
			err = errors.Wrap(err, "parsing BNB_TIME_LIMIT")
		} else {
			cfg.Solver.TimeLimit = d
		}
	}
	if v, ok := os.LookupEnv("BNB_TOLERANCE"); ok && err == nil {
		var f float64
		if f, err = strconv.ParseFloat(v, 64); err != nil {
			err = errors.Wrap(err, "parsing BNB_TOLERANCE")
		} else {
			cfg.Solver.Tolerance = f
		}
	}

	setString("BNB_LOG_LEVEL", &cfg.Log.Level)
	setString("BNB_LOG_FORMAT", &cfg.Log.Format)
	setString("BNB_OUTPUT", &cfg.Output.Format)
	setString("BNB_DOT_DIR", &cfg.Output.DotDir)
	setBool("BNB_METRICS", &cfg.Output.Metrics)
	setBool("BNB_TRACE", &cfg.Output.Trace)

	return err
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
