package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netsim-dev/netsim/sim/trace"
)

// RunConfig holds run settings loadable from a YAML file via --config.
// Nil pointer fields mean "not set in YAML"; they do not override flag defaults.
// Flags explicitly given on the command line always win.
type RunConfig struct {
	Network string       `yaml:"network"`
	Seed    *int64       `yaml:"seed"`
	Turns   *int64       `yaml:"turns"`
	Report  ReportConfig `yaml:"report"`
	Trace   string       `yaml:"trace"`
}

// ReportConfig selects on which turns a turn report is printed.
// Interval and Turns are mutually exclusive.
type ReportConfig struct {
	Interval *int64  `yaml:"interval"`
	Turns    []int64 `yaml:"turns"`
}

// LoadRunConfig reads and strictly parses a YAML run configuration file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks parameter ranges and names.
func (c *RunConfig) Validate() error {
	if c.Turns != nil && *c.Turns < 0 {
		return fmt.Errorf("turns must be non-negative, got %d", *c.Turns)
	}
	if c.Report.Interval != nil && *c.Report.Interval < 1 {
		return fmt.Errorf("report.interval must be >= 1, got %d", *c.Report.Interval)
	}
	if c.Report.Interval != nil && len(c.Report.Turns) > 0 {
		return fmt.Errorf("report.interval and report.turns are mutually exclusive")
	}
	for _, t := range c.Report.Turns {
		if t < 1 {
			return fmt.Errorf("report.turns entries must be >= 1, got %d", t)
		}
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	return nil
}

// runOptions is the resolved configuration of one `netsim run`.
type runOptions struct {
	networkPath    string
	seed           int64
	turns          int64
	reportInterval int64
	reportTurns    []int64
	traceLevel     string
}

// applyRunConfig copies values set in cfg into opts, except for flags the
// user set explicitly (changed reports those by flag name).
func applyRunConfig(opts *runOptions, cfg *RunConfig, changed func(name string) bool) {
	if cfg.Network != "" && !changed("network") {
		opts.networkPath = cfg.Network
	}
	if cfg.Seed != nil && !changed("seed") {
		opts.seed = *cfg.Seed
	}
	if cfg.Turns != nil && !changed("turns") {
		opts.turns = *cfg.Turns
	}
	if !changed("report-interval") && !changed("report-turns") {
		if cfg.Report.Interval != nil {
			opts.reportInterval = *cfg.Report.Interval
			opts.reportTurns = nil
		}
		if len(cfg.Report.Turns) > 0 {
			opts.reportTurns = cfg.Report.Turns
			opts.reportInterval = 0
		}
	}
	if cfg.Trace != "" && !changed("trace") {
		opts.traceLevel = cfg.Trace
	}
}
