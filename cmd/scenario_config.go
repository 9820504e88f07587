package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fmt-sim/fmt-sim/sim/trace"
)

// Scenario is an optional YAML file of run parameters. Pointer fields distinguish
// "absent" from an explicit zero so that only present keys override defaults.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Seed     *int64            `yaml:"seed"`
	Workers  *int              `yaml:"workers" validate:"omitempty,min=1"`
	Trace    *string           `yaml:"trace" validate:"omitempty,oneof=none decisions"`
	Bayesian *BayesianScenario `yaml:"bayesian"`
	Analysis *AnalysisScenario `yaml:"analysis"`
}

// BayesianScenario tunes the posterior integral and its cache.
type BayesianScenario struct {
	CacheThreshold *int     `yaml:"cache_threshold" validate:"omitempty,min=-1"`
	RelTol         *float64 `yaml:"rel_tol" validate:"omitempty,gt=0,lt=1"`
	MaxOrder       *int     `yaml:"max_order" validate:"omitempty,min=8,max=4096"`
}

// AnalysisScenario tunes the power analysis.
type AnalysisScenario struct {
	Confidence   *float64 `yaml:"confidence" validate:"omitempty,gt=0,lt=1"`
	Significance *float64 `yaml:"significance" validate:"omitempty,gt=0,lt=1"`
}

var scenarioValidator = validator.New(validator.WithRequiredStructEnabled())

// loadScenario parses and validates a scenario file with strict field checking,
// so typos in keys are errors rather than silently ignored.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := scenarioValidator.Struct(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// runSettings are the resolved tuning parameters for one command invocation.
type runSettings struct {
	Seed           int64
	Workers        int
	Trace          string
	CacheThreshold int
	RelTol         float64
	MaxOrder       int
	Confidence     float64
	Significance   float64
}

// resolveSettings merges flag values with the --config scenario. A scenario value
// applies only when the corresponding flag was not set explicitly.
func resolveSettings(cmd *cobra.Command) (runSettings, error) {
	s := runSettings{
		Seed:           seed,
		Workers:        workers,
		Trace:          traceLevel,
		CacheThreshold: cacheThreshold,
		RelTol:         relTol,
		MaxOrder:       maxOrder,
		Confidence:     confidence,
		Significance:   significance,
	}
	if scenarioPath != "" {
		sc, err := loadScenario(scenarioPath)
		if err != nil {
			return s, err
		}
		s.apply(sc, cmd.Flags().Changed)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return s, fmt.Errorf("unknown trace level %q; valid: none, decisions", s.Trace)
	}
	if s.Workers < 1 {
		return s, fmt.Errorf("workers must be >= 1, got %d", s.Workers)
	}
	return s, nil
}

// apply overlays scenario values onto s for every flag that changed reports unset.
func (s *runSettings) apply(sc *Scenario, changed func(string) bool) {
	overlay(&s.Seed, sc.Seed, "seed", changed)
	overlay(&s.Workers, sc.Workers, "workers", changed)
	overlay(&s.Trace, sc.Trace, "trace", changed)
	if b := sc.Bayesian; b != nil {
		overlay(&s.CacheThreshold, b.CacheThreshold, "cache-threshold", changed)
		overlay(&s.RelTol, b.RelTol, "rel-tol", changed)
		overlay(&s.MaxOrder, b.MaxOrder, "max-order", changed)
	}
	if a := sc.Analysis; a != nil {
		overlay(&s.Confidence, a.Confidence, "confidence", changed)
		overlay(&s.Significance, a.Significance, "significance", changed)
	}
}

func overlay[T any](dst, v *T, flag string, changed func(string) bool) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}
