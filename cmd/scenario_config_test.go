package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_AllSections(t *testing.T) {
	data := []byte(`
seed: 11
workers: 4
trace: decisions
bayesian:
  cache_threshold: 8
  rel_tol: 1.0e-6
  max_order: 64
analysis:
  confidence: 0.9
  significance: 0.01
`)
	sc, err := parseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, int64(11), *sc.Seed)
	assert.Equal(t, 4, *sc.Workers)
	assert.Equal(t, "decisions", *sc.Trace)
	assert.Equal(t, 8, *sc.Bayesian.CacheThreshold)
	assert.InDelta(t, 1e-6, *sc.Bayesian.RelTol, 1e-18)
	assert.Equal(t, 64, *sc.Bayesian.MaxOrder)
	assert.InDelta(t, 0.9, *sc.Analysis.Confidence, 1e-12)
	assert.InDelta(t, 0.01, *sc.Analysis.Significance, 1e-12)
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level key", "sead: 3\n"},
		{"unknown nested key", "bayesian:\n  threshold: 3\n"},
		{"zero workers", "workers: 0\n"},
		{"unknown trace level", "trace: verbose\n"},
		{"confidence of one", "analysis:\n  confidence: 1\n"},
		{"max order too small", "bayesian:\n  max_order: 2\n"},
		{"non-positive tolerance", "bayesian:\n  rel_tol: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScenario([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRunSettingsApply_ExplicitFlagsWin(t *testing.T) {
	// GIVEN settings from flags where only --seed was set explicitly
	s := runSettings{Seed: 5, Workers: 1, Trace: "none", Confidence: 0.95}
	sc, err := parseScenario([]byte("seed: 99\nworkers: 3\nanalysis:\n  confidence: 0.8\n"))
	require.NoError(t, err)
	changed := func(flag string) bool { return flag == "seed" }

	// WHEN the scenario is applied
	s.apply(sc, changed)

	// THEN the explicit flag keeps its value and the rest come from the scenario
	assert.Equal(t, int64(5), s.Seed)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, "none", s.Trace, "absent keys leave defaults untouched")
	assert.InDelta(t, 0.8, s.Confidence, 1e-12)
}

func TestResolveSettings_ReadsScenarioFile(t *testing.T) {
	// GIVEN a command whose --seed flag was set and a scenario setting seed and workers
	c := &cobra.Command{}
	c.Flags().Int64Var(&seed, "seed", 42, "")
	c.Flags().IntVar(&workers, "workers", 1, "")
	require.NoError(t, c.ParseFlags([]string{"--seed", "7"}))
	scenarioPath = writeFile(t, "scenario.yaml", "seed: 99\nworkers: 3\n")
	t.Cleanup(func() {
		scenarioPath = ""
		seed = 42
		workers = 1
	})

	// WHEN settings are resolved
	s, err := resolveSettings(c)

	// THEN the command line wins for seed and the scenario fills workers
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, 3, s.Workers)
}

func TestResolveSettings_MissingScenarioFails(t *testing.T) {
	scenarioPath = "does-not-exist.yaml"
	t.Cleanup(func() { scenarioPath = "" })
	_, err := resolveSettings(&cobra.Command{})
	assert.Error(t, err)
}
