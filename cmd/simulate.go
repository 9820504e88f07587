package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmt-sim/fmt-sim/sim"
	"github.com/fmt-sim/fmt-sim/sim/allocation"
	"github.com/fmt-sim/fmt-sim/sim/analysis"
	"github.com/fmt-sim/fmt-sim/sim/integrate"
	"github.com/fmt-sim/fmt-sim/sim/trace"
)

var (
	// Trial flags
	nDonors   int  // Donors used from each pool (0 = all)
	noReplace bool // Urn draws remove the drawn ball

	// Bayesian posterior flags
	cacheThreshold int     // Cache states with fewer observations than this
	relTol         float64 // Largest accepted relative integration error
	maxOrder       int     // Per-axis Gauss-Legendre order cap
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate trials under an allocation policy and print outcome histories",
}

var simulatePlaceboCmd = &cobra.Command{
	Use:   "placebo <n_trials> <n_patients> <p_placebo>",
	Short: "Simulate single-arm placebo trials",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		nTrials, err := parseIntArg("n_trials", args[0])
		if err != nil {
			return err
		}
		patients, err := parseIntArg("n_patients", args[1])
		if err != nil {
			return err
		}
		rate, err := parseFloatArg("p_placebo", args[2])
		if err != nil {
			return err
		}
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(settings.Seed)).ForSubsystem(sim.SubsystemPlacebo)
		histories, err := sim.PlaceboHistories(nTrials, patients, rate, rng)
		if err != nil {
			return err
		}
		return writeHistories(histories)
	},
}

// trialArgs are the positional arguments shared by every allocation policy.
type trialArgs struct {
	donorFile string
	cfg       sim.TrialConfig
}

const trialUsage = "<donor_file> <n_patients> <p_placebo> <p_efficacious>"

func parseTrialArgs(args []string) (trialArgs, error) {
	patients, err := parseIntArg("n_patients", args[1])
	if err != nil {
		return trialArgs{}, err
	}
	placebo, err := parseFloatArg("p_placebo", args[2])
	if err != nil {
		return trialArgs{}, err
	}
	efficacious, err := parseFloatArg("p_efficacious", args[3])
	if err != nil {
		return trialArgs{}, err
	}
	return trialArgs{
		donorFile: args[0],
		cfg: sim.TrialConfig{
			Patients:        patients,
			Donors:          nDonors,
			PlaceboRate:     placebo,
			EfficaciousRate: efficacious,
		},
	}, nil
}

// newPolicyCmd builds the subcommand for a policy that needs no extra arguments.
func newPolicyCmd(policy, short string) *cobra.Command {
	return &cobra.Command{
		Use:   policy + " " + trialUsage,
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ta, err := parseTrialArgs(args)
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			return runPolicy(ta, allocationConfig(policy, settings), settings)
		},
	}
}

var simulateUrnCmd = &cobra.Command{
	Use:   "urn " + trialUsage + " <n_balls0> <reward> <penalty>",
	Short: "Allocate with a Polya urn",
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		ta, err := parseTrialArgs(args[:4])
		if err != nil {
			return err
		}
		var urn allocation.UrnConfig
		if urn.InitialBalls, err = parseIntArg("n_balls0", args[4]); err != nil {
			return err
		}
		if urn.Reward, err = parseIntArg("reward", args[5]); err != nil {
			return err
		}
		if urn.Penalty, err = parseIntArg("penalty", args[6]); err != nil {
			return err
		}
		urn.NoReplace = noReplace
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		cfg := allocationConfig(allocation.PolicyUrn, settings)
		cfg.Urn = urn
		return runPolicy(ta, cfg, settings)
	},
}

// allocationConfig builds the policy configuration. Bayesian runs get one shared
// Posterior so every trial reuses the same state cache.
func allocationConfig(policy string, settings runSettings) allocation.Config {
	cfg := allocation.Config{Policy: policy}
	if policy == allocation.PolicyBayesian {
		gl := integrate.NewGaussLegendre()
		gl.MaxOrder = settings.MaxOrder
		cfg.Posterior = allocation.NewPosterior(allocation.PosteriorConfig{
			Integrator:     gl,
			RelTol:         settings.RelTol,
			CacheThreshold: settings.CacheThreshold,
		})
	}
	return cfg
}

func runPolicy(ta trialArgs, cfg allocation.Config, settings runSettings) error {
	pools, err := readDonorFile(ta.donorFile)
	if err != nil {
		return err
	}
	factory, err := allocation.NewFactory(cfg)
	if err != nil {
		return err
	}

	var recorder *trace.AllocationTrace
	if level := trace.TraceLevel(settings.Trace); level.Enabled() {
		recorder = trace.NewAllocationTrace(trace.TraceConfig{Level: level})
	}

	logrus.Infof("simulating %d trials with %s allocation (seed %d, %d workers)",
		len(pools), cfg.Policy, settings.Seed, settings.Workers)
	histories, err := sim.RunTrials(pools, ta.cfg, factory, sim.NewSimulationKey(settings.Seed), settings.Workers, recorder)
	if err != nil {
		return err
	}
	if cfg.Posterior != nil {
		st := cfg.Posterior.CacheStats()
		logrus.Infof("posterior cache: %d hits, %d misses, %d skipped, %d entries",
			st.Hits, st.Misses, st.Skipped, st.Entries)
	}
	if recorder != nil {
		printTraceSummary(os.Stderr, trace.Summarize(recorder))
	}
	return writeHistories(histories)
}

// readDonorFile reads donor pools from path, or from stdin when path is "-".
func readDonorFile(path string) ([]sim.DonorQualities, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening donor file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return sim.ReadDonorList(r)
}

func writeHistories(histories []sim.History) error {
	return writeOutput(func(w io.Writer) error {
		return analysis.WriteHistories(w, histories)
	})
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Allocation Trace Summary ===")
	fmt.Fprintf(w, "Trials: %d\n", s.Trials)
	fmt.Fprintf(w, "Allocations: %d (%d successes)\n", s.TotalAllocations, s.SuccessCount)
	fmt.Fprintf(w, "Efficacious fraction: %.4f\n", s.EfficaciousFraction)
	fmt.Fprintf(w, "Trial success rate: mean %.4f, stddev %.4f\n", s.MeanTrialSuccess, s.StdDevTrialSuccess)
	fmt.Fprintf(w, "Regret: mean %.4f, max %.4f\n", s.MeanRegret, s.MaxRegret)
	for donor := 0; donor < sim.MaxDonors; donor++ {
		if n, ok := s.DonorDistribution[donor]; ok {
			symbol, _ := sim.DonorSymbol(donor)
			fmt.Fprintf(w, "  %c: %d\n", symbol, n)
		}
	}
}

func init() {
	simulateCmd.PersistentFlags().IntVar(&nDonors, "n-donors", 0, "Donors used from each pool (0 = all)")

	simulateUrnCmd.Flags().BoolVar(&noReplace, "no-replace", false, "Remove the drawn ball from the urn")

	bayesianCmd := newPolicyCmd(allocation.PolicyBayesian, "Allocate to the donor with the highest posterior response probability")
	bayesianCmd.Flags().IntVar(&cacheThreshold, "cache-threshold", allocation.DefaultCacheThreshold, "Cache posterior values for states with fewer observations (0 = default, -1 disables)")
	bayesianCmd.Flags().Float64Var(&relTol, "rel-tol", allocation.DefaultRelTol, "Largest accepted relative integration error")
	bayesianCmd.Flags().IntVar(&maxOrder, "max-order", integrate.DefaultMaxOrder, "Per-axis Gauss-Legendre order cap")

	simulateCmd.AddCommand(simulatePlaceboCmd)
	simulateCmd.AddCommand(newPolicyCmd(allocation.PolicyBlock, "Allocate patients to donors in rotation"))
	simulateCmd.AddCommand(newPolicyCmd(allocation.PolicyRandom, "Allocate patients to donors uniformly at random"))
	simulateCmd.AddCommand(simulateUrnCmd)
	simulateCmd.AddCommand(bayesianCmd)
}
