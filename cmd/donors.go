package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmt-sim/fmt-sim/sim"
)

var donorsCmd = &cobra.Command{
	Use:   "donors <donors_per_trial> <n_trials> <p_efficacious>",
	Short: "Generate donor-quality lists, one trial per line",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		perTrial, err := parseIntArg("donors_per_trial", args[0])
		if err != nil {
			return err
		}
		nTrials, err := parseIntArg("n_trials", args[1])
		if err != nil {
			return err
		}
		ped, err := parseFloatArg("p_efficacious", args[2])
		if err != nil {
			return err
		}
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		return runDonors(perTrial, nTrials, ped, settings)
	},
}

func runDonors(perTrial, nTrials int, ped float64, settings runSettings) error {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(settings.Seed)).ForSubsystem(sim.SubsystemDonors)
	lists, err := sim.GenerateDonorLists(perTrial, nTrials, ped, rng)
	if err != nil {
		return err
	}
	err = writeOutput(func(w io.Writer) error {
		if err := sim.WriteDonorList(w, lists); err != nil {
			return fmt.Errorf("writing donor lists: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logrus.Infof("generated %d donor lists of %d donors (seed %d)", nTrials, perTrial, settings.Seed)
	return nil
}
