package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmt-sim/fmt-sim/sim/analysis"
)

var (
	confidence   float64 // Clopper-Pearson interval confidence level
	significance float64 // Per-trial Fisher p-value threshold
)

var powerCmd = &cobra.Command{
	Use:   "power <treatment_histories> <placebo_histories>",
	Short: "Estimate power from paired treatment and placebo histories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		treatment, err := readHistoryFile(args[0])
		if err != nil {
			return err
		}
		placebo, err := readHistoryFile(args[1])
		if err != nil {
			return err
		}
		analyzer := analysis.NewAnalyzer(analysis.AnalyzerConfig{
			Confidence:   settings.Confidence,
			Significance: settings.Significance,
		})
		result, err := analyzer.Power(treatment, placebo)
		if err != nil {
			return err
		}
		logrus.Infof("%d of %d trials significant at p < %g", result.Significant, result.Trials, settings.Significance)
		return writeOutput(result.WriteReport)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <histories>",
	Short: "Describe per-trial response rates of a history file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := readHistoryFile(args[0])
		if err != nil {
			return err
		}
		summary, err := analysis.Summarize(lines)
		if err != nil {
			return err
		}
		return writeOutput(func(w io.Writer) error {
			return printHistorySummary(w, summary)
		})
	},
}

// readHistoryFile reads history lines from path, or from stdin when path is "-".
func readHistoryFile(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening history file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return analysis.ReadHistoryLines(r)
}

func printHistorySummary(w io.Writer, s analysis.HistorySummary) error {
	rows := []struct {
		name  string
		value string
	}{
		{"trials", fmt.Sprint(s.Trials)},
		{"patients", fmt.Sprint(s.Patients)},
		{"successes", fmt.Sprint(s.Successes)},
		{"mean", fmt.Sprintf("%.4f", s.MeanRate)},
		{"stddev", fmt.Sprintf("%.4f", s.StdDev)},
		{"min", fmt.Sprintf("%.4f", s.Min)},
		{"q25", fmt.Sprintf("%.4f", s.Q25)},
		{"median", fmt.Sprintf("%.4f", s.Median)},
		{"q75", fmt.Sprintf("%.4f", s.Q75)},
		{"max", fmt.Sprintf("%.4f", s.Max)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row.name, row.value); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	powerCmd.Flags().Float64Var(&confidence, "confidence", analysis.DefaultConfidence, "Confidence level of the power interval")
	powerCmd.Flags().Float64Var(&significance, "significance", analysis.DefaultSignificance, "Per-trial p-value threshold")
}
