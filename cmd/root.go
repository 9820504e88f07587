package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags shared by every command
	seed         int64  // Master seed for donor generation and trial simulation
	logLevel     string // Log verbosity level
	outputPath   string // Output file ("" or "-" = stdout)
	scenarioPath string // Optional YAML scenario with tuning parameters
	workers      int    // Parallel trial workers
	traceLevel   string // Allocation trace level (none, decisions)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "fmt-sim",
	Short: "Simulate and analyze adaptive donor allocation in FMT trials",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

// openOutput returns the writer selected by --output. The caller must close it.
func openOutput() (io.WriteCloser, error) {
	if outputPath == "" || outputPath == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", outputPath, err)
	}
	return f, nil
}

// writeOutput runs write against the --output destination and closes it. A close
// failure is returned when write succeeded, since buffered output may be lost.
func writeOutput(write func(io.Writer) error) error {
	out, err := openOutput()
	if err != nil {
		return err
	}
	return writeAndClose(out, write)
}

func writeAndClose(out io.WriteCloser, write func(io.Writer) error) error {
	if err := write(out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func parseIntArg(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}
	return v, nil
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, value)
	}
	return v, nil
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for donor generation and trial simulation")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "Number of trials simulated in parallel")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "none", "Allocation trace level (none, decisions); summary goes to stderr")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "config", "", "YAML scenario file with tuning parameters; explicit flags take precedence")

	rootCmd.AddCommand(donorsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(summarizeCmd)
}
