package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grade-estimator/internal/config"
	"grade-estimator/internal/version"
)

var (
	cfgFile      string
	outputFormat string

	// cfg is loaded before any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gradeest",
	Short: "Estimate grade percentiles from exam statistic screenshots",
	Long: `gradeest reads screenshots of exam grade statistics, extracts the
number of students per grade from the "Anzahl" row and sums them over all
semesters. The combined distribution answers which share of students
received a given grade or better.

Screenshots are read from the images folder (default: ./AUD), one file per
semester, named after the semester (SoSe23.png, WiSe2425.png, ...).`,
	Version:      version.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case string(formatYAML), string(formatJSON):
		default:
			return fmt.Errorf("unknown output format: %s", outputFormat)
		}

		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.grade-estimator/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.AddCommand(versionCmd)
}
