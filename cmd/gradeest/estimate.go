package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var estimateFromDB bool

// estimateResult mirrors the API response of /api/calculate_percentage.
type estimateResult struct {
	Grade      string `json:"grade" yaml:"grade"`
	Percentage int    `json:"percentage" yaml:"percentage"`
	Students   int    `json:"students" yaml:"students"`
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <grade>",
	Short: "Print the share of students with the given grade or better",
	Args:  cobra.ExactArgs(1),
	Example: `  gradeest estimate 1.7
  gradeest estimate 2.3 --from-db -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		p, cleanup, err := openPipeline(logger, estimateFromDB)
		if err != nil {
			return err
		}
		defer cleanup()

		grade := args[0]
		if !p.Scale().Contains(grade) {
			return fmt.Errorf("invalid grade %q, expected one of %v", grade, p.Scale().Labels())
		}

		dist, err := p.Distribution(ctx, estimateFromDB)
		if err != nil {
			return err
		}

		return output(cmd.OutOrStdout(), estimateResult{
			Grade:      grade,
			Percentage: dist.Percentile(grade),
			Students:   dist.Total(),
		})
	},
}

func init() {
	estimateCmd.Flags().BoolVar(&estimateFromDB, "from-db", false, "Use stored semesters instead of scanning")

	rootCmd.AddCommand(estimateCmd)
}
