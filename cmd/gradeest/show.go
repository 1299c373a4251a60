package main

import (
	"github.com/spf13/cobra"

	"grade-estimator/internal/grades"
)

var showFromDB bool

type gradeRow struct {
	Grade      string `json:"grade" yaml:"grade"`
	Count      int    `json:"count" yaml:"count"`
	Percentage int    `json:"percentage" yaml:"percentage"`
}

type distributionView struct {
	Total   int            `json:"total" yaml:"total"`
	Sources []string       `json:"sources" yaml:"sources"`
	Grades  []gradeRow     `json:"grades" yaml:"grades"`
	Summary grades.Summary `json:"summary" yaml:"summary"`
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the combined distribution with cumulative percentages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		p, cleanup, err := openPipeline(logger, showFromDB)
		if err != nil {
			return err
		}
		defer cleanup()

		dist, err := p.Distribution(ctx, showFromDB)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), viewOf(dist))
	},
}

func viewOf(dist *grades.Distribution) distributionView {
	counts := dist.Counts()
	rows := make([]gradeRow, 0, len(counts))
	for i, label := range dist.Scale().Labels() {
		rows = append(rows, gradeRow{
			Grade:      label,
			Count:      counts[i],
			Percentage: dist.Percentile(label),
		})
	}
	return distributionView{
		Total:   dist.Total(),
		Sources: dist.Sources(),
		Grades:  rows,
		Summary: grades.Describe(dist),
	}
}

func init() {
	showCmd.Flags().BoolVar(&showFromDB, "from-db", false, "Use stored semesters instead of scanning")

	rootCmd.AddCommand(showCmd)
}
