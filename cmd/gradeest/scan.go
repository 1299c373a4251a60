package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanDryRun bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract grade counts from the images folder and store them",
	Long: `Scan every screenshot in the images folder, extract the count row and
store the counts per semester in the database. A semester that was
imported before is replaced.

Sources that fail (unreadable image, no count row, wrong number of
counts) are reported and skipped.

Examples:
  gradeest scan                       # Import ./AUD into grades.db
  gradeest scan --dry-run -o json     # Only print what would be stored`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		p, cleanup, err := openPipeline(logger, !scanDryRun)
		if err != nil {
			return err
		}
		defer cleanup()

		run := p.Import
		if scanDryRun {
			run = p.Scan
		}
		report, err := run(ctx)
		if err != nil {
			return err
		}

		if err := output(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if n := len(report.Results) + len(report.Missing); n > 0 && report.Failed() == n {
			return fmt.Errorf("no source could be extracted")
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "Extract without writing to the database")

	rootCmd.AddCommand(scanCmd)
}
