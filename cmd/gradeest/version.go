package main

import (
	"github.com/spf13/cobra"

	"grade-estimator/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output(cmd.OutOrStdout(), version.Get())
	},
}
