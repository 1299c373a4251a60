package main

import (
	"github.com/spf13/cobra"

	"grade-estimator/internal/server"
)

var (
	serveHost   string
	servePort   string
	serveFromDB bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the estimator web server",
	Long: `Build the grade distribution once and serve the estimator.

By default every screenshot in the images folder is scanned at startup.
With --from-db the semesters stored by "gradeest scan" are used instead.

The server provides:
  - /                          - Overview page
  - /estimator                 - Grade estimator page
  - /api/calculate_percentage  - POST {"score": "1.7"}
  - /api/distribution          - Combined counts and statistics
  - /health                    - Basic server health check

Examples:
  gradeest serve                  # Scan ./AUD and listen on 0.0.0.0:5000
  gradeest serve --from-db        # Use previously imported semesters
  gradeest serve --port 8080      # Listen on a custom port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		p, cleanup, err := openPipeline(logger, serveFromDB)
		if err != nil {
			return err
		}
		dist, err := p.Distribution(ctx, serveFromDB)
		cleanup()
		if err != nil {
			return err
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:         host,
			Port:         port,
			Distribution: dist,
			Logger:       logger,
		})
		if err != nil {
			return err
		}

		// Blocks until shutdown
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "5000", "Port to listen on")
	serveCmd.Flags().BoolVar(&serveFromDB, "from-db", false, "Use stored semesters instead of scanning")

	rootCmd.AddCommand(serveCmd)
}
