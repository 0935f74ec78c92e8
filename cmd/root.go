package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/h5diff/internal/config"
	"github.com/lehigh-university-libraries/h5diff/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "h5diff",
		Short: "Rank numeric tables by how much they changed between two result trees",
		Long: `h5diff compares same-named numeric tables in two directories of result files
(HDF5 or Parquet) and ranks the cases by the relative error between them.

It is meant for checking simulation or pipeline output after a code change:
which cases moved, and by how much.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.LoadLogging()
			if err != nil {
				return fmt.Errorf("failed to read logging configuration: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Format = logFormat
			}
			logging.Setup(cfg.Level, cfg.Format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error (LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json (LOG_FORMAT)")

	// Add subcommands
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}
