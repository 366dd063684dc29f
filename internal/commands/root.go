package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetledger/fleetledger/internal/buildinfo"
	"github.com/fleetledger/fleetledger/internal/config"
	"github.com/fleetledger/fleetledger/internal/logger"
)

// EnvConfig names the environment variable that overrides the config path.
const EnvConfig = "FLEETLEDGER_CONFIG"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	repo     string
	config   string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "fleetledger",
		Short:   "Fleet cash ledger reconciliation and reporting",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(opts.logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repo, "repo", ".", "workspace directory")
	flags.StringVar(&opts.config, "config", os.Getenv(EnvConfig), "config file (default <repo>/"+config.FileName+")")
	flags.StringVar(&opts.logLevel, "log-level", os.Getenv(logger.EnvLevel), "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newActorsCommand(opts),
		newBalanceCommand(opts),
		newReportCommand(opts),
		newTrendCommand(opts),
		newVehiclesCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}
