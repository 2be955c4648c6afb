// Package cli holds the chillers command tree.
package cli

import (
	"github.com/mariodelcid/POS-Chillers/internal/config"
	"github.com/mariodelcid/POS-Chillers/internal/logging"
	"github.com/mariodelcid/POS-Chillers/internal/packaging"
	"github.com/spf13/cobra"
)

// RootOptions is shared by every subcommand; Config is filled in before any
// of them runs.
type RootOptions struct {
	Config   *config.Config
	LogLevel string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chillers",
		Short: "Chillers point-of-sale backend",
		Long:  "HTTP API for the Chillers food stand: sales, packaging stock, purchases, time clock and accounting.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = config.Load()
			if opts.LogLevel != "" {
				opts.Config.LogLevel = opts.LogLevel
			}
			logging.Setup(opts.Config.LogLevel)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides LOG_LEVEL")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))

	return cmd
}

// loadRules reads the packaging rule table from path, or the embedded
// default when path is empty.
func loadRules(path string) (*packaging.RuleSet, error) {
	if path == "" {
		return packaging.Default(), nil
	}
	return packaging.Load(path)
}
