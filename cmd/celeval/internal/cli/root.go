// Package cli assembles the celeval command tree.
package cli

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

const FlagLogLevel = "log-level"

// New builds the celeval root command, with eval and check as its two
// subcommands.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "celeval [command]",
		Short: "Parse, check, and evaluate CEL expressions from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(FlagLogLevel, "info", "one of debug, info, warn, error")
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newCheckCmd())
	return cmd
}

// loggerFor builds a logr.Logger writing to cmd's stderr at the
// verbosity named by --log-level, using logr's own funcr backend rather
// than pulling in a separate logging dependency.
func loggerFor(cmd *cobra.Command) logr.Logger {
	level, _ := cmd.Flags().GetString(FlagLogLevel)
	verbosity := 0
	if level == "debug" {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			cmd.PrintErrln(prefix + ": " + args)
			return
		}
		cmd.PrintErrln(args)
	}, funcr.Options{Verbosity: verbosity})
}
