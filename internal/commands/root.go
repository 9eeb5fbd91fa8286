package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cleared-dev/hauptbuch/internal/buildinfo"
)

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	dir     string
	verbose bool
	actor   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "hauptbuch",
		Short:   "Double-entry bookkeeping for German small businesses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "data directory")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.actor, "actor", defaultActor(), "name recorded in the audit log")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newBookCommand(opts),
		newStornoCommand(opts),
		newBalanceCommand(opts),
		newSusaCommand(opts),
		newContactCommand(opts),
		newGuvCommand(opts),
		newBilanzCommand(opts),
		newUstvaCommand(opts),
		newAfaCommand(opts),
		newInvoicesCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}

// newLogger builds the console logger on stderr. verbose forces debug
// level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}
