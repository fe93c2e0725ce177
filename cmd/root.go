package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/josephlewis42/tarsh/core/config"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

var (
	cfgPath string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tarsh",
	Short: "A shell over a filesystem extracted from a tar archive.",
	Long: `tarsh extracts a tar (or tar.gz) filesystem image into a staging
directory and starts a small shell confined to it.

The shell understands ls, cd <directory>, mkdir <directory>, tac <file>
and exit.`,
}

// newLogger creates the application logger, logs go to stderr so they don't
// mix with shell output.
func newLogger(cmd *cobra.Command, prefix string) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
	})
}

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		logger.Error("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
	); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config file, or the directory holding config.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
