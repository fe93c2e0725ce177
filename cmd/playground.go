package cmd

import (
	"os"
	"path/filepath"

	"github.com/josephlewis42/tarsh/core/archive"
	"github.com/josephlewis42/tarsh/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell over the bundled sample filesystem.
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the shell over the sample filesystem in a temporary directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := newLogger(cmd, "playground")

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		cfg, err := config.Initialize(afero.NewOsFs(), dir, logger)
		if err != nil {
			return err
		}
		cfg.Root = filepath.Join(dir, "filesystem")

		sandbox, err := archive.Provision(cfg, logger)
		if err != nil {
			return err
		}

		return runShell(cmd, sandbox, sandbox.Root(), cfg.User, logger)
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
