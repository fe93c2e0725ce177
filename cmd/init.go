package cmd

import (
	"github.com/josephlewis42/tarsh/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes a starter configuration and sample filesystem.
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write a default config.toml and sample root_fs.tar.gz into DIR (default: current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		_, err := config.Initialize(afero.NewOsFs(), dir, newLogger(cmd, "init"))
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
