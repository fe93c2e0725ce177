package cmd

import (
	"github.com/josephlewis42/tarsh/core/archive"
	"github.com/spf13/cobra"
)

var extractRoot string

// extractCmd provisions the staging directory without starting a shell.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the configured filesystem into the staging directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := newLogger(cmd, "extract")

		cfg, err := loadConfig(logger)
		if err != nil {
			return err
		}
		if extractRoot != "" {
			cfg.Root = extractRoot
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		_, err = archive.Provision(cfg, logger)
		return err
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractRoot, "root", "", "override the staging directory from the config")
	rootCmd.AddCommand(extractCmd)
}
