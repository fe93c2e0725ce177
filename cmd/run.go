package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/josephlewis42/tarsh/commands"
	"github.com/josephlewis42/tarsh/core/archive"
	"github.com/josephlewis42/tarsh/core/vos"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd extracts the configured filesystem and starts a shell over it.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract the configured filesystem and start the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := newLogger(cmd, "tarsh")

		cfg, err := loadConfig(logger)
		if err != nil {
			return err
		}

		sandbox, err := archive.Provision(cfg, logger)
		if err != nil {
			return err
		}

		return runShell(cmd, sandbox, sandbox.Root(), cfg.User, logger)
	},
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runShell runs a shell over the command's standard streams. Line editing and
// colors are only enabled when stdin is a terminal.
func runShell(cmd *cobra.Command, fs vos.VFS, root, user string, logger *log.Logger) error {
	session, err := commands.NewSession(fs, root, user)
	if err != nil {
		return err
	}

	vio := vos.NewStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())

	var input commands.LineReader
	interactive := isTerminal(cmd.InOrStdin())
	if interactive {
		rl, err := commands.NewReadline(vio)
		if err != nil {
			return err
		}
		defer rl.Close()
		input = rl
	} else {
		input = commands.NewLineScanner(vio.Stdin(), vio.Stdout())
	}

	shell := commands.NewShell(session, vio, input, logger)
	shell.Color = interactive && !color.NoColor

	if status := shell.Run(); status != 0 {
		return fmt.Errorf("shell exited with status %d", status)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
