package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/tarsh/commands"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the shell understands.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, b := range commands.ListBuiltins() {
			fmt.Fprintf(w, "%s\t%s\n", b.Use, b.Short)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
