package commands

import (
	"fmt"

	"github.com/spf13/afero"
)

// Ls lists the working directory, one name per line in lexical order.
//
// Arguments are ignored.
func Ls(s *Shell, args []string) error {
	entries, err := afero.ReadDir(s.FS(), s.Cwd())
	if err != nil {
		return &Error{Kind: ErrIO, Command: args[0], Err: err}
	}

	w := s.VIO.Stdout()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name = s.colorize(ColorBoldBlue, name)
		}
		fmt.Fprintln(w, name)
	}

	return nil
}

func init() {
	addBuiltin(&Builtin{
		Name:    "ls",
		Kind:    KindList,
		Use:     "ls",
		Short:   "List the contents of the current directory.",
		Failure: "Could not list directory.",
		Main:    Ls,
	})
}
