package commands

import (
	"github.com/josephlewis42/tarsh/core/vos"
)

// Cd changes the working directory.
func Cd(s *Shell, args []string) error {
	if len(args) != 2 {
		return usageError(args[0])
	}
	arg := args[1]

	res, err := s.Resolve(arg)
	switch {
	case err != nil:
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: err}
	case res.Kind == vos.NotFound:
		return &Error{Kind: ErrNotFound, Command: args[0], Arg: arg}
	case res.Kind != vos.Directory:
		return &Error{Kind: ErrNotADirectory, Command: args[0], Arg: arg}
	}

	s.chdir(res.Path)
	return nil
}

func init() {
	addBuiltin(&Builtin{
		Name:    "cd",
		Kind:    KindChangeDirectory,
		Use:     "cd <directory>",
		Short:   "Change the working directory.",
		Failure: "Could not change directory.",
		Main:    Cd,
	})
}
