package commands

import (
	"fmt"
	"io/fs"

	"github.com/josephlewis42/tarsh/core/vos"
)

// Mkdir creates a directory and any missing parents.
func Mkdir(s *Shell, args []string) error {
	if len(args) != 2 {
		return usageError(args[0])
	}
	arg := args[1]

	res, err := s.Resolve(arg)
	switch {
	case err != nil:
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: err}
	case res.Kind != vos.NotFound:
		return &Error{Kind: ErrAlreadyExists, Command: args[0], Arg: arg}
	}

	target, err := s.ResolveMissing(arg)
	if err != nil {
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: err}
	}

	// A missing component followed by ".." can lead back to an existing
	// directory, e.g. "missing/../home".
	if _, err := vos.Lstat(s.FS(), target); err == nil {
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: &fs.PathError{Op: "mkdir", Path: arg, Err: fs.ErrExist}}
	}

	if err := s.FS().MkdirAll(target, 0777); err != nil {
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: err}
	}

	fmt.Fprintf(s.VIO.Stdout(), "Directory '%s' created.\n", arg)
	return nil
}

func init() {
	addBuiltin(&Builtin{
		Name:    "mkdir",
		Kind:    KindMakeDirectory,
		Use:     "mkdir <directory>",
		Short:   "Create a directory, including missing parents.",
		Failure: "Could not create directory.",
		Main:    Mkdir,
	})
}
