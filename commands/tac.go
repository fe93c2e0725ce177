package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/josephlewis42/tarsh/core/vos"
	"github.com/spf13/afero"
)

var errInvalidUTF8 = errors.New("file is not valid UTF-8")

// ReverseLines reverses the order of the lines in text. Each line keeps its
// terminator; non-empty output always ends in a newline.
func ReverseLines(text string) string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	out := strings.Join(lines, "")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// Tac prints a file with its lines in reverse order.
func Tac(s *Shell, args []string) error {
	if len(args) != 2 {
		return usageError(args[0])
	}
	arg := args[1]

	// Anything but a readable regular file is reported as missing.
	res, err := s.Resolve(arg)
	if err != nil || res.Kind != vos.File {
		return &Error{Kind: ErrNotFound, Command: args[0], Arg: arg, Err: err}
	}

	contents, err := afero.ReadFile(s.FS(), res.Path)
	if err != nil {
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: err}
	}
	if !utf8.Valid(contents) {
		return &Error{Kind: ErrIO, Command: args[0], Arg: arg, Err: errInvalidUTF8}
	}

	fmt.Fprint(s.VIO.Stdout(), ReverseLines(string(contents)))
	return nil
}

func init() {
	addBuiltin(&Builtin{
		Name:    "tac",
		Kind:    KindReverseCat,
		Use:     "tac <file>",
		Short:   "Print a file with its lines in reverse order.",
		Failure: "Could not read file.",
		Main:    Tac,
	})
}
