package commands

import (
	"errors"
	"fmt"
)

// Error kinds, match them with errors.Is.
var (
	ErrUsage          = errors.New("usage")
	ErrNotFound       = errors.New("not found")
	ErrNotADirectory  = errors.New("not a directory")
	ErrAlreadyExists  = errors.New("already exists")
	ErrIO             = errors.New("i/o failure")
	ErrUnknownCommand = errors.New("unknown command")
)

// Error is a failed command. Its message is what the user sees.
type Error struct {
	// Kind is one of the Err* kinds, or nil for unexpected failures.
	Kind    error
	Command string
	Arg     string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUsage:
		if b, ok := AllBuiltins[e.Command]; ok {
			return "Usage: " + b.Use
		}
		return "Usage: " + e.Command
	case ErrNotFound:
		if b, ok := AllBuiltins[e.Command]; ok && b.Kind == KindReverseCat {
			return fmt.Sprintf("Error: File '%s' not found.", e.Arg)
		}
		return fmt.Sprintf("Error: Directory '%s' does not exist.", e.Arg)
	case ErrNotADirectory:
		return fmt.Sprintf("Error: '%s' is not a directory.", e.Arg)
	case ErrAlreadyExists:
		return fmt.Sprintf("Error: Directory '%s' already exists.", e.Arg)
	case ErrIO:
		failure := "Could not run command."
		if b, ok := AllBuiltins[e.Command]; ok && b.Failure != "" {
			failure = b.Failure
		}
		return fmt.Sprintf("Error: %s %v", failure, e.Err)
	case ErrUnknownCommand:
		return fmt.Sprintf("Unknown command: %s", e.Command)
	default:
		return fmt.Sprintf("Error: %v", e.Err)
	}
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}
