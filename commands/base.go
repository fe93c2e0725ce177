package commands

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
)

// Builtin is a command the shell can run.
type Builtin struct {
	// Name is the token that invokes the command.
	Name string
	Kind Kind
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// Failure is the message shown when the command hits an I/O error.
	Failure string

	// Main runs the command, args[0] is the command name.
	Main func(s *Shell, args []string) error
}

// AllBuiltins holds all registered builtins by name.
var AllBuiltins = make(map[string]*Builtin)

func addBuiltin(b *Builtin) {
	if _, ok := AllBuiltins[b.Name]; ok {
		panic(fmt.Sprintf("duplicate builtin %q", b.Name))
	}
	AllBuiltins[b.Name] = b
}

// ListBuiltins returns the builtins sorted by name.
func ListBuiltins() []*Builtin {
	var out []*Builtin
	for _, b := range AllBuiltins {
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

func usageError(name string) error {
	return &Error{Kind: ErrUsage, Command: name}
}

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
)

// colorize applies c to s if the shell has color enabled.
func (s *Shell) colorize(c *color.Color, text string) string {
	if s.Color {
		return c.Sprint(text)
	}
	return text
}
