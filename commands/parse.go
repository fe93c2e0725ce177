package commands

import "strings"

// Kind identifies a builtin independent of the name it was typed as.
type Kind int

const (
	KindUnknown Kind = iota
	KindList
	KindChangeDirectory
	KindMakeDirectory
	KindReverseCat
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindChangeDirectory:
		return "change-directory"
	case KindMakeDirectory:
		return "make-directory"
	case KindReverseCat:
		return "reverse-cat"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Invocation is a parsed command line.
type Invocation struct {
	Kind Kind
	Name string
	Args []string
}

// Parse splits line on whitespace. It returns false for blank lines.
//
// There is no quoting, escaping or expansion.
func Parse(line string) (Invocation, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Invocation{}, false
	}

	inv := Invocation{
		Kind: KindUnknown,
		Name: fields[0],
		Args: fields[1:],
	}
	if b, ok := AllBuiltins[inv.Name]; ok {
		inv.Kind = b.Kind
	}

	return inv, true
}
