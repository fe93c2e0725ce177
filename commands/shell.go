package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/josephlewis42/tarsh/core/vos"
)

// Hostname is shown in the prompt.
const Hostname = "emulator"

// LineReader reads command lines, showing a prompt before each one.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

var _ LineReader = (*readline.Instance)(nil)

type lineScanner struct {
	r      *bufio.Reader
	w      io.Writer
	prompt string
}

// NewLineScanner reads lines from r without line editing, prompts are written
// to w.
func NewLineScanner(r io.Reader, w io.Writer) LineReader {
	return &lineScanner{r: bufio.NewReader(r), w: w}
}

func (l *lineScanner) SetPrompt(prompt string) {
	l.prompt = prompt
}

func (l *lineScanner) Readline() (string, error) {
	fmt.Fprint(l.w, l.prompt)

	line, err := l.r.ReadString('\n')
	switch {
	case err == io.EOF && line != "":
		// Final line without a newline.
	case err != nil:
		return "", err
	}

	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// NewReadline creates an interactive line editor over vio.
func NewReadline(vio vos.VIO) (*readline.Instance, error) {
	cfg := &readline.Config{
		Stdin:           readline.NewCancelableStdin(vio.Stdin()),
		Stdout:          vio.Stdout(),
		Stderr:          vio.Stderr(),
		InterruptPrompt: "^C",
		FuncIsTerminal: func() bool {
			return true
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// Shell reads command lines and dispatches them to builtins.
type Shell struct {
	*Session

	VIO   vos.VIO
	Input LineReader
	Log   *log.Logger

	// Color enables colored prompts and listings.
	Color bool

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell over session. Each shell gets its own session ID
// in logs.
func NewShell(session *Session, vio vos.VIO, input LineReader, logger *log.Logger) *Shell {
	return &Shell{
		Session: session,
		VIO:     vio,
		Input:   input,
		Log:     logger.With("session", uuid.NewString()),
	}
}

// Prompt returns the prompt shown before each line.
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s:%s> ",
		s.colorize(ColorBoldGreen, s.User()+"@"+Hostname),
		s.colorize(ColorBoldBlue, s.Getwd()))
}

// Run reads and executes lines until exit or the end of input. It returns the
// exit status.
func (s *Shell) Run() int {
	s.Log.Info("Session started", "user", s.User(), "root", s.Root())
	defer s.Log.Info("Session ended")

	for !s.Quit {
		s.Input.SetPrompt(s.Prompt())
		line, err := s.Input.Readline()

		switch {
		case err == io.EOF:
			return 0 // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.Log.Error("Couldn't read line", "err", err)
			return 1

		default:
			s.Execute(line)
		}
	}

	return 0
}

// Execute runs a single command line, errors are reported to stderr.
func (s *Shell) Execute(line string) {
	inv, ok := Parse(line)
	if !ok {
		return // empty line
	}

	err := s.dispatch(inv)

	var cmdErr *Error
	switch {
	case err == nil:
		s.Log.Debug("Ran command", "command", inv.Name, "kind", inv.Kind, "args", inv.Args)
	case errors.As(err, &cmdErr) && cmdErr.Kind != nil:
		s.Log.Debug("Command failed", "command", inv.Name, "args", inv.Args, "kind", cmdErr.Kind, "err", cmdErr.Err)
	default:
		s.Log.Error("Command failed", "command", inv.Name, "args", inv.Args, "err", err)
	}

	if err != nil {
		fmt.Fprintln(s.VIO.Stderr(), err)
	}
}

func (s *Shell) dispatch(inv Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Command: inv.Name, Err: fmt.Errorf("%v", r)}
		}
	}()

	builtin, ok := AllBuiltins[inv.Name]
	if !ok {
		return &Error{Kind: ErrUnknownCommand, Command: inv.Name}
	}

	return builtin.Main(s, append([]string{inv.Name}, inv.Args...))
}
