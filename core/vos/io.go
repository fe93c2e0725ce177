package vos

import (
	"io"
	"strings"
)

// VIO holds the standard streams of a session.
type VIO interface {
	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer
}

// Streams is a VIO over plain readers and writers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var _ VIO = (*Streams)(nil)

// NewStreams creates a VIO. A nil reader is empty and nil writers discard.
func NewStreams(stdin io.Reader, stdout, stderr io.Writer) *Streams {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	return &Streams{In: stdin, Out: stdout, Err: stderr}
}

// NewNullIO returns streams that read nothing and discard all output.
func NewNullIO() VIO {
	return NewStreams(nil, nil, nil)
}

func (s *Streams) Stdin() io.Reader  { return s.In }
func (s *Streams) Stdout() io.Writer { return s.Out }
func (s *Streams) Stderr() io.Writer { return s.Err }
