package commands

import (
	"io"
	"os"
)

type Globals struct {
	Debug   bool
	Version string

	// Stdin, Stdout and Stderr default to the process streams when nil.
	// Prompts go to Stderr so Stdout only carries command output.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin == nil {
		return os.Stdin
	}
	return g.Stdin
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}
