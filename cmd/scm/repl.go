package main

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/nukata/tiny-scheme-in-go/scm"
)

// lineReader is the part of *readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var errInterrupted = errors.New("interrupted")

// lineSource is an io.RuneScanner which fetches lines from a lineReader
// only when it runs out of characters, so that an expression may span
// several lines.  The first line of an expression is prompted with
// prompt1, the following ones with prompt2.
type lineSource struct {
	lr      lineReader
	prompt1 string
	prompt2 string
	buf     []rune
	pos     int
	fresh   bool
	eof     bool
	canUndo bool
}

func newLineSource(lr lineReader, prompt1, prompt2 string) *lineSource {
	return &lineSource{lr: lr, prompt1: prompt1, prompt2: prompt2, fresh: true}
}

// ReadRune implements io.RuneReader.
func (s *lineSource) ReadRune() (rune, int, error) {
	for s.pos >= len(s.buf) {
		s.canUndo = false
		if s.eof {
			return 0, 0, io.EOF
		}
		if s.fresh {
			s.lr.SetPrompt(s.prompt1)
		} else {
			s.lr.SetPrompt(s.prompt2)
		}
		line, err := s.lr.Readline()
		switch {
		case err == readline.ErrInterrupt:
			s.Discard()
			return 0, 0, errInterrupted
		case err == io.EOF:
			s.eof = true
			return 0, 0, io.EOF
		case err != nil:
			return 0, 0, err
		}
		s.buf, s.pos, s.fresh = []rune(line+"\n"), 0, false
	}
	c := s.buf[s.pos]
	s.pos++
	s.canUndo = true
	return c, len(string(c)), nil
}

// Read implements io.Reader, a rune at a time.
func (s *lineSource) Read(p []byte) (int, error) {
	if len(p) < utf8.UTFMax {
		return 0, io.ErrShortBuffer
	}
	c, _, err := s.ReadRune()
	if err != nil {
		return 0, err
	}
	return utf8.EncodeRune(p, c), nil
}

// UnreadRune implements io.RuneScanner.
func (s *lineSource) UnreadRune() error {
	if !s.canUndo {
		return errors.New("lineSource: nothing to unread")
	}
	s.pos--
	s.canUndo = false
	return nil
}

// StartDatum makes the next line fetched be prompted with prompt1.
func (s *lineSource) StartDatum() {
	s.fresh = true
}

// Discard drops the rest of the current line.
func (s *lineSource) Discard() {
	s.buf, s.pos, s.canUndo = nil, 0, false
	s.fresh = true
}

// runREPL repeats read-eval-print until the end of input.
// An error ends only the step it happened in.
func runREPL(in *scm.Interp, src *lineSource, out, errOut io.Writer) {
	rr := in.NewReader(src)
	for {
		src.StartDatum()
		x, err := rr.Read()
		if err == io.EOF {
			fmt.Fprintln(out, "Goodby")
			return
		}
		if err == nil {
			x, err = in.Eval(x, in.Global())
		}
		if err != nil {
			fmt.Fprintln(errOut, err)
			src.Discard()
			continue
		}
		fmt.Fprintln(out, scm.Stringify(x, true))
	}
}
