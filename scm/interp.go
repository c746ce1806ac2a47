package scm

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultMaxDepth bounds the nesting of non-tail evaluations.
const DefaultMaxDepth = 100000

// Config configures an Interp.  The zero value is usable.
type Config struct {
	// Stdin is the current input port; os.Stdin if nil.
	Stdin io.Reader
	// Stdout is the current output port; os.Stdout if nil.
	Stdout io.Writer
	// MaxDepth bounds non-tail recursion; DefaultMaxDepth if 0,
	// unbounded if negative.
	MaxDepth int
	// Logger receives debug logs; slog.Default() if nil.
	Logger *slog.Logger
}

// Interp is an interpreter session.  It owns the symbol table and the
// global environment; values from one Interp must not be used in another.
type Interp struct {
	syms   *SymbolTable
	kw     keywords
	global *Environment
	stdin  *Port
	stdout *Port
	log    *slog.Logger

	maxDepth     int
	depth        int
	maxDepthSeen int
}

// New makes an interpreter whose global environment holds the builtins.
func New(cfg Config) *Interp {
	if cfg.Stdin == nil {
		// Hide os.Stdin's Close from close-input-port.
		cfg.Stdin = struct{ io.Reader }{os.Stdin}
	}
	if cfg.Stdout == nil {
		cfg.Stdout = struct{ io.Writer }{os.Stdout}
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	syms := NewSymbolTable()
	in := &Interp{
		syms:     syms,
		kw:       newKeywords(syms),
		stdin:    NewInputPort("stdin", cfg.Stdin),
		stdout:   NewOutputPort("stdout", cfg.Stdout),
		log:      cfg.Logger,
		maxDepth: cfg.MaxDepth,
	}
	in.global = NewEnvironment(nil)
	in.InstallBuiltins(in.global)
	return in
}

// Intern interns a name in the session's symbol table.
func (in *Interp) Intern(name string) *Symbol {
	return in.syms.Intern(name)
}

// Global returns the interaction environment.
func (in *Interp) Global() *Environment {
	return in.global
}

// Stdin returns the current input port.
func (in *Interp) Stdin() *Port {
	return in.stdin
}

// Stdout returns the current output port.
func (in *Interp) Stdout() *Port {
	return in.stdout
}

// MaxDepthSeen returns the deepest nesting of Eval reached so far.
func (in *Interp) MaxDepthSeen() int {
	return in.maxDepthSeen
}

// ResetDepth forgets the deepest nesting reached so far.
func (in *Interp) ResetDepth() {
	in.maxDepthSeen = 0
}

// NewReader makes a Reader on src sharing the session's symbols.
func (in *Interp) NewReader(src io.RuneScanner) *Reader {
	return NewReader(src, in.syms)
}

// ReadEvalLoop reads and evaluates every expression of r in the global
// environment and returns the last result.  It stops at the first error.
func (in *Interp) ReadEvalLoop(r io.Reader) (Any, error) {
	rs, ok := r.(io.RuneScanner)
	if !ok {
		rs = NewInputPort("", r).in
	}
	rr := in.NewReader(rs)
	var result Any = in.kw.ok
	for {
		x, err := rr.Read()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		if result, err = in.Eval(x, in.global); err != nil {
			return nil, err
		}
	}
}

// EvalString evaluates every expression of src.
func (in *Interp) EvalString(src string) (Any, error) {
	return in.ReadEvalLoop(strings.NewReader(src))
}

// Load evaluates the expressions of a file in the global environment.
func (in *Interp) Load(fileName string) error {
	in.log.Debug("load", slog.String("file", fileName))
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err = in.ReadEvalLoop(file); err != nil {
		in.log.Debug("load failed", slog.String("file", fileName),
			slog.Any("error", err))
		return fmt.Errorf("%s: %w", fileName, err)
	}
	return nil
}
