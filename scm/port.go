package scm

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// Port represents an input or an output port.
type Port struct {
	Name   string
	in     io.RuneScanner
	out    io.Writer
	closer io.Closer
	closed bool
}

// ErrPortClosed is returned for an operation on a closed port.
var ErrPortClosed = errors.New("port is closed")

// NewInputPort makes an input port reading from r.
// r is used as is if it is an io.RuneScanner, otherwise it is buffered.
// If r is an io.Closer, closing the port closes r.
func NewInputPort(name string, r io.Reader) *Port {
	p := &Port{Name: name}
	if rs, ok := r.(io.RuneScanner); ok {
		p.in = rs
	} else {
		p.in = bufio.NewReader(r)
	}
	p.closer, _ = r.(io.Closer)
	return p
}

// NewOutputPort makes an output port writing to w.
// If w is an io.Closer, closing the port closes w.
func NewOutputPort(name string, w io.Writer) *Port {
	p := &Port{Name: name, out: w}
	p.closer, _ = w.(io.Closer)
	return p
}

// OpenInputFile opens a file as an input port.
func OpenInputFile(path string) (*Port, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewInputPort(path, f), nil
}

// OpenOutputFile creates a file as an output port.
func OpenOutputFile(path string) (*Port, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewOutputPort(path, f), nil
}

// IsInput reports whether p is an input port.
func (p *Port) IsInput() bool {
	return p.in != nil
}

// IsOutput reports whether p is an output port.
func (p *Port) IsOutput() bool {
	return p.out != nil
}

// RuneScanner returns the character source of an input port.
// Every reader of the port shares its single character of lookahead.
func (p *Port) RuneScanner() (io.RuneScanner, error) {
	if p.closed {
		return nil, ErrPortClosed
	}
	return p.in, nil
}

// ReadChar reads one character, or returns EOF.
func (p *Port) ReadChar() (Any, error) {
	if p.closed {
		return nil, ErrPortClosed
	}
	c, _, err := p.in.ReadRune()
	if err == io.EOF {
		return EOF, nil
	}
	if err != nil {
		return nil, err
	}
	return Char(c), nil
}

// PeekChar returns the next character without consuming it, or EOF.
func (p *Port) PeekChar() (Any, error) {
	x, err := p.ReadChar()
	if err == nil && x != EOF {
		p.in.UnreadRune()
	}
	return x, err
}

// WriteString writes s to an output port.
func (p *Port) WriteString(s string) error {
	if p.closed {
		return ErrPortClosed
	}
	_, err := io.WriteString(p.out, s)
	return err
}

// Close closes the port.  Closing a closed port does nothing.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
