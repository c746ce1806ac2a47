package scm

import (
	"io"
	"math/big"
	"strings"
	"unicode"

	"github.com/nukata/goarith"
)

// Reader reads Scheme expressions one character at a time.
// The source's UnreadRune is the one character of lookahead.
type Reader struct {
	src   io.RuneScanner
	syms  *SymbolTable
	quote *Symbol
}

// NewReader constructs a Reader which interns symbols into syms.
func NewReader(src io.RuneScanner, syms *SymbolTable) *Reader {
	return &Reader{src: src, syms: syms, quote: syms.Intern("quote")}
}

const eof rune = -1

func (rr *Reader) getc() (rune, error) {
	c, _, err := rr.src.ReadRune()
	if err == io.EOF {
		return eof, nil
	}
	if err != nil {
		return eof, err
	}
	return c, nil
}

// getcOrDie reads a character which must exist.
func (rr *Reader) getcOrDie() (rune, error) {
	c, err := rr.getc()
	if err == nil && c == eof {
		err = &ReadError{"unexpected end of input", io.ErrUnexpectedEOF}
	}
	return c, err
}

func (rr *Reader) ungetc(c rune) {
	if c != eof {
		rr.src.UnreadRune()
	}
}

func isDelimiter(c rune) bool {
	return c == eof || c == '(' || c == ')' || c == '"' || unicode.IsSpace(c)
}

func isInitial(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune("!$%&*:<=>?^_~", c)
}

func isSubsequent(c rune) bool {
	return isInitial(c) || isDigit(c) || strings.ContainsRune("+-.@", c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isLower(c rune) bool {
	return 'a' <= c && c <= 'z'
}

// Read reads one expression.
// It returns io.EOF if the input ends before an expression begins.
func (rr *Reader) Read() (Any, error) {
	c, err := rr.skipSpace()
	if err != nil {
		return nil, err
	}
	if c == eof {
		return nil, io.EOF
	}
	if c == ')' {
		return nil, &ReadError{`unexpected ")"`, nil}
	}
	return rr.readDatum(c)
}

// skipSpace skips white spaces and comments and returns the next character.
func (rr *Reader) skipSpace() (rune, error) {
	for {
		c, err := rr.getc()
		if err != nil || c == eof {
			return c, err
		}
		if c == ';' {
			for c != '\n' && c != eof {
				if c, err = rr.getc(); err != nil {
					return c, err
				}
			}
			continue
		}
		if !unicode.IsSpace(c) {
			return c, nil
		}
	}
}

// readDatum reads an expression whose first character c is already read.
func (rr *Reader) readDatum(c rune) (Any, error) {
	switch {
	case isDigit(c):
		return rr.readNumber(c, false)
	case c == '-' || c == '+':
		c2, err := rr.getc()
		if err != nil {
			return nil, err
		}
		if c == '-' && isDigit(c2) {
			return rr.readNumber(c2, true)
		}
		if isDelimiter(c2) || c2 == '>' {
			rr.ungetc(c2)
			return rr.readSymbol(c)
		}
		return nil, &ReadError{"unexpected " + quoteRunes(c, c2), nil}
	case c == '#':
		c, err := rr.getcOrDie()
		if err != nil {
			return nil, err
		}
		switch c {
		case 't', 'T':
			return true, nil
		case 'f', 'F':
			return false, nil
		case '\\':
			return rr.readCharacter()
		}
		return nil, &ReadError{"unexpected " + quoteRunes('#', c), nil}
	case c == '"':
		return rr.readString()
	case c == '(':
		return rr.readList()
	case c == '\'':
		x, err := rr.readNext()
		if err != nil {
			return nil, err
		}
		return List(rr.quote, x), nil
	case isInitial(c):
		return rr.readSymbol(c)
	}
	return nil, &ReadError{"unexpected " + quoteRunes(c), nil}
}

// readNext reads an expression which must exist.
func (rr *Reader) readNext() (Any, error) {
	c, err := rr.skipSpace()
	if err != nil {
		return nil, err
	}
	switch c {
	case eof:
		return nil, &ReadError{"unexpected end of input", io.ErrUnexpectedEOF}
	case ')':
		return nil, &ReadError{`unexpected ")"`, nil}
	}
	return rr.readDatum(c)
}

func (rr *Reader) readNumber(c rune, negative bool) (Any, error) {
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	var err error
	for isDigit(c) {
		sb.WriteRune(c)
		if c, err = rr.getc(); err != nil {
			return nil, err
		}
	}
	if !isDelimiter(c) {
		return nil, &ReadError{"number not followed by delimiter", nil}
	}
	rr.ungetc(c)
	z, _ := new(big.Int).SetString(sb.String(), 10)
	return goarith.AsNumber(z), nil
}

func (rr *Reader) readCharacter() (Any, error) {
	c, err := rr.getcOrDie()
	if err != nil {
		return nil, err
	}
	if !isLower(c) {
		return Char(c), nil
	}
	var sb strings.Builder
	for isLower(c) {
		sb.WriteRune(c)
		if c, err = rr.getc(); err != nil {
			return nil, err
		}
	}
	rr.ungetc(c)
	s := sb.String()
	if len(s) == 1 {
		return Char(s[0]), nil
	}
	if ch, ok := charNames[s]; ok {
		return Char(ch), nil
	}
	return nil, &ReadError{`illegal character name "#\` + s + `"`, nil}
}

func (rr *Reader) readString() (Any, error) {
	var sb strings.Builder
	for {
		c, err := rr.getcOrDie()
		if err != nil {
			return nil, err
		}
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if c, err = rr.getcOrDie(); err != nil {
				return nil, err
			}
			if e, ok := stringEscapes[c]; ok {
				c = e
			}
		}
		sb.WriteRune(c)
	}
}

func (rr *Reader) readSymbol(c rune) (Any, error) {
	var sb strings.Builder
	var err error
	for {
		sb.WriteRune(c)
		if c, err = rr.getc(); err != nil {
			return nil, err
		}
		if !isSubsequent(c) {
			break
		}
	}
	rr.ungetc(c)
	return rr.syms.Intern(sb.String()), nil
}

// readList reads the rest of a list after its "(".
// Elements are read recursively; the spine is built iteratively.
func (rr *Reader) readList() (Any, error) {
	var result Any = Nil
	tail := &result
	for i := 0; ; i++ {
		c, err := rr.skipSpace()
		if err != nil {
			return nil, err
		}
		switch c {
		case eof:
			return nil, &ReadError{"unexpected end of input", io.ErrUnexpectedEOF}
		case ')':
			*tail = Nil
			return result, nil
		case '.':
			if i == 0 {
				return nil, &ReadError{`unexpected "."`, nil}
			}
			c2, err := rr.getc()
			if err != nil {
				return nil, err
			}
			if !isDelimiter(c2) {
				return nil, &ReadError{`"." not followed by delimiter`, nil}
			}
			rr.ungetc(c2)
			x, err := rr.readNext()
			if err != nil {
				return nil, err
			}
			c, err = rr.skipSpace()
			if err != nil {
				return nil, err
			}
			if c == eof {
				return nil, &ReadError{"unexpected end of input", io.ErrUnexpectedEOF}
			}
			if c != ')' {
				return nil, &ReadError{`")" expected after dotted tail`, nil}
			}
			*tail = x
			return result, nil
		}
		x, err := rr.readDatum(c)
		if err != nil {
			return nil, err
		}
		cell := &Cell{x, Nil}
		*tail = cell
		tail = &cell.Cdr
	}
}

func quoteRunes(cs ...rune) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range cs {
		if c == eof {
			sb.WriteString("<EOF>")
		} else {
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
