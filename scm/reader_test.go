package scm

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src string) []Any {
	t.Helper()
	rr := NewReader(strings.NewReader(src), NewSymbolTable())
	var result []Any
	for {
		x, err := rr.Read()
		if err == io.EOF {
			return result
		}
		require.NoError(t, err, "input: %q", src)
		result = append(result, x)
	}
}

func readOne(t *testing.T, src string) Any {
	t.Helper()
	xs := readAll(t, src)
	require.Len(t, xs, 1, "input: %q", src)
	return xs[0]
}

func TestReadRoundTrip(t *testing.T) {
	for _, src := range []string{
		"0", "42", "-17",
		"123456789012345678901234567890",
		"#t", "#f",
		`#\a`, `#\Z`, `#\(`, `#\7`,
		`#\newline`, `#\space`, `#\tab`, `#\nul`, `#\delete`, `#\esc`,
		`""`, `"hello"`, `"a\nb"`, `"tab\there"`, `"q\"x"`, `"back\\slash"`,
		`"\a\b\v\f\r"`,
		"abc", "set-car!", "string->symbol", "->x", "+", "-", "a.b@c", "<=?",
		"()", "(1 2 3)", "(a . b)", "(a (b c) . d)", "((()))",
		`(#\a "s" #t -1)`, "(quote x)",
	} {
		x := readOne(t, src)
		assert.Equal(t, src, Stringify(x, true), "input: %q", src)
	}
}

func TestReadCanonicalForms(t *testing.T) {
	for _, test := range []struct{ src, want string }{
		{"#T", "#t"},
		{"#F", "#f"},
		{`#\linefeed`, `#\newline`},
		{"'x", "(quote x)"},
		{"'(a 'b)", "(quote (a (quote b)))"},
		{"( 1   2\n3 )", "(1 2 3)"},
		{"(1 . (2 3))", "(1 2 3)"},
		{`"\q"`, `"q"`},
		{"-0", "0"},
		{"007", "7"},
	} {
		x := readOne(t, test.src)
		assert.Equal(t, test.want, Stringify(x, true), "input: %q", test.src)
	}
}

func TestReadValues(t *testing.T) {
	assert.Equal(t, true, readOne(t, "#t"))
	assert.Equal(t, Char('\n'), readOne(t, `#\newline`))
	assert.Equal(t, Char(0x7f), readOne(t, `#\delete`))
	assert.Equal(t, "a\tb", readOne(t, `"a\tb"`))
	assert.Equal(t, Nil, readOne(t, "()"))
	assert.True(t, eqv(NewInt(-5), readOne(t, "-5")))
}

func TestReadDelimiter(t *testing.T) {
	rr := NewReader(strings.NewReader("123abc"), NewSymbolTable())
	_, err := rr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "number not followed by delimiter")

	rr = NewReader(strings.NewReader("123)"), NewSymbolTable())
	x, err := rr.Read()
	require.NoError(t, err)
	assert.Equal(t, "123", Stringify(x, true))
	_, err = rr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unexpected ")"`)

	xs := readAll(t, `123"x"(4)`)
	require.Len(t, xs, 3)
	assert.Equal(t, "x", xs[1])
	assert.Equal(t, "(4)", Stringify(xs[2], true))
}

func TestReadErrors(t *testing.T) {
	for _, test := range []struct {
		src, msg   string
		unexpected bool
	}{
		{`#\foo`, "illegal character name", false},
		{"12x", "number not followed by delimiter", false},
		{"-1-", "number not followed by delimiter", false},
		{`"abc`, "unexpected end of input", true},
		{`"abc\`, "unexpected end of input", true},
		{"(1 2", "unexpected end of input", true},
		{"(1 . ", "unexpected end of input", true},
		{"(1 . 2", "unexpected end of input", true},
		{"'", "unexpected end of input", true},
		{"#", "unexpected end of input", true},
		{`#\`, "unexpected end of input", true},
		{"(1 . 2 3)", `")" expected after dotted tail`, false},
		{"(1 .2)", `"." not followed by delimiter`, false},
		{"(. 1)", `unexpected "."`, false},
		{"(1 . )", `unexpected ")"`, false},
		{")", `unexpected ")"`, false},
		{"{", `unexpected "{"`, false},
		{"#x", `unexpected "#x"`, false},
		{"+5", `unexpected "+5"`, false},
		{"-a", `unexpected "-a"`, false},
	} {
		rr := NewReader(strings.NewReader(test.src), NewSymbolTable())
		_, err := rr.Read()
		require.Error(t, err, "input: %q", test.src)
		var re *ReadError
		assert.True(t, errors.As(err, &re), "input: %q", test.src)
		assert.Contains(t, err.Error(), test.msg, "input: %q", test.src)
		assert.Equal(t, test.unexpected, errors.Is(err, io.ErrUnexpectedEOF),
			"input: %q", test.src)
	}
}

func TestReadEOF(t *testing.T) {
	for _, src := range []string{"", "   ", "; only a comment", "\n;a\n;b\n"} {
		rr := NewReader(strings.NewReader(src), NewSymbolTable())
		_, err := rr.Read()
		assert.Equal(t, io.EOF, err, "input: %q", src)
	}
}

func TestReadComments(t *testing.T) {
	xs := readAll(t, "; first\n1 ; second\n(2 ; inside\n 3)\n")
	require.Len(t, xs, 2)
	assert.Equal(t, "1", Stringify(xs[0], true))
	assert.Equal(t, "(2 3)", Stringify(xs[1], true))
}

func TestReadInterning(t *testing.T) {
	syms := NewSymbolTable()
	rr := NewReader(strings.NewReader("foo (foo bar) bar"), syms)
	a, err := rr.Read()
	require.NoError(t, err)
	b, err := rr.Read()
	require.NoError(t, err)
	c, err := rr.Read()
	require.NoError(t, err)
	j := b.(*Cell)
	assert.Same(t, a.(*Symbol), j.Car.(*Symbol))
	assert.Same(t, c.(*Symbol), j.Cdr.(*Cell).Car.(*Symbol))
	assert.NotSame(t, a.(*Symbol), c.(*Symbol))
	assert.Same(t, a.(*Symbol), syms.Intern("foo"))
}

func TestReadLeavesRestOfInput(t *testing.T) {
	src := strings.NewReader("(a b) rest")
	rr := NewReader(src, NewSymbolTable())
	_, err := rr.Read()
	require.NoError(t, err)
	rest, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, " rest", string(rest))
}
