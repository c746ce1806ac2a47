package scm

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	for _, test := range []struct {
		src  string
		want string
	}{
		{"(null? '())", "#t"},
		{"(null? '(1))", "#f"},
		{"(null? #f)", "#f"},
		{"(boolean? #f)", "#t"},
		{"(boolean? '())", "#f"},
		{"(symbol? 'a)", "#t"},
		{`(symbol? "a")`, "#f"},
		{"(integer? -3)", "#t"},
		{`(integer? "3")`, "#f"},
		{`(char? #\a)`, "#t"},
		{`(string? "a")`, "#t"},
		{"(pair? '(1))", "#t"},
		{"(pair? '())", "#f"},
		{"(procedure? car)", "#t"},
		{"(procedure? (lambda () 1))", "#t"},
		{"(procedure? apply)", "#t"},
		{"(procedure? 'car)", "#f"},
		{"(not #f)", "#t"},
		{"(not '())", "#f"},
		{`(char->integer #\A)`, "65"},
		{"(integer->char 97)", `#\a`},
		{"(integer->char 10)", `#\newline`},
		{"(number->string -12)", `"-12"`},
		{`(string->number "42")`, "42"},
		{`(string->number "-42")`, "-42"},
		{`(string->number "4x2")`, "#f"},
		{`(string->number "-")`, "#f"},
		{`(string->number "")`, "#f"},
		{"(symbol->string 'abc)", `"abc"`},
		{`(string->symbol "abc")`, "abc"},
		{`(eq? (string->symbol "abc") 'abc)`, "#t"},
		{"(+)", "0"},
		{"(+ 1 2 3)", "6"},
		{"(*)", "1"},
		{"(* 2 3 4)", "24"},
		{"(- 5)", "-5"},
		{"(- 10 1 2)", "7"},
		{"(quotient 7 2)", "3"},
		{"(quotient -7 2)", "-3"},
		{"(remainder 7 2)", "1"},
		{"(remainder -7 2)", "-1"},
		{"(quotient 100000000000000000000 3)", "33333333333333333333"},
		{"(= 1 1)", "#t"},
		{"(= 1 1 2)", "#f"},
		{"(< 1 2 3)", "#t"},
		{"(< 1 3 2)", "#f"},
		{"(> 3 2 1)", "#t"},
		{"(<= 1 1 2)", "#t"},
		{"(>= 2 3)", "#f"},
		{"(cons 1 2)", "(1 . 2)"},
		{"(car '(1 2))", "1"},
		{"(cdr '(1 2))", "(2)"},
		{"(list)", "()"},
		{"(list 1 'a \"s\")", `(1 a "s")`},
		{"(length '(1 2 3))", "3"},
		{"(define p (list 1 2)) (set-cdr! p '(5)) p", "(1 5)"},
		{"(define p (list 1 2)) (set-car! p 0)", "ok"},
		{"(eq? 'a 'a)", "#t"},
		{"(eq? '(1) '(1))", "#f"},
		{"(define l '(1)) (eq? l l)", "#t"},
		{"(eq? '() '())", "#t"},
		{"(eqv? 100000000000000000000 100000000000000000000)", "#t"},
		{"(equal? '(1 (2 #\\a \"s\")) '(1 (2 #\\a \"s\")))", "#t"},
		{"(equal? '(1 2) '(1 3))", "#f"},
		{"(define a (list 1 2)) (set-cdr! (cdr a) a) (define b (list 1 2)) (set-cdr! (cdr b) b) (equal? a b)", "#t"},
		{"(define c (list 1 2)) (set-cdr! (cdr c) c) c", "(1 2 . #<cyclic>)"},
		{"(eof-object? (read))", "#t"},
		{"(input-port? (interaction-environment))", "#f"},
		{"(interaction-environment)", "#<environment {" + strconv.Itoa(len(New(Config{}).builtins())+2) + " bindings}>"},
		{"(null-environment)", "#<environment {0 bindings}>"},
	} {
		in, _ := newTestInterp(t)
		v, err := in.EvalString(test.src)
		require.NoError(t, err, "input: %s", test.src)
		assert.Equal(t, test.want, Stringify(v, true), "input: %s", test.src)
	}
}

func TestBuiltins_Errors(t *testing.T) {
	for _, src := range []string{
		"(car 1)", "(cdr '())", "(set-car! '() 1)",
		"(+ 1 #t)", "(- 'a)", "(< 1 'b)",
		"(quotient 1 0)", "(remainder 1 0)",
		"(char->integer 65)", "(integer->char -1)", "(integer->char 99999999999)",
		"(number->string 'a)", "(string->number 1)",
		"(symbol->string \"a\")", "(string->symbol 'a)",
		"(length '(1 . 2))",
		"(write-char 1)", "(read 'port)", "(write 1 2)",
		"(close-output-port 1)",
		`(open-input-file "/nonexistent/file")`,
		`(load "/nonexistent/file")`,
	} {
		in, _ := newTestInterp(t)
		_, err := in.EvalString(src)
		assert.Error(t, err, "input: %s", src)
	}
}

func TestBuiltins_Output(t *testing.T) {
	in, out := newTestInterp(t)
	_, err := in.EvalString(`
(write "a\nb")
(write-char #\space)
(write #\a)
(newline)
(display "a\nb")
(display #\c)
(display '(1 "x"))`)
	require.NoError(t, err)
	assert.Equal(t, "\"a\\nb\" #\\a\na\nbc(1 x)", out.String())
}

func TestBuiltins_Input(t *testing.T) {
	var out bytes.Buffer
	in := New(Config{Stdin: strings.NewReader("(1 2) foo\nxy"), Stdout: &out})
	v, err := in.EvalString("(read)")
	require.NoError(t, err)
	assert.Equal(t, "(1 2)", Stringify(v, true))
	v, err = in.EvalString("(read)")
	require.NoError(t, err)
	assert.Same(t, in.Intern("foo"), v)
	v, err = in.EvalString("(list (read-char) (peek-char) (read-char) (read-char) (read-char))")
	require.NoError(t, err)
	assert.Equal(t, `(#\newline #\x #\x #\y #<eof-object>)`, Stringify(v, true))
	v, err = in.EvalString("(eof-object? (read))")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestBuiltins_FilePorts(t *testing.T) {
	dir := t.TempDir()
	path := strconv.Quote(filepath.Join(dir, "data.scm"))
	in, _ := newTestInterp(t)
	v, err := in.EvalString(`
(define p (open-output-file ` + path + `))
(list (output-port? p) (input-port? p))`)
	require.NoError(t, err)
	assert.Equal(t, "(#t #f)", Stringify(v, true))
	_, err = in.EvalString(`
(write '(a "b" #\c) p)
(write-char #\space p)
(display 42 p)
(newline p)
(close-output-port p)`)
	require.NoError(t, err)
	v, err = in.EvalString("(close-output-port p)")
	require.NoError(t, err)
	assert.Same(t, in.Intern("ok"), v)

	_, err = in.EvalString("(write 1 p)")
	assert.ErrorIs(t, err, ErrPortClosed)

	v, err = in.EvalString(`
(define q (open-input-file ` + path + `))
(define a (read q))
(define b (read q))
(define c (read-char q))
(define d (read q))
(close-input-port q)
(list (input-port? q) a b c (eof-object? d))`)
	require.NoError(t, err)
	assert.Equal(t, `(#t (a "b" #\c) 42 #\newline #t)`, Stringify(v, true))

	_, err = in.EvalString("(read q)")
	assert.ErrorIs(t, err, ErrPortClosed)
}

func TestBuiltins_Load(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lib.scm")
	require.NoError(t, os.WriteFile(file, []byte(`
; a small library
(define (square x) (* x x))
(define answer (square 7))
`), 0o644))
	in, _ := newTestInterp(t)
	v, err := in.EvalString("(load " + strconv.Quote(file) + ") answer")
	require.NoError(t, err)
	assert.Equal(t, "49", Stringify(v, true))

	bad := filepath.Join(dir, "bad.scm")
	require.NoError(t, os.WriteFile(bad, []byte("(define x 1) (car x)"), 0o644))
	err = in.Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	var ee *EvalError
	assert.ErrorAs(t, err, &ee)
}
