package scm

import (
	"io"
	"math/big"

	"github.com/nukata/goarith"
)

// InstallBuiltins binds the native procedures in env.
func (in *Interp) InstallBuiltins(env *Environment) {
	for _, b := range in.builtins() {
		env.Define(in.Intern(b.Name), b)
	}
	env.Define(in.Intern(evalProc.Name), evalProc)
	env.Define(in.Intern(applyProc.Name), applyProc)
}

func (in *Interp) builtins() []*Builtin {
	ok := in.kw.ok
	return []*Builtin{
		// type predicates
		pred("null?", func(x Any) bool { return x == Nil }),
		pred("boolean?", func(x Any) bool { _, ok := x.(bool); return ok }),
		pred("symbol?", func(x Any) bool { _, ok := x.(*Symbol); return ok }),
		pred("integer?", func(x Any) bool { _, ok := x.(goarith.Number); return ok }),
		pred("char?", func(x Any) bool { _, ok := x.(Char); return ok }),
		pred("string?", func(x Any) bool { _, ok := x.(string); return ok }),
		pred("pair?", func(x Any) bool { j, ok := x.(*Cell); return ok && j != Nil }),
		pred("procedure?", func(x Any) bool {
			switch x.(type) {
			case *Builtin, *Closure:
				return true
			}
			return false
		}),
		pred("input-port?", func(x Any) bool { p, ok := x.(*Port); return ok && p.IsInput() }),
		pred("output-port?", func(x Any) bool { p, ok := x.(*Port); return ok && p.IsOutput() }),
		pred("eof-object?", func(x Any) bool { return x == EOF }),
		pred("not", func(x Any) bool { return x == false }),

		// conversions
		{"char->integer", 1, 1, func(a []Any) (Any, error) {
			c, err := charArg("char->integer", a[0])
			if err != nil {
				return nil, err
			}
			return NewInt(int64(c)), nil
		}},
		{"integer->char", 1, 1, func(a []Any) (Any, error) {
			n, err := intArg("integer->char", a[0])
			if err != nil {
				return nil, err
			}
			z, _ := bigOf(n)
			if !z.IsInt64() || z.Int64() < 0 || z.Int64() > 0x10FFFF {
				return nil, NewEvalError("integer->char: out of range", n)
			}
			return Char(z.Int64()), nil
		}},
		{"number->string", 1, 1, func(a []Any) (Any, error) {
			n, err := intArg("number->string", a[0])
			if err != nil {
				return nil, err
			}
			return n.String(), nil
		}},
		{"string->number", 1, 1, func(a []Any) (Any, error) {
			s, err := stringArg("string->number", a[0])
			if err != nil {
				return nil, err
			}
			return parseInteger(s), nil
		}},
		{"symbol->string", 1, 1, func(a []Any) (Any, error) {
			sym, ok := a[0].(*Symbol)
			if !ok {
				return nil, NewEvalError("symbol->string: symbol expected", a[0])
			}
			return string(*sym), nil
		}},
		{"string->symbol", 1, 1, func(a []Any) (Any, error) {
			s, err := stringArg("string->symbol", a[0])
			if err != nil {
				return nil, err
			}
			return in.Intern(s), nil
		}},

		// arithmetic
		{"+", 0, -1, func(a []Any) (Any, error) {
			return fold("+", NewInt(0), a, goarith.Number.Add)
		}},
		{"*", 0, -1, func(a []Any) (Any, error) {
			return fold("*", NewInt(1), a, goarith.Number.Mul)
		}},
		{"-", 1, -1, func(a []Any) (Any, error) {
			if len(a) == 1 {
				return fold("-", NewInt(0), a, goarith.Number.Sub)
			}
			first, err := intArg("-", a[0])
			if err != nil {
				return nil, err
			}
			return fold("-", first, a[1:], goarith.Number.Sub)
		}},
		{"quotient", 2, 2, func(a []Any) (Any, error) {
			return divide("quotient", a, (*big.Int).Quo)
		}},
		{"remainder", 2, 2, func(a []Any) (Any, error) {
			return divide("remainder", a, (*big.Int).Rem)
		}},
		compare("=", func(c int) bool { return c == 0 }),
		compare("<", func(c int) bool { return c < 0 }),
		compare(">", func(c int) bool { return c > 0 }),
		compare("<=", func(c int) bool { return c <= 0 }),
		compare(">=", func(c int) bool { return c >= 0 }),

		// pairs and lists
		{"cons", 2, 2, func(a []Any) (Any, error) {
			return &Cell{a[0], a[1]}, nil
		}},
		{"car", 1, 1, func(a []Any) (Any, error) {
			j, err := pairArg("car", a[0])
			if err != nil {
				return nil, err
			}
			return j.Car, nil
		}},
		{"cdr", 1, 1, func(a []Any) (Any, error) {
			j, err := pairArg("cdr", a[0])
			if err != nil {
				return nil, err
			}
			return j.Cdr, nil
		}},
		{"set-car!", 2, 2, func(a []Any) (Any, error) {
			j, err := pairArg("set-car!", a[0])
			if err != nil {
				return nil, err
			}
			j.Car = a[1]
			return ok, nil
		}},
		{"set-cdr!", 2, 2, func(a []Any) (Any, error) {
			j, err := pairArg("set-cdr!", a[0])
			if err != nil {
				return nil, err
			}
			j.Cdr = a[1]
			return ok, nil
		}},
		{"list", 0, -1, func(a []Any) (Any, error) {
			return List(a...), nil
		}},
		{"length", 1, 1, func(a []Any) (Any, error) {
			n := ListLength(a[0])
			if n < 0 {
				return nil, NewEvalError("length: proper list expected", a[0])
			}
			return NewInt(int64(n)), nil
		}},

		// equivalence
		{"eq?", 2, 2, func(a []Any) (Any, error) {
			return a[0] == a[1], nil
		}},
		{"eqv?", 2, 2, func(a []Any) (Any, error) {
			return eqv(a[0], a[1]), nil
		}},
		{"equal?", 2, 2, func(a []Any) (Any, error) {
			return equal(a[0], a[1], make(map[[2]*Cell]bool)), nil
		}},

		// environments
		{"interaction-environment", 0, 0, func(a []Any) (Any, error) {
			return in.global, nil
		}},
		{"null-environment", 0, 1, func(a []Any) (Any, error) {
			return NewEnvironment(nil), nil
		}},
		{"environment", 0, 1, func(a []Any) (Any, error) {
			env := NewEnvironment(nil)
			in.InstallBuiltins(env)
			return env, nil
		}},
		{"load", 1, 1, func(a []Any) (Any, error) {
			s, err := stringArg("load", a[0])
			if err != nil {
				return nil, err
			}
			if err = in.Load(s); err != nil {
				return nil, err
			}
			return ok, nil
		}},

		// input
		{"read", 0, 1, func(a []Any) (Any, error) {
			p, err := in.inputPort("read", a)
			if err != nil {
				return nil, err
			}
			rs, err := p.RuneScanner()
			if err != nil {
				return nil, err
			}
			x, err := in.NewReader(rs).Read()
			if err == io.EOF {
				return EOF, nil
			}
			return x, err
		}},
		{"read-char", 0, 1, func(a []Any) (Any, error) {
			p, err := in.inputPort("read-char", a)
			if err != nil {
				return nil, err
			}
			return p.ReadChar()
		}},
		{"peek-char", 0, 1, func(a []Any) (Any, error) {
			p, err := in.inputPort("peek-char", a)
			if err != nil {
				return nil, err
			}
			return p.PeekChar()
		}},
		{"open-input-file", 1, 1, func(a []Any) (Any, error) {
			s, err := stringArg("open-input-file", a[0])
			if err != nil {
				return nil, err
			}
			return OpenInputFile(s)
		}},
		{"close-input-port", 1, 1, func(a []Any) (Any, error) {
			p, err := in.inputPort("close-input-port", a)
			if err != nil {
				return nil, err
			}
			return ok, p.Close()
		}},

		// output
		{"write", 1, 2, func(a []Any) (Any, error) {
			return in.output("write", a, Stringify(a[0], true))
		}},
		{"display", 1, 2, func(a []Any) (Any, error) {
			return in.output("display", a, Stringify(a[0], false))
		}},
		{"write-char", 1, 2, func(a []Any) (Any, error) {
			c, err := charArg("write-char", a[0])
			if err != nil {
				return nil, err
			}
			return in.output("write-char", a, string(rune(c)))
		}},
		{"newline", 0, 1, func(a []Any) (Any, error) {
			return in.output("newline", append([]Any{Nil}, a...), "\n")
		}},
		{"open-output-file", 1, 1, func(a []Any) (Any, error) {
			s, err := stringArg("open-output-file", a[0])
			if err != nil {
				return nil, err
			}
			return OpenOutputFile(s)
		}},
		{"close-output-port", 1, 1, func(a []Any) (Any, error) {
			p, isPort := a[0].(*Port)
			if !isPort || !p.IsOutput() {
				return nil, NewEvalError("close-output-port: output port expected", a[0])
			}
			return ok, p.Close()
		}},

		{"error", 0, -1, func(a []Any) (Any, error) {
			err := &SchemeError{}
			if len(a) > 0 {
				if s, ok := a[0].(string); ok {
					err.Message, a = s, a[1:]
				}
			}
			err.Irritants = a
			return nil, err
		}},
	}
}

func pred(name string, fn func(Any) bool) *Builtin {
	return &Builtin{name, 1, 1, func(a []Any) (Any, error) {
		return fn(a[0]), nil
	}}
}

func compare(name string, fn func(int) bool) *Builtin {
	return &Builtin{name, 1, -1, func(a []Any) (Any, error) {
		x, err := intArg(name, a[0])
		if err != nil {
			return nil, err
		}
		result := true
		for _, b := range a[1:] {
			y, err := intArg(name, b)
			if err != nil {
				return nil, err
			}
			if !fn(x.Cmp(y)) {
				result = false
			}
			x = y
		}
		return result, nil
	}}
}

func fold(name string, x goarith.Number, a []Any,
	fn func(goarith.Number, goarith.Number) goarith.Number) (Any, error) {
	for _, b := range a {
		y, err := intArg(name, b)
		if err != nil {
			return nil, err
		}
		x = fn(x, y)
	}
	return x, nil
}

// divide applies a truncating big.Int division to two integers.
func divide(name string, a []Any, fn func(z, x, y *big.Int) *big.Int) (Any, error) {
	x, err := intArg(name, a[0])
	if err != nil {
		return nil, err
	}
	y, err := intArg(name, a[1])
	if err != nil {
		return nil, err
	}
	bx, _ := bigOf(x)
	by, _ := bigOf(y)
	if by.Sign() == 0 {
		return nil, NewEvalError(name+": division by zero", x)
	}
	return goarith.AsNumber(fn(new(big.Int), bx, by)), nil
}

// parseInteger reads s as the reader would read an integer, or returns #f.
func parseInteger(s string) Any {
	digits := s
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if !isDigit(c) {
			return false
		}
	}
	z, _ := new(big.Int).SetString(s, 10)
	return goarith.AsNumber(z)
}

func eqv(a, b Any) bool {
	if a == b {
		return true
	}
	if x, ok := a.(goarith.Number); ok {
		if y, ok := b.(goarith.Number); ok {
			return x.Cmp(y) == 0
		}
	}
	return false
}

// equal compares structurally; pairs met again while being compared are
// taken as equal so that circular lists terminate.
func equal(a, b Any, seen map[[2]*Cell]bool) bool {
	for {
		x, ok1 := a.(*Cell)
		y, ok2 := b.(*Cell)
		if !ok1 || !ok2 || x == Nil || y == Nil {
			return eqv(a, b)
		}
		key := [2]*Cell{x, y}
		if seen[key] {
			return true
		}
		seen[key] = true
		if !equal(x.Car, y.Car, seen) {
			return false
		}
		a, b = x.Cdr, y.Cdr
	}
}

func intArg(name string, x Any) (goarith.Number, error) {
	if n, ok := x.(goarith.Number); ok {
		return n, nil
	}
	return nil, NewEvalError(name+": integer expected", x)
}

func charArg(name string, x Any) (Char, error) {
	if c, ok := x.(Char); ok {
		return c, nil
	}
	return 0, NewEvalError(name+": character expected", x)
}

func stringArg(name string, x Any) (string, error) {
	if s, ok := x.(string); ok {
		return s, nil
	}
	return "", NewEvalError(name+": string expected", x)
}

func pairArg(name string, x Any) (*Cell, error) {
	if j, ok := x.(*Cell); ok && j != Nil {
		return j, nil
	}
	return nil, NewEvalError(name+": pair expected", x)
}

// inputPort returns the optional port argument a[0], or the current input.
func (in *Interp) inputPort(name string, a []Any) (*Port, error) {
	if len(a) == 0 {
		return in.stdin, nil
	}
	if p, ok := a[0].(*Port); ok && p.IsInput() {
		return p, nil
	}
	return nil, NewEvalError(name+": input port expected", a[0])
}

// output writes s to the optional port argument a[1], or the current output.
func (in *Interp) output(name string, a []Any, s string) (Any, error) {
	p := in.stdout
	if len(a) > 1 {
		q, ok := a[1].(*Port)
		if !ok || !q.IsOutput() {
			return nil, NewEvalError(name+": output port expected", a[1])
		}
		p = q
	}
	if err := p.WriteString(s); err != nil {
		return nil, err
	}
	return in.kw.ok, nil
}
