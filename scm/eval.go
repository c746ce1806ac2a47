package scm

import "github.com/nukata/goarith"

// Eval evaluates an expression in an environment.
//
// It loops over the pair (exp, env): an expression in tail position
// replaces the pair and the loop goes on, so tail calls do not nest.
// Only subexpressions which are not in tail position recurse into Eval.
func (in *Interp) Eval(exp Any, env *Environment) (Any, error) {
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.maxDepthSeen {
		in.maxDepthSeen = in.depth
	}
	if in.maxDepth > 0 && in.depth > in.maxDepth {
		return nil, &EvalError{"recursion too deep"}
	}
	kw := &in.kw
	for {
		switch x := exp.(type) {
		case bool, goarith.Number, Char, string:
			return exp, nil
		case *Symbol:
			return env.LookFor(x)
		case *Cell:
			if x == Nil {
				return nil, &SyntaxError{x, "empty combination"}
			}
			if ListLength(x) < 0 {
				return nil, &SyntaxError{x, "improper form"}
			}
			kdr := x.Cdr.(*Cell)
			switch x.Car {
			case kw.quote: // (quote e)
				if kdr == Nil || kdr.Cdr != Nil {
					return nil, &SyntaxError{x, "bad quote"}
				}
				return kdr.Car, nil
			case kw.define: // (define v e) or (define (f . params) body...)
				return in.evalDefine(x, env)
			case kw.setq: // (set! v e)
				return in.evalSetQ(x, env)
			case kw.ifs: // (if e1 e2 e3) or (if e1 e2)
				n := ListLength(kdr)
				if n != 2 && n != 3 {
					return nil, &SyntaxError{x, "bad if"}
				}
				test, err := in.Eval(kdr.Car, env)
				if err != nil {
					return nil, err
				}
				j := kdr.Cdr.(*Cell)
				if IsTrue(test) {
					exp = j.Car
				} else if j.Cdr == Nil {
					return false, nil
				} else {
					exp = j.Cdr.(*Cell).Car
				}
			case kw.lambda: // (lambda params body...)
				if kdr == Nil {
					return nil, &SyntaxError{x, "bad lambda"}
				}
				return in.makeClosure(x, kdr.Car, kdr.Cdr, env)
			case kw.begin: // (begin e...)
				if kdr == Nil {
					return nil, &SyntaxError{x, "empty begin"}
				}
				last, err := in.evalSequence(kdr, env)
				if err != nil {
					return nil, err
				}
				exp = last
			case kw.cond: // (cond (test e...)... (else e...))
				e, err := in.expandCond(x)
				if err != nil {
					return nil, err
				}
				exp = e
			case kw.let: // (let ((v e)...) body...) or (let name ...)
				e, err := in.expandLet(x)
				if err != nil {
					return nil, err
				}
				exp = e
			case kw.and, kw.or: // (and e...) or (or e...)
				isAnd := x.Car == kw.and
				if kdr == Nil {
					return isAnd, nil
				}
				for ; kdr.Cdr != Nil; kdr = kdr.Cdr.(*Cell) {
					v, err := in.Eval(kdr.Car, env)
					if err != nil {
						return nil, err
					}
					if IsTrue(v) != isAnd {
						return v, nil
					}
				}
				exp = kdr.Car
			default: // (fun arg...)
				fun, err := in.Eval(x.Car, env)
				if err != nil {
					return nil, err
				}
				args := make([]Any, 0, ListLength(kdr))
				for ; kdr != Nil; kdr = kdr.Cdr.(*Cell) {
					v, err := in.Eval(kdr.Car, env)
					if err != nil {
						return nil, err
					}
					args = append(args, v)
				}
				result, newEnv, err := in.applyFunction(fun, args)
				if err != nil || newEnv == nil {
					return result, err
				}
				exp, env = result, newEnv
			}
		default: // procedures, ports, environments and EOF
			return exp, nil
		}
	}
}

// applyFunction applies a function to arguments.
// For a native procedure it returns the result and a nil environment.
// For a compound procedure (and for eval) it returns the expression and
// the environment the caller must go on evaluating in tail position.
func (in *Interp) applyFunction(fun Any, args []Any) (Any, *Environment, error) {
	for {
		if fun == evalProc {
			if err := checkArity(evalProc, len(args)); err != nil {
				return nil, nil, err
			}
			env := in.global
			if len(args) == 2 {
				e, ok := args[1].(*Environment)
				if !ok {
					return nil, nil, NewEvalError("environment expected", args[1])
				}
				env = e
			}
			return args[0], env, nil
		} else if fun == applyProc {
			if err := checkArity(applyProc, len(args)); err != nil {
				return nil, nil, err
			}
			n := len(args) - 1
			rest, ok := ListToSlice(args[n])
			if !ok {
				return nil, nil, NewEvalError("proper list expected", args[n])
			}
			fun, args = args[0], append(args[1:n:n], rest...)
		} else {
			break
		}
	}
	switch fn := fun.(type) {
	case *Builtin:
		if err := checkArity(fn, len(args)); err != nil {
			return nil, nil, err
		}
		result, err := fn.Fun(args)
		return result, nil, err
	case *Closure:
		env, err := fn.Env.Extend(fn.Params, args, fn)
		if err != nil {
			return nil, nil, err
		}
		return &Cell{in.kw.begin, fn.Body}, env, nil
	}
	return nil, nil, &NotProcedureError{fun}
}

func checkArity(fn *Builtin, n int) error {
	if n < fn.MinArgs || (fn.MaxArgs >= 0 && n > fn.MaxArgs) {
		return &ArityError{fn, n}
	}
	return nil
}

// evalSequence evaluates all but the last expression of a non-empty
// proper list and returns the last one unevaluated.
func (in *Interp) evalSequence(body *Cell, env *Environment) (Any, error) {
	for ; body.Cdr != Nil; body = body.Cdr.(*Cell) {
		if _, err := in.Eval(body.Car, env); err != nil {
			return nil, err
		}
	}
	return body.Car, nil
}

func (in *Interp) evalDefine(x *Cell, env *Environment) (Any, error) {
	n := ListLength(x)
	if n < 3 {
		return nil, &SyntaxError{x, "bad define"}
	}
	kdr := x.Cdr.(*Cell)
	switch v := kdr.Car.(type) {
	case *Symbol:
		if n != 3 {
			return nil, &SyntaxError{x, "bad define"}
		}
		val, err := in.Eval(kdr.Cdr.(*Cell).Car, env)
		if err != nil {
			return nil, err
		}
		env.Define(v, val)
		return in.kw.ok, nil
	case *Cell:
		if v == Nil {
			break
		}
		if name, ok := v.Car.(*Symbol); ok {
			fun, err := in.makeClosure(x, v.Cdr, kdr.Cdr, env)
			if err != nil {
				return nil, err
			}
			env.Define(name, fun)
			return in.kw.ok, nil
		}
	}
	return nil, &SyntaxError{x, "bad define"}
}

func (in *Interp) evalSetQ(x *Cell, env *Environment) (Any, error) {
	if ListLength(x) != 3 {
		return nil, &SyntaxError{x, "bad set!"}
	}
	kdr := x.Cdr.(*Cell)
	sym, ok := kdr.Car.(*Symbol)
	if !ok {
		return nil, &SyntaxError{x, "bad set!"}
	}
	val, err := in.Eval(kdr.Cdr.(*Cell).Car, env)
	if err != nil {
		return nil, err
	}
	if err := env.Set(sym, val); err != nil {
		return nil, err
	}
	return in.kw.ok, nil
}

// makeClosure checks params and body of form and closes them over env.
func (in *Interp) makeClosure(form *Cell, params Any, body Any, env *Environment) (Any, error) {
	j, ok := body.(*Cell)
	if !ok || j == Nil {
		return nil, &SyntaxError{form, "empty body"}
	}
	seen := make(map[*Symbol]bool)
	for p := params; p != Nil; {
		var sym *Symbol
		switch q := p.(type) {
		case *Symbol:
			sym, p = q, Nil
		case *Cell:
			sym, ok = q.Car.(*Symbol)
			if !ok {
				return nil, &SyntaxError{form, "bad parameter"}
			}
			p = q.Cdr
		default:
			return nil, &SyntaxError{form, "bad parameter list"}
		}
		if seen[sym] {
			return nil, &SyntaxError{form, "duplicate parameter " + string(*sym)}
		}
		seen[sym] = true
	}
	return &Closure{params, j, env}, nil
}

// expandCond rewrites a cond into nested ifs.
func (in *Interp) expandCond(x *Cell) (Any, error) {
	kw := &in.kw
	clauses, _ := ListToSlice(x.Cdr)
	var result Any = false
	for i := len(clauses) - 1; i >= 0; i-- {
		c, ok := clauses[i].(*Cell)
		if !ok || c == Nil || ListLength(c) < 0 {
			return nil, &SyntaxError{x, "bad cond clause"}
		}
		switch {
		case c.Car == kw.elses:
			if i != len(clauses)-1 {
				return nil, &SyntaxError{x, "misplaced else clause"}
			}
			if c.Cdr == Nil {
				return nil, &SyntaxError{x, "empty else clause"}
			}
			result = &Cell{kw.begin, c.Cdr}
		case c.Cdr == Nil: // (test) yields the value of test
			result = List(kw.or, c.Car, result)
		default:
			result = List(kw.ifs, c.Car, &Cell{kw.begin, c.Cdr}, result)
		}
	}
	return result, nil
}

// expandLet rewrites (let ((v e)...) body...) into ((lambda (v...) body...) e...)
// and (let f ((v e)...) body...) into
// (((lambda () (define f (lambda (v...) body...)) f)) e...),
// so that f is outside the scope of both the e's and the v's.
func (in *Interp) expandLet(x *Cell) (Any, error) {
	kw := &in.kw
	kdr := x.Cdr.(*Cell)
	if kdr == Nil {
		return nil, &SyntaxError{x, "bad let"}
	}
	name, named := kdr.Car.(*Symbol)
	if named {
		kdr = kdr.Cdr.(*Cell)
		if kdr == Nil {
			return nil, &SyntaxError{x, "bad let"}
		}
	}
	bindings, ok := ListToSlice(kdr.Car)
	if !ok {
		return nil, &SyntaxError{x, "bad let bindings"}
	}
	vars := make([]Any, len(bindings))
	vals := make([]Any, len(bindings))
	for i, b := range bindings {
		j, ok := b.(*Cell)
		if !ok || ListLength(j) != 2 {
			return nil, &SyntaxError{x, "bad let binding"}
		}
		vars[i], vals[i] = j.Car, j.Cdr.(*Cell).Car
	}
	lambda := ListWithTail(kdr.Cdr, kw.lambda, List(vars...))
	if named {
		thunk := List(kw.lambda, Nil, List(kw.define, name, lambda), name)
		lambda = List(thunk)
	}
	return &Cell{lambda, List(vals...)}, nil
}
