package scm

import "sort"

// Environment represents Scheme's environment: one frame of bindings
// and the enclosing frame.
type Environment struct {
	vars map[*Symbol]Any
	Next *Environment
}

// NewEnvironment makes an empty frame whose parent is next.
func NewEnvironment(next *Environment) *Environment {
	return &Environment{vars: make(map[*Symbol]Any), Next: next}
}

// find returns the nearest frame which binds key.
func (env *Environment) find(key *Symbol) *Environment {
	for env != nil {
		if _, ok := env.vars[key]; ok {
			return env
		}
		env = env.Next
	}
	return nil
}

// LookFor searches the environment for a symbol.
func (env *Environment) LookFor(key *Symbol) (Any, error) {
	if e := env.find(key); e != nil {
		return e.vars[key], nil
	}
	return nil, &UnboundError{key}
}

// Define binds key in this frame only, overwriting any binding it has.
func (env *Environment) Define(key *Symbol, val Any) {
	env.vars[key] = val
}

// Set rebinds key in the nearest frame which already binds it.
func (env *Environment) Set(key *Symbol, val Any) error {
	e := env.find(key)
	if e == nil {
		return &UnboundError{key}
	}
	e.vars[key] = val
	return nil
}

// Extend builds a child frame binding params to args positionally.
// params is a proper list of symbols, a dotted list whose tail symbol
// takes the rest of args as a list, or a single symbol taking all args.
// fun is only used to report arity errors.
func (env *Environment) Extend(params Any, args []Any, fun Any) (*Environment, error) {
	frame := NewEnvironment(env)
	i := 0
	for {
		switch p := params.(type) {
		case *Symbol:
			frame.vars[p] = List(args[i:]...)
			return frame, nil
		case *Cell:
			if p == Nil {
				if i != len(args) {
					return nil, &ArityError{fun, len(args)}
				}
				return frame, nil
			}
			if i == len(args) {
				return nil, &ArityError{fun, len(args)}
			}
			sym, ok := p.Car.(*Symbol)
			if !ok {
				return nil, NewEvalError("bad parameter", p.Car)
			}
			frame.vars[sym] = args[i]
			i++
			params = p.Cdr
		default:
			return nil, NewEvalError("bad parameter list", params)
		}
	}
}

// Names returns the sorted names bound in this frame.
func (env *Environment) Names() []string {
	names := make([]string, 0, len(env.vars))
	for sym := range env.vars {
		names = append(names, string(*sym))
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings in this frame.
func (env *Environment) Len() int {
	return len(env.vars)
}
