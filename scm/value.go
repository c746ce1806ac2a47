// Package scm implements a tiny Scheme: a character-level reader,
// a trampolined evaluator with proper tail calls and a printer.
package scm

import (
	"math/big"

	"github.com/nukata/goarith"
)

// Any is a Scheme value.  Its dynamic type is one of
//
//	bool, goarith.Number, Char, string, *Symbol, *Cell,
//	*Builtin, *Closure, *Environment, *Port, *eofObject.
type Any = interface{}

//----------------------------------------------------------------------

// Cell represents a cons-cell.
// &Cell{car, cdr} works as the "cons" operation.
type Cell struct {
	Car Any
	Cdr Any
}

// Nil represents the empty list ().
var Nil *Cell = nil

func (j *Cell) String() string {
	return Stringify(j, true)
}

// List builds a proper list (e1 ... eN) out of its arguments.
func List(xs ...Any) *Cell {
	result := Nil
	for i := len(xs) - 1; i >= 0; i-- {
		result = &Cell{xs[i], result}
	}
	return result
}

// ListWithTail builds (e1 ... eN . tail); with no elements it is tail.
func ListWithTail(tail Any, xs ...Any) Any {
	result := tail
	for i := len(xs) - 1; i >= 0; i-- {
		result = &Cell{xs[i], result}
	}
	return result
}

// ListLength returns the number of elements of a proper list.
// It returns -1 if x is an improper or a circular list.
func ListLength(x Any) int {
	n := 0
	slow := x
	for {
		if x == Nil {
			return n
		}
		j, ok := x.(*Cell)
		if !ok {
			return -1
		}
		x = j.Cdr
		n++
		if x == Nil {
			return n
		}
		j, ok = x.(*Cell)
		if !ok {
			return -1
		}
		x = j.Cdr
		n++
		slow = slow.(*Cell).Cdr
		if x == slow {
			return -1
		}
	}
}

// ListToSlice copies the elements of a proper list into a slice.
// It reports false for an improper or a circular list.
func ListToSlice(x Any) ([]Any, bool) {
	n := ListLength(x)
	if n < 0 {
		return nil, false
	}
	result := make([]Any, 0, n)
	for j := x.(*Cell); j != Nil; j = j.Cdr.(*Cell) {
		result = append(result, j.Car)
	}
	return result, true
}

//----------------------------------------------------------------------

// Char represents Scheme's character.
type Char rune

type eofObject struct{}

// EOF is the end-of-input object; it is distinct from every other value.
var EOF = &eofObject{}

// IsTrue reports whether x counts as true: everything but #f does.
func IsTrue(x Any) bool {
	return x != false
}

// NewInt makes an integer value out of a Go int64.
func NewInt(n int64) goarith.Number {
	return goarith.AsNumber(big.NewInt(n))
}

// bigOf converts an integer value to *big.Int through its decimal form,
// which is the one representation every goarith integer shares.
func bigOf(n goarith.Number) (*big.Int, bool) {
	return new(big.Int).SetString(n.String(), 10)
}

//----------------------------------------------------------------------

// Builtin represents a native procedure.
// MaxArgs < 0 means the procedure takes any number of extra arguments.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fun     func(args []Any) (Any, error)
}

// Closure represents a lambda expression with its environment.
type Closure struct {
	Params Any // a proper list, a dotted list or a single *Symbol
	Body   *Cell
	Env    *Environment
}

// evalProc and applyProc are recognized by identity in the evaluator,
// which handles them itself so that calls through them stay tail calls.
var (
	evalProc  = &Builtin{Name: "eval", MinArgs: 1, MaxArgs: 2}
	applyProc = &Builtin{Name: "apply", MinArgs: 2, MaxArgs: -1}
)
