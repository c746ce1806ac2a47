package scm

import (
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

var charNames = map[string]rune{
	"nul":       0,
	"alarm":     '\a',
	"backspace": '\b',
	"tab":       '\t',
	"newline":   '\n',
	"linefeed":  '\n', // read-only synonym of newline
	"vtab":      '\v',
	"page":      '\f',
	"return":    '\r',
	"esc":       0x1b,
	"space":     ' ',
	"delete":    0x7f,
}

var charToName = map[rune]string{
	0:    "nul",
	'\a': "alarm",
	'\b': "backspace",
	'\t': "tab",
	'\n': "newline",
	'\v': "vtab",
	'\f': "page",
	'\r': "return",
	0x1b: "esc",
	' ':  "space",
	0x7f: "delete",
}

var stringEscapes = map[rune]rune{
	'a': '\a', 'b': '\b', 't': '\t', 'n': '\n',
	'v': '\v', 'f': '\f', 'r': '\r', '"': '"', '\\': '\\',
}

var charToEscape = map[rune]rune{
	'\a': 'a', '\b': 'b', '\t': 't', '\n': 'n',
	'\v': 'v', '\f': 'f', '\r': 'r', '"': '"', '\\': '\\',
}

// Stringify returns the string representation of an expression.
// Strings and characters in the expression will be written in their
// external representation if quote is true.
// A pair met again while it is being printed is shown as #<cyclic>,
// so Stringify terminates on circular structures.
func Stringify(exp Any, quote bool) string {
	var sb strings.Builder
	p := printer{sb: &sb, quote: quote, path: make(map[*Cell]bool)}
	p.print(exp)
	return sb.String()
}

type printer struct {
	sb    *strings.Builder
	quote bool
	path  map[*Cell]bool
}

func (p *printer) print(exp Any) {
	sb := p.sb
	switch x := exp.(type) {
	case bool:
		if x {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case goarith.Number:
		sb.WriteString(x.String())
	case Char:
		if !p.quote {
			sb.WriteRune(rune(x))
		} else if name, ok := charToName[rune(x)]; ok {
			sb.WriteString(`#\` + name)
		} else {
			sb.WriteString(`#\`)
			sb.WriteRune(rune(x))
		}
	case string:
		if p.quote {
			writeString(sb, x)
		} else {
			sb.WriteString(x)
		}
	case *Symbol:
		sb.WriteString(string(*x))
	case *Cell:
		p.printList(x)
	case *Builtin, *Closure:
		sb.WriteString("#<procedure>")
	case *Port:
		sb.WriteString("#<port>")
	case *eofObject:
		sb.WriteString("#<eof-object>")
	case *Environment:
		writeEnvironment(sb, x)
	default:
		sb.WriteString("#<unknown>")
	}
}

func (p *printer) printList(x *Cell) {
	sb := p.sb
	if x == Nil {
		sb.WriteString("()")
		return
	}
	if p.path[x] {
		sb.WriteString("#<cyclic>")
		return
	}
	var visited []*Cell
	sb.WriteByte('(')
	for {
		p.path[x] = true
		visited = append(visited, x)
		p.print(x.Car)
		kdr, ok := x.Cdr.(*Cell)
		if !ok {
			sb.WriteString(" . ")
			p.print(x.Cdr)
			break
		}
		if kdr == Nil {
			break
		}
		if p.path[kdr] {
			sb.WriteString(" . #<cyclic>")
			break
		}
		sb.WriteByte(' ')
		x = kdr
	}
	sb.WriteByte(')')
	for _, j := range visited {
		delete(p.path, j)
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, c := range s {
		if e, ok := charToEscape[c]; ok {
			sb.WriteByte('\\')
			sb.WriteRune(e)
		} else {
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
}

// writeEnvironment dumps the frame chain, innermost first.
// The outermost frame, usually the global one, is summarised by its size.
func writeEnvironment(sb *strings.Builder, env *Environment) {
	sb.WriteString("#<environment")
	for e := env; e != nil; e = e.Next {
		if e != env {
			sb.WriteString(" ->")
		}
		if e.Next == nil {
			sb.WriteString(" {" + strconv.Itoa(e.Len()) + " bindings}")
			break
		}
		sb.WriteString(" {" + strings.Join(e.Names(), " ") + "}")
	}
	sb.WriteByte('>')
}

// isCyclic reports whether a cycle of pairs is reachable from x.
func isCyclic(x Any) bool {
	const (
		grey = iota + 1
		black
	)
	state := make(map[*Cell]int)
	var walk func(Any) bool
	walk = func(x Any) bool {
		j, ok := x.(*Cell)
		if !ok || j == Nil {
			return false
		}
		switch state[j] {
		case grey:
			return true
		case black:
			return false
		}
		state[j] = grey
		if walk(j.Car) || walk(j.Cdr) {
			return true
		}
		state[j] = black
		return false
	}
	return walk(x)
}
