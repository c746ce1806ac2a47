package scm

import (
	"fmt"
	"strings"
)

// ReadError represents a syntax error found by the Reader.
// Err is io.ErrUnexpectedEOF when the input ended inside a datum.
type ReadError struct {
	Message string
	Err     error
}

func (err *ReadError) Error() string {
	if err.Err != nil {
		return "ReadError: " + err.Message + ": " + err.Err.Error()
	}
	return "ReadError: " + err.Message
}

func (err *ReadError) Unwrap() error {
	return err.Err
}

// EvalError represents an error in evaluation.
type EvalError struct {
	Message string
}

// NewEvalError constructs a new EvalError.
func NewEvalError(msg string, x Any) *EvalError {
	return &EvalError{msg + ": " + Stringify(x, true)}
}

func (err *EvalError) Error() string {
	return "EvalError: " + err.Message
}

// UnboundError reports a lookup or set! of a variable no frame binds.
type UnboundError struct {
	Sym *Symbol
}

func (err *UnboundError) Error() string {
	return "EvalError: unbound variable: " + string(*err.Sym)
}

// NotProcedureError reports an application of a non-procedure.
type NotProcedureError struct {
	Value Any
}

func (err *NotProcedureError) Error() string {
	return "EvalError: attempt to apply non-procedure: " +
		Stringify(err.Value, true)
}

// SyntaxError reports a malformed special form.
type SyntaxError struct {
	Form    Any
	Message string
}

func (err *SyntaxError) Error() string {
	return "EvalError: " + err.Message + ": " + Stringify(err.Form, true)
}

// ArityError reports a procedure called with a wrong number of arguments.
type ArityError struct {
	Proc Any
	Got  int
}

func (err *ArityError) Error() string {
	return fmt.Sprintf("EvalError: wrong number of arguments (%d) to %s",
		err.Got, procName(err.Proc))
}

// SchemeError is raised by the error procedure.
type SchemeError struct {
	Message   string
	Irritants []Any
}

func (err *SchemeError) Error() string {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(err.Message)
	for _, x := range err.Irritants {
		sb.WriteByte(' ')
		sb.WriteString(Stringify(x, true))
	}
	return sb.String()
}

func procName(fun Any) string {
	if b, ok := fun.(*Builtin); ok {
		return b.Name
	}
	return Stringify(fun, true)
}
