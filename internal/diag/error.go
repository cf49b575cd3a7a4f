// Package diag provides the structured error type shared by the reader,
// environment, and evaluator. An Error carries a Kind, a human-readable
// Message, an optional source Position, and the textual form of the
// expression being evaluated when the error occurred, so that the CLI can
// render a caret diagnostic pointing at the offending source.
package diag

import (
	"fmt"

	"github.com/kjhall/minilisp/internal/token"
)

// Kind categorizes an Error the way the interpreter's InterpreterError
// categorizes by ErrorCategory, narrowed to the failure modes this
// interpreter can raise.
type Kind string

const (
	KindReaderError       Kind = "ReaderError"
	KindUnboundVariable   Kind = "UnboundVariable"
	KindTypeError         Kind = "TypeError"
	KindArityMismatch     Kind = "ArityMismatch"
	KindSyntaxError       Kind = "SyntaxError"
	KindAssertionFailed   Kind = "AssertionFailed"
	KindCannotCollectHere Kind = "CannotCollectHere"
	KindOutOfMemory       Kind = "OutOfMemory"
)

// Error is the error type raised by every package in this module. It
// implements the standard error interface.
type Error struct {
	Kind    Kind
	Message string
	Pos     *token.Position
	Expr    string
}

func (e *Error) Error() string {
	if e.Pos != nil && !e.Pos.IsZero() {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error of the given kind with a plain message.
func New(kind Kind, pos *token.Position, expr, message string) *Error {
	return &Error{Kind: kind, Message: message, Pos: pos, Expr: expr}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, pos *token.Position, expr, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Expr: expr}
}

// UnboundVariable reports a reference to a name with no binding in scope.
func UnboundVariable(pos *token.Position, name string) *Error {
	return Newf(KindUnboundVariable, pos, name, ErrMsgUnboundVariable, name)
}

// TypeError reports a value of the wrong kind reaching an operation.
func TypeError(pos *token.Position, expr, expected string, got any) *Error {
	return Newf(KindTypeError, pos, expr, ErrMsgExpectedType, expected, got)
}

// ArityMismatch reports a procedure called with the wrong number of arguments.
func ArityMismatch(pos *token.Position, expr string, want string, got int) *Error {
	return Newf(KindArityMismatch, pos, expr, ErrMsgArityMismatch, want, got)
}

// SyntaxError reports a malformed special form.
func SyntaxError(pos *token.Position, expr, message string) *Error {
	return New(KindSyntaxError, pos, expr, message)
}

// AssertionFailed reports a failed (assert ...) call.
func AssertionFailed(pos *token.Position, expr, message string) *Error {
	return New(KindAssertionFailed, pos, expr, message)
}

// CannotCollectHere reports that (gc) was invoked while execution was
// nested inside a compound procedure call rather than at top level.
func CannotCollectHere(pos *token.Position) *Error {
	return New(KindCannotCollectHere, pos, "(gc)", ErrMsgCannotCollectHere)
}

// OutOfMemory reports heap exhaustion.
func OutOfMemory(pos *token.Position) *Error {
	return New(KindOutOfMemory, pos, "", ErrMsgOutOfMemory)
}
