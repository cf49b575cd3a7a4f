package diag

// Message catalog. Every message here is lowercase, present tense, and
// includes the relevant names or values, following the convention the
// interpreter's own error catalog uses.

const (
	ErrMsgUnboundVariable   = "unbound variable: %s"
	ErrMsgExpectedType      = "expected %s, got %v"
	ErrMsgArityMismatch     = "expected %s argument(s), got %d"
	ErrMsgCannotCollectHere = "gc cannot run while a procedure call is in progress"
	ErrMsgOutOfMemory       = "heap exhausted"

	ErrMsgUnclosedList       = "unclosed list: missing )"
	ErrMsgUnexpectedRParen   = "unexpected )"
	ErrMsgMalformedDot       = "malformed dotted pair: expected exactly one datum after ."
	ErrMsgUnterminatedString = "unterminated string literal"
	ErrMsgInvalidNumber      = "invalid number literal: %s"
	ErrMsgUnexpectedEOF      = "unexpected end of input"

	ErrMsgNotAProcedure  = "not a procedure: %v"
	ErrMsgNotApplicable  = "cannot apply %s"
	ErrMsgDivisionByZero = "division by zero"
	ErrMsgEmptyBody      = "procedure body must contain at least one expression"
)
