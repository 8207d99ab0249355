// Package errors defines the core's structured diagnostics. Every
// failure mode (Parse, Unify, UnknownName, Arity, ImmutableAssign,
// InvalidCast, IO) is a CompileError variant; all are fatal at first
// occurrence, so the core never accumulates or recovers from them.
package errors

import "fmt"

// Kind discriminates a CompileError as a stable string enum.
type Kind string

const (
	Parse           Kind = "parse"
	Unify           Kind = "unify"
	UnknownName     Kind = "unknown_name"
	Arity           Kind = "arity"
	ImmutableAssign Kind = "immutable_assign"
	InvalidCast     Kind = "invalid_cast"
	IO              Kind = "io"
)

// TypePrinter is satisfied by types.Ty without internal/errors importing
// internal/types, keeping the dependency one-directional (types has no
// knowledge of how it's reported).
type TypePrinter interface {
	String() string
}

// CompileError is the error type the core returns for the diagnostic
// kinds above; a few internal failures (an unhandled definition or
// expression form, a non-constant Data initializer) are returned as
// plain errors instead. It carries enough structure to render a
// human-readable description of the types involved, by their
// structural printing.
type CompileError struct {
	Kind     Kind
	Message  string
	Pos      string
	Expected TypePrinter
	Actual   TypePrinter
}

func (e *CompileError) Error() string {
	msg := e.Message
	if e.Pos != "" {
		msg = fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	if e.Expected != nil && e.Actual != nil {
		msg = fmt.Sprintf("%s\n  expected: %s\n  actual:   %s", msg, e.Expected, e.Actual)
	}
	return msg
}

// NewUnify builds a Unify error from a position and the two types that
// failed to unify.
func NewUnify(pos string, expected, actual TypePrinter) *CompileError {
	return &CompileError{Kind: Unify, Message: "cannot unify types", Pos: pos, Expected: expected, Actual: actual}
}

// NewUnknownName builds an UnknownName error.
func NewUnknownName(pos, name string) *CompileError {
	return &CompileError{Kind: UnknownName, Message: fmt.Sprintf("unknown name %q", name), Pos: pos}
}

// NewArity builds an Arity mismatch error.
func NewArity(pos string, expected, actual int) *CompileError {
	return &CompileError{Kind: Arity, Message: fmt.Sprintf("expected %d argument(s), got %d", expected, actual), Pos: pos}
}

// NewImmutableAssign builds an ImmutableAssign error.
func NewImmutableAssign(pos string) *CompileError {
	return &CompileError{Kind: ImmutableAssign, Message: "assignment to immutable value", Pos: pos}
}

// NewInvalidCast builds an InvalidCast error.
func NewInvalidCast(pos string, from, to TypePrinter) *CompileError {
	return &CompileError{Kind: InvalidCast, Message: "invalid cast", Pos: pos, Expected: to, Actual: from}
}

// NewIO wraps an I/O failure from output-file writing.
func NewIO(err error) *CompileError {
	return &CompileError{Kind: IO, Message: err.Error()}
}

// NewParse builds a Parse error. Besides parser failures, the checker
// uses it for malformed input it rejects, such as a break or continue
// outside a loop or a non-exhaustive match.
func NewParse(msg string) *CompileError {
	return &CompileError{Kind: Parse, Message: msg}
}
