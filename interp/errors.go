package interp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the taxonomy in spec.md §7.
type ErrorKind string

const (
	KindSyntaxError          ErrorKind = "SyntaxError"
	KindUnboundVariable      ErrorKind = "UnboundVariable"
	KindNotVariable          ErrorKind = "NotVariable"
	KindArityMismatch        ErrorKind = "ArityMismatch"
	KindTypeMismatch         ErrorKind = "TypeMismatch"
	KindBadKeyword           ErrorKind = "BadKeyword"
	KindBadQuote             ErrorKind = "BadQuote"
	KindBadQuasiquote        ErrorKind = "BadQuasiquote"
	KindNotIterable          ErrorKind = "NotIterable"
	KindMacroExpansionLimit  ErrorKind = "MacroExpansionLimit"
	KindHostError            ErrorKind = "HostError"
)

// maxTraceFrames bounds the propagation trace, per spec.md §7.
const maxTraceFrames = 10

// EvalError is the single error type the core exposes to the host. It
// carries a taxonomy Kind, a message, and a trace of short printed
// forms built up as the error propagates through nested Cons
// expressions, truncated after maxTraceFrames.
type EvalError struct {
	Kind  ErrorKind
	Msg   string
	Trace []string
	cause error
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	for _, f := range e.Trace {
		b.WriteString("\n\t")
		b.WriteString(f)
	}
	return b.String()
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As. EvalError
// has no Cause method, so github.com/pkg/errors' Cause() stops at it.
func (e *EvalError) Unwrap() error { return e.cause }

func newError(kind ErrorKind, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, format string, args ...interface{}) *EvalError {
	wrapped := errors.Wrapf(cause, format, args...)
	return &EvalError{Kind: kind, Msg: wrapped.Error(), cause: wrapped}
}

// withFrame appends a short printed form to err's trace, truncating at
// maxTraceFrames, and returns err so call sites can `return withFrame(err, form)`.
func withFrame(err error, form Value) error {
	ee, ok := err.(*EvalError)
	if !ok {
		ee = &EvalError{Kind: KindHostError, Msg: err.Error(), cause: err}
	}
	if len(ee.Trace) >= maxTraceFrames {
		return ee
	}
	ee.Trace = append(ee.Trace, PrintReadable(form))
	return ee
}

// asEvalError wraps any non-EvalError into a HostError tagged with the
// builtin name, matching spec.md §4.3's BuiltIn application contract.
// The wrap goes through github.com/pkg/errors so the original cause and
// its stack trace survive behind Unwrap/Cause.
func asEvalError(name string, err error) *EvalError {
	if ee, ok := err.(*EvalError); ok {
		return ee
	}
	wrapped := errors.Wrapf(err, "in %s", name)
	return &EvalError{Kind: KindHostError, Msg: wrapped.Error(), cause: wrapped}
}
