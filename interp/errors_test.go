package interp

import (
	"errors"
	"strings"
	"testing"
)

func TestEvalErrorFormatsKindAndMessage(t *testing.T) {
	e := newError(KindTypeMismatch, "expected %s, got %s", "number", "string")
	if got, want := e.Error(), "TypeMismatch: expected number, got string"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEvalErrorTraceTruncatesAtMax(t *testing.T) {
	var err error = newError(KindUnboundVariable, "x")
	for i := 0; i < maxTraceFrames+5; i++ {
		err = withFrame(err, Intern("form"))
	}
	ee := err.(*EvalError)
	if len(ee.Trace) != maxTraceFrames {
		t.Errorf("expected trace capped at %d frames, got %d", maxTraceFrames, len(ee.Trace))
	}
}

func TestWrapErrorPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := wrapError(KindHostError, cause, "boom")
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAsEvalErrorPassesThroughExisting(t *testing.T) {
	orig := newError(KindArityMismatch, "too few args")
	if got := asEvalError("f", orig); got != orig {
		t.Error("expected an existing *EvalError to pass through unchanged")
	}
}

func TestAsEvalErrorWrapsPlainError(t *testing.T) {
	plain := errors.New("oops")
	got := asEvalError("my-fn", plain)
	if got.Kind != KindHostError {
		t.Errorf("expected HostError, got %s", got.Kind)
	}
	if !strings.Contains(got.Msg, "my-fn") {
		t.Errorf("expected the builtin name in the message, got %q", got.Msg)
	}
}
