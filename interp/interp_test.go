package interp

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewSeedsDefaultsIndependently(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	if err := a.Set("only-in-a", Int32(1)); err != nil {
		t.Fatal(err)
	}
	if b.Bound(Intern("only-in-a")) {
		t.Error("expected b's globals to be independent of a's")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	it := New(Options{})
	if err := it.Set("scratch", Int32(1)); err != nil {
		t.Fatal(err)
	}
	it.Reset()
	if it.Bound(Intern("scratch")) {
		t.Error("expected Reset to drop globals not in the process-wide defaults")
	}
}

func TestSetRejectsReservedNames(t *testing.T) {
	it := New(Options{})
	if err := it.Set("t", Nil); err == nil {
		t.Error("expected an error rebinding t")
	}
}

func TestImportDefinesAcrossForms(t *testing.T) {
	it := New(Options{})
	if err := it.Import("(setq a 1) (setq b (+ a 1))"); err != nil {
		t.Fatal(err)
	}
	v, err := it.Eval("b")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 2 {
		t.Errorf("expected 2, got %s", PrintReadable(v))
	}
}

func TestEvalWithContextCancellation(t *testing.T) {
	it := New(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := it.EvalWithContext(ctx, `
		(setq spin (lambda () (spin)))
		(spin)
	`)
	if err == nil {
		t.Fatal("expected cancellation to stop an infinite tail loop")
	}
}

func TestEvalQuotaHaltsInfiniteLoopWithHostPresent(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	it := New(Options{Host: host, EvalQuota: 1000})
	done := make(chan error, 1)
	go func() {
		_, err := it.Eval(`
			(setq spin (lambda () (spin)))
			(spin)
		`)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the eval quota to stop an infinite tail loop even with a host scope configured")
	}
	if it.EvaluationCount() < 1000 {
		t.Errorf("expected evaluation to run up to the quota, stopped at %d", it.EvaluationCount())
	}
}

func TestEvalQuotaDoesNotHaltUnderBudget(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	it := New(Options{Host: host, EvalQuota: 1000})
	v, err := it.Eval(`(+ 1 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected 3, got %s", PrintReadable(v))
	}
}

func TestREPLEchoesResultsAndRecoversFromErrors(t *testing.T) {
	it := New(Options{})
	in := strings.NewReader("(+ 1 2)\nundefined-name-xyz\n")
	var out, errs strings.Builder
	done := make(chan error, 1)
	go func() { done <- it.REPL(in, &out, &errs) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("REPL did not exit after input was exhausted")
	}
	if !strings.Contains(out.String(), "3") {
		t.Errorf("expected the REPL to echo 3, got %q", out.String())
	}
	if !strings.Contains(errs.String(), "EvalException") {
		t.Errorf("expected an EvalException for the unbound name, got %q", errs.String())
	}
}

func TestBindCommandLineExposesArgsAndEnv(t *testing.T) {
	it := New(Options{Args: []string{"a", "b"}, Env: map[string]string{"FOO": "bar"}})
	v, err := it.Eval("(length *args*)")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 2 {
		t.Errorf("expected 2 args, got %s", PrintReadable(v))
	}
	v, err = it.Eval("(:FOO *env*)")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(String); !ok || string(s) != "bar" {
		t.Errorf("expected \"bar\", got %s", PrintReadable(v))
	}
}
