package interp

import "testing"

func TestPreludeDefun(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`
		(defun square (x) (* x x))
		(square 9)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 81 {
		t.Errorf("expected 81, got %s", PrintReadable(v))
	}
}

func TestPreludeLetAndLetStar(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`(let ((a 1) (b 2)) (+ a b))`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected 3, got %s", PrintReadable(v))
	}

	v, err = it.Eval(`(let* ((a 1) (b (+ a 1))) (+ a b))`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected 3, got %s", PrintReadable(v))
	}
}

func TestPreludeWhenUnless(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`(when t 1 2 3)`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected 3, got %s", PrintReadable(v))
	}

	v, err = it.Eval(`(unless nil 42)`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 42 {
		t.Errorf("expected 42, got %s", PrintReadable(v))
	}
}

func TestPreludeAndOr(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`(and 1 2 3)`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected 3, got %s", PrintReadable(v))
	}

	v, err = it.Eval(`(and 1 nil 3)`)
	if err != nil {
		t.Fatal(err)
	}
	if Truthy(v) {
		t.Errorf("expected and to short-circuit to nil, got %s", PrintReadable(v))
	}

	v, err = it.Eval(`(or nil nil 5)`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 5 {
		t.Errorf("expected 5, got %s", PrintReadable(v))
	}
}

func TestPreludeOrDoesNotDoubleEvaluate(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`
		(setq calls 0)
		(setq bump (lambda () (setq calls (+ calls 1)) calls))
		(or (bump) (bump))
		calls
	`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 1 {
		t.Errorf("expected bump to be called exactly once, got calls=%s", PrintReadable(v))
	}
}

func TestPreludeDolist(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`
		(setq total 0)
		(dolist (x (list 1 2 3)) (setq total (+ total x)))
		total
	`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 6 {
		t.Errorf("expected 6, got %s", PrintReadable(v))
	}
}

func TestPreludeIncfDecf(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`
		(setq n 5)
		(incf n)
		(incf n 10)
		(decf n 2)
		n
	`)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 14 {
		t.Errorf("expected 14, got %s", PrintReadable(v))
	}
}

func TestPreludeAppendReverse(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`(append (list 1 2) (list 3 4))`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := PrintReadable(v), "(1 2 3 4)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	v, err = it.Eval(`(reverse (list 1 2 3))`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := PrintReadable(v), "(3 2 1)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPreludeAssocMember(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`(assoc "b" (list (list "a" 1) (list "b" 2)))`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := PrintReadable(v), `("b" 2)`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	v, err = it.Eval(`(member 2 (list 1 2 3))`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := PrintReadable(v), "(2 3)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
