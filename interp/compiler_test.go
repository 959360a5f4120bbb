package interp

import "testing"

func compileLambdaSrc(t *testing.T, src string) *Lambda {
	t.Helper()
	forms, err := ReadAll(src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected exactly one form, got %d", len(forms))
	}
	c, ok := forms[0].(*Cons)
	if !ok {
		t.Fatalf("expected a cons form, got %s", TypeName(forms[0]))
	}
	it := New(Options{})
	lam, err := evalLambdaForm(it, c, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	l, ok := lam.(*Lambda)
	if !ok {
		t.Fatalf("expected *Lambda, got %s", TypeName(lam))
	}
	return l
}

func TestCompileLexicalAddressing(t *testing.T) {
	lam := compileLambdaSrc(t, "(lambda (x) x)")
	ref, ok := lam.Body[0].(ArgRef)
	if !ok {
		t.Fatalf("expected ArgRef body, got %s", PrintReadable(lam.Body[0]))
	}
	if ref.Level != 0 || ref.Offset != 0 {
		t.Errorf("expected level 0 offset 0, got level %d offset %d", ref.Level, ref.Offset)
	}
}

func TestCompileNestedLambdaIncrementsLevel(t *testing.T) {
	lam := compileLambdaSrc(t, "(lambda (x) (lambda (y) x))")
	inner, ok := lam.Body[0].(*Lambda)
	if !ok {
		t.Fatalf("expected nested *Lambda, got %s", PrintReadable(lam.Body[0]))
	}
	ref, ok := inner.Body[0].(ArgRef)
	if !ok {
		t.Fatalf("expected ArgRef body, got %s", PrintReadable(inner.Body[0]))
	}
	if ref.Level != 1 {
		t.Errorf("expected level 1 (outer frame), got %d", ref.Level)
	}
	if !inner.NeedsFrame {
		t.Error("expected inner lambda to need a frame, since it references an outer ArgRef")
	}
}

func TestCompileLambdaWithNoFreeVarsDoesNotNeedFrame(t *testing.T) {
	lam := compileLambdaSrc(t, "(lambda (x) (lambda (y) y))")
	inner, ok := lam.Body[0].(*Lambda)
	if !ok {
		t.Fatalf("expected nested *Lambda, got %s", PrintReadable(lam.Body[0]))
	}
	if inner.NeedsFrame {
		t.Error("expected inner lambda not to need a frame: it only references its own parameter")
	}
}

func TestCompileRestParameter(t *testing.T) {
	lam := compileLambdaSrc(t, "(lambda (x &rest more) more)")
	if !ArityHasRest(lam.Arity) {
		t.Errorf("expected arity to encode a rest parameter, got %d", lam.Arity)
	}
}

func TestCompileDuplicateParamIsSyntaxError(t *testing.T) {
	forms, err := ReadAll("(lambda (x x) x)")
	if err != nil {
		t.Fatal(err)
	}
	it := New(Options{})
	_, err = evalLambdaForm(it, forms[0].(*Cons), nil)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindSyntaxError {
		t.Errorf("expected SyntaxError for duplicate parameter, got %v", err)
	}
}

func TestCompileMacroExpansionLimit(t *testing.T) {
	it := New(Options{})
	_, err := it.Eval(`
		(setq loopy (macro () (cons 'loopy nil)))
		(loopy)
	`)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindMacroExpansionLimit {
		t.Errorf("expected MacroExpansionLimit, got %v", err)
	}
}

func TestCompileQuasiquoteResolvesUnquoteLexically(t *testing.T) {
	lam := compileLambdaSrc(t, "(lambda (x) `(a ,x b))")
	c, ok := lam.Body[0].(*Cons)
	if !ok {
		t.Fatalf("expected a cons, got %s", PrintReadable(lam.Body[0]))
	}
	elems, tail := ListToSlice(c)
	if !isNull(tail) || len(elems) != 4 || elems[0] != Value(SymAppend) {
		t.Fatalf("expected (append <3 fragments>), got %s", PrintReadable(c))
	}
	frag, _ := ListToSlice(elems[2])
	if len(frag) != 2 {
		t.Fatalf("expected the unquoted fragment to be (list x), got %s", PrintReadable(elems[2]))
	}
	if _, ok := frag[1].(ArgRef); !ok {
		t.Errorf("expected the unquoted x to compile to an ArgRef, got %s", PrintReadable(frag[1]))
	}
}
