package interp

import "testing"

func readOne(t *testing.T, src string) Value {
	t.Helper()
	r := NewReader(src)
	v, err := r.Read()
	if err != nil {
		t.Fatalf("Read(%q): %v", src, err)
	}
	return v
}

func TestReadAtoms(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"-7", "-7"},
		{"3.5", "3.5"},
		{"nil", "nil"},
		{"foo", "foo"},
		{`"hi\nthere"`, `"hi\nthere"`},
	}
	for _, c := range cases {
		got := PrintReadable(readOne(t, c.src))
		if got != c.want {
			t.Errorf("Read(%q) printed %q, want %q", c.src, got, c.want)
		}
	}
}

func TestReadList(t *testing.T) {
	v := readOne(t, "(1 2 3)")
	elems, tail := ListToSlice(v)
	if len(elems) != 3 || !isNull(tail) {
		t.Fatalf("got %s", PrintReadable(v))
	}
}

func TestReadDottedList(t *testing.T) {
	v := readOne(t, "(1 . 2)")
	c, ok := v.(*Cons)
	if !ok {
		t.Fatalf("not a cons: %s", PrintReadable(v))
	}
	if PrintReadable(c.Car) != "1" || PrintReadable(c.Cdr) != "2" {
		t.Fatalf("got %s", PrintReadable(v))
	}
}

func TestReadQuoteFamily(t *testing.T) {
	cases := map[string]string{
		"'x":  "(quote x)",
		"`x":  "(quasiquote x)",
		",x":  "(unquote x)",
		",@x": "(unquote-splicing x)",
	}
	for src, want := range cases {
		v := readOne(t, src)
		// print in bare-cons form by checking structure rather than the
		// shorthand the printer reintroduces
		elems, tail := ListToSlice(v)
		if len(elems) != 2 || !isNull(tail) {
			t.Fatalf("Read(%q) = %s, want two-element list", src, PrintReadable(v))
		}
		got := "(" + elems[0].(*Symbol).Name + " " + PrintReadable(elems[1]) + ")"
		if got != want {
			t.Errorf("Read(%q) = %s, want %s", src, got, want)
		}
	}
}

func TestReadBracketList(t *testing.T) {
	v := readOne(t, "[1 2 3]")
	if PrintReadable(v) != "(list 1 2 3)" {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadMapLiteral(t *testing.T) {
	v := readOne(t, "{ :a 1 :b 2 }")
	if PrintReadable(v) != `(new-map (list "a" 1) (list "b" 2))` {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadMapLiteralCommas(t *testing.T) {
	v := readOne(t, "{:a 1, :b 2}")
	if PrintReadable(v) != `(new-map (list "a" 1) (list "b" 2))` {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadAnonFnBarePercent(t *testing.T) {
	v := readOne(t, "#(+ % 1)")
	if PrintReadable(v) != "(fn (_a1) (+ _a1 1))" {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadAnonFnIndexedPercent(t *testing.T) {
	v := readOne(t, "#(+ %1 %2)")
	if PrintReadable(v) != "(fn (_a1 _a2) (+ _a1 _a2))" {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadComment(t *testing.T) {
	v := readOne(t, "; a comment\n42")
	if PrintReadable(v) != "42" {
		t.Errorf("got %s", PrintReadable(v))
	}
}

func TestReadEOF(t *testing.T) {
	r := NewReader("   ")
	v, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Value(EOF) {
		t.Errorf("expected EOF sentinel, got %v", v)
	}
}

func TestReadMissingCloseParenIsSyntaxError(t *testing.T) {
	r := NewReader("(1 2")
	_, err := r.Read()
	if err == nil {
		t.Fatal("expected error")
	}
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindSyntaxError {
		t.Fatalf("got %v", err)
	}
}

func TestReaderRoundTrip(t *testing.T) {
	srcs := []string{
		"42", "-3.25", `"a\tb"`, "foo", "(1 2 (3 . 4))", "'(a b c)",
	}
	for _, src := range srcs {
		v := readOne(t, src)
		printed := PrintReadable(v)
		v2 := readOne(t, printed)
		if !Equal(v, v2) {
			t.Errorf("round trip of %q: %s != %s", src, PrintReadable(v), PrintReadable(v2))
		}
	}
}

func TestReadAllMultipleForms(t *testing.T) {
	vals, err := ReadAll("1 2 3")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 {
		t.Fatalf("got %d forms", len(vals))
	}
}
