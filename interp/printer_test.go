package interp

import "testing"

func TestPrintReadableQuoteShorthand(t *testing.T) {
	forms, err := ReadAll("'a `a ,a ,@a")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"'a", "`a", ",a", ",@a"}
	for i, f := range forms {
		if got := PrintReadable(f); got != want[i] {
			t.Errorf("form %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestPrintReadableQuotesStrings(t *testing.T) {
	if got, want := PrintReadable(String("a\"b")), `"a\"b"`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPrintBareDoesNotQuoteStrings(t *testing.T) {
	if got, want := PrintBare(String("a\"b")), `a"b`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPrintReadableNull(t *testing.T) {
	if got, want := PrintReadable(Nil), "nil"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPrintConsList(t *testing.T) {
	lst := SliceToList([]Value{Int32(1), Int32(2), Int32(3)})
	if got, want := PrintReadable(lst), "(1 2 3)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPrintDottedPair(t *testing.T) {
	pair := &Cons{Car: Int32(1), Cdr: Int32(2)}
	if got, want := PrintReadable(pair), "(1 . 2)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPrintCycleRendersEllipsis(t *testing.T) {
	c := &Cons{Car: Int32(1), Cdr: Nil}
	c.Cdr = c
	got := PrintReadable(c)
	if got == "" {
		t.Fatal("expected a non-empty rendering of a cyclic cons")
	}
	if !containsEllipsis(got) {
		t.Errorf("expected a cyclic cons to render with an ellipsis marker, got %s", got)
	}
}

func containsEllipsis(s string) bool {
	for i := 0; i+3 <= len(s); i++ {
		if s[i:i+3] == "..." {
			return true
		}
	}
	return false
}

func TestPrintMap(t *testing.T) {
	it := New(Options{})
	v, err := it.Eval(`{ :a 1 }`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := PrintReadable(v), "{ :a 1 }"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
