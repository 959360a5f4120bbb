package interp

import "testing"

func TestInternIsIdempotent(t *testing.T) {
	a := Intern("a-unique-test-symbol")
	b := Intern("a-unique-test-symbol")
	if a != b {
		t.Error("expected Intern to return the same *Symbol for the same name")
	}
}

func TestMakeSymbolIsNeverInterned(t *testing.T) {
	a := MakeSymbol("dup")
	b := MakeSymbol("dup")
	if a == b {
		t.Error("expected MakeSymbol to produce distinct identities for the same name")
	}
}

func TestGensymProducesDistinctSymbols(t *testing.T) {
	a := Gensym("x")
	b := Gensym("x")
	if a == b || a.Name == b.Name {
		t.Error("expected Gensym to produce distinct names on each call")
	}
}

func TestGensymDefaultPrefix(t *testing.T) {
	s := Gensym("")
	if len(s.Name) < 2 || s.Name[0] != 'G' {
		t.Errorf("expected default prefix G, got %s", s.Name)
	}
}

func TestKeywordSymbolsAreMarked(t *testing.T) {
	if !SymQuote.Keyword {
		t.Error("expected quote to be marked as a keyword symbol")
	}
	if SymList.Keyword {
		t.Error("expected list to not be a keyword symbol")
	}
}
