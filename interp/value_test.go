package interp

import "testing"

func TestArityEncodingRoundTrips(t *testing.T) {
	cases := []struct {
		fixed   int
		hasRest bool
	}{
		{0, false}, {3, false}, {0, true}, {2, true},
	}
	for _, c := range cases {
		a := EncodeArity(c.fixed, c.hasRest)
		if ArityFixed(a) != c.fixed {
			t.Errorf("EncodeArity(%d, %v): ArityFixed = %d, want %d", c.fixed, c.hasRest, ArityFixed(a), c.fixed)
		}
		if ArityHasRest(a) != c.hasRest {
			t.Errorf("EncodeArity(%d, %v): ArityHasRest = %v, want %v", c.fixed, c.hasRest, ArityHasRest(a), c.hasRest)
		}
	}
}

func TestTruthyFalsyValues(t *testing.T) {
	if Truthy(Nil) {
		t.Error("expected Nil to be falsy")
	}
	if Truthy(Boolean(false)) {
		t.Error("expected Boolean(false) to be falsy")
	}
	if !Truthy(Boolean(true)) {
		t.Error("expected Boolean(true) to be truthy")
	}
	if !Truthy(Int32(0)) {
		t.Error("expected Int32(0) to be truthy (only Null/false are falsy)")
	}
}

func TestListToSliceAndBack(t *testing.T) {
	elems := []Value{Int32(1), Int32(2), Int32(3)}
	lst := SliceToList(elems)
	got, tail := ListToSlice(lst)
	if len(got) != 3 || !isNull(tail) {
		t.Fatalf("expected 3 elements and a nil tail, got %d elements, tail=%s", len(got), PrintReadable(tail))
	}
	for i, v := range got {
		if !Eql(v, elems[i]) {
			t.Errorf("element %d: expected %s, got %s", i, PrintReadable(elems[i]), PrintReadable(v))
		}
	}
}

func TestSliceToDottedList(t *testing.T) {
	lst := SliceToDottedList([]Value{Int32(1), Int32(2)}, Int32(3))
	elems, tail := ListToSlice(lst)
	if len(elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elems))
	}
	if n, ok := tail.(Number); !ok || n.Int64Value() != 3 {
		t.Errorf("expected a dotted tail of 3, got %s", PrintReadable(tail))
	}
}

func TestEqIdentityVsEqlValue(t *testing.T) {
	a := Int32(1)
	b := Int64(1)
	if Eq(a, b) {
		t.Error("expected Eq to distinguish Number kinds")
	}
	if !Eql(a, b) {
		t.Error("expected Eql to compare numbers by value across kinds")
	}
}

func TestEqlComparesFloatsAcrossKinds(t *testing.T) {
	if !Eql(Int32(2), Float64(2.0)) {
		t.Error("expected Eql to treat 2 and 2.0 as equal")
	}
	if Eql(Int32(2), Float64(2.5)) {
		t.Error("expected Eql to distinguish 2 from 2.5")
	}
}

func TestEqualDeepStructuralComparison(t *testing.T) {
	a := SliceToList([]Value{Int32(1), SliceToList([]Value{Int32(2), Int32(3)})})
	b := SliceToList([]Value{Int32(1), SliceToList([]Value{Int32(2), Int32(3)})})
	if a == b {
		t.Fatal("test setup error: expected distinct cons chains")
	}
	if !Equal(a, b) {
		t.Error("expected structurally identical lists to be Equal")
	}
}

func TestEqualDistinguishesDifferentMaps(t *testing.T) {
	m1 := NewMap()
	m1.Data["a"] = Int32(1)
	m2 := NewMap()
	m2.Data["a"] = Int32(2)
	if Equal(m1, m2) {
		t.Error("expected maps with different values to be unequal")
	}
}

func TestTypeNameCoreTypes(t *testing.T) {
	cases := map[Value]string{
		Nil:                    "nil",
		NewCons(Int32(1), Nil): "cons",
		Intern("x"):            "symbol",
		Int32(1):               "integer",
		String("s"):            "string",
	}
	for v, want := range cases {
		if got := TypeName(v); got != want {
			t.Errorf("TypeName(%s): expected %s, got %s", PrintReadable(v), want, got)
		}
	}
}
