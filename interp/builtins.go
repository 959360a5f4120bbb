package interp

// registerBuiltins seeds the process-wide default globals with every
// primitive in the library, grouped the way spec.md §4.5 groups them.
// Each group lives in its own file (builtins_arith.go, builtins_seq.go,
// …) purely for readability; registration itself is centralized here
// so New's defaultGlobals snapshot always sees a consistent set.
func registerBuiltins() {
	registerArithBuiltins()
	registerSeqBuiltins()
	registerHigherOrderBuiltins()
	registerPredBuiltins()
	registerStringBuiltins()
	registerSymbolBuiltins()
	registerControlBuiltins()
	registerMapBuiltins()
	registerPrintBuiltins()
}

func defPrimitive(name string, arity int, fn BuiltInFunc) {
	setDefaultGlobal(Intern(name), &BuiltIn{Name: name, Arity: arity, Fn: fn})
}

// coerceSeqArgs implements the sequence-argument convention shared by
// every variadic sequence primitive: called with exactly one Cons (or
// Null) argument, that argument's elements are the sequence; called
// any other way, the argument list itself is the sequence.
func coerceSeqArgs(args []Value) []Value {
	if len(args) == 1 {
		switch t := args[0].(type) {
		case Null:
			return nil
		case *Cons:
			elems, tail := ListToSlice(t)
			if isNull(tail) {
				return elems
			}
		}
	}
	return args
}

// sequenceElems extracts the element slice of v, accepting a proper
// list or a Map (values only, per iteration order undefined) and
// reporting NotIterable for anything else, for primitives (map,
// length, nth, …) that take one sequence-shaped argument rather than a
// variadic tail.
func sequenceElems(v Value) ([]Value, error) {
	switch t := v.(type) {
	case Null:
		return nil, nil
	case *Cons:
		elems, tail := ListToSlice(t)
		if !isNull(tail) {
			return nil, newError(KindNotIterable, "improper list is not a sequence")
		}
		return elems, nil
	case *Map:
		out := make([]Value, 0, len(t.Data))
		for _, mv := range t.Data {
			out = append(out, mv)
		}
		return out, nil
	default:
		return nil, newError(KindNotIterable, "%s is not a sequence", TypeName(v))
	}
}

func wantNumber(v Value) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return Number{}, newError(KindTypeMismatch, "expected a number, got %s", TypeName(v))
	}
	return n, nil
}

func wantString(v Value) (String, error) {
	s, ok := v.(String)
	if !ok {
		return "", newError(KindTypeMismatch, "expected a string, got %s", TypeName(v))
	}
	return s, nil
}

func wantInt(v Value) (int, error) {
	n, err := wantNumber(v)
	if err != nil {
		return 0, err
	}
	return int(n.Int64Value()), nil
}
