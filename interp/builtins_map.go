package interp

import "strings"

// registerMapBuiltins defines new-map, the constructor the reader's
// "{ :k1 v1 :k2 v2 }" literal expands to (see readMapLiteral in
// reader.go): each argument is a two-element (key value) list.
func registerMapBuiltins() {
	defPrimitive("new-map", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		m := NewMap()
		for _, a := range args {
			pair, err := sequenceElems(a)
			if err != nil {
				return nil, err
			}
			if len(pair) != 2 {
				return nil, newError(KindTypeMismatch, "new-map: expected a (key value) pair, got %s", PrintReadable(a))
			}
			key, err := mapBuiltinKey(pair[0])
			if err != nil {
				return nil, err
			}
			m.Data[key] = pair[1]
		}
		return m, nil
	})

	defPrimitive("map-keys", 1, func(it *Interp, args []Value) (Value, error) {
		m, ok := args[0].(*Map)
		if !ok {
			return nil, newError(KindTypeMismatch, "map-keys: expected a map, got %s", TypeName(args[0]))
		}
		out := make([]Value, 0, len(m.Data))
		for k := range m.Data {
			out = append(out, String(k))
		}
		return SliceToList(out), nil
	})

	defPrimitive("map-put", 3, func(it *Interp, args []Value) (Value, error) {
		m, ok := args[0].(*Map)
		if !ok {
			return nil, newError(KindTypeMismatch, "map-put: expected a map, got %s", TypeName(args[0]))
		}
		key, err := mapBuiltinKey(args[1])
		if err != nil {
			return nil, err
		}
		m.Data[key] = args[2]
		return m, nil
	})

	defPrimitive("mapp", 1, func(it *Interp, args []Value) (Value, error) {
		_, ok := args[0].(*Map)
		return BoolValue(ok), nil
	})
}

// mapBuiltinKey accepts a String or a keyword/plain Symbol as a map
// key, matching the reader's "keys must be :name symbols or strings"
// rule (spec.md's map-literal grammar).
func mapBuiltinKey(v Value) (string, error) {
	switch t := v.(type) {
	case String:
		return string(t), nil
	case *Symbol:
		return strings.TrimPrefix(t.Name, ":"), nil
	default:
		return "", newError(KindTypeMismatch, "map key must be a string or symbol, got %s", TypeName(v))
	}
}
