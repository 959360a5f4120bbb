package interp

import (
	"path/filepath"
	"strings"
)

func registerStringBuiltins() {
	defPrimitive("str", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		var b strings.Builder
		for _, a := range coerceSeqArgs(args) {
			b.WriteString(PrintBare(a))
		}
		return String(b.String()), nil
	})
	defPrimitive("string-downcase", 1, func(it *Interp, args []Value) (Value, error) {
		s, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		return String(strings.ToLower(string(s))), nil
	})
	defPrimitive("string-upcase", 1, func(it *Interp, args []Value) (Value, error) {
		s, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		return String(strings.ToUpper(string(s))), nil
	})
	defPrimitive("string?", 1, func(it *Interp, args []Value) (Value, error) {
		_, ok := args[0].(String)
		return BoolValue(ok), nil
	})
	defPrimitive("glob", 2, func(it *Interp, args []Value) (Value, error) {
		pattern, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		var out []Value
		for _, e := range elems {
			s, ok := e.(String)
			if !ok {
				continue
			}
			matched, err := filepath.Match(string(pattern), string(s))
			if err != nil {
				return nil, newError(KindSyntaxError, "glob: %v", err)
			}
			if matched {
				out = append(out, e)
			}
		}
		return SliceToList(out), nil
	})
}
