package interp

func registerSymbolBuiltins() {
	defPrimitive("gensym", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		prefix := ""
		if len(args) > 0 {
			s, err := wantString(args[0])
			if err != nil {
				return nil, err
			}
			prefix = string(s)
		}
		return Gensym(prefix), nil
	})
	defPrimitive("make-symbol", 1, func(it *Interp, args []Value) (Value, error) {
		s, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		return MakeSymbol(string(s)), nil
	})
	defPrimitive("intern", 1, func(it *Interp, args []Value) (Value, error) {
		s, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		return Intern(string(s)), nil
	})
	defPrimitive("symbol-name", 1, func(it *Interp, args []Value) (Value, error) {
		sym, ok := args[0].(*Symbol)
		if !ok {
			return nil, newError(KindTypeMismatch, "symbol-name: expected a symbol, got %s", TypeName(args[0]))
		}
		return String(sym.Name), nil
	})
	defPrimitive("symbol-type", 1, func(it *Interp, args []Value) (Value, error) {
		return String(TypeName(args[0])), nil
	})
}
