package interp

func registerPredBuiltins() {
	defPrimitive("eq", 2, func(it *Interp, args []Value) (Value, error) {
		return BoolValue(Eq(args[0], args[1])), nil
	})
	defPrimitive("eql", 2, func(it *Interp, args []Value) (Value, error) {
		return BoolValue(Eql(args[0], args[1])), nil
	})
	defPrimitive("equal", 2, func(it *Interp, args []Value) (Value, error) {
		return BoolValue(Equal(args[0], args[1])), nil
	})
	defPrimitive("not", 1, func(it *Interp, args []Value) (Value, error) {
		return BoolValue(!Truthy(args[0])), nil
	})
}
