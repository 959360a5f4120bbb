package interp

func registerSeqBuiltins() {
	defPrimitive("cons", 2, func(it *Interp, args []Value) (Value, error) {
		return NewCons(args[0], args[1]), nil
	})
	defPrimitive("car", 1, func(it *Interp, args []Value) (Value, error) {
		c, ok := args[0].(*Cons)
		if !ok {
			if isNull(args[0]) {
				return Nil, nil
			}
			return nil, newError(KindTypeMismatch, "car: expected a cons, got %s", TypeName(args[0]))
		}
		return c.Car, nil
	})
	defPrimitive("cdr", 1, func(it *Interp, args []Value) (Value, error) {
		c, ok := args[0].(*Cons)
		if !ok {
			if isNull(args[0]) {
				return Nil, nil
			}
			return nil, newError(KindTypeMismatch, "cdr: expected a cons, got %s", TypeName(args[0]))
		}
		return c.Cdr, nil
	})
	defPrimitive("atom", 1, func(it *Interp, args []Value) (Value, error) {
		_, ok := args[0].(*Cons)
		return BoolValue(!ok), nil
	})
	defPrimitive("consp", 1, func(it *Interp, args []Value) (Value, error) {
		_, ok := args[0].(*Cons)
		return BoolValue(ok), nil
	})
	defPrimitive("seq?", 1, func(it *Interp, args []Value) (Value, error) {
		switch args[0].(type) {
		case *Cons, Null, *Map:
			return True, nil
		default:
			return Nil, nil
		}
	})
	defPrimitive("listp", 1, func(it *Interp, args []Value) (Value, error) {
		switch args[0].(type) {
		case *Cons, Null:
			return True, nil
		default:
			return Nil, nil
		}
	})
	defPrimitive("endp", 1, func(it *Interp, args []Value) (Value, error) {
		return BoolValue(isNull(args[0])), nil
	})
	defPrimitive("list", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		return SliceToList(args), nil
	})
	defPrimitive("rplaca", 2, func(it *Interp, args []Value) (Value, error) {
		c, ok := args[0].(*Cons)
		if !ok {
			return nil, newError(KindTypeMismatch, "rplaca: expected a cons, got %s", TypeName(args[0]))
		}
		c.Car = args[1]
		return c, nil
	})
	defPrimitive("rplacd", 2, func(it *Interp, args []Value) (Value, error) {
		c, ok := args[0].(*Cons)
		if !ok {
			return nil, newError(KindTypeMismatch, "rplacd: expected a cons, got %s", TypeName(args[0]))
		}
		c.Cdr = args[1]
		return c, nil
	})
	defPrimitive("length", 1, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[0])
		if err != nil {
			return nil, err
		}
		return Int64(int64(len(elems))), nil
	})
	defPrimitive("nth", 2, func(it *Interp, args []Value) (Value, error) {
		idx, err := wantInt(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(elems) {
			return Nil, nil
		}
		return elems[idx], nil
	})
	defPrimitive("first", 1, nthFixed(0))
	defPrimitive("second", 1, nthFixed(1))
	defPrimitive("third", 1, nthFixed(2))
	defPrimitive("rest", 1, func(it *Interp, args []Value) (Value, error) {
		if c, ok := args[0].(*Cons); ok {
			return c.Cdr, nil
		}
		elems, err := sequenceElems(args[0])
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return Nil, nil
		}
		return SliceToList(elems[1:]), nil
	})
	defPrimitive("skip", 2, func(it *Interp, args []Value) (Value, error) {
		n, err := wantInt(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		if n > len(elems) {
			n = len(elems)
		}
		return SliceToList(elems[n:]), nil
	})
	defPrimitive("take", 2, func(it *Interp, args []Value) (Value, error) {
		n, err := wantInt(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		if n > len(elems) {
			n = len(elems)
		}
		return SliceToList(elems[:n]), nil
	})
	defPrimitive("subseq", EncodeArity(2, true), func(it *Interp, args []Value) (Value, error) {
		start, err := wantInt(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		end := len(elems)
		if len(args) > 2 {
			e, err := wantInt(args[2])
			if err != nil {
				return nil, err
			}
			if e >= 0 {
				end = e
			}
		}
		if start < 0 {
			start = 0
		}
		if end > len(elems) {
			end = len(elems)
		}
		if start > end {
			start = end
		}
		return SliceToList(elems[start:end]), nil
	})
}

func nthFixed(idx int) BuiltInFunc {
	return func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[0])
		if err != nil {
			return nil, err
		}
		if idx >= len(elems) {
			return Nil, nil
		}
		return elems[idx], nil
	}
}
