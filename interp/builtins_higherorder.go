package interp

import "sort"

func registerHigherOrderBuiltins() {
	defPrimitive("map", 2, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]Value, len(elems))
		for i, e := range elems {
			v, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return SliceToList(out), nil
	})

	defPrimitive("where", 2, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		var out []Value
		for _, e := range elems {
			v, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			if Truthy(v) {
				out = append(out, e)
			}
		}
		return SliceToList(out), nil
	})

	defPrimitive("map-where", 3, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[2])
		if err != nil {
			return nil, err
		}
		var out []Value
		for _, e := range elems {
			keep, err := Apply(it, args[1], []Value{e})
			if err != nil {
				return nil, err
			}
			if !Truthy(keep) {
				continue
			}
			v, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return SliceToList(out), nil
	})

	defPrimitive("dorun", 2, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			if _, err := Apply(it, args[0], []Value{e}); err != nil {
				return nil, err
			}
		}
		return Nil, nil
	})

	defPrimitive("reduce", EncodeArity(2, true), func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		if len(args) >= 3 {
			acc := args[2]
			for _, e := range elems {
				acc, err = Apply(it, args[0], []Value{acc, e})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		}
		if len(elems) == 0 {
			return nil, newError(KindTypeMismatch, "reduce of an empty sequence with no seed")
		}
		acc := elems[0]
		for _, e := range elems[1:] {
			acc, err = Apply(it, args[0], []Value{acc, e})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	defPrimitive("flatten", 1, func(it *Interp, args []Value) (Value, error) {
		var out []Value
		var walk func(Value)
		walk = func(v Value) {
			elems, err := sequenceElems(v)
			if err != nil {
				out = append(out, v)
				return
			}
			for _, e := range elems {
				if _, isCons := e.(*Cons); isCons || isNull(e) {
					walk(e)
				} else {
					out = append(out, e)
				}
			}
		}
		walk(args[0])
		return SliceToList(out), nil
	})

	defPrimitive("sort", 1, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[0])
		if err != nil {
			return nil, err
		}
		return sortNatural(elems)
	})

	defPrimitive("sort-by", EncodeArity(2, true), func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		keys := make([]Value, len(elems))
		for i, e := range elems {
			k, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		less, err := comparer(it, args, 2)
		if err != nil {
			return nil, err
		}
		idx := make([]int, len(elems))
		for i := range idx {
			idx[i] = i
		}
		var sortErr error
		sort.SliceStable(idx, func(a, b int) bool {
			if sortErr != nil {
				return false
			}
			ok, err := less(keys[idx[a]], keys[idx[b]])
			if err != nil {
				sortErr = err
			}
			return ok
		})
		if sortErr != nil {
			return nil, sortErr
		}
		out := make([]Value, len(elems))
		for i, j := range idx {
			out[i] = elems[j]
		}
		return SliceToList(out), nil
	})

	defPrimitive("order-by", 2, func(it *Interp, args []Value) (Value, error) {
		keySpecs, err := sequenceElems(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		specs := make([]orderBySpec, len(keySpecs))
		for i, ks := range keySpecs {
			specs[i], err = parseOrderBySpec(it, ks)
			if err != nil {
				return nil, err
			}
		}
		idx := make([]int, len(elems))
		for i := range idx {
			idx[i] = i
		}
		var sortErr error
		sort.SliceStable(idx, func(a, b int) bool {
			if sortErr != nil {
				return false
			}
			less, err := orderByLess(it, specs, elems[idx[a]], elems[idx[b]])
			if err != nil {
				sortErr = err
			}
			return less
		})
		if sortErr != nil {
			return nil, sortErr
		}
		out := make([]Value, len(elems))
		for i, j := range idx {
			out[i] = elems[j]
		}
		return SliceToList(out), nil
	})

	defPrimitive("group-by", EncodeArity(2, true), func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		m := NewMap()
		var order []string
		groups := map[string][]Value{}
		for _, e := range elems {
			kv, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			key := PrintBare(kv)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], e)
		}
		for _, k := range order {
			m.Data[k] = SliceToList(groups[k])
		}
		return m, nil
	})

	defPrimitive("some", 2, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			v, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			if Truthy(v) {
				return True, nil
			}
		}
		return Nil, nil
	})

	defPrimitive("every", 2, func(it *Interp, args []Value) (Value, error) {
		elems, err := sequenceElems(args[1])
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			v, err := Apply(it, args[0], []Value{e})
			if err != nil {
				return nil, err
			}
			if !Truthy(v) {
				return Nil, nil
			}
		}
		return True, nil
	})

	defPrimitive("sum", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		nums, err := numberArgs(args)
		if err != nil {
			return nil, err
		}
		acc := Int32(0)
		for _, n := range nums {
			acc = addNum(acc, n)
		}
		return acc, nil
	})

	defPrimitive("average", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		nums, err := numberArgs(args)
		if err != nil {
			return nil, err
		}
		total := 0.0
		for _, n := range nums {
			total += n.Float64Value()
		}
		return Float64(total / float64(len(nums))), nil
	})
}

func sortNatural(elems []Value) (Value, error) {
	out := append([]Value(nil), elems...)
	var sortErr error
	sort.SliceStable(out, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		less, err := naturalLess(out[a], out[b])
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return SliceToList(out), nil
}

func naturalLess(a, b Value) (bool, error) {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false, newError(KindTypeMismatch, "cannot compare %s and %s", TypeName(a), TypeName(b))
		}
		return av.Float64Value() < bv.Float64Value(), nil
	case String:
		bv, ok := b.(String)
		if !ok {
			return false, newError(KindTypeMismatch, "cannot compare %s and %s", TypeName(a), TypeName(b))
		}
		return av < bv, nil
	default:
		return false, newError(KindTypeMismatch, "%s has no natural order", TypeName(a))
	}
}

// orderBySpec is one key of an order-by call: a keyfn, an optional
// comparer, and a descending flag, matching the "{:key … :comparer …
// :desc t}" map shape of spec.md §4.5.
type orderBySpec struct {
	key      Value
	cmp      Value
	desc     bool
}

func parseOrderBySpec(it *Interp, v Value) (orderBySpec, error) {
	m, ok := v.(*Map)
	if !ok {
		return orderBySpec{key: v}, nil
	}
	spec := orderBySpec{}
	if k, ok := m.Data["key"]; ok {
		spec.key = k
	}
	if c, ok := m.Data["comparer"]; ok {
		spec.cmp = c
	}
	if d, ok := m.Data["desc"]; ok {
		spec.desc = Truthy(d)
	}
	return spec, nil
}

func orderByLess(it *Interp, specs []orderBySpec, a, b Value) (bool, error) {
	for _, spec := range specs {
		ka, kb := a, b
		if spec.key != nil {
			var err error
			ka, err = Apply(it, spec.key, []Value{a})
			if err != nil {
				return false, err
			}
			kb, err = Apply(it, spec.key, []Value{b})
			if err != nil {
				return false, err
			}
		}
		var lt, gt bool
		if spec.cmp != nil {
			v, err := Apply(it, spec.cmp, []Value{ka, kb})
			if err != nil {
				return false, err
			}
			n, ok := v.(Number)
			if !ok {
				return false, newError(KindTypeMismatch, "order-by comparer must return a number")
			}
			lt, gt = n.Float64Value() < 0, n.Float64Value() > 0
		} else {
			var err error
			lt, err = naturalLess(ka, kb)
			if err != nil {
				return false, err
			}
			if !lt {
				gt, err = naturalLess(kb, ka)
				if err != nil {
					return false, err
				}
			}
		}
		if spec.desc {
			lt, gt = gt, lt
		}
		if lt {
			return true, nil
		}
		if gt {
			return false, nil
		}
	}
	return false, nil
}

// comparer returns a less-than predicate: the caller-supplied function
// at args[idx] if present, else natural ordering.
func comparer(it *Interp, args []Value, idx int) (func(a, b Value) (bool, error), error) {
	if len(args) <= idx {
		return naturalLess, nil
	}
	fn := args[idx]
	return func(a, b Value) (bool, error) {
		v, err := Apply(it, fn, []Value{a, b})
		if err != nil {
			return false, err
		}
		return Truthy(v), nil
	}, nil
}
