package interp

import (
	"math"
	"math/rand"
)

// numKindRank orders Kind so arithmetic can promote to the widest
// operand: float64 dominates, otherwise the wider integer kind wins.
func numKindRank(k NumKind) int { return int(k) }

func promote(a, b NumKind) NumKind {
	if numKindRank(a) > numKindRank(b) {
		return a
	}
	return b
}

func numFrom(kind NumKind, f float64) Number {
	switch kind {
	case KindInt32:
		return Int32(int32(f))
	case KindInt64:
		return Int64(int64(f))
	default:
		return Float64(f)
	}
}

func addNum(a, b Number) Number {
	kind := promote(a.Kind, b.Kind)
	if kind == KindFloat64 {
		return Float64(a.Float64Value() + b.Float64Value())
	}
	if kind == KindInt64 {
		return Int64(a.Int64Value() + b.Int64Value())
	}
	return Int32(a.I32 + b.I32)
}

func subNum(a, b Number) Number {
	kind := promote(a.Kind, b.Kind)
	if kind == KindFloat64 {
		return Float64(a.Float64Value() - b.Float64Value())
	}
	if kind == KindInt64 {
		return Int64(a.Int64Value() - b.Int64Value())
	}
	return Int32(a.I32 - b.I32)
}

func mulNum(a, b Number) Number {
	kind := promote(a.Kind, b.Kind)
	if kind == KindFloat64 {
		return Float64(a.Float64Value() * b.Float64Value())
	}
	if kind == KindInt64 {
		return Int64(a.Int64Value() * b.Int64Value())
	}
	return Int32(a.I32 * b.I32)
}

func divNum(a, b Number) (Number, error) {
	if !b.IsFloat() && b.Int64Value() == 0 {
		return Number{}, newError(KindTypeMismatch, "division by zero")
	}
	if !a.IsFloat() && !b.IsFloat() && a.Int64Value()%b.Int64Value() == 0 {
		kind := promote(a.Kind, b.Kind)
		return numFrom(kind, float64(a.Int64Value()/b.Int64Value())), nil
	}
	return Float64(a.Float64Value() / b.Float64Value()), nil
}

func registerArithBuiltins() {
	defPrimitive("+", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		acc := Int32(0)
		for _, a := range coerceSeqArgs(args) {
			n, err := wantNumber(a)
			if err != nil {
				return nil, err
			}
			acc = addNum(acc, n)
		}
		return acc, nil
	})

	defPrimitive("-", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		nums, err := numberArgs(args)
		if err != nil {
			return nil, err
		}
		if len(nums) == 1 {
			return subNum(Int32(0), nums[0]), nil
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			acc = subNum(acc, n)
		}
		return acc, nil
	})

	defPrimitive("*", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		acc := Int32(1)
		for _, a := range coerceSeqArgs(args) {
			n, err := wantNumber(a)
			if err != nil {
				return nil, err
			}
			acc = mulNum(acc, n)
		}
		return acc, nil
	})

	defPrimitive("/", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		nums, err := numberArgs(args)
		if err != nil {
			return nil, err
		}
		if len(nums) == 1 {
			return divNum(Int32(1), nums[0])
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			acc, err = divNum(acc, n)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	defPrimitive("%", 2, func(it *Interp, args []Value) (Value, error) { return modOp(args, false) })
	defPrimitive("mod", 2, func(it *Interp, args []Value) (Value, error) { return modOp(args, true) })

	defPrimitive("<", 2, func(it *Interp, args []Value) (Value, error) {
		a, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		b, err := wantNumber(args[1])
		if err != nil {
			return nil, err
		}
		return BoolValue(a.Float64Value() < b.Float64Value()), nil
	})

	defPrimitive("min", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return foldExtremum(args, func(a, b float64) bool { return a < b })
	})
	defPrimitive("max", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return foldExtremum(args, func(a, b float64) bool { return a > b })
	})

	defPrimitive("truncate", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return roundingOp(args, math.Trunc)
	})
	defPrimitive("ceiling", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return roundingOp(args, math.Ceil)
	})
	defPrimitive("floor", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return roundingOp(args, math.Floor)
	})
	defPrimitive("round", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		return roundingOp(args, math.Round)
	})

	defPrimitive("abs", 1, unaryFloatFn(math.Abs))
	defPrimitive("sqrt", 1, unaryFloatFn(math.Sqrt))
	defPrimitive("isqrt", 1, func(it *Interp, args []Value) (Value, error) {
		n, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		return Int64(int64(math.Sqrt(n.Float64Value()))), nil
	})
	defPrimitive("sin", 1, unaryFloatFn(math.Sin))
	defPrimitive("cos", 1, unaryFloatFn(math.Cos))
	defPrimitive("tan", 1, unaryFloatFn(math.Tan))
	defPrimitive("exp", 1, unaryFloatFn(math.Exp))
	defPrimitive("expt", 2, func(it *Interp, args []Value) (Value, error) {
		a, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		b, err := wantNumber(args[1])
		if err != nil {
			return nil, err
		}
		r := math.Pow(a.Float64Value(), b.Float64Value())
		if !a.IsFloat() && !b.IsFloat() {
			return Int64(int64(r)), nil
		}
		return Float64(r), nil
	})
	defPrimitive("random", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		if len(args) == 0 {
			return Float64(rand.Float64()), nil
		}
		n, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		if n.IsFloat() {
			return Float64(rand.Float64() * n.Float64Value()), nil
		}
		return Int64(rand.Int63n(n.Int64Value())), nil
	})
	defPrimitive("zerop", 1, func(it *Interp, args []Value) (Value, error) {
		n, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		return BoolValue(n.Float64Value() == 0), nil
	})

	defPrimitive("logand", EncodeArity(0, true), intFold(func(a, b int64) int64 { return a & b }, -1))
	defPrimitive("logior", EncodeArity(0, true), intFold(func(a, b int64) int64 { return a | b }, 0))
	defPrimitive("logxor", EncodeArity(0, true), intFold(func(a, b int64) int64 { return a ^ b }, 0))
}

func numberArgs(args []Value) ([]Number, error) {
	seq := coerceSeqArgs(args)
	out := make([]Number, len(seq))
	for i, a := range seq {
		n, err := wantNumber(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func modOp(args []Value, divisorSign bool) (Value, error) {
	a, err := wantNumber(args[0])
	if err != nil {
		return nil, err
	}
	b, err := wantNumber(args[1])
	if err != nil {
		return nil, err
	}
	if !a.IsFloat() && !b.IsFloat() {
		ai, bi := a.Int64Value(), b.Int64Value()
		if bi == 0 {
			return nil, newError(KindTypeMismatch, "division by zero")
		}
		r := ai % bi
		if divisorSign && r != 0 && (r < 0) != (bi < 0) {
			r += bi
		}
		return Int64(r), nil
	}
	af, bf := a.Float64Value(), b.Float64Value()
	r := math.Mod(af, bf)
	if divisorSign && r != 0 && (r < 0) != (bf < 0) {
		r += bf
	}
	return Float64(r), nil
}

func foldExtremum(args []Value, better func(a, b float64) bool) (Value, error) {
	nums, err := numberArgs(args)
	if err != nil {
		return nil, err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if better(n.Float64Value(), best.Float64Value()) {
			best = n
		}
	}
	return best, nil
}

func roundingOp(args []Value, round func(float64) float64) (Value, error) {
	n, err := wantNumber(args[0])
	if err != nil {
		return nil, err
	}
	divisor := 1.0
	if len(args) > 1 {
		d, err := wantNumber(args[1])
		if err != nil {
			return nil, err
		}
		divisor = d.Float64Value()
	}
	return Int64(int64(round(n.Float64Value() / divisor))), nil
}

func unaryFloatFn(fn func(float64) float64) BuiltInFunc {
	return func(it *Interp, args []Value) (Value, error) {
		n, err := wantNumber(args[0])
		if err != nil {
			return nil, err
		}
		return Float64(fn(n.Float64Value())), nil
	}
}

func intFold(op func(a, b int64) int64, identity int64) BuiltInFunc {
	return func(it *Interp, args []Value) (Value, error) {
		acc := identity
		for _, a := range coerceSeqArgs(args) {
			n, err := wantNumber(a)
			if err != nil {
				return nil, err
			}
			acc = op(acc, n.Int64Value())
		}
		return Int64(acc), nil
	}
}
