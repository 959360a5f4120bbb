package interp

import "fmt"

// Eval runs the trampoline loop of spec.md §4.3: each iteration either
// returns a value or rewrites (expr, frame) for the next iteration, so
// that tail calls and tail-position special forms never grow the Go
// call stack. Sub-expression evaluation (operands, test expressions,
// non-tail progn bodies) recurses through Eval normally.
func Eval(it *Interp, expr Value, frame *Frame) (Value, error) {
	for {
		it.checkQuota()
		if it.halted() {
			return Nil, nil
		}
		it.bumpEvalCount()

		switch t := expr.(type) {
		case ArgRef:
			return frame.At(t.Level).Data[t.Offset], nil
		case *Symbol:
			return evalSymbol(it, t)
		case *Lambda:
			if t.NeedsFrame && !t.IsClosure() {
				return &Lambda{Name: t.Name, Arity: t.Arity, Body: t.Body, Frame: frame, NeedsFrame: t.NeedsFrame}, nil
			}
			return t, nil
		case *Cons:
			nextExpr, nextFrame, result, done, err := evalCons(it, t, frame)
			if err != nil {
				return nil, withFrame(err, t)
			}
			if done {
				return result, nil
			}
			expr, frame = nextExpr, nextFrame
			continue
		default:
			// Null, Number, String, Boolean, *Macro, *BuiltIn,
			// *HostDelegate, *Map, *Opaque: self-evaluating.
			return expr, nil
		}
	}
}

func evalSymbol(it *Interp, sym *Symbol) (Value, error) {
	if sym == SymT {
		return True, nil
	}
	if v, ok := it.lookupGlobal(sym); ok {
		return v, nil
	}
	if it.host != nil {
		if v, ok := it.host.TryGet(sym.Name); ok {
			return coerceHostValue(v), nil
		}
	}
	if hd, ok := resolveHostDelegate(sym); ok {
		return hd, nil
	}
	return nil, newError(KindUnboundVariable, "unbound variable: %s", sym.Name)
}

// evalCons dispatches one Cons form: a keyword head selects a special
// form, anything else is resolved to a callable and applied. The
// five-tuple return mirrors Eval's loop variables directly so tail
// positions (progn's last form, a closure's last body form, a cond
// clause's body) can be handed back without recursing.
func evalCons(it *Interp, form *Cons, frame *Frame) (Value, *Frame, Value, bool, error) {
	if head, ok := form.Car.(*Symbol); ok {
		switch head {
		case SymQuote:
			arg, ok := singleArg(form)
			if !ok {
				return nil, nil, nil, false, newError(KindBadQuote, "quote takes exactly one argument")
			}
			return nil, nil, arg, true, nil
		case SymProgn:
			return evalProgn(it, form.Cdr, frame)
		case SymCond:
			return evalCond(it, form.Cdr, frame)
		case SymSetq:
			v, err := evalSetq(it, form.Cdr, frame, false)
			return nil, nil, v, true, err
		case SymExport:
			v, err := evalSetq(it, form.Cdr, frame, true)
			return nil, nil, v, true, err
		case SymLambda, SymFn:
			v, err := evalLambdaForm(it, form, frame)
			return nil, nil, v, true, err
		case SymMacro:
			v, err := evalMacroForm(it, form, frame)
			return nil, nil, v, true, err
		case SymQuasiquote:
			arg, ok := singleArg(form)
			if !ok {
				return nil, nil, nil, false, newError(KindBadQuasiquote, "quasiquote takes exactly one argument")
			}
			expanded := qqExpand(arg, 0, identityResolve)
			return expanded, frame, nil, false, nil
		case SymBoundP:
			v, err := evalBoundP(it, form.Cdr)
			return nil, nil, v, true, err
		}
	}

	headVal, err := Eval(it, form.Car, frame)
	if err != nil {
		return nil, nil, nil, false, err
	}
	argForms, tail := ListToSlice(form.Cdr)
	if !isNull(tail) {
		return nil, nil, nil, false, newError(KindSyntaxError, "improper argument list in call")
	}
	if m, ok := headVal.(*Macro); ok {
		// An expansion whose head is again a global macro is expanded
		// here too, at most maxMacroExpansions times in all.
		for n := 0; n < maxMacroExpansions; n++ {
			expanded, err := applyMacro(it, m, argForms)
			if err != nil {
				return nil, nil, nil, false, err
			}
			ec, isCons := expanded.(*Cons)
			if !isCons {
				return expanded, frame, nil, false, nil
			}
			hs, isSym := ec.Car.(*Symbol)
			if !isSym {
				return expanded, frame, nil, false, nil
			}
			if m, ok = it.lookupMacro(hs); !ok {
				return expanded, frame, nil, false, nil
			}
			argForms, _ = ListToSlice(ec.Cdr)
		}
		return nil, nil, nil, false, newError(KindMacroExpansionLimit, "macro expansion limit (%d) exceeded", maxMacroExpansions)
	}

	args := make([]Value, len(argForms))
	for i, a := range argForms {
		v, err := Eval(it, a, frame)
		if err != nil {
			return nil, nil, nil, false, err
		}
		args[i] = v
	}
	return applyCallable(it, headVal, args)
}

func identityResolve(v Value) Value { return v }

// evalProgn evaluates every form but the last for effect, then hands
// the last back as the next tail-position expression.
func evalProgn(it *Interp, body Value, frame *Frame) (Value, *Frame, Value, bool, error) {
	elems, _ := ListToSlice(body)
	if len(elems) == 0 {
		return nil, nil, Nil, true, nil
	}
	for _, e := range elems[:len(elems)-1] {
		if _, err := Eval(it, e, frame); err != nil {
			return nil, nil, nil, false, err
		}
	}
	return elems[len(elems)-1], frame, nil, false, nil
}

// evalCond evaluates clause tests in order; the first non-falsy test
// tail-loops into its body (progn-style), or, if the clause has no
// body, returns the test's value as-is.
func evalCond(it *Interp, clauses Value, frame *Frame) (Value, *Frame, Value, bool, error) {
	cur := clauses
	for {
		c, ok := cur.(*Cons)
		if !ok {
			return nil, nil, Nil, true, nil
		}
		clause, ok := c.Car.(*Cons)
		if !ok {
			return nil, nil, nil, false, newError(KindSyntaxError, "cond clause must be a list, got %s", PrintReadable(c.Car))
		}
		testVal, err := Eval(it, clause.Car, frame)
		if err != nil {
			return nil, nil, nil, false, err
		}
		if Truthy(testVal) {
			if isNull(clause.Cdr) {
				return nil, nil, testVal, true, nil
			}
			return evalProgn(it, clause.Cdr, frame)
		}
		cur = c.Cdr
	}
}

// evalSetq implements both setq (writes to a lexical ArgRef or
// globals) and export (writes to the host scope's argument bag, or to
// globals when no host scope is configured) depending on toHost.
func evalSetq(it *Interp, pairs Value, frame *Frame, toHost bool) (Value, error) {
	elems, tail := ListToSlice(pairs)
	if !isNull(tail) || len(elems)%2 != 0 {
		return nil, newError(KindSyntaxError, "setq/export requires an even number of var/value forms")
	}
	var last Value = Nil
	for i := 0; i < len(elems); i += 2 {
		val, err := Eval(it, elems[i+1], frame)
		if err != nil {
			return nil, err
		}
		switch target := elems[i].(type) {
		case ArgRef:
			frame.At(target.Level).Data[target.Offset] = val
		case *Symbol:
			if target == SymT || target.Keyword {
				return nil, newError(KindBadKeyword, "%s cannot be used as an assignment target", target.Name)
			}
			if toHost {
				if it.host == nil {
					it.setGlobal(target, val)
				} else if err := it.host.SetArg(target.Name, val); err != nil {
					return nil, asEvalError("export", err)
				}
			} else {
				it.setGlobal(target, val)
			}
		default:
			return nil, newError(KindNotVariable, "assignment target must be a symbol, got %s", PrintReadable(elems[i]))
		}
		last = val
	}
	return last, nil
}

func evalLambdaForm(it *Interp, form *Cons, frame *Frame) (Value, error) {
	rest, ok := form.Cdr.(*Cons)
	if !ok {
		return nil, newError(KindSyntaxError, "%s requires a parameter list", form.Car.(*Symbol).Name)
	}
	body, _ := ListToSlice(rest.Cdr)
	lam, err := compileBody(it, nil, rest.Car, body)
	if err != nil {
		return nil, err
	}
	if frame != nil {
		lam.Frame = frame
	}
	return lam, nil
}

func evalMacroForm(it *Interp, form *Cons, frame *Frame) (Value, error) {
	rest, ok := form.Cdr.(*Cons)
	if !ok {
		return nil, newError(KindSyntaxError, "macro requires a parameter list")
	}
	body, _ := ListToSlice(rest.Cdr)
	return compileMacroBody(it, nil, rest.Car, body)
}

func evalBoundP(it *Interp, args Value) (Value, error) {
	elems, _ := ListToSlice(args)
	for _, e := range elems {
		sym, ok := e.(*Symbol)
		if !ok {
			return nil, newError(KindSyntaxError, "bound? arguments must be symbols, got %s", PrintReadable(e))
		}
		if !it.Bound(sym) {
			return Nil, nil
		}
	}
	return True, nil
}

// applyMacro expands m against the literal, unevaluated argument
// forms: a macro body runs exactly like a function body except its
// "arguments" are forms rather than values, and it never captures a
// frame.
func applyMacro(it *Interp, m *Macro, argForms []Value) (Value, error) {
	frame, err := bindArgsGeneric(m.Arity, nil, argForms)
	if err != nil {
		return nil, err
	}
	var result Value = Nil
	for _, f := range m.Body {
		v, err := Eval(it, f, frame)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// applyCallable implements the five-way apply contract of spec.md
// §4.3. Lambda/Closure application tail-loops into its body via
// evalProgn rather than recursing, so self- and mutually-recursive
// Lisp functions reuse Eval's own trampoline instead of the Go stack.
func applyCallable(it *Interp, callee Value, args []Value) (Value, *Frame, Value, bool, error) {
	switch fn := callee.(type) {
	case *Lambda:
		newFrame, err := bindArgsGeneric(fn.Arity, fn.Frame, args)
		if err != nil {
			return nil, nil, nil, false, err
		}
		return evalProgn(it, SliceToList(fn.Body), newFrame)
	case *BuiltIn:
		if !arityOK(fn.Arity, len(args)) {
			return nil, nil, nil, false, newError(KindArityMismatch, "%s expects %s arguments, got %d", fn.Name, arityDesc(fn.Arity), len(args))
		}
		v, err := fn.Fn(it, args)
		if err != nil {
			return nil, nil, nil, false, asEvalError(fn.Name, err)
		}
		return nil, nil, v, true, nil
	case *HostDelegate:
		v, err := applyHostDelegate(it, fn, args)
		return nil, nil, v, true, err
	case *Macro:
		return nil, nil, nil, false, newError(KindTypeMismatch, "cannot apply a macro as a function; use it unevaluated as a call head")
	default:
		return nil, nil, nil, false, newError(KindTypeMismatch, "%s is not callable", TypeName(callee))
	}
}

func bindArgsGeneric(arity int, parentFrame *Frame, args []Value) (*Frame, error) {
	fixed := ArityFixed(arity)
	hasRest := ArityHasRest(arity)
	if hasRest {
		if len(args) < fixed {
			return nil, newError(KindArityMismatch, "expected at least %d arguments, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, newError(KindArityMismatch, "expected exactly %d arguments, got %d", fixed, len(args))
	}
	size := fixed
	if hasRest {
		size++
	}
	frame := NewFrame(parentFrame, size)
	copy(frame.Data[:fixed], args[:fixed])
	if hasRest {
		frame.Data[fixed] = SliceToList(args[fixed:])
	}
	return frame, nil
}

func arityOK(a, n int) bool {
	fixed := ArityFixed(a)
	if ArityHasRest(a) {
		return n >= fixed
	}
	return n == fixed
}

func arityDesc(a int) string {
	fixed := ArityFixed(a)
	if ArityHasRest(a) {
		return fmt.Sprintf("at least %d", fixed)
	}
	return fmt.Sprintf("exactly %d", fixed)
}

// Apply is the public entry point the apply builtin uses: callee has
// already been evaluated, args are already-evaluated values.
func Apply(it *Interp, callee Value, args []Value) (Value, error) {
	if lam, ok := callee.(*Lambda); ok {
		newFrame, err := bindArgsGeneric(lam.Arity, lam.Frame, args)
		if err != nil {
			return nil, err
		}
		var result Value = Nil
		for _, f := range lam.Body {
			v, err := Eval(it, f, newFrame)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	}
	_, _, result, done, err := applyCallable(it, callee, args)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, newError(KindHostError, "internal: apply did not converge")
	}
	return result, nil
}
