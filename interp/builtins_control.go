package interp

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// loadGroup deduplicates concurrent load calls for the same path
// across every Interp in the process, the way a shared HTTP cache
// would collapse concurrent fetches of the same URL. loadCache then
// retains the parsed forms so a later, non-concurrent load of the
// same path skips the host round trip and the reader entirely.
var (
	loadGroup singleflight.Group
	loadCache sync.Map // path string -> []Value
)

func registerControlBuiltins() {
	defPrimitive("apply", EncodeArity(2, true), func(it *Interp, args []Value) (Value, error) {
		fn := args[0]
		var flat []Value
		for _, a := range args[1 : len(args)-1] {
			flat = append(flat, a)
		}
		tail, err := sequenceElems(args[len(args)-1])
		if err != nil {
			return nil, err
		}
		flat = append(flat, tail...)
		return Apply(it, fn, flat)
	})

	defPrimitive("eval", 1, func(it *Interp, args []Value) (Value, error) {
		return Eval(it, args[0], nil)
	})

	defPrimitive("return", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		var v Value = Nil
		if len(args) > 0 {
			v = args[0]
		}
		if it.host != nil {
			it.host.ReturnValue(v)
		}
		it.haltedLocal.Store(true)
		return v, nil
	})

	defPrimitive("error", EncodeArity(1, true), func(it *Interp, args []Value) (Value, error) {
		msg := PrintBare(args[0])
		for _, a := range args[1:] {
			msg += " " + PrintBare(a)
		}
		return nil, newError(KindHostError, "%s", msg)
	})

	defPrimitive("load", 1, func(it *Interp, args []Value) (Value, error) {
		path, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		if it.host == nil {
			return nil, newError(KindHostError, "load: no host scope configured")
		}
		var forms []Value
		if cached, ok := loadCache.Load(string(path)); ok {
			forms = cached.([]Value)
		} else {
			v, err, _ := loadGroup.Do(string(path), func() (interface{}, error) {
				src, err := it.host.LoadFile(string(path))
				if err != nil {
					return nil, err
				}
				return ReadAll(src)
			})
			if err != nil {
				return nil, asEvalError("load", err)
			}
			forms = v.([]Value)
			loadCache.Store(string(path), forms)
		}
		var result Value = Nil
		for _, f := range forms {
			result, err = Eval(it, f, nil)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	})
}
