package interp

import (
	"strconv"
	"strings"
)

// HostMethod is a callable resolved through TryGetMethod.
type HostMethod func(args []Value) (Value, error)

// HostScope is the set of reverse interfaces the evaluator consults
// when a symbol is unbound in globals (spec.md §6). Any method may be
// absent in spirit (a minimal HostScope can always return zero
// values/false), but the interface itself is not optional: an Interp
// with a nil Host simply never finds anything through it.
type HostScope interface {
	// TryGet is the variable-lookup fallback consulted after globals.
	TryGet(name string) (Value, bool)

	// TryGetMethod resolves a callable host function by name and
	// argument count, for the bare-name "/name" dispatch syntax.
	TryGetMethod(name string, argCount int) (HostMethod, bool)

	// Call invokes member on target with args, backing ".member"
	// dispatch.
	Call(target Value, member string, args []Value) (Value, error)

	// Get indexes target by key, backing ":key" dispatch.
	Get(target Value, key Value) (Value, error)

	// Construct builds a value of typeName from args, backing the
	// trailing-"." constructor syntax.
	Construct(typeName string, args []Value) (Value, error)

	// Function resolves a qualified (namespace-containing) name,
	// backing the embedded-"/" static-reference syntax.
	Function(qualifiedName string, args []Value) (Value, error)

	// HTMLEncode escapes s for the pr/prn primitives.
	HTMLEncode(s string) string

	// Write streams s to the host's output sink.
	Write(s string)

	// Dump, TextDump and JSV are the three debug-formatter views of v.
	Dump(v Value) string
	TextDump(v Value) string
	JSV(v Value) string

	// LoadFile returns the text at path, or an error if access is
	// restricted or the path does not exist.
	LoadFile(path string) (string, error)

	// ReturnValue records v as the top-level return value.
	ReturnValue(v Value)

	// SetArg writes name into the host scope's own argument bag,
	// backing the export special form. Not one of spec.md §6's named
	// reverse interfaces, but required to give export somewhere to
	// write; see DESIGN.md's Open Question decisions.
	SetArg(name string, v Value) error

	// Halted reports whether evaluation must stop promptly.
	Halted() bool

	// AssertNextEvaluation gives the host a chance to update Halted
	// before the next eval-loop iteration (quota enforcement).
	AssertNextEvaluation()
}

// hostDispatchKind classifies an unbound symbol's name against the
// five host-call syntaxes of spec.md §4.3. The leading/trailing
// character tests are tried in a fixed order so overlapping forms
// (e.g. a name that is both indexed and contains '/') resolve
// deterministically.
func hostDispatchKind(name string) (HostKind, string, bool) {
	switch {
	case strings.HasPrefix(name, ":"):
		return HostIndexer, strings.TrimPrefix(name, ":"), true
	case strings.HasPrefix(name, ".") && len(name) > 1:
		return HostMember, strings.TrimPrefix(name, "."), true
	case strings.HasSuffix(name, ".") && len(name) > 1:
		return HostConstructor, strings.TrimSuffix(name, "."), true
	case strings.Contains(name, "/") && !strings.HasPrefix(name, "/"):
		return HostStatic, strings.ReplaceAll(name, "/", "."), true
	case strings.HasPrefix(name, "/") && len(name) > 1:
		return HostScriptMethod, strings.TrimPrefix(name, "/"), true
	default:
		return 0, "", false
	}
}

// resolveHostDelegate builds the dynamic-dispatch wrapper for an
// unbound symbol whose name matches one of the host-call syntaxes, or
// reports false if it matches none.
func resolveHostDelegate(sym *Symbol) (*HostDelegate, bool) {
	kind, name, ok := hostDispatchKind(sym.Name)
	if !ok {
		return nil, false
	}
	return &HostDelegate{Kind: kind, Name: name}, true
}

// applyHostDelegate forwards a HostDelegate application to the host
// scope, coercing the result at the boundary per spec.md's host
// boolean/absence convention: a Go bool becomes t/Null, and a nil
// host-returned Value becomes Null (see DESIGN.md's Open Question
// decision on boundary coercion).
func applyHostDelegate(it *Interp, hd *HostDelegate, args []Value) (Value, error) {
	switch hd.Kind {
	case HostIndexer:
		if len(args) != 1 {
			return nil, newError(KindArityMismatch, ":%s expects exactly one argument", hd.Name)
		}
		key := indexerKey(hd.Name)
		// Core Map/Cons values are indexed directly: (:key map) and
		// (:0 list) are core-language operations, not host dispatch,
		// even though they share the ":name" unbound-symbol syntax
		// with the host indexer.
		if v, ok, err := indexCoreValue(args[0], key); ok {
			if err != nil {
				return nil, err
			}
			return v, nil
		}
		if it.host == nil {
			return nil, newError(KindHostError, "no host scope available for %s", hd.Name)
		}
		v, err := it.host.Get(args[0], key)
		if err != nil {
			return nil, asEvalError(hd.Name, err)
		}
		return coerceHostValue(v), nil
	case HostMember:
		if len(args) == 0 {
			return nil, newError(KindArityMismatch, ".%s expects a target argument", hd.Name)
		}
		if it.host == nil {
			return nil, newError(KindHostError, "no host scope available for %s", hd.Name)
		}
		v, err := it.host.Call(args[0], hd.Name, args[1:])
		if err != nil {
			return nil, asEvalError(hd.Name, err)
		}
		return coerceHostValue(v), nil
	case HostConstructor:
		if it.host == nil {
			return nil, newError(KindHostError, "no host scope available for %s", hd.Name)
		}
		v, err := it.host.Construct(hd.Name, args)
		if err != nil {
			return nil, asEvalError(hd.Name, err)
		}
		return coerceHostValue(v), nil
	case HostStatic:
		if it.host == nil {
			return nil, newError(KindHostError, "no host scope available for %s", hd.Name)
		}
		v, err := it.host.Function(hd.Name, args)
		if err != nil {
			return nil, asEvalError(hd.Name, err)
		}
		return coerceHostValue(v), nil
	case HostScriptMethod:
		if it.host == nil {
			return nil, newError(KindHostError, "no host scope available for %s", hd.Name)
		}
		fn, ok := it.host.TryGetMethod(hd.Name, len(args))
		if !ok {
			return nil, newError(KindUnboundVariable, "no host method named %s", hd.Name)
		}
		v, err := fn(args)
		if err != nil {
			return nil, asEvalError(hd.Name, err)
		}
		return coerceHostValue(v), nil
	default:
		return nil, newError(KindHostError, "unknown host dispatch kind for %s", hd.Name)
	}
}

// indexerKey parses an index name into Int32 when it looks numeric,
// so that (:0 v) indexes a sequence by position while (:name v) indexes
// a map by string key, per spec.md §4.3.
func indexerKey(name string) Value {
	if n, err := strconv.ParseInt(name, 10, 32); err == nil {
		return Int32(int32(n))
	}
	return String(name)
}

// coerceHostValue is the single boundary-coercion point for values
// coming back from the host: a nil interface becomes Null, a Boolean
// becomes t or Null, and everything else passes through as-is.
func coerceHostValue(v Value) Value {
	if v == nil {
		return Nil
	}
	if b, ok := v.(Boolean); ok {
		return BoolValue(bool(b))
	}
	return v
}

// indexCoreValue handles ":key"/":0" indexing against the core Map
// and list types directly, returning ok=false for anything it doesn't
// recognize so the caller falls through to the host scope instead.
func indexCoreValue(target Value, key Value) (Value, bool, error) {
	switch t := target.(type) {
	case *Map:
		s, ok := key.(String)
		if !ok {
			return nil, true, newError(KindTypeMismatch, "map indexer key must be a string, got %s", TypeName(key))
		}
		v, ok := t.Data[string(s)]
		if !ok {
			return Nil, true, nil
		}
		return v, true, nil
	case *Cons, Null:
		n, ok := key.(Number)
		if !ok {
			return nil, true, newError(KindTypeMismatch, "list indexer key must be numeric, got %s", TypeName(key))
		}
		elems, err := sequenceElems(t)
		if err != nil {
			return nil, true, err
		}
		idx := int(n.Int64Value())
		if idx < 0 || idx >= len(elems) {
			return Nil, true, nil
		}
		return elems[idx], true, nil
	default:
		return nil, false, nil
	}
}
