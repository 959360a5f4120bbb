package interp

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
)

// DemoHostScope is a minimal, self-contained HostScope: an in-memory
// variable/method table backed by reflection, plus a filesystem
// loader that reads local paths only when unrestricted. It is a fixture for this
// package's own tests and for cmd/lispc when no richer embedding host
// is supplied — not a templating engine.
type DemoHostScope struct {
	mu      sync.RWMutex
	vars    map[string]reflect.Value
	methods map[string]reflect.Value

	out io.Writer

	unrestricted bool
	halted       bool
	returned     Value
	hasReturned  bool
}

// NewDemoHostScope builds an empty scope writing to out (os.Stdout if
// nil). unrestricted mirrors Options.Unrestricted: it gates LoadFile's
// filesystem access.
func NewDemoHostScope(out io.Writer, unrestricted bool) *DemoHostScope {
	if out == nil {
		out = os.Stdout
	}
	return &DemoHostScope{
		vars:         map[string]reflect.Value{},
		methods:      map[string]reflect.Value{},
		out:          out,
		unrestricted: unrestricted,
	}
}

// Bind exposes a Go value under name for TryGet/Get/Call.
func (h *DemoHostScope) Bind(name string, v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vars[name] = reflect.ValueOf(v)
}

// BindFunc exposes a Go function under name for the bare "/name"
// script-method dispatch syntax.
func (h *DemoHostScope) BindFunc(name string, fn interface{}) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic("hostscope_demo: BindFunc requires a function value")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.methods[name] = rv
}

func (h *DemoHostScope) TryGet(name string) (Value, bool) {
	h.mu.RLock()
	rv, ok := h.vars[name]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !rv.IsValid() {
		return Nil, true
	}
	return goToValue(rv.Interface()), true
}

func (h *DemoHostScope) TryGetMethod(name string, argCount int) (HostMethod, bool) {
	h.mu.RLock()
	rv, ok := h.methods[name]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return func(args []Value) (Value, error) {
		return callReflect(rv, args)
	}, true
}

// Call invokes a reflection method named member on target.
func (h *DemoHostScope) Call(target Value, member string, args []Value) (Value, error) {
	goTarget, err := valueToGo(target)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(goTarget)
	method := rv.MethodByName(exportedName(member))
	if !method.IsValid() {
		return nil, newError(KindHostError, "no method %s on %T", member, goTarget)
	}
	return callReflect(method, args)
}

// Get implements the ":key" indexer against maps, structs and slices.
func (h *DemoHostScope) Get(target Value, key Value) (Value, error) {
	goTarget, err := valueToGo(target)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(goTarget)
	switch rv.Kind() {
	case reflect.Map:
		goKey, err := valueToGo(key)
		if err != nil {
			return nil, err
		}
		mv := rv.MapIndex(reflect.ValueOf(goKey))
		if !mv.IsValid() {
			return Nil, nil
		}
		return goToValue(mv.Interface()), nil
	case reflect.Slice, reflect.Array:
		n, ok := key.(Number)
		if !ok {
			return nil, newError(KindTypeMismatch, "indexer key must be numeric for a sequence, got %s", TypeName(key))
		}
		idx := int(n.Int64Value())
		if idx < 0 || idx >= rv.Len() {
			return nil, newError(KindTypeMismatch, "index %d out of range", idx)
		}
		return goToValue(rv.Index(idx).Interface()), nil
	case reflect.Struct:
		name, ok := key.(String)
		if !ok {
			return nil, newError(KindTypeMismatch, "indexer key must be a string for a struct, got %s", TypeName(key))
		}
		fv := rv.FieldByName(exportedName(string(name)))
		if !fv.IsValid() {
			return Nil, nil
		}
		return goToValue(fv.Interface()), nil
	default:
		return nil, newError(KindTypeMismatch, "value of type %T is not indexable", goTarget)
	}
}

// Construct has nothing registered by default; embedders add one with
// BindFunc under the name "new:" + typeName.
func (h *DemoHostScope) Construct(typeName string, args []Value) (Value, error) {
	h.mu.RLock()
	rv, ok := h.methods["new:"+typeName]
	h.mu.RUnlock()
	if !ok {
		return nil, newError(KindHostError, "no constructor registered for %s", typeName)
	}
	return callReflect(rv, args)
}

func (h *DemoHostScope) Function(qualifiedName string, args []Value) (Value, error) {
	h.mu.RLock()
	rv, ok := h.methods[qualifiedName]
	h.mu.RUnlock()
	if !ok {
		return nil, newError(KindHostError, "no static function registered for %s", qualifiedName)
	}
	return callReflect(rv, args)
}

func (h *DemoHostScope) HTMLEncode(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	return r.Replace(s)
}

func (h *DemoHostScope) Write(s string) {
	fmt.Fprint(h.out, s)
}

func (h *DemoHostScope) Dump(v Value) string      { return PrintReadable(v) }
func (h *DemoHostScope) TextDump(v Value) string  { return PrintBare(v) }
func (h *DemoHostScope) JSV(v Value) string       { return jsvEncode(v) }

// LoadFile reads any local path, relative or absolute, from disk when
// the scope is unrestricted. Remote-looking prefixes (gist:, index:,
// https://, http://) are a host concern this fixture does not implement.
func (h *DemoHostScope) LoadFile(path string) (string, error) {
	for _, prefix := range []string{"gist:", "index:", "https://", "http://"} {
		if strings.HasPrefix(path, prefix) {
			return "", newError(KindHostError, "remote loading of %q is not supported by the demo host scope", path)
		}
	}
	if !h.unrestricted {
		return "", newError(KindHostError, "filesystem access is disabled (Unrestricted is false)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", newError(KindHostError, "load %s: %v", path, err)
	}
	return string(b), nil
}

func (h *DemoHostScope) ReturnValue(v Value) {
	h.mu.Lock()
	h.returned = v
	h.hasReturned = true
	h.mu.Unlock()
}

// Returned reports the value passed to ReturnValue, if any.
func (h *DemoHostScope) Returned() (Value, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.returned, h.hasReturned
}

func (h *DemoHostScope) Halted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.halted
}

// Halt sets the halt flag so the next eval-loop iteration stops
// promptly, the cooperative cancellation mechanism of spec.md §5.
func (h *DemoHostScope) Halt() {
	h.mu.Lock()
	h.halted = true
	h.mu.Unlock()
}

func (h *DemoHostScope) AssertNextEvaluation() {
	// The demo host enforces no quota of its own; Interp's own
	// EvalQuota/haltedLocal fallback covers that when Host is set to
	// this scope without a richer quota policy.
}

func (h *DemoHostScope) SetArg(name string, v Value) error {
	h.mu.Lock()
	h.vars[name] = reflect.ValueOf(valueOrNilInterface(v))
	h.mu.Unlock()
	return nil
}

func valueOrNilInterface(v Value) interface{} {
	goV, err := valueToGo(v)
	if err != nil {
		return v
	}
	return goV
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func callReflect(fn reflect.Value, args []Value) (Value, error) {
	ft := fn.Type()
	in := make([]reflect.Value, 0, len(args))
	for i, a := range args {
		goA, err := valueToGo(a)
		if err != nil {
			return nil, err
		}
		if i < ft.NumIn() {
			in = append(in, reflect.ValueOf(goA).Convert(ft.In(i)))
		} else {
			in = append(in, reflect.ValueOf(goA))
		}
	}
	out := fn.Call(in)
	switch len(out) {
	case 0:
		return Nil, nil
	case 1:
		if errv, ok := out[0].Interface().(error); ok {
			if errv != nil {
				return nil, errv
			}
			return Nil, nil
		}
		return goToValue(out[0].Interface()), nil
	default:
		last := out[len(out)-1]
		if errv, ok := last.Interface().(error); ok && errv != nil {
			return nil, errv
		}
		return goToValue(out[0].Interface()), nil
	}
}

// goToValue lifts a Go value into the Lisp value universe.
func goToValue(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Nil
	case Value:
		return t
	case bool:
		return BoolValue(t)
	case string:
		return String(t)
	case int:
		return Int64(int64(t))
	case int32:
		return Int32(t)
	case int64:
		return Int64(t)
	case float32:
		return Float64(float64(t))
	case float64:
		return Float64(t)
	default:
		return &Opaque{TypeName: fmt.Sprintf("%T", v), Handle: v}
	}
}

// valueToGo lowers a Lisp value into a plain Go value for reflection
// calls and indexing.
func valueToGo(v Value) (interface{}, error) {
	switch t := v.(type) {
	case Null:
		return nil, nil
	case Boolean:
		return bool(t), nil
	case String:
		return string(t), nil
	case Number:
		if t.IsFloat() {
			return t.Float64Value(), nil
		}
		return t.Int64Value(), nil
	case *Opaque:
		return t.Handle, nil
	case *Symbol:
		return t.Name, nil
	default:
		return nil, newError(KindTypeMismatch, "cannot convert %s to a host value", TypeName(v))
	}
}

func jsvEncode(v Value) string {
	var b strings.Builder
	writeJSV(&b, v)
	return b.String()
}

func writeJSV(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case Null:
		b.WriteString("null")
	case Boolean:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(PrintReadable(t))
	case String:
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(string(t), `"`, `\"`))
		b.WriteByte('"')
	case *Cons:
		b.WriteByte('[')
		elems, _ := ListToSlice(t)
		for i, e := range elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSV(b, e)
		}
		b.WriteByte(']')
	case *Map:
		b.WriteByte('{')
		first := true
		for k, mv := range t.Data {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteByte('"')
			b.WriteString(k)
			b.WriteString(`":`)
			writeJSV(b, mv)
		}
		b.WriteByte('}')
	default:
		b.WriteByte('"')
		b.WriteString(PrintBare(v))
		b.WriteByte('"')
	}
}
