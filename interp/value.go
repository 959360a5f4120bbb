package interp

import "fmt"

// Value is the discriminated union of every first-class Lisp datum.
// Concrete cases are distinguished by Go type switch rather than by a
// single tagged struct: Null, *Cons, *Symbol, Number, String, Boolean,
// the Function variants (*Lambda, *Macro, *BuiltIn, *HostDelegate),
// ArgRef, *Map and *Opaque.
type Value interface {
	isValue()
}

// Null is the empty list / false-ish absence. It carries no state, so
// the zero value is the only value.
type Null struct{}

func (Null) isValue() {}

// Nil is the canonical Null instance, printed as "nil".
var Nil = Null{}

// Cons is a mutable pair. Lists are right-nested chains of Cons cells
// terminated by Null; a non-Null, non-Cons Cdr makes the cell a dotted
// pair. Car and Cdr are mutated in place by Rplaca/Rplacd so that cell
// identity survives mutation, matching the aliasing law in spec.md §8.
type Cons struct {
	Car Value
	Cdr Value
}

func (*Cons) isValue() {}

// NewCons allocates a fresh pair.
func NewCons(car, cdr Value) *Cons {
	return &Cons{Car: car, Cdr: cdr}
}

// Symbol is an identifier. Interned symbols are unique per name (see
// symbol.go); uninterned ones (from make-symbol, or the reader's EOF
// sentinel) are never found by Intern again, which is what gives them
// a distinct identity from same-named interned symbols.
type Symbol struct {
	Name       string
	Keyword    bool // names a special form; blocked from setq/export
	uninterned bool
}

func (*Symbol) isValue() {}

func (s *Symbol) String() string { return s.Name }

// Number is the numeric tower: int32, int64 or float64, tracked by Kind.
// Arithmetic promotes to the widest kind among its operands (float64
// dominates; otherwise the wider integer kind wins).
type NumKind uint8

const (
	KindInt32 NumKind = iota
	KindInt64
	KindFloat64
)

type Number struct {
	Kind NumKind
	I32  int32
	I64  int64
	F64  float64
}

func (Number) isValue() {}

func Int32(v int32) Number    { return Number{Kind: KindInt32, I32: v} }
func Int64(v int64) Number    { return Number{Kind: KindInt64, I64: v} }
func Float64(v float64) Number { return Number{Kind: KindFloat64, F64: v} }

// Float64Value returns n widened to float64 regardless of its Kind.
func (n Number) Float64Value() float64 {
	switch n.Kind {
	case KindInt32:
		return float64(n.I32)
	case KindInt64:
		return float64(n.I64)
	default:
		return n.F64
	}
}

// Int64Value returns n truncated/widened to int64. Only meaningful
// for integer-kind numbers; callers check Kind first where it matters.
func (n Number) Int64Value() int64 {
	switch n.Kind {
	case KindInt32:
		return int64(n.I32)
	case KindInt64:
		return n.I64
	default:
		return int64(n.F64)
	}
}

func (n Number) IsFloat() bool { return n.Kind == KindFloat64 }

// String is immutable UTF-8 text.
type String string

func (String) isValue() {}

// Boolean is the two-valued case backing the truthy singleton t
// (Boolean(true)) and the host-boundary false value (Boolean(false)).
// Null and Boolean(false) are the only falsy values; everything else,
// including Boolean(true), is truthy.
type Boolean bool

func (Boolean) isValue() {}

// True is the value bound to the interned symbol t.
var True = Boolean(true)

// False is never the result of ordinary Lisp evaluation; a host value
// Boolean(false) is turned into Null by coerceHostValue (see host.go).
var False = Boolean(false)

// ArgRef is a resolved lexical address produced by the compiler: walk
// Level frames up the chain, then index Offset into that frame's data.
// Sym is retained for error messages and the printer only.
type ArgRef struct {
	Level  int
	Offset int
	Sym    *Symbol
}

func (ArgRef) isValue() {}

// Lambda is a compiled function body together with its arity. Frame is
// nil for a plain Lambda (no captured free variables, or evaluated at
// true top level); once non-nil it behaves as a Closure. NeedsFrame is
// computed at compile time: it is true when the body contains an
// ArgRef addressing an enclosing frame (Level >= 1), meaning a fresh
// Closure must be minted with the current frame every time this
// template is reached during evaluation.
type Lambda struct {
	Name       string
	Arity      int
	Body       []Value
	Frame      *Frame
	NeedsFrame bool
}

func (*Lambda) isValue() {}

// IsClosure reports whether l has already captured a frame.
func (l *Lambda) IsClosure() bool { return l.Frame != nil }

// Macro is a compiled body that is expanded rather than called. It
// never captures a frame: macro expansion happens against the literal
// argument forms, not a lexical environment.
type Macro struct {
	Name  string
	Arity int
	Body  []Value
}

func (*Macro) isValue() {}

// BuiltInFunc is the native callback behind a BuiltIn primitive.
type BuiltInFunc func(it *Interp, args []Value) (Value, error)

// BuiltIn wraps a native primitive. Arity follows the same signed
// convention as Lambda.Arity: negative means variadic with a minimum
// of -Arity-1 arguments.
type BuiltIn struct {
	Name  string
	Arity int
	Fn    BuiltInFunc
}

func (*BuiltIn) isValue() {}

// HostKind distinguishes the host-dispatch heuristics of spec.md §4.3.
type HostKind uint8

const (
	HostIndexer HostKind = iota
	HostMember
	HostStatic
	HostConstructor
	HostScriptMethod
)

// HostDelegate is the dynamic-dispatch wrapper constructed when a
// symbol is unbound in globals and host scope but matches one of the
// named host-call syntaxes. Name is the syntax-stripped identifier
// (e.g. the member name with its leading '.' removed).
type HostDelegate struct {
	Kind HostKind
	Name string
}

func (*HostDelegate) isValue() {}

// Map is the {…}/new-map mapping type: string keys to arbitrary values.
type Map struct {
	Data map[string]Value
}

func (*Map) isValue() {}

func NewMap() *Map { return &Map{Data: map[string]Value{}} }

// Opaque carries a host object (iterator, stream, …) with its type
// identity preserved for symbol-type and the printer.
type Opaque struct {
	TypeName string
	Handle   interface{}
}

func (*Opaque) isValue() {}

// Frame holds the values bound by one function call. Closures capture
// an ancestor frame by reference, so frames are heap objects that can
// outlive the call that created them.
type Frame struct {
	Anc  *Frame
	Data []Value
}

func NewFrame(anc *Frame, n int) *Frame {
	return &Frame{Anc: anc, Data: make([]Value, n)}
}

// At walks level frames up the ancestor chain from f.
func (f *Frame) At(level int) *Frame {
	for ; level > 0; level-- {
		f = f.Anc
	}
	return f
}

// ---- arity encoding shared by Lambda and BuiltIn ----

// ArityFixed returns the number of fixed parameters encoded by a.
func ArityFixed(a int) int {
	if a < 0 {
		return -a - 1
	}
	return a
}

// ArityHasRest reports whether a encodes a rest parameter.
func ArityHasRest(a int) bool { return a < 0 }

// EncodeArity builds the signed arity value for n fixed parameters,
// optionally with a rest parameter.
func EncodeArity(fixed int, hasRest bool) int {
	if hasRest {
		return -(fixed + 1)
	}
	return fixed
}

// ---- truthiness, equality, list helpers ----

// Truthy implements spec.md's two falsy values: Null and Boolean(false).
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Boolean:
		return bool(t)
	default:
		return true
	}
}

// BoolValue converts a Go bool to the canonical Lisp boolean (t/nil),
// used at the one coercion point described in DESIGN.md's Open
// Question decision for host booleans.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return Nil
}

func isNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// ListToSlice walks a (possibly improper) list, returning its elements
// and the final tail (Nil for a proper list).
func ListToSlice(v Value) (elems []Value, tail Value) {
	for {
		c, ok := v.(*Cons)
		if !ok {
			return elems, v
		}
		elems = append(elems, c.Car)
		v = c.Cdr
	}
}

// SliceToList builds a proper list from elems.
func SliceToList(elems []Value) Value {
	var out Value = Nil
	for i := len(elems) - 1; i >= 0; i-- {
		out = NewCons(elems[i], out)
	}
	return out
}

// SliceToDottedList builds a list from elems terminated by tail instead
// of Nil.
func SliceToDottedList(elems []Value, tail Value) Value {
	out := tail
	for i := len(elems) - 1; i >= 0; i-- {
		out = NewCons(elems[i], out)
	}
	return out
}

// Eq implements identity comparison: pointer identity for the
// heap-allocated cases, value identity for value types.
func Eq(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av == bv
	case *Cons:
		bv, ok := b.(*Cons)
		return ok && av == bv
	case *Map:
		bv, ok := b.(*Map)
		return ok && av == bv
	case *Opaque:
		bv, ok := b.(*Opaque)
		return ok && av == bv
	case *Lambda:
		bv, ok := b.(*Lambda)
		return ok && av == bv
	case *Macro:
		bv, ok := b.(*Macro)
		return ok && av == bv
	case *BuiltIn:
		bv, ok := b.(*BuiltIn)
		return ok && av == bv
	case *HostDelegate:
		bv, ok := b.(*HostDelegate)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av.Kind == bv.Kind && av.I32 == bv.I32 && av.I64 == bv.I64 && av.F64 == bv.F64
	default:
		return false
	}
}

// Eql is value equality for atoms (numbers compare by numeric value
// regardless of Kind, strings and booleans by value) and identity for
// everything else.
func Eql(a, b Value) bool {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if aok && bok {
		if an.IsFloat() || bn.IsFloat() {
			return an.Float64Value() == bn.Float64Value()
		}
		return an.Int64Value() == bn.Int64Value()
	}
	return Eq(a, b)
}

// Equal is deep structural equality, recursing through Cons and Map.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Cons:
		bv, ok := b.(*Cons)
		return ok && Equal(av.Car, bv.Car) && Equal(av.Cdr, bv.Cdr)
	case *Map:
		bv, ok := b.(*Map)
		if !ok || len(av.Data) != len(bv.Data) {
			return false
		}
		for k, v := range av.Data {
			ov, ok := bv.Data[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return Eql(a, b)
	}
}

// TypeName returns the printer-facing type name used by symbol-type.
func TypeName(v Value) string {
	switch t := v.(type) {
	case Null:
		return "nil"
	case *Cons:
		return "cons"
	case *Symbol:
		return "symbol"
	case Number:
		if t.IsFloat() {
			return "double"
		}
		return "integer"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case *Lambda:
		if t.IsClosure() {
			return "closure"
		}
		return "lambda"
	case *Macro:
		return "macro"
	case *BuiltIn:
		return "builtin"
	case *HostDelegate:
		return "host"
	case ArgRef:
		return "argref"
	case *Map:
		return "map"
	case *Opaque:
		return t.TypeName
	default:
		return fmt.Sprintf("%T", v)
	}
}
