package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// printer renders a Value tree to text. bare selects princ-style output
// (unquoted strings); readable selects the default, reader-round-trippable
// form. visiting tracks cells currently on the active print stack so a
// genuine cycle (e.g. (rplacd x x)) is caught and rendered as "..."
// instead of recursing forever; structure sharing that is not a cycle
// still prints in full, matching a plain tree-walking printer.
type printer struct {
	bare     bool
	visiting map[*Cons]bool
	b        strings.Builder
}

// PrintReadable renders v in the default, reader-round-trippable mode:
// strings are quoted and escaped, Null prints as "nil", and (quote x)/
// (quasiquote x)/(unquote x)/(unquote-splicing x) print using their
// '/`/,/,@ shorthand.
func PrintReadable(v Value) string {
	p := &printer{visiting: map[*Cons]bool{}}
	p.print(v)
	return p.b.String()
}

// PrintBare renders v in princ/str mode: strings are emitted verbatim,
// without surrounding quotes or escapes.
func PrintBare(v Value) string {
	p := &printer{bare: true, visiting: map[*Cons]bool{}}
	p.print(v)
	return p.b.String()
}

func (p *printer) print(v Value) {
	switch t := v.(type) {
	case Null:
		p.b.WriteString(NilTokenName)
	case Boolean:
		if t {
			p.b.WriteString(TrueSymbolName)
		} else {
			p.b.WriteString(NilTokenName)
		}
	case *Symbol:
		p.b.WriteString(t.Name)
	case Number:
		p.printNumber(t)
	case String:
		if p.bare {
			p.b.WriteString(string(t))
		} else {
			p.printQuotedString(string(t))
		}
	case *Cons:
		p.printCons(t)
	case *Lambda:
		kind := "lambda"
		if t.IsClosure() {
			kind = "closure"
		}
		fmt.Fprintf(&p.b, "#<%s %s>", kind, nameOrAnon(t.Name))
	case *Macro:
		fmt.Fprintf(&p.b, "#<macro %s>", nameOrAnon(t.Name))
	case *BuiltIn:
		fmt.Fprintf(&p.b, "#<builtin %s>", t.Name)
	case *HostDelegate:
		fmt.Fprintf(&p.b, "#<host %s>", t.Name)
	case ArgRef:
		name := "?"
		if t.Sym != nil {
			name = t.Sym.Name
		}
		fmt.Fprintf(&p.b, "#<argref %d:%d %s>", t.Level, t.Offset, name)
	case *Map:
		p.printMap(t)
	case *Opaque:
		fmt.Fprintf(&p.b, "#<%s>", t.TypeName)
	default:
		fmt.Fprintf(&p.b, "%v", v)
	}
}

func nameOrAnon(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}

func (p *printer) printNumber(n Number) {
	switch n.Kind {
	case KindInt32:
		p.b.WriteString(strconv.FormatInt(int64(n.I32), 10))
	case KindInt64:
		p.b.WriteString(strconv.FormatInt(n.I64, 10))
	default:
		s := strconv.FormatFloat(n.F64, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		p.b.WriteString(s)
	}
}

var stringEscapes = map[byte]string{
	'\b': `\b`, '\t': `\t`, '\n': `\n`, '\v': `\v`, '\f': `\f`, '\r': `\r`,
	'"': `\"`, '\\': `\\`,
}

func (p *printer) printQuotedString(s string) {
	p.b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if esc, ok := stringEscapes[s[i]]; ok {
			p.b.WriteString(esc)
			continue
		}
		p.b.WriteByte(s[i])
	}
	p.b.WriteByte('"')
}

func (p *printer) printCons(c *Cons) {
	if !p.bare {
		if sym, ok := c.Car.(*Symbol); ok {
			if arg, ok2 := singleArg(c); ok2 {
				switch sym {
				case SymQuote:
					p.b.WriteByte('\'')
					p.print(arg)
					return
				case SymQuasiquote:
					p.b.WriteByte('`')
					p.print(arg)
					return
				case SymUnquote:
					p.b.WriteByte(',')
					p.print(arg)
					return
				case SymUnquoteSplicing:
					p.b.WriteString(",@")
					p.print(arg)
					return
				}
			}
		}
	}
	p.b.WriteByte('(')
	p.printElem(c)
	p.b.WriteByte(')')
}

// printElem prints c as the head of an open list (caller wrote '(')
// and recurses down the Cdr chain, tracking visiting for cycle safety.
func (p *printer) printElem(c *Cons) {
	if p.visiting[c] {
		p.b.WriteString("...")
		return
	}
	p.visiting[c] = true
	defer delete(p.visiting, c)
	p.print(c.Car)
	p.printTail(c.Cdr)
}

func (p *printer) printTail(v Value) {
	switch t := v.(type) {
	case Null:
		return
	case *Cons:
		if p.visiting[t] {
			p.b.WriteString(" ...")
			return
		}
		p.b.WriteByte(' ')
		p.printElem(t)
	default:
		p.b.WriteString(" . ")
		p.print(v)
	}
}

func (p *printer) printMap(m *Map) {
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p.b.WriteString("{ ")
	for _, k := range keys {
		p.b.WriteByte(':')
		p.b.WriteString(k)
		p.b.WriteByte(' ')
		p.print(m.Data[k])
		p.b.WriteByte(' ')
	}
	p.b.WriteByte('}')
}

// singleArg reports whether c is exactly (sym arg) and returns arg.
func singleArg(c *Cons) (Value, bool) {
	rest, ok := c.Cdr.(*Cons)
	if !ok {
		return nil, false
	}
	if !isNull(rest.Cdr) {
		return nil, false
	}
	return rest.Car, true
}
