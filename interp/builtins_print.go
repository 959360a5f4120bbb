package interp

import "fmt"

// registerPrintBuiltins defines the Printer-facing primitives of
// spec.md §4.5: readable vs. bare rendering, HTML-encoded output via
// the host, and the three debug-dump views.
func registerPrintBuiltins() {
	defPrimitive("print", 1, func(it *Interp, args []Value) (Value, error) {
		writeOut(it, PrintReadable(args[0])+"\n")
		return args[0], nil
	})

	defPrimitive("prin1", 1, func(it *Interp, args []Value) (Value, error) {
		writeOut(it, PrintReadable(args[0]))
		return args[0], nil
	})

	defPrimitive("princ", 1, func(it *Interp, args []Value) (Value, error) {
		writeOut(it, PrintBare(args[0]))
		return args[0], nil
	})

	defPrimitive("println", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		for _, a := range args {
			writeOut(it, PrintBare(a))
		}
		writeOut(it, "\n")
		return Nil, nil
	})

	defPrimitive("printlns", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		for i, a := range args {
			if i > 0 {
				writeOut(it, " ")
			}
			writeOut(it, PrintBare(a))
		}
		writeOut(it, "\n")
		return Nil, nil
	})

	defPrimitive("terpri", 0, func(it *Interp, args []Value) (Value, error) {
		writeOut(it, "\n")
		return Nil, nil
	})

	defPrimitive("pr", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		return htmlPrint(it, args, PrintReadable)
	})

	defPrimitive("prn", EncodeArity(0, true), func(it *Interp, args []Value) (Value, error) {
		v, err := htmlPrint(it, args, PrintReadable)
		if err != nil {
			return nil, err
		}
		writeOut(it, "\n")
		return v, nil
	})

	defPrimitive("dump", 1, func(it *Interp, args []Value) (Value, error) {
		if it.host == nil {
			return String(PrintReadable(args[0])), nil
		}
		return String(it.host.Dump(args[0])), nil
	})

	defPrimitive("textdump", 1, func(it *Interp, args []Value) (Value, error) {
		if it.host == nil {
			return String(PrintBare(args[0])), nil
		}
		return String(it.host.TextDump(args[0])), nil
	})

	defPrimitive("htmldump", 1, func(it *Interp, args []Value) (Value, error) {
		if it.host == nil {
			return String(PrintReadable(args[0])), nil
		}
		return String(it.host.HTMLEncode(it.host.Dump(args[0]))), nil
	})
}

// writeOut sends s to the host scope's sink if one is configured,
// falling back to the Interp's own stdout (the REPL/CLI case).
func writeOut(it *Interp, s string) {
	if it.host != nil {
		it.host.Write(s)
		return
	}
	if it.stdout != nil {
		fmt.Fprint(it.stdout, s)
	}
}

// htmlPrint renders each argument with render, HTML-encodes it through
// the host, and writes it, returning the last argument (or Nil) the
// way pr/prn report their result.
func htmlPrint(it *Interp, args []Value, render func(Value) string) (Value, error) {
	if it.host == nil {
		return nil, newError(KindHostError, "pr/prn require a host scope for HTML encoding")
	}
	var last Value = Nil
	for _, a := range args {
		it.host.Write(it.host.HTMLEncode(render(a)))
		last = a
	}
	return last, nil
}
