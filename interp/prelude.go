package interp

import _ "embed"

// preludeSource is the bootstrap Lisp source evaluated once into
// defaultGlobals by seedPrelude, the way the teacher embeds its own
// standard-library source rather than hand-writing it in Go.
//
//go:embed prelude.lisp
var preludeSource string

// seedPrelude evaluates prelude.lisp against a bootstrap Interp whose
// globals map is defaultGlobals itself (not a copy), so every
// definition it makes via setq lands directly in the process-wide
// defaults that every later New(...) interpreter is seeded from.
func seedPrelude() {
	boot := &Interp{globals: defaultGlobals}
	forms, err := ReadAll(preludeSource)
	if err != nil {
		panic("interp: prelude.lisp failed to parse: " + err.Error())
	}
	for _, f := range forms {
		if _, err := Eval(boot, f, nil); err != nil {
			panic("interp: prelude.lisp failed to evaluate: " + err.Error())
		}
	}
}
