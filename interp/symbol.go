package interp

import (
	"strconv"
	"sync"
)

// internTable is the one process-global mutable resource shared by
// every interpreter instance (spec.md §5). Guarded by a plain mutex,
// mirroring the teacher's use of sync.RWMutex around its frame/scope
// structures.
var (
	internMu    sync.Mutex
	internTable = make(map[string]*Symbol)
)

// Intern returns the unique symbol for name, creating it on first use.
// Interning is idempotent for the lifetime of the process.
func Intern(name string) *Symbol {
	internMu.Lock()
	defer internMu.Unlock()
	if s, ok := internTable[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	internTable[name] = s
	return s
}

func internKeyword(name string) *Symbol {
	s := Intern(name)
	s.Keyword = true
	return s
}

// MakeSymbol returns a fresh, never-interned symbol: two calls with
// the same name produce distinct identities, unlike Intern.
func MakeSymbol(name string) *Symbol {
	return &Symbol{Name: name, uninterned: true}
}

var gensymMu sync.Mutex
var gensymCounter int64

// Gensym returns a globally unique, counter-backed uninterned symbol.
func Gensym(prefix string) *Symbol {
	gensymMu.Lock()
	gensymCounter++
	n := gensymCounter
	gensymMu.Unlock()
	return MakeSymbol(prefixOrDefault(prefix) + strconv.FormatInt(n, 10))
}

func prefixOrDefault(p string) string {
	if p == "" {
		return "G"
	}
	return p
}

// EOF is the reader's distinct, non-interned end-of-input sentinel.
var EOF = &Symbol{Name: "#<eof>", uninterned: true}

// Bit-exact constants from spec.md §6.
const (
	TrueSymbolName = "t"
	NilTokenName   = "nil"
	RestMarkerName = "&rest"
)

// Well-known symbols, interned once at package init. Special-form
// keywords are marked Keyword so setq/export reject them as targets.
var (
	SymT                = Intern(TrueSymbolName)
	SymRest             = Intern(RestMarkerName)
	SymQuote            = internKeyword("quote")
	SymProgn            = internKeyword("progn")
	SymCond             = internKeyword("cond")
	SymSetq             = internKeyword("setq")
	SymExport           = internKeyword("export")
	SymLambda           = internKeyword("lambda")
	SymFn               = internKeyword("fn")
	SymMacro            = internKeyword("macro")
	SymQuasiquote       = internKeyword("quasiquote")
	SymUnquote          = internKeyword("unquote")
	SymUnquoteSplicing  = internKeyword("unquote-splicing")
	SymBoundP           = internKeyword("bound?")

	SymList    = Intern("list")
	SymAppend  = Intern("append")
	SymCons    = Intern("cons")
	SymNewMap  = Intern("new-map")
)

func init() {
	// t is not itself a keyword (it is an ordinary symbol whose
	// reassignment is blocked by a separate, explicit check), but it
	// must never be returned to the caller re-interned with Keyword
	// set, so nothing else to do here; kept as a documentation anchor
	// for the setq/export special-casing in eval.go.
}
