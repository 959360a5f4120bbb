package interp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
)

// Options configures a new Interp, mirroring the teacher's Options/New
// pair: an io.Reader/io.Writer triad for REPL plumbing, an optional
// HostScope, and the two knobs that gate otherwise-unrestricted
// behavior (evaluation quota, filesystem access for load).
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Args []string
	Env  map[string]string

	Host HostScope

	// EvalQuota caps the number of eval-loop iterations; 0 means
	// unbounded. Exceeding it sets the halt condition.
	EvalQuota int64

	// Unrestricted gates the load primitive's filesystem access, the
	// way the teacher's Unrestricted option gates unsandboxed packages.
	Unrestricted bool
}

// defaultGlobals is the process-wide seed environment: every new
// Interp starts as a shallow copy of it, per spec.md §5's
// shared-resource policy. It is populated once by registerBuiltins and
// the embedded prelude.
var (
	defaultGlobalsMu sync.Mutex
	defaultGlobals   = map[*Symbol]Value{}
	defaultsBuilt    bool
)

// Interp is one interpreter instance: its own mutable globals map, its
// own evaluation counter, and a reference to a host scope. Two Interp
// values never share a globals map, matching the single-threaded,
// share-nothing concurrency model of spec.md §5.
type Interp struct {
	mu      sync.RWMutex
	globals map[*Symbol]Value

	host HostScope

	evalCount    uint64 // atomic
	evalQuota    int64
	unrestricted bool

	haltedLocal atomic.Bool // local halt flag, checked alongside the host's

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New builds an interpreter seeded from the process-wide defaults,
// matching the teacher's New(options)/initUniverse() split.
func New(opts Options) *Interp {
	ensureDefaults()

	defaultGlobalsMu.Lock()
	globals := make(map[*Symbol]Value, len(defaultGlobals))
	for k, v := range defaultGlobals {
		globals[k] = v
	}
	defaultGlobalsMu.Unlock()

	it := &Interp{
		globals:      globals,
		host:         opts.Host,
		evalQuota:    opts.EvalQuota,
		unrestricted: opts.Unrestricted,
		stdin:        opts.Stdin,
		stdout:       opts.Stdout,
		stderr:       opts.Stderr,
	}
	it.bindCommandLine(opts.Args, opts.Env)
	return it
}

// bindCommandLine exposes the process-level Args/Env an Options value
// carries as the *args*/*env* globals, so a script loaded via Import
// can read its own invocation the way a shell script reads $@ and the
// environment.
func (it *Interp) bindCommandLine(args []string, env map[string]string) {
	argVals := make([]Value, len(args))
	for i, a := range args {
		argVals[i] = String(a)
	}
	it.setGlobal(Intern("*args*"), SliceToList(argVals))

	envMap := NewMap()
	for k, v := range env {
		envMap.Data[k] = String(v)
	}
	it.setGlobal(Intern("*env*"), envMap)
}

func ensureDefaults() {
	defaultGlobalsMu.Lock()
	built := defaultsBuilt
	defaultGlobalsMu.Unlock()
	if built {
		return
	}
	registerBuiltins()
	seedPrelude()
	defaultGlobalsMu.Lock()
	defaultsBuilt = true
	defaultGlobalsMu.Unlock()
}

// setDefaultGlobal is used only by registerBuiltins/seedPrelude during
// process-wide initialization, before any Interp exists.
func setDefaultGlobal(sym *Symbol, v Value) {
	defaultGlobalsMu.Lock()
	defaultGlobals[sym] = v
	defaultGlobalsMu.Unlock()
}

// Reset rebuilds it's globals from the process-wide defaults, the way
// the teacher's Reset op repopulates universe from initUniverse.
func (it *Interp) Reset() {
	defaultGlobalsMu.Lock()
	globals := make(map[*Symbol]Value, len(defaultGlobals))
	for k, v := range defaultGlobals {
		globals[k] = v
	}
	defaultGlobalsMu.Unlock()

	it.mu.Lock()
	it.globals = globals
	it.mu.Unlock()
}

// Set binds name to v in it's globals, the external Set op of spec.md §6.
func (it *Interp) Set(name string, v Value) error {
	sym := Intern(name)
	if sym == SymT || sym.Keyword {
		return newError(KindBadKeyword, "%s cannot be rebound", name)
	}
	it.mu.Lock()
	it.globals[sym] = v
	it.mu.Unlock()
	return nil
}

// Import evaluates src at global scope, updating it's globals, the
// external Import op of spec.md §6.
func (it *Interp) Import(src string) error {
	forms, err := ReadAll(src)
	if err != nil {
		return err
	}
	for _, f := range forms {
		if _, err := it.EvalTop(f); err != nil {
			return err
		}
	}
	return nil
}

// EvalTop evaluates a single already-read top-level form at global
// scope (no frame), the unit Import and the prelude bootstrap both
// drive one form at a time.
func (it *Interp) EvalTop(form Value) (Value, error) {
	return Eval(it, form, nil)
}

// Eval reads and evaluates src, form by form, returning the value of
// the last one, mirroring the teacher's own Eval(src string).
func (it *Interp) Eval(src string) (Value, error) {
	forms, err := ReadAll(src)
	if err != nil {
		return nil, err
	}
	var result Value = Nil
	for _, f := range forms {
		result, err = it.EvalTop(f)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalWithContext runs Eval in a goroutine and races it against
// ctx.Done(), the way the teacher's EvalWithContext races its own
// Eval. Unlike the teacher's Go interpreter, which must abandon the
// goroutine outright on cancellation (arbitrary Go code cannot be
// interrupted from outside), this evaluator's trampoline checks
// it.halted() every iteration, so cancellation here also requests a
// prompt, cooperative stop via the same halt flag the eval quota uses.
func (it *Interp) EvalWithContext(ctx context.Context, src string) (Value, error) {
	type outcome struct {
		v   Value
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{nil, newError(KindHostError, "panic during eval: %v", r)}
			}
		}()
		v, err := it.Eval(src)
		done <- outcome{v, err}
	}()

	select {
	case <-ctx.Done():
		it.haltedLocal.Store(true)
		<-done
		return nil, ctx.Err()
	case o := <-done:
		return o.v, o.err
	}
}

// REPL performs a read-eval-print loop on in, printing results to out
// and errors to errs, mirroring the teacher's own REPL: a line-reading
// goroutine, an interrupt-trapping goroutine, and a main loop that
// accumulates unclosed forms across lines before evaluating.
func (it *Interp) REPL(in io.Reader, out, errs io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	end := make(chan struct{})
	sig := make(chan os.Signal, 1)
	lines := make(chan string)
	scanner := bufio.NewScanner(in)

	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	fmt.Fprint(out, "> ")

	go func() {
		defer close(end)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	go func() {
		for {
			select {
			case <-sig:
				cancel()
				lines <- ""
			case <-end:
				return
			}
		}
	}()

	src := ""
	for {
		var line string
		select {
		case <-end:
			return nil
		case line = <-lines:
			src += line + "\n"
		}

		v, err := it.EvalWithContext(ctx, src)
		if err != nil {
			if isUnclosedForm(err) {
				continue
			}
			fmt.Fprintln(errs, "EvalException: "+err.Error())
		} else if v != nil {
			fmt.Fprintln(out, PrintReadable(v))
		}
		if ctx.Err() != nil {
			ctx, cancel = context.WithCancel(context.Background())
		}
		src = ""
		fmt.Fprint(out, "> ")
	}
}

// isUnclosedForm reports whether err is a SyntaxError caused by input
// ending mid-form, the signal the REPL uses to keep accumulating lines
// instead of reporting a failure.
func isUnclosedForm(err error) bool {
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindSyntaxError {
		return false
	}
	return strings.Contains(ee.Msg, "unexpected end of input") || strings.Contains(ee.Msg, "missing closing")
}

func (it *Interp) lookupGlobal(sym *Symbol) (Value, bool) {
	it.mu.RLock()
	v, ok := it.globals[sym]
	it.mu.RUnlock()
	return v, ok
}

func (it *Interp) setGlobal(sym *Symbol, v Value) {
	it.mu.Lock()
	it.globals[sym] = v
	it.mu.Unlock()
}

func (it *Interp) lookupMacro(sym *Symbol) (*Macro, bool) {
	v, ok := it.lookupGlobal(sym)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Macro)
	return m, ok
}

// Bound reports whether name resolves in globals or host scope,
// backing the bound? special form.
func (it *Interp) Bound(sym *Symbol) bool {
	if _, ok := it.lookupGlobal(sym); ok {
		return true
	}
	if it.host != nil {
		if _, ok := it.host.TryGet(sym.Name); ok {
			return true
		}
	}
	return false
}

// EvaluationCount exposes the running eval-loop iteration count, the
// observability hook of spec.md §4.3.
func (it *Interp) EvaluationCount() uint64 {
	return atomic.LoadUint64(&it.evalCount)
}

func (it *Interp) bumpEvalCount() {
	atomic.AddUint64(&it.evalCount, 1)
}

// halted reports whether evaluation should stop promptly: either the
// local flag (set by EvalWithContext's cancellation or by the eval
// quota below) or the host scope's own halted? flag. Both are
// consulted regardless of whether a host is configured, since a
// cancellation or quota breach must stop evaluation even when a host
// scope is also present.
func (it *Interp) halted() bool {
	if it.haltedLocal.Load() {
		return true
	}
	if it.host != nil {
		return it.host.Halted()
	}
	return false
}

func (it *Interp) checkQuota() {
	if it.evalQuota > 0 && int64(it.EvaluationCount()) >= it.evalQuota {
		it.haltedLocal.Store(true)
	}
	if it.host != nil {
		it.host.AssertNextEvaluation()
	}
}
