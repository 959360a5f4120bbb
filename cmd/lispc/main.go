// Command lispc runs lisp source files and hosts an interactive REPL
// for the tree-walking interpreter in package interp.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/shimmerwood/golisp/interp"
)

// exprList collects repeatable -e flags in the order given, the way
// retro's fileList flag.Value accumulates -l/-e.
type exprList []string

func (e *exprList) String() string     { return strings.Join(*e, ";") }
func (e *exprList) Set(s string) error { *e = append(*e, s); return nil }

// fileConfig mirrors the ambient [interpreter]/[prelude]/[repl] TOML
// config sections: it only ever tunes engine knobs, never language
// semantics.
type fileConfig struct {
	Interpreter struct {
		EvalQuota    int64 `toml:"eval_quota"`
		Unrestricted bool  `toml:"unrestricted"`
	} `toml:"interpreter"`
	Prelude struct {
		Path string `toml:"path"`
	} `toml:"prelude"`
	Repl struct {
		Prompt string `toml:"prompt"`
	} `toml:"repl"`
}

func main() {
	var (
		exprs        exprList
		configPath   string
		interactive  bool
		evalQuota    int64
		unrestricted bool
	)
	flag.Var(&exprs, "e", "evaluate an expression before any file (repeatable)")
	flag.StringVar(&configPath, "config", "", "path to a TOML config file")
	flag.BoolVar(&interactive, "i", false, "start the REPL even after running a file")
	flag.Int64Var(&evalQuota, "q", 0, "evaluation quota (0 = unbounded)")
	flag.BoolVar(&unrestricted, "unrestricted", false, "allow load to read from the filesystem")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[options] [script]")
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if !isTTY(os.Stdout) {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg := fileConfig{}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			logger.Error("failed to read config file", "path", configPath, "error", err)
			os.Exit(1)
		}
	}
	if evalQuota != 0 {
		cfg.Interpreter.EvalQuota = evalQuota
	}
	if unrestricted {
		cfg.Interpreter.Unrestricted = true
	}

	host := interp.NewDemoHostScope(os.Stdout, cfg.Interpreter.Unrestricted)
	it := interp.New(interp.Options{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Args:         flag.Args(),
		Env:          environMap(),
		Host:         host,
		EvalQuota:    cfg.Interpreter.EvalQuota,
		Unrestricted: cfg.Interpreter.Unrestricted,
	})

	if cfg.Prelude.Path != "" {
		src, err := os.ReadFile(cfg.Prelude.Path)
		if err != nil {
			logger.Error("failed to read prelude override", "path", cfg.Prelude.Path, "error", err)
			os.Exit(1)
		}
		if err := it.Import(string(src)); err != nil {
			logger.Error("prelude override failed", "error", err)
			os.Exit(1)
		}
	}

	for _, e := range exprs {
		if _, err := it.Eval(e); err != nil {
			fmt.Fprintln(os.Stderr, "EvalException: "+err.Error())
			os.Exit(1)
		}
	}

	args := flag.Args()
	ranFile := false
	if len(args) > 0 {
		ranFile = true
		logger.Info("importing source file", "path", args[0])
		src, err := os.ReadFile(args[0])
		if err != nil {
			logger.Error("could not read file", "path", args[0], "error", err)
			os.Exit(1)
		}
		text := stripShebang(string(src))
		if err := it.Import(text); err != nil {
			logger.Error("import failed", "path", args[0], "error", err)
			fmt.Fprintln(os.Stderr, "EvalException: "+err.Error())
			os.Exit(1)
		}
	}

	if !ranFile || interactive {
		logger.Info("starting REPL")
		if err := it.REPL(os.Stdin, os.Stdout, os.Stderr); err != nil {
			logger.Error("REPL exited with an error", "error", err)
			os.Exit(1)
		}
	}
}

// stripShebang turns a leading "#!" line into a comment so the reader
// never has to know about shebangs, the way birowo-yaegi's CLI fixes
// up executable scripts before parsing.
func stripShebang(s string) string {
	if strings.HasPrefix(s, "#!") {
		return strings.Replace(s, "#!", ";", 1)
	}
	return s
}

func environMap() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
