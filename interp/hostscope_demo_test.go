package interp

import (
	"bytes"
	"strings"
	"testing"
)

func TestDemoHostScopeTryGetAndCall(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	host.Bind("greeting", "hello")
	host.BindFunc("shout", func(s string) string { return strings.ToUpper(s) })

	it := New(Options{Host: host})
	v, err := it.Eval("greeting")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(String); !ok || string(s) != "hello" {
		t.Errorf("expected \"hello\", got %s", PrintReadable(v))
	}

	v, err = it.Eval(`(/shout "hi")`)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(String); !ok || string(s) != "HI" {
		t.Errorf("expected \"HI\", got %s", PrintReadable(v))
	}
}

func TestDemoHostScopeMemberDispatch(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	it := New(Options{Host: host})
	v, err := it.Eval(`(.Len "abc")`)
	if err == nil {
		t.Fatalf("expected an error for a primitive target with no Len method, got %s", PrintReadable(v))
	}
}

func TestDemoHostScopeLoadFileRejectsRemoteSchemes(t *testing.T) {
	host := NewDemoHostScope(nil, true)
	_, err := host.LoadFile("https://example.com/a.lisp")
	if err == nil {
		t.Fatal("expected an error loading a remote scheme")
	}
}

func TestDemoHostScopeLoadFileRequiresUnrestricted(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	_, err := host.LoadFile("local.lisp")
	if err == nil {
		t.Fatal("expected an error when filesystem access is disabled")
	}
}

func TestDemoHostScopeHTMLEncode(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	got := host.HTMLEncode(`<a href="x">&'`)
	want := "&lt;a href=&quot;x&quot;&gt;&amp;&#39;"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDemoHostScopeReturnValue(t *testing.T) {
	host := NewDemoHostScope(nil, false)
	it := New(Options{Host: host})
	if _, err := it.Eval(`(return 99)`); err != nil {
		t.Fatal(err)
	}
	v, ok := host.Returned()
	if !ok {
		t.Fatal("expected a return value to have been recorded")
	}
	if n, ok := v.(Number); !ok || n.Int64Value() != 99 {
		t.Errorf("expected 99, got %s", PrintReadable(v))
	}
}

func TestDemoHostScopeWrite(t *testing.T) {
	var buf bytes.Buffer
	host := NewDemoHostScope(&buf, false)
	it := New(Options{Host: host})
	if _, err := it.Eval(`(princ "hi")`); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hi" {
		t.Errorf("expected \"hi\" written to the host sink, got %q", buf.String())
	}
}
