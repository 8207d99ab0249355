package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emberlang/emberc/internal/ast"
)

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.ember.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const helloBundle = `
defs:
  - kind: extern_func
    name: puts
    params:
      - name: s
        type: {kind: ptr, base: {kind: name, name: Int8}}
    ret: {kind: name, name: Int32}
  - kind: func
    name: main
    ret: {kind: name, name: Int32}
    body:
      kind: block
      exprs:
        - kind: call
          callee: {kind: name, name: puts}
          args:
            - {kind: cstr, value: "hi"}
        - {kind: int, value: 0}
`

func TestParseBundleHelloWorld(t *testing.T) {
	path := writeBundle(t, helloBundle)

	repo, err := ParseBundle(path)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	if len(repo.Order) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(repo.Order))
	}

	puts, ok := repo.Defs[1].(*ast.ExternFuncDef)
	if !ok {
		t.Fatalf("def #1: expected *ast.ExternFuncDef, got %T", repo.Defs[1])
	}
	if puts.Name() != "puts" || len(puts.Params) != 1 {
		t.Fatalf("unexpected puts shape: %+v", puts)
	}

	main, ok := repo.Defs[2].(*ast.FuncDef)
	if !ok {
		t.Fatalf("def #2: expected *ast.FuncDef, got %T", repo.Defs[2])
	}
	body, ok := main.Body.(*ast.BlockExpr)
	if !ok || len(body.Exprs) != 2 {
		t.Fatalf("unexpected main body: %+v", main.Body)
	}
	call, ok := body.Exprs[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a call expression, got %T", body.Exprs[0])
	}
	cstr, ok := call.Args[0].(*ast.CStrExpr)
	if !ok || string(cstr.Value) != "hi" {
		t.Fatalf("expected cstr literal \"hi\", got %+v", call.Args[0])
	}
}

func TestParseBundleUnknownDefKind(t *testing.T) {
	path := writeBundle(t, "defs:\n  - kind: bogus\n    name: x\n")
	if _, err := ParseBundle(path); err == nil {
		t.Fatal("expected an error for an unknown def kind")
	}
}

func TestParseBundleStructAndEnum(t *testing.T) {
	path := writeBundle(t, `
defs:
  - kind: struct
    name: Point
    fields:
      - {name: x, type: {kind: name, name: Int32}}
      - {name: y, type: {kind: name, name: Int32}}
  - kind: enum
    name: Opt
    variants:
      - {name: None}
      - name: Some
        fields:
          - {name: value, type: {kind: name, name: Int32}}
`)
	repo, err := ParseBundle(path)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	st, ok := repo.Defs[1].(*ast.StructDef)
	if !ok || len(st.Fields) != 2 {
		t.Fatalf("unexpected struct def: %+v", repo.Defs[1])
	}
	en, ok := repo.Defs[2].(*ast.EnumDef)
	if !ok || len(en.Variants) != 2 {
		t.Fatalf("unexpected enum def: %+v", repo.Defs[2])
	}
	if en.Variants[1].Name != "Some" || len(en.Variants[1].Fields) != 1 {
		t.Fatalf("unexpected Some variant: %+v", en.Variants[1])
	}
}
