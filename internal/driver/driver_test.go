package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberlang/emberc/internal/ast"
)

// End-to-end: checker -> instance table -> lowerer, on a small fixed
// program, asserting directly against the emitted IR text. This
// mirrors internal/lower's own tests rather than testutil's JSON
// golden harness: a golden comparison embeds the running Go version
// into its fixture (testutil.GoldenMeta.GoVersion), which varies by
// toolchain and would make a checked-in golden fixture brittle for
// reasons unrelated to correctness.
func TestCompileHelloWorldEndToEnd(t *testing.T) {
	repo := ast.NewRepository()

	puts := ast.NewExternFuncDef(ast.Pos{}, "puts",
		[]ast.Param{{Name: "s", Type: &ast.PtrTypeExpr{Base: &ast.NameTypeExpr{Name: "Int8"}}}},
		false, &ast.NameTypeExpr{Name: "Int32"})
	repo.Add(1, puts)

	mainBody := &ast.BlockExpr{Exprs: []ast.Expr{
		&ast.CallExpr{Callee: &ast.NameExpr{Name: "puts"}, Args: []ast.Expr{&ast.CStrExpr{Value: []byte("hello")}}},
		&ast.IntExpr{Value: 0},
	}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, mainBody)
	repo.Add(2, main)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.ll")

	result, err := Compile(repo, nil, LLVMIr, outPath, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Insts.Len() != 2 {
		t.Errorf("expected 2 instances (puts + main), got %d", result.Insts.Len())
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading %s: %v", outPath, err)
	}
	out := string(written)
	if !strings.Contains(out, "declare") || !strings.Contains(out, "puts") {
		t.Errorf("expected a declared puts, got:\n%s", out)
	}
	if !strings.Contains(out, "define") || !strings.Contains(out, "main") {
		t.Errorf("expected a defined main, got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("expected `ret i32 0`, got:\n%s", out)
	}
}

func TestCompileSurfacesCheckerErrors(t *testing.T) {
	repo := ast.NewRepository()
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil,
		&ast.NameTypeExpr{Name: "Int32"}, &ast.NameExpr{Name: "undefined_name"})
	repo.Add(1, main)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.ll")

	if _, err := Compile(repo, nil, LLVMIr, outPath, nil); err == nil {
		t.Fatal("expected an unknown-name error from the checker stage")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("expected no output file to be written when the checker fails")
	}
}
