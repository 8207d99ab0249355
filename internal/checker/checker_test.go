package checker

import (
	"testing"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/types"
)

func newFixture() (*ast.Repository, *types.TCX, *instances.Table) {
	return ast.NewRepository(), types.NewTCX(), instances.NewTable()
}

// fn main() -> Int32 = { let x = 1; x }
// x resolves to Int32 via the BoundNum -> Int32 default.
func TestNumericLiteralDefaultsToInt32(t *testing.T) {
	repo, tcx, insts := newFixture()

	body := &ast.BlockExpr{Exprs: []ast.Expr{
		&ast.LetExpr{Name: "x", Init: &ast.IntExpr{Value: 1}},
		&ast.NameExpr{Name: "x"},
	}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}

	inst, ok := insts.Get(1, nil)
	if !ok {
		t.Fatal("expected an instance for main")
	}
	if !tcx.LitTy(inst.Locals[0].Type).Equals(types.Int32()) {
		t.Errorf("expected local x to default to Int32, got %s", tcx.LitTy(inst.Locals[0].Type))
	}
}

// fn id<T>(x: T) -> T = x; fn main() -> Int32 = id(42)
// Exactly one instance id[Int32] is created, on use.
func TestGenericIdentityMonomorphizesOnUse(t *testing.T) {
	repo, tcx, insts := newFixture()

	idDef := ast.NewFuncDef(ast.Pos{}, "id", []string{"T"},
		[]ast.Param{{Name: "x", Type: &ast.NameTypeExpr{Name: "T"}}},
		&ast.NameTypeExpr{Name: "T"},
		&ast.NameExpr{Name: "x"})
	repo.Add(1, idDef)

	mainBody := &ast.CallExpr{
		Callee: &ast.NameExpr{Name: "id"},
		Args:   []ast.Expr{&ast.IntExpr{Value: 42}},
	}
	mainDef := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, mainBody)
	repo.Add(2, mainDef)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}

	// "id" itself is generic and is never checked directly (only on use);
	// CheckAll skips it, so only "main" plus exactly one id[Int32] exist.
	if got := insts.Len(); got != 2 {
		t.Fatalf("expected 2 instances (main + id[Int32]), got %d", got)
	}
	if _, ok := insts.Get(1, []types.Ty{types.Int32()}); !ok {
		t.Fatal("expected an id[Int32] instance to exist")
	}
}

func TestUnknownNameProducesUnknownNameError(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.NameExpr{Name: "bogus"}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	err := c.CheckAll()
	if err == nil {
		t.Fatal("expected an error for unknown name")
	}
}

// Assignment to a non-`let`-declared (immutable parameter) binding must
// fail with ImmutableAssign.
func TestAssignToImmutableParamFails(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.AsExpr{
		LHS: &ast.NameExpr{Name: "x"},
		RHS: &ast.IntExpr{Value: 5},
	}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil,
		[]ast.Param{{Name: "x", Type: &ast.NameTypeExpr{Name: "Int32"}}},
		&ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected ImmutableAssign error")
	}
}

func TestArityMismatchFails(t *testing.T) {
	repo, tcx, insts := newFixture()
	callee := ast.NewFuncDef(ast.Pos{}, "f", nil,
		[]ast.Param{{Name: "a", Type: &ast.NameTypeExpr{Name: "Int32"}}},
		&ast.NameTypeExpr{Name: "Int32"}, &ast.NameExpr{Name: "a"})
	repo.Add(1, callee)

	mainBody := &ast.CallExpr{Callee: &ast.NameExpr{Name: "f"}, Args: nil}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, mainBody)
	repo.Add(2, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected Arity error")
	}
}

// Hello-world shape, without the string literal: an extern fn plus a
// CStr call argument.
func TestExternFuncCallTypeChecks(t *testing.T) {
	repo, tcx, insts := newFixture()
	puts := ast.NewExternFuncDef(ast.Pos{}, "puts",
		[]ast.Param{{Name: "s", Type: &ast.PtrTypeExpr{Base: &ast.NameTypeExpr{Name: "Int8"}}}},
		false, &ast.NameTypeExpr{Name: "Int32"})
	repo.Add(1, puts)

	mainBody := &ast.BlockExpr{Exprs: []ast.Expr{
		&ast.CallExpr{Callee: &ast.NameExpr{Name: "puts"}, Args: []ast.Expr{&ast.CStrExpr{Value: []byte("hi")}}},
		&ast.IntExpr{Value: 0},
	}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, mainBody)
	repo.Add(2, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
}

func TestBooleanOperatorsRequireBoolOperands(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.LAndExpr{L: &ast.IntExpr{Value: 1}, R: &ast.BoolExpr{Value: true}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Bool"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected error unifying int with Bool in LAnd")
	}
}

func TestIfArmsMustUnify(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.IfExpr{
		Cond: &ast.BoolExpr{Value: true},
		Then: &ast.IntExpr{Value: 1},
		Else: &ast.BoolExpr{Value: false},
	}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected error unifying mismatched if arms")
	}
}
