package checker

import (
	"testing"

	"github.com/emberlang/emberc/internal/ast"
)

// fn main() -> Int32 = 1 + 2
func TestArithmeticBinExprUnifiesOperandsToNumeric(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.BinExpr{Op: ast.Add, L: &ast.IntExpr{Value: 1}, R: &ast.IntExpr{Value: 2}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
}

// Bitwise operators require BoundInt operands, so a Bool operand fails.
func TestBitwiseBinExprRejectsNonIntegerOperand(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.BinExpr{Op: ast.BitAnd, L: &ast.BoolExpr{Value: true}, R: &ast.IntExpr{Value: 1}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected an error unifying Bool against BoundInt")
	}
}

// Comparison operators produce Bool regardless of operand type.
func TestComparisonBinExprProducesBool(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.BinExpr{Op: ast.Lt, L: &ast.IntExpr{Value: 1}, R: &ast.IntExpr{Value: 2}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Bool"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
}

// Unary bitwise-not requires an integer operand; a Float argument fails.
func TestUnaryBitNotRejectsFloatOperand(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.UnExpr{Op: ast.UBitNot, Arg: &ast.FltExpr{Value: 1.5}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected an error unifying Float against BoundInt")
	}
}

// Casting a Bool has no conversion in the cast table, so the checker
// rejects it rather than letting the lowerer's dispatch see it.
func TestCastFromBoolFails(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.CastExpr{Type: &ast.NameTypeExpr{Name: "Int32"}, Arg: &ast.BoolExpr{Value: true}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err == nil {
		t.Fatal("expected an invalid-cast error for Bool -> Int32")
	}
}

func TestCastIntToFloatTypeChecks(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.CastExpr{Type: &ast.NameTypeExpr{Name: "Float"}, Arg: &ast.IntExpr{Value: 3}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Float"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
}

func TestUnaryNegateAcceptsNumericOperand(t *testing.T) {
	repo, tcx, insts := newFixture()
	body := &ast.UnExpr{Op: ast.UNeg, Arg: &ast.IntExpr{Value: 5}}
	main := ast.NewFuncDef(ast.Pos{}, "main", nil, nil, &ast.NameTypeExpr{Name: "Int32"}, body)
	repo.Add(1, main)

	c := New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
}
