package checker

import (
	"fmt"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/errors"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// fnChecker holds the state specific to checking one function body: its
// generic-parameter substitution, its lexical scopes, its growing local
// storage stack, and its enclosing loop/return context. A Checker
// creates a fresh fnChecker per Instantiate call on a FuncDef, so
// nested instantiation (a generic callee triggered mid-body) never
// shares state with its caller's fnChecker.
type fnChecker struct {
	c        *Checker
	generics map[string]types.Ty
	scopes   *scopeStack
	retTy    types.Ty
	locals   []types.Ty
	loops    []*loopCtx
}

type loopCtx struct {
	hasBreakTy bool
	breakTy    types.Ty
}

func newFnChecker(c *Checker, generics map[string]types.Ty, retTy types.Ty) *fnChecker {
	return &fnChecker{c: c, generics: generics, scopes: newScopeStack(), retTy: retTy}
}

// finalizeLocals resolves every Let-introduced local's inferred type to
// its literal form, for the Inst's Locals field.
func (fc *fnChecker) finalizeLocals(tcx *types.TCX) []types.Field {
	out := make([]types.Field, len(fc.locals))
	for i, ty := range fc.locals {
		out[i] = types.Field{Type: tcx.LitTy(ty)}
	}
	return out
}

func (fc *fnChecker) unify(pos string, a, b types.Ty) (types.Ty, error) {
	u, err := fc.c.tcx.Unify(a, b)
	if err != nil {
		return types.Ty{}, errors.NewUnify(pos, a, b)
	}
	return u, nil
}

// checkRValue dispatches every ast.Expr form that does not construct an
// addressable literal (those live in checkLValue, since the LValue sum
// includes string/array/struct/union/enum construction).
func (fc *fnChecker) checkRValue(e ast.Expr) (typedast.RValue, error) {
	pos := e.Position().String()
	switch v := e.(type) {
	case *ast.NameExpr:
		return fc.checkName(v)

	case *ast.IntExpr:
		ty := fc.c.tcx.Fresh(types.BoundNum())
		return typedast.NewIntLit(ty, v.Value), nil

	case *ast.FltExpr:
		ty := fc.c.tcx.Fresh(types.BoundFlt())
		return typedast.NewFltLit(ty, v.Value), nil

	case *ast.BoolExpr:
		return typedast.NewBoolLit(v.Value), nil

	case *ast.CStrExpr:
		return typedast.NewCStr(types.Ptr(false, types.Int8()), append([]byte(nil), v.Value...)), nil

	case *ast.NilExpr:
		return typedast.NewNil(types.Ptr(false, fc.c.tcx.Fresh(types.BoundAny()))), nil

	case *ast.UnitExpr:
		return typedast.NewUnitRV(), nil

	case *ast.StrExpr, *ast.ArrayLitExpr, *ast.StructLitExpr, *ast.UnionLitExpr:
		lv, err := fc.checkLValue(e)
		if err != nil {
			return nil, err
		}
		return typedast.NewLoad(lv), nil

	case *ast.CallExpr:
		return fc.checkCall(v)

	case *ast.UnExpr:
		return fc.checkUnExpr(v)

	case *ast.BinExpr:
		return fc.checkBinExpr(v)

	case *ast.LNotExpr:
		arg, err := fc.checkRValue(v.Arg)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, arg.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		return typedast.NewLNot(arg), nil

	case *ast.LAndExpr:
		l, err := fc.checkRValue(v.L)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, l.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		r, err := fc.checkRValue(v.R)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, r.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		return typedast.NewLAnd(l, r), nil

	case *ast.LOrExpr:
		l, err := fc.checkRValue(v.L)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, l.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		r, err := fc.checkRValue(v.R)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, r.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		return typedast.NewLOr(l, r), nil

	case *ast.BlockExpr:
		fc.scopes.push()
		defer fc.scopes.pop()
		exprs := make([]typedast.RValue, len(v.Exprs))
		var last types.Ty = types.Tuple(nil)
		for i, se := range v.Exprs {
			rv, err := fc.checkRValue(se)
			if err != nil {
				return nil, err
			}
			exprs[i] = rv
			last = rv.Ty()
		}
		return typedast.NewBlock(last, exprs), nil

	case *ast.AsExpr:
		lhs, err := fc.checkLValue(v.LHS)
		if err != nil {
			return nil, err
		}
		if !lhs.Mut() {
			return nil, errors.NewImmutableAssign(pos)
		}
		rhs, err := fc.checkRValue(v.RHS)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, lhs.Ty(), rhs.Ty()); err != nil {
			return nil, err
		}
		return typedast.NewAs(lhs, rhs), nil

	case *ast.RmwExpr:
		lhs, err := fc.checkLValue(v.LHS)
		if err != nil {
			return nil, err
		}
		if !lhs.Mut() {
			return nil, errors.NewImmutableAssign(pos)
		}
		rhs, err := fc.checkRValue(v.RHS)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, lhs.Ty(), rhs.Ty()); err != nil {
			return nil, err
		}
		return typedast.NewRmw(v.Op, lhs, rhs), nil

	case *ast.ContinueExpr:
		if len(fc.loops) == 0 {
			return nil, errors.NewParse("continue outside of a loop")
		}
		return typedast.NewContinue(), nil

	case *ast.BreakExpr:
		if len(fc.loops) == 0 {
			return nil, errors.NewParse("break outside of a loop")
		}
		lc := fc.loops[len(fc.loops)-1]
		var val typedast.RValue
		var valTy types.Ty = types.Tuple(nil)
		if v.Value != nil {
			rv, err := fc.checkRValue(v.Value)
			if err != nil {
				return nil, err
			}
			val = rv
			valTy = rv.Ty()
		}
		if lc.hasBreakTy {
			if _, err := fc.unify(pos, lc.breakTy, valTy); err != nil {
				return nil, err
			}
		} else {
			lc.breakTy = valTy
			lc.hasBreakTy = true
		}
		return typedast.NewBreak(val), nil

	case *ast.ReturnExpr:
		var val typedast.RValue
		valTy := types.Ty(types.Tuple(nil))
		if v.Value != nil {
			rv, err := fc.checkRValue(v.Value)
			if err != nil {
				return nil, err
			}
			val = rv
			valTy = rv.Ty()
		}
		if _, err := fc.unify(pos, fc.retTy, valTy); err != nil {
			return nil, err
		}
		return typedast.NewReturn(val), nil

	case *ast.LetExpr:
		return fc.checkLet(v)

	case *ast.IfExpr:
		return fc.checkIf(v)

	case *ast.WhileExpr:
		cond, err := fc.checkRValue(v.Cond)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, cond.Ty(), types.Bool()); err != nil {
			return nil, err
		}
		fc.loops = append(fc.loops, &loopCtx{})
		body, err := fc.checkRValue(v.Body)
		fc.loops = fc.loops[:len(fc.loops)-1]
		if err != nil {
			return nil, err
		}
		return typedast.NewWhile(cond, body), nil

	case *ast.LoopExpr:
		fc.loops = append(fc.loops, &loopCtx{})
		body, err := fc.checkRValue(v.Body)
		lc := fc.loops[len(fc.loops)-1]
		fc.loops = fc.loops[:len(fc.loops)-1]
		if err != nil {
			return nil, err
		}
		ty := types.Ty(types.Tuple(nil))
		if lc.hasBreakTy {
			ty = lc.breakTy
		}
		return typedast.NewLoop(ty, body), nil

	case *ast.MatchExpr:
		return fc.checkMatch(v)

	case *ast.IndexExpr, *ast.DotExpr, *ast.IndExpr:
		lv, err := fc.checkLValue(e)
		if err != nil {
			return nil, err
		}
		return typedast.NewLoad(lv), nil

	case *ast.AdrExpr:
		lv, err := fc.checkLValue(v.Arg)
		if err != nil {
			return nil, err
		}
		return typedast.NewAdr(lv), nil

	case *ast.CastExpr:
		ty, err := fc.c.resolveTypeExpr(fc.generics, v.Type)
		if err != nil {
			return nil, err
		}
		arg, err := fc.checkRValue(v.Arg)
		if err != nil {
			return nil, err
		}
		srcTy := fc.c.tcx.LitTy(arg.Ty())
		if !castable(ty) || !castable(srcTy) {
			return nil, errors.NewInvalidCast(pos, srcTy, ty)
		}
		return typedast.NewCast(ty, arg), nil

	default:
		return nil, errors.NewParse(fmt.Sprintf("unhandled expression form %T", e))
	}
}

// castable reports whether t can appear on either side of an explicit
// cast: pointers, function references, integers, and floats. Every
// other pairing (aggregates, Bool) has no conversion and is rejected
// here so the lowerer's cast dispatch never sees one.
func castable(t types.Ty) bool {
	switch t.Kind() {
	case types.KPtr, types.KFunc:
		return true
	}
	return t.IsInteger() || t.IsFloat()
}

func (fc *fnChecker) checkName(v *ast.NameExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	if b, ok := fc.scopes.lookup(v.Name); ok {
		lv := fc.lvalueFromBinding(b)
		return typedast.NewLoad(lv), nil
	}
	if id, def, ok := fc.c.lookupDefByName(v.Name); ok {
		switch d := def.(type) {
		case *ast.FuncDef, *ast.ExternFuncDef:
			if len(def.TypeParams()) > 0 {
				return nil, errors.NewArity(pos, 1, 0)
			}
			inst, err := fc.c.Instantiate(id, nil)
			if err != nil {
				return nil, err
			}
			return typedast.NewFuncRef(inst.Ty, id, nil), nil
		case *ast.DataDef, *ast.ExternDataDef:
			_ = d
			lv, err := fc.dataLValue(id, def)
			if err != nil {
				return nil, err
			}
			return typedast.NewLoad(lv), nil
		}
	}
	if id, ed, vi, ok := fc.c.lookupVariant(v.Name); ok {
		if ed.Variants[vi].Fields != nil {
			return nil, errors.NewArity(pos, 1, 0)
		}
		inst, err := fc.c.Instantiate(id, nil)
		if err != nil {
			return nil, err
		}
		ty := types.EnumRef(ed.Name(), id, nil)
		_ = inst
		return typedast.NewLoad(typedast.NewUnitVariantLit(ty, vi)), nil
	}
	return nil, errors.NewUnknownName(pos, v.Name)
}

func (fc *fnChecker) lvalueFromBinding(b binding) typedast.LValue {
	switch b.kind {
	case bindParam:
		return typedast.NewParamRef(b.ty, b.mut, b.index)
	case bindLet:
		return typedast.NewLetRef(b.ty, b.mut, b.index)
	default:
		return typedast.NewBindingRef(b.ty, b.mut, b.index)
	}
}

func (fc *fnChecker) dataLValue(id ast.DefId, def ast.Def) (typedast.LValue, error) {
	inst, err := fc.c.Instantiate(id, nil)
	if err != nil {
		return nil, err
	}
	return typedast.NewDataRef(inst.Ty, true, id, nil), nil
}

func (fc *fnChecker) checkLet(v *ast.LetExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	var declTy types.Ty
	if v.Type != nil {
		ty, err := fc.c.resolveTypeExpr(fc.generics, v.Type)
		if err != nil {
			return nil, err
		}
		declTy = ty
	} else {
		declTy = fc.c.tcx.Fresh(types.BoundAny())
	}

	var init typedast.RValue
	if v.Init != nil {
		rv, err := fc.checkRValue(v.Init)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, declTy, rv.Ty()); err != nil {
			return nil, err
		}
		init = rv
	}

	index := len(fc.locals)
	fc.locals = append(fc.locals, declTy)
	fc.scopes.declare(v.Name, binding{kind: bindLet, index: index, ty: declTy, mut: true})
	return typedast.NewLet(index, init), nil
}

func (fc *fnChecker) checkIf(v *ast.IfExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	cond, err := fc.checkRValue(v.Cond)
	if err != nil {
		return nil, err
	}
	if _, err := fc.unify(pos, cond.Ty(), types.Bool()); err != nil {
		return nil, err
	}
	then, err := fc.checkRValue(v.Then)
	if err != nil {
		return nil, err
	}
	if v.Else == nil {
		return typedast.NewIf(types.Tuple(nil), cond, then, nil), nil
	}
	els, err := fc.checkRValue(v.Else)
	if err != nil {
		return nil, err
	}
	ty, err := fc.unify(pos, then.Ty(), els.Ty())
	if err != nil {
		return nil, err
	}
	return typedast.NewIf(ty, cond, then, els), nil
}

