package checker

import (
	"fmt"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/dtree"
	"github.com/emberlang/emberc/internal/errors"
	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

func (fc *fnChecker) checkUnExpr(v *ast.UnExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	arg, err := fc.checkRValue(v.Arg)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case ast.UPlus, ast.UNeg:
		if _, err := fc.unify(pos, arg.Ty(), types.BoundNum()); err != nil {
			return nil, err
		}
	case ast.UBitNot:
		if _, err := fc.unify(pos, arg.Ty(), types.BoundInt()); err != nil {
			return nil, err
		}
	}
	return typedast.NewUn(arg.Ty(), v.Op, arg), nil
}

func (fc *fnChecker) checkBinExpr(v *ast.BinExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	l, err := fc.checkRValue(v.L)
	if err != nil {
		return nil, err
	}
	r, err := fc.checkRValue(v.R)
	if err != nil {
		return nil, err
	}

	switch v.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		ty, err := fc.unify(pos, l.Ty(), r.Ty())
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, ty, types.BoundNum()); err != nil {
			return nil, err
		}
		return typedast.NewBin(ty, v.Op, l, r), nil

	case ast.Mod, ast.Shl, ast.Rsh, ast.BitAnd, ast.BitOr, ast.BitXor:
		ty, err := fc.unify(pos, l.Ty(), r.Ty())
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, ty, types.BoundInt()); err != nil {
			return nil, err
		}
		return typedast.NewBin(ty, v.Op, l, r), nil

	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if _, err := fc.unify(pos, l.Ty(), r.Ty()); err != nil {
			return nil, err
		}
		return typedast.NewBin(types.Bool(), v.Op, l, r), nil

	default:
		return nil, errors.NewParse(fmt.Sprintf("unhandled binary operator %v", v.Op))
	}
}

// checkMatch plans the arm set with internal/dtree (bucketing by
// variant index), checks each arm's body under its payload binding (if
// any), and unifies arm result types.
func (fc *fnChecker) checkMatch(v *ast.MatchExpr) (typedast.RValue, error) {
	pos := v.Position().String()
	cond, err := fc.checkRValue(v.Cond)
	if err != nil {
		return nil, err
	}
	condTy := cond.Ty()
	if condTy.Kind() != types.KEnumRef {
		return nil, errors.NewParse(fmt.Sprintf("match scrutinee is not an enum: %s", condTy))
	}
	inst, ok := fc.c.insts.Get(condTy.DefId(), condTy.Args())
	if !ok {
		inst, err = fc.c.Instantiate(condTy.DefId(), condTy.Args())
		if err != nil {
			return nil, err
		}
	}

	variantNames := make([]string, len(inst.Variants))
	for i, variant := range inst.Variants {
		variantNames[i] = variant.Name
	}
	arms := make([]dtree.Arm, len(v.Arms))
	for i, a := range v.Arms {
		arms[i] = dtree.Arm{Variant: a.Variant, Binding: a.Binding}
	}
	plan := dtree.Plan(variantNames, arms)

	outArms := make([]typedast.MatchArm, 0, len(variantNames))
	var resultTy types.Ty
	hasResultTy := false

	for vi, node := range plan.Cases {
		leaf, ok := node.(*dtree.Leaf)
		if !ok {
			return nil, errors.NewParse(fmt.Sprintf("non-exhaustive match: missing variant %q", variantNames[vi]))
		}
		srcArm := v.Arms[leaf.ArmIndex]

		fc.scopes.push()
		hasBinding := false
		bindingIndex := 0
		if leaf.HasBinding {
			variant := inst.Variants[vi]
			payloadTy := payloadType(variant)
			bindingIndex = len(fc.locals)
			fc.locals = append(fc.locals, payloadTy)
			fc.scopes.declare(srcArm.Binding, binding{kind: bindMatch, index: bindingIndex, ty: payloadTy})
			hasBinding = true
		}
		body, err := fc.checkRValue(srcArm.Body)
		fc.scopes.pop()
		if err != nil {
			return nil, err
		}

		if hasResultTy {
			ty, err := fc.unify(pos, resultTy, body.Ty())
			if err != nil {
				return nil, err
			}
			resultTy = ty
		} else {
			resultTy = body.Ty()
			hasResultTy = true
		}

		outArms = append(outArms, typedast.MatchArm{
			VariantIndex: vi,
			HasBinding:   hasBinding,
			BindingIndex: bindingIndex,
			Body:         body,
		})
	}

	if !hasResultTy {
		resultTy = types.Tuple(nil)
	}
	return typedast.NewMatch(resultTy, cond, outArms), nil
}

// payloadType is the type a match arm's binding name resolves to: a
// single-field variant binds directly to that field's type (so
// `B(n) => n` with a lone `Int32` field binds `n` to `Int32`); a
// multi-field variant binds to the whole struct-shaped payload.
func payloadType(variant instances.Variant) types.Ty {
	if len(variant.Fields) == 1 {
		return variant.Fields[0].Type
	}
	return types.Tuple(variant.Fields)
}
