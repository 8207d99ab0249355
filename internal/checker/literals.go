package checker

import (
	"fmt"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/errors"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// checkLValue dispatches every ast.Expr form that denotes an
// addressable location, including the aggregate-construction literals
// classified as LValue (they have an address the moment they're built;
// checkRValue Loads them when a value, not a location, is wanted).
func (fc *fnChecker) checkLValue(e ast.Expr) (typedast.LValue, error) {
	pos := e.Position().String()
	switch v := e.(type) {
	case *ast.NameExpr:
		if b, ok := fc.scopes.lookup(v.Name); ok {
			return fc.lvalueFromBinding(b), nil
		}
		if id, def, ok := fc.c.lookupDefByName(v.Name); ok {
			switch def.(type) {
			case *ast.DataDef, *ast.ExternDataDef:
				return fc.dataLValue(id, def)
			}
		}
		if id, ed, vi, ok := fc.c.lookupVariant(v.Name); ok && ed.Variants[vi].Fields == nil {
			if _, err := fc.c.Instantiate(id, nil); err != nil {
				return nil, err
			}
			ty := types.EnumRef(ed.Name(), id, nil)
			return typedast.NewUnitVariantLit(ty, vi), nil
		}
		return nil, errors.NewUnknownName(pos, v.Name)

	case *ast.StrExpr:
		ty := types.Arr(uint64(len(v.Value)), types.Uint8())
		return typedast.NewStrLit(ty, v.Value), nil

	case *ast.ArrayLitExpr:
		elems := make([]typedast.RValue, len(v.Elems))
		var elemTy types.Ty
		hasElemTy := false
		for i, el := range v.Elems {
			rv, err := fc.checkRValue(el)
			if err != nil {
				return nil, err
			}
			elems[i] = rv
			if hasElemTy {
				ty, err := fc.unify(pos, elemTy, rv.Ty())
				if err != nil {
					return nil, err
				}
				elemTy = ty
			} else {
				elemTy = rv.Ty()
				hasElemTy = true
			}
		}
		if !hasElemTy {
			elemTy = fc.c.tcx.Fresh(types.BoundAny())
		}
		return typedast.NewArrayLit(types.Arr(uint64(len(elems)), elemTy), elems), nil

	case *ast.StructLitExpr:
		ty, err := fc.c.resolveTypeExpr(fc.generics, v.Type)
		if err != nil {
			return nil, err
		}
		if ty.Kind() != types.KStructRef {
			return nil, errors.NewParse(fmt.Sprintf("%s is not a struct type", ty))
		}
		inst, ok := fc.c.insts.Get(ty.DefId(), ty.Args())
		if !ok {
			return nil, errors.NewUnknownName(pos, ty.Name())
		}
		fields := make([]typedast.FieldInit, len(v.Fields))
		for i, fi := range v.Fields {
			idx, fieldTy, ok := findField(inst.Fields, fi.Name)
			if !ok {
				return nil, errors.NewUnknownName(pos, fi.Name)
			}
			val, err := fc.checkRValue(fi.Value)
			if err != nil {
				return nil, err
			}
			if _, err := fc.unify(pos, fieldTy, val.Ty()); err != nil {
				return nil, err
			}
			fields[i] = typedast.FieldInit{Index: idx, Value: val}
		}
		return typedast.NewStructLit(ty, fields), nil

	case *ast.UnionLitExpr:
		ty, err := fc.c.resolveTypeExpr(fc.generics, v.Type)
		if err != nil {
			return nil, err
		}
		if ty.Kind() != types.KUnionRef {
			return nil, errors.NewParse(fmt.Sprintf("%s is not a union type", ty))
		}
		inst, ok := fc.c.insts.Get(ty.DefId(), ty.Args())
		if !ok {
			return nil, errors.NewUnknownName(pos, ty.Name())
		}
		idx, fieldTy, ok := findField(inst.Fields, v.Field.Name)
		if !ok {
			return nil, errors.NewUnknownName(pos, v.Field.Name)
		}
		val, err := fc.checkRValue(v.Field.Value)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, fieldTy, val.Ty()); err != nil {
			return nil, err
		}
		return typedast.NewUnionLit(ty, typedast.FieldInit{Index: idx, Value: val}), nil

	case *ast.DotExpr:
		base, err := fc.checkLValue(v.Base)
		if err != nil {
			return nil, err
		}
		baseTy := base.Ty()
		switch baseTy.Kind() {
		case types.KStructRef:
			inst, ok := fc.c.insts.Get(baseTy.DefId(), baseTy.Args())
			if !ok {
				return nil, errors.NewUnknownName(pos, baseTy.Name())
			}
			idx, fieldTy, ok := findField(inst.Fields, v.Field)
			if !ok {
				return nil, errors.NewUnknownName(pos, v.Field)
			}
			return typedast.NewStruDot(fieldTy, base.Mut(), base, idx), nil
		case types.KUnionRef:
			inst, ok := fc.c.insts.Get(baseTy.DefId(), baseTy.Args())
			if !ok {
				return nil, errors.NewUnknownName(pos, baseTy.Name())
			}
			_, fieldTy, ok := findField(inst.Fields, v.Field)
			if !ok {
				return nil, errors.NewUnknownName(pos, v.Field)
			}
			return typedast.NewUnionDot(fieldTy, base.Mut(), base), nil
		default:
			return nil, errors.NewParse(fmt.Sprintf("%s has no field %q", baseTy, v.Field))
		}

	case *ast.IndexExpr:
		base, err := fc.checkLValue(v.Base)
		if err != nil {
			return nil, err
		}
		baseTy := base.Ty()
		if baseTy.Kind() != types.KArr {
			return nil, errors.NewParse(fmt.Sprintf("%s is not indexable", baseTy))
		}
		idx, err := fc.checkRValue(v.Index)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, idx.Ty(), types.BoundInt()); err != nil {
			return nil, err
		}
		return typedast.NewIndex(baseTy.Elem(), base.Mut(), base, idx), nil

	case *ast.IndExpr:
		ptr, err := fc.checkRValue(v.Arg)
		if err != nil {
			return nil, err
		}
		ptrTy := ptr.Ty()
		if ptrTy.Kind() != types.KPtr {
			return nil, errors.NewParse(fmt.Sprintf("cannot dereference non-pointer type %s", ptrTy))
		}
		return typedast.NewInd(ptrTy.Base(), ptrTy.IsMut(), ptr), nil

	default:
		return nil, errors.NewParse(fmt.Sprintf("%T is not addressable", e))
	}
}

// checkCall recognizes three call shapes: an ordinary call of a
// non-generic value, a reference to a generic definition (which drives
// instantiation at the resolved literal argument types), and
// construction of a struct-shaped enum variant (e.g. `B(n)`), since the
// source grammar has no dedicated enum-construction expression.
func (fc *fnChecker) checkCall(ce *ast.CallExpr) (typedast.RValue, error) {
	pos := ce.Position().String()
	if ne, ok := ce.Callee.(*ast.NameExpr); ok {
		if _, isLocal := fc.scopes.lookup(ne.Name); !isLocal {
			if id, def, ok := fc.c.lookupDefByName(ne.Name); ok {
				if len(def.TypeParams()) > 0 {
					return fc.checkGenericCall(id, def, ce)
				}
			} else if id, ed, vi, ok := fc.c.lookupVariant(ne.Name); ok && ed.Variants[vi].Fields != nil {
				return fc.checkVariantCall(id, ed, vi, ce)
			}
		}
	}

	callee, err := fc.checkRValue(ce.Callee)
	if err != nil {
		return nil, err
	}
	calleeTy := callee.Ty()
	if calleeTy.Kind() != types.KFunc {
		return nil, errors.NewParse(fmt.Sprintf("cannot call non-function type %s", calleeTy))
	}
	params := calleeTy.Params()
	if len(ce.Args) != len(params) && !calleeTy.Variadic() {
		return nil, errors.NewArity(pos, len(params), len(ce.Args))
	}
	if calleeTy.Variadic() && len(ce.Args) < len(params) {
		return nil, errors.NewArity(pos, len(params), len(ce.Args))
	}
	args := make([]typedast.RValue, len(ce.Args))
	for i, a := range ce.Args {
		av, err := fc.checkRValue(a)
		if err != nil {
			return nil, err
		}
		if i < len(params) {
			if _, err := fc.unify(pos, params[i].Type, av.Ty()); err != nil {
				return nil, err
			}
		}
		args[i] = av
	}
	return typedast.NewCall(calleeTy.Ret(), callee, args), nil
}

func (fc *fnChecker) checkGenericCall(id ast.DefId, def ast.Def, ce *ast.CallExpr) (typedast.RValue, error) {
	pos := ce.Position().String()
	generics := def.TypeParams()
	tvars := make([]types.Ty, len(generics))
	localMap := make(map[string]types.Ty, len(generics))
	for i, g := range generics {
		tv := fc.c.tcx.Fresh(types.BoundAny())
		tvars[i] = tv
		localMap[g] = tv
	}

	var params []types.Field
	var ret types.Ty
	var variadic bool
	switch d := def.(type) {
	case *ast.FuncDef:
		p, err := fc.c.resolveParams(localMap, d.Params)
		if err != nil {
			return nil, err
		}
		r, err := fc.c.resolveRet(localMap, d.Ret)
		if err != nil {
			return nil, err
		}
		params, ret = p, r
	case *ast.ExternFuncDef:
		p, err := fc.c.resolveParams(localMap, d.Params)
		if err != nil {
			return nil, err
		}
		r, err := fc.c.resolveRet(localMap, d.Ret)
		if err != nil {
			return nil, err
		}
		params, ret, variadic = p, r, d.Variadic
	default:
		return nil, errors.NewParse(fmt.Sprintf("%q is not callable", def.Name()))
	}

	if len(ce.Args) != len(params) && !variadic {
		return nil, errors.NewArity(pos, len(params), len(ce.Args))
	}
	argVals := make([]typedast.RValue, len(ce.Args))
	for i, a := range ce.Args {
		av, err := fc.checkRValue(a)
		if err != nil {
			return nil, err
		}
		if i < len(params) {
			if _, err := fc.unify(pos, params[i].Type, av.Ty()); err != nil {
				return nil, err
			}
		}
		argVals[i] = av
	}

	litArgs := make([]types.Ty, len(tvars))
	for i, tv := range tvars {
		litArgs[i] = fc.c.tcx.LitTy(tv)
	}
	if _, err := fc.c.Instantiate(id, litArgs); err != nil {
		return nil, err
	}
	fnTy := types.Func(params, variadic, ret)
	ref := typedast.NewFuncRef(fnTy, id, litArgs)
	return typedast.NewCall(ret, ref, argVals), nil
}

func (fc *fnChecker) checkVariantCall(id ast.DefId, ed *ast.EnumDef, vi int, ce *ast.CallExpr) (typedast.RValue, error) {
	pos := ce.Position().String()
	inst, err := fc.c.Instantiate(id, nil)
	if err != nil {
		return nil, err
	}
	variant := inst.Variants[vi]
	if len(ce.Args) != len(variant.Fields) {
		return nil, errors.NewArity(pos, len(variant.Fields), len(ce.Args))
	}
	fields := make([]typedast.FieldInit, len(ce.Args))
	for i, a := range ce.Args {
		av, err := fc.checkRValue(a)
		if err != nil {
			return nil, err
		}
		if _, err := fc.unify(pos, variant.Fields[i].Type, av.Ty()); err != nil {
			return nil, err
		}
		fields[i] = typedast.FieldInit{Index: i, Value: av}
	}
	ty := types.EnumRef(ed.Name(), id, nil)
	return typedast.NewLoad(typedast.NewStructVariantLit(ty, vi, fields)), nil
}

func findField(fields []types.Field, name string) (int, types.Ty, bool) {
	for i, f := range fields {
		if f.Name == name {
			return i, f.Type, true
		}
	}
	return 0, types.Ty{}, false
}

// checkConstExpr checks a Data object's initializer as a constant
// expression, which the checker builds directly rather than deferring
// to the lowerer, since only the checker has the scope needed to
// resolve names to Data/Func instances.
func (c *Checker) checkConstExpr(e ast.Expr, expectedTy types.Ty) (typedast.ConstVal, error) {
	switch v := e.(type) {
	case *ast.IntExpr:
		return typedast.NewIntConst(expectedTy, v.Value), nil

	case *ast.FltExpr:
		return typedast.NewFltConst(expectedTy, v.Value), nil

	case *ast.BoolExpr:
		return typedast.NewBoolConst(v.Value), nil

	case *ast.CStrExpr:
		return typedast.NewCStrConst(expectedTy, v.Value), nil

	case *ast.StrExpr:
		vals := make([]typedast.ConstVal, len(v.Value))
		for i, b := range v.Value {
			vals[i] = typedast.NewIntConst(types.Uint8(), int64(b))
		}
		return typedast.NewArrConst(types.Arr(uint64(len(v.Value)), types.Uint8()), vals), nil

	case *ast.ArrayLitExpr:
		if expectedTy.Kind() != types.KArr {
			return nil, fmt.Errorf("checker: array literal initializing non-array type %s", expectedTy)
		}
		elemTy := expectedTy.Elem()
		vals := make([]typedast.ConstVal, len(v.Elems))
		for i, el := range v.Elems {
			cv, err := c.checkConstExpr(el, elemTy)
			if err != nil {
				return nil, err
			}
			vals[i] = cv
		}
		return typedast.NewArrConst(expectedTy, vals), nil

	case *ast.StructLitExpr:
		ty, err := c.resolveTypeExpr(nil, v.Type)
		if err != nil {
			return nil, err
		}
		inst, ok := c.insts.Get(ty.DefId(), ty.Args())
		if !ok {
			return nil, errors.NewUnknownName(v.Position().String(), ty.Name())
		}
		fields := make([]typedast.ConstFieldInit, len(v.Fields))
		for i, fi := range v.Fields {
			idx, fieldTy, ok := findField(inst.Fields, fi.Name)
			if !ok {
				return nil, errors.NewUnknownName(v.Position().String(), fi.Name)
			}
			cv, err := c.checkConstExpr(fi.Value, fieldTy)
			if err != nil {
				return nil, err
			}
			fields[i] = typedast.ConstFieldInit{Index: idx, Value: cv}
		}
		return typedast.NewStructConst(ty, fields), nil

	case *ast.UnionLitExpr:
		ty, err := c.resolveTypeExpr(nil, v.Type)
		if err != nil {
			return nil, err
		}
		inst, ok := c.insts.Get(ty.DefId(), ty.Args())
		if !ok {
			return nil, errors.NewUnknownName(v.Position().String(), ty.Name())
		}
		idx, fieldTy, ok := findField(inst.Fields, v.Field.Name)
		if !ok {
			return nil, errors.NewUnknownName(v.Position().String(), v.Field.Name)
		}
		cv, err := c.checkConstExpr(v.Field.Value, fieldTy)
		if err != nil {
			return nil, err
		}
		return typedast.NewUnionConst(ty, typedast.ConstFieldInit{Index: idx, Value: cv}), nil

	case *ast.NameExpr:
		id, def, ok := c.lookupDefByName(v.Name)
		if !ok {
			return nil, errors.NewUnknownName(v.Position().String(), v.Name)
		}
		switch def.(type) {
		case *ast.FuncDef, *ast.ExternFuncDef:
			inst, err := c.Instantiate(id, nil)
			if err != nil {
				return nil, err
			}
			return typedast.NewFuncPtrVal(inst.Ty, id, nil), nil
		case *ast.DataDef, *ast.ExternDataDef:
			inst, err := c.Instantiate(id, nil)
			if err != nil {
				return nil, err
			}
			ptr := &typedast.DataPtr{Id: id}
			return typedast.NewDataPtrVal(types.Ptr(false, inst.Ty), ptr), nil
		default:
			return nil, fmt.Errorf("checker: %q is not a constant", v.Name)
		}

	default:
		return nil, fmt.Errorf("checker: %T is not a constant expression", e)
	}
}
