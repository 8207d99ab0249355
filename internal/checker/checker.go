// Package checker implements the type checker and inference pass: it
// walks a Repository's definitions, maintains lexical scopes and the
// shared TCX, translates untyped ast.Expr trees into typed
// LValue/RValue, and drives monomorphization by populating the
// instances.Table on first reference to a definition.
//
// One Checker holds the shared mutable context (TCX, instance table,
// repository); expression kinds are dispatched by type switch, and
// each function body gets its own scope stack built against
// internal/types.TCX's union-find and against LValue/RValue, since the
// source language distinguishes addressable from computed expressions.
package checker

import (
	"fmt"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/errors"
	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// Checker owns the compilation-wide state shared by every definition
// instantiation: the repository being checked, the TCX, and the
// instance table being populated.
type Checker struct {
	repo  *ast.Repository
	tcx   *types.TCX
	insts *instances.Table
}

// New creates a Checker over a Repository, using the given TCX and
// instance table (owned by the driver for the run's duration).
func New(repo *ast.Repository, tcx *types.TCX, insts *instances.Table) *Checker {
	return &Checker{repo: repo, tcx: tcx, insts: insts}
}

// CheckAll instantiates every non-generic top-level definition in
// source order. Generic definitions are checked lazily, only when a
// concrete reference triggers Instantiate: a generic definition never
// referenced anywhere produces no instance and is never type-checked,
// matching "monomorphization happens only on use".
func (c *Checker) CheckAll() error {
	for _, id := range c.repo.Order {
		def := c.repo.Defs[id]
		if len(def.TypeParams()) == 0 {
			if _, err := c.Instantiate(id, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Instantiate is get_or_create: it looks up (id, args) in the instance
// table, or inserts a forward-declaration shell and runs the checker
// against def specialized to args.
func (c *Checker) Instantiate(id ast.DefId, args []types.Ty) (*instances.Inst, error) {
	def, ok := c.repo.Defs[id]
	if !ok {
		return nil, fmt.Errorf("checker: unknown def id %s", id)
	}
	if len(def.TypeParams()) != len(args) {
		return nil, errors.NewArity(def.Position().String(), len(def.TypeParams()), len(args))
	}
	kind := instKind(def)
	inst, isNew := c.insts.Shell(id, args, kind, def.Name())
	if !isNew {
		return inst, nil
	}

	generics := make(map[string]types.Ty, len(def.TypeParams()))
	for i, g := range def.TypeParams() {
		generics[g] = args[i]
	}

	switch d := def.(type) {
	case *ast.StructDef:
		fields, err := c.resolveFields(generics, d.Fields)
		if err != nil {
			return nil, err
		}
		inst.HasFields = true
		inst.Fields = fields

	case *ast.UnionDef:
		fields, err := c.resolveFields(generics, d.Fields)
		if err != nil {
			return nil, err
		}
		inst.HasFields = true
		inst.Fields = fields

	case *ast.EnumDef:
		variants := make([]instances.Variant, len(d.Variants))
		for i, v := range d.Variants {
			if v.Fields == nil {
				variants[i] = instances.Variant{Name: v.Name}
				continue
			}
			fields, err := c.resolveFields(generics, v.Fields)
			if err != nil {
				return nil, err
			}
			variants[i] = instances.Variant{Name: v.Name, Fields: fields}
		}
		inst.HasVariants = true
		inst.Variants = variants

	case *ast.ExternFuncDef:
		params, err := c.resolveParams(nil, d.Params)
		if err != nil {
			return nil, err
		}
		ret, err := c.resolveRet(nil, d.Ret)
		if err != nil {
			return nil, err
		}
		inst.Ty = types.Func(params, d.Variadic, ret)
		inst.Params = params

	case *ast.ExternDataDef:
		ty, err := c.resolveTypeExpr(nil, d.Type)
		if err != nil {
			return nil, err
		}
		inst.Ty = ty

	case *ast.DataDef:
		ty, err := c.resolveTypeExpr(nil, d.Type)
		if err != nil {
			return nil, err
		}
		inst.Ty = ty
		cv, err := c.checkConstExpr(d.Init, ty)
		if err != nil {
			return nil, err
		}
		inst.Init = cv

	case *ast.FuncDef:
		params, err := c.resolveParams(generics, d.Params)
		if err != nil {
			return nil, err
		}
		ret, err := c.resolveRet(generics, d.Ret)
		if err != nil {
			return nil, err
		}
		inst.Ty = types.Func(params, false, ret)
		inst.Params = params
		if d.Body == nil {
			return inst, nil
		}

		fc := newFnChecker(c, generics, ret)
		for i, p := range d.Params {
			fc.scopes.declare(p.Name, binding{kind: bindParam, index: i, ty: params[i].Type})
		}
		body, err := fc.checkRValue(d.Body)
		if err != nil {
			return nil, err
		}
		if _, err := c.tcx.Unify(ret, body.Ty()); err != nil {
			return nil, errors.NewUnify(d.Position().String(), ret, body.Ty())
		}

		inst.Body = typedast.ResolveR(c.tcx.LitTy, body)
		inst.Locals = fc.finalizeLocals(c.tcx)
		inst.HasBody = true

	default:
		return nil, fmt.Errorf("checker: unhandled def kind %T", def)
	}

	return inst, nil
}

func instKind(def ast.Def) instances.Kind {
	switch def.(type) {
	case *ast.StructDef:
		return instances.KStruct
	case *ast.UnionDef:
		return instances.KUnion
	case *ast.EnumDef:
		return instances.KEnum
	case *ast.FuncDef:
		return instances.KFunc
	case *ast.DataDef:
		return instances.KData
	case *ast.ExternFuncDef:
		return instances.KExternFunc
	case *ast.ExternDataDef:
		return instances.KExternData
	default:
		return instances.KFunc
	}
}

func (c *Checker) resolveFields(generics map[string]types.Ty, defs []ast.FieldDef) ([]types.Field, error) {
	fields := make([]types.Field, len(defs))
	for i, f := range defs {
		ty, err := c.resolveTypeExpr(generics, f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = types.Field{Name: f.Name, Type: ty}
	}
	return fields, nil
}

func (c *Checker) resolveParams(generics map[string]types.Ty, params []ast.Param) ([]types.Field, error) {
	out := make([]types.Field, len(params))
	for i, p := range params {
		ty, err := c.resolveTypeExpr(generics, p.Type)
		if err != nil {
			return nil, err
		}
		out[i] = types.Field{Name: p.Name, Type: ty}
	}
	return out, nil
}

func (c *Checker) resolveRet(generics map[string]types.Ty, ret ast.TypeExpr) (types.Ty, error) {
	if ret == nil {
		return types.Tuple(nil), nil
	}
	return c.resolveTypeExpr(generics, ret)
}

// resolveTypeExpr turns surface syntax into a Ty, substituting generic
// parameter names from generics and triggering monomorphization on
// every nominal reference it resolves, since a type reference is
// itself a use.
func (c *Checker) resolveTypeExpr(generics map[string]types.Ty, te ast.TypeExpr) (types.Ty, error) {
	switch t := te.(type) {
	case *ast.NameTypeExpr:
		if ty, ok := generics[t.Name]; ok {
			return ty, nil
		}
		if ty, ok := primitiveByName(t.Name); ok {
			return ty, nil
		}
		id, def, ok := c.lookupDefByName(t.Name)
		if !ok {
			return types.Ty{}, errors.NewUnknownName(t.Position().String(), t.Name)
		}
		return c.resolveNominalRef(id, def, nil)

	case *ast.PtrTypeExpr:
		base, err := c.resolveTypeExpr(generics, t.Base)
		if err != nil {
			return types.Ty{}, err
		}
		return types.Ptr(t.Mut, base), nil

	case *ast.ArrTypeExpr:
		elem, err := c.resolveTypeExpr(generics, t.Elem)
		if err != nil {
			return types.Ty{}, err
		}
		return types.Arr(t.Count, elem), nil

	case *ast.FuncTypeExpr:
		params := make([]types.Field, len(t.Params))
		for i, p := range t.Params {
			ty, err := c.resolveTypeExpr(generics, p.Type)
			if err != nil {
				return types.Ty{}, err
			}
			params[i] = types.Field{Name: p.Name, Type: ty}
		}
		ret, err := c.resolveTypeExpr(generics, t.Ret)
		if err != nil {
			return types.Ty{}, err
		}
		return types.Func(params, t.Variadic, ret), nil

	case *ast.TupleTypeExpr:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			ty, err := c.resolveTypeExpr(generics, f.Type)
			if err != nil {
				return types.Ty{}, err
			}
			fields[i] = types.Field{Name: f.Name, Type: ty}
		}
		return types.Tuple(fields), nil

	case *ast.GenericTypeExpr:
		args := make([]types.Ty, len(t.Args))
		for i, a := range t.Args {
			ty, err := c.resolveTypeExpr(generics, a)
			if err != nil {
				return types.Ty{}, err
			}
			args[i] = ty
		}
		id, def, ok := c.lookupDefByName(t.Name)
		if !ok {
			return types.Ty{}, errors.NewUnknownName(t.Position().String(), t.Name)
		}
		return c.resolveNominalRef(id, def, args)

	default:
		return types.Ty{}, fmt.Errorf("checker: unhandled type expr %T", te)
	}
}

func (c *Checker) resolveNominalRef(id ast.DefId, def ast.Def, args []types.Ty) (types.Ty, error) {
	inst, err := c.Instantiate(id, args)
	if err != nil {
		return types.Ty{}, err
	}
	switch inst.Kind {
	case instances.KStruct:
		return types.StructRef(def.Name(), id, args), nil
	case instances.KUnion:
		return types.UnionRef(def.Name(), id, args), nil
	case instances.KEnum:
		return types.EnumRef(def.Name(), id, args), nil
	default:
		return types.Ty{}, fmt.Errorf("checker: %q does not name a type", def.Name())
	}
}

// lookupDefByName finds a top-level definition by its surface name.
// The repository is small enough (one compilation unit) that a linear
// scan over its definitions is simpler than maintaining a side table.
func (c *Checker) lookupDefByName(name string) (ast.DefId, ast.Def, bool) {
	for _, id := range c.repo.Order {
		if def := c.repo.Defs[id]; def.Name() == name {
			return id, def, true
		}
	}
	return 0, nil, false
}

// lookupVariant finds an enum variant by name across every EnumDef in
// the repository. The source grammar has no dedicated enum-construction
// expression (ast/expr.go only has struct/union/array literals): a unit
// variant is referenced the way a data object would be (a bare name)
// and a struct variant is constructed the way a function would be
// (a call), so this fallback lookup is tried only after ordinary name
// and call resolution fail.
func (c *Checker) lookupVariant(name string) (ast.DefId, *ast.EnumDef, int, bool) {
	for _, id := range c.repo.Order {
		ed, ok := c.repo.Defs[id].(*ast.EnumDef)
		if !ok {
			continue
		}
		for i, v := range ed.Variants {
			if v.Name == name {
				return id, ed, i, true
			}
		}
	}
	return 0, nil, 0, false
}

func primitiveByName(name string) (types.Ty, bool) {
	switch name {
	case "Bool":
		return types.Bool(), true
	case "Uint8":
		return types.Uint8(), true
	case "Int8":
		return types.Int8(), true
	case "Uint16":
		return types.Uint16(), true
	case "Int16":
		return types.Int16(), true
	case "Uint32":
		return types.Uint32(), true
	case "Int32":
		return types.Int32(), true
	case "Uint64":
		return types.Uint64(), true
	case "Int64":
		return types.Int64(), true
	case "Uintn":
		return types.Uintn(), true
	case "Intn":
		return types.Intn(), true
	case "Float":
		return types.Float(), true
	case "Double":
		return types.Double(), true
	default:
		return types.Ty{}, false
	}
}
