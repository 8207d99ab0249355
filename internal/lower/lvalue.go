package lower

import (
	"fmt"

	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// lowerLValue resolves every LValue variant to a backend address,
// regardless of whether the type at that address has Value or Addr
// semantics (load() and storeAddr() are what interpret the address
// according to semantics, not this function).
func (fl *fnLowerer) lowerLValue(lv typedast.LValue) value.Value {
	switch v := lv.(type) {
	case *typedast.DataRef:
		// A Data global's backend type follows its initializer's exact
		// structural shape, not the declared type's ordinary lowering, so
		// the handle is recast wherever the two disagree.
		g := fl.l.dataHandle(v.Id, v.Args)
		want := lltypes.NewPointer(fl.l.tl.lower(v.Ty()))
		if g.Type().Equal(want) {
			return g
		}
		return fl.cur.NewBitCast(g, want)

	case *typedast.ParamRef:
		return fl.paramSlots[v.Index]

	case *typedast.LetRef:
		return fl.localSlots[v.Index]

	case *typedast.BindingRef:
		return fl.localSlots[v.Index]

	case *typedast.StrLit:
		// v.Ty() is [len(bytes)]Uint8 (no trailing NUL), one byte
		// shorter than the interned global's own [len+1]i8 storage, so
		// the handle is bitcast to keep its pointee type matching what
		// GEP/load/store at this address expect.
		g := fl.l.strtab.intern(v.Bytes)
		return fl.cur.NewBitCast(g, lltypes.NewPointer(fl.l.tl.lower(v.Ty())))

	case *typedast.ArrayLit:
		return fl.lowerArrayLit(v)

	case *typedast.StructLit:
		return fl.lowerStructLit(v)

	case *typedast.UnionLit:
		return fl.lowerUnionLit(v)

	case *typedast.UnitVariantLit:
		return fl.lowerUnitVariantLit(v)

	case *typedast.StructVariantLit:
		return fl.lowerStructVariantLit(v)

	case *typedast.StruDot:
		base := fl.lowerLValue(v.Base)
		baseLLTy := fl.l.tl.lower(v.Base.Ty())
		return fl.cur.NewGetElementPtr(baseLLTy, base, constI32(0), constI32(int64(v.Field)))

	case *typedast.UnionDot:
		// Same storage, reinterpreted: bitcast to a pointer to the
		// requested field's own type.
		base := fl.lowerLValue(v.Base)
		return fl.cur.NewBitCast(base, lltypes.NewPointer(fl.l.tl.lower(v.Ty())))

	case *typedast.Index:
		base := fl.lowerLValue(v.Base)
		baseLLTy := fl.l.tl.lower(v.Base.Ty())
		idx := fl.lowerRValue(v.Index)
		return fl.cur.NewGetElementPtr(baseLLTy, base, constI32(0), idx)

	case *typedast.Ind:
		return fl.lowerRValue(v.Ptr)

	default:
		panic(fmt.Sprintf("lower: %T has no l-value lowering", lv))
	}
}

// lowerArrayLit allocates a temporary of the array's type and stores
// each element in turn. Like the struct, union and variant literals
// below, it is not backed by pre-existing storage, since the LValue sum
// covers literal construction as well as addressing.
func (fl *fnLowerer) lowerArrayLit(v *typedast.ArrayLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	tmp := fl.allocaBB.NewAlloca(llTy)
	elemTy := v.Ty().Elem()
	for i, e := range v.Elements {
		ptr := fl.cur.NewGetElementPtr(llTy, tmp, constI32(0), constI32(int64(i)))
		fl.storeAddr(ptr, fl.lowerRValue(e), elemTy)
	}
	return tmp
}

func (fl *fnLowerer) lowerStructLit(v *typedast.StructLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	tmp := fl.allocaBB.NewAlloca(llTy)
	fields := fl.nominalFields(v.Ty())
	for _, f := range v.Fields {
		ptr := fl.cur.NewGetElementPtr(llTy, tmp, constI32(0), constI32(int64(f.Index)))
		fl.storeAddr(ptr, fl.lowerRValue(f.Value), fields[f.Index].Type)
	}
	return tmp
}

// nominalFields looks up a Struct/Union's field list through the
// instance table: a StructRef/UnionRef Ty carries only a name and
// DefId, not its fields (those live on the monomorphized Inst).
func (fl *fnLowerer) nominalFields(ty types.Ty) []types.Field {
	inst, ok := fl.l.insts.Get(ty.DefId(), ty.Args())
	if !ok {
		panic(fmt.Sprintf("lower: no instance for %s", ty))
	}
	return inst.Fields
}

func (fl *fnLowerer) lowerUnionLit(v *typedast.UnionLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	tmp := fl.allocaBB.NewAlloca(llTy)
	fieldTy := fl.unionFieldTy(v.Ty(), v.Field.Index)
	ptr := fl.cur.NewBitCast(tmp, lltypes.NewPointer(fl.l.tl.lower(fieldTy)))
	fl.storeAddr(ptr, fl.lowerRValue(v.Field.Value), fieldTy)
	return tmp
}

// unionFieldTy recovers the source-level type of a Union field by
// index, needed because UnionLit carries only the field's initializing
// r-value, not its declared type.
func (fl *fnLowerer) unionFieldTy(unionTy types.Ty, index int) types.Ty {
	return fl.nominalFields(unionTy)[index].Type
}

// lowerUnitVariantLit writes only the tag; the payload union storage is
// left uninitialized (no arm reads it for a unit variant).
func (fl *fnLowerer) lowerUnitVariantLit(v *typedast.UnitVariantLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	tmp := fl.allocaBB.NewAlloca(llTy)
	tagPtr := fl.cur.NewGetElementPtr(llTy, tmp, constI32(0), constI32(0))
	fl.cur.NewStore(constI32(int64(v.VariantIndex)), tagPtr)
	return tmp
}

// lowerStructVariantLit writes the tag, then the payload fields through
// a GEP to the enum's payload union (field index 1) bitcast to the
// variant's own payload struct type.
func (fl *fnLowerer) lowerStructVariantLit(v *typedast.StructVariantLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	tmp := fl.allocaBB.NewAlloca(llTy)
	tagPtr := fl.cur.NewGetElementPtr(llTy, tmp, constI32(0), constI32(0))
	fl.cur.NewStore(constI32(int64(v.VariantIndex)), tagPtr)

	inst, ok := fl.l.insts.Get(v.Ty().DefId(), v.Ty().Args())
	if !ok {
		panic(fmt.Sprintf("lower: no instance for enum %s", v.Ty()))
	}
	variant := inst.Variants[v.VariantIndex]
	payloadTy := variantPayloadTy(variant.Fields)
	payloadLLTy := fl.l.tl.lower(payloadTy)

	unionPtr := fl.cur.NewGetElementPtr(llTy, tmp, constI32(0), constI32(1))
	payloadPtr := fl.cur.NewBitCast(unionPtr, lltypes.NewPointer(payloadLLTy))
	if len(variant.Fields) == 1 {
		// payloadLLTy is the bare field type here (variantPayloadTy's
		// single-field special case), so there is no wrapper struct to
		// index into: the field's value is stored directly at payloadPtr.
		fl.storeAddr(payloadPtr, fl.lowerRValue(v.Fields[0].Value), variant.Fields[0].Type)
		return tmp
	}
	for _, f := range v.Fields {
		fieldPtr := fl.cur.NewGetElementPtr(payloadLLTy, payloadPtr, constI32(0), constI32(int64(f.Index)))
		fl.storeAddr(fieldPtr, fl.lowerRValue(f.Value), variant.Fields[f.Index].Type)
	}
	return tmp
}
