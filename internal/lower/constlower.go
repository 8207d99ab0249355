package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// constLowerer lowers the ConstVal/ConstPtr sums into backend constant
// expressions, and predicts the exact LLVM type a constant initializer
// will produce. For Union constants that prediction is keyed to
// the one field actually written rather than the highest-alignment
// representative field the type lowerer uses for ordinary (non-
// constant) storage, since an initializer's padding must match the
// literal exactly.
type constLowerer struct {
	l *lowerer
}

func (cl *constLowerer) tl() *typeLowerer { return cl.l.tl }

// predictTy mirrors lowerConst's recursion structure to compute the
// exact backend type a ConstVal will lower to, as a separate pure
// function whose structure mirrors the value lowering.
func (cl *constLowerer) predictTy(cv typedast.ConstVal) lltypes.Type {
	switch v := cv.(type) {
	case *typedast.FuncPtrVal, *typedast.DataPtrVal:
		return opaquePtr()
	case *typedast.BoolConst:
		return lltypes.I1
	case *typedast.IntConst, *typedast.FltConst:
		return cl.tl().lower(cv.Ty())
	case *typedast.CStrConst:
		return strArrTy(len(v.Bytes))
	case *typedast.ArrConst:
		return cl.predictArrTy(v)
	case *typedast.StructConst:
		members := make([]lltypes.Type, len(v.Fields))
		for i, f := range v.Fields {
			members[i] = cl.predictTy(f.Value)
		}
		return lltypes.NewStruct(members...)
	case *typedast.UnionConst:
		fieldTy := cl.predictTy(v.Field.Value)
		fieldSize := cl.predictSize(v.Field.Value)
		unionByteSize := cl.l.lay.sizeOf(v.Ty())
		if pad := unionByteSize - fieldSize; pad > 0 {
			return lltypes.NewStruct(fieldTy, lltypes.NewArray(pad, lltypes.I8))
		}
		return lltypes.NewStruct(fieldTy)
	default:
		panic(fmt.Sprintf("lower: %T has no predicted constant type", cv))
	}
}

func (cl *constLowerer) predictArrTy(v *typedast.ArrConst) lltypes.Type {
	if len(v.Values) == 0 {
		return lltypes.NewArray(0, cl.tl().lower(v.Ty().Elem()))
	}
	elem := cl.predictTy(v.Values[0])
	return lltypes.NewArray(uint64(len(v.Values)), elem)
}

// predictSize is the byte size corresponding to predictTy(cv), used
// only to size a UnionConst's trailing pad.
func (cl *constLowerer) predictSize(cv typedast.ConstVal) uint64 {
	switch v := cv.(type) {
	case *typedast.StructConst:
		var total uint64
		for _, f := range v.Fields {
			total += cl.predictSize(f.Value)
		}
		return total
	case *typedast.UnionConst:
		return cl.l.lay.sizeOf(v.Ty())
	case *typedast.ArrConst:
		if len(v.Values) == 0 {
			return 0
		}
		return uint64(len(v.Values)) * cl.predictSize(v.Values[0])
	case *typedast.CStrConst:
		return uint64(len(v.Bytes) + 1)
	default:
		return cl.l.lay.sizeOf(cv.Ty())
	}
}

// lowerConst recursively lowers a ConstVal into an LLVM constant.
func (cl *constLowerer) lowerConst(cv typedast.ConstVal) constant.Constant {
	switch v := cv.(type) {
	case *typedast.FuncPtrVal:
		fn := cl.l.funcHandle(v.Id, v.Args)
		return constant.NewBitCast(fn, opaquePtr())

	case *typedast.DataPtrVal:
		ptr, _ := cl.lowerConstPtr(v.Ptr)
		return constant.NewBitCast(ptr, opaquePtr())

	case *typedast.BoolConst:
		if v.Value {
			return constant.NewInt(lltypes.I1, 1)
		}
		return constant.NewInt(lltypes.I1, 0)

	case *typedast.IntConst:
		it, ok := cl.tl().lower(v.Ty()).(*lltypes.IntType)
		if !ok {
			panic(fmt.Sprintf("lower: IntConst of non-integer type %s", v.Ty()))
		}
		return constant.NewInt(it, v.Value)

	case *typedast.FltConst:
		ft, ok := cl.tl().lower(v.Ty()).(*lltypes.FloatType)
		if !ok {
			panic(fmt.Sprintf("lower: FltConst of non-float type %s", v.Ty()))
		}
		return constant.NewFloat(ft, v.Value)

	case *typedast.CStrConst:
		data := append(append([]byte(nil), v.Bytes...), 0)
		return constant.NewCharArrayFromString(string(data))

	case *typedast.ArrConst:
		elemTy := cl.predictArrTy(v).(*lltypes.ArrayType).ElemType
		vals := make([]constant.Constant, len(v.Values))
		for i, e := range v.Values {
			vals[i] = cl.lowerConst(e)
		}
		return constant.NewArray(lltypes.NewArray(uint64(len(vals)), elemTy), vals...)

	case *typedast.StructConst:
		st := cl.predictTy(v).(*lltypes.StructType)
		vals := make([]constant.Constant, len(v.Fields))
		for i, f := range v.Fields {
			vals[i] = cl.lowerConst(f.Value)
		}
		return constant.NewStruct(st, vals...)

	case *typedast.UnionConst:
		st := cl.predictTy(v).(*lltypes.StructType)
		fieldVal := cl.lowerConst(v.Field.Value)
		if len(st.Fields) == 1 {
			return constant.NewStruct(st, fieldVal)
		}
		pad := constant.NewZeroInitializer(st.Fields[1])
		return constant.NewStruct(st, fieldVal, pad)

	default:
		panic(fmt.Sprintf("lower: %T has no constant lowering", cv))
	}
}

// lowerConstPtr lowers a ConstPtr address expression, returning both
// the constant pointer and the (source-level) type of what it points
// to, recovered by walking the chain, since ConstPtr itself carries no
// type (that information lives on the Inst/ConstVal, not the address
// sum).
func (cl *constLowerer) lowerConstPtr(cp typedast.ConstPtr) (constant.Constant, types.Ty) {
	switch p := cp.(type) {
	case *typedast.DataPtr:
		g := cl.l.dataHandle(p.Id, p.Args)
		return g, cl.l.dataTy(p.Id, p.Args)

	case *typedast.StrLitPtr:
		g := cl.l.strtab.intern(p.Bytes)
		return g, types.Arr(uint64(len(p.Bytes)+1), types.Uint8())

	case *typedast.ArrayElementPtr:
		base, baseTy := cl.lowerConstPtr(p.Base)
		if baseTy.Kind() != types.KArr {
			panic(fmt.Sprintf("lower: ArrayElementPtr base is not an array (%s)", baseTy))
		}
		llArr := cl.tl().lower(baseTy)
		gep := constant.NewGetElementPtr(llArr, base,
			constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(p.Index)))
		return gep, baseTy.Elem()

	case *typedast.StructFieldPtr:
		base, baseTy := cl.lowerConstPtr(p.Base)
		fieldTy := cl.structFieldTy(baseTy, p.Index)
		llStruct := cl.tl().lower(baseTy)
		gep := constant.NewGetElementPtr(llStruct, base,
			constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(p.Index)))
		return gep, fieldTy

	case *typedast.UnionFieldPtr:
		// Same address, reinterpreted; the caller bitcasts to whatever
		// type it actually needs.
		return cl.lowerConstPtr(p.Base)

	default:
		panic(fmt.Sprintf("lower: %T has no constant pointer lowering", cp))
	}
}

func (cl *constLowerer) structFieldTy(baseTy types.Ty, index int) types.Ty {
	switch baseTy.Kind() {
	case types.KTuple:
		return baseTy.Fields()[index].Type
	case types.KStructRef:
		inst, ok := cl.l.insts.Get(baseTy.DefId(), baseTy.Args())
		if !ok {
			panic(fmt.Sprintf("lower: no instance for %s", baseTy))
		}
		return inst.Fields[index].Type
	default:
		panic(fmt.Sprintf("lower: %s is not a struct/tuple", baseTy))
	}
}
