package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

func intConst(t lltypes.Type, v int64) *constant.Int {
	it, ok := t.(*lltypes.IntType)
	if !ok {
		panic(fmt.Sprintf("lower: int literal of non-integer type %s", t))
	}
	return constant.NewInt(it, v)
}

func fltConst(t lltypes.Type, v float64) *constant.Float {
	ft, ok := t.(*lltypes.FloatType)
	if !ok {
		panic(fmt.Sprintf("lower: float literal of non-float type %s", t))
	}
	return constant.NewFloat(ft, v)
}

// lowerUn implements unary op dispatch: `+` is identity, `-` negates
// (float or integer), `~` is bitwise-not (integer only).
func (fl *fnLowerer) lowerUn(v *typedast.Un) value.Value {
	arg := fl.lowerRValue(v.Arg)
	switch v.Op {
	case ast.UPlus:
		return arg
	case ast.UNeg:
		if v.Ty().IsFloat() {
			zero := fltConst(fl.l.tl.lower(v.Ty()), 0)
			return fl.cur.NewFSub(zero, arg)
		}
		zero := intConst(fl.l.tl.lower(v.Ty()), 0)
		return fl.cur.NewSub(zero, arg)
	case ast.UBitNot:
		allOnes := intConst(fl.l.tl.lower(v.Ty()), -1)
		return fl.cur.NewXor(arg, allOnes)
	default:
		panic(fmt.Sprintf("lower: unknown unary op %d", v.Op))
	}
}

func (fl *fnLowerer) lowerBin(v *typedast.Bin) value.Value {
	l := fl.lowerRValue(v.L)
	r := fl.lowerRValue(v.R)
	return fl.applyBin(v.Op, v.L.Ty(), l, r)
}

// applyBin dispatches a binary op on integer vs float operand type,
// signed vs unsigned dispatch for Div/Mod/Rsh and the four ordering
// comparisons, ordered float (in)equality (oeq/one, so NaN compares
// unequal).
// operandTy is the type of the operands (not necessarily the result,
// which differs for the comparison ops).
func (fl *fnLowerer) applyBin(op ast.BinOp, operandTy types.Ty, l, r value.Value) value.Value {
	isFloat := operandTy.IsFloat()
	isUnsigned := operandTy.IsUnsigned()

	switch op {
	case ast.Add:
		if isFloat {
			return fl.cur.NewFAdd(l, r)
		}
		return fl.cur.NewAdd(l, r)
	case ast.Sub:
		if isFloat {
			return fl.cur.NewFSub(l, r)
		}
		return fl.cur.NewSub(l, r)
	case ast.Mul:
		if isFloat {
			return fl.cur.NewFMul(l, r)
		}
		return fl.cur.NewMul(l, r)
	case ast.Div:
		if isFloat {
			return fl.cur.NewFDiv(l, r)
		}
		if isUnsigned {
			return fl.cur.NewUDiv(l, r)
		}
		return fl.cur.NewSDiv(l, r)
	case ast.Mod:
		if isFloat {
			return fl.cur.NewFRem(l, r)
		}
		if isUnsigned {
			return fl.cur.NewURem(l, r)
		}
		return fl.cur.NewSRem(l, r)
	case ast.Shl:
		return fl.cur.NewShl(l, r)
	case ast.Rsh:
		if isUnsigned {
			return fl.cur.NewLShr(l, r)
		}
		return fl.cur.NewAShr(l, r)
	case ast.BitAnd:
		return fl.cur.NewAnd(l, r)
	case ast.BitOr:
		return fl.cur.NewOr(l, r)
	case ast.BitXor:
		return fl.cur.NewXor(l, r)
	case ast.Eq:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredOEQ, l, r)
		}
		return fl.cur.NewICmp(enum.IPredEQ, l, r)
	case ast.Ne:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredONE, l, r)
		}
		return fl.cur.NewICmp(enum.IPredNE, l, r)
	case ast.Lt:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredOLT, l, r)
		}
		if isUnsigned {
			return fl.cur.NewICmp(enum.IPredULT, l, r)
		}
		return fl.cur.NewICmp(enum.IPredSLT, l, r)
	case ast.Le:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredOLE, l, r)
		}
		if isUnsigned {
			return fl.cur.NewICmp(enum.IPredULE, l, r)
		}
		return fl.cur.NewICmp(enum.IPredSLE, l, r)
	case ast.Gt:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredOGT, l, r)
		}
		if isUnsigned {
			return fl.cur.NewICmp(enum.IPredUGT, l, r)
		}
		return fl.cur.NewICmp(enum.IPredSGT, l, r)
	case ast.Ge:
		if isFloat {
			return fl.cur.NewFCmp(enum.FPredOGE, l, r)
		}
		if isUnsigned {
			return fl.cur.NewICmp(enum.IPredUGE, l, r)
		}
		return fl.cur.NewICmp(enum.IPredSGE, l, r)
	default:
		panic(fmt.Sprintf("lower: unknown binary op %d", op))
	}
}

// lowerCast dispatches on (dest-kind, src-kind).
func (fl *fnLowerer) lowerCast(v *typedast.Cast) value.Value {
	arg := fl.lowerRValue(v.Arg)
	destTy := v.Ty()
	srcTy := v.Arg.Ty()
	destLL := fl.l.tl.lower(destTy)

	destIsPtrFunc := destTy.Kind() == types.KPtr || destTy.Kind() == types.KFunc
	srcIsPtrFunc := srcTy.Kind() == types.KPtr || srcTy.Kind() == types.KFunc

	switch {
	case destIsPtrFunc && srcIsPtrFunc:
		return arg // identity: both are the opaque pointer representation
	case destTy.IsInteger() && srcIsPtrFunc:
		return fl.cur.NewPtrToInt(arg, destLL)
	case destIsPtrFunc && srcTy.IsInteger():
		return fl.cur.NewIntToPtr(arg, destLL)
	case destTy.Kind() == types.KFloat && srcTy.Kind() == types.KDouble:
		return fl.cur.NewFPTrunc(arg, destLL)
	case destTy.Kind() == types.KDouble && srcTy.Kind() == types.KFloat:
		return fl.cur.NewFPExt(arg, destLL)
	case destTy.IsFloat() && srcTy.IsInteger() && srcTy.IsUnsigned():
		return fl.cur.NewUIToFP(arg, destLL)
	case destTy.IsFloat() && srcTy.IsInteger():
		return fl.cur.NewSIToFP(arg, destLL)
	case destTy.IsInteger() && destTy.IsUnsigned() && srcTy.IsFloat():
		return fl.cur.NewFPToUI(arg, destLL)
	case destTy.IsInteger() && srcTy.IsFloat():
		return fl.cur.NewFPToSI(arg, destLL)
	case destTy.IsInteger() && srcTy.IsInteger():
		return fl.castIntToInt(arg, destTy, destLL)
	default:
		panic(fmt.Sprintf("lower: unreachable cast %s -> %s", srcTy, destTy))
	}
}

func (fl *fnLowerer) castIntToInt(arg value.Value, destTy types.Ty, destLL lltypes.Type) value.Value {
	srcWidth := arg.Type().(*lltypes.IntType).BitSize
	dstWidth := destLL.(*lltypes.IntType).BitSize
	switch {
	case srcWidth == dstWidth:
		return arg
	case dstWidth < srcWidth:
		return fl.cur.NewTrunc(arg, destLL)
	case destTy.IsUnsigned():
		return fl.cur.NewZExt(arg, destLL)
	default:
		return fl.cur.NewSExt(arg, destLL)
	}
}
