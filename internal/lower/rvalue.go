package lower

import (
	"fmt"

	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/typedast"
)

// lowerRValue lowers an RValue to its SSA value, or nil when the
// expression is Void-semantics: a Void expression never yields a
// usable SSA value, only its side effects matter.
func (fl *fnLowerer) lowerRValue(rv typedast.RValue) value.Value {
	switch v := rv.(type) {
	case *typedast.UnitRV:
		return nil

	case *typedast.FuncRef:
		return fl.l.funcHandle(v.Id, v.Args)

	case *typedast.CStr:
		// CStr's type is Ptr(Uint8) (a Value), not the global's own
		// [N+1]i8 array type, so the interned handle is bitcast to the
		// canonical opaque pointer representation.
		g := fl.l.strtab.intern(v.Bytes)
		return fl.cur.NewBitCast(g, opaquePtr())

	case *typedast.Load:
		addr := fl.lowerLValue(v.From)
		return fl.load(addr, v.From.Ty())

	case *typedast.Nil:
		return fl.l.zeroValue(v.Ty())

	case *typedast.BoolLit:
		return constI1(v.Value)

	case *typedast.IntLit:
		return fl.lowerIntLit(v)

	case *typedast.FltLit:
		return fl.lowerFltLit(v)

	case *typedast.Call:
		return fl.lowerCall(v)

	case *typedast.Adr:
		return fl.lowerLValue(v.Of)

	case *typedast.Un:
		return fl.lowerUn(v)

	case *typedast.Cast:
		return fl.lowerCast(v)

	case *typedast.Bin:
		return fl.lowerBin(v)

	case *typedast.LNot, *typedast.LAnd, *typedast.LOr:
		return fl.lowerBoolValue(rv)

	case *typedast.Block:
		return fl.lowerBlock(v)

	case *typedast.As:
		addr := fl.lowerLValue(v.LHS)
		val := fl.lowerRValue(v.RHS)
		fl.storeAddr(addr, val, v.LHS.Ty())
		return nil

	case *typedast.Rmw:
		fl.lowerRmw(v)
		return nil

	case *typedast.Continue:
		fl.lowerContinue()
		return nil

	case *typedast.Break:
		fl.lowerBreak(v)
		return nil

	case *typedast.Return:
		fl.lowerReturn(v)
		return nil

	case *typedast.Let:
		fl.declareLet(v)
		return nil

	case *typedast.If:
		return fl.lowerIf(v)

	case *typedast.While:
		return fl.lowerWhile(v)

	case *typedast.Loop:
		return fl.lowerLoop(v)

	case *typedast.Match:
		return fl.lowerMatch(v)

	default:
		panic(fmt.Sprintf("lower: %T has no r-value lowering", rv))
	}
}

func (fl *fnLowerer) lowerIntLit(v *typedast.IntLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	return intConst(llTy, v.Value)
}

func (fl *fnLowerer) lowerFltLit(v *typedast.FltLit) value.Value {
	llTy := fl.l.tl.lower(v.Ty())
	return fltConst(llTy, v.Value)
}

// lowerCall implements the Call contract: an Addr-semantics return
// allocates the receiving storage, passes its address as a hidden
// first argument, and the call expression's value becomes that slot's
// pointer; otherwise the call's natural result is used directly.
func (fl *fnLowerer) lowerCall(v *typedast.Call) value.Value {
	calleeFn := fl.calleeHandle(v.Callee)

	retSem := semanticsOf(v.Ty())
	var args []value.Value
	var sret value.Value
	if retSem == SemAddr {
		sret = fl.allocaBB.NewAlloca(fl.l.tl.lower(v.Ty()))
		args = append(args, fl.cur.NewBitCast(sret, opaquePtr()))
	}
	for _, a := range v.Args {
		av := fl.lowerRValue(a)
		if semanticsOf(a.Ty()) == SemAddr {
			// Addr-semantics arguments pass as the canonical opaque
			// pointer, matching the declared parameter type.
			av = fl.cur.NewBitCast(av, opaquePtr())
		}
		args = append(args, av)
	}

	call := fl.cur.NewCall(calleeFn, args...)
	switch retSem {
	case SemVoid:
		return nil
	case SemAddr:
		return sret
	default:
		return call
	}
}

// calleeHandle resolves a Call's callee expression to a backend
// function value: a direct FuncRef resolves to its declared handle; any
// other r-value (a Load of a function pointer, say) lowers to the
// opaque pointer representation and is cast back to a typed function
// pointer so the indirect call carries its signature.
func (fl *fnLowerer) calleeHandle(callee typedast.RValue) value.Value {
	if ref, ok := callee.(*typedast.FuncRef); ok {
		return fl.l.funcHandle(ref.Id, ref.Args)
	}
	val := fl.lowerRValue(callee)
	ty := callee.Ty()
	sig := fl.l.buildSig(ty.Params(), ty.Variadic(), ty.Ret())
	return fl.cur.NewBitCast(val, lltypes.NewPointer(sig.fnTy))
}

// lowerBlock lowers each statement in turn; once one terminates
// (Continue/Break/Return), the rest are discarded unlowered rather than
// emitted into an already-terminated block.
func (fl *fnLowerer) lowerBlock(v *typedast.Block) value.Value {
	var last value.Value
	for _, e := range v.Exprs {
		if fl.unreachable {
			break
		}
		last = fl.lowerRValue(e)
	}
	return last
}

func (fl *fnLowerer) lowerRmw(v *typedast.Rmw) {
	addr := fl.lowerLValue(v.LHS)
	cur := fl.load(addr, v.LHS.Ty())
	rhs := fl.lowerRValue(v.RHS)
	result := fl.applyBin(v.Op, v.LHS.Ty(), cur, rhs)
	fl.storeAddr(addr, result, v.LHS.Ty())
}

func (fl *fnLowerer) lowerContinue() {
	target := fl.loops[len(fl.loops)-1]
	fl.cur.NewBr(target.continueBB)
	fl.unreachable = true
}

// lowerBreak implements a value-carrying Break by storing into the
// enclosing Loop's result slot (allocated in lowerLoop) before jumping
// to the break target; a While's target never has a result slot since
// its Ty is always Unit.
func (fl *fnLowerer) lowerBreak(v *typedast.Break) {
	target := fl.loops[len(fl.loops)-1]
	if v.Value != nil && target.resultSlot != nil {
		val := fl.lowerRValue(v.Value)
		fl.storeAddr(target.resultSlot, val, target.resultTy)
	}
	fl.cur.NewBr(target.breakBB)
	fl.unreachable = true
}

func (fl *fnLowerer) lowerReturn(v *typedast.Return) {
	var val value.Value
	if v.Value != nil {
		val = fl.lowerRValue(v.Value)
	}
	fl.emitReturn(val)
	fl.unreachable = true
}
