package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/typedast"
)

// emitBranch implements short-circuit boolean lowering: a conditional
// branch to one of two target blocks, recursing through LAnd/LOr/LNot
// without ever materializing an intermediate boolean value. Any other
// r-value falls back to evaluating it and branching on the resulting
// i1.
func (fl *fnLowerer) emitBranch(cond typedast.RValue, trueBB, falseBB *ir.Block) {
	switch c := cond.(type) {
	case *typedast.LNot:
		fl.emitBranch(c.Arg, falseBB, trueBB)

	case *typedast.LAnd:
		mid := fl.fn.NewBlock("")
		fl.emitBranch(c.L, mid, falseBB)
		fl.cur = mid
		fl.emitBranch(c.R, trueBB, falseBB)

	case *typedast.LOr:
		mid := fl.fn.NewBlock("")
		fl.emitBranch(c.L, trueBB, mid)
		fl.cur = mid
		fl.emitBranch(c.R, trueBB, falseBB)

	default:
		val := fl.lowerRValue(cond)
		fl.cur.NewCondBr(val, trueBB, falseBB)
	}
}

// lowerBoolValue materializes an LNot/LAnd/LOr as an actual i1 value:
// when a boolean value is needed (not just a branch), both targets
// jump to a phi block producing true/false.
func (fl *fnLowerer) lowerBoolValue(cond typedast.RValue) value.Value {
	trueBB := fl.fn.NewBlock("sc.true")
	falseBB := fl.fn.NewBlock("sc.false")
	doneBB := fl.fn.NewBlock("sc.done")

	fl.emitBranch(cond, trueBB, falseBB)

	trueBB.NewBr(doneBB)
	falseBB.NewBr(doneBB)

	fl.cur = doneBB
	fl.unreachable = false
	return doneBB.NewPhi(
		ir.NewIncoming(constI1(true), trueBB),
		ir.NewIncoming(constI1(false), falseBB),
	)
}

// lowerIf implements If: then/else/end blocks, with a phi in end
// merging whichever arms actually reach it (an arm that terminates via
// Return/Break/Continue never contributes an incoming value).
func (fl *fnLowerer) lowerIf(v *typedast.If) value.Value {
	thenBB := fl.fn.NewBlock("if.then")
	elseBB := fl.fn.NewBlock("if.else")
	endBB := fl.fn.NewBlock("if.end")

	fl.emitBranch(v.Cond, thenBB, elseBB)

	fl.cur = thenBB
	fl.unreachable = false
	thenVal := fl.lowerRValue(v.Then)
	thenFinal := fl.cur
	thenReaches := !fl.unreachable
	if thenReaches {
		fl.cur.NewBr(endBB)
	}

	fl.cur = elseBB
	fl.unreachable = false
	var elseVal value.Value
	if v.Else != nil {
		elseVal = fl.lowerRValue(v.Else)
	}
	elseFinal := fl.cur
	elseReaches := !fl.unreachable
	if elseReaches {
		fl.cur.NewBr(endBB)
	}

	fl.cur = endBB
	fl.unreachable = !thenReaches && !elseReaches
	if semanticsOf(v.Ty()) == SemVoid {
		return nil
	}

	var incs []*ir.Incoming
	if thenReaches {
		incs = append(incs, ir.NewIncoming(thenVal, thenFinal))
	}
	if elseReaches {
		incs = append(incs, ir.NewIncoming(elseVal, elseFinal))
	}
	if len(incs) == 0 {
		return nil
	}
	return endBB.NewPhi(incs...)
}

// lowerWhile implements While: test -> body -> test -> end, with
// Continue/Break targeting test/end respectively. A While is always
// Unit-typed, so its Body's value, if any, is discarded.
func (fl *fnLowerer) lowerWhile(v *typedast.While) value.Value {
	testBB := fl.fn.NewBlock("while.test")
	bodyBB := fl.fn.NewBlock("while.body")
	endBB := fl.fn.NewBlock("while.end")

	fl.cur.NewBr(testBB)

	fl.cur = testBB
	fl.unreachable = false
	fl.emitBranch(v.Cond, bodyBB, endBB)

	fl.cur = bodyBB
	fl.unreachable = false
	fl.loops = append(fl.loops, loopTargets{continueBB: testBB, breakBB: endBB})
	fl.lowerRValue(v.Body)
	if !fl.unreachable {
		fl.cur.NewBr(testBB)
	}
	fl.loops = fl.loops[:len(fl.loops)-1]

	fl.cur = endBB
	fl.unreachable = false
	return nil
}

// lowerLoop implements Loop: body -> body, with Continue/Break
// targeting body-start/end. A value-carrying Break
// delivers the Loop's result through a dedicated slot, since Break
// sites are otherwise unrelated blocks with no single merge point to
// phi directly.
func (fl *fnLowerer) lowerLoop(v *typedast.Loop) value.Value {
	ty := v.Ty()
	sem := semanticsOf(ty)

	var slot value.Value
	if sem != SemVoid {
		slot = fl.allocaBB.NewAlloca(fl.l.tl.lower(ty))
	}

	bodyBB := fl.fn.NewBlock("loop.body")
	endBB := fl.fn.NewBlock("loop.end")

	fl.cur.NewBr(bodyBB)

	fl.cur = bodyBB
	fl.unreachable = false
	fl.loops = append(fl.loops, loopTargets{continueBB: bodyBB, breakBB: endBB, resultSlot: slot, resultTy: ty})
	fl.lowerRValue(v.Body)
	if !fl.unreachable {
		fl.cur.NewBr(bodyBB)
	}
	fl.loops = fl.loops[:len(fl.loops)-1]

	fl.cur = endBB
	fl.unreachable = false
	if sem == SemVoid {
		return nil
	}
	return fl.load(slot, ty)
}

// lowerMatch implements Match: a switch on the 32-bit enum tag, one
// case per variant index, a struct-variant arm's binding exposed as a
// GEP into the payload union at field index 1, and a phi merging arm
// results in the end block (with an undef incoming from the, provably
// unreachable by the checker's mandatory exhaustiveness, switch-default
// edge, to keep the phi well-formed).
func (fl *fnLowerer) lowerMatch(v *typedast.Match) value.Value {
	condTy := v.Cond.Ty()
	condAddr := fl.lowerRValue(v.Cond)
	enumLLTy := fl.l.tl.lower(condTy)

	enumInst, ok := fl.l.insts.Get(condTy.DefId(), condTy.Args())
	if !ok {
		panic(fmt.Sprintf("lower: no instance for %s", condTy))
	}

	tagPtr := fl.cur.NewGetElementPtr(enumLLTy, condAddr, constI32(0), constI32(0))
	tag := fl.cur.NewLoad(lltypes.I32, tagPtr)

	endBB := fl.fn.NewBlock("match.end")
	defaultBB := fl.fn.NewBlock("match.default")
	defaultBB.NewBr(endBB)

	armBBs := make([]*ir.Block, len(v.Arms))
	cases := make([]*ir.Case, len(v.Arms))
	for i, arm := range v.Arms {
		armBBs[i] = fl.fn.NewBlock(fmt.Sprintf("match.arm%d", arm.VariantIndex))
		cases[i] = ir.NewCase(constI32(int64(arm.VariantIndex)), armBBs[i])
	}
	fl.cur.NewSwitch(tag, defaultBB, cases...)

	resultSem := semanticsOf(v.Ty())
	var incs []*ir.Incoming
	if resultSem != SemVoid {
		// Arm values for an Addr-semantics result are pointers, so the
		// default edge's undef must be pointer-typed to keep the phi
		// uniform.
		undefTy := fl.l.tl.lower(v.Ty())
		if resultSem == SemAddr {
			undefTy = lltypes.NewPointer(undefTy)
		}
		incs = append(incs, ir.NewIncoming(constant.NewUndef(undefTy), defaultBB))
	}

	for i, arm := range v.Arms {
		fl.cur = armBBs[i]
		fl.unreachable = false
		if arm.HasBinding {
			variant := enumInst.Variants[arm.VariantIndex]
			payloadTy := variantPayloadTy(variant.Fields)
			payloadLLTy := fl.l.tl.lower(payloadTy)
			unionPtr := fl.cur.NewGetElementPtr(enumLLTy, condAddr, constI32(0), constI32(1))
			bindingPtr := fl.cur.NewBitCast(unionPtr, lltypes.NewPointer(payloadLLTy))
			fl.localSlots[arm.BindingIndex] = bindingPtr
		}

		armVal := fl.lowerRValue(arm.Body)
		armFinal := fl.cur
		if !fl.unreachable {
			fl.cur.NewBr(endBB)
			if resultSem != SemVoid {
				incs = append(incs, ir.NewIncoming(armVal, armFinal))
			}
		}
	}

	fl.cur = endBB
	fl.unreachable = false
	if resultSem == SemVoid {
		return nil
	}
	return endBB.NewPhi(incs...)
}
