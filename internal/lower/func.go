package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// loopTargets is the continue/break block pair of one enclosing
// While/Loop, pushed and popped around body lowering.
type loopTargets struct {
	continueBB *ir.Block
	breakBB    *ir.Block

	// resultSlot/resultTy are set only for a Loop whose value-carrying
	// Break(s) must deliver a result; nil/Void for a While, which is
	// always Unit-typed.
	resultSlot value.Value
	resultTy   types.Ty
}

// fnLowerer owns the per-function state of one function body's
// emission: the alloca block, the current insertion block, and the
// parameter/local indexed storage stacks. A fresh fnLowerer is created
// per Func instance with a body.
type fnLowerer struct {
	l   *lowerer
	fn  *ir.Func
	sig llvmSig

	allocaBB *ir.Block
	cur      *ir.Block

	retTy  types.Ty
	retSem Semantics
	sret   value.Value // the hidden out-pointer param, if retSem == SemAddr

	// paramSlots[i] is the address an Addr-semantics parameter was
	// passed as directly (no private copy), or the alloca'd private
	// storage a Value-semantics parameter was spilled into.
	paramSlots []value.Value

	// localSlots[i] is the current address of local-storage index i:
	// pre-allocated in allocaBB for a Let-introduced local, reassigned
	// in place to a GEP result for a Match arm's payload binding, since
	// the two share one index space (checker's fc.locals).
	localSlots []value.Value
	localTys   []types.Ty

	loops []loopTargets

	// unreachable marks that the current block already ended in a
	// terminator (Continue/Break/Return): any statements lowered after
	// that point are simply skipped rather than emitted into an
	// already-terminated block. Distinct from `cur.Term != nil`: it is
	// also set on the merge block of an If whose arms both terminate,
	// which has no terminator of its own.
	unreachable bool
}

// defineFunc builds the body of a Func instance that has one (pass 2
// of the two-pass lowering), following the alloca-block-then-entry-
// block discipline.
func (l *lowerer) defineFunc(inst *instances.Inst) error {
	fn := l.funcs[instKey(inst)]
	sig := l.buildSig(inst.Params, false, inst.Ty.Ret())

	fl := &fnLowerer{
		l:        l,
		fn:       fn,
		sig:      sig,
		retTy:    inst.Ty.Ret(),
		retSem:   semanticsOf(inst.Ty.Ret()),
		localTys: make([]types.Ty, len(inst.Locals)),
	}
	for i, loc := range inst.Locals {
		fl.localTys[i] = loc.Type
	}

	fl.allocaBB = fn.NewBlock("alloca")
	entry := fn.NewBlock("entry")

	llParams := fn.Params
	offset := 0
	if sig.sretFirst {
		fl.sret = llParams[0]
		offset = 1
	}

	fl.paramSlots = make([]value.Value, len(inst.Params))
	fl.cur = entry
	for i, p := range inst.Params {
		llp := llParams[offset+i]
		if semanticsOf(p.Type) == SemAddr {
			// The incoming opaque pointer is the slot itself; recover its
			// typed form once so GEP/load sites see the right pointee type.
			cast := entry.NewBitCast(llp, lltypes.NewPointer(l.tl.lower(p.Type)))
			cast.SetName(p.Name + ".addr")
			fl.paramSlots[i] = cast
			continue
		}
		slot := fl.allocaBB.NewAlloca(l.tl.lower(p.Type))
		slot.SetName(p.Name + ".addr")
		fl.allocaBB.NewStore(llp, slot)
		fl.paramSlots[i] = slot
	}

	fl.localSlots = make([]value.Value, len(inst.Locals))
	for i, loc := range inst.Locals {
		slot := fl.allocaBB.NewAlloca(l.tl.lower(loc.Type))
		slot.SetName(fmt.Sprintf("local.%d", i))
		fl.localSlots[i] = slot
	}

	result := fl.lowerRValue(inst.Body)
	if !fl.unreachable {
		fl.emitReturn(result)
	}

	fl.allocaBB.NewBr(entry)
	return nil
}

// emitReturn handles an explicit Return and the implicit fall-off-the-
// end return alike: the value becomes the return value, written
// through the hidden out-pointer when the return type is Addr. Callers
// are responsible for checking fl.unreachable first.
func (fl *fnLowerer) emitReturn(result value.Value) {
	switch fl.retSem {
	case SemVoid:
		fl.cur.NewRet(nil)
	case SemAddr:
		if result != nil {
			fl.storeAddr(fl.sret, result, fl.retTy)
		}
		fl.cur.NewRet(nil)
	default:
		if result == nil {
			result = fl.l.zeroValue(fl.retTy)
		}
		fl.cur.NewRet(result)
	}
}

// load implements the Load contract: an Addr-semantics type's "load"
// is the address itself; a Value-semantics type emits an actual load
// instruction; Void loads to nothing.
func (fl *fnLowerer) load(addr value.Value, ty types.Ty) value.Value {
	switch semanticsOf(ty) {
	case SemVoid:
		return nil
	case SemAddr:
		return addr
	default:
		return fl.cur.NewLoad(fl.l.tl.lower(ty), addr)
	}
}

// storeAddr implements the Store contract: Value emits a scalar store,
// Addr emits an aligned memcpy of exactly the lowered type's store
// size, Void is a no-op. val is already in the same "address-or-value"
// shape load() would produce for ty (a pointer for Addr, a scalar for
// Value); this is exactly what lowerRValue returns for any
// Addr-semantics expression.
func (fl *fnLowerer) storeAddr(dst value.Value, val value.Value, ty types.Ty) {
	switch semanticsOf(ty) {
	case SemVoid:
		return
	case SemAddr:
		if dst == val {
			return
		}
		size := fl.l.lay.sizeOf(ty)
		dstP := fl.cur.NewBitCast(dst, opaquePtr())
		srcP := fl.cur.NewBitCast(val, opaquePtr())
		fl.cur.NewCall(fl.l.memcpyFunc(), dstP, srcP, constI64(size), constI1(false))
	default:
		fl.cur.NewStore(val, dst)
	}
}

// declareLet spills init (if present) into the pre-allocated slot for
// a Let RValue.
func (fl *fnLowerer) declareLet(let *typedast.Let) {
	if let.Init == nil {
		return
	}
	val := fl.lowerRValue(let.Init)
	fl.storeAddr(fl.localSlots[let.Index], val, fl.localTys[let.Index])
}
