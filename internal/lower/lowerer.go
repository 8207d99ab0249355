package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/types"
)

// lowerer is the top-level SSA lowering pass: it consumes a fully
// populated instances.Table and emits one *ir.Module, following a
// two-pass shell-then-body discipline. It holds the module alongside
// name-keyed handle maps for every declared function and global.
type lowerer struct {
	m      *ir.Module
	insts  *instances.Table
	lay    *layout
	tl     *typeLowerer
	cl     *constLowerer
	strtab *stringTable

	funcs map[string]*ir.Func
	datas map[string]*ir.Global

	memcpy *ir.Func
}

// Lower runs both passes over insts and returns the finished module.
// This is the sole entry point from instantiation into lowering.
func Lower(insts *instances.Table) (*ir.Module, error) {
	m := ir.NewModule()
	l := &lowerer{
		m:     m,
		insts: insts,
		funcs: make(map[string]*ir.Func),
		datas: make(map[string]*ir.Global),
	}
	l.lay = &layout{insts: insts}
	l.tl = newTypeLowerer(m, insts, l.lay)
	l.cl = &constLowerer{l: l}
	l.strtab = newStringTable(m)

	for _, inst := range insts.All() {
		if err := l.declare(inst); err != nil {
			return nil, err
		}
	}
	for _, inst := range insts.All() {
		if err := l.define(inst); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// declare is pass 1: create the backend global or function shell for
// every Data/ExternData/Func/ExternFunc instance, so that pass 2's
// bodies can reference any other definition's handle regardless of
// table order (forward and mutual references alike).
func (l *lowerer) declare(inst *instances.Inst) error {
	switch inst.Kind {
	case instances.KFunc, instances.KExternFunc:
		l.declareFunc(inst)
	case instances.KData:
		l.declareData(inst)
	case instances.KExternData:
		l.declareExternData(inst)
	}
	return nil
}

// define is pass 2: set data initializers and build function bodies.
func (l *lowerer) define(inst *instances.Inst) error {
	switch inst.Kind {
	case instances.KFunc:
		if !inst.HasBody {
			return nil
		}
		return l.defineFunc(inst)
	case instances.KData:
		l.defineData(inst)
	}
	return nil
}

func instKey(inst *instances.Inst) string { return instances.Key(inst.Id, inst.Args) }

// declareFunc creates the ir.Func shell and records it under the
// instance's monomorphized key, applying the function ABI: Addr-semantics
// parameters pass by pointer, an Addr-semantics return is rewritten to
// a void function taking a hidden leading out-pointer.
func (l *lowerer) declareFunc(inst *instances.Inst) {
	for _, p := range inst.Params {
		if semanticsOf(p.Type) == SemVoid {
			panic(fmt.Sprintf("lower: void-semantics parameter %q", p.Name))
		}
	}

	variadic := inst.Kind == instances.KExternFunc && inst.Ty.Variadic()
	sig := l.buildSig(inst.Params, variadic, inst.Ty.Ret())
	names := make([]string, len(inst.Params))
	for i, p := range inst.Params {
		names[i] = p.Name
	}

	fn := l.m.NewFunc(symbolName(inst.Name, inst.Args), sig.fnTy.RetType, namedParams(sig, names)...)
	fn.Sig.Variadic = variadic
	l.funcs[instKey(inst)] = fn
}

// declareData creates the global shell for a Data instance. The
// backend type is derived from the constant initializer's predicted
// shape (constLowerer.predictTy), not the declared Ty, because
// aggregate literals carry exact padding the declared type's ordinary
// (non-constant) layout may not match field-for-field.
func (l *lowerer) declareData(inst *instances.Inst) {
	llTy := l.cl.predictTy(inst.Init)
	g := l.m.NewGlobal(symbolName(inst.Name, inst.Args), llTy)
	l.datas[instKey(inst)] = g
}

func (l *lowerer) declareExternData(inst *instances.Inst) {
	llTy := l.tl.lower(inst.Ty)
	g := l.m.NewGlobal(symbolName(inst.Name, inst.Args), llTy)
	g.Linkage = enum.LinkageExternal
	l.datas[instKey(inst)] = g
}

func (l *lowerer) defineData(inst *instances.Inst) {
	g := l.datas[instKey(inst)]
	g.Init = l.cl.lowerConst(inst.Init)
}

// funcHandle/dataHandle/dataTy are the handle lookups constLowerer and
// the function-body lowerer use to resolve a DefId/Args reference to
// its already-declared backend symbol (pass 1 has always run first).
func (l *lowerer) funcHandle(id ast.DefId, args []types.Ty) *ir.Func {
	inst, ok := l.insts.Get(id, args)
	if !ok {
		panic(fmt.Sprintf("lower: no instance for func def#%d", uint32(id)))
	}
	fn, ok := l.funcs[instKey(inst)]
	if !ok {
		panic(fmt.Sprintf("lower: func %s not declared", inst.Name))
	}
	return fn
}

func (l *lowerer) dataHandle(id ast.DefId, args []types.Ty) *ir.Global {
	inst, ok := l.insts.Get(id, args)
	if !ok {
		panic(fmt.Sprintf("lower: no instance for data def#%d", uint32(id)))
	}
	g, ok := l.datas[instKey(inst)]
	if !ok {
		panic(fmt.Sprintf("lower: data %s not declared", inst.Name))
	}
	return g
}

func (l *lowerer) dataTy(id ast.DefId, args []types.Ty) types.Ty {
	inst, ok := l.insts.Get(id, args)
	if !ok {
		panic(fmt.Sprintf("lower: no instance for data def#%d", uint32(id)))
	}
	return inst.Ty
}

// memcpyFunc lazily declares the llvm.memcpy intrinsic used for
// Addr-semantics Store: an aligned memcpy of exactly the lowered
// type's store size.
func (l *lowerer) memcpyFunc() *ir.Func {
	if l.memcpy != nil {
		return l.memcpy
	}
	fn := l.m.NewFunc("llvm.memcpy.p0i8.p0i8.i64", lltypes.Void,
		ir.NewParam("dst", opaquePtr()),
		ir.NewParam("src", opaquePtr()),
		ir.NewParam("len", lltypes.I64),
		ir.NewParam("isvolatile", lltypes.I1),
	)
	l.memcpy = fn
	return fn
}

func constI64(n uint64) *constant.Int { return constant.NewInt(lltypes.I64, int64(n)) }
func constI32(n int64) *constant.Int  { return constant.NewInt(lltypes.I32, n) }
func constI1(b bool) *constant.Int {
	if b {
		return constant.NewInt(lltypes.I1, 1)
	}
	return constant.NewInt(lltypes.I1, 0)
}

// zeroValue returns the backend zero/null value of t's lowering, used
// for a Nil literal and for an implicit Return with no value of a
// Value-semantics type.
func (l *lowerer) zeroValue(t types.Ty) value.Value {
	llTy := l.tl.lower(t)
	switch lt := llTy.(type) {
	case *lltypes.IntType:
		return constant.NewInt(lt, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(lt, 0)
	case *lltypes.PointerType:
		return constant.NewNull(lt)
	default:
		return constant.NewZeroInitializer(llTy)
	}
}
