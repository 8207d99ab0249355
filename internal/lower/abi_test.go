package lower

import (
	"testing"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/types"
)

func newLowererFixture() *lowerer {
	m := ir.NewModule()
	insts := instances.NewTable()
	l := &lowerer{m: m, insts: insts, funcs: make(map[string]*ir.Func), datas: make(map[string]*ir.Global)}
	l.lay = &layout{insts: insts}
	l.tl = newTypeLowerer(m, insts, l.lay)
	l.cl = &constLowerer{l: l}
	l.strtab = newStringTable(m)
	return l
}

// An Addr-semantics return (an array, here) is rewritten to a void
// function with a leading hidden out-pointer parameter.
func TestBuildSigAddrReturnGetsHiddenOutPointer(t *testing.T) {
	l := newLowererFixture()
	sig := l.buildSig(nil, false, types.Arr(4, types.Int32()))

	if !sig.sretFirst {
		t.Fatal("expected sretFirst for an Addr-semantics return")
	}
	if sig.fnTy.RetType != lltypes.Void {
		t.Errorf("expected a void return type, got %s", sig.fnTy.RetType)
	}
	if len(sig.fnTy.Params) != 1 {
		t.Fatalf("expected exactly one (hidden out-pointer) param, got %d", len(sig.fnTy.Params))
	}
}

// A Value-semantics return passes through untouched, no hidden param.
func TestBuildSigValueReturnHasNoHiddenParam(t *testing.T) {
	l := newLowererFixture()
	sig := l.buildSig([]types.Field{{Name: "x", Type: types.Int32()}}, false, types.Bool())

	if sig.sretFirst {
		t.Fatal("did not expect sretFirst for a Value-semantics return")
	}
	if sig.fnTy.RetType != lltypes.I1 {
		t.Errorf("expected an i1 return type, got %s", sig.fnTy.RetType)
	}
	if len(sig.fnTy.Params) != 1 {
		t.Fatalf("expected exactly one param, got %d", len(sig.fnTy.Params))
	}
}

// An Addr-semantics parameter passes by pointer rather than by its
// (otherwise aggregate) backend type.
func TestBuildSigAddrParamPassesByPointer(t *testing.T) {
	l := newLowererFixture()
	sig := l.buildSig([]types.Field{{Name: "a", Type: types.Arr(4, types.Int32())}}, false, types.Int32())

	if _, ok := sig.fnTy.Params[0].(*lltypes.PointerType); !ok {
		t.Errorf("expected the Addr-semantics param to lower to a pointer type, got %s", sig.fnTy.Params[0])
	}
}

func TestNamedParamsAssignsSretBeforeSourceNames(t *testing.T) {
	l := newLowererFixture()
	sig := l.buildSig([]types.Field{{Name: "x", Type: types.Int32()}}, false, types.Arr(2, types.Int32()))
	params := namedParams(sig, []string{"x"})

	if len(params) != 2 {
		t.Fatalf("expected 2 params (sret + x), got %d", len(params))
	}
	if params[0].Name() != "sret" {
		t.Errorf("expected param 0 to be named sret, got %q", params[0].Name())
	}
	if params[1].Name() != "x" {
		t.Errorf("expected param 1 to be named x, got %q", params[1].Name())
	}
}
