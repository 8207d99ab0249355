package lower

import (
	"strings"
	"testing"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// An extern puts, a main body calling it with a C-string literal and
// returning 0. Expects one external puts, one .str.0 global, one main
// returning i32 0.
func TestLowerHelloWorld(t *testing.T) {
	insts := instances.NewTable()

	puts, _ := insts.Shell(1, nil, instances.KExternFunc, "puts")
	puts.Ty = types.Func([]types.Field{{Name: "s", Type: types.Ptr(false, types.Int8())}}, false, types.Int32())
	puts.Params = puts.Ty.Params()

	main, _ := insts.Shell(2, nil, instances.KFunc, "main")
	main.Ty = types.Func(nil, false, types.Int32())
	main.HasBody = true
	body := typedast.NewBlock(types.Int32(), []typedast.RValue{
		typedast.NewCall(types.Int32(), typedast.NewFuncRef(puts.Ty, 1, nil),
			[]typedast.RValue{typedast.NewCStr(types.Ptr(false, types.Uint8()), []byte("hi"))}),
		typedast.NewIntLit(types.Int32(), 0),
	})
	main.Body = body

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()

	if !strings.Contains(out, "declare") || !strings.Contains(out, "puts") {
		t.Errorf("expected a declared puts, got:\n%s", out)
	}
	if !strings.Contains(out, ".str.0") {
		t.Errorf("expected a .str.0 global, got:\n%s", out)
	}
	if !strings.Contains(out, "define") || !strings.Contains(out, "main") {
		t.Errorf("expected a defined main, got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("expected `ret i32 0`, got:\n%s", out)
	}
}

// union U { a: Int8, b: Int64 } lowers to size 8, alignment 8.
func TestLowerUnionLayout(t *testing.T) {
	insts := instances.NewTable()
	u, _ := insts.Shell(1, nil, instances.KUnion, "U")
	u.HasFields = true
	u.Fields = []types.Field{
		{Name: "a", Type: types.Int8()},
		{Name: "b", Type: types.Int64()},
	}

	uTy := types.UnionRef("U", 1, nil)
	// An ExternData forces the type lowerer to lower the declared Ty
	// itself (lowerNominal), which is what registers the named
	// `%U.union` type. A Data instance instead derives its backend type
	// from the constant initializer's predicted shape, which stays
	// anonymous.
	data, _ := insts.Shell(2, nil, instances.KExternData, "ud")
	data.Ty = uTy

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	if !strings.Contains(out, "%U.union") {
		t.Errorf("expected a named %%U.union type, got:\n%s", out)
	}
	// {i64, no padding} since i64 is 8 bytes, already the widest member.
	if !strings.Contains(out, "i64") {
		t.Errorf("expected the union body to carry the widest (i64) member, got:\n%s", out)
	}
}

// fn make() -> [4]Int32 returns Addr-semantics, so it must lower to a
// void function with a hidden out-pointer param.
func TestLowerAddrReturnUsesHiddenOutPointer(t *testing.T) {
	insts := instances.NewTable()
	retTy := types.Arr(4, types.Int32())

	make_, _ := insts.Shell(1, nil, instances.KFunc, "make")
	make_.Ty = types.Func(nil, false, retTy)
	make_.HasBody = true
	elems := make([]typedast.RValue, 4)
	for i := range elems {
		elems[i] = typedast.NewIntLit(types.Int32(), int64(i+1))
	}
	make_.Body = typedast.NewLoad(typedast.NewArrayLit(retTy, elems))

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	if !strings.Contains(out, "void @make") {
		t.Errorf("expected make to be lowered as a void-returning function, got:\n%s", out)
	}
}

func TestLowerEnumTagIsI32(t *testing.T) {
	insts := instances.NewTable()
	e, _ := insts.Shell(1, nil, instances.KEnum, "E")
	e.HasVariants = true
	e.Variants = []instances.Variant{
		{Name: "A"},
		{Name: "B", Fields: []types.Field{{Name: "0", Type: types.Int32()}}},
	}

	eTy := types.EnumRef("E", 1, nil)
	data, _ := insts.Shell(2, nil, instances.KExternData, "ed")
	data.Ty = eTy

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	if !strings.Contains(out, "%E.enum") {
		t.Errorf("expected a named %%E.enum type, got:\n%s", out)
	}
	if !strings.Contains(out, "i32") {
		t.Errorf("expected the enum's tag field to be i32, got:\n%s", out)
	}
}
