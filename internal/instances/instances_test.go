package instances

import (
	"testing"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/types"
)

func TestShellInsertsOnceAndReturnsExisting(t *testing.T) {
	tab := NewTable()
	id := ast.DefId(1)
	args := []types.Ty{types.Int32()}

	inst1, created1 := tab.Shell(id, args, KFunc, "id")
	if !created1 {
		t.Fatal("expected first Shell call to create a new entry")
	}
	inst2, created2 := tab.Shell(id, args, KFunc, "id")
	if created2 {
		t.Fatal("expected second Shell call to find the existing entry")
	}
	if inst1 != inst2 {
		t.Fatal("expected Shell to return the same *Inst pointer for the same key")
	}
}

func TestGetReflectsShellInsertion(t *testing.T) {
	tab := NewTable()
	id := ast.DefId(2)
	args := []types.Ty{types.Bool()}

	if _, ok := tab.Get(id, args); ok {
		t.Fatal("expected no entry before Shell")
	}
	tab.Shell(id, args, KStruct, "S")
	e, ok := tab.Get(id, args)
	if !ok || e.Name != "S" {
		t.Fatalf("expected entry with Name=S, got %+v, ok=%v", e, ok)
	}
}

func TestMonomorphizationUniquenessAcrossDistinctArgVectors(t *testing.T) {
	tab := NewTable()
	id := ast.DefId(3)

	tab.Shell(id, []types.Ty{types.Int32()}, KFunc, "id")
	tab.Shell(id, []types.Ty{types.Bool()}, KFunc, "id")
	tab.Shell(id, []types.Ty{types.Int32()}, KFunc, "id") // duplicate, should not add

	if tab.Len() != 2 {
		t.Fatalf("expected 2 distinct instances, got %d", tab.Len())
	}
}

func TestKeyDistinguishesDefIdAndArgs(t *testing.T) {
	k1 := Key(1, []types.Ty{types.Int32()})
	k2 := Key(1, []types.Ty{types.Bool()})
	k3 := Key(2, []types.Ty{types.Int32()})
	if k1 == k2 || k1 == k3 || k2 == k3 {
		t.Fatalf("expected distinct keys, got %q %q %q", k1, k2, k3)
	}
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	tab := NewTable()
	tab.Shell(ast.DefId(1), nil, KFunc, "a")
	tab.Shell(ast.DefId(2), nil, KFunc, "b")
	tab.Shell(ast.DefId(3), nil, KFunc, "c")

	all := tab.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	names := []string{all[0].Name, all[1].Name, all[2].Name}
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, names[i], want[i])
		}
	}
}

func TestShellDefaultsAreForwardDeclaration(t *testing.T) {
	tab := NewTable()
	inst, _ := tab.Shell(ast.DefId(1), nil, KStruct, "S")
	if inst.HasFields {
		t.Fatal("expected fresh shell to have HasFields=false")
	}
	if inst.HasVariants {
		t.Fatal("expected fresh shell to have HasVariants=false")
	}
	if inst.HasBody {
		t.Fatal("expected fresh shell to have HasBody=false")
	}
}
