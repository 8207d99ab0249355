package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEqualsNominalRequiresMatchingArgsElementwise(t *testing.T) {
	a := StructRef("Pair", 5, []Ty{Int32(), Bool()})
	b := StructRef("Pair", 5, []Ty{Int32(), Bool()})
	if !a.Equals(b) {
		t.Fatal("expected equal nominal refs with matching args")
	}
	c := StructRef("Pair", 5, []Ty{Int32(), Int32()})
	if a.Equals(c) {
		t.Fatal("expected unequal nominal refs with differing args")
	}
	d := StructRef("Pair", 6, []Ty{Int32(), Bool()})
	if a.Equals(d) {
		t.Fatal("expected unequal nominal refs with differing DefId")
	}
}

func TestEqualsTVarComparesIndexOnly(t *testing.T) {
	if !TVar(3).Equals(TVar(3)) {
		t.Fatal("expected TVar(3) == TVar(3)")
	}
	if TVar(3).Equals(TVar(4)) {
		t.Fatal("expected TVar(3) != TVar(4)")
	}
}

func TestKeyDistinguishesDistinctNominalArgs(t *testing.T) {
	a := StructRef("Box", 1, []Ty{Int32()})
	b := StructRef("Box", 1, []Ty{Int64()})
	if a.Key() == b.Key() {
		t.Fatalf("expected distinct keys, both were %q", a.Key())
	}
}

func TestKeyStableForEqualTypes(t *testing.T) {
	a := Func([]Field{{Name: "x", Type: Int32()}}, false, Bool())
	b := Func([]Field{{Name: "x", Type: Int32()}}, false, Bool())
	if a.Key() != b.Key() {
		t.Errorf("expected equal keys, got %q vs %q", a.Key(), b.Key())
	}
}

func TestStringTuplePrintsNameColonType(t *testing.T) {
	tup := Tuple([]Field{{Name: "x", Type: Int32()}, {Name: "y", Type: Bool()}})
	got := tup.String()
	want := "(x: Int32, y: Bool)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringNominalPrintsByName(t *testing.T) {
	s := StructRef("Vec3", 9, nil)
	if got := s.String(); got != "Vec3" {
		t.Errorf("got %q, want Vec3", got)
	}
	withArgs := StructRef("Box", 9, []Ty{Int32()})
	if got := withArgs.String(); got != "Box<Int32>" {
		t.Errorf("got %q, want Box<Int32>", got)
	}
}

func TestIsUnit(t *testing.T) {
	if !Tuple(nil).IsUnit() {
		t.Fatal("expected empty tuple to be unit")
	}
	if Tuple([]Field{{Name: "x", Type: Int32()}}).IsUnit() {
		t.Fatal("non-empty tuple should not be unit")
	}
	if Int32().IsUnit() {
		t.Fatal("scalar should not be unit")
	}
}

// Equals treats nominal refs as identical once DefId and args match,
// ignoring the display name entirely (two aliases of the same def are
// the same type). cmp.Diff doesn't know that domain rule, so it still
// surfaces the name difference, which is useful in a failing test's
// output even when Equals itself reports true.
func TestCmpDiffSurfacesFieldsEqualsTreatsAsIrrelevant(t *testing.T) {
	a := StructRef("Pair", 5, []Ty{Int32()})
	b := StructRef("Tuple2", 5, []Ty{Int32()})
	if !a.Equals(b) {
		t.Fatal("expected Equals to ignore the differing display name")
	}

	diff := cmp.Diff(a, b, cmp.AllowUnexported(Ty{}))
	if diff == "" {
		t.Fatal("expected cmp.Diff to surface the name field mismatch")
	}
}

func TestNumericClassification(t *testing.T) {
	if !Int32().IsNumeric() || !Int32().IsInteger() {
		t.Fatal("Int32 should be numeric and integer")
	}
	if Int32().IsUnsigned() {
		t.Fatal("Int32 should not be unsigned")
	}
	if !Uint8().IsUnsigned() {
		t.Fatal("Uint8 should be unsigned")
	}
	if !Float().IsFloat() || Float().IsInteger() {
		t.Fatal("Float should be float, not integer")
	}
	if Bool().IsNumeric() {
		t.Fatal("Bool should not be numeric")
	}
}
