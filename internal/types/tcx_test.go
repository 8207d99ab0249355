package types

import "testing"

func TestFreshAssignsIncreasingIndices(t *testing.T) {
	c := NewTCX()
	a := c.Fresh(BoundAny())
	b := c.Fresh(BoundNum())
	if a.Index() != 0 || b.Index() != 1 {
		t.Fatalf("expected indices 0,1, got %d,%d", a.Index(), b.Index())
	}
}

func TestRootIsIdempotent(t *testing.T) {
	c := NewTCX()
	a := c.Fresh(BoundNum())
	b := c.Fresh(BoundInt())
	if _, err := c.Unify(a, b); err != nil {
		t.Fatalf("unify: %v", err)
	}
	r1 := c.Root(a.Index())
	r2 := c.Root(a.Index())
	if r1 != r2 {
		t.Fatalf("Root not idempotent: %d vs %d", r1, r2)
	}
	if c.vars[a.Index()].Kind() != KTVar && a.Index() != r1 {
		t.Fatalf("expected vars[%d] to be TVar(root) or a root itself", a.Index())
	}
}

func TestLitTyDefaults(t *testing.T) {
	c := NewTCX()
	cases := []struct {
		bound Ty
		want  Ty
	}{
		{BoundAny(), Tuple(nil)},
		{BoundNum(), Int32()},
		{BoundInt(), Int32()},
		{BoundFlt(), Float()},
	}
	for _, tc := range cases {
		v := c.Fresh(tc.bound)
		got := c.LitTy(v)
		if !got.Equals(tc.want) {
			t.Errorf("LitTy(%s) = %s, want %s", tc.bound, got, tc.want)
		}
	}
}

func TestLitTyRecursesIntoConstructors(t *testing.T) {
	c := NewTCX()
	v := c.Fresh(BoundNum())
	arr := Arr(4, v)
	got := c.LitTy(arr)
	want := Arr(4, Int32())
	if !got.Equals(want) {
		t.Errorf("LitTy(%s) = %s, want %s", arr, got, want)
	}
}

func TestLitTyOnConcreteTypeIsIdentity(t *testing.T) {
	c := NewTCX()
	got := c.LitTy(Int64())
	if !got.Equals(Int64()) {
		t.Errorf("LitTy(Int64) = %s, want Int64", got)
	}
}
