package types

// TCX is the type variable context: a union-find forest over type
// variables. vars[i] is either TVar(j) (a parent link to another slot)
// or, at a root, a non-TVar bound. Grown monotonically;
// type variables are never removed.
//
// An arena-of-Ty union-find rather than a name-keyed substitution map:
// the source language's bound sentinels and nominal-by-DefId references
// don't fit a plain substitution map, but they fall straight out of
// "the bound stored at a disjoint-set root."
type TCX struct {
	vars []Ty
}

// NewTCX creates an empty context.
func NewTCX() *TCX { return &TCX{} }

// Fresh appends a new root carrying the given bound and returns a TVar
// referencing it.
func (c *TCX) Fresh(bound Ty) Ty {
	idx := len(c.vars)
	c.vars = append(c.vars, bound)
	return TVar(idx)
}

// Root follows parent links from idx to its disjoint-set root,
// performing path compression: every visited slot is rewritten to point
// directly at the root.
func (c *TCX) Root(idx int) int {
	if c.vars[idx].Kind() == KTVar {
		parent := c.vars[idx].Index()
		root := c.Root(parent)
		c.vars[idx] = TVar(root)
		return root
	}
	return idx
}

// BoundAt returns the bound currently stored at idx's root.
func (c *TCX) BoundAt(idx int) Ty {
	return c.vars[c.Root(idx)]
}

// LitTy resolves t to its default concrete literal type: bound
// sentinels are replaced by their defaults (Any -> unit, Num/Int ->
// Int32, Flt -> Float), and constructors are recursed into.
func (c *TCX) LitTy(t Ty) Ty {
	switch t.Kind() {
	case KPtr:
		return Ptr(t.IsMut(), c.LitTy(t.Base()))
	case KFunc:
		params := make([]Field, len(t.Params()))
		for i, p := range t.Params() {
			params[i] = Field{Name: p.Name, Type: c.LitTy(p.Type)}
		}
		return Func(params, t.Variadic(), c.LitTy(t.Ret()))
	case KArr:
		return Arr(t.Count(), c.LitTy(t.Elem()))
	case KTuple:
		fields := make([]Field, len(t.Fields()))
		for i, f := range t.Fields() {
			fields[i] = Field{Name: f.Name, Type: c.LitTy(f.Type)}
		}
		return Tuple(fields)
	case KStructRef, KUnionRef, KEnumRef:
		args := make([]Ty, len(t.Args()))
		for i, a := range t.Args() {
			args[i] = c.LitTy(a)
		}
		switch t.Kind() {
		case KStructRef:
			return StructRef(t.Name(), t.DefId(), args)
		case KUnionRef:
			return UnionRef(t.Name(), t.DefId(), args)
		default:
			return EnumRef(t.Name(), t.DefId(), args)
		}
	case KTVar:
		root := c.Root(t.Index())
		return c.LitTy(c.vars[root])
	case KBoundAny:
		return Tuple(nil)
	case KBoundNum, KBoundInt:
		return Int32()
	case KBoundFlt:
		return Float()
	default:
		return t
	}
}
