package types

import "fmt"

// CannotUnifyError is returned when two types have no common
// unification.
type CannotUnifyError struct {
	A, B Ty
}

func (e *CannotUnifyError) Error() string {
	return fmt.Sprintf("cannot unify types %s and %s", e.A, e.B)
}

// Unify implements structural, first-order unification, trying cases
// in order: identical primitives, same-constructor nominals, pointers,
// arrays, functions, tuples, TVar/TVar, TVar/concrete, then the bound
// sentinels, failing on anything else.
func (c *TCX) Unify(a, b Ty) (Ty, error) {
	switch {
	case a.Kind() == b.Kind() && isScalar(a.Kind()):
		return a, nil

	case a.Kind() == KStructRef && b.Kind() == KStructRef && a.DefId() == b.DefId():
		args, err := c.unifyArgs(a.Args(), b.Args())
		if err != nil {
			return Ty{}, err
		}
		return StructRef(a.Name(), a.DefId(), args), nil

	case a.Kind() == KUnionRef && b.Kind() == KUnionRef && a.DefId() == b.DefId():
		args, err := c.unifyArgs(a.Args(), b.Args())
		if err != nil {
			return Ty{}, err
		}
		return UnionRef(a.Name(), a.DefId(), args), nil

	case a.Kind() == KEnumRef && b.Kind() == KEnumRef && a.DefId() == b.DefId():
		args, err := c.unifyArgs(a.Args(), b.Args())
		if err != nil {
			return Ty{}, err
		}
		return EnumRef(a.Name(), a.DefId(), args), nil

	case a.Kind() == KPtr && b.Kind() == KPtr && a.IsMut() == b.IsMut():
		base, err := c.Unify(a.Base(), b.Base())
		if err != nil {
			return Ty{}, err
		}
		return Ptr(a.IsMut(), base), nil

	case a.Kind() == KArr && b.Kind() == KArr && a.Count() == b.Count():
		elem, err := c.Unify(a.Elem(), b.Elem())
		if err != nil {
			return Ty{}, err
		}
		return Arr(a.Count(), elem), nil

	case a.Kind() == KFunc && b.Kind() == KFunc:
		ap, bp := a.Params(), b.Params()
		if len(ap) != len(bp) || a.Variadic() != b.Variadic() {
			return Ty{}, &CannotUnifyError{a, b}
		}
		params := make([]Field, len(ap))
		for i := range ap {
			if ap[i].Name != bp[i].Name {
				return Ty{}, &CannotUnifyError{a, b}
			}
			pt, err := c.Unify(ap[i].Type, bp[i].Type)
			if err != nil {
				return Ty{}, err
			}
			params[i] = Field{Name: ap[i].Name, Type: pt}
		}
		ret, err := c.Unify(a.Ret(), b.Ret())
		if err != nil {
			return Ty{}, err
		}
		return Func(params, a.Variadic(), ret), nil

	case a.Kind() == KTuple && b.Kind() == KTuple:
		af, bf := a.Fields(), b.Fields()
		if len(af) != len(bf) {
			return Ty{}, &CannotUnifyError{a, b}
		}
		fields := make([]Field, len(af))
		for i := range af {
			if af[i].Name != bf[i].Name {
				return Ty{}, &CannotUnifyError{a, b}
			}
			ft, err := c.Unify(af[i].Type, bf[i].Type)
			if err != nil {
				return Ty{}, err
			}
			fields[i] = Field{Name: af[i].Name, Type: ft}
		}
		return Tuple(fields), nil

	case a.Kind() == KTVar && b.Kind() == KTVar:
		root1 := c.Root(a.Index())
		root2 := c.Root(b.Index())
		if root1 != root2 {
			unified, err := c.Unify(c.vars[root1], c.vars[root2])
			if err != nil {
				return Ty{}, err
			}
			c.vars[root1] = unified
			c.vars[root2] = TVar(root1)
		}
		return TVar(root1), nil

	case a.Kind() == KTVar:
		return c.unifyVar(a.Index(), b)

	case b.Kind() == KTVar:
		return c.unifyVar(b.Index(), a)

	case a.Kind() == KBoundAny:
		return b, nil
	case b.Kind() == KBoundAny:
		return a, nil

	case a.Kind() == KBoundNum && isNumOrLooser(b.Kind()):
		return moreSpecific(b, a), nil
	case b.Kind() == KBoundNum && isNumOrLooser(a.Kind()):
		return moreSpecific(a, b), nil

	case a.Kind() == KBoundInt && isIntOrBoundInt(b.Kind()):
		return moreSpecific(b, a), nil
	case b.Kind() == KBoundInt && isIntOrBoundInt(a.Kind()):
		return moreSpecific(a, b), nil

	case a.Kind() == KBoundFlt && (b.Kind() == KFloat || b.Kind() == KDouble || b.Kind() == KBoundFlt):
		return moreSpecific(b, a), nil
	case b.Kind() == KBoundFlt && (a.Kind() == KFloat || a.Kind() == KDouble):
		return a, nil

	default:
		return Ty{}, &CannotUnifyError{a, b}
	}
}

func (c *TCX) unifyVar(idx int, other Ty) (Ty, error) {
	root := c.Root(idx)
	unified, err := c.Unify(c.vars[root], other)
	if err != nil {
		return Ty{}, err
	}
	c.vars[root] = unified
	return TVar(root), nil
}

func (c *TCX) unifyArgs(a, b []Ty) ([]Ty, error) {
	if len(a) != len(b) {
		return nil, &CannotUnifyError{}
	}
	out := make([]Ty, len(a))
	for i := range a {
		u, err := c.Unify(a[i], b[i])
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

func isScalar(k Kind) bool {
	switch k {
	case KBool, KUint8, KInt8, KUint16, KInt16, KUint32, KInt32, KUint64, KInt64, KUintn, KIntn, KFloat, KDouble:
		return true
	}
	return false
}

func isNumOrLooser(k Kind) bool {
	return isScalarNumeric(k) || k == KBoundNum || k == KBoundInt || k == KBoundFlt
}

func isScalarNumeric(k Kind) bool {
	switch k {
	case KUint8, KInt8, KUint16, KInt16, KUint32, KInt32, KUint64, KInt64, KUintn, KIntn, KFloat, KDouble:
		return true
	}
	return false
}

func isIntOrBoundInt(k Kind) bool {
	switch k {
	case KUint8, KInt8, KUint16, KInt16, KUint32, KInt32, KUint64, KInt64, KUintn, KIntn, KBoundInt:
		return true
	}
	return false
}

// moreSpecific returns whichever of the two pins down a literal type
// more tightly: a concrete scalar beats any bound, and Int/Flt bounds
// beat the looser Num bound.
func moreSpecific(a, b Ty) Ty {
	if boundRank(a.Kind()) >= boundRank(b.Kind()) {
		return a
	}
	return b
}

func boundRank(k Kind) int {
	switch k {
	case KBoundAny:
		return 0
	case KBoundNum:
		return 1
	case KBoundInt, KBoundFlt:
		return 2
	default:
		return 3
	}
}
