package ast

// TypeExpr is the surface-syntax description of a type, as the parser
// would hand it to the checker: names instead of resolved DefIds,
// generic parameter names instead of type variables. The checker
// resolves a TypeExpr into a types.Ty by looking up names in scope.
type TypeExpr interface {
	Node
	typeExpr()
}

type baseTypeExpr struct{ BaseNode }

func (baseTypeExpr) typeExpr() {}

// NameTypeExpr refers to a scalar primitive, a generic parameter, or a
// nominal (struct/union/enum) definition by surface name.
type NameTypeExpr struct {
	baseTypeExpr
	Name string
}

// PtrTypeExpr is `*T` or `*mut T`.
type PtrTypeExpr struct {
	baseTypeExpr
	Mut  bool
	Base TypeExpr
}

// ArrTypeExpr is `[N]T`.
type ArrTypeExpr struct {
	baseTypeExpr
	Count uint64
	Elem  TypeExpr
}

// FuncTypeExpr is `fn(name: T, ...) -> T` possibly variadic.
type FuncTypeExpr struct {
	baseTypeExpr
	Params   []NamedTypeExpr
	Variadic bool
	Ret      TypeExpr
}

// TupleTypeExpr is `(name: T, ...)`.
type TupleTypeExpr struct {
	baseTypeExpr
	Fields []NamedTypeExpr
}

// GenericTypeExpr is a nominal reference with explicit type arguments,
// e.g. `Pair<Int32, Bool>`.
type GenericTypeExpr struct {
	baseTypeExpr
	Name string
	Args []TypeExpr
}

// NamedTypeExpr pairs a name with a type, used for parameters, tuple
// fields, and struct/union fields alike.
type NamedTypeExpr struct {
	Name string
	Type TypeExpr
}
