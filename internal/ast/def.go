package ast

// Def is the base of every top-level definition kind: struct, union,
// enum, function, data object, or external symbol. Generic definitions
// carry TypeParams; a reference to one with concrete type arguments
// drives monomorphization.
type Def interface {
	Node
	Name() string
	TypeParams() []string
	def()
}

type baseDef struct {
	BaseNode
	DefName  string
	Generics []string
}

func (d baseDef) Name() string         { return d.DefName }
func (d baseDef) TypeParams() []string { return d.Generics }
func (baseDef) def()                   {}

// Param is a function parameter: a name and its declared type.
type Param struct {
	Name string
	Type TypeExpr
}

// FuncDef is a function definition with a body expression, or an
// un-bodied forward declaration.
type FuncDef struct {
	baseDef
	Params []Param
	Ret    TypeExpr
	Body   Expr // nil for a forward declaration
}

// ExternFuncDef is an externally linked function: no body, no generics.
type ExternFuncDef struct {
	baseDef
	Params   []Param
	Variadic bool
	Ret      TypeExpr
}

// ExternDataDef is an externally linked data object: no initializer.
type ExternDataDef struct {
	baseDef
	Type TypeExpr
}

// DataDef is a data object with a constant initializer expression.
type DataDef struct {
	baseDef
	Type TypeExpr
	Init Expr
}

// FieldDef is one field of a struct or union.
type FieldDef struct {
	Name string
	Type TypeExpr
}

// StructDef is a product type: all fields present simultaneously.
type StructDef struct {
	baseDef
	Fields []FieldDef
}

// UnionDef is a type whose fields overlap in storage.
type UnionDef struct {
	baseDef
	Fields []FieldDef
}

// VariantDef is one arm of an enum: a bare tag, or a tag carrying a
// struct-shaped payload.
type VariantDef struct {
	Name   string
	Fields []FieldDef // nil for a unit variant
}

// EnumDef is a tagged union: one of several named variants, each either
// a unit tag or a struct-shaped payload.
type EnumDef struct {
	baseDef
	Variants []VariantDef
}

// NewFuncDef, NewStructDef, ... are convenience constructors used by
// tests that build a Repository by hand instead of through a parser.

func NewFuncDef(pos Pos, name string, generics []string, params []Param, ret TypeExpr, body Expr) *FuncDef {
	return &FuncDef{baseDef: baseDef{BaseNode{pos}, name, generics}, Params: params, Ret: ret, Body: body}
}

func NewExternFuncDef(pos Pos, name string, params []Param, variadic bool, ret TypeExpr) *ExternFuncDef {
	return &ExternFuncDef{baseDef: baseDef{BaseNode{pos}, name, nil}, Params: params, Variadic: variadic, Ret: ret}
}

func NewExternDataDef(pos Pos, name string, ty TypeExpr) *ExternDataDef {
	return &ExternDataDef{baseDef: baseDef{BaseNode{pos}, name, nil}, Type: ty}
}

func NewDataDef(pos Pos, name string, ty TypeExpr, init Expr) *DataDef {
	return &DataDef{baseDef: baseDef{BaseNode{pos}, name, nil}, Type: ty, Init: init}
}

func NewStructDef(pos Pos, name string, generics []string, fields []FieldDef) *StructDef {
	return &StructDef{baseDef: baseDef{BaseNode{pos}, name, generics}, Fields: fields}
}

func NewUnionDef(pos Pos, name string, generics []string, fields []FieldDef) *UnionDef {
	return &UnionDef{baseDef: baseDef{BaseNode{pos}, name, generics}, Fields: fields}
}

func NewEnumDef(pos Pos, name string, generics []string, variants []VariantDef) *EnumDef {
	return &EnumDef{baseDef: baseDef{BaseNode{pos}, name, generics}, Variants: variants}
}
