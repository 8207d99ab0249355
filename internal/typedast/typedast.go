// Package typedast implements the typed intermediate form: LValue
// (addressable storage) and RValue (computed value), the output of the
// checker and the input to the lowerer. The split lets the lowerer
// decide, purely from which sum a node belongs to, whether an
// expression denotes an address or a value, since the Load/Store
// contracts key off exactly this distinction.
//
// Each node is one struct per kind, embedding a shared base that
// carries the common fields (type, mutability) plus a private marker
// method per sum, split into two sums (LValue/RValue) since the source
// language distinguishes addressable from computed expressions.
package typedast

import (
	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/types"
)

// LValue is an expression denoting a storage location.
type LValue interface {
	Ty() types.Ty
	Mut() bool
	lvalue()
}

type baseLV struct {
	ty  types.Ty
	mut bool
}

func (b baseLV) Ty() types.Ty { return b.ty }
func (b baseLV) Mut() bool    { return b.mut }
func (baseLV) lvalue()        {}

func newBaseLV(ty types.Ty, mut bool) baseLV { return baseLV{ty: ty, mut: mut} }

// DataRef refers to a Data/ExternData instance by its monomorphized key.
type DataRef struct {
	baseLV
	Id   ast.DefId
	Args []types.Ty
}

func NewDataRef(ty types.Ty, mut bool, id ast.DefId, args []types.Ty) *DataRef {
	return &DataRef{newBaseLV(ty, mut), id, args}
}

// ParamRef, LetRef, BindingRef refer to a function's indexed local
// storage slots: parameters have their own index space; lets and
// match-arm payload bindings share one local-storage index space.
type ParamRef struct {
	baseLV
	Index int
}

func NewParamRef(ty types.Ty, mut bool, index int) *ParamRef {
	return &ParamRef{newBaseLV(ty, mut), index}
}

type LetRef struct {
	baseLV
	Index int
}

func NewLetRef(ty types.Ty, mut bool, index int) *LetRef {
	return &LetRef{newBaseLV(ty, mut), index}
}

// BindingRef is a match arm's payload binding, addressing field index
// 1 of the enum's tag-plus-payload layout.
type BindingRef struct {
	baseLV
	Index int
}

func NewBindingRef(ty types.Ty, mut bool, index int) *BindingRef {
	return &BindingRef{newBaseLV(ty, mut), index}
}

// StrLit is a length-known byte-string literal (not NUL-terminated;
// contrast RValue.CStr).
type StrLit struct {
	baseLV
	Bytes []byte
}

func NewStrLit(ty types.Ty, bytes []byte) *StrLit {
	return &StrLit{newBaseLV(ty, false), bytes}
}

// ArrayLit, StructLit are aggregate literals built from sub-expressions.
type ArrayLit struct {
	baseLV
	Elements []RValue
}

func NewArrayLit(ty types.Ty, elems []RValue) *ArrayLit {
	return &ArrayLit{newBaseLV(ty, false), elems}
}

// FieldInit pairs a struct/union field index with its initializing
// r-value.
type FieldInit struct {
	Index int
	Value RValue
}

type StructLit struct {
	baseLV
	Fields []FieldInit
}

func NewStructLit(ty types.Ty, fields []FieldInit) *StructLit {
	return &StructLit{newBaseLV(ty, false), fields}
}

// UnionLit initializes exactly one field of a union.
type UnionLit struct {
	baseLV
	Field FieldInit
}

func NewUnionLit(ty types.Ty, field FieldInit) *UnionLit {
	return &UnionLit{newBaseLV(ty, false), field}
}

// UnitVariantLit, StructVariantLit construct an enum value.
type UnitVariantLit struct {
	baseLV
	VariantIndex int
}

func NewUnitVariantLit(ty types.Ty, variantIndex int) *UnitVariantLit {
	return &UnitVariantLit{newBaseLV(ty, false), variantIndex}
}

type StructVariantLit struct {
	baseLV
	VariantIndex int
	Fields       []FieldInit
}

func NewStructVariantLit(ty types.Ty, variantIndex int, fields []FieldInit) *StructVariantLit {
	return &StructVariantLit{newBaseLV(ty, false), variantIndex, fields}
}

// StruDot projects a struct field by index; UnionDot reinterprets a
// union's storage as one of its fields (same address, any field).
type StruDot struct {
	baseLV
	Base  LValue
	Field int
}

func NewStruDot(ty types.Ty, mut bool, base LValue, field int) *StruDot {
	return &StruDot{newBaseLV(ty, mut), base, field}
}

type UnionDot struct {
	baseLV
	Base LValue
}

func NewUnionDot(ty types.Ty, mut bool, base LValue) *UnionDot {
	return &UnionDot{newBaseLV(ty, mut), base}
}

// Index is array-element addressing.
type Index struct {
	baseLV
	Base  LValue
	Index RValue
}

func NewIndex(ty types.Ty, mut bool, base LValue, index RValue) *Index {
	return &Index{newBaseLV(ty, mut), base, index}
}

// Ind dereferences a pointer r-value, producing the l-value it points
// to.
type Ind struct {
	baseLV
	Ptr RValue
}

func NewInd(ty types.Ty, mut bool, ptr RValue) *Ind {
	return &Ind{newBaseLV(ty, mut), ptr}
}
