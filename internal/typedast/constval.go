package typedast

import (
	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/types"
)

// ConstPtr is a constant address expression: a pointer to a data
// object, a string literal, or a sub-element of another constant.
type ConstPtr interface {
	constPtr()
}

type baseConstPtr struct{}

func (baseConstPtr) constPtr() {}

type DataPtr struct {
	baseConstPtr
	Id   ast.DefId
	Args []types.Ty
}

type StrLitPtr struct {
	baseConstPtr
	Bytes []byte
}

type ArrayElementPtr struct {
	baseConstPtr
	Base  ConstPtr
	Index int
}

type StructFieldPtr struct {
	baseConstPtr
	Base  ConstPtr
	Index int
}

type UnionFieldPtr struct {
	baseConstPtr
	Base ConstPtr
}

// ConstVal is a constant value expression, lowered recursively into
// backend constant expressions.
type ConstVal interface {
	Ty() types.Ty
	constVal()
}

type baseConstVal struct{ ty types.Ty }

func (b baseConstVal) Ty() types.Ty { return b.ty }
func (baseConstVal) constVal()      {}

type FuncPtrVal struct {
	baseConstVal
	Id   ast.DefId
	Args []types.Ty
}

func NewFuncPtrVal(ty types.Ty, id ast.DefId, args []types.Ty) *FuncPtrVal {
	return &FuncPtrVal{baseConstVal{ty}, id, args}
}

type DataPtrVal struct {
	baseConstVal
	Ptr ConstPtr
}

func NewDataPtrVal(ty types.Ty, ptr ConstPtr) *DataPtrVal { return &DataPtrVal{baseConstVal{ty}, ptr} }

type BoolConst struct {
	baseConstVal
	Value bool
}

func NewBoolConst(value bool) *BoolConst { return &BoolConst{baseConstVal{types.Bool()}, value} }

type IntConst struct {
	baseConstVal
	Value int64
}

func NewIntConst(ty types.Ty, value int64) *IntConst { return &IntConst{baseConstVal{ty}, value} }

type FltConst struct {
	baseConstVal
	Value float64
}

func NewFltConst(ty types.Ty, value float64) *FltConst { return &FltConst{baseConstVal{ty}, value} }

type ArrConst struct {
	baseConstVal
	Values []ConstVal
}

func NewArrConst(ty types.Ty, values []ConstVal) *ArrConst { return &ArrConst{baseConstVal{ty}, values} }

type ConstFieldInit struct {
	Index int
	Value ConstVal
}

type StructConst struct {
	baseConstVal
	Fields []ConstFieldInit
}

func NewStructConst(ty types.Ty, fields []ConstFieldInit) *StructConst {
	return &StructConst{baseConstVal{ty}, fields}
}

type UnionConst struct {
	baseConstVal
	Field ConstFieldInit
}

func NewUnionConst(ty types.Ty, field ConstFieldInit) *UnionConst {
	return &UnionConst{baseConstVal{ty}, field}
}

type CStrConst struct {
	baseConstVal
	Bytes []byte
}

func NewCStrConst(ty types.Ty, bytes []byte) *CStrConst { return &CStrConst{baseConstVal{ty}, bytes} }
