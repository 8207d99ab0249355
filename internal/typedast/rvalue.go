package typedast

import (
	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/types"
)

// RValue is an expression denoting a computed value, never an address.
type RValue interface {
	Ty() types.Ty
	rvalue()
}

type baseRV struct{ ty types.Ty }

func (b baseRV) Ty() types.Ty { return b.ty }
func (baseRV) rvalue()        {}

func newBaseRV(ty types.Ty) baseRV { return baseRV{ty} }

// UnitRV is the single value of the empty tuple type.
type UnitRV struct{ baseRV }

func NewUnitRV() *UnitRV { return &UnitRV{newBaseRV(types.Tuple(nil))} }

// FuncRef refers to a Func/ExternFunc instance by its monomorphized key.
type FuncRef struct {
	baseRV
	Id   ast.DefId
	Args []types.Ty
}

func NewFuncRef(ty types.Ty, id ast.DefId, args []types.Ty) *FuncRef {
	return &FuncRef{newBaseRV(ty), id, args}
}

// CStr is a NUL-terminated string literal.
type CStr struct {
	baseRV
	Bytes []byte
}

func NewCStr(ty types.Ty, bytes []byte) *CStr { return &CStr{newBaseRV(ty), bytes} }

// Load reads the value held at an l-value. Its type must equal the
// l-value's type.
type Load struct {
	baseRV
	From LValue
}

func NewLoad(from LValue) *Load { return &Load{newBaseRV(from.Ty()), from} }

// Nil is the null pointer literal.
type Nil struct{ baseRV }

func NewNil(ty types.Ty) *Nil { return &Nil{newBaseRV(ty)} }

type BoolLit struct {
	baseRV
	Value bool
}

func NewBoolLit(value bool) *BoolLit { return &BoolLit{newBaseRV(types.Bool()), value} }

type IntLit struct {
	baseRV
	Value int64
}

func NewIntLit(ty types.Ty, value int64) *IntLit { return &IntLit{newBaseRV(ty), value} }

type FltLit struct {
	baseRV
	Value float64
}

func NewFltLit(ty types.Ty, value float64) *FltLit { return &FltLit{newBaseRV(ty), value} }

// Call's type equals the return type of callee's type, which must be
// Func(...).
type Call struct {
	baseRV
	Callee RValue
	Args   []RValue
}

func NewCall(ty types.Ty, callee RValue, args []RValue) *Call {
	return &Call{newBaseRV(ty), callee, args}
}

// Adr's type is Ptr(mut, lvalue.Ty()) with mutability derived from the
// l-value.
type Adr struct {
	baseRV
	Of LValue
}

func NewAdr(of LValue) *Adr {
	return &Adr{newBaseRV(types.Ptr(of.Mut(), of.Ty())), of}
}

type Un struct {
	baseRV
	Op  ast.UnOp
	Arg RValue
}

func NewUn(ty types.Ty, op ast.UnOp, arg RValue) *Un { return &Un{newBaseRV(ty), op, arg} }

type Cast struct {
	baseRV
	Arg RValue
}

func NewCast(ty types.Ty, arg RValue) *Cast { return &Cast{newBaseRV(ty), arg} }

type Bin struct {
	baseRV
	Op  ast.BinOp
	L   RValue
	R   RValue
}

func NewBin(ty types.Ty, op ast.BinOp, l, r RValue) *Bin { return &Bin{newBaseRV(ty), op, l, r} }

// LNot, LAnd, LOr are the short-circuit boolean forms.
type LNot struct {
	baseRV
	Arg RValue
}

func NewLNot(arg RValue) *LNot { return &LNot{newBaseRV(types.Bool()), arg} }

type LAnd struct {
	baseRV
	L, R RValue
}

func NewLAnd(l, r RValue) *LAnd { return &LAnd{newBaseRV(types.Bool()), l, r} }

type LOr struct {
	baseRV
	L, R RValue
}

func NewLOr(l, r RValue) *LOr { return &LOr{newBaseRV(types.Bool()), l, r} }

type Block struct {
	baseRV
	Exprs []RValue
}

func NewBlock(ty types.Ty, exprs []RValue) *Block { return &Block{newBaseRV(ty), exprs} }

// As is assignment; Rmw is a compound (read-modify-write) assignment.
type As struct {
	baseRV
	LHS LValue
	RHS RValue
}

func NewAs(lhs LValue, rhs RValue) *As { return &As{newBaseRV(types.Tuple(nil)), lhs, rhs} }

type Rmw struct {
	baseRV
	Op  ast.BinOp
	LHS LValue
	RHS RValue
}

func NewRmw(op ast.BinOp, lhs LValue, rhs RValue) *Rmw {
	return &Rmw{newBaseRV(types.Tuple(nil)), op, lhs, rhs}
}

type Continue struct{ baseRV }

func NewContinue() *Continue { return &Continue{newBaseRV(types.Tuple(nil))} }

// Break and Return may optionally carry a value.
type Break struct {
	baseRV
	Value RValue // nil if none
}

func NewBreak(value RValue) *Break { return &Break{newBaseRV(types.Tuple(nil)), value} }

type Return struct {
	baseRV
	Value RValue // nil if none
}

func NewReturn(value RValue) *Return { return &Return{newBaseRV(types.Tuple(nil)), value} }

// Let introduces a new local binding at the given local-storage index.
type Let struct {
	baseRV
	Index int
	Init  RValue // nil if uninitialized
}

func NewLet(index int, init RValue) *Let { return &Let{newBaseRV(types.Tuple(nil)), index, init} }

type If struct {
	baseRV
	Cond  RValue
	Then  RValue
	Else  RValue // nil if there is no else arm
}

func NewIf(ty types.Ty, cond, then, els RValue) *If { return &If{newBaseRV(ty), cond, then, els} }

type While struct {
	baseRV
	Cond RValue
	Body RValue
}

func NewWhile(cond, body RValue) *While { return &While{newBaseRV(types.Tuple(nil)), cond, body} }

type Loop struct {
	baseRV
	Body RValue
}

func NewLoop(ty types.Ty, body RValue) *Loop { return &Loop{newBaseRV(ty), body} }

// MatchArm is one arm of a Match: an optional payload binding (its
// local-storage index, meaningful only when HasBinding is set), and the
// body.
type MatchArm struct {
	VariantIndex int
	HasBinding   bool
	BindingIndex int
	Body         RValue
}

type Match struct {
	baseRV
	Cond RValue
	Arms []MatchArm
}

func NewMatch(ty types.Ty, cond RValue, arms []MatchArm) *Match {
	return &Match{newBaseRV(ty), cond, arms}
}
