package typedast

import "github.com/emberlang/emberc/internal/types"

// ResolveR rewrites every Ty embedded in an RValue tree via f,
// used by the checker once a definition instance has been fully
// checked to replace the TCX's bound sentinels and type variables with
// their resolved literal types: bounds never survive into the final
// monomorphized IR.
func ResolveR(f func(types.Ty) types.Ty, r RValue) RValue {
	if r == nil {
		return nil
	}
	switch v := r.(type) {
	case *UnitRV:
		return v
	case *FuncRef:
		v.ty = f(v.ty)
		for i := range v.Args {
			v.Args[i] = f(v.Args[i])
		}
		return v
	case *CStr:
		v.ty = f(v.ty)
		return v
	case *Load:
		v.ty = f(v.ty)
		v.From = ResolveL(f, v.From)
		return v
	case *Nil:
		v.ty = f(v.ty)
		return v
	case *BoolLit:
		return v
	case *IntLit:
		v.ty = f(v.ty)
		return v
	case *FltLit:
		v.ty = f(v.ty)
		return v
	case *Call:
		v.ty = f(v.ty)
		v.Callee = ResolveR(f, v.Callee)
		for i := range v.Args {
			v.Args[i] = ResolveR(f, v.Args[i])
		}
		return v
	case *Adr:
		v.ty = f(v.ty)
		v.Of = ResolveL(f, v.Of)
		return v
	case *Un:
		v.ty = f(v.ty)
		v.Arg = ResolveR(f, v.Arg)
		return v
	case *Cast:
		v.ty = f(v.ty)
		v.Arg = ResolveR(f, v.Arg)
		return v
	case *Bin:
		v.ty = f(v.ty)
		v.L = ResolveR(f, v.L)
		v.R = ResolveR(f, v.R)
		return v
	case *LNot:
		v.Arg = ResolveR(f, v.Arg)
		return v
	case *LAnd:
		v.L = ResolveR(f, v.L)
		v.R = ResolveR(f, v.R)
		return v
	case *LOr:
		v.L = ResolveR(f, v.L)
		v.R = ResolveR(f, v.R)
		return v
	case *Block:
		v.ty = f(v.ty)
		for i := range v.Exprs {
			v.Exprs[i] = ResolveR(f, v.Exprs[i])
		}
		return v
	case *As:
		v.LHS = ResolveL(f, v.LHS)
		v.RHS = ResolveR(f, v.RHS)
		return v
	case *Rmw:
		v.LHS = ResolveL(f, v.LHS)
		v.RHS = ResolveR(f, v.RHS)
		return v
	case *Continue:
		return v
	case *Break:
		v.Value = ResolveR(f, v.Value)
		return v
	case *Return:
		v.Value = ResolveR(f, v.Value)
		return v
	case *Let:
		v.Init = ResolveR(f, v.Init)
		return v
	case *If:
		v.ty = f(v.ty)
		v.Cond = ResolveR(f, v.Cond)
		v.Then = ResolveR(f, v.Then)
		v.Else = ResolveR(f, v.Else)
		return v
	case *While:
		v.Cond = ResolveR(f, v.Cond)
		v.Body = ResolveR(f, v.Body)
		return v
	case *Loop:
		v.ty = f(v.ty)
		v.Body = ResolveR(f, v.Body)
		return v
	case *Match:
		v.ty = f(v.ty)
		v.Cond = ResolveR(f, v.Cond)
		for i := range v.Arms {
			v.Arms[i].Body = ResolveR(f, v.Arms[i].Body)
		}
		return v
	default:
		return r
	}
}

// ResolveL is ResolveR's counterpart for LValue trees.
func ResolveL(f func(types.Ty) types.Ty, l LValue) LValue {
	if l == nil {
		return nil
	}
	switch v := l.(type) {
	case *DataRef:
		v.ty = f(v.ty)
		for i := range v.Args {
			v.Args[i] = f(v.Args[i])
		}
		return v
	case *ParamRef:
		v.ty = f(v.ty)
		return v
	case *LetRef:
		v.ty = f(v.ty)
		return v
	case *BindingRef:
		v.ty = f(v.ty)
		return v
	case *StrLit:
		v.ty = f(v.ty)
		return v
	case *ArrayLit:
		v.ty = f(v.ty)
		for i := range v.Elements {
			v.Elements[i] = ResolveR(f, v.Elements[i])
		}
		return v
	case *UnionLit:
		v.ty = f(v.ty)
		v.Field.Value = ResolveR(f, v.Field.Value)
		return v
	case *StructLit:
		v.ty = f(v.ty)
		for i := range v.Fields {
			v.Fields[i].Value = ResolveR(f, v.Fields[i].Value)
		}
		return v
	case *UnitVariantLit:
		v.ty = f(v.ty)
		return v
	case *StructVariantLit:
		v.ty = f(v.ty)
		for i := range v.Fields {
			v.Fields[i].Value = ResolveR(f, v.Fields[i].Value)
		}
		return v
	case *StruDot:
		v.ty = f(v.ty)
		v.Base = ResolveL(f, v.Base)
		return v
	case *UnionDot:
		v.ty = f(v.ty)
		v.Base = ResolveL(f, v.Base)
		return v
	case *Index:
		v.ty = f(v.ty)
		v.Base = ResolveL(f, v.Base)
		v.Index = ResolveR(f, v.Index)
		return v
	case *Ind:
		v.ty = f(v.ty)
		v.Ptr = ResolveR(f, v.Ptr)
		return v
	default:
		return l
	}
}
