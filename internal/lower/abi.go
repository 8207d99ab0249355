package lower

import (
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/emberlang/emberc/internal/types"
)

// llvmSig is the backend calling-convention shape of a Func(params,
// variadic, ret): an Addr-semantics return becomes an extra leading
// hidden out-pointer parameter and a void return; Addr-semantics
// parameters pass by pointer; Void parameters never occur (the checker
// rejects them).
type llvmSig struct {
	fnTy      *lltypes.FuncType
	sretFirst bool // true if param 0 is the synthetic hidden out-pointer
}

func (l *lowerer) buildSig(params []types.Field, variadic bool, ret types.Ty) llvmSig {
	retSem := semanticsOf(ret)

	var llParams []lltypes.Type
	sretFirst := retSem == SemAddr
	if sretFirst {
		llParams = append(llParams, opaquePtr())
	}
	for _, p := range params {
		switch semanticsOf(p.Type) {
		case SemAddr:
			llParams = append(llParams, opaquePtr())
		default:
			llParams = append(llParams, l.tl.lower(p.Type))
		}
	}

	var llRet lltypes.Type
	switch retSem {
	case SemAddr, SemVoid:
		llRet = lltypes.Void
	default:
		llRet = l.tl.lower(ret)
	}

	return llvmSig{fnTy: lltypes.NewFunc(llRet, llParams...), sretFirst: sretFirst}
}

// namedParams builds *ir.Param values for declareFunc from an already
// computed llvmSig plus the source parameter names (for readability in
// the emitted IR only; the backend never inspects a param's name).
func namedParams(sig llvmSig, names []string) []*ir.Param {
	out := make([]*ir.Param, 0, len(sig.fnTy.Params))
	offset := 0
	if sig.sretFirst {
		out = append(out, ir.NewParam("sret", sig.fnTy.Params[0]))
		offset = 1
	}
	for i, t := range sig.fnTy.Params[offset:] {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		out = append(out, ir.NewParam(name, t))
	}
	return out
}
