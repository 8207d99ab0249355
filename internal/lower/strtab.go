package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
)

// stringTable interns C-string (NUL-terminated) byte contents into
// shared read-only globals, keyed by raw content so that two occurrences
// of the same literal share one `.str.<N>` global instead of each
// emitting its own.
type stringTable struct {
	m       *ir.Module
	entries map[string]*ir.Global
}

func newStringTable(m *ir.Module) *stringTable {
	return &stringTable{m: m, entries: make(map[string]*ir.Global)}
}

// intern returns the shared global for bytes (NUL-terminated on
// creation), creating it on first occurrence.
func (st *stringTable) intern(bytes []byte) *ir.Global {
	key := string(bytes)
	if g, ok := st.entries[key]; ok {
		return g
	}
	data := append(append([]byte(nil), bytes...), 0)
	arr := constant.NewCharArrayFromString(string(data))
	name := fmt.Sprintf(".str.%d", len(st.entries))
	g := st.m.NewGlobalDef(name, arr)
	g.Immutable = true
	st.entries[key] = g
	return g
}

// strArrTy is the lowered array type of an interned string's backing
// storage: N+1 bytes of i8, matching stringTable.intern's NUL padding.
func strArrTy(n int) *lltypes.ArrayType {
	return lltypes.NewArray(uint64(n+1), lltypes.I8)
}
