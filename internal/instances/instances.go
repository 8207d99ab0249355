// Package instances implements the definition instantiation table: a
// memo table from (DefId, literal type-argument vector) to a fully
// specialized Inst, driving monomorphization. Entries are keyed
// eagerly and filled lazily: a lookup either returns an existing Inst
// or inserts a forward-declaration shell that the caller then
// populates.
package instances

import (
	"fmt"
	"strings"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// Kind discriminates an Inst.
type Kind int

const (
	KStruct Kind = iota
	KUnion
	KEnum
	KFunc
	KData
	KExternFunc
	KExternData
)

// Variant is one arm of an enum instance: a bare unit tag, or a tag
// carrying a struct-shaped payload.
type Variant struct {
	Name   string
	Fields []types.Field // nil for a unit variant
}

func (v Variant) IsUnit() bool { return v.Fields == nil }

// Inst is a fully specialized definition: exactly one of the seven
// Kind values above. Unused fields for a given Kind are zero. Fields/
// variants/Body being absent (a nil or false Has* flag) encodes a
// forward declaration resolved by a later checker pass.
type Inst struct {
	Kind Kind
	Name string
	Id   ast.DefId
	Args []types.Ty

	// Struct / Union
	HasFields bool
	Fields    []types.Field

	// Enum
	HasVariants bool
	Variants    []Variant

	// Func / ExternFunc
	Ty      types.Ty
	Params  []types.Field
	Locals  []types.Field
	HasBody bool
	Body    typedast.RValue

	// Data / ExternData
	Init typedast.ConstVal
}

// Key canonically encodes (id, args) for use as a map key. Arguments
// must already be literal (bound-free) types: callers apply `lit_ty`
// recursively before lookup.
func Key(id ast.DefId, args []types.Ty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d(", uint32(id))
	for i, a := range args {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(a.Key())
	}
	b.WriteString(")")
	return b.String()
}

// Table is the (DefId, []Ty) -> Inst memo table.
type Table struct {
	entries map[string]*Inst
	// order preserves insertion order for deterministic pass-1/pass-2
	// iteration during lowering.
	order []string
}

// NewTable creates an empty instantiation table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Inst)}
}

// Get returns the entry for (id, args) if one already exists.
func (t *Table) Get(id ast.DefId, args []types.Ty) (*Inst, bool) {
	e, ok := t.entries[Key(id, args)]
	return e, ok
}

// Shell inserts a forward-declaration placeholder for (id, args) if
// absent, and returns it (existing or new) along with whether it was
// newly created. Recursion through the same key during specialization
// must resolve to this already-present shell to terminate on mutually
// recursive types and functions.
func (t *Table) Shell(id ast.DefId, args []types.Ty, kind Kind, name string) (*Inst, bool) {
	key := Key(id, args)
	if e, ok := t.entries[key]; ok {
		return e, false
	}
	e := &Inst{Kind: kind, Name: name, Id: id, Args: args}
	t.entries[key] = e
	t.order = append(t.order, key)
	return e, true
}

// All returns every instance in insertion order, for the lowerer's
// two-pass iteration.
func (t *Table) All() []*Inst {
	out := make([]*Inst, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entries[key])
	}
	return out
}

// Len reports the number of distinct instances. Monomorphization
// uniqueness holds by construction, since Shell never overwrites an
// existing entry.
func (t *Table) Len() int { return len(t.entries) }
