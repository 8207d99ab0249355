// Package ast defines the parser-facing surface the core consumes: a
// Repository of definitions keyed by opaque DefId, and the untyped
// expression trees those definitions carry. Nothing in this package
// parses source text; a Repository is assumed well-formed by the time
// the checker sees it.
package ast

import "fmt"

// DefId is an opaque handle assigned by the (out-of-scope) parser to a
// source-level definition. The core never constructs one except in
// tests, and never inspects its internals.
type DefId uint32

func (d DefId) String() string { return fmt.Sprintf("def#%d", uint32(d)) }

// Pos is a source position, carried through for error reporting only;
// the core never decides control flow based on it.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the base of every AST node: definitions and expressions alike.
type Node interface {
	Position() Pos
}

// BaseNode supplies Position() by embedding.
type BaseNode struct {
	Pos Pos
}

func (n BaseNode) Position() Pos { return n.Pos }

// Repository is the complete input to the core: every definition in the
// compilation unit, indexed by its DefId. It is produced by the parser
// and treated as read-only after handoff.
type Repository struct {
	Defs map[DefId]Def
	// Order preserves the definition order in source. The checker walks
	// it for CheckAll and for name lookup, which makes instance creation
	// order, and so lowering order, deterministic.
	Order []DefId
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{Defs: make(map[DefId]Def)}
}

// Add registers a definition, normalizing its DefId position in Order.
func (r *Repository) Add(id DefId, def Def) {
	if _, exists := r.Defs[id]; !exists {
		r.Order = append(r.Order, id)
	}
	r.Defs[id] = def
}
