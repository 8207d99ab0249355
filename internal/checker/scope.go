package checker

import "github.com/emberlang/emberc/internal/types"

// bindKind discriminates what a scope entry resolves to.
type bindKind int

const (
	bindParam bindKind = iota
	bindLet
	bindMatch
	bindGeneric
)

// binding is one entry in a scope: a local of some storage kind, or (for
// bindGeneric) the type variable standing in for a function's type
// parameter while its body is being checked.
type binding struct {
	kind  bindKind
	index int // storage index for bindParam/bindLet/bindMatch
	ty    types.Ty
	mut   bool
}

// scope is one lexical block: a flat map, since the source language
// resolves shadowing simply by innermost-wins stack order.
type scope struct {
	names map[string]binding
}

func newScope() *scope { return &scope{names: make(map[string]binding)} }

// scopeStack resolves names innermost-first: a stack of flat scopes
// rather than a parent-pointer chain, since a checker never outlives
// one function body being checked.
type scopeStack struct {
	frames []*scope
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: []*scope{newScope()}}
}

func (s *scopeStack) push() { s.frames = append(s.frames, newScope()) }

func (s *scopeStack) pop() { s.frames = s.frames[:len(s.frames)-1] }

func (s *scopeStack) declare(name string, b binding) {
	s.frames[len(s.frames)-1].names[name] = b
}

func (s *scopeStack) lookup(name string) (binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].names[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}
