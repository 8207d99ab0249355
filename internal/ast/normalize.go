package ast

import "golang.org/x/text/unicode/norm"

// NormalizeName applies Unicode NFC normalization to a definition or
// field name. internal/frontend applies it to every name it decodes
// before building the Repository, so the core's later name comparisons
// (definition lookup, struct/union field lookup, Tuple/Func
// parameter-name matching during unification) see a single form.
// Without this, two visually identical identifiers typed with
// different combining-character decompositions would compare unequal
// and produce spurious "unknown name" errors.
func NormalizeName(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
