// Package frontend is a thin, intentionally minimal stand-in for a
// full concrete-syntax parser: it turns a YAML-encoded "source bundle"
// file into the ast.Repository the core consumes. It does not lex or
// parse the source language's concrete grammar; it exists only so
// cmd/emberc has something real to read from disk end-to-end. It uses
// the same gopkg.in/yaml.v3 dependency internal/config already wires
// in.
package frontend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberlang/emberc/internal/ast"
)

// bundleFile is the top-level YAML shape: an ordered list of
// definitions, each a generic tagged map decoded by decodeDef.
type bundleFile struct {
	Defs []map[string]any `yaml:"defs"`
}

// ParseBundle reads path, decodes it as a YAML source bundle, and
// builds the ast.Repository the checker consumes. Definition ids are
// assigned positionally (1-based, in file order) since the bundle
// format carries no separate id field of its own; definition and field
// names are NFC-normalized exactly once, here, at the parser/core
// boundary (ast.NormalizeName), so nothing downstream needs to worry
// about combining-character duplicates.
func ParseBundle(path string) (*ast.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("frontend: reading %s: %w", path, err)
	}

	var bf bundleFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("frontend: parsing %s: %w", path, err)
	}

	repo := ast.NewRepository()
	for i, raw := range bf.Defs {
		id := ast.DefId(i + 1)
		def, err := decodeDef(path, raw)
		if err != nil {
			return nil, fmt.Errorf("frontend: %s: def #%d: %w", path, i+1, err)
		}
		repo.Add(id, def)
	}
	return repo, nil
}

func pos(file string) ast.Pos { return ast.Pos{File: file} }

func str(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return ast.NormalizeName(s)
		}
	}
	return ""
}

func strList(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, ast.NormalizeName(s))
		}
	}
	return out
}

func boolVal(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func uintVal(m map[string]any, key string) uint64 {
	switch v := m[key].(type) {
	case int:
		return uint64(v)
	case int64:
		return uint64(v)
	case uint64:
		return v
	}
	return 0
}

func mapField(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	mm, ok := v.(map[string]any)
	return mm, ok
}

func listField(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	items, _ := v.([]any)
	return items
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// decodeDef dispatches on the def's "kind" tag to one of the seven
// top-level definition shapes ast/def.go declares.
func decodeDef(file string, m map[string]any) (ast.Def, error) {
	kind := str(m, "kind")
	name := str(m, "name")
	generics := strList(m, "generics")

	switch kind {
	case "func":
		params, err := decodeParams(file, listField(m, "params"))
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptionalType(file, m, "ret")
		if err != nil {
			return nil, err
		}
		var body ast.Expr
		if bm, ok := mapField(m, "body"); ok {
			body, err = decodeExpr(file, bm)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewFuncDef(pos(file), name, generics, params, ret, body), nil

	case "extern_func":
		params, err := decodeParams(file, listField(m, "params"))
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptionalType(file, m, "ret")
		if err != nil {
			return nil, err
		}
		return ast.NewExternFuncDef(pos(file), name, params, boolVal(m, "variadic"), ret), nil

	case "extern_data":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		return ast.NewExternDataDef(pos(file), name, ty), nil

	case "data":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		im, ok := mapField(m, "init")
		if !ok {
			return nil, fmt.Errorf("data %q: missing init", name)
		}
		init, err := decodeExpr(file, im)
		if err != nil {
			return nil, err
		}
		return ast.NewDataDef(pos(file), name, ty, init), nil

	case "struct":
		fields, err := decodeFieldDefs(file, listField(m, "fields"))
		if err != nil {
			return nil, err
		}
		return ast.NewStructDef(pos(file), name, generics, fields), nil

	case "union":
		fields, err := decodeFieldDefs(file, listField(m, "fields"))
		if err != nil {
			return nil, err
		}
		return ast.NewUnionDef(pos(file), name, generics, fields), nil

	case "enum":
		variants, err := decodeVariants(file, listField(m, "variants"))
		if err != nil {
			return nil, err
		}
		return ast.NewEnumDef(pos(file), name, generics, variants), nil

	default:
		return nil, fmt.Errorf("unknown def kind %q", kind)
	}
}

func decodeParams(file string, raw []any) ([]ast.Param, error) {
	out := make([]ast.Param, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("param entry is not a mapping")
		}
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Param{Name: str(m, "name"), Type: ty})
	}
	return out, nil
}

func decodeFieldDefs(file string, raw []any) ([]ast.FieldDef, error) {
	out := make([]ast.FieldDef, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("field entry is not a mapping")
		}
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.FieldDef{Name: str(m, "name"), Type: ty})
	}
	return out, nil
}

func decodeVariants(file string, raw []any) ([]ast.VariantDef, error) {
	out := make([]ast.VariantDef, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("variant entry is not a mapping")
		}
		var fields []ast.FieldDef
		if fieldsRaw := listField(m, "fields"); fieldsRaw != nil {
			var err error
			fields, err = decodeFieldDefs(file, fieldsRaw)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, ast.VariantDef{Name: str(m, "name"), Fields: fields})
	}
	return out, nil
}

func decodeOptionalType(file string, m map[string]any, key string) (ast.TypeExpr, error) {
	tm, ok := mapField(m, key)
	if !ok {
		return nil, nil
	}
	return decodeType(file, tm)
}

// decodeType dispatches on a TypeExpr's "kind" tag (ast/typeexpr.go).
// Every variant is built with a keyed struct literal that leaves the
// unexported baseTypeExpr/BaseNode field at its zero value: the bundle
// format carries no source positions to hang there anyway, since this
// package is not a real lexer/parser.
func decodeType(file string, m map[string]any) (ast.TypeExpr, error) {
	switch kind := str(m, "kind"); kind {
	case "name":
		return &ast.NameTypeExpr{Name: str(m, "name")}, nil

	case "ptr":
		bm, ok := mapField(m, "base")
		if !ok {
			return nil, fmt.Errorf("ptr type missing base")
		}
		base, err := decodeType(file, bm)
		if err != nil {
			return nil, err
		}
		return &ast.PtrTypeExpr{Mut: boolVal(m, "mut"), Base: base}, nil

	case "arr":
		em, ok := mapField(m, "elem")
		if !ok {
			return nil, fmt.Errorf("arr type missing elem")
		}
		elem, err := decodeType(file, em)
		if err != nil {
			return nil, err
		}
		return &ast.ArrTypeExpr{Count: uintVal(m, "count"), Elem: elem}, nil

	case "func":
		params, err := decodeNamedTypes(file, listField(m, "params"))
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptionalType(file, m, "ret")
		if err != nil {
			return nil, err
		}
		return &ast.FuncTypeExpr{Params: params, Variadic: boolVal(m, "variadic"), Ret: ret}, nil

	case "tuple":
		fields, err := decodeNamedTypes(file, listField(m, "fields"))
		if err != nil {
			return nil, err
		}
		return &ast.TupleTypeExpr{Fields: fields}, nil

	case "generic":
		args := make([]ast.TypeExpr, 0)
		for _, r := range listField(m, "args") {
			am, ok := asMap(r)
			if !ok {
				return nil, fmt.Errorf("generic type arg is not a mapping")
			}
			a, err := decodeType(file, am)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return &ast.GenericTypeExpr{Name: str(m, "name"), Args: args}, nil

	default:
		return nil, fmt.Errorf("unknown type kind %q", kind)
	}
}

var binOps = map[string]ast.BinOp{
	"add": ast.Add, "sub": ast.Sub, "mul": ast.Mul, "div": ast.Div, "mod": ast.Mod,
	"shl": ast.Shl, "rsh": ast.Rsh, "bitand": ast.BitAnd, "bitor": ast.BitOr, "bitxor": ast.BitXor,
	"eq": ast.Eq, "ne": ast.Ne, "lt": ast.Lt, "le": ast.Le, "gt": ast.Gt, "ge": ast.Ge,
}

var unOps = map[string]ast.UnOp{
	"uplus": ast.UPlus, "uneg": ast.UNeg, "ubitnot": ast.UBitNot,
}

func decodeBinOp(m map[string]any) (ast.BinOp, error) {
	name := str(m, "op")
	op, ok := binOps[name]
	if !ok {
		return 0, fmt.Errorf("unknown binary operator %q", name)
	}
	return op, nil
}

func decodeUnOp(m map[string]any) (ast.UnOp, error) {
	name := str(m, "op")
	op, ok := unOps[name]
	if !ok {
		return 0, fmt.Errorf("unknown unary operator %q", name)
	}
	return op, nil
}

func exprField(file string, m map[string]any, key string) (ast.Expr, error) {
	em, ok := mapField(m, key)
	if !ok {
		return nil, fmt.Errorf("missing %q expression", key)
	}
	return decodeExpr(file, em)
}

func optExprField(file string, m map[string]any, key string) (ast.Expr, error) {
	em, ok := mapField(m, key)
	if !ok {
		return nil, nil
	}
	return decodeExpr(file, em)
}

func exprList(file string, raw []any) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("expression entry is not a mapping")
		}
		e, err := decodeExpr(file, m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// bytesVal reads a raw string field without NFC normalization: string
// and c-string literal *contents* are program data, not identifiers,
// and must round-trip byte-for-byte.
func bytesVal(m map[string]any, key string) []byte {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return []byte(s)
		}
	}
	return nil
}

func floatVal(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func intVal(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// decodeExpr dispatches on an Expr's "kind" tag (ast/expr.go). As with
// decodeType, every variant's unexported baseExpr/BaseNode field is left
// at its zero value: this frontend carries no source positions.
func decodeExpr(file string, m map[string]any) (ast.Expr, error) {
	switch kind := str(m, "kind"); kind {
	case "name":
		return &ast.NameExpr{Name: str(m, "name")}, nil
	case "int":
		return &ast.IntExpr{Value: intVal(m, "value")}, nil
	case "flt":
		return &ast.FltExpr{Value: floatVal(m, "value")}, nil
	case "bool":
		return &ast.BoolExpr{Value: boolVal(m, "value")}, nil
	case "str":
		return &ast.StrExpr{Value: bytesVal(m, "value")}, nil
	case "cstr":
		return &ast.CStrExpr{Value: bytesVal(m, "value")}, nil
	case "nil":
		return &ast.NilExpr{}, nil
	case "unit":
		return &ast.UnitExpr{}, nil

	case "call":
		callee, err := exprField(file, m, "callee")
		if err != nil {
			return nil, err
		}
		args, err := exprList(file, listField(m, "args"))
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: callee, Args: args}, nil

	case "un":
		op, err := decodeUnOp(m)
		if err != nil {
			return nil, err
		}
		arg, err := exprField(file, m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.UnExpr{Op: op, Arg: arg}, nil

	case "bin":
		op, err := decodeBinOp(m)
		if err != nil {
			return nil, err
		}
		l, err := exprField(file, m, "l")
		if err != nil {
			return nil, err
		}
		r, err := exprField(file, m, "r")
		if err != nil {
			return nil, err
		}
		return &ast.BinExpr{Op: op, L: l, R: r}, nil

	case "lnot":
		arg, err := exprField(file, m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.LNotExpr{Arg: arg}, nil

	case "land":
		l, err := exprField(file, m, "l")
		if err != nil {
			return nil, err
		}
		r, err := exprField(file, m, "r")
		if err != nil {
			return nil, err
		}
		return &ast.LAndExpr{L: l, R: r}, nil

	case "lor":
		l, err := exprField(file, m, "l")
		if err != nil {
			return nil, err
		}
		r, err := exprField(file, m, "r")
		if err != nil {
			return nil, err
		}
		return &ast.LOrExpr{L: l, R: r}, nil

	case "block":
		exprs, err := exprList(file, listField(m, "exprs"))
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Exprs: exprs}, nil

	case "as":
		lhs, err := exprField(file, m, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := exprField(file, m, "rhs")
		if err != nil {
			return nil, err
		}
		return &ast.AsExpr{LHS: lhs, RHS: rhs}, nil

	case "rmw":
		op, err := decodeBinOp(m)
		if err != nil {
			return nil, err
		}
		lhs, err := exprField(file, m, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := exprField(file, m, "rhs")
		if err != nil {
			return nil, err
		}
		return &ast.RmwExpr{Op: op, LHS: lhs, RHS: rhs}, nil

	case "continue":
		return &ast.ContinueExpr{}, nil

	case "break":
		val, err := optExprField(file, m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.BreakExpr{Value: val}, nil

	case "return":
		val, err := optExprField(file, m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ReturnExpr{Value: val}, nil

	case "let":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		init, err := optExprField(file, m, "init")
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Name: str(m, "name"), Type: ty, Init: init}, nil

	case "if":
		cond, err := exprField(file, m, "cond")
		if err != nil {
			return nil, err
		}
		then, err := exprField(file, m, "then")
		if err != nil {
			return nil, err
		}
		els, err := optExprField(file, m, "else")
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Cond: cond, Then: then, Else: els}, nil

	case "while":
		cond, err := exprField(file, m, "cond")
		if err != nil {
			return nil, err
		}
		body, err := exprField(file, m, "body")
		if err != nil {
			return nil, err
		}
		return &ast.WhileExpr{Cond: cond, Body: body}, nil

	case "loop":
		body, err := exprField(file, m, "body")
		if err != nil {
			return nil, err
		}
		return &ast.LoopExpr{Body: body}, nil

	case "match":
		cond, err := exprField(file, m, "cond")
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, 0)
		for _, r := range listField(m, "arms") {
			am, ok := asMap(r)
			if !ok {
				return nil, fmt.Errorf("match arm is not a mapping")
			}
			body, err := exprField(file, am, "body")
			if err != nil {
				return nil, err
			}
			arms = append(arms, ast.MatchArm{Variant: str(am, "variant"), Binding: str(am, "binding"), Body: body})
		}
		return &ast.MatchExpr{Cond: cond, Arms: arms}, nil

	case "index":
		base, err := exprField(file, m, "base")
		if err != nil {
			return nil, err
		}
		idx, err := exprField(file, m, "index")
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Base: base, Index: idx}, nil

	case "dot":
		base, err := exprField(file, m, "base")
		if err != nil {
			return nil, err
		}
		return &ast.DotExpr{Base: base, Field: str(m, "field")}, nil

	case "adr":
		arg, err := exprField(file, m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.AdrExpr{Arg: arg}, nil

	case "ind":
		arg, err := exprField(file, m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.IndExpr{Arg: arg}, nil

	case "cast":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		arg, err := exprField(file, m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Type: ty, Arg: arg}, nil

	case "arraylit":
		elems, err := exprList(file, listField(m, "elems"))
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLitExpr{Elems: elems}, nil

	case "structlit":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		fields, err := decodeFieldInits(file, listField(m, "fields"))
		if err != nil {
			return nil, err
		}
		return &ast.StructLitExpr{Type: ty, Fields: fields}, nil

	case "unionlit":
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		fm, ok := mapField(m, "field")
		if !ok {
			return nil, fmt.Errorf("unionlit missing field")
		}
		value, err := exprField(file, fm, "value")
		if err != nil {
			return nil, err
		}
		return &ast.UnionLitExpr{Type: ty, Field: ast.FieldInit{Name: str(fm, "name"), Value: value}}, nil

	default:
		return nil, fmt.Errorf("unknown expr kind %q", kind)
	}
}

func decodeFieldInits(file string, raw []any) ([]ast.FieldInit, error) {
	out := make([]ast.FieldInit, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("field-init entry is not a mapping")
		}
		v, err := exprField(file, m, "value")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.FieldInit{Name: str(m, "name"), Value: v})
	}
	return out, nil
}

func decodeNamedTypes(file string, raw []any) ([]ast.NamedTypeExpr, error) {
	out := make([]ast.NamedTypeExpr, 0, len(raw))
	for _, r := range raw {
		m, ok := asMap(r)
		if !ok {
			return nil, fmt.Errorf("named-type entry is not a mapping")
		}
		ty, err := decodeOptionalType(file, m, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.NamedTypeExpr{Name: str(m, "name"), Type: ty})
	}
	return out, nil
}
