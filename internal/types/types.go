// Package types implements the type term algebra and the type variable
// context (TCX): a tagged Ty union with structural equality, and a
// union-find forest over type variables carrying Any/Num/Int/Flt
// bounds or concrete bounds.
package types

import (
	"fmt"
	"strings"

	"github.com/emberlang/emberc/internal/ast"
)

// Kind discriminates the Ty tagged union. Kept as an explicit enum
// (rather than a Go type switch alone) because the instantiation table
// and the lowerer both need a cheap, hashable summary of a Ty's shape.
type Kind int

const (
	KBool Kind = iota
	KUint8
	KInt8
	KUint16
	KInt16
	KUint32
	KInt32
	KUint64
	KInt64
	KUintn
	KIntn
	KFloat
	KDouble
	KPtr
	KFunc
	KArr
	KTuple
	KStructRef
	KUnionRef
	KEnumRef
	KTVar
	KBoundAny
	KBoundNum
	KBoundInt
	KBoundFlt
)

// Field is a named component of a Func's parameter list or a Tuple.
type Field struct {
	Name string
	Type Ty
}

// Ty is a type term: a scalar, pointer, function, array, tuple, a
// nominal struct/union/enum reference, a type variable, or (inside the
// TCX only) one of the four bound sentinels. Ty is an immutable value
// type so it can be copied freely and used as a map key component after
// being reduced to its canonical form.
type Ty struct {
	kind Kind

	// Ptr
	mut  bool
	base *Ty

	// Func
	params   []Field
	variadic bool
	ret      *Ty

	// Arr
	count uint64
	elem  *Ty

	// Tuple
	fields []Field

	// StructRef / UnionRef / EnumRef
	name string
	id   ast.DefId
	args []Ty

	// TVar
	index int
}

func Bool() Ty    { return Ty{kind: KBool} }
func Uint8() Ty   { return Ty{kind: KUint8} }
func Int8() Ty    { return Ty{kind: KInt8} }
func Uint16() Ty  { return Ty{kind: KUint16} }
func Int16() Ty   { return Ty{kind: KInt16} }
func Uint32() Ty  { return Ty{kind: KUint32} }
func Int32() Ty   { return Ty{kind: KInt32} }
func Uint64() Ty  { return Ty{kind: KUint64} }
func Int64() Ty   { return Ty{kind: KInt64} }
func Uintn() Ty   { return Ty{kind: KUintn} }
func Intn() Ty    { return Ty{kind: KIntn} }
func Float() Ty   { return Ty{kind: KFloat} }
func Double() Ty  { return Ty{kind: KDouble} }
func BoundAny() Ty { return Ty{kind: KBoundAny} }
func BoundNum() Ty { return Ty{kind: KBoundNum} }
func BoundInt() Ty { return Ty{kind: KBoundInt} }
func BoundFlt() Ty { return Ty{kind: KBoundFlt} }

func Ptr(mut bool, base Ty) Ty { return Ty{kind: KPtr, mut: mut, base: &base} }

func Func(params []Field, variadic bool, ret Ty) Ty {
	return Ty{kind: KFunc, params: params, variadic: variadic, ret: &ret}
}

func Arr(count uint64, elem Ty) Ty { return Ty{kind: KArr, count: count, elem: &elem} }

func Tuple(fields []Field) Ty { return Ty{kind: KTuple, fields: fields} }

func StructRef(name string, id ast.DefId, args []Ty) Ty {
	return Ty{kind: KStructRef, name: name, id: id, args: args}
}

func UnionRef(name string, id ast.DefId, args []Ty) Ty {
	return Ty{kind: KUnionRef, name: name, id: id, args: args}
}

func EnumRef(name string, id ast.DefId, args []Ty) Ty {
	return Ty{kind: KEnumRef, name: name, id: id, args: args}
}

func TVar(index int) Ty { return Ty{kind: KTVar, index: index} }

func (t Ty) Kind() Kind         { return t.kind }
func (t Ty) IsMut() bool        { return t.mut }
func (t Ty) Base() Ty           { return *t.base }
func (t Ty) Params() []Field    { return t.params }
func (t Ty) Variadic() bool     { return t.variadic }
func (t Ty) Ret() Ty            { return *t.ret }
func (t Ty) Count() uint64      { return t.count }
func (t Ty) Elem() Ty           { return *t.elem }
func (t Ty) Fields() []Field    { return t.fields }
func (t Ty) Name() string       { return t.name }
func (t Ty) DefId() ast.DefId   { return t.id }
func (t Ty) Args() []Ty         { return t.args }
func (t Ty) Index() int         { return t.index }

// IsNumeric reports whether t (after resolution) is one of the scalar
// numeric kinds unify's BoundNum rule accepts.
func (t Ty) IsNumeric() bool {
	switch t.kind {
	case KUint8, KInt8, KUint16, KInt16, KUint32, KInt32, KUint64, KInt64, KUintn, KIntn, KFloat, KDouble:
		return true
	}
	return false
}

// IsInteger reports whether t is one of the integer scalar kinds.
func (t Ty) IsInteger() bool {
	switch t.kind {
	case KUint8, KInt8, KUint16, KInt16, KUint32, KInt32, KUint64, KInt64, KUintn, KIntn:
		return true
	}
	return false
}

// IsUnsigned reports whether t is one of the unsigned integer kinds.
func (t Ty) IsUnsigned() bool {
	switch t.kind {
	case KUint8, KUint16, KUint32, KUint64, KUintn:
		return true
	}
	return false
}

// IsFloat reports whether t is Float or Double.
func (t Ty) IsFloat() bool { return t.kind == KFloat || t.kind == KDouble }

// Equals is structural equality: nominal references compare DefId and
// argument vectors element-wise.
func (t Ty) Equals(o Ty) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KPtr:
		return t.mut == o.mut && t.base.Equals(*o.base)
	case KFunc:
		if t.variadic != o.variadic || len(t.params) != len(o.params) {
			return false
		}
		for i := range t.params {
			if t.params[i].Name != o.params[i].Name || !t.params[i].Type.Equals(o.params[i].Type) {
				return false
			}
		}
		return t.ret.Equals(*o.ret)
	case KArr:
		return t.count == o.count && t.elem.Equals(*o.elem)
	case KTuple:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equals(o.fields[i].Type) {
				return false
			}
		}
		return true
	case KStructRef, KUnionRef, KEnumRef:
		if t.id != o.id || len(t.args) != len(o.args) {
			return false
		}
		for i := range t.args {
			if !t.args[i].Equals(o.args[i]) {
				return false
			}
		}
		return true
	case KTVar:
		return t.index == o.index
	default:
		return true
	}
}

// Key returns a canonical string encoding of t, used as a map key for
// the instantiation table and for anonymous-struct deduplication in the
// lowerer. It is only ever called on a literal (bound-free) Ty.
func (t Ty) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t Ty) writeKey(b *strings.Builder) {
	switch t.kind {
	case KPtr:
		if t.mut {
			b.WriteString("*mut ")
		} else {
			b.WriteString("*")
		}
		t.base.writeKey(b)
	case KFunc:
		b.WriteString("fn(")
		for i, p := range t.params {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%s:", p.Name)
			p.Type.writeKey(b)
		}
		if t.variadic {
			b.WriteString(",...")
		}
		b.WriteString(")->")
		t.ret.writeKey(b)
	case KArr:
		fmt.Fprintf(b, "[%d]", t.count)
		t.elem.writeKey(b)
	case KTuple:
		b.WriteString("(")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%s:", f.Name)
			f.Type.writeKey(b)
		}
		b.WriteString(")")
	case KStructRef, KUnionRef, KEnumRef:
		fmt.Fprintf(b, "%s#%d", t.name, uint32(t.id))
		if len(t.args) > 0 {
			b.WriteString("<")
			for i, a := range t.args {
				if i > 0 {
					b.WriteString(",")
				}
				a.writeKey(b)
			}
			b.WriteString(">")
		}
	case KTVar:
		fmt.Fprintf(b, "tvar#%d", t.index)
	default:
		b.WriteString(t.String())
	}
}

// String renders t for diagnostics. Tuples print as comma-separated
// `name: type` and nominals print by name only.
func (t Ty) String() string {
	switch t.kind {
	case KBool:
		return "Bool"
	case KUint8:
		return "Uint8"
	case KInt8:
		return "Int8"
	case KUint16:
		return "Uint16"
	case KInt16:
		return "Int16"
	case KUint32:
		return "Uint32"
	case KInt32:
		return "Int32"
	case KUint64:
		return "Uint64"
	case KInt64:
		return "Int64"
	case KUintn:
		return "Uintn"
	case KIntn:
		return "Intn"
	case KFloat:
		return "Float"
	case KDouble:
		return "Double"
	case KBoundAny:
		return "<any>"
	case KBoundNum:
		return "<num>"
	case KBoundInt:
		return "<int>"
	case KBoundFlt:
		return "<flt>"
	case KPtr:
		if t.mut {
			return "*mut " + t.base.String()
		}
		return "*" + t.base.String()
	case KFunc:
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
		}
		variadic := ""
		if t.variadic {
			variadic = ", ..."
		}
		return fmt.Sprintf("fn(%s%s) -> %s", strings.Join(parts, ", "), variadic, t.ret)
	case KArr:
		return fmt.Sprintf("[%d]%s", t.count, t.elem)
	case KTuple:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case KStructRef, KUnionRef, KEnumRef:
		if len(t.args) == 0 {
			return t.name
		}
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.name, strings.Join(parts, ", "))
	case KTVar:
		return fmt.Sprintf("?%d", t.index)
	default:
		return "<?>"
	}
}

// IsUnit reports whether t is the empty tuple (the Any bound's default
// literal type, and the type of statement-position expressions).
func (t Ty) IsUnit() bool {
	return t.kind == KTuple && len(t.fields) == 0
}
