// Package lower implements the SSA lowering pass: it walks the
// populated instances.Table and emits an LLVM module via
// github.com/llir/llvm, following a two-pass shell-then-body
// discipline (declare every global/function handle first, then fill in
// initializers and bodies, so forward references always resolve).
package lower

import (
	"fmt"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/types"
)

// TargetWidth is the bit width Uintn/Intn lower to. This mapping is
// target-dependent; keeping it behind one constant means a future
// multi-target build changes one definition.
const TargetWidth = 64

// layout answers the backend's target-layout queries (size_of and
// align_of) for literal (bound-free) types, following ordinary C
// struct/union/array layout rules. llir/llvm has no target data layout
// model of its own, so the queries are computed here by hand. Nominal
// struct/union/enum references resolve their field shapes through the
// instance table.
type layout struct {
	insts *instances.Table
}

// sizeOf returns the store size, in bytes, of a literal Ty.
func (la *layout) sizeOf(t types.Ty) uint64 {
	switch t.Kind() {
	case types.KBool, types.KUint8, types.KInt8:
		return 1
	case types.KUint16, types.KInt16:
		return 2
	case types.KUint32, types.KInt32, types.KFloat:
		return 4
	case types.KUint64, types.KInt64, types.KDouble:
		return 8
	case types.KUintn, types.KIntn:
		return TargetWidth / 8
	case types.KPtr, types.KFunc:
		return TargetWidth / 8
	case types.KArr:
		return t.Count() * la.sizeOf(t.Elem())
	case types.KTuple:
		return la.structSize(t.Fields())
	case types.KStructRef:
		return la.structSize(la.nominalInst(t).Fields)
	case types.KUnionRef:
		return la.unionSize(fieldTypes(la.nominalInst(t).Fields))
	case types.KEnumRef:
		return la.enumSize(la.nominalInst(t).Variants)
	default:
		return 0
	}
}

// alignOf returns the ABI alignment, in bytes, of a literal Ty.
func (la *layout) alignOf(t types.Ty) uint64 {
	switch t.Kind() {
	case types.KBool, types.KUint8, types.KInt8:
		return 1
	case types.KUint16, types.KInt16:
		return 2
	case types.KUint32, types.KInt32, types.KFloat:
		return 4
	case types.KUint64, types.KInt64, types.KDouble:
		return 8
	case types.KUintn, types.KIntn:
		return TargetWidth / 8
	case types.KPtr, types.KFunc:
		return TargetWidth / 8
	case types.KArr:
		return la.alignOf(t.Elem())
	case types.KTuple:
		return la.structAlign(t.Fields())
	case types.KStructRef:
		return la.structAlign(la.nominalInst(t).Fields)
	case types.KUnionRef:
		return la.unionAlign(fieldTypes(la.nominalInst(t).Fields))
	case types.KEnumRef:
		return la.enumAlign(la.nominalInst(t).Variants)
	default:
		return 1
	}
}

func (la *layout) nominalInst(t types.Ty) *instances.Inst {
	inst, ok := la.insts.Get(t.DefId(), t.Args())
	if !ok {
		panic(fmt.Sprintf("lower: no instance for %s", t))
	}
	return inst
}

func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// structAlign is the max field alignment, C-struct-layout style.
func (la *layout) structAlign(fields []types.Field) uint64 {
	var a uint64 = 1
	for _, f := range fields {
		if fa := la.alignOf(f.Type); fa > a {
			a = fa
		}
	}
	return a
}

// structSize lays out fields in order with natural alignment padding,
// then rounds the total up to the struct's own alignment (tail
// padding), the ordinary C layout used for Tuple/Struct lowering.
func (la *layout) structSize(fields []types.Field) uint64 {
	var offset uint64
	for _, f := range fields {
		offset = alignUp(offset, la.alignOf(f.Type))
		offset += la.sizeOf(f.Type)
	}
	return alignUp(offset, la.structAlign(fields))
}

// highestAlignTy returns the index of the member type with the largest
// alignment (ties won by the earliest member in declaration order):
// the union layout rule stores this member directly. Shared by both an
// ordinary Union's fields and an Enum's synthesized per-variant payload
// shapes, since both follow the same "widest field, sized pad" rule.
func (la *layout) highestAlignTy(tys []types.Ty) int {
	best := 0
	for i := 1; i < len(tys); i++ {
		if la.alignOf(tys[i]) > la.alignOf(tys[best]) {
			best = i
		}
	}
	return best
}

// unionSize is the size of the union lowering: the largest member,
// rounded up to the union's own alignment (so tail padding is uniform
// regardless of which member is currently live).
func (la *layout) unionSize(tys []types.Ty) uint64 {
	var max uint64
	for _, t := range tys {
		if s := la.sizeOf(t); s > max {
			max = s
		}
	}
	return alignUp(max, la.unionAlign(tys))
}

func (la *layout) unionAlign(tys []types.Ty) uint64 {
	var a uint64 = 1
	for _, t := range tys {
		if fa := la.alignOf(t); fa > a {
			a = fa
		}
	}
	return a
}

// enumPayloads collects the struct-shaped payload of every non-unit
// variant as a tuple; unit variants contribute nothing to the layout
// beyond the tag.
func enumPayloads(variants []instances.Variant) []types.Ty {
	var payloads []types.Ty
	for _, v := range variants {
		if !v.IsUnit() {
			payloads = append(payloads, types.Tuple(v.Fields))
		}
	}
	return payloads
}

// enumSize is the size of the `{ i32 tag, union-of-payloads }` enum
// lowering: the tag, padded up to the payload union's alignment, plus
// the union, rounded up to the enum's own alignment.
func (la *layout) enumSize(variants []instances.Variant) uint64 {
	payloads := enumPayloads(variants)
	if len(payloads) == 0 {
		return 4
	}
	ua := la.unionAlign(payloads)
	size := alignUp(4, ua) + la.unionSize(payloads)
	return alignUp(size, la.enumAlign(variants))
}

// enumAlign is max(4, payload alignments): the tag is a 32-bit field.
func (la *layout) enumAlign(variants []instances.Variant) uint64 {
	var a uint64 = 4
	if ua := la.unionAlign(enumPayloads(variants)); ua > a {
		a = ua
	}
	return a
}

func fieldTypes(fields []types.Field) []types.Ty {
	out := make([]types.Ty, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

// variantPayloadTy mirrors internal/checker's payloadType exactly: a
// single-field variant's payload is that field's own type, not a
// one-element tuple (so `B(n) => n` binds `n` directly). Both the
// Match binding (control.go) and struct-variant construction
// (lvalue.go) address the same enum payload storage and must agree on
// its type, since fl.load/fl.storeAddr dispatch on the type they're
// given, not on the address's own static LLVM type.
func variantPayloadTy(fields []types.Field) types.Ty {
	if len(fields) == 1 {
		return fields[0].Type
	}
	return types.Tuple(fields)
}
