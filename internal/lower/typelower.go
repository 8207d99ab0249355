package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/types"
)

// Semantics is the Void/Value/Addr classification of a type, governing
// how a Ty is loaded, stored, returned, and passed.
type Semantics int

const (
	SemVoid Semantics = iota
	SemValue
	SemAddr
)

// semanticsOf classifies t: Unit is Void; scalars, pointers, and
// function references are Value; every aggregate (array, tuple,
// struct, union, enum) is Addr, manipulated only through a pointer.
func semanticsOf(t types.Ty) Semantics {
	if t.IsUnit() {
		return SemVoid
	}
	switch t.Kind() {
	case types.KArr, types.KTuple, types.KStructRef, types.KUnionRef, types.KEnumRef:
		return SemAddr
	default:
		return SemValue
	}
}

// opaquePtr is the single concrete LLVM type every Ptr(_, _) and
// Func(...) value lowers to. llir/llvm's pointer type is still
// element-typed at the API level, so a single canonical `i8*` stands
// in for a true opaque pointer, with bitcasts at use sites as needed.
func opaquePtr() *lltypes.PointerType { return lltypes.NewPointer(lltypes.I8) }

// typeLowerer converts the core's Ty algebra into LLVM IR types,
// caching both anonymous tuple shapes (tuples are structurally
// identified, so two occurrences of the same shape share one LLVM
// type; array types are built afresh on each call) and nominal
// struct/union/enum instances (keyed by
// their Inst identity, so two references to the same monomorphized
// instance share one named LLVM type).
type typeLowerer struct {
	m        *ir.Module
	insts    *instances.Table
	lay      *layout
	anon     map[string]lltypes.Type
	nominal  map[string]lltypes.Type
	variants map[string][]lltypes.Type // enum key -> per-variant payload struct types (nil entry for unit)
}

func newTypeLowerer(m *ir.Module, insts *instances.Table, lay *layout) *typeLowerer {
	return &typeLowerer{
		m:        m,
		insts:    insts,
		lay:      lay,
		anon:     make(map[string]lltypes.Type),
		nominal:  make(map[string]lltypes.Type),
		variants: make(map[string][]lltypes.Type),
	}
}

// lower converts a literal (bound-free) Ty into its LLVM representation.
func (tl *typeLowerer) lower(t types.Ty) lltypes.Type {
	switch t.Kind() {
	case types.KBool:
		return lltypes.I1
	case types.KUint8, types.KInt8:
		return lltypes.I8
	case types.KUint16, types.KInt16:
		return lltypes.I16
	case types.KUint32, types.KInt32:
		return lltypes.I32
	case types.KUint64, types.KInt64:
		return lltypes.I64
	case types.KUintn, types.KIntn:
		return lltypes.NewInt(TargetWidth)
	case types.KFloat:
		return lltypes.Float
	case types.KDouble:
		return lltypes.Double
	case types.KPtr, types.KFunc:
		return opaquePtr()
	case types.KArr:
		return lltypes.NewArray(t.Count(), tl.lower(t.Elem()))
	case types.KTuple:
		return tl.lowerAnonStruct(t.Fields())
	case types.KStructRef:
		return tl.lowerNominal(t)
	case types.KUnionRef:
		return tl.lowerNominal(t)
	case types.KEnumRef:
		return tl.lowerNominal(t)
	default:
		panic(fmt.Sprintf("lower: %s has no runtime representation", t))
	}
}

func (tl *typeLowerer) lowerAnonStruct(fields []types.Field) lltypes.Type {
	key := types.Tuple(fields).Key()
	if t, ok := tl.anon[key]; ok {
		return t
	}
	members := make([]lltypes.Type, len(fields))
	for i, f := range fields {
		members[i] = tl.lower(f.Type)
	}
	st := lltypes.NewStruct(members...)
	tl.anon[key] = st
	return st
}

func (tl *typeLowerer) lowerNominal(t types.Ty) lltypes.Type {
	key := instances.Key(t.DefId(), t.Args())
	if lt, ok := tl.nominal[key]; ok {
		return lt
	}
	inst, ok := tl.insts.Get(t.DefId(), t.Args())
	if !ok {
		panic(fmt.Sprintf("lower: no instance for %s", t))
	}

	switch inst.Kind {
	case instances.KStruct:
		members := make([]lltypes.Type, len(inst.Fields))
		for i, f := range inst.Fields {
			members[i] = tl.lower(f.Type)
		}
		named := tl.registerNamed(symbolName(inst.Name, t.Args())+".struct", lltypes.NewStruct(members...))
		tl.nominal[key] = named
		return named

	case instances.KUnion:
		named := tl.registerNamed(symbolName(inst.Name, t.Args())+".union", tl.buildUnionBody(fieldTypes(inst.Fields)))
		tl.nominal[key] = named
		return named

	case instances.KEnum:
		return tl.lowerEnum(key, inst, t.Args())

	default:
		panic(fmt.Sprintf("lower: %s does not name a lowerable type", t))
	}
}

// buildUnionBody constructs the `{ highest-align member, pad[N] }`
// struct body a union lowers to. An empty member list lowers to the
// empty struct (zero fields).
func (tl *typeLowerer) buildUnionBody(members []types.Ty) *lltypes.StructType {
	if len(members) == 0 {
		return lltypes.NewStruct()
	}
	hi := tl.lay.highestAlignTy(members)
	hiTy := tl.lower(members[hi])
	pad := tl.lay.unionSize(members) - tl.lay.sizeOf(members[hi])
	if pad == 0 {
		return lltypes.NewStruct(hiTy)
	}
	return lltypes.NewStruct(hiTy, lltypes.NewArray(pad, lltypes.I8))
}

// lowerEnum builds the `{ i32 tag, union-of-variant-structs }` layout
// an enum lowers to, recording each struct-variant's own payload
// struct type in tl.variants, indexed by variant index (nil for a unit
// variant). Nothing reads tl.variants: the Match and variant-literal
// lowerers derive the payload type through variantPayloadTy.
func (tl *typeLowerer) lowerEnum(key string, inst *instances.Inst, args []types.Ty) lltypes.Type {
	variantTys := make([]lltypes.Type, len(inst.Variants))
	var payloadTys []types.Ty
	for i, v := range inst.Variants {
		if v.IsUnit() {
			continue
		}
		fieldTy := types.Tuple(v.Fields)
		members := make([]lltypes.Type, len(v.Fields))
		for j, f := range v.Fields {
			members[j] = tl.lower(f.Type)
		}
		variantTys[i] = lltypes.NewStruct(members...)
		payloadTys = append(payloadTys, fieldTy)
	}
	tl.variants[key] = variantTys

	name := symbolName(inst.Name, args) + ".enum"
	if len(payloadTys) == 0 {
		named := tl.registerNamed(name, lltypes.NewStruct(lltypes.I32))
		tl.nominal[key] = named
		return named
	}
	body := tl.buildUnionBody(payloadTys)
	named := tl.registerNamed(name, lltypes.NewStruct(lltypes.I32, body))
	tl.nominal[key] = named
	return named
}

// registerNamed gives st a module-level name and registers it among
// the module's type definitions, so the emitted IR prints readable
// `%Name = type {...}` declarations instead of anonymous literal
// structs at every use site.
func (tl *typeLowerer) registerNamed(name string, st *lltypes.StructType) *lltypes.StructType {
	st.TypeName = name
	tl.m.TypeDefs = append(tl.m.TypeDefs, st)
	return st
}

// symbolName derives a readable, collision-free base name for a
// monomorphized instance: the source name, suffixed by its literal
// type arguments' keys when the definition is generic, so that two
// instantiations of the same generic definition never collide in the
// module's symbol table.
func symbolName(name string, args []types.Ty) string {
	if len(args) == 0 {
		return name
	}
	out := name
	for _, a := range args {
		out += "$" + a.Key()
	}
	return out
}
