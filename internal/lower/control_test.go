package lower

import (
	"strings"
	"testing"

	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/typedast"
	"github.com/emberlang/emberc/internal/types"
)

// Short-circuit boolean evaluation: LAnd must branch through a mid
// block rather than materializing and ANDing two booleans, so the
// right operand is reachable only from the left operand's true edge.
func TestLowerShortCircuitAndBranchesThroughMidBlock(t *testing.T) {
	insts := instances.NewTable()
	f, _ := insts.Shell(1, nil, instances.KFunc, "f")
	f.Ty = types.Func(nil, false, types.Bool())
	f.HasBody = true
	f.Body = typedast.NewLAnd(typedast.NewBoolLit(false), typedast.NewBoolLit(true))

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()

	for _, want := range []string{"sc.true", "sc.false", "sc.done"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected a %q block, got:\n%s", want, out)
		}
	}
	// One conditional branch for the left operand, one for the right
	// (in its own mid block), never a single branch on a materialized
	// `and i1` of both sides.
	if got := strings.Count(out, "br i1"); got != 2 {
		t.Errorf("expected 2 conditional branches (left, then right in the mid block), got %d:\n%s", got, out)
	}
	if strings.Contains(out, "and i1") {
		t.Errorf("LAnd must short-circuit, not materialize both operands and AND them:\n%s", out)
	}
}

// An If whose then-arm terminates via Return never reaches if.end, so
// the merging phi must take its only incoming from the else arm.
func TestLowerIfPhiOnlyFromReachingArms(t *testing.T) {
	insts := instances.NewTable()
	f, _ := insts.Shell(1, nil, instances.KFunc, "f")
	f.Ty = types.Func(nil, false, types.Int32())
	f.HasBody = true
	f.Body = typedast.NewIf(types.Int32(),
		typedast.NewBoolLit(true),
		typedast.NewReturn(typedast.NewIntLit(types.Int32(), 1)),
		typedast.NewIntLit(types.Int32(), 2),
	)

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()

	for _, want := range []string{"if.then", "if.else", "if.end"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected an %q block, got:\n%s", want, out)
		}
	}
	phiLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "= phi") {
			phiLine = line
		}
	}
	if phiLine == "" {
		t.Fatalf("expected an if.end phi, got:\n%s", out)
	}
	if strings.Contains(phiLine, "if.then") {
		t.Errorf("the then-arm returns and never reaches if.end, so the phi must not list it as an incoming: %s", phiLine)
	}
	if !strings.Contains(phiLine, "if.else") {
		t.Errorf("expected the phi's sole incoming to be if.else: %s", phiLine)
	}
}

func TestLowerIfPhiMergesBothReachingArms(t *testing.T) {
	insts := instances.NewTable()
	f, _ := insts.Shell(1, nil, instances.KFunc, "f")
	f.Ty = types.Func(nil, false, types.Int32())
	f.HasBody = true
	f.Body = typedast.NewIf(types.Int32(),
		typedast.NewBoolLit(true),
		typedast.NewIntLit(types.Int32(), 1),
		typedast.NewIntLit(types.Int32(), 2),
	)

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	if !strings.Contains(out, "phi i32") {
		t.Errorf("expected both arms to merge through an i32 phi in if.end, got:\n%s", out)
	}
}

// enum E { A, B(Int32) }; match e { A => 0, B(n) => n } lowers to a
// switch on the i32 tag plus a GEP-derived binding for B's payload.
func TestLowerMatchEnumBindsPayloadAndMergesArms(t *testing.T) {
	insts := instances.NewTable()

	e, _ := insts.Shell(1, nil, instances.KEnum, "E")
	e.HasVariants = true
	e.Variants = []instances.Variant{
		{Name: "A"},
		{Name: "B", Fields: []types.Field{{Name: "0", Type: types.Int32()}}},
	}
	eTy := types.EnumRef("E", 1, nil)

	f, _ := insts.Shell(2, nil, instances.KFunc, "f")
	f.Ty = types.Func([]types.Field{{Name: "e", Type: eTy}}, false, types.Int32())
	f.Params = f.Ty.Params()
	f.Locals = []types.Field{{Name: "n", Type: types.Int32()}}
	f.HasBody = true
	f.Body = typedast.NewMatch(types.Int32(),
		typedast.NewLoad(typedast.NewParamRef(eTy, false, 0)),
		[]typedast.MatchArm{
			{VariantIndex: 0, Body: typedast.NewIntLit(types.Int32(), 0)},
			{VariantIndex: 1, HasBinding: true, BindingIndex: 0,
				Body: typedast.NewLoad(typedast.NewBindingRef(types.Int32(), false, 0))},
		},
	)

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()

	if !strings.Contains(out, "switch i32") {
		t.Errorf("expected a switch on the i32 tag, got:\n%s", out)
	}
	if !strings.Contains(out, "match.arm0") || !strings.Contains(out, "match.arm1") {
		t.Errorf("expected one block per variant arm, got:\n%s", out)
	}
	if !strings.Contains(out, "match.end") {
		t.Errorf("expected a match.end merge block, got:\n%s", out)
	}
	if !strings.Contains(out, "phi i32") {
		t.Errorf("expected the two arm results to merge through an i32 phi, got:\n%s", out)
	}
}

// A While loop is always Unit-typed and targets test/end on
// Continue/Break; this exercises lowerWhile's block wiring without a
// value-carrying Break.
func TestLowerWhileWiresTestBodyEndBlocks(t *testing.T) {
	insts := instances.NewTable()
	f, _ := insts.Shell(1, nil, instances.KFunc, "f")
	f.Ty = types.Func(nil, false, types.Tuple(nil))
	f.HasBody = true
	f.Body = typedast.NewWhile(typedast.NewBoolLit(false), typedast.NewBreak(nil))

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	for _, want := range []string{"while.test", "while.body", "while.end"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected a %q block, got:\n%s", want, out)
		}
	}
}

// A Loop's value-carrying Break delivers its result through a
// dedicated slot rather than a direct phi, since break sites share no
// single predecessor.
func TestLowerLoopBreakDeliversResultThroughSlot(t *testing.T) {
	insts := instances.NewTable()
	f, _ := insts.Shell(1, nil, instances.KFunc, "f")
	f.Ty = types.Func(nil, false, types.Int32())
	f.HasBody = true
	f.Body = typedast.NewLoop(types.Int32(), typedast.NewBreak(typedast.NewIntLit(types.Int32(), 7)))

	m, err := Lower(insts)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := m.String()
	for _, want := range []string{"loop.body", "loop.end"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected a %q block, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "alloca i32") {
		t.Errorf("expected an i32 result slot alloca for the value-carrying break, got:\n%s", out)
	}
}
