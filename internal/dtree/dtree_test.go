package dtree

import "testing"

func TestPlanExhaustiveCoversAllVariants(t *testing.T) {
	variants := []string{"A", "B"}
	arms := []Arm{{Variant: "A"}, {Variant: "B", Binding: "n"}}

	sw := Plan(variants, arms)
	if !sw.Exhaustive {
		t.Fatal("expected exhaustive plan")
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}

	leafA, ok := sw.Cases[0].(*Leaf)
	if !ok {
		t.Fatalf("expected case 0 to be a Leaf, got %T", sw.Cases[0])
	}
	if leafA.ArmIndex != 0 || leafA.HasBinding {
		t.Errorf("unexpected leaf for A: %+v", leafA)
	}

	leafB, ok := sw.Cases[1].(*Leaf)
	if !ok {
		t.Fatalf("expected case 1 to be a Leaf, got %T", sw.Cases[1])
	}
	if leafB.ArmIndex != 1 || !leafB.HasBinding || leafB.BindingName != "n" {
		t.Errorf("unexpected leaf for B: %+v", leafB)
	}
}

func TestPlanNonExhaustiveProducesFail(t *testing.T) {
	variants := []string{"A", "B", "C"}
	arms := []Arm{{Variant: "A"}}

	sw := Plan(variants, arms)
	if sw.Exhaustive {
		t.Fatal("expected non-exhaustive plan")
	}
	if _, ok := sw.Cases[1].(*Fail); !ok {
		t.Errorf("expected case 1 (B) to be Fail, got %T", sw.Cases[1])
	}
	if _, ok := sw.Cases[2].(*Fail); !ok {
		t.Errorf("expected case 2 (C) to be Fail, got %T", sw.Cases[2])
	}
}

func TestPlanFirstMatchingArmWins(t *testing.T) {
	variants := []string{"A"}
	arms := []Arm{{Variant: "A", Binding: "first"}, {Variant: "A", Binding: "second"}}

	sw := Plan(variants, arms)
	leaf, ok := sw.Cases[0].(*Leaf)
	if !ok {
		t.Fatalf("expected Leaf, got %T", sw.Cases[0])
	}
	if leaf.ArmIndex != 0 || leaf.BindingName != "first" {
		t.Errorf("expected first arm to win, got %+v", leaf)
	}
}

func TestPlanEmptyVariantsProducesEmptySwitch(t *testing.T) {
	sw := Plan(nil, nil)
	if !sw.Exhaustive {
		t.Fatal("expected vacuously exhaustive plan over zero variants")
	}
	if len(sw.Cases) != 0 {
		t.Fatalf("expected no cases, got %d", len(sw.Cases))
	}
}
