// Package dtree plans the lowering of a Match expression: bucketing
// arms by the enum variant they test and flagging whether the arm set
// is exhaustive over the enum's declared variants.
//
// A Match only ever tests one level, the discriminant's tag, so the
// plan is a flat switch of Leaf/Fail nodes rather than a full pattern
// matrix: a marker method distinguishes plan node kinds, and Plan is
// the one builder function that produces a Switch.
package dtree

// Node is the base of a match plan node.
type Node interface {
	isNode()
}

type baseNode struct{}

func (baseNode) isNode() {}

// Leaf is a single matched arm: its original index among the source
// Match's arms, and whether it binds the variant's payload.
type Leaf struct {
	baseNode
	ArmIndex    int
	HasBinding  bool
	BindingName string
}

// Fail marks a variant with no covering arm: a non-exhaustive match.
type Fail struct{ baseNode }

// Switch is the root of a plan: one case per variant index present in
// the enum, each either a Leaf or (if no arm covers it) a Fail.
type Switch struct {
	baseNode
	Cases      []Node // indexed by variant index, 1:1 with the enum's Variants
	Exhaustive bool
}

// Plan builds a match plan from an ordered list of variant names (the
// enum's declaration order) and the arms actually written in source
// order. The first arm naming a given variant wins, mirroring ordinary
// first-match pattern semantics; later duplicate arms are simply
// unreachable (the checker may choose to warn, the lowerer never sees
// them).
func Plan(variantNames []string, arms []Arm) *Switch {
	cases := make([]Node, len(variantNames))
	exhaustive := true
	for i, vname := range variantNames {
		found := false
		for armIdx, arm := range arms {
			if arm.Variant == vname {
				cases[i] = &Leaf{ArmIndex: armIdx, HasBinding: arm.Binding != "", BindingName: arm.Binding}
				found = true
				break
			}
		}
		if !found {
			cases[i] = &Fail{}
			exhaustive = false
		}
	}
	return &Switch{Cases: cases, Exhaustive: exhaustive}
}

// Arm is the minimal shape dtree needs from a source Match arm: which
// variant it tests and the binding name, if any.
type Arm struct {
	Variant string
	Binding string
}
