package sg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is the minimal Node for exercising dispatch without pulling in
// pkg/sgnodes.
type fakeNode struct {
	BaseNode
	typeId TypeId
	idx    ActionMethodIndex
}

func (n *fakeNode) TypeId() TypeId                     { return n.typeId }
func (n *fakeNode) ActionMethodIndex() ActionMethodIndex { return n.idx }

func TestActionMethodListUnregisteredFallsBackToNullAction(t *testing.T) {
	nodes := NewNodeRegistry()
	group, idx, err := nodes.RegisterNodeClass(BadType, "Group")
	require.NoError(t, err)

	methods := NewActionMethodList(nodes, nil)
	methods.SetUp()

	fn := methods.Dispatch(idx)
	require.NotNil(t, fn)
	fn(nil, &fakeNode{typeId: group, idx: idx}) // must not panic
}

func TestActionMethodListDirectRegistrationWins(t *testing.T) {
	nodes := NewNodeRegistry()
	group, groupIdx, _ := nodes.RegisterNodeClass(BadType, "Group")

	methods := NewActionMethodList(nodes, nil)
	var seen TypeId
	methods.AddMethod(group, func(a *Action, n Node) { seen = n.TypeId() })
	methods.SetUp()

	methods.Dispatch(groupIdx)(nil, &fakeNode{typeId: group, idx: groupIdx})
	assert.Equal(t, group, seen)
}

func TestActionMethodListInheritsFromNodeAncestor(t *testing.T) {
	nodes := NewNodeRegistry()
	base, _, _ := nodes.RegisterNodeClass(BadType, "Base")
	derived, derivedIdx, _ := nodes.RegisterNodeClass(base, "Derived")

	methods := NewActionMethodList(nodes, nil)
	var calledWith TypeId
	methods.AddMethod(base, func(a *Action, n Node) { calledWith = n.TypeId() })
	methods.SetUp()

	methods.Dispatch(derivedIdx)(nil, &fakeNode{typeId: derived, idx: derivedIdx})
	assert.Equal(t, derived, calledWith)
}

func TestActionMethodListDirectNodeRegistrationBeatsAncestorMethod(t *testing.T) {
	nodes := NewNodeRegistry()
	base, _, _ := nodes.RegisterNodeClass(BadType, "Base")
	derived, derivedIdx, _ := nodes.RegisterNodeClass(base, "Derived")

	methods := NewActionMethodList(nodes, nil)
	methods.AddMethod(base, func(a *Action, n Node) {})
	var usedDerived bool
	methods.AddMethod(derived, func(a *Action, n Node) { usedDerived = true })
	methods.SetUp()

	methods.Dispatch(derivedIdx)(nil, &fakeNode{typeId: derived, idx: derivedIdx})
	assert.True(t, usedDerived)
}

func TestActionMethodListClosestActionAncestorWinsOverFartherDirectRegistration(t *testing.T) {
	nodes := NewNodeRegistry()
	leaf, leafIdx, _ := nodes.RegisterNodeClass(BadType, "Leaf")

	grandparent := NewActionMethodList(nodes, nil)
	grandparent.AddMethod(leaf, func(a *Action, n Node) {})

	parent := NewActionMethodList(nodes, grandparent)
	var usedParent bool
	parent.AddMethod(leaf, func(a *Action, n Node) { usedParent = true })

	child := NewActionMethodList(nodes, parent)
	child.SetUp()

	child.Dispatch(leafIdx)(nil, &fakeNode{typeId: leaf, idx: leafIdx})
	assert.True(t, usedParent)
}

func TestActionMethodListRebuildsOnNewNodeClass(t *testing.T) {
	nodes := NewNodeRegistry()
	methods := NewActionMethodList(nodes, nil)
	methods.SetUp()

	_, idx, _ := nodes.RegisterNodeClass(BadType, "Late")
	methods.SetUp()

	assert.NotNil(t, methods.Dispatch(idx))
}

func TestActionMethodListOutOfRangeIndexFallsBackToNullAction(t *testing.T) {
	nodes := NewNodeRegistry()
	methods := NewActionMethodList(nodes, nil)
	methods.SetUp()
	fn := methods.Dispatch(ActionMethodIndex(999))
	require.NotNil(t, fn)
	fn(nil, nil) // must not panic
}
