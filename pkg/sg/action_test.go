package sg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGroup/testLeaf are a minimal node set for exercising Action against
// scenarios S1-S6 without depending on pkg/sgnodes.
type testGroup struct {
	BaseNode
	typeId   TypeId
	idx      ActionMethodIndex
	name     string
	children []Node
}

func (g *testGroup) TypeId() TypeId                     { return g.typeId }
func (g *testGroup) ActionMethodIndex() ActionMethodIndex { return g.idx }

type testLeaf struct {
	BaseNode
	typeId TypeId
	idx    ActionMethodIndex
	name   string
}

func (l *testLeaf) TypeId() TypeId                     { return l.typeId }
func (l *testLeaf) ActionMethodIndex() ActionMethodIndex { return l.idx }

type visitLog struct {
	entries []string
}

func (v *visitLog) record(name string, code PathCode) {
	v.entries = append(v.entries, name+":"+code.String())
}

type testKernel struct {
	nodes     *NodeRegistry
	groupType TypeId
	groupIdx  ActionMethodIndex
	leafType  TypeId
	leafIdx   ActionMethodIndex
	class     *ActionClassInfo
	log       *visitLog
}

func newTestKernel(t *testing.T) *testKernel {
	nodes := NewNodeRegistry()
	groupType, groupIdx, err := nodes.RegisterNodeClass(BadType, "Group")
	require.NoError(t, err)
	leafType, leafIdx, err := nodes.RegisterNodeClass(BadType, "Leaf")
	require.NoError(t, err)

	actions := NewActionRegistry()
	class, err := actions.RegisterActionClass(BadType, "Test", nodes)
	require.NoError(t, err)

	log := &visitLog{}

	class.Methods.AddMethod(groupType, func(a *Action, n Node) {
		g := n.(*testGroup)
		code, indices := a.GetPathCode()
		log.record(g.name, code)
		switch code {
		case OffPath:
			return
		case InPath:
			for _, idx := range indices {
				if idx < 0 || idx >= len(g.children) {
					continue
				}
				if a.HasTerminated() {
					return
				}
				c := g.children[idx]
				a.PushCurPath(idx, c)
				a.Traverse(c)
				a.PopCurPath()
			}
		default:
			for i, c := range g.children {
				if a.HasTerminated() {
					return
				}
				a.PushCurPath(i, c)
				a.Traverse(c)
				a.PopCurPath()
			}
		}
	})

	class.Methods.AddMethod(leafType, func(a *Action, n Node) {
		l := n.(*testLeaf)
		code, _ := a.GetPathCode()
		log.record(l.name, code)
	})

	return &testKernel{
		nodes: nodes, groupType: groupType, groupIdx: groupIdx,
		leafType: leafType, leafIdx: leafIdx, class: class, log: log,
	}
}

func (k *testKernel) newGroup(name string) *testGroup {
	g := &testGroup{typeId: k.groupType, idx: k.groupIdx, name: name}
	g.Ref()
	return g
}

func (k *testKernel) newLeaf(name string) *testLeaf {
	l := &testLeaf{typeId: k.leafType, idx: k.leafIdx, name: name}
	l.Ref()
	return l
}

// buildS1Graph builds G0 -> [A, B, C], A -> [A0, A1].
func buildS1Graph(k *testKernel) (g0, a, b, c, a0, a1 Node) {
	g0n := k.newGroup("G0")
	an := k.newGroup("A")
	bn := k.newLeaf("B")
	cn := k.newLeaf("C")
	a0n := k.newLeaf("A0")
	a1n := k.newLeaf("A1")

	an.children = []Node{a0n, a1n}
	g0n.children = []Node{an, bn, cn}

	return g0n, an, bn, cn, a0n, a1n
}

func visited(entries []string, name string) bool {
	for _, e := range entries {
		if len(e) >= len(name) && e[:len(name)] == name && (len(e) == len(name) || e[len(name)] == ':') {
			return true
		}
	}
	return false
}

// TestS1SinglePathDescent: S1.
func TestS1SinglePathDescent(t *testing.T) {
	k := newTestKernel(t)
	g0, a, _, _, _, a1 := buildS1Graph(k)

	target := NewPath(g0)
	target.Append(a, 0)
	target.Append(a1, 1)

	action := NewAction(k.class, k.nodes)
	action.ApplyToPath(target)

	assert.Equal(t, []string{"G0:InPath", "A:InPath", "A1:BelowPath"}, k.log.entries)
	assert.False(t, visited(k.log.entries, "B"))
	assert.False(t, visited(k.log.entries, "C"))
	assert.False(t, visited(k.log.entries, "A0"))
}

// TestS3PathlistTwoPaths: S3.
func TestS3PathlistTwoPaths(t *testing.T) {
	k := newTestKernel(t)
	g0, a, b, _, _, a1 := buildS1Graph(k)

	p1 := NewPath(g0)
	p1.Append(a, 0)
	p1.Append(a1, 1)

	p2 := NewPath(g0)
	p2.Append(b, 1)

	list := NewPathList(p1, p2)

	action := NewAction(k.class, k.nodes)
	action.ApplyToPathList(list, true)

	assert.Equal(t, []string{"G0:InPath", "A:InPath", "A1:BelowPath", "B:BelowPath"}, k.log.entries)
	assert.False(t, visited(k.log.entries, "A0"))
	assert.False(t, visited(k.log.entries, "C"))
}

// TestS4PathlistDenormalized: S4 - after sort+uniquify,
// {G0->A->A1, G0->A, G0->A->A1} collapses to {G0->A}; BELOW_PATH from
// the prefix dominates, so the visible trace matches S1 restricted to
// everything below A.
func TestS4PathlistDenormalized(t *testing.T) {
	k := newTestKernel(t)
	g0, a, _, _, a0, a1 := buildS1Graph(k)

	long1 := NewPath(g0)
	long1.Append(a, 0)
	long1.Append(a1, 1)

	short := NewPath(g0)
	short.Append(a, 0)

	long2 := long1.Copy()

	list := NewPathList(long1, short, long2)

	action := NewAction(k.class, k.nodes)
	action.ApplyToPathList(list, false)

	assert.Equal(t, []string{"G0:InPath", "A:BelowPath", "A0:BelowPath", "A1:BelowPath"}, k.log.entries)
}

// TestS6Termination: S6 - setting terminated during the A1
// visit (inside the S3 pathlist scenario) must stop traversal before B.
func TestS6Termination(t *testing.T) {
	k := newTestKernel(t)
	g0, a, b, _, _, a1 := buildS1Graph(k)

	p1 := NewPath(g0)
	p1.Append(a, 0)
	p1.Append(a1, 1)
	p2 := NewPath(g0)
	p2.Append(b, 1)
	list := NewPathList(p1, p2)

	action := NewAction(k.class, k.nodes)

	k.class.Methods.AddMethod(k.leafType, func(act *Action, n Node) {
		l := n.(*testLeaf)
		code, _ := act.GetPathCode()
		k.log.record(l.name, code)
		if l.name == "A1" {
			act.SetTerminated(true)
		}
	})

	action.ApplyToPathList(list, true)

	assert.True(t, action.HasTerminated(), "S6: hasTerminated() is true after apply returns")
	assert.False(t, visited(k.log.entries, "B"))
}

func TestApplyToNodeNoPathThroughout(t *testing.T) {
	k := newTestKernel(t)
	g0, _, _, _, _, _ := buildS1Graph(k)

	action := NewAction(k.class, k.nodes)
	action.ApplyToNode(g0)

	for _, e := range k.log.entries {
		assert.Contains(t, e, ":NoPath")
	}
}

func TestApplyToNilNodeIsNoop(t *testing.T) {
	k := newTestKernel(t)
	action := NewAction(k.class, k.nodes)
	action.ApplyToNode(nil)
	assert.Empty(t, k.log.entries)
}

// TestReentrantApplyRestoresOuterPath exercises S5: a nested apply from
// inside a node method must not corrupt the outer apply's current path.
func TestReentrantApplyRestoresOuterPath(t *testing.T) {
	k := newTestKernel(t)
	g0, a, _, _, _, _ := buildS1Graph(k)
	other := k.newLeaf("Other")

	var outerPathAtA, outerPathAfterInner []int

	k.class.Methods.AddMethod(k.groupType, func(act *Action, n Node) {
		g := n.(*testGroup)
		if g.name == "A" {
			outerPathAtA = append([]int(nil), snapshotIndices(act.GetCurPath())...)

			// Reentrant apply on the SAME Action instance S5.
			act.ApplyToNode(other)

			outerPathAfterInner = append([]int(nil), snapshotIndices(act.GetCurPath())...)
			return
		}
		for i, c := range g.children {
			act.PushCurPath(i, c)
			act.Traverse(c)
			act.PopCurPath()
		}
	})

	action := NewAction(k.class, k.nodes)
	action.ApplyToNode(g0)

	assert.Equal(t, outerPathAtA, outerPathAfterInner)
}

func snapshotIndices(p *TempPath) []int {
	out := make([]int, p.Length())
	for i := 1; i <= p.Length(); i++ {
		out[i-1] = p.GetIndex(i)
	}
	return out
}

func TestActionRefCountPinning(t *testing.T) {
	k := newTestKernel(t)
	g0, _, _, _, _, _ := buildS1Graph(k)
	before := g0.(*testGroup).RefCount()

	action := NewAction(k.class, k.nodes)
	action.ApplyToNode(g0)

	assert.Equal(t, before, g0.(*testGroup).RefCount())
}
