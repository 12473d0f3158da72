// Package sgactions provides two small demo actions - DumpAction and
// SearchAction - standing in for the write/search actions a real
// scene-graph consumer would register. They exist so the kernel is
// exercised end-to-end by real use rather than kernel-testing-itself-with-
// mocks.
package sgactions

import (
	"github.com/wayneeseguin/sgcore/pkg/sg"
	"github.com/wayneeseguin/sgcore/pkg/sgnodes"
)

// traversalClass is the single action class both DumpAction and
// SearchAction bind to. They don't need independently customized dispatch
// (neither overrides the other's node methods), so one shared class keeps
// the dispatch table - and its SetUp() rebuild cost - shared too.
var traversalClass *sg.ActionClassInfo

func init() {
	var err error
	traversalClass, err = sg.DefaultActionRegistry.RegisterActionClass(sg.BadType, "Traversal", sg.DefaultNodeRegistry)
	if err != nil {
		panic(err)
	}
	traversalClass.Methods.AddMethod(sgnodes.GroupType, groupMethod)
	traversalClass.Methods.AddMethod(sgnodes.TransformType, transformMethod)
	traversalClass.Methods.AddMethod(sgnodes.LeafType, leafMethod)
	traversalClass.Enabled.Enable(sgnodes.ScaleType, sgnodes.ScaleIndex)
}

// recordVisit dispatches visit bookkeeping to whichever concrete action
// is driving this Action, recovered from Action.UserData.
func recordVisit(action *sg.Action, node sg.Node, name string) {
	code, _ := action.GetPathCode()
	switch a := action.UserData.(type) {
	case *DumpAction:
		a.record(name, code)
	case *SearchAction:
		a.visit(action, node)
	}
}

// groupMethod traverses a Group's children, using GetPathCode's index
// hint to visit only the on-path children when the incoming code is
// InPath, all children when BelowPath/NoPath, and none when OffPath -
// group-like nodes must skip children whose traversal would have no
// effect.
func groupMethod(action *sg.Action, node sg.Node) {
	g := node.(*sgnodes.Group)
	recordVisit(action, node, g.Name)

	code, indices := action.GetPathCode()
	switch code {
	case sg.OffPath:
		return

	case sg.InPath:
		for _, idx := range indices {
			if idx < 0 || idx >= len(g.Children) {
				continue
			}
			if action.HasTerminated() {
				return
			}
			child := g.Children[idx]
			action.PushCurPath(idx, child)
			action.Traverse(child)
			action.PopCurPath()
		}

	default: // NoPath, BelowPath
		for i, child := range g.Children {
			if action.HasTerminated() {
				return
			}
			action.PushCurPath(i, child)
			action.Traverse(child)
			action.PopCurPath()
		}
	}
}

// transformMethod scopes a fresh state scope around its child, folding
// its own Scale into the writable ScaleElement before descending and
// restoring the prior scale on return (state.Push/Pop).
func transformMethod(action *sg.Action, node sg.Node) {
	t := node.(*sgnodes.Transform)
	recordVisit(action, node, t.Name)

	state := action.GetState()
	state.Push()
	defer state.Pop()

	elem := state.GetWritable(sgnodes.ScaleIndex).(*sgnodes.ScaleElement)
	elem.Multiply(t.Scale)

	if t.Child == nil || action.HasTerminated() {
		return
	}
	if code, _ := action.GetPathCode(); code == sg.OffPath {
		return
	}

	action.PushCurPath(0, t.Child)
	action.Traverse(t.Child)
	action.PopCurPath()
}

// leafMethod is the terminal node method: Leaf has no children, so it
// only records the visit.
func leafMethod(action *sg.Action, node sg.Node) {
	l := node.(*sgnodes.Leaf)
	recordVisit(action, node, l.Name)
}
