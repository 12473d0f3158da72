package sg

// AppliedCode tags which of (node, path, pathlist) an Action is currently
// applied to - a tagged variant standing in for a C union.
type AppliedCode int

const (
	AppliedToNothing AppliedCode = iota
	AppliedToNode
	AppliedToPath
	AppliedToPathList
)

type appliedData struct {
	code             AppliedCode
	node             Node
	path             *Path
	pathList         *PathList
	originalPathList *PathList
}

// WarnUnknownNodeType controls whether dispatching to a node whose
// ActionMethodIndex falls outside the registered range emits a
// TraversalWarning before falling back to nullAction. Wired to
// internal/config's Kernel.WarnOnUnknownNodeType.
var WarnUnknownNodeType = true

// Action is the traversal kernel's heart: the apply entry points, the
// path-code state machine, and the push/pop primitives group-like nodes
// use to descend into children. Its apply-lifecycle (save/restore fields
// around a traversal, with a cursor tracking position) generalizes
// cleanly to a node-type-dispatch traversal.
//
// An Action is not safe for concurrent use; different
// threads may drive different Action instances over disjoint subgraphs,
// but a single Action is single-threaded during apply.
type Action struct {
	Class *ActionClassInfo
	Nodes *NodeRegistry

	// BeginTraversal/EndTraversal are the capability-set hooks // substitutes for action subclassing; the default BeginTraversal just
	// calls Traverse(head) and EndTraversal is a no-op. Assign your own to
	// perform one-time setup/teardown around a traversal - these are NOT
	// invoked by SwitchToPathTraversal/SwitchToNodeTraversal reentry.
	BeginTraversal func(a *Action, head Node)
	EndTraversal   func(a *Action, head Node)

	state *State

	// UserData is unused by the kernel itself; it is the hook a concrete
	// action (DumpAction, SearchAction, ...) uses to reach its own
	// instance state from inside a package-level ActionMethod closure,
	// since Go closures registered on a shared ActionMethodList have no
	// other way to recover which wrapping instance dispatched them.
	UserData interface{}

	applied         appliedData
	currentPath     *TempPath
	currentPathCode PathCode
	pathCodeStack   []PathCode
	terminated      bool
}

// NewAction creates an action bound to class (its dispatch table and
// enabled-elements list) and nodes (the node-class registry it dispatches
// against).
func NewAction(class *ActionClassInfo, nodes *NodeRegistry) *Action {
	return &Action{
		Class:          class,
		Nodes:          nodes,
		BeginTraversal: func(a *Action, head Node) { a.Traverse(head) },
		EndTraversal:   func(a *Action, head Node) {},
	}
}

// EnableElement registers typeId/idx as required by this action's class
// (and therefore every descendant action class).
func (a *Action) EnableElement(typeId TypeId, idx StackIndex) {
	a.Class.Enabled.Enable(typeId, idx)
}

// GetState returns the action's traversal state, lazily creating one
// scoped to the action class's effective enabled-elements set if none
// exists yet.
func (a *Action) GetState() *State {
	if a.state == nil {
		a.state = NewState(DefaultElementRegistry, a.Class.Enabled)
	}
	return a.state
}

// InvalidateState discards the current state; the next GetState call
// creates a fresh one. The state created by GetState is kept on the Action
// and reused by every later apply() on it until InvalidateState is called -
// this is how a caller who reused an Action opts into a clean state for
// the next apply.
func (a *Action) InvalidateState() {
	a.state = nil
}

// HasTerminated reports whether SetTerminated(true) has been called since
// the most recent apply.
func (a *Action) HasTerminated() bool { return a.terminated }

// SetTerminated requests cooperative early termination. The kernel does
// not itself abort traversal; it is the obligation of group-node loops
// and pathlist multi-head traversal to poll HasTerminated.
func (a *Action) SetTerminated(terminated bool) { a.terminated = terminated }

// GetCurPath returns the action's current live path.
func (a *Action) GetCurPath() *TempPath { return a.currentPath }

// GetCurPathTail returns the node at the current traversal position.
func (a *Action) GetCurPathTail() Node {
	if a.currentPath == nil {
		return nil
	}
	return a.currentPath.Tail()
}

// GetWhatAppliedTo returns which of (node, path, pathlist) this action is
// currently applied to.
func (a *Action) GetWhatAppliedTo() AppliedCode { return a.applied.code }

// GetNodeAppliedTo returns the node apply() was called with, if
// GetWhatAppliedTo() == AppliedToNode.
func (a *Action) GetNodeAppliedTo() Node { return a.applied.node }

// GetPathAppliedTo returns the path apply() was called with, if
// GetWhatAppliedTo() == AppliedToPath.
func (a *Action) GetPathAppliedTo() *Path { return a.applied.path }

// GetPathListAppliedTo returns the (possibly normalized) pathlist group
// currently being traversed, if GetWhatAppliedTo() == AppliedToPathList.
func (a *Action) GetPathListAppliedTo() *PathList { return a.applied.pathList }

// GetOriginalPathListAppliedTo returns the pathlist exactly as passed to
// ApplyToPathList, before any sort/uniquify normalization.
func (a *Action) GetOriginalPathListAppliedTo() *PathList { return a.applied.originalPathList }

// saveRestore performs steps 1-3 and 8: save the applied
// fields, set up the dispatch table, clear terminated, run body, then
// restore the saved fields unconditionally (even on panic from user code),
// so reentry invariants hold .
func (a *Action) saveRestore(body func()) {
	savedApplied := a.applied
	savedPathCode := a.currentPathCode
	savedCurrentPath := a.currentPath

	a.Class.Methods.SetUp()
	a.terminated = false

	defer func() {
		a.applied = savedApplied
		a.currentPathCode = savedPathCode
		a.currentPath = savedCurrentPath
	}()

	body()
}

func warnIfUnreferenced(node Node) {
	if node.RefCount() == 0 {
		NewTraversalWarning("applying action to a node with zero references").Warn()
	}
}

// ApplyToNode applies the action to a single node .
// Applying to nil is a no-op.
func (a *Action) ApplyToNode(node Node) {
	if node == nil {
		return
	}
	warnIfUnreferenced(node)

	a.saveRestore(func() {
		node.Ref()
		defer node.Unref()

		a.GetState()
		a.applied = appliedData{code: AppliedToNode, node: node}
		a.currentPath = NewTempPath(node)
		a.currentPathCode = NoPath

		a.BeginTraversal(node)
		a.EndTraversal(node)
	})
}

// ApplyToPath applies the action along a single path .
// Applying to an empty path (nil head) is a no-op.
func (a *Action) ApplyToPath(path *Path) {
	head := path.Head()
	if head == nil {
		return
	}
	warnIfUnreferenced(head)

	a.saveRestore(func() {
		head.Ref()
		defer head.Unref()

		a.GetState()
		a.applied = appliedData{code: AppliedToPath, path: path}
		a.currentPath = NewTempPath(head)
		if path.Length() > 0 {
			a.currentPathCode = InPath
		} else {
			a.currentPathCode = BelowPath
		}

		a.BeginTraversal(head)
		a.EndTraversal(head)
	})
}

// ApplyToPathList applies the action to a pathlist. If obeysRules is false,
// the list is cloned, sorted, and uniquified before use. Paths are grouped
// by head and traversed one group
// at a time in sorted head order, stopping at the next group boundary once
// HasTerminated() becomes true.
func (a *Action) ApplyToPathList(list *PathList, obeysRules bool) {
	if list == nil || list.Len() == 0 {
		return
	}

	original := list
	normalized := list
	if !obeysRules {
		normalized = list.Copy()
		normalized.Sort()
		normalized.Uniquify()
	}

	a.saveRestore(func() {
		a.GetState()

		for _, group := range normalized.GroupsByHead() {
			if a.terminated {
				break
			}

			head := group.At(0).Head()
			if head == nil {
				continue
			}
			warnIfUnreferenced(head)

			head.Ref()
			a.applied = appliedData{code: AppliedToPathList, pathList: group, originalPathList: original}
			a.currentPath = NewTempPath(head)
			if group.At(0).Length() > 0 {
				a.currentPathCode = InPath
			} else {
				a.currentPathCode = BelowPath
			}

			a.BeginTraversal(head)
			a.EndTraversal(head)

			head.Unref()
		}
	})
}

// Traverse dispatches to the resolved method for node's ActionMethodIndex.
// Unknown node types (index outside the currently registered range) fall
// back to nullAction, optionally after emitting a TraversalWarning.
func (a *Action) Traverse(node Node) {
	if node == nil {
		return
	}

	idx := node.ActionMethodIndex()
	if WarnUnknownNodeType && (int(idx) < 0 || int(idx) >= a.Nodes.Count()) {
		NewTraversalWarning("traverse: unknown node type (action-method index %d)", idx).Warn()
	}

	a.Class.Methods.Dispatch(idx)(a, node)
}

// nextPathCode computes the path-code transition for descending into the
// child just appended to a.currentPath.
func (a *Action) nextPathCode() PathCode {
	switch a.currentPathCode {
	case NoPath, BelowPath, OffPath:
		return a.currentPathCode
	case InPath:
		curlen := a.currentPath.Length()
		switch a.applied.code {
		case AppliedToPath:
			target := a.applied.path
			if a.currentPath.GetIndex(curlen) != target.GetIndex(curlen) {
				return OffPath
			}
			if curlen == target.Length() {
				return BelowPath
			}
			return InPath

		case AppliedToPathList:
			list := a.applied.pathList
			cur := &a.currentPath.Path
			matched := false
			below := false
			for i := 0; i < list.Len(); i++ {
				p := list.At(i)
				if !p.ContainsPath(cur) {
					continue
				}
				matched = true
				if p.Length() == curlen {
					below = true
				}
			}
			if !matched {
				return OffPath
			}
			if below {
				return BelowPath
			}
			return InPath

		default:
			return InPath
		}
	default:
		return a.currentPathCode
	}
}

// PushCurPath descends the current path into child at index, updating the
// path code per the path-code state machine. Must be paired with
// PopCurPath.
func (a *Action) PushCurPath(index int, child Node) {
	a.pathCodeStack = append(a.pathCodeStack, a.currentPathCode)
	a.currentPath.Append(child, index)
	a.currentPathCode = a.nextPathCode()
}

// PushCurPathUnconditional pushes a null child: for nodes that know the
// path code cannot change across any of their children (e.g. traversing a
// shared subtree uniformly). It saves the code for PopCurPath and appends a
// placeholder step (nil node, index -1) to currentPath without recomputing
// the code; PopPushCurPath replaces that placeholder with a real child.
func (a *Action) PushCurPathUnconditional() {
	a.pathCodeStack = append(a.pathCodeStack, a.currentPathCode)
	a.currentPath.Append(nil, -1)
}

// PopCurPath restores the path code recorded before the matching push and
// pops the current path's tail (the child step, or the placeholder step
// PushCurPathUnconditional appended).
func (a *Action) PopCurPath() {
	if len(a.pathCodeStack) == 0 {
		return
	}
	prev := a.pathCodeStack[len(a.pathCodeStack)-1]
	a.pathCodeStack = a.pathCodeStack[:len(a.pathCodeStack)-1]
	if a.currentPath.Length() > 0 {
		a.currentPath.Pop()
	}
	a.currentPathCode = prev
}

// PopPushCurPath transitions between siblings without altering the
// path-code stack depth: it undoes the previous child's push and performs
// a fresh push for the new sibling.
func (a *Action) PopPushCurPath(index int, child Node) {
	if len(a.pathCodeStack) == 0 {
		return
	}
	prevCode := a.pathCodeStack[len(a.pathCodeStack)-1]
	if a.currentPath.Length() > 0 {
		a.currentPath.Pop()
	}
	a.currentPathCode = prevCode
	a.currentPath.Append(child, index)
	a.currentPathCode = a.nextPathCode()
}

// GetPathCode returns the current path code and, when it is InPath, the
// deduplicated, order-preserving child indices at the next depth that lie
// on any relevant path.
func (a *Action) GetPathCode() (PathCode, []int) {
	if a.currentPathCode != InPath {
		return a.currentPathCode, nil
	}

	nextDepth := a.currentPath.Length() + 1

	switch a.applied.code {
	case AppliedToPath:
		return InPath, []int{a.applied.path.GetIndex(nextDepth)}

	case AppliedToPathList:
		cur := &a.currentPath.Path
		seen := make(map[int]bool)
		var indices []int
		for i := 0; i < a.applied.pathList.Len(); i++ {
			p := a.applied.pathList.At(i)
			if p.Length() <= a.currentPath.Length() {
				continue
			}
			if !p.ContainsPath(cur) {
				continue
			}
			idx := p.GetIndex(nextDepth)
			if !seen[idx] {
				seen[idx] = true
				indices = append(indices, idx)
			}
		}
		return InPath, indices

	default:
		return InPath, nil
	}
}

// SwitchToPathTraversal reconfigures the action to traverse path as a
// nested apply: it saves (appliedCode, appliedData,
// currentPathCode, currentPath), configures the new target, calls
// Traverse(path.Head()), then restores. Unlike ApplyToPath it does NOT
// call BeginTraversal/EndTraversal, since those may perform one-time setup
// that must not recur on a nested traversal.
func (a *Action) SwitchToPathTraversal(path *Path) {
	head := path.Head()
	if head == nil {
		return
	}

	savedApplied := a.applied
	savedPathCode := a.currentPathCode
	savedCurrentPath := a.currentPath
	defer func() {
		a.applied = savedApplied
		a.currentPathCode = savedPathCode
		a.currentPath = savedCurrentPath
	}()

	a.applied = appliedData{code: AppliedToPath, path: path}
	a.currentPath = NewTempPath(head)
	if path.Length() > 0 {
		a.currentPathCode = InPath
	} else {
		a.currentPathCode = BelowPath
	}

	a.Traverse(head)
}

// SwitchToNodeTraversal is SwitchToPathTraversal for a plain node target
// (NoPath throughout)
func (a *Action) SwitchToNodeTraversal(node Node) {
	if node == nil {
		return
	}

	savedApplied := a.applied
	savedPathCode := a.currentPathCode
	savedCurrentPath := a.currentPath
	defer func() {
		a.applied = savedApplied
		a.currentPathCode = savedPathCode
		a.currentPath = savedCurrentPath
	}()

	a.applied = appliedData{code: AppliedToNode, node: node}
	a.currentPath = NewTempPath(node)
	a.currentPathCode = NoPath

	a.Traverse(node)
}
