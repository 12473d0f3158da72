package sg

import "sync"

// ActionMethodIndex is the dense, process-stable integer assigned to a
// node class at registration, used to index every ActionMethodList.
type ActionMethodIndex int

// Node is the minimal shape the kernel itself requires of a scene-graph
// vertex: a type identity for dispatch, a reference count the kernel pins
// during apply, and (for group-like nodes) a child list the kernel never
// walks directly - only the node's own action-method implementation walks
// its children, via Action.PushCurPath/Traverse/PopCurPath. Concrete
// geometry/transform/group node classes are external collaborators; this
// package only needs enough surface to dispatch and ref-count.
type Node interface {
	TypeId() TypeId
	ActionMethodIndex() ActionMethodIndex
	Ref()
	Unref()
	RefCount() int
}

// NodeRegistry assigns TypeIds and dense ActionMethodIndex values to node
// classes. Node classes are required to register before any instance is
// traversed - registries are populated before traversal begins.
type NodeRegistry struct {
	mu       sync.RWMutex
	Types    *TypeRegistry
	nextIdx  ActionMethodIndex
	indexOf  map[TypeId]ActionMethodIndex
	parentOf map[TypeId]TypeId
}

// DefaultNodeRegistry is the package-level node-class registry.
var DefaultNodeRegistry = NewNodeRegistry()

// NewNodeRegistry creates an empty node-class registry.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{
		Types:    NewTypeRegistry(),
		indexOf:  make(map[TypeId]ActionMethodIndex),
		parentOf: make(map[TypeId]TypeId),
	}
}

// RegisterNodeClass registers name as a child of parent, returning its
// TypeId and a freshly assigned, dense ActionMethodIndex. Re-registering
// the same (parent, name) pair returns the existing ids.
func (r *NodeRegistry) RegisterNodeClass(parent TypeId, name string) (TypeId, ActionMethodIndex, error) {
	typeId, err := r.Types.CreateType(parent, name)
	if err != nil {
		return BadType, -1, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indexOf[typeId]; ok {
		return typeId, idx, nil
	}

	idx := r.nextIdx
	r.nextIdx++
	r.indexOf[typeId] = idx
	r.parentOf[typeId] = parent
	return typeId, idx, nil
}

// Count returns the number of registered node classes - the required
// length of every ActionMethodList's dispatch table.
func (r *NodeRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int(r.nextIdx)
}

// IndexOf returns the ActionMethodIndex assigned to typeId.
func (r *NodeRegistry) IndexOf(typeId TypeId) (ActionMethodIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexOf[typeId]
	return idx, ok
}

// ParentOf returns the direct node-class parent typeId was registered
// under.
func (r *NodeRegistry) ParentOf(typeId TypeId) (TypeId, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parent, ok := r.parentOf[typeId]
	return parent, ok
}

// BaseNode provides ref-counting for embedding into concrete node types.
// It does NOT implement TypeId/ActionMethodIndex - concrete node classes
// supply those, since they're assigned once at class registration and
// shared by every instance of the class.
type BaseNode struct {
	mu  sync.Mutex
	ref int
}

// Ref increments the reference count.
func (n *BaseNode) Ref() {
	n.mu.Lock()
	n.ref++
	n.mu.Unlock()
}

// Unref decrements the reference count. It neither warns nor panics when
// the count drops to (or below) zero; the kernel's apply entry points emit
// a TraversalWarning when applied to a node whose count is zero.
func (n *BaseNode) Unref() {
	n.mu.Lock()
	n.ref--
	n.mu.Unlock()
}

// RefCount returns the current reference count.
func (n *BaseNode) RefCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ref
}
