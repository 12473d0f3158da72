package sg

import "sync"

// ActionMethod is the per-(action-class, node-class) dispatch target: a
// function pointer invoked as dispatch[node.ActionMethodIndex()](action, node).
type ActionMethod func(action *Action, node Node)

// nullAction is the sentinel slot value for node classes with no
// registered method anywhere in the action-class chain.
func nullAction(*Action, Node) {}

// ActionMethodList is one action class's dense dispatch table, indexed by
// ActionMethodIndex: an array keyed by a dense integer instead of a parsed
// operator name, since node-class identity here is a compile-time-stable
// index rather than a string.
type ActionMethodList struct {
	mu      sync.RWMutex
	nodes   *NodeRegistry
	parent  *ActionMethodList
	own     map[TypeId]ActionMethod
	version uint64

	table           []ActionMethod
	builtOwnVer     uint64
	builtParentVer  uint64
	builtNodeCount  int
}

// NewActionMethodList creates a dispatch table bound to nodes (for sizing
// and node-ancestor-chain inheritance) and chained to parent (the action
// class's parent action class's list, or nil for a root action class).
func NewActionMethodList(nodes *NodeRegistry, parent *ActionMethodList) *ActionMethodList {
	return &ActionMethodList{
		nodes:  nodes,
		parent: parent,
		own:    make(map[TypeId]ActionMethod),
	}
}

// AddMethod registers fn as this action class's method for nodeType.
// Registering again for the same nodeType replaces the method and
// invalidates the cached dispatch table.
func (l *ActionMethodList) AddMethod(nodeType TypeId, fn ActionMethod) {
	l.mu.Lock()
	l.own[nodeType] = fn
	l.version++
	l.mu.Unlock()
}

// directMethod looks up a method registered directly for nodeType,
// walking the action-class chain from this (closest) action class
// outward; the closest action ancestor with a registration wins ties.
// Locks every list in the chain except l itself, so the caller must already
// hold l.mu; callers not holding it use directMethodExternal instead.
func (l *ActionMethodList) directMethod(nodeType TypeId) (ActionMethod, bool) {
	if fn, ok := l.own[nodeType]; ok {
		return fn, true
	}
	if l.parent == nil {
		return nil, false
	}
	return l.parent.directMethodExternal(nodeType)
}

// directMethodExternal is directMethod for a list the caller does NOT
// already hold the lock of.
func (l *ActionMethodList) directMethodExternal(nodeType TypeId) (ActionMethod, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.directMethod(nodeType)
}

// SetUp (re)builds the dispatch table if it is stale (the node registry
// grew, or this list or any ancestor action class's registrations
// changed). Safe to call before every traverse; cheap when already
// current, since the table is computed lazily at first use and cached.
func (l *ActionMethodList) SetUp() {
	l.mu.Lock()
	defer l.mu.Unlock()

	nodeCount := l.nodes.Count()
	parentVer := l.parentVersionLocked()

	if l.table != nil && l.builtOwnVer == l.version && l.builtParentVer == parentVer && l.builtNodeCount == nodeCount {
		return
	}

	table := make([]ActionMethod, nodeCount)
	for i := range table {
		table[i] = nullAction
	}

	l.nodes.mu.RLock()
	for typeId, idx := range l.nodes.indexOf {
		if fn, ok := l.directMethod(typeId); ok {
			table[idx] = fn
			continue
		}
		// No direct registration anywhere in the action-class chain for
		// this exact node type; walk up the node-class ancestor chain.
		for anc, ok := l.nodes.parentOf[typeId], true; ok && anc != BadType; anc, ok = l.nodes.parentOf[anc] {
			if fn, found := l.directMethod(anc); found {
				table[idx] = fn
				break
			}
		}
	}
	l.nodes.mu.RUnlock()

	l.table = table
	l.builtOwnVer = l.version
	l.builtParentVer = parentVer
	l.builtNodeCount = nodeCount
}

// parentVersionLocked sums the registration versions of every ancestor
// list. It locks only the ancestors, so it is callable while l.mu is
// already held (avoids a self-deadlock from SetUp).
func (l *ActionMethodList) parentVersionLocked() uint64 {
	if l.parent == nil {
		return 0
	}
	l.parent.mu.RLock()
	defer l.parent.mu.RUnlock()
	return l.parent.version + l.parent.parentVersionLocked()
}

// Dispatch returns the resolved method for idx. SetUp must have been
// called (Action.apply calls it on every entry); an out-of-range index
// returns nullAction.
func (l *ActionMethodList) Dispatch(idx ActionMethodIndex) ActionMethod {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.table == nil || int(idx) < 0 || int(idx) >= len(l.table) {
		return nullAction
	}
	return l.table[idx]
}
