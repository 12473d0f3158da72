package sg

import "sync"

// ActionClassInfo is the registration metadata for an action class: its
// TypeId, its parent action class (BadType for a root action class), its
// EnabledElementsList (chained to the parent's for union resolution), and
// its ActionMethodList (the dispatch table built lazily by setUp()).
type ActionClassInfo struct {
	TypeId   TypeId
	Parent   TypeId
	Enabled  *EnabledElementsList
	Methods  *ActionMethodList
}

// ActionRegistry tracks registered action classes.
type ActionRegistry struct {
	mu    sync.RWMutex
	Types *TypeRegistry
	byId  map[TypeId]*ActionClassInfo
}

// DefaultActionRegistry is the package-level action-class registry.
var DefaultActionRegistry = NewActionRegistry()

// NewActionRegistry creates an empty action-class registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		Types: NewTypeRegistry(),
		byId:  make(map[TypeId]*ActionClassInfo),
	}
}

// RegisterActionClass registers name as a child action class of parent
// (BadType for a root action class), bound to the given NodeRegistry so
// its ActionMethodList is sized correctly. Re-registration of the same
// (parent, name) pair returns the existing info.
func (r *ActionRegistry) RegisterActionClass(parent TypeId, name string, nodes *NodeRegistry) (*ActionClassInfo, error) {
	typeId, err := r.Types.CreateType(parent, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.byId[typeId]; ok {
		return info, nil
	}

	var parentInfo *ActionClassInfo
	if parent != BadType {
		parentInfo = r.byId[parent]
	}

	var enabledParent *EnabledElementsList
	var methodsParent *ActionMethodList
	if parentInfo != nil {
		enabledParent = parentInfo.Enabled
		methodsParent = parentInfo.Methods
	}

	info := &ActionClassInfo{
		TypeId:  typeId,
		Parent:  parent,
		Enabled: NewEnabledElementsList(enabledParent),
		Methods: NewActionMethodList(nodes, methodsParent),
	}
	r.byId[typeId] = info
	return info, nil
}

// Info returns the registered metadata for a given action-class TypeId.
func (r *ActionRegistry) Info(typeId TypeId) (*ActionClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byId[typeId]
	return info, ok
}
