package sg

import "sync"

// StackIndex is the dense, process-stable integer identifying an element
// class's slot in a State. Assigned at class registration.
type StackIndex int

// Element is the capability-set interface a stackable unit of traversal
// context implements in place of subclassing. Concrete element types embed
// BaseElement and override only the hooks they need.
type Element interface {
	// Init is called the first time an element at this index is read in a
	// fresh State, before any Push.
	Init(state *State)
	// Push is called when this element is about to be written in a scope
	// deeper than its current top's scope. The receiver is already a
	// shallow Clone of the prior top; Push only needs to perform
	// side-effecting setup (e.g. issuing GL calls), not copying.
	Push(state *State)
	// Pop is called during scope unwinding, responsible for reversing any
	// side effects Push performed. prevTop is the element that becomes the
	// new top after this one is discarded (nil if none).
	Pop(state *State, prevTop Element)
	// Matches supports cache validation; not required by the kernel
	// itself.
	Matches(other Element) bool
	// CopyMatchInfo returns a lightweight copy carrying only the fields
	// Matches needs, for comparison after the original element is gone.
	CopyMatchInfo() Element
	// Clone returns a shallow copy of the element, used by State to create
	// a new top whose content is initially copied from the prior top
	// before Push runs on it.
	Clone() Element
}

// BaseElement provides no-op defaults for every Element hook. Concrete
// element types embed it and override what they need; Clone MUST be
// overridden by every concrete type since Go cannot generically deep-copy
// an embedder's fields.
type BaseElement struct{}

func (BaseElement) Init(*State)                {}
func (BaseElement) Push(*State)                {}
func (BaseElement) Pop(*State, Element)         {}
func (BaseElement) Matches(Element) bool       { return true }
func (BaseElement) CopyMatchInfo() Element     { return nil }
func (BaseElement) Clone() Element             { return nil }

// ElementClassInfo is the metadata recorded for a registered element
// class, returned from RegisterElementClass alongside its ids.
type ElementClassInfo struct {
	TypeId     TypeId
	StackIndex StackIndex
	Name       string
	Factory    func() Element
}

// ElementRegistry tracks registered element classes and assigns dense
// StackIndex values. ElementTypeRegistry is the TypeRegistry backing the
// TypeId half of each class's identity.
type ElementRegistry struct {
	mu                  sync.RWMutex
	ElementTypeRegistry *TypeRegistry
	byIndex             []ElementClassInfo
}

// DefaultElementRegistry is the package-level registry used when callers
// don't need multiple independent registries (e.g. in tests).
var DefaultElementRegistry = NewElementRegistry()

// NewElementRegistry creates an empty element-class registry.
func NewElementRegistry() *ElementRegistry {
	return &ElementRegistry{
		ElementTypeRegistry: NewTypeRegistry(),
	}
}

// RegisterElementClass registers a new element class, returning its TypeId
// and dense StackIndex. factory produces a fresh zero-value instance used
// by State.Get to lazily initialize the slot on first read.
func (r *ElementRegistry) RegisterElementClass(parent TypeId, name string, factory func() Element) (TypeId, StackIndex, error) {
	typeId, err := r.ElementTypeRegistry.CreateType(parent, name)
	if err != nil {
		return BadType, -1, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, info := range r.byIndex {
		if info.TypeId == typeId {
			return typeId, info.StackIndex, nil
		}
	}

	idx := StackIndex(len(r.byIndex))
	r.byIndex = append(r.byIndex, ElementClassInfo{
		TypeId:     typeId,
		StackIndex: idx,
		Name:       name,
		Factory:    factory,
	})
	return typeId, idx, nil
}

// Info returns the registered class metadata for a StackIndex.
func (r *ElementRegistry) Info(idx StackIndex) (ElementClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(idx) < 0 || int(idx) >= len(r.byIndex) {
		return ElementClassInfo{}, false
	}
	return r.byIndex[idx], true
}

// Count returns the number of registered element classes.
func (r *ElementRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIndex)
}
