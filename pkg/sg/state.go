package sg

// elementSlot is one entry in a State's per-index chain: the element
// currently occupying that index, the scope depth it was created at, and
// the slot it shadows (restored on Pop).
type elementSlot struct {
	elem  Element
	depth int
	prev  *elementSlot
}

// State is the stack of element instances maintained during a single
// traversal It is not safe for concurrent use; a State
// belongs to exactly one Action's traversal at a time.
type State struct {
	registry *ElementRegistry
	enabled  *EnabledElementsList
	slots    map[StackIndex]*elementSlot
	depth    int
}

// NewState creates a state scoped to enabled's effective element set,
// sourcing element factories from registry (DefaultElementRegistry if
// registry is nil).
func NewState(registry *ElementRegistry, enabled *EnabledElementsList) *State {
	if registry == nil {
		registry = DefaultElementRegistry
	}
	return &State{
		registry: registry,
		enabled:  enabled,
		slots:    make(map[StackIndex]*elementSlot),
	}
}

// Depth returns the current open-scope count.
func (s *State) Depth() int {
	return s.depth
}

// Push opens a new scope.
func (s *State) Push() {
	s.depth++
}

// Pop closes the current scope: every element whose top depth equals the
// scope being closed has its Pop hook invoked and is discarded, restoring
// the prior element (if any) as the new top. Popping with no open scope is
// a StateUnderflow KernelError (or a panic in strict mode).
func (s *State) Pop() error {
	if s.depth == 0 {
		err := &KernelError{Kind: StateUnderflow, Message: "State.Pop called with no open scope"}
		if strictMode {
			panic(err)
		}
		return err
	}

	closing := s.depth
	for idx, slot := range s.slots {
		if slot.depth != closing {
			continue
		}
		var prevElem Element
		if slot.prev != nil {
			prevElem = slot.prev.elem
		}
		slot.elem.Pop(s, prevElem)
		if slot.prev != nil {
			s.slots[idx] = slot.prev
		} else {
			delete(s.slots, idx)
		}
	}
	s.depth--
	return nil
}

// Get returns the current top element for idx, lazily initializing it via
// the registered factory (at depth 0) if no element has been written yet.
func (s *State) Get(idx StackIndex) Element {
	if slot, ok := s.slots[idx]; ok {
		return slot.elem
	}

	info, ok := s.registry.Info(idx)
	if !ok || info.Factory == nil {
		return nil
	}

	elem := info.Factory()
	elem.Init(s)
	s.slots[idx] = &elementSlot{elem: elem, depth: 0}
	return elem
}

// GetWritable returns an element at idx safe to mutate in the current
// scope: if the existing top was already created at the current depth, it
// is returned as-is; otherwise a new top is cloned from it, Push is
// invoked on the clone, and it becomes the new top at the current depth.
func (s *State) GetWritable(idx StackIndex) Element {
	top := s.Get(idx)
	if top == nil {
		return nil
	}

	slot := s.slots[idx]
	if slot.depth == s.depth {
		return top
	}

	next := top.Clone()
	if next == nil {
		next = top
	}
	next.Push(s)
	s.slots[idx] = &elementSlot{elem: next, depth: s.depth, prev: slot}
	return next
}

// Enables reports whether idx is in the effective enabled-elements set
// this state was constructed against.
func (s *State) Enables(idx StackIndex) bool {
	if s.enabled == nil {
		return true
	}
	return s.enabled.Enables(idx)
}
