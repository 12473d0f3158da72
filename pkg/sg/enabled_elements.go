package sg

import (
	"sync"
	"sync/atomic"
)

// enabledElementsVersion is the global version counter, bumped whenever any
// action class enables a new element. Nothing in this package reads it;
// EnabledElementsVersion exposes it so a caller caching a derivation of the
// enabled sets can detect staleness by comparing against a cached reading.
var enabledElementsVersion uint64

// EnabledElementsVersion returns the current global version counter.
func EnabledElementsVersion() uint64 {
	return atomic.LoadUint64(&enabledElementsVersion)
}

// EnabledElementsList is a per-action-class set of (TypeId, StackIndex)
// pairs the action class requires during traversal. Its effective set is
// the union of its own entries and every ancestor action class's entries.
type EnabledElementsList struct {
	mu     sync.RWMutex
	parent *EnabledElementsList
	own    map[StackIndex]TypeId
}

// NewEnabledElementsList creates a list for an action class, optionally
// chained to its parent action class's list for union resolution.
func NewEnabledElementsList(parent *EnabledElementsList) *EnabledElementsList {
	return &EnabledElementsList{
		parent: parent,
		own:    make(map[StackIndex]TypeId),
	}
}

// Enable adds (typeId, idx) to this list's own set and bumps the global
// version counter.
func (l *EnabledElementsList) Enable(typeId TypeId, idx StackIndex) {
	l.mu.Lock()
	l.own[idx] = typeId
	l.mu.Unlock()
	atomic.AddUint64(&enabledElementsVersion, 1)
}

// Effective returns the union of this list's own entries and all ancestor
// lists' entries, keyed by StackIndex.
func (l *EnabledElementsList) Effective() map[StackIndex]TypeId {
	result := make(map[StackIndex]TypeId)
	for cur := l; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for idx, typeId := range cur.own {
			if _, exists := result[idx]; !exists {
				result[idx] = typeId
			}
		}
		cur.mu.RUnlock()
	}
	return result
}

// Enables reports whether idx is in the effective (own + inherited) set.
func (l *EnabledElementsList) Enables(idx StackIndex) bool {
	for cur := l; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		_, ok := cur.own[idx]
		cur.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}
