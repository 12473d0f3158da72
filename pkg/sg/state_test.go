package sg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterElement struct {
	BaseElement
	value   int
	popped  *[]int
	initted bool
}

func (e *counterElement) Init(*State) { e.initted = true }
func (e *counterElement) Clone() Element {
	cp := *e
	return &cp
}
func (e *counterElement) Pop(s *State, prevTop Element) {
	if e.popped != nil {
		*e.popped = append(*e.popped, e.value)
	}
}

func TestStateGetLazilyInitializes(t *testing.T) {
	registry := NewElementRegistry()
	_, idx, err := registry.RegisterElementClass(BadType, "Counter", func() Element {
		return &counterElement{}
	})
	require.NoError(t, err)

	s := NewState(registry, nil)
	elem := s.Get(idx).(*counterElement)
	assert.True(t, elem.initted)
}

func TestStateGetWritableClonesOnlyWhenDepthDiffers(t *testing.T) {
	registry := NewElementRegistry()
	_, idx, _ := registry.RegisterElementClass(BadType, "Counter", func() Element {
		return &counterElement{}
	})

	s := NewState(registry, nil)
	first := s.GetWritable(idx)
	same := s.GetWritable(idx)
	assert.Same(t, first, same)

	s.Push()
	deeper := s.GetWritable(idx)
	assert.NotSame(t, first, deeper)
}

func TestStatePushPopBalancesAndInvokesPopHook(t *testing.T) {
	registry := NewElementRegistry()
	_, idx, _ := registry.RegisterElementClass(BadType, "Counter", func() Element {
		return &counterElement{}
	})

	var popped []int
	s := NewState(registry, nil)
	top := s.GetWritable(idx).(*counterElement)
	top.value = 1
	top.popped = &popped

	s.Push()
	inner := s.GetWritable(idx).(*counterElement)
	inner.value = 2
	inner.popped = &popped

	require.NoError(t, s.Pop())
	assert.Equal(t, []int{2}, popped)
	assert.Equal(t, 0, s.Depth())

	restored := s.Get(idx).(*counterElement)
	assert.Equal(t, 1, restored.value)
}

func TestStatePopUnderflowReturnsKernelError(t *testing.T) {
	SetStrictMode(false)
	s := NewState(nil, nil)
	err := s.Pop()
	require.Error(t, err)
	assert.True(t, IsKernelError(err, StateUnderflow))
}

func TestStatePopUnderflowPanicsInStrictMode(t *testing.T) {
	SetStrictMode(true)
	defer SetStrictMode(false)

	s := NewState(nil, nil)
	assert.Panics(t, func() { _ = s.Pop() })
}

func TestEnabledElementsListEffectiveUnionsAncestors(t *testing.T) {
	parent := NewEnabledElementsList(nil)
	parent.Enable(TypeId(1), StackIndex(0))

	child := NewEnabledElementsList(parent)
	child.Enable(TypeId(2), StackIndex(1))

	effective := child.Effective()
	assert.Len(t, effective, 2)
	assert.True(t, child.Enables(StackIndex(0)))
	assert.True(t, child.Enables(StackIndex(1)))
	assert.False(t, child.Enables(StackIndex(2)))
}

func TestEnableBumpsGlobalVersion(t *testing.T) {
	before := EnabledElementsVersion()
	l := NewEnabledElementsList(nil)
	l.Enable(TypeId(1), StackIndex(0))
	assert.Greater(t, EnabledElementsVersion(), before)
}
