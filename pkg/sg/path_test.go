package sg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathAppendPopGetIndex(t *testing.T) {
	head := &fakeNode{}
	child := &fakeNode{}
	p := NewPath(head)
	assert.Equal(t, 0, p.Length())
	assert.Equal(t, -1, p.GetIndex(0))

	p.Append(child, 3)
	assert.Equal(t, 1, p.Length())
	assert.Equal(t, 3, p.GetIndex(1))
	assert.Equal(t, child, p.GetNode(1))

	p.Pop()
	assert.Equal(t, 0, p.Length())
	assert.Equal(t, head, p.GetNode(0))
}

func TestPathContainsPathPrefixSemantics(t *testing.T) {
	head, a, a1 := &fakeNode{}, &fakeNode{}, &fakeNode{}
	long := NewPath(head)
	long.Append(a, 0)
	long.Append(a1, 1)

	short := NewPath(head)
	short.Append(a, 0)

	assert.True(t, long.ContainsPath(short))
	assert.False(t, short.ContainsPath(long))
	assert.True(t, long.ContainsPath(long))
}

func TestPathEqual(t *testing.T) {
	head, a := &fakeNode{}, &fakeNode{}
	p1 := NewPath(head)
	p1.Append(a, 0)
	p2 := p1.Copy()
	assert.True(t, p1.Equal(p2))

	p2.Pop()
	assert.False(t, p1.Equal(p2))
}

func TestPathCopyIsIndependent(t *testing.T) {
	head, a := &fakeNode{}, &fakeNode{}
	p1 := NewPath(head)
	p1.Append(a, 0)
	p2 := p1.Copy()

	p2.Pop()
	assert.Equal(t, 1, p1.Length())
	assert.Equal(t, 0, p2.Length())
}

func TestPathLessOrdersByHeadThenIndices(t *testing.T) {
	h1, h2 := &fakeNode{}, &fakeNode{}
	a, b := &fakeNode{}, &fakeNode{}

	p1 := NewPath(h1)
	p1.Append(a, 0)
	p2 := NewPath(h1)
	p2.Append(b, 1)
	p3 := NewPath(h2)

	assert.True(t, p1.Less(p2))
	assert.False(t, p2.Less(p1))
	assert.True(t, p1.Less(p3) || p3.Less(p1))
}

func TestPathLessPrefixSortsFirst(t *testing.T) {
	head, a, a1 := &fakeNode{}, &fakeNode{}, &fakeNode{}
	short := NewPath(head)
	short.Append(a, 0)

	long := NewPath(head)
	long.Append(a, 0)
	long.Append(a1, 1)

	assert.True(t, short.Less(long))
	assert.False(t, long.Less(short))
}
