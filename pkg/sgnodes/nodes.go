// Package sgnodes is a minimal concrete node set - Group, Transform, Leaf -
// sufficient to drive the kernel's tests and the sgwalk demo end-to-end,
// expressed as typed Go structs since nodes here carry compile-time
// identity (TypeId, ActionMethodIndex) rather than parsed maps.
package sgnodes

import (
	"sync/atomic"

	"github.com/wayneeseguin/sgcore/pkg/sg"
)

var (
	GroupType      sg.TypeId
	GroupIndex     sg.ActionMethodIndex
	TransformType  sg.TypeId
	TransformIndex sg.ActionMethodIndex
	LeafType       sg.TypeId
	LeafIndex      sg.ActionMethodIndex
)

var structureVersion uint64

// StructureVersion bumps every time a Group or Transform gains a child,
// so callers that memoize over node identity (pkg/sgactions.LeafCount) can
// tell a cached result keyed by pointer apart from a stale one after an
// edit.
func StructureVersion() uint64 { return atomic.LoadUint64(&structureVersion) }

func init() {
	GroupType, GroupIndex, _ = sg.DefaultNodeRegistry.RegisterNodeClass(sg.BadType, "Group")
	TransformType, TransformIndex, _ = sg.DefaultNodeRegistry.RegisterNodeClass(sg.BadType, "Transform")
	LeafType, LeafIndex, _ = sg.DefaultNodeRegistry.RegisterNodeClass(sg.BadType, "Leaf")
}

// Group is an internal node with an ordered list of children, the
// kernel's only collection type: the kernel never walks it directly, only
// an action's registered Group method does, via PushCurPath/Traverse/
// PopCurPath.
type Group struct {
	sg.BaseNode
	Name     string
	Children []sg.Node
}

func NewGroup(name string) *Group {
	g := &Group{Name: name}
	g.Ref()
	return g
}

func (g *Group) TypeId() sg.TypeId                     { return GroupType }
func (g *Group) ActionMethodIndex() sg.ActionMethodIndex { return GroupIndex }

// AddChild appends child and takes a reference on it.
func (g *Group) AddChild(child sg.Node) {
	g.Children = append(g.Children, child)
	child.Ref()
	atomic.AddUint64(&structureVersion, 1)
}

// Transform is a single-child node that scales the accumulated-scale
// element (pkg/sgnodes/transform_element.go) for everything beneath it.
type Transform struct {
	sg.BaseNode
	Name  string
	Scale float64
	Child sg.Node
}

func NewTransform(name string, scale float64) *Transform {
	t := &Transform{Name: name, Scale: scale}
	t.Ref()
	return t
}

func (t *Transform) TypeId() sg.TypeId                     { return TransformType }
func (t *Transform) ActionMethodIndex() sg.ActionMethodIndex { return TransformIndex }

// SetChild replaces (and refs) the single child.
func (t *Transform) SetChild(child sg.Node) {
	t.Child = child
	child.Ref()
	atomic.AddUint64(&structureVersion, 1)
}

// Leaf is a childless node carrying a demo scalar payload.
type Leaf struct {
	sg.BaseNode
	Name  string
	Value float64
}

func NewLeaf(name string, value float64) *Leaf {
	l := &Leaf{Name: name, Value: value}
	l.Ref()
	return l
}

func (l *Leaf) TypeId() sg.TypeId                     { return LeafType }
func (l *Leaf) ActionMethodIndex() sg.ActionMethodIndex { return LeafIndex }
