package sg

// Path is a root-rooted sequence of (node, child-index) pairs describing a
// position in the graph. The head occupies step 0 (no child index
// consumed); the child index at step i selects which of
// node-at-step(i-1)'s children is node-at-step(i). Paths are typically
// user-constructed (naming the target(s) of an apply-to-path /
// apply-to-pathlist call) and are cheap to Copy.
//
// The method shapes below (Append/Pop/ContainsPath/Length) follow a
// cursor-over-a-tree model, generalized here from string keys to
// (Node, childIndex) pairs.
type Path struct {
	nodes   []Node
	indices []int // indices[i] is the child index used to reach nodes[i+1] from nodes[i]; len(indices) == len(nodes)-1
}

// NewPath creates a single-step path rooted at head. An empty (nil head)
// path has Length() == 0.
func NewPath(head Node) *Path {
	p := &Path{}
	if head != nil {
		p.nodes = []Node{head}
	}
	return p
}

// Length returns the number of child-index steps; the head counts as
// step 0 and is not included in Length.
func (p *Path) Length() int {
	if len(p.nodes) == 0 {
		return 0
	}
	return len(p.nodes) - 1
}

// Head returns the root node, or nil for an empty path.
func (p *Path) Head() Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[0]
}

// GetIndex returns the child index at step i. Undefined (returns -1) for
// i == 0
func (p *Path) GetIndex(i int) int {
	if i <= 0 || i > len(p.indices) {
		return -1
	}
	return p.indices[i-1]
}

// GetNode returns the resolved node at step i; GetNode(0) is the head.
func (p *Path) GetNode(i int) Node {
	if i < 0 || i >= len(p.nodes) {
		return nil
	}
	return p.nodes[i]
}

// MaxPathDepth bounds Path.Append; 0 (the default) means unbounded. Wired
// to KernelConfig.MaxPathDepth so a pathologically deep or cyclic graph
// can't grow a path without limit.
var MaxPathDepth = 0

// Append extends the path by one step: child is the node reached by index
// from the current tail. If MaxPathDepth is set and would be exceeded,
// Append emits a TraversalWarning and the path is left unchanged.
func (p *Path) Append(child Node, index int) {
	if len(p.nodes) == 0 {
		p.nodes = []Node{child}
		return
	}
	if MaxPathDepth > 0 && p.Length() >= MaxPathDepth {
		NewTraversalWarning("path depth exceeds MaxPathDepth (%d)", MaxPathDepth).Warn()
		return
	}
	p.nodes = append(p.nodes, child)
	p.indices = append(p.indices, index)
}

// Pop removes the last step, returning to the prior tail. A no-op on an
// empty or single-node (head-only) path.
func (p *Path) Pop() {
	if len(p.nodes) <= 1 {
		return
	}
	p.nodes = p.nodes[:len(p.nodes)-1]
	p.indices = p.indices[:len(p.indices)-1]
}

// SetHead sets the head node, truncating any existing steps.
func (p *Path) SetHead(head Node) {
	if head == nil {
		p.nodes = nil
	} else {
		p.nodes = []Node{head}
	}
	p.indices = nil
}

// Copy returns an independent copy of the path.
func (p *Path) Copy() *Path {
	cp := &Path{}
	if len(p.nodes) > 0 {
		cp.nodes = append([]Node(nil), p.nodes...)
	}
	if len(p.indices) > 0 {
		cp.indices = append([]int(nil), p.indices...)
	}
	return cp
}

// ContainsPath reports whether other is a prefix of p, comparing (node,
// index) pairs starting at the head
func (p *Path) ContainsPath(other *Path) bool {
	if other.Length() > p.Length() {
		return false
	}
	if p.Head() != other.Head() {
		return false
	}
	for i := 1; i <= other.Length(); i++ {
		if p.GetIndex(i) != other.GetIndex(i) {
			return false
		}
	}
	return true
}

// Equal reports whether p and other denote the same (head, indices)
// sequence.
func (p *Path) Equal(other *Path) bool {
	return p.Length() == other.Length() && p.ContainsPath(other)
}

// headOrder is a stable ordering over distinct head identities, assigned
// on first use so PathList.Sort has a strict weak order even though Node
// values aren't natively comparable/orderable
var headOrder = struct {
	ids  map[Node]int
	next int
}{ids: make(map[Node]int)}

func headOrderOf(n Node) int {
	if n == nil {
		return -1
	}
	if id, ok := headOrder.ids[n]; ok {
		return id
	}
	id := headOrder.next
	headOrder.next++
	headOrder.ids[n] = id
	return id
}

// Less implements the strict weak order PathList.Sort uses: lexicographic
// on (head identity, then child indices).
func (p *Path) Less(other *Path) bool {
	ph, oh := headOrderOf(p.Head()), headOrderOf(other.Head())
	if ph != oh {
		return ph < oh
	}
	for i := 1; ; i++ {
		pi, oi := p.GetIndex(i), other.GetIndex(i)
		if i > p.Length() && i > other.Length() {
			return false
		}
		if i > p.Length() {
			return true // p is a prefix of other: p sorts first
		}
		if i > other.Length() {
			return false
		}
		if pi != oi {
			return pi < oi
		}
	}
}
