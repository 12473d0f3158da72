package sg

// TempPath is the kernel's own live path, maintained as Action descends
// and ascends via PushCurPath/PopCurPath. It has the same representation
// as Path (both cache the resolved node at every step, so a node removed
// from its parent mid-traversal never triggers a re-lookup through stale
// indices) but a different role: a Path is typically user-supplied (the
// target of apply-to-path/apply-to-pathlist) and is read-only once
// traversal starts, while a TempPath is mutated in place on every
// push/pop during the walk and is never exposed for the caller to retain
// past the node-method call that obtained it.
type TempPath struct {
	Path
}

// NewTempPath creates an empty TempPath, optionally rooted at head.
func NewTempPath(head Node) *TempPath {
	return &TempPath{Path: *NewPath(head)}
}

// Tail returns the node at the current last step (the position the
// traversal is presently at).
func (t *TempPath) Tail() Node {
	return t.GetNode(t.Length())
}

// TailIndex returns the child index used to reach the tail, or -1 if the
// path is at its head.
func (t *TempPath) TailIndex() int {
	if t.Length() == 0 {
		return -1
	}
	return t.GetIndex(t.Length())
}

// Snapshot copies the current path into an immutable Path, safe to retain
// (e.g. for SearchAction results) past the traversal step that produced
// it.
func (t *TempPath) Snapshot() *Path {
	return t.Path.Copy()
}

// Reset truncates the path back to a single head node (or empty, if head
// is nil).
func (t *TempPath) Reset(head Node) {
	t.SetHead(head)
}
