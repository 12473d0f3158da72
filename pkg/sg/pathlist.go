package sg

import "sort"

// PathList is a container of Paths with sort/uniquify/containment
// semantics
type PathList struct {
	paths []*Path
}

// NewPathList creates a PathList from the given paths (not copied).
func NewPathList(paths ...*Path) *PathList {
	return &PathList{paths: paths}
}

// Len returns the number of paths in the list.
func (l *PathList) Len() int { return len(l.paths) }

// At returns the path at index i.
func (l *PathList) At(i int) *Path { return l.paths[i] }

// Append adds a path to the end of the list.
func (l *PathList) Append(p *Path) {
	l.paths = append(l.paths, p)
}

// Truncate discards all paths from index n onward.
func (l *PathList) Truncate(n int) {
	l.paths = l.paths[:n]
}

// Find returns the index of a path equal to target, or -1.
func (l *PathList) Find(target *Path) int {
	for i, p := range l.paths {
		if p.Equal(target) {
			return i
		}
	}
	return -1
}

// Copy returns an independent PathList with independently-copyable Paths.
func (l *PathList) Copy() *PathList {
	cp := make([]*Path, len(l.paths))
	for i, p := range l.paths {
		cp[i] = p.Copy()
	}
	return &PathList{paths: cp}
}

// Sort orders the list by the strict weak order of Path.Less:
// lexicographic on (head identity, then child indices).
func (l *PathList) Sort() {
	sort.SliceStable(l.paths, func(i, j int) bool {
		return l.paths[i].Less(l.paths[j])
	})
}

// Uniquify removes, from an already-Sorted list (shortest prefix first,
// per Path.Less), any path subsumed by an already-kept shorter path: cur
// is dropped when the last kept path is a prefix of (or equal to) cur,
// since that shorter path's BELOW_PATH dominates it. Calling it on an
// unsorted list produces undefined results - the caller is responsible
// for the pre-sort, same as any other pre-condition-bearing helper here.
func (l *PathList) Uniquify() {
	if len(l.paths) == 0 {
		return
	}

	result := l.paths[:1]
	for i := 1; i < len(l.paths); i++ {
		kept := result[len(result)-1]
		cur := l.paths[i]
		if cur.ContainsPath(kept) {
			continue
		}
		result = append(result, cur)
	}
	l.paths = result
}

// ContainsPath reports whether any path in the list contains (has as a
// prefix, inclusive) target.
func (l *PathList) ContainsPath(target *Path) bool {
	for _, p := range l.paths {
		if p.ContainsPath(target) {
			return true
		}
	}
	return false
}

// GroupsByHead partitions a sorted list into contiguous runs sharing the
// same head, in the order they appear (sorted order, so groups come out
// in sorted head order)
func (l *PathList) GroupsByHead() []*PathList {
	var groups []*PathList
	var cur []*Path

	for _, p := range l.paths {
		if len(cur) > 0 && cur[0].Head() != p.Head() {
			groups = append(groups, &PathList{paths: cur})
			cur = nil
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		groups = append(groups, &PathList{paths: cur})
	}
	return groups
}
