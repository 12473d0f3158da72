package sgactions

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wayneeseguin/sgcore/internal/cache"
	"github.com/wayneeseguin/sgcore/pkg/sg"
	"github.com/wayneeseguin/sgcore/pkg/sgnodes"
)

// leafCountCache memoizes LeafCount by node identity, keyed by the current
// sgnodes.StructureVersion() so an edit to any Group/Transform's children
// invalidates every cached subtree count at once - scene graphs are DAGs,
// and the same Transform or Group instance commonly hangs off more than one
// parent, making repeated LeafCount(sameChild) calls from sibling subtrees
// routine rather than exceptional.
var leafCountCache = cache.NewHierarchicalCache(cache.DefaultHierarchicalCacheConfig())

// ConfigureLeafCountCache replaces the LeafCount memo cache's sizing, for
// callers wiring internal/config.CacheConfig in at startup. Also drops
// every entry cached under the old configuration.
func ConfigureLeafCountCache(cfg cache.HierarchicalCacheConfig) {
	leafCountCache = cache.NewHierarchicalCache(cfg)
}

// SearchAction collects paths to every node matching Predicate during a
// single, ordinary (single-threaded) traversal, included minimally so the
// kernel's path-construction machinery is exercised by real use.
type SearchAction struct {
	Action    *sg.Action
	Predicate func(sg.Node) bool
	Results   *sg.PathList

	// TerminateOnFirst stops the traversal (via Action.SetTerminated) as
	// soon as one match is found - exercises cooperative termination.
	TerminateOnFirst bool
}

// NewSearchAction creates a SearchAction bound to the shared traversal
// action class.
func NewSearchAction(predicate func(sg.Node) bool) *SearchAction {
	s := &SearchAction{
		Action:    sg.NewAction(traversalClass, sg.DefaultNodeRegistry),
		Predicate: predicate,
		Results:   sg.NewPathList(),
	}
	s.Action.UserData = s
	return s
}

func (s *SearchAction) visit(action *sg.Action, node sg.Node) {
	if s.Predicate == nil || !s.Predicate(node) {
		return
	}
	s.Results.Append(action.GetCurPath().Snapshot())
	if s.TerminateOnFirst {
		action.SetTerminated(true)
	}
}

// Apply resets Results and searches node's subtree.
func (s *SearchAction) Apply(node sg.Node) {
	s.Results = sg.NewPathList()
	s.Action.ApplyToNode(node)
}

// ApplyToPath resets Results and searches along path.
func (s *SearchAction) ApplyToPath(path *sg.Path) {
	s.Results = sg.NewPathList()
	s.Action.ApplyToPath(path)
}

// ApplyToPathList resets Results and searches a pathlist.
func (s *SearchAction) ApplyToPathList(list *sg.PathList, obeysRules bool) {
	s.Results = sg.NewPathList()
	s.Action.ApplyToPathList(list, obeysRules)
}

// LeafCount is a read-only, single-threaded count over one subtree,
// recursing through the concrete sgnodes types directly rather than
// through the kernel - this is the per-subtree unit of work
// SummarizeLeafCounts fans out, never the traversal itself.
func LeafCount(node sg.Node) int {
	version := uint64(sgnodes.StructureVersion())
	key := fmt.Sprintf("%p", node)
	if cached, ok := leafCountCache.Get(key, version); ok {
		return cached.(int)
	}

	var total int
	switch n := node.(type) {
	case *sgnodes.Leaf:
		total = 1
	case *sgnodes.Transform:
		if n.Child != nil {
			total = LeafCount(n.Child)
		}
	case *sgnodes.Group:
		for _, c := range n.Children {
			total += LeafCount(c)
		}
	}

	leafCountCache.Set(key, total, version)
	return total
}

// SummarizeLeafCounts computes LeafCount for each of roots concurrently.
// It exists to demonstrate that a read-only post-pass over disjoint,
// already-collected subtrees can be fanned out safely with errgroup once
// traversal has finished - it must never be called on overlapping
// subtrees, and it never touches an Action or State, since those are not
// safe for concurrent use.
func SummarizeLeafCounts(ctx context.Context, roots []sg.Node) ([]int, error) {
	counts := make([]int, len(roots))
	g, _ := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			counts[i] = LeafCount(root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
