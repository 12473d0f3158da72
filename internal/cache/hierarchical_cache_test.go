package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchicalCacheL1Hit(t *testing.T) {
	hc := NewHierarchicalCache(DefaultHierarchicalCacheConfig())

	hc.Set("Group/write", 42, 1)

	v, found := hc.Get("Group/write", 1)
	require.True(t, found)
	assert.Equal(t, 42, v)

	m := hc.GetMetrics()
	assert.Equal(t, int64(1), m.L1Hits)
}

func TestHierarchicalCacheStaleVersionMisses(t *testing.T) {
	hc := NewHierarchicalCache(DefaultHierarchicalCacheConfig())

	hc.Set("Group/write", 42, 1)

	_, found := hc.Get("Group/write", 2)
	assert.False(t, found, "entry cached under an older version must miss once the version advances")
}

func TestHierarchicalCachePromotesL2ToL1(t *testing.T) {
	hc := NewHierarchicalCache(DefaultHierarchicalCacheConfig())

	hc.l2.set("Transform/bbox", [3]float64{1, 2, 3}, 5)

	v, found := hc.Get("Transform/bbox", 5)
	require.True(t, found)
	assert.Equal(t, [3]float64{1, 2, 3}, v)

	_, foundInL1 := hc.l1.get("Transform/bbox")
	assert.True(t, foundInL1, "L2 hit must be promoted into L1")

	m := hc.GetMetrics()
	assert.Equal(t, int64(1), m.Promotions)
}

func TestHierarchicalCacheInvalidateAll(t *testing.T) {
	hc := NewHierarchicalCache(DefaultHierarchicalCacheConfig())

	hc.Set("Group/write", 1, 1)
	hc.Set("Leaf/search", 2, 1)

	hc.InvalidateAll()

	_, found1 := hc.Get("Group/write", 1)
	_, found2 := hc.Get("Leaf/search", 1)
	assert.False(t, found1)
	assert.False(t, found2)
}

func TestShardedCacheEvictsOldestOnCapacity(t *testing.T) {
	sc := newShardedCache(2, 0)

	sc.set("a", "va", 1)
	time.Sleep(time.Millisecond)
	sc.set("b", "vb", 1)
	time.Sleep(time.Millisecond)

	// Touch "b" so "a" becomes the least-recently-accessed entry.
	_, _ = sc.get("b")

	sc.set("c", "vc", 1)

	_, foundA := sc.get("a")
	_, foundB := sc.get("b")
	_, foundC := sc.get("c")

	assert.False(t, foundA, "oldest untouched entry should be evicted")
	assert.True(t, foundB)
	assert.True(t, foundC)
}

func TestShardedCacheTTLExpiry(t *testing.T) {
	sc := newShardedCache(8, 5*time.Millisecond)

	sc.set("k", "v", 1)
	_, found := sc.get("k")
	require.True(t, found)

	time.Sleep(10 * time.Millisecond)

	_, found = sc.get("k")
	assert.False(t, found, "entry should expire once its TTL elapses")
}
