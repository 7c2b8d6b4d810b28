package pbtree

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIntoEmptyNodeAdds(t *testing.T) {
	root := NewWithFanout[int, kv](4)
	result := root.Insert(pair(1, "a"))
	require.Equal(t, Added, result.Kind)
	assert.Equal(t, 1, result.New.Len())
}

func TestInsertDuplicateKeyReplaces(t *testing.T) {
	root := NewWithFanout[int, kv](4)
	root = insertAll(root, pair(1, "a"))

	result := root.Insert(pair(1, "aa"))
	require.Equal(t, Replaced, result.Kind)
	assert.Equal(t, "a", result.Old.v)
	v, _ := result.New.Lookup(1)
	assert.Equal(t, "aa", v.v)
	assert.Equal(t, 1, result.New.Len(), "replacing must not change the element count")
}

func TestInsertSplitsAFullLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pbtree.node")
	defer teardown()

	root := NewWithFanout[int, kv](4)
	root = insertAll(root, pair(1, "a"), pair(2, "b"), pair(3, "c"), pair(4, "d"))

	result := root.Insert(pair(5, "e"))
	require.Equal(t, Split, result.Kind)
	assert.Equal(t, 5, result.Left.Len()+result.Right.Len()+1)

	grown := FromSplit(result.Left, result.Median, result.Right)
	checkInvariants(t, grown, true)
	assert.Equal(t, 5, grown.Len())
	for k := 1; k <= 5; k++ {
		_, ok := grown.Lookup(k)
		assert.Truef(t, ok, "key %d missing after split", k)
	}
}

func TestInsertDoesNotMutateOlderVersion(t *testing.T) {
	v1 := NewWithFanout[int, kv](4)
	v1 = insertAll(v1, pair(1, "a"), pair(2, "b"))

	result := v1.Insert(pair(3, "c"))
	v2 := rootFromInsert(result)

	assert.Equal(t, 2, v1.Len())
	assert.Equal(t, 3, v2.Len())
	_, ok := v1.Lookup(3)
	assert.False(t, ok, "the older root must not see a later insert")
}

func TestInsertGrowsThroughSeveralLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pbtree.node")
	defer teardown()

	root := NewWithFanout[int, kv](4)
	const n = 200
	for i := 0; i < n; i++ {
		// insert in a shuffled-ish order so both ascending and
		// descending runs of splits get exercised
		k := (i * 37) % n
		root = insertAll(root, pair(k, "v"))
	}
	checkInvariants(t, root, true)
	assert.Equal(t, n, root.Len())
	assert.Equal(t, n, len(collectForward(root)))
}

func TestInsertIsIdempotent(t *testing.T) {
	root := NewWithFanout[int, kv](4)
	root = insertAll(root, pair(1, "a"), pair(2, "b"), pair(3, "c"))
	before := root.Len()

	root = insertAll(root, pair(2, "b"))
	assert.Equal(t, before, root.Len())
}
