package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetypes2/safetypes2/pkg/blob"
	"github.com/safetypes2/safetypes2/pkg/object"
	"github.com/safetypes2/safetypes2/pkg/omap"
	"github.com/safetypes2/safetypes2/pkg/seq"
)

// Test_Collect_ReclaimsUnreachableCycle is the core C5 scenario: two
// containers keep each other (container-slot ownership, never
// retain/release), both lexical references are released, and neither
// object's kept_count ever reaches zero on its own, so Release destroys
// neither. Only a collection cycle can find and reclaim the cycle.
func Test_Collect_ReclaimsUnreachableCycle(t *testing.T) {
	var aFinal, bFinal bool

	a := newContainer(func() { aFinal = true })
	b := newContainer(func() { bFinal = true })

	a.keepChild(&b.Header)
	b.keepChild(&a.Header)

	before := object.RosterLen()

	object.Release(&a.Header) // ref 1 -> 0, kept 1 (from b): stays alive
	object.Release(&b.Header) // same

	assert.False(t, aFinal)
	assert.False(t, bFinal)
	assert.Equal(t, before, object.RosterLen())

	reader := object.NewReader()
	reader.Collect()

	assert.True(t, aFinal)
	assert.True(t, bFinal)
	assert.Equal(t, before-2, object.RosterLen())
}

// Test_Collect_LeavesReachableObjectsAlone confirms the collector does
// not touch anything still reachable from a lexical root.
func Test_Collect_LeavesReachableObjectsAlone(t *testing.T) {
	var finalized bool

	o := newLeaf(func() { finalized = true })

	reader := object.NewReader()
	reader.Collect()

	assert.False(t, finalized)
	assert.EqualValues(t, 1, o.RefCount())

	object.Release(&o.Header)
}

// Test_Collect_ChainHangingOffALiveRoot_Survives checks that
// seedAndPropagate's transitive closure actually walks through more than
// one hop: a live root keeps a middle container which keeps a leaf, and
// neither middle nor leaf has any outstanding ref_count of its own.
func Test_Collect_ChainHangingOffALiveRoot_Survives(t *testing.T) {
	var rootFinal, midFinal, leafFinal bool

	root := newContainer(func() { rootFinal = true })
	mid := newContainer(func() { midFinal = true })
	leaf := newLeaf(func() { leafFinal = true })

	root.keepChild(&mid.Header)
	mid.keepChild(&leaf.Header)

	object.Release(&mid.Header)  // ref 1 -> 0, kept 1 (from root): stays alive
	object.Release(&leaf.Header) // ref 1 -> 0, kept 1 (from mid): stays alive

	reader := object.NewReader()
	reader.Collect()

	assert.False(t, rootFinal)
	assert.False(t, midFinal)
	assert.False(t, leafFinal)

	object.Release(&root.Header)
}

// Test_Release_AcyclicGarbage_DestroysWithoutWaitingForCollect confirms
// the non-cyclic path needs no collection cycle for the object whose last
// reference drops: releasing the parent destroys it immediately. The child
// stays alive until a Collect, because the minimal testObj finalizer does
// not leave its children.
func Test_Release_AcyclicGarbage_DestroysWithoutWaitingForCollect(t *testing.T) {
	var parentFinal, childFinal bool

	parent := newContainer(func() { parentFinal = true })
	child := newLeaf(func() { childFinal = true })

	parent.keepChild(&child.Header)
	object.Release(&child.Header) // kept still 1 (from parent): stays alive

	require.False(t, childFinal)

	object.Release(&parent.Header) // parent's finalizer leaves nothing on its own;
	// parent is destroyed immediately (no cycle), but its child is only
	// reachable via parent's own children slice, which this minimal
	// testObj does not leave on finalize -- so assert parent alone died.
	assert.True(t, parentFinal)
	assert.False(t, childFinal)

	// Clean up the now-unreachable-but-not-yet-collected child so the
	// roster count stays sane for subsequent tests in the package.
	reader := object.NewReader()
	reader.Collect()
	assert.True(t, childFinal)
}

// Test_Collect_ReclaimsRealContainerCycle_InOnePass builds a cycle out of
// real containers instead of the minimal testObj fixture: a map holds a
// sequence as a value, and the sequence holds the map back as an
// element. Neither container's own finalizer just flips a bool -- map.go's
// releaseAll and seq.go's releaseAll call Leave on their contents for
// real, so finalizing one side of the cycle drives the other side's
// kept_count to zero mid-collection and destroys it recursively through
// destroy()'s GC-aware path. A single Collect() call must reclaim both;
// this is the literal acceptance scenario described for cyclic garbage
// (containers keeping each other, reclaimed with zero net outstanding
// allocations after one collect()).
func Test_Collect_ReclaimsRealContainerCycle_InOnePass(t *testing.T) {
	before := object.RosterLen()

	m := omap.Create()
	q := seq.Create()

	key := blob.FromString("child")
	require.NoError(t, m.Set(key, &q.Header, object.Kept))
	object.Release(&key.Header) // map.Set copies the key into its own blob

	q.Push(&m.Header, object.Kept)

	object.Release(&m.Header) // ref 1 -> 0, kept 1 (from q's element): stays alive
	object.Release(&q.Header) // ref 1 -> 0, kept 1 (from m's value slot): stays alive

	// m, q, and the map's own internal copy of the key blob are all live
	// and all unreachable from any root.
	assert.Equal(t, before+3, object.RosterLen())

	reader := object.NewReader()
	reader.Collect()

	assert.Equal(t, before, object.RosterLen())
}
