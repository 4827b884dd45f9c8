package object

import "github.com/safetypes2/safetypes2/internal/assert"

// Setter is the sum type containers use at the moment a caller hands an
// object into a slot (spec §4.2).
type Setter int

const (
	// Kept means the caller retains their lexical reference; the container
	// does Keep, and the caller must later Release independently.
	Kept Setter = iota
	// Gave means the caller is transferring ownership: the container does
	// Keep and then immediately Release on the caller's behalf, zeroing
	// the net ref-count change.
	Gave
)

// Apply performs the container-side bookkeeping for s when o is stored
// into a container slot. Every container setter (blob has none; map Set,
// sequence Insert/Push/Put) must call this exactly once per stored value.
func (s Setter) Apply(o *Header) {
	Keep(o)

	if s == Gave {
		Release(o)
	}
}

// Retain increments o's lexical reference count (spec §4.2).
func Retain(o *Header) {
	o.refCount++
}

// Release decrements o's lexical reference count. A no-op if o is already
// finalized. Panics if the count would go negative (invariant I1/§8).
func Release(o *Header) {
	if o.finalized {
		return
	}

	assert.That(o.refCount > 0, "release of object with ref_count <= 0 (type=%v)", o.typ)

	o.refCount--

	if o.refCount == 0 && o.keptCount == 0 {
		destroy(o)
	}
}

// Keep increments o's container-slot count.
func Keep(o *Header) {
	o.keptCount++
}

// Leave decrements o's container-slot count. A no-op if o is already
// finalized. Panics if the count would go negative.
func Leave(o *Header) {
	if o.finalized {
		return
	}

	assert.That(o.keptCount > 0, "leave of object with kept_count <= 0 (type=%v)", o.typ)

	o.keptCount--

	if o.refCount == 0 && o.keptCount == 0 {
		destroy(o)
	}
}

// destroy implements spec §4.2's destroy(o): outside a collection it
// finalizes and deallocates immediately; during a collection it defers
// reclamation to the sweep phase of the collection currently running.
func destroy(o *Header) {
	if collecting {
		// Mark as finalized and tag with markLast, the epoch this cycle
		// started from and has not yet bumped to (runCollection only
		// advances markLast after sweep finishes). markLast|1 can never
		// equal this cycle's visited value (epoch|1), so sweep's "not
		// reached this epoch" test also catches objects that die as a
		// side effect of another object's finalizer, reclaiming them in
		// the same cycle they died in instead of deferring to the next
		// one (spec §3's Lifecycles note: "let the sweep reclaim the
		// memory"). The finalized guard above stops phase 2 from running
		// this object's finalizer a second time.
		o.finalized = true
		o.mark = markLast | 1

		if o.finalize != nil {
			o.finalize()
		}

		return
	}

	o.finalized = true

	if o.finalize != nil {
		o.finalize()
	}

	unregisterObject(o)
}
