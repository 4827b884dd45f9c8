package object

// markLast is the epoch counter. It starts at 0 and increases by 2 per
// collection so that (markLast, markLast|1) form a pair per cycle.
var markLast uint32

// collecting is true for the duration of runCollection, observed by
// destroy() to select the GC-aware destruction path. Only ever mutated by
// the single operator thread, which by construction is the only thread
// touching any object at this point (every other thread is blocked inside
// the reader/writer lock), so no additional synchronization is needed —
// matching spec §5's "no atomics are needed because the writer lock
// excludes collection".
var collecting bool

// runCollection executes one full mark-and-sweep cycle (C5, spec §4.4).
// Called only while holding exclusive operator status from gclock.go.
func runCollection() {
	collecting = true
	defer func() { collecting = false }()

	epoch := markLast + 2

	seedAndPropagate(epoch)
	finalizeUnreachable(epoch)
	sweep(epoch)

	markLast = epoch
}

// seedAndPropagate is phase 1: transitive closure of reachability from
// lexical roots (ref_count > 0), by repeated roster passes until a full
// pass makes no new promotions.
func seedAndPropagate(epoch uint32) {
	visited := epoch | 1

	for {
		promoted := false

		walkRoster(func(o *Header) {
			if o.refCount > 0 && o.mark != visited {
				o.mark = epoch
			}
		})

		walkRoster(func(o *Header) {
			if o.mark != epoch {
				return
			}

			it := o.CreateIterator()
			if it != nil {
				for {
					child, status := it.Next()
					if status <= 0 {
						break
					}

					if child.mark != epoch && child.mark != visited {
						child.mark = epoch
					}
				}

				it.Final()
			}

			o.mark |= 1
			promoted = true
		})

		if !promoted {
			return
		}
	}
}

// finalizeUnreachable is phase 2: any object not reached this epoch is
// finalized exactly once.
func finalizeUnreachable(epoch uint32) {
	visited := epoch | 1

	walkRoster(func(o *Header) {
		if o.mark|1 == visited || o.finalized {
			return
		}

		o.finalized = true

		if o.finalize != nil {
			o.finalize()
		}
	})
}

// sweep is phase 3: every object not reached this epoch is removed from
// the roster and its memory reclaimed. Repeats from head until a full
// traversal removes nothing, since removal shifts list linkage.
func sweep(epoch uint32) {
	visited := epoch | 1

	for {
		removedAny := false

		roster.mu.Lock()

		h := roster.head
		for h != nil {
			next := h.gcNext

			if h.mark|1 != visited {
				unregisterObjectLocked(h)
				removedAny = true
			}

			h = next
		}

		roster.mu.Unlock()

		if !removedAny {
			return
		}
	}
}
