package object

import "sync"

// roster is the global doubly-linked registry of all live objects (C2).
// It is a linked list, not an array, because the collector walks it and
// individual deallocations must be O(1) regardless of epoch.
var roster = struct {
	mu         sync.Mutex
	head, tail *Header
	len        int
}{}

// registerObject appends h to the roster tail under the roster's
// short-term mutex.
func registerObject(h *Header) {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	h.gcPrev = roster.tail
	h.gcNext = nil

	if roster.tail != nil {
		roster.tail.gcNext = h
	} else {
		roster.head = h
	}

	roster.tail = h
	roster.len++
}

// unregisterObject splices h out of the roster under the same mutex.
func unregisterObject(h *Header) {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	unregisterObjectLocked(h)
}

// unregisterObjectLocked assumes roster.mu is already held.
func unregisterObjectLocked(h *Header) {
	if h.gcPrev != nil {
		h.gcPrev.gcNext = h.gcNext
	} else if roster.head == h {
		roster.head = h.gcNext
	}

	if h.gcNext != nil {
		h.gcNext.gcPrev = h.gcPrev
	} else if roster.tail == h {
		roster.tail = h.gcPrev
	}

	h.gcPrev = nil
	h.gcNext = nil
	roster.len--
}

// RosterLen returns the number of currently live allocations. Intended for
// diagnostics (tests, the REPL's "roster" command) — not part of the
// collector's hot path.
func RosterLen() int {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	return roster.len
}

// walkRoster calls fn for every object currently in the roster, in
// roster order, under the roster mutex held for the whole walk. fn must
// not register or unregister objects.
func walkRoster(fn func(h *Header)) {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	for h := roster.head; h != nil; h = h.gcNext {
		fn(h)
	}
}
