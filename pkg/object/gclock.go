package object

import (
	"sync"

	"github.com/safetypes2/safetypes2/internal/assert"
)

// lockState is the GC lock's state machine (spec §4.3).
type lockState int

const (
	stateFree lockState = iota
	stateGCWaiting
	stateGCOperating
	stateGCCompleting
)

// gcLock is the central contended structure backing the reader/writer GC
// lock: one mutex, two condition variables, a state variable, and the two
// counters the rewind property depends on.
type gcLock struct {
	mu sync.Mutex

	// waitCond wakes threads blocked on the gc_pending==thr_count
	// predicate (collector entry) and on the final "all waiters reached
	// gc-completing" barrier (collector exit).
	waitCond *sync.Cond
	// doneCond wakes reader-lock acquirers parked on a non-free/gc-waiting
	// state, and non-operator Collect callers waiting for gc-operating to
	// end.
	doneCond *sync.Cond

	state lockState

	// thrCount counts threads currently at reader-lock recursion depth
	// >= 1, not acquisitions.
	thrCount int

	// gcPending counts reader-holding threads that are also inside
	// Collect (the rewind bookkeeping).
	gcPending int

	// waiters counts threads currently inside Collect, used as the exit
	// barrier so the whole collection is atomic as observed by mutators.
	waiters int

	singleThreaded bool
}

var gc = newGCLock()

func newGCLock() *gcLock {
	g := &gcLock{}
	g.waitCond = sync.NewCond(&g.mu)
	g.doneCond = sync.NewCond(&g.mu)

	return g
}

// SetThreadingEnabled toggles the single-threaded fast path. Valid only
// before any goroutine other than the caller has touched the object
// system (spec §4.3 "Single-threaded mode").
func SetThreadingEnabled(enabled bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	gc.singleThreaded = !enabled
}

// Reader is a mutator's handle onto the reader lock. Go has no public
// thread/goroutine identity, so spec §4.3's "per-thread-local recursion
// counter" is represented explicitly: each logical mutator thread owns one
// Reader and must not share it across goroutines running concurrently
// (this is the Go-native reading of "per-thread", see DESIGN.md OQ-1).
type Reader struct {
	depth int
}

// NewReader creates a fresh, unlocked Reader handle.
func NewReader() *Reader {
	return &Reader{}
}

// Depth reports the reader's current recursion depth (0 means not held).
func (r *Reader) Depth() int { return r.depth }

// Lock acquires the reader lock, recursively. A thread may proceed iff
// the lock state is free or gc-waiting — never during gc-operating or
// gc-completing.
func (r *Reader) Lock() {
	if gc.singleThreaded {
		r.depth++
		return
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()

	for !(gc.state == stateFree || gc.state == stateGCWaiting) {
		gc.doneCond.Wait()
	}

	r.depth++
	if r.depth == 1 {
		gc.thrCount++
	}
}

// Unlock releases one level of reader-lock recursion.
func (r *Reader) Unlock() {
	if gc.singleThreaded {
		assert.That(r.depth > 0, "reader unlock without matching lock")
		r.depth--

		return
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()

	assert.That(r.depth > 0, "reader unlock without matching lock")

	r.depth--
	if r.depth == 0 {
		gc.thrCount--

		if gc.state == stateGCWaiting && gc.gcPending == gc.thrCount {
			gc.waitCond.Broadcast()
		}
	}
}

// Collect requests a collection cycle. If r already holds the reader lock
// (r.Depth() > 0), the rewind property applies: collection blocks until
// every other reader-holding thread has either released or also entered
// Collect, and r resumes logically holding the reader lock at the same
// depth once Collect returns.
//
// Exactly one caller among concurrent Collect callers actually runs the
// mark-and-sweep collector (the "operator"); the rest block until it
// finishes. Every Collect call returns only after the whole collection
// is complete, so the set of Collect() invocations is totally ordered
// from the perspective of every caller.
func (r *Reader) Collect() {
	if gc.singleThreaded {
		gc.state = stateGCOperating
		runCollection()
		gc.state = stateFree

		return
	}

	gc.mu.Lock()

	if gc.state == stateFree {
		gc.state = stateGCWaiting
	}

	gc.waiters++

	amHolding := r.depth > 0
	if amHolding {
		gc.gcPending++
	}

	if gc.gcPending == gc.thrCount {
		gc.waitCond.Broadcast()
	}

	for gc.gcPending != gc.thrCount {
		gc.waitCond.Wait()
	}

	isOperator := false
	if gc.state == stateGCWaiting {
		gc.state = stateGCOperating
		isOperator = true
	}

	if isOperator {
		gc.mu.Unlock()
		runCollection()
		gc.mu.Lock()

		gc.state = stateGCCompleting
		gc.doneCond.Broadcast()
	} else {
		for gc.state == stateGCOperating {
			gc.doneCond.Wait()
		}
	}

	gc.waiters--
	if gc.waiters == 0 {
		gc.waitCond.Broadcast()
	}

	for gc.waiters != 0 {
		gc.waitCond.Wait()
	}

	if amHolding {
		gc.gcPending--
	}

	if gc.state == stateGCCompleting {
		gc.state = stateFree
		gc.waitCond.Broadcast()
		gc.doneCond.Broadcast()
	}

	gc.mu.Unlock()
}
