package object_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetypes2/safetypes2/pkg/object"
)

// Test_Reader_Lock_NestsToSameDepth confirms plain recursive locking: a
// Reader may call Lock() several times in a row and must Unlock() the
// same number of times before it is considered released.
func Test_Reader_Lock_NestsToSameDepth(t *testing.T) {
	t.Parallel()

	r := object.NewReader()
	require.Equal(t, 0, r.Depth())

	r.Lock()
	r.Lock()
	r.Lock()
	assert.Equal(t, 3, r.Depth())

	r.Unlock()
	r.Unlock()
	assert.Equal(t, 1, r.Depth())

	r.Unlock()
	assert.Equal(t, 0, r.Depth())
}

// Test_Reader_Unlock_WithoutLock_Panics guards the recursion-depth
// invariant the same way refcount_test.go guards ref/kept counts.
func Test_Reader_Unlock_WithoutLock_Panics(t *testing.T) {
	t.Parallel()

	r := object.NewReader()
	assert.Panics(t, func() { r.Unlock() })
}

// Test_Collect_FromWithinHeldReaderLock_Rewinds is the rewind property
// (C4): a thread already holding the reader lock can call Collect()
// without releasing its logical hold, and resumes at the same depth
// once the collection completes.
func Test_Collect_FromWithinHeldReaderLock_Rewinds(t *testing.T) {
	r := object.NewReader()
	r.Lock()
	r.Lock()

	require.Equal(t, 2, r.Depth())

	r.Collect()

	assert.Equal(t, 2, r.Depth())

	r.Unlock()
	r.Unlock()
}

// Test_Collect_Concurrent_FiveReadersNestedDepths drives five goroutines
// through nested reader-lock acquisition (depths 1 to 3) each calling
// Collect from inside its held lock, mirroring the concurrency scenario
// of five threads with mixed nesting all demanding a collection. Every
// Collect() call must return, and each goroutine must find its depth
// unchanged after Collect.
func Test_Collect_Concurrent_FiveReadersNestedDepths(t *testing.T) {
	const goroutines = 5

	depths := []int{1, 2, 3, 2, 1}

	var wg sync.WaitGroup
	var collectCalls int64

	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		depth := depths[i]

		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			r := object.NewReader()

			for d := 0; d < depth; d++ {
				r.Lock()
			}

			require.Equal(t, depth, r.Depth())

			r.Collect()
			atomic.AddInt64(&collectCalls, 1)

			require.Equal(t, depth, r.Depth())

			for d := 0; d < depth; d++ {
				r.Unlock()
			}
		}()
	}

	close(start)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("collect-under-contention deadlocked")
	}

	assert.EqualValues(t, goroutines, collectCalls)
}

// Test_Collect_ConcurrentNonHolders_AllReturn covers callers that invoke
// Collect without ever taking the reader lock first (the common REPL
// "collect" command path): they must not block the operator selection
// or leave the lock wedged for the next acquirer.
func Test_Collect_ConcurrentNonHolders_AllReturn(t *testing.T) {
	const callers = 4

	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()

			r := object.NewReader()
			r.Collect()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent non-holder collects deadlocked")
	}

	// The lock must be free afterward: a plain lock/unlock must not block.
	r := object.NewReader()
	r.Lock()
	r.Unlock()
}
