package object

// Iteration status codes (spec §6.1's access return codes, reused by C6).
const (
	IterError = -1
	IterDone  = 0
	IterOK    = 1
)

// Iterable is the method set through which a value exposes its children
// to the collector. Every type embedding Header satisfies it via the
// promoted Header.CreateIterator; for leaf types (blob, extref), which have
// no iterCreate capability, that method returns nil.
type Iterable interface {
	CreateIterator() Iterator
}

// ChildIterator adapts a sequence of *Header values (produced by a
// container's own internal walk) into the object.Iterator the collector
// consumes. Containers build one of these inside their iterCreate
// capability rather than re-implementing the walk twice.
type ChildIterator struct {
	next func() (*Header, bool)
}

// NewChildIterator builds a ChildIterator from a closure that returns the
// next child and whether one was available. next must return (nil, false)
// once exhausted and thereafter.
func NewChildIterator(next func() (*Header, bool)) *ChildIterator {
	return &ChildIterator{next: next}
}

// Next implements Iterator.
func (c *ChildIterator) Next() (*Header, int) {
	h, ok := c.next()
	if !ok {
		return nil, IterDone
	}

	return h, IterOK
}

// Final implements Iterator. ChildIterator holds no resources to release.
func (c *ChildIterator) Final() {}
