package object_test

import "github.com/safetypes2/safetypes2/pkg/object"

// testObj is a minimal object.Header embedder used to exercise C2-C6
// (registry, dual counts, the GC lock, the collector, the iterator
// protocol) without depending on any concrete container package. A leaf
// testObj has no iterCreate capability, same as pkg/blob and pkg/extref;
// a container testObj exposes whatever children were added via keepChild.
//
// Tests that call Collect or compare RosterLen deltas do not call
// t.Parallel: the roster and the collector are process-global, so a
// collection started by one test would reclaim another test's transient
// garbage and shift its roster count.
type testObj struct {
	object.Header

	children []*object.Header
	onFinal  func()
}

func newLeaf(onFinal func()) *testObj {
	o := &testObj{onFinal: onFinal}
	o.Header.Init(object.TypeNull, nil, o.finalize)

	return o
}

func newContainer(onFinal func()) *testObj {
	o := &testObj{onFinal: onFinal}
	o.Header.Init(object.TypeNull, o.iterate, o.finalize)

	return o
}

func (o *testObj) finalize() {
	if o.onFinal != nil {
		o.onFinal()
	}
}

func (o *testObj) iterate() object.Iterator {
	i := 0

	return object.NewChildIterator(func() (*object.Header, bool) {
		if i >= len(o.children) {
			return nil, false
		}

		c := o.children[i]
		i++

		return c, true
	})
}

// keepChild wires c as one of o's owned children using keep/leave
// semantics (spec I4: container slots never use retain/release).
func (o *testObj) keepChild(c *object.Header) {
	object.Keep(c)
	o.children = append(o.children, c)
}
