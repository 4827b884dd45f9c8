package seq

import "github.com/safetypes2/safetypes2/pkg/object"

// Whence selects the reference point for Seek.
type Whence int

const (
	SeekSet Whence = iota
	SeekEnd
	SeekCur
)

type node struct {
	prev, next *node
	val        *object.Header
}

// Sequence is a heap-allocated, reference-counted doubly-linked list.
type Sequence struct {
	object.Header

	head, tail *node
	length     int

	cursor   *node
	position int
}

// Create allocates an empty sequence with ref_count 1, cursor at
// position 0 (the tail sentinel, since the sequence is empty).
func Create() *Sequence {
	s := &Sequence{}

	s.head = &node{}
	s.tail = &node{}
	s.head.next = s.tail
	s.tail.prev = s.head
	s.cursor = s.tail

	s.Header.Init(object.TypeSeq, s.CreateIterator, s.releaseAll)

	return s
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return s.length }

// Position returns the cursor's current 0-based index, in [0, Len()].
func (s *Sequence) Position() int { return s.position }

func linkBefore(c, n *node) {
	p := c.prev
	n.prev = p
	n.next = c
	p.next = n
	c.prev = n
}

// Insert places obj immediately before the cursor. The cursor continues
// to refer to the same element afterward; its index becomes one higher.
func (s *Sequence) Insert(obj *object.Header, setter object.Setter) {
	n := &node{val: obj}
	linkBefore(s.cursor, n)
	setter.Apply(obj)
	s.length++
	s.position++
}

// Push places obj immediately before the cursor, then advances the
// cursor past it. Structurally this is the same operation as Insert: the
// cursor pointer already refers to the node one past the newly inserted
// element (the effect "advance cursor past the new element" describes),
// so the two only differ in calling convention, not in the state they
// leave behind.
func (s *Sequence) Push(obj *object.Header, setter object.Setter) {
	s.Insert(obj, setter)
}

// Shift removes the element at the cursor, transferring ownership to the
// caller: internally keep becomes retain and the container's kept_count
// is dropped. The cursor advances to the following element. Returns
// object.Empty if the cursor is at the tail sentinel.
func (s *Sequence) Shift() (*object.Header, int) {
	if s.cursor == s.tail {
		return nil, object.Empty
	}

	n := s.cursor
	val := n.val

	n.prev.next = n.next
	n.next.prev = n.prev
	s.cursor = n.next
	s.length--

	object.Retain(val)
	object.Leave(val)

	return val, object.Success
}

// Pop backs the cursor up by one and shifts. Kept for interface
// compatibility; see doc.go.
func (s *Sequence) Pop() (*object.Header, int) {
	if _, err := s.Seek(-1, SeekCur); err != nil {
		return nil, object.Empty
	}

	return s.Shift()
}

// Get reads the element at the cursor without mutating any counts.
// Returns object.Empty if the cursor is at the tail sentinel.
func (s *Sequence) Get() (*object.Header, int) {
	if s.cursor == s.tail {
		return nil, object.Empty
	}

	return s.cursor.val, object.Success
}

// Put replaces the element at the cursor. Returns object.Empty if the
// cursor is at the tail sentinel.
func (s *Sequence) Put(obj *object.Header, setter object.Setter) int {
	if s.cursor == s.tail {
		return object.Empty
	}

	old := s.cursor.val
	setter.Apply(obj)
	object.Leave(old)
	s.cursor.val = obj

	return object.Success
}

// Seek repositions the cursor relative to whence and returns the new
// position, or ErrOutOfRange if the target falls outside [0, Len()].
func (s *Sequence) Seek(offset int, whence Whence) (int, error) {
	var target int

	switch whence {
	case SeekSet:
		target = offset
	case SeekEnd:
		target = s.length + offset
	case SeekCur:
		target = s.position + offset
	}

	if target < 0 || target > s.length {
		return -1, ErrOutOfRange
	}

	for s.position < target {
		s.cursor = s.cursor.next
		s.position++
	}

	for s.position > target {
		s.cursor = s.cursor.prev
		s.position--
	}

	return s.position, nil
}

// Sort performs a stable insertion sort in place, O(n^2) worst case,
// using less as the ordering predicate. Only element values move; node
// identity and the cursor's position are left alone.
func (s *Sequence) Sort(less func(a, b *object.Header) bool) {
	vals := make([]*object.Header, 0, s.length)
	for n := s.head.next; n != s.tail; n = n.next {
		vals = append(vals, n.val)
	}

	for i := 1; i < len(vals); i++ {
		v := vals[i]

		j := i - 1
		for j >= 0 && less(v, vals[j]) {
			vals[j+1] = vals[j]
			j--
		}

		vals[j+1] = v
	}

	n := s.head.next
	for _, v := range vals {
		n.val = v
		n = n.next
	}
}

// Each walks the sequence front-to-back, calling fn with each element's
// 0-based index and header until fn returns false or the sequence is
// exhausted.
func (s *Sequence) Each(fn func(index int, h *object.Header) bool) {
	i := 0

	for n := s.head.next; n != s.tail; n = n.next {
		if !fn(i, n.val) {
			return
		}

		i++
	}
}

func (s *Sequence) releaseAll() {
	for n := s.head.next; n != s.tail; n = n.next {
		object.Leave(n.val)
	}
}

// CreateIterator returns a front-to-back walk over element headers, for
// the collector's traversal.
func (s *Sequence) CreateIterator() object.Iterator {
	cur := s.head.next

	next := func() (*object.Header, bool) {
		if cur == s.tail {
			return nil, false
		}

		v := cur.val
		cur = cur.next

		return v, true
	}

	return object.NewChildIterator(next)
}
