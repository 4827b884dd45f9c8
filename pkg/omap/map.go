package omap

import (
	"github.com/safetypes2/safetypes2/internal/siphash"
	"github.com/safetypes2/safetypes2/pkg/blob"
	"github.com/safetypes2/safetypes2/pkg/object"
)

// maxDepth is the trie's maximum descent depth, one per byte of the
// 128-bit digest.
const maxDepth = 16

var processKey [16]byte

// SetHashKey sets the process-wide SipHash key used by every map, zero-
// padded or truncated to 16 bytes. All maps in the process share it;
// applications wanting isolation must set it before any maps are created
// and treat it as immutable afterward (spec §4.7 "Global keying").
func SetHashKey(key []byte) {
	var k [16]byte
	copy(k[:], key)
	processKey = k
}

type slotKind int

const (
	slotEmpty slotKind = iota
	slotTerminal
	slotInterior
)

type slot struct {
	kind  slotKind
	key   *blob.Blob
	val   *object.Header
	child *node
}

type node struct {
	slots [256]slot
}

// Map is a heap-allocated, reference-counted associative container.
type Map struct {
	object.Header

	root   *node
	length int
}

// Create allocates an empty map with ref_count 1.
func Create() *Map {
	m := &Map{}
	m.Header.Init(object.TypeMap, m.CreateIterator, m.releaseAll)

	return m
}

// Len returns the number of entries currently stored.
func (m *Map) Len() int { return m.length }

func digestOf(key *blob.Blob) [16]byte {
	return siphash.Sum128(processKey, key.WeakMap())
}

// ownedKeyCopy allocates a fresh blob holding a copy of key's bytes and
// converts the map's hold on it from a lexical reference to a container
// slot (spec §4.2's "gave" pattern applied to an object the map itself
// just created): a terminal slot "owns its key" the same way it holds a
// kept reference to its value (spec §4.7), so both must use kept_count,
// never ref_count — mixing the two disciplines on the same object is the
// defect spec §3/I4 calls out.
func ownedKeyCopy(key *blob.Blob) *blob.Blob {
	copyOf := blob.FromString(string(key.WeakMap()))
	object.Gave.Apply(&copyOf.Header)

	return copyOf
}

// Set stores val under key, applying setter semantics to val. On a
// first-time key, the key is copied into a fresh, map-owned blob (spec
// §4.7 "copy the key into a fresh blob"). On a collision between
// non-equal keys sharing a hash prefix, a fresh interior node is
// inserted and the trie grows; if no free slot exists by depth 16,
// ErrTrieDepthExhausted is returned and val is left untouched.
func (m *Map) Set(key *blob.Blob, val *object.Header, setter object.Setter) error {
	digest := digestOf(key)

	if m.root == nil {
		m.root = &node{}
	}

	n := m.root

	for level := 0; level < maxDepth; level++ {
		s := &n.slots[digest[level]]

		switch s.kind {
		case slotEmpty:
			s.kind = slotTerminal
			s.key = ownedKeyCopy(key)
			s.val = val
			setter.Apply(val)
			m.length++

			return nil

		case slotTerminal:
			if blob.Compare(s.key, key) == 0 {
				setter.Apply(val)
				object.Leave(s.val)
				s.val = val

				return nil
			}

			if level == maxDepth-1 {
				return ErrTrieDepthExhausted
			}

			existingKey, existingVal := s.key, s.val
			existingDigest := digestOf(existingKey)

			child := &node{}
			child.slots[existingDigest[level+1]] = slot{
				kind: slotTerminal,
				key:  existingKey,
				val:  existingVal,
			}

			s.kind = slotInterior
			s.key = nil
			s.val = nil
			s.child = child

			n = child

		case slotInterior:
			n = s.child
		}
	}

	return ErrTrieDepthExhausted
}

// Get returns the value stored under key, or object.Empty if no such
// entry exists.
func (m *Map) Get(key *blob.Blob) (*object.Header, int) {
	if m.root == nil {
		return nil, object.Empty
	}

	digest := digestOf(key)
	n := m.root

	for level := 0; level < maxDepth; level++ {
		s := &n.slots[digest[level]]

		switch s.kind {
		case slotEmpty:
			return nil, object.Empty
		case slotTerminal:
			if blob.Compare(s.key, key) == 0 {
				return s.val, object.Success
			}

			return nil, object.Empty
		case slotInterior:
			n = s.child
		}
	}

	return nil, object.Empty
}

// Unset removes the entry stored under key, releasing the map's
// internal key copy and leaving the stored value. It does not collapse
// any interior node left empty by the removal (see doc.go).
func (m *Map) Unset(key *blob.Blob) int {
	if m.root == nil {
		return object.Empty
	}

	digest := digestOf(key)
	n := m.root

	for level := 0; level < maxDepth; level++ {
		s := &n.slots[digest[level]]

		switch s.kind {
		case slotEmpty:
			return object.Empty
		case slotTerminal:
			if blob.Compare(s.key, key) != 0 {
				return object.Empty
			}

			object.Leave(&s.key.Header)
			object.Leave(s.val)
			*s = slot{}
			m.length--

			return object.Success
		case slotInterior:
			n = s.child
		}
	}

	return object.Empty
}

// releaseAll is the map's finalizer: it releases every internally-owned
// key copy and leaves every stored value, run once when the map itself
// is destroyed.
func (m *Map) releaseAll() {
	if m.root == nil {
		return
	}

	var walk func(n *node)
	walk = func(n *node) {
		for i := range n.slots {
			s := &n.slots[i]

			switch s.kind {
			case slotTerminal:
				object.Leave(&s.key.Header)
				object.Leave(s.val)
			case slotInterior:
				walk(s.child)
			}
		}
	}

	walk(m.root)
}

type cursorFrame struct {
	n   *node
	idx int
}

// CreateIterator returns a depth-first walk over the trie's slots (spec
// §4.7 "Iteration"): for each entry it yields the key blob's header
// followed by the value's header.
func (m *Map) CreateIterator() object.Iterator {
	var stack []*cursorFrame
	if m.root != nil {
		stack = append(stack, &cursorFrame{n: m.root})
	}

	var pendingValue *object.Header

	next := func() (*object.Header, bool) {
		if pendingValue != nil {
			v := pendingValue
			pendingValue = nil

			return v, true
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.idx >= 256 {
				stack = stack[:len(stack)-1]

				continue
			}

			s := &top.n.slots[top.idx]
			top.idx++

			switch s.kind {
			case slotEmpty:
				continue
			case slotInterior:
				stack = append(stack, &cursorFrame{n: s.child})
			case slotTerminal:
				pendingValue = s.val

				return &s.key.Header, true
			}
		}

		return nil, false
	}

	return object.NewChildIterator(next)
}
