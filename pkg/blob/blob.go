// Package blob implements the resizable byte-buffer container (C7, spec
// §4.6): a blob owns a byte buffer of length L, stored inline for small
// payloads and on the heap otherwise, with map/unmap exposure tracking and
// a scratch staging region for byte-at-a-time appends.
//
// A blob owns no child objects: it is built without an iterCreate
// capability, so the CreateIterator it gets from object.Header returns nil
// and it is a leaf as far as the collector is concerned.
package blob

import (
	"bytes"

	"github.com/safetypes2/safetypes2/internal/assert"
	"github.com/safetypes2/safetypes2/pkg/object"
)

// maxInlineCap bounds the inline array backing small-buffer optimization.
// SetSmallBufferThreshold must stay below this.
const maxInlineCap = 64

// DefaultSmallBufferThreshold is the small-buffer threshold used unless
// SetSmallBufferThreshold is called. Spec §4.6 calls this "an
// implementation constant"; SPEC_FULL wires it to internal/config so a
// host application may tune it once at startup.
const DefaultSmallBufferThreshold = 23

var smallBufThreshold = DefaultSmallBufferThreshold

// SetSmallBufferThreshold changes the small-buffer threshold. Like
// object.SetThreadingEnabled, this is process-global state that must be
// set before any blobs are created.
func SetSmallBufferThreshold(n int) {
	assert.That(n > 0 && n < maxInlineCap, "small buffer threshold out of range: %d", n)

	smallBufThreshold = n
}

// Blob is a heap-allocated, reference-counted byte buffer.
type Blob struct {
	object.Header

	length int
	inline [maxInlineCap]byte
	heap   []byte // nil while using the inline array

	mapCount int32
	staging  []byte
}

// Create allocates a zero-filled blob of the given length with ref_count
// 1.
func Create(length int) *Blob {
	assert.That(length >= 0, "blob length must be >= 0, got %d", length)

	b := &Blob{}
	b.grow(length)
	b.Header.Init(object.TypeBlob, nil, nil)

	return b
}

// FromString is the convenience wrapper spec §4.6 calls from_cstring.
func FromString(s string) *Blob {
	b := Create(len(s))
	copy(b.backing(), s)
	b.writeSentinel()

	return b
}

// Len returns the blob's current length.
func (b *Blob) Len() int { return b.length }

// usingInline reports whether the blob's bytes live in the inline array.
func (b *Blob) usingInline() bool { return b.heap == nil }

// backing returns the full storage slice, length+1 bytes: the data
// followed by the sentinel byte.
func (b *Blob) backing() []byte {
	if b.usingInline() {
		return b.inline[:b.length+1]
	}

	return b.heap
}

// writeSentinel writes the NUL byte just past the last data byte. Spec
// §4.7/Open Questions resolves that this is refreshed on every Map call,
// not written lazily; callers must serialize writers externally exactly
// as they must for the data bytes themselves.
func (b *Blob) writeSentinel() {
	b.backing()[b.length] = 0
}

// grow resizes storage to hold newLen data bytes plus the sentinel,
// switching representation between inline and heap as the small-buffer
// threshold is crossed in either direction, and zero-filling any newly
// added bytes.
func (b *Blob) grow(newLen int) {
	oldLen := b.length

	if newLen <= smallBufThreshold {
		if !b.usingInline() {
			copy(b.inline[:], b.heap[:min(oldLen, newLen)])
			b.heap = nil
		} else if newLen > oldLen {
			for i := oldLen; i < newLen; i++ {
				b.inline[i] = 0
			}
		}
	} else {
		newHeap := make([]byte, newLen+1)

		if b.usingInline() {
			copy(newHeap, b.inline[:min(oldLen, newLen)])
		} else {
			copy(newHeap, b.heap[:min(oldLen, newLen)])
		}

		b.heap = newHeap
	}

	b.length = newLen
	b.writeSentinel()
}

// Map returns a range-checked slice into the blob's storage, valid until
// Unmap, and increments map_count. map(b, len(b), 0) succeeds (a
// one-past-end pointer into the sentinel); map(b, len(b)+1, 0) fails —
// spec §9's resolved Open Question.
func (b *Blob) Map(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > b.length {
		return nil, ErrOutOfRange
	}

	b.mapCount++
	b.writeSentinel()

	return b.backing()[offset : offset+length], nil
}

// Unmap decrements map_count.
func (b *Blob) Unmap() {
	assert.That(b.mapCount > 0, "unmap without a matching map")
	b.mapCount--
}

// WeakMap returns the buffer pointer without bumping map_count. The
// caller must not resize the blob while holding it.
func (b *Blob) WeakMap() []byte {
	b.writeSentinel()
	return b.backing()[:b.length]
}

// Truncate resizes the blob to length, failing while any Map is
// outstanding. Shrinking retains the existing prefix.
func (b *Blob) Truncate(length int) error {
	assert.That(length >= 0, "blob truncate length must be >= 0, got %d", length)

	if b.mapCount > 0 {
		return ErrMapped
	}

	b.grow(length)

	return nil
}

// Compare performs a lexicographic byte-order total ordering with
// prefix-shorter-first tiebreak, returning {-1, 0, 1}.
func Compare(a, b *Blob) int {
	return bytes.Compare(a.backing()[:a.length], b.backing()[:b.length])
}

// AppendByte stages a single byte for later AppendFinish, without
// reallocating the main buffer per byte.
func (b *Blob) AppendByte(c byte) {
	b.staging = append(b.staging, c)
}

// AppendBytes stages p for later AppendFinish.
func (b *Blob) AppendBytes(p []byte) {
	b.staging = append(b.staging, p...)
}

// AppendFinish flushes the staging buffer into the main buffer.
func (b *Blob) AppendFinish() {
	if len(b.staging) == 0 {
		return
	}

	oldLen := b.length
	b.grow(oldLen + len(b.staging))
	copy(b.backing()[oldLen:], b.staging)
	b.staging = b.staging[:0]
	b.writeSentinel()
}
