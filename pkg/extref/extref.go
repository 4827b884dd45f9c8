// Package extref implements the external-reference container (C10, spec
// §4.9): a single-pointer wrapper around externally managed memory, with
// an optional finalizer callback invoked when the reference's counts reach
// zero.
//
// An ExtRef owns no child SafeTypes2 objects: it is built without an
// iterCreate capability, so the CreateIterator it gets from object.Header
// returns nil and it is a leaf as far as the collector is concerned, same
// as pkg/blob.
package extref

import "github.com/safetypes2/safetypes2/pkg/object"

// Finalizer is called with the wrapped value exactly once, when the
// reference's ref_count and kept_count both reach zero. A reference
// created without a finalizer is a weak reference: the value is simply
// forgotten at that point.
type Finalizer func(value any)

// ExtRef wraps a single externally managed value (a raw pointer, an
// *os.File, a socket, or any other host-owned resource) and forgets or
// finalizes it according to the dual-count lifetime protocol (C3) that
// governs every SafeTypes2 object.
//
// spec §4.9 describes the payload as "a raw pointer"; here it is
// represented as any so a finalizer can deal with whatever Go-managed
// external resource the embedder wants to attach (see DESIGN.md OQ-5).
type ExtRef struct {
	object.Header

	value     any
	finalizer Finalizer
}

// New wraps value in a strong external reference: finalizer is called
// with value when the reference is destroyed. A nil finalizer makes this
// a weak reference (spec §4.9).
func New(value any, finalizer Finalizer) *ExtRef {
	e := &ExtRef{value: value, finalizer: finalizer}
	e.Header.Init(object.TypeExtRef, nil, e.runFinalizer)

	return e
}

// Value returns the wrapped value. It remains valid until the reference
// is destroyed, regardless of whether a finalizer is registered.
func (e *ExtRef) Value() any { return e.value }

// HasFinalizer reports whether e is a strong reference (finalizer
// registered) as opposed to a weak one.
func (e *ExtRef) HasFinalizer() bool { return e.finalizer != nil }

// runFinalizer is the object.Header finalize capability: it invokes the
// registered finalizer once, or does nothing for a weak reference, and
// then drops the held value so it can be collected independently of the
// ExtRef's own memory.
func (e *ExtRef) runFinalizer() {
	if e.finalizer != nil {
		e.finalizer(e.value)
	}

	e.value = nil
}
