// Package object implements the core of SafeTypes2: the object header and
// global roster (C2), the dual-count lifetime protocol (C3), the
// reader/writer GC lock (C4), the mark-and-sweep collector (C5), and the
// iterator protocol containers use to expose their children to the
// collector (C6).
//
// Container packages (blob, omap, seq, extref) embed Header and supply the
// IterCreate/Finalize capabilities; pkg/object never imports them.
package object

// Type is the 16-bit type identifier from the closed taxonomy in spec §6.2.
// High nibbles encode type class; low nibbles encode subtype or width.
type Type uint16

// Type taxonomy. Exact values are required for on-wire compatibility with
// any future serialization, even though no wire format is mandated today.
const (
	TypeNull Type = 0x0000
	TypeBlob Type = 0x0001
	TypeStr  Type = 0x0002 // UTF-8 string
	TypeStr8 Type = 0x0003 // 8-bit string

	// Integers: 0x0100 | width, width in {1,2,4,8}.
	TypeInt8  Type = 0x0100 | 1
	TypeInt16 Type = 0x0100 | 2
	TypeInt32 Type = 0x0100 | 4
	TypeInt64 Type = 0x0100 | 8

	// Floats: 0x0200 | width, width in {2,4,8,16}.
	TypeFloat16 Type = 0x0200 | 2
	TypeFloat32 Type = 0x0200 | 4
	TypeFloat64 Type = 0x0200 | 8

	TypeMap    Type = 0x1001
	TypeSeq    Type = 0x1002
	TypeExtRef Type = 0x1003

	// appDefinedBand is the first value of the 0x2xxx application-defined
	// range named in spec §6.2.
	appDefinedBand Type = 0x2000
)

// IsAppDefined reports whether t falls in the 0x2xxx application-defined
// band.
func (t Type) IsAppDefined() bool {
	return t&0xF000 == appDefinedBand
}

// Iterator is the uniform traversal surface containers expose to the
// collector (C6): a flat stream of owned children, one Header per Next
// call (a map yields its key-blob's Header and then its value's Header
// per entry; a sequence yields one Header per element). No key or index
// is surfaced. See iterator.go for the status codes and the ChildIterator
// adapter containers build this from; seq.Sequence.Each is the walk that
// passes element indices.
type Iterator interface {
	// Next advances the iterator. Returns (child, +1) on success with an
	// unretained pointer into the container, (nil, 0) at end, and
	// (nil, -1) on error.
	Next() (child *Header, status int)
	// Final releases iterator resources.
	Final()
}

// Header sits at the front of every allocated SafeTypes2 value. It is
// embedded by value in each container type (Blob, Map, Sequence, ExtRef).
type Header struct {
	typ Type

	// finalized is the 2-valued "guard" flag from spec §3: once true, the
	// collector must not traverse this object and Release/Leave are no-ops.
	finalized bool

	// mark is the collector's epoch tag. Its low bit distinguishes
	// "marked but children not yet visited" (even) from "marked and
	// visited" (odd).
	mark uint32

	refCount  int32
	keptCount int32

	// iterCreate is nil for leaf types (blob, extref) which own no children.
	iterCreate func() Iterator
	finalize   func()

	// roster linkage (C2).
	gcPrev, gcNext *Header
}

// Init zero-initializes h for a freshly constructed object: sets its type,
// ref_count to 1, and registers it at the roster tail. Container
// constructors call this once, after wiring iterCreate/finalize, before
// handing the object to the caller.
func (h *Header) Init(typ Type, iterCreate func() Iterator, finalize func()) {
	h.typ = typ
	h.finalized = false
	h.mark = 0
	h.refCount = 1
	h.keptCount = 0
	h.iterCreate = iterCreate
	h.finalize = finalize
	h.gcPrev = nil
	h.gcNext = nil

	registerObject(h)
}

// Type returns the object's type tag.
func (h *Header) Type() Type { return h.typ }

// Finalized reports whether the object's finalizer has already run.
func (h *Header) Finalized() bool { return h.finalized }

// RefCount returns the current lexical reference count.
func (h *Header) RefCount() int32 { return h.refCount }

// KeptCount returns the current container-slot ("kept") count.
func (h *Header) KeptCount() int32 { return h.keptCount }

// CreateIterator returns a fresh iterator over h's owned children, or nil
// if h is a leaf type.
func (h *Header) CreateIterator() Iterator {
	if h.iterCreate == nil {
		return nil
	}

	return h.iterCreate()
}
