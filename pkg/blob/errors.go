package blob

import "errors"

// Sentinel errors returned by blob operations. Classify with errors.Is.
var (
	// ErrOutOfRange indicates a Map offset or length falls outside the
	// blob's current bounds.
	ErrOutOfRange = errors.New("blob: out of range")
	// ErrMapped indicates Truncate was called while map_count > 0.
	ErrMapped = errors.New("blob: mapped")
)
