package seq

import "errors"

// ErrOutOfRange indicates a Seek target falls outside [0, length].
var ErrOutOfRange = errors.New("seq: out of range")
