// Package seq implements the sequence container (C9, spec §4.8): a
// cursor-bearing doubly-linked list with permanent head/tail sentinels.
//
// Pop is kept for interface compatibility with the source design, which
// documents it as "redundant and anti-logical": it is defined purely as
// Seek(-1, SeekCur) followed by Shift, and never does anything a caller
// could not do with those two calls directly.
package seq
