// Package omap implements the map container (C8, spec §4.7): a 256-ary
// trie keyed by the bytes of a 16-byte SipHash digest of the map key.
//
// Unset does not collapse interior nodes once they go empty. This is a
// conscious simplification carried over unchanged from the source
// design: collapsing would require tracking a live-child count per
// interior node and handling the recursive collapse-on-empty case, for a
// benefit that only matters under sustained insert/delete churn on the
// same prefix. A long-running process that repeatedly sets and unsets
// keys sharing a hash prefix will accumulate empty interior nodes that
// are never freed short of the map itself being destroyed.
package omap
