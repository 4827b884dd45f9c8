package omap

import "errors"

// ErrTrieDepthExhausted indicates a key collided with another key all the
// way down to the trie's maximum depth (astronomically unlikely for a
// 128-bit keyed PRF; spec §4.7).
var ErrTrieDepthExhausted = errors.New("omap: trie depth exhausted")
