package siphash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safetypes2/safetypes2/internal/siphash"
)

// Sanity checks only (spec treats SipHash as an opaque black-box PRF,
// out of core scope): deterministic, key-sensitive, length-sensitive.

func Test_Sum128_DeterministicForSameInput(t *testing.T) {
	t.Parallel()

	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	data := []byte("the quick brown fox")

	a := siphash.Sum128(key, data)
	b := siphash.Sum128(key, data)

	assert.Equal(t, a, b)
}

func Test_Sum128_DifferentKeysDiffer(t *testing.T) {
	t.Parallel()

	var keyA, keyB [16]byte
	keyB[0] = 1

	data := []byte("fixed message")

	assert.NotEqual(t, siphash.Sum128(keyA, data), siphash.Sum128(keyB, data))
}

func Test_Sum128_DifferentLengthsDiffer(t *testing.T) {
	t.Parallel()

	var key [16]byte

	assert.NotEqual(t, siphash.Sum128(key, []byte("a")), siphash.Sum128(key, []byte("aa")))
}

func Test_Sum128_EmptyInput(t *testing.T) {
	t.Parallel()

	var key [16]byte

	out := siphash.Sum128(key, nil)
	assert.Len(t, out, 16)
}
