package util

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashString returns the 64-bit hash of s.
func HashString(s string) uint64 { return xxhash.Sum64String(s) }

// HashFold returns the hash of s folded to lower case,
// so that strings equal under [EqFold] for ASCII hash the same.
func HashFold(s string) uint64 { return xxhash.Sum64String(strings.ToLower(s)) }

// HashCombine mixes hashes in order.
func HashCombine(hs ...uint64) uint64 {
	d := xxhash.New()
	var b [8]byte
	for _, h := range hs {
		binary.LittleEndian.PutUint64(b[:], h)
		d.Write(b[:]) //nolint:errcheck
	}
	return d.Sum64()
}

// HashUnordered mixes hashes independently of their order.
// Duplicates still contribute once per occurrence.
func HashUnordered(hs ...uint64) uint64 {
	var sum uint64
	for _, h := range hs {
		sum += HashCombine(h)
	}
	return sum
}
