// Package crypto provides the cryptographic primitive layer for the PSI
// protocol: keyless BLAKE2b-256 hashing, X25519 scalar multiplication, and
// Elligator2 wrapping of Curve25519 public keys.
//
// Spec reference: spec.md §2.1, §4.2, §4.4.
package crypto

import (
	"golang.org/x/crypto/blake2b"
)

// HashSize is the BLAKE2b-256 digest size in bytes.
const HashSize = 32

// H1 hashes a single 32-byte element with keyless BLAKE2b-256.
// This implements H_1 from spec.md §2.1.
func H1(x [32]byte) [32]byte {
	return blake2b.Sum256(x[:])
}

// H2 hashes the concatenation of two 32-byte values with BLAKE2b-256.
// This implements H_2 from spec.md §2.1, and is also the Merkle tree's
// node-combining function (spec.md §4.3).
func H2(a, b [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return blake2b.Sum256(buf[:])
}

// HBin maps a 32-byte digest to a bin index in [0, bins).
// This implements H_bin from spec.md §2.1: the first 8 bytes of h,
// interpreted as a little-endian u64, reduced mod bins.
//
// HBin does not hash its input. The protocol's double-hashing quirk
// (spec.md §4.5 step 2, §4.7 step 3/finalization: "H_1 is applied, then
// BLAKE2b is applied once more before H_bin") is the caller's
// responsibility — callers bin an element x with HBin(H1(H1(x)), bins).
func HBin(h [32]byte, bins int) int {
	if bins <= 0 {
		return 0
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(h[i]) << (8 * uint(i))
	}
	return int(v % uint64(bins))
}

// SharedKey derives a symmetric key from a Diffie-Hellman shared point.
// k = BLAKE2b(shared_point), per spec.md §4.4.
func SharedKey(point [32]byte) [32]byte {
	return blake2b.Sum256(point[:])
}
