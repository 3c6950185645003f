package crypto

import (
	"golang.org/x/crypto/curve25519"
)

// ScalarSize is the size in bytes of an X25519 scalar or public key.
const ScalarSize = 32

// X25519Base computes the public key g^scalar for the Curve25519 base point.
// This implements the base-point multiplication side of spec.md §4.4.
func X25519Base(scalar [32]byte) ([32]byte, error) {
	var out [32]byte
	pub, err := curve25519.X25519(scalar[:], curve25519.Basepoint)
	if err != nil {
		return out, err
	}
	copy(out[:], pub)
	return out, nil
}

// X25519 computes the Diffie-Hellman shared point scalar*point.
// This implements Crypto_X25519() used throughout spec.md §4.4 and §4.7.
func X25519(scalar, point [32]byte) ([32]byte, error) {
	var out [32]byte
	shared, err := curve25519.X25519(scalar[:], point[:])
	if err != nil {
		return out, err
	}
	copy(out[:], shared)
	return out, nil
}
