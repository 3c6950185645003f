// Package field implements arithmetic over the prime field F_p with
// p = 2^255 - 19, and the Lagrange interpolation machinery the PSI
// protocol uses to encode sets as polynomials.
//
// Spec reference: spec.md §2.1, §4.1.
package field

import "math/big"

// Size is the number of bytes an Elem round-trips through via FromBytes
// and Bytes.
const Size = 32

var modulus = func() *big.Int {
	m, ok := new(big.Int).SetString(
		"57896044618658097711785492504343953926634992332820282019728792003956564819949", 10)
	if !ok {
		panic("field: failed to parse modulus")
	}
	return m
}()

// Generator is the fixed base g = 3 from which roots of unity are derived.
// 3 is a quadratic residue mod p, so it does not generate all of F_p^*;
// RootsOfUnity only needs a public, deterministic base.
const Generator = 3

// Elem is an element of F_p, always held in canonical form (0 <= v < p).
type Elem struct {
	v *big.Int
}

// Zero returns the additive identity.
func Zero() Elem {
	return Elem{v: new(big.Int)}
}

// One returns the multiplicative identity.
func One() Elem {
	return Elem{v: big.NewInt(1)}
}

// FromInt64 builds an Elem from a small signed integer, reducing into
// canonical form.
func FromInt64(x int64) Elem {
	v := big.NewInt(x)
	v.Mod(v, modulus)
	return Elem{v: v}
}

// FromBytes interprets b as a little-endian integer and reduces it mod p.
// This implements bytes_to_field from spec.md §2.1 / original_source's
// bytes_to_ZZ.
func FromBytes(b [32]byte) Elem {
	v := new(big.Int)
	for i := len(b) - 1; i >= 0; i-- {
		v.Lsh(v, 8)
		v.Or(v, big.NewInt(int64(b[i])))
	}
	v.Mod(v, modulus)
	return Elem{v: v}
}

// Bytes encodes e as a 32-byte little-endian value. Elements of F_p fit in
// 255 bits, so this never overflows 32 bytes.
func (e Elem) Bytes() [32]byte {
	var out [32]byte
	b := e.canon().v.Bytes() // big-endian, no leading zero byte
	for i, bb := range b {
		out[len(b)-1-i] = bb
	}
	return out
}

func (e Elem) canon() Elem {
	if e.v == nil {
		return Zero()
	}
	return e
}

// Equal reports whether e and o represent the same field element.
func (e Elem) Equal(o Elem) bool {
	return e.canon().v.Cmp(o.canon().v) == 0
}

// IsZero reports whether e is the additive identity.
func (e Elem) IsZero() bool {
	return e.canon().v.Sign() == 0
}

// Add returns e + o mod p.
func (e Elem) Add(o Elem) Elem {
	v := new(big.Int).Add(e.canon().v, o.canon().v)
	v.Mod(v, modulus)
	return Elem{v: v}
}

// Sub returns e - o mod p.
func (e Elem) Sub(o Elem) Elem {
	v := new(big.Int).Sub(e.canon().v, o.canon().v)
	v.Mod(v, modulus)
	return Elem{v: v}
}

// Neg returns -e mod p.
func (e Elem) Neg() Elem {
	v := new(big.Int).Neg(e.canon().v)
	v.Mod(v, modulus)
	return Elem{v: v}
}

// Mul returns e * o mod p.
func (e Elem) Mul(o Elem) Elem {
	v := new(big.Int).Mul(e.canon().v, o.canon().v)
	v.Mod(v, modulus)
	return Elem{v: v}
}

// Inv returns the multiplicative inverse of e. Panics if e is zero; callers
// in this package only invert nonzero denominators (interpolation already
// rejects duplicate/degenerate x-coordinates before any division).
func (e Elem) Inv() Elem {
	if e.IsZero() {
		panic("field: inverse of zero")
	}
	v := new(big.Int).ModInverse(e.canon().v, modulus)
	return Elem{v: v}
}

// Pow returns e^n mod p for n >= 0.
func (e Elem) Pow(n uint64) Elem {
	v := new(big.Int).Exp(e.canon().v, new(big.Int).SetUint64(n), modulus)
	return Elem{v: v}
}

// String renders e in decimal, for debugging and test failure messages.
func (e Elem) String() string {
	return e.canon().v.String()
}
