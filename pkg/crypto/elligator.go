package crypto

import (
	"encoding/binary"
	"io"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	"gitlab.com/yawning/edwards25519-extra/elligator2"
)

// KAPair is one Receiver key-agreement pair: a secret scalar and its
// Elligator2-wrapped public share. Spec reference: spec.md §3 "KA pair",
// §4.4.
type KAPair struct {
	Scalar  [32]byte // b_i
	Message [32]byte // m_i = Elligator(X25519_base(b_i))
}

// GenerateKAPairs draws n fresh (scalar, Elligator representative) pairs.
// This implements gen_ka_messages(n) from spec.md §4.4.
//
// Roughly half of randomly drawn scalars have no Elligator2 representative
// (spec.md §8, "Elligator round-trip... with appropriate sign/tweak
// handling"); this redraws until each slot succeeds, so the function never
// returns a PrimitiveFailure for lack of patience, only for a broken rand
// source.
func GenerateKAPairs(rnd io.Reader, n int) ([]KAPair, error) {
	pairs := make([]KAPair, n)
	var buf [33]byte // 32 bytes of scalar entropy + 1 tweak byte
	for i := 0; i < n; i++ {
		for {
			if _, err := io.ReadFull(rnd, buf[:]); err != nil {
				return nil, err
			}
			var scalar [32]byte
			copy(scalar[:], buf[:32])
			tweak := buf[32]

			_, rep, ok := elligatorScalarBaseMult(scalar, tweak)
			if !ok {
				continue
			}
			pairs[i] = KAPair{Scalar: scalar, Message: rep}
			break
		}
	}
	return pairs, nil
}

// elligatorScalarBaseMult computes a Curve25519 public key from 32 bytes of
// private key entropy together with a uniform Elligator2 representative for
// that key. Returns ok=false for the (roughly half of all) inputs that have
// no representative, per the Elligator2 construction.
//
// privateKey must be the full 32 bytes of entropy — not pre-clamped —
// otherwise the resulting representatives are not uniformly distributed.
//
// Ported from gitlab.com/yawning/edwards25519-extra's x25519ell2 internal
// package (the obfs4 ntor handshake's obfuscated key exchange), which
// itself derives from the corrected Monocypher construction.
func elligatorScalarBaseMult(privateKey [32]byte, tweak byte) (publicKey, representative [32]byte, ok bool) {
	u := scalarBaseMultDirty(privateKey)
	if !uToRepresentative(&representative, u, tweak) {
		return publicKey, representative, false
	}
	copy(publicKey[:], u.Bytes())
	return publicKey, representative, true
}

// ElligatorInverse recovers the Curve25519 public key u-coordinate encoded
// by an Elligator2 representative. This implements Elligator^-1 from
// spec.md §4.4, used by the Sender to recover the Receiver's public share
// from m_i.
func ElligatorInverse(representative [32]byte) ([32]byte, bool) {
	var publicKey [32]byte
	// Representatives are encoded in 254 bits; the top two bits are a
	// random tweak (see uToRepresentative) and are masked off here.
	var clamped [32]byte
	copy(clamped[:], representative[:])
	clamped[31] &= 63

	var fe field.Element
	if _, err := fe.SetBytes(clamped[:]); err != nil {
		return publicKey, false
	}
	u, _ := elligator2.MontgomeryFlavor(&fe)
	copy(publicKey[:], u.Bytes())
	return publicKey, true
}

var (
	feOne = new(field.Element).One()

	feNegTwo = mustFeFromBytes([]byte{
		0xeb, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f,
	})

	feA = mustFeFromUint64(486662)

	feSqrtM1 = mustFeFromBytes([]byte{
		0xb0, 0xa0, 0x0e, 0x4a, 0x27, 0x1b, 0xee, 0xc4, 0x78, 0xe4, 0x2f, 0xad, 0x06, 0x18, 0x43, 0x2f,
		0xa7, 0xd7, 0xfb, 0x3d, 0x99, 0x00, 0x4d, 0x2b, 0x0b, 0xdf, 0xc1, 0x4f, 0x80, 0x24, 0x83, 0x2b,
	})

	// Low order point Edwards x-coordinate sqrt((sqrt(d + 1) + 1) / d).
	feLopX = mustFeFromBytes([]byte{
		0x4a, 0xd1, 0x45, 0xc5, 0x46, 0x46, 0xa1, 0xde, 0x38, 0xe2, 0xe5, 0x13, 0x70, 0x3c, 0x19, 0x5c,
		0xbb, 0x4a, 0xde, 0x38, 0x32, 0x99, 0x33, 0xe9, 0x28, 0x4a, 0x39, 0x06, 0xa0, 0xb9, 0xd5, 0x1f,
	})

	// Low order point Edwards y-coordinate -lop_x * sqrtm1.
	feLopY = mustFeFromBytes([]byte{
		0x26, 0xe8, 0x95, 0x8f, 0xc2, 0xb2, 0x27, 0xb0, 0x45, 0xc3, 0xf4, 0x89, 0xf2, 0xef, 0x98, 0xf0,
		0xd5, 0xdf, 0xac, 0x05, 0xd3, 0xc6, 0x33, 0x39, 0xb1, 0x38, 0x02, 0x88, 0x6d, 0x53, 0xfc, 0x05,
	})
)

func mustFeFromBytes(b []byte) *field.Element {
	fe, err := new(field.Element).SetBytes(b)
	if err != nil {
		panic("crypto: failed to deserialize elligator constant: " + err.Error())
	}
	return fe
}

func mustFeFromUint64(x uint64) *field.Element {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:], x)
	return mustFeFromBytes(b[:])
}

func selectLowOrderPoint(out, x, k *field.Element, cofactor uint8) {
	out.Zero()
	out.Select(k, out, int((cofactor>>1)&1)) // bit 1
	out.Select(x, out, int((cofactor>>0)&1)) // bit 0
	var tmp field.Element
	tmp.Negate(out)
	out.Select(&tmp, out, int((cofactor>>2)&1)) // bit 2
}

// scalarBaseMultDirty computes the Montgomery u-coordinate of
// privateKey*B without clearing the cofactor, which is required for the
// resulting point to have a well-defined Elligator2 representative.
func scalarBaseMultDirty(privateKey [32]byte) *field.Element {
	scalar, err := new(edwards25519.Scalar).SetBytesWithClamping(privateKey[:])
	if err != nil {
		panic("crypto: failed to deserialize elligator scalar: " + err.Error())
	}
	pk := new(edwards25519.Point).ScalarBaseMult(scalar)

	var lopX, lopY, lopT field.Element
	selectLowOrderPoint(&lopX, feLopX, feSqrtM1, privateKey[0])
	selectLowOrderPoint(&lopY, feLopY, feOne, privateKey[0]+2)
	lopT.Multiply(&lopX, &lopY)
	lop, err := new(edwards25519.Point).SetExtendedCoordinates(&lopX, &lopY, feOne, &lopT)
	if err != nil {
		panic("crypto: failed to build low-order point: " + err.Error())
	}

	pk.Add(pk, lop)

	_, yExt, zExt, _ := pk.ExtendedCoordinates()
	var t1, t2 field.Element
	t1.Add(zExt, yExt)
	t2.Subtract(zExt, yExt)
	t2.Invert(&t2)
	t1.Multiply(&t1, &t2)

	return &t1
}

func uToRepresentative(representative *[32]byte, u *field.Element, tweak byte) bool {
	t1 := new(field.Element).Set(u)

	t2 := new(field.Element).Add(t1, feA)
	t3 := new(field.Element).Multiply(t1, t2)
	t3.Multiply(t3, feNegTwo)
	if _, isSquare := t3.SqrtRatio(feOne, t3); isSquare == 1 {
		t1.Select(t2, t1, int(tweak&1))
		t3.Multiply(t1, t3)
		t1.Mult32(t3, 2)
		t2.Negate(t3)
		tmp := t1.Bytes()
		t3.Select(t2, t3, int(tmp[0]&1))
		copy(representative[:], t3.Bytes())

		representative[31] |= tweak & 0xc0

		return true
	}

	return false
}
