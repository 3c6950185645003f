package crypto

import "testing"

func TestH1Deterministic(t *testing.T) {
	var x [32]byte
	for i := range x {
		x[i] = byte(i)
	}

	a := H1(x)
	b := H1(x)
	if a != b {
		t.Fatalf("H1 not deterministic: %x != %x", a, b)
	}
	if a == x {
		t.Fatalf("H1(x) == x, hash did not change the input")
	}
}

func TestH1Distinct(t *testing.T) {
	var x, y [32]byte
	x[0] = 1
	y[0] = 2

	if H1(x) == H1(y) {
		t.Fatalf("H1 collided on distinct inputs (astronomically unlikely, check wiring)")
	}
}

func TestH2Deterministic(t *testing.T) {
	var a, b [32]byte
	a[0], b[0] = 0xAA, 0xBB

	h1 := H2(a, b)
	h2 := H2(a, b)
	if h1 != h2 {
		t.Fatalf("H2 not deterministic: %x != %x", h1, h2)
	}
}

func TestH2OrderMatters(t *testing.T) {
	var a, b [32]byte
	a[0], b[0] = 0xAA, 0xBB

	if H2(a, b) == H2(b, a) {
		t.Fatalf("H2(a,b) == H2(b,a), combine function is not order-sensitive")
	}
}

func TestHBinRange(t *testing.T) {
	var h [32]byte
	for i := range h {
		h[i] = byte(i * 7)
	}

	for _, bins := range []int{1, 2, 3, 7, 64, 1000} {
		idx := HBin(h, bins)
		if idx < 0 || idx >= bins {
			t.Fatalf("HBin(h, %d) = %d, out of range", bins, idx)
		}
	}
}

func TestHBinLittleEndianPrefix(t *testing.T) {
	var h [32]byte
	h[0] = 1 // low byte of the u64 prefix

	// With bins large enough that the low byte alone determines the bin,
	// HBin must read the prefix little-endian (byte 0 is least significant).
	if got := HBin(h, 1<<20); got != 1 {
		t.Fatalf("HBin did not read the digest prefix little-endian, got %d want 1", got)
	}
}

func TestSharedKeyDeterministic(t *testing.T) {
	var p [32]byte
	p[0] = 0x42

	k1 := SharedKey(p)
	k2 := SharedKey(p)
	if k1 != k2 {
		t.Fatalf("SharedKey not deterministic")
	}
}
