package field

import "testing"

func TestBytesRoundTrip(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = byte(i * 3)
	}
	// Clear the top bit so the value is already < p and the round trip is exact.
	b[31] &= 0x7f

	e := FromBytes(b)
	got := e.Bytes()
	if got != b {
		t.Fatalf("round trip mismatch: got %x want %x", got, b)
	}
}

func TestBytesReducesModP(t *testing.T) {
	var max [32]byte
	for i := range max {
		max[i] = 0xff
	}
	e := FromBytes(max)
	if e.IsZero() {
		t.Fatalf("reduction collapsed to zero unexpectedly")
	}
	// 2^256-1 mod p must be small and representable back as the canonical residue.
	back := FromBytes(e.Bytes())
	if !back.Equal(e) {
		t.Fatalf("canonical form is not a fixed point of FromBytes(Bytes())")
	}
}

func TestAddSubInverse(t *testing.T) {
	a := FromInt64(12345)
	b := FromInt64(67890)
	sum := a.Add(b)
	if !sum.Sub(b).Equal(a) {
		t.Fatalf("(a+b)-b != a")
	}
}

func TestMulInv(t *testing.T) {
	a := FromInt64(42)
	inv := a.Inv()
	if !a.Mul(inv).Equal(One()) {
		t.Fatalf("a * a^-1 != 1")
	}
}

func TestNeg(t *testing.T) {
	a := FromInt64(5)
	if !a.Add(a.Neg()).IsZero() {
		t.Fatalf("a + (-a) != 0")
	}
}

func TestPow(t *testing.T) {
	a := FromInt64(2)
	if !a.Pow(10).Equal(FromInt64(1024)) {
		t.Fatalf("2^10 != 1024 mod p")
	}
}

func TestInterpolateIdentity(t *testing.T) {
	xs := []Elem{FromInt64(1), FromInt64(2), FromInt64(3), FromInt64(4)}
	ys := []Elem{FromInt64(10), FromInt64(20), FromInt64(17), FromInt64(5)}

	poly, err := Interpolate(xs, ys)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i := range xs {
		got := poly.Evaluate(xs[i])
		if !got.Equal(ys[i]) {
			t.Fatalf("poly(%v) = %v, want %v", xs[i], got, ys[i])
		}
	}
}

func TestInterpolateDuplicateX(t *testing.T) {
	xs := []Elem{FromInt64(1), FromInt64(1)}
	ys := []Elem{FromInt64(1), FromInt64(2)}
	if _, err := Interpolate(xs, ys); err != ErrDuplicateXCoordinate {
		t.Fatalf("got err %v, want ErrDuplicateXCoordinate", err)
	}
}

func TestInterpolateLengthMismatch(t *testing.T) {
	xs := []Elem{FromInt64(1), FromInt64(2)}
	ys := []Elem{FromInt64(1)}
	if _, err := Interpolate(xs, ys); err != ErrLengthMismatch {
		t.Fatalf("got err %v, want ErrLengthMismatch", err)
	}
}

func TestInterpolateDegenerateZero(t *testing.T) {
	xs := []Elem{FromInt64(1), FromInt64(2), FromInt64(3)}
	ys := []Elem{Zero(), Zero(), Zero()}

	poly, err := Interpolate(xs, ys)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(poly) != 2 || !poly[0].IsZero() || !poly[1].IsZero() {
		t.Fatalf("degenerate zero case did not fall back to [0, 0], got %v", poly)
	}
}

func TestInterpolateTooFewPoints(t *testing.T) {
	if _, err := Interpolate(nil, nil); err != ErrTooFewPoints {
		t.Fatalf("got err %v, want ErrTooFewPoints for zero points", err)
	}

	xs := []Elem{FromInt64(7)}
	ys := []Elem{FromInt64(99)}
	if _, err := Interpolate(xs, ys); err != ErrTooFewPoints {
		t.Fatalf("got err %v, want ErrTooFewPoints for a single point", err)
	}
}

func TestRootsOfUnity(t *testing.T) {
	n := 8
	roots, err := RootsOfUnity(n)
	if err != nil {
		t.Fatalf("RootsOfUnity: %v", err)
	}
	if len(roots) != n {
		t.Fatalf("got %d roots, want %d", len(roots), n)
	}
	if !roots[0].Equal(One()) {
		t.Fatalf("roots[0] != 1")
	}
	// roots[i] must equal roots[1]^i: the sequence is a geometric
	// progression seeded by a fixed generator, not necessarily a cyclic
	// group of exact order n (see RootsOfUnity's doc comment).
	omega := roots[1]
	for i := range roots {
		if !roots[i].Equal(omega.Pow(uint64(i))) {
			t.Fatalf("roots[%d] != omega^%d", i, i)
		}
	}
	// all roots distinct
	seen := make(map[string]bool)
	for _, r := range roots {
		s := r.String()
		if seen[s] {
			t.Fatalf("duplicate root %v", r)
		}
		seen[s] = true
	}
}

func TestRootsOfUnityDeterministic(t *testing.T) {
	a, err := RootsOfUnity(5)
	if err != nil {
		t.Fatalf("RootsOfUnity: %v", err)
	}
	b, err := RootsOfUnity(5)
	if err != nil {
		t.Fatalf("RootsOfUnity: %v", err)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("RootsOfUnity is not deterministic at index %d", i)
		}
	}
}

func TestRootsOfUnityNonPositive(t *testing.T) {
	if _, err := RootsOfUnity(0); err != ErrRootsOfUnity {
		t.Fatalf("got err %v, want ErrRootsOfUnity", err)
	}
}
