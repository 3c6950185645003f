package merkle

import (
	"testing"

	"github.com/natharyan/ka-psi/pkg/field"
)

func leaf(b byte) [32]byte {
	var out [32]byte
	out[0] = b
	return out
}

func TestRootEmpty(t *testing.T) {
	if Root(nil) != ([32]byte{}) {
		t.Fatalf("empty leaf set must have an all-zero root")
	}
}

func TestRootDeterministic(t *testing.T) {
	leaves := [][32]byte{leaf(1), leaf(2), leaf(3)}
	a := Root(leaves)
	b := Root(leaves)
	if a != b {
		t.Fatalf("Root is not deterministic")
	}
}

func TestRootOrderSensitive(t *testing.T) {
	a := Root([][32]byte{leaf(1), leaf(2), leaf(3)})
	b := Root([][32]byte{leaf(3), leaf(2), leaf(1)})
	if a == b {
		t.Fatalf("Root did not change when leaf order changed")
	}
}

func TestRootOddDuplicatesLast(t *testing.T) {
	three := Root([][32]byte{leaf(1), leaf(2), leaf(3)})
	threeDup := Root([][32]byte{leaf(1), leaf(2), leaf(3), leaf(3)})
	if three != threeDup {
		t.Fatalf("odd-sized level must duplicate the last leaf, got different roots")
	}
}

func TestSenderRootMatchesLeaves(t *testing.T) {
	elements := [][32]byte{leaf(10), leaf(20)}
	salts := [][32]byte{leaf(100), leaf(200)}

	leaves := SenderLeaves(elements, salts)
	if Root(leaves) != SenderRoot(elements, salts) {
		t.Fatalf("SenderRoot does not match Root(SenderLeaves(...))")
	}
}

func TestReceiverRootConsumesExpectedRootCount(t *testing.T) {
	polys := []field.Polynomial{
		{field.FromInt64(1), field.FromInt64(2)},
		{field.FromInt64(3), field.FromInt64(4), field.FromInt64(5)},
	}
	leaves, err := ReceiverTreeInput(polys)
	if err != nil {
		t.Fatalf("ReceiverTreeInput: %v", err)
	}
	if len(leaves) != 5 {
		t.Fatalf("got %d leaves, want 5 (total coefficient count)", len(leaves))
	}
}

func TestReceiverRootDeterministic(t *testing.T) {
	polys := []field.Polynomial{
		{field.FromInt64(7), field.FromInt64(8)},
	}
	a, err := ReceiverRoot(polys)
	if err != nil {
		t.Fatalf("ReceiverRoot: %v", err)
	}
	b, err := ReceiverRoot(polys)
	if err != nil {
		t.Fatalf("ReceiverRoot: %v", err)
	}
	if a != b {
		t.Fatalf("ReceiverRoot is not deterministic")
	}
}
