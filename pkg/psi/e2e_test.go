package psi

import (
	"context"
	"testing"
	"time"

	"github.com/natharyan/ka-psi/pkg/channel"
)

func fastChannel() *channel.Channel {
	return channel.New(channel.Config{
		LatencyC2S:    time.Microsecond,
		LatencyS2C:    time.Microsecond,
		BandwidthKbps: 10_000_000,
	})
}

// overlapSets builds a Receiver set of size recvN and a Sender set of size
// sendN where the first overlap elements are shared, mirroring
// original_source/cpp_code/src/main.cpp's demo input construction.
func overlapSets(recvN, sendN, overlap int, seed uint64) (receiver, sender [][32]byte) {
	receiver = randomElements(recvN, seed)
	sender = randomElements(sendN, seed+1)
	for i := 0; i < overlap && i < recvN && i < sendN; i++ {
		sender[i] = receiver[i]
	}
	return receiver, sender
}

func runIntersect(t *testing.T, recvSet, sendSet [][32]byte, seed uint64) []IntersectionResult {
	t.Helper()

	r := NewReceiver(recvSet)
	s := NewSender(sendSet)
	r.SetRandom(newXorshiftReader(seed))
	s.SetRandom(newXorshiftReader(seed + 100))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := Intersect(ctx, r, s, fastChannel())
	if err != nil {
		t.Fatalf("Intersect: %v", err)
	}
	return results
}

func TestIntersectPartialOverlap(t *testing.T) {
	recvSet, sendSet := overlapSets(10, 10, 5, 1)
	results := runIntersect(t, recvSet, sendSet, 42)

	if len(results) != 5 {
		t.Fatalf("got %d intersection results, want 5", len(results))
	}
	for _, res := range results {
		if res.Index >= 5 {
			t.Fatalf("unexpected match at index %d, overlap was only the first 5 elements", res.Index)
		}
	}
}

func TestIntersectDisjoint(t *testing.T) {
	recvSet, sendSet := overlapSets(8, 8, 0, 2)
	results := runIntersect(t, recvSet, sendSet, 99)

	if len(results) != 0 {
		t.Fatalf("got %d intersection results for disjoint sets, want 0", len(results))
	}
}

func TestIntersectFullOverlap(t *testing.T) {
	recvSet := randomElements(16, 3)
	sendSet := make([][32]byte, len(recvSet))
	copy(sendSet, recvSet)

	results := runIntersect(t, recvSet, sendSet, 7)
	if len(results) != len(recvSet) {
		t.Fatalf("got %d intersection results, want %d (full overlap)", len(results), len(recvSet))
	}
}

func TestSenderAbortsOnTamperedPolynomial(t *testing.T) {
	recvSet, sendSet := overlapSets(6, 6, 3, 11)

	r := NewReceiver(recvSet)
	s := NewSender(sendSet)
	r.SetRandom(newXorshiftReader(21))
	s.SetRandom(newXorshiftReader(22))

	if err := r.Commit(); err != nil {
		t.Fatalf("receiver Commit: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("sender Commit: %v", err)
	}

	leg1, err := r.EncodeLeg1()
	if err != nil {
		t.Fatalf("EncodeLeg1: %v", err)
	}
	// Flip the low byte of the first polynomial's first coefficient, which
	// follows the root (32 bytes), n, the polynomial count, the bin index
	// and the coefficient count (4 bytes each).
	tampered := append([]byte(nil), leg1...)
	tampered[48] ^= 0xff

	err = s.ProcessLeg1(tampered)
	if err == nil {
		t.Fatalf("expected ProcessLeg1 to abort on tampered leg1")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ProtocolAbort {
		t.Fatalf("expected ProtocolAbort, got %v", err)
	}
}
