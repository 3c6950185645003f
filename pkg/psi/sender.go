package psi

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/natharyan/ka-psi/pkg/crypto"
	"github.com/natharyan/ka-psi/pkg/field"
	"github.com/natharyan/ka-psi/pkg/merkle"
)

// Sender holds set X and runs the Sender role of the protocol.
//
// This implements the Sender type from original_source/cpp_code/sender.hpp
// and src/sender.cpp / intersect.cpp.
type Sender struct {
	mu sync.Mutex

	elements [][32]byte
	rnd      io.Reader

	state         SenderState
	salts         [][32]byte
	root          [32]byte
	scalar        [32]byte
	pendingQPolys []field.Polynomial
}

// NewSender creates a Sender over the given input set.
func NewSender(elements [][32]byte) *Sender {
	return &Sender{
		elements: elements,
		rnd:      rand.Reader,
		state:    SenderIdle,
	}
}

// SetRandom overrides the randomness source, for deterministic tests.
func (s *Sender) SetRandom(rnd io.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd = rnd
}

// State returns the Sender's current state.
func (s *Sender) State() SenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Commit draws one random salt per input element and computes the Sender's
// Merkle root over l_i = BLAKE2b(x_i || r_i), per spec.md §4.6.
//
// original_source/cpp_code/sender.cpp draws these salts with
// std::random_device, flagged by spec.md §9 as not cryptographically
// appropriate for a commitment salt; this draws them from the injectable
// rand source (crypto/rand.Reader by default) instead.
func (s *Sender) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SenderIdle {
		return newError(InvalidInput, "Commit called in state %s", s.state)
	}

	salts := make([][32]byte, len(s.elements))
	for i := range salts {
		if _, err := io.ReadFull(s.rnd, salts[i][:]); err != nil {
			s.state = SenderAborted
			return newError(PrimitiveFailure, "drawing salt: %v", err)
		}
		// Keep the salt below 2^255 so it survives the field round trip
		// through the Q polynomial the Receiver evaluates.
		salts[i][31] &= 0x7f
	}

	s.salts = salts
	s.root = merkle.SenderRoot(s.elements, salts)
	s.state = SenderCommitted
	return nil
}

// keyedElement ties a Sender element to the per-bin shared key and salt it
// needs for Q-polynomial construction, so rebalancing moves all three
// together and cannot desynchronize a key from its element (the bug
// flagged in spec.md §9).
type keyedElement struct {
	element [32]byte
	salt    [32]byte
	key     [32]byte
}

// ProcessLeg1 verifies and consumes the Receiver's first-leg message,
// deriving this Sender's shared keys and building its Q polynomials.
//
// This implements spec.md §4.7 steps 1-4 / original_source's
// intersect.cpp: reject polynomials with fewer than 2 coefficients, verify
// the total coefficient count agrees with the Receiver's declared set
// size, verify the Receiver's Merkle root, generate the DH scalar a,
// derive a shared key per element, rebalance singleton bins, and build the
// Q polynomials.
func (s *Sender) ProcessLeg1(leg1 []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SenderCommitted {
		return newError(InvalidInput, "ProcessLeg1 called in state %s", s.state)
	}

	receiverRoot, n, presentBins, polys, err := decodeLeg1(leg1)
	if err != nil {
		s.state = SenderAborted
		return newError(InvalidInput, "malformed leg1: %v", err)
	}

	for _, p := range polys {
		if len(p) < 2 {
			s.state = SenderAborted
			return newError(ProtocolAbort, "receiver polynomial with fewer than 2 coefficients")
		}
	}

	bins, err := binCount(n)
	if err != nil {
		s.state = SenderAborted
		return newError(ProtocolAbort, "invalid declared set size %d: %v", n, err)
	}

	// Map each delivered polynomial back to the raw bin index it was built
	// from. Polynomials from empty bins are absent (spec.md §4.5 step 3),
	// so this list is not dense over [0,bins) — presentBins records which
	// slots are populated, in the ascending order the Receiver produced
	// them in.
	if len(presentBins) != len(polys) {
		s.state = SenderAborted
		return newError(ProtocolAbort, "leg1 has %d bin indices for %d polynomials", len(presentBins), len(polys))
	}
	polyForBin := make([]*field.Polynomial, bins)
	prev := -1
	for i, idx := range presentBins {
		if idx <= prev || idx >= bins {
			s.state = SenderAborted
			return newError(ProtocolAbort, "leg1 bin index %d out of order or out of range [0,%d)", idx, bins)
		}
		prev = idx
		polyForBin[idx] = &polys[i]
	}

	coeffTotal := 0
	for _, p := range polys {
		coeffTotal += len(p)
	}
	if coeffTotal != n {
		s.state = SenderAborted
		return newError(ProtocolAbort, "total coefficient count %d does not match declared set size %d", coeffTotal, n)
	}

	gotRoot, err := merkle.ReceiverRoot(polys)
	if err != nil {
		s.state = SenderAborted
		return newError(ProtocolAbort, "recomputing receiver root: %v", err)
	}
	if gotRoot != receiverRoot {
		s.state = SenderAborted
		return newError(ProtocolAbort, "receiver merkle root mismatch")
	}

	var scalar [32]byte
	if _, err := io.ReadFull(s.rnd, scalar[:]); err != nil {
		s.state = SenderAborted
		return newError(PrimitiveFailure, "drawing scalar a: %v", err)
	}

	buckets := make([][]keyedElement, bins)
	for i, x := range s.elements {
		idx := crypto.HBin(crypto.H1(crypto.H1(x)), bins)
		if idx < 0 || idx >= bins {
			s.state = SenderAborted
			return newError(ProtocolAbort, "bin index %d out of range [0,%d)", idx, bins)
		}

		poly := polyForBin[idx]
		if poly == nil {
			// The Receiver had no elements in this bin, so no yᵢ could
			// ever land here either; this xᵢ has no possible match and
			// contributes no Q-polynomial input.
			continue
		}

		m := poly.Evaluate(field.FromBytes(crypto.H1(x))).Bytes()
		point, ok := crypto.ElligatorInverse(m)
		if !ok {
			s.state = SenderAborted
			return newError(PrimitiveFailure, "elligator inverse failed for bin %d", idx)
		}
		shared, err := crypto.X25519(scalar, point)
		if err != nil {
			s.state = SenderAborted
			return newError(PrimitiveFailure, "X25519: %v", err)
		}

		buckets[idx] = append(buckets[idx], keyedElement{
			element: x,
			salt:    s.salts[i],
			key:     crypto.SharedKey(shared),
		})
	}

	qpolys, err := buildQPolynomials(buckets)
	if err != nil {
		s.state = SenderAborted
		return newError(PrimitiveFailure, "building Q polynomials: %v", err)
	}

	s.scalar = scalar
	s.pendingQPolys = qpolys
	s.state = SenderProcessed
	return nil
}

// buildQPolynomials rebalances singleton bins into the next non-empty bin
// (circular order) and interpolates one Q polynomial per final bin. A
// donating singleton bin's slot in the returned slice aliases the
// destination bin's polynomial, so a receiver that independently computes
// the same original bin index for a matching element still finds the
// correct polynomial without needing to know that a donation occurred.
//
// This implements the rebalancing behavior of
// original_source/cpp_code/intersect.cpp, with the fix spec.md §9
// requires: a donated element's key and salt move with it (see
// keyedElement), so the k-value/element desynchronization bug in the
// original is not reproduced.
func buildQPolynomials(buckets [][]keyedElement) ([]field.Polynomial, error) {
	n := len(buckets)
	host := make([]int, n)
	for j := range host {
		host[j] = j
	}

	for j := 0; j < n; j++ {
		if len(buckets[j]) != 1 {
			continue
		}
		for step := 1; step < n; step++ {
			k := (j + step) % n
			if k == j || len(buckets[k]) == 0 {
				continue
			}
			buckets[k] = append(buckets[k], buckets[j][0])
			buckets[j] = nil
			host[j] = k
			break
		}
	}

	cache := make(map[int]field.Polynomial, n)
	qpolys := make([]field.Polynomial, n)
	for j := 0; j < n; j++ {
		h := host[j]
		if len(buckets[h]) == 0 {
			qpolys[j] = field.Polynomial{field.Zero(), field.Zero()}
			continue
		}
		p, ok := cache[h]
		if !ok {
			xs := make([]field.Elem, len(buckets[h]))
			ys := make([]field.Elem, len(buckets[h]))
			for i, ke := range buckets[h] {
				xs[i] = field.FromBytes(crypto.H2(ke.element, ke.key))
				ys[i] = field.FromBytes(ke.salt)
			}
			var err error
			p, err = field.Interpolate(xs, ys)
			if err != nil {
				return nil, err
			}
			cache[h] = p
		}
		qpolys[j] = p
	}
	return qpolys, nil
}

// EncodeLeg2 serializes the Sender's second-leg message: its Merkle root,
// its DH public share g^a, its Q polynomials, and its opened salted
// leaves.
func (s *Sender) EncodeLeg2() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SenderProcessed {
		return nil, newError(InvalidInput, "EncodeLeg2 called in state %s", s.state)
	}
	defer s.scrubLocked()

	gA, err := crypto.X25519Base(s.scalar)
	if err != nil {
		s.state = SenderAborted
		return nil, newError(PrimitiveFailure, "X25519Base: %v", err)
	}

	leaves := merkle.SenderLeaves(s.elements, s.salts)
	out := encodeLeg2(s.root, gA, s.pendingQPolys, leaves)

	s.state = SenderFinished
	return out, nil
}

func (s *Sender) scrubLocked() {
	for i := range s.scalar {
		s.scalar[i] = 0
	}
}
