package psi

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/natharyan/ka-psi/pkg/crypto"
	"github.com/natharyan/ka-psi/pkg/field"
	"github.com/natharyan/ka-psi/pkg/merkle"
)

// Receiver holds set Y and runs the Receiver role of the protocol.
//
// This implements the Receiver type from original_source/cpp_code's
// include/receiver.hpp and src/receiver.cpp, laid out in the
// mutex-guarded-struct, per-step-method shape of the teacher's
// pkg/securechannel/pase.Session.
type Receiver struct {
	mu sync.Mutex

	elements [][32]byte
	rnd      io.Reader

	state       ReceiverState
	bins        int
	ka          []crypto.KAPair
	binOf       []int
	root        [32]byte
	polys       []field.Polynomial
	presentBins []int // raw bin index of polys[i], ascending; empty bins are absent
}

// NewReceiver creates a Receiver over the given input set. elements must
// contain at least 2 entries and no duplicates: Commit fails with
// InvalidInput otherwise, since two equal elements share a bin and an
// interpolation x-coordinate.
func NewReceiver(elements [][32]byte) *Receiver {
	return &Receiver{
		elements: elements,
		rnd:      rand.Reader,
		state:    ReceiverIdle,
	}
}

// SetRandom overrides the randomness source, for deterministic tests.
func (r *Receiver) SetRandom(rnd io.Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd = rnd
}

// State returns the Receiver's current state.
func (r *Receiver) State() ReceiverState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Commit runs the Receiver's local commitment phase: it draws one
// Elligator-wrapped key-agreement pair per input element, bins elements by
// H_bin(H1(H1(y)), B), and builds one Lagrange polynomial per bin over the
// (H1(y), KA message) pairs, per spec.md §4.5.
func (r *Receiver) Commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != ReceiverIdle {
		return newError(InvalidInput, "Commit called in state %s", r.state)
	}

	n := len(r.elements)
	bins, err := binCount(n)
	if err != nil {
		return err
	}

	ka, err := crypto.GenerateKAPairs(r.rnd, n)
	if err != nil {
		r.abortLocked()
		return newError(PrimitiveFailure, "GenerateKAPairs: %v", err)
	}

	binOf := make([]int, n)
	xsByBin := make([][]field.Elem, bins)
	ysByBin := make([][]field.Elem, bins)
	for i, y := range r.elements {
		idx := crypto.HBin(crypto.H1(crypto.H1(y)), bins)
		binOf[i] = idx
		xsByBin[idx] = append(xsByBin[idx], field.FromBytes(crypto.H1(y)))
		// Clear the top tweak bit so the message is below p and survives
		// the field round trip; ElligatorInverse ignores that bit anyway.
		msg := ka[i].Message
		msg[31] &= 0x7f
		ysByBin[idx] = append(ysByBin[idx], field.FromBytes(msg))
	}

	// Polynomials from empty bins are absent, per spec.md §4.5 step 3: the
	// compacted list below carries only non-empty bins, in ascending bin
	// order, paired with the raw bin index each one came from so the
	// Sender can recover the mapping without assuming a dense [0,bins)
	// array (see EncodeLeg1/wire.go).
	polys := make([]field.Polynomial, 0, bins)
	presentBins := make([]int, 0, bins)
	for j := 0; j < bins; j++ {
		if len(xsByBin[j]) == 0 {
			continue
		}
		p, err := field.Interpolate(xsByBin[j], ysByBin[j])
		if err != nil {
			r.abortLocked()
			return newError(InvalidInput, "interpolate bin %d: %v", j, err)
		}
		polys = append(polys, p)
		presentBins = append(presentBins, j)
	}

	root, err := merkle.ReceiverRoot(polys)
	if err != nil {
		r.abortLocked()
		return newError(PrimitiveFailure, "ReceiverRoot: %v", err)
	}

	r.bins = bins
	r.ka = ka
	r.binOf = binOf
	r.polys = polys
	r.presentBins = presentBins
	r.root = root
	r.state = ReceiverCommitted
	return nil
}

// EncodeLeg1 serializes the Receiver's first-leg message: its Merkle root,
// its input set size, and its bin polynomials, each tagged with the raw
// bin index it came from so the Sender can locate it without assuming the
// compacted list is dense over [0,bins).
func (r *Receiver) EncodeLeg1() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != ReceiverCommitted {
		return nil, newError(InvalidInput, "EncodeLeg1 called in state %s", r.state)
	}
	return encodeLeg1(r.root, len(r.elements), r.presentBins, r.polys), nil
}

// IntersectionResult names one element of Y that the protocol determined is
// also present in the Sender's set X.
type IntersectionResult struct {
	Index int
	Value [32]byte
}

// Finalize consumes the Sender's second-leg message and returns the subset
// of the Receiver's elements found to be in the Sender's set.
//
// This implements the Receiver finalization steps of spec.md §4.7 /
// original_source/cpp_code/intersect.cpp: verify the Sender's Merkle root,
// recompute each shared key via X25519(b_i, g^a), evaluate the matching Q
// polynomial, recompute the candidate Sender leaf, and test it against the
// opened Sender leaf set.
func (r *Receiver) Finalize(leg2 []byte) ([]IntersectionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != ReceiverCommitted {
		return nil, newError(InvalidInput, "Finalize called in state %s", r.state)
	}
	defer r.scrubLocked()

	senderRoot, gA, qpolys, leaves, err := decodeLeg2(leg2)
	if err != nil {
		r.state = ReceiverAborted
		return nil, newError(InvalidInput, "malformed leg2: %v", err)
	}

	if merkle.Root(leaves) != senderRoot {
		r.state = ReceiverAborted
		return nil, newError(ProtocolAbort, "sender merkle root mismatch")
	}
	if len(qpolys) != r.bins {
		r.state = ReceiverAborted
		return nil, newError(ProtocolAbort, "sender sent %d Q polynomials, want %d", len(qpolys), r.bins)
	}

	senderLeaves := make(map[[32]byte]bool, len(leaves))
	for _, l := range leaves {
		senderLeaves[l] = true
	}

	var results []IntersectionResult
	for i, y := range r.elements {
		bin := r.binOf[i]

		shared, err := crypto.X25519(r.ka[i].Scalar, gA)
		if err != nil {
			r.state = ReceiverAborted
			return nil, newError(PrimitiveFailure, "X25519: %v", err)
		}
		k := crypto.SharedKey(shared)

		xcoord := field.FromBytes(crypto.H2(y, k))
		rPrimeElem := qpolys[bin].Evaluate(xcoord)
		rPrime := rPrimeElem.Bytes()

		candidate := crypto.H2(y, rPrime)
		if senderLeaves[candidate] {
			results = append(results, IntersectionResult{Index: i, Value: y})
		}
	}

	r.state = ReceiverFinished
	return results, nil
}

func (r *Receiver) abortLocked() {
	r.scrubLocked()
	r.state = ReceiverAborted
}

// scrubLocked zeroes the Receiver's KA scalars. Called through abortLocked
// when Commit fails after its input-size check, and on every exit from
// Finalize.
func (r *Receiver) scrubLocked() {
	for i := range r.ka {
		for j := range r.ka[i].Scalar {
			r.ka[i].Scalar[j] = 0
		}
	}
}
