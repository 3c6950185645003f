package merkle

import (
	"github.com/natharyan/ka-psi/pkg/crypto"
	"github.com/natharyan/ka-psi/pkg/field"
)

// ReceiverTreeInput evaluates each of the Receiver's bin polynomials at
// enough consecutive roots of unity to uniquely pin it down — one root per
// coefficient — and hashes each evaluation into a leaf.
//
// This implements the evaluation step of Merkle_Root_Receiver from
// original_source/cpp_code/src/helpers.cpp: polynomials are consumed in
// bin order, and within a polynomial's span the roots are consumed in
// order, so the total number of roots needed equals the total coefficient
// count across all polynomials.
func ReceiverTreeInput(polys []field.Polynomial) ([][32]byte, error) {
	n := 0
	for _, p := range polys {
		n += len(p)
	}

	roots, err := field.RootsOfUnity(n)
	if err != nil {
		return nil, err
	}

	leaves := make([][32]byte, 0, n)
	idx := 0
	for _, p := range polys {
		for range p {
			eval := p.Evaluate(roots[idx])
			leaves = append(leaves, crypto.H1(eval.Bytes()))
			idx++
		}
	}
	return leaves, nil
}

// ReceiverRoot computes the Receiver's Merkle root over its bin
// polynomials. This implements Merkle_Root_Receiver from
// original_source/cpp_code/src/helpers.cpp.
func ReceiverRoot(polys []field.Polynomial) ([32]byte, error) {
	leaves, err := ReceiverTreeInput(polys)
	if err != nil {
		return [32]byte{}, err
	}
	return Root(leaves), nil
}
