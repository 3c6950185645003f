// Package merkle builds the commit-then-open Merkle trees used by both
// protocol roles: the Sender's salted-leaf tree over its input elements,
// and the Receiver's tree over its polynomials' evaluations at consecutive
// roots of unity.
//
// Spec reference: spec.md §4.2, §4.3.
package merkle

import "github.com/natharyan/ka-psi/pkg/crypto"

// Combine is the Merkle tree's node-combining function: H2(left, right).
// This implements the node-combine step from spec.md §4.2.
func Combine(left, right [32]byte) [32]byte {
	return crypto.H2(left, right)
}

// Root computes the Merkle root over leaves, building the tree bottom-up
// and duplicating the last node of any odd-sized level.
//
// This implements the shared tree-building logic behind Merkle_Root_Sender
// and Merkle_Root_Receiver in original_source/cpp_code/src/helpers.cpp. An
// empty leaf set has an all-zero root.
func Root(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return [32]byte{}
	}

	level := make([][32]byte, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = Combine(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}
