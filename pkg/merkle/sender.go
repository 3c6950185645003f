package merkle

import "github.com/natharyan/ka-psi/pkg/crypto"

// SenderLeaves builds the Sender's salted commitment leaves,
// l_i = BLAKE2b(x_i || r_i), per spec.md §3 "Sender leaf" and
// original_source/cpp_code/sender.cpp's Sender::commit.
func SenderLeaves(elements, salts [][32]byte) [][32]byte {
	leaves := make([][32]byte, len(elements))
	for i := range elements {
		leaves[i] = crypto.H2(elements[i], salts[i])
	}
	return leaves
}

// SenderRoot computes the Sender's Merkle root directly over its salted
// leaves. This implements Merkle_Root_Sender from
// original_source/cpp_code/src/helpers.cpp.
func SenderRoot(elements, salts [][32]byte) [32]byte {
	return Root(SenderLeaves(elements, salts))
}
