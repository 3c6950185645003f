package field

import "math/big"

var pMinusOne = new(big.Int).Sub(modulus, big.NewInt(1))

// RootsOfUnity returns n deterministic, distinct-with-overwhelming-
// probability evaluation points [omega^0, omega^1, ..., omega^(n-1)],
// derived from the fixed generator Generator via omega = g^floor((p-1)/n).
//
// This implements compute_roots_of_unity from spec.md §4.1 /
// original_source/cpp_code/src/helpers.cpp verbatim, including its use of
// integer (floor) division: p-1's factorization has only a handful of
// small divisors (its 2-adic valuation is 2), so for almost every bin
// polynomial's coefficient count n, no true primitive n-th root of unity
// exists in F_p. The protocol only needs a public, deterministic sequence
// of evaluation points to bind a commitment to, not an algebraic
// structure that requires exact roots (e.g. an FFT domain), so the
// original's literal floor-division behavior is preserved rather than
// "corrected" to require exact divisibility.
func RootsOfUnity(n int) ([]Elem, error) {
	if n <= 0 {
		return nil, ErrRootsOfUnity
	}
	bn := big.NewInt(int64(n))
	q := new(big.Int).Div(pMinusOne, bn)

	g := FromInt64(Generator)
	omega := g.powBig(q)

	roots := make([]Elem, n)
	roots[0] = One()
	for i := 1; i < n; i++ {
		roots[i] = roots[i-1].Mul(omega)
	}
	return roots, nil
}

func (e Elem) powBig(n *big.Int) Elem {
	v := new(big.Int).Exp(e.canon().v, n, modulus)
	return Elem{v: v}
}
