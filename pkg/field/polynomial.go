package field

// Polynomial is a list of coefficients in F_p, lowest degree first:
// Polynomial{c0, c1, c2} represents c0 + c1*x + c2*x^2.
type Polynomial []Elem

// Evaluate computes p(x) by Horner's method.
func (p Polynomial) Evaluate(x Elem) Elem {
	if len(p) == 0 {
		return Zero()
	}
	acc := p[len(p)-1]
	for i := len(p) - 2; i >= 0; i-- {
		acc = acc.Mul(x).Add(p[i])
	}
	return acc
}

// Interpolate builds the unique minimal-degree polynomial passing through
// (xs[i], ys[i]) for all i, using Lagrange interpolation.
//
// This implements Lagrange_Polynomial from spec.md §4.1 /
// original_source/cpp_code/src/helpers.cpp, including its explicit
// precondition that at least two points are required — a single point
// does not pin down a meaningful degree-1-or-higher polynomial, and the
// original throws rather than returning a degree-0 constant. Callers with
// a one-element bin must not call Interpolate; there is no single-point
// polynomial in this protocol.
//
// When the interpolated polynomial is identically zero — the degenerate
// case where every y is zero — NTL's sparse polynomial representation
// would report it as the zero polynomial (degree -1); the original C++
// implementation special-cases this by
// returning a 2-coefficient placeholder [y0, 0] instead of the true zero
// polynomial, and this implementation preserves that behavior for
// wire-compatibility with the rest of the protocol, which always expects
// at least 2 coefficients (see spec.md §9 and the Sender verification step
// that rejects fewer than 2 coefficients).
func Interpolate(xs, ys []Elem) (Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	if len(xs) < 2 {
		return nil, ErrTooFewPoints
	}

	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i].Equal(xs[j]) {
				return nil, ErrDuplicateXCoordinate
			}
		}
	}

	n := len(xs)
	result := make(Polynomial, n)
	for i := range result {
		result[i] = Zero()
	}

	for i := 0; i < n; i++ {
		// Build the Lagrange basis term L_i(x) = ys[i] * prod_{j!=i} (x - xs[j]) / (xs[i] - xs[j]).
		term := Polynomial{ys[i]}
		denom := One()
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			term = term.multiplyLinear(xs[j])
			denom = denom.Mul(xs[i].Sub(xs[j]))
		}
		invDenom := denom.Inv()
		for k := range term {
			term[k] = term[k].Mul(invDenom)
		}
		result = result.add(term)
	}

	if result.isZero() {
		return Polynomial{ys[0], Zero()}, nil
	}
	return result.trim(), nil
}

// multiplyLinear multiplies the polynomial by (x - root) in place,
// returning the extended result.
func (p Polynomial) multiplyLinear(root Elem) Polynomial {
	out := make(Polynomial, len(p)+1)
	for i := range out {
		out[i] = Zero()
	}
	for i, c := range p {
		out[i+1] = out[i+1].Add(c)
		out[i] = out[i].Sub(c.Mul(root))
	}
	return out
}

func (p Polynomial) add(o Polynomial) Polynomial {
	n := len(p)
	if len(o) > n {
		n = len(o)
	}
	out := make(Polynomial, n)
	for i := 0; i < n; i++ {
		var a, b Elem
		if i < len(p) {
			a = p[i]
		} else {
			a = Zero()
		}
		if i < len(o) {
			b = o[i]
		} else {
			b = Zero()
		}
		out[i] = a.Add(b)
	}
	return out
}

func (p Polynomial) isZero() bool {
	for _, c := range p {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// trim drops trailing zero coefficients, but always leaves at least one
// coefficient behind.
func (p Polynomial) trim() Polynomial {
	end := len(p)
	for end > 1 && p[end-1].IsZero() {
		end--
	}
	return p[:end]
}
