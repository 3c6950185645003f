package psi

import "math"

// binCount computes the number of bins both roles partition their input
// into, B = floor(n / log2(n)). This implements the bin_size formula from
// original_source/cpp_code/src/receiver.cpp and intersect.cpp.
func binCount(n int) (int, error) {
	if n < 2 {
		return 0, newError(InvalidInput, "need at least 2 elements, got %d", n)
	}
	b := int(math.Floor(float64(n) / math.Log2(float64(n))))
	if b < 1 {
		b = 1
	}
	return b, nil
}
