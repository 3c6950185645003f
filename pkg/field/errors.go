package field

import "errors"

var (
	// ErrLengthMismatch is returned by Interpolate when the x and y slices
	// have different lengths.
	ErrLengthMismatch = errors.New("field: x and y slices have different lengths")

	// ErrTooFewPoints is returned by Interpolate when fewer than two points
	// are supplied.
	ErrTooFewPoints = errors.New("field: need at least two points to interpolate")

	// ErrDuplicateXCoordinate is returned by Interpolate when two input
	// points share an x-coordinate, making interpolation ambiguous.
	ErrDuplicateXCoordinate = errors.New("field: duplicate x-coordinate in interpolation input")

	// ErrRootsOfUnity is returned by RootsOfUnity for a non-positive n.
	ErrRootsOfUnity = errors.New("field: n must be positive")
)
