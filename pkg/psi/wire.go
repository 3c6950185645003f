package psi

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/natharyan/ka-psi/pkg/field"
)

// Wire framing for the protocol's two legs uses explicit big-endian uint32
// length prefixes for every variable-length sequence (polynomial
// coefficient counts, polynomial counts, leaf counts), per spec.md §6.

func putUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func read32(r *bytes.Reader) ([32]byte, error) {
	var b [32]byte
	_, err := io.ReadFull(r, b[:])
	return b, err
}

func encodePolynomial(buf *bytes.Buffer, p field.Polynomial) {
	putUint32(buf, uint32(len(p)))
	for _, c := range p {
		b := c.Bytes()
		buf.Write(b[:])
	}
}

func decodePolynomial(r *bytes.Reader) (field.Polynomial, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p := make(field.Polynomial, n)
	for i := range p {
		b, err := read32(r)
		if err != nil {
			return nil, err
		}
		p[i] = field.FromBytes(b)
	}
	return p, nil
}

func encodePolynomials(buf *bytes.Buffer, polys []field.Polynomial) {
	putUint32(buf, uint32(len(polys)))
	for _, p := range polys {
		encodePolynomial(buf, p)
	}
}

func decodePolynomials(r *bytes.Reader) ([]field.Polynomial, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	polys := make([]field.Polynomial, n)
	for i := range polys {
		p, err := decodePolynomial(r)
		if err != nil {
			return nil, err
		}
		polys[i] = p
	}
	return polys, nil
}

// encodeLeg1 frames the Receiver's first message: its committed Merkle
// root, its input set size, and its per-bin KA-commitment polynomials.
// Polynomials from empty bins are absent (spec.md §4.5 step 3), so each
// polynomial is paired with the raw bin index it was built from, letting
// the Sender recover which of its own [0,bins) slots each one belongs to
// without assuming the list is dense.
func encodeLeg1(root [32]byte, n int, presentBins []int, polys []field.Polynomial) []byte {
	var buf bytes.Buffer
	buf.Write(root[:])
	putUint32(&buf, uint32(n))
	putUint32(&buf, uint32(len(polys)))
	for i, p := range polys {
		putUint32(&buf, uint32(presentBins[i]))
		encodePolynomial(&buf, p)
	}
	return buf.Bytes()
}

func decodeLeg1(data []byte) (root [32]byte, n int, presentBins []int, polys []field.Polynomial, err error) {
	r := bytes.NewReader(data)
	root, err = read32(r)
	if err != nil {
		return root, 0, nil, nil, err
	}
	n32, err := readUint32(r)
	if err != nil {
		return root, 0, nil, nil, err
	}
	n = int(n32)

	count, err := readUint32(r)
	if err != nil {
		return root, n, nil, nil, err
	}
	presentBins = make([]int, count)
	polys = make([]field.Polynomial, count)
	for i := range polys {
		idx, err := readUint32(r)
		if err != nil {
			return root, n, nil, nil, err
		}
		presentBins[i] = int(idx)
		p, err := decodePolynomial(r)
		if err != nil {
			return root, n, nil, nil, err
		}
		polys[i] = p
	}
	return root, n, presentBins, polys, nil
}

// encodeLeg2 frames the Sender's response: its committed Merkle root, its
// Diffie-Hellman public share, its per-bin Q polynomials, and its opened
// salted leaves.
func encodeLeg2(root, gA [32]byte, qpolys []field.Polynomial, leaves [][32]byte) []byte {
	var buf bytes.Buffer
	buf.Write(root[:])
	buf.Write(gA[:])
	encodePolynomials(&buf, qpolys)
	putUint32(&buf, uint32(len(leaves)))
	for _, l := range leaves {
		buf.Write(l[:])
	}
	return buf.Bytes()
}

func decodeLeg2(data []byte) (root, gA [32]byte, qpolys []field.Polynomial, leaves [][32]byte, err error) {
	r := bytes.NewReader(data)
	root, err = read32(r)
	if err != nil {
		return
	}
	gA, err = read32(r)
	if err != nil {
		return
	}
	qpolys, err = decodePolynomials(r)
	if err != nil {
		return
	}
	n, err := readUint32(r)
	if err != nil {
		return
	}
	leaves = make([][32]byte, n)
	for i := range leaves {
		leaves[i], err = read32(r)
		if err != nil {
			return
		}
	}
	return
}
