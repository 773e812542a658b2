// Package curve provides the scalar and point arithmetic this module
// performs over the prime-order subgroup of Ed25519.
//
// The representation is deliberately narrow: a Scalar is an element of
// Z/l and a Point is a compressed-Edwards group element, backed by
// filippo.io/edwards25519. Encodings are always the canonical 32-byte
// forms so that values can cross a party/coordinator boundary as plain
// byte arrays, per the "single canonical internal representation" note.
package curve

import (
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/cronokirby/saferith"
)

// ErrInvalidEncoding is returned when a 32-byte buffer does not decode
// to a valid scalar or point.
var ErrInvalidEncoding = errors.New("curve: invalid encoding")

// Scalar is an element of Z/l, where l is the order of the Ed25519
// base-point subgroup.
type Scalar struct {
	s *edwards25519.Scalar
}

// NewScalar returns the zero scalar.
func NewScalar() Scalar {
	return Scalar{s: edwards25519.NewScalar()}
}

// ScalarFromIndex converts a 1-based party index into a scalar, the
// same conversion the teacher's keygen rounds perform via
// saferith.Nat before feeding an index into polynomial evaluation.
func ScalarFromIndex(index uint32) Scalar {
	nat := new(saferith.Nat).SetUint64(uint64(index))
	return scalarFromNat(nat)
}

// scalarFromNat encodes a small natural number (far below l, as every
// party index is) as a canonical little-endian scalar.
func scalarFromNat(nat *saferith.Nat) Scalar {
	be := nat.Bytes()
	var le [32]byte
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	sc, err := edwards25519.NewScalar().SetCanonicalBytes(le[:])
	if err != nil {
		panic(fmt.Sprintf("curve: unreachable: index scalar not canonical: %v", err))
	}
	return Scalar{s: sc}
}

// ScalarFromWideBytes reduces a 64-byte buffer mod l. Used to draw
// uniform polynomial coefficients from 64 random bytes.
func ScalarFromWideBytes(b []byte) (Scalar, error) {
	sc, err := edwards25519.NewScalar().SetUniformBytes(b)
	if err != nil {
		return Scalar{}, ErrInvalidEncoding
	}
	return Scalar{s: sc}, nil
}

// ScalarFromCanonicalBytes decodes a 32-byte little-endian scalar
// encoding, rejecting non-canonical representations.
func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	sc, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return Scalar{}, ErrInvalidEncoding
	}
	return Scalar{s: sc}, nil
}

// ScalarFromClampedSeed applies the RFC 8032 §5.1.5 clamping to the
// first half of a SHA-512 expansion and returns the resulting scalar.
func ScalarFromClampedSeed(h0 [32]byte) Scalar {
	h0[0] &= 248
	h0[31] &= 63
	h0[31] |= 64
	sc, err := edwards25519.NewScalar().SetBytesWithClamping(h0[:])
	if err != nil {
		panic(fmt.Sprintf("curve: unreachable: %v", err))
	}
	return Scalar{s: sc}
}

// Bytes returns the canonical 32-byte little-endian encoding.
func (a Scalar) Bytes() []byte {
	return a.s.Bytes()
}

// IsZero reports whether a is the additive identity.
func (a Scalar) IsZero() bool {
	var zero [32]byte
	return subtleEqual(a.Bytes(), zero[:])
}

// Equal reports whether a and b represent the same scalar.
func (a Scalar) Equal(b Scalar) bool {
	return a.s.Equal(b.s) == 1
}

// Add returns a+b mod l.
func (a Scalar) Add(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Add(a.s, b.s)}
}

// Sub returns a-b mod l.
func (a Scalar) Sub(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Subtract(a.s, b.s)}
}

// Mul returns a*b mod l.
func (a Scalar) Mul(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Multiply(a.s, b.s)}
}

// MulAdd returns a*b+c mod l.
func (a Scalar) MulAdd(b, c Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().MultiplyAdd(a.s, b.s, c.s)}
}

// Invert returns a^-1 mod l. If a is zero, it returns zero.
func (a Scalar) Invert() Scalar {
	return Scalar{s: edwards25519.NewScalar().Invert(a.s)}
}

// Negate returns -a mod l.
func (a Scalar) Negate() Scalar {
	return Scalar{s: edwards25519.NewScalar().Negate(a.s)}
}

// ActOnBase returns a*G, the group element obtained by acting on the
// Ed25519 base point.
func (a Scalar) ActOnBase() Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(a.s)}
}

// Act returns a*p.
func (a Scalar) Act(p Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarMult(a.s, p.p)}
}

// Zeroize overwrites the scalar's backing bytes with zeros in place, so
// every alias of the underlying *edwards25519.Scalar (a map entry, a
// value copy taken before the call, a struct field) observes the wipe.
// Call this on every secret scalar once it is no longer needed:
// sk_seed-derived `a`, `prefix`, per-signer `r_i`/`rho_i`, and VSS
// polynomial coefficients/shares once folded into a running sum.
func (a *Scalar) Zeroize() {
	if a.s == nil {
		return
	}
	zero := make([]byte, 64)
	a.s.SetUniformBytes(zero)
}

// Point is an element of the prime-order subgroup of Ed25519, in
// compressed-Edwards encoding.
type Point struct {
	p *edwards25519.Point
}

// NewIdentityPoint returns the group identity.
func NewIdentityPoint() Point {
	return Point{p: edwards25519.NewIdentityPoint()}
}

// PointFromCanonicalBytes decodes a 32-byte compressed Edwards point,
// rejecting malformed encodings per RFC 8032 §5.1.3.
func PointFromCanonicalBytes(b []byte) (Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return Point{}, ErrInvalidEncoding
	}
	return Point{p: p}, nil
}

// Bytes returns the canonical 32-byte compressed encoding.
func (p Point) Bytes() []byte {
	return p.p.Bytes()
}

// Equal reports whether p and q encode the same group element.
func (p Point) Equal(q Point) bool {
	return p.p.Equal(q.p) == 1
}

// IsIdentity reports whether p is the group identity.
func (p Point) IsIdentity() bool {
	return p.Equal(NewIdentityPoint())
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().Add(p.p, q.p)}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Point) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Point) UnmarshalBinary(b []byte) error {
	q, err := PointFromCanonicalBytes(b)
	if err != nil {
		return err
	}
	*p = q
	return nil
}

func subtleEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// HashWideToScalar reduces a SHA-512 digest mod l. Shared helper for
// the Ed25519 challenge and nonce-share derivations in pkg/core.
func HashWideToScalar(data ...[]byte) Scalar {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	sum := h.Sum(nil)
	sc, err := edwards25519.NewScalar().SetUniformBytes(sum)
	if err != nil {
		panic(fmt.Sprintf("curve: unreachable: %v", err))
	}
	return Scalar{s: sc}
}
