// Package polynomial implements the Feldman VSS polynomial machinery:
// random polynomial construction over Z/l, evaluation, per-coefficient
// group commitments, and Lagrange interpolation at zero. Grounded on
// the teacher's pkg/math/polynomial (inferred from
// pkg/math/polynomial/lagrange_test.go and its callers in
// protocols/lss/keygen).
package polynomial

import (
	"crypto/rand"
	"io"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// Polynomial is f(x) = c0 + c1*x + ... + c_{degree}*x^degree over Z/l.
type Polynomial struct {
	coefficients []curve.Scalar
}

// NewPolynomial draws degree uniform coefficients c1..c_degree and
// sets the constant term c0 to a copy of secret, i.e. f(0) = secret.
// Zeroize wipes that copy, not the caller's scalar.
func NewPolynomial(degree int, secret curve.Scalar) (*Polynomial, error) {
	coeffs := make([]curve.Scalar, degree+1)
	coeffs[0] = curve.NewScalar().Add(secret)
	for i := 1; i <= degree; i++ {
		c, err := randomScalar(rand.Reader)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &Polynomial{coefficients: coeffs}, nil
}

// Degree returns the polynomial's degree.
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Constant returns f(0), the secret shared by this polynomial.
func (p *Polynomial) Constant() curve.Scalar { return p.coefficients[0] }

// Evaluate computes f(x) using Horner's method.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	acc := curve.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.coefficients[i])
	}
	return acc
}

// Commitments returns [c0*G, c1*G, ..., c_degree*G], the Feldman
// verification vector for this polynomial.
func (p *Polynomial) Commitments() []curve.Point {
	out := make([]curve.Point, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = c.ActOnBase()
	}
	return out
}

// Zeroize erases every coefficient, including the constant term.
func (p *Polynomial) Zeroize() {
	for i := range p.coefficients {
		p.coefficients[i].Zeroize()
	}
}

// EvaluateCommitments computes Σ_k x^k · commitments[k] = f(x)·G
// publicly, without knowledge of the coefficients, by evaluating the
// Feldman commitment vector in the exponent. Used both to verify an
// individual VSS share and to recompute a recipient's public share
// x_i·G from the aggregate of every distributor's commitment vector.
func EvaluateCommitments(commitments []curve.Point, x curve.Scalar) curve.Point {
	acc := curve.NewIdentityPoint()
	power := identityScalarOne()
	for _, c := range commitments {
		acc = acc.Add(power.Act(c))
		power = power.Mul(x)
	}
	return acc
}

func identityScalarOne() curve.Scalar {
	// 1 = ScalarFromIndex(1): index i=0 maps to protocol point (i+1)=1,
	// so ScalarFromIndex(1) is exactly the multiplicative identity.
	return curve.ScalarFromIndex(1)
}

// Lagrange computes, for every id in subset, its Lagrange coefficient
// at 0 relative to the full subset: λ_i(0) = Π_{j≠i} j/(j-i) mod l,
// using each party's 1-based protocol index (index+1).
func Lagrange(subset []party.ID, indexOf func(party.ID) (int, bool)) (map[party.ID]curve.Scalar, error) {
	xs := make(map[party.ID]curve.Scalar, len(subset))
	for _, id := range subset {
		idx, ok := indexOf(id)
		if !ok {
			return nil, errUnknownParty(string(id))
		}
		xs[id] = curve.ScalarFromIndex(uint32(idx + 1))
	}

	coeffs := make(map[party.ID]curve.Scalar, len(subset))
	for _, i := range subset {
		xi := xs[i]
		num := identityScalarOne()
		den := identityScalarOne()
		for _, j := range subset {
			if j == i {
				continue
			}
			xj := xs[j]
			num = num.Mul(xj)
			den = den.Mul(xj.Sub(xi))
		}
		coeffs[i] = num.Mul(den.Invert())
	}
	return coeffs, nil
}

func randomScalar(r io.Reader) (curve.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return curve.Scalar{}, err
	}
	return curve.ScalarFromWideBytes(buf[:])
}

type errUnknownParty string

func (e errUnknownParty) Error() string { return "polynomial: unknown party " + string(e) }
