package core

import (
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
	"github.com/luxfi/thresh-eddsa/pkg/polynomial"
)

// VSSShareAll runs Feldman VSS over secret for every id in recipients,
// using a degree (threshold-1) polynomial. Returns the commitment
// vector and one share per recipient. Internally this module always
// exposes `threshold` (the signing quorum) at its public API and
// converts to the polynomial degree threshold-1 here, per spec.md §9.
func VSSShareAll(secret curve.Scalar, threshold int, recipients []party.ID, indexOf func(party.ID) (int, bool)) ([]curve.Point, map[party.ID]curve.Scalar, error) {
	if threshold < 1 {
		return nil, nil, NewInvalidInput("threshold %d must be >= 1", threshold)
	}
	poly, err := polynomial.NewPolynomial(threshold-1, secret)
	if err != nil {
		return nil, nil, err
	}
	defer poly.Zeroize()

	commitments := poly.Commitments()
	shares := make(map[party.ID]curve.Scalar, len(recipients))
	for _, id := range recipients {
		idx, ok := indexOf(id)
		if !ok {
			return nil, nil, NewInvalidInput("unknown recipient %q", id)
		}
		x := curve.ScalarFromIndex(uint32(idx + 1))
		shares[id] = poly.Evaluate(x)
	}
	return commitments, shares, nil
}

// VSSVerifyShare reports whether share·G == Σ_k (recipientIndex+1)^k · commitments[k],
// i.e. that share is consistent with the distributor's published
// Feldman commitment vector, per spec.md §4.1.
func VSSVerifyShare(commitments []curve.Point, recipientIndex int, share curve.Scalar) bool {
	x := curve.ScalarFromIndex(uint32(recipientIndex + 1))
	expected := polynomial.EvaluateCommitments(commitments, x)
	return share.ActOnBase().Equal(expected)
}

// VSSReconstructSecret performs Lagrange reconstruction of f(0) from a
// set of shares at >= threshold distinct points.
func VSSReconstructSecret(shares map[party.ID]curve.Scalar, indexOf func(party.ID) (int, bool)) (curve.Scalar, error) {
	ids := make([]party.ID, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	coeffs, err := polynomial.Lagrange(ids, indexOf)
	if err != nil {
		return curve.Scalar{}, err
	}
	sum := curve.NewScalar()
	for _, id := range ids {
		sum = sum.Add(coeffs[id].Mul(shares[id]))
	}
	return sum, nil
}
