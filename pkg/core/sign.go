package core

import (
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/polynomial"
	"golang.org/x/crypto/ed25519"
)

// ComputeLagrangeCoeff returns λ_i(0) for protocol index i (0-based)
// relative to the 0-based signing subset.
func ComputeLagrangeCoeff(index int, subset []int) curve.Scalar {
	xi := curve.ScalarFromIndex(uint32(index + 1))
	num := curve.ScalarFromIndex(1)
	den := curve.ScalarFromIndex(1)
	for _, j := range subset {
		if j == index {
			continue
		}
		xj := curve.ScalarFromIndex(uint32(j + 1))
		num = num.Mul(xj)
		den = den.Mul(xj.Sub(xi))
	}
	return num.Mul(den.Invert())
}

// LocalSig computes gamma_i = lambda_i·(rho_i + k·x_i) mod l, where
// rho_i is the unweighted sum of ephemeral VSS shares this party
// received and x_i is its DKG key share. Weighting the nonce
// contribution by the same Lagrange coefficient as the key share is
// what makes Σ_i gamma_i telescope to r + k·x: Σ_i lambda_i·rho_i
// reconstructs r = Σ_j r_j exactly as Σ_i lambda_i·x_i reconstructs x.
func LocalSig(rho, k, lambda, x curve.Scalar) curve.Scalar {
	return lambda.Mul(rho.Add(k.Mul(x)))
}

// Aggregate sums a set of per-party local signatures: s = Σ gamma_i mod l.
func Aggregate(gammas []curve.Scalar) curve.Scalar {
	sum := curve.NewScalar()
	for _, g := range gammas {
		sum = sum.Add(g)
	}
	return sum
}

// Signature is the final (R, s) pair; R||s is the 64-byte Ed25519 signature.
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// Bytes returns the 64-byte R||s encoding.
func (sig Signature) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], sig.R.Bytes())
	copy(out[32:], sig.S.Bytes())
	return out
}

// VerifyEd25519 checks the standard Ed25519 equation s·G == R + k·Y,
// where k = H512(encode(R) || encode(Y) || m) mod l.
func VerifyEd25519(sig Signature, message []byte, y curve.Point) bool {
	k := ComputeChallenge(sig.R, y, message)
	lhs := sig.S.ActOnBase()
	rhs := sig.R.Add(k.Act(y))
	return lhs.Equal(rhs)
}

// VerifyStd cross-checks a signature against the standard library's
// independent Ed25519 implementation (spec.md §8 property P3). yBytes
// must be the 32-byte encoding of the joint public key.
func VerifyStd(sigBytes, message, yBytes []byte) bool {
	if len(yBytes) != ed25519.PublicKeySize || len(sigBytes) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(yBytes), message, sigBytes)
}

// LocalSigVerifyInput bundles the public data needed to check one
// party's local signature without access to its secret share: its
// protocol index and reported gamma_i. The per-distributor Feldman
// commitment vectors from the DKG and ephemeral rounds, passed
// separately, let any verifier publicly recompute x_i·G and rho_i·G.
type LocalSigVerifyInput struct {
	Index int
	Gamma curve.Scalar
}

// VerifyLocalSigs checks, for every participant in the signing subset,
// that gamma_i·G == lambda_i·(rho_i·G + k·(x_i·G)), where x_i·G and
// rho_i·G are recomputed publicly from the DKG's and the ephemeral
// round's Feldman commitment vectors respectively. It returns a
// ProtocolFailure naming the first offending party index on mismatch.
func VerifyLocalSigs(inputs []LocalSigVerifyInput, k curve.Scalar, dkgCommitments, ephCommitments [][]curve.Point, subsetIndices []int) error {
	for _, in := range inputs {
		lambda := ComputeLagrangeCoeff(in.Index, subsetIndices)
		x := curve.ScalarFromIndex(uint32(in.Index + 1))

		xiG := curve.NewIdentityPoint()
		for _, commitments := range dkgCommitments {
			xiG = xiG.Add(polynomial.EvaluateCommitments(commitments, x))
		}
		rhoiG := curve.NewIdentityPoint()
		for _, commitments := range ephCommitments {
			rhoiG = rhoiG.Add(polynomial.EvaluateCommitments(commitments, x))
		}

		lhs := in.Gamma.ActOnBase()
		rhs := lambda.Act(rhoiG.Add(k.Act(xiG)))
		if !lhs.Equal(rhs) {
			return NewProtocolFailure(in.Index, "local signature verification failed")
		}
	}
	return nil
}
