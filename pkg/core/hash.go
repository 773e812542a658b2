package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"io"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
)

// RandomBytes32 draws 32 uniformly random bytes, used for sk_seed.
// Commitment blinds are drawn by RandomBlind.
func RandomBytes32() ([32]byte, error) {
	var b [32]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return b, err
	}
	return b, nil
}

// Commit computes H256(encode(p) || blind), the hash-based
// commit/open scheme of spec.md §4.1.
func Commit(p curve.Point, blind [32]byte) [32]byte {
	h := sha256.New()
	h.Write(p.Bytes())
	h.Write(blind[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyCommit reports whether commitment was produced by Commit(p, blind).
func VerifyCommit(commitment [32]byte, p curve.Point, blind [32]byte) bool {
	got := Commit(p, blind)
	return got == commitment
}

// ComputeChallenge computes k = H512(encode(R) || encode(Y) || m) mod l,
// the Ed25519 challenge hash.
func ComputeChallenge(r, y curve.Point, message []byte) curve.Scalar {
	return curve.HashWideToScalar(r.Bytes(), y.Bytes(), message)
}

// ComputeNonceShare computes r_i = H512(prefix || m) mod l, the
// deterministic ephemeral nonce-share derivation of spec.md §4.1.
func ComputeNonceShare(prefix [32]byte, message []byte) curve.Scalar {
	return curve.HashWideToScalar(prefix[:], message)
}

// ExpandSeed runs the RFC 8032 §5.1.5 secret expansion: h = SHA512(seed),
// clamp the low half into scalar a, and keep the high half as prefix.
func ExpandSeed(seed [32]byte) (a curve.Scalar, prefix [32]byte) {
	h := sha512.Sum512(seed[:])
	var h0 [32]byte
	copy(h0[:], h[:32])
	copy(prefix[:], h[32:])
	return curve.ScalarFromClampedSeed(h0), prefix
}
