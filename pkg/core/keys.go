package core

import (
	"crypto/rand"
	"io"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
)

// LongLivedKey is a party's long-term Ed25519-compatible keypair
// material, per spec.md §3. It is created once at DKG and destroyed
// only when the owning agent discards the session.
type LongLivedKey struct {
	PartyIndex int
	SkSeed     [32]byte
	A          curve.Scalar // clamped private scalar
	Prefix     [32]byte     // RFC 8032 §5.1.5 nonce-derivation prefix
	Y          curve.Point  // A·G, this party's individual public key
}

// CreateLongLivedKey draws 32 fresh random bytes as sk_seed and
// expands them per RFC 8032 §5.1.5.
func CreateLongLivedKey(partyIndex int) (*LongLivedKey, error) {
	seed, err := RandomBytes32()
	if err != nil {
		return nil, err
	}
	return CreateLongLivedKeyFromSeed(partyIndex, seed)
}

// CreateLongLivedKeyFromSeed is identical to CreateLongLivedKey except
// sk_seed is supplied by the caller (create_from_private in spec.md).
func CreateLongLivedKeyFromSeed(partyIndex int, seed [32]byte) (*LongLivedKey, error) {
	a, prefix := ExpandSeed(seed)
	return &LongLivedKey{
		PartyIndex: partyIndex,
		SkSeed:     seed,
		A:          a,
		Prefix:     prefix,
		Y:          a.ActOnBase(),
	}, nil
}

// Zeroize erases sk_seed, the clamped scalar and the nonce prefix.
func (k *LongLivedKey) Zeroize() {
	for i := range k.SkSeed {
		k.SkSeed[i] = 0
	}
	for i := range k.Prefix {
		k.Prefix[i] = 0
	}
	k.A.Zeroize()
}

// EphemeralKey is structurally identical to LongLivedKey but its
// scalar is derived deterministically from (prefix, message) instead
// of fresh randomness, per spec.md §3.
type EphemeralKey struct {
	PartyIndex int
	R          curve.Scalar // r_i
	Point      curve.Point  // R_i = r_i·G
}

// CreateEphemeralKey derives r_i = H512(prefix_i || m) mod l and
// R_i = r_i·G.
func CreateEphemeralKey(partyIndex int, prefix [32]byte, message []byte) *EphemeralKey {
	r := ComputeNonceShare(prefix, message)
	return &EphemeralKey{
		PartyIndex: partyIndex,
		R:          r,
		Point:      r.ActOnBase(),
	}
}

// Zeroize erases the ephemeral scalar.
func (k *EphemeralKey) Zeroize() {
	k.R.Zeroize()
}

// RandomBlind draws a fresh 32-byte commitment blind.
func RandomBlind() ([32]byte, error) {
	var b [32]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return b, err
	}
	return b, nil
}
