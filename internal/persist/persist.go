// Package persist implements the minimal on-disk layout spec.md §6
// allows for a party's SharedKey: (x_i, prefix, Y, commit_vec_j for
// all j, assigned party index), serialized with fxamacker/cbor/v2 —
// the same library the teacher's protocols/lss/config/marshal.go uses
// for Config persistence. No other package in this module imports
// cbor; this is the single serialize-at-the-edge boundary the DESIGN
// NOTES call for.
package persist

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// Record is the wire/disk shape of a party's persisted keygen output.
type Record struct {
	Index         int
	X             []byte            // x_i, canonical scalar encoding
	Prefix        []byte            // 32-byte nonce-derivation prefix
	Y             []byte            // joint public key, canonical point encoding
	CommitVectors map[string][][]byte // distributor party ID -> Feldman commitment vector
}

// Marshal encodes a party's SharedKey plus the DKG commitment vectors
// collected during keygen into CBOR bytes.
func Marshal(index int, shared *agent.SharedKey, commitVectors map[party.ID][]curve.Point) ([]byte, error) {
	rec := Record{
		Index:         index,
		X:             shared.X.Bytes(),
		Prefix:        append([]byte(nil), shared.Prefix[:]...),
		Y:             shared.Y.Bytes(),
		CommitVectors: make(map[string][][]byte, len(commitVectors)),
	}
	for id, vec := range commitVectors {
		encoded := make([][]byte, len(vec))
		for i, p := range vec {
			encoded[i] = p.Bytes()
		}
		rec.CommitVectors[string(id)] = encoded
	}
	return cbor.Marshal(rec)
}

// Unmarshal decodes CBOR bytes back into a SharedKey and its
// commitment vectors.
func Unmarshal(data []byte) (int, *agent.SharedKey, map[party.ID][]curve.Point, error) {
	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return 0, nil, nil, err
	}

	x, err := curve.ScalarFromCanonicalBytes(rec.X)
	if err != nil {
		return 0, nil, nil, err
	}
	y, err := curve.PointFromCanonicalBytes(rec.Y)
	if err != nil {
		return 0, nil, nil, err
	}
	var prefix [32]byte
	copy(prefix[:], rec.Prefix)

	shared := &agent.SharedKey{X: x, Y: y, Prefix: prefix}

	vectors := make(map[party.ID][]curve.Point, len(rec.CommitVectors))
	for id, encoded := range rec.CommitVectors {
		vec := make([]curve.Point, len(encoded))
		for i, b := range encoded {
			p, err := curve.PointFromCanonicalBytes(b)
			if err != nil {
				return 0, nil, nil, err
			}
			vec[i] = p
		}
		vectors[party.ID(id)] = vec
	}

	return rec.Index, shared, vectors, nil
}
