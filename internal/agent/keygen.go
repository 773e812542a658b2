package agent

import (
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// PeerOpen is the (y_j, blind_j, commitment_j) triple the coordinator
// fans out in the keygen-distribute packet, per spec.md §6 CommitOpen.
type PeerOpen struct {
	ID         party.ID
	Y          curve.Point
	Blind      [32]byte
	Commitment [32]byte
}

// DistributeShares verifies every peer's opened commitment, then runs
// VSS.share on this agent's own secret a_i for every recipient in
// `allParties` with the given threshold, per spec.md §4.2.
func (a *Agent) DistributeShares(threshold int, allParties []party.ID, indexOf func(party.ID) (int, bool), opens []PeerOpen) ([]curve.Point, map[party.ID]curve.Scalar, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateCommitted {
		return nil, nil, core.NewStateError("distribute_shares: expected COMMITTED, got %s", a.state)
	}

	for _, o := range opens {
		if o.ID == a.self {
			continue
		}
		if !core.VerifyCommit(o.Commitment, o.Y, o.Blind) {
			idx, ok := indexOf(o.ID)
			if !ok {
				idx = -1
			}
			return nil, nil, core.NewProtocolFailure(idx, "commitment open failed for party %q", o.ID)
		}
	}

	commitments, shares, err := core.VSSShareAll(a.llk.A, threshold, allParties, indexOf)
	if err != nil {
		return nil, nil, err
	}
	a.commitVec = commitments
	a.state = StateDistributed
	return commitments, shares, nil
}

// ConstructShared verifies every received share against its
// distributor's published Feldman commitment vector, folds the
// verified shares into x_i, and derives the joint public key Y and
// this party's nonce-derivation prefix, per spec.md §4.2.
func (a *Agent) ConstructShared(threshold int, indexOf func(party.ID) (int, bool), peerVectors map[party.ID][]curve.Point, sharesForMe map[party.ID]curve.Scalar) (*SharedKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateDistributed {
		return nil, core.NewStateError("construct_shared: expected DISTRIBUTED, got %s", a.state)
	}

	for from, share := range sharesForMe {
		vec, ok := peerVectors[from]
		if !ok {
			idx, _ := indexOf(from)
			return nil, core.NewProtocolFailure(idx, "missing commitment vector from %q", from)
		}
		if !core.VSSVerifyShare(vec, a.index, share) {
			idx, _ := indexOf(from)
			return nil, core.NewProtocolFailure(idx, "VSS share verification failed from %q", from)
		}
	}

	x := curve.NewScalar()
	for _, share := range sharesForMe {
		x = x.Add(share)
	}

	y := curve.NewIdentityPoint()
	for _, vec := range peerVectors {
		y = y.Add(vec[0])
	}

	shared := &SharedKey{X: x, Y: y, Prefix: a.llk.Prefix}

	a.peerVecs = peerVectors
	a.shared = shared
	a.llk.Zeroize()
	for from, share := range sharesForMe {
		share.Zeroize()
		sharesForMe[from] = share
	}
	a.state = StateReady
	return shared, nil
}

// SharedKey returns the agent's keygen result, if ready.
func (a *Agent) SharedKey() (*SharedKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shared == nil {
		return nil, core.NewStateError("shared key not yet constructed (state=%s)", a.state)
	}
	return a.shared, nil
}

// PeerCommitmentVectors returns every distributor's Feldman commitment
// vector collected during keygen, needed by the coordinator to
// publicly recompute x_j·G at signing time (VerifyLocalSigs).
func (a *Agent) PeerCommitmentVectors() map[party.ID][]curve.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peerVecs
}
