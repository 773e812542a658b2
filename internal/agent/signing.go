package agent

import (
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// OpenSigning derives this agent's ephemeral key for message m,
// records it under the caller-supplied handle that identifies the
// signing session on this agent, and returns its public point R_i,
// per spec.md §4.2.
func (a *Agent) OpenSigning(handle string, message []byte) (curve.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shared == nil {
		return curve.Point{}, core.NewStateError("open_signing: keygen not completed")
	}
	if _, exists := a.sessions[handle]; exists {
		return curve.Point{}, core.NewStateError("open_signing: handle %q already in use", handle)
	}
	eph := core.CreateEphemeralKey(a.index, a.shared.Prefix, message)
	a.sessions[handle] = &signingSession{
		state:     StateEphRegistered,
		message:   message,
		eph:       eph,
		ephKeys:   make(map[party.ID]curve.Point),
		ephCommit: make(map[party.ID][32]byte),
		ephBlind:  make(map[party.ID][32]byte),
	}
	return eph.Point, nil
}

func (a *Agent) session(handle string) (*signingSession, error) {
	s, ok := a.sessions[handle]
	if !ok {
		return nil, core.NewStateError("unknown signing session handle %q", handle)
	}
	return s, nil
}

// EphCommit returns a fresh commitment to R_i, analogous to Commit.
func (a *Agent) EphCommit(handle string) (CommitOpen, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.session(handle)
	if err != nil {
		return CommitOpen{}, err
	}
	if s.state != StateEphRegistered {
		return CommitOpen{}, core.NewStateError("eph_commit: expected EPH_REGISTERED, got %s", s.state)
	}
	blind, err := core.RandomBlind()
	if err != nil {
		return CommitOpen{}, err
	}
	s.blind = blind
	s.state = StateEphCommitted
	return CommitOpen{Commitment: core.Commit(s.eph.Point, blind), Blind: blind}, nil
}

// EphPeerOpen is the (R_j, blind_j, commitment_j) triple exchanged
// during the ephemeral DKG round, per spec.md §6 EphOpen.
type EphPeerOpen struct {
	ID         party.ID
	R          curve.Point
	Blind      [32]byte
	Commitment [32]byte
}

// EphDistribute verifies every signer's opened ephemeral commitment,
// then VSS.shares this agent's nonce scalar r_i across the signing
// subset, per spec.md §4.2.
func (a *Agent) EphDistribute(handle string, threshold int, subset []party.ID, indexOf func(party.ID) (int, bool), opens []EphPeerOpen) ([]curve.Point, map[party.ID]curve.Scalar, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.session(handle)
	if err != nil {
		return nil, nil, err
	}
	if s.state != StateEphCommitted {
		return nil, nil, core.NewStateError("eph_distribute: expected EPH_COMMITTED, got %s", s.state)
	}

	for _, o := range opens {
		if o.ID == a.self {
			continue
		}
		if !core.VerifyCommit(o.Commitment, o.R, o.Blind) {
			idx, ok := indexOf(o.ID)
			if !ok {
				idx = -1
			}
			return nil, nil, core.NewProtocolFailure(idx, "ephemeral commitment open failed for party %q", o.ID)
		}
	}

	commitments, shares, err := core.VSSShareAll(s.eph.R, threshold, subset, indexOf)
	if err != nil {
		return nil, nil, err
	}
	s.ephVector = commitments
	s.subset = subset
	s.state = StateEphDistributed
	return commitments, shares, nil
}

// ConstructEph verifies each received ephemeral share, computes this
// party's nonce-share rho_i = Σ s'_{j→i}, and the aggregate nonce
// R = Σ R_j, per spec.md §4.2.
func (a *Agent) ConstructEph(handle string, indexOf func(party.ID) (int, bool), peerVectors map[party.ID][]curve.Point, sharesForMe map[party.ID]curve.Scalar, peerPoints map[party.ID]curve.Point) (*EphemeralSharedKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.session(handle)
	if err != nil {
		return nil, err
	}
	if s.state != StateEphDistributed {
		return nil, core.NewStateError("construct_eph: expected EPH_DISTRIBUTED, got %s", s.state)
	}

	for from, share := range sharesForMe {
		vec, ok := peerVectors[from]
		if !ok {
			idx, _ := indexOf(from)
			return nil, core.NewProtocolFailure(idx, "missing ephemeral commitment vector from %q", from)
		}
		if !core.VSSVerifyShare(vec, a.index, share) {
			idx, _ := indexOf(from)
			return nil, core.NewProtocolFailure(idx, "ephemeral VSS share verification failed from %q", from)
		}
	}

	rho := curve.NewScalar()
	for _, share := range sharesForMe {
		rho = rho.Add(share)
	}

	r := curve.NewIdentityPoint()
	for _, p := range peerPoints {
		r = r.Add(p)
	}

	shared := &EphemeralSharedKey{Rho: rho, R: r}
	s.shared = shared
	s.eph.Zeroize()
	for from, share := range sharesForMe {
		share.Zeroize()
		sharesForMe[from] = share
	}
	s.state = StateEphReady
	return shared, nil
}

// LocalSig computes gamma_i = lambda_i·(rho_i + k·x_i) mod l, where
// k = H512(encode(R) || encode(Y) || m) mod l, and returns k alongside
// so the coordinator can check challenge agreement across signers.
func (a *Agent) LocalSig(handle string, indexOf func(party.ID) (int, bool)) (gamma, k curve.Scalar, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, serr := a.session(handle)
	if serr != nil {
		return curve.Scalar{}, curve.Scalar{}, serr
	}
	if s.state != StateEphReady {
		return curve.Scalar{}, curve.Scalar{}, core.NewStateError("local_sig: expected EPH_READY, got %s", s.state)
	}

	subsetIndices := make([]int, len(s.subset))
	for i, id := range s.subset {
		idx, ok := indexOf(id)
		if !ok {
			return curve.Scalar{}, curve.Scalar{}, core.NewInvalidInput("local_sig: unknown signer %q", id)
		}
		subsetIndices[i] = idx
	}
	challenge := core.ComputeChallenge(s.shared.R, a.shared.Y, s.message)
	lambda := core.ComputeLagrangeCoeff(a.index, subsetIndices)
	gamma = core.LocalSig(s.shared.Rho, challenge, lambda, a.shared.X)

	s.k = challenge
	s.state = StateSigned
	return gamma, challenge, nil
}

// Close erases every live secret for the named signing session. It is
// safe to call multiple times.
func (a *Agent) Close(handle string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[handle]
	if !ok {
		return
	}
	if s.eph != nil {
		s.eph.Zeroize()
	}
	if s.shared != nil {
		s.shared.Zeroize()
	}
	delete(a.sessions, handle)
}

// CloseAll erases every live secret across every open signing session
// and the long-lived share, used when discarding the agent entirely.
func (a *Agent) CloseAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for h, s := range a.sessions {
		if s.eph != nil {
			s.eph.Zeroize()
		}
		if s.shared != nil {
			s.shared.Zeroize()
		}
		delete(a.sessions, h)
	}
	if a.shared != nil {
		a.shared.Zeroize()
	}
}
