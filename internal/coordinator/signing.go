package coordinator

import (
	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func (c *Coordinator) signingSessionByID(id string) (*signingSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.signing[id]
	if !ok {
		return nil, core.NewStateError("unknown signing session %q", id)
	}
	return s, nil
}

// CollectEphCommitments gathers every signer's ephemeral commit-open
// triple and returns the eph-distribute packet, analogous to
// CollectCommitments but restricted to the signing subset.
func (c *Coordinator) CollectEphCommitments(sessionID string, opens map[party.ID]agent.CommitOpen, points map[party.ID]curve.Point) ([]agent.EphPeerOpen, error) {
	s, err := c.signingSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if len(opens) != len(s.subsetIDs) {
		return nil, core.NewInvalidInput("expected %d ephemeral commitments, got %d", len(s.subsetIDs), len(opens))
	}

	ordered := make([]agent.EphPeerOpen, 0, len(opens))
	for _, id := range s.subsetIDs {
		o, ok := opens[id]
		if !ok {
			return nil, core.NewInvalidInput("missing ephemeral commitment from party %q", id)
		}
		p, ok := points[id]
		if !ok {
			return nil, core.NewInvalidInput("missing ephemeral point from party %q", id)
		}
		ordered = append(ordered, agent.EphPeerOpen{
			ID:         id,
			R:          p,
			Blind:      o.Blind,
			Commitment: o.Commitment,
		})
	}

	c.mu.Lock()
	s.ephPoints = points
	c.mu.Unlock()
	return ordered, nil
}

// CollectEphShares stores each signer's ephemeral Feldman commitment
// vector and rearranges ephemeral VSS shares into per-recipient
// bundles, restricted to the signing subset.
func (c *Coordinator) CollectEphShares(sessionID string, vectors map[party.ID][]curve.Point, shares map[party.ID]map[party.ID]curve.Scalar) (map[party.ID][]curve.Point, map[party.ID]map[party.ID]curve.Scalar, error) {
	s, err := c.signingSessionByID(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != len(s.subsetIDs) {
		return nil, nil, core.NewInvalidInput("expected %d ephemeral commitment vectors, got %d", len(s.subsetIDs), len(vectors))
	}

	perRecipient := make(map[party.ID]map[party.ID]curve.Scalar, len(s.subsetIDs))
	for _, recipient := range s.subsetIDs {
		perRecipient[recipient] = make(map[party.ID]curve.Scalar, len(s.subsetIDs))
	}
	for distributor, perRecip := range shares {
		for recipient, share := range perRecip {
			perRecipient[recipient][distributor] = share
		}
	}

	c.mu.Lock()
	s.ephCommitVecs = vectors
	c.mu.Unlock()
	return vectors, perRecipient, nil
}

// SigReport is one signer's local signature contribution: its partial
// signature gamma_i and the shared challenge k it computed the
// contribution against.
type SigReport struct {
	Gamma curve.Scalar
	K     curve.Scalar
}

// CollectLocalSigs gathers every signer's (gamma_i, k) report. It
// verifies challenge agreement (InconsistentInput on mismatch), then
// verifies each local signature against the public DKG commitments
// (ProtocolFailure{first offending index} on mismatch), aggregates,
// and verifies the final signature against Y (InternalInvariantFailure
// if that defensive check somehow fails despite all local checks
// passing), per spec.md §4.3.
func (c *Coordinator) CollectLocalSigs(sessionID string, reports map[party.ID]SigReport) (core.Signature, error) {
	s, err := c.signingSessionByID(sessionID)
	if err != nil {
		return core.Signature{}, err
	}

	c.mu.RLock()
	y := c.y
	peerVectors := c.peerVectors
	parties := c.parties
	c.mu.RUnlock()

	if len(reports) != len(s.subsetIDs) {
		return core.Signature{}, core.NewInvalidInput("expected %d local sig reports, got %d", len(s.subsetIDs), len(reports))
	}

	var k curve.Scalar
	first := true
	for _, r := range reports {
		if first {
			k = r.K
			first = false
			continue
		}
		if !r.K.Equal(k) {
			return core.Signature{}, core.NewInconsistentInput(nil, "signers disagree on challenge k")
		}
	}

	dkgCommitments := make([][]curve.Point, 0, len(peerVectors))
	for _, vec := range peerVectors {
		dkgCommitments = append(dkgCommitments, vec)
	}
	ephCommitments := make([][]curve.Point, 0, len(s.ephCommitVecs))
	for _, vec := range s.ephCommitVecs {
		ephCommitments = append(ephCommitments, vec)
	}

	verifyInputs := make([]core.LocalSigVerifyInput, 0, len(s.subsetIDs))
	gammas := make([]curve.Scalar, 0, len(s.subsetIDs))
	for _, id := range s.subsetIDs {
		r, ok := reports[id]
		if !ok {
			return core.Signature{}, core.NewInvalidInput("missing local sig report from party %q", id)
		}
		idx, _ := parties.IndexOf(id)
		verifyInputs = append(verifyInputs, core.LocalSigVerifyInput{
			Index: idx,
			Gamma: r.Gamma,
		})
		gammas = append(gammas, r.Gamma)
	}

	if err := core.VerifyLocalSigs(verifyInputs, k, dkgCommitments, ephCommitments, s.subsetIndices); err != nil {
		return core.Signature{}, err
	}

	sig := core.Signature{R: aggregateR(s.ephPoints), S: core.Aggregate(gammas)}

	if !core.VerifyEd25519(sig, s.message, y) {
		return core.Signature{}, core.NewInternalInvariantFailure("aggregated signature failed final verification despite all local checks passing")
	}

	c.mu.Lock()
	delete(c.signing, sessionID)
	c.mu.Unlock()

	return sig, nil
}

func aggregateR(points map[party.ID]curve.Point) curve.Point {
	r := curve.NewIdentityPoint()
	for _, p := range points {
		r = r.Add(p)
	}
	return r
}
