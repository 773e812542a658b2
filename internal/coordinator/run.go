package coordinator

import (
	"context"
	"sync"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// ctxMutex serializes writes into a shared map from concurrent
// errgroup goroutines.
type ctxMutex struct{ mu sync.Mutex }

func (m *ctxMutex) do(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// RunKeygen drives a full keygen session end to end against the
// agents previously registered with RegisterParty, fanning the
// per-round work for each party out concurrently via errgroup
// (golang.org/x/sync), per spec.md §5's single-threaded-session /
// parallelism-across-parties model. It returns the joint public key.
func (c *Coordinator) RunKeygen(ctx context.Context) (curve.Point, error) {
	if !c.Ready() {
		return curve.Point{}, core.NewStateError("run_keygen: registration not yet closed")
	}
	ids := c.PartyIDs()

	opens := make(map[party.ID]agent.CommitOpen, len(ids))
	var mu ctxMutex
	if err := runConcurrently(ctx, ids, func(_ context.Context, id party.ID) error {
		o, err := c.agentFor(id).Commit()
		if err != nil {
			return err
		}
		mu.do(func() { opens[id] = o })
		return nil
	}); err != nil {
		return curve.Point{}, err
	}

	peerOpens, err := c.CollectCommitments(opens)
	if err != nil {
		return curve.Point{}, err
	}

	vectors := make(map[party.ID][]curve.Point, len(ids))
	allShares := make(map[party.ID]map[party.ID]curve.Scalar, len(ids))
	indexOf := c.IndexOfFunc()
	if err := runConcurrently(ctx, ids, func(_ context.Context, id party.ID) error {
		vec, shares, err := c.agentFor(id).DistributeShares(c.threshold, ids, indexOf, peerOpens)
		if err != nil {
			return err
		}
		mu.do(func() {
			vectors[id] = vec
			allShares[id] = shares
		})
		return nil
	}); err != nil {
		return curve.Point{}, err
	}

	_, perRecipient, err := c.CollectShares(vectors, allShares)
	if err != nil {
		return curve.Point{}, err
	}

	reports := make(map[party.ID]curve.Point, len(ids))
	if err := runConcurrently(ctx, ids, func(_ context.Context, id party.ID) error {
		shared, err := c.agentFor(id).ConstructShared(c.threshold, indexOf, vectors, perRecipient[id])
		if err != nil {
			return err
		}
		mu.do(func() { reports[id] = shared.Y })
		return nil
	}); err != nil {
		return curve.Point{}, err
	}

	return c.CollectSharedKeys(reports)
}

// RunSigning drives a full signing session end to end over
// signingParties for message m. Multiple calls to RunSigning may be
// in flight concurrently; they only take the coordinator's read lock
// on Y and the DKG commitment vectors.
func (c *Coordinator) RunSigning(ctx context.Context, signingParties []party.ID, message []byte) (core.Signature, error) {
	sessionID, subset, err := c.StartSigning(signingParties, message)
	if err != nil {
		return core.Signature{}, err
	}
	indexOf := c.IndexOfFunc()
	handle := sessionID
	defer func() {
		for _, id := range subset {
			c.agentFor(id).Close(handle)
		}
	}()

	var mu ctxMutex

	points := make(map[party.ID]curve.Point, len(subset))
	if err := runConcurrently(ctx, subset, func(_ context.Context, id party.ID) error {
		p, err := c.agentFor(id).OpenSigning(handle, message)
		if err != nil {
			return err
		}
		mu.do(func() { points[id] = p })
		return nil
	}); err != nil {
		return core.Signature{}, err
	}

	opens := make(map[party.ID]agent.CommitOpen, len(subset))
	if err := runConcurrently(ctx, subset, func(_ context.Context, id party.ID) error {
		o, err := c.agentFor(id).EphCommit(handle)
		if err != nil {
			return err
		}
		mu.do(func() { opens[id] = o })
		return nil
	}); err != nil {
		return core.Signature{}, err
	}

	ephOpens, err := c.CollectEphCommitments(sessionID, opens, points)
	if err != nil {
		return core.Signature{}, err
	}

	ephVectors := make(map[party.ID][]curve.Point, len(subset))
	ephShares := make(map[party.ID]map[party.ID]curve.Scalar, len(subset))
	if err := runConcurrently(ctx, subset, func(_ context.Context, id party.ID) error {
		vec, shares, err := c.agentFor(id).EphDistribute(handle, c.threshold, subset, indexOf, ephOpens)
		if err != nil {
			return err
		}
		mu.do(func() {
			ephVectors[id] = vec
			ephShares[id] = shares
		})
		return nil
	}); err != nil {
		return core.Signature{}, err
	}

	_, perRecipient, err := c.CollectEphShares(sessionID, ephVectors, ephShares)
	if err != nil {
		return core.Signature{}, err
	}

	reports := make(map[party.ID]SigReport, len(subset))
	if err := runConcurrently(ctx, subset, func(_ context.Context, id party.ID) error {
		_, err := c.agentFor(id).ConstructEph(handle, indexOf, ephVectors, perRecipient[id], points)
		if err != nil {
			return err
		}
		gamma, k, err := c.agentFor(id).LocalSig(handle, indexOf)
		if err != nil {
			return err
		}
		mu.do(func() { reports[id] = SigReport{Gamma: gamma, K: k} })
		return nil
	}); err != nil {
		return core.Signature{}, err
	}

	return c.CollectLocalSigs(sessionID, reports)
}

func (c *Coordinator) agentFor(id party.ID) *agent.Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agents[id]
}
