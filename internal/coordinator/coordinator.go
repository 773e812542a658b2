// Package coordinator implements the stateful orchestrator of
// spec.md §4.3: one keygen session plus zero-or-more concurrent
// signing sessions against its result. The coordinator holds no
// secret material; it fans out round requests to party agents,
// collects responses, enforces ordering, and performs final
// aggregation and signature verification.
package coordinator

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// Coordinator orchestrates one keygen session and any number of
// independent, concurrent signing sessions against its result.
type Coordinator struct {
	mu sync.RWMutex

	threshold int
	expectedN int

	agents  map[party.ID]*agent.Agent
	parties *party.Set // nil until registration is closed

	registered map[party.ID]curve.Point // y_i reported at RegisterResponse time

	peerVectors map[party.ID][]curve.Point

	y curve.Point // joint public key, read-only once keygen completes

	keygenDone bool

	signing map[string]*signingSession
}

// signingSession is the coordinator-side bookkeeping for one signing
// round. Multiple signingSessions may be in flight concurrently; they
// only take a read lock on the coordinator's shared keygen outputs.
type signingSession struct {
	id            string
	subsetIDs     []party.ID
	subsetIndices []int

	ephPoints     map[party.ID]curve.Point
	ephCommitVecs map[party.ID][]curve.Point
	gammas        map[party.ID]curve.Scalar
	challenges    map[party.ID]curve.Scalar

	message []byte
}

// New creates a Coordinator for the given threshold and expected party
// count. Precondition 2 <= t <= n; violating it is InvalidInput.
func New(threshold, expectedN int) (*Coordinator, error) {
	if threshold < 2 || threshold > expectedN {
		return nil, core.NewInvalidInput("invalid threshold %d for %d parties", threshold, expectedN)
	}
	return &Coordinator{
		threshold:   threshold,
		expectedN:   expectedN,
		agents:      make(map[party.ID]*agent.Agent),
		registered:  make(map[party.ID]curve.Point),
		peerVectors: make(map[party.ID][]curve.Point),
		signing:     make(map[string]*signingSession),
	}, nil
}

// RegisterParty records party id's public key y, as reported by
// RegisterResponse. Duplicate IDs are InvalidInput. Once every
// expected party has registered, the coordinator assigns protocol
// indices by a stable lexicographic sort of the party IDs (spec.md §9)
// — client-supplied indices are never trusted.
func (c *Coordinator) RegisterParty(id party.ID, y curve.Point, a *agent.Agent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.registered[id]; dup {
		return core.NewInvalidInput("duplicate registration for party %q", id)
	}
	c.registered[id] = y
	c.agents[id] = a

	if len(c.registered) < c.expectedN {
		return nil
	}
	if len(c.registered) > c.expectedN {
		return core.NewInvalidInput("more parties registered (%d) than expected (%d)", len(c.registered), c.expectedN)
	}

	ids := make([]party.ID, 0, len(c.registered))
	for pid := range c.registered {
		ids = append(ids, pid)
	}
	set, err := party.AssignIndices(ids)
	if err != nil {
		return err
	}
	c.parties = set
	for pid, ag := range c.agents {
		idx, _ := set.IndexOf(pid)
		ag.SetIndex(idx)
	}
	return nil
}

// IndexOf exposes the assigned protocol index for a registered party.
func (c *Coordinator) IndexOf(id party.ID) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.parties == nil {
		return 0, false
	}
	return c.parties.IndexOf(id)
}

// Ready reports whether registration has closed (every expected party
// has registered and indices have been assigned).
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parties != nil
}

// PartyIDs returns the registered parties in assigned-index order.
func (c *Coordinator) PartyIDs() []party.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.parties == nil {
		return nil
	}
	return c.parties.IDs()
}

// CollectCommitments gathers every party's commit-open triple and
// returns the keygen-distribute packet described in spec.md §6
// (ShareBundle's predecessor), one slice that every party receives:
// the full opened set sorted by assigned index, so every party
// independently derives the same recipient ordering.
func (c *Coordinator) CollectCommitments(opens map[party.ID]agent.CommitOpen) ([]agent.PeerOpen, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parties == nil {
		return nil, core.NewStateError("collect_commitments: registration not yet closed")
	}
	if len(opens) != c.parties.N() {
		return nil, core.NewInvalidInput("expected %d commitments, got %d", c.parties.N(), len(opens))
	}

	ordered := make([]agent.PeerOpen, 0, len(opens))
	for _, id := range c.parties.IDs() {
		o, ok := opens[id]
		if !ok {
			return nil, core.NewInvalidInput("missing commitment from party %q", id)
		}
		ordered = append(ordered, agent.PeerOpen{
			ID:         id,
			Y:          c.registered[id],
			Blind:      o.Blind,
			Commitment: o.Commitment,
		})
	}
	return ordered, nil
}

// CollectShares stores each distributor's Feldman commitment vector
// and rearranges the VSS shares into per-recipient bundles, returning
// each party's construct-shared input, per spec.md §4.3.
func (c *Coordinator) CollectShares(vectors map[party.ID][]curve.Point, shares map[party.ID]map[party.ID]curve.Scalar) (map[party.ID][]curve.Point, map[party.ID]map[party.ID]curve.Scalar, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parties == nil {
		return nil, nil, core.NewStateError("collect_shares: registration not yet closed")
	}
	if len(vectors) != c.parties.N() {
		return nil, nil, core.NewInvalidInput("expected %d commitment vectors, got %d", c.parties.N(), len(vectors))
	}

	perRecipient := make(map[party.ID]map[party.ID]curve.Scalar, c.parties.N())
	for _, recipient := range c.parties.IDs() {
		perRecipient[recipient] = make(map[party.ID]curve.Scalar, c.parties.N())
	}
	for distributor, perRecip := range shares {
		for recipient, share := range perRecip {
			perRecipient[recipient][distributor] = share
		}
	}

	c.peerVectors = vectors
	return vectors, perRecipient, nil
}

// CollectSharedKeys verifies every party reports the same joint public
// key Y, stores it, and marks the keygen session complete.
func (c *Coordinator) CollectSharedKeys(reports map[party.ID]curve.Point) (curve.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parties == nil {
		return curve.Point{}, core.NewStateError("collect_shared_keys: registration not yet closed")
	}

	var first curve.Point
	have := false
	for _, y := range reports {
		if !have {
			first = y
			have = true
			continue
		}
		if !y.Equal(first) {
			return curve.Point{}, core.NewInconsistentInput(nil, "parties reported different joint public keys")
		}
	}
	if !have {
		return curve.Point{}, core.NewInvalidInput("no shared-key reports provided")
	}

	c.y = first
	c.keygenDone = true
	return first, nil
}

// PublicKey returns the joint public key Y, once keygen has completed.
// Y and the keygen commitment vectors are the only durable shared
// resource (spec.md §5) and are safe to read concurrently from any
// number of signing sessions.
func (c *Coordinator) PublicKey() (curve.Point, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.keygenDone {
		return curve.Point{}, core.NewStateError("keygen not yet complete")
	}
	return c.y, nil
}

// Threshold returns the signing quorum t.
func (c *Coordinator) Threshold() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threshold
}

// StartSigning opens a new signing session over signingParties for
// message m. Precondition |signingParties| >= t.
func (c *Coordinator) StartSigning(signingParties []party.ID, message []byte) (string, []party.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.keygenDone {
		return "", nil, core.NewStateError("start_signing: keygen not yet complete")
	}
	if len(signingParties) < c.threshold {
		return "", nil, core.NewInsufficientSigners(len(signingParties), c.threshold)
	}

	sorted := make([]party.ID, len(signingParties))
	copy(sorted, signingParties)
	sort.Slice(sorted, func(i, j int) bool {
		ii, _ := c.parties.IndexOf(sorted[i])
		jj, _ := c.parties.IndexOf(sorted[j])
		return ii < jj
	})

	indices := make([]int, len(sorted))
	for i, id := range sorted {
		idx, ok := c.parties.IndexOf(id)
		if !ok {
			return "", nil, core.NewInvalidInput("unknown signing party %q", id)
		}
		indices[i] = idx
	}

	id := sessionID(c.threshold, sorted, message)
	c.signing[id] = &signingSession{
		id:            id,
		subsetIDs:     sorted,
		subsetIndices: indices,
		ephPoints:     make(map[party.ID]curve.Point),
		ephCommitVecs: make(map[party.ID][]curve.Point),
		gammas:        make(map[party.ID]curve.Scalar),
		challenges:    make(map[party.ID]curve.Scalar),
		message:       message,
	}
	return id, sorted, nil
}

// sessionID derives a stable, loggable discriminator for a session
// from its public parameters. It plays the role the teacher's
// round.Helper.SSID() plays, but is not itself part of the
// cryptographic security argument: P7's determinism already follows
// from (prefix_i, m) alone.
func sessionID(threshold int, parties []party.ID, message []byte) string {
	h := blake3.New()
	var tbuf [8]byte
	tbuf[0] = byte(threshold)
	h.Write(tbuf[:])
	for _, p := range parties {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	h.Write(message)
	return uuid.NewSHA1(uuid.NameSpaceOID, h.Sum(nil)).String()
}

// IndexOfFunc exposes an indexOf closure bound to this coordinator's
// current party set, for callers (agents) that need to resolve a peer
// ID to its protocol index.
func (c *Coordinator) IndexOfFunc() func(party.ID) (int, bool) {
	return func(id party.ID) (int, bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.parties == nil {
			return 0, false
		}
		return c.parties.IndexOf(id)
	}
}

// runConcurrently fans work out across ids using an errgroup, matching
// the teacher's use of golang.org/x/sync for parallel per-party work.
// A party's step is not started once ctx has been cancelled.
func runConcurrently(ctx context.Context, ids []party.ID, fn func(context.Context, party.ID) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, id)
		})
	}
	return g.Wait()
}
