// Package agent implements the per-party state machine of spec.md §4.2:
// a single logical actor holding one party's long-lived and ephemeral
// secrets across the DKG and signing rounds, serialized by a per-agent
// lock as spec.md §5 permits ("implementations may serialize with a
// per-agent lock or by construction").
package agent

import (
	"sync"

	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

// State is the agent's position in the §4.2 state machine.
type State int

const (
	StateInit State = iota
	StateRegistered
	StateCommitted
	StateDistributed
	StateReady
	StateEphRegistered
	StateEphCommitted
	StateEphDistributed
	StateEphReady
	StateSigned
)

func (s State) String() string {
	names := [...]string{
		"INIT", "REGISTERED", "COMMITTED", "DISTRIBUTED", "READY",
		"EPH_REGISTERED", "EPH_COMMITTED", "EPH_DISTRIBUTED", "EPH_READY", "SIGNED",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// CommitOpen is the commit/open pair of spec.md §3/§4.1: a commitment
// to a public point, opened by revealing the point and its blind.
type CommitOpen struct {
	Commitment [32]byte
	Blind      [32]byte
}

// SharedKey is the per-party output of keygen, per spec.md §3.
type SharedKey struct {
	X      curve.Scalar // x_i: this party's share of the joint private key
	Y      curve.Point  // joint public key
	Prefix [32]byte     // domain-separation seed for ephemeral nonce derivation
}

// Zeroize erases x_i and prefix.
func (sk *SharedKey) Zeroize() {
	sk.X.Zeroize()
	for i := range sk.Prefix {
		sk.Prefix[i] = 0
	}
}

// EphemeralSharedKey is the per-signing-session output of the
// ephemeral DKG round, per spec.md §3.
type EphemeralSharedKey struct {
	Rho curve.Scalar // this party's share of the joint nonce scalar
	R   curve.Point  // aggregate nonce point
}

// Zeroize erases rho.
func (esk *EphemeralSharedKey) Zeroize() {
	esk.Rho.Zeroize()
}

// signingSession holds the ephemeral state for one in-flight or
// completed signing round. Ephemeral material must not persist across
// process restarts, per spec.md §3.
type signingSession struct {
	state     State
	message   []byte
	eph       *core.EphemeralKey
	blind     [32]byte
	ephKeys   map[party.ID]curve.Point // received eph public points
	ephCommit map[party.ID][32]byte
	ephBlind  map[party.ID][32]byte
	ephVector []curve.Point // this agent's Feldman commitment vector
	shared    *EphemeralSharedKey
	subset    []party.ID
	k         curve.Scalar
}

// Agent is one party's long-lived protocol actor. At most one
// operation may execute on an Agent at a time.
type Agent struct {
	mu sync.Mutex

	self  party.ID
	index int // assigned only once the coordinator finishes registration

	state State

	llk   *core.LongLivedKey
	blind [32]byte

	commitVec []curve.Point              // this agent's own Feldman commitment vector
	peerVecs  map[party.ID][]curve.Point // every distributor's commitment vector

	shared *SharedKey

	sessions map[string]*signingSession
}

// New creates an agent for a not-yet-registered party. The protocol
// index is assigned later via SetIndex once the coordinator has
// finished registering every party (spec.md §9).
func New(self party.ID) *Agent {
	return &Agent{
		self:     self,
		state:    StateInit,
		sessions: make(map[string]*signingSession),
	}
}

// SetIndex records the 0-based protocol index the coordinator assigned
// to this party after registration closed.
func (a *Agent) SetIndex(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.index = index
}

// Index returns the assigned protocol index.
func (a *Agent) Index() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// State returns the agent's current keygen-phase state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Register creates the agent's LongLivedKey and returns its public
// point y_i. Fails if already registered.
func (a *Agent) Register() (curve.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateInit {
		return curve.Point{}, core.NewStateError("register: agent already registered (state=%s)", a.state)
	}
	llk, err := core.CreateLongLivedKey(a.index)
	if err != nil {
		return curve.Point{}, err
	}
	a.llk = llk
	a.state = StateRegistered
	return llk.Y, nil
}

// Commit returns a fresh commitment to y_i, per spec.md §4.2.
func (a *Agent) Commit() (CommitOpen, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateRegistered {
		return CommitOpen{}, core.NewStateError("commit: expected REGISTERED, got %s", a.state)
	}
	blind, err := core.RandomBlind()
	if err != nil {
		return CommitOpen{}, err
	}
	a.blind = blind
	a.state = StateCommitted
	return CommitOpen{Commitment: core.Commit(a.llk.Y, blind), Blind: blind}, nil
}
