// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

// NetworkID identifies the remote chain a verifier instance is scoped
// to. All trusted state and submissions are partitioned by it.
type NetworkID = ids.ID

// KnownRootsToKeep bounds the ring of recently verified MMR roots kept
// per network for external queries.
const KnownRootsToKeep = 256

// ConsensusState is the trusted state the light client maintains per
// network. It is read as a snapshot at the start of a submission and
// written back exactly once on success.
type ConsensusState struct {
	// Current and Next validator set commitments. Next.ID is always
	// Current.ID + 1.
	Current ValidatorSet
	Next    ValidatorSet

	// LatestBlock is the source block number of the last accepted
	// commitment.
	LatestBlock uint32

	// LatestRandomSeed drives the randomized subset selection for the
	// next submission. It rotates on every acceptance.
	LatestRandomSeed common.Hash

	// KnownRoots holds the most recently verified MMR roots, oldest
	// first.
	KnownRoots []common.Hash
}

// AddKnownRoot appends root to the recent-roots ring, evicting the
// oldest entry past KnownRootsToKeep.
func (s *ConsensusState) AddKnownRoot(root common.Hash) {
	s.KnownRoots = append(s.KnownRoots, root)
	if len(s.KnownRoots) > KnownRootsToKeep {
		s.KnownRoots = s.KnownRoots[len(s.KnownRoots)-KnownRootsToKeep:]
	}
}

// IsKnownRoot reports whether root was verified by an accepted
// commitment still inside the ring.
func (s *ConsensusState) IsKnownRoot(root common.Hash) bool {
	for _, r := range s.KnownRoots {
		if r == root {
			return true
		}
	}
	return false
}

func (s *ConsensusState) copy() *ConsensusState {
	c := *s
	c.KnownRoots = make([]common.Hash, len(s.KnownRoots))
	copy(c.KnownRoots, s.KnownRoots)
	return &c
}

// Store holds per-network trusted state. Implementations return
// independent snapshots: mutating a returned value never changes stored
// state until it is put back.
type Store interface {
	// ConsensusState returns the light client state for network.
	ConsensusState(network NetworkID) (*ConsensusState, bool)
	// PutConsensusState replaces the light client state for network.
	PutConsensusState(network NetworkID, state *ConsensusState)

	// PeerSet returns the multisig peer set for network.
	PeerSet(network NetworkID) (set.Set[PeerKey], bool)
	// PutPeerSet replaces the multisig peer set for network.
	PutPeerSet(network NetworkID, peers set.Set[PeerKey])
}

// MemStore is the in-memory Store. Submissions for one network are
// serialized by the caller; the lock only guards concurrent access for
// unrelated networks.
type MemStore struct {
	lock      sync.RWMutex
	consensus map[NetworkID]*ConsensusState
	peers     map[NetworkID]set.Set[PeerKey]
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		consensus: make(map[NetworkID]*ConsensusState),
		peers:     make(map[NetworkID]set.Set[PeerKey]),
	}
}

func (m *MemStore) ConsensusState(network NetworkID) (*ConsensusState, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	state, ok := m.consensus[network]
	if !ok {
		return nil, false
	}
	return state.copy(), true
}

func (m *MemStore) PutConsensusState(network NetworkID, state *ConsensusState) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.consensus[network] = state.copy()
}

func (m *MemStore) PeerSet(network NetworkID) (set.Set[PeerKey], bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	peers, ok := m.peers[network]
	if !ok {
		return nil, false
	}
	out := set.NewSet[PeerKey](peers.Len())
	for _, key := range peers.List() {
		out.Add(key)
	}
	return out, true
}

func (m *MemStore) PutPeerSet(network NetworkID, peers set.Set[PeerKey]) {
	m.lock.Lock()
	defer m.lock.Unlock()

	stored := set.NewSet[PeerKey](peers.Len())
	for _, key := range peers.List() {
		stored.Add(key)
	}
	m.peers[network] = stored
}
