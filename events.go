// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import "github.com/luxfi/geth/common"

// Notifier receives a callback after every successful state mutation.
// Rejected submissions never notify. Callbacks run synchronously inside
// the accepting call, after state has been persisted.
type Notifier interface {
	// NetworkInitialized fires when a network's trusted genesis state is
	// installed by either engine.
	NetworkInitialized(network NetworkID)

	// ValidatorSetRotated fires when the light client advances
	// current := next.
	ValidatorSetRotated(network NetworkID, current ValidatorSet, next ValidatorSet)

	// CommitmentVerified fires for every accepted signature commitment.
	CommitmentVerified(network NetworkID, blockNumber uint32, mmrRoot common.Hash)

	// MessageVerified fires for every message accepted by the multisig
	// verifier.
	MessageVerified(network NetworkID, messageHash common.Hash)

	// PeerAdded and PeerRemoved fire on peer set rotation.
	PeerAdded(network NetworkID, key PeerKey)
	PeerRemoved(network NetworkID, key PeerKey)
}

// NoopNotifier discards all events.
type NoopNotifier struct{}

func (NoopNotifier) NetworkInitialized(NetworkID)                            {}
func (NoopNotifier) ValidatorSetRotated(NetworkID, ValidatorSet, ValidatorSet) {}
func (NoopNotifier) CommitmentVerified(NetworkID, uint32, common.Hash)       {}
func (NoopNotifier) MessageVerified(NetworkID, common.Hash)                  {}
func (NoopNotifier) PeerAdded(NetworkID, PeerKey)                            {}
func (NoopNotifier) PeerRemoved(NetworkID, PeerKey)                          {}
