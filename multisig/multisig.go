// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package multisig implements the peer-set verifier: threshold
// attestation checking against a governance-maintained set of fixed
// secp256k1 keys, for source chains without a native BFT finality
// gadget.
package multisig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/bridge"
)

var _ bridge.Verifier = (*Verifier)(nil)

// ThresholdFunc maps a peer-set size to the number of distinct valid
// signers required for acceptance. The policy is an operator choice.
type ThresholdFunc func(peers int) int

// BFTThreshold is the default policy: the same Byzantine-fault formula
// the light client applies to validator committees, floored at one so a
// singleton peer set still requires its one signature.
func BFTThreshold(peers int) int {
	if peers == 0 {
		return 0
	}
	t := peers - (peers-1)/3 - 1
	if t < 1 {
		t = 1
	}
	return t
}

// Submission is a message with its peer attestations.
type Submission struct {
	NetworkID  bridge.NetworkID
	Message    []byte
	Signatures [][]byte
}

// Network implements bridge.Submission.
func (s *Submission) Network() bridge.NetworkID {
	return s.NetworkID
}

// Config wires the verifier's collaborators. Log and Store are required.
type Config struct {
	Log        log.Logger
	Store      bridge.Store
	Authorizer bridge.Authorizer
	Notifier   bridge.Notifier
	Metrics    *bridge.Metrics
	Threshold  ThresholdFunc
}

// Verifier maintains one peer set per network and accepts messages
// attested by a threshold of distinct peers.
type Verifier struct {
	log       log.Logger
	store     bridge.Store
	auth      bridge.Authorizer
	notifier  bridge.Notifier
	metrics   *bridge.Metrics
	threshold ThresholdFunc
}

// New returns a Verifier backed by cfg.
func New(cfg Config) (*Verifier, error) {
	switch {
	case cfg.Log == nil:
		return nil, errors.New("nil logger")
	case cfg.Store == nil:
		return nil, errors.New("nil store")
	}
	if cfg.Authorizer == nil {
		cfg.Authorizer = bridge.AllowAll{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = bridge.NoopNotifier{}
	}
	if cfg.Threshold == nil {
		cfg.Threshold = BFTThreshold
	}
	return &Verifier{
		log:       cfg.Log,
		store:     cfg.Store,
		auth:      cfg.Authorizer,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		threshold: cfg.Threshold,
	}, nil
}

// Initialize installs the initial peer set for network.
func (v *Verifier) Initialize(ctx context.Context, network bridge.NetworkID, peers []bridge.PeerKey) error {
	if err := v.auth.Authorize(ctx, network); err != nil {
		return err
	}
	if _, ok := v.store.PeerSet(network); ok {
		return fmt.Errorf("%w: %s", bridge.ErrAlreadyInitialized, network)
	}
	if len(peers) == 0 {
		return bridge.ErrEmptyPeerSet
	}

	peerSet := set.NewSet[bridge.PeerKey](len(peers))
	for _, key := range peers {
		if peerSet.Contains(key) {
			return fmt.Errorf("%w: %s", bridge.ErrPeerAlreadyExists, key)
		}
		peerSet.Add(key)
	}

	v.store.PutPeerSet(network, peerSet)

	v.log.Info("peer set initialized",
		log.Stringer("network", network),
		log.Int("peers", peerSet.Len()),
	)
	v.notifier.NetworkInitialized(network)
	return nil
}

// AddPeer adds key to the network's peer set.
func (v *Verifier) AddPeer(ctx context.Context, network bridge.NetworkID, key bridge.PeerKey) error {
	if err := v.auth.Authorize(ctx, network); err != nil {
		return err
	}
	peers, ok := v.store.PeerSet(network)
	if !ok {
		return fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}
	if peers.Contains(key) {
		return fmt.Errorf("%w: %s", bridge.ErrPeerAlreadyExists, key)
	}

	peers.Add(key)
	v.store.PutPeerSet(network, peers)

	v.log.Info("peer added",
		log.Stringer("network", network),
		log.Stringer("key", key),
		log.Int("peers", peers.Len()),
	)
	v.notifier.PeerAdded(network, key)
	return nil
}

// RemovePeer removes key from the network's peer set. Removal is
// rejected when the shrunken set could no longer reach the threshold in
// force for the current size.
func (v *Verifier) RemovePeer(ctx context.Context, network bridge.NetworkID, key bridge.PeerKey) error {
	if err := v.auth.Authorize(ctx, network); err != nil {
		return err
	}
	peers, ok := v.store.PeerSet(network)
	if !ok {
		return fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}
	if !peers.Contains(key) {
		return fmt.Errorf("%w: %s", bridge.ErrPeerNotFound, key)
	}
	if peers.Len()-1 < v.threshold(peers.Len()) {
		return fmt.Errorf("%w: %d peers, threshold %d",
			bridge.ErrCannotRemoveBelowThreshold, peers.Len(), v.threshold(peers.Len()))
	}

	peers.Remove(key)
	v.store.PutPeerSet(network, peers)

	v.log.Info("peer removed",
		log.Stringer("network", network),
		log.Stringer("key", key),
		log.Int("peers", peers.Len()),
	)
	v.notifier.PeerRemoved(network, key)
	return nil
}

// Peers returns the network's peer set.
func (v *Verifier) Peers(network bridge.NetworkID) ([]bridge.PeerKey, error) {
	peers, ok := v.store.PeerSet(network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}
	keys := peers.List()
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys, nil
}

// Submit implements bridge.Verifier.
func (v *Verifier) Submit(ctx context.Context, sub bridge.Submission) error {
	s, ok := sub.(*Submission)
	if !ok {
		return fmt.Errorf("%w: %T", bridge.ErrUnexpectedSubmission, sub)
	}
	return v.Verify(ctx, s.NetworkID, s.Message, s.Signatures)
}

// Verify accepts message iff a threshold of distinct peers signed its
// hash. Malformed signatures, duplicate signers, and signers outside the
// peer set are discarded, not errors; only the final count decides.
func (v *Verifier) Verify(ctx context.Context, network bridge.NetworkID, message []byte, signatures [][]byte) error {
	peers, ok := v.store.PeerSet(network)
	if !ok {
		v.metrics.Rejected(network)
		return fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}

	hash := bridge.HashMessage(message)
	signers := set.NewSet[bridge.PeerKey](len(signatures))
	for _, sig := range signatures {
		key, err := bridge.RecoverPeerKey(hash, sig)
		if err != nil {
			continue
		}
		if !peers.Contains(key) {
			continue
		}
		signers.Add(key)
	}

	need := v.threshold(peers.Len())
	if signers.Len() < need {
		v.log.Debug("message rejected",
			log.Stringer("network", network),
			log.Stringer("messageHash", hash),
			log.Int("validSigners", signers.Len()),
			log.Int("threshold", need),
		)
		v.metrics.Rejected(network)
		return fmt.Errorf("%w: %d of %d required",
			bridge.ErrNotEnoughSignatures, signers.Len(), need)
	}

	v.log.Debug("message accepted",
		log.Stringer("network", network),
		log.Stringer("messageHash", hash),
		log.Int("validSigners", signers.Len()),
	)
	v.metrics.Accepted(network)
	v.notifier.MessageVerified(network, hash)
	return nil
}
