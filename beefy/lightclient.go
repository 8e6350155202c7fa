// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package beefy implements the consensus-proof verifier: a light client
// that accepts finality commitments multi-signed by a BFT validator
// committee of the source chain, checking a randomly selected
// threshold-sized subset of the claimed signatures and an MMR inclusion
// proof for the application leaf, and rotating the trusted validator set
// as hand-off commitments are observed.
package beefy

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/bridge"
	"github.com/luxfi/bridge/merkle"
	"github.com/luxfi/bridge/mmr"
)

var _ bridge.Verifier = (*LightClient)(nil)

// Submission bundles everything a caller submits to advance the light
// client: the signed commitment, the evidence for the checked signature
// subset, and the MMR leaf with its inclusion proof.
type Submission struct {
	NetworkID  bridge.NetworkID
	Commitment bridge.Commitment
	Proof      bridge.ValidatorProof
	Leaf       bridge.MMRLeaf
	LeafProof  mmr.Proof
}

// Network implements bridge.Submission.
func (s *Submission) Network() bridge.NetworkID {
	return s.NetworkID
}

// Config wires the light client's collaborators. Log, Store and
// Randomness are required; the rest default to permissive no-ops.
type Config struct {
	Log        log.Logger
	Store      bridge.Store
	Randomness bridge.Randomness
	Authorizer bridge.Authorizer
	Notifier   bridge.Notifier
	Metrics    *bridge.Metrics
}

// LightClient tracks one validator set pair per network and advances it
// on verified commitments. All operations run to completion before
// returning; trusted state is written at most once per call, and only on
// acceptance.
type LightClient struct {
	log      log.Logger
	store    bridge.Store
	rand     bridge.Randomness
	auth     bridge.Authorizer
	notifier bridge.Notifier
	metrics  *bridge.Metrics
}

// New returns a LightClient backed by cfg.
func New(cfg Config) (*LightClient, error) {
	switch {
	case cfg.Log == nil:
		return nil, errors.New("nil logger")
	case cfg.Store == nil:
		return nil, errors.New("nil store")
	case cfg.Randomness == nil:
		return nil, errors.New("nil randomness source")
	}
	if cfg.Authorizer == nil {
		cfg.Authorizer = bridge.AllowAll{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = bridge.NoopNotifier{}
	}
	return &LightClient{
		log:      cfg.Log,
		store:    cfg.Store,
		rand:     cfg.Randomness,
		auth:     cfg.Authorizer,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
	}, nil
}

// Initialize installs the trusted genesis state for network. It fails if
// the network is already initialized; an initialized network can only
// advance through verified commitments.
func (lc *LightClient) Initialize(
	ctx context.Context,
	network bridge.NetworkID,
	startBlock uint32,
	current bridge.ValidatorSet,
	next bridge.ValidatorSet,
) error {
	if err := lc.auth.Authorize(ctx, network); err != nil {
		return err
	}
	if _, ok := lc.store.ConsensusState(network); ok {
		return fmt.Errorf("%w: %s", bridge.ErrAlreadyInitialized, network)
	}
	if next.ID != current.ID+1 {
		return fmt.Errorf("%w: next set id %d does not follow current set id %d",
			bridge.ErrInvalidValidatorSetID, next.ID, current.ID)
	}
	if current.Len == 0 || next.Len == 0 {
		return fmt.Errorf("%w: empty committee", bridge.ErrInvalidValidatorSetID)
	}

	seed, err := lc.rand.Seed(network)
	if err != nil {
		return err
	}

	lc.store.PutConsensusState(network, &bridge.ConsensusState{
		Current:          current,
		Next:             next,
		LatestBlock:      startBlock,
		LatestRandomSeed: seed,
	})

	lc.log.Info("light client initialized",
		log.Stringer("network", network),
		log.Uint64("currentSetID", current.ID),
		log.Uint64("nextSetID", next.ID),
	)
	lc.notifier.NetworkInitialized(network)
	return nil
}

// Submit implements bridge.Verifier.
func (lc *LightClient) Submit(ctx context.Context, sub bridge.Submission) error {
	s, ok := sub.(*Submission)
	if !ok {
		return fmt.Errorf("%w: %T", bridge.ErrUnexpectedSubmission, sub)
	}
	return lc.SubmitSignatureCommitment(ctx, s.NetworkID, s.Commitment, s.Proof, s.Leaf, s.LeafProof)
}

// SubmitSignatureCommitment validates a signed commitment against the
// network's trusted state and, only on full success, advances that
// state. Every rejection leaves the pre-call state untouched.
func (lc *LightClient) SubmitSignatureCommitment(
	ctx context.Context,
	network bridge.NetworkID,
	commitment bridge.Commitment,
	proof bridge.ValidatorProof,
	leaf bridge.MMRLeaf,
	leafProof mmr.Proof,
) error {
	state, ok := lc.store.ConsensusState(network)
	if !ok {
		lc.reject(network, bridge.ErrNotInitialized)
		return fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}

	// A commitment may be signed by the current set or, during hand-off,
	// by the already-announced next set.
	var vset bridge.ValidatorSet
	switch commitment.ValidatorSetID {
	case state.Current.ID:
		vset = state.Current
	case state.Next.ID:
		vset = state.Next
	default:
		lc.reject(network, bridge.ErrInvalidValidatorSetID)
		return fmt.Errorf("%w: commitment set id %d, trusted ids %d and %d",
			bridge.ErrInvalidValidatorSetID, commitment.ValidatorSetID, state.Current.ID, state.Next.ID)
	}

	// Fetched before any validation so a failing randomness source
	// rejects the call with state untouched.
	entropy, err := lc.rand.Seed(network)
	if err != nil {
		return err
	}

	mmrRoot, err := lc.verifyCommitment(state, vset, commitment, proof, leaf, leafProof)
	if err != nil {
		lc.reject(network, err)
		return err
	}

	lc.commit(network, state, vset, commitment, leaf, mmrRoot, entropy)
	return nil
}

// verifyCommitment runs the pure validation pipeline against a state
// snapshot. It mutates nothing.
func (lc *LightClient) verifyCommitment(
	state *bridge.ConsensusState,
	vset bridge.ValidatorSet,
	commitment bridge.Commitment,
	proof bridge.ValidatorProof,
	leaf bridge.MMRLeaf,
	leafProof mmr.Proof,
) (common.Hash, error) {
	claimed := proof.ValidatorClaimsBitfield
	if claimed.Len() != vset.Len {
		return common.Hash{}, fmt.Errorf("%w: bitfield length %d, committee size %d",
			bridge.ErrInvalidBitfieldLength, claimed.Len(), vset.Len)
	}

	threshold := bridge.SignatureThreshold(vset.Len)
	if uint32(claimed.Count()) < threshold {
		return common.Hash{}, fmt.Errorf("%w: claimed %d, threshold %d",
			bridge.ErrNotEnoughValidatorSignatures, claimed.Count(), threshold)
	}

	selected, err := bridge.SelectRandomBits(state.LatestRandomSeed, claimed, threshold)
	if err != nil {
		return common.Hash{}, err
	}

	// Each sequence is checked independently against the expected size;
	// both short and long sequences are rejected.
	switch {
	case len(proof.Positions) != int(threshold):
		return common.Hash{}, fmt.Errorf("%w: got %d, expected %d",
			bridge.ErrInvalidNumberOfPositions, len(proof.Positions), threshold)
	case len(proof.Signatures) != int(threshold):
		return common.Hash{}, fmt.Errorf("%w: got %d, expected %d",
			bridge.ErrInvalidNumberOfSignatures, len(proof.Signatures), threshold)
	case len(proof.PublicKeys) != int(threshold):
		return common.Hash{}, fmt.Errorf("%w: got %d public keys, expected %d",
			bridge.ErrInvalidNumberOfPublicKeys, len(proof.PublicKeys), threshold)
	case len(proof.PublicKeyMerkleProofs) != int(threshold):
		return common.Hash{}, fmt.Errorf("%w: got %d membership proofs, expected %d",
			bridge.ErrInvalidNumberOfPublicKeys, len(proof.PublicKeyMerkleProofs), threshold)
	}

	commitmentHash := commitment.Hash()
	remaining := selected.Copy()
	for i, pos := range proof.Positions {
		if !remaining.IsSet(pos) {
			if selected.IsSet(pos) {
				return common.Hash{}, fmt.Errorf("%w: position %d",
					bridge.ErrValidatorNotOnceInBitfield, pos)
			}
			return common.Hash{}, fmt.Errorf("%w: position %d",
				bridge.ErrValidatorSetIncorrectPosition, pos)
		}
		if err := remaining.Clear(pos); err != nil {
			return common.Hash{}, err
		}

		signer, err := bridge.RecoverSigner(commitmentHash, proof.Signatures[i])
		if err != nil || signer != proof.PublicKeys[i] {
			return common.Hash{}, fmt.Errorf("%w: position %d", bridge.ErrInvalidSignature, pos)
		}

		if !merkle.VerifyLeafAtPosition(vset.Root, proof.PublicKeys[i].Bytes(), pos, proof.PublicKeyMerkleProofs[i]) {
			return common.Hash{}, fmt.Errorf("%w: position %d",
				bridge.ErrInvalidValidatorSetMerkleProof, pos)
		}
	}

	mmrRoot, ok := commitment.Payload.MMRRoot()
	if !ok {
		return common.Hash{}, bridge.ErrMMRPayloadNotFound
	}
	if !mmr.Verify(mmrRoot, leaf.Hash(), leafProof) {
		return common.Hash{}, bridge.ErrInvalidMMRLeafProof
	}
	return mmrRoot, nil
}

// commit applies the single state write of an accepted submission.
func (lc *LightClient) commit(
	network bridge.NetworkID,
	state *bridge.ConsensusState,
	vset bridge.ValidatorSet,
	commitment bridge.Commitment,
	leaf bridge.MMRLeaf,
	mmrRoot common.Hash,
	entropy common.Hash,
) {
	rotated := false
	// Rotation is driven only by commitments of the current set whose
	// leaf announces the generation after the stored next set. A
	// hand-off commitment signed under next.ID, or a re-submission whose
	// leaf repeats the stored next set, must not rotate again.
	if commitment.ValidatorSetID == state.Current.ID &&
		leaf.NextValidatorSet.ID == state.Next.ID+1 {
		state.Current = state.Next
		state.Next = leaf.NextValidatorSet
		rotated = true
	}

	state.LatestBlock = commitment.BlockNumber
	state.AddKnownRoot(mmrRoot)

	// The seed rotates with every acceptance so the subset checked for
	// one commitment says nothing about the subset of the next.
	commitmentHash := commitment.Hash()
	state.LatestRandomSeed = common.Keccak256Hash(
		state.LatestRandomSeed[:],
		entropy[:],
		commitmentHash[:],
	)

	lc.store.PutConsensusState(network, state)

	lc.log.Info("commitment accepted",
		log.Stringer("network", network),
		log.Uint64("setID", vset.ID),
		log.Uint64("blockNumber", uint64(commitment.BlockNumber)),
		log.Stringer("mmrRoot", mmrRoot),
		log.Bool("rotated", rotated),
	)
	lc.metrics.Accepted(network)
	lc.notifier.CommitmentVerified(network, commitment.BlockNumber, mmrRoot)
	if rotated {
		lc.notifier.ValidatorSetRotated(network, state.Current, state.Next)
	}
}

func (lc *LightClient) reject(network bridge.NetworkID, err error) {
	lc.log.Debug("commitment rejected",
		log.Stringer("network", network),
		log.Err(err),
	)
	lc.metrics.Rejected(network)
}

// State returns a snapshot of the trusted state for network.
func (lc *LightClient) State(network bridge.NetworkID) (*bridge.ConsensusState, error) {
	state, ok := lc.store.ConsensusState(network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", bridge.ErrNotInitialized, network)
	}
	return state, nil
}

// LatestMMRRoot returns the most recently verified MMR root for network.
func (lc *LightClient) LatestMMRRoot(network bridge.NetworkID) (common.Hash, error) {
	state, err := lc.State(network)
	if err != nil {
		return common.Hash{}, err
	}
	if len(state.KnownRoots) == 0 {
		return common.Hash{}, nil
	}
	return state.KnownRoots[len(state.KnownRoots)-1], nil
}

// IsKnownRoot reports whether root was verified by a recent accepted
// commitment for network.
func (lc *LightClient) IsKnownRoot(network bridge.NetworkID, root common.Hash) (bool, error) {
	state, err := lc.State(network)
	if err != nil {
		return false, err
	}
	return state.IsKnownRoot(root), nil
}
