// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import "errors"

// Every entry point of the verifier engines returns either nil or exactly
// one of the sentinel errors below, possibly wrapped with call-site
// context. A returned error never leaves partial state behind.
var (
	// Lifecycle
	ErrNotInitialized     = errors.New("network not initialized")
	ErrAlreadyInitialized = errors.New("network already initialized")

	// Identity / epoch mismatch
	ErrInvalidValidatorSetID = errors.New("invalid validator set id")

	// Evidence shape
	ErrInvalidBitfieldLength     = errors.New("invalid claims bitfield length")
	ErrInvalidNumberOfPositions  = errors.New("invalid number of positions")
	ErrInvalidNumberOfSignatures = errors.New("invalid number of signatures")
	ErrInvalidNumberOfPublicKeys = errors.New("invalid number of public keys")

	// Cryptographic failure
	ErrInvalidSignature               = errors.New("invalid signature")
	ErrInvalidValidatorSetMerkleProof = errors.New("invalid validator set merkle proof")
	ErrInvalidMMRLeafProof            = errors.New("invalid mmr leaf proof")

	// Threshold failure
	ErrNotEnoughValidatorSignatures = errors.New("not enough validator signatures claimed")
	ErrNotEnoughSignatures          = errors.New("not enough signatures")

	// Bitfield integrity
	ErrValidatorNotOnceInBitfield    = errors.New("validator position used more than once")
	ErrValidatorSetIncorrectPosition = errors.New("validator position outside selected subset")

	// Payload integrity
	ErrMMRPayloadNotFound = errors.New("mmr root payload not found")

	// Peer set integrity
	ErrPeerAlreadyExists          = errors.New("peer already exists")
	ErrPeerNotFound               = errors.New("peer not found")
	ErrEmptyPeerSet               = errors.New("empty peer set")
	ErrCannotRemoveBelowThreshold = errors.New("cannot remove peer below viable threshold")

	// Shared infrastructure
	ErrUnauthorized             = errors.New("unauthorized")
	ErrIndexOutOfBounds         = errors.New("bitfield index out of bounds")
	ErrNotEnoughSetBits         = errors.New("not enough set bits to sample from")
	ErrNetworkAlreadyRegistered = errors.New("network already registered")
	ErrUnknownNetwork           = errors.New("unknown network")
	ErrUnexpectedSubmission     = errors.New("unexpected submission type")
)
