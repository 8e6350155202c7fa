// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/rlp"
)

// ValidatorSet is a commitment to one generation of a source chain's
// validator committee. Membership is never stored in full; Root is the
// Merkle root of the ordered list of validator addresses, so every
// submitted signature carries its own membership proof.
type ValidatorSet struct {
	// ID is a monotonic generation counter.
	ID uint64
	// Len is the committee size.
	Len uint32
	// Root commits to the ordered list of validator addresses.
	Root common.Hash
}

// SignatureThreshold returns the number of distinct valid signatures a
// committee of the given size must produce for a commitment to be
// accepted: enough to tolerate floor((n-1)/3) Byzantine members.
func SignatureThreshold(committeeLen uint32) uint32 {
	if committeeLen == 0 {
		return 0
	}
	return committeeLen - (committeeLen-1)/3 - 1
}

// MMRLeaf is the application payload leaf authenticated against the MMR
// root carried by a commitment. It embeds the commitment of the validator
// set that takes over after the next rotation.
type MMRLeaf struct {
	Version          uint8
	ParentNumber     uint32
	ParentHash       common.Hash
	NextValidatorSet ValidatorSet
	ParachainHeads   common.Hash
}

// Hash returns the Keccak-256 hash of the RLP encoding of the leaf.
func (l MMRLeaf) Hash() common.Hash {
	b, _ := rlp.EncodeToBytes(l)
	return common.Keccak256Hash(b)
}

// ValidatorProof carries the evidence for the randomly-selected subset of
// claimed signers: four index-aligned sequences, one entry per selected
// position, plus the full claims bitfield the subset was drawn from.
type ValidatorProof struct {
	Positions             []uint32
	Signatures            [][]byte
	PublicKeys            []common.Address
	PublicKeyMerkleProofs [][]common.Hash

	// ValidatorClaimsBitfield has one bit per committee index; a set bit
	// claims "I hold a valid signature from this index".
	ValidatorClaimsBitfield BitField
}
