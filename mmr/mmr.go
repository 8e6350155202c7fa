// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mmr verifies simplified Merkle Mountain Range inclusion
// proofs. An MMR is a forest of perfect binary trees whose peaks are
// bagged into a single root, so the side each sibling hashes in on is
// not derivable from the leaf position alone; the proof carries an
// explicit order bitfield instead.
package mmr

import (
	"errors"

	"github.com/luxfi/geth/common"
)

// MaxProofItems is the width of the order bitfield.
const MaxProofItems = 64

var errProofTooLong = errors.New("mmr proof exceeds order bitfield width")

// Proof is a simplified MMR inclusion proof.
type Proof struct {
	// MerkleProofItems is the ordered sequence of sibling hashes.
	MerkleProofItems []common.Hash
	// MerkleProofOrderBitField gives the side of each sibling: bit i set
	// means item i is the left child at step i.
	MerkleProofOrderBitField uint64
}

// CalculateRoot folds leafHash with every proof item and returns the
// resulting root.
func CalculateRoot(leafHash common.Hash, proof Proof) (common.Hash, error) {
	if len(proof.MerkleProofItems) > MaxProofItems {
		return common.Hash{}, errProofTooLong
	}

	hash := leafHash
	for i, item := range proof.MerkleProofItems {
		if proof.MerkleProofOrderBitField>>uint(i)&1 == 1 {
			hash = common.Keccak256Hash(item[:], hash[:])
		} else {
			hash = common.Keccak256Hash(hash[:], item[:])
		}
	}
	return hash, nil
}

// Verify reports whether proof authenticates leafHash against root. Any
// structural mismatch is a verification failure, not a panic.
func Verify(root common.Hash, leafHash common.Hash, proof Proof) bool {
	computed, err := CalculateRoot(leafHash, proof)
	if err != nil {
		return false
	}
	return computed == root
}
