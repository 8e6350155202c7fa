// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle authenticates single leaves against a committed root
// using Keccak-256 binary trees. The light client uses it to check each
// submitted validator address against the trusted validator set root.
package merkle

import (
	"fmt"

	"github.com/luxfi/geth/common"
)

// maxDepth bounds the proof path so position bits always fit in uint32.
const maxDepth = 32

// VerifyLeafAtPosition recomputes the root bottom-up from leaf and the
// sibling path, ordering each combination by the corresponding bit of
// position. A single mismatched sibling invalidates the whole proof.
func VerifyLeafAtPosition(root common.Hash, leaf []byte, position uint32, proof []common.Hash) bool {
	if len(proof) >= maxDepth {
		return false
	}
	// The position must be addressable within a tree of the proof's depth.
	if position>>uint(len(proof)) != 0 {
		return false
	}

	hash := common.Keccak256Hash(leaf)
	pos := position
	for _, sibling := range proof {
		if pos%2 == 0 {
			hash = common.Keccak256Hash(hash[:], sibling[:])
		} else {
			hash = common.Keccak256Hash(sibling[:], hash[:])
		}
		pos /= 2
	}
	return hash == root
}

// Tree is a reference constructor for proofs checked by
// VerifyLeafAtPosition. Leaf counts are padded to the next power of two
// with empty-leaf hashes so every leaf has a full sibling path.
type Tree struct {
	leafCount uint32
	layers    [][]common.Hash
}

// NewTree builds a tree over the given leaves.
func NewTree(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("empty leaf set")
	}

	width := 1
	for width < len(leaves) {
		width *= 2
	}
	if width > 1<<(maxDepth-1) {
		return nil, fmt.Errorf("too many leaves: %d", len(leaves))
	}

	layer := make([]common.Hash, width)
	for i := range layer {
		if i < len(leaves) {
			layer[i] = common.Keccak256Hash(leaves[i])
		} else {
			layer[i] = common.Keccak256Hash(nil)
		}
	}

	layers := [][]common.Hash{layer}
	for len(layer) > 1 {
		next := make([]common.Hash, len(layer)/2)
		for i := range next {
			next[i] = common.Keccak256Hash(layer[2*i][:], layer[2*i+1][:])
		}
		layers = append(layers, next)
		layer = next
	}

	return &Tree{
		leafCount: uint32(len(leaves)),
		layers:    layers,
	}, nil
}

// Root returns the tree root.
func (t *Tree) Root() common.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Proof returns the sibling path for the leaf at index.
func (t *Tree) Proof(index uint32) ([]common.Hash, error) {
	if index >= t.leafCount {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, t.leafCount)
	}

	proof := make([]common.Hash, 0, len(t.layers)-1)
	pos := index
	for _, layer := range t.layers[:len(t.layers)-1] {
		proof = append(proof, layer[pos^1])
		pos /= 2
	}
	return proof, nil
}
