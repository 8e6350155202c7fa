// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/rlp"
)

// MMRRootID is the well-known payload key under which a commitment
// carries the MMR root of the source chain.
var MMRRootID = [2]byte{0x6d, 0x68}

// PayloadItem is one entry of a commitment payload.
type PayloadItem struct {
	ID   [2]byte
	Data []byte
}

// Payload is the ordered key to bytes mapping asserted by a commitment.
type Payload []PayloadItem

// Get returns the data stored under id.
func (p Payload) Get(id [2]byte) ([]byte, bool) {
	for _, item := range p {
		if item.ID == id {
			return item.Data, true
		}
	}
	return nil, false
}

// MMRRoot returns the payload's MMR root entry. The entry must be
// present and exactly 32 bytes long.
func (p Payload) MMRRoot() (common.Hash, bool) {
	data, ok := p.Get(MMRRootID)
	if !ok || len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// Commitment is the statement produced and multi-signed off-chain by the
// source chain's validator set. The commitment hash is the message every
// submitted signature is checked against.
type Commitment struct {
	Payload        Payload
	BlockNumber    uint32
	ValidatorSetID uint64
}

// Hash returns the Keccak-256 hash of the RLP encoding of the commitment.
func (c Commitment) Hash() common.Hash {
	b, _ := rlp.EncodeToBytes(c)
	return common.Keccak256Hash(b)
}
