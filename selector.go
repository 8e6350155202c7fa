// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/crypto"
)

// SelectRandomBits picks count distinct positions from the set bits of
// claimed, driven entirely by seed. Verifying every claimed signature is
// too expensive, and a pre-announced subset could be forged; deriving the
// checked subset from a seed unknown at signature-collection time forces
// the submitter to actually hold a threshold-sized set of signatures.
//
// The draw is deterministic: any party re-running the selection with the
// same (seed, claimed, count) obtains the same subset.
func SelectRandomBits(seed common.Hash, claimed BitField, count uint32) (BitField, error) {
	if uint32(claimed.Count()) < count {
		return BitField{}, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughSetBits, claimed.Count(), count)
	}

	selected := EmptyBitField(claimed.Len())
	width := uint256.NewInt(uint64(claimed.Len()))

	var counter [8]byte
	for picked := uint32(0); picked < count; {
		digest := crypto.Keccak256(seed[:], counter[:])
		binary.BigEndian.PutUint64(counter[:], binary.BigEndian.Uint64(counter[:])+1)

		draw := new(uint256.Int).SetBytes(digest)
		index := uint32(draw.Mod(draw, width).Uint64())
		if !claimed.IsSet(index) || selected.IsSet(index) {
			continue
		}
		if err := selected.Set(index); err != nil {
			return BitField{}, err
		}
		picked++
	}
	return selected, nil
}
