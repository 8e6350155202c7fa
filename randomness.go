// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"crypto/rand"

	"github.com/luxfi/geth/common"
)

// Randomness supplies the entropy folded into a network's random seed.
// The value must be unknown to a submitter at signature-collection time
// and reproducible by any verifier re-running the same call; on a chain
// host that is block randomness fixed at the submission block, off-chain
// a VRF output or commit-reveal value serves the same role.
type Randomness interface {
	Seed(network NetworkID) (common.Hash, error)
}

// RandomnessFunc adapts a function to the Randomness interface.
type RandomnessFunc func(network NetworkID) (common.Hash, error)

func (f RandomnessFunc) Seed(network NetworkID) (common.Hash, error) {
	return f(network)
}

// FixedRandomness always returns the same seed. It exists for tests and
// offline re-verification, where the seed is already known.
type FixedRandomness common.Hash

func (f FixedRandomness) Seed(NetworkID) (common.Hash, error) {
	return common.Hash(f), nil
}

// CryptoRandomness draws from the host's CSPRNG. It is suitable only for
// single-verifier deployments: the draw is not reproducible elsewhere.
type CryptoRandomness struct{}

func (CryptoRandomness) Seed(NetworkID) (common.Hash, error) {
	var seed common.Hash
	if _, err := rand.Read(seed[:]); err != nil {
		return common.Hash{}, err
	}
	return seed, nil
}
