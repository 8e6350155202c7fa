// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"encoding/hex"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/crypto"
)

// PeerKeyLen is the length of a compressed secp256k1 public key.
const PeerKeyLen = 33

// PeerKey is a compressed secp256k1 public key identifying a fixed-key
// peer in the multisig verifier.
type PeerKey [PeerKeyLen]byte

// PeerKeyFromBytes parses a compressed public key.
func PeerKeyFromBytes(b []byte) (PeerKey, error) {
	if len(b) != PeerKeyLen {
		return PeerKey{}, fmt.Errorf("peer key must be %d bytes, got %d", PeerKeyLen, len(b))
	}
	if _, err := crypto.DecompressPubkey(b); err != nil {
		return PeerKey{}, fmt.Errorf("invalid peer key: %w", err)
	}
	var key PeerKey
	copy(key[:], b)
	return key, nil
}

func (k PeerKey) String() string {
	return hex.EncodeToString(k[:])
}

// normalizeSignature accepts both the raw [R || S || V] form with
// V in {0, 1} and the Ethereum wire form with V in {27, 28}.
func normalizeSignature(sig []byte) ([]byte, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	s := make([]byte, crypto.SignatureLength)
	copy(s, sig)
	if s[crypto.SignatureLength-1] >= 27 {
		s[crypto.SignatureLength-1] -= 27
	}
	return s, nil
}

// RecoverSigner returns the address that produced sig over hash. A
// malformed signature is an error, never a panic.
func RecoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	s, err := normalizeSignature(sig)
	if err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(hash[:], s)
	if err != nil {
		return common.Address{}, err
	}
	return common.PubkeyToAddress(*pub), nil
}

// RecoverPeerKey returns the compressed public key that produced sig over
// hash.
func RecoverPeerKey(hash common.Hash, sig []byte) (PeerKey, error) {
	s, err := normalizeSignature(sig)
	if err != nil {
		return PeerKey{}, err
	}
	pub, err := crypto.SigToPub(hash[:], s)
	if err != nil {
		return PeerKey{}, err
	}
	var key PeerKey
	copy(key[:], crypto.CompressPubkey(pub))
	return key, nil
}

// HashMessage returns the Keccak-256 hash a peer-set signature is
// expected to sign.
func HashMessage(message []byte) common.Hash {
	return common.Keccak256Hash(message)
}
