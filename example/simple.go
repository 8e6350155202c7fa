// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/luxfi/crypto"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/bridge"
	"github.com/luxfi/bridge/multisig"
)

// Verifies a cross-chain message against a three-peer multisig set.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	network := ids.GenerateTestID()
	message := []byte("Hello from chain A to chain B!")

	// Three peers; the BFT threshold for three is two.
	keys := make([]*ecdsa.PrivateKey, 3)
	peers := make([]bridge.PeerKey, 3)
	for i := range keys {
		key, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		peer, err := bridge.PeerKeyFromBytes(crypto.CompressPubkey(&key.PublicKey))
		if err != nil {
			return err
		}
		keys[i] = key
		peers[i] = peer
	}

	verifier, err := multisig.New(multisig.Config{
		Log:   log.NewNoOpLogger(),
		Store: bridge.NewMemStore(),
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := verifier.Initialize(ctx, network, peers); err != nil {
		return err
	}

	// Two of the three peers attest to the message.
	hash := bridge.HashMessage(message)
	signatures := make([][]byte, 0, 2)
	for _, key := range keys[:2] {
		sig, err := crypto.Sign(hash[:], key)
		if err != nil {
			return err
		}
		signatures = append(signatures, sig)
	}

	if err := verifier.Verify(ctx, network, message, signatures); err != nil {
		return err
	}

	fmt.Printf("Network:      %s\n", network)
	fmt.Printf("Message:      %s\n", message)
	fmt.Printf("Message hash: %s\n", hash)
	fmt.Printf("Verified with %d of %d peer signatures\n", len(signatures), len(peers))
	return nil
}
