// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/luxfi/crypto"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/bridge"
)

type peerSet struct {
	keys  []*ecdsa.PrivateKey
	peers []bridge.PeerKey
}

func newPeerSet(t *testing.T, n int) *peerSet {
	t.Helper()

	p := &peerSet{
		keys:  make([]*ecdsa.PrivateKey, n),
		peers: make([]bridge.PeerKey, n),
	}
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		p.keys[i] = key

		peer, err := bridge.PeerKeyFromBytes(crypto.CompressPubkey(&key.PublicKey))
		require.NoError(t, err)
		p.peers[i] = peer
	}
	return p
}

// sign returns attestations for message from the peers at the given
// indices.
func (p *peerSet) sign(t *testing.T, message []byte, indices ...int) [][]byte {
	t.Helper()

	hash := bridge.HashMessage(message)
	sigs := make([][]byte, 0, len(indices))
	for _, i := range indices {
		sig, err := crypto.Sign(hash[:], p.keys[i])
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}
	return sigs
}

func newVerifier(t *testing.T) (*Verifier, bridge.NetworkID) {
	t.Helper()

	v, err := New(Config{
		Log:   log.NewNoOpLogger(),
		Store: bridge.NewMemStore(),
	})
	require.NoError(t, err)
	return v, ids.GenerateTestID()
}

func TestBFTThreshold(t *testing.T) {
	tests := []struct {
		peers int
		want  int
	}{
		{peers: 0, want: 0},
		{peers: 1, want: 1},
		{peers: 2, want: 1},
		{peers: 3, want: 2},
		{peers: 4, want: 2},
		{peers: 37, want: 24},
		{peers: 69, want: 46},
		{peers: 200, want: 133},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BFTThreshold(tt.peers), "peers=%d", tt.peers)
	}
}

func TestInitialize(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	peers, err := v.Peers(network)
	require.NoError(t, err)
	require.ElementsMatch(t, p.peers, peers)

	err = v.Initialize(context.Background(), network, p.peers)
	require.ErrorIs(t, err, bridge.ErrAlreadyInitialized)
}

func TestInitializeEmpty(t *testing.T) {
	v, network := newVerifier(t)

	err := v.Initialize(context.Background(), network, nil)
	require.ErrorIs(t, err, bridge.ErrEmptyPeerSet)
}

func TestInitializeDuplicatePeer(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 2)

	err := v.Initialize(context.Background(), network, []bridge.PeerKey{p.peers[0], p.peers[1], p.peers[0]})
	require.ErrorIs(t, err, bridge.ErrPeerAlreadyExists)

	// The rejected call must not have installed a partial set.
	_, err = v.Peers(network)
	require.ErrorIs(t, err, bridge.ErrNotInitialized)
}

func TestInitializeUnauthorized(t *testing.T) {
	v, err := New(Config{
		Log:        log.NewNoOpLogger(),
		Store:      bridge.NewMemStore(),
		Authorizer: bridge.DenyAll{},
	})
	require.NoError(t, err)

	network := ids.GenerateTestID()
	p := newPeerSet(t, 3)

	err = v.Initialize(context.Background(), network, p.peers)
	require.ErrorIs(t, err, bridge.ErrUnauthorized)

	_, err = v.Peers(network)
	require.ErrorIs(t, err, bridge.ErrNotInitialized)
}

func TestAddPeer(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 4)

	require.NoError(t, v.Initialize(context.Background(), network, p.peers[:3]))

	err := v.AddPeer(context.Background(), network, p.peers[0])
	require.ErrorIs(t, err, bridge.ErrPeerAlreadyExists)

	require.NoError(t, v.AddPeer(context.Background(), network, p.peers[3]))
	peers, err := v.Peers(network)
	require.NoError(t, err)
	require.Len(t, peers, 4)

	err = v.AddPeer(context.Background(), ids.GenerateTestID(), p.peers[3])
	require.ErrorIs(t, err, bridge.ErrNotInitialized)
}

func TestRemovePeer(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 4)
	outsider := newPeerSet(t, 1)

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	err := v.RemovePeer(context.Background(), network, outsider.peers[0])
	require.ErrorIs(t, err, bridge.ErrPeerNotFound)

	// 4 peers, threshold 2: removals down to 2 peers stay serviceable.
	require.NoError(t, v.RemovePeer(context.Background(), network, p.peers[0]))
	require.NoError(t, v.RemovePeer(context.Background(), network, p.peers[1]))

	// 2 peers, threshold 1: removing one would leave 1 >= 1, allowed.
	require.NoError(t, v.RemovePeer(context.Background(), network, p.peers[2]))

	// 1 peer, threshold 1: the last peer can never be removed.
	err = v.RemovePeer(context.Background(), network, p.peers[3])
	require.ErrorIs(t, err, bridge.ErrCannotRemoveBelowThreshold)

	peers, err := v.Peers(network)
	require.NoError(t, err)
	require.Equal(t, []bridge.PeerKey{p.peers[3]}, peers)
}

func TestVerify(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	// 3 peers need 2 distinct signers.
	err := v.Verify(context.Background(), network, message, p.sign(t, message, 0, 2))
	require.NoError(t, err)

	err = v.Verify(context.Background(), network, message, p.sign(t, message, 1))
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)

	err = v.Verify(context.Background(), network, message, nil)
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)
}

func TestVerifyNotInitialized(t *testing.T) {
	v, network := newVerifier(t)

	err := v.Verify(context.Background(), network, []byte("msg"), nil)
	require.ErrorIs(t, err, bridge.ErrNotInitialized)
}

func TestVerifyDuplicateSignerCountsOnce(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	err := v.Verify(context.Background(), network, message, p.sign(t, message, 0, 0, 0))
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)
}

func TestVerifyDiscardsBadSignatures(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)
	outsider := newPeerSet(t, 1)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	// Garbage, an outsider's signature, and a peer's signature over a
	// different message are all discarded rather than erroring; the one
	// genuine attestation left is below the threshold of two.
	other := []byte("different message")
	sigs := [][]byte{
		nil,
		make([]byte, crypto.SignatureLength),
		outsider.sign(t, message, 0)[0],
		p.sign(t, other, 1)[0],
		p.sign(t, message, 2)[0],
	}
	err := v.Verify(context.Background(), network, message, sigs)
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)

	// Adding a second genuine attestation tips it over.
	sigs = append(sigs, p.sign(t, message, 0)[0])
	require.NoError(t, v.Verify(context.Background(), network, message, sigs))
}

func TestVerifySingletonPeerSet(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 1)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	err := v.Verify(context.Background(), network, message, nil)
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)

	require.NoError(t, v.Verify(context.Background(), network, message, p.sign(t, message, 0)))
}

func TestVerifyWireFormSignatures(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	// Signatures arriving with V in {27, 28} verify the same as raw ones.
	sigs := p.sign(t, message, 0, 1)
	for _, sig := range sigs {
		sig[64] += 27
	}
	require.NoError(t, v.Verify(context.Background(), network, message, sigs))
}

func TestSubmitViaRegistry(t *testing.T) {
	v, network := newVerifier(t)
	p := newPeerSet(t, 3)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	registry := bridge.NewRegistry()
	require.NoError(t, registry.Register(network, v))

	err := registry.Submit(context.Background(), &Submission{
		NetworkID:  network,
		Message:    message,
		Signatures: p.sign(t, message, 0, 1),
	})
	require.NoError(t, err)
}

func TestSubmitWrongSubmissionType(t *testing.T) {
	v, network := newVerifier(t)

	err := v.Submit(context.Background(), &fakeSubmission{network: network})
	require.ErrorIs(t, err, bridge.ErrUnexpectedSubmission)
}

type fakeSubmission struct {
	network bridge.NetworkID
}

func (s *fakeSubmission) Network() bridge.NetworkID { return s.network }

func TestCustomThreshold(t *testing.T) {
	// An all-must-sign policy via a custom ThresholdFunc.
	v, err := New(Config{
		Log:       log.NewNoOpLogger(),
		Store:     bridge.NewMemStore(),
		Threshold: func(peers int) int { return peers },
	})
	require.NoError(t, err)

	network := ids.GenerateTestID()
	p := newPeerSet(t, 3)
	message := []byte("cross-chain transfer")

	require.NoError(t, v.Initialize(context.Background(), network, p.peers))

	err = v.Verify(context.Background(), network, message, p.sign(t, message, 0, 1))
	require.ErrorIs(t, err, bridge.ErrNotEnoughSignatures)

	require.NoError(t, v.Verify(context.Background(), network, message, p.sign(t, message, 0, 1, 2)))

	// No peer may be removed under an all-must-sign policy.
	err = v.RemovePeer(context.Background(), network, p.peers[0])
	require.ErrorIs(t, err, bridge.ErrCannotRemoveBelowThreshold)
}
