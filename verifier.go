// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"fmt"
	"sync"
)

// Submission is one self-describing unit of evidence for one network.
// Each verifier engine defines its own concrete submission type.
type Submission interface {
	Network() NetworkID
}

// Verifier decides, given trusted state and a submission, whether the
// claimed fact may be accepted, and on acceptance may advance that
// state. Rejections never mutate state.
type Verifier interface {
	// Submit returns nil on acceptance, or exactly one error kind on
	// rejection.
	Submit(ctx context.Context, sub Submission) error
}

// Registry routes submissions to the verifier engine configured for
// their network. A network is served by exactly one engine.
type Registry struct {
	lock    sync.RWMutex
	engines map[NetworkID]Verifier
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[NetworkID]Verifier),
	}
}

// Register binds network to v.
func (r *Registry) Register(network NetworkID, v Verifier) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.engines[network]; ok {
		return fmt.Errorf("%w: %s", ErrNetworkAlreadyRegistered, network)
	}
	r.engines[network] = v
	return nil
}

// Verifier returns the engine bound to network.
func (r *Registry) Verifier(network NetworkID) (Verifier, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.engines[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}
	return v, nil
}

// Submit routes sub to the engine bound to its network.
func (r *Registry) Submit(ctx context.Context, sub Submission) error {
	v, err := r.Verifier(sub.Network())
	if err != nil {
		return err
	}
	return v.Submit(ctx, sub)
}
