// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import "context"

// Authorizer gates the mutating entry points (initialize, peer
// rotation). The engines add no authorization logic of their own beyond
// calling this predicate first; the hosting application decides what
// "root/governance authority" means.
type Authorizer interface {
	Authorize(ctx context.Context, network NetworkID) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, network NetworkID) error

func (f AuthorizerFunc) Authorize(ctx context.Context, network NetworkID) error {
	return f(ctx, network)
}

// AllowAll authorizes every caller.
type AllowAll struct{}

func (AllowAll) Authorize(context.Context, NetworkID) error { return nil }

// DenyAll rejects every caller.
type DenyAll struct{}

func (DenyAll) Authorize(context.Context, NetworkID) error { return ErrUnauthorized }
