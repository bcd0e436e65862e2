// Package provider defines the execution backends behind the keyward
// service. A Provider owns key material for one backend and executes the
// native operations it supports; the Registry routes a request's provider
// ID to the backend that serves it.
package provider

import (
	"context"
	"fmt"
	"sync"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/wire"
)

// Provider executes native operations against one key management backend.
type Provider interface {
	// Describe returns the provider's identity as reported by ListProviders.
	Describe() operations.ProviderInfo

	// Opcodes returns the opcodes this provider serves.
	Opcodes() []wire.Opcode

	// Execute runs one operation. Failures a client should see carry a
	// *wire.Error; any other error maps to InternalError at the service
	// boundary.
	Execute(ctx context.Context, op operations.NativeOperation) (operations.NativeResult, error)
}

// Registry holds the registered providers, keyed by provider ID.
// Registration happens at startup; lookups are concurrent after that.
type Registry struct {
	mu        sync.RWMutex
	providers map[wire.ProviderID]Provider
	order     []wire.ProviderID
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[wire.ProviderID]Provider)}
}

// Register adds a provider under its declared ID.
func (r *Registry) Register(p Provider) error {
	id := p.Describe().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; ok {
		return fmt.Errorf("provider: %s already registered", id)
	}
	r.providers[id] = p
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the provider registered under id. A known provider ID
// with no live backend is ProviderNotRegistered, distinct from the wire
// layer rejecting an ID outside the enumeration.
func (r *Registry) Lookup(id wire.ProviderID) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, wire.NewError(wire.StatusProviderNotRegistered,
			fmt.Sprintf("provider: %s is not registered", id))
	}
	return p, nil
}

// Describe lists the registered providers in registration order.
func (r *Registry) Describe() []operations.ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]operations.ProviderInfo, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.providers[id].Describe())
	}
	return infos
}
