package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
)

// Runner is one outbound sync operation
type Runner interface {
	Run(ctx context.Context) error
}

// ProductFactoryFunc builds the product pipeline for one channel kind.
// Channels with platform quirks register their own constructor; everything
// else gets the generic pipeline.
type ProductFactoryFunc func(s *Syncer, channel *integration.SalesChannel, productID uuid.UUID) (Runner, error)

// FactoryRegistry maps channel codes to sync factory constructors. The
// table is populated once at startup; nothing resolves factories by name
// at runtime.
type FactoryRegistry struct {
	mu        gosync.RWMutex
	factories map[integration.ChannelCode]ProductFactoryFunc
}

// NewFactoryRegistry creates an empty registry
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{factories: make(map[integration.ChannelCode]ProductFactoryFunc)}
}

// Register adds a channel-specific constructor. Registering the same code
// twice panics, the wiring is a startup-time mistake.
func (r *FactoryRegistry) Register(code integration.ChannelCode, factory ProductFactoryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[code]; exists {
		panic(fmt.Sprintf("sync: factory already registered for %s", code))
	}
	r.factories[code] = factory
}

// Resolve returns the constructor for a channel code, falling back to the
// generic pipeline when none is registered
func (r *FactoryRegistry) Resolve(code integration.ChannelCode) ProductFactoryFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if factory, ok := r.factories[code]; ok {
		return factory
	}
	return func(s *Syncer, channel *integration.SalesChannel, productID uuid.UUID) (Runner, error) {
		return s.Product(channel, productID)
	}
}
