package integration

import (
	"context"
	"fmt"
	"sync"
)

// ProductPayload is the channel-neutral shape a sync factory hands to an
// adapter. Adapters translate it into their platform's wire format.
type ProductPayload struct {
	SKU         string
	Name        string
	Description string
	EAN         string
	Price       string
	Discount    string
	Currency    string
	Active      bool
	Contents    []ContentPayload
	Properties  []PropertyPayload
	Images      []ImagePayload
	Variations  []ProductPayload
}

// ContentPayload is the product content in one language. Name and Description
// on the payload itself carry the lead language for single-language platforms.
type ContentPayload struct {
	Language    string
	Name        string
	Description string
}

// PropertyPayload is one attribute of a product payload
type PropertyPayload struct {
	Code   string
	Name   string
	Value  string
	Values []string
}

// ImagePayload is one image of a product payload
type ImagePayload struct {
	SourceURL   string
	SortOrder   int
	IsMainImage bool
}

// CreateResult is the outcome of a remote product create. A duplicate on the
// channel side is an expected outcome, not an error: the adapter reports it
// through AlreadyExists and the factory switches to the update path.
type CreateResult struct {
	RemoteID      string
	AlreadyExists bool
}

// ChannelAdapter is the port every channel implementation satisfies. All
// calls are one product deep; reconciliation across products is the sync
// layer's job.
type ChannelAdapter interface {
	// Code identifies the channel kind this adapter serves
	Code() ChannelCode

	// CreateProduct creates the product remotely. A duplicate SKU on the
	// remote side returns AlreadyExists with the existing remote id when
	// the platform reports it.
	CreateProduct(ctx context.Context, channel *SalesChannel, payload ProductPayload) (CreateResult, error)

	// UpdateProduct pushes the full payload onto an existing remote product
	UpdateProduct(ctx context.Context, channel *SalesChannel, remoteID string, payload ProductPayload) error

	// DeleteProduct removes the remote product
	DeleteProduct(ctx context.Context, channel *SalesChannel, remoteID string) error

	// FetchProduct pulls the current remote state by SKU. Returns
	// ErrRemoteProductNotFound when the channel has no such product.
	FetchProduct(ctx context.Context, channel *SalesChannel, sku string) (*RemoteProductState, error)

	// EnsureProperty creates or updates the remote attribute definition and
	// returns its channel-side identifier
	EnsureProperty(ctx context.Context, channel *SalesChannel, payload PropertyPayload) (string, error)

	// AssignImage uploads or links an image to the remote product and
	// returns its channel-side identifier
	AssignImage(ctx context.Context, channel *SalesChannel, remoteID string, payload ImagePayload) (string, error)

	// RemoveImage detaches an image from the remote product
	RemoveImage(ctx context.Context, channel *SalesChannel, remoteID, remoteImageID string) error
}

// RemoteProductState is the adapter's view of a product as the channel
// currently has it
type RemoteProductState struct {
	RemoteID   string
	SKU        string
	Name       string
	Active     bool
	Properties map[string]string
	ImageIDs   []string
}

// AdapterRegistry maps channel codes to adapter implementations. Channel
// dispatch goes through this table; nothing resolves adapters by name at
// runtime.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[ChannelCode]ChannelAdapter
}

// NewAdapterRegistry creates an empty registry
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[ChannelCode]ChannelAdapter)}
}

// Register adds an adapter. Registering the same code twice panics, the
// wiring is a startup-time mistake.
func (r *AdapterRegistry) Register(adapter ChannelAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := adapter.Code()
	if _, exists := r.adapters[code]; exists {
		panic(fmt.Sprintf("integration: adapter already registered for %s", code))
	}
	r.adapters[code] = adapter
}

// Resolve returns the adapter for a channel code
func (r *AdapterRegistry) Resolve(code ChannelCode) (ChannelAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[code]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for %s", ErrChannelNotConfigured, code)
	}
	return adapter, nil
}

// Codes returns the registered channel codes
func (r *AdapterRegistry) Codes() []ChannelCode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]ChannelCode, 0, len(r.adapters))
	for code := range r.adapters {
		codes = append(codes, code)
	}
	return codes
}
