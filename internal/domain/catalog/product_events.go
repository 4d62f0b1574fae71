package catalog

import (
	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// Event types for the catalog aggregates
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductUpdated      = "catalog.product.updated"
	EventTypeProductDeleted      = "catalog.product.deleted"
	EventTypePriceChanged        = "catalog.product.price_changed"
	EventTypeTranslationChanged  = "catalog.product.translation_changed"
	EventTypeEanCodeReleased     = "catalog.ean_code.released"
	EventTypeMediaAssigned       = "catalog.media.assigned"
	EventTypePropertyValueStored = "catalog.property.value_stored"
)

// ProductCreatedEvent is emitted when a product is first created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string      `json:"sku"`
	Kind ProductType `json:"kind"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID, p.TenantID),
		SKU:             p.SKU,
		Kind:            p.Type,
	}
}

// ProductUpdatedEvent is emitted when product fields change. The push path
// listens for it to enqueue a remote sync.
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, "Product", p.ID, p.TenantID),
		SKU:             p.SKU,
	}
}

// ProductDeletedEvent is emitted when a product is removed
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductDeletedEvent creates a ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, "Product", p.ID, p.TenantID),
		SKU:             p.SKU,
	}
}

// PriceChangedEvent is emitted when a sales price changes
type PriceChangedEvent struct {
	shared.BaseDomainEvent
	Currency string `json:"currency"`
}

// NewPriceChangedEvent creates a PriceChangedEvent
func NewPriceChangedEvent(price *SalesPrice) *PriceChangedEvent {
	return &PriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceChanged, "SalesPrice", price.ID, price.TenantID),
		Currency:        price.CurrencyCode,
	}
}

// EanCodeReleasedEvent is emitted when an EAN code loses its product.
// Listeners recheck the product that lost the code for a missing EAN.
type EanCodeReleasedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewEanCodeReleasedEvent creates an EanCodeReleasedEvent
func NewEanCodeReleasedEvent(ean *EanCode, productID uuid.UUID) *EanCodeReleasedEvent {
	return &EanCodeReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEanCodeReleased, "EanCode", productID, ean.TenantID),
		Code:            ean.Code,
	}
}
