package integration

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// ChannelCode is the sealed set of supported sales channel kinds. Dispatch
// happens through this discriminator and the adapter registry; there is no
// polymorphic inheritance anywhere.
type ChannelCode string

const (
	ChannelCodeShopify     ChannelCode = "SHOPIFY"
	ChannelCodeMagento     ChannelCode = "MAGENTO"
	ChannelCodeEbay        ChannelCode = "EBAY"
	ChannelCodeShein       ChannelCode = "SHEIN"
	ChannelCodeWoocommerce ChannelCode = "WOOCOMMERCE"
)

// IsValid returns true if the channel code is one of the supported kinds
func (c ChannelCode) IsValid() bool {
	switch c {
	case ChannelCodeShopify, ChannelCodeMagento, ChannelCodeEbay,
		ChannelCodeShein, ChannelCodeWoocommerce:
		return true
	default:
		return false
	}
}

// String returns the string representation of ChannelCode
func (c ChannelCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the channel
func (c ChannelCode) DisplayName() string {
	switch c {
	case ChannelCodeShopify:
		return "Shopify"
	case ChannelCodeMagento:
		return "Magento"
	case ChannelCodeEbay:
		return "eBay"
	case ChannelCodeShein:
		return "Shein"
	case ChannelCodeWoocommerce:
		return "WooCommerce"
	default:
		return string(c)
	}
}

// SalesChannel is one configured connection of a tenant to an external
// sales platform. Credentials and kind-specific settings are stored as an
// opaque JSON document interpreted by the matching adapter.
type SalesChannel struct {
	shared.TenantAggregateRoot
	Code              ChannelCode `gorm:"type:varchar(20);not null;index"`
	Hostname          string      `gorm:"type:varchar(255);not null;uniqueIndex:idx_channel_tenant_host,priority:2"`
	Active            bool        `gorm:"not null;default:true"`
	RequestsPerMinute int         `gorm:"not null;default:60"`
	MaxRetries        int         `gorm:"not null;default:3"`
	Settings          string      `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (SalesChannel) TableName() string {
	return "sales_channels"
}

// NewSalesChannel creates a channel connection
func NewSalesChannel(tenantID uuid.UUID, code ChannelCode, hostname string) (*SalesChannel, error) {
	if !code.IsValid() {
		return nil, ErrInvalidChannelCode
	}
	if hostname == "" {
		return nil, shared.NewDomainError("INVALID_HOSTNAME", "Channel hostname cannot be empty")
	}
	return &SalesChannel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Hostname:            hostname,
		Active:              true,
		RequestsPerMinute:   60,
		MaxRetries:          3,
		Settings:            "{}",
	}, nil
}

// SetRequestLimit bounds the per-minute budget of the task queue
func (c *SalesChannel) SetRequestLimit(requestsPerMinute int) error {
	if requestsPerMinute < 1 {
		return shared.NewDomainError("INVALID_LIMIT", "Requests per minute must be at least 1")
	}
	c.RequestsPerMinute = requestsPerMinute
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetMaxRetries sets the queue retry ceiling
func (c *SalesChannel) SetMaxRetries(maxRetries int) error {
	if maxRetries < 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Max retries cannot be negative")
	}
	c.MaxRetries = maxRetries
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate enables the channel
func (c *SalesChannel) Activate() {
	c.Active = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate disables the channel; queued work for it is no longer admitted
func (c *SalesChannel) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}

// SalesChannelRepository defines persistence for channel connections
type SalesChannelRepository interface {
	// FindByID finds a channel within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SalesChannel, error)

	// FindByCode returns all channels of one kind for a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code ChannelCode) ([]SalesChannel, error)

	// FindAllForTenant returns every channel of a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]SalesChannel, error)

	// FindActive returns all active channels of a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]SalesChannel, error)

	// Save creates or updates a channel
	Save(ctx context.Context, channel *SalesChannel) error

	// Delete removes a channel
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
