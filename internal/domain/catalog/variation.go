package catalog

import (
	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConfigurableVariation is the edge binding a SIMPLE/BUNDLE product as a
// variation of one CONFIGURABLE parent. Once linked, the edge is immutable;
// re-importing the same pair is a no-op.
type ConfigurableVariation struct {
	shared.BaseEntity
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ParentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_configurable_variation,priority:1"`
	VariationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_configurable_variation,priority:2"`
}

// TableName returns the table name for GORM
func (ConfigurableVariation) TableName() string {
	return "configurable_variations"
}

// NewConfigurableVariation links a variation product under a configurable parent
func NewConfigurableVariation(tenantID uuid.UUID, parent, variation *Product) (*ConfigurableVariation, error) {
	if !parent.IsConfigurable() {
		return nil, shared.NewDomainError("INVALID_PARENT", "Variation parent must be a CONFIGURABLE product")
	}
	if !variation.CanBeVariation() {
		return nil, shared.NewDomainError("INVALID_VARIATION", "Only SIMPLE or BUNDLE products can be variations")
	}
	if parent.ID == variation.ID {
		return nil, shared.NewDomainError("INVALID_VARIATION", "A product cannot be its own variation")
	}
	return &ConfigurableVariation{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ParentID:    parent.ID,
		VariationID: variation.ID,
	}, nil
}

// BundleVariation binds a child product into a BUNDLE parent with a quantity.
// Unlike the configurable edge the quantity is mutable.
type BundleVariation struct {
	shared.BaseEntity
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ParentID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_variation,priority:1"`
	ChildID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_variation,priority:2"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
}

// TableName returns the table name for GORM
func (BundleVariation) TableName() string {
	return "bundle_variations"
}

// NewBundleVariation binds a child into a bundle parent
func NewBundleVariation(tenantID uuid.UUID, parent, child *Product, quantity decimal.Decimal) (*BundleVariation, error) {
	if !parent.IsBundle() {
		return nil, shared.NewDomainError("INVALID_PARENT", "Bundle parent must be a BUNDLE product")
	}
	if parent.ID == child.ID {
		return nil, shared.NewDomainError("INVALID_VARIATION", "A product cannot be bundled into itself")
	}
	if quantity.IsZero() || quantity.IsNegative() {
		quantity = decimal.NewFromInt(1)
	}
	return &BundleVariation{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ParentID:   parent.ID,
		ChildID:    child.ID,
		Quantity:   quantity,
	}, nil
}

// SetQuantity updates the bundled quantity
func (b *BundleVariation) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsZero() || quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Bundle quantity must be positive")
	}
	b.Quantity = quantity
	b.Touch()
	return nil
}
