package catalog

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType represents the kind of product
type ProductType string

const (
	ProductTypeSimple       ProductType = "SIMPLE"
	ProductTypeConfigurable ProductType = "CONFIGURABLE"
	ProductTypeBundle       ProductType = "BUNDLE"
	ProductTypeAlias        ProductType = "ALIAS"
)

// IsValid returns true if the product type is one of the known kinds
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeSimple, ProductTypeConfigurable, ProductTypeBundle, ProductTypeAlias:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductType
func (t ProductType) String() string {
	return string(t)
}

// Product is the aggregate root of the catalog. A CONFIGURABLE product owns
// variation edges to SIMPLE/BUNDLE children, a BUNDLE owns quantity edges,
// and an ALIAS points at exactly one parent product.
//
// The type is fixed at creation; switching types is not a supported operation.
type Product struct {
	shared.TenantAggregateRoot
	SKU            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Type           ProductType     `gorm:"type:varchar(20);not null;default:'SIMPLE'"`
	Active         bool            `gorm:"not null;default:true"`
	AllowBackorder bool            `gorm:"not null;default:false"`
	VatRateID      *uuid.UUID      `gorm:"type:uuid;index"`
	AliasParentID  *uuid.UUID      `gorm:"type:uuid;index"`
	BaseQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product of the given type
func NewProduct(tenantID uuid.UUID, sku string, productType ProductType) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown product type: "+string(productType))
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Type:                productType,
		Active:              true,
		BaseQuantity:        decimal.NewFromInt(1),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewAliasProduct creates an ALIAS product pointing at a parent product.
// An alias has no catalog data of its own beyond what is copied from the
// parent at creation time.
func NewAliasProduct(tenantID uuid.UUID, sku string, parentID uuid.UUID) (*Product, error) {
	if parentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALIAS_PARENT", "Alias product requires a parent product")
	}
	product, err := NewProduct(tenantID, sku, ProductTypeAlias)
	if err != nil {
		return nil, err
	}
	product.AliasParentID = &parentID
	return product, nil
}

// GenerateSKU returns a random hexadecimal SKU for sources that omit one.
// 7 random bytes give a 14 character code, unique enough per tenant.
func GenerateSKU() string {
	buf := make([]byte, 7)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on a broken entropy source; fall back to the uuid package
		id := uuid.New()
		copy(buf, id[:7])
	}
	return hex.EncodeToString(buf)
}

// Activate marks the product as sellable
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// Deactivate hides the product from all channels
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetActive sets the active flag to an explicit value
func (p *Product) SetActive(active bool) {
	if active {
		p.Activate()
	} else {
		p.Deactivate()
	}
}

// SetAllowBackorder toggles overselling for this product
func (p *Product) SetAllowBackorder(allow bool) {
	if p.AllowBackorder == allow {
		return
	}
	p.AllowBackorder = allow
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetVatRate assigns the VAT rate reference
func (p *Product) SetVatRate(vatRateID *uuid.UUID) {
	p.VatRateID = vatRateID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// IsSimple returns true for SIMPLE products
func (p *Product) IsSimple() bool {
	return p.Type == ProductTypeSimple
}

// IsConfigurable returns true for CONFIGURABLE products
func (p *Product) IsConfigurable() bool {
	return p.Type == ProductTypeConfigurable
}

// IsBundle returns true for BUNDLE products
func (p *Product) IsBundle() bool {
	return p.Type == ProductTypeBundle
}

// IsAlias returns true for ALIAS products
func (p *Product) IsAlias() bool {
	return p.Type == ProductTypeAlias
}

// CanBeVariation returns true if this product may be bound under a
// configurable parent
func (p *Product) CanBeVariation() bool {
	return p.Type == ProductTypeSimple || p.Type == ProductTypeBundle
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewDomainError("INVALID_SKU", "Product SKU can only contain letters, numbers, underscores, hyphens, and dots")
		}
	}
	return nil
}
