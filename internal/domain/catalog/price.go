package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesPrice is the direct price of one product in one currency. RRP is the
// optional recommended retail price shown as the strike-through amount; it is
// always greater than or equal to Amount.
//
// A zero price is not representable; importers skip zero values entirely.
type SalesPrice struct {
	shared.BaseEntity
	TenantID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sales_price_product_currency,priority:1"`
	CurrencyCode string           `gorm:"type:varchar(3);not null;uniqueIndex:idx_sales_price_product_currency,priority:2"`
	Amount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RRP          *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (SalesPrice) TableName() string {
	return "sales_prices"
}

// NewSalesPrice creates a price for a product in one currency
func NewSalesPrice(tenantID, productID uuid.UUID, currencyCode string, amount decimal.Decimal) (*SalesPrice, error) {
	if currencyCode == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency code cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "A price of zero cannot be represented")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &SalesPrice{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		ProductID:    productID,
		CurrencyCode: currencyCode,
		Amount:       amount,
	}, nil
}

// SetAmounts updates price and RRP together, keeping RRP >= Amount
func (p *SalesPrice) SetAmounts(amount decimal.Decimal, rrp *decimal.Decimal) error {
	if amount.IsZero() || amount.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if rrp != nil && rrp.LessThan(amount) {
		return shared.NewDomainError("INVALID_PRICE", "RRP cannot be below the sales price")
	}
	p.Amount = amount
	p.RRP = rrp
	p.Touch()
	return nil
}

// HasDiscount returns true when an RRP above the amount is present
func (p *SalesPrice) HasDiscount() bool {
	return p.RRP != nil && p.RRP.GreaterThan(p.Amount)
}

// Currency is a tenant-scoped currency row, get-or-created from the public
// ISO reference when a channel payload carries a currency the tenant has not
// used before.
type Currency struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_currency_tenant_code,priority:1"`
	ISOCode   string    `gorm:"type:varchar(3);not null;uniqueIndex:idx_currency_tenant_code,priority:2"`
	Symbol    string    `gorm:"type:varchar(8)"`
	IsDefault bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Currency) TableName() string {
	return "currencies"
}

// NewCurrency creates a tenant currency from an ISO code
func NewCurrency(tenantID uuid.UUID, isoCode, symbol string) (*Currency, error) {
	if len(isoCode) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency ISO code must be 3 characters")
	}
	return &Currency{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ISOCode:    isoCode,
		Symbol:     symbol,
	}, nil
}

// PublicCurrency is the tenant-global ISO 4217 reference row
type PublicCurrency struct {
	ISOCode string `gorm:"type:varchar(3);primaryKey"`
	Name    string `gorm:"type:varchar(64);not null"`
	Symbol  string `gorm:"type:varchar(8)"`
}

// TableName returns the table name for GORM
func (PublicCurrency) TableName() string {
	return "public_currencies"
}

// VatRate is a tenant VAT percentage, get-or-created by rate value
type VatRate struct {
	shared.BaseEntity
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vat_tenant_rate,priority:1"`
	Rate     int       `gorm:"not null;uniqueIndex:idx_vat_tenant_rate,priority:2"`
	Name     string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (VatRate) TableName() string {
	return "vat_rates"
}

// NewVatRate creates a VAT rate row
func NewVatRate(tenantID uuid.UUID, rate int) (*VatRate, error) {
	if rate < 0 || rate > 100 {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	return &VatRate{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Rate:       rate,
		Name:       fmt.Sprintf("%d%%", rate),
	}, nil
}
