package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesPriceList is a named price list scoped by currency and an optional
// date range, e.g. per-channel or seasonal pricing.
type SalesPriceList struct {
	shared.TenantAggregateRoot
	Name         string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_price_list_tenant_name,priority:2"`
	CurrencyCode string     `gorm:"type:varchar(3);not null"`
	StartDate    *time.Time `gorm:""`
	EndDate      *time.Time `gorm:""`
	AutoUpdate   bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SalesPriceList) TableName() string {
	return "sales_price_lists"
}

// NewSalesPriceList creates a price list
func NewSalesPriceList(tenantID uuid.UUID, name, currencyCode string) (*SalesPriceList, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRICE_LIST", "Price list name cannot be empty")
	}
	if currencyCode == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency code cannot be empty")
	}
	return &SalesPriceList{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CurrencyCode:        currencyCode,
		AutoUpdate:          true,
	}, nil
}

// SetDateRange bounds the list validity. Either side may be nil (open-ended).
func (l *SalesPriceList) SetDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Price list start date must be before end date")
	}
	l.StartDate = start
	l.EndDate = end
	l.Touch()
	l.IncrementVersion()
	return nil
}

// IsActiveAt reports whether the list applies at the given instant
func (l *SalesPriceList) IsActiveAt(ts time.Time) bool {
	if l.StartDate != nil && ts.Before(*l.StartDate) {
		return false
	}
	if l.EndDate != nil && ts.After(*l.EndDate) {
		return false
	}
	return true
}

// SalesPriceListItem binds one product into a price list. Automatic amounts
// are recomputed by receivers whenever the base price moves; a manual
// override always wins when present.
type SalesPriceListItem struct {
	shared.BaseEntity
	TenantID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	PriceListID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_item,priority:1"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_item,priority:2"`
	PriceAuto        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	DiscountAuto     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PriceOverride    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	DiscountOverride *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (SalesPriceListItem) TableName() string {
	return "sales_price_list_items"
}

// NewSalesPriceListItem binds a product into a list
func NewSalesPriceListItem(tenantID, priceListID, productID uuid.UUID) *SalesPriceListItem {
	return &SalesPriceListItem{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		PriceListID: priceListID,
		ProductID:   productID,
	}
}

// SetAuto stores the recomputed automatic amounts
func (i *SalesPriceListItem) SetAuto(price, discount *decimal.Decimal) {
	i.PriceAuto = price
	i.DiscountAuto = discount
	i.Touch()
}

// SetOverride stores the manual amounts
func (i *SalesPriceListItem) SetOverride(price, discount *decimal.Decimal) {
	i.PriceOverride = price
	i.DiscountOverride = discount
	i.Touch()
}

// EffectivePrice returns the override when present, else the automatic price
func (i *SalesPriceListItem) EffectivePrice() *decimal.Decimal {
	if i.PriceOverride != nil {
		return i.PriceOverride
	}
	return i.PriceAuto
}

// EffectiveDiscount returns the override when present, else the automatic one
func (i *SalesPriceListItem) EffectiveDiscount() *decimal.Decimal {
	if i.DiscountOverride != nil {
		return i.DiscountOverride
	}
	return i.DiscountAuto
}
