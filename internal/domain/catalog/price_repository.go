package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesPriceRepository defines persistence for direct product prices
type SalesPriceRepository interface {
	// FindByProductAndCurrency returns the price row for one currency, if any
	FindByProductAndCurrency(ctx context.Context, tenantID, productID uuid.UUID, currencyCode string) (*SalesPrice, error)

	// FindByProduct returns all prices of one product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]SalesPrice, error)

	// Save creates or updates a price row
	Save(ctx context.Context, price *SalesPrice) error
}

// PriceListRepository defines persistence for sales price lists
type PriceListRepository interface {
	// FindByID finds a list within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SalesPriceList, error)

	// FindByIdentity finds a list by name/currency/date-range identity.
	// Nil dates are matched as NULL, not ignored; two lists differing only in
	// date range are distinct lists.
	FindByIdentity(ctx context.Context, tenantID uuid.UUID, name, currencyCode string, startDate, endDate *time.Time) (*SalesPriceList, error)

	// FindByCurrency returns all lists priced in one currency
	FindByCurrency(ctx context.Context, tenantID uuid.UUID, currencyCode string) ([]SalesPriceList, error)

	// Save creates or updates a list
	Save(ctx context.Context, list *SalesPriceList) error

	// FindItem returns the (list, product) binding, if any
	FindItem(ctx context.Context, tenantID, listID, productID uuid.UUID) (*SalesPriceListItem, error)

	// SaveItem creates or updates a binding
	SaveItem(ctx context.Context, item *SalesPriceListItem) error
}

// CurrencyRepository defines persistence for tenant currencies and the public
// ISO reference
type CurrencyRepository interface {
	// FindByISOCode finds a tenant currency
	FindByISOCode(ctx context.Context, tenantID uuid.UUID, isoCode string) (*Currency, error)

	// FindDefault returns the tenant's default currency
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Currency, error)

	// FindPublic looks an ISO code up in the tenant-global reference table
	FindPublic(ctx context.Context, isoCode string) (*PublicCurrency, error)

	// Save creates or updates a tenant currency
	Save(ctx context.Context, currency *Currency) error
}

// VatRateRepository defines persistence for VAT rates
type VatRateRepository interface {
	// FindByRate finds a VAT rate row by its percentage
	FindByRate(ctx context.Context, tenantID uuid.UUID, rate int) (*VatRate, error)

	// Save creates or updates a VAT rate
	Save(ctx context.Context, rate *VatRate) error
}
