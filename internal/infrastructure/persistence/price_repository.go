package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesPriceRepository implements catalog.SalesPriceRepository using GORM
type GormSalesPriceRepository struct {
	db *gorm.DB
}

// NewGormSalesPriceRepository creates a new GormSalesPriceRepository
func NewGormSalesPriceRepository(db *gorm.DB) *GormSalesPriceRepository {
	return &GormSalesPriceRepository{db: db}
}

// FindByProductAndCurrency returns the price row for one currency, if any
func (r *GormSalesPriceRepository) FindByProductAndCurrency(ctx context.Context, tenantID, productID uuid.UUID, currencyCode string) (*catalog.SalesPrice, error) {
	var price catalog.SalesPrice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND currency_code = ?", tenantID, productID, strings.ToUpper(currencyCode)).
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindByProduct returns all prices of one product
func (r *GormSalesPriceRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]catalog.SalesPrice, error) {
	var prices []catalog.SalesPrice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("currency_code ASC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates a price row
func (r *GormSalesPriceRepository) Save(ctx context.Context, price *catalog.SalesPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// GormPriceListRepository implements catalog.PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// FindByID finds a list within a tenant
func (r *GormPriceListRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.SalesPriceList, error) {
	var list catalog.SalesPriceList
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByIdentity finds a list by name/currency/date-range identity. Nil
// dates match NULL columns; two lists differing only in date range are
// distinct lists.
func (r *GormPriceListRepository) FindByIdentity(ctx context.Context, tenantID uuid.UUID, name, currencyCode string, startDate, endDate *time.Time) (*catalog.SalesPriceList, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ? AND currency_code = ?", tenantID, name, strings.ToUpper(currencyCode))
	if startDate == nil {
		query = query.Where("start_date IS NULL")
	} else {
		query = query.Where("start_date = ?", startDate)
	}
	if endDate == nil {
		query = query.Where("end_date IS NULL")
	} else {
		query = query.Where("end_date = ?", endDate)
	}

	var list catalog.SalesPriceList
	if err := query.First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByCurrency returns all lists priced in one currency
func (r *GormPriceListRepository) FindByCurrency(ctx context.Context, tenantID uuid.UUID, currencyCode string) ([]catalog.SalesPriceList, error) {
	var lists []catalog.SalesPriceList
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND currency_code = ?", tenantID, strings.ToUpper(currencyCode)).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a list
func (r *GormPriceListRepository) Save(ctx context.Context, list *catalog.SalesPriceList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// FindItem returns the (list, product) binding, if any
func (r *GormPriceListRepository) FindItem(ctx context.Context, tenantID, listID, productID uuid.UUID) (*catalog.SalesPriceListItem, error) {
	var item catalog.SalesPriceListItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND price_list_id = ? AND product_id = ?", tenantID, listID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem creates or updates a binding
func (r *GormPriceListRepository) SaveItem(ctx context.Context, item *catalog.SalesPriceListItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// GormCurrencyRepository implements catalog.CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByISOCode finds a tenant currency
func (r *GormCurrencyRepository) FindByISOCode(ctx context.Context, tenantID uuid.UUID, isoCode string) (*catalog.Currency, error) {
	var currency catalog.Currency
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND iso_code = ?", tenantID, strings.ToUpper(isoCode)).
		First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

// FindDefault returns the tenant's default currency
func (r *GormCurrencyRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*catalog.Currency, error) {
	var currency catalog.Currency
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

// FindPublic looks an ISO code up in the tenant-global reference table
func (r *GormCurrencyRepository) FindPublic(ctx context.Context, isoCode string) (*catalog.PublicCurrency, error) {
	var currency catalog.PublicCurrency
	if err := r.db.WithContext(ctx).
		Where("iso_code = ?", strings.ToUpper(isoCode)).
		First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

// Save creates or updates a tenant currency
func (r *GormCurrencyRepository) Save(ctx context.Context, currency *catalog.Currency) error {
	return r.db.WithContext(ctx).Save(currency).Error
}

// GormVatRateRepository implements catalog.VatRateRepository using GORM
type GormVatRateRepository struct {
	db *gorm.DB
}

// NewGormVatRateRepository creates a new GormVatRateRepository
func NewGormVatRateRepository(db *gorm.DB) *GormVatRateRepository {
	return &GormVatRateRepository{db: db}
}

// FindByRate finds a VAT rate row by its percentage
func (r *GormVatRateRepository) FindByRate(ctx context.Context, tenantID uuid.UUID, rate int) (*catalog.VatRate, error) {
	var vatRate catalog.VatRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND rate = ?", tenantID, rate).
		First(&vatRate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vatRate, nil
}

// Save creates or updates a VAT rate
func (r *GormVatRateRepository) Save(ctx context.Context, rate *catalog.VatRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}
