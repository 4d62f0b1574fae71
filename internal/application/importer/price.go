package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceResolution is the normalized outcome of one price payload
type PriceResolution struct {
	Price decimal.Decimal
	RRP   *decimal.Decimal
	Skip  bool
}

// ResolvePriceAmounts normalizes the (rrp, price) pair of a payload. A lone
// rrp becomes the price; when both are given the larger one is the rrp and
// the smaller the price, whichever key they arrived in, correcting operator
// input where rrp < price. A resolved price of exactly zero means skip: zero
// is not a representable sale price.
func ResolvePriceAmounts(data PriceData) (PriceResolution, error) {
	rrp, hasRRP := data.RRP.Get()
	price, hasPrice := data.Price.Get()
	if !hasRRP && !hasPrice {
		return PriceResolution{}, shared.NewValidationError("price", "At least one of price and rrp is required")
	}

	var resolved PriceResolution
	switch {
	case hasRRP && !hasPrice:
		resolved.Price = rrp
	case hasPrice && !hasRRP:
		resolved.Price = price
	default:
		if rrp.LessThan(price) {
			rrp, price = price, rrp
		}
		resolved.Price = price
		resolved.RRP = &rrp
	}

	if resolved.Price.IsNegative() {
		return PriceResolution{}, shared.NewValidationError("price", "Price cannot be negative")
	}
	resolved.Skip = resolved.Price.IsZero()
	return resolved, nil
}

// SalesPriceImport reconciles one product price in one currency
type SalesPriceImport struct {
	imp       *Importer
	scope     Scope
	productID uuid.UUID
	data      PriceData

	Instance *catalog.SalesPrice
	Created  bool
	// Skipped is set when the resolved price was zero and no row was written
	Skipped bool

	resolved         PriceResolution
	currency         string
	currencyOverride *catalog.Currency
}

// WithCurrency pins the price to an already resolved tenant currency,
// bypassing the ISO code lookup entirely
func (p *SalesPriceImport) WithCurrency(currency *catalog.Currency) *SalesPriceImport {
	p.currencyOverride = currency
	return p
}

// Process runs the price import
func (p *SalesPriceImport) Process(ctx context.Context) error {
	resolved, err := ResolvePriceAmounts(p.data)
	if err != nil {
		return err
	}
	p.resolved = resolved
	if resolved.Skip {
		p.Skipped = true
		return nil
	}

	currency, err := p.resolveCurrency(ctx)
	if err != nil {
		return err
	}
	p.currency = currency

	op := Operation[catalog.SalesPrice]{
		AllowEdit: true,
		Lookup: func(ctx context.Context) (*catalog.SalesPrice, error) {
			return p.imp.repos.Prices.FindByProductAndCurrency(ctx, p.scope.TenantID, p.productID, currency)
		},
		Create: func(ctx context.Context) (*catalog.SalesPrice, error) {
			price, err := catalog.NewSalesPrice(p.scope.TenantID, p.productID, currency, resolved.Price)
			if err != nil {
				return nil, err
			}
			if resolved.RRP != nil {
				if err := price.SetAmounts(resolved.Price, resolved.RRP); err != nil {
					return nil, err
				}
			}
			if err := p.imp.repos.Prices.Save(ctx, price); err != nil {
				return nil, err
			}
			return price, nil
		},
		Apply: func(existing *catalog.SalesPrice) (bool, error) {
			if existing.Amount.Equal(resolved.Price) && rrpEqual(existing.RRP, resolved.RRP) {
				return false, nil
			}
			if err := existing.SetAmounts(resolved.Price, resolved.RRP); err != nil {
				return false, err
			}
			return true, nil
		},
		Save: func(ctx context.Context, price *catalog.SalesPrice) error {
			return p.imp.repos.Prices.Save(ctx, price)
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	p.Instance = instance
	p.Created = created

	// Price moves ripple into auto-updated price lists unless the context
	// suppresses it (bulk imports recompute once at the end instead).
	if !created {
		if err := p.imp.RecalculateAutoPrices(ctx, p.scope, p.productID); err != nil {
			return err
		}
	}
	return nil
}

// resolveCurrency picks the price currency: an explicit currency object wins,
// then an ISO code validated against the public reference and get-or-created
// per tenant, then the tenant default.
func (p *SalesPriceImport) resolveCurrency(ctx context.Context) (string, error) {
	if p.currencyOverride != nil {
		return p.currencyOverride.ISOCode, nil
	}
	if iso, ok := p.data.Currency.Get(); ok && iso != "" {
		existing, err := p.imp.repos.Currencies.FindByISOCode(ctx, p.scope.TenantID, iso)
		if err == nil {
			return existing.ISOCode, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
		public, err := p.imp.repos.Currencies.FindPublic(ctx, iso)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return "", shared.NewValidationError("currency", "Unsupported currency code: "+iso)
			}
			return "", err
		}
		currency, err := catalog.NewCurrency(p.scope.TenantID, public.ISOCode, public.Symbol)
		if err != nil {
			return "", err
		}
		if err := p.imp.repos.Currencies.Save(ctx, currency); err != nil {
			return "", err
		}
		return currency.ISOCode, nil
	}

	fallback, err := p.imp.repos.Currencies.FindDefault(ctx, p.scope.TenantID)
	if err != nil {
		return "", err
	}
	return fallback.ISOCode, nil
}

func rrpEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
