package importer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceListImport reconciles one named price list and its product bindings.
// The list identity includes the date range; nil dates match NULL, so two
// lists differing only in validity window are distinct rows.
type PriceListImport struct {
	imp   *Importer
	scope Scope
	data  PriceListData

	Instance *catalog.SalesPriceList
	Created  bool
}

// Process runs the price list import
func (p *PriceListImport) Process(ctx context.Context) error {
	if p.data.Name == "" {
		return shared.NewValidationError("name", "Price list name is required")
	}

	currency := p.data.Currency.Or("")
	if currency == "" {
		fallback, err := p.imp.repos.Currencies.FindDefault(ctx, p.scope.TenantID)
		if err != nil {
			return err
		}
		currency = fallback.ISOCode
	}

	startDate, err := parseListDate(p.data.StartDate)
	if err != nil {
		return err
	}
	endDate, err := parseListDate(p.data.EndDate)
	if err != nil {
		return err
	}

	op := Operation[catalog.SalesPriceList]{
		AllowEdit: true,
		Lookup: func(ctx context.Context) (*catalog.SalesPriceList, error) {
			return p.imp.repos.PriceLists.FindByIdentity(ctx, p.scope.TenantID, p.data.Name, currency, startDate, endDate)
		},
		Create: func(ctx context.Context) (*catalog.SalesPriceList, error) {
			list, err := catalog.NewSalesPriceList(p.scope.TenantID, p.data.Name, currency)
			if err != nil {
				return nil, err
			}
			if err := list.SetDateRange(startDate, endDate); err != nil {
				return nil, err
			}
			if v, ok := p.data.AutoUpdate.Get(); ok {
				list.AutoUpdate = v
			}
			if err := p.imp.repos.PriceLists.Save(ctx, list); err != nil {
				return nil, err
			}
			return list, nil
		},
		Apply: func(existing *catalog.SalesPriceList) (bool, error) {
			if v, ok := p.data.AutoUpdate.Get(); ok && existing.AutoUpdate != v {
				existing.AutoUpdate = v
				existing.Touch()
				return true, nil
			}
			return false, nil
		},
		Save: func(ctx context.Context, list *catalog.SalesPriceList) error {
			return p.imp.repos.PriceLists.Save(ctx, list)
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	p.Instance = instance
	p.Created = created

	// Many items written in one run must not each trigger the recompute
	// receiver; suppress it for the batch and recompute nothing here. The
	// next base price change recomputes naturally.
	itemCtx := ctx
	if p.data.DisableAutoUpdate {
		itemCtx = WithAutoPriceUpdateSuppressed(ctx)
	}
	for _, item := range p.data.Items {
		if err := p.processItem(itemCtx, item); err != nil {
			return err
		}
	}
	return nil
}

func (p *PriceListImport) processItem(ctx context.Context, data PriceListItemData) error {
	product, err := p.imp.repos.Products.FindBySKU(ctx, p.scope.TenantID, data.SKU)
	if err != nil {
		return err
	}

	item, err := p.imp.repos.PriceLists.FindItem(ctx, p.scope.TenantID, p.Instance.ID, product.ID)
	if errors.Is(err, shared.ErrNotFound) {
		item = catalog.NewSalesPriceListItem(p.scope.TenantID, p.Instance.ID, product.ID)
	} else if err != nil {
		return err
	}

	if data.PriceOverride.Present() || data.DiscountOverride.Present() {
		item.SetOverride(optionalDecimal(data.PriceOverride), optionalDecimal(data.DiscountOverride))
	}
	if err := p.imp.repos.PriceLists.SaveItem(ctx, item); err != nil {
		return err
	}

	if p.Instance.AutoUpdate && !AutoPriceUpdateSuppressed(ctx) {
		return p.imp.RecalculateAutoPrices(ctx, p.scope, product.ID)
	}
	return nil
}

// RecalculateAutoPrices refreshes price_auto on every auto-updated list item
// of a product from its base sales price. The receiver honours the context
// suppression flag so bulk imports can defer the work.
func (imp *Importer) RecalculateAutoPrices(ctx context.Context, scope Scope, productID uuid.UUID) error {
	if AutoPriceUpdateSuppressed(ctx) {
		return nil
	}
	prices, err := imp.repos.Prices.FindByProduct(ctx, scope.TenantID, productID)
	if err != nil {
		return err
	}
	for _, price := range prices {
		lists, err := imp.repos.PriceLists.FindByCurrency(ctx, scope.TenantID, price.CurrencyCode)
		if err != nil {
			return err
		}
		for _, list := range lists {
			if !list.AutoUpdate {
				continue
			}
			item, err := imp.repos.PriceLists.FindItem(ctx, scope.TenantID, list.ID, productID)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			amount := price.Amount
			item.SetAuto(&amount, price.RRP)
			if err := imp.repos.PriceLists.SaveItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionalDecimal(value shared.Optional[decimal.Decimal]) *decimal.Decimal {
	if v, ok := value.Get(); ok {
		return &v
	}
	return nil
}

func parseListDate(value shared.Optional[string]) (*time.Time, error) {
	raw, ok := value.Get()
	if !ok || raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, shared.NewValidationError("date", "Invalid date: "+raw)
}
