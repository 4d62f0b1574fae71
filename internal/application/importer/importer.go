package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Scope carries the ambient tenant and language context every import
// instance runs under. The sales channel is set only when a channel
// processor drives the import.
type Scope struct {
	TenantID       uuid.UUID
	Language       string
	SalesChannelID *uuid.UUID
}

// Repositories bundles the catalog persistence ports the importer needs
type Repositories struct {
	Products     catalog.ProductRepository
	Translations catalog.TranslationRepository
	EanCodes     catalog.EanCodeRepository
	Variations   catalog.VariationRepository
	Properties   catalog.PropertyRepository
	Assignments  catalog.ProductPropertyRepository
	Rules        catalog.RuleRepository
	Prices       catalog.SalesPriceRepository
	PriceLists   catalog.PriceListRepository
	Currencies   catalog.CurrencyRepository
	VatRates     catalog.VatRateRepository
	Media        catalog.MediaRepository
}

// Importer is the factory for import instances. One Importer is shared by
// all tenants; per-run context travels in the Scope.
type Importer struct {
	repos Repositories
	bus   shared.EventPublisher
	log   *zap.Logger
}

// NewImporter creates an importer over the given persistence ports
func NewImporter(repos Repositories, bus shared.EventPublisher, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{repos: repos, bus: bus, log: log}
}

// Product builds a product import instance for one payload
func (imp *Importer) Product(scope Scope, data ProductData) *ProductImport {
	return &ProductImport{imp: imp, scope: scope, data: data}
}

// SalesPrice builds a price import instance for one payload
func (imp *Importer) SalesPrice(scope Scope, productID uuid.UUID, data PriceData) *SalesPriceImport {
	return &SalesPriceImport{imp: imp, scope: scope, productID: productID, data: data}
}

// PriceList builds a price list import instance for one payload
func (imp *Importer) PriceList(scope Scope, data PriceListData) *PriceListImport {
	return &PriceListImport{imp: imp, scope: scope, data: data}
}

// Image builds an image import instance for one payload
func (imp *Importer) Image(scope Scope, productID uuid.UUID, data ImageData) *ImageImport {
	return &ImageImport{imp: imp, scope: scope, productID: productID, data: data}
}

// Attribute builds a property value import instance for one payload
func (imp *Importer) Attribute(scope Scope, productID uuid.UUID, data AttributeData) *AttributeImport {
	return &AttributeImport{imp: imp, scope: scope, productID: productID, data: data}
}

// ConfigurableVariation builds an edge import binding variationID under parentID
func (imp *Importer) ConfigurableVariation(scope Scope, parentID, variationID uuid.UUID) *ConfigurableVariationImport {
	return &ConfigurableVariationImport{imp: imp, scope: scope, parentID: parentID, variationID: variationID}
}

// BundleVariation builds an edge import binding a child into a bundle parent
func (imp *Importer) BundleVariation(scope Scope, parentID uuid.UUID, entry BundleEntryData) *BundleVariationImport {
	return &BundleVariationImport{imp: imp, scope: scope, parentID: parentID, entry: entry}
}

// AliasVariation builds an alias product import pointing at parentID
func (imp *Importer) AliasVariation(scope Scope, parentID uuid.UUID, data AliasData) *AliasVariationImport {
	return &AliasVariationImport{imp: imp, scope: scope, parentID: parentID, data: data}
}

// ConfiguratorVariations builds the Cartesian variation generator for a
// configurable product
func (imp *Importer) ConfiguratorVariations(scope Scope, parent *catalog.Product, rule *catalog.ProductPropertiesRule, values []ConfiguratorValue) *ConfiguratorVariationsImport {
	return &ConfiguratorVariationsImport{imp: imp, scope: scope, parent: parent, rule: rule, values: values}
}

// publish flushes the domain events of an aggregate when a bus is wired
func (imp *Importer) publish(ctx context.Context, agg interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	if imp.bus == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := imp.bus.Publish(ctx, events...); err != nil {
		imp.log.Warn("failed to publish domain events", zap.Error(err))
	}
	agg.ClearDomainEvents()
}
