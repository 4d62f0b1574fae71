package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU within a tenant. Matching is
	// case-insensitive since stored SKUs are uppercased.
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// FindAllForTenant finds all products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// ExistsBySKU checks if a product with the given SKU exists in the tenant
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// TranslationRepository defines persistence for product translations
type TranslationRepository interface {
	// FindByProduct returns all translations of one product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]ProductTranslation, error)

	// FindByProductAndLanguage returns the translation for one language
	FindByProductAndLanguage(ctx context.Context, tenantID, productID uuid.UUID, lang string) (*ProductTranslation, error)

	// Save creates or updates a translation. Implementations surface unique
	// violations so the importer can apply the url_key retry policy.
	Save(ctx context.Context, translation *ProductTranslation) error

	// SaveBatch creates translations in bulk
	SaveBatch(ctx context.Context, translations []*ProductTranslation) error

	// Delete removes a translation
	Delete(ctx context.Context, id uuid.UUID) error
}

// EanCodeRepository defines persistence for EAN codes
type EanCodeRepository interface {
	// FindByProduct returns the code attached to a product, if any
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*EanCode, error)

	// FindByCode looks a code up by its value
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*EanCode, error)

	// Save creates or updates a code row
	Save(ctx context.Context, ean *EanCode) error
}

// VariationRepository defines persistence for variation edges
type VariationRepository interface {
	// FindConfigurable returns the edge for a (parent, variation) pair, if any
	FindConfigurable(ctx context.Context, tenantID, parentID, variationID uuid.UUID) (*ConfigurableVariation, error)

	// FindVariationsOf returns all variation edges under a configurable parent
	FindVariationsOf(ctx context.Context, tenantID, parentID uuid.UUID) ([]ConfigurableVariation, error)

	// SaveConfigurable persists a configurable edge
	SaveConfigurable(ctx context.Context, edge *ConfigurableVariation) error

	// DeleteConfigurable removes a configurable edge
	DeleteConfigurable(ctx context.Context, id uuid.UUID) error

	// FindBundle returns the edge for a (parent, child) pair, if any
	FindBundle(ctx context.Context, tenantID, parentID, childID uuid.UUID) (*BundleVariation, error)

	// FindChildrenOf returns all bundle edges under a bundle parent
	FindChildrenOf(ctx context.Context, tenantID, parentID uuid.UUID) ([]BundleVariation, error)

	// SaveBundle persists a bundle edge
	SaveBundle(ctx context.Context, edge *BundleVariation) error
}
