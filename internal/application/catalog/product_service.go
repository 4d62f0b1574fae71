package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultLanguage is the language used to resolve display names when the
// caller does not ask for a specific one
const DefaultLanguage = "en"

// ProductService serves the catalog read and lifecycle operations. Product
// content is written through the import pipeline; this service covers
// listing, detail assembly and the few direct state switches.
type ProductService struct {
	products     catalog.ProductRepository
	translations catalog.TranslationRepository
	eanCodes     catalog.EanCodeRepository
	variations   catalog.VariationRepository
	properties   catalog.PropertyRepository
	assignments  catalog.ProductPropertyRepository
	prices       catalog.SalesPriceRepository
	media        catalog.MediaRepository
	log          *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	translations catalog.TranslationRepository,
	eanCodes catalog.EanCodeRepository,
	variations catalog.VariationRepository,
	properties catalog.PropertyRepository,
	assignments catalog.ProductPropertyRepository,
	prices catalog.SalesPriceRepository,
	media catalog.MediaRepository,
	log *zap.Logger,
) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		products:     products,
		translations: translations,
		eanCodes:     eanCodes,
		variations:   variations,
		properties:   properties,
		assignments:  assignments,
		prices:       prices,
		media:        media,
		log:          log,
	}
}

// List returns a page of products with their default-language names
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductListItem, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	products, err := s.products.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductListItem, 0, len(products))
	for i := range products {
		items = append(items, ToProductListItem(&products[i], s.displayName(ctx, tenantID, products[i].ID)))
	}
	return items, total, nil
}

// GetByID assembles the full product view: translations, prices, images,
// attribute values and variation edges
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, product)
}

// GetBySKU assembles the full product view looked up by SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.products.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, product)
}

// SetActive switches a product's sellable flag
func (s *ProductService) SetActive(ctx context.Context, tenantID, productID uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.assemble(ctx, product)
}

// Delete removes a product from the tenant catalog
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.products.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	return s.products.Delete(ctx, tenantID, productID)
}

func (s *ProductService) assemble(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	resp := &ProductResponse{
		ID:             product.ID,
		TenantID:       product.TenantID,
		SKU:            product.SKU,
		Type:           product.Type.String(),
		Active:         product.Active,
		AllowBackorder: product.AllowBackorder,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
		Version:        product.Version,
	}

	translations, err := s.translations.FindByProduct(ctx, product.TenantID, product.ID)
	if err != nil {
		return nil, err
	}
	for _, tr := range translations {
		resp.Translations = append(resp.Translations, TranslationResponse{
			Language:         tr.Language,
			Name:             tr.Name,
			ShortDescription: tr.ShortDescription,
			Description:      tr.Description,
			URLKey:           tr.URLKey,
		})
	}

	if ean, err := s.eanCodes.FindByProduct(ctx, product.TenantID, product.ID); err == nil {
		resp.EanCode = ean.Code
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	priceRows, err := s.prices.FindByProduct(ctx, product.TenantID, product.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range priceRows {
		resp.Prices = append(resp.Prices, PriceResponse{
			Currency: row.CurrencyCode,
			Price:    row.Amount,
			RRP:      row.RRP,
		})
	}

	if err := s.assembleImages(ctx, product, resp); err != nil {
		return nil, err
	}
	if err := s.assembleAttributes(ctx, product, resp); err != nil {
		return nil, err
	}
	if product.Type == catalog.ProductTypeConfigurable {
		if err := s.assembleVariations(ctx, product, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *ProductService) assembleImages(ctx context.Context, product *catalog.Product, resp *ProductResponse) error {
	assignments, err := s.media.FindAssignmentsByProduct(ctx, product.TenantID, product.ID)
	if err != nil {
		return err
	}
	for _, through := range assignments {
		image := ImageResponse{
			MediaID:     through.MediaID,
			SortOrder:   through.SortOrder,
			IsMainImage: through.IsMainImage,
		}
		if m, err := s.media.FindByID(ctx, product.TenantID, through.MediaID); err == nil {
			image.SourceURL = m.SourceURL
			image.Title = m.Title
		}
		resp.Images = append(resp.Images, image)
	}
	return nil
}

func (s *ProductService) assembleAttributes(ctx context.Context, product *catalog.Product, resp *ProductResponse) error {
	assignments, err := s.assignments.FindByProduct(ctx, product.TenantID, product.ID)
	if err != nil {
		return err
	}
	for i := range assignments {
		assignment := &assignments[i]
		property, err := s.properties.FindByID(ctx, product.TenantID, assignment.PropertyID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		resp.Attributes = append(resp.Attributes, AttributeResponse{
			PropertyID:   property.ID,
			PropertyName: property.Name,
			PropertyType: string(property.Type),
			Value:        s.resolveValue(ctx, product.TenantID, assignment),
		})
	}
	return nil
}

func (s *ProductService) assembleVariations(ctx context.Context, product *catalog.Product, resp *ProductResponse) error {
	edges, err := s.variations.FindVariationsOf(ctx, product.TenantID, product.ID)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		child, err := s.products.FindByIDForTenant(ctx, product.TenantID, edge.VariationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		resp.Variations = append(resp.Variations, VariationResponse{
			ProductID: child.ID,
			SKU:       child.SKU,
			Active:    child.Active,
		})
	}
	return nil
}

// resolveValue reads whichever typed column the assignment carries, mapping
// select value ids back to their labels
func (s *ProductService) resolveValue(ctx context.Context, tenantID uuid.UUID, pp *catalog.ProductProperty) interface{} {
	switch {
	case pp.ValueText != nil:
		return *pp.ValueText
	case pp.ValueInt != nil:
		return *pp.ValueInt
	case pp.ValueFloat != nil:
		return *pp.ValueFloat
	case pp.ValueBool != nil:
		return *pp.ValueBool
	case pp.ValueDate != nil:
		return pp.ValueDate.Format("2006-01-02")
	case pp.ValueDatetime != nil:
		return pp.ValueDatetime
	case pp.ValueSelectID != nil:
		if sv, err := s.properties.FindSelectValueByID(ctx, tenantID, *pp.ValueSelectID); err == nil {
			return sv.Value
		}
		return pp.ValueSelectID.String()
	case len(pp.ValueMultiSelect) > 0:
		labels := make([]string, 0, len(pp.ValueMultiSelect))
		for _, id := range pp.ValueMultiSelect {
			if sv, err := s.properties.FindSelectValueByID(ctx, tenantID, id); err == nil {
				labels = append(labels, sv.Value)
			}
		}
		return labels
	default:
		return nil
	}
}

// displayName resolves a product's list name from its translations, trying
// the default language first
func (s *ProductService) displayName(ctx context.Context, tenantID, productID uuid.UUID) string {
	if tr, err := s.translations.FindByProductAndLanguage(ctx, tenantID, productID, DefaultLanguage); err == nil {
		return tr.Name
	}
	translations, err := s.translations.FindByProduct(ctx, tenantID, productID)
	if err != nil || len(translations) == 0 {
		return ""
	}
	return translations[0].Name
}
