package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=SIMPLE CONFIGURABLE BUNDLE ALIAS"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductListItem represents a product in list responses
type ProductListItem struct {
	ID        uuid.UUID `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TranslationResponse is one language-scoped text bundle of a product
type TranslationResponse struct {
	Language         string  `json:"language"`
	Name             string  `json:"name"`
	ShortDescription string  `json:"short_description,omitempty"`
	Description      string  `json:"description,omitempty"`
	URLKey           *string `json:"url_key,omitempty"`
}

// PriceResponse is one currency price of a product
type PriceResponse struct {
	Currency string           `json:"currency"`
	Price    decimal.Decimal  `json:"price"`
	RRP      *decimal.Decimal `json:"rrp,omitempty"`
}

// ImageResponse is one image assignment of a product
type ImageResponse struct {
	MediaID     uuid.UUID `json:"media_id"`
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsMainImage bool      `json:"is_main_image"`
}

// AttributeResponse is one property value of a product
type AttributeResponse struct {
	PropertyID   uuid.UUID   `json:"property_id"`
	PropertyName string      `json:"property_name"`
	PropertyType string      `json:"property_type"`
	Value        interface{} `json:"value"`
}

// VariationResponse is one variation edge under a configurable parent
type VariationResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Active    bool      `json:"active"`
}

// ProductResponse represents a full product in API responses
type ProductResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	SKU            string                `json:"sku"`
	Type           string                `json:"type"`
	Active         bool                  `json:"active"`
	AllowBackorder bool                  `json:"allow_backorder"`
	EanCode        string                `json:"ean_code,omitempty"`
	Translations   []TranslationResponse `json:"translations,omitempty"`
	Prices         []PriceResponse       `json:"prices,omitempty"`
	Images         []ImageResponse       `json:"images,omitempty"`
	Attributes     []AttributeResponse   `json:"attributes,omitempty"`
	Variations     []VariationResponse   `json:"variations,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToProductListItem converts a domain Product to a list item. The name is
// resolved separately since it lives on the translation rows.
func ToProductListItem(p *catalog.Product, name string) ProductListItem {
	return ProductListItem{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      name,
		Type:      p.Type.String(),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
