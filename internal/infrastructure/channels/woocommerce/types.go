package woocommerce

// Wire types for the WooCommerce REST API v3, trimmed to the fields the
// parser and adapter touch.

// storeProduct is one product as the platform returns it
type storeProduct struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	SKU              string           `json:"sku"`
	Type             string           `json:"type"`
	Status           string           `json:"status"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Slug             string           `json:"slug"`
	RegularPrice     string           `json:"regular_price"`
	SalePrice        string           `json:"sale_price"`
	Attributes       []storeAttribute `json:"attributes"`
	Images           []storeImage     `json:"images"`
	Variations       []storeProduct   `json:"product_variations"`
}

// product status and type values as the platform encodes them
const (
	statusPublish = "publish"
	statusDraft   = "draft"

	typeSimple   = "simple"
	typeVariable = "variable"
)

// storeAttribute is one attribute document on a product. Variation-axis
// attributes carry Variation true.
type storeAttribute struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Option    string   `json:"option"`
	Variation bool     `json:"variation"`
}

// storeImage is one picture on a product
type storeImage struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// apiError is the platform's error envelope
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// duplicateSKUCode is the error code for a SKU that already exists
const duplicateSKUCode = "product_invalid_sku"
