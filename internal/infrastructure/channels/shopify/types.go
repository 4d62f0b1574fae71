package shopify

// Wire types for the Shopify Admin REST API, trimmed to the fields the
// parser and adapter touch.

// shopProduct is one product as the platform returns it
type shopProduct struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	BodyHTML string          `json:"body_html"`
	Status   string          `json:"status"`
	Options  []productOption `json:"options"`
	Variants []variant       `json:"variants"`
	Images   []productImage  `json:"images"`
}

// product status values as the platform encodes them
const (
	statusActive = "active"
	statusDraft  = "draft"
)

// productOption is one configurator axis, e.g. Size with S/M/L
type productOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// variant is one purchasable combination under a product
type variant struct {
	ID             int64  `json:"id"`
	SKU            string `json:"sku"`
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Option1        string `json:"option1"`
	Option2        string `json:"option2"`
	Option3        string `json:"option3"`
}

// productImage is one picture on a product
type productImage struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
	Alt      string `json:"alt"`
}

// productEnvelope wraps a single product in requests and responses
type productEnvelope struct {
	Product shopProduct `json:"product"`
}

// productListEnvelope wraps a product list response
type productListEnvelope struct {
	Products []shopProduct `json:"products"`
}
