package magento

import "encoding/json"

// Wire types for the Magento 2 REST API, trimmed to the fields the parser
// and adapter touch.

// catalogProduct is one product row as /V1/products returns it
type catalogProduct struct {
	ID         int64             `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Price      json.Number       `json:"price"`
	Status     int               `json:"status"`
	TypeID     string            `json:"type_id"`
	Attributes []customAttribute `json:"custom_attributes"`
	Media      []mediaEntry      `json:"media_gallery_entries"`
	Children   []catalogProduct  `json:"children"`
}

// product status values as the platform encodes them
const (
	statusEnabled  = 1
	statusDisabled = 2
)

// product type ids as the platform encodes them
const (
	typeSimple       = "simple"
	typeConfigurable = "configurable"
)

// customAttribute is one EAV attribute value on a product. Select values
// arrive as option ids, multiselect as comma-joined option ids.
type customAttribute struct {
	Code  string      `json:"attribute_code"`
	Value interface{} `json:"value"`
}

// mediaEntry is one gallery image on a product
type mediaEntry struct {
	ID       int64    `json:"id"`
	File     string   `json:"file"`
	Label    string   `json:"label"`
	Position int      `json:"position"`
	Types    []string `json:"types"`
}

// AttributeMetadata is the attribute definition document from
// /V1/products/attributes. Option id to label mapping for select attributes
// comes from here.
type AttributeMetadata struct {
	AttributeID  int64             `json:"attribute_id"`
	Code         string            `json:"attribute_code"`
	Label        string            `json:"default_frontend_label"`
	FrontendType string            `json:"frontend_input"`
	Options      []AttributeOption `json:"options"`
}

// AttributeOption is one selectable value of a select attribute
type AttributeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// frontend input kinds the parser distinguishes
const (
	frontendSelect      = "select"
	frontendMultiselect = "multiselect"
	frontendText        = "text"
	frontendTextarea    = "textarea"
	frontendBoolean     = "boolean"
	frontendDate        = "date"
	frontendPrice       = "price"
)

// errorResponse is the platform's error envelope
type errorResponse struct {
	Message string `json:"message"`
}
