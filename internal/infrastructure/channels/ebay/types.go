package ebay

// Wire types for the eBay inventory API. Field sets are trimmed to what the
// parser and adapter actually touch.

// inventoryItem is one listing as eBay returns it
type inventoryItem struct {
	ItemID      string          `json:"itemId"`
	SKU         string          `json:"sku"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Description string          `json:"description"`
	Locale      string          `json:"locale"`
	Price       itemPrice       `json:"price"`
	Quantity    int             `json:"availableQuantity"`
	PictureURLs []string        `json:"pictureUrls"`
	Aspects     []itemAspect    `json:"localizedAspects"`
	Variations  []itemVariation `json:"variations"`
	GroupID     string          `json:"inventoryItemGroupKey"`
}

// itemPrice is a money amount with its currency
type itemPrice struct {
	Value       string `json:"value"`
	RetailValue string `json:"originalRetailPrice"`
	Currency    string `json:"currency"`
}

// itemAspect is one attribute value on a listing
type itemAspect struct {
	Name     string   `json:"name"`
	AspectID string   `json:"aspectId"`
	Values   []string `json:"values"`
}

// itemVariation is one SKU under a multi-variation listing
type itemVariation struct {
	SKU     string       `json:"sku"`
	ItemID  string       `json:"itemId"`
	Price   itemPrice    `json:"price"`
	Aspects []itemAspect `json:"variationAspects"`
	Images  []string     `json:"pictureUrls"`
}

// Aspect is the constraint metadata eBay publishes for one category
// attribute. The parser's type inference runs off this document.
type Aspect struct {
	Name          string   `json:"localizedAspectName"`
	AspectID      string   `json:"aspectId"`
	Mode          string   `json:"aspectMode"`
	DataType      string   `json:"aspectDataType"`
	Format        string   `json:"aspectFormat"`
	Cardinality   string   `json:"itemToAspectCardinality"`
	MaxLength     int      `json:"aspectMaxLength"`
	AllowedValues []string `json:"aspectValues"`
}

// Aspect constraint vocabulary as the platform sends it
const (
	aspectModeFreeText      = "FREE_TEXT"
	aspectModeSelectionOnly = "SELECTION_ONLY"

	aspectDataTypeString = "STRING"
	aspectDataTypeNumber = "NUMBER"
	aspectDataTypeDate   = "DATE"

	aspectCardinalitySingle = "SINGLE"
	aspectCardinalityMulti  = "MULTI"
)

// createItemResponse is the platform's answer to a listing create
type createItemResponse struct {
	ItemID   string      `json:"itemId"`
	Warnings []itemError `json:"warnings"`
	Errors   []itemError `json:"errors"`
}

// itemError is one error entry in a platform response
type itemError struct {
	ErrorID int    `json:"errorId"`
	Message string `json:"message"`
}

// duplicateListingErrorID is the platform code for an SKU that already has
// a listing
const duplicateListingErrorID = 25002
