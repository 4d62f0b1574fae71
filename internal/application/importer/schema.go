package importer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FlexInt is an integer that decodes from either a JSON number or a numeric
// string, since channel payloads rarely agree on which one they send
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return shared.NewValidationError("int", "value is not an integer: "+s)
	}
	*f = FlexInt(n)
	return nil
}

// ProductData is the structured import schema for one product. Only Name is
// required; everything else is optional and absent fields are left untouched
// on re-import.
//
// The double-underscore keys are reserved for channel-internal round-tripping
// of remote identifiers; the generic import path never interprets them.
type ProductData struct {
	Name           string                     `json:"name"`
	SKU            shared.Optional[string]    `json:"sku"`
	Type           shared.Optional[string]    `json:"type"`
	Active         shared.Optional[bool]      `json:"active"`
	VatRate        shared.Optional[FlexInt]   `json:"vat_rate"`
	EanCode        shared.Optional[string]    `json:"ean_code"`
	AllowBackorder shared.Optional[bool]      `json:"allow_backorder"`
	ProductType    shared.Optional[string]    `json:"product_type"`
	RuleID         shared.Optional[uuid.UUID] `json:"rule_id"`

	Attributes               []AttributeData     `json:"attributes,omitempty"`
	Translations             []TranslationData   `json:"translations,omitempty"`
	Images                   []ImageData         `json:"images,omitempty"`
	Prices                   []PriceData         `json:"prices,omitempty"`
	Variations               []VariationRef      `json:"variations,omitempty"`
	ConfiguratorSelectValues []ConfiguratorValue `json:"configurator_select_values,omitempty"`

	MirrorPropertyMap    map[string]string `json:"__mirror_product_properties_map,omitempty"`
	ImageIndexToRemoteID map[string]string `json:"__image_index_to_remote_id,omitempty"`
	VariationSKUToID     map[string]string `json:"__variation_sku_to_id_map,omitempty"`
}

// PropertyData defines a property inline within an attribute payload
type PropertyData struct {
	Name string               `json:"name"`
	Type catalog.PropertyType `json:"type"`
}

// AttributeData is one attribute value of a product payload. The property is
// given either inline (PropertyData) or as a name reference to an existing one.
type AttributeData struct {
	Property     shared.Optional[PropertyData] `json:"property_data"`
	PropertyName shared.Optional[string]       `json:"property"`
	Value        interface{}                   `json:"value"`
	ValueIsID    bool                          `json:"value_is_id,omitempty"`
}

// TranslationData is one language-scoped text bundle
type TranslationData struct {
	Name             string                  `json:"name"`
	Language         shared.Optional[string] `json:"language"`
	ShortDescription shared.Optional[string] `json:"short_description"`
	Description      shared.Optional[string] `json:"description"`
	URLKey           shared.Optional[string] `json:"url_key"`
}

// ImageData is one image assignment of a product payload
type ImageData struct {
	ImageURL    string                  `json:"image_url"`
	Kind        shared.Optional[string] `json:"type"`
	Title       shared.Optional[string] `json:"title"`
	IsMainImage shared.Optional[bool]   `json:"is_main_image"`
	SortOrder   shared.Optional[int]    `json:"sort_order"`
}

// PriceData is one price of a product payload. At least one of Price and RRP
// must carry a value; see ResolvePriceAmounts for the normalization policy.
type PriceData struct {
	Price    shared.Optional[decimal.Decimal] `json:"price"`
	RRP      shared.Optional[decimal.Decimal] `json:"rrp"`
	Currency shared.Optional[string]          `json:"currency"`
}

// VariationRef points at one variation of a configurable payload
type VariationRef struct {
	SKU  shared.Optional[string] `json:"sku"`
	Data *ProductData            `json:"variation_data,omitempty"`
}

// BundleEntryData binds one child into a bundle payload. The quantity key
// accepts the alias "qty".
type BundleEntryData struct {
	SKU      string
	Quantity decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler, accepting qty as a quantity alias
func (b *BundleEntryData) UnmarshalJSON(data []byte) error {
	var raw struct {
		SKU      string                           `json:"sku"`
		Quantity shared.Optional[decimal.Decimal] `json:"quantity"`
		Qty      shared.Optional[decimal.Decimal] `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.SKU = raw.SKU
	if v, ok := raw.Quantity.Get(); ok {
		b.Quantity = v
	} else if v, ok := raw.Qty.Get(); ok {
		b.Quantity = v
	} else {
		b.Quantity = decimal.NewFromInt(1)
	}
	return nil
}

// ConfiguratorValue names one (property, select value) axis point used to
// generate configurator variations
type ConfiguratorValue struct {
	Property PropertyData `json:"property_data"`
	Value    string       `json:"value"`
}

// PriceListData is the structured import schema for one price list. Nil dates
// are part of the list identity, not wildcards.
type PriceListData struct {
	Name              string                  `json:"name"`
	Currency          shared.Optional[string] `json:"currency"`
	StartDate         shared.Optional[string] `json:"start_date"`
	EndDate           shared.Optional[string] `json:"end_date"`
	AutoUpdate        shared.Optional[bool]   `json:"auto_update"`
	DisableAutoUpdate bool                    `json:"disable_auto_update,omitempty"`
	Items             []PriceListItemData     `json:"items,omitempty"`
}

// PriceListItemData binds one product into a price list payload
type PriceListItemData struct {
	SKU              string                           `json:"sku"`
	PriceOverride    shared.Optional[decimal.Decimal] `json:"price_override"`
	DiscountOverride shared.Optional[decimal.Decimal] `json:"discount_override"`
}
