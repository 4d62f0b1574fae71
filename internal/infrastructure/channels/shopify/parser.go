package shopify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pim/backend/internal/application/importer"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/pim/backend/internal/infrastructure/channels"
	"github.com/shopspring/decimal"
)

// defaultOptionValue marks a product without real configurator axes; the
// platform gives every product at least one variant
const defaultOptionValue = "Default Title"

// Parser converts Shopify product documents into the structured import
// schema
type Parser struct {
	currency string
}

// NewParser creates a parser. The shop currency rides along on every price
// because the product document itself does not carry one.
func NewParser(currency string) *Parser {
	return &Parser{currency: currency}
}

// ParseProduct converts one raw product document
func (p *Parser) ParseProduct(raw []byte) (*importer.ProductData, *channels.MirrorMetadata, error) {
	var envelope productEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("shopify: invalid product payload: %w", err)
	}
	product := envelope.Product
	if product.Title == "" {
		// product documents may also arrive unwrapped
		if err := json.Unmarshal(raw, &product); err != nil || product.Title == "" {
			return nil, nil, shared.NewValidationError("title", "shopify product has no title")
		}
	}

	meta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: product.Title}
	data.Active = shared.Some(product.Status == statusActive)

	translation := importer.TranslationData{Name: product.Title}
	if product.BodyHTML != "" {
		translation.Description = shared.Some(product.BodyHTML)
	}
	data.Translations = []importer.TranslationData{translation}
	data.Images = p.parseImages(product.Images, meta)

	if p.isConfigurable(product) {
		data.Type = shared.Some(string(catalog.ProductTypeConfigurable))
		data.Attributes = p.parseOptions(product.Options)
		for _, v := range product.Variants {
			ref, err := p.parseVariant(&product, v, meta)
			if err != nil {
				return nil, nil, err
			}
			data.Variations = append(data.Variations, ref)
		}
	} else if len(product.Variants) > 0 {
		only := product.Variants[0]
		if only.SKU != "" {
			data.SKU = shared.Some(only.SKU)
		}
		data.Prices = p.parsePrices(only)
	}

	meta.ApplyTo(data)
	return data, meta, nil
}

// isConfigurable reports whether the product has real configurator axes
// rather than the platform's mandatory default variant
func (p *Parser) isConfigurable(product shopProduct) bool {
	if len(product.Variants) > 1 {
		return true
	}
	return len(product.Variants) == 1 && product.Variants[0].Option1 != "" && product.Variants[0].Option1 != defaultOptionValue
}

// parseOptions converts the configurator axes into multiselect properties
// carrying every offered value
func (p *Parser) parseOptions(options []productOption) []importer.AttributeData {
	attributes := make([]importer.AttributeData, 0, len(options))
	for _, option := range options {
		if option.Name == "" || len(option.Values) == 0 {
			continue
		}
		values := make([]interface{}, len(option.Values))
		for i, v := range option.Values {
			values[i] = v
		}
		attributes = append(attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: option.Name, Type: catalog.PropertyTypeMultiSelect}),
			Value:    values,
		})
	}
	return attributes
}

// parseVariant converts one variant into a variation carrying its option
// values as select attributes
func (p *Parser) parseVariant(product *shopProduct, v variant, meta *channels.MirrorMetadata) (importer.VariationRef, error) {
	if v.SKU == "" {
		return importer.VariationRef{}, shared.NewValidationError("sku", "shopify variant has no SKU")
	}

	data := &importer.ProductData{Name: product.Title}
	data.SKU = shared.Some(v.SKU)
	data.Type = shared.Some(string(catalog.ProductTypeSimple))
	data.Prices = p.parsePrices(v)

	for i, value := range []string{v.Option1, v.Option2, v.Option3} {
		if value == "" || value == defaultOptionValue || i >= len(product.Options) {
			continue
		}
		data.Attributes = append(data.Attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: product.Options[i].Name, Type: catalog.PropertyTypeSelect}),
			Value:    value,
		})
	}

	meta.VariationSKUToID[strings.ToUpper(v.SKU)] = strconv.FormatInt(v.ID, 10)
	return importer.VariationRef{SKU: shared.Some(v.SKU), Data: data}, nil
}

// parsePrices converts a variant's price pair, compare-at riding along as RRP
func (p *Parser) parsePrices(v variant) []importer.PriceData {
	entry := importer.PriceData{}
	if amount, err := decimal.NewFromString(v.Price); err == nil && v.Price != "" {
		entry.Price = shared.Some(amount)
	}
	if amount, err := decimal.NewFromString(v.CompareAtPrice); err == nil && v.CompareAtPrice != "" {
		entry.RRP = shared.Some(amount)
	}
	if !entry.Price.HasValue() && !entry.RRP.HasValue() {
		return nil
	}
	if p.currency != "" {
		entry.Currency = shared.Some(p.currency)
	}
	return []importer.PriceData{entry}
}

// parseImages converts the picture list, position 1 as main
func (p *Parser) parseImages(images []productImage, meta *channels.MirrorMetadata) []importer.ImageData {
	result := make([]importer.ImageData, 0, len(images))
	for i, image := range images {
		if image.Src == "" {
			continue
		}
		entry := importer.ImageData{
			ImageURL:    image.Src,
			IsMainImage: shared.Some(image.Position == 1),
			SortOrder:   shared.Some(image.Position),
		}
		if image.Alt != "" {
			entry.Title = shared.Some(image.Alt)
		}
		result = append(result, entry)
		if image.ID != 0 {
			meta.ImageIndexToRemoteID[i] = strconv.FormatInt(image.ID, 10)
		}
	}
	return result
}
