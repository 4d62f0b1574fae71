package woocommerce

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

// Parser converts WooCommerce product documents into the structured import
// schema. Variations are a separate resource on the platform; the document
// handed in carries them pre-fetched under product_variations.
type Parser struct {
	currency string
}

// NewParser creates a parser. The store currency rides along on every price
// because the product document itself does not carry one.
func NewParser(currency string) *Parser {
	return &Parser{currency: currency}
}

// ParseProduct converts one raw product document
func (p *Parser) ParseProduct(raw []byte) (*importer.ProductData, *channels.MirrorMetadata, error) {
	var product storeProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, nil, fmt.Errorf("woocommerce: invalid product payload: %w", err)
	}
	if product.Name == "" {
		return nil, nil, shared.NewValidationError("name", "woocommerce product has no name")
	}

	meta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: product.Name}
	if product.SKU != "" {
		data.SKU = shared.Some(product.SKU)
	}
	data.Active = shared.Some(product.Status == statusPublish)
	if product.Type == typeVariable {
		data.Type = shared.Some(string(catalog.ProductTypeConfigurable))
	}

	translation := importer.TranslationData{Name: product.Name}
	if product.Description != "" {
		translation.Description = shared.Some(product.Description)
	}
	if product.ShortDescription != "" {
		translation.ShortDescription = shared.Some(product.ShortDescription)
	}
	if product.Slug != "" {
		translation.URLKey = shared.Some(product.Slug)
	}
	data.Translations = []importer.TranslationData{translation}

	data.Attributes = p.parseAttributes(product.Attributes, meta)
	data.Images = p.parseImages(product.Images, meta)
	data.Prices = p.parsePrices(product.RegularPrice, product.SalePrice)

	for _, v := range product.Variations {
		ref, err := p.parseVariation(&product, v, meta)
		if err != nil {
			return nil, nil, err
		}
		data.Variations = append(data.Variations, ref)
	}

	meta.ApplyTo(data)
	return data, meta, nil
}

// parseAttributes converts attribute documents. Multi-option documents
// become multiselect values, single-option ones plain text.
func (p *Parser) parseAttributes(attrs []storeAttribute, meta *channels.MirrorMetadata) []importer.AttributeData {
	attributes := make([]importer.AttributeData, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Name == "" {
			continue
		}

		var value interface{}
		var propertyType catalog.PropertyType
		switch {
		case attr.Option != "":
			propertyType = catalog.PropertyTypeSelect
			value = attr.Option
		case len(attr.Options) > 1 || attr.Variation:
			propertyType = catalog.PropertyTypeMultiSelect
			options := make([]interface{}, len(attr.Options))
			for i, o := range attr.Options {
				options[i] = o
			}
			value = options
		case len(attr.Options) == 1:
			propertyType = catalog.PropertyTypeText
			value = attr.Options[0]
		default:
			continue
		}

		attributes = append(attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: attr.Name, Type: propertyType}),
			Value:    value,
		})
		if attr.ID != 0 {
			meta.PropertyToRemoteID[attr.Name] = strconv.FormatInt(attr.ID, 10)
		}
	}
	return attributes
}

// parseImages converts the picture list, the first entry as main
func (p *Parser) parseImages(images []storeImage, meta *channels.MirrorMetadata) []importer.ImageData {
	result := make([]importer.ImageData, 0, len(images))
	for i, image := range images {
		if image.Src == "" {
			continue
		}
		entry := importer.ImageData{
			ImageURL:    image.Src,
			IsMainImage: shared.Some(i == 0),
			SortOrder:   shared.Some(i),
		}
		if image.Name != "" {
			entry.Title = shared.Some(image.Name)
		}
		result = append(result, entry)
		if image.ID != 0 {
			meta.ImageIndexToRemoteID[i] = strconv.FormatInt(image.ID, 10)
		}
	}
	return result
}

// parsePrices converts the price pair, the regular price riding along as RRP
// when a sale price undercuts it
func (p *Parser) parsePrices(regular, sale string) []importer.PriceData {
	entry := importer.PriceData{}
	regularAmount, regularErr := decimal.NewFromString(regular)
	saleAmount, saleErr := decimal.NewFromString(sale)

	switch {
	case saleErr == nil && sale != "" && regularErr == nil && regular != "":
		entry.Price = shared.Some(saleAmount)
		entry.RRP = shared.Some(regularAmount)
	case regularErr == nil && regular != "":
		entry.Price = shared.Some(regularAmount)
	case saleErr == nil && sale != "":
		entry.Price = shared.Some(saleAmount)
	default:
		return nil
	}
	if p.currency != "" {
		entry.Currency = shared.Some(p.currency)
	}
	return []importer.PriceData{entry}
}

// parseVariation converts one pre-fetched variation document
func (p *Parser) parseVariation(parent *storeProduct, v storeProduct, meta *channels.MirrorMetadata) (importer.VariationRef, error) {
	if v.SKU == "" {
		return importer.VariationRef{}, shared.NewValidationError("sku", "woocommerce variation has no SKU")
	}

	varMeta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: parent.Name}
	data.SKU = shared.Some(v.SKU)
	data.Type = shared.Some(string(catalog.ProductTypeSimple))
	data.Prices = p.parsePrices(v.RegularPrice, v.SalePrice)
	data.Images = p.parseImages(v.Images, varMeta)
	data.Attributes = p.parseAttributes(v.Attributes, varMeta)
	varMeta.ApplyTo(data)

	if v.ID != 0 {
		meta.VariationSKUToID[strings.ToUpper(v.SKU)] = strconv.FormatInt(v.ID, 10)
	}
	return importer.VariationRef{SKU: shared.Some(v.SKU), Data: data}, nil
}
