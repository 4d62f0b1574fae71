package ebay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pim/backend/internal/application/importer"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/pim/backend/internal/infrastructure/channels"
	"github.com/shopspring/decimal"
)

// Parser converts raw eBay listing payloads into the structured import
// schema. Aspect constraint metadata, when available, drives the property
// type inference; aspects without constraints fall back to TEXT.
type Parser struct {
	aspects map[string]Aspect
}

// NewParser creates a parser over a category's aspect constraint set
func NewParser(aspects []Aspect) *Parser {
	byName := make(map[string]Aspect, len(aspects))
	for _, a := range aspects {
		byName[a.Name] = a
	}
	return &Parser{aspects: byName}
}

// ParseProduct converts one raw listing into the structured schema plus the
// remote-id side channel
func (p *Parser) ParseProduct(raw []byte) (*importer.ProductData, *channels.MirrorMetadata, error) {
	var item inventoryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, nil, fmt.Errorf("ebay: invalid listing payload: %w", err)
	}
	if item.Title == "" {
		return nil, nil, shared.NewValidationError("title", "eBay listing has no title")
	}

	meta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: item.Title}
	if item.SKU != "" {
		data.SKU = shared.Some(item.SKU)
	}
	if len(item.Variations) > 0 {
		data.Type = shared.Some(string(catalog.ProductTypeConfigurable))
	}

	data.Translations = p.parseTranslations(&item)
	data.Images = p.parseImages(item.PictureURLs, meta)
	data.Prices = p.parsePrices(item.Price)
	data.Attributes = p.parseAttributes(item.Aspects, meta)

	for _, variation := range item.Variations {
		ref, err := p.parseVariation(&item, variation, meta)
		if err != nil {
			return nil, nil, err
		}
		data.Variations = append(data.Variations, ref)
	}

	meta.ApplyTo(data)
	return data, meta, nil
}

// parseTranslations builds the language bundle from the listing texts
func (p *Parser) parseTranslations(item *inventoryItem) []importer.TranslationData {
	translation := importer.TranslationData{Name: item.Title}
	if lang := localeLanguage(item.Locale); lang != "" {
		translation.Language = shared.Some(lang)
	}
	if item.Subtitle != "" {
		translation.ShortDescription = shared.Some(item.Subtitle)
	}
	if item.Description != "" {
		translation.Description = shared.Some(item.Description)
	}
	return []importer.TranslationData{translation}
}

// parseImages maps picture URLs onto image entries, first picture as main
func (p *Parser) parseImages(urls []string, meta *channels.MirrorMetadata) []importer.ImageData {
	images := make([]importer.ImageData, 0, len(urls))
	for i, pictureURL := range urls {
		if pictureURL == "" {
			continue
		}
		images = append(images, importer.ImageData{
			ImageURL:    pictureURL,
			IsMainImage: shared.Some(i == 0),
			SortOrder:   shared.Some(i),
		})
		// eBay addresses pictures by URL, which doubles as the remote id
		meta.ImageIndexToRemoteID[i] = pictureURL
	}
	return images
}

// parsePrices converts the listing price block. The retail price, when
// present, rides along as RRP and the import path orders the pair.
func (p *Parser) parsePrices(price itemPrice) []importer.PriceData {
	if price.Value == "" && price.RetailValue == "" {
		return nil
	}
	entry := importer.PriceData{}
	if amount, err := decimal.NewFromString(price.Value); err == nil && price.Value != "" {
		entry.Price = shared.Some(amount)
	}
	if amount, err := decimal.NewFromString(price.RetailValue); err == nil && price.RetailValue != "" {
		entry.RRP = shared.Some(amount)
	}
	if price.Currency != "" {
		entry.Currency = shared.Some(price.Currency)
	}
	if !entry.Price.HasValue() && !entry.RRP.HasValue() {
		return nil
	}
	return []importer.PriceData{entry}
}

// parseAttributes converts listing aspects into attribute entries, inferring
// each property's type from the category constraint metadata
func (p *Parser) parseAttributes(aspects []itemAspect, meta *channels.MirrorMetadata) []importer.AttributeData {
	attributes := make([]importer.AttributeData, 0, len(aspects))
	for _, aspect := range aspects {
		if aspect.Name == "" || len(aspect.Values) == 0 {
			continue
		}

		propertyType := catalog.PropertyTypeText
		if constraint, ok := p.aspects[aspect.Name]; ok {
			propertyType = InferPropertyType(constraint)
		} else if len(aspect.Values) > 1 {
			propertyType = catalog.PropertyTypeMultiSelect
		}

		var value interface{}
		if propertyType == catalog.PropertyTypeMultiSelect {
			values := make([]interface{}, len(aspect.Values))
			for i, v := range aspect.Values {
				values[i] = v
			}
			value = values
		} else {
			value = aspect.Values[0]
		}

		attributes = append(attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: aspect.Name, Type: propertyType}),
			Value:    value,
		})

		if aspect.AspectID != "" {
			meta.PropertyToRemoteID[aspect.Name] = aspect.AspectID
		}
	}
	return attributes
}

// parseVariation converts one variation SKU under a multi-variation listing
func (p *Parser) parseVariation(parent *inventoryItem, variation itemVariation, meta *channels.MirrorMetadata) (importer.VariationRef, error) {
	if variation.SKU == "" {
		return importer.VariationRef{}, shared.NewValidationError("sku", "eBay variation has no SKU")
	}

	varMeta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: parent.Title}
	data.SKU = shared.Some(variation.SKU)
	data.Type = shared.Some(string(catalog.ProductTypeSimple))
	data.Prices = p.parsePrices(variation.Price)
	data.Images = p.parseImages(variation.Images, varMeta)
	data.Attributes = p.parseAttributes(variation.Aspects, varMeta)
	varMeta.ApplyTo(data)

	if variation.ItemID != "" {
		meta.VariationSKUToID[strings.ToUpper(variation.SKU)] = variation.ItemID
	}

	return importer.VariationRef{
		SKU:  shared.Some(variation.SKU),
		Data: data,
	}, nil
}

// localeLanguage extracts the language part of an eBay locale ("en_US" -> "en")
func localeLanguage(locale string) string {
	if locale == "" {
		return ""
	}
	parts := strings.SplitN(locale, "_", 2)
	return strings.ToLower(parts[0])
}
