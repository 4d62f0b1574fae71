package shein

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

// Parser converts Shein SPU documents into the structured import schema. A
// SPU with more than one SKU becomes a configurable product; its SKUs become
// variations keyed by their sizing attribute.
type Parser struct{}

// NewParser creates a parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseProduct converts one raw SPU document, unwrapping the response
// envelope when present
func (p *Parser) ParseProduct(raw []byte) (*importer.ProductData, *channels.MirrorMetadata, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Info) > 0 {
		raw = env.Info
	}

	var spu spuProduct
	if err := json.Unmarshal(raw, &spu); err != nil {
		return nil, nil, fmt.Errorf("shein: invalid product payload: %w", err)
	}
	if spu.SPUName == "" {
		return nil, nil, shared.NewValidationError("spuName", "shein product has no name")
	}

	meta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: spu.SPUName}
	data.Active = shared.Some(spu.OnSale == onSaleYes)

	translation := importer.TranslationData{Name: spu.SPUName}
	if spu.Description != "" {
		translation.Description = shared.Some(spu.Description)
	}
	data.Translations = []importer.TranslationData{translation}
	data.Images = p.parseImages(spu.Images, meta)
	data.Attributes = p.parseAttributes(spu.Attributes, meta)

	if len(spu.SKUs) > 1 {
		data.Type = shared.Some(string(catalog.ProductTypeConfigurable))
		for _, sku := range spu.SKUs {
			ref, err := p.parseSKU(&spu, sku, meta)
			if err != nil {
				return nil, nil, err
			}
			data.Variations = append(data.Variations, ref)
		}
	} else if len(spu.SKUs) == 1 {
		only := spu.SKUs[0]
		if only.SKUCode != "" {
			data.SKU = shared.Some(only.SKUCode)
		}
		data.Prices = p.parsePrices(only, spu.Currency)
	}

	meta.ApplyTo(data)
	return data, meta, nil
}

func (p *Parser) parseAttributes(attrs []spuAttr, meta *channels.MirrorMetadata) []importer.AttributeData {
	attributes := make([]importer.AttributeData, 0, len(attrs))
	for _, attr := range attrs {
		if attr.AttrName == "" || attr.AttrValue == "" {
			continue
		}
		attributes = append(attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: attr.AttrName, Type: catalog.PropertyTypeText}),
			Value:    attr.AttrValue,
		})
		if attr.AttrID != 0 {
			meta.PropertyToRemoteID[attr.AttrName] = strconv.FormatInt(attr.AttrID, 10)
		}
	}
	return attributes
}

func (p *Parser) parseImages(images []spuImage, meta *channels.MirrorMetadata) []importer.ImageData {
	result := make([]importer.ImageData, 0, len(images))
	for i, image := range images {
		if image.URL == "" {
			continue
		}
		result = append(result, importer.ImageData{
			ImageURL:    image.URL,
			IsMainImage: shared.Some(image.Type == imageTypeMain),
			SortOrder:   shared.Some(image.Sort),
		})
		meta.ImageIndexToRemoteID[i] = image.URL
	}
	return result
}

func (p *Parser) parsePrices(sku skuRecord, currency string) []importer.PriceData {
	entry := importer.PriceData{}
	if amount, err := decimal.NewFromString(sku.Price.String()); err == nil && sku.Price != "" {
		entry.Price = shared.Some(amount)
	}
	if amount, err := decimal.NewFromString(sku.RRP.String()); err == nil && sku.RRP != "" {
		entry.RRP = shared.Some(amount)
	}
	if !entry.Price.HasValue() && !entry.RRP.HasValue() {
		return nil
	}
	if currency != "" {
		entry.Currency = shared.Some(currency)
	}
	return []importer.PriceData{entry}
}

func (p *Parser) parseSKU(spu *spuProduct, sku skuRecord, meta *channels.MirrorMetadata) (importer.VariationRef, error) {
	if sku.SKUCode == "" {
		return importer.VariationRef{}, shared.NewValidationError("skuCode", "shein SKU record has no code")
	}

	data := &importer.ProductData{Name: spu.SPUName}
	data.SKU = shared.Some(sku.SKUCode)
	data.Type = shared.Some(string(catalog.ProductTypeSimple))
	data.Prices = p.parsePrices(sku, spu.Currency)

	if sku.AttrName != "" && sku.AttrValue != "" {
		data.Attributes = []importer.AttributeData{{
			Property: shared.Some(importer.PropertyData{Name: sku.AttrName, Type: catalog.PropertyTypeSelect}),
			Value:    sku.AttrValue,
		}}
	}

	if sku.SKUID != 0 {
		meta.VariationSKUToID[strings.ToUpper(sku.SKUCode)] = strconv.FormatInt(sku.SKUID, 10)
	}
	return importer.VariationRef{SKU: shared.Some(sku.SKUCode), Data: data}, nil
}
