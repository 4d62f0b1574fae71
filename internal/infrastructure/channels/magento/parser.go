package magento

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

// text attribute codes that feed the translation bundle instead of becoming
// product properties
const (
	attrDescription      = "description"
	attrShortDescription = "short_description"
	attrURLKey           = "url_key"
)

// Parser converts Magento catalog products into the structured import
// schema. Select and multiselect values arrive as option ids and are mapped
// back to labels through the attribute metadata documents; an id with no
// known label either fails the product or, in skip mode, is recorded as a
// broken record and left out.
type Parser struct {
	attributes   map[string]AttributeMetadata
	optionLabels map[string]map[string]string
	mediaBaseURL string
	skipBroken   bool
	broken       *importer.ErrorCollection
}

// NewParser creates a parser over the store's attribute metadata. With
// skipBroken set, products with unmapped select values are imported without
// those values and the misses are collected instead of failing the batch.
func NewParser(attributes []AttributeMetadata, mediaBaseURL string, skipBroken bool) *Parser {
	byCode := make(map[string]AttributeMetadata, len(attributes))
	labels := make(map[string]map[string]string, len(attributes))
	for _, attr := range attributes {
		byCode[attr.Code] = attr
		if len(attr.Options) > 0 {
			byValue := make(map[string]string, len(attr.Options))
			for _, opt := range attr.Options {
				if opt.Value != "" {
					byValue[opt.Value] = opt.Label
				}
			}
			labels[attr.Code] = byValue
		}
	}
	return &Parser{
		attributes:   byCode,
		optionLabels: labels,
		mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		skipBroken:   skipBroken,
		broken:       importer.NewErrorCollection(0),
	}
}

// BrokenRecords returns the records collected while skipping
func (p *Parser) BrokenRecords() *importer.ErrorCollection {
	return p.broken
}

// ParseBatch converts a product list response. In skip mode a product that
// cannot be parsed is recorded and the batch continues without it.
func (p *Parser) ParseBatch(raw []byte) ([]*importer.ProductData, []*channels.MirrorMetadata, error) {
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, nil, fmt.Errorf("magento: invalid product list payload: %w", err)
	}

	products := make([]*importer.ProductData, 0, len(list.Items))
	metas := make([]*channels.MirrorMetadata, 0, len(list.Items))
	for i, item := range list.Items {
		data, meta, err := p.parseOne(item, i)
		if err != nil {
			if p.skipBroken {
				p.broken.Add(importer.BrokenRecord{Index: i, SKU: skuOf(item), Reason: err.Error(), Data: item})
				continue
			}
			return nil, nil, err
		}
		products = append(products, data)
		metas = append(metas, meta)
	}
	return products, metas, nil
}

// ParseProduct converts one raw product document
func (p *Parser) ParseProduct(raw []byte) (*importer.ProductData, *channels.MirrorMetadata, error) {
	return p.parseOne(raw, 0)
}

func (p *Parser) parseOne(raw []byte, index int) (*importer.ProductData, *channels.MirrorMetadata, error) {
	var product catalogProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, nil, fmt.Errorf("magento: invalid product payload: %w", err)
	}
	if product.Name == "" {
		return nil, nil, shared.NewValidationError("name", "magento product has no name")
	}

	meta := channels.NewMirrorMetadata()
	data := &importer.ProductData{Name: product.Name}
	if product.SKU != "" {
		data.SKU = shared.Some(product.SKU)
	}
	data.Active = shared.Some(product.Status == statusEnabled)
	if product.TypeID == typeConfigurable {
		data.Type = shared.Some(string(catalog.ProductTypeConfigurable))
	}

	translation := importer.TranslationData{Name: product.Name}
	attributes, err := p.parseAttributes(&product, &translation, meta, index)
	if err != nil {
		return nil, nil, err
	}
	data.Attributes = attributes
	data.Translations = []importer.TranslationData{translation}
	data.Images = p.parseImages(product.Media, meta)
	data.Prices = p.parsePrice(product.Price)

	for _, child := range product.Children {
		ref, err := p.parseChild(child, meta, index)
		if err != nil {
			return nil, nil, err
		}
		data.Variations = append(data.Variations, ref)
	}

	meta.ApplyTo(data)
	return data, meta, nil
}

// parseAttributes walks the EAV values, routing the well-known text codes
// into the translation bundle and the rest into typed attribute entries
func (p *Parser) parseAttributes(product *catalogProduct, translation *importer.TranslationData, meta *channels.MirrorMetadata, index int) ([]importer.AttributeData, error) {
	attributes := make([]importer.AttributeData, 0, len(product.Attributes))
	for _, attr := range product.Attributes {
		text := stringValue(attr.Value)
		switch attr.Code {
		case attrDescription:
			if text != "" {
				translation.Description = shared.Some(text)
			}
			continue
		case attrShortDescription:
			if text != "" {
				translation.ShortDescription = shared.Some(text)
			}
			continue
		case attrURLKey:
			if text != "" {
				translation.URLKey = shared.Some(text)
			}
			continue
		}
		if text == "" {
			continue
		}

		definition, known := p.attributes[attr.Code]
		if !known {
			attributes = append(attributes, importer.AttributeData{
				Property: shared.Some(importer.PropertyData{Name: attr.Code, Type: catalog.PropertyTypeText}),
				Value:    text,
			})
			continue
		}

		propertyType := propertyTypeFor(definition.FrontendType)
		value, err := p.resolveValue(product, definition, text, index)
		if err != nil {
			if !p.skipBroken {
				return nil, err
			}
			continue
		}

		name := definition.Label
		if name == "" {
			name = definition.Code
		}
		attributes = append(attributes, importer.AttributeData{
			Property: shared.Some(importer.PropertyData{Name: name, Type: propertyType}),
			Value:    value,
		})
		if definition.AttributeID != 0 {
			meta.PropertyToRemoteID[name] = strconv.FormatInt(definition.AttributeID, 10)
		}
	}
	return attributes, nil
}

// resolveValue maps option ids back to labels for select-like attributes and
// passes everything else through. A select id with no label is the broken
// record case.
func (p *Parser) resolveValue(product *catalogProduct, definition AttributeMetadata, text string, index int) (interface{}, error) {
	switch definition.FrontendType {
	case frontendSelect:
		label, err := p.optionLabel(definition, text)
		if err != nil {
			p.registerMissingSelectValue(product, definition, text, index)
			return nil, err
		}
		return label, nil
	case frontendMultiselect:
		ids := strings.Split(text, ",")
		labels := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			label, err := p.optionLabel(definition, id)
			if err != nil {
				p.registerMissingSelectValue(product, definition, id, index)
				return nil, err
			}
			labels = append(labels, label)
		}
		return labels, nil
	default:
		return text, nil
	}
}

func (p *Parser) optionLabel(definition AttributeMetadata, optionID string) (string, error) {
	if label, ok := p.optionLabels[definition.Code][optionID]; ok && label != "" {
		return label, nil
	}
	return "", fmt.Errorf("magento: attribute %q has no option with id %q", definition.Code, optionID)
}

func (p *Parser) registerMissingSelectValue(product *catalogProduct, definition AttributeMetadata, optionID string, index int) {
	if !p.skipBroken {
		return
	}
	p.broken.Add(importer.BrokenRecord{
		Index:  index,
		SKU:    product.SKU,
		Reason: fmt.Sprintf("missing select value: attribute %q option %q", definition.Code, optionID),
	})
}

// parseImages converts the media gallery, the "image" role marking the main
// picture
func (p *Parser) parseImages(entries []mediaEntry, meta *channels.MirrorMetadata) []importer.ImageData {
	images := make([]importer.ImageData, 0, len(entries))
	for i, entry := range entries {
		if entry.File == "" {
			continue
		}
		image := importer.ImageData{
			ImageURL:    p.mediaBaseURL + "/" + strings.TrimLeft(entry.File, "/"),
			IsMainImage: shared.Some(hasType(entry.Types, "image")),
			SortOrder:   shared.Some(entry.Position),
		}
		if entry.Label != "" {
			image.Title = shared.Some(entry.Label)
		}
		images = append(images, image)
		if entry.ID != 0 {
			meta.ImageIndexToRemoteID[i] = strconv.FormatInt(entry.ID, 10)
		}
	}
	return images
}

// parsePrice converts the base price. Magento prices carry no currency; the
// import path falls back to the tenant default.
func (p *Parser) parsePrice(price json.Number) []importer.PriceData {
	if price == "" {
		return nil
	}
	amount, err := decimal.NewFromString(price.String())
	if err != nil {
		return nil
	}
	return []importer.PriceData{{Price: shared.Some(amount)}}
}

// parseChild converts one configurable child into a variation reference
func (p *Parser) parseChild(child catalogProduct, meta *channels.MirrorMetadata, index int) (importer.VariationRef, error) {
	if child.SKU == "" {
		return importer.VariationRef{}, shared.NewValidationError("sku", "magento configurable child has no SKU")
	}

	raw, err := json.Marshal(child)
	if err != nil {
		return importer.VariationRef{}, err
	}
	data, _, err := p.parseOne(raw, index)
	if err != nil {
		return importer.VariationRef{}, err
	}
	data.Type = shared.Some(string(catalog.ProductTypeSimple))

	if child.ID != 0 {
		meta.VariationSKUToID[strings.ToUpper(child.SKU)] = strconv.FormatInt(child.ID, 10)
	}
	return importer.VariationRef{SKU: shared.Some(child.SKU), Data: data}, nil
}

// propertyTypeFor maps the platform's frontend input kinds onto property types
func propertyTypeFor(frontendType string) catalog.PropertyType {
	switch frontendType {
	case frontendSelect:
		return catalog.PropertyTypeSelect
	case frontendMultiselect:
		return catalog.PropertyTypeMultiSelect
	case frontendTextarea:
		return catalog.PropertyTypeDescription
	case frontendBoolean:
		return catalog.PropertyTypeBoolean
	case frontendDate:
		return catalog.PropertyTypeDate
	case frontendPrice:
		return catalog.PropertyTypeFloat
	default:
		return catalog.PropertyTypeText
	}
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func hasType(types []string, wanted string) bool {
	for _, t := range types {
		if t == wanted {
			return true
		}
	}
	return false
}

func skuOf(raw json.RawMessage) string {
	var probe struct {
		SKU string `json:"sku"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.SKU
}
