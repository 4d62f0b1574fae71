package shein

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels"
)

// Adapter implements the channel port against the Shein Open API. The
// platform is POST-only; operation and identifiers ride in the request body
// and outcomes in the code field of the response envelope.
type Adapter struct {
	client *channels.Client
}

// NewAdapter creates a Shein adapter
func NewAdapter() *Adapter {
	return &Adapter{client: channels.NewClient(30 * time.Second)}
}

// Code identifies the channel kind this adapter serves
func (a *Adapter) Code() integration.ChannelCode {
	return integration.ChannelCodeShein
}

// CreateProduct publishes the product. The platform reports a taken SKU with
// its duplicate code, which comes back as AlreadyExists.
func (a *Adapter) CreateProduct(ctx context.Context, channel *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return integration.CreateResult{}, err
	}

	env, err := a.call(ctx, channel, cfg, "/open-api/goods/product/publish", a.wireProduct(payload))
	if err != nil {
		return integration.CreateResult{}, err
	}
	if env.Code == codeDuplicate {
		existing, fetchErr := a.FetchProduct(ctx, channel, payload.SKU)
		if fetchErr == nil {
			return integration.CreateResult{RemoteID: existing.RemoteID, AlreadyExists: true}, nil
		}
		return integration.CreateResult{AlreadyExists: true}, nil
	}
	if env.Code != codeOK {
		return integration.CreateResult{}, fmt.Errorf("%w: publish failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}

	var info struct {
		ProductCode string `json:"productCode"`
	}
	if err := json.Unmarshal(env.Info, &info); err != nil || info.ProductCode == "" {
		return integration.CreateResult{}, fmt.Errorf("%w: publish response carries no productCode", integration.ErrChannelInvalidResponse)
	}
	return integration.CreateResult{RemoteID: info.ProductCode}, nil
}

// UpdateProduct pushes the full payload onto an existing product
func (a *Adapter) UpdateProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	body := a.wireProduct(payload)
	body["productCode"] = remoteID
	env, err := a.call(ctx, channel, cfg, "/open-api/goods/product/update", body)
	if err != nil {
		return err
	}
	if env.Code == codeNotFound {
		return integration.ErrRemoteProductNotFound
	}
	if env.Code != codeOK {
		return fmt.Errorf("%w: update failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}
	return nil
}

// DeleteProduct takes the product off sale and removes it
func (a *Adapter) DeleteProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	env, err := a.call(ctx, channel, cfg, "/open-api/goods/product/delete", map[string]interface{}{"productCode": remoteID})
	if err != nil {
		return err
	}
	if env.Code != codeOK && env.Code != codeNotFound {
		return fmt.Errorf("%w: delete failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}
	return nil
}

// FetchProduct pulls the current product state by SKU code
func (a *Adapter) FetchProduct(ctx context.Context, channel *integration.SalesChannel, sku string) (*integration.RemoteProductState, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return nil, err
	}

	env, err := a.call(ctx, channel, cfg, "/open-api/goods/product/query", map[string]interface{}{"skuCode": sku})
	if err != nil {
		return nil, err
	}
	if env.Code == codeNotFound || len(env.Info) == 0 {
		return nil, integration.ErrRemoteProductNotFound
	}
	if env.Code != codeOK {
		return nil, fmt.Errorf("%w: query failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}

	var spu spuProduct
	if err := json.Unmarshal(env.Info, &spu); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrChannelInvalidResponse, err)
	}
	if spu.ProductCode == "" {
		return nil, integration.ErrRemoteProductNotFound
	}

	state := &integration.RemoteProductState{
		RemoteID:   spu.ProductCode,
		SKU:        sku,
		Name:       spu.SPUName,
		Active:     spu.OnSale == onSaleYes,
		Properties: make(map[string]string, len(spu.Attributes)),
		ImageIDs:   make([]string, 0, len(spu.Images)),
	}
	for _, attr := range spu.Attributes {
		if attr.AttrValue != "" {
			state.Properties[attr.AttrName] = attr.AttrValue
		}
	}
	for _, image := range spu.Images {
		if image.URL != "" {
			state.ImageIDs = append(state.ImageIDs, image.URL)
		}
	}
	return state, nil
}

// EnsureProperty registers the attribute and returns its id. The platform
// keys attributes by name, so the name stands in when no id comes back.
func (a *Adapter) EnsureProperty(ctx context.Context, channel *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	env, err := a.call(ctx, channel, cfg, "/open-api/goods/attribute/save", map[string]interface{}{"attributeName": payload.Name})
	if err != nil {
		return "", err
	}
	if env.Code != codeOK && env.Code != codeDuplicate {
		return "", fmt.Errorf("%w: attribute save failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}

	var info struct {
		AttributeID json.Number `json:"attributeId"`
	}
	if err := json.Unmarshal(env.Info, &info); err == nil && info.AttributeID != "" {
		return info.AttributeID.String(), nil
	}
	return payload.Name, nil
}

// AssignImage attaches a picture URL, which doubles as the remote image id
func (a *Adapter) AssignImage(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	imageType := 0
	if payload.IsMainImage {
		imageType = imageTypeMain
	}
	env, err := a.call(ctx, channel, cfg, "/open-api/goods/image/save", map[string]interface{}{
		"productCode": remoteID,
		"imageUrl":    payload.SourceURL,
		"imageType":   imageType,
		"imageSort":   payload.SortOrder,
	})
	if err != nil {
		return "", err
	}
	if env.Code != codeOK {
		return "", fmt.Errorf("%w: image save failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}
	return payload.SourceURL, nil
}

// RemoveImage detaches a picture from the product
func (a *Adapter) RemoveImage(ctx context.Context, channel *integration.SalesChannel, remoteID, remoteImageID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	env, err := a.call(ctx, channel, cfg, "/open-api/goods/image/delete", map[string]interface{}{
		"productCode": remoteID,
		"imageUrl":    remoteImageID,
	})
	if err != nil {
		return err
	}
	if env.Code != codeOK && env.Code != codeNotFound {
		return fmt.Errorf("%w: image delete failed with code %s: %s", integration.ErrChannelRequestFailed, env.Code, env.Msg)
	}
	return nil
}

// call sends one signed POST and decodes the response envelope
func (a *Adapter) call(ctx context.Context, channel *integration.SalesChannel, cfg *Config, path string, body interface{}) (*envelope, error) {
	var env envelope
	status, err := a.client.DoJSON(ctx, http.MethodPost, "https://"+channel.Hostname+path, signedHeaders(cfg), body, &env)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", integration.ErrChannelRequestFailed, path, status)
	}
	return &env, nil
}

// wireProduct translates the channel-neutral payload into the platform shape
func (a *Adapter) wireProduct(payload integration.ProductPayload) map[string]interface{} {
	onSale := onSaleNo
	if payload.Active {
		onSale = onSaleYes
	}

	attrs := make([]map[string]interface{}, 0, len(payload.Properties))
	for _, property := range payload.Properties {
		value := property.Value
		if len(property.Values) > 0 {
			value = property.Values[0]
		}
		attrs = append(attrs, map[string]interface{}{
			"attributeName":  property.Name,
			"attributeValue": value,
		})
	}

	images := make([]map[string]interface{}, 0, len(payload.Images))
	for _, image := range payload.Images {
		imageType := 0
		if image.IsMainImage {
			imageType = imageTypeMain
		}
		images = append(images, map[string]interface{}{
			"imageUrl":  image.SourceURL,
			"imageType": imageType,
			"imageSort": image.SortOrder,
		})
	}

	skus := make([]map[string]interface{}, 0, len(payload.Variations)+1)
	if len(payload.Variations) > 0 {
		for _, v := range payload.Variations {
			skus = append(skus, wireSKU(v.SKU, v.Price, v.EAN))
		}
	} else {
		skus = append(skus, wireSKU(payload.SKU, payload.Price, payload.EAN))
	}

	body := map[string]interface{}{
		"spuName":            payload.Name,
		"productDescription": payload.Description,
		"currency":           payload.Currency,
		"onSaleStatus":       onSale,
		"attributeList":      attrs,
		"imageList":          images,
		"skuList":            skus,
	}
	if len(payload.Contents) > 0 {
		names := make([]map[string]interface{}, 0, len(payload.Contents))
		for _, content := range payload.Contents {
			names = append(names, map[string]interface{}{
				"language":    content.Language,
				"productName": content.Name,
			})
		}
		body["productNameMultiLanguageList"] = names
	}
	return body
}

func wireSKU(code, price, ean string) map[string]interface{} {
	sku := map[string]interface{}{
		"skuCode":   code,
		"salePrice": price,
	}
	if ean != "" {
		sku["barcode"] = ean
	}
	return sku
}
