package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels"
)

// Adapter implements the channel port against the Magento 2 REST API.
// Magento addresses products by SKU, so the SKU doubles as the remote id.
type Adapter struct {
	client *channels.Client
}

// NewAdapter creates a Magento adapter
func NewAdapter() *Adapter {
	return &Adapter{client: channels.NewClient(30 * time.Second)}
}

// Code identifies the channel kind this adapter serves
func (a *Adapter) Code() integration.ChannelCode {
	return integration.ChannelCodeMagento
}

// CreateProduct creates the product remotely. The platform rejects a taken
// SKU with a message-level error, which comes back as AlreadyExists.
func (a *Adapter) CreateProduct(ctx context.Context, channel *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return integration.CreateResult{}, err
	}

	var created catalogProduct
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, cfg, "/products"), a.headers(cfg), a.wireProduct(payload), &created)
	if err != nil {
		return integration.CreateResult{}, err
	}
	if status == http.StatusBadRequest || status == http.StatusConflict {
		if a.skuExists(ctx, channel, cfg, payload.SKU) {
			return integration.CreateResult{RemoteID: payload.SKU, AlreadyExists: true}, nil
		}
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if status >= 400 {
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	remoteID := created.SKU
	if remoteID == "" {
		remoteID = payload.SKU
	}
	return integration.CreateResult{RemoteID: remoteID}, nil
}

// UpdateProduct pushes the full payload onto an existing product
func (a *Adapter) UpdateProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, cfg, "/products/"+url.PathEscape(remoteID)), a.headers(cfg), a.wireProduct(payload), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return integration.ErrRemoteProductNotFound
	}
	if status >= 400 {
		return fmt.Errorf("%w: update returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

// DeleteProduct removes the product
func (a *Adapter) DeleteProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, cfg, "/products/"+url.PathEscape(remoteID)), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

// FetchProduct pulls the current product state by SKU
func (a *Adapter) FetchProduct(ctx context.Context, channel *integration.SalesChannel, sku string) (*integration.RemoteProductState, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return nil, err
	}

	var product catalogProduct
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, cfg, "/products/"+url.PathEscape(sku)), a.headers(cfg), nil, &product)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || product.SKU == "" {
		return nil, integration.ErrRemoteProductNotFound
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: fetch returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}

	state := &integration.RemoteProductState{
		RemoteID:   product.SKU,
		SKU:        product.SKU,
		Name:       product.Name,
		Active:     product.Status == statusEnabled,
		Properties: make(map[string]string, len(product.Attributes)),
		ImageIDs:   make([]string, 0, len(product.Media)),
	}
	for _, attr := range product.Attributes {
		if text := stringValue(attr.Value); text != "" {
			state.Properties[attr.Code] = text
		}
	}
	for _, entry := range product.Media {
		if entry.ID != 0 {
			state.ImageIDs = append(state.ImageIDs, strconv.FormatInt(entry.ID, 10))
		}
	}
	return state, nil
}

// EnsureProperty creates the attribute definition and returns its id. A
// conflict means the attribute already exists and its code is the stable
// identifier.
func (a *Adapter) EnsureProperty(ctx context.Context, channel *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{
		"attribute": map[string]interface{}{
			"attribute_code":         payload.Code,
			"default_frontend_label": payload.Name,
			"frontend_input":         frontendSelect,
		},
	}
	var created AttributeMetadata
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, cfg, "/products/attributes"), a.headers(cfg), body, &created)
	if err != nil {
		return "", err
	}
	if status == http.StatusBadRequest || status == http.StatusConflict {
		return payload.Code, nil
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: attribute creation returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if created.AttributeID != 0 {
		return strconv.FormatInt(created.AttributeID, 10), nil
	}
	return payload.Code, nil
}

// AssignImage appends a gallery entry and returns its id
func (a *Adapter) AssignImage(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	types := []string{}
	if payload.IsMainImage {
		types = []string{"image", "thumbnail", "small_image"}
	}
	body := map[string]interface{}{
		"entry": map[string]interface{}{
			"media_type": "image",
			"position":   payload.SortOrder,
			"types":      types,
			"content": map[string]interface{}{
				"base64_encoded_data": "",
				"type":                "image/jpeg",
				"name":                payload.SourceURL,
			},
		},
	}
	var entryID json.Number
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, cfg, "/products/"+url.PathEscape(remoteID)+"/media"), a.headers(cfg), body, &entryID)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: media upload returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return entryID.String(), nil
}

// RemoveImage drops a gallery entry
func (a *Adapter) RemoveImage(ctx context.Context, channel *integration.SalesChannel, remoteID, remoteImageID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, cfg, "/products/"+url.PathEscape(remoteID)+"/media/"+url.PathEscape(remoteImageID)), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: media removal returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

func (a *Adapter) skuExists(ctx context.Context, channel *integration.SalesChannel, cfg *Config, sku string) bool {
	var product catalogProduct
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, cfg, "/products/"+url.PathEscape(sku)), a.headers(cfg), nil, &product)
	return err == nil && status < 300 && product.SKU != ""
}

func (a *Adapter) endpoint(channel *integration.SalesChannel, cfg *Config, path string) string {
	return "https://" + channel.Hostname + "/rest/" + cfg.StoreCode + "/V1" + path
}

func (a *Adapter) headers(cfg *Config) map[string]string {
	return map[string]string{"Authorization": "Bearer " + cfg.AccessToken}
}

// wireProduct translates the channel-neutral payload into the platform shape
func (a *Adapter) wireProduct(payload integration.ProductPayload) map[string]interface{} {
	status := statusDisabled
	if payload.Active {
		status = statusEnabled
	}
	typeID := typeSimple
	if len(payload.Variations) > 0 {
		typeID = typeConfigurable
	}

	attributes := make([]map[string]interface{}, 0, len(payload.Properties)+2)
	for _, property := range payload.Properties {
		value := interface{}(property.Value)
		if len(property.Values) > 0 {
			value = strings.Join(property.Values, ",")
		}
		attributes = append(attributes, map[string]interface{}{
			"attribute_code": property.Code,
			"value":          value,
		})
	}
	if payload.Description != "" {
		attributes = append(attributes, map[string]interface{}{
			"attribute_code": attrDescription,
			"value":          payload.Description,
		})
	}

	product := map[string]interface{}{
		"sku":               payload.SKU,
		"name":              payload.Name,
		"status":            status,
		"type_id":           typeID,
		"custom_attributes": attributes,
	}
	if payload.Price != "" {
		product["price"] = payload.Price
	}
	return map[string]interface{}{"product": product}
}
