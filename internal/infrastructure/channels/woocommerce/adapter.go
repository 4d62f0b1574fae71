package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels"
)

// Adapter implements the channel port against the WooCommerce REST API v3
type Adapter struct {
	client *channels.Client
}

// NewAdapter creates a WooCommerce adapter
func NewAdapter() *Adapter {
	return &Adapter{client: channels.NewClient(30 * time.Second)}
}

// Code identifies the channel kind this adapter serves
func (a *Adapter) Code() integration.ChannelCode {
	return integration.ChannelCodeWoocommerce
}

// CreateProduct creates the product remotely. The store enforces SKU
// uniqueness and a duplicate comes back as AlreadyExists with the existing
// product's id.
func (a *Adapter) CreateProduct(ctx context.Context, channel *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return integration.CreateResult{}, err
	}

	var created json.RawMessage
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/products"), basicAuth(cfg), a.wireProduct(payload), &created)
	if err != nil {
		return integration.CreateResult{}, err
	}
	if status == http.StatusBadRequest && isDuplicateSKU(created) {
		existing, fetchErr := a.FetchProduct(ctx, channel, payload.SKU)
		if fetchErr == nil {
			return integration.CreateResult{RemoteID: existing.RemoteID, AlreadyExists: true}, nil
		}
		return integration.CreateResult{AlreadyExists: true}, nil
	}
	if status >= 400 {
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}

	var product storeProduct
	if err := json.Unmarshal(created, &product); err != nil || product.ID == 0 {
		return integration.CreateResult{}, fmt.Errorf("%w: create response carries no product id", integration.ErrChannelInvalidResponse)
	}
	return integration.CreateResult{RemoteID: strconv.FormatInt(product.ID, 10)}, nil
}

// UpdateProduct pushes the full payload onto an existing product
func (a *Adapter) UpdateProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)), basicAuth(cfg), a.wireProduct(payload), nil)
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

// DeleteProduct removes the product, skipping the trash bin
func (a *Adapter) DeleteProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)+"?force=true"), basicAuth(cfg), nil, nil)
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

	var matches []storeProduct
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, "/products?sku="+url.QueryEscape(sku)), basicAuth(cfg), nil, &matches)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: product lookup returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if len(matches) == 0 {
		return nil, integration.ErrRemoteProductNotFound
	}

	product := matches[0]
	state := &integration.RemoteProductState{
		RemoteID:   strconv.FormatInt(product.ID, 10),
		SKU:        product.SKU,
		Name:       product.Name,
		Active:     product.Status == statusPublish,
		Properties: make(map[string]string, len(product.Attributes)),
		ImageIDs:   make([]string, 0, len(product.Images)),
	}
	for _, attr := range product.Attributes {
		if len(attr.Options) > 0 {
			state.Properties[attr.Name] = attr.Options[0]
		} else if attr.Option != "" {
			state.Properties[attr.Name] = attr.Option
		}
	}
	for _, image := range product.Images {
		if image.ID != 0 {
			state.ImageIDs = append(state.ImageIDs, strconv.FormatInt(image.ID, 10))
		}
	}
	return state, nil
}

// EnsureProperty creates the global attribute and returns its id. A
// conflicting slug means the attribute exists already.
func (a *Adapter) EnsureProperty(ctx context.Context, channel *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{"name": payload.Name, "slug": "pa_" + payload.Code}
	var created struct {
		ID int64 `json:"id"`
	}
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/products/attributes"), basicAuth(cfg), body, &created)
	if err != nil {
		return "", err
	}
	if status == http.StatusBadRequest || status == http.StatusConflict {
		return payload.Code, nil
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: attribute creation returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if created.ID != 0 {
		return strconv.FormatInt(created.ID, 10), nil
	}
	return payload.Code, nil
}

// AssignImage appends a picture to the product's gallery and returns its
// media id
func (a *Adapter) AssignImage(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{
		"images": []map[string]interface{}{{
			"src":      payload.SourceURL,
			"position": payload.SortOrder,
		}},
	}
	var updated storeProduct
	status, err := a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)), basicAuth(cfg), body, &updated)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: image upload returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	for _, image := range updated.Images {
		if image.Src == payload.SourceURL && image.ID != 0 {
			return strconv.FormatInt(image.ID, 10), nil
		}
	}
	return payload.SourceURL, nil
}

// RemoveImage rewrites the gallery without the given media id
func (a *Adapter) RemoveImage(ctx context.Context, channel *integration.SalesChannel, remoteID, remoteImageID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	var current storeProduct
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)), basicAuth(cfg), nil, &current)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return integration.ErrRemoteProductNotFound
	}
	if status >= 400 {
		return fmt.Errorf("%w: product lookup returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}

	kept := make([]map[string]interface{}, 0, len(current.Images))
	for _, image := range current.Images {
		if strconv.FormatInt(image.ID, 10) == remoteImageID {
			continue
		}
		kept = append(kept, map[string]interface{}{"id": image.ID})
	}

	status, err = a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)), basicAuth(cfg), map[string]interface{}{"images": kept}, nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("%w: image removal returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

func (a *Adapter) endpoint(channel *integration.SalesChannel, path string) string {
	return "https://" + channel.Hostname + "/wp-json/wc/v3" + path
}

// wireProduct translates the channel-neutral payload into the platform shape
func (a *Adapter) wireProduct(payload integration.ProductPayload) map[string]interface{} {
	status := statusDraft
	if payload.Active {
		status = statusPublish
	}
	productType := typeSimple
	if len(payload.Variations) > 0 {
		productType = typeVariable
	}

	attributes := make([]map[string]interface{}, 0, len(payload.Properties))
	for _, property := range payload.Properties {
		options := property.Values
		if len(options) == 0 && property.Value != "" {
			options = []string{property.Value}
		}
		attributes = append(attributes, map[string]interface{}{
			"name":    property.Name,
			"options": options,
			"visible": true,
		})
	}

	images := make([]map[string]interface{}, 0, len(payload.Images))
	for _, image := range payload.Images {
		images = append(images, map[string]interface{}{
			"src":      image.SourceURL,
			"position": image.SortOrder,
		})
	}

	product := map[string]interface{}{
		"name":          payload.Name,
		"sku":           payload.SKU,
		"type":          productType,
		"status":        status,
		"description":   payload.Description,
		"regular_price": payload.Price,
		"attributes":    attributes,
		"images":        images,
	}
	if payload.Discount != "" {
		product["sale_price"] = payload.Discount
	}
	if payload.EAN != "" {
		product["global_unique_id"] = payload.EAN
	}
	return product
}

// isDuplicateSKU checks a create response body for the duplicate-SKU code
func isDuplicateSKU(body json.RawMessage) bool {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return false
	}
	return apiErr.Code == duplicateSKUCode
}
