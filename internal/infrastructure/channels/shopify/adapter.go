package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels"
)

// Adapter implements the channel port against the Shopify Admin REST API
type Adapter struct {
	client *channels.Client
}

// NewAdapter creates a Shopify adapter
func NewAdapter() *Adapter {
	return &Adapter{client: channels.NewClient(30 * time.Second)}
}

// Code identifies the channel kind this adapter serves
func (a *Adapter) Code() integration.ChannelCode {
	return integration.ChannelCodeShopify
}

// CreateProduct creates the product remotely. The platform enforces no SKU
// uniqueness itself, so a rejected create is checked against an existing
// product with the same SKU before failing.
func (a *Adapter) CreateProduct(ctx context.Context, channel *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return integration.CreateResult{}, err
	}

	var created productEnvelope
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/products.json"), a.headers(cfg), a.wireProduct(payload), &created)
	if err != nil {
		return integration.CreateResult{}, err
	}
	if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
		existing, fetchErr := a.FetchProduct(ctx, channel, payload.SKU)
		if fetchErr == nil {
			return integration.CreateResult{RemoteID: existing.RemoteID, AlreadyExists: true}, nil
		}
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if status >= 400 {
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return integration.CreateResult{RemoteID: strconv.FormatInt(created.Product.ID, 10)}, nil
}

// UpdateProduct pushes the full payload onto an existing product
func (a *Adapter) UpdateProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)+".json"), a.headers(cfg), a.wireProduct(payload), nil)
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

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)+".json"), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

// FetchProduct pulls the current product state by variant SKU. The platform
// has no direct SKU lookup, so this filters a product list query.
func (a *Adapter) FetchProduct(ctx context.Context, channel *integration.SalesChannel, sku string) (*integration.RemoteProductState, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return nil, err
	}

	var list productListEnvelope
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, "/products.json?limit=250"), a.headers(cfg), nil, &list)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: product lookup returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}

	for _, product := range list.Products {
		for _, v := range product.Variants {
			if v.SKU != sku {
				continue
			}
			state := &integration.RemoteProductState{
				RemoteID:   strconv.FormatInt(product.ID, 10),
				SKU:        v.SKU,
				Name:       product.Title,
				Active:     product.Status == statusActive,
				Properties: map[string]string{},
				ImageIDs:   make([]string, 0, len(product.Images)),
			}
			for _, image := range product.Images {
				state.ImageIDs = append(state.ImageIDs, strconv.FormatInt(image.ID, 10))
			}
			return state, nil
		}
	}
	return nil, integration.ErrRemoteProductNotFound
}

// EnsureProperty is a no-op identifier grant. The platform has no standalone
// attribute registry; options live inside the product document and are keyed
// by name.
func (a *Adapter) EnsureProperty(ctx context.Context, channel *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	if _, err := configFor(channel); err != nil {
		return "", err
	}
	return payload.Name, nil
}

// AssignImage appends a picture to the product and returns its id
func (a *Adapter) AssignImage(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	position := payload.SortOrder + 1
	if payload.IsMainImage {
		position = 1
	}
	body := map[string]interface{}{
		"image": map[string]interface{}{
			"src":      payload.SourceURL,
			"position": position,
		},
	}
	var created struct {
		Image productImage `json:"image"`
	}
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)+"/images.json"), a.headers(cfg), body, &created)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: image upload returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return strconv.FormatInt(created.Image.ID, 10), nil
}

// RemoveImage drops a picture from the product
func (a *Adapter) RemoveImage(ctx context.Context, channel *integration.SalesChannel, remoteID, remoteImageID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, "/products/"+url.PathEscape(remoteID)+"/images/"+url.PathEscape(remoteImageID)+".json"), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: image removal returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

func (a *Adapter) endpoint(channel *integration.SalesChannel, path string) string {
	return "https://" + channel.Hostname + "/admin/api/" + apiVersion + path
}

func (a *Adapter) headers(cfg *Config) map[string]string {
	return map[string]string{"X-Shopify-Access-Token": cfg.AccessToken}
}

// wireProduct translates the channel-neutral payload into the platform shape
func (a *Adapter) wireProduct(payload integration.ProductPayload) map[string]interface{} {
	status := statusDraft
	if payload.Active {
		status = statusActive
	}

	product := map[string]interface{}{
		"title":     payload.Name,
		"body_html": payload.Description,
		"status":    status,
	}

	if len(payload.Variations) > 0 {
		variants := make([]map[string]interface{}, 0, len(payload.Variations))
		for _, v := range payload.Variations {
			variants = append(variants, wireVariant(v.SKU, v.Price, v.EAN))
		}
		product["variants"] = variants
	} else {
		product["variants"] = []map[string]interface{}{wireVariant(payload.SKU, payload.Price, payload.EAN)}
	}

	if len(payload.Properties) > 0 {
		options := make([]map[string]interface{}, 0, len(payload.Properties))
		for _, property := range payload.Properties {
			values := property.Values
			if len(values) == 0 && property.Value != "" {
				values = []string{property.Value}
			}
			options = append(options, map[string]interface{}{
				"name":   property.Name,
				"values": values,
			})
		}
		product["options"] = options
	}

	return map[string]interface{}{"product": product}
}

func wireVariant(sku, price, ean string) map[string]interface{} {
	variant := map[string]interface{}{
		"sku":   sku,
		"price": price,
	}
	if ean != "" {
		variant["barcode"] = ean
	}
	return variant
}
