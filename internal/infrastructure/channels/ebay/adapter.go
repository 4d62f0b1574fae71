package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/infrastructure/channels"
)

// Adapter implements the channel port against the eBay inventory API
type Adapter struct {
	client *channels.Client
}

// NewAdapter creates an eBay adapter
func NewAdapter() *Adapter {
	return &Adapter{client: channels.NewClient(30 * time.Second)}
}

// Code identifies the channel kind this adapter serves
func (a *Adapter) Code() integration.ChannelCode {
	return integration.ChannelCodeEbay
}

// CreateProduct creates the listing remotely. The platform's duplicate-SKU
// error is an expected outcome and comes back as AlreadyExists.
func (a *Adapter) CreateProduct(ctx context.Context, channel *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return integration.CreateResult{}, err
	}

	var resp createItemResponse
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/inventory_item"), a.headers(cfg), a.wireItem(payload), &resp)
	if err != nil {
		return integration.CreateResult{}, err
	}
	if status == http.StatusConflict || hasDuplicateError(resp.Errors) {
		existing, fetchErr := a.FetchProduct(ctx, channel, payload.SKU)
		if fetchErr == nil {
			return integration.CreateResult{RemoteID: existing.RemoteID, AlreadyExists: true}, nil
		}
		return integration.CreateResult{AlreadyExists: true}, nil
	}
	if status >= 400 {
		return integration.CreateResult{}, fmt.Errorf("%w: create returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return integration.CreateResult{RemoteID: resp.ItemID}, nil
}

// UpdateProduct pushes the full payload onto an existing listing
func (a *Adapter) UpdateProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodPut, a.endpoint(channel, "/inventory_item/"+url.PathEscape(remoteID)), a.headers(cfg), a.wireItem(payload), nil)
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

// DeleteProduct removes the listing
func (a *Adapter) DeleteProduct(ctx context.Context, channel *integration.SalesChannel, remoteID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, "/inventory_item/"+url.PathEscape(remoteID)), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	// an already-gone listing is a successful delete
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

// FetchProduct pulls the current listing state by SKU
func (a *Adapter) FetchProduct(ctx context.Context, channel *integration.SalesChannel, sku string) (*integration.RemoteProductState, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return nil, err
	}

	var item inventoryItem
	status, err := a.client.DoJSON(ctx, http.MethodGet, a.endpoint(channel, "/inventory_item/by_sku/"+url.PathEscape(sku)), a.headers(cfg), nil, &item)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || item.ItemID == "" {
		return nil, integration.ErrRemoteProductNotFound
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: fetch returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}

	state := &integration.RemoteProductState{
		RemoteID:   item.ItemID,
		SKU:        item.SKU,
		Name:       item.Title,
		Active:     item.Quantity > 0,
		Properties: make(map[string]string, len(item.Aspects)),
		ImageIDs:   item.PictureURLs,
	}
	for _, aspect := range item.Aspects {
		if len(aspect.Values) > 0 {
			state.Properties[aspect.Name] = aspect.Values[0]
		}
	}
	return state, nil
}

// EnsureProperty registers the attribute with the marketplace category and
// returns the aspect id. eBay aspects are keyed by name, so the name is the
// stable identifier when the platform assigns no id.
func (a *Adapter) EnsureProperty(ctx context.Context, channel *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{"localizedAspectName": payload.Name}
	var resp struct {
		AspectID string `json:"aspectId"`
	}
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/aspect"), a.headers(cfg), body, &resp)
	if err != nil {
		return "", err
	}
	if status >= 400 && status != http.StatusConflict {
		return "", fmt.Errorf("%w: aspect registration returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	if resp.AspectID != "" {
		return resp.AspectID, nil
	}
	return payload.Name, nil
}

// AssignImage attaches a picture URL to the listing. The URL doubles as the
// remote image identifier.
func (a *Adapter) AssignImage(ctx context.Context, channel *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	cfg, err := configFor(channel)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{
		"pictureUrl": payload.SourceURL,
		"sortOrder":  payload.SortOrder,
		"primary":    payload.IsMainImage,
	}
	status, err := a.client.DoJSON(ctx, http.MethodPost, a.endpoint(channel, "/inventory_item/"+url.PathEscape(remoteID)+"/picture"), a.headers(cfg), body, nil)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: picture upload returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return payload.SourceURL, nil
}

// RemoveImage detaches a picture from the listing
func (a *Adapter) RemoveImage(ctx context.Context, channel *integration.SalesChannel, remoteID, remoteImageID string) error {
	cfg, err := configFor(channel)
	if err != nil {
		return err
	}

	status, err := a.client.DoJSON(ctx, http.MethodDelete, a.endpoint(channel, "/inventory_item/"+url.PathEscape(remoteID)+"/picture?url="+url.QueryEscape(remoteImageID)), a.headers(cfg), nil, nil)
	if err != nil {
		return err
	}
	if status >= 400 && status != http.StatusNotFound {
		return fmt.Errorf("%w: picture removal returned HTTP %d", integration.ErrChannelRequestFailed, status)
	}
	return nil
}

func (a *Adapter) endpoint(channel *integration.SalesChannel, path string) string {
	return "https://" + channel.Hostname + "/sell/inventory/v1" + path
}

func (a *Adapter) headers(cfg *Config) map[string]string {
	return map[string]string{
		"Authorization":           "Bearer " + cfg.Token,
		"X-EBAY-C-MARKETPLACE-ID": cfg.MarketplaceID,
		"Content-Language":        cfg.DefaultLanguage,
	}
}

// wireItem translates the channel-neutral payload into the platform shape
func (a *Adapter) wireItem(payload integration.ProductPayload) map[string]interface{} {
	aspects := make([]map[string]interface{}, 0, len(payload.Properties))
	for _, property := range payload.Properties {
		values := property.Values
		if len(values) == 0 && property.Value != "" {
			values = []string{property.Value}
		}
		aspects = append(aspects, map[string]interface{}{
			"name":   property.Name,
			"values": values,
		})
	}

	pictures := make([]string, 0, len(payload.Images))
	for _, image := range payload.Images {
		pictures = append(pictures, image.SourceURL)
	}

	item := map[string]interface{}{
		"sku":         payload.SKU,
		"title":       payload.Name,
		"description": payload.Description,
		"localizedAspects": aspects,
		"pictureUrls":      pictures,
	}
	if payload.Price != "" {
		item["price"] = map[string]string{"value": payload.Price, "currency": payload.Currency}
	}
	if !payload.Active {
		item["availableQuantity"] = 0
	}
	return item
}

func hasDuplicateError(entries []itemError) bool {
	for _, entry := range entries {
		if entry.ErrorID == duplicateListingErrorID {
			return true
		}
	}
	return false
}
