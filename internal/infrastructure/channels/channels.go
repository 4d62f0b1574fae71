// Package channels holds the shared plumbing of the per-platform
// connector packages: the REST client they call their platforms with and
// the typed mirror metadata side-channel their parsers hand back next to
// the structured import schema.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pim/backend/internal/application/importer"
	"github.com/pim/backend/internal/domain/integration"
)

// maxResponseSize bounds how much of a platform response is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// MirrorMetadata is what a payload parser learned about the remote side
// while parsing: remote attribute ids by property name, remote image ids by
// image position, remote variation ids by SKU. The generic import path never
// reads it; the channel processor uses it to populate mirror rows after the
// import has run.
type MirrorMetadata struct {
	PropertyToRemoteID   map[string]string
	ImageIndexToRemoteID map[int]string
	VariationSKUToID     map[string]string
}

// NewMirrorMetadata creates an empty metadata set
func NewMirrorMetadata() *MirrorMetadata {
	return &MirrorMetadata{
		PropertyToRemoteID:   make(map[string]string),
		ImageIndexToRemoteID: make(map[int]string),
		VariationSKUToID:     make(map[string]string),
	}
}

// IsEmpty reports whether the parser learned nothing remote-side
func (m *MirrorMetadata) IsEmpty() bool {
	return len(m.PropertyToRemoteID) == 0 && len(m.ImageIndexToRemoteID) == 0 && len(m.VariationSKUToID) == 0
}

// ApplyTo writes the metadata into a product payload's reserved keys so it
// survives a round trip through the structured schema
func (m *MirrorMetadata) ApplyTo(data *importer.ProductData) {
	if len(m.PropertyToRemoteID) > 0 {
		data.MirrorPropertyMap = m.PropertyToRemoteID
	}
	if len(m.ImageIndexToRemoteID) > 0 {
		data.ImageIndexToRemoteID = make(map[string]string, len(m.ImageIndexToRemoteID))
		for index, remoteID := range m.ImageIndexToRemoteID {
			data.ImageIndexToRemoteID[strconv.Itoa(index)] = remoteID
		}
	}
	if len(m.VariationSKUToID) > 0 {
		data.VariationSKUToID = m.VariationSKUToID
	}
}

// MetadataFrom reads the reserved keys of a product payload back into a
// typed metadata set
func MetadataFrom(data *importer.ProductData) *MirrorMetadata {
	m := NewMirrorMetadata()
	for name, remoteID := range data.MirrorPropertyMap {
		m.PropertyToRemoteID[name] = remoteID
	}
	for key, remoteID := range data.ImageIndexToRemoteID {
		if index, err := strconv.Atoi(key); err == nil {
			m.ImageIndexToRemoteID[index] = remoteID
		}
	}
	for sku, remoteID := range data.VariationSKUToID {
		m.VariationSKUToID[sku] = remoteID
	}
	return m
}

// Client is a thin JSON REST client shared by the channel adapters. It maps
// transport failures onto the integration error set so the sync layer can
// tell a dead platform from a rejected request.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// DoJSON sends a JSON request and decodes a JSON response into out (out may
// be nil). The HTTP status is returned alongside so callers can distinguish
// not-found and conflict outcomes; statuses >= 500 and 429 come back as
// typed errors.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("channels: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("channels: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrChannelUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("channels: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d", integration.ErrChannelAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d", integration.ErrChannelRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d", integration.ErrChannelUnavailable, resp.StatusCode)
	}

	if out != nil && len(payload) > 0 {
		if resp.StatusCode < 300 {
			if err := json.Unmarshal(payload, out); err != nil {
				return resp.StatusCode, fmt.Errorf("%w: %v", integration.ErrChannelInvalidResponse, err)
			}
		} else {
			// error bodies are decoded best-effort so adapters can read
			// platform error codes off them
			_ = json.Unmarshal(payload, out)
		}
	}
	return resp.StatusCode, nil
}
