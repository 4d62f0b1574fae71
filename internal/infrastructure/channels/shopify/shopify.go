// Package shopify connects the Shopify Admin REST API. Listing options
// become select properties and variants become variations of a configurable
// product.
package shopify

import (
	"encoding/json"
	"fmt"

	"github.com/pim/backend/internal/domain/integration"
)

// apiVersion pins the Admin API version all requests go to
const apiVersion = "2024-01"

// Config is the Shopify connection document stored in the channel's
// settings column
type Config struct {
	AccessToken string `json:"access_token"`
	Currency    string `json:"currency"`
}

// Validate checks the config carries enough to call the platform
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("%w: shopify access_token missing", integration.ErrChannelNotConfigured)
	}
	return nil
}

// configFor parses and validates the settings of a channel row
func configFor(channel *integration.SalesChannel) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(channel.Settings), &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid shopify settings: %v", integration.ErrChannelNotConfigured, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
