// Package woocommerce connects the WooCommerce REST API v3. Product
// attributes arrive as name/options documents; the store enforces SKU
// uniqueness and reports duplicates with a machine-readable error code.
package woocommerce

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pim/backend/internal/domain/integration"
)

// Config is the WooCommerce connection document stored in the channel's
// settings column
type Config struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	Currency       string `json:"currency"`
}

// Validate checks the config carries enough to call the platform
func (c *Config) Validate() error {
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return fmt.Errorf("%w: woocommerce consumer key pair missing", integration.ErrChannelNotConfigured)
	}
	return nil
}

// configFor parses and validates the settings of a channel row
func configFor(channel *integration.SalesChannel) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(channel.Settings), &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid woocommerce settings: %v", integration.ErrChannelNotConfigured, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// basicAuth builds the consumer key pair header
func basicAuth(cfg *Config) map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.ConsumerKey + ":" + cfg.ConsumerSecret))
	return map[string]string{"Authorization": "Basic " + credentials}
}
