// Package magento connects the Magento 2 REST API: a payload parser for the
// pull path and a channel adapter for the push path. Select attribute values
// arrive as option ids; the parser maps them back to labels through the
// attribute option documents and collects unmapped ones as broken records
// when running in skip mode.
package magento

import (
	"encoding/json"
	"fmt"

	"github.com/pim/backend/internal/domain/integration"
)

// Config is the Magento connection document stored in the channel's settings
// column
type Config struct {
	AccessToken string `json:"access_token"`
	StoreCode   string `json:"store_code"`
	MediaURL    string `json:"media_url"`
}

// Validate checks the config carries enough to call the platform
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("%w: magento access_token missing", integration.ErrChannelNotConfigured)
	}
	return nil
}

// configFor parses and validates the settings of a channel row
func configFor(channel *integration.SalesChannel) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(channel.Settings), &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid magento settings: %v", integration.ErrChannelNotConfigured, err)
	}
	if cfg.StoreCode == "" {
		cfg.StoreCode = "default"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
