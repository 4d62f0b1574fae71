package ebay

import (
	"encoding/json"
	"fmt"

	"github.com/pim/backend/internal/domain/integration"
)

// Config is the eBay connection document stored in the channel's settings
// column
type Config struct {
	Token           string `json:"token"`
	MarketplaceID   string `json:"marketplace_id"`
	FulfillmentCode string `json:"fulfillment_code"`
	DefaultLanguage string `json:"default_language"`
}

// Validate checks the config carries enough to call the platform
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: ebay token missing", integration.ErrChannelNotConfigured)
	}
	if c.MarketplaceID == "" {
		return fmt.Errorf("%w: ebay marketplace_id missing", integration.ErrChannelNotConfigured)
	}
	return nil
}

// configFor parses and validates the settings of a channel row
func configFor(channel *integration.SalesChannel) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(channel.Settings), &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid ebay settings: %v", integration.ErrChannelNotConfigured, err)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
