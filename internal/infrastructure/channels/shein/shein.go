// Package shein connects the Shein Open API. Requests are POST-only and
// signed with the partner key pair; product documents arrive as SPU records
// with SKU lists underneath.
package shein

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pim/backend/internal/domain/integration"
)

// Config is the Shein connection document stored in the channel's settings
// column
type Config struct {
	OpenKeyID string `json:"open_key_id"`
	SecretKey string `json:"secret_key"`
	Language  string `json:"language"`
}

// Validate checks the config carries enough to call the platform
func (c *Config) Validate() error {
	if c.OpenKeyID == "" {
		return fmt.Errorf("%w: shein open_key_id missing", integration.ErrChannelNotConfigured)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: shein secret_key missing", integration.ErrChannelNotConfigured)
	}
	return nil
}

// configFor parses and validates the settings of a channel row
func configFor(channel *integration.SalesChannel) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(channel.Settings), &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid shein settings: %v", integration.ErrChannelNotConfigured, err)
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// signedHeaders builds the per-request auth header set. The signature covers
// the key id and the request timestamp.
func signedHeaders(cfg *Config) map[string]string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	mac := hmac.New(sha256.New, []byte(cfg.SecretKey))
	mac.Write([]byte(cfg.OpenKeyID + "&" + timestamp))
	return map[string]string{
		"x-lt-openKeyId": cfg.OpenKeyID,
		"x-lt-timestamp": timestamp,
		"x-lt-signature": hex.EncodeToString(mac.Sum(nil)),
		"language":       cfg.Language,
	}
}
