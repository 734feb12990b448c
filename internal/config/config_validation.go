// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the defaulted [ClientConfig] can drive a bot.
//
// Returns nil if the configuration is valid, or one of the ErrInvalid*
// sentinels wrapped with the offending detail.
func (cfg *ClientConfig) validate() error {
	if cfg.App.Token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidAppConfigs)
	}

	if err := validateAddress(cfg.Adapter.HTTPAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAdapterConfigs, err)
	}
	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.RateLimit < 0 || cfg.Adapter.RateBurst < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.PollTimeout < 0 || cfg.Workers.OccasionInterval <= 0 || cfg.Workers.PollFailureDelay < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Storage.DB.DSN == "" || cfg.Storage.CacheSize <= 0 {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func validateAddress(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("address must include host")
	}
	return nil
}
