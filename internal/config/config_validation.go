// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the service cannot start without.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.CookieSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout == 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
