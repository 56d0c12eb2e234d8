// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// readEnv overrides cfg with every LAUNCHPOD_* variable that is set.
// Unset variables leave the current value alone.
func readEnv(cfg *ServerConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
