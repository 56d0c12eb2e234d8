// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("started", cfg.Instance.StartingTime).
		Msg("Starting Launchpod")

	configYAML, err := cfg.redactedYAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

// redactedYAML marshals a shallow copy of cfg with secrets replaced.
func (cfg *ServerConfig) redactedYAML() ([]byte, error) {
	printableConfig := *cfg

	if printableConfig.Basic.Secret != "" {
		printableConfig.Basic.Secret = redactedValue
	}

	return yaml.MarshalWithOptions(
		printableConfig,
		GetDurationEncoderOption(),
	)
}
