// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit sets up logging defaults and records request spans.
package audit

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides a readable log format before the configuration is loaded.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}
