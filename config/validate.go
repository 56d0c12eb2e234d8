// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errSecretRequired               = errors.New("basic.secret is required")
	errSecretInvalid                = errors.New("basic.secret is not a valid paseto key")
	errInvalidPublicURL             = errors.New("instance.publicURL must be an absolute http(s) URL without a path")
	errStoragePathRequired          = errors.New("storage.databasePath and storage.mediaDirectory are required")
	errInvalidMaxUploadSize         = errors.New("storage.maxUploadSize must be positive")
	errInvalidTTL                   = errors.New("upload.policyTTL and session.ttl must be positive")
	errInvalidCacheSize             = errors.New("cache.size must be positive when the cache is enabled")
	errInvalidLimiterRate           = errors.New("limiter.rate and limiter.burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidLogLevel              = errors.New("log.logLevel must be one of debug, info, warn, error")
	errInvalidLogFormat             = errors.New("log.logFormat must be console or json")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	if err := cfg.validateSecret(); err != nil {
		return err
	}

	if cfg.Instance.PublicURL != "" {
		u, err := utils.ParseURL(cfg.Instance.PublicURL, "Public")
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidPublicURL, err)
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Path != "" {
			return errInvalidPublicURL
		}

		cfg.Instance.PublicURL = u.Scheme + "://" + u.Host
	}

	if cfg.Instance.ChannelTitle == "" {
		cfg.Instance.ChannelTitle = "Launchpod"
	}

	if cfg.Storage.DatabasePath == "" || cfg.Storage.MediaDirectory == "" {
		return errStoragePathRequired
	}

	if cfg.Storage.MaxUploadSize <= 0 {
		return errInvalidMaxUploadSize
	}

	if cfg.Upload.PolicyTTL <= 0 || cfg.Session.TTL <= 0 {
		return errInvalidTTL
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errInvalidLogLevel
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errInvalidLogFormat
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

// validateSecret makes sure the signing key parses. In development a missing
// key is replaced by a fresh one, which invalidates sessions on restart.
func (cfg *ServerConfig) validateSecret() error {
	if cfg.Basic.Secret == "" {
		key := authenticated.NewSecretKeyHex()

		if !cfg.Development.InDevelopment {
			log.Error().Msgf("Generated secret key (put this in config.yaml)\nbasic:\n  secret: \"%s\"", key)

			return errSecretRequired
		}

		log.Warn().Msg("No basic.secret configured; using a temporary key")

		cfg.Basic.Secret = key
	}

	if _, err := authenticated.NewSigner(cfg.Basic.Secret); err != nil {
		return fmt.Errorf("%w: %w", errSecretInvalid, err)
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8080"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
	case fileModeStringRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode := os.FileMode(0)

		for i, c := range cfg.Basic.RawUnixSocketPermissions {
			if c != '-' {
				// Set i-th bit from the end
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		cfg.Basic.UnixSocketPermissions = mode
	default:
		return errUnixSocketInvalidPermissions
	}

	if u := cfg.Basic.UnixSocketUser; u != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(u) {
			lookup = user.LookupId
		}

		if _, err := lookup(u); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if g := cfg.Basic.UnixSocketGroup; g != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(g) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(g); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}
