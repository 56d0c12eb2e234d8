// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the server configuration from defaults, a YAML or TOML
// file, and LAUNCHPOD_* environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Global exposes the server configuration.
var Global ServerConfig

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "LAUNCHPOD_"

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `toml:"-" yaml:"-"`

	Basic struct {
		Host                     string      `env:"HOST"                  toml:"host"                  yaml:"host"`
		Port                     string      `env:"PORT"                  toml:"port"                  yaml:"port"`
		UnixSocket               string      `env:"UNIXSOCKET"            toml:"unixSocket"            yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"UNIXSOCKET_PERMISSIONS" toml:"unixSocketPermissions" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `toml:"-"                     yaml:"-"`
		UnixSocketUser           string      `env:"UNIXSOCKET_USER"       toml:"unixSocketUser"        yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"UNIXSOCKET_GROUP"      toml:"unixSocketGroup"       yaml:"unixSocketGroup"`
		// hex encoded v4.public secret key
		Secret string `env:"SECRET" toml:"secret" yaml:"secret"`
	} `toml:"basic" yaml:"basic"`

	Instance struct {
		StartingTime string `toml:"-" yaml:"-"`
		// PublicURL is the origin written into feed links. Empty means the request's own origin.
		PublicURL       string `env:"PUBLIC_URL"       toml:"publicURL"       yaml:"publicURL"`
		ChannelTitle    string `env:"CHANNEL_TITLE"    toml:"channelTitle"    yaml:"channelTitle"`
		ChannelLink     string `env:"CHANNEL_LINK"     toml:"channelLink"     yaml:"channelLink"`
		ChannelCategory string `env:"CHANNEL_CATEGORY" toml:"channelCategory" yaml:"channelCategory"`
	} `toml:"instance" yaml:"instance"`

	Storage struct {
		DatabasePath   string `env:"DATABASE_PATH"   toml:"databasePath"   yaml:"databasePath"`
		MediaDirectory string `env:"MEDIA_DIRECTORY" toml:"mediaDirectory" yaml:"mediaDirectory"`
		MaxUploadSize  int64  `env:"MAX_UPLOAD_SIZE" toml:"maxUploadSize"  yaml:"maxUploadSize"`
	} `toml:"storage" yaml:"storage"`

	Upload struct {
		PolicyTTL time.Duration `env:"UPLOAD_POLICY_TTL" toml:"policyTTL" yaml:"policyTTL"`
	} `toml:"upload" yaml:"upload"`

	Session struct {
		TTL          time.Duration `env:"SESSION_TTL"           toml:"ttl"          yaml:"ttl"`
		SecureCookie bool          `env:"SESSION_SECURE_COOKIE" toml:"secureCookie" yaml:"secureCookie"`
	} `toml:"session" yaml:"session"`

	Cache struct {
		Enabled  bool `env:"CACHE"          toml:"enabled"  yaml:"enabled"`
		Size     int  `env:"CACHE_SIZE"     toml:"size"     yaml:"size"`
		Compress bool `env:"CACHE_COMPRESS" toml:"compress" yaml:"compress"`
	} `toml:"cache" yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"CACHE_CONTROL_MAX_AGE"                toml:"cacheControlMaxAge"               yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"CACHE_CONTROL_STALE_WHILE_REVALIDATE" toml:"cacheControlStaleWhileRevalidate" yaml:"cacheControlStaleWhileRevalidate"`
	} `toml:"httpCache" yaml:"httpCache"`

	Limiter struct {
		Enabled      bool    `env:"LIMITER"               toml:"enabled"      yaml:"enabled"`
		Rate         float64 `env:"LIMITER_RATE"          toml:"rate"         yaml:"rate"`
		Burst        int     `env:"LIMITER_BURST"         toml:"burst"        yaml:"burst"`
		CheckHeaders bool    `env:"LIMITER_CHECK_HEADERS" toml:"checkHeaders" yaml:"checkHeaders"`
		IPv4Prefix   int     `env:"LIMITER_IPV4_PREFIX"   toml:"ipv4Prefix"   yaml:"ipv4Prefix"`
		IPv6Prefix   int     `env:"LIMITER_IPV6_PREFIX"   toml:"ipv6Prefix"   yaml:"ipv6Prefix"`
	} `toml:"limiter" yaml:"limiter"`

	Log struct {
		Level   string   `env:"LOG_LEVEL"   toml:"logLevel"   yaml:"logLevel"`
		Outputs []string `env:"LOG_OUTPUTS" toml:"logOutputs" yaml:"logOutputs"`
		Format  string   `env:"LOG_FORMAT"  toml:"logFormat"  yaml:"logFormat"`
	} `toml:"log" yaml:"log"`

	Development struct {
		InDevelopment bool `env:"DEV" toml:"inDevelopment" yaml:"inDevelopment"`
	} `toml:"development" yaml:"development"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config flag, LAUNCHPOD_CONFIGFILE, ./config.yaml, ./config.yml.
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv(EnvPrefix + "CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	if err := cfg.load(configFilePath); err != nil {
		return err
	}

	cfg.setupAudit()
	cfg.print()

	return nil
}

// load applies defaults, the file at configFilePath, and the environment, then validates.
func (cfg *ServerConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readFile(configFilePath); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	return nil
}

// ListenAddress is the TCP address to bind, or empty when serving on a unix socket.
func (cfg *ServerConfig) ListenAddress() string {
	if cfg.Basic.UnixSocket != "" {
		return ""
	}

	return cfg.Basic.Host + ":" + cfg.Basic.Port
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}

