// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 60
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 300

	// 200 MiB covers a long episode at 128 kbit/s.
	defaultMaxUploadSize = 200 << 20

	defaultSessionTTL = 7 * 24 * time.Hour
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8080"

	cfg.Instance.ChannelTitle = "Launchpod"
	cfg.Instance.ChannelLink = ""
	cfg.Instance.ChannelCategory = "Technology"

	cfg.Storage.DatabasePath = "./data/launchpod.db"
	cfg.Storage.MediaDirectory = "./data/media"
	cfg.Storage.MaxUploadSize = defaultMaxUploadSize

	cfg.Upload.PolicyTTL = 10 * time.Minute

	cfg.Session.TTL = defaultSessionTTL
	cfg.Session.SecureCookie = false

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 256
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = 1
	cfg.Limiter.Burst = 10
	cfg.Limiter.CheckHeaders = true
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
