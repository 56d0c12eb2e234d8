// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/launchpod/launchpod/core/authenticated"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// Tests in this file use t.Setenv and therefore do not run in parallel.

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LAUNCHPOD_SECRET", authenticated.NewSecretKeyHex())

	var cfg ServerConfig
	require.NoError(t, cfg.load(""))

	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	assert.Equal(t, "Launchpod", cfg.Instance.ChannelTitle)
	assert.Equal(t, 10*time.Minute, cfg.Upload.PolicyTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"/dev/stderr"}, cfg.Log.Outputs)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	secret := authenticated.NewSecretKeyHex()

	path := writeFile(t, "config.yaml", `
basic:
  port: "9000"
  secret: "`+secret+`"
instance:
  publicURL: https://pods.example.org/
  channelTitle: My Pods
upload:
  policyTTL: 5m
cache:
  size: 32
`)

	t.Setenv("LAUNCHPOD_PORT", "9100")
	t.Setenv("LAUNCHPOD_LOG_OUTPUTS", "/dev/stdout,/tmp/launchpod.log")

	var cfg ServerConfig
	require.NoError(t, cfg.load(path))

	assert.Equal(t, "9100", cfg.Basic.Port, "environment overrides the file")
	assert.Equal(t, secret, cfg.Basic.Secret)
	assert.Equal(t, "https://pods.example.org", cfg.Instance.PublicURL)
	assert.Equal(t, "My Pods", cfg.Instance.ChannelTitle)
	assert.Equal(t, 5*time.Minute, cfg.Upload.PolicyTTL)
	assert.Equal(t, 32, cfg.Cache.Size)
	assert.Equal(t, []string{"/dev/stdout", "/tmp/launchpod.log"}, cfg.Log.Outputs)
}

func TestLoadTOML(t *testing.T) {
	secret := authenticated.NewSecretKeyHex()

	path := writeFile(t, "config.toml", `
[basic]
host = "0.0.0.0"
secret = "`+secret+`"

[storage]
databasePath = "/var/lib/launchpod/db.sqlite"
maxUploadSize = 1048576

[session]
ttl = "24h"

[limiter]
enabled = true
rate = 2.5
burst = 4
`)

	var cfg ServerConfig
	require.NoError(t, cfg.load(path))

	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddress())
	assert.Equal(t, "/var/lib/launchpod/db.sqlite", cfg.Storage.DatabasePath)
	assert.Equal(t, int64(1048576), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Limiter.Enabled)
	assert.InDelta(t, 2.5, cfg.Limiter.Rate, 0.0001)
	assert.Equal(t, 4, cfg.Limiter.Burst)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "bad secret", env: map[string]string{"LAUNCHPOD_SECRET": "not-hex"}},
		{name: "public url with path", env: map[string]string{"LAUNCHPOD_PUBLIC_URL": "https://example.org/pods"}},
		{name: "public url without scheme", env: map[string]string{"LAUNCHPOD_PUBLIC_URL": "example.org"}},
		{name: "public url with other scheme", env: map[string]string{"LAUNCHPOD_PUBLIC_URL": "ftp://example.org"}},
		{name: "unix socket with port", env: map[string]string{"LAUNCHPOD_UNIXSOCKET": "/tmp/lp.sock"}},
		{name: "bad log level", env: map[string]string{"LAUNCHPOD_LOG_LEVEL": "verbose"}},
		{name: "bad limiter", env: map[string]string{"LAUNCHPOD_LIMITER": "true", "LAUNCHPOD_LIMITER_BURST": "0"}},
		{name: "unparseable duration", env: map[string]string{"LAUNCHPOD_SESSION_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.env["LAUNCHPOD_SECRET"]; !ok && tt.name != "missing secret" {
				t.Setenv("LAUNCHPOD_SECRET", authenticated.NewSecretKeyHex())
			}

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var cfg ServerConfig
			assert.Error(t, cfg.load(""))
		})
	}
}

func TestDevelopmentGeneratesSecret(t *testing.T) {
	t.Setenv("LAUNCHPOD_DEV", "true")

	var cfg ServerConfig
	require.NoError(t, cfg.load(""))

	_, err := authenticated.NewSigner(cfg.Basic.Secret)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.logLevel().String())
}

func TestRedactedYAML(t *testing.T) {
	var cfg ServerConfig

	cfg.SetDefaults()
	cfg.Basic.Secret = "deadbeef"

	out, err := cfg.redactedYAML()
	require.NoError(t, err)

	assert.Contains(t, string(out), redactedValue)
	assert.NotContains(t, string(out), "deadbeef")
	assert.Contains(t, string(out), "policyTTL: 10m0s")
	assert.Equal(t, "deadbeef", cfg.Basic.Secret)
}

func TestUnixSocketPermissions(t *testing.T) {
	tests := []struct {
		raw  string
		want os.FileMode
	}{
		{"", 0o666},
		{"660", 0o660},
		{"0600", 0o600},
		{"rw-rw----", 0o660},
	}

	for _, tt := range tests {
		var cfg ServerConfig

		cfg.Basic.UnixSocket = "/tmp/lp.sock"
		cfg.Basic.RawUnixSocketPermissions = tt.raw

		require.NoError(t, cfg.validateListener(), tt.raw)
		assert.Equal(t, tt.want, cfg.Basic.UnixSocketPermissions, tt.raw)
	}
}
