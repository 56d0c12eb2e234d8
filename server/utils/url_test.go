// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/launchpod/launchpod/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", false, "https://example.com"},
		{"Valid URL with path", "https://example.com/path", false, "https://example.com/path"},
		{"Missing scheme", "example.com", true, ""},
		{"Missing host", "https://", true, ""},
		{"Trailing slash", "https://example.com/", false, "https://example.com"},
		{"Empty URL", "", true, ""},
		{"URL with query params", "https://example.com/path?q=test", false, "https://example.com/path?q=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			if assert.NoError(t, err) {
				assert.Equal(t, tt.expected, got.String())
			}
		})
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                      "",
		"/my-feeds":             "/my-feeds",
		"  /create ":            "/create",
		"my-feeds":              "",
		"//evil.example":        "",
		"https://evil.example/": "",
		"/\\evil.example":       "",
	}

	for in, want := range tests {
		assert.Equal(t, want, utils.SanitizeReturnPath(in), in)
	}
}

func TestGetOriginFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://pods.example/create", nil)
	assert.Equal(t, "http://pods.example", utils.GetOriginFromRequest(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://pods.example", utils.GetOriginFromRequest(r))

	proxied := httptest.NewRequest(http.MethodGet, "http://pods.example/create", nil)
	proxied.RemoteAddr = "10.0.0.2:1234"
	proxied.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://pods.example", utils.GetOriginFromRequest(proxied))

	spoofed := httptest.NewRequest(http.MethodGet, "http://pods.example/create", nil)
	spoofed.RemoteAddr = "203.0.113.9:1234"
	spoofed.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "http://pods.example", utils.GetOriginFromRequest(spoofed))
}

func TestFormAndQueryDefaults(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/rss-feed?action=generateXml", nil)

	assert.Equal(t, "generateXml", utils.GetQueryParam(r, "action"))
	assert.Equal(t, "none", utils.GetQueryParam(r, "id", "none"))
	assert.Equal(t, "generateXml", utils.GetFormValue(r, "action"))
	assert.Empty(t, utils.GetPathVar(r, "blob"))
	assert.True(t, utils.IsWriteMethod(http.MethodDelete))
	assert.False(t, utils.IsWriteMethod(http.MethodHead))
}
