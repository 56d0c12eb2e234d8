// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"go.uber.org/atomic"

	"codeberg.org/launchpod/launchpod/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Launchpod-Version and Launchpod-Revision are added dynamically in SetResponseHeaders.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"same-origin"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// csp allows same-origin forms, styles and audio only. No page runs scripts.
	csp = strings.Join([]string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'none'",
		"style-src 'self'",
		"img-src 'self' data:",
		"media-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ") + ";"

	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Launchpod-Version", config.BuildVersion)
	headers.Set("Launchpod-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", csp)

	next.ServeHTTP(w, r)
}

var clearedDevCache = atomic.NewBool(false)

// invalidateCacheInDevelopment asks the browser to drop its cache once per process.
func invalidateCacheInDevelopment(headers http.Header) {
	if clearedDevCache.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets the default cache policy. Handlers may override it.
func setCacheControl(headers http.Header, path string) {
	// pages depend on the session, so keep them in the browser cache only
	cacheDuration := "private, no-cache"

	if strings.HasPrefix(path, "/css/") {
		cacheDuration = "max-age=604800"
	}

	if strings.HasSuffix(path, ".txt") {
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
