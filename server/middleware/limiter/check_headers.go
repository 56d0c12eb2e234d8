// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"strings"
)

// botSubstrings lists case-insensitive User-Agent substrings of scripted
// clients. Podcast apps only read feeds and are never checked.
var botSubstrings = []string{
	"ahrefsbot",
	"bingbot",
	"curl",
	"go-http-client",
	"googlebot",
	"headlesschrome",
	"libwww-perl",
	"petalbot",
	"python-requests",
	"scrapy",
	"semrushbot",
	"wget",
	"yandexbot",
}

// blockedByHeaders returns a non-empty reason when r does not look like it
// came from a browser submitting one of our forms.
func blockedByHeaders(r *http.Request) string {
	ua := strings.ToLower(strings.TrimSpace(r.UserAgent()))
	if ua == "" {
		return "Missing User-Agent"
	}

	for _, bot := range botSubstrings {
		if strings.Contains(ua, bot) {
			return "Automated client"
		}
	}

	// Browsers label cross-site form posts; reject those outright.
	if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
		return "Cross-site request"
	}

	return ""
}
