// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package session keeps the signed-in email in a signed cookie.
package session

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/core/cookie"
	"codeberg.org/launchpod/launchpod/core/untrusted"
)

// Read returns the email carried by a valid session cookie, or "".
func Read(r *http.Request, signer *authenticated.Signer) string {
	token := untrusted.GetCookie(r, cookie.SessionCookie)
	if token == "" || signer == nil {
		return ""
	}

	email, err := signer.VerifySession(token)
	if err != nil {
		log.Debug().Err(err).Msg("Ignoring invalid session cookie")

		return ""
	}

	return email
}

// Start signs email and stores it for ttl.
func Start(w http.ResponseWriter, r *http.Request, signer *authenticated.Signer, email string, ttl time.Duration) {
	untrusted.SetCookie(w, r, cookie.SessionCookie, signer.SignSession(email, ttl), ttl)
}

// End clears the session cookie along with every other cookie the
// application stored in this browser.
func End(w http.ResponseWriter, r *http.Request) {
	untrusted.ClearAllCookies(w, r)
}
