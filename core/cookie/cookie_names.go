// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
//
// NOTE: We don't use the `__Host-` prefix so that plain HTTP deployments on a LAN can still sign in.
const (
	// SessionCookie holds a signed v4.public token naming the signed-in email.
	SessionCookie CookieName = "Session"

	// LangCookie remembers an explicit UI language choice.
	LangCookie CookieName = "Lang"
)

// AllCookieNames defines all cookies that can be set by the application.
var AllCookieNames = []CookieName{
	SessionCookie,
	LangCookie,
}

// IsHttpOnly reports whether scripts must be denied access to the cookie.
func IsHttpOnly(name CookieName) bool {
	return name == SessionCookie
}
