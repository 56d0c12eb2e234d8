// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/i18n"
	"codeberg.org/launchpod/launchpod/server/middleware"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/session"
)

// WithRequestContext returns a middleware that attaches a RequestContext to
// each HTTP request, identifying the user by the session cookie signed with signer.
// An explicit language choice in the query is remembered for later requests.
func WithRequestContext(signer *authenticated.Signer) middleware.Middleware {
	identify := func(r *http.Request) string {
		return session.Read(r, signer)
	}

	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		i18n.RememberChoice(w, r)
		next.ServeHTTP(w, r.WithContext(request_context.WithRequestContext(r.Context(), r, identify)))
	}
}
