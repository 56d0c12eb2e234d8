// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context provides per-request state management for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/launchpod/launchpod/core/idgen"
	"codeberg.org/launchpod/launchpod/i18n"
)

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID is an identifier for tracing requests.
	RequestID string

	// Holds any critical error encountered during request processing.
	//
	// Automatically populated by middleware.CatchError when handlers return errors,
	// which interrupts normal response handling and renders an error page instead.
	RequestError error

	// HTTP status code to be sent in the response. Defaults to 200 OK.
	StatusCode int

	// Email of the signed-in user, empty for visitors.
	Email string

	// CurrentPath is the request path, used to highlight the active navigation link.
	CurrentPath string

	T language.Tag
}

// LoggedIn reports whether the request carried a valid session.
func (rc *RequestContext) LoggedIn() bool {
	return rc.Email != ""
}

// Identify returns the signed-in email for r, or "".
type Identify func(r *http.Request) string

// requestContextKeyType defines a unique type for a RequestContext key.
type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext initializes a new request context and attaches it to
// the parent context. identify may be nil.
func WithRequestContext(ctx context.Context, r *http.Request, identify Identify) context.Context {
	ctx = i18n.WithTag(ctx, i18n.FromRequest(r))

	rc := RequestContext{
		RequestID:   idgen.Make(),
		StatusCode:  http.StatusOK,
		CurrentPath: r.URL.Path,
		T:           i18n.TagFrom(ctx),
	}

	if identify != nil {
		rc.Email = identify(r)
	}

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext extracts the RequestContext from a context, always returning
// a valid pointer.
//
// If no context is found, returns a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if v := ctx.Value(requestContextKey); v != nil {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}

	return &RequestContext{}
}

// FromRequest is a convenience wrapper for extracting RequestContext
// directly from HTTP requests.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
