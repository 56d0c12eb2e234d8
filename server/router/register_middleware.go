// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/server/middleware"
	"codeberg.org/launchpod/launchpod/server/middleware/limiter"
	"codeberg.org/launchpod/launchpod/server/middleware/set_request_context"
	"codeberg.org/launchpod/launchpod/server/routes"
)

// Dependencies are the services the router wires into handlers and middleware.
type Dependencies struct {
	App    *routes.App
	Signer *authenticated.Signer

	// Limiter is nil when rate limiting is disabled.
	Limiter *limiter.Limiter
}

// RegisterMiddleware installs the middleware chain.
func (router *Router) RegisterMiddleware(deps Dependencies) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.Compress)
	router.Use(set_request_context.WithRequestContext(deps.Signer)) // needed for everything else
	router.Use(middleware.SetResponseHeaders)                       // all pages need this

	if deps.Limiter != nil {
		router.Use(deps.Limiter.Evaluate)
	}
}
