// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP request handling layers shared by every route.

Route definitions are centralized in router.DefineRoutes; the middleware chain is
assembled in router.RegisterMiddleware.
*/
package middleware
