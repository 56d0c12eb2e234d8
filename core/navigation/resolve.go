// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package navigation

// Result is the outcome of resolving a path.
//
// Exactly one of View and Redirect is set.
type Result struct {
	// View is the view to activate.
	View ViewID

	// Redirect is the view to redirect to when no literal route matched.
	Redirect ViewID
}

// IsRedirect reports whether the result is a redirect instruction.
func (r Result) IsRedirect() bool {
	return r.Redirect != ""
}

// Location returns the absolute path the browser should end up on.
func (r Result) Location() string {
	if r.IsRedirect() {
		return r.Redirect.Path()
	}

	return r.View.Path()
}

// Resolve selects the view for path.
//
// path is matched byte for byte against the literal routes, without a leading
// slash. Anything else (trailing slashes, extra segments, other letter case,
// escaped characters) falls through to the wildcard route.
func Resolve(path string) Result {
	for _, route := range routes {
		if route.IsWildcard() {
			continue
		}

		if route.Pattern == path {
			return Result{View: route.View}
		}
	}

	return fallback()
}

// fallback returns the result of the wildcard route.
func fallback() Result {
	for i := len(routes) - 1; i >= 0; i-- {
		if routes[i].IsWildcard() {
			return Result{Redirect: routes[i].RedirectTo}
		}
	}

	return Result{Redirect: Create}
}
