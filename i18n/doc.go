// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates user interface text.

Message catalogues are TOML files embedded from locales/ and loaded into a
go-i18n bundle by Setup. The message ID is the original English text, so a
missing translation falls back to readable English:

	i18n.Tr(ctx, "Create a podcast")
	i18n.Tr(ctx, "Signed in as {{.Email}}", "Email", email)

The language for a request is chosen by FromRequest and carried in the
request context with WithTag.
*/
package i18n
