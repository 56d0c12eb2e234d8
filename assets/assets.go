// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.
*/
package assets

import (
	"embed"
	"io/fs"
)

//go:embed css robots.txt templates
var FS embed.FS

// Static holds the files served as-is: css/ and robots.txt.
func Static() fs.FS {
	return FS
}
