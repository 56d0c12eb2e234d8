// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"bytes"
	"net/http"
	"sync"

	"codeberg.org/launchpod/launchpod/core/highlight"
)

var highlightCSS = sync.OnceValues(func() ([]byte, error) {
	var buf bytes.Buffer
	if err := highlight.CSS(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
})

// HighlightCSS serves the stylesheet used by the feed preview page.
func HighlightCSS(w http.ResponseWriter, _ *http.Request) error {
	css, err := highlightCSS()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "max-age=604800")

	_, err = w.Write(css)

	return err
}
