// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// Media serves GET /media/{blob} with range support.
//
// It streams from disk and is registered without the buffering error handler.
func (a *App) Media(w http.ResponseWriter, r *http.Request) {
	blob := utils.GetPathVar(r, "blob")

	f, info, err := a.Bucket.Open(blob)
	if errors.Is(err, media.ErrNotFound) || errors.Is(err, media.ErrInvalidBlob) {
		http.Error(w, MsgNotFound, http.StatusNotFound)

		return
	}

	if err != nil {
		log.Err(err).Str("blob", blob).Msg("Failed to open media")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, "", info.ModTime(), f)
}
