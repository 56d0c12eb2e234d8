// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/storage"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// multipartMemory is how much of an episode upload is buffered in memory.
const multipartMemory = 8 << 20

// AddLinkEpisode handles POST /episodes from the link form.
func (a *App) AddLinkEpisode(w http.ResponseWriter, r *http.Request) error {
	if !request_context.FromRequest(r).LoggedIn() {
		return NewUnauthorizedError("/link-form")
	}

	in := feed.NewEpisodeInput{
		FeedID:      utils.GetFormValue(r, "feedId"),
		Title:       utils.GetFormValue(r, "title"),
		Description: utils.GetFormValue(r, "description"),
		Link:        utils.GetFormValue(r, "link"),
	}

	if err := in.Validate(true); err != nil {
		return err
	}

	f, err := a.ownedFeed(r, in.FeedID, "/link-form")
	if err != nil {
		return err
	}

	if err := a.addEpisode(r, f, storage.NewID(), in); err != nil {
		return err
	}

	http.Redirect(w, r, "/my-feeds", http.StatusSeeOther)

	return nil
}

// UploadEpisode handles POST /episodes/upload from the MP3 form.
func (a *App) UploadEpisode(w http.ResponseWriter, r *http.Request) error {
	if !request_context.FromRequest(r).LoggedIn() {
		return NewUnauthorizedError("/mp3-form")
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return uploadError(err)
	}

	in := feed.NewEpisodeInput{
		FeedID:      r.PostFormValue("feedId"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}

	if err := in.Validate(false); err != nil {
		return err
	}

	f, err := a.ownedFeed(r, in.FeedID, "/mp3-form")
	if err != nil {
		return err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return NewStatusError(http.StatusBadRequest, MsgNoFile)
	}
	defer file.Close()

	id := storage.NewID()

	if _, err := a.Bucket.Save(r.Context(), id, file, a.MaxUploadSize); err != nil {
		return uploadError(err)
	}

	in.Link = a.mediaLink(r, id)

	if err := a.addEpisode(r, f, id, in); err != nil {
		if rmErr := a.Bucket.Remove(id); rmErr != nil {
			log.Err(rmErr).Str("blob", id).Msg("Failed to remove orphaned upload")
		}

		return err
	}

	http.Redirect(w, r, "/my-feeds", http.StatusSeeOther)

	return nil
}

func (a *App) addEpisode(r *http.Request, f feed.Feed, id string, in feed.NewEpisodeInput) error {
	ep := feed.Episode{
		ID:          id,
		FeedID:      f.ID,
		Title:       in.Title,
		Description: in.Description,
		Language:    f.Language,
		Link:        in.Link,
		PubDate:     a.clock(),
	}

	if err := a.Store.AddEpisode(r.Context(), ep); err != nil {
		return storageError(err)
	}

	a.invalidate(f.ID)

	return nil
}
