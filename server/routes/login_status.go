// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// LoginStatus is the JSON body of GET /login-status.
type LoginStatus struct {
	IsLoggedIn bool          `json:"isLoggedIn"`
	Message    string        `json:"message"`
	Feeds      []FeedListing `json:"feeds"`
}

// FeedListing describes one feed of the signed-in user.
type FeedListing struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	RSSLink     string `json:"rssLink"`
	Description string `json:"description"`
	Email       string `json:"email"`
	PostTime    string `json:"postTime"`
	KeyID       string `json:"keyId"`
}

// GetLoginStatus handles GET /login-status.
func (a *App) GetLoginStatus(w http.ResponseWriter, r *http.Request) error {
	email := request_context.FromRequest(r).Email

	status := LoginStatus{
		IsLoggedIn: email != "",
		Message:    "You are not logged in.",
		Feeds:      []FeedListing{},
	}

	if status.IsLoggedIn {
		status.Message = "Logged in as " + email + "."

		feeds, err := a.feedsOf(r.Context(), email)
		if err != nil {
			return err
		}

		for _, f := range feeds {
			status.Feeds = append(status.Feeds, FeedListing{
				Title:       f.Title,
				Name:        f.Name,
				RSSLink:     a.rssLink(r, f.ID),
				Description: f.Description,
				Email:       f.Email,
				PostTime:    f.CreatedAt.UTC().Format(time.RFC3339),
				KeyID:       f.ID,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	return json.NewEncoder(w).Encode(status)
}

// DeleteFeed handles POST /login-status, deleting the feed named by keyId
// with its episodes and stored audio.
//
// It answers 204, or redirects to returnPath when the form sends one.
func (a *App) DeleteFeed(w http.ResponseWriter, r *http.Request) error {
	email := request_context.FromRequest(r).Email
	if email == "" {
		return NewUnauthorizedError("/my-feeds")
	}

	id := utils.GetFormValue(r, "keyId")
	if id == "" {
		return NewStatusError(http.StatusBadRequest, MsgMissingActionOrID)
	}

	f, err := a.ownedFeed(r, id, "/my-feeds")
	if err != nil {
		return err
	}

	episodes, err := a.Store.ListEpisodes(r.Context(), f.ID)
	if err != nil {
		return err
	}

	if err := a.Store.DeleteFeed(r.Context(), f.ID, email); err != nil {
		return storageError(err)
	}

	a.invalidate(f.ID)

	// the first episode's audio is stored under the feed ID
	blobs := []string{f.ID}
	for _, ep := range episodes {
		blobs = append(blobs, ep.ID)
	}

	for _, blob := range blobs {
		if err := a.Bucket.Remove(blob); err != nil {
			log.Err(err).Str("blob", blob).Msg("Failed to remove audio of deleted feed")
		}
	}

	if returnPath := utils.SanitizeReturnPath(utils.GetFormValue(r, "returnPath")); returnPath != "" {
		http.Redirect(w, r, returnPath, http.StatusSeeOther)

		return nil
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
