// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/launchpod/launchpod/core/audit"
	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/highlight"
	"codeberg.org/launchpod/launchpod/core/storage"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/session"
	"codeberg.org/launchpod/launchpod/server/utils"
	"codeberg.org/launchpod/launchpod/views"
)

// Actions accepted by GET /rss-feed.
const (
	ActionGenerateRSSLink = "generateRSSLink"
	ActionGenerateXML     = "generateXml"
	ActionUploadForm      = "uploadForm"
	ActionPreviewXML      = "previewXml"
)

// CreateFeed handles POST /rss-feed.
//
// It stores the feed with a first episode whose audio is expected at
// /media/<feed id>, and answers with a signed form to upload that audio.
// A visitor is signed in as the email they entered.
func (a *App) CreateFeed(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	email := request_context.FromRequest(r).Email

	in := feed.NewFeedInput{
		Title:       utils.GetFormValue(r, "title"),
		Name:        utils.GetFormValue(r, "name"),
		Description: utils.GetFormValue(r, "description"),
		Language:    utils.GetFormValue(r, "language"),
		Email:       utils.GetFormValue(r, "email"),
	}

	// the session wins over whatever the form claims
	if email != "" {
		in.Email = email
	}

	if err := in.Validate(); err != nil {
		return err
	}

	now := a.clock()

	f := feed.Feed{
		ID:          storage.NewID(),
		Title:       in.Title,
		Name:        in.Name,
		Description: in.Description,
		Language:    in.Language,
		Email:       in.Email,
		CreatedAt:   now,
	}

	if err := a.Store.CreateFeed(ctx, f); err != nil {
		return err
	}

	first := feed.Episode{
		ID:          storage.NewID(),
		FeedID:      f.ID,
		Title:       f.Title,
		Description: f.Description,
		Language:    f.Language,
		Link:        a.mediaLink(r, f.ID),
		PubDate:     now,
	}

	if err := a.Store.AddEpisode(ctx, first); err != nil {
		return err
	}

	if email == "" {
		session.Start(w, r, a.Signer, f.Email, a.SessionTTL)
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return views.UploadFragment(a.uploadForm(r, f.ID)).Render(ctx, w)
}

// uploadForm signs a policy allowing one upload of the audio of feedID.
func (a *App) uploadForm(r *http.Request, feedID string) views.UploadFormData {
	policy := a.Signer.SignUploadPolicy(authenticated.Policy{
		Blob:     feedID,
		Redirect: "/rss-feed?action=" + ActionGenerateRSSLink + "&id=" + feedID,
		Expires:  a.clock().Add(a.PolicyTTL),
	})

	return views.UploadFormData{
		Action:  "/upload/" + feedID,
		Policy:  policy,
		FeedID:  feedID,
		RSSLink: a.rssLink(r, feedID),
	}
}

// FeedAction handles GET /rss-feed?action=..&id=..
func (a *App) FeedAction(w http.ResponseWriter, r *http.Request) error {
	action := utils.GetQueryParam(r, "action")
	id := utils.GetQueryParam(r, "id")

	if action == "" || id == "" {
		return NewStatusError(http.StatusBadRequest, MsgMissingActionOrID)
	}

	switch action {
	case ActionGenerateRSSLink:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := w.Write([]byte(a.rssLink(r, id)))

		return err

	case ActionGenerateXML:
		doc, err := a.feedDocument(r, id)
		if err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Header().Set("Cache-Control", a.feedCacheControl())
		_, err = w.Write(doc)

		return err

	case ActionUploadForm:
		f, err := a.ownedFeed(r, id, "/upload-form")
		if err != nil {
			return err
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		return views.UploadFragment(a.uploadForm(r, f.ID)).Render(r.Context(), w)

	case ActionPreviewXML:
		doc, err := a.feedDocument(r, id)
		if err != nil {
			return err
		}

		highlighted, err := highlight.XML(doc)
		if err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		return views.Preview(views.PreviewData{
			RSSLink:     a.rssLink(r, id),
			Highlighted: highlighted,
		}).Render(r.Context(), w)
	}

	return NewStatusError(http.StatusBadRequest, MsgInvalidAction)
}

// feedDocument returns the encoded RSS document of id, from the cache when possible.
func (a *App) feedDocument(r *http.Request, id string) ([]byte, error) {
	var gen uint64

	if a.Cache != nil {
		if doc, ok := a.Cache.Get(id); ok {
			return doc, nil
		}

		gen = a.Cache.Generation()
	}

	span := audit.Span{
		Kind:      audit.Render,
		RequestID: request_context.FromRequest(r).RequestID,
		Method:    ActionGenerateXML,
		URL:       id,
	}
	ctx := span.Begin(r.Context())
	defer span.End()

	f, episodes, err := a.loadFeed(ctx, id)
	if err != nil {
		return nil, err
	}

	info := a.Channel
	if info.Link == "" {
		info.Link = a.origin(r)
	}

	var buf bytes.Buffer
	if err := feed.Encode(&buf, feed.Document(info, f, episodes)); err != nil {
		return nil, fmt.Errorf("encoding feed %s: %w", id, err)
	}

	span.End()
	span.Size = buf.Len()
	span.Log()

	if a.Cache != nil {
		a.Cache.AddIfCurrent(id, buf.Bytes(), gen)
	}

	return buf.Bytes(), nil
}

func (a *App) loadFeed(ctx context.Context, id string) (feed.Feed, []feed.Episode, error) {
	f, err := a.Store.GetFeed(ctx, id)
	if err != nil {
		return feed.Feed{}, nil, storageError(err)
	}

	episodes, err := a.Store.ListEpisodes(ctx, id)
	if err != nil {
		return feed.Feed{}, nil, err
	}

	return f, episodes, nil
}

// ownedFeed loads id and checks it belongs to the signed-in user.
// Feeds of other users are reported as missing.
func (a *App) ownedFeed(r *http.Request, id, loginReturnPath string) (feed.Feed, error) {
	email := request_context.FromRequest(r).Email
	if email == "" {
		return feed.Feed{}, NewUnauthorizedError(loginReturnPath)
	}

	f, err := a.Store.GetFeed(r.Context(), id)
	if err != nil {
		return feed.Feed{}, storageError(err)
	}

	if f.Email != email {
		return feed.Feed{}, NewStatusError(http.StatusNotFound, MsgNotFound)
	}

	return f, nil
}

// storageError maps lookup failures to their user-facing responses.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		return NewStatusError(http.StatusBadRequest, MsgInvalidID)
	case errors.Is(err, storage.ErrNotFound):
		return NewStatusError(http.StatusNotFound, MsgNotFound)
	}

	return err
}
