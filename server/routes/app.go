// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers.

Handlers have the signature func(w http.ResponseWriter, r *http.Request) error
and are adapted by middleware.CatchError, which renders returned errors.
*/
package routes

import (
	"fmt"
	"net/http"
	"time"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/feedcache"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/core/storage"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// App carries the services shared by the handlers.
type App struct {
	Store  *storage.Store
	Cache  *feedcache.Cache // nil disables caching
	Signer *authenticated.Signer
	Bucket *media.Bucket

	Transcriber media.Transcriber
	Translator  media.Translator

	// Channel fills the instance-wide fields of every RSS document.
	Channel feed.ChannelInfo

	// PublicURL replaces the request origin in generated links when set.
	PublicURL string

	MaxUploadSize int64
	PolicyTTL     time.Duration
	SessionTTL    time.Duration

	// FeedMaxAge and FeedStaleWhileRevalidate set Cache-Control on feed documents.
	FeedMaxAge               time.Duration
	FeedStaleWhileRevalidate time.Duration

	now func() time.Time
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}

	return time.Now()
}

// origin is the scheme and host used in links handed to podcast clients.
func (a *App) origin(r *http.Request) string {
	if a.PublicURL != "" {
		return a.PublicURL
	}

	return utils.GetOriginFromRequest(r)
}

func (a *App) mediaLink(r *http.Request, blob string) string {
	return a.origin(r) + "/media/" + blob
}

func (a *App) rssLink(r *http.Request, feedID string) string {
	return a.origin(r) + "/rss-feed?action=generateXml&id=" + feedID
}

func (a *App) feedCacheControl() string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(a.FeedMaxAge.Seconds()),
		int(a.FeedStaleWhileRevalidate.Seconds()))
}

// invalidate drops the cached document of feedID.
func (a *App) invalidate(feedID string) {
	if a.Cache != nil {
		a.Cache.Remove(feedID)
	}
}
