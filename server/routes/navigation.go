// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/core/navigation"
	"codeberg.org/launchpod/launchpod/i18n"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/utils"
	"codeberg.org/launchpod/launchpod/views"
)

// myFeedsConcurrency bounds the episode queries of the my-feeds page.
const myFeedsConcurrency = 4

// Navigate resolves the request path to a page and renders it, or redirects
// to the create page when nothing matches.
//
// The escaped path is matched so that percent-encoded variants of a page
// name fall through to the redirect.
func (a *App) Navigate(w http.ResponseWriter, r *http.Request) error {
	result := navigation.Resolve(strings.TrimPrefix(r.URL.EscapedPath(), "/"))
	if result.IsRedirect() {
		http.Redirect(w, r, result.Location(), http.StatusFound)

		return nil
	}

	component, err := a.view(r, result.View)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return component.Render(r.Context(), w)
}

func (a *App) view(r *http.Request, v navigation.ViewID) (templ.Component, error) {
	ctx := r.Context()
	email := request_context.FromRequest(r).Email
	viewer := i18n.TagFrom(ctx)

	switch v {
	case navigation.Create:
		return views.Create(views.CreateData{Languages: media.LanguageOptions(viewer)}), nil

	case navigation.MP3Form, navigation.LinkForm:
		feeds, err := a.feedsOf(ctx, email)
		if err != nil {
			return nil, err
		}

		if v == navigation.MP3Form {
			return views.MP3Form(views.EpisodeFormData{Feeds: feeds}), nil
		}

		return views.LinkForm(views.EpisodeFormData{Feeds: feeds}), nil

	case navigation.UploadForm:
		return a.uploadFormView(r, email)

	case navigation.Transcribe:
		return views.Transcribe(views.ProcessingData{
			Languages: media.LanguageOptions(viewer),
			Available: available(a.Transcriber),
		}), nil

	case navigation.Translate:
		return views.Translate(views.ProcessingData{
			Languages: media.LanguageOptions(viewer),
			Available: available(a.Translator),
		}), nil

	case navigation.MyFeeds:
		data, err := a.myFeeds(r, email)
		if err != nil {
			return nil, err
		}

		return views.MyFeeds(data), nil
	}

	return nil, fmt.Errorf("no page for view %q", v)
}

// available reports whether a processing collaborator is configured.
func available(collaborator any) bool {
	switch collaborator.(type) {
	case nil, media.Unavailable, *media.Unavailable:
		return false
	}

	return true
}

// feedsOf lists the feeds of a signed-in user; visitors have none.
func (a *App) feedsOf(ctx context.Context, email string) ([]feed.Feed, error) {
	if email == "" {
		return nil, nil
	}

	return a.Store.ListFeedsByEmail(ctx, email)
}

func (a *App) uploadFormView(r *http.Request, email string) (templ.Component, error) {
	feeds, err := a.feedsOf(r.Context(), email)
	if err != nil {
		return nil, err
	}

	data := views.UploadFormPageData{Feeds: feeds}

	// a feed chosen from the list gets a freshly signed form
	if chosen := utils.GetQueryParam(r, "feedId"); chosen != "" {
		for _, f := range feeds {
			if f.ID == chosen {
				form := a.uploadForm(r, f.ID)
				data.Form = &form

				break
			}
		}
	}

	return views.UploadForm(data), nil
}

func (a *App) myFeeds(r *http.Request, email string) (views.MyFeedsData, error) {
	ctx := r.Context()

	feeds, err := a.feedsOf(ctx, email)
	if err != nil {
		return views.MyFeedsData{}, err
	}

	summaries := make([]views.FeedSummary, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(myFeedsConcurrency)

	for i, f := range feeds {
		g.Go(func() error {
			episodes, err := a.Store.ListEpisodes(gctx, f.ID)
			if err != nil {
				return fmt.Errorf("listing episodes of %s: %w", f.ID, err)
			}

			summaries[i] = views.FeedSummary{
				Feed:        f,
				Episodes:    len(episodes),
				Created:     i18n.Tr(ctx, "Created {{.Date}}", "Date", f.CreatedAt.UTC().Format("2006-01-02")),
				RSSLink:     a.rssLink(r, f.ID),
				PreviewLink: "/rss-feed?action=previewXml&id=" + f.ID,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return views.MyFeedsData{}, err
	}

	return views.MyFeedsData{Feeds: summaries}, nil
}
