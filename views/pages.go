// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"html/template"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/core/navigation"
)

type CreateData struct {
	Languages []media.LanguageOption
}

func Create(data CreateData) templ.Component {
	return page("create", Title(navigation.Create), data)
}

// EpisodeFormData feeds the MP3 and link forms.
type EpisodeFormData struct {
	Feeds []feed.Feed
}

func MP3Form(data EpisodeFormData) templ.Component {
	return page("mp3_form", Title(navigation.MP3Form), data)
}

func LinkForm(data EpisodeFormData) templ.Component {
	return page("link_form", Title(navigation.LinkForm), data)
}

// UploadFormData is a signed direct upload form for one feed.
type UploadFormData struct {
	Action  string
	Policy  string
	FeedID  string
	RSSLink string
}

// UploadFormPageData lists the user's feeds, or carries the form for the chosen one.
type UploadFormPageData struct {
	Feeds []feed.Feed
	Form  *UploadFormData
}

func UploadForm(data UploadFormPageData) templ.Component {
	return page("upload_form", Title(navigation.UploadForm), data)
}

// UploadFragment renders only the upload form, without the layout.
func UploadFragment(data UploadFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return execute(ctx, w, "fragment", "fragment", pageData{Data: data})
	})
}

// ProcessingData feeds the transcribe and translate forms.
type ProcessingData struct {
	Languages []media.LanguageOption
	Available bool
}

func Transcribe(data ProcessingData) templ.Component {
	return page("transcribe", Title(navigation.Transcribe), data)
}

func Translate(data ProcessingData) templ.Component {
	return page("translate", Title(navigation.Translate), data)
}

// FeedSummary is one row of the my-feeds list.
type FeedSummary struct {
	Feed        feed.Feed
	Episodes    int
	Created     string
	RSSLink     string
	PreviewLink string
}

type MyFeedsData struct {
	Feeds []FeedSummary
}

func MyFeeds(data MyFeedsData) templ.Component {
	return page("my_feeds", Title(navigation.MyFeeds), data)
}

type ErrorData struct {
	StatusCode int
	Message    string
}

// StatusText is the reason phrase for StatusCode.
func (d ErrorData) StatusText() string {
	return http.StatusText(d.StatusCode)
}

func Error(data ErrorData) templ.Component {
	return page("error", "Something went wrong", data)
}

type UnauthorizedData struct {
	LoginReturnPath string
}

func Unauthorized(data UnauthorizedData) templ.Component {
	return page("unauthorized", "Sign in", data)
}

type PreviewData struct {
	RSSLink     string
	Highlighted template.HTML
}

func Preview(data PreviewData) templ.Component {
	return page("preview", "Preview", data)
}
