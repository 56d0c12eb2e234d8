// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedInputValidate(t *testing.T) {
	t.Parallel()

	valid := NewFeedInput{
		Title:       "Weekly Go",
		Description: "News about Go",
		Language:    "en-us",
		Email:       "host@example.com",
	}

	tests := []struct {
		name    string
		mutate  func(in *NewFeedInput)
		wantMsg string
	}{
		{"valid", func(*NewFeedInput) {}, ""},
		{"missing title", func(in *NewFeedInput) { in.Title = "  " }, MsgNoTitle},
		{"missing description", func(in *NewFeedInput) { in.Description = "" }, MsgNoDescription},
		{"missing language", func(in *NewFeedInput) { in.Language = "" }, MsgNoLanguage},
		{"missing email", func(in *NewFeedInput) { in.Email = "" }, MsgNotLoggedIn},
		{"title checked first", func(in *NewFeedInput) { in.Title, in.Email = "", "" }, MsgNoTitle},
		{"bad language", func(in *NewFeedInput) { in.Language = "not a language" }, MsgBadLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := valid
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestNewFeedInputDefaults(t *testing.T) {
	t.Parallel()

	in := NewFeedInput{Title: " T ", Description: "D", Language: "en-us", Email: "a@b.c"}
	require.NoError(t, in.Validate())

	assert.Equal(t, "T", in.Title)
	assert.Equal(t, "en-US", in.Language)
	assert.Equal(t, "a@b.c", in.Name)
}

func TestNewEpisodeInputValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          NewEpisodeInput
		requireLink bool
		wantMsg     string
	}{
		{"valid link", NewEpisodeInput{FeedID: "f", Title: "t", Description: "d", Link: "https://cdn.test/a.mp3"}, true, ""},
		{"no feed", NewEpisodeInput{Title: "t", Description: "d", Link: "https://x.test"}, true, MsgNoFeed},
		{"no link", NewEpisodeInput{FeedID: "f", Title: "t", Description: "d"}, true, MsgNoLink},
		{"link optional", NewEpisodeInput{FeedID: "f", Title: "t", Description: "d"}, false, ""},
		{"relative link", NewEpisodeInput{FeedID: "f", Title: "t", Description: "d", Link: "/a.mp3"}, true, MsgBadLink},
		{"ftp link", NewEpisodeInput{FeedID: "f", Title: "t", Description: "d", Link: "ftp://x.test/a.mp3"}, true, MsgBadLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.in.Validate(tt.requireLink)
			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestValidateLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		link    string
		wantMsg string
	}{
		{"https://cdn.test/a.mp3", ""},
		{"http://cdn.test/a.mp3?x=1", ""},
		{"", MsgNoLink},
		{"cdn.test/a.mp3", MsgBadLink},
		{"https:///a.mp3", MsgBadLink},
		{"javascript:alert(1)", MsgBadLink},
		{"http://[::1", MsgBadLink},
	}

	for _, tt := range tests {
		err := ValidateLink(tt.link)
		if tt.wantMsg == "" {
			assert.NoError(t, err, tt.link)

			continue
		}

		var verr *ValidationError
		if assert.ErrorAs(t, err, &verr, tt.link) {
			assert.Equal(t, tt.wantMsg, verr.Message)
		}
	}
}

func TestEncodeDocument(t *testing.T) {
	t.Parallel()

	pub := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	f := Feed{
		ID:          "feed-1",
		Title:       "Weekly Go",
		Name:        "Gopher",
		Description: "News about Go",
		Language:    "en-US",
		Email:       "host@example.com",
	}
	episodes := []Episode{
		{ID: "ep-1", FeedID: f.ID, Title: "Pilot", Description: "First", Link: "https://x.test/media/feed-1", PubDate: pub},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Document(ChannelInfo{Link: "https://x.test"}, f, episodes)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">`)
	assert.Contains(t, out, "<title>Launchpod</title>")
	assert.Contains(t, out, "<itunes:email>host@example.com</itunes:email>")
	assert.Contains(t, out, `<itunes:category text="Technology"></itunes:category>`)
	assert.Contains(t, out, "<pubDate>Tue, 04 Mar 2025 05:06:07 +0000</pubDate>")
	assert.Contains(t, out, `<enclosure url="https://x.test/media/feed-1" type="audio/mpeg"></enclosure>`)
	assert.Contains(t, out, "<language>en-US</language>")
}
