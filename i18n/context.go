// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"codeberg.org/launchpod/launchpod/core/cookie"
	"codeberg.org/launchpod/launchpod/core/untrusted"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LangParam is the query parameter that overrides the Accept-Language header.
const LangParam = "lang"

// choiceTTL is how long an explicit language choice is remembered.
const choiceTTL = 365 * 24 * time.Hour

// WithTag returns a context carrying t.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the tag stored in ctx, or the base language.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, ok := ctx.Value(tagKey).(language.Tag); ok && t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// FromRequest picks the best supported language for r.
//
// Preferences are read from the [LangParam] query parameter, then the
// [cookie.LangCookie] cookie, then the Accept-Language header. "auto" in the query
// ignores the cookie.
func FromRequest(r *http.Request) language.Tag {
	c := loaded.Load()
	if r == nil || c == nil {
		return baseTag
	}

	q := r.URL.Query().Get(LangParam)
	auto := strings.EqualFold(q, "auto")

	preferred := make([]string, 0, 3)
	if q != "" && !auto {
		preferred = append(preferred, q)
	}

	if !auto {
		if c := untrusted.GetCookie(r, cookie.LangCookie); c != "" {
			preferred = append(preferred, c)
		}
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	tag, index, confidence := c.matcher.Match(parseAll(preferred)...)
	if confidence == language.No {
		return baseTag
	}

	// the matcher may return a tag with -u- extensions; report the supported one
	if index >= 0 && index < len(c.tags) {
		return c.tags[index]
	}

	return tag
}

// RememberChoice persists an explicit [LangParam] choice in the
// [cookie.LangCookie] cookie so later pages keep the language. "auto" forgets
// it; unsupported languages are ignored.
func RememberChoice(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get(LangParam))
	if q == "" {
		return
	}

	if strings.EqualFold(q, "auto") {
		if untrusted.GetCookie(r, cookie.LangCookie) != "" {
			untrusted.ClearCookie(w, r, cookie.LangCookie)
		}

		return
	}

	c := loaded.Load()
	if c == nil {
		return
	}

	tag, err := language.Parse(q)
	if err != nil {
		return
	}

	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(c.tags) {
		return
	}

	chosen := c.tags[index].String()
	if untrusted.GetCookie(r, cookie.LangCookie) == chosen {
		return
	}

	untrusted.SetCookie(w, r, cookie.LangCookie, chosen, choiceTTL)
}

func parseAll(preferred []string) []language.Tag {
	var tags []language.Tag

	for _, p := range preferred {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}

		tags = append(tags, parsed...)
	}

	return tags
}
