// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"codeberg.org/launchpod/launchpod/core/navigation"
	"codeberg.org/launchpod/launchpod/i18n"
	"codeberg.org/launchpod/launchpod/server/request_context"
)

// Layout is the data shared by every page.
type Layout struct {
	Lang       string
	Title      string // message ID
	Path       string
	Nav        []NavLink
	Email      string
	SignedInAs string
	RequestID  string
}

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Path    string
	Label   string // message ID
	Current bool
}

type pageData struct {
	Layout
	Data any
}

var titles = map[navigation.ViewID]string{
	navigation.Create:     "Create a podcast",
	navigation.MP3Form:    "Upload an MP3",
	navigation.LinkForm:   "Add an episode by link",
	navigation.UploadForm: "Upload an episode",
	navigation.Transcribe: "Transcribe audio",
	navigation.Translate:  "Translate audio",
	navigation.MyFeeds:    "My feeds",
}

// Title returns the untranslated title of a view.
func Title(v navigation.ViewID) string {
	if t, ok := titles[v]; ok {
		return t
	}

	return string(v)
}

func layoutFor(ctx context.Context, title string) Layout {
	rc := request_context.FromContext(ctx)

	nav := make([]NavLink, 0, len(navigation.AllViews))
	for _, v := range navigation.AllViews {
		nav = append(nav, NavLink{
			Path:    v.Path(),
			Label:   Title(v),
			Current: rc.CurrentPath == v.Path() || (rc.CurrentPath == "/" && v == navigation.Create),
		})
	}

	l := Layout{
		Lang:      i18n.TagFrom(ctx).String(),
		Title:     title,
		Path:      rc.CurrentPath,
		Nav:       nav,
		Email:     rc.Email,
		RequestID: rc.RequestID,
	}

	if l.Email != "" {
		l.SignedInAs = i18n.Tr(ctx, "Signed in as {{.Email}}", "Email", l.Email)
	}

	return l
}
