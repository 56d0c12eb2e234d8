// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package navigation

// ViewID names a page-level view.
type ViewID string

// Views served by Launchpod.
const (
	Create     ViewID = "create"
	MP3Form    ViewID = "mp3-form"
	LinkForm   ViewID = "link-form"
	UploadForm ViewID = "upload-form"
	Transcribe ViewID = "transcribe"
	Translate  ViewID = "translate"
	MyFeeds    ViewID = "my-feeds"
)

// Wildcard is the pattern of the catch-all route.
const Wildcard = "**"

// AllViews lists every view in display order.
var AllViews = []ViewID{Create, MP3Form, LinkForm, UploadForm, Transcribe, Translate, MyFeeds}

// Path returns the canonical absolute path of the view.
func (v ViewID) Path() string {
	return "/" + string(v)
}

func (v ViewID) String() string {
	return string(v)
}

// Route pairs a path pattern with the view it activates.
//
// A Route with the Wildcard pattern has no view; it redirects to RedirectTo.
type Route struct {
	Pattern    string
	View       ViewID
	RedirectTo ViewID
}

// IsWildcard reports whether the route is the catch-all route.
func (r Route) IsWildcard() bool {
	return r.Pattern == Wildcard
}

// routes is the application route table. The wildcard entry must stay last.
var routes = []Route{
	{Pattern: "", View: Create},
	{Pattern: "create", View: Create},
	{Pattern: "mp3-form", View: MP3Form},
	{Pattern: "link-form", View: LinkForm},
	{Pattern: "upload-form", View: UploadForm},
	{Pattern: "transcribe", View: Transcribe},
	{Pattern: "translate", View: Translate},
	{Pattern: "my-feeds", View: MyFeeds},
	{Pattern: Wildcard, RedirectTo: Create},
}

// Routes returns a copy of the route table in evaluation order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)

	return out
}
