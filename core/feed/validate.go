// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package feed

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// User-facing validation messages.
const (
	MsgNoTitle       = "No Title inputted, please try again."
	MsgNoDescription = "No description inputted, please try again."
	MsgNoLanguage    = "No language inputted, please try again."
	MsgNotLoggedIn   = "You are not logged in. Please try again."
	MsgBadLanguage   = "Invalid language, please try again."
	MsgNoLink        = "No link inputted, please try again."
	MsgBadLink       = "Invalid link, please use an http or https URL."
	MsgNoFeed        = "No feed selected, please try again."
)

// ValidationError reports a form value that cannot be accepted.
//
// Its message is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// NewFeedInput is the payload of the create form.
type NewFeedInput struct {
	Title       string
	Name        string
	Description string
	Language    string
	Email       string
}

// Validate trims and checks the input, canonicalizing the language tag.
//
// Fields are checked in form order and the first failure is returned.
func (in *NewFeedInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Language = strings.TrimSpace(in.Language)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Title == "":
		return invalid(MsgNoTitle)
	case in.Description == "":
		return invalid(MsgNoDescription)
	case in.Language == "":
		return invalid(MsgNoLanguage)
	case in.Email == "":
		return invalid(MsgNotLoggedIn)
	}

	tag, err := CanonicalLanguage(in.Language)
	if err != nil {
		return err
	}

	in.Language = tag

	if in.Name == "" {
		in.Name = in.Email
	}

	return nil
}

// NewEpisodeInput is the payload of the link and upload forms.
type NewEpisodeInput struct {
	FeedID      string
	Title       string
	Description string
	Link        string
}

// Validate trims and checks the input.
//
// Link is optional when requireLink is false; the upload form fills it in once
// the audio is stored.
func (in *NewEpisodeInput) Validate(requireLink bool) error {
	in.FeedID = strings.TrimSpace(in.FeedID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Link = strings.TrimSpace(in.Link)

	switch {
	case in.FeedID == "":
		return invalid(MsgNoFeed)
	case in.Title == "":
		return invalid(MsgNoTitle)
	case in.Description == "":
		return invalid(MsgNoDescription)
	}

	if !requireLink && in.Link == "" {
		return nil
	}

	return ValidateLink(in.Link)
}

// ValidateLink checks that raw is an absolute http or https URL.
func ValidateLink(raw string) error {
	if raw == "" {
		return invalid(MsgNoLink)
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(MsgBadLink)
	}

	return nil
}

// CanonicalLanguage parses a BCP 47 tag and returns its canonical form.
func CanonicalLanguage(raw string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil || tag == language.Und {
		return "", invalid(MsgBadLanguage)
	}

	return tag.String(), nil
}
