// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package media

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnavailable is returned by collaborators that are not configured on this instance.
var ErrUnavailable = errors.New("media processing is not available on this instance")

var errInvalidTargetLanguage = errors.New("invalid target language")

// Transcriber produces a text transcript of an episode's audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string, lang language.Tag) (string, error)
}

// Translator translates a transcript into another language.
type Translator interface {
	Translate(ctx context.Context, text string, from, to language.Tag) (string, error)
}

// Unavailable implements Transcriber and Translator by refusing every request.
type Unavailable struct{}

func (Unavailable) Transcribe(context.Context, string, language.Tag) (string, error) {
	return "", ErrUnavailable
}

func (Unavailable) Translate(context.Context, string, language.Tag, language.Tag) (string, error) {
	return "", ErrUnavailable
}

// TargetLanguages are the languages offered on the translate form.
var TargetLanguages = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
	language.Portuguese,
	language.Japanese,
	language.Korean,
	language.SimplifiedChinese,
	language.Hindi,
	language.Arabic,
}

// LanguageOption is a selectable language with its name in the viewer's language.
type LanguageOption struct {
	Tag  string
	Name string
}

// LanguageOptions returns TargetLanguages named in the language of viewer, sorted by name.
func LanguageOptions(viewer language.Tag) []LanguageOption {
	namer := display.Tags(viewer)
	options := make([]LanguageOption, 0, len(TargetLanguages))

	for _, tag := range TargetLanguages {
		name := namer.Name(tag)
		if name == "" {
			name = tag.String()
		}

		options = append(options, LanguageOption{Tag: tag.String(), Name: name})
	}

	sort.Slice(options, func(i, j int) bool {
		return strings.ToLower(options[i].Name) < strings.ToLower(options[j].Name)
	})

	return options
}

// ParseTargetLanguage accepts only tags listed in TargetLanguages.
func ParseTargetLanguage(raw string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return language.Und, errInvalidTargetLanguage
	}

	for _, target := range TargetLanguages {
		if target == tag {
			return tag, nil
		}
	}

	return language.Und, errInvalidTargetLanguage
}
