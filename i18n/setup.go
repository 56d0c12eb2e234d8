// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"
	"golang.org/x/text/language"
)

// BaseLocale is the language of message IDs.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

//go:embed locales/*.toml
var catalogues embed.FS

// catalog is one loaded set of message catalogues.
type catalog struct {
	bundle *goi18n.Bundle

	// tags lists the base locale first, then every loaded catalogue.
	tags []language.Tag

	matcher language.Matcher
}

// loaded is swapped whole so requests never see a half-loaded catalog.
var loaded atomic.Pointer[catalog]

// Setup loads every embedded catalogue. Calling it again reloads them.
func Setup() error {
	return setupFrom(catalogues, "locales")
}

func setupFrom(fsys fs.FS, dir string) error {
	b := goi18n.NewBundle(baseTag)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading message catalogues: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".toml" {
			continue
		}

		name := path.Join(dir, entry.Name())

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}

		if _, err := b.ParseMessageFileBytes(data, name); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	tags := []language.Tag{baseTag}

	for _, tag := range b.LanguageTags() {
		if tag != baseTag {
			tags = append(tags, tag)
		}
	}

	loaded.Store(&catalog{bundle: b, tags: tags, matcher: language.NewMatcher(tags)})

	log.Debug().
		Str("sys", "i18n").
		Int("locales", len(tags)).
		Msg("Loaded message catalogues")

	return nil
}

// Languages returns the supported languages, base locale first.
func Languages() []language.Tag {
	c := loaded.Load()
	if c == nil {
		return []language.Tag{baseTag}
	}

	return slices.Clone(c.tags)
}
