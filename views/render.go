// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/launchpod/launchpod/assets"
	"codeberg.org/launchpod/launchpod/i18n"
)

// shared holds the templates included in every page set.
var shared = []string{"templates/layout.html", "templates/upload_fragment.html"}

// pageSets maps a page file to its parsed template set.
var pageSets = map[string]*template.Template{}

// placeholderFuncs exist so templates parse; render replaces them per request.
var placeholderFuncs = template.FuncMap{
	"tr": func(msgid string, _ ...any) string { return msgid },
}

func init() {
	for _, page := range []string{
		"create", "mp3_form", "link_form", "upload_form", "transcribe",
		"translate", "my_feeds", "error", "unauthorized", "preview",
	} {
		files := append([]string{"templates/" + page + ".html"}, shared...)
		pageSets[page] = template.Must(template.New(page).Funcs(placeholderFuncs).ParseFS(assets.FS, files...))
	}

	pageSets["fragment"] = template.Must(template.New("fragment").Funcs(placeholderFuncs).ParseFS(assets.FS, shared...))
}

// execute clones the named set, binds the request's language and runs entry.
func execute(ctx context.Context, w io.Writer, set, entry string, data any) error {
	base, ok := pageSets[set]
	if !ok {
		return fmt.Errorf("views: unknown template set %q", set)
	}

	t, err := base.Clone()
	if err != nil {
		return fmt.Errorf("views: cloning %s: %w", set, err)
	}

	t.Funcs(template.FuncMap{
		"tr": func(msgid string, kv ...any) string { return i18n.Tr(ctx, msgid, kv...) },
	})

	if err := t.ExecuteTemplate(w, entry, data); err != nil {
		return fmt.Errorf("views: rendering %s: %w", set, err)
	}

	return nil
}

// page renders set inside the shared layout with the given title message ID.
func page(set, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return execute(ctx, w, set, "layout", pageData{
			Layout: layoutFor(ctx, title),
			Data:   data,
		})
	})
}
