// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// maxTranslateText bounds the text accepted by the translate form.
const maxTranslateText = 64 << 10

// Transcribe handles POST /transcribe.
func (a *App) Transcribe(w http.ResponseWriter, r *http.Request) error {
	link := strings.TrimSpace(utils.GetFormValue(r, "link"))
	if err := feed.ValidateLink(link); err != nil {
		return err
	}

	lang, err := media.ParseTargetLanguage(utils.GetFormValue(r, "language"))
	if err != nil {
		return NewStatusError(http.StatusBadRequest, MsgInvalidLanguage)
	}

	if !available(a.Transcriber) {
		return NewStatusError(http.StatusNotImplemented, MsgUnavailable)
	}

	text, err := a.Transcriber.Transcribe(r.Context(), link, lang)
	if err != nil {
		return processingError(err)
	}

	return writeText(w, text)
}

// Translate handles POST /translate.
func (a *App) Translate(w http.ResponseWriter, r *http.Request) error {
	text := strings.TrimSpace(utils.GetFormValue(r, "text"))
	if text == "" {
		return NewStatusError(http.StatusBadRequest, MsgNoText)
	}

	if len(text) > maxTranslateText {
		return NewStatusError(http.StatusRequestEntityTooLarge, MsgTooLarge)
	}

	var (
		from, to language.Tag
		err      error
	)

	if from, err = media.ParseTargetLanguage(utils.GetFormValue(r, "from")); err != nil {
		return NewStatusError(http.StatusBadRequest, MsgInvalidLanguage)
	}

	if to, err = media.ParseTargetLanguage(utils.GetFormValue(r, "target")); err != nil {
		return NewStatusError(http.StatusBadRequest, MsgInvalidLanguage)
	}

	if !available(a.Translator) {
		return NewStatusError(http.StatusNotImplemented, MsgUnavailable)
	}

	out, err := a.Translator.Translate(r.Context(), text, from, to)
	if err != nil {
		return processingError(err)
	}

	return writeText(w, out)
}

func processingError(err error) error {
	if errors.Is(err, media.ErrUnavailable) {
		return NewStatusError(http.StatusNotImplemented, MsgUnavailable)
	}

	return err
}

func writeText(w http.ResponseWriter, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	_, err := w.Write([]byte(text))

	return err
}
