// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/config"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/views"
)

// Messages sent with StatusError responses.
const (
	MsgMissingActionOrID = "Please specify action and/or id."
	MsgInvalidID         = "Sorry, this is not a valid id."
	MsgInvalidAction     = "Sorry, this is not a valid action."
	MsgNotFound          = "Your entity could not be found."
	MsgInvalidPolicy     = "This upload form has expired, please reload the page."
	MsgTooLarge          = "The file is too large."
	MsgNoFile            = "No file selected, please try again."
	MsgInvalidEmail      = "Please enter a valid email address."
	MsgUnavailable       = "This feature is not available on this server."
	MsgInvalidLanguage   = "Invalid language, please try again."
	MsgNoText            = "No text inputted, please try again."
)

// StatusError is answered with its status code and Message as a plain text body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return http.StatusText(e.Code) + ": " + e.Message
}

// NewStatusError returns a *StatusError.
func NewStatusError(code int, message string) error {
	return &StatusError{Code: code, Message: message}
}

// ErrorPage renders an error page.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	ctx := request_context.FromRequest(r)

	pageData := views.ErrorData{StatusCode: ctx.StatusCode}

	// internal errors may contain paths and queries; only show them to developers
	if ctx.RequestError != nil && config.Global.Development.InDevelopment {
		pageData.Message = ctx.RequestError.Error()
	}

	var statusErr *StatusError
	if errors.As(ctx.RequestError, &statusErr) {
		pageData.Message = statusErr.Message
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render the error page")
	}
}
