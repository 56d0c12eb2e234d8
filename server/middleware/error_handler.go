// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/audit"
	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/routes"
	"codeberg.org/launchpod/launchpod/views"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// The handler's output is buffered using an httptest.ResponseRecorder and any
// returned error is stored in the request context. The final response is then:
//   - a 401 page with a login form for a *routes.UnauthorizedError;
//   - the error's status and plain text message for a *routes.StatusError;
//   - 400 with the message as body for a *feed.ValidationError;
//   - the generic 500 page for any other error, unless the handler already
//     wrote an error status;
//   - the generic 404 page when the handler wrote 404 without an error;
//   - the buffered response otherwise.
//
// Every request is logged once through an audit span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Kind:      audit.HTTP,
			RequestID: ctx.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
		}

		// Spans begun by the handler nest under this request's task.
		r = r.WithContext(span.Begin(r.Context()))
		defer span.End()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err
		span.Size = recorder.Body.Len()

		var (
			unauthErr     *routes.UnauthorizedError
			statusErr     *routes.StatusError
			validationErr *feed.ValidationError
		)

		switch {
		case errors.As(err, &unauthErr):
			ctx.StatusCode = http.StatusUnauthorized

			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(ctx.StatusCode)

			if renderErr := views.Unauthorized(views.UnauthorizedData{
				LoginReturnPath: unauthErr.LoginReturnPath,
			}).Render(r.Context(), w); renderErr != nil {
				log.Err(renderErr).
					Str("original_error", err.Error()).
					Msg("Failed to render the unauthorized page after an authorization error")
			}

		case errors.As(err, &statusErr):
			ctx.StatusCode = statusErr.Code
			writePlain(w, ctx.StatusCode, statusErr.Message)

		case errors.As(err, &validationErr):
			ctx.StatusCode = http.StatusBadRequest
			writePlain(w, ctx.StatusCode, validationErr.Message)

		case (err != nil && recorder.Code < http.StatusBadRequest) || (err == nil && recorder.Code == http.StatusNotFound):
			if recorder.Code == http.StatusNotFound {
				ctx.StatusCode = http.StatusNotFound
			} else {
				ctx.StatusCode = http.StatusInternalServerError
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(ctx.StatusCode)
			routes.ErrorPage(w, r) // uses ctx.RequestError and ctx.StatusCode

		default:
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code
			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError
		span.End()
		span.Log()
	}
}

func writePlain(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	_, _ = w.Write([]byte(message))
}
