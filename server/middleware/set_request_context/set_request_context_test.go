// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/i18n"
	"codeberg.org/launchpod/launchpod/server/middleware"
	"codeberg.org/launchpod/launchpod/server/request_context"
	"codeberg.org/launchpod/launchpod/server/session"
)

func newSigner(t *testing.T) *authenticated.Signer {
	t.Helper()

	signer, err := authenticated.NewSigner(authenticated.NewSecretKeyHex())
	require.NoError(t, err)

	return signer
}

// TestWithRequestContext_AttachesContext tests that request context is properly attached.
func TestWithRequestContext_AttachesContext(t *testing.T) {
	t.Parallel()

	var got request_context.RequestContext

	handler := middleware.Wrap(WithRequestContext(newSigner(t)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *request_context.FromRequest(r)

		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/my-feeds", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, "/my-feeds", got.CurrentPath)
	assert.False(t, got.LoggedIn())
}

// TestWithRequestContext_GeneratesUniqueRequestIDs tests that each request gets a unique ID.
func TestWithRequestContext_GeneratesUniqueRequestIDs(t *testing.T) {
	t.Parallel()

	var requestIDs []string

	handler := middleware.Wrap(WithRequestContext(newSigner(t)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestIDs = append(requestIDs, request_context.FromRequest(r).RequestID)
	}))

	for range 3 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/create", nil))
	}

	require.Len(t, requestIDs, 3)
	assert.NotEqual(t, requestIDs[0], requestIDs[1])
	assert.NotEqual(t, requestIDs[1], requestIDs[2])
}

func TestWithRequestContext_ReadsSession(t *testing.T) {
	t.Parallel()

	signer := newSigner(t)

	login := httptest.NewRecorder()
	session.Start(login, httptest.NewRequest(http.MethodPost, "/login", nil), signer, "host@example.org", time.Hour)

	var email string

	handler := middleware.Wrap(WithRequestContext(signer), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email = request_context.FromRequest(r).Email
	}))

	r := httptest.NewRequest(http.MethodGet, "/my-feeds", nil)
	for _, c := range login.Result().Cookies() {
		r.AddCookie(c)
	}

	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "host@example.org", email)
}

func TestWithRequestContext_RemembersLanguageChoice(t *testing.T) {
	t.Parallel()
	require.NoError(t, i18n.Setup())

	var lang string

	handler := middleware.Wrap(WithRequestContext(newSigner(t)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = i18n.TagFrom(r.Context()).String()
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/create?lang=es", nil))

	assert.Equal(t, "es", lang)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "Lang", cookies[0].Name)
	assert.Equal(t, "es", cookies[0].Value)
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	t.Parallel()

	rc := request_context.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotNil(t, rc)
	assert.Empty(t, rc.RequestID)
}
