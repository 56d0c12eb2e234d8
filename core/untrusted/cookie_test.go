// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/launchpod/launchpod/core/cookie"
)

func TestSetAndGetCookie(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)

	SetCookie(rr, r, cookie.SessionCookie, "v4.public.a+b/c=", time.Hour)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "Session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cookies[0].Expires, time.Minute)

	next := httptest.NewRequest(http.MethodGet, "/my-feeds", nil)
	next.AddCookie(cookies[0])

	assert.Equal(t, "v4.public.a+b/c=", GetCookie(next, cookie.SessionCookie))
	assert.Empty(t, GetCookie(next, cookie.LangCookie))
}

func TestEmptyValueClears(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)

	SetCookie(rr, r, cookie.LangCookie, "", time.Hour)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}
