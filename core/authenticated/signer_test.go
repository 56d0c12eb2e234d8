// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package authenticated

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()

	s, err := NewSigner(NewSecretKeyHex())
	require.NoError(t, err)

	return s
}

func TestNewSignerRejectsBadKey(t *testing.T) {
	t.Parallel()

	_, err := NewSigner("not hex")
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)

	email, err := s.VerifySession(s.SignSession("host@example.com", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", email)

	_, err = s.VerifySession(s.SignSession("host@example.com", -time.Minute))
	require.ErrorIs(t, err, ErrInvalidToken)

	other := newTestSigner(t)
	_, err = other.VerifySession(s.SignSession("host@example.com", time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUploadPolicy(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	expires := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	signed := s.SignUploadPolicy(Policy{Blob: "feed-1", Redirect: "/done", Expires: expires})

	p, err := s.VerifyUploadPolicy(signed, "feed-1")
	require.NoError(t, err)
	assert.Equal(t, "feed-1", p.Blob)
	assert.Equal(t, "/done", p.Redirect)
	assert.True(t, p.Expires.Equal(expires))

	_, err = s.VerifyUploadPolicy(signed, "feed-2")
	require.ErrorIs(t, err, ErrBlobMismatch)

	expired := s.SignUploadPolicy(Policy{Blob: "feed-1", Expires: time.Now().Add(-time.Second)})
	_, err = s.VerifyUploadPolicy(expired, "feed-1")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiryUsesSignerClock(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	issued := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	signed := s.SignUploadPolicy(Policy{Blob: "feed-1", Expires: issued.Add(10 * time.Minute)})
	session := s.SignSession("host@example.com", time.Hour)

	_, err := s.VerifyUploadPolicy(signed, "feed-1")
	require.NoError(t, err, "a policy is valid until its expiry on the signer's clock")

	_, err = s.VerifySession(session)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(11 * time.Minute) }

	_, err = s.VerifyUploadPolicy(signed, "feed-1")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)

	session := s.SignSession("host@example.com", time.Hour)
	_, err := s.VerifyUploadPolicy(session, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	policy := s.SignUploadPolicy(Policy{Blob: "b", Expires: time.Now().Add(time.Hour)})
	_, err = s.VerifySession(policy)
	require.ErrorIs(t, err, ErrInvalidToken)
}
