// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package authenticated issues and verifies the signed tokens Launchpod hands to
browsers: session cookies and audio upload policies.

Tokens are PASETO v4.public, signed with the instance secret key.
*/
package authenticated

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"
)

// implicit is the domain separation assertion. Changing it invalidates every issued token.
const implicit = "Launchpod podcast hosting"

const (
	sessionSubject = "session"
	uploadSubject  = "upload policy"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrBlobMismatch = errors.New("upload policy does not cover this blob")

	errExpired = errors.New("this token has expired")
)

// NewSecretKeyHex generates a fresh secret key in the format accepted by [NewSigner].
func NewSecretKeyHex() string {
	return paseto.NewV4AsymmetricSecretKey().ExportHex()
}

// Signer signs and verifies tokens with a single key pair.
//
// Issue and expiry times are both read from the same clock.
type Signer struct {
	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
	now    func() time.Time

	sessionParser paseto.Parser
	uploadParser  paseto.Parser
}

// NewSigner loads a hex encoded v4 secret key.
func NewSigner(secretHex string) (*Signer, error) {
	secret, err := paseto.NewV4AsymmetricSecretKeyFromHex(strings.TrimSpace(secretHex))
	if err != nil {
		return nil, fmt.Errorf("failed to load secret key: %w", err)
	}

	s := &Signer{secret: secret, public: secret.Public(), now: time.Now}
	s.sessionParser = paseto.MakeParser([]paseto.Rule{s.notExpired(), paseto.Subject(sessionSubject)})
	s.uploadParser = paseto.MakeParser([]paseto.Rule{s.notExpired(), paseto.Subject(uploadSubject)})

	return s, nil
}

// notExpired checks the token expiry against the signer's clock.
func (s *Signer) notExpired() paseto.Rule {
	return func(token paseto.Token) error {
		exp, err := token.GetExpiration()
		if err != nil {
			return err
		}

		if s.now().After(exp) {
			return errExpired
		}

		return nil
	}
}

// SignSession returns a session token for email valid for ttl.
func (s *Signer) SignSession(email string, ttl time.Duration) string {
	token := paseto.NewToken()
	token.SetIssuedAt(s.now())
	token.SetExpiration(s.now().Add(ttl))
	token.SetSubject(sessionSubject)
	token.SetString("email", email)

	return token.V4Sign(s.secret, []byte(implicit))
}

// VerifySession returns the email a valid session token was issued for.
func (s *Signer) VerifySession(signed string) (string, error) {
	token, err := s.sessionParser.ParseV4Public(s.public, signed, []byte(implicit))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	email, err := token.GetString("email")
	if err != nil || email == "" {
		return "", ErrInvalidToken
	}

	return email, nil
}

// Policy authorizes a single upload of one blob.
type Policy struct {
	// Blob is the object name the upload will be stored as.
	Blob string

	// Redirect is where the browser is sent after a successful upload.
	Redirect string

	// Expires is when the policy stops being accepted.
	Expires time.Time
}

// SignUploadPolicy returns the signed form of p.
func (s *Signer) SignUploadPolicy(p Policy) string {
	token := paseto.NewToken()
	token.SetIssuedAt(s.now())
	token.SetExpiration(p.Expires)
	token.SetSubject(uploadSubject)
	token.SetString("blob", p.Blob)
	token.SetString("redirect", p.Redirect)

	return token.V4Sign(s.secret, []byte(implicit))
}

// VerifyUploadPolicy checks a signed policy and that it covers blob.
func (s *Signer) VerifyUploadPolicy(signed, blob string) (Policy, error) {
	token, err := s.uploadParser.ParseV4Public(s.public, signed, []byte(implicit))
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var p Policy

	if p.Blob, err = token.GetString("blob"); err != nil {
		return Policy{}, ErrInvalidToken
	}

	if p.Redirect, err = token.GetString("redirect"); err != nil {
		return Policy{}, ErrInvalidToken
	}

	if p.Expires, err = token.GetExpiration(); err != nil {
		return Policy{}, ErrInvalidToken
	}

	if p.Blob != blob {
		return Policy{}, ErrBlobMismatch
	}

	return p, nil
}
