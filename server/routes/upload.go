// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// multipartOverhead is the allowance for form fields and part headers on top of the audio.
const multipartOverhead = 1 << 20

// maxPolicySize bounds the policy form field.
const maxPolicySize = 4 << 10

// Upload handles POST /upload/{blob}, the target of signed upload forms.
//
// The policy field must precede the file so the upload is authorized before
// any audio is written.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) error {
	blob := utils.GetPathVar(r, "blob")

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadSize+multipartOverhead)

	reader, err := r.MultipartReader()
	if err != nil {
		return NewStatusError(http.StatusBadRequest, MsgNoFile)
	}

	var policy *authenticated.Policy

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return uploadError(err)
		}

		switch part.FormName() {
		case "policy":
			p, err := a.readPolicy(part, blob)
			if err != nil {
				return err
			}

			policy = &p

		case "file":
			if policy == nil {
				return NewStatusError(http.StatusForbidden, MsgInvalidPolicy)
			}

			n, err := a.Bucket.Save(r.Context(), blob, part, a.MaxUploadSize)
			if err != nil {
				return uploadError(err)
			}

			log.Info().Str("blob", blob).Int64("bytes", n).Msg("Stored upload")

			redirect := utils.SanitizeReturnPath(policy.Redirect)
			if redirect == "" {
				redirect = "/my-feeds"
			}

			http.Redirect(w, r, redirect, http.StatusSeeOther)

			return nil
		}
	}

	return NewStatusError(http.StatusBadRequest, MsgNoFile)
}

func (a *App) readPolicy(part *multipart.Part, blob string) (authenticated.Policy, error) {
	raw, err := io.ReadAll(io.LimitReader(part, maxPolicySize))
	if err != nil {
		return authenticated.Policy{}, uploadError(err)
	}

	p, err := a.Signer.VerifyUploadPolicy(string(raw), blob)
	if err != nil {
		log.Debug().Err(err).Str("blob", blob).Msg("Rejected upload policy")

		return authenticated.Policy{}, NewStatusError(http.StatusForbidden, MsgInvalidPolicy)
	}

	return p, nil
}

// uploadError maps storage and body read failures to responses.
func uploadError(err error) error {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, media.ErrTooLarge), errors.As(err, &maxBytes):
		return NewStatusError(http.StatusRequestEntityTooLarge, MsgTooLarge)
	case errors.Is(err, media.ErrInvalidBlob):
		return NewStatusError(http.StatusNotFound, MsgNotFound)
	}

	return fmt.Errorf("receiving upload: %w", err)
}
