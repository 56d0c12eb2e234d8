// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"net/mail"

	"codeberg.org/launchpod/launchpod/server/session"
	"codeberg.org/launchpod/launchpod/server/utils"
)

// Login handles POST /login. Accounts are identified by email alone.
func (a *App) Login(w http.ResponseWriter, r *http.Request) error {
	addr, err := mail.ParseAddress(utils.GetFormValue(r, "email"))
	if err != nil {
		return NewStatusError(http.StatusBadRequest, MsgInvalidEmail)
	}

	session.Start(w, r, a.Signer, addr.Address, a.SessionTTL)

	returnPath := utils.SanitizeReturnPath(utils.GetFormValue(r, "returnPath"))
	if returnPath == "" {
		returnPath = "/my-feeds"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}

// Logout handles POST /logout.
func Logout(w http.ResponseWriter, r *http.Request) error {
	session.End(w, r)
	http.Redirect(w, r, "/create", http.StatusSeeOther)

	return nil
}
