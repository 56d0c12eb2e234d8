// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

// UnauthorizedError signals that a user must sign in to proceed.
//
// The error handling middleware catches it, sets the HTTP status to 401 and
// renders a login form that returns to LoginReturnPath.
type UnauthorizedError struct {
	LoginReturnPath string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized"
}

// NewUnauthorizedError returns an *UnauthorizedError.
func NewUnauthorizedError(loginReturnPath string) error {
	return &UnauthorizedError{LoginReturnPath: loginReturnPath}
}
