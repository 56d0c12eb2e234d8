// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short request identifiers for logs and error pages.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Len is the length of every identifier returned by Make.
const Len = len(timeLayout) + 4

const timeLayout = "150405"

// Make makes a request ID out of the wall clock time (HHMMSS) and 3 random bytes.
//
// The time prefix lets an operator find the log line a user reports.
func Make() string {
	return MakeAt(time.Now())
}

// MakeAt is Make with an explicit clock.
func MakeAt(t time.Time) string {
	var entropy [3]byte

	_, _ = rand.Read(entropy[:])

	return t.UTC().Format(timeLayout) + base64.RawURLEncoding.EncodeToString(entropy[:])
}
