// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMakeAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 4, 13, 7, 9, 0, time.UTC)

	id := MakeAt(at)

	assert.Len(t, id, Len)
	assert.Equal(t, "130709", id[:6])
}

func TestMakeIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})

	for range 64 {
		seen[Make()] = struct{}{}
	}

	// 24 bits of entropy per second; collisions among 64 draws are negligible
	assert.Greater(t, len(seen), 60)
}
