// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package feed holds the podcast domain model: feeds, their episodes, input
validation for the creation forms, and the RSS 2.0 document served to podcast
clients.
*/
package feed

import (
	"time"
)

// Feed is a podcast channel owned by a single user.
type Feed struct {
	ID          string
	Title       string
	Name        string
	Description string
	Language    string
	Email       string
	CreatedAt   time.Time
}

// Episode is one audio item of a feed.
type Episode struct {
	ID          string
	FeedID      string
	Title       string
	Description string
	Language    string
	Link        string
	PubDate     time.Time
}

// ChannelInfo holds the instance-wide values used for every channel.
type ChannelInfo struct {
	Title    string
	Link     string
	Category string
}
