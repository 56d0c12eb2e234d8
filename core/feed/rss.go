// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// itunesNamespace is the podcast extension namespace understood by podcast apps.
const itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"

// Defaults for ChannelInfo fields left empty.
const (
	DefaultChannelTitle    = "Launchpod"
	DefaultChannelCategory = "Technology"
)

// RSS is the root element of a podcast feed.
type RSS struct {
	XMLName  xml.Name `xml:"rss"`
	Version  string   `xml:"version,attr"`
	ItunesNS string   `xml:"xmlns:itunes,attr"`
	Channel  Channel  `xml:"channel"`
}

// Channel describes the podcast.
type Channel struct {
	Title          string         `xml:"title"`
	Link           string         `xml:"link"`
	Language       string         `xml:"language"`
	Description    string         `xml:"description"`
	ItunesOwner    ItunesOwner    `xml:"itunes:owner"`
	ItunesAuthor   string         `xml:"itunes:author"`
	ItunesCategory ItunesCategory `xml:"itunes:category"`
	Items          []Item         `xml:"item"`
}

// ItunesOwner identifies who to contact about the podcast.
type ItunesOwner struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email"`
}

// ItunesCategory is the podcast directory category.
type ItunesCategory struct {
	Text string `xml:"text,attr"`
}

// Item is one episode.
type Item struct {
	Title       string    `xml:"title,omitempty"`
	Link        string    `xml:"link,omitempty"`
	Description string    `xml:"description,omitempty"`
	Language    string    `xml:"language,omitempty"`
	Email       string    `xml:"email,omitempty"`
	PubDate     string    `xml:"pubDate,omitempty"`
	GUID        guid      `xml:"guid"`
	Enclosure   enclosure `xml:"enclosure"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// Document builds the RSS document of f with its episodes in the given order.
func Document(info ChannelInfo, f Feed, episodes []Episode) *RSS {
	if info.Title == "" {
		info.Title = DefaultChannelTitle
	}

	if info.Category == "" {
		info.Category = DefaultChannelCategory
	}

	items := make([]Item, 0, len(episodes))

	for _, ep := range episodes {
		lang := ep.Language
		if lang == "" {
			lang = f.Language
		}

		items = append(items, Item{
			Title:       ep.Title,
			Link:        ep.Link,
			Description: ep.Description,
			Language:    lang,
			Email:       f.Email,
			PubDate:     ep.PubDate.UTC().Format(time.RFC1123Z),
			GUID:        guid{Value: ep.ID},
			Enclosure:   enclosure{URL: ep.Link, Type: "audio/mpeg"},
		})
	}

	return &RSS{
		Version:  "2.0",
		ItunesNS: itunesNamespace,
		Channel: Channel{
			Title:          info.Title,
			Link:           info.Link,
			Language:       f.Language,
			Description:    f.Description,
			ItunesOwner:    ItunesOwner{Name: f.Name, Email: f.Email},
			ItunesAuthor:   f.Name,
			ItunesCategory: ItunesCategory{Text: info.Category},
			Items:          items,
		},
	}
}

// Encode writes doc as an indented XML document.
func Encode(w io.Writer, doc *RSS) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode rss document: %w", err)
	}

	return encoder.Close()
}
