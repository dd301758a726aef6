// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"unfoldingmind/internal/blog"
	"unfoldingmind/internal/markdown"
	"unfoldingmind/internal/models"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// FeedInfo is the channel metadata of the RSS feed.
type FeedInfo struct {
	Title       string
	SiteURL     string // frontend base URL; posts live at SiteURL/blog/{slug}
	Description string
}

// Feed serves an RSS 2.0 feed of published posts.
type Feed struct {
	posts *blog.Service
	info  FeedInfo
}

// NewFeed creates a new Feed handler.
func NewFeed(posts *blog.Service, info FeedInfo) *Feed {
	return &Feed{posts: posts, info: info}
}

// RSS writes the feed. Each item's description is the post excerpt, or the
// rendered content when the post has no excerpt.
func (f *Feed) RSS(w http.ResponseWriter, r *http.Request) {
	posts, err := f.posts.ListPublished(r.Context())
	if err != nil {
		writeError(w, r, err, msgPublicNotFound)
		return
	}

	items := make([]rssItem, 0, len(posts))
	for i := range posts {
		items = append(items, f.item(&posts[i]))
	}

	channel := rssChannel{
		Title:       f.info.Title,
		Link:        f.info.SiteURL,
		Description: f.info.Description,
		Items:       items,
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].PublicationDate.UTC().Format(time.RFC1123Z)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(rssXML{Version: "2.0", Channel: channel}); err != nil {
		slog.Warn("encode feed", "error", err)
	}
}

func (f *Feed) item(p *models.Post) rssItem {
	link := f.postURL(p.Slug)

	description := p.Summary()
	if description == "" {
		rendered, err := markdown.ToHTML(p.Content)
		if err != nil {
			slog.Warn("render feed item", "slug", p.Slug, "error", err)
			rendered = p.Content
		}
		description = rendered
	}

	return rssItem{
		Title:       p.Title,
		Link:        link,
		Description: description,
		PubDate:     p.PublicationDate.UTC().Format(time.RFC1123Z),
		GUID:        rssGUID{Value: link, IsPermaLink: true},
	}
}

func (f *Feed) postURL(slug string) string {
	u, err := url.JoinPath(f.info.SiteURL, "blog", slug)
	if err != nil {
		return f.info.SiteURL + "/blog/" + slug
	}
	return u
}
