package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"microcms-sync/internal/domain"
)

const FeedName = "feed.xml"

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
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category,omitempty"`
}

type FeedInfo struct {
	Title       string
	SiteURL     string
	Description string
	PostsPath   string // default "posts"
}

// WriteFeed writes an RSS 2.0 feed of the non-draft entries, in the given order.
// Entries without a slug link by id.
func WriteFeed(w io.Writer, info FeedInfo, entries []domain.CollectionEntry) error {
	postsPath := strings.Trim(info.PostsPath, "/")
	if postsPath == "" {
		postsPath = "posts"
	}

	items := make([]rssItem, 0, len(entries))
	var newest time.Time
	for _, e := range entries {
		if e.IsDraft() {
			continue
		}
		slug := e.Slug
		if slug == "" {
			slug = e.ID
		}
		link := buildURL(info.SiteURL, postsPath, slug)

		item := rssItem{
			Title:       e.Data.Title,
			Link:        link,
			Description: e.Data.Description,
			GUID:        link,
		}
		if !e.Data.Published.IsZero() {
			item.PubDate = e.Data.Published.UTC().Format(time.RFC1123Z)
			if e.Data.Published.After(newest) {
				newest = e.Data.Published
			}
		}
		if c := e.CategoryName(); c != "" {
			item.Categories = append(item.Categories, c)
		}
		item.Categories = append(item.Categories, cleanStrings(e.Data.Tags)...)
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       info.Title,
			Link:        buildURL(info.SiteURL),
			Description: info.Description,
			Items:       items,
		},
	}
	if !newest.IsZero() {
		feed.Channel.LastBuildDate = newest.UTC().Format(time.RFC1123Z)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return fmt.Errorf("export: encode feed: %w", err)
	}
	return enc.Close()
}

// buildURL joins path segments onto base with a trailing slash.
func buildURL(base string, segments ...string) string {
	base = strings.TrimRight(base, "/")
	if len(segments) == 0 {
		return base + "/"
	}
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return base + "/" + strings.Join(escaped, "/") + "/"
}
