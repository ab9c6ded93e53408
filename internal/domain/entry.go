package domain

import "time"

// PostsCollection is the content collection every converted entry belongs to.
const PostsCollection = "posts"

// CollectionEntry is the shape the static site's content pipeline expects
// for one post.
type CollectionEntry struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Body       string    `json:"body"`
	Collection string    `json:"collection"`
	Data       EntryData `json:"data"`
}

type EntryData struct {
	Title       string    `json:"title"`
	Published   time.Time `json:"published"`
	Updated     time.Time `json:"updated"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Category    *string   `json:"category"`        // null when the post has no category
	Draft       *bool     `json:"draft,omitempty"` // absent when the post carries no flag

	// Navigation and locale are not filled for remote posts.
	Lang      string `json:"lang"`
	PrevTitle string `json:"prevTitle"`
	PrevSlug  string `json:"prevSlug"`
	NextTitle string `json:"nextTitle"`
	NextSlug  string `json:"nextSlug"`
}

// IsDraft treats a missing flag as published.
func (e CollectionEntry) IsDraft() bool {
	return e.Data.Draft != nil && *e.Data.Draft
}

// CategoryName returns the category or "" when unset.
func (e CollectionEntry) CategoryName() string {
	if e.Data.Category == nil {
		return ""
	}
	return *e.Data.Category
}
