package mappers

import (
	"time"

	"microcms-sync/internal/domain"
	"microcms-sync/internal/microcms"
)

// EntryIDPrefix marks entries that came from microCMS rather than local files.
const EntryIDPrefix = "microcms-"

func PostToEntry(p microcms.Post) domain.CollectionEntry {
	return domain.CollectionEntry{
		ID:         EntryIDPrefix + p.ID,
		Slug:       p.Slug,
		Body:       p.Content,
		Collection: domain.PostsCollection,
		Data: domain.EntryData{
			Title:       p.Title,
			Published:   parseDate(p.PublishedAt),
			Updated:     parseDate(p.UpdatedAt),
			Description: p.Description,
			Image:       imageURL(p.Image),
			Tags:        tagNames(p.Tags),
			Category:    categoryName(p.Category),
			Draft:       copyBool(p.Draft),
		},
	}
}

// PostsToEntries keeps input order.
func PostsToEntries(posts []microcms.Post) []domain.CollectionEntry {
	out := make([]domain.CollectionEntry, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostToEntry(p))
	}
	return out
}

// parseDate returns the zero time for empty or malformed values.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func imageURL(img *microcms.Image) string {
	if img == nil {
		return ""
	}
	return img.URL
}

func tagNames(tags []microcms.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func categoryName(c *microcms.Category) *string {
	if c == nil || c.Name == "" {
		return nil
	}
	name := c.Name
	return &name
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
