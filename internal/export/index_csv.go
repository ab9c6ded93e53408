package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"microcms-sync/internal/domain"
)

const IndexCSVName = "posts.csv"

// Keep header order EXACT; downstream sheets key on it.
var indexHeader = []string{
	"ID",
	"SLUG",
	"TITLE",
	"PUBLISHED",
	"UPDATED",
	"CATEGORY",
	"TAGS",
	"DRAFT",
	"IMAGE_URL",
}

// WriteIndexCSV writes one row per entry, in the given order.
func WriteIndexCSV(w io.Writer, entries []domain.CollectionEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(indexHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(toIndexRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toIndexRow(e domain.CollectionEntry) []string {
	draft := ""
	if e.Data.Draft != nil {
		draft = strconv.FormatBool(*e.Data.Draft)
	}
	tags := strings.Join(cleanStrings(e.Data.Tags), " | ")

	return []string{
		e.ID,                         // ID
		e.Slug,                       // SLUG
		oneLine(e.Data.Title),        // TITLE
		formatTime(e.Data.Published), // PUBLISHED
		formatTime(e.Data.Updated),   // UPDATED
		e.CategoryName(),             // CATEGORY
		tags,                         // TAGS
		draft,                        // DRAFT
		e.Data.Image,                 // IMAGE_URL
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = oneLine(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
