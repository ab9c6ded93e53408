package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"

	"microcms-sync/internal/domain"
)

const SnapshotName = "entries.json.br"

// Snapshot is everything one export run fetched, in one document.
type Snapshot struct {
	RunID       string                   `json:"runId"`
	GeneratedAt time.Time                `json:"generatedAt"`
	Entries     []domain.CollectionEntry `json:"entries"`
	Categories  []string                 `json:"categories"`
	Tags        []string                 `json:"tags"`
}

// WriteSnapshot writes s as brotli-compressed JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	if s.Entries == nil {
		s.Entries = []domain.CollectionEntry{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}

	bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
	if err := json.NewEncoder(bw).Encode(s); err != nil {
		bw.Close()
		return fmt.Errorf("export: encode snapshot: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("export: compress snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(brotli.NewReader(r)).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("export: decode snapshot: %w", err)
	}
	return s, nil
}
