package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"microcms-sync/internal/domain"
	"microcms-sync/internal/sync"
)

const ManifestName = "manifest.json"

// FileName is the per-entry file inside the export dir.
func FileName(id string) string {
	id = strings.TrimSpace(id)
	id = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(id)
	return id + ".json"
}

// WriteEntryFiles writes <id>.json for each entry whose id is in only.
// A nil only writes every entry. Returns the file names written.
func WriteEntryFiles(dir string, entries []domain.CollectionEntry, only []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: mkdir %s: %w", dir, err)
	}

	var want map[string]bool
	if only != nil {
		want = make(map[string]bool, len(only))
		for _, id := range only {
			want[id] = true
		}
	}

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if want != nil && !want[e.ID] {
			continue
		}
		b, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return written, fmt.Errorf("export: marshal %s: %w", e.ID, err)
		}
		name := FileName(e.ID)
		if err := os.WriteFile(filepath.Join(dir, name), append(b, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("export: write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

// RemoveEntryFiles deletes <id>.json for each id. Missing files are ignored.
func RemoveEntryFiles(dir string, ids []string) ([]string, error) {
	removed := make([]string, 0, len(ids))
	for _, id := range ids {
		name := FileName(id)
		err := os.Remove(filepath.Join(dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("export: remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// ReadManifest loads dir/manifest.json. A missing file yields an empty manifest.
func ReadManifest(dir string) (sync.Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return sync.Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("export: read manifest: %w", err)
	}
	m := sync.Manifest{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("export: parse manifest: %w", err)
	}
	return m, nil
}

func WriteManifest(dir string, m sync.Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", dir, err)
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: write manifest: %w", err)
	}
	return nil
}
