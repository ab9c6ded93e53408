package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"microcms-sync/internal/domain"
)

// Manifest maps an entry id to the hash of its exported JSON.
// It is also the schema of manifest.json in the export dir.
type Manifest map[string]string

// Plan lists entry ids to write or remove, each sorted.
type Plan struct {
	Create []string
	Update []string
	Remove []string
}

func (p Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Remove) == 0
}

// Changed returns Create and Update merged, sorted.
func (p Plan) Changed() []string {
	out := make([]string, 0, len(p.Create)+len(p.Update))
	out = append(out, p.Create...)
	out = append(out, p.Update...)
	sort.Strings(out)
	return out
}

// Hash is the sha256 of the entry's JSON encoding.
func Hash(e domain.CollectionEntry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("sync: hash %s: %w", e.ID, err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// BuildManifest hashes every entry. Entries with an empty id are skipped.
func BuildManifest(entries []domain.CollectionEntry) (Manifest, error) {
	m := make(Manifest, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			continue
		}
		h, err := Hash(e)
		if err != nil {
			return nil, err
		}
		m[e.ID] = h
	}
	return m, nil
}

// Diff compares the previous export with the next one.
//   - create: in next only
//   - update: in both with a different hash
//   - remove: in prev only
func Diff(prev, next Manifest) Plan {
	var p Plan
	for id, h := range next {
		old, ok := prev[id]
		switch {
		case !ok:
			p.Create = append(p.Create, id)
		case old != h:
			p.Update = append(p.Update, id)
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			p.Remove = append(p.Remove, id)
		}
	}
	sort.Strings(p.Create)
	sort.Strings(p.Update)
	sort.Strings(p.Remove)
	return p
}
