package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"microcms-sync/internal/concurrency"
	"microcms-sync/internal/config"
	"microcms-sync/internal/content"
	"microcms-sync/internal/export"
	"microcms-sync/internal/mappers"
	"microcms-sync/internal/microcms"
	"microcms-sync/internal/sftpclient"
	"microcms-sync/internal/sync"
)

// fetched is what one of the three parallel fetches brought back.
type fetched struct {
	name   string
	posts  []microcms.Post
	names  []string
	status content.Status
	err    error
}

// report is the outcome of writing one export.
type report struct {
	plan     sync.Plan
	entries  int
	uploads  []string
	removals []string
}

func main() {
	var (
		outDir     = flag.String("out", "", "export directory (default EXPORT_DIR)")
		full       = flag.Bool("full", false, "rewrite every entry file, not only the changed ones")
		uploadSFTP = flag.Bool("sftp", false, "upload changed files via SFTP")
	)
	flag.Parse()

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer rootCancel()

	cfg := config.Load()
	dir := *outDir
	if dir == "" {
		dir = cfg.ExportDir
	}

	adapter := content.New(microcms.NewFromConfig(cfg), log.Default())

	fetchCtx, fetchCancel := context.WithTimeout(rootCtx, 2*time.Minute)
	results := fetchAll(fetchCtx, adapter)
	fetchCancel()

	var (
		posts      []microcms.Post
		categories []string
		tags       []string
	)
	for _, r := range results {
		if r.status == content.StatusFailed {
			log.Printf("WARN: %s failed: %v (exporting without them)", r.name, r.err)
		}
		switch r.name {
		case "posts":
			posts = r.posts
		case "categories":
			categories = r.names
		case "tags":
			tags = r.names
		}
	}

	// sin posts no pisamos el export anterior
	if results[0].status == content.StatusFailed {
		log.Fatal("no posts fetched; keeping previous export")
	}

	info := export.FeedInfo{
		Title:   cfg.SiteTitle,
		SiteURL: cfg.SiteURL,
	}
	runID := uuid.NewString()
	rep, err := writeExport(dir, info, runID, posts, categories, tags, *full, time.Now().UTC())
	if err != nil {
		log.Fatal(err)
	}

	log.Printf(
		"run %s: exported %d entries to %s (created=%d, updated=%d, removed=%d, categories=%d, tags=%d)",
		runID,
		rep.entries,
		dir,
		len(rep.plan.Create),
		len(rep.plan.Update),
		len(rep.plan.Remove),
		len(categories),
		len(tags),
	)

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		res, err := sftpclient.Sync(upCtx, upCfg, dir, rep.uploads, rep.removals)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf(
			"synced to sftp://%s:%d%s (uploaded=%d, removed=%d)",
			upCfg.Host, upCfg.Port, upCfg.RemoteDir, len(res.Uploaded), len(res.Removed),
		)
	}
}

// fetchAll runs the posts, categories and tags fetches concurrently.
// The result order is always posts, categories, tags.
func fetchAll(ctx context.Context, a *content.Adapter) []fetched {
	kinds := []string{"posts", "categories", "tags"}

	results, _ := concurrency.ProcessParallel(ctx, kinds, concurrency.ParallelOptions{MaxWorkers: len(kinds)},
		func(ctx context.Context, _ int, kind string) (fetched, error) {
			switch kind {
			case "posts":
				r := a.FetchPosts(ctx)
				return fetched{name: kind, posts: r.Value, status: r.Status, err: r.Err}, nil
			case "categories":
				r := a.FetchCategories(ctx)
				return fetched{name: kind, names: categoryNames(r.Value), status: r.Status, err: r.Err}, nil
			default:
				r := a.FetchTags(ctx)
				return fetched{name: kind, names: tagNames(r.Value), status: r.Status, err: r.Err}, nil
			}
		})

	// un worker que no llego a arrancar deja el valor cero
	for i := range results {
		if results[i].name == "" {
			results[i] = fetched{name: kinds[i], status: content.StatusFailed, err: ctx.Err()}
		}
	}
	return results
}

// writeExport converts posts, diffs them against the manifest in dir and
// writes entry files, manifest, CSV index, feed and snapshot. The returned
// report lists the file names that changed, relative to dir. With full set
// every entry file is rewritten; removals still come from the old manifest.
func writeExport(
	dir string,
	info export.FeedInfo,
	runID string,
	posts []microcms.Post,
	categories, tags []string,
	full bool,
	now time.Time,
) (report, error) {
	entries := mappers.PostsToEntries(posts)

	next, err := sync.BuildManifest(entries)
	if err != nil {
		return report{}, err
	}

	// el manifest anterior siempre decide que se borra, tambien con -full
	prev, err := export.ReadManifest(dir)
	if err != nil {
		return report{}, err
	}
	plan := sync.Diff(prev, next)

	var only []string
	if !full {
		only = plan.Changed()
	}
	written, err := export.WriteEntryFiles(dir, entries, only)
	if err != nil {
		return report{}, err
	}
	removed, err := export.RemoveEntryFiles(dir, plan.Remove)
	if err != nil {
		return report{}, err
	}

	if err := export.WriteManifest(dir, next); err != nil {
		return report{}, err
	}
	if err := writeFile(dir, export.IndexCSVName, func(f *os.File) error {
		return export.WriteIndexCSV(f, entries)
	}); err != nil {
		return report{}, err
	}
	if err := writeFile(dir, export.FeedName, func(f *os.File) error {
		return export.WriteFeed(f, info, entries)
	}); err != nil {
		return report{}, err
	}
	if err := writeFile(dir, export.SnapshotName, func(f *os.File) error {
		return export.WriteSnapshot(f, export.Snapshot{
			RunID:       runID,
			GeneratedAt: now,
			Entries:     entries,
			Categories:  categories,
			Tags:        tags,
		})
	}); err != nil {
		return report{}, err
	}

	uploads := append(written, export.ManifestName, export.IndexCSVName, export.FeedName, export.SnapshotName)
	return report{
		plan:     plan,
		entries:  len(entries),
		uploads:  uploads,
		removals: removed,
	}, nil
}

func writeFile(dir, name string, fill func(f *os.File) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

func categoryNames(cats []microcms.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}

func tagNames(tags []microcms.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
