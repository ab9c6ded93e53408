package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"microcms-sync/internal/config"
	"microcms-sync/internal/content"
	"microcms-sync/internal/devutil"
	"microcms-sync/internal/microcms"
)

func main() {
	var (
		id     = flag.String("id", "", "fetch a single post and print its collection entry as JSON")
		asJSON = flag.Bool("json", false, "print converted entries as JSON instead of summaries")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.Load()
	if (cfg.ServiceDomain == "" && cfg.BaseURL == "") || cfg.APIKey == "" {
		log.Fatal("missing env vars: MICROCMS_SERVICE_DOMAIN / MICROCMS_API_KEY")
	}

	a := content.New(microcms.NewFromConfig(cfg), log.Default())

	if *id != "" {
		r := a.FetchPost(ctx, *id)
		if r.Value == nil {
			log.Fatalf("post %s: %s", *id, r.Status)
		}
		printJSON(a.ToEntry(*r.Value))
		return
	}

	posts := a.FetchPosts(ctx)
	if posts.Failed() {
		log.Fatalf("list posts error: %v", posts.Err)
	}

	if *asJSON {
		entries := make([]any, 0, len(posts.Value))
		for _, p := range posts.Value {
			entries = append(entries, a.ToEntry(p))
		}
		printJSON(entries)
		return
	}

	fmt.Printf("OK: fetched %d posts\n", len(posts.Value))
	for i, p := range posts.Value {
		fmt.Printf("%d) %s\n", i+1, devutil.Line(p, "id", "title", "slug", "publishedAt"))
	}

	cats := a.ListCategories(ctx)
	fmt.Printf("OK: fetched %d categories\n", len(cats))
	for i, c := range cats {
		fmt.Printf("%d) %s\n", i+1, devutil.Line(c, "id", "name", "slug"))
	}

	tags := a.ListTags(ctx)
	fmt.Printf("OK: fetched %d tags\n", len(tags))
	for i, t := range tags {
		fmt.Printf("%d) %s\n", i+1, devutil.Line(t, "id", "name", "slug"))
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
