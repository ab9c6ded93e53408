// Package content is the single entry point the site build uses to read
// posts, categories and tags from microCMS.
//
// Every fetch degrades instead of failing: list operations return an empty
// slice and GetPost returns nil, after logging what went wrong. Callers that
// need to tell "nothing there" from "request failed" use the Fetch* variants.
package content

import (
	"context"
	"errors"
	"log"

	"microcms-sync/internal/domain"
	"microcms-sync/internal/mappers"
	"microcms-sync/internal/microcms"
)

// ListLimit is the fixed page size of every list request. No further pages are fetched.
const ListLimit = 100

const (
	postsEndpoint      = "posts"
	categoriesEndpoint = "categories"
	tagsEndpoint       = "tags"
)

// Source is satisfied by *microcms.Client.
type Source = microcms.Getter

type Adapter struct {
	src Source
	log *log.Logger
}

// New binds an adapter to src. A nil logger means log.Default().
func New(src Source, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{src: src, log: logger}
}

func (a *Adapter) ListPosts(ctx context.Context) []microcms.Post {
	return a.FetchPosts(ctx).Value
}

func (a *Adapter) GetPost(ctx context.Context, id string) *microcms.Post {
	return a.FetchPost(ctx, id).Value
}

func (a *Adapter) ListCategories(ctx context.Context) []microcms.Category {
	return a.FetchCategories(ctx).Value
}

func (a *Adapter) ListTags(ctx context.Context) []microcms.Tag {
	return a.FetchTags(ctx).Value
}

// ToEntry converts a post into the site's collection entry.
func (a *Adapter) ToEntry(p microcms.Post) domain.CollectionEntry {
	return mappers.PostToEntry(p)
}

func (a *Adapter) FetchPosts(ctx context.Context) Result[[]microcms.Post] {
	return fetchList[microcms.Post](ctx, a, "posts", postsEndpoint, "-publishedAt")
}

func (a *Adapter) FetchCategories(ctx context.Context) Result[[]microcms.Category] {
	return fetchList[microcms.Category](ctx, a, "categories", categoriesEndpoint, "name")
}

func (a *Adapter) FetchTags(ctx context.Context) Result[[]microcms.Tag] {
	return fetchList[microcms.Tag](ctx, a, "tags", tagsEndpoint, "name")
}

func (a *Adapter) FetchPost(ctx context.Context, id string) Result[*microcms.Post] {
	p, err := microcms.GetObject[microcms.Post](ctx, a.src, postsEndpoint, id, microcms.Queries{})
	if err == nil && p.ID == "" {
		err = microcms.ErrNotFound
	}
	if err != nil {
		a.log.Printf("microcms: failed to fetch post %s: %v", id, err)
		status := StatusFailed
		if errors.Is(err, microcms.ErrNotFound) {
			status = StatusEmpty
		}
		return Result[*microcms.Post]{Status: status, Err: err}
	}
	return Result[*microcms.Post]{Value: &p, Status: StatusOK}
}

func fetchList[T any](ctx context.Context, a *Adapter, what, endpoint, orders string) Result[[]T] {
	res, err := microcms.GetList[T](ctx, a.src, endpoint, microcms.Queries{Limit: ListLimit, Orders: orders})
	if err != nil {
		a.log.Printf("microcms: failed to fetch %s: %v", what, err)
		return Result[[]T]{Value: []T{}, Status: StatusFailed, Err: err}
	}

	items := res.Contents
	if len(items) > ListLimit {
		items = items[:ListLimit]
	}
	if len(items) == 0 {
		return Result[[]T]{Value: []T{}, Status: StatusEmpty}
	}
	return Result[[]T]{Value: items, Status: StatusOK}
}
