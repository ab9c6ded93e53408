// Package preview serves the content adapter's output over HTTP so the
// site can be previewed against live microCMS data without an export.
package preview

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"microcms-sync/internal/domain"
	"microcms-sync/internal/mappers"
	"microcms-sync/internal/microcms"
)

// Content is the subset of *content.Adapter the server reads from.
type Content interface {
	ListPosts(ctx context.Context) []microcms.Post
	GetPost(ctx context.Context, id string) *microcms.Post
	ListCategories(ctx context.Context) []microcms.Category
	ListTags(ctx context.Context) []microcms.Tag
}

type Server struct {
	Echo    *echo.Echo
	content Content
}

func New(c Content) *Server {
	s := &Server{Echo: echo.New(), content: c}
	s.Echo.HideBanner = true

	s.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	s.Echo.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.Echo
	e.GET("/healthz", handleHealth)
	e.GET("/posts", s.handlePosts)
	e.GET("/posts/:id", s.handlePost)
	e.GET("/categories", s.handleCategories)
	e.GET("/tags", s.handleTags)
}

// Start blocks until the server stops.
func (s *Server) Start(addr string) error {
	if err := s.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePosts(c echo.Context) error {
	posts := s.content.ListPosts(c.Request().Context())
	entries := mappers.PostsToEntries(posts)
	if c.QueryParam("drafts") != "true" {
		entries = withoutDrafts(entries)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handlePost(c echo.Context) error {
	id := c.Param("id")
	post := s.content.GetPost(c.Request().Context(), id)
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found", "id": id})
	}
	return c.JSON(http.StatusOK, mappers.PostToEntry(*post))
}

func (s *Server) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.content.ListCategories(c.Request().Context()))
}

func (s *Server) handleTags(c echo.Context) error {
	return c.JSON(http.StatusOK, s.content.ListTags(c.Request().Context()))
}

func withoutDrafts(entries []domain.CollectionEntry) []domain.CollectionEntry {
	out := make([]domain.CollectionEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDraft() {
			out = append(out, e)
		}
	}
	return out
}
