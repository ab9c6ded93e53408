package microcms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"microcms-sync/internal/config"
)

const testAPIKey = "test-api-key"

func TestNew(t *testing.T) {
	client := New("my-blog", testAPIKey)

	if client.ServiceDomain != "my-blog" {
		t.Errorf("Expected ServiceDomain to be 'my-blog', got '%s'", client.ServiceDomain)
	}
	if client.APIKey != testAPIKey {
		t.Errorf("Expected APIKey to be '%s', got '%s'", testAPIKey, client.APIKey)
	}
	hc, ok := client.HTTP.(*http.Client)
	if !ok {
		t.Fatalf("Expected *http.Client, got %T", client.HTTP)
	}
	if hc.Timeout != 30*time.Second {
		t.Errorf("Expected HTTP timeout to be 30s, got %v", hc.Timeout)
	}
	if client.Retry.MaxAttempts != 1 {
		t.Errorf("Expected a single attempt by default, got %d", client.Retry.MaxAttempts)
	}
}

func TestNewFromConfig(t *testing.T) {
	client := NewFromConfig(config.Config{
		ServiceDomain: "my-blog",
		APIKey:        testAPIKey,
		BaseURL:       "http://localhost:9999/api/v1",
		Timeout:       5 * time.Second,
		MaxAttempts:   3,
	})

	if client.BaseURL != "http://localhost:9999/api/v1" {
		t.Errorf("Expected BaseURL override, got '%s'", client.BaseURL)
	}
	if hc := client.HTTP.(*http.Client); hc.Timeout != 5*time.Second {
		t.Errorf("Expected HTTP timeout to be 5s, got %v", hc.Timeout)
	}
	if client.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", client.Retry.MaxAttempts)
	}

	if c := NewFromConfig(config.Config{}); c.Retry.MaxAttempts != 1 {
		t.Errorf("Expected no retry by default, got %d attempts", c.Retry.MaxAttempts)
	}
}

func TestRequestURL(t *testing.T) {
	testCases := []struct {
		name     string
		client   Client
		req      GetRequest
		expected string
		errPart  string
	}{
		{
			name:     "list with queries",
			client:   Client{ServiceDomain: "my-blog"},
			req:      GetRequest{Endpoint: "posts", Queries: Queries{Limit: 100, Orders: "-publishedAt"}},
			expected: "https://my-blog.microcms.io/api/v1/posts?limit=100&orders=-publishedAt",
		},
		{
			name:     "single object",
			client:   Client{ServiceDomain: "my-blog"},
			req:      GetRequest{Endpoint: "posts", ContentID: "abc123"},
			expected: "https://my-blog.microcms.io/api/v1/posts/abc123",
		},
		{
			name:     "base url override",
			client:   Client{BaseURL: "http://127.0.0.1:9000/api/v1/"},
			req:      GetRequest{Endpoint: "/tags/", Queries: Queries{Limit: 100, Orders: "name"}},
			expected: "http://127.0.0.1:9000/api/v1/tags?limit=100&orders=name",
		},
		{
			name:    "missing endpoint",
			client:  Client{ServiceDomain: "my-blog"},
			req:     GetRequest{},
			errPart: "missing endpoint",
		},
		{
			name:    "missing service domain",
			client:  Client{},
			req:     GetRequest{Endpoint: "posts"},
			errPart: "missing service domain",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.client.requestURL(tc.req)
			if tc.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tc.errPart) {
					t.Errorf("Expected error containing %q, got %v", tc.errPart, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestQueriesValues(t *testing.T) {
	q := Queries{
		DraftKey: "dk",
		Limit:    10,
		Offset:   20,
		Orders:   "name",
		Q:        " go ",
		Fields:   "id,title",
		IDs:      "a,b",
		Filters:  "category[equals]news",
		Depth:    2,
	}
	v := q.values()

	expected := map[string]string{
		"draftKey": "dk",
		"limit":    "10",
		"offset":   "20",
		"orders":   "name",
		"q":        "go",
		"fields":   "id,title",
		"ids":      "a,b",
		"filters":  "category[equals]news",
		"depth":    "2",
	}
	for k, want := range expected {
		if got := v.Get(k); got != want {
			t.Errorf("Expected %s=%q, got %q", k, want, got)
		}
	}

	if empty := (Queries{}).values(); len(empty) != 0 {
		t.Errorf("Expected no params for zero Queries, got %v", empty)
	}
}

func TestGetListWithMockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/categories" {
			t.Errorf("Expected path /api/v1/categories, got %s", r.URL.Path)
		}
		if r.Header.Get(apiKeyHeader) != testAPIKey {
			t.Errorf("Expected %s header '%s', got '%s'", apiKeyHeader, testAPIKey, r.Header.Get(apiKeyHeader))
		}
		if r.URL.Query().Get("orders") != "name" {
			t.Errorf("Expected orders=name, got %q", r.URL.Query().Get("orders"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"contents": [
				{"id": "c1", "createdAt": "2024-01-01T00:00:00.000Z", "updatedAt": "2024-01-02T00:00:00.000Z",
				 "publishedAt": "2024-01-01T00:00:00.000Z", "revisedAt": "2024-01-02T00:00:00.000Z",
				 "name": "Go", "slug": "go"},
				{"id": "c2", "createdAt": "2024-01-01T00:00:00.000Z", "updatedAt": "2024-01-01T00:00:00.000Z",
				 "publishedAt": "2024-01-01T00:00:00.000Z", "revisedAt": "2024-01-01T00:00:00.000Z",
				 "name": "Rust"}
			],
			"totalCount": 2,
			"offset": 0,
			"limit": 100
		}`))
	}))
	defer server.Close()

	client := New("unused", testAPIKey)
	client.BaseURL = server.URL + "/api/v1"

	res, err := GetList[Category](context.Background(), client, "categories", Queries{Limit: 100, Orders: "name"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.TotalCount != 2 || res.Limit != 100 {
		t.Errorf("Expected totalCount=2 limit=100, got %d/%d", res.TotalCount, res.Limit)
	}
	if len(res.Contents) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(res.Contents))
	}
	first := res.Contents[0]
	if first.ID != "c1" || first.Name != "Go" || first.Slug != "go" {
		t.Errorf("Unexpected first category: %+v", first)
	}
	if first.UpdatedAt != "2024-01-02T00:00:00.000Z" {
		t.Errorf("Expected embedded timestamps to decode, got %+v", first.Timestamps)
	}
	if res.Contents[1].Slug != "" {
		t.Errorf("Expected missing slug to stay empty, got %q", res.Contents[1].Slug)
	}
}

func TestGetObjectWithMockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/posts/p1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Content is not found."}`))
			return
		}
		w.Write([]byte(`{
			"id": "p1",
			"publishedAt": "2024-03-01T10:00:00.000Z",
			"title": "Hello",
			"content": "<p>body</p>",
			"image": {"url": "https://images.microcms-assets.io/a.png", "height": 630, "width": 1200},
			"tags": [{"id": "t1", "name": "go"}],
			"category": {"id": "c1", "name": "Tech"},
			"draft": false
		}`))
	}))
	defer server.Close()

	client := New("unused", testAPIKey)
	client.BaseURL = server.URL + "/api/v1"

	post, err := GetObject[Post](context.Background(), client, "posts", "p1", Queries{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if post.Title != "Hello" || post.Image == nil || post.Image.Width != 1200 {
		t.Errorf("Unexpected post: %+v", post)
	}
	if post.Draft == nil || *post.Draft {
		t.Errorf("Expected draft=false to decode as non-nil false, got %v", post.Draft)
	}
	if post.Category == nil || post.Category.Name != "Tech" {
		t.Errorf("Expected category Tech, got %+v", post.Category)
	}

	_, err = GetObject[Post](context.Background(), client, "posts", "missing", Queries{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_, err = GetObject[Post](context.Background(), client, "posts", " ", Queries{})
	if err == nil || !strings.Contains(err.Error(), "missing content id") {
		t.Errorf("Expected missing content id error, got %v", err)
	}
}

func TestGetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer server.Close()

	client := New("unused", testAPIKey)
	client.BaseURL = server.URL

	_, err := GetList[Tag](context.Background(), client, "tags", Queries{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Expected a non-404 error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status=500") {
		t.Errorf("Expected status=500 in error, got %v", err)
	}
}
