package microcms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"microcms-sync/internal/config"
	"microcms-sync/internal/httpx"
)

const apiKeyHeader = "X-MICROCMS-API-KEY"

// ErrNotFound is returned when a content id does not exist.
var ErrNotFound = errors.New("microcms: content not found")

type Client struct {
	ServiceDomain string
	APIKey        string
	BaseURL       string // empty means https://<ServiceDomain>.microcms.io/api/v1
	HTTP          httpx.Doer
	Retry         httpx.RetryConfig
}

func New(serviceDomain, apiKey string) *Client {
	return &Client{
		ServiceDomain: serviceDomain,
		APIKey:        apiKey,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Retry: httpx.NoRetry(),
	}
}

// Queries maps to the microCMS content API query parameters.
// Zero values are not sent.
type Queries struct {
	DraftKey string
	Limit    int
	Offset   int
	Orders   string
	Q        string
	Fields   string
	IDs      string
	Filters  string
	Depth    int
}

func (q Queries) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s = strings.TrimSpace(s); s != "" {
			v.Set(k, s)
		}
	}
	set("draftKey", q.DraftKey)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	set("orders", q.Orders)
	set("q", q.Q)
	set("fields", q.Fields)
	set("ids", q.IDs)
	set("filters", q.Filters)
	if q.Depth > 0 {
		v.Set("depth", strconv.Itoa(q.Depth))
	}
	return v
}

type GetRequest struct {
	Endpoint  string
	ContentID string
	Queries   Queries
}

func (c *Client) baseURL() (string, error) {
	if b := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); b != "" {
		return b, nil
	}
	domain := strings.TrimSpace(c.ServiceDomain)
	if domain == "" {
		return "", errors.New("microcms: missing service domain")
	}
	return fmt.Sprintf("https://%s.microcms.io/api/v1", domain), nil
}

func (c *Client) requestURL(req GetRequest) (string, error) {
	endpoint := strings.Trim(strings.TrimSpace(req.Endpoint), "/")
	if endpoint == "" {
		return "", errors.New("microcms: missing endpoint")
	}
	base, err := c.baseURL()
	if err != nil {
		return "", err
	}

	u, err := url.Parse(base + "/" + endpoint)
	if err != nil {
		return "", fmt.Errorf("microcms: invalid base url: %w", err)
	}
	if id := strings.TrimSpace(req.ContentID); id != "" {
		u = u.JoinPath(id)
	}
	u.RawQuery = req.Queries.values().Encode()
	return u.String(), nil
}

// Get fetches one endpoint (list or single object) and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, req GetRequest, out any) error {
	target, err := c.requestURL(req)
	if err != nil {
		return err
	}

	err = httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if err != nil {
				return nil, err
			}
			r.Header.Set("Accept", "application/json")
			r.Header.Set(apiKeyHeader, c.APIKey)
			return r, nil
		},
		out,
		c.Retry,
	)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) && herr.NotFound() {
			return fmt.Errorf("microcms: get %s: %w (%v)", req.Endpoint, ErrNotFound, err)
		}
		return fmt.Errorf("microcms: get %s: %w", req.Endpoint, err)
	}
	return nil
}

// Getter is what GetList and GetObject need; *Client implements it.
type Getter interface {
	Get(ctx context.Context, req GetRequest, out any) error
}

// GetList fetches a list endpoint.
func GetList[T any](ctx context.Context, c Getter, endpoint string, q Queries) (ListResponse[T], error) {
	var out ListResponse[T]
	if err := c.Get(ctx, GetRequest{Endpoint: endpoint, Queries: q}, &out); err != nil {
		return ListResponse[T]{}, err
	}
	return out, nil
}

// GetObject fetches a single content item by id. A blank id fails before any I/O.
func GetObject[T any](ctx context.Context, c Getter, endpoint, contentID string, q Queries) (T, error) {
	var out T
	if strings.TrimSpace(contentID) == "" {
		return out, fmt.Errorf("microcms: get %s: missing content id", endpoint)
	}
	err := c.Get(ctx, GetRequest{Endpoint: endpoint, ContentID: contentID, Queries: q}, &out)
	return out, err
}

// NewFromConfig builds a client from the loaded environment.
func NewFromConfig(cfg config.Config) *Client {
	c := New(cfg.ServiceDomain, cfg.APIKey)
	c.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		c.HTTP = &http.Client{Timeout: cfg.Timeout}
	}
	c.Retry = httpx.WithAttempts(cfg.MaxAttempts)
	return c
}
