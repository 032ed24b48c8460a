// Package client binds the catalog API operations to HTTP calls.
//
// Every operation returns a *Response carrying the status code, the raw body
// and the request that produced it. The client never asserts on status or
// shape: a 404 for an unknown id is a normal response, not an error. Errors
// are returned only for invalid parameters and transport failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/catalogcheck/internal/catalog"
)

// DefaultTimeout bounds a single call when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// Request records what was sent, for failure reports.
type Request struct {
	Method string     `json:"method"`
	Path   string     `json:"path"`
	Query  url.Values `json:"query,omitempty"`
	Body   []byte     `json:"-"`
}

// String renders the request as "GET /products?limit=5".
func (r Request) String() string {
	s := r.Method + " " + r.Path
	if len(r.Query) > 0 {
		s += "?" + r.Query.Encode()
	}
	return s
}

// Response is the uniform result of every operation.
type Response struct {
	Request Request
	Status  int
	Body    []byte
}

// Observer is notified after every completed call.
type Observer func(*Response)

// Client issues catalog API calls against a base URL.
// A Client is safe for concurrent use; WithObserver returns a copy.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	logger   *slog.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying transport. Timeouts and TLS live there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithObserver registers a callback invoked after each call.
func WithObserver(obs Observer) Option {
	return func(c *Client) { c.observer = obs }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// WithObserver returns a copy of the client reporting to obs.
// The copy shares the transport but nothing mutable.
func (c *Client) WithObserver(obs Observer) *Client {
	cp := *c
	cp.observer = obs
	return &cp
}

// ListProducts calls GET /products.
func (c *Client) ListProducts(ctx context.Context, p ListParams) (*Response, error) {
	q, err := p.Query()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, "/products", q, nil)
}

// GetProduct calls GET /products/{id}. A 404 is returned as a Response.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodGet, productPath(id), nil, nil)
}

// SearchProducts calls GET /products/search?q=.
func (c *Client) SearchProducts(ctx context.Context, q string) (*Response, error) {
	if q == "" {
		return nil, fmt.Errorf("search: query is required")
	}
	return c.do(ctx, http.MethodGet, "/products/search", url.Values{"q": {q}}, nil)
}

// ListCategories calls GET /products/categories.
func (c *Client) ListCategories(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/products/categories", nil, nil)
}

// ListCategorySlugs calls GET /products/category-list.
func (c *Client) ListCategorySlugs(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/products/category-list", nil, nil)
}

// ListProductsByCategory calls GET /products/category/{slug}.
func (c *Client) ListProductsByCategory(ctx context.Context, slug string) (*Response, error) {
	if slug == "" {
		return nil, fmt.Errorf("list by category: slug is required")
	}
	const prefix = "/products/category/"
	return c.send(ctx, http.MethodGet, prefix+slug, prefix+url.PathEscape(slug), nil, nil)
}

// AddProduct calls POST /products/add. The service simulates the write.
func (c *Client) AddProduct(ctx context.Context, payload catalog.ProductPayload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("add product: encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/products/add", nil, body)
}

// UpdateProduct calls PUT /products/{id}. The service simulates the write.
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload catalog.ProductPayload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("update product: encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPut, productPath(id), nil, body)
}

// DeleteProduct calls DELETE /products/{id}. The service simulates the write.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}

// do issues one call to a path that needs no escaping.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	return c.send(ctx, method, path, "", query, body)
}

// send issues one call and reads the whole body. path is unescaped and is
// what the call is reported as; rawPath, when set, is its escaped form on
// the wire.
func (c *Client) send(ctx context.Context, method, path, rawPath string, query url.Values, body []byte) (*Response, error) {
	req := Request{Method: method, Path: path, Query: query, Body: body}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawPath = ""
	if rawPath != "" {
		u.RawPath = c.baseURL.EscapedPath() + rawPath
	}
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", req, err)
	}

	resp := &Response{Request: req, Status: httpResp.StatusCode, Body: data}

	c.logger.Debug("catalog call",
		"method", method,
		"path", path,
		"query", query.Encode(),
		"status", resp.Status,
		"bytes", len(data),
		"elapsed", time.Since(start),
	)

	if c.observer != nil {
		c.observer(resp)
	}
	return resp, nil
}
