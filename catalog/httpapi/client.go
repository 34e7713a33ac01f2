// Package httpapi implements catalog.Service against the storefront REST
// API (/api/v1/...).
package httpapi

import (
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

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/catalog"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

var _ catalog.Service = (*Client)(nil)

// Client talks to the catalog REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerrors.New(fmt.Sprintf("invalid catalog api url %q", baseURL), goerrors.CategoryBadInput).
			WithTextCode("CATALOG_INVALID_URL")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, error) {
	params := url.Values{}
	if q.CategoryID != 0 {
		params.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.CategorySlug != "" {
		params.Set("categorySlug", q.CategorySlug)
	}
	var out []catalog.Product
	err := c.get(ctx, "products", "/api/v1/products", params, &out)
	return nonNil(out), err
}

func (c *Client) ProductBySlug(ctx context.Context, slug string) (catalog.Product, error) {
	var out catalog.Product
	err := c.get(ctx, "product "+slug, "/api/v1/products/slug/"+url.PathEscape(slug), nil, &out)
	return out, err
}

func (c *Client) RelatedProducts(ctx context.Context, slug string) ([]catalog.Product, error) {
	var out []catalog.Product
	err := c.get(ctx, "related "+slug, "/api/v1/products/slug/"+url.PathEscape(slug)+"/related", nil, &out)
	return nonNil(out), err
}

func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	err := c.get(ctx, "categories", "/api/v1/categories", nil, &out)
	return nonNil(out), err
}

func (c *Client) ListLocations(ctx context.Context, origin string) ([]catalog.Location, error) {
	params := url.Values{}
	if origin != "" {
		params.Set("origin", origin)
	}
	var out []catalog.Location
	err := c.get(ctx, "locations", "/api/v1/locations", params, &out)
	return nonNil(out), err
}

func (c *Client) get(ctx context.Context, what, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "build catalog request").WithTextCode(catalog.ErrCodeUpstream)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "catalog request "+what).WithTextCode(catalog.ErrCodeUpstream)
	}
	defer resp.Body.Close()
	c.logger.Debug("catalog request", "url", target, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return catalog.NotFound("catalog resource", what)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return goerrors.New(fmt.Sprintf("catalog %s: %s: %s", what, resp.Status, strings.TrimSpace(string(body))), goerrors.CategoryExternal).
			WithTextCode(catalog.ErrCodeUpstream).
			WithCode(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "decode catalog "+what).WithTextCode(catalog.ErrCodeDecode)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
