package dummyjson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmcdole/shelf/internal/domain"
	"resty.dev/v3"
)

const (
	DefaultBaseURL  = "https://dummyjson.com"
	defaultTimeout  = 30 * time.Second
	defaultRetries  = 2
	baseRetryDelay  = 500 * time.Millisecond
	maxRetryDelay   = 4 * time.Second
	defaultPageSize = 30
)

// Options tunes the HTTP behaviour of the client
type Options struct {
	Timeout time.Duration
	Retries int // Retries on connectivity failures and 5xx responses
}

// Client implements domain.CatalogClient for a DummyJSON-compatible catalog API
type Client struct {
	http     *resty.Client
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewClient creates a new catalog API client
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = defaultRetries
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(baseRetryDelay).
		SetRetryMaxWaitTime(maxRetryDelay).
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Close releases idle connections held by the client
func (c *Client) Close() error {
	return c.http.Close()
}

// get performs a GET request and decodes a successful body into result.
// Connectivity failures map to domain.ErrOffline, non-2xx to *domain.RemoteError
// and undecodable 2xx bodies to domain.ErrBadResponse.
func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetResult(result)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	c.logger.Debug("catalog request", "path", path, "query", query)

	resp, err := req.Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// A status code means the server answered, so this is not offline
		if resp != nil && resp.StatusCode() > 0 {
			if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
				c.logger.Warn("catalog request rejected", "path", path, "status", resp.StatusCode(), "error", err)
				return &domain.RemoteError{StatusCode: resp.StatusCode(), Path: path}
			}
			c.logger.Error("catalog response unreadable", "path", path, "status", resp.StatusCode(), "error", err)
			return fmt.Errorf("%w: %s: %v", domain.ErrBadResponse, path, err)
		}
		c.logger.Error("catalog request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrOffline, err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		c.logger.Warn("catalog request rejected", "path", path, "status", resp.StatusCode())
		return &domain.RemoteError{StatusCode: resp.StatusCode(), Path: path}
	}

	return nil
}

// ListProducts returns one page of the catalog and the catalog total
func (c *Client) ListProducts(ctx context.Context, offset, limit int, fields ...string) ([]*domain.Product, int, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	query := map[string]string{
		"limit": strconv.Itoa(limit),
		"skip":  strconv.Itoa(offset),
	}
	if len(fields) > 0 {
		query["select"] = strings.Join(selectFields(fields), ",")
	}

	var resp ProductsResponse
	if err := c.get(ctx, "/products", query, &resp); err != nil {
		return nil, 0, err
	}

	return MapProducts(c.validate, resp.Products, c.now(), c.logger), resp.Total, nil
}

// SearchProducts returns products matching a free-text query
func (c *Client) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	var resp ProductsResponse
	if err := c.get(ctx, "/products/search", map[string]string{"q": query, "limit": "0"}, &resp); err != nil {
		return nil, err
	}
	return MapProducts(c.validate, resp.Products, c.now(), c.logger), nil
}

// Categories returns the distinct category tags known to the API.
// Older deployments only serve /products/categories, which is used as a fallback.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var list CategoryList
	err := c.get(ctx, "/products/category-list", nil, &list)

	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
		c.logger.Debug("category-list unavailable, falling back to categories")
		list = nil
		err = c.get(ctx, "/products/categories", nil, &list)
	}
	if err != nil {
		return nil, err
	}

	return []string(list), nil
}

// ProductsByCategory returns every product tagged with category
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	var resp ProductsResponse
	path := "/products/category/" + url.PathEscape(category)
	if err := c.get(ctx, path, map[string]string{"limit": "0"}, &resp); err != nil {
		return nil, err
	}
	return MapProducts(c.validate, resp.Products, c.now(), c.logger), nil
}

// Product returns a single product by ID
func (c *Client) Product(ctx context.Context, id int) (*domain.Product, error) {
	var dto Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), nil, &dto); err != nil {
		return nil, err
	}
	if err := validateProduct(c.validate, dto); err != nil {
		return nil, fmt.Errorf("invalid product %d: %w", id, err)
	}
	return mapProduct(dto, c.now()), nil
}

// selectFields makes sure the fields required for a valid product are always requested
func selectFields(fields []string) []string {
	out := slices.Clone(fields)
	for _, required := range []string{"title", "price", "category"} {
		if !slices.Contains(out, required) {
			out = append(out, required)
		}
	}
	return out
}
