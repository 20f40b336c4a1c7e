package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/lepinkainen/bookshelf/internal/book"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
)

// HTTPGateway talks to a REST catalog service:
//
//	GET    /books       -> []Book
//	POST   /books       -> Book
//	PUT    /books/{id}  -> Book
//	DELETE /books/{id}  -> 204 or {"id": n}
type HTTPGateway struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// HTTPOption configures an HTTPGateway.
type HTTPOption func(*HTTPGateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(g *HTTPGateway) { g.client = client }
}

// WithAPIToken sends the token as a bearer Authorization header.
func WithAPIToken(token string) HTTPOption {
	return func(g *HTTPGateway) { g.apiToken = token }
}

// NewHTTPGateway creates a new HTTPGateway instance
func NewHTTPGateway(baseURL string, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Connect validates the base URL.
func (g *HTTPGateway) Connect() error {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: scheme and host are required", g.baseURL)
	}
	return nil
}

// FetchAll lists the catalog.
func (g *HTTPGateway) FetchAll(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := g.do(ctx, http.MethodGet, "books", nil, &books); err != nil {
		return nil, errs.NewTransportError(errs.OpFetchAll, err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// Create posts a new record. An empty response body confirms the sent record.
func (g *HTTPGateway) Create(ctx context.Context, b book.Book) (book.Book, error) {
	var created *book.Book
	if err := g.do(ctx, http.MethodPost, "books", b, &created); err != nil {
		return book.Book{}, errs.NewTransportError(errs.OpCreate, err)
	}
	if created == nil {
		return b, nil
	}
	return *created, nil
}

// Replace puts the record at its id. An empty response body confirms the
// sent record.
func (g *HTTPGateway) Replace(ctx context.Context, b book.Book) (book.Book, error) {
	var replaced *book.Book
	if err := g.do(ctx, http.MethodPut, path.Join("books", strconv.Itoa(b.ID)), b, &replaced); err != nil {
		return book.Book{}, errs.NewTransportError(errs.OpReplace, err)
	}
	if replaced == nil {
		return b, nil
	}
	return *replaced, nil
}

// Remove deletes the record. An empty response body confirms the requested id.
func (g *HTTPGateway) Remove(ctx context.Context, id int) (int, error) {
	var body struct {
		ID *int `json:"id"`
	}
	if err := g.do(ctx, http.MethodDelete, path.Join("books", strconv.Itoa(id)), nil, &body); err != nil {
		return 0, errs.NewTransportError(errs.OpRemove, err)
	}
	if body.ID != nil {
		return *body.ID, nil
	}
	return id, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, endpoint string, payload, out any) error {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join("/", u.Path, endpoint)

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return errs.NewRateLimitErrorWithRetry("catalog service rate limit exceeded", time.Duration(retryAfter)*time.Second)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
