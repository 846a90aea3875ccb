package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mmcdole/gamedeck/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
	statusSuccess  = "success"
	statusOK       = "ok"
)

// Client talks to the catalog REST API.
// It never caches and never retries: one call is one request, and every
// failure is returned to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	adapter    ResponseAdapter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithAdapter sets how list envelopes are turned into pages
func WithAdapter(a ResponseAdapter) Option {
	return func(c *Client) {
		if a != nil {
			c.adapter = a
		}
	}
}

// NewClient creates a catalog client rooted at baseURL (e.g. http://host:5002/api)
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		adapter: AutoAdapter(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs one HTTP request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("catalog request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "method", method, "url", reqURL, "error", err)
		return nil, &domain.TransportError{Method: method, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URL: reqURL, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := &domain.ProtocolError{URL: reqURL, StatusCode: resp.StatusCode}
		var env Envelope
		if sonic.Unmarshal(data, &env) == nil {
			perr.Message = env.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			perr.Err = domain.ErrNotFound
		}
		c.logger.Error("catalog request error",
			"status", resp.StatusCode,
			"url", reqURL,
			"body", truncate(string(data), maxErrorBody),
		)
		return nil, perr
	}

	return data, nil
}

// decode parses body into out and checks the envelope status
func decode(reqURL string, body []byte, out any, accepted ...string) error {
	var env Envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return &domain.ProtocolError{URL: reqURL, Err: err}
	}
	if len(accepted) == 0 {
		accepted = []string{statusSuccess}
	}
	if !slices.Contains(accepted, env.Status) {
		return &domain.ApplicationError{Status: env.Status, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return &domain.ProtocolError{URL: reqURL, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params Params, out any, accepted ...string) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, params.Values(), nil)
	if err != nil {
		return err
	}
	return decode(c.baseURL+"/"+path, body, out, accepted...)
}

// FetchList requests a list resource and returns its envelope with the raw
// array found under itemKey.
func (c *Client) FetchList(ctx context.Context, resource, itemKey string, params Params) (*ListEnvelope, error) {
	body, err := c.doRequest(ctx, http.MethodGet, resource, params.Values(), nil)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/" + resource
	var env ListEnvelope
	if err := decode(reqURL, body, &env); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &fields); err != nil {
		return nil, &domain.ProtocolError{URL: reqURL, Err: err}
	}
	raw, ok := fields[itemKey]
	if !ok {
		return nil, &domain.ProtocolError{URL: reqURL, Err: fmt.Errorf("missing %q in response", itemKey)}
	}
	if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		env.Items = raw
	}
	return &env, nil
}

// FetchOne requests resource/id and decodes the whole envelope into out
func (c *Client) FetchOne(ctx context.Context, resource string, id int, out any) error {
	return c.get(ctx, resource+"/"+strconv.Itoa(id), nil, out)
}

// ListGames returns one page of games for the query
func (c *Client) ListGames(ctx context.Context, q domain.GameQuery) (domain.GamePage, error) {
	env, err := c.FetchList(ctx, "games", "games", GameParams(q))
	if err != nil {
		return domain.GamePage{}, err
	}
	page, err := c.adapter.Adapt(env)
	if err != nil {
		return domain.GamePage{}, &domain.ProtocolError{URL: c.baseURL + "/games", Err: err}
	}
	c.logger.Debug("fetched games", "page", q.Page, "count", len(page.Games), "total", page.Total)
	return page, nil
}

// GetGame returns the detail record for a game
func (c *Client) GetGame(ctx context.Context, id int) (*domain.GameDetail, error) {
	var resp gameDetailResponse
	if err := c.FetchOne(ctx, "games", id, &resp); err != nil {
		return nil, err
	}
	if resp.Game == nil {
		return nil, domain.ErrNotFound
	}
	return MapGameDetail(*resp.Game), nil
}

// ListGenres returns the genre names
func (c *Client) ListGenres(ctx context.Context) ([]string, error) {
	var resp genresResponse
	if err := c.get(ctx, "games/genres", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Genres), nil
}

// ListPlatforms returns the platform names
func (c *Client) ListPlatforms(ctx context.Context) ([]string, error) {
	var resp platformsResponse
	if err := c.get(ctx, "games/platforms", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Platforms), nil
}

// GetReviews returns the critic and user reviews for a game
func (c *Client) GetReviews(ctx context.Context, id int) (*domain.ReviewSummary, error) {
	var resp reviewsResponse
	if err := c.get(ctx, fmt.Sprintf("games/%d/reviews", id), nil, &resp); err != nil {
		return nil, err
	}
	return mapReviewSummary(resp), nil
}

// AddReview posts a user review
func (c *Client) AddReview(ctx context.Context, id int, in domain.ReviewInput) (*domain.UserReview, error) {
	path := fmt.Sprintf("games/%d/reviews", id)
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return nil, err
	}
	var resp addReviewResponse
	if err := decode(c.baseURL+"/"+path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Review == nil {
		return nil, &domain.ProtocolError{URL: c.baseURL + "/" + path, Err: fmt.Errorf("missing review in response")}
	}
	review := MapUserReview(*resp.Review)
	return &review, nil
}

// GetNews returns general gaming news
func (c *Client) GetNews(ctx context.Context) ([]domain.Article, error) {
	var resp newsResponse
	if err := c.get(ctx, "news", nil, &resp); err != nil {
		return nil, err
	}
	return MapArticles(resp.News), nil
}

// GetConsoleNews returns console news. This endpoint answers with
// status "ok" and an "articles" key instead of the usual shape.
func (c *Client) GetConsoleNews(ctx context.Context) ([]domain.Article, error) {
	var resp newsResponse
	if err := c.get(ctx, "news/consoles", nil, &resp, statusOK, statusSuccess); err != nil {
		return nil, err
	}
	if len(resp.Articles) == 0 {
		return MapArticles(resp.News), nil
	}
	return MapArticles(resp.Articles), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
