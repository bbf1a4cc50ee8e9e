// Package ratesource resolves named reference rates (for example EURIBOR3M)
// from an external rates service.
package ratesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"credit-engine/internal/logging"
	"credit-engine/internal/model"
)

const (
	DefaultTimeout   = 2 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client fetches reference rates and caches them for the life of the process.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
	cache      sync.Map
}

type ClientOption func(*Client)

func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a client for baseURL. An empty baseURL yields a client that
// resolves nothing.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  logging.NewSilent(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rateResponse struct {
	ID   string  `json:"id"`
	Rate float64 `json:"rate"`
}

// GetRates returns the rates it could resolve, keyed by id. Ids that fail to
// resolve are absent from the result.
func (c *Client) GetRates(ctx context.Context, ids []string) map[string]float64 {
	result := make(map[string]float64, len(ids))
	if c.baseURL == "" {
		return result
	}

	var toFetch []string
	for _, id := range ids {
		if r, ok := c.cache.Load(id); ok {
			result[id] = r.(float64)
		} else {
			toFetch = append(toFetch, id)
		}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, id := range toFetch {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r, err := c.fetch(ctx, id)
			if err != nil {
				c.logger.Warn().Err(err).Str("rate_id", id).Msg("reference rate lookup failed")
				return
			}
			c.cache.Store(id, r)
			mu.Lock()
			result[id] = r
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return result
}

// Apply replaces the assumptions' euribor with the named reference rate when
// one is configured and resolvable. It reports whether the rate was replaced.
func (c *Client) Apply(ctx context.Context, a *model.Assumptions) bool {
	if a.ReferenceRateID == "" {
		return false
	}
	r, ok := c.GetRates(ctx, []string{a.ReferenceRateID})[a.ReferenceRateID]
	if !ok {
		return false
	}
	a.Euribor = r
	return true
}

func (c *Client) fetch(ctx context.Context, id string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "/rates/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("rates service returned %d for %s", resp.StatusCode, id)
	}

	var rr rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, fmt.Errorf("decode rate %s: %w", id, err)
	}
	return rr.Rate, nil
}
