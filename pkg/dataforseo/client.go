// Package dataforseo implements the resilient client for the vendor's
// OnPage API: basic auth, per-attempt timeouts, linear retry backoff,
// rate limiting and GET response caching.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/auditsmith/internal/metrics"
	"github.com/amosWeiskopf/auditsmith/pkg/cache"
)

const (
	endpointTaskPost  = "/v3/on_page/task_post"
	endpointForceStop = "/v3/on_page/force_stop"

	endpointSummary       = "/v3/on_page/summary/%s"
	endpointPages         = "/v3/on_page/pages/%s"
	endpointResources     = "/v3/on_page/resources/%s"
	endpointLinks         = "/v3/on_page/links/%s"
	endpointDuplicateTags = "/v3/on_page/duplicate_tags/%s"
	endpointNonIndexable  = "/v3/on_page/non_indexable/%s"
	endpointSecurity      = "/v3/on_page/security/%s"
)

// Config holds client construction parameters. Zero values fall back
// to the documented defaults, except MaxRetries where zero is honored.
type Config struct {
	BaseURL  string
	Login    string
	Password string

	Timeout    time.Duration // per network attempt, default 30s
	MaxRetries int           // 0 disables retries, negative means the default 3
	RetryDelay time.Duration // linear backoff base, default 2s
	RateLimit  float64       // requests per second, 0 = unlimited

	CacheTTL      time.Duration // default 5m
	CacheCapacity int           // default 256 entries

	Logger zerolog.Logger
}

// Client talks to the vendor API. It is safe for concurrent use; the
// cache is the only shared state and synchronizes internally. Retries
// for one logical call are sequential to respect vendor rate limits.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	cache      *cache.Cache
	cacheTTL   time.Duration
	logger     zerolog.Logger

	// sleep is swapped out in tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a Client. The credential pair is encoded once here
// and attached to every request.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.dataforseo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 256
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		if int(cfg.RateLimit) > 1 {
			burst = int(cfg.RateLimit)
		}
	}

	creds := base64.StdEncoding.EncodeToString([]byte(cfg.Login + ":" + cfg.Password))

	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		baseURL:    cfg.BaseURL,
		authHeader: "Basic " + creds,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    rate.NewLimiter(limit, burst),
		cache:      cache.New(cfg.CacheCapacity),
		cacheTTL:   cfg.CacheTTL,
		logger:     cfg.Logger,
		sleep:      sleepCtx,
	}
}

// SubmitTask posts a crawl job and returns the vendor task id and the
// cost charged for submission.
func (c *Client) SubmitTask(ctx context.Context, req TaskPostRequest) (string, float64, error) {
	resp, err := c.request(ctx, http.MethodPost, endpointTaskPost, endpointTaskPost, req)
	if err != nil {
		return "", 0, err
	}
	if len(resp.Tasks) == 0 {
		return "", 0, &VendorError{Endpoint: endpointTaskPost, StatusCode: resp.StatusCode, Message: "empty task list in response"}
	}
	return resp.Tasks[0].ID, resp.Cost, nil
}

// ForceStop asks the vendor to abandon an in-flight crawl. Success is
// defined solely by the vendor's acknowledgement status.
func (c *Client) ForceStop(ctx context.Context, taskID string) error {
	_, err := c.request(ctx, http.MethodPost, endpointForceStop, endpointForceStop, map[string]string{"id": taskID})
	return err
}

// Summary fetches crawl progress and site-wide scores for a task,
// returning also the cost the vendor charged for the read.
func (c *Client) Summary(ctx context.Context, taskID string) (*SummaryResult, float64, error) {
	resp, err := c.request(ctx, http.MethodGet, fmt.Sprintf(endpointSummary, taskID), endpointSummary, nil)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeResult[SummaryResult](resp, endpointSummary)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return nil, 0, &VendorError{Endpoint: endpointSummary, StatusCode: resp.StatusCode, Message: "empty summary result"}
	}
	return &items[0], resp.Cost, nil
}

// Pages fetches the per-page crawl results.
func (c *Client) Pages(ctx context.Context, taskID string) ([]PageItem, error) {
	return fetchItems[PageItem](ctx, c, endpointPages, taskID)
}

// Resources fetches the per-resource crawl results.
func (c *Client) Resources(ctx context.Context, taskID string) ([]ResourceItem, error) {
	return fetchItems[ResourceItem](ctx, c, endpointResources, taskID)
}

// Links fetches the discovered link graph.
func (c *Client) Links(ctx context.Context, taskID string) ([]LinkItem, error) {
	return fetchItems[LinkItem](ctx, c, endpointLinks, taskID)
}

// DuplicateTags fetches duplicated tag and content groupings.
func (c *Client) DuplicateTags(ctx context.Context, taskID string) ([]DuplicateTagItem, error) {
	return fetchItems[DuplicateTagItem](ctx, c, endpointDuplicateTags, taskID)
}

// NonIndexable fetches the pages the vendor could not index.
func (c *Client) NonIndexable(ctx context.Context, taskID string) ([]NonIndexableItem, error) {
	return fetchItems[NonIndexableItem](ctx, c, endpointNonIndexable, taskID)
}

// Security fetches the site security assessment.
func (c *Client) Security(ctx context.Context, taskID string) (*SecurityResult, error) {
	resp, err := c.request(ctx, http.MethodGet, fmt.Sprintf(endpointSecurity, taskID), endpointSecurity, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeResult[SecurityResult](resp, endpointSecurity)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &VendorError{Endpoint: endpointSecurity, StatusCode: resp.StatusCode, Message: "empty security result"}
	}
	return &items[0], nil
}

// FlushCache drops all cached responses.
func (c *Client) FlushCache() { c.cache.Flush() }

func fetchItems[T any](ctx context.Context, c *Client, pattern, taskID string) ([]T, error) {
	resp, err := c.request(ctx, http.MethodGet, fmt.Sprintf(pattern, taskID), pattern, nil)
	if err != nil {
		return nil, err
	}
	return decodeResult[T](resp, pattern)
}

func decodeResult[T any](resp *Response, endpoint string) ([]T, error) {
	if len(resp.Tasks) == 0 {
		return nil, &VendorError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "empty task list in response"}
	}
	var items []T
	if len(resp.Tasks[0].Result) > 0 {
		if err := json.Unmarshal(resp.Tasks[0].Result, &items); err != nil {
			return nil, fmt.Errorf("decode %s result: %w", endpoint, err)
		}
	}
	return items, nil
}

// request performs one logical vendor call with caching (GET only) and
// retries. Exhausting retries surfaces the last observed error. pattern
// is the unformatted endpoint constant; metrics are labeled with it so
// task ids never become prometheus label values.
func (c *Client) request(ctx context.Context, method, endpoint, pattern string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		// The vendor expects an array of task payloads.
		data, err := json.Marshal([]any{body})
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	key := cacheKey(method, endpoint)
	if method == http.MethodGet {
		if raw, ok := c.cache.Get(key); ok {
			metrics.VendorRequests.WithLabelValues(pattern, "cache_hit").Inc()
			return parseEnvelope(raw, endpoint)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying vendor call")
			metrics.VendorRetries.WithLabelValues(pattern).Inc()
			if err := c.sleep(ctx, delay); err != nil {
				return nil, &TransportError{Endpoint: endpoint, Err: err}
			}
		}

		resp, raw, err := c.attempt(ctx, method, endpoint, payload)
		if err != nil {
			lastErr = err
			if !IsRetryable(err) {
				return nil, err
			}
			continue
		}

		if method == http.MethodGet {
			c.cache.Set(key, raw, c.cacheTTL)
		}
		metrics.VendorRequests.WithLabelValues(pattern, "success").Inc()
		return resp, nil
	}

	outcome := "vendor_error"
	if _, ok := lastErr.(*TransportError); ok {
		outcome = "transport_error"
	}
	metrics.VendorRequests.WithLabelValues(pattern, outcome).Inc()
	return nil, lastErr
}

// attempt performs a single network attempt under the per-attempt
// timeout. A timeout cancels the in-flight request and counts as a
// retryable transport failure.
func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte) (*Response, []byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(actx); err != nil {
		return nil, nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	if httpResp.StatusCode >= 400 {
		return nil, nil, &VendorError{Endpoint: endpoint, StatusCode: httpResp.StatusCode, Message: http.StatusText(httpResp.StatusCode)}
	}

	resp, err := parseEnvelope(raw, endpoint)
	if err != nil {
		return nil, nil, err
	}
	return resp, raw, nil
}

// parseEnvelope decodes a response body and checks the vendor status
// codes at both the envelope and task level.
func parseEnvelope(raw []byte, endpoint string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &VendorError{Endpoint: endpoint, StatusCode: 0, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if !statusOK(resp.StatusCode) {
		return nil, &VendorError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: resp.StatusMessage}
	}
	for _, task := range resp.Tasks {
		if !statusOK(task.StatusCode) {
			return nil, &VendorError{Endpoint: endpoint, StatusCode: task.StatusCode, Message: task.StatusMessage}
		}
	}
	return &resp, nil
}

// cacheKey builds a deterministic key from the method and endpoint,
// canonicalizing any query parameters.
func cacheKey(method, endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
		u.RawQuery = u.Query().Encode() // Encode sorts parameter names
		endpoint = u.String()
	}
	return method + " " + endpoint
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
