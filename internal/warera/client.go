package warera

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ivnrby/warera-dashboard/internal/logger"
)

const component = "WarEraAPI"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var ErrBatchTooLarge = errors.New("batch size exceeds configured maximum")

type Config struct {
	BaseURL      string
	APIKey       string
	RateDelay    time.Duration // minimum spacing between requests
	MaxRetries   int           // retries after the initial attempt
	MaxBatchSize int
	Timeout      time.Duration
}

// Client wraps the upstream tRPC-style HTTP API. All calls share one rate
// limiter; concurrent callers queue on it.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger

	// sleep is the 429/transient backoff wait, replaceable in tests.
	sleep func(time.Duration)
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.RateDelay <= 0 {
		cfg.RateDelay = 250 * time.Millisecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.RateDelay), 1),
		log:     log,
		sleep:   time.Sleep,
	}
}

// Request performs one logical call and returns its result.data payload.
// A nil params issues the call without an input parameter.
func (c *Client) Request(ctx context.Context, endpoint string, params any) (json.RawMessage, error) {
	var input map[string]any
	if params != nil {
		input = map[string]any{"0": params}
	}

	results, err := c.do(ctx, endpoint, input, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s: empty result set", endpoint)
	}
	return unwrap(results[0])
}

// BatchRequest performs several logical calls in one HTTP request and
// returns their result.data payloads positionally. Oversized batches fail
// fast without touching the network.
func (c *Client) BatchRequest(ctx context.Context, calls []Call) ([]json.RawMessage, error) {
	if len(calls) > c.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(calls), c.cfg.MaxBatchSize)
	}
	if len(calls) == 0 {
		return nil, nil
	}

	endpoints := make([]string, len(calls))
	input := make(map[string]any, len(calls))
	for i, call := range calls {
		endpoints[i] = call.Endpoint
		if call.Params != nil {
			input[strconv.Itoa(i)] = call.Params
		} else {
			input[strconv.Itoa(i)] = map[string]any{}
		}
	}

	results, err := c.do(ctx, strings.Join(endpoints, ","), input, len(calls))
	if err != nil {
		return nil, err
	}

	data := make([]json.RawMessage, len(results))
	for i, raw := range results {
		d, err := unwrap(raw)
		if err != nil {
			c.log.Warn(component, "Batch call %d failed to unwrap: %v", i, err)
			continue
		}
		data[i] = d
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, endpoint string, input map[string]any, n int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("batch", "1")
	if input != nil {
		encoded, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("encode input: %w", err)
		}
		query.Set("input", string(encoded))
	}

	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryAfter, err := c.once(ctx, reqURL)
		if err == nil {
			return normalizePositional(body, n)
		}
		lastErr = err

		if retryAfter < 0 {
			// Non-retriable (4xx other than 429, malformed body).
			break
		}
		if attempt < c.cfg.MaxRetries {
			c.log.Warn(component, "Request failed, retrying in %s: endpoint=%s attempt=%d err=%v",
				retryAfter, endpoint, attempt+1, err)
			c.sleep(retryAfter)
		}
	}

	c.log.Error(component, "Request failed: endpoint=%s err=%v", endpoint, lastErr)
	return nil, fmt.Errorf("%s: %w", endpoint, lastErr)
}

// once issues a single HTTP GET. The returned duration is the backoff to
// apply before the next attempt; a negative duration marks the error as
// non-retriable.
func (c *Client) once(ctx context.Context, reqURL string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, -1, err
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 2 * c.cfg.RateDelay, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 2 * c.cfg.RateDelay, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := 2 * c.cfg.RateDelay
		if reset := resp.Header.Get("ratelimit-reset"); reset != "" {
			if secs, err := strconv.Atoi(reset); err == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
		return nil, wait, fmt.Errorf("rate limited (429)")
	case resp.StatusCode >= 500:
		return nil, 2 * c.cfg.RateDelay, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, -1, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, trimBody(body))
	}

	return body, 0, nil
}

func trimBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
