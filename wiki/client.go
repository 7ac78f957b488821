package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/olgasafonova/wikiquery/infobox"
	"github.com/olgasafonova/wikiquery/internal/infra"
	"github.com/olgasafonova/wikiquery/metrics"
	"github.com/olgasafonova/wikiquery/tracing"
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// InfoboxParser turns a serialized page response (lead section wikitext
// wrapped in the API's JSON envelope) into infobox key/value pairs.
type InfoboxParser interface {
	Parse(ctx context.Context, raw []byte) (Infobox, error)
}

// InfoboxParserFunc adapts a function to InfoboxParser
type InfoboxParserFunc func(ctx context.Context, raw []byte) (Infobox, error)

// Parse calls f(ctx, raw)
func (f InfoboxParserFunc) Parse(ctx context.Context, raw []byte) (Infobox, error) {
	return f(ctx, raw)
}

// Client handles communication with the MediaWiki API
type Client struct {
	config     *Config
	httpClient Doer
	logger     *slog.Logger
	parser     InfoboxParser
	breaker    *infra.CircuitBreaker
	now        func() time.Time
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets the transport used for API requests
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.httpClient = d
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInfoboxParser replaces the default infobox parser
func WithInfoboxParser(p InfoboxParser) ClientOption {
	return func(c *Client) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithClock sets the time source used by determiners such as age
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCircuitBreaker guards every request with cb. Off by default.
func WithCircuitBreaker(cb *infra.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewClient creates a new MediaWiki API client. A nil config means DefaultConfig().
func NewClient(config *Config, opts ...ClientOption) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		config: &cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		logger: slog.Default(),
		parser: infobox.NewParser(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns a copy of the client's configuration
func (c *Client) Config() Config {
	return *c.config
}

// fetch performs one GET against the API and returns the raw body.
// format=json and action=query are always added to a copy of params.
func (c *Client) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	q := cloneValues(params)
	q.Set("format", "json")
	q.Set("action", "query")
	kind := queryKind(q)

	ctx, span := tracing.StartSpan(ctx, "wiki.api.query")
	defer span.End()
	tracing.AddWikiAttributes(span, kind, q.Get("titles"))

	start := time.Now()
	body, err := c.do(ctx, kind, q)
	duration := time.Since(start)

	if err != nil {
		tracing.RecordError(span, err)
		c.logger.Warn("API request failed",
			"query", kind,
			"duration", duration,
			"error", err)
		return nil, err
	}

	c.logger.Debug("API request",
		"query", kind,
		"duration", duration,
		"bytes", len(body))
	return body, nil
}

func (c *Client) do(ctx context.Context, kind string, q url.Values) ([]byte, error) {
	if c.breaker != nil {
		if err := c.breaker.Check(); err != nil {
			metrics.CircuitBreakerRejections.Inc()
			return nil, &TransportError{Op: kind, Err: err}
		}
	}

	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, &TransportError{Op: kind, Err: fmt.Errorf("invalid API URL: %w", err)}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Op: kind, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return nil, &TransportError{Op: kind, Err: err}
	}

	body, err := readAndClose(resp)
	if err != nil {
		c.recordFailure()
		return nil, &TransportError{Op: kind, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.recordFailure()
		} else {
			c.recordSuccess()
		}
		return nil, &TransportError{
			Op:         kind,
			StatusCode: resp.StatusCode,
			Err:        errors.New(truncate(string(body), 200)),
		}
	}

	c.recordSuccess()
	return body, nil
}

// query fetches and decodes one API response. The raw body is returned
// alongside for collaborators that want the serialized form. Every call is
// recorded once, after decoding, so API and protocol errors carry their code.
func (c *Client) query(ctx context.Context, params url.Values) (resp Response, body []byte, err error) {
	kind := queryKind(params)
	start := time.Now()
	defer func() {
		metrics.RecordAPICall(kind, time.Since(start).Seconds(), err == nil, string(Code(err)))
	}()

	body, err = c.fetch(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, &ProtocolError{Op: kind, Reason: "response is not a JSON object", Err: err}
	}
	if resp == nil {
		return nil, nil, &ProtocolError{Op: kind, Reason: "response is not a JSON object"}
	}

	if errObj := getMap(resp["error"]); errObj != nil {
		return nil, nil, &APIError{
			Code: getString(errObj["code"]),
			Info: getString(errObj["info"]),
		}
	}

	return resp, body, nil
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

// readAndClose reads the response body and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return body, err
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// normalizeLimit ensures limit is within bounds
func normalizeLimit(limit, defaultVal, maxVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > maxVal {
		return maxVal
	}
	return limit
}
