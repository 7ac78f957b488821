package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olgasafonova/wikiquery/internal/infra"
	"github.com/olgasafonova/wikiquery/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// rawBody is written to the response verbatim instead of being JSON-encoded
type rawBody string

// statusBody makes the stub reply with a non-200 status
type statusBody struct {
	code int
	body string
}

// apiStub is an httptest server standing in for the wiki API
type apiStub struct {
	server *httptest.Server

	mu      sync.Mutex
	queries []url.Values
	headers []http.Header
}

func (s *apiStub) requests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.queries...)
}

func (s *apiStub) lastQuery(t *testing.T) url.Values {
	t.Helper()
	reqs := s.requests()
	if len(reqs) == 0 {
		t.Fatal("no request was made")
	}
	return reqs[len(reqs)-1]
}

// newTestClient starts a stub API answering with handle and returns a
// client pointed at it
func newTestClient(t *testing.T, handle func(q url.Values) any, opts ...ClientOption) (*Client, *apiStub) {
	t.Helper()
	stub := &apiStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		stub.mu.Lock()
		stub.queries = append(stub.queries, q)
		stub.headers = append(stub.headers, r.Header.Clone())
		stub.mu.Unlock()

		switch body := handle(q).(type) {
		case rawBody:
			_, _ = io.WriteString(w, string(body))
		case statusBody:
			w.WriteHeader(body.code)
			_, _ = io.WriteString(w, body.body)
		default:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(stub.server.Close)

	config := &Config{
		BaseURL:   stub.server.URL + "/w/api.php",
		UserAgent: "TestClient/1.0",
		Timeout:   5 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]ClientOption{WithHTTPClient(stub.server.Client()), WithLogger(logger)}, opts...)
	return NewClient(config, opts...), stub
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)

	cfg := c.Config()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, DefaultUserAgent)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if c.parser == nil {
		t.Error("default infobox parser should be set")
	}
	if c.breaker != nil {
		t.Error("circuit breaker should be off by default")
	}
}

func TestNewClient_FillsEmptyConfigFields(t *testing.T) {
	c := NewClient(&Config{BaseURL: "https://de.wikipedia.org/w/api.php"})

	cfg := c.Config()
	if cfg.BaseURL != "https://de.wikipedia.org/w/api.php" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
}

func TestNewClient_NilOptionsIgnored(t *testing.T) {
	c := NewClient(nil, WithHTTPClient(nil), WithLogger(nil), WithInfoboxParser(nil), WithClock(nil))
	if c.httpClient == nil || c.logger == nil || c.parser == nil || c.now == nil {
		t.Error("nil options must not clear defaults")
	}
}

func TestRequestShape(t *testing.T) {
	c, stub := newTestClient(t, func(q url.Values) any {
		return map[string]any{"query": map[string]any{"search": []any{}}}
	})

	if _, err := c.Search(context.Background(), "star wars", 10); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	q := stub.lastQuery(t)
	if q.Get("format") != "json" || q.Get("action") != "query" {
		t.Errorf("missing format/action: %v", q)
	}
	if q.Get("srsearch") != "star wars" {
		t.Errorf("srsearch = %q", q.Get("srsearch"))
	}

	stub.mu.Lock()
	h := stub.headers[0]
	stub.mu.Unlock()
	if h.Get("User-Agent") != "TestClient/1.0" {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}
	for _, name := range []string{"Cookie", "Authorization", "Content-Type"} {
		if h.Get(name) != "" {
			t.Errorf("unexpected header %s", name)
		}
	}
}

func TestQuery_DoesNotMutateParams(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any {
		return map[string]any{}
	})

	params := url.Values{"list": {"random"}}
	if _, _, err := c.query(context.Background(), params); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(params) != 1 {
		t.Errorf("params were modified: %v", params)
	}
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply any
		check func(error) bool
	}{
		{"server error", statusBody{code: 500, body: "boom"}, IsTransport},
		{"not found status", statusBody{code: 404}, IsTransport},
		{"invalid json", rawBody("<html>"), IsProtocol},
		{"json array", rawBody("[1,2,3]"), IsProtocol},
		{"json null", rawBody("null"), IsProtocol},
		{"api error", map[string]any{"error": map[string]any{"code": "badvalue", "info": "Unrecognized value"}}, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Code == "badvalue"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(q url.Values) any { return tt.reply })
			_, _, err := c.query(context.Background(), url.Values{"list": {"search"}})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error kind: %T %v", err, err)
			}
		})
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestQuery_RecordsDecodedErrors(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		reply any
		code  ErrorCode
	}{
		{"api error object", "alllinks", map[string]any{"error": map[string]any{"code": "badvalue"}}, APICodeError},
		{"non-json body", "allcategories", rawBody("<html>"), ProtocolCodeViolated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(q url.Values) any { return tt.reply })
			apiErrors := metrics.WikiAPIErrors.WithLabelValues(tt.kind, string(tt.code))
			failed := metrics.WikiAPIRequestsTotal.WithLabelValues(tt.kind, "error")
			succeeded := metrics.WikiAPIRequestsTotal.WithLabelValues(tt.kind, "success")
			errorsBefore := counterValue(t, apiErrors)
			failedBefore := counterValue(t, failed)
			succeededBefore := counterValue(t, succeeded)

			if _, _, err := c.query(context.Background(), url.Values{"list": {tt.kind}}); Code(err) != tt.code {
				t.Fatalf("Code(err) = %q, want %q", Code(err), tt.code)
			}

			if got := counterValue(t, apiErrors); got != errorsBefore+1 {
				t.Errorf("error counter = %v, want %v", got, errorsBefore+1)
			}
			if got := counterValue(t, failed); got != failedBefore+1 {
				t.Errorf("error status counter = %v, want %v", got, failedBefore+1)
			}
			if got := counterValue(t, succeeded); got != succeededBefore {
				t.Errorf("success counter moved to %v", got)
			}
		})
	}
}

func TestQuery_TransportStatusCode(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any {
		return statusBody{code: http.StatusServiceUnavailable}
	})

	_, _, err := c.query(context.Background(), url.Values{"prop": {"links"}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if te.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", te.StatusCode)
	}
	if te.Op != "links" {
		t.Errorf("Op = %q, want links", te.Op)
	}
}

type failingDoer struct{ err error }

func (d failingDoer) Do(*http.Request) (*http.Response, error) { return nil, d.err }

func TestQuery_NetworkFailure(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClient(nil, WithHTTPClient(failingDoer{err: boom}))

	_, _, err := c.query(context.Background(), url.Values{"list": {"random"}})
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("transport error should wrap the cause")
	}
}

func TestQuery_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any { return map[string]any{} })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.query(ctx, url.Values{"list": {"random"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCircuitBreaker(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.WithThreshold(2), infra.WithResetTimeout(time.Hour))
	c, stub := newTestClient(t, func(q url.Values) any {
		return statusBody{code: http.StatusBadGateway}
	}, WithCircuitBreaker(cb))

	for i := 0; i < 2; i++ {
		if _, _, err := c.query(context.Background(), url.Values{"list": {"random"}}); !IsTransport(err) {
			t.Fatalf("call %d: expected transport error, got %v", i, err)
		}
	}
	if cb.State() != infra.CircuitOpen {
		t.Fatalf("breaker state = %v, want open", cb.State())
	}

	_, _, err := c.query(context.Background(), url.Values{"list": {"random"}})
	var open *infra.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if !IsTransport(err) {
		t.Error("rejection should surface as a transport error")
	}
	if n := len(stub.requests()); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestQueryKind(t *testing.T) {
	tests := []struct {
		params url.Values
		want   string
	}{
		{url.Values{"list": {"search"}}, "search"},
		{url.Values{"generator": {"images"}, "prop": {"imageinfo"}}, "images"},
		{url.Values{"prop": {"info|pageprops"}}, "info|pageprops"},
		{url.Values{}, "query"},
	}

	for _, tt := range tests {
		if got := queryKind(tt.params); got != tt.want {
			t.Errorf("queryKind(%v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		limit, def, max, want int
	}{
		{0, 50, 500, 50},
		{-3, 50, 500, 50},
		{10, 50, 500, 10},
		{900, 50, 500, 500},
	}

	for _, tt := range tests {
		if got := normalizeLimit(tt.limit, tt.def, tt.max); got != tt.want {
			t.Errorf("normalizeLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.def, tt.max, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate(strings.Repeat("x", 20), 10); got != strings.Repeat("x", 10)+"..." {
		t.Errorf("truncate = %q", got)
	}
}
