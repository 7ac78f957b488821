package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	rate     int
	interval time.Duration
	limit    rate.Limit

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh    chan struct{}
	closeOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows n requests per interval for each client, refilled
// evenly across the interval. A goroutine drops idle clients until Close.
func NewRateLimiter(n int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		rate:     n,
		interval: interval,
		limit:    rate.Every(interval / time.Duration(n)),
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.rate)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.interval * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, cl := range rl.limiters {
				if now.Sub(cl.lastSeen) >= rl.interval {
					delete(rl.limiters, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// SecurityConfig configures the HTTP middleware in front of the metrics endpoint
type SecurityConfig struct {
	// RateLimit is requests per minute per client IP; zero disables limiting
	RateLimit int
	// MaxBodySize caps request bodies in bytes
	MaxBodySize int64
}

// SecurityMiddleware applies rate limiting, body limits, and response headers
type SecurityMiddleware struct {
	next    http.Handler
	logger  *slog.Logger
	config  SecurityConfig
	limiter *RateLimiter
}

// NewSecurityMiddleware wraps next with the configured protections.
func NewSecurityMiddleware(next http.Handler, logger *slog.Logger, config SecurityConfig) *SecurityMiddleware {
	sm := &SecurityMiddleware{next: next, logger: logger, config: config}
	if config.RateLimit > 0 {
		sm.limiter = NewRateLimiter(config.RateLimit, time.Minute)
	}
	return sm
}

func (sm *SecurityMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if sm.limiter != nil && !sm.limiter.Allow(ip) {
		sm.logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	if sm.config.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, sm.config.MaxBodySize)
	}

	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Cache-Control", "no-store")

	sm.next.ServeHTTP(w, r)
}

// Close releases the rate limiter.
func (sm *SecurityMiddleware) Close() {
	if sm.limiter != nil {
		sm.limiter.Close()
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// newMetricsServer exposes Prometheus metrics and a health check
func newMetricsServer(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr: addr,
		Handler: NewSecurityMiddleware(mux, logger, SecurityConfig{
			RateLimit:   120,
			MaxBodySize: 1 << 10,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serveMetrics runs srv until ctx is cancelled
func serveMetrics(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	defer recoverPanic(logger, "metrics server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if sm, ok := srv.Handler.(*SecurityMiddleware); ok {
			sm.Close()
		}
	}()

	logger.Info("Serving metrics", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server failed", "error", err)
	}
}
