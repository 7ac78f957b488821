// Wikiquery MCP Server - A Model Context Protocol server for MediaWiki encyclopedias
// Provides read-only tools for searching, reading, and inspecting wiki pages
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikiquery/internal/infra"
	"github.com/olgasafonova/wikiquery/tools"
	"github.com/olgasafonova/wikiquery/tracing"
	"github.com/olgasafonova/wikiquery/wiki"
)

const (
	ServerName    = "wikiquery-mcp-server"
	ServerVersion = "1.0.0"
)

const serverInstructions = `Wikiquery provides read-only tools for a MediaWiki encyclopedia (English Wikipedia by default).

Discovery: wiki_search, wiki_random, wiki_geosearch
Page text: wiki_page_info, wiki_page_summary, wiki_page_content, wiki_page_html
Media: wiki_page_images, wiki_page_main_image
Structure: wiki_page_references, wiki_page_links, wiki_page_categories, wiki_page_backlinks, wiki_page_coordinates
Infobox: wiki_page_infobox (derived keys such as age are computed from birth_date)

Page titles are exact and case-sensitive. Resolve uncertain titles with wiki_search first.

Configure via environment variables:
- WIKI_API_URL: API endpoint (default https://en.wikipedia.org/w/api.php)
- WIKI_USER_AGENT: User-Agent sent with every request
- WIKI_TIMEOUT: Request timeout (Go duration, e.g. 30s)`

// recoverPanic logs a panic instead of crashing the process
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

// options are the command-line and environment settings of the server
type options struct {
	configFile     string
	metricsAddr    string
	breaker        bool
	breakerFails   int
	breakerTimeout time.Duration
	debug          bool
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet(ServerName, flag.ContinueOnError)
	opts := options{}
	fs.StringVar(&opts.configFile, "config", os.Getenv("WIKI_CONFIG_FILE"), "YAML config file (overridden by WIKI_* variables)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", os.Getenv("METRICS_ADDR"), "address for the Prometheus /metrics endpoint (empty disables it)")
	fs.BoolVar(&opts.breaker, "circuit-breaker", envBool("WIKI_CIRCUIT_BREAKER"), "stop calling the API after repeated failures")
	fs.IntVar(&opts.breakerFails, "breaker-threshold", 5, "consecutive failures before the circuit opens")
	fs.DurationVar(&opts.breakerTimeout, "breaker-reset", 30*time.Second, "how long the circuit stays open")
	fs.BoolVar(&opts.debug, "debug", envBool("WIKI_DEBUG"), "log every API request")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func loadConfig(opts options) (*wiki.Config, error) {
	if opts.configFile != "" {
		return wiki.LoadConfigFile(opts.configFile)
	}
	return wiki.LoadConfig()
}

// newClient builds the wiki client with the server's ambient options
func newClient(config *wiki.Config, opts options, logger *slog.Logger) *wiki.Client {
	clientOpts := []wiki.ClientOption{wiki.WithLogger(logger)}
	if opts.breaker {
		clientOpts = append(clientOpts, wiki.WithCircuitBreaker(infra.NewCircuitBreaker(
			infra.WithThreshold(opts.breakerFails),
			infra.WithResetTimeout(opts.breakerTimeout),
		)))
	}
	return wiki.NewClient(config, clientOpts...)
}

// newServer creates the MCP server with every wiki tool registered
func newServer(client *wiki.Client, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: serverInstructions,
	})
	tools.NewHandlerRegistry(client, logger).RegisterAll(server)
	return server
}

func run(ctx context.Context, args []string) error {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	// Configure logging to stderr (stdout is used for MCP protocol)
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	defer recoverPanic(logger, "server")

	config, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	if opts.metricsAddr != "" {
		metricsServer := newMetricsServer(opts.metricsAddr, logger)
		go serveMetrics(ctx, metricsServer, logger)
	}

	client := newClient(config, opts, logger)
	server := newServer(client, logger)

	logger.Info("Starting wikiquery MCP server",
		"name", ServerName,
		"version", ServerVersion,
		"wiki_url", config.BaseURL,
		"metrics_addr", opts.metricsAddr,
		"circuit_breaker", opts.breaker,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%s: %v", ServerName, err)
	}
}
