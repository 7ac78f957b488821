// Command wikiquery runs a single wiki lookup and prints the result as JSON.
//
// Usage:
//
//	wikiquery [flags] <command> [arguments]
//
// Commands:
//
//	search <query>           full-text search (-limit, -offset)
//	random                   random article titles (-limit)
//	geosearch <lat> <lon>    articles near a coordinate (-radius)
//	info <title>             resolve a page title
//	summary <title>          plain-text introduction
//	content <title>          plain-text article
//	html <title>             rendered HTML
//	images <title>           image URLs
//	main-image <title>       infobox image URL
//	references <title>       external links
//	links <title>            linked articles (-limit)
//	categories <title>       categories (-limit, -hidden)
//	backlinks <title>        pages linking here (-limit)
//	coordinates <title>      primary coordinates
//	infobox <title>          infobox fields, or one field with -key
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olgasafonova/wikiquery/wiki"
)

var errUsage = errors.New("usage")

type cliOptions struct {
	config  string
	limit   int
	offset  int
	radius  int
	hidden  bool
	key     string
	verbose bool
}

type command func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error)

func titleArg(args []string) (string, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", fmt.Errorf("%w: a page title is required", errUsage)
	}
	return title, nil
}

func pageCommand[R any](method func(*wiki.Client, context.Context, wiki.PageArgs) (R, error)) command {
	return func(ctx context.Context, c *wiki.Client, _ cliOptions, args []string) (any, error) {
		title, err := titleArg(args)
		if err != nil {
			return nil, err
		}
		return method(c, ctx, wiki.PageArgs{Title: title})
	}
}

var commands = map[string]command{
	"search": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return nil, fmt.Errorf("%w: a search query is required", errUsage)
		}
		return c.SearchMCP(ctx, wiki.SearchArgs{Query: query, Limit: opts.limit, Offset: opts.offset})
	},
	"random": func(ctx context.Context, c *wiki.Client, opts cliOptions, _ []string) (any, error) {
		return c.RandomMCP(ctx, wiki.RandomArgs{Limit: opts.limit})
	},
	"geosearch": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: geosearch takes <lat> <lon>", errUsage)
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid latitude %q", errUsage, args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid longitude %q", errUsage, args[1])
		}
		return c.GeoSearchMCP(ctx, wiki.GeoSearchArgs{Lat: lat, Lon: lon, Radius: opts.radius})
	},
	"info":        pageCommand((*wiki.Client).PageInfoMCP),
	"summary":     pageCommand((*wiki.Client).SummaryMCP),
	"content":     pageCommand((*wiki.Client).ContentMCP),
	"html":        pageCommand((*wiki.Client).HTMLMCP),
	"images":      pageCommand((*wiki.Client).ImagesMCP),
	"main-image":  pageCommand((*wiki.Client).MainImageMCP),
	"references":  pageCommand((*wiki.Client).ReferencesMCP),
	"coordinates": pageCommand((*wiki.Client).CoordinatesMCP),
	"links": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		title, err := titleArg(args)
		if err != nil {
			return nil, err
		}
		return c.LinksMCP(ctx, wiki.PageListArgs{Title: title, Limit: opts.limit})
	},
	"backlinks": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		title, err := titleArg(args)
		if err != nil {
			return nil, err
		}
		return c.BacklinksMCP(ctx, wiki.PageListArgs{Title: title, Limit: opts.limit})
	},
	"categories": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		title, err := titleArg(args)
		if err != nil {
			return nil, err
		}
		return c.CategoriesMCP(ctx, wiki.CategoriesArgs{Title: title, Limit: opts.limit, IncludeHidden: opts.hidden})
	},
	"infobox": func(ctx context.Context, c *wiki.Client, opts cliOptions, args []string) (any, error) {
		title, err := titleArg(args)
		if err != nil {
			return nil, err
		}
		return c.InfoboxMCP(ctx, wiki.InfoboxArgs{Title: title, Key: opts.key})
	},
}

// run executes one command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wikiquery", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := cliOptions{}
	fs.StringVar(&opts.config, "config", os.Getenv("WIKI_CONFIG_FILE"), "YAML config file")
	fs.IntVar(&opts.limit, "limit", 0, "results per request (0 uses the default)")
	fs.IntVar(&opts.offset, "offset", 0, "search offset")
	fs.IntVar(&opts.radius, "radius", 0, "geosearch radius in meters")
	fs.BoolVar(&opts.hidden, "hidden", false, "include hidden categories")
	fs.StringVar(&opts.key, "key", "", "infobox field to return")
	fs.BoolVar(&opts.verbose, "v", false, "log API requests to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: wikiquery [flags] <command> [arguments]")
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		return 2
	}

	var (
		config *wiki.Config
		err    error
	)
	if opts.config != "" {
		config, err = wiki.LoadConfigFile(opts.config)
	} else {
		config, err = wiki.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	client := wiki.NewClient(config, wiki.WithLogger(logger))

	result, err := cmd(ctx, client, opts, rest[1:])
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if code := wiki.Code(err); code != "" {
			fmt.Fprintf(stderr, "%s: %v\n", code, err)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
