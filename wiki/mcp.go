package wiki

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// MCP Tool wrapper methods
// These methods wrap the client methods with Args/Result types for MCP integration.

// SearchMCP is the MCP wrapper for Search. It returns one page; callers
// continue with next_offset.
func (c *Client) SearchMCP(ctx context.Context, args SearchArgs) (SearchResult, error) {
	if args.Query == "" {
		return SearchResult{}, fmt.Errorf("query is required")
	}

	params := searchParams(args.Query, args.Limit)
	if args.Offset > 0 {
		params.Set("sroffset", strconv.Itoa(args.Offset))
	}
	page, err := paginate(ctx, c, params, projectList("search"))
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{
		Query:   args.Query,
		Titles:  page.Results,
		Count:   len(page.Results),
		HasMore: page.HasNext(),
	}
	if page.HasNext() && page.Cursor.Key == "sroffset" {
		result.NextOffset, _ = strconv.Atoi(page.Cursor.Value)
	}
	return result, nil
}

// RandomMCP is the MCP wrapper for Random
func (c *Client) RandomMCP(ctx context.Context, args RandomArgs) (TitlesResult, error) {
	titles, err := c.Random(ctx, args.Limit)
	if err != nil {
		return TitlesResult{}, err
	}
	return TitlesResult{Titles: titles, Count: len(titles)}, nil
}

// GeoSearchMCP is the MCP wrapper for GeoSearch
func (c *Client) GeoSearchMCP(ctx context.Context, args GeoSearchArgs) (TitlesResult, error) {
	if args.Lat < -90 || args.Lat > 90 || args.Lon < -180 || args.Lon > 180 {
		return TitlesResult{}, fmt.Errorf("coordinates out of range: %v, %v", args.Lat, args.Lon)
	}
	titles, err := c.GeoSearch(ctx, args.Lat, args.Lon, args.Radius)
	if err != nil {
		return TitlesResult{}, err
	}
	return TitlesResult{Titles: titles, Count: len(titles)}, nil
}

// PageInfoMCP is the MCP wrapper for Page
func (c *Client) PageInfoMCP(ctx context.Context, args PageArgs) (PageInfoResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return PageInfoResult{}, err
	}
	return PageInfoResult{
		Title:          page.Title(),
		PageID:         page.PageID(),
		URL:            page.FullURL(),
		Disambiguation: page.IsDisambiguation(),
	}, nil
}

// SummaryMCP is the MCP wrapper for Page.Summary
func (c *Client) SummaryMCP(ctx context.Context, args PageArgs) (TextResult, error) {
	return c.pageText(ctx, args.Title, (*Page).Summary)
}

// ContentMCP is the MCP wrapper for Page.Content
func (c *Client) ContentMCP(ctx context.Context, args PageArgs) (TextResult, error) {
	return c.pageText(ctx, args.Title, (*Page).Content)
}

// HTMLMCP is the MCP wrapper for Page.HTML
func (c *Client) HTMLMCP(ctx context.Context, args PageArgs) (TextResult, error) {
	return c.pageText(ctx, args.Title, (*Page).HTML)
}

func (c *Client) pageText(ctx context.Context, title string, get func(*Page, context.Context) (string, error)) (TextResult, error) {
	page, err := c.Page(ctx, title)
	if err != nil {
		return TextResult{}, err
	}
	text, err := get(page, ctx)
	if err != nil {
		return TextResult{}, err
	}
	text, truncated := truncateText(text, CharacterLimit)
	return TextResult{Title: page.Title(), Text: text, Truncated: truncated}, nil
}

// ImagesMCP is the MCP wrapper for Page.Images
func (c *Client) ImagesMCP(ctx context.Context, args PageArgs) (ImagesResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return ImagesResult{}, err
	}
	images, err := page.Images(ctx)
	if err != nil {
		return ImagesResult{}, err
	}
	return ImagesResult{Title: page.Title(), Images: images, Count: len(images)}, nil
}

// MainImageMCP is the MCP wrapper for Page.MainImage
func (c *Client) MainImageMCP(ctx context.Context, args PageArgs) (MainImageResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return MainImageResult{}, err
	}
	url, ok, err := page.MainImage(ctx)
	if err != nil {
		return MainImageResult{}, err
	}
	return MainImageResult{Title: page.Title(), Found: ok, URL: url}, nil
}

// ReferencesMCP is the MCP wrapper for Page.References
func (c *Client) ReferencesMCP(ctx context.Context, args PageArgs) (ReferencesResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return ReferencesResult{}, err
	}
	refs, err := page.References(ctx)
	if err != nil {
		return ReferencesResult{}, err
	}
	return ReferencesResult{Title: page.Title(), References: refs, Count: len(refs)}, nil
}

// LinksMCP is the MCP wrapper for Page.Links
func (c *Client) LinksMCP(ctx context.Context, args PageListArgs) (PageListResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return PageListResult{}, err
	}
	links, err := page.Links(ctx, args.Limit)
	if err != nil {
		return PageListResult{}, err
	}
	return PageListResult{Title: page.Title(), Titles: links, Count: len(links)}, nil
}

// CategoriesMCP is the MCP wrapper for Page.Categories
func (c *Client) CategoriesMCP(ctx context.Context, args CategoriesArgs) (PageListResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return PageListResult{}, err
	}
	cats, err := page.Categories(ctx, CategoryOptions{Limit: args.Limit, IncludeHidden: args.IncludeHidden})
	if err != nil {
		return PageListResult{}, err
	}
	return PageListResult{Title: page.Title(), Titles: cats, Count: len(cats)}, nil
}

// BacklinksMCP is the MCP wrapper for Page.Backlinks
func (c *Client) BacklinksMCP(ctx context.Context, args PageListArgs) (PageListResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return PageListResult{}, err
	}
	links, err := page.Backlinks(ctx, args.Limit)
	if err != nil {
		return PageListResult{}, err
	}
	return PageListResult{Title: page.Title(), Titles: links, Count: len(links)}, nil
}

// CoordinatesMCP is the MCP wrapper for Page.Coordinates
func (c *Client) CoordinatesMCP(ctx context.Context, args PageArgs) (CoordinatesResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return CoordinatesResult{}, err
	}
	coords, ok, err := page.Coordinates(ctx)
	if err != nil {
		return CoordinatesResult{}, err
	}
	return CoordinatesResult{
		Title:   page.Title(),
		Found:   ok,
		Lat:     coords.Lat,
		Lon:     coords.Lon,
		Primary: coords.Primary,
		Globe:   coords.Globe,
	}, nil
}

// InfoboxMCP is the MCP wrapper for Page.Info and Page.InfoValue
func (c *Client) InfoboxMCP(ctx context.Context, args InfoboxArgs) (InfoboxResult, error) {
	page, err := c.Page(ctx, args.Title)
	if err != nil {
		return InfoboxResult{}, err
	}

	if args.Key == "" {
		info, err := page.Info(ctx)
		if err != nil {
			return InfoboxResult{}, err
		}
		return InfoboxResult{Title: page.Title(), Found: len(info) > 0, Fields: info}, nil
	}

	value, ok, err := page.InfoValue(ctx, args.Key)
	if err != nil {
		return InfoboxResult{}, err
	}
	return InfoboxResult{Title: page.Title(), Key: args.Key, Found: ok, Value: value}, nil
}

// truncateText cuts s to at most limit bytes on a rune boundary
func truncateText(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
