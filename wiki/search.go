package wiki

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// projectList projects the titles of query.<name>
func projectList(name string) Projector[string] {
	return func(resp Response) ([]string, error) {
		return pluck(getSlice(getMap(resp["query"])[name]), "title"), nil
	}
}

// Search runs a full-text search and returns the first page of matching
// titles. limit is the page size; values above MaxLimit are clamped.
func (c *Client) Search(ctx context.Context, query string, limit int) (*Paginated[string], error) {
	return paginate(ctx, c, searchParams(query, limit), projectList("search"))
}

func searchParams(query string, limit int) url.Values {
	params := url.Values{}
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(normalizeLimit(limit, DefaultSearchLimit, MaxLimit)))
	return params
}

// Random returns up to limit random article titles from one request.
// The API always offers a continuation here; it is not followed.
// Limits above MaxLimit are clamped.
func (c *Client) Random(ctx context.Context, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("list", "random")
	params.Set("rnnamespace", "0")
	params.Set("rnlimit", strconv.Itoa(normalizeLimit(limit, DefaultRandomLimit, MaxLimit)))
	return c.listTitles(ctx, params, "random")
}

// GeoSearch returns the titles within radius meters of lat/lon from one
// request. Radii above MaxGeoRadius are clamped.
func (c *Client) GeoSearch(ctx context.Context, lat, lon float64, radius int) ([]string, error) {
	return c.listTitles(ctx, geoSearchParams(lat, lon, radius), "geosearch")
}

// listTitles issues a single query and projects query.<name>[*].title,
// ignoring any continue object
func (c *Client) listTitles(ctx context.Context, params url.Values, name string) ([]string, error) {
	resp, _, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	titles, err := projectList(name)(resp)
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

func geoSearchParams(lat, lon float64, radius int) url.Values {
	params := url.Values{}
	params.Set("list", "geosearch")
	params.Set("gsradius", strconv.Itoa(normalizeLimit(radius, DefaultGeoRadius, MaxGeoRadius)))
	params.Set("gscoord", formatCoord(lat)+"|"+formatCoord(lon))
	return params
}

// Page resolves title to a Page. The title must match the returned
// page title exactly, so redirects and case variants are not followed.
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &PageNotFoundError{Title: title}
	}

	params := url.Values{}
	params.Set("prop", "info|pageprops")
	params.Set("inprop", "url")
	params.Set("ppprop", "disambiguation")
	params.Set("titles", title)

	resp, _, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	pages := getMap(getMap(resp["query"])["pages"])
	for _, key := range sortedKeys(pages) {
		page := getMap(pages[key])
		if getString(page["title"]) != title {
			continue
		}
		if _, missing := page["missing"]; missing {
			break
		}
		if _, invalid := page["invalid"]; invalid {
			break
		}
		return newPage(PageRef{
			PageID: getInt(page["pageid"]),
			Title:  title,
			Raw:    page,
		}, c), nil
	}

	return nil, &PageNotFoundError{Title: title}
}
