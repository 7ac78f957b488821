package wiki

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Page is a resolved wiki page. Every accessor issues its own request;
// nothing is cached.
type Page struct {
	ref    PageRef
	client *Client
}

func newPage(ref PageRef, c *Client) *Page {
	return &Page{ref: ref, client: c}
}

// Title returns the canonical page title
func (p *Page) Title() string { return p.ref.Title }

// PageID returns the numeric page id
func (p *Page) PageID() int { return p.ref.PageID }

// Raw returns the page object from the lookup response
func (p *Page) Raw() map[string]any { return p.ref.Raw }

// FullURL returns the canonical article URL, when the lookup reported one
func (p *Page) FullURL() string { return getString(p.ref.Raw["fullurl"]) }

// IsDisambiguation reports whether the page is a disambiguation page
func (p *Page) IsDisambiguation() bool {
	_, ok := getMap(p.ref.Raw["pageprops"])["disambiguation"]
	return ok
}

// params starts a request scoped to this page by title
func (p *Page) params() url.Values {
	params := url.Values{}
	params.Set("titles", p.ref.Title)
	return params
}

// entry returns this page's object in resp or a PageNotFoundError
func (p *Page) entry(resp Response) (map[string]any, error) {
	page, ok := pageEntry(resp, p.ref.PageID)
	if !ok {
		return nil, &PageNotFoundError{Title: p.ref.Title, PageID: p.ref.PageID}
	}
	return page, nil
}

// HTML returns the rendered HTML of the latest revision
func (p *Page) HTML(ctx context.Context) (string, error) {
	params := p.params()
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvlimit", "1")
	params.Set("rvparse", "")

	resp, _, err := p.client.query(ctx, params)
	if err != nil {
		return "", err
	}
	page, err := p.entry(resp)
	if err != nil {
		return "", err
	}

	revisions := getSlice(page["revisions"])
	if len(revisions) == 0 {
		return "", &ProtocolError{Op: "revisions", Reason: "page " + p.ref.Title + " has no revisions"}
	}
	return getString(getMap(revisions[0])["*"]), nil
}

// Content returns the plain text extract of the whole page
func (p *Page) Content(ctx context.Context) (string, error) {
	return p.extract(ctx, false)
}

// Summary returns the plain text extract of the lead section
func (p *Page) Summary(ctx context.Context) (string, error) {
	return p.extract(ctx, true)
}

func (p *Page) extract(ctx context.Context, intro bool) (string, error) {
	params := p.params()
	params.Set("prop", "extracts")
	params.Set("explaintext", "")
	if intro {
		params.Set("exintro", "")
	}

	resp, _, err := p.client.query(ctx, params)
	if err != nil {
		return "", err
	}
	page, err := p.entry(resp)
	if err != nil {
		return "", err
	}
	return getString(page["extract"]), nil
}

// RawImages returns every file used on the page with its imageinfo,
// ordered by file title. A response without a query section means the
// page has no images.
func (p *Page) RawImages(ctx context.Context) ([]RawImage, error) {
	params := p.params()
	params.Set("generator", "images")
	params.Set("gimlimit", "max")
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")

	resp, _, err := p.client.query(ctx, params)
	if err != nil {
		return nil, err
	}

	pages := getMap(getMap(resp["query"])["pages"])
	images := make([]RawImage, 0, len(pages))
	for _, key := range sortedKeys(pages) {
		images = append(images, parseRawImage(getMap(pages[key])))
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Title < images[j].Title
	})
	return images, nil
}

func parseRawImage(m map[string]any) RawImage {
	img := RawImage{
		PageID:          getInt(m["pageid"]),
		Namespace:       getInt(m["ns"]),
		Title:           getString(m["title"]),
		ImageRepository: getString(m["imagerepository"]),
		ImageInfo:       []ImageInfo{},
	}
	for _, item := range getSlice(m["imageinfo"]) {
		info := getMap(item)
		img.ImageInfo = append(img.ImageInfo, ImageInfo{
			URL:            getString(info["url"]),
			DescriptionURL: getString(info["descriptionurl"]),
		})
	}
	return img
}

// Images returns the URL of every image on the page
func (p *Page) Images(ctx context.Context) ([]string, error) {
	raw, err := p.RawImages(ctx)
	if err != nil {
		return nil, err
	}
	urls := []string{}
	for _, img := range raw {
		for _, info := range img.ImageInfo {
			urls = append(urls, info.URL)
		}
	}
	return urls, nil
}

// MainImage returns the URL of the image named by the infobox "image"
// field. The images and the infobox are fetched concurrently; either
// failing fails the call.
func (p *Page) MainImage(ctx context.Context) (string, bool, error) {
	var (
		images []RawImage
		info   Infobox
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = p.RawImages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = p.Info(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", false, err
	}

	name, ok := info["image"].(string)
	if !ok || name == "" {
		return "", false, nil
	}
	target := "File:" + name
	for _, img := range images {
		if img.Title != target {
			continue
		}
		if len(img.ImageInfo) == 0 {
			return "", false, nil
		}
		return img.ImageInfo[0].URL, true, nil
	}
	return "", false, nil
}

// References returns the external links cited by the page
func (p *Page) References(ctx context.Context) ([]string, error) {
	params := p.params()
	params.Set("prop", "extlinks")
	params.Set("ellimit", "max")

	resp, _, err := p.client.query(ctx, params)
	if err != nil {
		return nil, err
	}
	page, err := p.entry(resp)
	if err != nil {
		return nil, err
	}
	return pluck(getSlice(page["extlinks"]), "*"), nil
}

// Links returns every article-namespace link on the page. limit is the
// page size, 0 means DefaultLinksLimit and values above MaxLimit are clamped.
func (p *Page) Links(ctx context.Context, limit int) ([]string, error) {
	return Collect(ctx, p.client, p.linksParams(limit), p.titlesOf("links"))
}

// LinksPage returns the first page of links with a cursor for the rest
func (p *Page) LinksPage(ctx context.Context, limit int) (*Paginated[string], error) {
	return paginate(ctx, p.client, p.linksParams(limit), p.titlesOf("links"))
}

func (p *Page) linksParams(limit int) url.Values {
	params := p.params()
	params.Set("prop", "links")
	params.Set("plnamespace", "0")
	params.Set("pllimit", strconv.Itoa(normalizeLimit(limit, DefaultLinksLimit, MaxLimit)))
	return params
}

// Categories returns every category the page belongs to
func (p *Page) Categories(ctx context.Context, opts CategoryOptions) ([]string, error) {
	return Collect(ctx, p.client, p.categoriesParams(opts), p.titlesOf("categories"))
}

// CategoriesPage returns the first page of categories with a cursor for the rest
func (p *Page) CategoriesPage(ctx context.Context, opts CategoryOptions) (*Paginated[string], error) {
	return paginate(ctx, p.client, p.categoriesParams(opts), p.titlesOf("categories"))
}

func (p *Page) categoriesParams(opts CategoryOptions) url.Values {
	params := p.params()
	params.Set("prop", "categories")
	params.Set("cllimit", strconv.Itoa(normalizeLimit(opts.Limit, DefaultCategoryLimit, MaxLimit)))
	if !opts.IncludeHidden {
		params.Set("clshow", "!hidden")
	}
	return params
}

// titlesOf projects the titles listed under field of this page's entry
func (p *Page) titlesOf(field string) Projector[string] {
	return func(resp Response) ([]string, error) {
		page, err := p.entry(resp)
		if err != nil {
			return nil, err
		}
		return pluck(getSlice(page[field]), "title"), nil
	}
}

// Backlinks returns every page linking here. limit is the page size and is
// clamped to MaxLimit.
func (p *Page) Backlinks(ctx context.Context, limit int) ([]string, error) {
	return Collect(ctx, p.client, p.backlinksParams(limit), projectList("backlinks"))
}

// BacklinksPage returns the first page of backlinks with a cursor for the rest
func (p *Page) BacklinksPage(ctx context.Context, limit int) (*Paginated[string], error) {
	return paginate(ctx, p.client, p.backlinksParams(limit), projectList("backlinks"))
}

func (p *Page) backlinksParams(limit int) url.Values {
	params := url.Values{}
	params.Set("list", "backlinks")
	params.Set("bllimit", strconv.Itoa(normalizeLimit(limit, DefaultBacklinksLimit, MaxLimit)))
	params.Set("bltitle", p.ref.Title)
	return params
}

// Coordinates returns the page's first coordinate. ok is false when
// the page carries none.
func (p *Page) Coordinates(ctx context.Context) (Coordinates, bool, error) {
	params := p.params()
	params.Set("prop", "coordinates")

	resp, _, err := p.client.query(ctx, params)
	if err != nil {
		return Coordinates{}, false, err
	}
	page, err := p.entry(resp)
	if err != nil {
		return Coordinates{}, false, err
	}

	coords := getSlice(page["coordinates"])
	if len(coords) == 0 {
		return Coordinates{}, false, nil
	}
	first := getMap(coords[0])
	lat, okLat := getFloat(first["lat"])
	lon, okLon := getFloat(first["lon"])
	if !okLat || !okLon {
		return Coordinates{}, false, nil
	}
	_, primary := first["primary"]
	return Coordinates{
		Lat:     lat,
		Lon:     lon,
		Primary: primary,
		Globe:   getString(first["globe"]),
	}, true, nil
}

// Info fetches the lead section and returns the parsed infobox
func (p *Page) Info(ctx context.Context) (Infobox, error) {
	params := p.params()
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvsection", "0")

	_, body, err := p.client.query(ctx, params)
	if err != nil {
		return nil, err
	}

	info, err := p.client.parser.Parse(ctx, body)
	if err != nil {
		return nil, &ParseError{Title: p.ref.Title, Err: err}
	}
	if info == nil {
		info = Infobox{}
	}
	return info, nil
}

// InfoValue resolves one infobox key. Keys the infobox lacks fall back
// to a determiner of the same name; ok is false when neither has a value.
func (p *Page) InfoValue(ctx context.Context, key string) (any, bool, error) {
	info, err := p.Info(ctx)
	if err != nil {
		return nil, false, err
	}
	v, ok := Lookup(info, key, p.client.now())
	return v, ok, nil
}
