package wiki

// Limits and defaults for list queries
const (
	// MaxLimit is the largest per-page limit the API accepts for normal clients.
	// Larger limits passed to list methods are clamped to it, not rejected.
	MaxLimit = 500

	DefaultSearchLimit    = 50
	DefaultRandomLimit    = 1
	DefaultLinksLimit     = 100
	DefaultCategoryLimit  = 100
	DefaultBacklinksLimit = 100

	// DefaultGeoRadius in meters
	DefaultGeoRadius = 1000
	// MaxGeoRadius is the API's upper bound for gsradius
	MaxGeoRadius = 10000

	// CharacterLimit caps text returned through MCP tools
	CharacterLimit = 25000
)

// PageRef identifies a resolved page
type PageRef struct {
	PageID int
	Title  string
	// Raw is the page object from the lookup response
	Raw map[string]any
}

// ImageInfo is one imageinfo entry of a file page
type ImageInfo struct {
	URL            string `json:"url"`
	DescriptionURL string `json:"descriptionurl,omitempty"`
}

// RawImage is a file page returned by the images generator
type RawImage struct {
	PageID          int         `json:"pageid,omitempty"`
	Namespace       int         `json:"ns"`
	Title           string      `json:"title"`
	ImageRepository string      `json:"imagerepository,omitempty"`
	ImageInfo       []ImageInfo `json:"imageinfo"`
}

// Coordinates is the first geo coordinate attached to a page
type Coordinates struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Primary bool    `json:"primary"`
	Globe   string  `json:"globe,omitempty"`
}

// CategoryOptions controls Categories and CategoriesPage
type CategoryOptions struct {
	// Limit per page; 0 means DefaultCategoryLimit, above MaxLimit is clamped
	Limit int
	// IncludeHidden also returns hidden maintenance categories
	IncludeHidden bool
}
