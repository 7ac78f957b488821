package wiki

// SearchArgs contains parameters for full-text search
type SearchArgs struct {
	Query  string `json:"query" jsonschema:"Search terms"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Results per page (default 50, max 500)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Continue from this offset (next_offset of a previous call)"`
}

// SearchResult is one page of search results
type SearchResult struct {
	Query      string   `json:"query"`
	Titles     []string `json:"titles"`
	Count      int      `json:"count"`
	HasMore    bool     `json:"has_more"`
	NextOffset int      `json:"next_offset,omitempty"`
}

// RandomArgs contains parameters for random article listing
type RandomArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of random articles (default 1, max 500)"`
}

// GeoSearchArgs contains parameters for a coordinate search
type GeoSearchArgs struct {
	Lat    float64 `json:"lat" jsonschema:"Latitude in decimal degrees"`
	Lon    float64 `json:"lon" jsonschema:"Longitude in decimal degrees"`
	Radius int     `json:"radius,omitempty" jsonschema:"Search radius in meters (default 1000, max 10000)"`
}

// TitlesResult is a list of page titles
type TitlesResult struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// PageArgs identifies a page by exact title
type PageArgs struct {
	Title string `json:"title" jsonschema:"Exact page title (case-sensitive)"`
}

// PageInfoResult describes a resolved page
type PageInfoResult struct {
	Title          string `json:"title"`
	PageID         int    `json:"page_id"`
	URL            string `json:"url,omitempty"`
	Disambiguation bool   `json:"disambiguation,omitempty"`
}

// TextResult carries page text, truncated for transport
type TextResult struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated,omitempty"`
}

// ImagesResult lists image URLs of a page
type ImagesResult struct {
	Title  string   `json:"title"`
	Images []string `json:"images"`
	Count  int      `json:"count"`
}

// MainImageResult is the infobox image of a page
type MainImageResult struct {
	Title string `json:"title"`
	Found bool   `json:"found"`
	URL   string `json:"url,omitempty"`
}

// ReferencesResult lists the external links of a page
type ReferencesResult struct {
	Title      string   `json:"title"`
	References []string `json:"references"`
	Count      int      `json:"count"`
}

// PageListArgs contains parameters for paginated page lists (links, backlinks)
type PageListArgs struct {
	Title string `json:"title" jsonschema:"Exact page title (case-sensitive)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Results per request (default 100, max 500); all pages are fetched"`
}

// PageListResult lists the titles related to a page
type PageListResult struct {
	Title  string   `json:"title"`
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// CategoriesArgs contains parameters for page categories
type CategoriesArgs struct {
	Title         string `json:"title" jsonschema:"Exact page title (case-sensitive)"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Results per request (default 100, max 500); all pages are fetched"`
	IncludeHidden bool   `json:"include_hidden,omitempty" jsonschema:"Include hidden maintenance categories"`
}

// CoordinatesResult is the primary coordinate of a page
type CoordinatesResult struct {
	Title   string  `json:"title"`
	Found   bool    `json:"found"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	Primary bool    `json:"primary,omitempty"`
	Globe   string  `json:"globe,omitempty"`
}

// InfoboxArgs contains parameters for infobox lookups
type InfoboxArgs struct {
	Title string `json:"title" jsonschema:"Exact page title (case-sensitive)"`
	Key   string `json:"key,omitempty" jsonschema:"Single field to return (e.g. birth_date, or a derived key such as age); omit for the whole infobox"`
}

// InfoboxResult is a whole infobox or one resolved field
type InfoboxResult struct {
	Title  string         `json:"title"`
	Key    string         `json:"key,omitempty"`
	Found  bool           `json:"found"`
	Value  any            `json:"value,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}
