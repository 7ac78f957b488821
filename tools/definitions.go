package tools

// AllTools contains all tool specifications for the wiki MCP server.
// Tool descriptions follow a structured format for LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// DISCOVERY TOOLS
	// ==========================================================================
	{
		Name:     "wiki_search",
		Method:   "Search",
		Title:    "Search Articles",
		Category: "discovery",
		Description: `Full-text search across the encyclopedia.

USE WHEN: User asks "find articles about X", "what pages mention X", or does not know the exact title of a page.

NOT FOR: Reading a page whose exact title is known (use wiki_page_summary instead).

PARAMETERS:
- query: Search terms (required)
- limit: Results per call (default 50, max 500)
- offset: Continue from next_offset of a previous call

RETURNS: Matching titles, has_more, and next_offset for the following page.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_random",
		Method:   "Random",
		Title:    "Random Articles",
		Category: "discovery",
		Description: `Pick random encyclopedia articles.

USE WHEN: User asks for "a random article", "surprise me", or wants sample titles.

NOT FOR: Finding articles on a topic (use wiki_search instead).

PARAMETERS:
- limit: Number of articles (default 1, max 500)

RETURNS: Random article titles from the main namespace.`,
		ReadOnly:  true,
		OpenWorld: true,
	},
	{
		Name:     "wiki_geosearch",
		Method:   "GeoSearch",
		Title:    "Articles Near a Location",
		Category: "discovery",
		Description: `Find articles about places near a coordinate.

USE WHEN: User asks "what is near X", "landmarks around these coordinates", or "articles within N meters of a point".

NOT FOR: Getting the coordinates of a known page (use wiki_page_coordinates instead).

PARAMETERS:
- lat: Latitude, -90 to 90 (required)
- lon: Longitude, -180 to 180 (required)
- radius: Meters (default 1000, max 10000)

RETURNS: Titles of geotagged articles inside the radius.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// PAGE TOOLS
	// ==========================================================================
	{
		Name:     "wiki_page_info",
		Method:   "PageInfo",
		Title:    "Page Info",
		Category: "page",
		Description: `Resolve an exact page title.

USE WHEN: User wants to check that a page exists, get its URL or page id, or know whether it is a disambiguation page.

NOT FOR: Reading page text (use wiki_page_summary or wiki_page_content instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Title, page id, canonical URL, and disambiguation flag.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_summary",
		Method:   "Summary",
		Title:    "Page Summary",
		Category: "page",
		Description: `Get the plain-text introduction of a page.

USE WHEN: User asks "what is X", "summarize X", or wants a short overview.

NOT FOR: The full article (use wiki_page_content instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Plain text of the lead section.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_content",
		Method:   "Content",
		Title:    "Page Content",
		Category: "page",
		Description: `Get the full plain-text content of a page.

USE WHEN: User needs details beyond the introduction, or asks to "read the whole article".

NOT FOR: A quick overview (use wiki_page_summary). Rendered markup (use wiki_page_html).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Plain text of the article, truncated flag set when cut for size.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_html",
		Method:   "HTML",
		Title:    "Page HTML",
		Category: "page",
		Description: `Get the rendered HTML of the latest revision of a page.

USE WHEN: User needs tables, markup, or links exactly as rendered.

NOT FOR: Reading prose (use wiki_page_content instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Rendered HTML, truncated flag set when cut for size.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_images",
		Method:   "Images",
		Title:    "Page Images",
		Category: "page",
		Description: `List the URLs of all images used on a page.

USE WHEN: User asks "show pictures of X" or "which images does page X use".

NOT FOR: The single lead image (use wiki_page_main_image instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Image URLs ordered by file title.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_main_image",
		Method:   "MainImage",
		Title:    "Main Image",
		Category: "page",
		Description: `Get the image shown in the infobox of a page.

USE WHEN: User wants "the picture of X" or a representative image.

NOT FOR: All images on the page (use wiki_page_images instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: The infobox image URL, or found=false when the infobox has none.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// STRUCTURE TOOLS
	// ==========================================================================
	{
		Name:     "wiki_page_references",
		Method:   "References",
		Title:    "External References",
		Category: "structure",
		Description: `List the external links cited by a page.

USE WHEN: User asks for sources, citations, or outside links of an article.

NOT FOR: Links to other articles (use wiki_page_links instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: External URLs.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_links",
		Method:   "Links",
		Title:    "Outgoing Links",
		Category: "structure",
		Description: `List the articles a page links to.

USE WHEN: User asks "what does X link to" or wants related articles.

NOT FOR: Pages linking TO X (use wiki_page_backlinks instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)
- limit: Results per request (default 100, max 500); all pages are fetched

RETURNS: Every linked main-namespace title.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_categories",
		Method:   "Categories",
		Title:    "Page Categories",
		Category: "structure",
		Description: `List the categories a page belongs to.

USE WHEN: User asks "how is X classified" or "what categories is X in".

NOT FOR: Article links (use wiki_page_links instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)
- limit: Results per request (default 100, max 500)
- include_hidden: Include hidden maintenance categories (default false)

RETURNS: Category titles.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_backlinks",
		Method:   "Backlinks",
		Title:    "Backlinks",
		Category: "structure",
		Description: `List the pages that link to a page.

USE WHEN: User asks "what links to X" or "where is X referenced".

NOT FOR: Links going out of X (use wiki_page_links instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)
- limit: Results per request (default 100, max 500); all pages are fetched

RETURNS: Every linking title.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_coordinates",
		Method:   "Coordinates",
		Title:    "Page Coordinates",
		Category: "structure",
		Description: `Get the geographic coordinates of a page.

USE WHEN: User asks "where is X" or "coordinates of X".

NOT FOR: Finding places near a point (use wiki_geosearch instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)

RETURNS: Latitude, longitude, and globe, or found=false for pages without coordinates.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// INFOBOX TOOLS
	// ==========================================================================
	{
		Name:     "wiki_page_infobox",
		Method:   "Infobox",
		Title:    "Infobox Lookup",
		Category: "infobox",
		Description: `Read the infobox of a page, whole or by key.

USE WHEN: User asks for a structured fact such as "birth date of X", "how old is X", "capital of X".

NOT FOR: Free-text questions about the article (use wiki_page_summary instead).

PARAMETERS:
- title: Exact page title, case-sensitive (required)
- key: Field name such as birth_date; derived keys such as age are computed (optional)

RETURNS: All infobox fields, or the value of one key with found=false when absent.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}
