// Package infobox extracts infobox template parameters from a page's
// lead-section wikitext. It reads the API's JSON envelope with gjson and
// understands just enough template syntax to turn
//
//	{{Infobox person | name = Ada | birth_date = {{birth date|1815|12|10}} }}
//
// into {"name": "Ada", "birth_date": "1815|12|10"}.
package infobox

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the input is not a JSON document
	ErrInvalidJSON = errors.New("infobox: response is not valid JSON")

	// ErrNoContent is returned when no page in the response carries revision text
	ErrNoContent = errors.New("infobox: response has no revision content")
)

var (
	commentRegex   = regexp.MustCompile(`(?s)<!--.*?-->`)
	refPairRegex   = regexp.MustCompile(`(?is)<ref[^>/]*>.*?</ref>`)
	refSelfRegex   = regexp.MustCompile(`(?i)<ref[^>]*/>`)
	breakRegex     = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRegex       = regexp.MustCompile(`<[^>]+>`)
	pipedLinkRegex = regexp.MustCompile(`\[\[[^\[\]|]*\|([^\[\]]*)\]\]`)
	linkRegex      = regexp.MustCompile(`\[\[([^\[\]|]*)\]\]`)
	templateRegex  = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	emphasisRegex  = regexp.MustCompile(`'{2,}`)
	spaceRegex     = regexp.MustCompile(`[ \t]+`)
	infoboxRegex   = regexp.MustCompile(`(?i)\{\{\s*infobox`)
)

// Parser is the default infobox parser
type Parser struct{}

// NewParser returns a Parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse finds the first Infobox template in the wikitext of raw (a
// serialized query response) and returns its named parameters. A page
// without an infobox yields an empty map.
func (p *Parser) Parse(ctx context.Context, raw []byte) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}

	text, ok := wikitext(raw)
	if !ok {
		return nil, ErrNoContent
	}
	return ParseWikitext(text), nil
}

// wikitext returns the revision text of the first page that has one.
// Both the legacy "*" layout and the slots layout are understood.
func wikitext(raw []byte) (string, bool) {
	var (
		text  string
		found bool
	)
	gjson.GetBytes(raw, "query.pages").ForEach(func(_, page gjson.Result) bool {
		for _, path := range []string{`revisions.0.\*`, "revisions.0.content", "revisions.0.slots.main.content", `revisions.0.slots.main.\*`} {
			if r := page.Get(path); r.Exists() {
				text, found = r.String(), true
				return false
			}
		}
		return true
	})
	return text, found
}

// ParseWikitext extracts the parameters of the first Infobox template in text
func ParseWikitext(text string) map[string]any {
	out := map[string]any{}

	body, ok := infoboxBody(text)
	if !ok {
		return out
	}

	params := splitTopLevel(body)
	// params[0] is the template name
	for _, param := range params[1:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		key = normalizeKey(key)
		if key == "" {
			continue
		}
		if v := cleanValue(value); v != "" {
			out[key] = v
		}
	}
	return out
}

// infoboxBody returns the text between the braces of the first
// {{Infobox ...}} template, honouring nested templates.
func infoboxBody(text string) (string, bool) {
	loc := infoboxRegex.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	start := loc[0]

	depth := 0
	for i := start; i < len(text)-1; i++ {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && text[i+1] == '}':
			depth--
			if depth == 0 {
				return text[start+2 : i], true
			}
			i++
		}
	}
	// unterminated template: take the rest
	return text[start+2:], true
}

// splitTopLevel splits s on '|' outside nested templates and links
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			if i+1 < len(s) && s[i+1] == s[i] {
				depth++
				i++
			}
		case '}', ']':
			if i+1 < len(s) && s[i+1] == s[i] && depth > 0 {
				depth--
				i++
			}
		case '|':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	return strings.Join(strings.Fields(key), "_")
}

// cleanValue reduces wiki markup in a parameter value to plain text.
// Nested templates collapse to their positional arguments joined by '|',
// which keeps date triples such as {{birth date|1990|5|15}} intact.
func cleanValue(v string) string {
	v = commentRegex.ReplaceAllString(v, "")
	v = refPairRegex.ReplaceAllString(v, "")
	v = refSelfRegex.ReplaceAllString(v, "")
	v = breakRegex.ReplaceAllString(v, ", ")

	v = pipedLinkRegex.ReplaceAllString(v, "$1")
	v = linkRegex.ReplaceAllString(v, "$1")

	for templateRegex.MatchString(v) {
		v = templateRegex.ReplaceAllStringFunc(v, func(m string) string {
			return templateArgs(m[2 : len(m)-2])
		})
	}

	v = tagRegex.ReplaceAllString(v, "")
	v = emphasisRegex.ReplaceAllString(v, "")
	v = spaceRegex.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

// templateArgs returns the positional arguments of a template call
func templateArgs(inner string) string {
	parts := strings.Split(inner, "|")
	var args []string
	for _, p := range parts[1:] {
		if strings.Contains(p, "=") {
			continue
		}
		if p = strings.TrimSpace(p); p != "" {
			args = append(args, p)
		}
	}
	return strings.Join(args, "|")
}
